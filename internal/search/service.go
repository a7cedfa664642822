package search

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Piyush6046/InstructoPlus/internal/config"
	"github.com/Piyush6046/InstructoPlus/internal/course"
)

type CourseStore interface {
	Search(ctx context.Context, keyword string) ([]*course.Course, error)
}

// KeywordSuggester maps a free-form query to a catalog keyword.
type KeywordSuggester interface {
	SuggestKeyword(ctx context.Context, input string) (string, error)
}

type SearchService struct {
	courses   CourseStore
	suggester KeywordSuggester
	logger    *zap.Logger
}

func NewSearchService(courses *course.CourseRepository, suggester *config.GenAIService, logger *zap.Logger) *SearchService {
	return &SearchService{courses: courses, suggester: suggester, logger: logger}
}

func newSearchService(courses CourseStore, suggester KeywordSuggester, logger *zap.Logger) *SearchService {
	return &SearchService{courses: courses, suggester: suggester, logger: logger}
}

// Search tries the raw query first. Only when that finds nothing does it
// ask the suggester for a better keyword; a suggester failure falls back
// to the empty literal result rather than erroring the request.
func (s *SearchService) Search(ctx context.Context, input string) ([]*course.Course, string, error) {
	input = strings.TrimSpace(input)
	courses, err := s.courses.Search(ctx, input)
	if err != nil {
		return nil, "", err
	}
	if len(courses) > 0 || input == "" {
		return courses, input, nil
	}

	keyword, err := s.suggester.SuggestKeyword(ctx, input)
	if err != nil {
		s.logger.Warn("Keyword suggestion failed", zap.String("input", input), zap.Error(err))
		return courses, input, nil
	}
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || strings.EqualFold(keyword, input) {
		return courses, input, nil
	}

	suggested, err := s.courses.Search(ctx, keyword)
	if err != nil {
		return nil, "", err
	}
	return suggested, keyword, nil
}
