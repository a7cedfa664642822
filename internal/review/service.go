package review

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Piyush6046/InstructoPlus/internal/course"
)

type ReviewStore interface {
	Create(ctx context.Context, review *Review) error
	FindAll(ctx context.Context) ([]*ReviewWithUser, error)
	FindByCourse(ctx context.Context, courseID primitive.ObjectID) ([]*ReviewWithUser, error)
	AverageForCourse(ctx context.Context, courseID primitive.ObjectID) (*RatingSummary, error)
}

type CourseStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*course.Course, error)
	SetRating(ctx context.Context, courseID primitive.ObjectID, average float64, total int) error
}

type ReviewService struct {
	reviews ReviewStore
	courses CourseStore
	logger  *zap.Logger
}

func NewReviewService(reviews *ReviewRepository, courses *course.CourseRepository, logger *zap.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, courses: courses, logger: logger}
}

func newReviewService(reviews ReviewStore, courses CourseStore, logger *zap.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, courses: courses, logger: logger}
}

// Create stores the review and refreshes the course's rating aggregate.
// The instructor is captured from the course at write time.
func (s *ReviewService) Create(ctx context.Context, userID, courseID primitive.ObjectID, rating int, text string, isAnonymous bool) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	c, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}

	review := &Review{
		User:        userID,
		Course:      courseID,
		Instructor:  c.Creator,
		Rating:      rating,
		Review:      text,
		IsAnonymous: isAnonymous,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	summary, err := s.reviews.AverageForCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.courses.SetRating(ctx, courseID, summary.Average, summary.Total); err != nil {
		return nil, err
	}
	s.logger.Info("Review recorded",
		zap.String("course_id", courseID.Hex()),
		zap.Int("rating", rating),
		zap.Float64("average", summary.Average))
	return review, nil
}

func (s *ReviewService) All(ctx context.Context) ([]*ReviewWithUser, error) {
	return s.reviews.FindAll(ctx)
}

func (s *ReviewService) ByCourse(ctx context.Context, courseID primitive.ObjectID) ([]*ReviewWithUser, error) {
	return s.reviews.FindByCourse(ctx, courseID)
}
