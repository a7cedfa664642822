package course

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Piyush6046/InstructoPlus/internal/auth"
	"github.com/Piyush6046/InstructoPlus/internal/config"
)

// CourseStore and LectureStore are the persistence surfaces the service
// needs. FindByID returns (nil, nil) when no document matches.
type CourseStore interface {
	Create(ctx context.Context, course *Course) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Course, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Course, error)
	FindPublished(ctx context.Context) ([]*CourseWithCreator, error)
	FindByCreator(ctx context.Context, creator primitive.ObjectID) ([]*Course, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, input UpdateCourseInput) (*Course, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddLecture(ctx context.Context, courseID, lectureID primitive.ObjectID) error
	RemoveLecture(ctx context.Context, courseID, lectureID primitive.ObjectID) error
}

type LectureStore interface {
	Create(ctx context.Context, lecture *Lecture) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Lecture, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Lecture, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, input UpdateLectureInput) (*Lecture, error)
	AddDocuments(ctx context.Context, id primitive.ObjectID, docs []Document) (*Lecture, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*Lecture, error)
	DeleteByCourse(ctx context.Context, courseID primitive.ObjectID) error
}

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*auth.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*auth.User, error)
}

// VideoSource resolves video-platform metadata for lecture imports.
type VideoSource interface {
	VideoDetails(ctx context.Context, videoID string) (*config.VideoDetails, error)
	PlaylistDetails(ctx context.Context, playlistID string) (*config.PlaylistDetails, error)
}

type CourseService struct {
	courses  CourseStore
	lectures LectureStore
	users    UserStore
	videos   VideoSource
	logger   *zap.Logger
}

func NewCourseService(courses *CourseRepository, lectures *LectureRepository, users *auth.UserRepository, videos *config.YoutubeService, logger *zap.Logger) *CourseService {
	return &CourseService{courses: courses, lectures: lectures, users: users, videos: videos, logger: logger}
}

func newCourseService(courses CourseStore, lectures LectureStore, users UserStore, videos VideoSource, logger *zap.Logger) *CourseService {
	return &CourseService{courses: courses, lectures: lectures, users: users, videos: videos, logger: logger}
}

func (s *CourseService) CreateCourse(ctx context.Context, creator primitive.ObjectID, req CreateCourseRequest) (*Course, error) {
	if req.Title == "" || req.Category == "" {
		return nil, ErrTitleCategoryMissing
	}
	course := &Course{
		Title:       req.Title,
		Category:    req.Category,
		Creator:     creator,
		IsPublished: true,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	s.logger.Info("Course created", zap.String("course_id", course.ID.Hex()), zap.String("creator", creator.Hex()))
	return course, nil
}

func (s *CourseService) PublishedCourses(ctx context.Context) ([]*CourseWithCreator, error) {
	return s.courses.FindPublished(ctx)
}

func (s *CourseService) CreatorCourses(ctx context.Context, creator primitive.ObjectID) ([]*Course, error) {
	return s.courses.FindByCreator(ctx, creator)
}

func (s *CourseService) Creator(ctx context.Context, id primitive.ObjectID) (*auth.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, auth.ErrUserNotFound
	}
	return user, nil
}

func (s *CourseService) EditCourse(ctx context.Context, id primitive.ObjectID, input UpdateCourseInput) (*Course, error) {
	return s.courses.UpdateFields(ctx, id, input)
}

func (s *CourseService) CourseByID(ctx context.Context, id primitive.ObjectID) (*Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

// RemoveCourse deletes the course and its lectures.
func (s *CourseService) RemoveCourse(ctx context.Context, id primitive.ObjectID) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.lectures.DeleteByCourse(ctx, id); err != nil {
		s.logger.Warn("Failed to remove lectures of deleted course", zap.String("course_id", id.Hex()), zap.Error(err))
	}
	return nil
}

func (s *CourseService) EnrolledStudents(ctx context.Context, courseID primitive.ObjectID) ([]*auth.User, error) {
	course, err := s.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return s.users.FindByIDs(ctx, course.EnrolledStudents)
}

func (s *CourseService) CreateLecture(ctx context.Context, courseID primitive.ObjectID, title string) (*Lecture, error) {
	if title == "" {
		return nil, ErrLectureTitleMissing
	}
	course, err := s.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	lecture := &Lecture{
		LectureTitle: title,
		CourseID:     course.ID,
	}
	if err := s.lectures.Create(ctx, lecture); err != nil {
		return nil, err
	}
	if err := s.courses.AddLecture(ctx, courseID, lecture.ID); err != nil {
		return nil, err
	}
	return lecture, nil
}

func (s *CourseService) CourseLectures(ctx context.Context, courseID primitive.ObjectID) (*Course, []*Lecture, error) {
	course, err := s.CourseByID(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	lectures, err := s.lectures.FindByIDs(ctx, course.Lectures)
	if err != nil {
		return nil, nil, err
	}
	return course, lectures, nil
}

func (s *CourseService) EditLecture(ctx context.Context, id primitive.ObjectID, input UpdateLectureInput) (*Lecture, error) {
	return s.lectures.UpdateFields(ctx, id, input)
}

func (s *CourseService) RemoveLecture(ctx context.Context, id primitive.ObjectID) error {
	lecture, err := s.lectures.Delete(ctx, id)
	if err != nil {
		return err
	}
	return s.courses.RemoveLecture(ctx, lecture.CourseID, lecture.ID)
}

func (s *CourseService) AddDocuments(ctx context.Context, lectureID primitive.ObjectID, docs []Document) (*Lecture, error) {
	return s.lectures.AddDocuments(ctx, lectureID, docs)
}

// ImportYoutube resolves a public video or playlist URL and creates one
// lecture per video, carrying over title, description and duration.
func (s *CourseService) ImportYoutube(ctx context.Context, courseID primitive.ObjectID, rawURL string) ([]*Lecture, error) {
	course, err := s.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var videos []config.VideoDetails
	if videoID := config.ExtractVideoID(rawURL); videoID != "" {
		details, err := s.videos.VideoDetails(ctx, videoID)
		if err != nil {
			return nil, err
		}
		videos = append(videos, *details)
	} else if playlistID := config.ExtractPlaylistID(rawURL); playlistID != "" {
		playlist, err := s.videos.PlaylistDetails(ctx, playlistID)
		if err != nil {
			return nil, err
		}
		videos = playlist.Videos
	} else {
		return nil, ErrInvalidVideoURL
	}

	var created []*Lecture
	for _, video := range videos {
		lecture := &Lecture{
			LectureTitle: video.Title,
			Description:  video.Description,
			VideoURL:     fmt.Sprintf("https://www.youtube.com/watch?v=%s", video.VideoID),
			Duration:     float64(video.Duration),
			CourseID:     course.ID,
		}
		if err := s.lectures.Create(ctx, lecture); err != nil {
			return created, err
		}
		if err := s.courses.AddLecture(ctx, course.ID, lecture.ID); err != nil {
			return created, err
		}
		created = append(created, lecture)
	}
	s.logger.Info("Imported lectures from video platform",
		zap.String("course_id", course.ID.Hex()), zap.Int("count", len(created)))
	return created, nil
}
