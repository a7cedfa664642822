package user

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Piyush6046/InstructoPlus/internal/auth"
	"github.com/Piyush6046/InstructoPlus/internal/course"
)

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*auth.User, error)
	Update(ctx context.Context, user *auth.User) error
}

type CourseStore interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*course.Course, error)
}

// Profile is a user joined with the courses they are enrolled in.
type Profile struct {
	*auth.User
	EnrolledCourseDetails []*course.Course `json:"enrolledCourseDetails"`
}

type UpdateProfileInput struct {
	Name        string
	Description string
	PhotoURL    string
}

type UserService struct {
	users   UserStore
	courses CourseStore
	logger  *zap.Logger
}

func NewUserService(users *auth.UserRepository, courses *course.CourseRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, courses: courses, logger: logger}
}

func newUserService(users UserStore, courses CourseStore, logger *zap.Logger) *UserService {
	return &UserService{users: users, courses: courses, logger: logger}
}

// Current returns the authenticated user's profile with their enrolled
// courses resolved.
func (s *UserService) Current(ctx context.Context, userID primitive.ObjectID) (*Profile, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, auth.ErrUserNotFound
	}
	enrolled, err := s.courses.FindByIDs(ctx, u.EnrolledCourses)
	if err != nil {
		return nil, err
	}
	return &Profile{User: u, EnrolledCourseDetails: enrolled}, nil
}

func (s *UserService) ByID(ctx context.Context, userID primitive.ObjectID) (*auth.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

// UpdateProfile applies the submitted fields, leaving blanks untouched.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, input UpdateProfileInput) (*auth.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, auth.ErrUserNotFound
	}
	if input.Name != "" {
		u.Name = input.Name
	}
	if input.Description != "" {
		u.Description = input.Description
	}
	if input.PhotoURL != "" {
		u.PhotoURL = input.PhotoURL
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("Profile updated", zap.String("user_id", userID.Hex()))
	return u, nil
}
