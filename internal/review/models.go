package review

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrCourseNotFound  = errors.New("course not found")
	ErrDuplicateReview = errors.New("you have already reviewed this course")
)

// Review is a single student rating of a course. One review per student
// per course, enforced by a unique index.
type Review struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	Course      primitive.ObjectID `bson:"course" json:"course"`
	Instructor  primitive.ObjectID `bson:"instructor" json:"instructor"`
	Rating      int                `bson:"rating" json:"rating"`
	Review      string             `bson:"review" json:"review"`
	IsAnonymous bool               `bson:"isAnonymous" json:"isAnonymous"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ReviewerSummary is the trimmed author profile joined onto a listed review.
type ReviewerSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	PhotoURL string             `bson:"photoUrl" json:"photoUrl"`
}

// ReviewWithUser is a review joined with its author for listings. Anonymous
// reviews ship without the author profile.
type ReviewWithUser struct {
	Review `bson:",inline"`
	Author *ReviewerSummary `bson:"userInfo" json:"userInfo,omitempty"`
}

type CreateReviewRequest struct {
	CourseID    string `json:"courseId"`
	Rating      int    `json:"rating"`
	Review      string `json:"review"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// RatingSummary is the aggregate a course carries after a review lands.
type RatingSummary struct {
	Average float64 `bson:"average" json:"average"`
	Total   int     `bson:"total" json:"total"`
}
