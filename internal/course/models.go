package course

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrCourseNotFound       = errors.New("course not found")
	ErrLectureNotFound      = errors.New("lecture not found")
	ErrTitleCategoryMissing = errors.New("title and category are required")
	ErrLectureTitleMissing  = errors.New("lecture title is required")
	ErrInvalidVideoURL      = errors.New("URL is not a recognizable video or playlist link")
)

type Course struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title            string               `bson:"title" json:"title"`
	SubTitle         string               `bson:"subTitle,omitempty" json:"subTitle,omitempty"`
	Description      string               `bson:"description,omitempty" json:"description,omitempty"`
	Category         string               `bson:"category" json:"category"`
	Level            string               `bson:"level,omitempty" json:"level,omitempty"`
	Price            float64              `bson:"price" json:"price"`
	Thumbnail        string               `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	IsPublished      bool                 `bson:"isPublished" json:"isPublished"`
	Creator          primitive.ObjectID   `bson:"creator" json:"creator"`
	EnrolledStudents []primitive.ObjectID `bson:"enrolledStudents" json:"enrolledStudents"`
	Lectures         []primitive.ObjectID `bson:"lectures" json:"lectures"`
	AverageRating    float64              `bson:"averageRating" json:"averageRating"`
	TotalReviews     int                  `bson:"totalReviews" json:"totalReviews"`
	CreatedAt        time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// CreatorSummary is the slice of the creator profile shipped with course
// listings.
type CreatorSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	PhotoURL string             `bson:"photoUrl" json:"photoUrl"`
}

// CourseWithCreator is a course joined with its creator summary.
type CourseWithCreator struct {
	Course  `bson:",inline"`
	Creator CreatorSummary `bson:"creatorInfo" json:"creator"`
}

type Document struct {
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	URL         string `bson:"url" json:"url"`
}

type Lecture struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	LectureTitle  string             `bson:"lectureTitle" json:"lectureTitle"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	VideoURL      string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	Duration      float64            `bson:"duration" json:"duration"` // seconds
	IsPreviewFree bool               `bson:"isPreviewFree" json:"isPreviewFree"`
	CourseID      primitive.ObjectID `bson:"courseId" json:"courseId"`
	Documents     []Document         `bson:"documents" json:"documents"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type CreateCourseRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// UpdateCourseInput carries the editable course fields. Pointer fields
// distinguish "not provided" from zero values.
type UpdateCourseInput struct {
	Title       string
	SubTitle    string
	Category    string
	Description string
	Level       string
	IsPublished *bool
	Price       *float64
	Thumbnail   string
}

// UpdateLectureInput mirrors UpdateCourseInput for lectures.
type UpdateLectureInput struct {
	LectureTitle  string
	Description   string
	IsPreviewFree *bool
	VideoURL      string
	Duration      *float64
}
