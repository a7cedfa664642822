package announcement

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DeliveryInApp = "inapp"
	DeliveryEmail = "email"
	DeliveryBoth  = "both"
)

var (
	ErrTitleDescriptionMissing = errors.New("title and description are required")
	ErrNoDeliveryChannel       = errors.New("at least one delivery option (in-app or email) must be selected")
	ErrNoAudience              = errors.New("please select courses or target specific students")
	ErrAnnouncementNotFound    = errors.New("announcement not found")
)

// Announcement is immutable after creation.
type Announcement struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title             string               `bson:"title" json:"title"`
	Description       string               `bson:"description" json:"description"`
	AttachmentURL     string               `bson:"attachmentUrl,omitempty" json:"attachmentUrl,omitempty"`
	CourseIDs         []primitive.ObjectID `bson:"courseIds,omitempty" json:"courseIds,omitempty"`
	RecipientStudents []primitive.ObjectID `bson:"recipientStudents,omitempty" json:"recipientStudents,omitempty"`
	Sender            primitive.ObjectID   `bson:"sender" json:"sender"`
	DeliveryType      string               `bson:"deliveryType" json:"deliveryType"`
	CreatedAt         time.Time            `bson:"createdAt" json:"createdAt"`
}

// CreateInput is the resolved form payload for a new announcement.
type CreateInput struct {
	Title         string
	Description   string
	AttachmentURL string
	AllCourses    bool
	CourseIDs     []primitive.ObjectID
	StudentIDs    []primitive.ObjectID
	InApp         bool
	Email         bool
	Sender        primitive.ObjectID
}

// DeliveryReport summarizes the fan-out: how many students were resolved
// and, for the email channel, how many sends succeeded or failed.
type DeliveryReport struct {
	Recipients    int `json:"recipients"`
	EmailsSent    int `json:"emailsSent"`
	EmailsFailed  int `json:"emailsFailed"`
	Notifications int `json:"notifications"`
}
