package notification

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Piyush6046/InstructoPlus/internal/announcement"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Notification is one per-student fan-out record of an announcement.
type Notification struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	AnnouncementID primitive.ObjectID `bson:"announcementId" json:"announcementId"`
	IsRead         bool               `bson:"isRead" json:"isRead"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// SenderSummary is the trimmed sender profile shipped with a notification.
type SenderSummary struct {
	ID       primitive.ObjectID `json:"_id"`
	Name     string             `json:"name"`
	PhotoURL string             `json:"photoUrl"`
}

// NotificationView joins a notification with its announcement and sender
// details for the inbox listing.
type NotificationView struct {
	Notification
	Announcement *announcement.Announcement `json:"announcement,omitempty"`
	Sender       *SenderSummary             `json:"sender,omitempty"`
}
