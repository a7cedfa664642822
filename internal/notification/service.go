package notification

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Piyush6046/InstructoPlus/internal/announcement"
	"github.com/Piyush6046/InstructoPlus/internal/auth"
)

type NotificationStore interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*Notification, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) (*Notification, error)
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type AnnouncementStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*announcement.Announcement, error)
}

type UserStore interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*auth.User, error)
}

type NotificationService struct {
	repo          NotificationStore
	announcements AnnouncementStore
	users         UserStore
	logger        *zap.Logger
}

func NewNotificationService(repo *NotificationRepository, announcements *announcement.AnnouncementRepository, users *auth.UserRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, announcements: announcements, users: users, logger: logger}
}

func newNotificationService(repo NotificationStore, announcements AnnouncementStore, users UserStore, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, announcements: announcements, users: users, logger: logger}
}

// List returns the user's notifications newest first, each joined with its
// announcement and the announcement's sender profile.
func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID) ([]*NotificationView, error) {
	notifications, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]*NotificationView, 0, len(notifications))
	senderIDs := make(map[primitive.ObjectID]struct{})
	announcementsByID := make(map[primitive.ObjectID]*announcement.Announcement)

	for _, n := range notifications {
		a, ok := announcementsByID[n.AnnouncementID]
		if !ok {
			a, err = s.announcements.FindByID(ctx, n.AnnouncementID)
			if err != nil {
				return nil, err
			}
			announcementsByID[n.AnnouncementID] = a
		}
		if a != nil {
			senderIDs[a.Sender] = struct{}{}
		}
		views = append(views, &NotificationView{Notification: *n, Announcement: a})
	}

	ids := make([]primitive.ObjectID, 0, len(senderIDs))
	for id := range senderIDs {
		ids = append(ids, id)
	}
	senders, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	sendersByID := make(map[primitive.ObjectID]*auth.User, len(senders))
	for _, sender := range senders {
		sendersByID[sender.ID] = sender
	}
	for _, view := range views {
		if view.Announcement == nil {
			continue
		}
		if sender, ok := sendersByID[view.Announcement.Sender]; ok {
			view.Sender = &SenderSummary{ID: sender.ID, Name: sender.Name, PhotoURL: sender.PhotoURL}
		}
	}
	return views, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID primitive.ObjectID) (*Notification, error) {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
