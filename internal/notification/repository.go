package notification

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{collection: db.Collection("notifications")}
}

// CreateForAnnouncement bulk-inserts one unread record per recipient.
func (r *NotificationRepository) CreateForAnnouncement(ctx context.Context, announcementID primitive.ObjectID, userIDs []primitive.ObjectID) error {
	if len(userIDs) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, len(userIDs))
	for i, userID := range userIDs {
		docs[i] = &Notification{
			ID:             primitive.NewObjectID(),
			UserID:         userID,
			AnnouncementID: announcementID,
			IsRead:         false,
			CreatedAt:      now,
		}
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *NotificationRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*Notification, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	var notifications []*Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flips the read flag, scoped to the owning user so one student
// cannot touch another's notifications.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID primitive.ObjectID) (*Notification, error) {
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	var n Notification
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"isRead": true}},
		opts,
	).Decode(&n)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID, "isRead": false})
}
