package announcement

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AnnouncementRepository struct {
	collection *mongo.Collection
}

func NewAnnouncementRepository(db *mongo.Database) *AnnouncementRepository {
	return &AnnouncementRepository{collection: db.Collection("announcements")}
}

func (r *AnnouncementRepository) Create(ctx context.Context, a *Announcement) error {
	a.CreatedAt = time.Now()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, a)
	return err
}

func (r *AnnouncementRepository) FindBySender(ctx context.Context, sender primitive.ObjectID) ([]*Announcement, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"sender": sender}, opts)
	if err != nil {
		return nil, err
	}
	var announcements []*Announcement
	if err := cursor.All(ctx, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

func (r *AnnouncementRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Announcement, error) {
	var a Announcement
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}
