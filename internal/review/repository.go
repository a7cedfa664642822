package review

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{collection: db.Collection("reviews")}
}

func (r *ReviewRepository) Create(ctx context.Context, review *Review) error {
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, review)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateReview
	}
	return err
}

func (r *ReviewRepository) FindAll(ctx context.Context) ([]*ReviewWithUser, error) {
	return r.findJoined(ctx, bson.M{})
}

func (r *ReviewRepository) FindByCourse(ctx context.Context, courseID primitive.ObjectID) ([]*ReviewWithUser, error) {
	return r.findJoined(ctx, bson.M{"course": courseID})
}

// findJoined lists reviews newest first with the author profile attached.
// Anonymous reviews keep their rating and text but drop the author.
func (r *ReviewRepository) findJoined(ctx context.Context, match bson.M) ([]*ReviewWithUser, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.M{"createdAt": -1}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user",
			"foreignField": "_id",
			"as":           "userInfo",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$userInfo", "preserveNullAndEmptyArrays": true}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var reviews []*ReviewWithUser
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	for _, review := range reviews {
		if review.IsAnonymous {
			review.Author = nil
		}
	}
	return reviews, nil
}

// AverageForCourse recomputes the course aggregate from the stored reviews.
func (r *ReviewRepository) AverageForCourse(ctx context.Context, courseID primitive.ObjectID) (*RatingSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"course": courseID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
			"total":   bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var results []RatingSummary
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &RatingSummary{}, nil
	}
	return &results[0], nil
}
