package payment

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// EnrollmentStore performs the dual-list enrollment write: the course id is
// appended to the user's enrolledCourses and the user id to the course's
// enrolledStudents. Both writes run in one session transaction so a partial
// enrollment cannot be left behind, and $addToSet keeps replays from
// duplicating either list.
type EnrollmentStore struct {
	client  *mongo.Client
	users   *mongo.Collection
	courses *mongo.Collection
}

func NewEnrollmentStore(db *mongo.Database) *EnrollmentStore {
	return &EnrollmentStore{
		client:  db.Client(),
		users:   db.Collection("users"),
		courses: db.Collection("courses"),
	}
}

func (s *EnrollmentStore) Enroll(ctx context.Context, userID, courseID primitive.ObjectID) error {
	if err := s.exists(ctx, s.users, userID, ErrUserNotFound); err != nil {
		return err
	}
	if err := s.exists(ctx, s.courses, courseID, ErrCourseNotFound); err != nil {
		return err
	}

	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		now := time.Now()
		if _, err := s.users.UpdateByID(sessCtx, userID, bson.M{
			"$addToSet": bson.M{"enrolledCourses": courseID},
			"$set":      bson.M{"updatedAt": now},
		}); err != nil {
			return nil, err
		}
		if _, err := s.courses.UpdateByID(sessCtx, courseID, bson.M{
			"$addToSet": bson.M{"enrolledStudents": userID},
			"$set":      bson.M{"updatedAt": now},
		}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

func (s *EnrollmentStore) exists(ctx context.Context, collection *mongo.Collection, id primitive.ObjectID, notFound error) error {
	count, err := collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return nil
}
