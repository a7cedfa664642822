package course

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CourseRepository struct {
	collection *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{collection: db.Collection("courses")}
}

func (r *CourseRepository) Create(ctx context.Context, course *Course) error {
	now := time.Now()
	course.CreatedAt = now
	course.UpdatedAt = now
	if course.ID.IsZero() {
		course.ID = primitive.NewObjectID()
	}
	if course.EnrolledStudents == nil {
		course.EnrolledStudents = []primitive.ObjectID{}
	}
	if course.Lectures == nil {
		course.Lectures = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, course)
	return err
}

func (r *CourseRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Course, error) {
	var course Course
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var courses []*Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// FindPublished lists published courses joined with a trimmed creator
// profile, the shape the course catalog renders from.
func (r *CourseRepository) FindPublished(ctx context.Context) ([]*CourseWithCreator, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isPublished": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "creator",
			"foreignField": "_id",
			"as":           "creatorInfo",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$creatorInfo", "preserveNullAndEmptyArrays": true}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var courses []*CourseWithCreator
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *CourseRepository) FindByCreator(ctx context.Context, creator primitive.ObjectID) ([]*Course, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"creator": creator})
	if err != nil {
		return nil, err
	}
	var courses []*Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *CourseRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, input UpdateCourseInput) (*Course, error) {
	set := bson.M{"updatedAt": time.Now()}
	if input.Title != "" {
		set["title"] = input.Title
	}
	if input.SubTitle != "" {
		set["subTitle"] = input.SubTitle
	}
	if input.Category != "" {
		set["category"] = input.Category
	}
	if input.Description != "" {
		set["description"] = input.Description
	}
	if input.Level != "" {
		set["level"] = input.Level
	}
	if input.IsPublished != nil {
		set["isPublished"] = *input.IsPublished
	}
	if input.Price != nil {
		set["price"] = *input.Price
	}
	if input.Thumbnail != "" {
		set["thumbnail"] = input.Thumbnail
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	var course Course
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&course)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) AddLecture(ctx context.Context, courseID, lectureID primitive.ObjectID) error {
	res, err := r.collection.UpdateByID(ctx, courseID, bson.M{
		"$push": bson.M{"lectures": lectureID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) RemoveLecture(ctx context.Context, courseID, lectureID primitive.ObjectID) error {
	_, err := r.collection.UpdateByID(ctx, courseID, bson.M{
		"$pull": bson.M{"lectures": lectureID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	return err
}

// SetRating stores the recomputed review aggregate on the course document.
func (r *CourseRepository) SetRating(ctx context.Context, courseID primitive.ObjectID, average float64, total int) error {
	res, err := r.collection.UpdateByID(ctx, courseID, bson.M{
		"$set": bson.M{
			"averageRating": average,
			"totalReviews":  total,
			"updatedAt":     time.Now(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrCourseNotFound
	}
	return nil
}

type LectureRepository struct {
	collection *mongo.Collection
}

func NewLectureRepository(db *mongo.Database) *LectureRepository {
	return &LectureRepository{collection: db.Collection("lectures")}
}

func (r *LectureRepository) Create(ctx context.Context, lecture *Lecture) error {
	now := time.Now()
	lecture.CreatedAt = now
	lecture.UpdatedAt = now
	if lecture.ID.IsZero() {
		lecture.ID = primitive.NewObjectID()
	}
	if lecture.Documents == nil {
		lecture.Documents = []Document{}
	}
	_, err := r.collection.InsertOne(ctx, lecture)
	return err
}

func (r *LectureRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Lecture, error) {
	var lecture Lecture
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&lecture)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &lecture, nil
}

func (r *LectureRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Lecture, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	var lectures []*Lecture
	if err := cursor.All(ctx, &lectures); err != nil {
		return nil, err
	}
	return lectures, nil
}

func (r *LectureRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, input UpdateLectureInput) (*Lecture, error) {
	set := bson.M{"updatedAt": time.Now()}
	if input.LectureTitle != "" {
		set["lectureTitle"] = input.LectureTitle
	}
	if input.Description != "" {
		set["description"] = input.Description
	}
	if input.IsPreviewFree != nil {
		set["isPreviewFree"] = *input.IsPreviewFree
	}
	if input.VideoURL != "" {
		set["videoUrl"] = input.VideoURL
	}
	if input.Duration != nil {
		set["duration"] = *input.Duration
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	var lecture Lecture
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&lecture)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrLectureNotFound
		}
		return nil, err
	}
	return &lecture, nil
}

func (r *LectureRepository) AddDocuments(ctx context.Context, id primitive.ObjectID, docs []Document) (*Lecture, error) {
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	update := bson.M{
		"$push": bson.M{"documents": bson.M{"$each": docs}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	var lecture Lecture
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&lecture)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrLectureNotFound
		}
		return nil, err
	}
	return &lecture, nil
}

func (r *LectureRepository) Delete(ctx context.Context, id primitive.ObjectID) (*Lecture, error) {
	var lecture Lecture
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&lecture)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrLectureNotFound
		}
		return nil, err
	}
	return &lecture, nil
}

func (r *LectureRepository) DeleteByCourse(ctx context.Context, courseID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"courseId": courseID})
	return err
}

// Search matches published courses whose text fields contain the keyword,
// case-insensitively.
func (r *CourseRepository) Search(ctx context.Context, keyword string) ([]*Course, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
	filter := bson.M{
		"isPublished": true,
		"$or": []bson.M{
			{"title": pattern},
			{"subTitle": pattern},
			{"level": pattern},
			{"category": pattern},
			{"description": pattern},
		},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var courses []*Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}
