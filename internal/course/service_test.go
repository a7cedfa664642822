package course

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Piyush6046/InstructoPlus/internal/auth"
	"github.com/Piyush6046/InstructoPlus/internal/config"
)

type mockCourseStore struct {
	courses map[primitive.ObjectID]*Course
}

func newMockCourseStore() *mockCourseStore {
	return &mockCourseStore{courses: make(map[primitive.ObjectID]*Course)}
}

func (m *mockCourseStore) Create(_ context.Context, course *Course) error {
	if course.ID.IsZero() {
		course.ID = primitive.NewObjectID()
	}
	m.courses[course.ID] = course
	return nil
}

func (m *mockCourseStore) FindByID(_ context.Context, id primitive.ObjectID) (*Course, error) {
	return m.courses[id], nil
}

func (m *mockCourseStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*Course, error) {
	var out []*Course
	for _, id := range ids {
		if c, ok := m.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCourseStore) FindPublished(_ context.Context) ([]*CourseWithCreator, error) {
	var out []*CourseWithCreator
	for _, c := range m.courses {
		if c.IsPublished {
			out = append(out, &CourseWithCreator{Course: *c})
		}
	}
	return out, nil
}

func (m *mockCourseStore) FindByCreator(_ context.Context, creator primitive.ObjectID) ([]*Course, error) {
	var out []*Course
	for _, c := range m.courses {
		if c.Creator == creator {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCourseStore) UpdateFields(_ context.Context, id primitive.ObjectID, input UpdateCourseInput) (*Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, ErrCourseNotFound
	}
	if input.Title != "" {
		c.Title = input.Title
	}
	if input.Price != nil {
		c.Price = *input.Price
	}
	if input.IsPublished != nil {
		c.IsPublished = *input.IsPublished
	}
	return c, nil
}

func (m *mockCourseStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.courses[id]; !ok {
		return ErrCourseNotFound
	}
	delete(m.courses, id)
	return nil
}

func (m *mockCourseStore) AddLecture(_ context.Context, courseID, lectureID primitive.ObjectID) error {
	c, ok := m.courses[courseID]
	if !ok {
		return ErrCourseNotFound
	}
	c.Lectures = append(c.Lectures, lectureID)
	return nil
}

func (m *mockCourseStore) RemoveLecture(_ context.Context, courseID, lectureID primitive.ObjectID) error {
	c, ok := m.courses[courseID]
	if !ok {
		return ErrCourseNotFound
	}
	kept := c.Lectures[:0]
	for _, id := range c.Lectures {
		if id != lectureID {
			kept = append(kept, id)
		}
	}
	c.Lectures = kept
	return nil
}

type mockLectureStore struct {
	lectures map[primitive.ObjectID]*Lecture
}

func newMockLectureStore() *mockLectureStore {
	return &mockLectureStore{lectures: make(map[primitive.ObjectID]*Lecture)}
}

func (m *mockLectureStore) Create(_ context.Context, lecture *Lecture) error {
	if lecture.ID.IsZero() {
		lecture.ID = primitive.NewObjectID()
	}
	m.lectures[lecture.ID] = lecture
	return nil
}

func (m *mockLectureStore) FindByID(_ context.Context, id primitive.ObjectID) (*Lecture, error) {
	return m.lectures[id], nil
}

func (m *mockLectureStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*Lecture, error) {
	var out []*Lecture
	for _, id := range ids {
		if l, ok := m.lectures[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockLectureStore) UpdateFields(_ context.Context, id primitive.ObjectID, input UpdateLectureInput) (*Lecture, error) {
	l, ok := m.lectures[id]
	if !ok {
		return nil, ErrLectureNotFound
	}
	if input.LectureTitle != "" {
		l.LectureTitle = input.LectureTitle
	}
	if input.VideoURL != "" {
		l.VideoURL = input.VideoURL
	}
	if input.Duration != nil {
		l.Duration = *input.Duration
	}
	return l, nil
}

func (m *mockLectureStore) AddDocuments(_ context.Context, id primitive.ObjectID, docs []Document) (*Lecture, error) {
	l, ok := m.lectures[id]
	if !ok {
		return nil, ErrLectureNotFound
	}
	l.Documents = append(l.Documents, docs...)
	return l, nil
}

func (m *mockLectureStore) Delete(_ context.Context, id primitive.ObjectID) (*Lecture, error) {
	l, ok := m.lectures[id]
	if !ok {
		return nil, ErrLectureNotFound
	}
	delete(m.lectures, id)
	return l, nil
}

func (m *mockLectureStore) DeleteByCourse(_ context.Context, courseID primitive.ObjectID) error {
	for id, l := range m.lectures {
		if l.CourseID == courseID {
			delete(m.lectures, id)
		}
	}
	return nil
}

type mockUserStore struct {
	users map[primitive.ObjectID]*auth.User
}

func (m *mockUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*auth.User, error) {
	return m.users[id], nil
}

func (m *mockUserStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*auth.User, error) {
	var out []*auth.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type mockVideoSource struct {
	videos    map[string]*config.VideoDetails
	playlists map[string]*config.PlaylistDetails
}

func (m *mockVideoSource) VideoDetails(_ context.Context, videoID string) (*config.VideoDetails, error) {
	if v, ok := m.videos[videoID]; ok {
		return v, nil
	}
	return nil, ErrInvalidVideoURL
}

func (m *mockVideoSource) PlaylistDetails(_ context.Context, playlistID string) (*config.PlaylistDetails, error) {
	if p, ok := m.playlists[playlistID]; ok {
		return p, nil
	}
	return nil, ErrInvalidVideoURL
}

func newTestCourseService() (*CourseService, *mockCourseStore, *mockLectureStore, *mockVideoSource) {
	courses := newMockCourseStore()
	lectures := newMockLectureStore()
	users := &mockUserStore{users: map[primitive.ObjectID]*auth.User{}}
	videos := &mockVideoSource{videos: map[string]*config.VideoDetails{}, playlists: map[string]*config.PlaylistDetails{}}
	return newCourseService(courses, lectures, users, videos, zap.NewNop()), courses, lectures, videos
}

func TestCreateCourse(t *testing.T) {
	svc, _, _, _ := newTestCourseService()
	creator := primitive.NewObjectID()

	c, err := svc.CreateCourse(context.Background(), creator, CreateCourseRequest{Title: "Go Basics", Category: "Programming"})
	require.NoError(t, err)
	require.True(t, c.IsPublished)
	require.Equal(t, creator, c.Creator)

	_, err = svc.CreateCourse(context.Background(), creator, CreateCourseRequest{Title: "Go Basics"})
	require.ErrorIs(t, err, ErrTitleCategoryMissing)
}

func TestCreateLectureLinksCourse(t *testing.T) {
	svc, courses, _, _ := newTestCourseService()
	c, err := svc.CreateCourse(context.Background(), primitive.NewObjectID(), CreateCourseRequest{Title: "Go Basics", Category: "Programming"})
	require.NoError(t, err)

	lecture, err := svc.CreateLecture(context.Background(), c.ID, "Hello world")
	require.NoError(t, err)
	require.Equal(t, c.ID, lecture.CourseID)
	require.Equal(t, []primitive.ObjectID{lecture.ID}, courses.courses[c.ID].Lectures)

	_, err = svc.CreateLecture(context.Background(), c.ID, "")
	require.ErrorIs(t, err, ErrLectureTitleMissing)

	_, err = svc.CreateLecture(context.Background(), primitive.NewObjectID(), "Orphan")
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestRemoveLectureUnlinksCourse(t *testing.T) {
	svc, courses, _, _ := newTestCourseService()
	c, err := svc.CreateCourse(context.Background(), primitive.NewObjectID(), CreateCourseRequest{Title: "Go Basics", Category: "Programming"})
	require.NoError(t, err)
	lecture, err := svc.CreateLecture(context.Background(), c.ID, "Hello world")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveLecture(context.Background(), lecture.ID))
	require.Empty(t, courses.courses[c.ID].Lectures)

	require.ErrorIs(t, svc.RemoveLecture(context.Background(), lecture.ID), ErrLectureNotFound)
}

func TestRemoveCourseDeletesLectures(t *testing.T) {
	svc, _, lectures, _ := newTestCourseService()
	c, err := svc.CreateCourse(context.Background(), primitive.NewObjectID(), CreateCourseRequest{Title: "Go Basics", Category: "Programming"})
	require.NoError(t, err)
	_, err = svc.CreateLecture(context.Background(), c.ID, "Hello world")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveCourse(context.Background(), c.ID))
	require.Empty(t, lectures.lectures)

	_, err = svc.CourseByID(context.Background(), c.ID)
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestImportYoutubeSingleVideo(t *testing.T) {
	svc, courses, _, videos := newTestCourseService()
	c, err := svc.CreateCourse(context.Background(), primitive.NewObjectID(), CreateCourseRequest{Title: "Go Basics", Category: "Programming"})
	require.NoError(t, err)
	videos.videos["dQw4w9WgXcQ"] = &config.VideoDetails{
		VideoID: "dQw4w9WgXcQ", Title: "Intro", Description: "Welcome", Duration: 212,
	}

	created, err := svc.ImportYoutube(context.Background(), c.ID, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.Equal(t, "Intro", created[0].LectureTitle)
	require.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", created[0].VideoURL)
	require.Equal(t, 212.0, created[0].Duration)
	require.Len(t, courses.courses[c.ID].Lectures, 1)
}

func TestImportYoutubePlaylist(t *testing.T) {
	svc, courses, _, videos := newTestCourseService()
	c, err := svc.CreateCourse(context.Background(), primitive.NewObjectID(), CreateCourseRequest{Title: "Go Basics", Category: "Programming"})
	require.NoError(t, err)
	videos.playlists["PL123abc"] = &config.PlaylistDetails{
		PlaylistID: "PL123abc",
		Title:      "Go course",
		Videos: []config.VideoDetails{
			{VideoID: "aaaaaaaaaaa", Title: "Part 1", Duration: 100},
			{VideoID: "bbbbbbbbbbb", Title: "Part 2", Duration: 200},
		},
	}

	created, err := svc.ImportYoutube(context.Background(), c.ID, "https://www.youtube.com/playlist?list=PL123abc")
	require.NoError(t, err)
	require.Len(t, created, 2)
	require.Len(t, courses.courses[c.ID].Lectures, 2)
}

func TestImportYoutubeRejectsBadURL(t *testing.T) {
	svc, _, _, _ := newTestCourseService()
	c, err := svc.CreateCourse(context.Background(), primitive.NewObjectID(), CreateCourseRequest{Title: "Go Basics", Category: "Programming"})
	require.NoError(t, err)

	_, err = svc.ImportYoutube(context.Background(), c.ID, "https://example.com/not-youtube")
	require.ErrorIs(t, err, ErrInvalidVideoURL)
}
