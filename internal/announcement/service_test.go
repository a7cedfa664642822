package announcement

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Piyush6046/InstructoPlus/internal/auth"
	"github.com/Piyush6046/InstructoPlus/internal/course"
)

type mockAnnouncementStore struct {
	created []*Announcement
}

func (m *mockAnnouncementStore) Create(_ context.Context, a *Announcement) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	m.created = append(m.created, a)
	return nil
}

func (m *mockAnnouncementStore) FindBySender(_ context.Context, sender primitive.ObjectID) ([]*Announcement, error) {
	var out []*Announcement
	for _, a := range m.created {
		if a.Sender == sender {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAnnouncementStore) FindByID(_ context.Context, id primitive.ObjectID) (*Announcement, error) {
	for _, a := range m.created {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

type mockCourseStore struct {
	byCreator map[primitive.ObjectID][]*course.Course
	byID      map[primitive.ObjectID]*course.Course
}

func (m *mockCourseStore) FindByCreator(_ context.Context, creator primitive.ObjectID) ([]*course.Course, error) {
	return m.byCreator[creator], nil
}

func (m *mockCourseStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*course.Course, error) {
	var out []*course.Course
	for _, id := range ids {
		if c, ok := m.byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
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

type mockNotificationStore struct {
	announcementID primitive.ObjectID
	userIDs        []primitive.ObjectID
	calls          int
}

func (m *mockNotificationStore) CreateForAnnouncement(_ context.Context, announcementID primitive.ObjectID, userIDs []primitive.ObjectID) error {
	m.calls++
	m.announcementID = announcementID
	m.userIDs = userIDs
	return nil
}

type mockAnnouncementMailer struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]bool
}

func (m *mockAnnouncementMailer) SendAnnouncementMail(to, _, _, _, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[to] {
		return errors.New("smtp rejected")
	}
	m.sent = append(m.sent, to)
	return nil
}

type fixture struct {
	announcements *mockAnnouncementStore
	courses       *mockCourseStore
	users         *mockUserStore
	notifications *mockNotificationStore
	mailer        *mockAnnouncementMailer
	svc           *AnnouncementService
	sender        primitive.ObjectID
}

func newFixture() *fixture {
	f := &fixture{
		announcements: &mockAnnouncementStore{},
		courses:       &mockCourseStore{byCreator: map[primitive.ObjectID][]*course.Course{}, byID: map[primitive.ObjectID]*course.Course{}},
		users:         &mockUserStore{users: map[primitive.ObjectID]*auth.User{}},
		notifications: &mockNotificationStore{},
		mailer:        &mockAnnouncementMailer{failFor: map[string]bool{}},
		sender:        primitive.NewObjectID(),
	}
	f.svc = newAnnouncementService(f.announcements, f.courses, f.users, f.notifications, f.mailer, zap.NewNop())
	f.users.users[f.sender] = &auth.User{ID: f.sender, Name: "Prof. Rao", Email: "rao@example.com"}
	return f
}

func (f *fixture) addStudent(email string) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.users.users[id] = &auth.User{ID: id, Email: email}
	return id
}

func (f *fixture) addCourse(students ...primitive.ObjectID) primitive.ObjectID {
	id := primitive.NewObjectID()
	c := &course.Course{ID: id, Creator: f.sender, EnrolledStudents: students}
	f.courses.byID[id] = c
	f.courses.byCreator[f.sender] = append(f.courses.byCreator[f.sender], c)
	return id
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()

	_, _, err := f.svc.Create(context.Background(), CreateInput{Description: "d", InApp: true, Sender: f.sender})
	require.ErrorIs(t, err, ErrTitleDescriptionMissing)

	_, _, err = f.svc.Create(context.Background(), CreateInput{Title: "t", Description: "d", Sender: f.sender})
	require.ErrorIs(t, err, ErrNoDeliveryChannel)

	_, _, err = f.svc.Create(context.Background(), CreateInput{Title: "t", Description: "d", InApp: true, Sender: f.sender})
	require.ErrorIs(t, err, ErrNoAudience)
}

func TestCreateDeduplicatesAcrossCourses(t *testing.T) {
	f := newFixture()
	shared := f.addStudent("shared@example.com")
	only1 := f.addStudent("one@example.com")
	only2 := f.addStudent("two@example.com")
	c1 := f.addCourse(shared, only1)
	c2 := f.addCourse(shared, only2)

	_, report, err := f.svc.Create(context.Background(), CreateInput{
		Title:       "Exam schedule",
		Description: "Midterm on Friday",
		CourseIDs:   []primitive.ObjectID{c1, c2},
		InApp:       true,
		Email:       true,
		Sender:      f.sender,
	})
	require.NoError(t, err)
	require.Equal(t, 3, report.Recipients)
	require.Equal(t, 3, report.EmailsSent)
	require.Equal(t, 0, report.EmailsFailed)
	require.Equal(t, 3, report.Notifications)
	require.Len(t, f.notifications.userIDs, 3)
}

func TestCreateExplicitStudentsWin(t *testing.T) {
	f := newFixture()
	target := f.addStudent("target@example.com")
	enrolled := f.addStudent("enrolled@example.com")
	c1 := f.addCourse(enrolled)

	a, report, err := f.svc.Create(context.Background(), CreateInput{
		Title:       "Private note",
		Description: "See me after class",
		CourseIDs:   []primitive.ObjectID{c1},
		StudentIDs:  []primitive.ObjectID{target},
		InApp:       true,
		Sender:      f.sender,
	})
	require.NoError(t, err)
	require.Equal(t, 1, report.Recipients)
	require.Equal(t, []primitive.ObjectID{target}, f.notifications.userIDs)
	require.Empty(t, a.CourseIDs)
	require.Equal(t, DeliveryInApp, a.DeliveryType)
}

func TestCreateAllCourses(t *testing.T) {
	f := newFixture()
	s1 := f.addStudent("one@example.com")
	s2 := f.addStudent("two@example.com")
	f.addCourse(s1)
	f.addCourse(s2)

	_, report, err := f.svc.Create(context.Background(), CreateInput{
		Title:       "Holiday",
		Description: "Campus closed Monday",
		AllCourses:  true,
		Email:       true,
		Sender:      f.sender,
	})
	require.NoError(t, err)
	require.Equal(t, 2, report.Recipients)
	require.Equal(t, 2, report.EmailsSent)
	// email-only delivery creates no in-app records
	require.Equal(t, 0, f.notifications.calls)
}

func TestCreateEmailFailuresAreIsolated(t *testing.T) {
	f := newFixture()
	ok1 := f.addStudent("ok1@example.com")
	bad := f.addStudent("bounce@example.com")
	ok2 := f.addStudent("ok2@example.com")
	c1 := f.addCourse(ok1, bad, ok2)
	f.mailer.failFor["bounce@example.com"] = true

	_, report, err := f.svc.Create(context.Background(), CreateInput{
		Title:       "Reading list",
		Description: "Chapter 4 by Monday",
		CourseIDs:   []primitive.ObjectID{c1},
		InApp:       true,
		Email:       true,
		Sender:      f.sender,
	})
	require.NoError(t, err)
	require.Equal(t, 3, report.Recipients)
	require.Equal(t, 2, report.EmailsSent)
	require.Equal(t, 1, report.EmailsFailed)
	// the failed email does not shrink the in-app fan-out
	require.Equal(t, 3, report.Notifications)
}

func TestByID(t *testing.T) {
	f := newFixture()
	student := f.addStudent("one@example.com")
	c1 := f.addCourse(student)

	created, _, err := f.svc.Create(context.Background(), CreateInput{
		Title:       "Syllabus",
		Description: "Updated",
		CourseIDs:   []primitive.ObjectID{c1},
		InApp:       true,
		Sender:      f.sender,
	})
	require.NoError(t, err)

	found, err := f.svc.ByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)

	_, err = f.svc.ByID(context.Background(), primitive.NewObjectID())
	require.ErrorIs(t, err, ErrAnnouncementNotFound)
}
