package announcement

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Piyush6046/InstructoPlus/internal/auth"
	"github.com/Piyush6046/InstructoPlus/internal/course"
)

// emailConcurrency bounds the parallel sends of one fan-out so the SMTP
// relay is not flooded.
const emailConcurrency = 5

type AnnouncementStore interface {
	Create(ctx context.Context, a *Announcement) error
	FindBySender(ctx context.Context, sender primitive.ObjectID) ([]*Announcement, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Announcement, error)
}

type CourseStore interface {
	FindByCreator(ctx context.Context, creator primitive.ObjectID) ([]*course.Course, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*course.Course, error)
}

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*auth.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*auth.User, error)
}

// NotificationStore bulk-inserts the in-app fan-out records.
type NotificationStore interface {
	CreateForAnnouncement(ctx context.Context, announcementID primitive.ObjectID, userIDs []primitive.ObjectID) error
}

type Mailer interface {
	SendAnnouncementMail(to, subject, title, description, attachmentURL, senderName string) error
}

type AnnouncementService struct {
	announcements AnnouncementStore
	courses       CourseStore
	users         UserStore
	notifications NotificationStore
	mailer        Mailer
	logger        *zap.Logger
}

func NewAnnouncementService(
	announcements *AnnouncementRepository,
	courses *course.CourseRepository,
	users *auth.UserRepository,
	notifications NotificationStore,
	mailer Mailer,
	logger *zap.Logger,
) *AnnouncementService {
	return &AnnouncementService{
		announcements: announcements,
		courses:       courses,
		users:         users,
		notifications: notifications,
		mailer:        mailer,
		logger:        logger,
	}
}

func newAnnouncementService(announcements AnnouncementStore, courses CourseStore, users UserStore, notifications NotificationStore, mailer Mailer, logger *zap.Logger) *AnnouncementService {
	return &AnnouncementService{
		announcements: announcements,
		courses:       courses,
		users:         users,
		notifications: notifications,
		mailer:        mailer,
		logger:        logger,
	}
}

func deliveryType(inApp, email bool) string {
	switch {
	case inApp && email:
		return DeliveryBoth
	case inApp:
		return DeliveryInApp
	default:
		return DeliveryEmail
	}
}

// Create persists the announcement, resolves the audience and fans out the
// selected delivery channels. Individual email failures are isolated and
// reported in the summary instead of aborting the fan-out.
func (s *AnnouncementService) Create(ctx context.Context, input CreateInput) (*Announcement, *DeliveryReport, error) {
	if input.Title == "" || input.Description == "" {
		return nil, nil, ErrTitleDescriptionMissing
	}
	if !input.InApp && !input.Email {
		return nil, nil, ErrNoDeliveryChannel
	}

	courseIDs, studentIDs, err := s.resolveTarget(ctx, input)
	if err != nil {
		return nil, nil, err
	}

	a := &Announcement{
		Title:             input.Title,
		Description:       input.Description,
		AttachmentURL:     input.AttachmentURL,
		CourseIDs:         courseIDs,
		RecipientStudents: studentIDs,
		Sender:            input.Sender,
		DeliveryType:      deliveryType(input.InApp, input.Email),
	}
	if err := s.announcements.Create(ctx, a); err != nil {
		return nil, nil, err
	}

	students, err := s.resolveAudience(ctx, courseIDs, studentIDs)
	if err != nil {
		return nil, nil, err
	}
	report := &DeliveryReport{Recipients: len(students)}

	if input.Email && len(students) > 0 {
		senderName := ""
		if sender, err := s.users.FindByID(ctx, input.Sender); err == nil && sender != nil {
			senderName = sender.Name
		}
		sent, failed := s.sendEmails(ctx, a, students, senderName)
		report.EmailsSent = sent
		report.EmailsFailed = failed
	}

	if input.InApp && len(students) > 0 {
		userIDs := make([]primitive.ObjectID, len(students))
		for i, student := range students {
			userIDs[i] = student.ID
		}
		if err := s.notifications.CreateForAnnouncement(ctx, a.ID, userIDs); err != nil {
			return nil, nil, err
		}
		report.Notifications = len(userIDs)
	}

	s.logger.Info("Announcement delivered",
		zap.String("announcement_id", a.ID.Hex()),
		zap.Int("recipients", report.Recipients),
		zap.Int("emails_sent", report.EmailsSent),
		zap.Int("emails_failed", report.EmailsFailed))
	return a, report, nil
}

// resolveTarget picks the audience selector: explicit students win, then
// "all of the sender's courses", then an explicit course list.
func (s *AnnouncementService) resolveTarget(ctx context.Context, input CreateInput) (courseIDs, studentIDs []primitive.ObjectID, err error) {
	if len(input.StudentIDs) > 0 {
		return nil, input.StudentIDs, nil
	}
	if input.AllCourses {
		courses, err := s.courses.FindByCreator(ctx, input.Sender)
		if err != nil {
			return nil, nil, err
		}
		for _, c := range courses {
			courseIDs = append(courseIDs, c.ID)
		}
		return courseIDs, nil, nil
	}
	if len(input.CourseIDs) > 0 {
		return input.CourseIDs, nil, nil
	}
	return nil, nil, ErrNoAudience
}

// resolveAudience turns the target into a deduplicated student set. A
// student enrolled in two targeted courses is delivered to once.
func (s *AnnouncementService) resolveAudience(ctx context.Context, courseIDs, studentIDs []primitive.ObjectID) ([]*auth.User, error) {
	if len(studentIDs) > 0 {
		return s.users.FindByIDs(ctx, studentIDs)
	}
	if len(courseIDs) == 0 {
		return nil, nil
	}
	courses, err := s.courses.FindByIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	seen := make(map[primitive.ObjectID]struct{})
	var unique []primitive.ObjectID
	for _, c := range courses {
		for _, studentID := range c.EnrolledStudents {
			if _, ok := seen[studentID]; ok {
				continue
			}
			seen[studentID] = struct{}{}
			unique = append(unique, studentID)
		}
	}
	return s.users.FindByIDs(ctx, unique)
}

// sendEmails mails each student individually with bounded concurrency.
// Failures are counted and logged, never propagated.
func (s *AnnouncementService) sendEmails(ctx context.Context, a *Announcement, students []*auth.User, senderName string) (sent, failed int) {
	subject := "New Announcement: " + a.Title

	var mu sync.Mutex
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(emailConcurrency)
	for _, student := range students {
		student := student
		g.Go(func() error {
			err := s.mailer.SendAnnouncementMail(student.Email, subject, a.Title, a.Description, a.AttachmentURL, senderName)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				s.logger.Warn("Announcement email failed",
					zap.String("announcement_id", a.ID.Hex()),
					zap.String("to", student.Email),
					zap.Error(err))
			} else {
				sent++
			}
			return nil
		})
	}
	_ = g.Wait()
	return sent, failed
}

func (s *AnnouncementService) BySender(ctx context.Context, sender primitive.ObjectID) ([]*Announcement, error) {
	return s.announcements.FindBySender(ctx, sender)
}

func (s *AnnouncementService) ByID(ctx context.Context, id primitive.ObjectID) (*Announcement, error) {
	a, err := s.announcements.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAnnouncementNotFound
	}
	return a, nil
}
