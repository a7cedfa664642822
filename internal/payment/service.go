package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Piyush6046/InstructoPlus/internal/config"
	"github.com/Piyush6046/InstructoPlus/internal/course"
)

type CourseStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*course.Course, error)
}

type Enroller interface {
	Enroll(ctx context.Context, userID, courseID primitive.ObjectID) error
}

type OrderCreator interface {
	CreateOrder(amount int64, currency, receipt string) (map[string]interface{}, error)
}

type PaymentService struct {
	courses  CourseStore
	enroller Enroller
	gateway  OrderCreator
	secret   string
	logger   *zap.Logger
}

func NewPaymentService(courses *course.CourseRepository, enroller *EnrollmentStore, gateway *config.PaymentGateway, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		courses:  courses,
		enroller: enroller,
		gateway:  gateway,
		secret:   gateway.Secret(),
		logger:   logger,
	}
}

func newPaymentService(courses CourseStore, enroller Enroller, gateway OrderCreator, secret string, logger *zap.Logger) *PaymentService {
	return &PaymentService{courses: courses, enroller: enroller, gateway: gateway, secret: secret, logger: logger}
}

// CreateOrder opens a gateway order for a paid course. The amount is the
// course price converted to the smallest currency unit.
func (s *PaymentService) CreateOrder(ctx context.Context, courseID primitive.ObjectID) (map[string]interface{}, error) {
	c, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}
	if c.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	// round, don't truncate: 4.35*100 is 434.999… in float64
	amount := int64(math.Round(c.Price * 100))
	return s.gateway.CreateOrder(amount, "INR", courseID.Hex())
}

// VerifySignature recomputes HMAC-SHA256(secret, orderID|paymentID) and
// compares it to the gateway-supplied signature in constant time.
func (s *PaymentService) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyPayment checks the gateway signature and, on success, enrolls the
// user. A replay of the same valid confirmation is a no-op: both enrollment
// lists are append-if-absent. A bad signature mutates nothing.
func (s *PaymentService) VerifyPayment(ctx context.Context, userID, courseID primitive.ObjectID, orderID, paymentID, signature string) error {
	if !s.VerifySignature(orderID, paymentID, signature) {
		s.logger.Warn("Payment signature mismatch",
			zap.String("order_id", orderID), zap.String("payment_id", paymentID))
		return ErrInvalidSignature
	}
	if err := s.enroller.Enroll(ctx, userID, courseID); err != nil {
		return err
	}
	s.logger.Info("Payment verified and user enrolled",
		zap.String("user_id", userID.Hex()), zap.String("course_id", courseID.Hex()))
	return nil
}

// VerifyFree enrolls the user in a zero-price course without a gateway
// confirmation.
func (s *PaymentService) VerifyFree(ctx context.Context, userID, courseID primitive.ObjectID) error {
	c, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrCourseNotFound
	}
	if c.Price > 0 {
		return ErrCourseNotFree
	}
	return s.enroller.Enroll(ctx, userID, courseID)
}
