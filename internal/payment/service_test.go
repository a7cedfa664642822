package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Piyush6046/InstructoPlus/internal/course"
)

type mockCourseStore struct {
	courses map[primitive.ObjectID]*course.Course
}

func (m *mockCourseStore) FindByID(_ context.Context, id primitive.ObjectID) (*course.Course, error) {
	return m.courses[id], nil
}

type mockEnroller struct {
	calls []struct{ userID, courseID primitive.ObjectID }
	err   error
}

func (m *mockEnroller) Enroll(_ context.Context, userID, courseID primitive.ObjectID) error {
	if m.err != nil {
		return m.err
	}
	m.calls = append(m.calls, struct{ userID, courseID primitive.ObjectID }{userID, courseID})
	return nil
}

type mockGateway struct {
	lastAmount   int64
	lastCurrency string
	lastReceipt  string
}

func (m *mockGateway) CreateOrder(amount int64, currency, receipt string) (map[string]interface{}, error) {
	m.lastAmount = amount
	m.lastCurrency = currency
	m.lastReceipt = receipt
	return map[string]interface{}{"id": "order_test", "amount": amount, "currency": currency}, nil
}

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func newTestService(courses *mockCourseStore, enroller *mockEnroller, gateway *mockGateway, secret string) *PaymentService {
	return newPaymentService(courses, enroller, gateway, secret, zap.NewNop())
}

func TestCreateOrder(t *testing.T) {
	courseID := primitive.NewObjectID()
	courses := &mockCourseStore{courses: map[primitive.ObjectID]*course.Course{
		courseID: {ID: courseID, Title: "Go Basics", Price: 499.0},
	}}
	gateway := &mockGateway{}
	svc := newTestService(courses, &mockEnroller{}, gateway, "s3cr3t")

	order, err := svc.CreateOrder(context.Background(), courseID)
	require.NoError(t, err)
	require.Equal(t, "order_test", order["id"])
	require.Equal(t, int64(49900), gateway.lastAmount)
	require.Equal(t, "INR", gateway.lastCurrency)
	require.Equal(t, courseID.Hex(), gateway.lastReceipt)
}

func TestCreateOrderRoundsToNearestPaisa(t *testing.T) {
	cases := []struct {
		price float64
		want  int64
	}{
		{4.35, 435},
		{1299.99, 129999},
		{0.01, 1},
		{499.0, 49900},
	}
	for _, tc := range cases {
		courseID := primitive.NewObjectID()
		courses := &mockCourseStore{courses: map[primitive.ObjectID]*course.Course{
			courseID: {ID: courseID, Price: tc.price},
		}}
		gateway := &mockGateway{}
		svc := newTestService(courses, &mockEnroller{}, gateway, "s3cr3t")

		_, err := svc.CreateOrder(context.Background(), courseID)
		require.NoError(t, err)
		require.Equal(t, tc.want, gateway.lastAmount, "price %v", tc.price)
	}
}

func TestCreateOrderUnknownCourse(t *testing.T) {
	svc := newTestService(&mockCourseStore{courses: map[primitive.ObjectID]*course.Course{}}, &mockEnroller{}, &mockGateway{}, "s3cr3t")

	_, err := svc.CreateOrder(context.Background(), primitive.NewObjectID())
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCreateOrderFreeCourse(t *testing.T) {
	courseID := primitive.NewObjectID()
	courses := &mockCourseStore{courses: map[primitive.ObjectID]*course.Course{
		courseID: {ID: courseID, Price: 0},
	}}
	svc := newTestService(courses, &mockEnroller{}, &mockGateway{}, "s3cr3t")

	_, err := svc.CreateOrder(context.Background(), courseID)
	require.ErrorIs(t, err, ErrInvalidPrice)
}

func TestVerifySignature(t *testing.T) {
	svc := newTestService(&mockCourseStore{}, &mockEnroller{}, &mockGateway{}, "s3cr3t")

	valid := sign("s3cr3t", "order_1", "pay_1")
	require.True(t, svc.VerifySignature("order_1", "pay_1", valid))
	require.False(t, svc.VerifySignature("order_1", "pay_1", sign("wrong-key", "order_1", "pay_1")))
	require.False(t, svc.VerifySignature("order_2", "pay_1", valid))
	require.False(t, svc.VerifySignature("order_1", "pay_1", ""))
}

func TestVerifyPaymentEnrolls(t *testing.T) {
	userID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()
	enroller := &mockEnroller{}
	svc := newTestService(&mockCourseStore{}, enroller, &mockGateway{}, "s3cr3t")

	signature := sign("s3cr3t", "order_1", "pay_1")
	require.NoError(t, svc.VerifyPayment(context.Background(), userID, courseID, "order_1", "pay_1", signature))
	require.Len(t, enroller.calls, 1)
	require.Equal(t, userID, enroller.calls[0].userID)
	require.Equal(t, courseID, enroller.calls[0].courseID)
}

func TestVerifyPaymentBadSignatureMutatesNothing(t *testing.T) {
	enroller := &mockEnroller{}
	svc := newTestService(&mockCourseStore{}, enroller, &mockGateway{}, "s3cr3t")

	err := svc.VerifyPayment(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), "order_1", "pay_1", "forged")
	require.ErrorIs(t, err, ErrInvalidSignature)
	require.Empty(t, enroller.calls)
}

func TestVerifyFree(t *testing.T) {
	userID := primitive.NewObjectID()
	freeID := primitive.NewObjectID()
	paidID := primitive.NewObjectID()
	courses := &mockCourseStore{courses: map[primitive.ObjectID]*course.Course{
		freeID: {ID: freeID, Price: 0},
		paidID: {ID: paidID, Price: 199.0},
	}}
	enroller := &mockEnroller{}
	svc := newTestService(courses, enroller, &mockGateway{}, "s3cr3t")

	require.NoError(t, svc.VerifyFree(context.Background(), userID, freeID))
	require.Len(t, enroller.calls, 1)

	require.ErrorIs(t, svc.VerifyFree(context.Background(), userID, paidID), ErrCourseNotFree)
	require.Len(t, enroller.calls, 1)

	require.ErrorIs(t, svc.VerifyFree(context.Background(), userID, primitive.NewObjectID()), ErrCourseNotFound)
}
