package payment

import "errors"

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidSignature = errors.New("payment verification failed: invalid signature")
	ErrInvalidPrice     = errors.New("invalid course price")
	ErrCourseNotFree    = errors.New("course is not free")
)

type CreateOrderRequest struct {
	CourseID string `json:"courseId"`
}

type VerifyPaymentRequest struct {
	CourseID          string `json:"courseId"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type VerifyFreeRequest struct {
	CourseID string `json:"courseId"`
}
