package payment

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Piyush6046/InstructoPlus/pkg/middleware"
)

type PaymentHandler struct {
	service *PaymentService
}

func NewPaymentHandler(service *PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) respondError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, ErrCourseNotFound), errors.Is(err, ErrUserNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrInvalidSignature):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrInvalidPrice), errors.Is(err, ErrCourseNotFree):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": fallback})
}

func userIDFromContext(c echo.Context) (primitive.ObjectID, bool) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid course id"})
	}
	order, err := h.service.CreateOrder(c.Request().Context(), courseID)
	if err != nil {
		return h.respondError(c, err, "Error while creating order")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "order": order})
}

func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}
	var req VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid course id"})
	}
	err = h.service.VerifyPayment(c.Request().Context(), userID, courseID,
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		return h.respondError(c, err, "Error while verifying payment")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "message": "Payment verified successfully"})
}

func (h *PaymentHandler) VerifyFree(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}
	var req VerifyFreeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid course id"})
	}
	if err := h.service.VerifyFree(c.Request().Context(), userID, courseID); err != nil {
		return h.respondError(c, err, "Error while enrolling in course")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "message": "Enrolled successfully"})
}
