package notification

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Piyush6046/InstructoPlus/pkg/middleware"
)

type NotificationHandler struct {
	service *NotificationService
}

func NewNotificationHandler(service *NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
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

func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}
	notifications, err := h.service.List(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error while fetching notifications"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"notifications": notifications})
}

func (h *NotificationHandler) MarkNotificationAsRead(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid notification id"})
	}
	n, err := h.service.MarkRead(c.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error while updating notification"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":      "Notification marked as read",
		"notification": n,
	})
}

func (h *NotificationHandler) GetUnreadNotificationCount(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}
	count, err := h.service.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error while counting notifications"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"count": count})
}
