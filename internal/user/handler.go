package user

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Piyush6046/InstructoPlus/internal/auth"
	"github.com/Piyush6046/InstructoPlus/internal/config"
	"github.com/Piyush6046/InstructoPlus/pkg/middleware"
)

type UserHandler struct {
	service *UserService
	storage *config.StorageService
}

func NewUserHandler(service *UserService, storage *config.StorageService) *UserHandler {
	return &UserHandler{service: service, storage: storage}
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

func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}
	profile, err := h.service.Current(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error while fetching user"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": profile})
}

func (h *UserHandler) GetUserByID(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user id"})
	}
	u, err := h.service.ByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error while fetching user"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": u})
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	input := UpdateProfileInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
	}
	if file, err := c.FormFile("photoUrl"); err == nil {
		path, err := config.SaveTemp(file)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to read photo"})
		}
		result, err := h.storage.Upload(path)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to upload photo"})
		}
		input.PhotoURL = result.URL
	}

	u, err := h.service.UpdateProfile(c.Request().Context(), userID, input)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error while updating profile"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    u,
	})
}
