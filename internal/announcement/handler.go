package announcement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Piyush6046/InstructoPlus/internal/config"
	"github.com/Piyush6046/InstructoPlus/pkg/middleware"
)

type AnnouncementHandler struct {
	service *AnnouncementService
	storage *config.StorageService
}

func NewAnnouncementHandler(service *AnnouncementService, storage *config.StorageService) *AnnouncementHandler {
	return &AnnouncementHandler{service: service, storage: storage}
}

// parseObjectIDs decodes a JSON array of hex ids submitted as a form field.
func parseObjectIDs(raw string) ([]primitive.ObjectID, error) {
	if raw == "" {
		return nil, nil
	}
	var hexIDs []string
	if err := json.Unmarshal([]byte(raw), &hexIDs); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, hexID := range hexIDs {
		id, err := primitive.ObjectIDFromHex(hexID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (h *AnnouncementHandler) CreateAnnouncement(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}
	sender, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	input := CreateInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Sender:      sender,
	}
	input.AllCourses, _ = strconv.ParseBool(c.FormValue("allCourses"))

	if input.CourseIDs, err = parseObjectIDs(c.FormValue("selectedCourses")); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid selectedCourses"})
	}
	if input.StudentIDs, err = parseObjectIDs(c.FormValue("selectedStudents")); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid selectedStudents"})
	}

	if raw := c.FormValue("deliveryOptions"); raw != "" {
		var options struct {
			InApp bool `json:"inapp"`
			Email bool `json:"email"`
		}
		if err := json.Unmarshal([]byte(raw), &options); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid deliveryOptions"})
		}
		input.InApp = options.InApp
		input.Email = options.Email
	}

	if file, err := c.FormFile("attachment"); err == nil {
		path, err := config.SaveTemp(file)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to read attachment"})
		}
		result, err := h.storage.Upload(path)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to upload attachment"})
		}
		input.AttachmentURL = result.URL
	}

	a, report, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, ErrTitleDescriptionMissing), errors.Is(err, ErrNoDeliveryChannel), errors.Is(err, ErrNoAudience):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error while creating announcement"})
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":      "Announcement created successfully",
		"announcement": a,
		"delivery":     report,
	})
}

func (h *AnnouncementHandler) GetEducatorAnnouncements(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}
	sender, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}
	announcements, err := h.service.BySender(c.Request().Context(), sender)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error while fetching announcements"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"announcements": announcements})
}

func (h *AnnouncementHandler) GetAnnouncementByID(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid announcement id"})
	}
	a, err := h.service.ByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrAnnouncementNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error while fetching announcement"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"announcement": a})
}
