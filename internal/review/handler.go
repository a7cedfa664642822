package review

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Piyush6046/InstructoPlus/pkg/middleware"
)

type ReviewHandler struct {
	service *ReviewService
}

func NewReviewHandler(service *ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) GiveReview(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid course id"})
	}

	review, err := h.service.Create(c.Request().Context(), userID, courseID, req.Rating, req.Review, req.IsAnonymous)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRating):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, ErrCourseNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, ErrDuplicateReview):
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error while creating review"})
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Review submitted successfully",
		"review":  review,
	})
}

func (h *ReviewHandler) GetAllReviews(c echo.Context) error {
	reviews, err := h.service.All(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error while fetching reviews"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"reviews": reviews})
}

func (h *ReviewHandler) GetCourseReviews(c echo.Context) error {
	courseID, err := primitive.ObjectIDFromHex(c.Param("courseId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid course id"})
	}
	reviews, err := h.service.ByCourse(c.Request().Context(), courseID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error while fetching reviews"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"reviews": reviews})
}
