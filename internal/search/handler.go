package search

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type SearchHandler struct {
	service *SearchService
}

func NewSearchHandler(service *SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

type searchRequest struct {
	Input string `json:"input"`
}

func (h *SearchHandler) SearchCourses(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	courses, keyword, err := h.service.Search(c.Request().Context(), req.Input)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error while searching courses"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"courses": courses,
		"keyword": keyword,
	})
}
