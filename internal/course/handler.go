package course

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Piyush6046/InstructoPlus/internal/auth"
	"github.com/Piyush6046/InstructoPlus/internal/config"
	"github.com/Piyush6046/InstructoPlus/pkg/middleware"
)

type CourseHandler struct {
	service *CourseService
	storage *config.StorageService
}

func NewCourseHandler(service *CourseService, storage *config.StorageService) *CourseHandler {
	return &CourseHandler{service: service, storage: storage}
}

func (h *CourseHandler) respondError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, ErrCourseNotFound), errors.Is(err, ErrLectureNotFound), errors.Is(err, auth.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrTitleCategoryMissing), errors.Is(err, ErrLectureTitleMissing), errors.Is(err, ErrInvalidVideoURL):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": fallback})
}

func (h *CourseHandler) CreateCourse(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}
	creator, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	var req CreateCourseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	course, err := h.service.CreateCourse(c.Request().Context(), creator, req)
	if err != nil {
		return h.respondError(c, err, "Error while creating course")
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"success": true, "course": course})
}

func (h *CourseHandler) GetPublishedCourses(c echo.Context) error {
	courses, err := h.service.PublishedCourses(c.Request().Context())
	if err != nil {
		return h.respondError(c, err, "Error while getting published courses")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "courses": courses})
}

func (h *CourseHandler) GetCreatorCourses(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}
	creator, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}
	courses, err := h.service.CreatorCourses(c.Request().Context(), creator)
	if err != nil {
		return h.respondError(c, err, "Error while getting creator courses")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "courses": courses})
}

func (h *CourseHandler) GetCreator(c echo.Context) error {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	id, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user id"})
	}
	user, err := h.service.Creator(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err, "Error while getting creator")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "creator": user})
}

func (h *CourseHandler) EditCourse(c echo.Context) error {
	courseID, err := primitive.ObjectIDFromHex(c.Param("courseId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid course id"})
	}

	input := UpdateCourseInput{
		Title:       c.FormValue("title"),
		SubTitle:    c.FormValue("subTitle"),
		Category:    c.FormValue("category"),
		Description: c.FormValue("description"),
		Level:       c.FormValue("level"),
	}
	if v := c.FormValue("isPublished"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid isPublished value"})
		}
		input.IsPublished = &parsed
	}
	if v := c.FormValue("price"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid price value"})
		}
		input.Price = &parsed
	}
	if file, err := c.FormFile("thumbnail"); err == nil {
		path, err := config.SaveTemp(file)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to read thumbnail"})
		}
		result, err := h.storage.Upload(path)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to upload thumbnail"})
		}
		input.Thumbnail = result.URL
	}

	course, err := h.service.EditCourse(c.Request().Context(), courseID, input)
	if err != nil {
		return h.respondError(c, err, "Error while editing course")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "course": course, "message": "Course edited successfully"})
}

func (h *CourseHandler) GetCourseByID(c echo.Context) error {
	courseID, err := primitive.ObjectIDFromHex(c.Param("courseId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid course id"})
	}
	course, err := h.service.CourseByID(c.Request().Context(), courseID)
	if err != nil {
		return h.respondError(c, err, "Error while getting course by id")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "course": course})
}

func (h *CourseHandler) RemoveCourse(c echo.Context) error {
	courseID, err := primitive.ObjectIDFromHex(c.Param("courseId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid course id"})
	}
	if err := h.service.RemoveCourse(c.Request().Context(), courseID); err != nil {
		return h.respondError(c, err, "Error while deleting course")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "message": "Course deleted successfully"})
}

func (h *CourseHandler) GetCoursesByCreatorID(c echo.Context) error {
	creatorID, err := primitive.ObjectIDFromHex(c.Param("creatorId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid creator id"})
	}
	courses, err := h.service.CreatorCourses(c.Request().Context(), creatorID)
	if err != nil {
		return h.respondError(c, err, "Error while getting courses by creator")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "courses": courses})
}

func (h *CourseHandler) GetEnrolledStudents(c echo.Context) error {
	courseID, err := primitive.ObjectIDFromHex(c.Param("courseId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid course id"})
	}
	students, err := h.service.EnrolledStudents(c.Request().Context(), courseID)
	if err != nil {
		return h.respondError(c, err, "Error while getting enrolled students")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "students": students})
}

func (h *CourseHandler) CreateLecture(c echo.Context) error {
	courseID, err := primitive.ObjectIDFromHex(c.Param("courseId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid course id"})
	}
	var req struct {
		LectureTitle string `json:"lectureTitle"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	lecture, err := h.service.CreateLecture(c.Request().Context(), courseID, req.LectureTitle)
	if err != nil {
		return h.respondError(c, err, "Error while creating lecture")
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"success": true, "lecture": lecture})
}

func (h *CourseHandler) GetCourseLectures(c echo.Context) error {
	courseID, err := primitive.ObjectIDFromHex(c.Param("courseId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid course id"})
	}
	course, lectures, err := h.service.CourseLectures(c.Request().Context(), courseID)
	if err != nil {
		return h.respondError(c, err, "Error while getting course lectures")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "course": course, "lectures": lectures})
}

func (h *CourseHandler) EditLecture(c echo.Context) error {
	lectureID, err := primitive.ObjectIDFromHex(c.Param("lectureId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid lecture id"})
	}

	input := UpdateLectureInput{
		LectureTitle: c.FormValue("lectureTitle"),
		Description:  c.FormValue("description"),
	}
	if v := c.FormValue("isPreviewFree"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid isPreviewFree value"})
		}
		input.IsPreviewFree = &parsed
	}
	if file, err := c.FormFile("videoUrl"); err == nil {
		path, err := config.SaveTemp(file)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to read video"})
		}
		result, err := h.storage.Upload(path)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to upload video"})
		}
		input.VideoURL = result.URL
		if result.Duration > 0 {
			input.Duration = &result.Duration
		}
	}

	lecture, err := h.service.EditLecture(c.Request().Context(), lectureID, input)
	if err != nil {
		return h.respondError(c, err, "Error while editing lecture")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "lecture": lecture})
}

func (h *CourseHandler) RemoveLecture(c echo.Context) error {
	lectureID, err := primitive.ObjectIDFromHex(c.Param("lectureId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid lecture id"})
	}
	if err := h.service.RemoveLecture(c.Request().Context(), lectureID); err != nil {
		return h.respondError(c, err, "Error while deleting lecture")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "message": "Lecture deleted successfully"})
}

func (h *CourseHandler) AddDocuments(c echo.Context) error {
	lectureID, err := primitive.ObjectIDFromHex(c.Param("lectureId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid lecture id"})
	}
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	files := form.File["documents"]
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No documents provided"})
	}

	var docs []Document
	for _, file := range files {
		path, err := config.SaveTemp(file)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to read document"})
		}
		result, err := h.storage.Upload(path)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to upload document"})
		}
		docs = append(docs, Document{Title: file.Filename, URL: result.URL})
	}

	lecture, err := h.service.AddDocuments(c.Request().Context(), lectureID, docs)
	if err != nil {
		return h.respondError(c, err, "Error while adding documents")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "lecture": lecture})
}

func (h *CourseHandler) ImportYoutube(c echo.Context) error {
	courseID, err := primitive.ObjectIDFromHex(c.Param("courseId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid course id"})
	}
	var req struct {
		URL string `json:"url"`
	}
	if err := c.Bind(&req); err != nil || req.URL == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "URL is required"})
	}
	lectures, err := h.service.ImportYoutube(c.Request().Context(), courseID, req.URL)
	if err != nil {
		return h.respondError(c, err, "Error while importing lectures")
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"success": true, "lectures": lectures})
}
