package handlers

import (
	"encoding/base64"

	"github.com/gofiber/fiber/v2"

	"github.com/campushire/platform/internal/api/dto"
	"github.com/campushire/platform/internal/auth"
	"github.com/campushire/platform/internal/service"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

// CoursesHandler manages course authoring and enrollment endpoints.
type CoursesHandler struct {
	service *service.CourseService
}

// NewCoursesHandler constructs handler.
func NewCoursesHandler(courseService *service.CourseService) *CoursesHandler {
	return &CoursesHandler{service: courseService}
}

// CreateCourse POST /courses.
func (h *CoursesHandler) CreateCourse(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	course, err := h.service.CreateCourse(c.Context(), account, service.CourseInput{
		Title:       req.Title,
		Description: req.Description,
		Published:   req.Published,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewCourseResponse(course, nil)})
}

// UpdateCourse PATCH /courses/:id.
func (h *CoursesHandler) UpdateCourse(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	course, err := h.service.UpdateCourse(c.Context(), account, c.Params("id"), service.CourseUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Published:   req.Published,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCourseResponse(course, nil)})
}

// AddLesson POST /courses/:id/lessons.
func (h *CoursesHandler) AddLesson(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.AddLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var content []byte
	if req.Content != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			return apperrors.NewValidationError("content must be base64 encoded", nil)
		}
		content = decoded
	}

	lesson, err := h.service.AddLesson(c.Context(), account, c.Params("id"), service.LessonInput{
		Title:       req.Title,
		Body:        req.Body,
		Position:    req.Position,
		Content:     content,
		ContentName: req.ContentName,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewLessonResponse(lesson)})
}

// GetCourse GET /courses/:id.
func (h *CoursesHandler) GetCourse(c *fiber.Ctx) error {
	course, lessons, err := h.service.GetCourse(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCourseResponse(course, lessons)})
}

// ListCourses GET /courses.
func (h *CoursesHandler) ListCourses(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	courses, err := h.service.ListCourses(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCourseListResponse(courses)})
}

// Enroll POST /courses/:id/enroll.
func (h *CoursesHandler) Enroll(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	enrollment, err := h.service.Enroll(c.Context(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewEnrollmentResponse(enrollment)})
}

// ListMyEnrollments GET /enrollments.
func (h *CoursesHandler) ListMyEnrollments(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	enrollments, err := h.service.ListMyEnrollments(c.Context(), account)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEnrollmentListResponse(enrollments)})
}
