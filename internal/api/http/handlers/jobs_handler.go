package handlers

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campushire/platform/internal/api/dto"
	"github.com/campushire/platform/internal/auth"
	"github.com/campushire/platform/internal/domain"
	"github.com/campushire/platform/internal/repository"
	"github.com/campushire/platform/internal/service"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

// JobsHandler manages postings, applications and saved jobs.
type JobsHandler struct {
	service *service.JobService
}

// NewJobsHandler constructs handler.
func NewJobsHandler(jobService *service.JobService) *JobsHandler {
	return &JobsHandler{service: jobService}
}

// CreateJob POST /jobs.
func (h *JobsHandler) CreateJob(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	job, err := h.service.CreateJob(c.Context(), account, service.JobCreateInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Description: req.Description,
		Salary:      req.Salary,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewJobResponse(job)})
}

// ListJobs GET /jobs.
func (h *JobsHandler) ListJobs(c *fiber.Ctx) error {
	jobs, err := h.service.ListJobs(c.Context(), parseJobQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewJobListResponse(jobs)})
}

// GetJob GET /jobs/:id.
func (h *JobsHandler) GetJob(c *fiber.Ctx) error {
	job, err := h.service.GetJob(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewJobResponse(job)})
}

// UpdateJob PATCH /jobs/:id.
func (h *JobsHandler) UpdateJob(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	job, err := h.service.UpdateJob(c.Context(), account, c.Params("id"), service.JobUpdateInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Description: req.Description,
		Salary:      req.Salary,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewJobResponse(job)})
}

// CloseJob POST /jobs/:id/close.
func (h *JobsHandler) CloseJob(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	job, err := h.service.CloseJob(c.Context(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewJobResponse(job)})
}

// Apply POST /jobs/:id/apply.
func (h *JobsHandler) Apply(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var resume []byte
	if req.Resume != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.Resume)
		if err != nil {
			return apperrors.NewValidationError("resume must be base64 encoded", nil)
		}
		resume = decoded
	}

	app, err := h.service.Apply(c.Context(), account, c.Params("id"), service.ApplyInput{
		CoverLetter: req.CoverLetter,
		Resume:      resume,
		ResumeName:  req.ResumeName,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewApplicationResponse(app)})
}

// ListJobApplications GET /jobs/:id/applications.
func (h *JobsHandler) ListJobApplications(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	apps, err := h.service.ListJobApplications(c.Context(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewApplicationListResponse(apps)})
}

// ListMyApplications GET /applications.
func (h *JobsHandler) ListMyApplications(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	apps, err := h.service.ListMyApplications(c.Context(), account)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewApplicationListResponse(apps)})
}

// UpdateApplicationStatus POST /applications/:id/status.
func (h *JobsHandler) UpdateApplicationStatus(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.ApplicationStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, err := domain.ParseApplicationStatus(req.Status)
	if err != nil {
		return apperrors.NewValidationError("unknown status", nil)
	}

	if err := h.service.UpdateApplicationStatus(c.Context(), account, c.Params("id"), status, req.Note); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": string(status)}})
}

// SaveJob POST /jobs/:id/save.
func (h *JobsHandler) SaveJob(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	if err := h.service.SaveJob(c.Context(), account, c.Params("id")); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"status": "saved"}})
}

// UnsaveJob DELETE /jobs/:id/save.
func (h *JobsHandler) UnsaveJob(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	if err := h.service.UnsaveJob(c.Context(), account, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "removed"}})
}

// ListSavedJobs GET /jobs/saved.
func (h *JobsHandler) ListSavedJobs(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	jobs, err := h.service.ListSavedJobs(c.Context(), account)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewJobListResponse(jobs)})
}

func parseJobQuery(c *fiber.Ctx) repository.JobFilter {
	filter := repository.JobFilter{Search: strings.TrimSpace(c.Query("search"))}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.JobStatus(strings.ToUpper(strings.TrimSpace(statusStr)))
		if status == domain.JobStatusOpen || status == domain.JobStatusClosed {
			filter.Status = &status
		}
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
