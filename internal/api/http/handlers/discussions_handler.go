package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campushire/platform/internal/api/dto"
	"github.com/campushire/platform/internal/auth"
	"github.com/campushire/platform/internal/service"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

// DiscussionsHandler manages forum thread and reply endpoints.
type DiscussionsHandler struct {
	service *service.DiscussionService
}

// NewDiscussionsHandler constructs handler.
func NewDiscussionsHandler(discussionService *service.DiscussionService) *DiscussionsHandler {
	return &DiscussionsHandler{service: discussionService}
}

// CreateThread POST /discussions.
func (h *DiscussionsHandler) CreateThread(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.ThreadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	thread, err := h.service.CreateThread(c.Context(), account, req.Title, req.Body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewThreadResponse(thread, nil)})
}

// GetThread GET /discussions/:id.
func (h *DiscussionsHandler) GetThread(c *fiber.Ctx) error {
	thread, replies, err := h.service.GetThread(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewThreadResponse(thread, replies)})
}

// ListThreads GET /discussions.
func (h *DiscussionsHandler) ListThreads(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	threads, err := h.service.ListThreads(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewThreadListResponse(threads)})
}

// Reply POST /discussions/:id/replies.
func (h *DiscussionsHandler) Reply(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	reply, err := h.service.Reply(c.Context(), account, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewReplyResponse(reply)})
}

// DeleteThread DELETE /discussions/:id.
func (h *DiscussionsHandler) DeleteThread(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	if err := h.service.DeleteThread(c.Context(), account, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deleted"}})
}

// DeleteReply DELETE /discussions/replies/:id.
func (h *DiscussionsHandler) DeleteReply(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	if err := h.service.DeleteReply(c.Context(), account, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deleted"}})
}
