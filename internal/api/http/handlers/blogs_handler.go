package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campushire/platform/internal/api/dto"
	"github.com/campushire/platform/internal/auth"
	"github.com/campushire/platform/internal/service"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

// BlogsHandler manages blog post endpoints.
type BlogsHandler struct {
	service *service.BlogService
}

// NewBlogsHandler constructs handler.
func NewBlogsHandler(blogService *service.BlogService) *BlogsHandler {
	return &BlogsHandler{service: blogService}
}

// CreatePost POST /blogs.
func (h *BlogsHandler) CreatePost(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.BlogPostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	post, err := h.service.CreatePost(c.Context(), account, req.Title, req.Body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewBlogPostResponse(post)})
}

// UpdatePost PATCH /blogs/:id.
func (h *BlogsHandler) UpdatePost(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.BlogPostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	post, err := h.service.UpdatePost(c.Context(), account, c.Params("id"), req.Title, req.Body)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBlogPostResponse(post)})
}

// DeletePost DELETE /blogs/:id.
func (h *BlogsHandler) DeletePost(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	if err := h.service.DeletePost(c.Context(), account, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deleted"}})
}

// GetPost GET /blogs/:id.
func (h *BlogsHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.service.GetPost(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBlogPostResponse(post)})
}

// ListPosts GET /blogs.
func (h *BlogsHandler) ListPosts(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	posts, err := h.service.ListPosts(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBlogPostListResponse(posts)})
}
