package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campushire/platform/internal/api/dto"
	"github.com/campushire/platform/internal/auth"
	"github.com/campushire/platform/internal/domain"
	"github.com/campushire/platform/internal/service"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

// AdminHandler manages the admin account-management surface.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{service: adminService}
}

// ListAccounts GET /admin/accounts.
func (h *AdminHandler) ListAccounts(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	accounts, err := h.service.ListAccounts(c.Context(), account, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, dto.NewAccountResponse(&accounts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateAccount POST /admin/accounts.
func (h *AdminHandler) CreateAccount(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.AdminCreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return apperrors.NewValidationError("unknown role", nil)
	}

	created, err := h.service.CreateAccount(c.Context(), account, req.Name, req.Email, req.Password, role)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewAccountResponse(created)})
}

// UpdateRole PATCH /admin/accounts/:id/role.
func (h *AdminHandler) UpdateRole(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.RoleUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return apperrors.NewValidationError("unknown role", nil)
	}

	if err := h.service.UpdateRole(c.Context(), account, c.Params("id"), role); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"role": string(role)}})
}

// DeleteAccount DELETE /admin/accounts/:id.
func (h *AdminHandler) DeleteAccount(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	if err := h.service.DeleteAccount(c.Context(), account, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deleted"}})
}

// ActivityFeed GET /admin/activity.
func (h *AdminHandler) ActivityFeed(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	n := parseInt(c.Query("limit"), 50)
	feed, err := h.service.ActivityFeed(c.Context(), account, n)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": feed})
}
