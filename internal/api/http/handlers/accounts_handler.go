package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campushire/platform/internal/api/dto"
	"github.com/campushire/platform/internal/auth"
	"github.com/campushire/platform/internal/service"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

// AccountsHandler manages the self-service account endpoints.
type AccountsHandler struct {
	service *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accountService *service.AccountService) *AccountsHandler {
	return &AccountsHandler{service: accountService}
}

// Me GET /accounts/me.
func (h *AccountsHandler) Me(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(account)})
}

// UpdateProfile PATCH /accounts/me.
func (h *AccountsHandler) UpdateProfile(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	updated, err := h.service.UpdateProfile(c.Context(), account.ID, service.ProfileUpdate{
		Name:     req.Name,
		Headline: req.Headline,
		Bio:      req.Bio,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(updated)})
}

// ChangePassword POST /accounts/me/password.
func (h *AccountsHandler) ChangePassword(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.ChangePassword(c.Context(), account.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password updated"}})
}
