package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campushire/platform/internal/api/dto"
	"github.com/campushire/platform/internal/auth"
	"github.com/campushire/platform/internal/service"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

// AuthHandler manages registration, login and the token flows.
type AuthHandler struct {
	service *service.AccountService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(accountService *service.AccountService) *AuthHandler {
	return &AuthHandler{service: accountService}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, token, expiresAt, err := h.service.Register(c.Context(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Headline:        req.Headline,
		Bio:             req.Bio,
		Role:            req.Role,
	})
	if err != nil {
		return err
	}

	setSessionCookie(c, token, expiresAt)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"account": dto.NewAccountResponse(account),
		"session": dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
	}})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, token, expiresAt, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	setSessionCookie(c, token, expiresAt)
	return c.JSON(fiber.Map{"data": fiber.Map{
		"account": dto.NewAccountResponse(account),
		"session": dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
	}})
}

// Logout POST /auth/logout. Sessions are not revocable server side; this
// clears the cookie so browser clients drop theirs.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.Context(), ""); err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "logged out"}})
}

// Verify POST /auth/verify.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Token == "" {
		return apperrors.NewValidationError("email and token required", nil)
	}
	if err := h.service.VerifyEmail(c.Context(), req.Email, req.Token); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "verified"}})
}

// ResendVerification POST /auth/verify/resend. Always answers accepted so
// the endpoint reveals nothing about which emails exist.
func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var req dto.ResendVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required", nil)
	}
	if err := h.service.ResendVerification(c.Context(), req.Email, req.OTP); err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"data": fiber.Map{"status": "accepted"}})
}

// RequestPasswordReset POST /auth/password/reset-request. Same uniform
// accepted response regardless of account existence.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required", nil)
	}
	if err := h.service.RequestPasswordReset(c.Context(), req.Email); err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"data": fiber.Map{"status": "accepted"}})
}

// ConfirmPasswordReset POST /auth/password/reset.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirm
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.ConfirmPasswordReset(c.Context(), req.Token, req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password updated"}})
}

func setSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
