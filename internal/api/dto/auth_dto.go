package dto

import "time"

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Headline        string `json:"headline,omitempty"`
	Bio             string `json:"bio,omitempty"`
	Role            string `json:"role,omitempty"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyRequest payload for email verification (link token or OTP).
type VerifyRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// ResendVerificationRequest payload for regenerating the verification slot.
type ResendVerificationRequest struct {
	Email string `json:"email"`
	OTP   bool   `json:"otp,omitempty"`
}

// PasswordResetRequest payload for requesting a reset token.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirm payload for completing a reset.
type PasswordResetConfirm struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// PasswordChangeRequest payload for authenticated password change.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
