package dto

import (
	"time"

	"github.com/campushire/platform/internal/domain"
)

// AccountResponse is the public representation of an account. Credential
// fields and token slots never appear here.
type AccountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Headline  string    `json:"headline,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAccountResponse maps a domain account.
func NewAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID,
		Email:     account.Email,
		Name:      account.Name,
		Headline:  account.Headline,
		Bio:       account.Bio,
		Role:      string(account.Role),
		Verified:  account.Verified,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}

// ProfileUpdateRequest carries partial profile fields; absent fields are
// left untouched.
type ProfileUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Headline *string `json:"headline,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

// RoleUpdateRequest assigns a new role (admin surface).
type RoleUpdateRequest struct {
	Role string `json:"role"`
}

// AdminCreateAccountRequest provisions a pre-verified account.
type AdminCreateAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
