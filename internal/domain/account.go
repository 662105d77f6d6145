package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role enumerates account roles. The set is closed; there is no hierarchy
// between roles, each protected operation names the exact role it requires.
type Role string

const (
	RoleUser      Role = "USER"
	RoleRecruiter Role = "RECRUITER"
	RoleAdmin     Role = "ADMIN"
)

// ParseRole normalizes a raw value into a Role, rejecting anything outside
// the closed set. All external inputs (DB rows, request payloads) pass
// through here so the rest of the code only ever sees a typed Role.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleUser:
		return RoleUser, nil
	case RoleRecruiter:
		return RoleRecruiter, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Account is the persisted identity, credential and role record. The two
// token slots (verification, password reset) live on the row itself and have
// independent lifecycles.
type Account struct {
	ID           string
	Email        string
	Name         string
	Headline     string
	Bio          string
	Role         Role
	PasswordHash string
	Verified     bool

	VerificationToken     *string
	VerificationExpiresAt *time.Time
	ResetToken            *string
	ResetExpiresAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeEmail lowercases and trims an address. Email is the only stable
// external identifier and uniqueness is enforced on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
