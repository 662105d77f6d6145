package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campushire/platform/internal/domain"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

// RequireAccount ensures the caller is authenticated, any role.
func RequireAccount() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := AccountFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireRole passes only accounts whose role is in the allowed set. Roles
// compare by exact equality; an admin does not implicitly pass a
// recruiter-only gate. A missing account is unauthenticated, a role miss is
// forbidden; the two failure classes stay distinct.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		account, ok := AccountFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if _, exists := allowedSet[account.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
