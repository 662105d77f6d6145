package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/campushire/platform/internal/domain"
	"github.com/campushire/platform/internal/repository"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

const accountKey = "auth_account"

// SessionCookie is the cookie used by the cookie transport variant.
const SessionCookie = "session"

// CSRFHeader carries the double-submit value on cookie-transported
// state-changing requests.
const CSRFHeader = "X-CSRF-Token"

// csrfTokenLength is how many leading characters of the session credential
// must be echoed back in the CSRF header.
const csrfTokenLength = 32

// Middleware validates session credentials and loads the acting account.
// Credentials arrive either as an Authorization bearer header or, on the
// alternate transport, as a cookie paired with a CSRF double-submit header.
type Middleware struct {
	sessions *SessionManager
	accounts repository.AccountRepository
}

// NewMiddleware constructs the middleware.
func NewMiddleware(sessions *SessionManager, accounts repository.AccountRepository) *Middleware {
	return &Middleware{sessions: sessions, accounts: accounts}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	tokenStr, fromCookie, err := extractCredential(c)
	if err != nil {
		return err
	}

	if fromCookie && isMutating(c.Method()) {
		if err := checkCSRF(c, tokenStr); err != nil {
			return err
		}
	}

	accountID, err := m.sessions.Validate(tokenStr)
	if err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	account, err := m.accounts.GetByID(c.Context(), accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("invalid credentials")
		}
		return apperrors.MapError(err)
	}

	c.Locals(accountKey, account)
	return c.Next()
}

// AccountFromContext retrieves the authenticated account.
func AccountFromContext(c *fiber.Ctx) (*domain.Account, bool) {
	val := c.Locals(accountKey)
	if val == nil {
		return nil, false
	}
	account, ok := val.(*domain.Account)
	return account, ok
}

func extractCredential(c *fiber.Ctx) (token string, fromCookie bool, err error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", false, apperrors.NewUnauthorized("invalid authorization header")
		}
		return parts[1], false, nil
	}

	if cookie := c.Cookies(SessionCookie); cookie != "" {
		return cookie, true, nil
	}

	return "", false, apperrors.NewUnauthorized("missing credentials")
}

func checkCSRF(c *fiber.Ctx, sessionToken string) error {
	expected := sessionToken
	if len(expected) > csrfTokenLength {
		expected = expected[:csrfTokenLength]
	}
	if c.Get(CSRFHeader) != expected {
		return apperrors.NewUnauthorized("csrf token mismatch")
	}
	return nil
}

func isMutating(method string) bool {
	switch method {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return false
	default:
		return true
	}
}
