package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/campushire/platform/internal/domain"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

// stubAccounts satisfies the repository lookup the middleware needs.
type stubAccounts struct {
	account *domain.Account
}

func (s *stubAccounts) GetByID(_ context.Context, id string) (*domain.Account, error) {
	if s.account != nil && s.account.ID == id {
		clone := *s.account
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubAccounts) Create(context.Context, *domain.Account) error        { return nil }
func (s *stubAccounts) UpdateProfile(context.Context, *domain.Account) error { return nil }
func (s *stubAccounts) UpdatePassword(context.Context, string, string) error { return nil }
func (s *stubAccounts) UpdateRole(context.Context, string, domain.Role) error {
	return nil
}
func (s *stubAccounts) GetByEmail(context.Context, string) (*domain.Account, error) {
	return nil, pgx.ErrNoRows
}
func (s *stubAccounts) List(context.Context, int, int) ([]domain.Account, error) { return nil, nil }
func (s *stubAccounts) SetVerificationToken(context.Context, string, string, time.Time) error {
	return nil
}
func (s *stubAccounts) ConsumeVerificationToken(context.Context, string, string, time.Time) (bool, error) {
	return false, nil
}
func (s *stubAccounts) SetResetToken(context.Context, string, string, time.Time) error {
	return nil
}
func (s *stubAccounts) ConsumeResetToken(context.Context, string, string, time.Time) (bool, error) {
	return false, nil
}
func (s *stubAccounts) Delete(context.Context, string) error { return nil }

func newTestApp(t *testing.T, role domain.Role, routeRoles ...domain.Role) (*fiber.App, *SessionManager, *domain.Account) {
	t.Helper()

	account := &domain.Account{ID: "acc-1", Email: "dana@example.com", Role: role, Verified: true}
	sessions := NewSessionManager("test-secret", time.Hour)
	mw := NewMiddleware(sessions, &stubAccounts{account: account})

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})

	guards := []fiber.Handler{mw.Handle}
	if len(routeRoles) > 0 {
		guards = append(guards, RequireRole(routeRoles...))
	} else {
		guards = append(guards, RequireAccount())
	}
	handler := func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) }
	app.Get("/protected", append(guards, handler)...)
	app.Post("/protected", append(guards, handler)...)

	return app, sessions, account
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) int {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestMiddlewareBearerToken(t *testing.T) {
	t.Parallel()

	app, sessions, account := newTestApp(t, domain.RoleUser)
	token, _, err := sessions.Issue(account.ID)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	if status := doRequest(t, app, req); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
}

func TestMiddlewareRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	app, sessions, _ := newTestApp(t, domain.RoleUser)

	// Missing, malformed and unknown-account credentials all read as 401.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if status := doRequest(t, app, req); status != http.StatusUnauthorized {
		t.Fatalf("missing credentials: expected 401, got %d", status)
	}

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer garbage")
	if status := doRequest(t, app, req); status != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", status)
	}

	orphan, _, err := sessions.Issue("deleted-account")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+orphan)
	if status := doRequest(t, app, req); status != http.StatusUnauthorized {
		t.Fatalf("orphaned session: expected 401, got %d", status)
	}
}

func TestMiddlewareCookieNeedsCSRFOnMutation(t *testing.T) {
	t.Parallel()

	app, sessions, account := newTestApp(t, domain.RoleUser)
	token, _, err := sessions.Issue(account.ID)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Reads via cookie need no CSRF header.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	if status := doRequest(t, app, req); status != http.StatusOK {
		t.Fatalf("cookie GET: expected 200, got %d", status)
	}

	// Mutations without the double-submit header fail.
	req = httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	if status := doRequest(t, app, req); status != http.StatusUnauthorized {
		t.Fatalf("cookie POST without CSRF: expected 401, got %d", status)
	}

	// The header carries the leading characters of the session credential.
	req = httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	req.Header.Set(CSRFHeader, token[:csrfTokenLength])
	if status := doRequest(t, app, req); status != http.StatusOK {
		t.Fatalf("cookie POST with CSRF: expected 200, got %d", status)
	}

	// Bearer transport never needs the header.
	req = httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	if status := doRequest(t, app, req); status != http.StatusOK {
		t.Fatalf("bearer POST: expected 200, got %d", status)
	}
}

func TestRequireRoleExactMatch(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		role     domain.Role
		required []domain.Role
		wantOK   bool
	}{
		{"user passes user gate", domain.RoleUser, []domain.Role{domain.RoleUser}, true},
		{"recruiter fails admin gate", domain.RoleRecruiter, []domain.Role{domain.RoleAdmin}, false},
		{"admin fails recruiter gate", domain.RoleAdmin, []domain.Role{domain.RoleRecruiter}, false},
		{"admin passes multi gate", domain.RoleAdmin, []domain.Role{domain.RoleRecruiter, domain.RoleAdmin}, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			app, sessions, account := newTestApp(t, tc.role, tc.required...)
			token, _, err := sessions.Issue(account.ID)
			if err != nil {
				t.Fatalf("Issue error: %v", err)
			}

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
			status := doRequest(t, app, req)
			if tc.wantOK && status != http.StatusOK {
				t.Fatalf("expected 200, got %d", status)
			}
			if !tc.wantOK && status != http.StatusForbidden {
				t.Fatalf("expected 403, got %d", status)
			}
		})
	}
}
