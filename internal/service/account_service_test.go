package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushire/platform/internal/auth"
	"github.com/campushire/platform/internal/config"
	"github.com/campushire/platform/internal/domain"
	"github.com/campushire/platform/internal/events"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

// fakeAccountRepo is an in-memory AccountRepository honoring the conditional
// consume semantics of the Postgres implementation.
type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	nextID   int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if domain.NormalizeEmail(existing.Email) == domain.NormalizeEmail(account.Email) {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		}
	}
	r.nextID++
	account.ID = fmt.Sprintf("acc-%d", r.nextID)
	account.CreatedAt = time.Now().UTC()
	account.UpdatedAt = account.CreatedAt
	clone := *account
	r.accounts[account.ID] = &clone
	return nil
}

func (r *fakeAccountRepo) UpdateProfile(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.accounts[account.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Name = account.Name
	stored.Headline = account.Headline
	stored.Bio = account.Bio
	return nil
}

func (r *fakeAccountRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.PasswordHash = passwordHash
	return nil
}

func (r *fakeAccountRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Role = role
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	normalized := domain.NormalizeEmail(email)
	for _, stored := range r.accounts {
		if domain.NormalizeEmail(stored.Email) == normalized {
			clone := *stored
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAccountRepo) List(_ context.Context, limit, offset int) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Account, 0, len(r.accounts))
	for _, stored := range r.accounts {
		out = append(out, *stored)
	}
	return out, nil
}

func (r *fakeAccountRepo) SetVerificationToken(_ context.Context, id, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.VerificationToken = &token
	stored.VerificationExpiresAt = &expiresAt
	return nil
}

func (r *fakeAccountRepo) ConsumeVerificationToken(_ context.Context, email, token string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	normalized := domain.NormalizeEmail(email)
	for _, stored := range r.accounts {
		if domain.NormalizeEmail(stored.Email) != normalized {
			continue
		}
		if stored.VerificationToken == nil || *stored.VerificationToken != token {
			return false, nil
		}
		if stored.VerificationExpiresAt == nil || !stored.VerificationExpiresAt.After(now) {
			return false, nil
		}
		stored.Verified = true
		stored.VerificationToken = nil
		stored.VerificationExpiresAt = nil
		return true, nil
	}
	return false, nil
}

func (r *fakeAccountRepo) SetResetToken(_ context.Context, id, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.ResetToken = &token
	stored.ResetExpiresAt = &expiresAt
	return nil
}

func (r *fakeAccountRepo) ConsumeResetToken(_ context.Context, token, newPasswordHash string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.accounts {
		if stored.ResetToken == nil || *stored.ResetToken != token {
			continue
		}
		if stored.ResetExpiresAt == nil || !stored.ResetExpiresAt.After(now) {
			return false, nil
		}
		stored.PasswordHash = newPasswordHash
		stored.ResetToken = nil
		stored.ResetExpiresAt = nil
		return true, nil
	}
	return false, nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.accounts, id)
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			SessionTTLHours:         24,
			VerificationTTLHours:    24,
			OTPTTLMinutes:           10,
			PasswordResetTTLMinutes: 15,
			BcryptCost:              bcrypt.MinCost,
		},
	}
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestAccountService(t *testing.T) (*AccountService, *fakeAccountRepo, *testClock, events.Dispatcher) {
	t.Helper()
	repo := newFakeAccountRepo()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewAccountService(testConfig(), AccountDependencies{
		AccountRepo: repo,
		Dispatcher:  dispatcher,
		Logger:      zap.NewNop(),
	})
	clock := &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc.now = clock.Now
	svc.issuer = auth.NewIssuerAt(testConfig().Auth, clock.Now)
	return svc, repo, clock, dispatcher
}

func captureToken(dispatcher events.Dispatcher, eventType events.EventType) *string {
	var token string
	dispatcher.Subscribe(eventType, func(_ context.Context, ev events.Event) error {
		switch payload := ev.Payload.(type) {
		case events.AccountRegisteredPayload:
			token = payload.VerificationToken
		case events.VerificationResentPayload:
			token = payload.Token
		case events.PasswordResetRequestedPayload:
			token = payload.Token
		}
		return nil
	})
	return &token
}

func register(t *testing.T, svc *AccountService, email string) *domain.Account {
	t.Helper()
	account, _, _, err := svc.Register(context.Background(), RegisterInput{
		Name:            "Dana",
		Email:           email,
		Password:        "pass-123",
		ConfirmPassword: "pass-123",
	})
	require.NoError(t, err)
	return account
}

func TestRegisterIssuesSessionAndToken(t *testing.T) {
	svc, repo, _, dispatcher := newTestAccountService(t)
	token := captureToken(dispatcher, events.EventAccountRegistered)

	account, session, expiresAt, err := svc.Register(context.Background(), RegisterInput{
		Name:            "Dana",
		Email:           "Dana@Example.COM",
		Password:        "pass-123",
		ConfirmPassword: "pass-123",
	})
	require.NoError(t, err)

	assert.Equal(t, "dana@example.com", account.Email)
	assert.Equal(t, domain.RoleUser, account.Role)
	assert.False(t, account.Verified)
	assert.NotEmpty(t, *token)
	assert.NotEmpty(t, session)
	assert.True(t, expiresAt.After(time.Now()))

	// The session is usable immediately, before any verification.
	id, err := svc.SessionManager().Validate(session)
	require.NoError(t, err)
	assert.Equal(t, account.ID, id)

	stored, err := repo.GetByEmail(context.Background(), "dana@example.com")
	require.NoError(t, err)
	assert.Equal(t, *token, *stored.VerificationToken)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc, _, _, _ := newTestAccountService(t)
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, RegisterInput{Name: "Dana", Email: "d@e.com", Password: "a", ConfirmPassword: "b"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, _, _, err = svc.Register(ctx, RegisterInput{Email: "d@e.com", Password: "a", ConfirmPassword: "a"})
	require.Error(t, err)

	// ADMIN can never be self-assigned.
	_, _, _, err = svc.Register(ctx, RegisterInput{
		Name: "Dana", Email: "d@e.com", Password: "a", ConfirmPassword: "a", Role: "ADMIN",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	// RECRUITER self-registration is allowed.
	account, _, _, err := svc.Register(ctx, RegisterInput{
		Name: "Rae", Email: "rae@e.com", Password: "a", ConfirmPassword: "a", Role: "recruiter",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleRecruiter, account.Role)
}

func TestRegisterDuplicateEmailIsCaseInsensitive(t *testing.T) {
	svc, _, _, _ := newTestAccountService(t)
	register(t, svc, "dana@example.com")

	_, _, _, err := svc.Register(context.Background(), RegisterInput{
		Name:            "Other",
		Email:           "DANA@example.com",
		Password:        "pass-456",
		ConfirmPassword: "pass-456",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestLoginUniformFailure(t *testing.T) {
	svc, _, _, _ := newTestAccountService(t)
	register(t, svc, "dana@example.com")
	ctx := context.Background()

	_, _, _, errUnknown := svc.Login(ctx, "nobody@example.com", "pass-123")
	_, _, _, errWrongPass := svc.Login(ctx, "dana@example.com", "wrong")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPass)
	// Unknown address and wrong password are indistinguishable.
	assert.Equal(t, apperrors.ToDomainError(errUnknown).Message, apperrors.ToDomainError(errWrongPass).Message)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(errUnknown).Code)

	account, session, _, err := svc.Login(ctx, "Dana@Example.com", "pass-123")
	require.NoError(t, err)
	assert.NotEmpty(t, session)
	assert.Equal(t, "dana@example.com", account.Email)
}

func TestVerifyEmailLifecycle(t *testing.T) {
	svc, repo, _, dispatcher := newTestAccountService(t)
	token := captureToken(dispatcher, events.EventAccountRegistered)
	account := register(t, svc, "dana@example.com")
	ctx := context.Background()

	require.NoError(t, svc.VerifyEmail(ctx, "dana@example.com", *token))

	stored, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Verified)
	assert.Nil(t, stored.VerificationToken)

	// Re-verification with the consumed token is an idempotent success.
	require.NoError(t, svc.VerifyEmail(ctx, "dana@example.com", *token))
	require.NoError(t, svc.VerifyEmail(ctx, "dana@example.com", "anything"))
}

func TestVerifyEmailMergedFailures(t *testing.T) {
	svc, _, _, _ := newTestAccountService(t)
	register(t, svc, "dana@example.com")
	ctx := context.Background()

	errWrongToken := svc.VerifyEmail(ctx, "dana@example.com", "bogus")
	errUnknown := svc.VerifyEmail(ctx, "nobody@example.com", "bogus")

	require.Error(t, errWrongToken)
	require.Error(t, errUnknown)
	assert.Equal(t, "TOKEN_INVALID", apperrors.ToDomainError(errWrongToken).Code)
	assert.Equal(t, "TOKEN_INVALID", apperrors.ToDomainError(errUnknown).Code)
}

func TestVerifyEmailExpiryBoundary(t *testing.T) {
	svc, _, clock, dispatcher := newTestAccountService(t)
	token := captureToken(dispatcher, events.EventAccountRegistered)
	register(t, svc, "dana@example.com")
	ctx := context.Background()

	// One second before the 24h deadline the token still works.
	clock.Advance(24*time.Hour - time.Second)
	require.NoError(t, svc.VerifyEmail(ctx, "dana@example.com", *token))
}

func TestVerifyEmailExpired(t *testing.T) {
	svc, _, clock, dispatcher := newTestAccountService(t)
	token := captureToken(dispatcher, events.EventAccountRegistered)
	register(t, svc, "dana@example.com")
	ctx := context.Background()

	clock.Advance(24*time.Hour + time.Second)
	err := svc.VerifyEmail(ctx, "dana@example.com", *token)
	require.Error(t, err)
	assert.Equal(t, "TOKEN_INVALID", apperrors.ToDomainError(err).Code)
}

func TestResendVerificationReplacesToken(t *testing.T) {
	svc, repo, _, dispatcher := newTestAccountService(t)
	registered := captureToken(dispatcher, events.EventAccountRegistered)
	resent := captureToken(dispatcher, events.EventVerificationResent)
	account := register(t, svc, "dana@example.com")
	ctx := context.Background()

	require.NoError(t, svc.ResendVerification(ctx, "dana@example.com", false))
	require.NotEmpty(t, *resent)
	assert.NotEqual(t, *registered, *resent)

	// The superseded token is dead.
	err := svc.VerifyEmail(ctx, "dana@example.com", *registered)
	require.Error(t, err)
	require.NoError(t, svc.VerifyEmail(ctx, "dana@example.com", *resent))

	stored, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Verified)
}

func TestResendVerificationAsOTP(t *testing.T) {
	svc, _, _, dispatcher := newTestAccountService(t)
	resent := captureToken(dispatcher, events.EventVerificationResent)
	register(t, svc, "dana@example.com")
	ctx := context.Background()

	require.NoError(t, svc.ResendVerification(ctx, "dana@example.com", true))
	require.Len(t, *resent, 6)
	require.NoError(t, svc.VerifyEmail(ctx, "dana@example.com", *resent))
}

func TestResendVerificationSilentNoOps(t *testing.T) {
	svc, _, _, dispatcher := newTestAccountService(t)
	registered := captureToken(dispatcher, events.EventAccountRegistered)
	resent := captureToken(dispatcher, events.EventVerificationResent)
	register(t, svc, "dana@example.com")
	ctx := context.Background()

	// Unknown address: success with no dispatch, nothing to enumerate.
	require.NoError(t, svc.ResendVerification(ctx, "nobody@example.com", false))
	assert.Empty(t, *resent)

	// Already verified: same silent success.
	require.NoError(t, svc.VerifyEmail(ctx, "dana@example.com", *registered))
	require.NoError(t, svc.ResendVerification(ctx, "dana@example.com", false))
	assert.Empty(t, *resent)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, _, dispatcher := newTestAccountService(t)
	reset := captureToken(dispatcher, events.EventPasswordResetRequested)
	register(t, svc, "dana@example.com")
	ctx := context.Background()

	require.NoError(t, svc.RequestPasswordReset(ctx, "dana@example.com"))
	require.NotEmpty(t, *reset)

	require.NoError(t, svc.ConfirmPasswordReset(ctx, *reset, "new-pass", "new-pass"))

	// Old password is gone, new one works.
	_, _, _, err := svc.Login(ctx, "dana@example.com", "pass-123")
	require.Error(t, err)
	_, _, _, err = svc.Login(ctx, "dana@example.com", "new-pass")
	require.NoError(t, err)

	// Single use: the consumed token cannot be replayed.
	err = svc.ConfirmPasswordReset(ctx, *reset, "sneaky", "sneaky")
	require.Error(t, err)
	assert.Equal(t, "TOKEN_INVALID", apperrors.ToDomainError(err).Code)
}

func TestPasswordResetRequestUnknownEmailIsSilent(t *testing.T) {
	svc, _, _, dispatcher := newTestAccountService(t)
	reset := captureToken(dispatcher, events.EventPasswordResetRequested)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "nobody@example.com"))
	assert.Empty(t, *reset)
}

func TestPasswordResetExpiry(t *testing.T) {
	svc, _, clock, dispatcher := newTestAccountService(t)
	reset := captureToken(dispatcher, events.EventPasswordResetRequested)
	register(t, svc, "dana@example.com")
	ctx := context.Background()

	require.NoError(t, svc.RequestPasswordReset(ctx, "dana@example.com"))

	clock.Advance(15*time.Minute + time.Second)
	err := svc.ConfirmPasswordReset(ctx, *reset, "new-pass", "new-pass")
	require.Error(t, err)
	assert.Equal(t, "TOKEN_INVALID", apperrors.ToDomainError(err).Code)
}

func TestPasswordResetMismatchedConfirmation(t *testing.T) {
	svc, _, _, _ := newTestAccountService(t)
	err := svc.ConfirmPasswordReset(context.Background(), "any", "one", "other")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestChangePassword(t *testing.T) {
	svc, _, _, _ := newTestAccountService(t)
	account := register(t, svc, "dana@example.com")
	ctx := context.Background()

	err := svc.ChangePassword(ctx, account.ID, "wrong", "new-pass")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)

	require.NoError(t, svc.ChangePassword(ctx, account.ID, "pass-123", "new-pass"))
	_, _, _, err = svc.Login(ctx, "dana@example.com", "new-pass")
	require.NoError(t, err)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _, _, _ := newTestAccountService(t)
	account := register(t, svc, "dana@example.com")
	ctx := context.Background()

	headline := "Platform engineer"
	updated, err := svc.UpdateProfile(ctx, account.ID, ProfileUpdate{Headline: &headline})
	require.NoError(t, err)

	assert.Equal(t, "Platform engineer", updated.Headline)
	// Untouched fields survive.
	assert.Equal(t, "Dana", updated.Name)
	assert.Equal(t, account.Bio, updated.Bio)
}
