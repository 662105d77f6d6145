package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/campushire/platform/internal/auth"
	"github.com/campushire/platform/internal/config"
	"github.com/campushire/platform/internal/domain"
	"github.com/campushire/platform/internal/events"
	"github.com/campushire/platform/internal/repository"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

// AccountService coordinates the account lifecycle: registration, login,
// email verification, password reset and profile maintenance.
type AccountService struct {
	accounts   repository.AccountRepository
	issuer     *auth.Issuer
	sessions   *auth.SessionManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	now        func() time.Time
}

// AccountDependencies encapsulates what the service needs.
type AccountDependencies struct {
	AccountRepo repository.AccountRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, deps AccountDependencies) *AccountService {
	return &AccountService{
		accounts:   deps.AccountRepo,
		issuer:     auth.NewIssuer(cfg.Auth),
		sessions:   auth.NewSessionManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL()),
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
		now:        time.Now,
	}
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Headline        string
	Bio             string
	Role            string
}

// Register creates a new unverified account, stores a fresh verification
// token, dispatches it best-effort and issues a session immediately. The
// session is usable before verification; login never re-checks it either.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*domain.Account, string, time.Time, error) {
	email := domain.NormalizeEmail(input.Email)
	if email == "" || input.Name == "" || input.Password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("name, email, password required", nil)
	}
	if input.Password != input.ConfirmPassword {
		return nil, "", time.Time{}, apperrors.NewValidationError("passwords do not match", nil)
	}

	role := domain.RoleUser
	if input.Role != "" {
		parsed, err := domain.ParseRole(input.Role)
		if err != nil || parsed == domain.RoleAdmin {
			return nil, "", time.Time{}, apperrors.NewValidationError("invalid role", nil)
		}
		role = parsed
	}

	// Fast path only; the unique index on LOWER(email) is the real guard.
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, tokenExp, err := s.issuer.Issue(auth.TokenKindVerification)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	account := &domain.Account{
		Email:                 email,
		Name:                  input.Name,
		Headline:              input.Headline,
		Bio:                   input.Bio,
		Role:                  role,
		PasswordHash:          hash,
		Verified:              false,
		VerificationToken:     &token,
		VerificationExpiresAt: &tokenExp,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventAccountRegistered, account.ID, events.AccountRegisteredPayload{
		Email:             account.Email,
		Name:              account.Name,
		VerificationToken: token,
		TokenExpiresAt:    tokenExp,
	})

	session, sessionExp, err := s.sessions.Issue(account.ID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return account, session, sessionExp, nil
}

// Login authenticates an account and issues a session. Unknown address and
// wrong password fail identically so callers cannot enumerate accounts.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Account, string, time.Time, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	session, sessionExp, err := s.sessions.Issue(account.ID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return account, session, sessionExp, nil
}

// VerifyEmail consumes the pending verification token. An already-verified
// account short-circuits to success without mutation; every other failure is
// the one merged token-invalid outcome.
func (s *AccountService) VerifyEmail(ctx context.Context, email, token string) error {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewTokenInvalid()
		}
		return apperrors.MapError(err)
	}
	if account.Verified {
		return nil
	}

	consumed, err := s.accounts.ConsumeVerificationToken(ctx, email, token, s.now())
	if err != nil {
		return apperrors.MapError(err)
	}
	if !consumed {
		return apperrors.NewTokenInvalid()
	}
	return nil
}

// ResendVerification regenerates the verification slot, as a link token or a
// numeric code. It silently no-ops for unknown or already-verified accounts.
func (s *AccountService) ResendVerification(ctx context.Context, email string, asOTP bool) error {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return apperrors.MapError(err)
	}
	if account.Verified {
		return nil
	}

	kind := auth.TokenKindVerification
	if asOTP {
		kind = auth.TokenKindOTP
	}
	token, tokenExp, err := s.issuer.Issue(kind)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := s.accounts.SetVerificationToken(ctx, account.ID, token, tokenExp); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventVerificationResent, account.ID, events.VerificationResentPayload{
		Email:          account.Email,
		Name:           account.Name,
		Token:          token,
		IsOTP:          asOTP,
		TokenExpiresAt: tokenExp,
	})
	return nil
}

// RequestPasswordReset stores a fresh reset token and dispatches it. The
// response is identical whether or not the account exists.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return apperrors.MapError(err)
	}

	token, tokenExp, err := s.issuer.Issue(auth.TokenKindReset)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := s.accounts.SetResetToken(ctx, account.ID, token, tokenExp); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventPasswordResetRequested, account.ID, events.PasswordResetRequestedPayload{
		Email:          account.Email,
		Name:           account.Name,
		Token:          token,
		TokenExpiresAt: tokenExp,
	})
	return nil
}

// ConfirmPasswordReset validates the reset token and replaces the password
// hash; the token is cleared in the same statement so it can never be
// replayed.
func (s *AccountService) ConfirmPasswordReset(ctx context.Context, token, newPassword, confirmPassword string) error {
	if newPassword == "" {
		return apperrors.NewValidationError("password required", nil)
	}
	if newPassword != confirmPassword {
		return apperrors.NewValidationError("passwords do not match", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}

	consumed, err := s.accounts.ConsumeResetToken(ctx, token, hash, s.now())
	if err != nil {
		return apperrors.MapError(err)
	}
	if !consumed {
		return apperrors.NewTokenInvalid()
	}
	return nil
}

// ChangePassword verifies the current password before updating the hash.
// Outstanding sessions stay valid; there is no revocation.
func (s *AccountService) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	if newPassword == "" {
		return apperrors.NewValidationError("password required", nil)
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	return apperrors.MapError(s.accounts.UpdatePassword(ctx, accountID, hash))
}

// ProfileUpdate carries partial profile fields; nil means leave untouched.
type ProfileUpdate struct {
	Name     *string
	Headline *string
	Bio      *string
}

// UpdateProfile applies only the fields present in the request.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID string, update ProfileUpdate) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if update.Name != nil {
		account.Name = *update.Name
	}
	if update.Headline != nil {
		account.Headline = *update.Headline
	}
	if update.Bio != nil {
		account.Bio = *update.Bio
	}

	if err := s.accounts.UpdateProfile(ctx, account); err != nil {
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

// GetAccount loads an account by id.
func (s *AccountService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

// Logout is a client-side discard; issued sessions stay valid until expiry.
func (s *AccountService) Logout(_ context.Context, _ string) error {
	return nil
}

// SessionManager exposes the session issuer for middleware usage.
func (s *AccountService) SessionManager() *auth.SessionManager {
	return s.sessions
}

func (s *AccountService) publish(ctx context.Context, eventType events.EventType, accountID string, payload any) {
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		AccountID: accountID,
		Timestamp: s.now(),
		Payload:   payload,
	})
}
