package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/campushire/platform/internal/auth"
	"github.com/campushire/platform/internal/config"
	"github.com/campushire/platform/internal/domain"
	"github.com/campushire/platform/internal/events"
	"github.com/campushire/platform/internal/repository"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

// AdminService exposes the admin management surface: account listing, role
// changes, deletion and the activity feed.
type AdminService struct {
	accounts   repository.AccountRepository
	feed       repository.ActivityFeed
	logger     *zap.Logger
	bcryptCost int
}

// NewAdminService builds the service.
func NewAdminService(cfg config.Config, accounts repository.AccountRepository, feed repository.ActivityFeed, logger *zap.Logger) *AdminService {
	return &AdminService{
		accounts:   accounts,
		feed:       feed,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

func requireAdmin(actor *domain.Account) error {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// ListAccounts returns a page of accounts.
func (s *AdminService) ListAccounts(ctx context.Context, actor *domain.Account, limit, offset int) ([]domain.Account, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	accounts, err := s.accounts.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return accounts, nil
}

// CreateAccount provisions a pre-verified account with an explicit role,
// the admin-create path used for recruiters and additional admins.
func (s *AdminService) CreateAccount(ctx context.Context, actor *domain.Account, name, email, password string, role domain.Role) (*domain.Account, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	email = domain.NormalizeEmail(email)
	if email == "" || name == "" || password == "" {
		return nil, apperrors.NewValidationError("name, email, password required", nil)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	account := &domain.Account{
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
		Verified:     true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

// UpdateRole assigns a new role to the target account.
func (s *AdminService) UpdateRole(ctx context.Context, actor *domain.Account, accountID string, role domain.Role) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return apperrors.MapError(s.accounts.UpdateRole(ctx, accountID, role))
}

// DeleteAccount removes an account with the cascade described on the
// repository. An admin may never delete their own account; that would risk
// locking the last admin out.
func (s *AdminService) DeleteAccount(ctx context.Context, actor *domain.Account, accountID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == accountID {
		return apperrors.NewForbidden("cannot delete own account")
	}
	return apperrors.MapError(s.accounts.Delete(ctx, accountID))
}

// ActivityFeed returns the most recent domain events for the admin surface.
func (s *AdminService) ActivityFeed(ctx context.Context, actor *domain.Account, n int) ([]events.Event, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	feed, err := s.feed.Recent(ctx, n)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return feed, nil
}

// EnsureBootstrapAdmin creates the predefined admin account when configured
// and absent. Called once at startup.
func (s *AdminService) EnsureBootstrapAdmin(ctx context.Context, email, password string) error {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	account := &domain.Account{
		Email:        email,
		Name:         "Administrator",
		Role:         domain.RoleAdmin,
		PasswordHash: hash,
		Verified:     true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil
		}
		return err
	}
	s.logger.Info("bootstrap admin created", zap.String("email", email))
	return nil
}
