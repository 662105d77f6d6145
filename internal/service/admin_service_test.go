package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushire/platform/internal/domain"
	"github.com/campushire/platform/internal/events"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

type fakeActivityFeed struct {
	entries []events.Event
}

func (f *fakeActivityFeed) Push(_ context.Context, event events.Event) error {
	f.entries = append([]events.Event{event}, f.entries...)
	return nil
}

func (f *fakeActivityFeed) Recent(_ context.Context, n int) ([]events.Event, error) {
	if n > len(f.entries) {
		n = len(f.entries)
	}
	return f.entries[:n], nil
}

func newTestAdminService(t *testing.T) (*AdminService, *fakeAccountRepo, *fakeActivityFeed) {
	t.Helper()
	repo := newFakeAccountRepo()
	feed := &fakeActivityFeed{}
	return NewAdminService(testConfig(), repo, feed, zap.NewNop()), repo, feed
}

func seedAccount(t *testing.T, repo *fakeAccountRepo, email string, role domain.Role) *domain.Account {
	t.Helper()
	account := &domain.Account{Email: email, Name: "Seeded", Role: role, PasswordHash: "x", Verified: true}
	require.NoError(t, repo.Create(context.Background(), account))
	return account
}

func TestAdminOperationsRequireExactAdminRole(t *testing.T) {
	svc, repo, _ := newTestAdminService(t)
	ctx := context.Background()

	// No role inherits admin rights; RECRUITER is as locked out as USER.
	for _, role := range []domain.Role{domain.RoleUser, domain.RoleRecruiter} {
		actor := seedAccount(t, repo, string(role)+"@example.com", role)
		_, err := svc.ListAccounts(ctx, actor, 10, 0)
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
	}

	admin := seedAccount(t, repo, "admin@example.com", domain.RoleAdmin)
	_, err := svc.ListAccounts(ctx, admin, 10, 0)
	require.NoError(t, err)
}

func TestAdminCreateAccountPreVerified(t *testing.T) {
	svc, repo, _ := newTestAdminService(t)
	ctx := context.Background()
	admin := seedAccount(t, repo, "admin@example.com", domain.RoleAdmin)

	created, err := svc.CreateAccount(ctx, admin, "Rae", "rae@example.com", "pass-123", domain.RoleRecruiter)
	require.NoError(t, err)
	assert.True(t, created.Verified)
	assert.Equal(t, domain.RoleRecruiter, created.Role)

	_, err = svc.CreateAccount(ctx, admin, "Dup", "RAE@example.com", "pass-123", domain.RoleUser)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestAdminUpdateRole(t *testing.T) {
	svc, repo, _ := newTestAdminService(t)
	ctx := context.Background()
	admin := seedAccount(t, repo, "admin@example.com", domain.RoleAdmin)
	target := seedAccount(t, repo, "user@example.com", domain.RoleUser)

	require.NoError(t, svc.UpdateRole(ctx, admin, target.ID, domain.RoleRecruiter))

	stored, err := repo.GetByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleRecruiter, stored.Role)

	err = svc.UpdateRole(ctx, admin, "missing", domain.RoleUser)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestAdminDeleteAccount(t *testing.T) {
	svc, repo, _ := newTestAdminService(t)
	ctx := context.Background()
	admin := seedAccount(t, repo, "admin@example.com", domain.RoleAdmin)
	target := seedAccount(t, repo, "user@example.com", domain.RoleUser)

	require.NoError(t, svc.DeleteAccount(ctx, admin, target.ID))
	_, err := repo.GetByID(ctx, target.ID)
	require.Error(t, err)
}

func TestAdminCannotDeleteOwnAccount(t *testing.T) {
	svc, repo, _ := newTestAdminService(t)
	ctx := context.Background()
	admin := seedAccount(t, repo, "admin@example.com", domain.RoleAdmin)

	err := svc.DeleteAccount(ctx, admin, admin.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	// Still there.
	_, err = repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
}

func TestAdminActivityFeed(t *testing.T) {
	svc, repo, feed := newTestAdminService(t)
	ctx := context.Background()
	admin := seedAccount(t, repo, "admin@example.com", domain.RoleAdmin)

	require.NoError(t, feed.Push(ctx, events.Event{ID: "1", Type: events.EventAccountRegistered}))
	require.NoError(t, feed.Push(ctx, events.Event{ID: "2", Type: events.EventApplicationSubmitted}))

	entries, err := svc.ActivityFeed(ctx, admin, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, "2", entries[0].ID)
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	svc, repo, _ := newTestAdminService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "root@example.com", "pass-123"))
	created, err := repo.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, created.Role)
	assert.True(t, created.Verified)

	// Idempotent on restart.
	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "root@example.com", "pass-123"))

	// Unconfigured bootstrap is a no-op.
	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "", ""))
}
