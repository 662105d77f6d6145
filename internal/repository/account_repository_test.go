package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockedAccountRepo(t *testing.T) (AccountRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(mock.Close)
	return NewAccountRepository(mock), mock
}

func TestConsumeVerificationToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		rowsAffected int64
		want         bool
	}{
		{name: "matching live token consumes", rowsAffected: 1, want: true},
		{name: "stale or missing token consumes nothing", rowsAffected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockedAccountRepo(t)
			mock.ExpectExec(`UPDATE accounts SET verified=TRUE`).
				WithArgs("dana@example.com", "tok-123", now).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.rowsAffected))

			// Address is normalized before hitting the query.
			consumed, err := repo.ConsumeVerificationToken(context.Background(), "Dana@Example.COM", "tok-123", now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, consumed)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestConsumeResetToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		rowsAffected int64
		want         bool
	}{
		{name: "live token replaces hash", rowsAffected: 1, want: true},
		{name: "consumed token cannot replay", rowsAffected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockedAccountRepo(t)
			mock.ExpectExec(`UPDATE accounts SET password_hash=`).
				WithArgs("tok-456", "new-hash", now).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.rowsAffected))

			consumed, err := repo.ConsumeResetToken(context.Background(), "tok-456", "new-hash", now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, consumed)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdatePasswordMissingAccount(t *testing.T) {
	repo, mock := newMockedAccountRepo(t)
	mock.ExpectExec(`UPDATE accounts SET password_hash=`).
		WithArgs("hash", "missing-id").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdatePassword(context.Background(), "missing-id", "hash")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCascade(t *testing.T) {
	repo, mock := newMockedAccountRepo(t)
	const id = "acc-1"

	mock.ExpectBegin()
	for _, q := range []string{
		`DELETE FROM applications`,
		`DELETE FROM saved_jobs`,
		`DELETE FROM enrollments`,
		`DELETE FROM event_registrations`,
	} {
		mock.ExpectExec(q).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 2))
	}
	for _, q := range []string{
		`UPDATE jobs SET recruiter_id=NULL`,
		`UPDATE courses SET author_id=NULL`,
		`UPDATE blog_posts SET author_id=NULL`,
		`UPDATE threads SET author_id=NULL`,
		`UPDATE replies SET author_id=NULL`,
		`UPDATE events SET organizer_id=NULL`,
	} {
		mock.ExpectExec(q).WithArgs(id).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	}
	mock.ExpectExec(`DELETE FROM accounts`).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingAccountRollsBack(t *testing.T) {
	repo, mock := newMockedAccountRepo(t)
	const id = "ghost"

	mock.ExpectBegin()
	for i := 0; i < 4; i++ {
		mock.ExpectExec(`DELETE FROM`).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	}
	for i := 0; i < 6; i++ {
		mock.ExpectExec(`UPDATE`).WithArgs(id).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	}
	mock.ExpectExec(`DELETE FROM accounts`).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), id)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
