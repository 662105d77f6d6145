package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/campushire/platform/internal/domain"
)

// AccountRepository defines persistence access for accounts. Token
// consumption methods are conditional updates so that validate-and-clear is
// a single atomic read-modify-write; two racing consumers of the same token
// cannot both succeed.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	UpdateProfile(ctx context.Context, account *domain.Account) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]domain.Account, error)

	SetVerificationToken(ctx context.Context, id, token string, expiresAt time.Time) error
	ConsumeVerificationToken(ctx context.Context, email, token string, now time.Time) (bool, error)
	SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, token, newPasswordHash string, now time.Time) (bool, error)

	Delete(ctx context.Context, id string) error
}

type accountRepository struct {
	db Querier
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(db Querier) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `id, email, name, headline, bio, role, password_hash, verified,
        verification_token, verification_expires_at, reset_token, reset_expires_at,
        created_at, updated_at`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (email, name, headline, bio, role, password_hash, verified,
            verification_token, verification_expires_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		account.Email,
		account.Name,
		account.Headline,
		account.Bio,
		string(account.Role),
		account.PasswordHash,
		account.Verified,
		account.VerificationToken,
		account.VerificationExpiresAt,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (r *accountRepository) UpdateProfile(ctx context.Context, account *domain.Account) error {
	const query = `
        UPDATE accounts SET name=$1, headline=$2, bio=$3, updated_at=NOW()
        WHERE id=$4`

	cmd, err := r.db.Exec(ctx, query,
		account.Name,
		account.Headline,
		account.Bio,
		account.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `
        UPDATE accounts SET password_hash=$1, updated_at=NOW()
        WHERE id=$2`

	cmd, err := r.db.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	const query = `
        UPDATE accounts SET role=$1, updated_at=NOW()
        WHERE id=$2`

	cmd, err := r.db.Exec(ctx, query, string(role), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id=$1`
	return r.scanAccount(r.db.QueryRow(ctx, query, id))
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	// Callers pass normalized addresses; LOWER on the column keeps lookups
	// consistent with the uniqueness index either way.
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email)=$1`
	return r.scanAccount(r.db.QueryRow(ctx, query, domain.NormalizeEmail(email)))
}

func (r *accountRepository) List(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := r.scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) SetVerificationToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	const query = `
        UPDATE accounts SET verification_token=$1, verification_expires_at=$2, updated_at=NOW()
        WHERE id=$3`

	cmd, err := r.db.Exec(ctx, query, token, expiresAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ConsumeVerificationToken flips the account to verified and clears the slot
// in one statement. It succeeds only when the stored token matches and its
// expiry is strictly in the future.
func (r *accountRepository) ConsumeVerificationToken(ctx context.Context, email, token string, now time.Time) (bool, error) {
	const query = `
        UPDATE accounts SET verified=TRUE, verification_token=NULL, verification_expires_at=NULL, updated_at=NOW()
        WHERE LOWER(email)=$1 AND verification_token=$2 AND verification_expires_at > $3`

	cmd, err := r.db.Exec(ctx, query, domain.NormalizeEmail(email), token, now)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *accountRepository) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	const query = `
        UPDATE accounts SET reset_token=$1, reset_expires_at=$2, updated_at=NOW()
        WHERE id=$3`

	cmd, err := r.db.Exec(ctx, query, token, expiresAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ConsumeResetToken replaces the password hash and clears the slot in one
// statement, keyed on the token value and a live expiry.
func (r *accountRepository) ConsumeResetToken(ctx context.Context, token, newPasswordHash string, now time.Time) (bool, error) {
	const query = `
        UPDATE accounts SET password_hash=$2, reset_token=NULL, reset_expires_at=NULL, updated_at=NOW()
        WHERE reset_token=$1 AND reset_expires_at > $3`

	cmd, err := r.db.Exec(ctx, query, token, newPasswordHash, now)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

// Delete removes the account and its personal rows, and nulls ownership
// references on content the account authored so other users' data survives.
func (r *accountRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	personal := []string{
		`DELETE FROM applications WHERE account_id=$1`,
		`DELETE FROM saved_jobs WHERE account_id=$1`,
		`DELETE FROM enrollments WHERE account_id=$1`,
		`DELETE FROM event_registrations WHERE account_id=$1`,
	}
	for _, query := range personal {
		if _, err := tx.Exec(ctx, query, id); err != nil {
			return err
		}
	}

	owned := []string{
		`UPDATE jobs SET recruiter_id=NULL WHERE recruiter_id=$1`,
		`UPDATE courses SET author_id=NULL WHERE author_id=$1`,
		`UPDATE blog_posts SET author_id=NULL WHERE author_id=$1`,
		`UPDATE threads SET author_id=NULL WHERE author_id=$1`,
		`UPDATE replies SET author_id=NULL WHERE author_id=$1`,
		`UPDATE events SET organizer_id=NULL WHERE organizer_id=$1`,
	}
	for _, query := range owned {
		if _, err := tx.Exec(ctx, query, id); err != nil {
			return err
		}
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM accounts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

func (r *accountRepository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	var role string
	if err := row.Scan(
		&account.ID,
		&account.Email,
		&account.Name,
		&account.Headline,
		&account.Bio,
		&role,
		&account.PasswordHash,
		&account.Verified,
		&account.VerificationToken,
		&account.VerificationExpiresAt,
		&account.ResetToken,
		&account.ResetExpiresAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}

	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	account.Role = parsed
	return &account, nil
}
