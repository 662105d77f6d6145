package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"github.com/campushire/platform/internal/domain"
)

// ApplicationRepository defines persistence access for job applications and
// saved-job bookmarks.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]domain.Application, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.Application, error)
	// UpdateStatus sets the new status and appends one entry to the
	// activity log; the log is append-only.
	UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, entry domain.ActivityEntry) error

	SaveJob(ctx context.Context, jobID, accountID string) error
	UnsaveJob(ctx context.Context, jobID, accountID string) error
	ListSavedJobs(ctx context.Context, accountID string) ([]domain.Job, error)
}

type applicationRepository struct {
	db Querier
}

// NewApplicationRepository returns a Postgres-backed implementation.
func NewApplicationRepository(db Querier) ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `id, job_id, account_id, cover_letter, resume_key, status, activity_log, created_at, updated_at`

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	logJSON, err := json.Marshal(app.ActivityLog)
	if err != nil {
		return err
	}

	const query = `
        INSERT INTO applications (job_id, account_id, cover_letter, resume_key, status, activity_log)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		app.JobID,
		app.AccountID,
		app.CoverLetter,
		app.ResumeKey,
		string(app.Status),
		logJSON,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	const query = `SELECT ` + applicationColumns + ` FROM applications WHERE id=$1`
	return scanApplication(r.db.QueryRow(ctx, query, id))
}

func (r *applicationRepository) ListByJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	const query = `SELECT ` + applicationColumns + ` FROM applications WHERE job_id=$1 ORDER BY created_at DESC`
	return r.listApplications(ctx, query, jobID)
}

func (r *applicationRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Application, error) {
	const query = `SELECT ` + applicationColumns + ` FROM applications WHERE account_id=$1 ORDER BY created_at DESC`
	return r.listApplications(ctx, query, accountID)
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, entry domain.ActivityEntry) error {
	entryJSON, err := json.Marshal([]domain.ActivityEntry{entry})
	if err != nil {
		return err
	}

	const query = `
        UPDATE applications SET status=$2, activity_log = activity_log || $3::jsonb, updated_at=NOW()
        WHERE id=$1`

	cmd, err := r.db.Exec(ctx, query, id, string(status), entryJSON)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *applicationRepository) SaveJob(ctx context.Context, jobID, accountID string) error {
	const query = `
        INSERT INTO saved_jobs (job_id, account_id) VALUES ($1,$2)
        ON CONFLICT (job_id, account_id) DO NOTHING`
	_, err := r.db.Exec(ctx, query, jobID, accountID)
	return err
}

func (r *applicationRepository) UnsaveJob(ctx context.Context, jobID, accountID string) error {
	const query = `DELETE FROM saved_jobs WHERE job_id=$1 AND account_id=$2`
	_, err := r.db.Exec(ctx, query, jobID, accountID)
	return err
}

func (r *applicationRepository) ListSavedJobs(ctx context.Context, accountID string) ([]domain.Job, error) {
	const query = `
        SELECT ` + jobColumns + `
        FROM jobs JOIN saved_jobs s ON s.job_id = jobs.id
        WHERE s.account_id=$1 ORDER BY s.created_at DESC`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (r *applicationRepository) listApplications(ctx context.Context, query string, arg any) ([]domain.Application, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	var status string
	var logJSON []byte
	if err := row.Scan(
		&app.ID,
		&app.JobID,
		&app.AccountID,
		&app.CoverLetter,
		&app.ResumeKey,
		&status,
		&logJSON,
		&app.CreatedAt,
		&app.UpdatedAt,
	); err != nil {
		return nil, err
	}
	app.Status = domain.ApplicationStatus(status)
	if len(logJSON) > 0 {
		if err := json.Unmarshal(logJSON, &app.ActivityLog); err != nil {
			return nil, err
		}
	}
	return &app, nil
}
