package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/campushire/platform/internal/domain"
)

// EventRepository defines persistence access for events and registrations.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, limit, offset int) ([]domain.Event, error)

	// Register inserts a registration unless the event is at capacity; the
	// capacity check and insert are one statement so racing registrations
	// cannot oversubscribe. Returns pgx.ErrNoRows when full.
	Register(ctx context.Context, reg *domain.Registration) error
	CancelRegistration(ctx context.Context, eventID, accountID string) error
	ListRegistrations(ctx context.Context, accountID string) ([]domain.Registration, error)
}

type eventRepository struct {
	db Querier
}

// NewEventRepository returns a Postgres-backed implementation.
func NewEventRepository(db Querier) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, organizer_id, title, description, location, starts_at, capacity, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (organizer_id, title, description, location, starts_at, capacity)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		event.OrganizerID,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.Capacity,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	const query = `
        UPDATE events SET title=$1, description=$2, location=$3, starts_at=$4, capacity=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.db.Exec(ctx, query,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.Capacity,
		event.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events WHERE id=$1`

	var event domain.Event
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.OrganizerID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.StartsAt,
		&event.Capacity,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events ORDER BY starts_at ASC LIMIT $1 OFFSET $2`

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var eventList []domain.Event
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(
			&event.ID,
			&event.OrganizerID,
			&event.Title,
			&event.Description,
			&event.Location,
			&event.StartsAt,
			&event.Capacity,
			&event.CreatedAt,
			&event.UpdatedAt,
		); err != nil {
			return nil, err
		}
		eventList = append(eventList, event)
	}
	return eventList, rows.Err()
}

func (r *eventRepository) Register(ctx context.Context, reg *domain.Registration) error {
	// capacity 0 means unlimited
	const query = `
        INSERT INTO event_registrations (event_id, account_id)
        SELECT $1, $2
        WHERE (SELECT capacity FROM events WHERE id=$1) = 0
           OR (SELECT COUNT(*) FROM event_registrations WHERE event_id=$1)
              < (SELECT capacity FROM events WHERE id=$1)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		reg.EventID,
		reg.AccountID,
	).Scan(&reg.ID, &reg.CreatedAt)
}

func (r *eventRepository) CancelRegistration(ctx context.Context, eventID, accountID string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM event_registrations WHERE event_id=$1 AND account_id=$2`, eventID, accountID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) ListRegistrations(ctx context.Context, accountID string) ([]domain.Registration, error) {
	const query = `
        SELECT id, event_id, account_id, created_at
        FROM event_registrations WHERE account_id=$1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []domain.Registration
	for rows.Next() {
		var reg domain.Registration
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.AccountID, &reg.CreatedAt); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}
