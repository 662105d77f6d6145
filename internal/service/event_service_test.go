package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushire/platform/internal/domain"
	"github.com/campushire/platform/internal/events"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

type fakeEventRepo struct {
	events        map[string]*domain.Event
	registrations map[string][]domain.Registration
	nextID        int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:        make(map[string]*domain.Event),
		registrations: make(map[string][]domain.Registration),
	}
}

func (r *fakeEventRepo) Create(_ context.Context, event *domain.Event) error {
	r.nextID++
	event.ID = fmt.Sprintf("evt-%d", r.nextID)
	clone := *event
	r.events[event.ID] = &clone
	return nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *domain.Event) error {
	if _, ok := r.events[event.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *event
	r.events[event.ID] = &clone
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *event
	return &clone, nil
}

func (r *fakeEventRepo) List(_ context.Context, _, _ int) ([]domain.Event, error) {
	out := make([]domain.Event, 0, len(r.events))
	for _, event := range r.events {
		out = append(out, *event)
	}
	return out, nil
}

func (r *fakeEventRepo) Register(_ context.Context, reg *domain.Registration) error {
	event, ok := r.events[reg.EventID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing := r.registrations[reg.EventID]
	for _, prior := range existing {
		if prior.AccountID == reg.AccountID {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		}
	}
	if event.Capacity > 0 && len(existing) >= event.Capacity {
		return pgx.ErrNoRows
	}
	r.registrations[reg.EventID] = append(existing, *reg)
	return nil
}

func (r *fakeEventRepo) CancelRegistration(_ context.Context, eventID, accountID string) error {
	existing := r.registrations[eventID]
	for i, reg := range existing {
		if reg.AccountID == accountID {
			r.registrations[eventID] = append(existing[:i], existing[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeEventRepo) ListRegistrations(_ context.Context, _ string) ([]domain.Registration, error) {
	return nil, nil
}

func newTestEventService(t *testing.T) (*EventService, *fakeEventRepo) {
	t.Helper()
	repo := newFakeEventRepo()
	return NewEventService(repo, events.NewInMemoryDispatcher()), repo
}

func TestUpdateEventLeavesOmittedFieldsUntouched(t *testing.T) {
	svc, _ := newTestEventService(t)
	ctx := context.Background()
	organizer := recruiter("rec-1")
	startsAt := time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC)

	event, err := svc.CreateEvent(ctx, organizer, EventInput{
		Title:       "Career Fair",
		Description: "Meet twenty local employers",
		Location:    "Main Hall",
		StartsAt:    startsAt,
		Capacity:    100,
	})
	require.NoError(t, err)

	title := "Autumn Career Fair"
	updated, err := svc.UpdateEvent(ctx, organizer, event.ID, EventUpdateInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, "Meet twenty local employers", updated.Description)
	assert.Equal(t, "Main Hall", updated.Location)
	assert.Equal(t, startsAt, updated.StartsAt)
	assert.Equal(t, 100, updated.Capacity)

	negative := -1
	_, err = svc.UpdateEvent(ctx, organizer, event.ID, EventUpdateInput{Capacity: &negative})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestUpdateEventOwnershipMissReadsAsNotFound(t *testing.T) {
	svc, _ := newTestEventService(t)
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, recruiter("rec-1"), EventInput{
		Title:    "Career Fair",
		StartsAt: time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	title := "Hijacked"
	_, err = svc.UpdateEvent(ctx, recruiter("rec-2"), event.ID, EventUpdateInput{Title: &title})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestRegisterFullEventIsConflict(t *testing.T) {
	svc, _ := newTestEventService(t)
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, recruiter("rec-1"), EventInput{
		Title:    "Workshop",
		StartsAt: time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC),
		Capacity: 1,
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, member("usr-1"), event.ID)
	require.NoError(t, err)

	_, err = svc.Register(ctx, member("usr-2"), event.ID)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)

	// Repeat registration by the same attendee is also a conflict.
	_, err = svc.Register(ctx, member("usr-1"), event.ID)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestCancelRegistration(t *testing.T) {
	svc, _ := newTestEventService(t)
	ctx := context.Background()
	attendee := member("usr-1")

	event, err := svc.CreateEvent(ctx, recruiter("rec-1"), EventInput{
		Title:    "Workshop",
		StartsAt: time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, attendee, event.ID)
	require.NoError(t, err)
	require.NoError(t, svc.CancelRegistration(ctx, attendee, event.ID))

	err = svc.CancelRegistration(ctx, attendee, event.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
