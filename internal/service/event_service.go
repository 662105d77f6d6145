package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campushire/platform/internal/domain"
	"github.com/campushire/platform/internal/events"
	"github.com/campushire/platform/internal/repository"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

// EventService coordinates workshops and registrations.
type EventService struct {
	eventsRepo repository.EventRepository
	dispatcher events.Dispatcher
}

// NewEventService constructs the service.
func NewEventService(eventsRepo repository.EventRepository, dispatcher events.Dispatcher) *EventService {
	return &EventService{eventsRepo: eventsRepo, dispatcher: dispatcher}
}

// EventInput describes an event payload.
type EventInput struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	Capacity    int
}

// EventUpdateInput carries partial changes; nil fields are left untouched.
type EventUpdateInput struct {
	Title       *string
	Description *string
	Location    *string
	StartsAt    *time.Time
	Capacity    *int
}

// CreateEvent creates an event organized by the actor.
func (s *EventService) CreateEvent(ctx context.Context, actor *domain.Account, input EventInput) (*domain.Event, error) {
	if input.Title == "" || input.StartsAt.IsZero() {
		return nil, apperrors.NewValidationError("title and starts_at required", nil)
	}
	if input.Capacity < 0 {
		return nil, apperrors.NewValidationError("capacity must not be negative", nil)
	}

	event := &domain.Event{
		OrganizerID: &actor.ID,
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		StartsAt:    input.StartsAt,
		Capacity:    input.Capacity,
	}
	if err := s.eventsRepo.Create(ctx, event); err != nil {
		return nil, apperrors.MapError(err)
	}
	return event, nil
}

// UpdateEvent applies partial changes to an event the actor organizes.
func (s *EventService) UpdateEvent(ctx context.Context, actor *domain.Account, eventID string, input EventUpdateInput) (*domain.Event, error) {
	event, err := s.ownedEvent(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		event.Title = *input.Title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.StartsAt != nil {
		event.StartsAt = *input.StartsAt
	}
	if input.Capacity != nil {
		if *input.Capacity < 0 {
			return nil, apperrors.NewValidationError("capacity must not be negative", nil)
		}
		event.Capacity = *input.Capacity
	}

	if err := s.eventsRepo.Update(ctx, event); err != nil {
		return nil, apperrors.MapError(err)
	}
	return event, nil
}

// GetEvent loads an event.
func (s *EventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.eventsRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return event, nil
}

// ListEvents returns upcoming events.
func (s *EventService) ListEvents(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	list, err := s.eventsRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// Register adds the actor to an event. A full event or a repeated
// registration is a conflict.
func (s *EventService) Register(ctx context.Context, actor *domain.Account, eventID string) (*domain.Registration, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	reg := &domain.Registration{EventID: eventID, AccountID: actor.ID}
	if err := s.eventsRepo.Register(ctx, reg); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("already registered", nil)
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewConflict("event is full", nil)
		}
		return nil, apperrors.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventEventRegistered,
		AccountID: actor.ID,
		Timestamp: time.Now().UTC(),
		Payload: events.EventRegisteredPayload{
			EventID:       event.ID,
			EventTitle:    event.Title,
			StartsAt:      event.StartsAt,
			AttendeeEmail: actor.Email,
			AttendeeName:  actor.Name,
		},
	})
	return reg, nil
}

// CancelRegistration drops the actor's registration.
func (s *EventService) CancelRegistration(ctx context.Context, actor *domain.Account, eventID string) error {
	err := s.eventsRepo.CancelRegistration(ctx, eventID, actor.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("registration", nil)
	}
	return apperrors.MapError(err)
}

// ListMyRegistrations returns the actor's registrations.
func (s *EventService) ListMyRegistrations(ctx context.Context, actor *domain.Account) ([]domain.Registration, error) {
	regs, err := s.eventsRepo.ListRegistrations(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return regs, nil
}

func (s *EventService) ownedEvent(ctx context.Context, actor *domain.Account, eventID string) (*domain.Event, error) {
	event, err := s.eventsRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if event.OrganizerID == nil || *event.OrganizerID != actor.ID {
		return nil, apperrors.NewNotFound("event", nil)
	}
	return event, nil
}
