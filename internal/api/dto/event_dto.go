package dto

import (
	"time"

	"github.com/campushire/platform/internal/domain"
)

type EventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	Capacity    int       `json:"capacity"`
}

// UpdateEventRequest carries partial changes; omitted fields stay unset.
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    *time.Time `json:"starts_at"`
	Capacity    *int       `json:"capacity"`
}

type EventResponse struct {
	ID          string    `json:"id"`
	OrganizerID *string   `json:"organizer_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	Capacity    int       `json:"capacity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewEventResponse(event *domain.Event) EventResponse {
	return EventResponse{
		ID:          event.ID,
		OrganizerID: event.OrganizerID,
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		StartsAt:    event.StartsAt,
		Capacity:    event.Capacity,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}

func NewEventListResponse(list []domain.Event) []EventResponse {
	out := make([]EventResponse, 0, len(list))
	for i := range list {
		out = append(out, NewEventResponse(&list[i]))
	}
	return out
}

type RegistrationResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	AccountID string    `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewRegistrationResponse(reg *domain.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:        reg.ID,
		EventID:   reg.EventID,
		AccountID: reg.AccountID,
		CreatedAt: reg.CreatedAt,
	}
}

func NewRegistrationListResponse(regs []domain.Registration) []RegistrationResponse {
	out := make([]RegistrationResponse, 0, len(regs))
	for i := range regs {
		out = append(out, NewRegistrationResponse(&regs[i]))
	}
	return out
}
