package domain

import "time"

// Event is a workshop or meetup with optional capacity (0 = unlimited).
type Event struct {
	ID          string
	OrganizerID *string
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	Capacity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Registration links an account to an event, one row per account+event.
type Registration struct {
	ID        string
	EventID   string
	AccountID string
	CreatedAt time.Time
}
