package events

import (
	"time"

	"github.com/campushire/platform/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered        EventType = "account_registered"
	EventVerificationResent       EventType = "verification_resent"
	EventPasswordResetRequested   EventType = "password_reset_requested"
	EventApplicationSubmitted     EventType = "application_submitted"
	EventApplicationStatusChanged EventType = "application_status_changed"
	EventEventRegistered          EventType = "event_registered"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	AccountID string      `json:"account_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccountRegisteredPayload carries what the welcome/verification mail needs.
type AccountRegisteredPayload struct {
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	VerificationToken string    `json:"-"`
	TokenExpiresAt    time.Time `json:"token_expires_at"`
}

// VerificationResentPayload carries a regenerated verification token or OTP.
type VerificationResentPayload struct {
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Token          string    `json:"-"`
	IsOTP          bool      `json:"is_otp"`
	TokenExpiresAt time.Time `json:"token_expires_at"`
}

// PasswordResetRequestedPayload carries the reset token for mail rendering.
type PasswordResetRequestedPayload struct {
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Token          string    `json:"-"`
	TokenExpiresAt time.Time `json:"token_expires_at"`
}

// ApplicationSubmittedPayload payload.
type ApplicationSubmittedPayload struct {
	ApplicationID  string `json:"application_id"`
	JobID          string `json:"job_id"`
	JobTitle       string `json:"job_title"`
	ApplicantEmail string `json:"applicant_email"`
	ApplicantName  string `json:"applicant_name"`
}

// ApplicationStatusChangedPayload payload.
type ApplicationStatusChangedPayload struct {
	ApplicationID  string                   `json:"application_id"`
	JobTitle       string                   `json:"job_title"`
	OldStatus      domain.ApplicationStatus `json:"old_status"`
	NewStatus      domain.ApplicationStatus `json:"new_status"`
	ApplicantEmail string                   `json:"applicant_email"`
	ApplicantName  string                   `json:"applicant_name"`
}

// EventRegisteredPayload payload for workshop registrations.
type EventRegisteredPayload struct {
	EventID       string    `json:"event_id"`
	EventTitle    string    `json:"event_title"`
	StartsAt      time.Time `json:"starts_at"`
	AttendeeEmail string    `json:"attendee_email"`
	AttendeeName  string    `json:"attendee_name"`
}
