package domain

import (
	"fmt"
	"strings"
	"time"
)

// JobStatus represents lifecycle states for a posting.
type JobStatus string

const (
	JobStatusOpen   JobStatus = "OPEN"
	JobStatusClosed JobStatus = "CLOSED"
)

// Job is a recruiter's posting. RecruiterID is nullable: deleting the
// recruiter account nulls the reference but keeps the posting, so jobs other
// users applied to survive.
type Job struct {
	ID          string
	RecruiterID *string
	Title       string
	Company     string
	Location    string
	Description string
	Salary      *string
	Status      JobStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ApplicationStatus enumerates application review states.
type ApplicationStatus string

const (
	ApplicationStatusSubmitted ApplicationStatus = "SUBMITTED"
	ApplicationStatusReviewed  ApplicationStatus = "REVIEWED"
	ApplicationStatusAccepted  ApplicationStatus = "ACCEPTED"
	ApplicationStatusRejected  ApplicationStatus = "REJECTED"
)

// ParseApplicationStatus normalizes a raw review state, rejecting values
// outside the closed set.
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	switch ApplicationStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case ApplicationStatusSubmitted:
		return ApplicationStatusSubmitted, nil
	case ApplicationStatusReviewed:
		return ApplicationStatusReviewed, nil
	case ApplicationStatusAccepted:
		return ApplicationStatusAccepted, nil
	case ApplicationStatusRejected:
		return ApplicationStatusRejected, nil
	default:
		return "", fmt.Errorf("unknown application status %q", raw)
	}
}

// ActivityEntry is one record in an application's append-only activity log.
type ActivityEntry struct {
	At     time.Time         `json:"at"`
	Actor  string            `json:"actor"`
	Status ApplicationStatus `json:"status"`
	Note   string            `json:"note,omitempty"`
}

// Application links an account to a job. One application per account+job;
// the activity log is appended to, never rewritten.
type Application struct {
	ID          string
	JobID       string
	AccountID   string
	CoverLetter string
	ResumeKey   *string
	Status      ApplicationStatus
	ActivityLog []ActivityEntry
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SavedJob is a bookmark row, hard-deleted with its owner.
type SavedJob struct {
	JobID     string
	AccountID string
	CreatedAt time.Time
}
