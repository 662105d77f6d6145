package domain

import "time"

// Course is authored content. AuthorID is nulled rather than cascaded when
// the author account is deleted.
type Course struct {
	ID          string
	AuthorID    *string
	Title       string
	Description string
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Lesson is ordered course content; ContentKey points at an uploaded file in
// the storage backend when present.
type Lesson struct {
	ID         string
	CourseID   string
	Position   int
	Title      string
	Body       string
	ContentKey *string
	CreatedAt  time.Time
}

// Enrollment links an account to a course, one row per account+course.
type Enrollment struct {
	ID        string
	CourseID  string
	AccountID string
	CreatedAt time.Time
}
