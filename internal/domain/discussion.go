package domain

import "time"

// Thread is a top-level forum topic.
type Thread struct {
	ID        string
	AuthorID  *string
	Title     string
	Body      string
	CreatedAt time.Time
}

// Reply belongs to a thread.
type Reply struct {
	ID        string
	ThreadID  string
	AuthorID  *string
	Body      string
	CreatedAt time.Time
}
