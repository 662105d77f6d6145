package domain

import "time"

// BlogPost is an authored article; AuthorID goes NULL on author deletion.
type BlogPost struct {
	ID        string
	AuthorID  *string
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
