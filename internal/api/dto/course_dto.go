package dto

import (
	"time"

	"github.com/campushire/platform/internal/domain"
)

type CourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Published   bool   `json:"published"`
}

// UpdateCourseRequest carries partial changes; omitted fields stay unset.
type UpdateCourseRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Published   *bool   `json:"published"`
}

// AddLessonRequest carries lesson fields and an optional base64-encoded
// content file.
type AddLessonRequest struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	Position    int    `json:"position"`
	Content     string `json:"content,omitempty"`
	ContentName string `json:"content_name,omitempty"`
}

type LessonResponse struct {
	ID         string  `json:"id"`
	CourseID   string  `json:"course_id"`
	Position   int     `json:"position"`
	Title      string  `json:"title"`
	Body       string  `json:"body,omitempty"`
	ContentKey *string `json:"content_key,omitempty"`
}

type CourseResponse struct {
	ID          string           `json:"id"`
	AuthorID    *string          `json:"author_id,omitempty"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Published   bool             `json:"published"`
	Lessons     []LessonResponse `json:"lessons,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func NewLessonResponse(lesson *domain.Lesson) LessonResponse {
	return LessonResponse{
		ID:         lesson.ID,
		CourseID:   lesson.CourseID,
		Position:   lesson.Position,
		Title:      lesson.Title,
		Body:       lesson.Body,
		ContentKey: lesson.ContentKey,
	}
}

func NewCourseResponse(course *domain.Course, lessons []domain.Lesson) CourseResponse {
	resp := CourseResponse{
		ID:          course.ID,
		AuthorID:    course.AuthorID,
		Title:       course.Title,
		Description: course.Description,
		Published:   course.Published,
		CreatedAt:   course.CreatedAt,
		UpdatedAt:   course.UpdatedAt,
	}
	for i := range lessons {
		resp.Lessons = append(resp.Lessons, NewLessonResponse(&lessons[i]))
	}
	return resp
}

func NewCourseListResponse(courses []domain.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, NewCourseResponse(&courses[i], nil))
	}
	return out
}

type EnrollmentResponse struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	AccountID string    `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewEnrollmentResponse(e *domain.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:        e.ID,
		CourseID:  e.CourseID,
		AccountID: e.AccountID,
		CreatedAt: e.CreatedAt,
	}
}

func NewEnrollmentListResponse(items []domain.Enrollment) []EnrollmentResponse {
	out := make([]EnrollmentResponse, 0, len(items))
	for i := range items {
		out = append(out, NewEnrollmentResponse(&items[i]))
	}
	return out
}
