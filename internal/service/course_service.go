package service

import (
	"context"
	"errors"
	"path"

	"github.com/jackc/pgx/v5"

	"github.com/campushire/platform/internal/domain"
	"github.com/campushire/platform/internal/repository"
	"github.com/campushire/platform/internal/storage"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

// CourseService coordinates course authoring, lesson uploads and enrollment.
type CourseService struct {
	courses repository.CourseRepository
	store   storage.Storage
}

// NewCourseService constructs the service.
func NewCourseService(courses repository.CourseRepository, store storage.Storage) *CourseService {
	return &CourseService{courses: courses, store: store}
}

// CourseInput describes a course payload.
type CourseInput struct {
	Title       string
	Description string
	Published   bool
}

// CourseUpdateInput carries partial changes; nil fields are left untouched.
type CourseUpdateInput struct {
	Title       *string
	Description *string
	Published   *bool
}

// LessonInput describes a lesson with an optional content file.
type LessonInput struct {
	Title       string
	Body        string
	Position    int
	Content     []byte
	ContentName string
}

// CreateCourse creates a course authored by the actor.
func (s *CourseService) CreateCourse(ctx context.Context, actor *domain.Account, input CourseInput) (*domain.Course, error) {
	if input.Title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	course := &domain.Course{
		AuthorID:    &actor.ID,
		Title:       input.Title,
		Description: input.Description,
		Published:   input.Published,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, apperrors.MapError(err)
	}
	return course, nil
}

// UpdateCourse applies partial changes to a course the actor authored.
func (s *CourseService) UpdateCourse(ctx context.Context, actor *domain.Account, courseID string, input CourseUpdateInput) (*domain.Course, error) {
	course, err := s.ownedCourse(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		course.Title = *input.Title
	}
	if input.Description != nil {
		course.Description = *input.Description
	}
	if input.Published != nil {
		course.Published = *input.Published
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, apperrors.MapError(err)
	}
	return course, nil
}

// AddLesson appends a lesson, uploading its content file when provided.
func (s *CourseService) AddLesson(ctx context.Context, actor *domain.Account, courseID string, input LessonInput) (*domain.Lesson, error) {
	if _, err := s.ownedCourse(ctx, actor, courseID); err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	var contentKey *string
	if len(input.Content) > 0 {
		ext := path.Ext(input.ContentName)
		if ext != "" {
			ext = ext[1:]
		}
		key, err := s.store.Save(ctx, input.Content, storage.SaveOptions{
			Category:  "lessons",
			BaseName:  courseID,
			Extension: ext,
		})
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		contentKey = &key
	}

	lesson := &domain.Lesson{
		CourseID:   courseID,
		Position:   input.Position,
		Title:      input.Title,
		Body:       input.Body,
		ContentKey: contentKey,
	}
	if err := s.courses.CreateLesson(ctx, lesson); err != nil {
		return nil, apperrors.MapError(err)
	}
	return lesson, nil
}

// GetCourse loads a course with its lessons.
func (s *CourseService) GetCourse(ctx context.Context, courseID string) (*domain.Course, []domain.Lesson, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("course", nil)
		}
		return nil, nil, apperrors.MapError(err)
	}

	lessons, err := s.courses.ListLessons(ctx, courseID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return course, lessons, nil
}

// ListCourses returns published courses.
func (s *CourseService) ListCourses(ctx context.Context, limit, offset int) ([]domain.Course, error) {
	courses, err := s.courses.List(ctx, true, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return courses, nil
}

// Enroll adds the actor to a published course; repeats are a conflict.
func (s *CourseService) Enroll(ctx context.Context, actor *domain.Account, courseID string) (*domain.Enrollment, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("course", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !course.Published {
		return nil, apperrors.NewNotFound("course", nil)
	}

	enrollment := &domain.Enrollment{CourseID: courseID, AccountID: actor.ID}
	if err := s.courses.Enroll(ctx, enrollment); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("already enrolled", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return enrollment, nil
}

// ListMyEnrollments returns the actor's enrollments.
func (s *CourseService) ListMyEnrollments(ctx context.Context, actor *domain.Account) ([]domain.Enrollment, error) {
	enrollments, err := s.courses.ListEnrollments(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return enrollments, nil
}

func (s *CourseService) ownedCourse(ctx context.Context, actor *domain.Account, courseID string) (*domain.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("course", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if course.AuthorID == nil || *course.AuthorID != actor.ID {
		return nil, apperrors.NewNotFound("course", nil)
	}
	return course, nil
}
