package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/campushire/platform/internal/domain"
)

// CourseRepository defines persistence access for courses, lessons and
// enrollments.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	Update(ctx context.Context, course *domain.Course) error
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]domain.Course, error)

	CreateLesson(ctx context.Context, lesson *domain.Lesson) error
	ListLessons(ctx context.Context, courseID string) ([]domain.Lesson, error)

	Enroll(ctx context.Context, enrollment *domain.Enrollment) error
	ListEnrollments(ctx context.Context, accountID string) ([]domain.Enrollment, error)
}

type courseRepository struct {
	db Querier
}

// NewCourseRepository returns a Postgres-backed implementation.
func NewCourseRepository(db Querier) CourseRepository {
	return &courseRepository{db: db}
}

const courseColumns = `id, author_id, title, description, published, created_at, updated_at`

func (r *courseRepository) Create(ctx context.Context, course *domain.Course) error {
	const query = `
        INSERT INTO courses (author_id, title, description, published)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		course.AuthorID,
		course.Title,
		course.Description,
		course.Published,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
}

func (r *courseRepository) Update(ctx context.Context, course *domain.Course) error {
	const query = `
        UPDATE courses SET title=$1, description=$2, published=$3, updated_at=NOW()
        WHERE id=$4`

	cmd, err := r.db.Exec(ctx, query,
		course.Title,
		course.Description,
		course.Published,
		course.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	const query = `SELECT ` + courseColumns + ` FROM courses WHERE id=$1`

	var course domain.Course
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.AuthorID,
		&course.Title,
		&course.Description,
		&course.Published,
		&course.CreatedAt,
		&course.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses`
	if publishedOnly {
		query += ` WHERE published=TRUE`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		var course domain.Course
		if err := rows.Scan(
			&course.ID,
			&course.AuthorID,
			&course.Title,
			&course.Description,
			&course.Published,
			&course.CreatedAt,
			&course.UpdatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (r *courseRepository) CreateLesson(ctx context.Context, lesson *domain.Lesson) error {
	const query = `
        INSERT INTO lessons (course_id, position, title, body, content_key)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		lesson.CourseID,
		lesson.Position,
		lesson.Title,
		lesson.Body,
		lesson.ContentKey,
	).Scan(&lesson.ID, &lesson.CreatedAt)
}

func (r *courseRepository) ListLessons(ctx context.Context, courseID string) ([]domain.Lesson, error) {
	const query = `
        SELECT id, course_id, position, title, body, content_key, created_at
        FROM lessons WHERE course_id=$1 ORDER BY position ASC`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []domain.Lesson
	for rows.Next() {
		var lesson domain.Lesson
		if err := rows.Scan(
			&lesson.ID,
			&lesson.CourseID,
			&lesson.Position,
			&lesson.Title,
			&lesson.Body,
			&lesson.ContentKey,
			&lesson.CreatedAt,
		); err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	return lessons, rows.Err()
}

func (r *courseRepository) Enroll(ctx context.Context, enrollment *domain.Enrollment) error {
	const query = `
        INSERT INTO enrollments (course_id, account_id)
        VALUES ($1,$2)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		enrollment.CourseID,
		enrollment.AccountID,
	).Scan(&enrollment.ID, &enrollment.CreatedAt)
}

func (r *courseRepository) ListEnrollments(ctx context.Context, accountID string) ([]domain.Enrollment, error) {
	const query = `
        SELECT id, course_id, account_id, created_at
        FROM enrollments WHERE account_id=$1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []domain.Enrollment
	for rows.Next() {
		var e domain.Enrollment
		if err := rows.Scan(&e.ID, &e.CourseID, &e.AccountID, &e.CreatedAt); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}
