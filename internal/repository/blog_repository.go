package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/campushire/platform/internal/domain"
)

// BlogRepository defines persistence access for blog posts.
type BlogRepository interface {
	Create(ctx context.Context, post *domain.BlogPost) error
	Update(ctx context.Context, post *domain.BlogPost) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.BlogPost, error)
	List(ctx context.Context, limit, offset int) ([]domain.BlogPost, error)
}

type blogRepository struct {
	db Querier
}

// NewBlogRepository returns a Postgres-backed implementation.
func NewBlogRepository(db Querier) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, post *domain.BlogPost) error {
	const query = `
        INSERT INTO blog_posts (author_id, title, body)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		post.AuthorID,
		post.Title,
		post.Body,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
}

func (r *blogRepository) Update(ctx context.Context, post *domain.BlogPost) error {
	const query = `
        UPDATE blog_posts SET title=$1, body=$2, updated_at=NOW()
        WHERE id=$3`

	cmd, err := r.db.Exec(ctx, query, post.Title, post.Body, post.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *blogRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM blog_posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, id string) (*domain.BlogPost, error) {
	const query = `
        SELECT id, author_id, title, body, created_at, updated_at
        FROM blog_posts WHERE id=$1`

	var post domain.BlogPost
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Body,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *blogRepository) List(ctx context.Context, limit, offset int) ([]domain.BlogPost, error) {
	const query = `
        SELECT id, author_id, title, body, created_at, updated_at
        FROM blog_posts ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.BlogPost
	for rows.Next() {
		var post domain.BlogPost
		if err := rows.Scan(
			&post.ID,
			&post.AuthorID,
			&post.Title,
			&post.Body,
			&post.CreatedAt,
			&post.UpdatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
