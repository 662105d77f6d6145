package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/campushire/platform/internal/domain"
)

// DiscussionRepository defines persistence access for forum threads and
// replies.
type DiscussionRepository interface {
	CreateThread(ctx context.Context, thread *domain.Thread) error
	GetThread(ctx context.Context, id string) (*domain.Thread, error)
	ListThreads(ctx context.Context, limit, offset int) ([]domain.Thread, error)
	DeleteThread(ctx context.Context, id string) error

	CreateReply(ctx context.Context, reply *domain.Reply) error
	GetReply(ctx context.Context, id string) (*domain.Reply, error)
	ListReplies(ctx context.Context, threadID string) ([]domain.Reply, error)
	DeleteReply(ctx context.Context, id string) error
}

type discussionRepository struct {
	db Querier
}

// NewDiscussionRepository returns a Postgres-backed implementation.
func NewDiscussionRepository(db Querier) DiscussionRepository {
	return &discussionRepository{db: db}
}

func (r *discussionRepository) CreateThread(ctx context.Context, thread *domain.Thread) error {
	const query = `
        INSERT INTO threads (author_id, title, body)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		thread.AuthorID,
		thread.Title,
		thread.Body,
	).Scan(&thread.ID, &thread.CreatedAt)
}

func (r *discussionRepository) GetThread(ctx context.Context, id string) (*domain.Thread, error) {
	const query = `SELECT id, author_id, title, body, created_at FROM threads WHERE id=$1`

	var thread domain.Thread
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&thread.ID,
		&thread.AuthorID,
		&thread.Title,
		&thread.Body,
		&thread.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *discussionRepository) ListThreads(ctx context.Context, limit, offset int) ([]domain.Thread, error) {
	const query = `
        SELECT id, author_id, title, body, created_at
        FROM threads ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []domain.Thread
	for rows.Next() {
		var thread domain.Thread
		if err := rows.Scan(&thread.ID, &thread.AuthorID, &thread.Title, &thread.Body, &thread.CreatedAt); err != nil {
			return nil, err
		}
		threads = append(threads, thread)
	}
	return threads, rows.Err()
}

func (r *discussionRepository) DeleteThread(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM threads WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *discussionRepository) CreateReply(ctx context.Context, reply *domain.Reply) error {
	const query = `
        INSERT INTO replies (thread_id, author_id, body)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		reply.ThreadID,
		reply.AuthorID,
		reply.Body,
	).Scan(&reply.ID, &reply.CreatedAt)
}

func (r *discussionRepository) GetReply(ctx context.Context, id string) (*domain.Reply, error) {
	const query = `SELECT id, thread_id, author_id, body, created_at FROM replies WHERE id=$1`

	var reply domain.Reply
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&reply.ID,
		&reply.ThreadID,
		&reply.AuthorID,
		&reply.Body,
		&reply.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *discussionRepository) ListReplies(ctx context.Context, threadID string) ([]domain.Reply, error) {
	const query = `
        SELECT id, thread_id, author_id, body, created_at
        FROM replies WHERE thread_id=$1 ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var replies []domain.Reply
	for rows.Next() {
		var reply domain.Reply
		if err := rows.Scan(&reply.ID, &reply.ThreadID, &reply.AuthorID, &reply.Body, &reply.CreatedAt); err != nil {
			return nil, err
		}
		replies = append(replies, reply)
	}
	return replies, rows.Err()
}

func (r *discussionRepository) DeleteReply(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM replies WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
