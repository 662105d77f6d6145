package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/campushire/platform/internal/domain"
	"github.com/campushire/platform/internal/repository"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

// DiscussionService coordinates forum threads and replies.
type DiscussionService struct {
	discussions repository.DiscussionRepository
}

// NewDiscussionService constructs the service.
func NewDiscussionService(discussions repository.DiscussionRepository) *DiscussionService {
	return &DiscussionService{discussions: discussions}
}

// CreateThread opens a topic authored by the actor.
func (s *DiscussionService) CreateThread(ctx context.Context, actor *domain.Account, title, body string) (*domain.Thread, error) {
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	thread := &domain.Thread{AuthorID: &actor.ID, Title: title, Body: body}
	if err := s.discussions.CreateThread(ctx, thread); err != nil {
		return nil, apperrors.MapError(err)
	}
	return thread, nil
}

// GetThread loads a thread and its replies.
func (s *DiscussionService) GetThread(ctx context.Context, threadID string) (*domain.Thread, []domain.Reply, error) {
	thread, err := s.discussions.GetThread(ctx, threadID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("thread", nil)
		}
		return nil, nil, apperrors.MapError(err)
	}

	replies, err := s.discussions.ListReplies(ctx, threadID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return thread, replies, nil
}

// ListThreads returns a page of threads.
func (s *DiscussionService) ListThreads(ctx context.Context, limit, offset int) ([]domain.Thread, error) {
	threads, err := s.discussions.ListThreads(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return threads, nil
}

// Reply posts a reply to an existing thread.
func (s *DiscussionService) Reply(ctx context.Context, actor *domain.Account, threadID, body string) (*domain.Reply, error) {
	if body == "" {
		return nil, apperrors.NewValidationError("body required", nil)
	}
	if _, err := s.discussions.GetThread(ctx, threadID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("thread", nil)
		}
		return nil, apperrors.MapError(err)
	}

	reply := &domain.Reply{ThreadID: threadID, AuthorID: &actor.ID, Body: body}
	if err := s.discussions.CreateReply(ctx, reply); err != nil {
		return nil, apperrors.MapError(err)
	}
	return reply, nil
}

// DeleteThread removes a thread the actor authored.
func (s *DiscussionService) DeleteThread(ctx context.Context, actor *domain.Account, threadID string) error {
	thread, err := s.discussions.GetThread(ctx, threadID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("thread", nil)
		}
		return apperrors.MapError(err)
	}
	if thread.AuthorID == nil || *thread.AuthorID != actor.ID {
		return apperrors.NewNotFound("thread", nil)
	}
	return apperrors.MapError(s.discussions.DeleteThread(ctx, threadID))
}

// DeleteReply removes a reply the actor authored.
func (s *DiscussionService) DeleteReply(ctx context.Context, actor *domain.Account, replyID string) error {
	reply, err := s.discussions.GetReply(ctx, replyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("reply", nil)
		}
		return apperrors.MapError(err)
	}
	if reply.AuthorID == nil || *reply.AuthorID != actor.ID {
		return apperrors.NewNotFound("reply", nil)
	}
	return apperrors.MapError(s.discussions.DeleteReply(ctx, replyID))
}
