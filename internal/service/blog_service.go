package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/campushire/platform/internal/domain"
	"github.com/campushire/platform/internal/repository"
	apperrors "github.com/campushire/platform/pkg/util/errorutil"
)

// BlogService coordinates blog posts.
type BlogService struct {
	posts repository.BlogRepository
}

// NewBlogService constructs the service.
func NewBlogService(posts repository.BlogRepository) *BlogService {
	return &BlogService{posts: posts}
}

// CreatePost publishes a post authored by the actor.
func (s *BlogService) CreatePost(ctx context.Context, actor *domain.Account, title, body string) (*domain.BlogPost, error) {
	if title == "" || body == "" {
		return nil, apperrors.NewValidationError("title and body required", nil)
	}

	post := &domain.BlogPost{AuthorID: &actor.ID, Title: title, Body: body}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, apperrors.MapError(err)
	}
	return post, nil
}

// UpdatePost applies changes to a post the actor authored.
func (s *BlogService) UpdatePost(ctx context.Context, actor *domain.Account, postID, title, body string) (*domain.BlogPost, error) {
	post, err := s.ownedPost(ctx, actor, postID)
	if err != nil {
		return nil, err
	}

	if title != "" {
		post.Title = title
	}
	if body != "" {
		post.Body = body
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, apperrors.MapError(err)
	}
	return post, nil
}

// DeletePost removes a post the actor authored.
func (s *BlogService) DeletePost(ctx context.Context, actor *domain.Account, postID string) error {
	if _, err := s.ownedPost(ctx, actor, postID); err != nil {
		return err
	}
	return apperrors.MapError(s.posts.Delete(ctx, postID))
}

// GetPost loads a post.
func (s *BlogService) GetPost(ctx context.Context, postID string) (*domain.BlogPost, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("post", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return post, nil
}

// ListPosts returns a page of posts.
func (s *BlogService) ListPosts(ctx context.Context, limit, offset int) ([]domain.BlogPost, error) {
	posts, err := s.posts.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return posts, nil
}

func (s *BlogService) ownedPost(ctx context.Context, actor *domain.Account, postID string) (*domain.BlogPost, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("post", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if post.AuthorID == nil || *post.AuthorID != actor.ID {
		return nil, apperrors.NewNotFound("post", nil)
	}
	return post, nil
}
