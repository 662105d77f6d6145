package dto

import (
	"time"

	"github.com/campushire/platform/internal/domain"
)

type BlogPostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type BlogPostResponse struct {
	ID        string    `json:"id"`
	AuthorID  *string   `json:"author_id,omitempty"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewBlogPostResponse(post *domain.BlogPost) BlogPostResponse {
	return BlogPostResponse{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Title:     post.Title,
		Body:      post.Body,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

func NewBlogPostListResponse(posts []domain.BlogPost) []BlogPostResponse {
	out := make([]BlogPostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, NewBlogPostResponse(&posts[i]))
	}
	return out
}

type ThreadRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type ReplyRequest struct {
	Body string `json:"body"`
}

type ReplyResponse struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	AuthorID  *string   `json:"author_id,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type ThreadResponse struct {
	ID        string          `json:"id"`
	AuthorID  *string         `json:"author_id,omitempty"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	Replies   []ReplyResponse `json:"replies,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewReplyResponse(reply *domain.Reply) ReplyResponse {
	return ReplyResponse{
		ID:        reply.ID,
		ThreadID:  reply.ThreadID,
		AuthorID:  reply.AuthorID,
		Body:      reply.Body,
		CreatedAt: reply.CreatedAt,
	}
}

func NewThreadResponse(thread *domain.Thread, replies []domain.Reply) ThreadResponse {
	resp := ThreadResponse{
		ID:        thread.ID,
		AuthorID:  thread.AuthorID,
		Title:     thread.Title,
		Body:      thread.Body,
		CreatedAt: thread.CreatedAt,
	}
	for i := range replies {
		resp.Replies = append(resp.Replies, NewReplyResponse(&replies[i]))
	}
	return resp
}

func NewThreadListResponse(threads []domain.Thread) []ThreadResponse {
	out := make([]ThreadResponse, 0, len(threads))
	for i := range threads {
		out = append(out, NewThreadResponse(&threads[i], nil))
	}
	return out
}
