package repository

import (
	"context"
	"errors"

	"github.com/inkwell/blog/backend/go-services/internal/blog"
)

var (
	ErrNotFound = errors.New("record not found")
)

// PostChanges holds the full new values of the mutable post fields.
type PostChanges struct {
	Title   string
	Content string
	Image   string
}

// PostRepository persists posts. ToggleLike must flip membership atomically
// per record: implementations never read-modify-write the Likes slice.
type PostRepository interface {
	Create(ctx context.Context, p *blog.Post) error
	Get(ctx context.Context, id string) (*blog.Post, error)
	Find(ctx context.Context, q blog.PostQuery, order blog.SortOrder, skip, limit int64) ([]*blog.Post, error)
	Count(ctx context.Context, q blog.PostQuery) (int64, error)
	Update(ctx context.Context, id string, ch PostChanges) (*blog.Post, error)
	Delete(ctx context.Context, id string) error
	// ToggleLike adds userID to the like set when absent and removes it
	// when present, returning the post after the write.
	ToggleLike(ctx context.Context, postID, userID string) (*blog.Post, error)
}

// CommentRepository persists comments.
type CommentRepository interface {
	Create(ctx context.Context, c *blog.Comment) error
	// FindByPost returns the comments of a post, newest first.
	FindByPost(ctx context.Context, postID string) ([]*blog.Comment, error)
	DeleteByPost(ctx context.Context, postID string) (int64, error)
}
