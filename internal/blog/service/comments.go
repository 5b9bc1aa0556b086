package service

import (
	"context"
	"strings"

	"github.com/inkwell/blog/backend/go-services/internal/blog"
	"github.com/inkwell/blog/backend/go-services/internal/blog/repository"
	"github.com/inkwell/blog/backend/go-services/pkg/metrics"
)

type CommentService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	authors  AuthorDirectory
}

func NewCommentService(posts repository.PostRepository, comments repository.CommentRepository, authors AuthorDirectory) *CommentService {
	return &CommentService{posts: posts, comments: comments, authors: authors}
}

// Add attaches a comment by callerID to an existing post.
func (s *CommentService) Add(ctx context.Context, postID, content, callerID string) (*blog.CommentView, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, blog.Validation("Comment content is required")
	}
	if _, err := loadPost(ctx, s.posts, postID); err != nil {
		return nil, err
	}
	c := &blog.Comment{Content: content, AuthorID: callerID, PostID: postID}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	metrics.CommentsCreated.Inc()

	authors, err := authorsFor(ctx, s.authors, callerID)
	if err != nil {
		return nil, err
	}
	return &blog.CommentView{Comment: *c, Author: authors[callerID]}, nil
}

// ListByPost returns the comments of a post, newest first. No comments is
// an empty list, not an error.
func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]blog.CommentView, error) {
	list, err := s.comments.FindByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	views := make([]blog.CommentView, 0, len(list))
	if len(list) == 0 {
		return views, nil
	}
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.AuthorID)
	}
	authors, err := authorsFor(ctx, s.authors, ids...)
	if err != nil {
		return nil, err
	}
	for _, c := range list {
		views = append(views, blog.CommentView{Comment: *c, Author: authors[c.AuthorID]})
	}
	return views, nil
}
