package service

import (
	"context"
	"errors"

	"github.com/inkwell/blog/backend/go-services/internal/blog"
	"github.com/inkwell/blog/backend/go-services/internal/blog/repository"
	"github.com/inkwell/blog/backend/go-services/pkg/metrics"
)

type LikeService struct {
	posts  repository.PostRepository
	events EventPublisher
}

func NewLikeService(posts repository.PostRepository, events EventPublisher) *LikeService {
	return &LikeService{posts: posts, events: events}
}

// Toggle flips callerID's membership in the post's like set. The flip is a
// single conditional write in the repository, so the result always reflects
// this call's own outcome.
func (s *LikeService) Toggle(ctx context.Context, postID, callerID string) (*blog.LikeResult, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}
	updated, err := s.posts.ToggleLike(ctx, postID, callerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, blog.NotFound(msgPostNotFound)
	}
	if err != nil {
		return nil, err
	}

	res := &blog.LikeResult{Likes: len(updated.Likes), Liked: updated.LikedBy(callerID)}
	action := "unlike"
	if res.Liked {
		action = "like"
	}
	metrics.LikesToggled.WithLabelValues(action).Inc()
	if s.events != nil {
		logPublishErr("liked", postID, s.events.PostLiked(ctx, postID, callerID, *res))
	}
	return res, nil
}
