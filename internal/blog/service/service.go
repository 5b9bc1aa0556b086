package service

import (
	"context"
	"errors"

	"github.com/inkwell/blog/backend/go-services/internal/blog"
	"github.com/inkwell/blog/backend/go-services/internal/blog/repository"
	"github.com/inkwell/blog/backend/go-services/internal/models"
	"github.com/inkwell/blog/backend/go-services/pkg/logger"
)

// AuthorDirectory resolves user identities to public author records.
// *users.Service implements it.
type AuthorDirectory interface {
	// FindAuthorByUsername returns (nil, nil) when no user has that username.
	FindAuthorByUsername(ctx context.Context, username string) (*models.Author, error)
	Authors(ctx context.Context, ids []string) (map[string]models.Author, error)
}

// MediaStore uploads a local file and returns its public URL.
type MediaStore interface {
	UploadFile(ctx context.Context, localPath string) (string, error)
}

// EventPublisher receives post lifecycle events after a successful mutation.
type EventPublisher interface {
	PostCreated(ctx context.Context, post *blog.Post) error
	PostDeleted(ctx context.Context, postID, authorID string) error
	PostLiked(ctx context.Context, postID, userID string, res blog.LikeResult) error
}

const msgPostNotFound = "Post not found"

// loadPost maps a repository miss to the client-facing NotFound error.
func loadPost(ctx context.Context, posts repository.PostRepository, id string) (*blog.Post, error) {
	p, err := posts.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, blog.NotFound(msgPostNotFound)
	}
	return p, err
}

func requireCaller(callerID string) error {
	if callerID == "" {
		return blog.Unauthenticated("Unauthorized request")
	}
	return nil
}

// authorsFor expands the given ids in one lookup. A user that no longer
// exists expands to an author carrying only its id.
func authorsFor(ctx context.Context, dir AuthorDirectory, ids ...string) (map[string]models.Author, error) {
	uniq := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	found, err := dir.Authors(ctx, uniq)
	if err != nil {
		return nil, err
	}
	for _, id := range uniq {
		if _, ok := found[id]; !ok {
			found[id] = models.Author{ID: id}
		}
	}
	return found, nil
}

func logPublishErr(event, postID string, err error) {
	if err != nil {
		logger.Warnf("publish %s event for post %s: %v", event, postID, err)
	}
}
