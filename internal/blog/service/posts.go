package service

import (
	"context"
	"errors"
	"strings"

	"github.com/inkwell/blog/backend/go-services/internal/blog"
	"github.com/inkwell/blog/backend/go-services/internal/blog/repository"
	"github.com/inkwell/blog/backend/go-services/pkg/logger"
	"github.com/inkwell/blog/backend/go-services/pkg/metrics"
)

// PostService implements listing, creation and ownership-checked mutation of posts.
type PostService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	authors  AuthorDirectory
	media    MediaStore
	events   EventPublisher
}

// NewPostService wires a PostService. media and events may be nil.
func NewPostService(posts repository.PostRepository, comments repository.CommentRepository, authors AuthorDirectory, media MediaStore, events EventPublisher) *PostService {
	return &PostService{posts: posts, comments: comments, authors: authors, media: media, events: events}
}

// List returns one page of posts matching f. An author that doesn't resolve
// and a filter that matches nothing are both NotFound; a page past the end
// of a non-empty result is an empty page.
func (s *PostService) List(ctx context.Context, f blog.ListFilter) (*blog.PostPage, error) {
	f = f.Normalize()
	q := blog.PostQuery{Search: f.Search}
	if f.Author != "" {
		a, err := s.authors.FindAuthorByUsername(ctx, f.Author)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, blog.NotFound("Author not found")
		}
		q.AuthorID = a.ID
	}

	total, err := s.posts.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, blog.NotFound("No posts found")
	}

	page := &blog.PostPage{
		Posts:       []blog.PostView{},
		TotalPosts:  total,
		CurrentPage: f.Page,
		TotalPages:  f.TotalPages(total),
	}
	if f.PastEnd(total) {
		return page, nil
	}

	list, err := s.posts.Find(ctx, q, f.SortBy, f.Skip(), int64(f.Limit))
	if err != nil {
		return nil, err
	}
	if page.Posts, err = s.expand(ctx, list); err != nil {
		return nil, err
	}
	return page, nil
}

// Get returns a single post with its author expanded.
func (s *PostService) Get(ctx context.Context, id string) (*blog.PostView, error) {
	p, err := loadPost(ctx, s.posts, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, p)
}

// Create stores a new post owned by callerID. imagePath is optional; a
// failed upload leaves the image empty.
func (s *PostService) Create(ctx context.Context, title, content, imagePath, callerID string) (*blog.PostView, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, blog.Validation("Title and content are required")
	}
	p := &blog.Post{
		Title:    title,
		Content:  content,
		Image:    s.upload(ctx, imagePath),
		AuthorID: callerID,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	metrics.PostsCreated.Inc()
	if s.events != nil {
		logPublishErr("created", p.ID, s.events.PostCreated(ctx, p))
	}
	return s.view(ctx, p)
}

// Update replaces title/content when non-blank and the image when a new
// upload succeeds. Only the author may update.
func (s *PostService) Update(ctx context.Context, id, title, content, imagePath, callerID string) (*blog.PostView, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}
	p, err := loadPost(ctx, s.posts, id)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != callerID {
		return nil, blog.Forbidden("You are not authorized to update this post")
	}

	ch := repository.PostChanges{Title: p.Title, Content: p.Content, Image: p.Image}
	if t := strings.TrimSpace(title); t != "" {
		ch.Title = t
	}
	if c := strings.TrimSpace(content); c != "" {
		ch.Content = c
	}
	if url := s.upload(ctx, imagePath); url != "" {
		ch.Image = url
	}

	updated, err := s.posts.Update(ctx, id, ch)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, blog.NotFound(msgPostNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s.view(ctx, updated)
}

// Delete removes a post and its comments. Only the author may delete.
func (s *PostService) Delete(ctx context.Context, id, callerID string) error {
	if err := requireCaller(callerID); err != nil {
		return err
	}
	p, err := loadPost(ctx, s.posts, id)
	if err != nil {
		return err
	}
	if p.AuthorID != callerID {
		return blog.Forbidden("You are not authorized to delete this post")
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return blog.NotFound(msgPostNotFound)
		}
		return err
	}
	metrics.PostsDeleted.Inc()

	if s.comments != nil {
		n, err := s.comments.DeleteByPost(ctx, id)
		if err != nil {
			logger.Errorf("delete comments of post %s: %v", id, err)
		} else if n > 0 {
			logger.Debugf("deleted %d comments of post %s", n, id)
		}
	}
	if s.events != nil {
		logPublishErr("deleted", id, s.events.PostDeleted(ctx, id, p.AuthorID))
	}
	return nil
}

func (s *PostService) upload(ctx context.Context, path string) string {
	if path == "" || s.media == nil {
		return ""
	}
	url, err := s.media.UploadFile(ctx, path)
	if err != nil {
		logger.Warnf("post image upload failed: %v", err)
		return ""
	}
	return url
}

func (s *PostService) view(ctx context.Context, p *blog.Post) (*blog.PostView, error) {
	authors, err := authorsFor(ctx, s.authors, p.AuthorID)
	if err != nil {
		return nil, err
	}
	return &blog.PostView{Post: *p, Author: authors[p.AuthorID]}, nil
}

func (s *PostService) expand(ctx context.Context, list []*blog.Post) ([]blog.PostView, error) {
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.AuthorID)
	}
	authors, err := authorsFor(ctx, s.authors, ids...)
	if err != nil {
		return nil, err
	}
	views := make([]blog.PostView, 0, len(list))
	for _, p := range list {
		views = append(views, blog.PostView{Post: *p, Author: authors[p.AuthorID]})
	}
	return views, nil
}
