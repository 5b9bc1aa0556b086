package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inkwell/blog/backend/go-services/internal/blog"
)

// MemoryPostRepo is an in-memory PostRepository used by the standalone
// content server and unit tests. All mutations happen under one lock, which
// gives the same per-record atomicity as the Mongo update operators.
type MemoryPostRepo struct {
	mu    sync.RWMutex
	store map[string]*blog.Post
	// insertion order breaks createdAt ties
	seq  map[string]uint64
	next uint64
}

func NewMemoryPostRepo() *MemoryPostRepo {
	return &MemoryPostRepo{store: make(map[string]*blog.Post), seq: make(map[string]uint64)}
}

func (m *MemoryPostRepo) Create(ctx context.Context, p *blog.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = p.CreatedAt
	if p.Likes == nil {
		p.Likes = []string{}
	}
	m.store[p.ID] = clonePost(p)
	m.next++
	m.seq[p.ID] = m.next
	return nil
}

func (m *MemoryPostRepo) Get(ctx context.Context, id string) (*blog.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.store[id]; ok {
		return clonePost(p), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryPostRepo) Find(ctx context.Context, q blog.PostQuery, order blog.SortOrder, skip, limit int64) ([]*blog.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := m.match(q)
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		less := a.CreatedAt.Before(b.CreatedAt) ||
			(a.CreatedAt.Equal(b.CreatedAt) && m.seq[a.ID] < m.seq[b.ID])
		if order == blog.SortOldest {
			return less
		}
		return !less
	})
	if skip < 0 {
		skip = 0
	}
	if skip >= int64(len(matched)) {
		return []*blog.Post{}, nil
	}
	end := int64(len(matched))
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	out := make([]*blog.Post, 0, end-skip)
	for _, p := range matched[skip:end] {
		out = append(out, clonePost(p))
	}
	return out, nil
}

func (m *MemoryPostRepo) Count(ctx context.Context, q blog.PostQuery) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.match(q))), nil
}

func (m *MemoryPostRepo) Update(ctx context.Context, id string, ch PostChanges) (*blog.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Title = ch.Title
	p.Content = ch.Content
	p.Image = ch.Image
	p.UpdatedAt = time.Now().UTC()
	return clonePost(p), nil
}

func (m *MemoryPostRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	delete(m.seq, id)
	return nil
}

func (m *MemoryPostRepo) ToggleLike(ctx context.Context, postID, userID string) (*blog.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[postID]
	if !ok {
		return nil, ErrNotFound
	}
	if p.LikedBy(userID) {
		kept := make([]string, 0, len(p.Likes))
		for _, id := range p.Likes {
			if id != userID {
				kept = append(kept, id)
			}
		}
		p.Likes = kept
	} else {
		p.Likes = append(p.Likes, userID)
	}
	p.UpdatedAt = time.Now().UTC()
	return clonePost(p), nil
}

// match must be called with the lock held.
func (m *MemoryPostRepo) match(q blog.PostQuery) []*blog.Post {
	needle := strings.ToLower(q.Search)
	out := []*blog.Post{}
	for _, p := range m.store {
		if q.AuthorID != "" && p.AuthorID != q.AuthorID {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Content), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func clonePost(p *blog.Post) *blog.Post {
	cp := *p
	cp.Likes = append([]string{}, p.Likes...)
	return &cp
}

// MemoryCommentRepo is an in-memory CommentRepository.
type MemoryCommentRepo struct {
	mu    sync.RWMutex
	store []*blog.Comment
}

func NewMemoryCommentRepo() *MemoryCommentRepo {
	return &MemoryCommentRepo{}
}

func (m *MemoryCommentRepo) Create(ctx context.Context, c *blog.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = primitive.NewObjectID().Hex()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.store = append(m.store, &cp)
	return nil
}

func (m *MemoryCommentRepo) FindByPost(ctx context.Context, postID string) ([]*blog.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*blog.Comment{}
	// walk backwards so equal timestamps keep newest-inserted first
	for i := len(m.store) - 1; i >= 0; i-- {
		if c := m.store[i]; c.PostID == postID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryCommentRepo) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.store[:0]
	var n int64
	for _, c := range m.store {
		if c.PostID == postID {
			n++
			continue
		}
		kept = append(kept, c)
	}
	m.store = kept
	return n, nil
}
