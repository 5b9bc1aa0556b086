package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

// ErrInvalidRefresh is returned when a refresh token is unknown or expired.
var ErrInvalidRefresh = errors.New("invalid or expired refresh token")

// Service wraps repository operations with business logic
type Service struct {
	repo Repository
	ttl  time.Duration
}

// NewService returns a session service issuing sessions that live for ttl.
func NewService(r Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Service{repo: r, ttl: ttl}
}

// CreateSession stores a new refresh session and returns the refresh token
func (s *Service) CreateSession(ctx context.Context, userID, userAgent string) (string, error) {
	r, err := newRefreshToken()
	if err != nil {
		return "", err
	}
	sess := &Session{
		RefreshToken: r,
		UserID:       userID,
		UserAgent:    userAgent,
		CreatedAt:    time.Now().UTC(),
		ExpiresAt:    time.Now().UTC().Add(s.ttl),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return "", err
	}
	return r, nil
}

// ValidateRefresh returns the session if refresh token is valid and not expired
func (s *Service) ValidateRefresh(ctx context.Context, refresh string) (*Session, error) {
	if refresh == "" {
		return nil, ErrInvalidRefresh
	}
	sess, err := s.repo.GetByRefresh(ctx, refresh)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrInvalidRefresh
	}
	if sess.Expired(time.Now().UTC()) {
		// cleanup expired session
		_ = s.repo.DeleteByRefresh(ctx, refresh)
		return nil, ErrInvalidRefresh
	}
	return sess, nil
}

// Rotate consumes refresh and issues a new session for the same user. The
// consume is atomic in the repository, so a refresh token can be used at
// most once even when several requests present it at the same time.
func (s *Service) Rotate(ctx context.Context, refresh, userAgent string) (*Session, string, error) {
	if refresh == "" {
		return nil, "", ErrInvalidRefresh
	}
	sess, err := s.repo.Consume(ctx, refresh)
	if err != nil {
		return nil, "", err
	}
	if sess == nil || sess.Expired(time.Now().UTC()) {
		return nil, "", ErrInvalidRefresh
	}
	next, err := s.CreateSession(ctx, sess.UserID, userAgent)
	if err != nil {
		return nil, "", err
	}
	return sess, next, nil
}

func (s *Service) DeleteRefresh(ctx context.Context, refresh string) error {
	return s.repo.DeleteByRefresh(ctx, refresh)
}

func newRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
