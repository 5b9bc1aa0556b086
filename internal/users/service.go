package users

import (
	"context"
	"strings"

	"github.com/inkwell/blog/backend/go-services/internal/models"
	"github.com/inkwell/blog/backend/go-services/pkg/logger"
)

// MediaUploader stores a local file and returns its public URL.
type MediaUploader interface {
	UploadFile(ctx context.Context, localPath string) (string, error)
}

// RegisterInput carries the multipart registration form.
type RegisterInput struct {
	FullName   string
	Email      string
	Username   string
	Password   string
	AvatarPath string
}

// Service encapsulates user-related business logic
type Service struct {
	repo   UserRepository
	hasher PasswordHasher
	media  MediaUploader
}

func NewService(r UserRepository, h PasswordHasher, m MediaUploader) *Service {
	if h == nil {
		h = NewArgon2Hasher(nil)
	}
	return &Service{repo: r, hasher: h, media: m}
}

// Register validates the form, uploads the avatar and stores the new user.
// Unlike post images, a failed avatar upload aborts registration.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if fullName == "" || email == "" || username == "" || strings.TrimSpace(in.Password) == "" {
		return nil, ErrMissingFields
	}

	existing, err := s.repo.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	if in.AvatarPath == "" {
		return nil, ErrAvatarRequired
	}
	if s.media == nil {
		return nil, ErrAvatarUpload
	}
	avatar, err := s.media.UploadFile(ctx, in.AvatarPath)
	if err != nil || avatar == "" {
		logger.Warnf("avatar upload failed for %s: %v", username, err)
		return nil, ErrAvatarUpload
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		Avatar:       avatar,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.Infof("registered user %s (%s)", u.Username, u.ID)
	return u, nil
}

// Authenticate checks the password of the user identified by login
// (a username or an email address).
func (s *Service) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsernameOrEmail(ctx, login, login)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// FindAuthorByUsername resolves a username to its public author record.
// Returns (nil, nil) when no user has that username.
func (s *Service) FindAuthorByUsername(ctx context.Context, username string) (*models.Author, error) {
	u, err := s.repo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil || u == nil {
		return nil, err
	}
	a := u.Author()
	return &a, nil
}

// Authors loads the public author records for ids, keyed by id. Unknown ids are skipped.
func (s *Service) Authors(ctx context.Context, ids []string) (map[string]models.Author, error) {
	list, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.Author, len(list))
	for _, u := range list {
		out[u.ID] = u.Author()
	}
	return out, nil
}
