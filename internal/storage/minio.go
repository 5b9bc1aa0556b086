package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/inkwell/blog/backend/go-services/internal/config"
)

// presignedTTL is the longest expiry S3 allows for a presigned GET.
const presignedTTL = 7 * 24 * time.Hour

// MediaStore uploads local files (post images, avatars) to a MinIO bucket
// and hands back a URL clients can fetch.
type MediaStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	prefix    string
}

// NewMediaStore creates a MinIO client and ensures the bucket exists.
func NewMediaStore(ctx context.Context, cfg config.MinIOConfig) (*MediaStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &MediaStore{client: mc, bucket: cfg.Bucket, publicURL: cfg.PublicURL}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

// WithPrefix returns a store writing under the given key prefix (e.g. "avatars").
func (s *MediaStore) WithPrefix(prefix string) *MediaStore {
	cp := *s
	cp.prefix = strings.Trim(prefix, "/")
	return &cp
}

// UploadFile stores the file at localPath and returns its URL.
func (s *MediaStore) UploadFile(ctx context.Context, localPath string) (string, error) {
	mt, err := mimetype.DetectFile(localPath)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(localPath))
	if ext == "" {
		ext = mt.Extension()
	}
	key := objectKey(s.prefix, ext, time.Now().UTC())
	if _, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{ContentType: mt.String()}); err != nil {
		return "", fmt.Errorf("minio put %s: %w", key, err)
	}
	if s.publicURL != "" {
		return publicObjectURL(s.publicURL, s.bucket, key), nil
	}
	return s.GetPresignedURL(ctx, key, presignedTTL)
}

// GetPresignedURL returns a presigned GET URL valid for the given duration.
func (s *MediaStore) GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, expires, nil)
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}

// Ping reports whether the bucket is reachable.
func (s *MediaStore) Ping(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s missing", s.bucket)
	}
	return nil
}

func objectKey(prefix, ext string, now time.Time) string {
	return path.Join(prefix, now.Format("2006/01/02"), uuid.NewString()+ext)
}

func publicObjectURL(base, bucket, key string) string {
	return strings.TrimRight(base, "/") + "/" + bucket + "/" + key
}
