// Package uploads stages multipart files on local disk before they are
// handed to the media store.
package uploads

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inkwell/blog/backend/go-services/pkg/logger"
)

// ErrTooLarge is returned when a file exceeds the configured limit.
var ErrTooLarge = errors.New("uploaded file is too large")

// Stager saves form files under Dir.
type Stager struct {
	Dir      string
	MaxBytes int64
}

// Save writes the form file named field to a unique temp path. It returns
// ("", noop, nil) when the request has no such file. The returned cleanup
// removes the temp file and is always safe to call.
func (s Stager) Save(c *gin.Context, field string) (string, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", noop, nil
		}
		return "", noop, fmt.Errorf("read form file %s: %w", field, err)
	}
	if s.MaxBytes > 0 && fh.Size > s.MaxBytes {
		return "", noop, ErrTooLarge
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", noop, fmt.Errorf("create upload dir: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	dst := filepath.Join(s.Dir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", noop, fmt.Errorf("save upload: %w", err)
	}
	return dst, func() {
		if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
			logger.Warnf("remove temp upload %s: %v", dst, err)
		}
	}, nil
}
