package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/inkwell/blog/backend/go-services/internal/blog/repository"
	"github.com/inkwell/blog/backend/go-services/internal/config"
	"github.com/inkwell/blog/backend/go-services/internal/events"
	"github.com/inkwell/blog/backend/go-services/internal/sessions"
	"github.com/inkwell/blog/backend/go-services/internal/users"
	"github.com/inkwell/blog/backend/go-services/pkg/metrics"
)

type staticMedia struct{}

func (staticMedia) UploadFile(ctx context.Context, localPath string) (string, error) {
	return "http://media/avatar.png", nil
}

func testConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "server-test-secret-32-bytes-xxxxxx"
	cfg.JWT.AccessTokenTTL = time.Minute
	cfg.JWT.RefreshTokenTTL = time.Hour
	cfg.Uploads.TempDir = t.TempDir()
	cfg.Uploads.MaxBytes = 1 << 20
	return cfg
}

func newTestEngine(t *testing.T, ready map[string]Check) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	metrics.RegisterCollectors(reg)
	return New(testConfig(t), Deps{
		Users:     users.NewMemoryUserRepository(),
		Posts:     repository.NewMemoryPostRepo(),
		Comments:  repository.NewMemoryCommentRepo(),
		Sessions:  sessions.NewMemoryRepository(),
		Blacklist: sessions.NewBlacklist(nil),
		Avatars:   staticMedia{},
		Events:    events.Noop{},
		Hasher:    users.NewArgon2Hasher(&users.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}),
		Ready:     ready,
		Registry:  reg,
	})
}

func call(t *testing.T, r *gin.Engine, req *http.Request) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var got map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	}
	return w.Code, got
}

func TestEndToEnd_RegisterLoginPostLike(t *testing.T) {
	r := newTestEngine(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{"fullName": "Grace Hopper", "email": "grace@example.com", "username": "grace", "password": "cobol"} {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("avatar", "g.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	code, _ := call(t, r, req)
	require.Equal(t, http.StatusCreated, code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(`{"login":"grace","password":"cobol"}`))
	req.Header.Set("Content-Type", "application/json")
	code, got := call(t, r, req)
	require.Equal(t, http.StatusOK, code)
	token := got["data"].(map[string]interface{})["accessToken"].(string)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/posts", strings.NewReader(`{"title":"Hello","content":"World"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	code, got = call(t, r, req)
	require.Equal(t, http.StatusCreated, code)
	post := got["data"].(map[string]interface{})
	require.Equal(t, "grace", post["author"].(map[string]interface{})["username"])
	id := post["id"].(string)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/likes/"+id+"/like", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	code, got = call(t, r, req)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Post liked", got["message"])

	code, got = call(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/posts?author=grace", nil))
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, float64(1), got["data"].(map[string]interface{})["totalPosts"])

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/posts/"+id, nil)
	code, _ = call(t, r, req)
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestOperationalEndpoints(t *testing.T) {
	r := newTestEngine(t, map[string]Check{
		"mongodb": func(ctx context.Context) error { return nil },
		"redis":   func(ctx context.Context) error { return errors.New("down") },
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "healthy", w.Body.String())

	code, got := call(t, r, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Equal(t, map[string]interface{}{"mongodb": true, "redis": false}, got["deps"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "blog_http_requests_total")
}

func TestReady_NoChecksIsReady(t *testing.T) {
	r := newTestEngine(t, nil)
	code, got := call(t, r, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ready", got["status"])
}
