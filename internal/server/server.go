// Package server assembles the gin engine shared by the API binaries.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inkwell/blog/backend/go-services/handlers"
	"github.com/inkwell/blog/backend/go-services/internal/blog/handler"
	"github.com/inkwell/blog/backend/go-services/internal/blog/repository"
	"github.com/inkwell/blog/backend/go-services/internal/blog/service"
	"github.com/inkwell/blog/backend/go-services/internal/config"
	"github.com/inkwell/blog/backend/go-services/internal/sessions"
	"github.com/inkwell/blog/backend/go-services/internal/tokens"
	"github.com/inkwell/blog/backend/go-services/internal/uploads"
	"github.com/inkwell/blog/backend/go-services/internal/users"
	"github.com/inkwell/blog/backend/go-services/pkg/middleware"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Deps are the storage and infrastructure backends chosen by the binary.
type Deps struct {
	Users     users.UserRepository
	Posts     repository.PostRepository
	Comments  repository.CommentRepository
	Sessions  sessions.Repository
	Blacklist *sessions.Blacklist
	// Avatars and PostImages may be nil; avatar registration then fails and
	// posts are stored without images.
	Avatars    service.MediaStore
	PostImages service.MediaStore
	Events     service.EventPublisher
	Hasher     users.PasswordHasher
	// Ready lists the dependencies reported by /ready.
	Ready    map[string]Check
	Registry prometheus.Gatherer
}

var startTime = time.Now()

// New wires services and routes.
func New(cfg *config.Config, d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(middleware.HandlePanics()), middleware.RequestLogger(), middleware.CORS(cfg.CORS.AllowOrigin))
	r.MaxMultipartMemory = cfg.Uploads.MaxBytes

	var avatars users.MediaUploader
	if d.Avatars != nil {
		avatars = d.Avatars
	}
	userSvc := users.NewService(d.Users, d.Hasher, avatars)
	sessionsSvc := sessions.NewService(d.Sessions, cfg.JWT.RefreshTokenTTL)
	stager := uploads.Stager{Dir: cfg.Uploads.TempDir, MaxBytes: cfg.Uploads.MaxBytes}

	auth := middleware.AuthMiddleware(tokens.NewJWTVerifier(cfg.JWT.Secret), d.Blacklist)
	api := r.Group("/api/v1")

	handlers.NewAuthHandler(cfg, userSvc, sessionsSvc, d.Blacklist, stager).Register(api, auth)
	handler.RegisterRoutes(api, &handler.Handler{
		Posts:    service.NewPostService(d.Posts, d.Comments, userSvc, d.PostImages, d.Events),
		Comments: service.NewCommentService(d.Posts, d.Comments, userSvc),
		Likes:    service.NewLikeService(d.Posts, d.Events),
		Uploads:  stager,
	}, auth)
	handlers.RegisterSwagger(r)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", readiness(d.Ready))

	gatherer := d.Registry
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return r
}

// readiness returns 200 only when every configured dependency answers.
func readiness(checks map[string]Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ready := true
		deps := map[string]bool{}
		for name, check := range checks {
			ok := check(ctx) == nil
			deps[name] = ok
			ready = ready && ok
		}
		uptime := time.Since(startTime).Round(time.Second).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	}
}
