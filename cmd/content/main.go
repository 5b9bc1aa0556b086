// Command content runs the blog API on a single node. With MONGODB_URI set
// it uses MongoDB; otherwise everything lives in memory, which is enough for
// local frontend work and demos.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inkwell/blog/backend/go-services/internal/blog/repository"
	"github.com/inkwell/blog/backend/go-services/internal/config"
	"github.com/inkwell/blog/backend/go-services/internal/database"
	"github.com/inkwell/blog/backend/go-services/internal/events"
	"github.com/inkwell/blog/backend/go-services/internal/server"
	"github.com/inkwell/blog/backend/go-services/internal/sessions"
	"github.com/inkwell/blog/backend/go-services/internal/storage"
	"github.com/inkwell/blog/backend/go-services/internal/users"
	"github.com/inkwell/blog/backend/go-services/pkg/logger"
	"github.com/inkwell/blog/backend/go-services/pkg/metrics"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadLocalConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if port := os.Getenv("CONTENT_SERVICE_PORT"); port != "" {
		cfg.Server.Port = port
	}

	deps := memoryDeps()
	// Prefer Mongo-backed storage when MONGODB_URI is provided.
	if cfg.MongoDB.URI != "" {
		ctx := context.Background()
		client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, 10*time.Second)
		if err != nil {
			logger.Warnf("cannot connect to MongoDB (%v), using memory-backed repos", err)
		} else {
			db := client.Database(cfg.MongoDB.Database)
			if err := database.EnsureIndexes(ctx, db); err != nil {
				logger.Warnf("ensure indexes: %v", err)
			}
			deps.Users = users.NewMongoUserRepository(db.Collection(database.UsersCollection))
			deps.Posts = repository.NewMongoPostRepo(db.Collection(database.PostsCollection))
			deps.Comments = repository.NewMongoCommentRepo(db.Collection(database.CommentsCollection))
			deps.Sessions = sessions.NewMongoRepository(db.Collection(database.SessionsCollection))
			deps.Ready["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		}
	}

	if cfg.MinIO.Endpoint != "" {
		store, err := storage.NewMediaStore(context.Background(), cfg.MinIO)
		if err != nil {
			logger.Warnf("media store unavailable: %v", err)
		} else {
			deps.Avatars = store.WithPrefix("avatars")
			deps.PostImages = store.WithPrefix("posts")
		}
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := server.New(cfg, deps)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("content service listening on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

func memoryDeps() server.Deps {
	return server.Deps{
		Users:     users.NewMemoryUserRepository(),
		Posts:     repository.NewMemoryPostRepo(),
		Comments:  repository.NewMemoryCommentRepo(),
		Sessions:  sessions.NewMemoryRepository(),
		Blacklist: sessions.NewBlacklist(nil),
		Events:    events.Noop{},
		Ready:     map[string]server.Check{},
	}
}
