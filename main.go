package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

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
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))
	if os.Getenv("LOG_PRETTY") != "" {
		logger.SetOutput(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v nats=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "", cfg.NATS.URL != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
	if err != nil {
		logger.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB.Database)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Fatalf("failed to ensure indexes: %v", err)
	}

	deps := server.Deps{
		Users:    users.NewMongoUserRepository(db.Collection(database.UsersCollection)),
		Posts:    repository.NewMongoPostRepo(db.Collection(database.PostsCollection)),
		Comments: repository.NewMongoCommentRepo(db.Collection(database.CommentsCollection)),
		Events:   events.Noop{},
		Ready: map[string]server.Check{
			"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
		},
	}

	// Prefer Redis-based sessions when configured; the blacklist needs Redis either way
	if addr := cfg.RedisAddr(); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		}
		defer rdb.Close()
		deps.Sessions = sessions.NewRedisRepository(rdb, "")
		deps.Blacklist = sessions.NewBlacklist(rdb)
		deps.Ready["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		logger.Infof("Using Redis for session storage: %s", addr)
	} else {
		deps.Sessions = sessions.NewMongoRepository(db.Collection(database.SessionsCollection))
		logger.Warn("REDIS_HOST not set: sessions in MongoDB, access token revocation disabled")
	}

	if cfg.MinIO.Endpoint != "" {
		store, err := storage.NewMediaStore(ctx, cfg.MinIO)
		if err != nil {
			logger.Fatalf("failed to initialize media store: %v", err)
		}
		deps.Avatars = store.WithPrefix("avatars")
		deps.PostImages = store.WithPrefix("posts")
		deps.Ready["minio"] = store.Ping
	} else {
		logger.Warn("MINIO_ENDPOINT not set: registration will reject avatars, posts are stored without images")
	}

	var nc *nats.Conn
	if cfg.NATS.URL != "" {
		pub, conn, err := events.Connect(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			logger.Warnf("events disabled: %v", err)
		} else {
			nc = conn
			deps.Events = pub
		}
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := server.New(cfg, deps)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("Starting blog API on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
	if nc != nil {
		_ = nc.Drain()
	}
}
