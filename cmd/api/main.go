package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/VanshikaSalekar/DevBlog/internal/auth"
	"github.com/VanshikaSalekar/DevBlog/internal/config"
	"github.com/VanshikaSalekar/DevBlog/internal/events"
	"github.com/VanshikaSalekar/DevBlog/internal/handlers"
	"github.com/VanshikaSalekar/DevBlog/internal/posts"
	"github.com/VanshikaSalekar/DevBlog/internal/search"
	"github.com/VanshikaSalekar/DevBlog/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("devblog api failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mirror, closeMirror, err := openMirror(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeMirror()

	store, err := posts.Open(ctx, posts.NewBlobMirror(mirror), posts.WithLatency(cfg.StoreLatency))
	if err != nil {
		return fmt.Errorf("open post store: %w", err)
	}

	idx, err := search.Open(cfg.SearchIndexPath)
	if err != nil {
		return fmt.Errorf("open search index: %w", err)
	}
	defer idx.Close()

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		rp, err := events.NewRabbitMQPublisher(cfg.RabbitMQURL)
		if err != nil {
			return fmt.Errorf("connect rabbitmq: %w", err)
		}
		defer rp.Close()
		publisher = rp
	} else {
		logger.Warn("RABBITMQ_URL not set, post events are dropped")
	}

	svc := posts.NewService(store, idx, publisher, logger)
	if err := svc.Reindex(ctx); err != nil {
		return fmt.Errorf("build search index: %w", err)
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		Service:  svc,
		Sessions: auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL),
		Health: &handlers.HealthDeps{
			Mirror:      mirror,
			Backend:     cfg.MirrorBackend,
			RabbitMQURL: cfg.RabbitMQURL,
		},
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("devblog api started", "port", cfg.Port, "mirror_backend", cfg.MirrorBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openMirror builds the blob store selected by MIRROR_BACKEND. The returned
// func releases it.
func openMirror(ctx context.Context, cfg *config.Config) (storage.Storage, func(), error) {
	noop := func() {}
	switch cfg.MirrorBackend {
	case config.BackendSQLite:
		st, err := storage.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite mirror: %w", err)
		}
		return st, closer(st), nil
	case config.BackendPostgres:
		st, err := storage.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres mirror: %w", err)
		}
		return st, closer(st), nil
	case config.BackendS3:
		client, err := storage.NewS3Client(ctx, cfg.AWSRegion, cfg.S3Endpoint)
		if err != nil {
			return nil, nil, fmt.Errorf("create s3 client: %w", err)
		}
		return storage.NewS3Storage(client, cfg.S3Bucket), noop, nil
	default:
		st, err := storage.NewFileStorage(cfg.MirrorDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file mirror: %w", err)
		}
		return st, noop, nil
	}
}

func closer(c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			slog.Default().Warn("close mirror failed", "error", err)
		}
	}
}
