package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/silentpianist/portfolio-videos-go/internal/config"
	"github.com/silentpianist/portfolio-videos-go/internal/db/repository"
	"github.com/silentpianist/portfolio-videos-go/internal/queue"
	"github.com/silentpianist/portfolio-videos-go/internal/service"
	"github.com/silentpianist/portfolio-videos-go/internal/service/tiktok"
	"github.com/silentpianist/portfolio-videos-go/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultConcurrency = 2

// ThumbnailerConfig holds the worker configuration.
type ThumbnailerConfig struct {
	DatabaseURL string
	RedisURL    string
	Concurrency int
}

func main() {
	// Initialize structured logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(log)

	workerConfig := loadConfig()

	log.Info("thumbnail service starting",
		"concurrency", workerConfig.Concurrency,
	)

	// Initialize database connection
	ctx := context.Background()
	pool, err := initDatabase(ctx, workerConfig.DatabaseURL)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	log.Info("database connection established")

	entryRepo := repository.NewVideoEntryRepository(pool)
	tiktokClient := tiktok.NewClient(nil)

	// Optional broker connection: stored thumbnails show up in the showcase
	// immediately when the broker is reachable, on the next write otherwise
	var refresher queue.ContentRefresher
	appConfig, err := config.Load()
	if err == nil {
		if err := logger.Init(appConfig.Logging.Level, appConfig.Logging.File); err == nil {
			defer logger.Sync()
			publisher, err := service.NewContentEventPublisher(&appConfig.RabbitMQ)
			if err != nil {
				log.Warn("failed to connect to RabbitMQ, thumbnail refreshes deferred", "error", err)
			} else {
				refresher = publisher
				defer publisher.Close()
			}
		}
	}

	handler := queue.NewThumbnailHandler(tiktokClient, entryRepo, refresher)

	// Initialize and start asynq server
	server, err := queue.NewServer(workerConfig.RedisURL, workerConfig.Concurrency, handler)
	if err != nil {
		log.Error("failed to create queue server", "error", err)
		os.Exit(1)
	}

	// Set up graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			serverErr <- err
		}
	}()

	log.Info("thumbnail service started successfully")

	select {
	case err := <-serverErr:
		log.Error("server error", "error", err)
		os.Exit(1)
	case sig := <-shutdown:
		log.Info("shutdown signal received", "signal", sig)
		server.Stop()
		log.Info("thumbnail service stopped gracefully")
	}
}

func loadConfig() *ThumbnailerConfig {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		slog.Error("DATABASE_URL environment variable is required")
		os.Exit(1)
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "localhost:6379"
	}

	return &ThumbnailerConfig{
		DatabaseURL: databaseURL,
		RedisURL:    redisURL,
		Concurrency: getEnvInt("THUMBNAIL_WORKERS", defaultConcurrency),
	}
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid integer in environment variable, using default",
			"key", key,
			"value", value,
			"default", defaultValue,
		)
		return defaultValue
	}

	return parsed
}

func initDatabase(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
