package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/silentpianist/portfolio-videos-go/internal/config"
	"github.com/silentpianist/portfolio-videos-go/internal/db/repository"
	"github.com/silentpianist/portfolio-videos-go/internal/handler"
	"github.com/silentpianist/portfolio-videos-go/internal/middleware"
	"github.com/silentpianist/portfolio-videos-go/internal/queue"
	"github.com/silentpianist/portfolio-videos-go/internal/service"
	"github.com/silentpianist/portfolio-videos-go/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultPort     = "8080"
	shutdownTimeout = 30 * time.Second
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(log)

	srvConfig := loadConfig()

	// The broker and upload collaborators reuse the viper config (shared with
	// the showcase service); env vars with the APP_ prefix override its file.
	appConfig, err := config.Load()
	if err != nil {
		log.Error("failed to load application config", "error", err)
		os.Exit(1)
	}
	if err := logger.Init(appConfig.Logging.Level, appConfig.Logging.File); err != nil {
		log.Error("failed to initialize broker logger", "error", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := initDatabase(ctx, srvConfig.DatabaseURL)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	log.Info("database connection established",
		"max_conns", pool.Config().MaxConns,
	)

	entryRepo := repository.NewVideoEntryRepository(pool)
	userRepo := repository.NewAdminUserRepository(pool)

	// Cache-refresh publisher (optional): without a broker, writes still
	// succeed and the showcase refreshes on its own schedule
	var publisher handler.RefreshPublisher
	contentPublisher, err := service.NewContentEventPublisher(&appConfig.RabbitMQ)
	if err != nil {
		log.Warn("failed to connect to RabbitMQ, cache-refresh events disabled", "error", err)
	} else {
		publisher = contentPublisher
		defer contentPublisher.Close()
	}

	// Thumbnail job queue (optional)
	var enqueuer handler.ThumbnailEnqueuer
	if srvConfig.RedisURL != "" {
		queueClient, err := queue.NewClient(srvConfig.RedisURL)
		if err != nil {
			log.Warn("failed to initialize queue client, tiktok thumbnails will not be fetched", "error", err)
		} else {
			enqueuer = queueClient
			defer queueClient.Close()
		}
	}

	authService := service.NewAuthService(userRepo, srvConfig.JWTSecret, appConfig.Auth.TokenTTL)

	// Thumbnail upload storage (optional)
	var uploadHandler *handler.UploadHandler
	if appConfig.Upload.AccessKey != "" {
		uploader, err := service.NewThumbnailUploader(ctx, &appConfig.Upload)
		if err != nil {
			log.Warn("failed to connect to object storage, thumbnail uploads disabled", "error", err)
		} else {
			uploadHandler = handler.NewUploadHandler(uploader, appConfig.Upload.MaxSize, log)
		}
	}

	entryHandler := handler.NewVideoEntryHandler(entryRepo, publisher, enqueuer, log)
	authHandler := handler.NewAuthHandler(authService, log)

	sessionAuth := middleware.NewSessionAuth(authService, log)

	mux := http.NewServeMux()

	mux.Handle("/api/v1/auth/", authHandler)

	mux.Handle("/api/v1/entries", sessionAuth.Middleware(entryHandler))
	mux.Handle("/api/v1/entries/", sessionAuth.Middleware(entryHandler))

	if uploadHandler != nil {
		mux.Handle("/api/v1/uploads", sessionAuth.Middleware(uploadHandler))
	}

	mux.HandleFunc("/health", handleHealth(pool))

	server := &http.Server{
		Addr:         ":" + srvConfig.Port,
		Handler:      loggingMiddleware(log)(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", srvConfig.Port)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Error("server error", "error", err)
		os.Exit(1)
	case sig := <-shutdown:
		log.Info("shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
			if err := server.Close(); err != nil {
				log.Error("failed to close server", "error", err)
			}
			os.Exit(1)
		}

		log.Info("server stopped gracefully")
	}
}

// ServerConfig holds the admin API configuration.
type ServerConfig struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
}

// loadConfig loads configuration from environment variables.
func loadConfig() *ServerConfig {
	config := &ServerConfig{
		Port:        getEnv("PORT", defaultPort),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
	}

	if config.DatabaseURL == "" {
		slog.Error("DATABASE_URL environment variable is required")
		os.Exit(1)
	}

	if config.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	return config
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// initDatabase initializes the database connection pool.
func initDatabase(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	// Configure connection pool
	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// handleHealth returns a health check handler that verifies database connectivity.
func handleHealth(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			slog.Error("health check failed", "error", err)
			http.Error(w, "Database unhealthy", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"connected"}`))
	}
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	return rw.ResponseWriter.Write(b)
}

// Ensure responseWriter implements http.ResponseWriter
var _ http.ResponseWriter = (*responseWriter)(nil)
