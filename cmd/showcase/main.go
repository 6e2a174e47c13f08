package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/silentpianist/portfolio-videos-go/internal/config"
	"github.com/silentpianist/portfolio-videos-go/internal/db"
	"github.com/silentpianist/portfolio-videos-go/internal/db/repository"
	"github.com/silentpianist/portfolio-videos-go/internal/showcase"
	"github.com/silentpianist/portfolio-videos-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.Log

	ctx := context.Background()
	pool, err := db.NewPool(ctx, &db.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Name,
		SSLMode:         "disable",
		MaxConns:        int32(cfg.Database.MaxConnections),
		MinConns:        int32(cfg.Database.MinConnections),
		MaxConnLifetime: cfg.Database.MaxLifetime,
		MaxConnIdleTime: cfg.Database.MaxIdleTime,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close(pool)

	log.Info("Connected to database",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Name),
	)

	entryRepo := repository.NewVideoEntryRepository(pool)
	cache := showcase.NewCache(entryRepo)

	// Warm the cache before accepting traffic
	if err := cache.Refresh(ctx); err != nil {
		log.Warn("Initial cache refresh failed, serving empty showcase until an event arrives", zap.Error(err))
	}

	// Content-change consumer (optional): without a broker the cache stays
	// at its warmed state
	consumerCtx, cancelConsumer := context.WithCancel(ctx)
	defer cancelConsumer()

	var consumer *showcase.RefreshConsumer
	consumer, err = showcase.NewRefreshConsumer(&cfg.RabbitMQ, cache)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ, live cache refresh disabled", zap.Error(err))
		consumer = nil
	} else {
		defer consumer.Close()
		go func() {
			if err := consumer.Start(consumerCtx); err != nil && consumerCtx.Err() == nil {
				log.Error("Refresh consumer stopped", zap.Error(err))
			}
		}()
	}

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := showcase.NewHandler(cache, pool, consumer)
	router := handler.Router()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Showcase server starting", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("Server error", zap.Error(err))
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		cancelConsumer()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Graceful shutdown failed", zap.Error(err))
			_ = server.Close()
			os.Exit(1)
		}

		log.Info("Showcase server stopped gracefully")
	}
}
