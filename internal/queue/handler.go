package queue

import (
	"context"
	"fmt"
	"log"

	"github.com/silentpianist/portfolio-videos-go/internal/db"
	"github.com/silentpianist/portfolio-videos-go/internal/db/models"
	"github.com/silentpianist/portfolio-videos-go/internal/db/repository"
	"github.com/silentpianist/portfolio-videos-go/internal/service/tiktok"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ContentRefresher notifies downstream consumers that an entry changed.
type ContentRefresher interface {
	PublishContentChanged(ctx context.Context, action string, entryID uuid.UUID) error
}

// ThumbnailHandler handles TikTok thumbnail fetch tasks
type ThumbnailHandler struct {
	tiktokClient *tiktok.Client
	entryRepo    repository.VideoEntryRepository
	refresher    ContentRefresher
}

// NewThumbnailHandler creates a new thumbnail task handler. The refresher is
// optional; when set, a successful fetch triggers a content-changed event so
// the showcase cache picks up the new thumbnail.
func NewThumbnailHandler(
	tiktokClient *tiktok.Client,
	entryRepo repository.VideoEntryRepository,
	refresher ContentRefresher,
) *ThumbnailHandler {
	return &ThumbnailHandler{
		tiktokClient: tiktokClient,
		entryRepo:    entryRepo,
		refresher:    refresher,
	}
}

// ProcessTask implements asynq.HandlerFunc
func (h *ThumbnailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload, err := UnmarshalThumbnailTikTokPayload(task.Payload())
	if err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	entryID, err := uuid.Parse(payload.EntryID)
	if err != nil {
		return fmt.Errorf("invalid entry ID in payload: %w", err)
	}

	log.Printf("[Handler] Processing thumbnail fetch: entry_id=%s", payload.EntryID)

	username := payload.Username
	if username == "" {
		username = models.DefaultTikTokUsername
	}

	thumbnailURL, err := h.tiktokClient.FetchThumbnail(ctx, username, payload.EmbedID)
	if err != nil {
		return fmt.Errorf("failed to fetch thumbnail from oembed: %w", err)
	}

	if err := h.entryRepo.SetThumbnailURL(ctx, entryID, thumbnailURL); err != nil {
		if db.IsNotFound(err) {
			// Entry was deleted between enqueue and processing; nothing to do
			log.Printf("[Handler] Entry %s no longer exists, dropping thumbnail", payload.EntryID)
			return nil
		}
		return fmt.Errorf("failed to store thumbnail: %w", err)
	}

	log.Printf("[Handler] Stored thumbnail for entry %s", payload.EntryID)

	if h.refresher != nil {
		if err := h.refresher.PublishContentChanged(ctx, "thumbnail", entryID); err != nil {
			// Thumbnail is already stored; the next write will refresh the cache
			log.Printf("[Handler] Warning: failed to publish content change: %v", err)
		}
	}

	return nil
}

// Server wraps the asynq server and its route mux
type Server struct {
	asynqServer *asynq.Server
	mux         *asynq.ServeMux
}

// NewServer creates a task processing server for thumbnail fetches
func NewServer(redisAddr string, concurrency int, handler *ThumbnailHandler) (*Server, error) {
	// Parse Redis URL to extract connection details (host, password, db, TLS)
	redisOpt, err := ParseRedisURL(redisAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 10,
			},
			StrictPriority: false,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Server] Task failed: type=%s, error=%v", task.Type(), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeThumbnailTikTok, handler.ProcessTask)

	return &Server{
		asynqServer: srv,
		mux:         mux,
	}, nil
}

// Run starts the server and blocks until it stops
func (s *Server) Run() error {
	log.Println("[Server] Starting task processing server...")
	return s.asynqServer.Run(s.mux)
}

// Stop gracefully stops the server
func (s *Server) Stop() {
	log.Println("[Server] Stopping task processing server...")
	s.asynqServer.Shutdown()
}
