package queue

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Client wraps asynq client for enqueueing tasks
type Client struct {
	asynqClient *asynq.Client
}

// NewClient creates a new queue client
func NewClient(redisAddr string) (*Client, error) {
	// Parse Redis URL to extract connection details (host, password, db, TLS)
	redisOpt, err := ParseRedisURL(redisAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	asynqClient := asynq.NewClient(redisOpt)

	return &Client{
		asynqClient: asynqClient,
	}, nil
}

// Close closes the client connection
func (c *Client) Close() error {
	return c.asynqClient.Close()
}

// EnqueueThumbnailFetch enqueues a TikTok thumbnail fetch task for an entry
// that was saved without a thumbnail URL.
func (c *Client) EnqueueThumbnailFetch(ctx context.Context, entryID uuid.UUID, username, embedID string) error {
	payload, err := NewThumbnailTikTokTask(entryID.String(), username, embedID)
	if err != nil {
		return fmt.Errorf("failed to create task payload: %w", err)
	}

	payloadBytes, err := payload.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	task := asynq.NewTask(TypeThumbnailTikTok, payloadBytes)

	// Enqueue task
	info, err := c.asynqClient.Enqueue(task,
		asynq.MaxRetry(3),
		asynq.Timeout(1*time.Minute),
		asynq.Queue("default"),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Printf("[Queue] Enqueued thumbnail fetch: entry_id=%s, task_id=%s", entryID, info.ID)

	return nil
}
