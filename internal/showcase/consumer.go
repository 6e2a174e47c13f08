package showcase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/silentpianist/portfolio-videos-go/internal/config"
	"github.com/silentpianist/portfolio-videos-go/internal/service"
	"github.com/silentpianist/portfolio-videos-go/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RefreshConsumer listens for content-change events and refreshes the cache.
// Malformed events still trigger a refresh; the event body is informational.
type RefreshConsumer struct {
	cache  *Cache
	config *config.RabbitMQConfig
	log    *zap.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRefreshConsumer connects to RabbitMQ and binds the refresh queue.
func NewRefreshConsumer(cfg *config.RabbitMQConfig, cache *Cache) (*RefreshConsumer, error) {
	c := &RefreshConsumer{
		cache:  cache,
		config: cfg,
		log:    logger.Named("refresh-consumer"),
	}

	if err := c.connect(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *RefreshConsumer) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	connURL := fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.config.User, c.config.Password, c.config.Host, c.config.Port)

	conn, err := amqp.Dial(connURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		c.config.Exchange, // name
		"topic",           // type
		true,              // durable
		false,             // auto-deleted
		false,             // internal
		false,             // no-wait
		nil,               // arguments
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		c.config.Queue, // name
		true,           // durable
		false,          // delete when unused
		false,          // exclusive
		false,          // no-wait
		amqp.Table{
			"x-message-ttl": 86400000, // 24 hours
		},
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(
		c.config.Queue,      // queue name
		c.config.RoutingKey, // routing key
		c.config.Exchange,   // exchange
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	c.conn = conn
	c.channel = ch

	c.log.Info("Connected to RabbitMQ",
		zap.String("exchange", c.config.Exchange),
		zap.String("queue", c.config.Queue),
	)

	return nil
}

// Start consumes events until ctx is cancelled or the channel closes.
func (c *RefreshConsumer) Start(ctx context.Context) error {
	c.mu.RLock()
	ch := c.channel
	c.mu.RUnlock()

	if ch == nil {
		return fmt.Errorf("channel is not initialized")
	}

	deliveries, err := ch.Consume(
		c.config.Queue, // queue
		"",             // consumer tag
		false,          // auto-ack
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			c.handleDelivery(ctx, delivery)
		}
	}
}

func (c *RefreshConsumer) handleDelivery(ctx context.Context, delivery amqp.Delivery) {
	var event service.ContentChangedEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		c.log.Warn("Received malformed content change event", zap.Error(err))
	} else {
		c.log.Debug("Received content change event",
			zap.String("action", event.Action),
			zap.String("entryId", event.EntryID.String()),
		)
	}

	if err := c.cache.Refresh(ctx); err != nil {
		c.log.Error("Failed to refresh showcase cache", zap.Error(err))
		// Requeue so the refresh is retried on the next delivery
		_ = delivery.Nack(false, true)
		return
	}

	_ = delivery.Ack(false)
}

// IsHealthy reports whether the broker connection is open.
func (c *RefreshConsumer) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && !c.conn.IsClosed()
}

// Close shuts down the channel and connection.
func (c *RefreshConsumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing consumer: %v", errs)
	}
	return nil
}
