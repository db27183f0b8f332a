package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Handler executes one named job.
type Handler func(ctx context.Context, env Envelope) error

// Consumer reads the jobs topic and dispatches envelopes to registered
// handlers. Job failures are logged, never surfaced back to the enqueuer.
type Consumer struct {
	reader   *kafka.Reader
	handlers map[string]Handler
	logger   *zap.Logger
}

// NewConsumer returns a kafka-backed job consumer.
func NewConsumer(brokers []string, topic, groupID string, logger *zap.Logger) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("jobs: at least one broker is required")
	}
	if topic == "" || groupID == "" {
		return nil, fmt.Errorf("jobs: topic and group id are required")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})
	return &Consumer{
		reader:   reader,
		handlers: make(map[string]Handler),
		logger:   logger,
	}, nil
}

// Register binds a handler to a job name.
func (c *Consumer) Register(jobName string, handler Handler) {
	c.handlers[jobName] = handler
}

// Run consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("jobs: read message: %w", err)
		}

		var env Envelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			c.logger.Error("job envelope corrupt", zap.Error(err))
			continue
		}

		handler, ok := c.handlers[env.Name]
		if !ok {
			c.logger.Warn("no handler for job", zap.String("job", env.Name), zap.String("job_id", env.ID))
			continue
		}

		if err := handler(ctx, env); err != nil {
			c.logger.Error("job failed",
				zap.String("job", env.Name),
				zap.String("job_id", env.ID),
				zap.Error(err),
			)
			continue
		}
		c.logger.Info("job completed", zap.String("job", env.Name), zap.String("job_id", env.ID))
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
