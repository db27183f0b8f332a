package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer enqueues background jobs onto the jobs topic. Callers never await
// a result; execution failures are handled out-of-band by the worker.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewProducer returns a kafka-backed job producer.
func NewProducer(brokers []string, topic string, logger *zap.Logger) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("jobs: at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("jobs: topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 10 * time.Second,
	}
	return &Producer{writer: writer, logger: logger}, nil
}

// Enqueue publishes one job. The job id doubles as the partition key so
// retries of the same job land on the same partition.
func (p *Producer) Enqueue(ctx context.Context, jobName string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("jobs: marshal payload: %w", err)
	}

	env := Envelope{
		ID:        uuid.NewString(),
		Name:      jobName,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("jobs: marshal envelope: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(env.ID),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderJobID, Value: []byte(env.ID)},
			{Key: HeaderJobName, Value: []byte(jobName)},
			{Key: HeaderTimestamp, Value: []byte(env.CreatedAt.Format(time.RFC3339))},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("jobs: enqueue %s: %w", jobName, err)
	}

	p.logger.Info("job enqueued", zap.String("job", jobName), zap.String("job_id", env.ID))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
