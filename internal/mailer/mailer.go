package mailer

import (
	"context"

	"go.uber.org/zap"
)

// Attachment is a file attached to an outbound message.
type Attachment struct {
	Filename string
	Data     []byte
}

// Mailer sends outbound mail. Consumed only by background jobs.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string, attachments ...Attachment) error
}

// LogMailer logs messages instead of sending them. Used when no mail provider
// is configured, e.g. in local development.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer returns a logging-only mailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message.
func (m *LogMailer) Send(_ context.Context, to, subject, _ string, attachments ...Attachment) error {
	m.logger.Info("mail suppressed (no provider configured)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("attachments", len(attachments)),
	)
	return nil
}
