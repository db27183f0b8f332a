package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"parkhub/internal/mailer"
	"parkhub/internal/models"
)

// UserList provides the reminder recipients.
type UserList interface {
	ListByRole(ctx context.Context, role string) ([]models.User, error)
}

// Reminder periodically emails every user a booking reminder.
type Reminder struct {
	users    UserList
	mail     mailer.Mailer
	interval time.Duration
	logger   *zap.Logger
}

// NewReminder builds the scheduled reminder job.
func NewReminder(users UserList, mail mailer.Mailer, interval time.Duration, logger *zap.Logger) *Reminder {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Reminder{
		users:    users,
		mail:     mail,
		interval: interval,
		logger:   logger,
	}
}

// Run sends reminders on every tick until ctx is cancelled.
func (r *Reminder) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.sendAll(ctx); err != nil {
				r.logger.Error("reminder run failed", zap.Error(err))
			}
		}
	}
}

func (r *Reminder) sendAll(ctx context.Context) error {
	users, err := r.users.ListByRole(ctx, models.RoleUser)
	if err != nil {
		return fmt.Errorf("reminders: list users: %w", err)
	}
	if len(users) == 0 {
		return nil
	}

	sent := 0
	for _, user := range users {
		body := fmt.Sprintf(
			"Hi %s,\n\nJust a friendly reminder that we have plenty of parking spots available. Book your spot today!\n\n- The ParkHub Team",
			user.Username,
		)
		if err := r.mail.Send(ctx, user.Email, "We've got a spot for you!", body); err != nil {
			r.logger.Warn("reminder send failed", zap.String("email", user.Email), zap.Error(err))
			continue
		}
		sent++
	}

	r.logger.Info("reminders sent", zap.Int("count", sent), zap.Int("users", len(users)))
	return nil
}
