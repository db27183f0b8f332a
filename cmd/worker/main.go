package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"parkhub/internal/config"
	"parkhub/internal/db"
	"parkhub/internal/jobs"
	"parkhub/internal/logging"
	"parkhub/internal/mailer"
	"parkhub/internal/repository"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // best-effort flush

	database, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer database.Close()

	var mail mailer.Mailer
	if strings.TrimSpace(cfg.Mail.APIKey) != "" {
		mail = mailer.NewMailerSend(cfg.Mail.APIKey, cfg.Mail.FromName, cfg.Mail.FromEmail)
	} else {
		logger.Warn("mail api key not set, emails will be logged only")
		mail = mailer.NewLogMailer(logger)
	}

	userRepo := repository.NewUserRepository(database)
	bookingRepo := repository.NewBookingRepository(database)

	consumer, err := jobs.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, logger)
	if err != nil {
		logger.Fatal("failed to create job consumer", zap.Error(err))
	}
	defer consumer.Close()

	exporter := jobs.NewExporter(bookingRepo, userRepo, mail, logger)
	consumer.Register(jobs.JobExportCSV, exporter.Handle)

	reminder := jobs.NewReminder(userRepo, mail, cfg.ReminderInterval(), logger)
	go reminder.Run(ctx)

	logger.Info("worker started",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
	)

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("worker stopped with error", zap.Error(err))
	}
	logger.Info("worker shut down")
}
