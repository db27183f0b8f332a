package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	Port string `yaml:"port" env:"PARKHUB_HTTP_PORT"`
}

// DatabaseConfig holds Postgres settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"PARKHUB_POSTGRES_DSN"`
}

// RedisConfig holds cache settings.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"PARKHUB_REDIS_ADDR"`
	Password string `yaml:"password" env:"PARKHUB_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"PARKHUB_REDIS_DB"`
}

// JWTConfig holds token settings.
type JWTConfig struct {
	Secret     string `yaml:"secret" env:"PARKHUB_JWT_SECRET"`
	TTLMinutes int    `yaml:"ttlMinutes" env:"PARKHUB_JWT_TTL_MINUTES"`
}

// KafkaConfig holds job queue settings.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers" env:"PARKHUB_KAFKA_BROKERS"`
	Topic   string   `yaml:"topic" env:"PARKHUB_KAFKA_TOPIC"`
	GroupID string   `yaml:"groupId" env:"PARKHUB_KAFKA_GROUP"`
}

// MailConfig holds outbound mail settings.
type MailConfig struct {
	APIKey    string `yaml:"apiKey" env:"PARKHUB_MAIL_API_KEY"`
	FromName  string `yaml:"fromName" env:"PARKHUB_MAIL_FROM_NAME"`
	FromEmail string `yaml:"fromEmail" env:"PARKHUB_MAIL_FROM_EMAIL"`
}

// WorkerConfig holds background worker settings.
type WorkerConfig struct {
	ReminderIntervalHours int `yaml:"reminderIntervalHours" env:"PARKHUB_REMINDER_INTERVAL_HOURS"`
}

// Config defines parkhub configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Mail     MailConfig     `yaml:"mail"`
	Worker   WorkerConfig   `yaml:"worker"`
}

// Load reads configuration from yaml file and environment.
func Load() (*Config, error) {
	cfg := &Config{
		HTTP:  HTTPConfig{Port: "8080"},
		Redis: RedisConfig{Addr: "localhost:6379"},
		JWT:   JWTConfig{TTLMinutes: 720},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "parkhub.jobs",
			GroupID: "parkhub-worker",
		},
		Worker: WorkerConfig{ReminderIntervalHours: 24},
	}

	if err := load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// TokenTTL returns JWT lifetime as duration.
func (c *Config) TokenTTL() time.Duration {
	if c.JWT.TTLMinutes <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(c.JWT.TTLMinutes) * time.Minute
}

// ReminderInterval returns the pause between reminder runs.
func (c *Config) ReminderInterval() time.Duration {
	if c.Worker.ReminderIntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Worker.ReminderIntervalHours) * time.Hour
}
