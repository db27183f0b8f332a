package service

import (
	"context"
	"time"
)

// Cache is the read-through cache collaborator. Implementations absorb their
// own failures; a nil Cache disables caching entirely.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) bool
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Invalidate(ctx context.Context, keys ...string)
}

// Queue accepts fire-and-forget background work.
type Queue interface {
	Enqueue(ctx context.Context, jobName string, payload interface{}) error
}

// OccupancyNotifier receives lot availability changes, e.g. for the live
// websocket feed. A nil notifier disables publishing.
type OccupancyNotifier interface {
	LotUpdated(lotID int64, availableSpots int)
}
