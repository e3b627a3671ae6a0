package webhook

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"higestdata/internal/logger"
)

// Ledger records which deliveries have already been seen. Providers
// redeliver webhooks, so the first claim wins and replays are dropped
// before they reach a handler.
type Ledger interface {
	FirstDelivery(ctx context.Context, evt Event) bool
}

// RedisLedger claims deliveries with SETNX under a TTL. A ledger error
// degrades to "not seen": the status-guarded store update is the
// backstop that keeps replays harmless.
type RedisLedger struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{
		client: client,
		prefix: "webhook:",
		ttl:    24 * time.Hour,
	}
}

func (l *RedisLedger) key(evt Event) string {
	return l.prefix + evt.Provider + ":" + evt.Reference + ":" + evt.Type
}

func (l *RedisLedger) FirstDelivery(ctx context.Context, evt Event) bool {
	ok, err := l.client.SetNX(ctx, l.key(evt), 1, l.ttl).Result()
	if err != nil {
		logger.Warn("webhook ledger unavailable", map[string]any{
			"provider":  evt.Provider,
			"reference": evt.Reference,
			"error":     err.Error(),
		})
		return true
	}
	return ok
}
