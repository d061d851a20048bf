package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danielhan/advisor/internal/contracts"
	"github.com/danielhan/advisor/pkg/logger"
	"github.com/danielhan/advisor/pkg/redis"
)

// RedisStore keeps one JSON envelope per symbol under
// <prefix>:metrics:<symbol>. Keys carry no server-side TTL: the
// freshness check stays in code so the 24h boundary behaves exactly
// like the other backends, and a stale entry survives until the next
// overwrite.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *logger.Logger
	now    func() time.Time
}

// NewRedisStore creates a redis-backed metrics cache.
func NewRedisStore(client *redis.Client, prefix string, log *logger.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		logger: log,
		now:    time.Now,
	}
}

func (s *RedisStore) key(symbol string) string {
	return fmt.Sprintf("%s:metrics:%s", s.prefix, Key(symbol))
}

// Get returns the cached metrics for a symbol while fresh.
func (s *RedisStore) Get(ctx context.Context, symbol string) (contracts.InstrumentMetrics, bool) {
	var zero contracts.InstrumentMetrics

	if !s.client.Enabled() {
		return zero, false
	}

	data, err := s.client.Redis().Get(ctx, s.key(symbol)).Bytes()
	if err != nil {
		// Key not found is the common case, not worth logging
		return zero, false
	}

	var entry envelope
	if err := json.Unmarshal(data, &entry); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"error":  err.Error(),
		}).Warn("Corrupt cache entry, treating as miss")
		return zero, false
	}

	if !entry.fresh(s.now()) {
		return zero, false
	}

	return entry.Metrics, true
}

// Put replaces the key in a single SET.
func (s *RedisStore) Put(ctx context.Context, symbol string, metrics contracts.InstrumentMetrics) error {
	if !s.client.Enabled() {
		return nil
	}

	entry := envelope{
		Metrics:   metrics,
		FetchedAt: s.now().Unix(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry for %s: %w", symbol, err)
	}

	if err := s.client.Redis().Set(ctx, s.key(symbol), data, 0).Err(); err != nil {
		return fmt.Errorf("store cache entry for %s: %w", symbol, err)
	}

	return nil
}
