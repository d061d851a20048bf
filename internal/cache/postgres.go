package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danielhan/advisor/internal/contracts"
	"github.com/danielhan/advisor/pkg/logger"
)

// PostgresStore keeps one row per symbol in metrics_cache. The payload
// column carries the same JSON envelope body the file backend writes,
// with fetched_at split out for inspection.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
	now    func() time.Time
}

// NewPostgresStore creates a postgres-backed metrics cache.
func NewPostgresStore(pool *pgxpool.Pool, log *logger.Logger) *PostgresStore {
	return &PostgresStore{
		pool:   pool,
		logger: log,
		now:    time.Now,
	}
}

// EnsureSchema creates the cache table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS metrics_cache (
			symbol     TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			fetched_at BIGINT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create metrics_cache table: %w", err)
	}
	return nil
}

// Get returns the cached metrics for a symbol while fresh. Query and
// decode failures are logged misses, matching the file backend.
func (s *PostgresStore) Get(ctx context.Context, symbol string) (contracts.InstrumentMetrics, bool) {
	var zero contracts.InstrumentMetrics

	var payload []byte
	var fetchedAt int64
	err := s.pool.QueryRow(ctx, `
		SELECT payload, fetched_at FROM metrics_cache WHERE symbol = $1
	`, Key(symbol)).Scan(&payload, &fetchedAt)
	if err != nil {
		// pgx.ErrNoRows and real errors both degrade to a miss; only
		// the latter is worth a log line
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"error":  err.Error(),
			}).Warn("Cache read failed, treating as miss")
		}
		return zero, false
	}

	entry := envelope{FetchedAt: fetchedAt}
	if err := json.Unmarshal(payload, &entry.Metrics); err != nil {
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

// Put upserts the row; the replace is atomic at the row level.
func (s *PostgresStore) Put(ctx context.Context, symbol string, metrics contracts.InstrumentMetrics) error {
	payload, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("marshal cache entry for %s: %w", symbol, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO metrics_cache (symbol, payload, fetched_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol) DO UPDATE
		SET payload = EXCLUDED.payload, fetched_at = EXCLUDED.fetched_at
	`, Key(symbol), payload, s.now().Unix())
	if err != nil {
		return fmt.Errorf("store cache entry for %s: %w", symbol, err)
	}

	return nil
}
