// Package cache persists per-symbol metric snapshots with a fixed
// freshness window. A snapshot is served only while it is younger than
// the window; expired entries are ignored, not deleted, until the next
// successful fetch overwrites them. Unreadable entries are misses,
// never errors.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/danielhan/advisor/internal/contracts"
)

// FreshnessWindow is how long a cached snapshot is served before the
// resolver goes back to the provider.
const FreshnessWindow = 24 * time.Hour

// Store is the metrics cache contract. Get reports a hit only for a
// fresh, readable entry. Put atomically replaces any prior entry for
// the symbol, stamped with the current time; a failed Put is reported
// but must not prevent the caller from using the value in-memory.
type Store interface {
	Get(ctx context.Context, symbol string) (contracts.InstrumentMetrics, bool)
	Put(ctx context.Context, symbol string, metrics contracts.InstrumentMetrics) error
}

// envelope is the persisted record: the full metrics payload plus the
// Unix-epoch fetch timestamp. The layout is shared by all backends so
// records stay inspectable and portable between them.
type envelope struct {
	Metrics   contracts.InstrumentMetrics `json:"metrics"`
	FetchedAt int64                       `json:"fetched_at"`
}

// fresh reports whether the entry is still inside the window.
func (e envelope) fresh(now time.Time) bool {
	return now.Sub(time.Unix(e.FetchedAt, 0)) < FreshnessWindow
}

// Key canonicalizes a symbol for cache-path derivation.
func Key(symbol string) string {
	return strings.ToLower(strings.TrimSpace(symbol))
}
