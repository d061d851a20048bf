// Package engine implements the recommendation pipeline: universe
// expansion, concurrent metrics resolution, hard filtering, weighted
// scoring and ranking.
package engine

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/danielhan/advisor/internal/cache"
	"github.com/danielhan/advisor/internal/contracts"
	"github.com/danielhan/advisor/internal/provider"
	"github.com/danielhan/advisor/pkg/logger"
)

// Resolver turns candidate symbols into fresh metric snapshots. It is
// the single seam where cache staleness and provider failure are
// absorbed: downstream stages never see missing or expired data.
type Resolver struct {
	store    cache.Store
	provider provider.Provider
	window   time.Duration
	workers  int
	logger   *logger.Logger
}

// NewResolver creates a resolver with a bounded fan-out of workers.
func NewResolver(store cache.Store, prov provider.Provider, window time.Duration, workers int, log *logger.Logger) *Resolver {
	if workers < 1 {
		workers = 1
	}
	return &Resolver{
		store:    store,
		provider: prov,
		window:   window,
		workers:  workers,
		logger:   log,
	}
}

// Resolve returns a fresh snapshot for one symbol: cache hit if the
// entry is inside the freshness window, otherwise a provider fetch
// followed by a best-effort cache write. A provider failure drops the
// symbol for this request; there is no per-request retry here.
// Symbols are canonicalized to uppercase here, before any external
// call; the cache lowercases on its side.
func (r *Resolver) Resolve(ctx context.Context, symbol string) (contracts.InstrumentMetrics, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if metrics, ok := r.store.Get(ctx, symbol); ok {
		return metrics, true
	}

	metrics, err := r.provider.FetchMetrics(ctx, symbol, r.window)
	if err != nil {
		r.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"error":  err.Error(),
		}).Warn("Dropping symbol, provider fetch failed")
		return contracts.InstrumentMetrics{}, false
	}

	// A failed write only loses the cache benefit; the fetched value
	// is still used for this request
	if err := r.store.Put(ctx, symbol, metrics); err != nil {
		r.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"error":  err.Error(),
		}).Warn("Cache write failed, continuing with in-memory value")
	}

	return metrics, true
}

// ResolveAll resolves every symbol through a bounded worker pool and
// returns the snapshots that succeeded, ordered by symbol so a given
// cache state always produces the same slice.
func (r *Resolver) ResolveAll(ctx context.Context, symbols []string) []contracts.InstrumentMetrics {
	if len(symbols) == 0 {
		return nil
	}

	jobs := make(chan string, len(symbols))
	results := make(chan contracts.InstrumentMetrics, len(symbols))

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				if metrics, ok := r.Resolve(ctx, symbol); ok {
					results <- metrics
				}
			}
		}()
	}

	for _, symbol := range symbols {
		jobs <- symbol
	}
	close(jobs)

	wg.Wait()
	close(results)

	resolved := make([]contracts.InstrumentMetrics, 0, len(symbols))
	for metrics := range results {
		resolved = append(resolved, metrics)
	}

	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].Symbol < resolved[j].Symbol
	})

	r.logger.WithFields(map[string]interface{}{
		"requested": len(symbols),
		"resolved":  len(resolved),
	}).Info("Resolved candidate metrics")

	return resolved
}
