// Package jobs holds the concrete scheduled jobs.
package jobs

import (
	"context"
	"fmt"

	"github.com/danielhan/advisor/internal/engine"
	"github.com/danielhan/advisor/internal/taxonomy"
	"github.com/danielhan/advisor/pkg/logger"
)

// WarmJob re-resolves every symbol in the taxonomy before market
// hours, so same-day recommendation requests are served from cache
// instead of fanning out to the provider.
type WarmJob struct {
	resolver *engine.Resolver
	taxonomy *taxonomy.Taxonomy
	schedule string
	logger   *logger.Logger
}

// NewWarmJob creates a new cache warm job
func NewWarmJob(resolver *engine.Resolver, tax *taxonomy.Taxonomy, schedule string, log *logger.Logger) *WarmJob {
	return &WarmJob{
		resolver: resolver,
		taxonomy: tax,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *WarmJob) Name() string {
	return "cache_warm"
}

// Schedule returns the cron schedule
func (j *WarmJob) Schedule() string {
	return j.schedule
}

// Run resolves the full symbol set through the cache-or-fetch path.
// Per-symbol provider failures are already absorbed by the resolver;
// the job only fails when nothing at all could be resolved.
func (j *WarmJob) Run(ctx context.Context) error {
	symbols := j.taxonomy.AllSymbols()
	j.logger.WithField("symbols", len(symbols)).Info("Starting cache warm")

	resolved := j.resolver.ResolveAll(ctx, symbols)
	if len(resolved) == 0 && len(symbols) > 0 {
		return fmt.Errorf("cache warm resolved 0 of %d symbols", len(symbols))
	}

	j.logger.WithFields(map[string]interface{}{
		"symbols":  len(symbols),
		"resolved": len(resolved),
	}).Info("Cache warm completed")

	return nil
}
