package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielhan/advisor/internal/contracts"
	"github.com/danielhan/advisor/internal/universe"
	"github.com/danielhan/advisor/pkg/logger"
)

// ErrNoMatches distinguishes "no instrument qualified" from an error.
// Callers are expected to prompt for a profile adjustment, not retry.
var ErrNoMatches = errors.New("engine: no instruments match the profile")

// Engine wires the pipeline stages together. One Engine serves all
// requests; the only shared state across requests is the cache behind
// the resolver.
type Engine struct {
	universe *universe.Builder
	resolver *Resolver
	filter   *Filter
	scorer   *Scorer
	logger   *logger.Logger
}

// New assembles the engine from its stages.
func New(builder *universe.Builder, resolver *Resolver, filter *Filter, scorer *Scorer, log *logger.Logger) *Engine {
	return &Engine{
		universe: builder,
		resolver: resolver,
		filter:   filter,
		scorer:   scorer,
		logger:   log,
	}
}

// Recommend runs one profile through the full pipeline and returns the
// top n ranked instruments. An invalid profile is rejected before any
// expansion; an empty qualifying set surfaces as ErrNoMatches.
func (e *Engine) Recommend(ctx context.Context, profile contracts.InvestmentProfile, n int) ([]contracts.RankedInstrument, error) {
	profile.Normalize()
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	start := time.Now()

	symbols := e.universe.Build(profile.Sectors, profile.InvestmentTypes)
	if len(symbols) == 0 {
		e.logger.WithField("sectors", profile.Sectors).Info("Empty candidate universe")
		return nil, ErrNoMatches
	}

	resolved := e.resolver.ResolveAll(ctx, symbols)
	passed := e.filter.Apply(resolved, &profile)
	if len(passed) == 0 {
		return nil, ErrNoMatches
	}

	scored := e.scorer.ScoreAll(passed, &profile)
	ranked := Rank(scored, n)

	e.logger.WithFields(map[string]interface{}{
		"universe": len(symbols),
		"resolved": len(resolved),
		"passed":   len(passed),
		"returned": len(ranked),
		"duration": time.Since(start).String(),
	}).Info("Recommendation request completed")

	return ranked, nil
}
