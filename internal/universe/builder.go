// Package universe expands the requested sectors into the candidate
// symbol set eligible for one recommendation request.
package universe

import (
	"strings"

	"github.com/danielhan/advisor/internal/contracts"
	"github.com/danielhan/advisor/internal/taxonomy"
	"github.com/danielhan/advisor/pkg/logger"
)

// Builder constructs the candidate universe from taxonomy tables.
type Builder struct {
	taxonomy *taxonomy.Taxonomy
	logger   *logger.Logger
}

// NewBuilder creates a new universe builder.
func NewBuilder(tax *taxonomy.Taxonomy, log *logger.Logger) *Builder {
	return &Builder{
		taxonomy: tax,
		logger:   log,
	}
}

// Build expands sectors into a deduplicated candidate symbol set. Per
// sector it unions the equity constituents, plus the sector's ETF list
// when etf is among the requested investment types. Mutual fund and
// bond tables are not expanded here. Unknown sector tags contribute
// nothing. No profile filtering happens at this stage; order carries
// no meaning.
func (b *Builder) Build(sectors []string, types []contracts.InvestmentType) []string {
	wantETF := false
	for _, t := range types {
		if t == contracts.TypeETF {
			wantETF = true
			break
		}
	}

	seen := make(map[string]struct{})
	candidates := make([]string, 0, len(sectors)*32)
	add := func(symbols []string) {
		for _, symbol := range symbols {
			symbol = strings.ToUpper(symbol)
			if _, dup := seen[symbol]; dup {
				continue
			}
			seen[symbol] = struct{}{}
			candidates = append(candidates, symbol)
		}
	}

	for _, sector := range sectors {
		tag := b.taxonomy.Standardize(sector)
		add(b.taxonomy.SectorEquities(tag))
		if wantETF {
			add(b.taxonomy.SectorETFs(tag))
		}
	}

	b.logger.WithFields(map[string]interface{}{
		"sectors":    sectors,
		"etf":        wantETF,
		"candidates": len(candidates),
	}).Debug("Candidate universe built")

	return candidates
}
