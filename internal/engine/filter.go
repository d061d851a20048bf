package engine

import (
	"fmt"

	"github.com/danielhan/advisor/internal/contracts"
	"github.com/danielhan/advisor/internal/taxonomy"
	"github.com/danielhan/advisor/pkg/logger"
)

// Risk bands map the profile's risk level onto a closed beta interval.
const (
	lowRiskMaxBeta    = 1.1
	mediumRiskMinBeta = 0.7
	mediumRiskMaxBeta = 1.4
	highRiskMinBeta   = 0.9
	returnFloorFactor = 0.25
	dividendFloorHigh = 1.5
	dividendFloorSome = 0.3
)

// Filter applies the hard eliminating rules. All rules must hold; the
// first failure wins and is reported as the rejection reason.
type Filter struct {
	taxonomy *taxonomy.Taxonomy
	logger   *logger.Logger
}

// NewFilter creates a filter backed by the given taxonomy.
func NewFilter(tax *taxonomy.Taxonomy, log *logger.Logger) *Filter {
	return &Filter{taxonomy: tax, logger: log}
}

// Passes evaluates the five rules against one snapshot. The returned
// reason is empty on pass and names the failing rule otherwise. The
// check is pure: the same snapshot and profile always agree.
func (f *Filter) Passes(m *contracts.InstrumentMetrics, p *contracts.InvestmentProfile) (bool, string) {
	if !m.MatchesAnyType(p.InvestmentTypes) {
		return false, fmt.Sprintf("instrument type %v not requested", m.InvestmentTypes())
	}

	if !f.sectorMatches(m, p) {
		return false, fmt.Sprintf("sector %q not in requested sectors", m.Sector)
	}

	if ok, reason := riskBandAllows(p.RiskLevel, m.Beta); !ok {
		return false, reason
	}

	floor := returnFloorFactor * p.DesiredReturn
	if m.HistReturnOrZero() < floor {
		return false, fmt.Sprintf("historical return %.2f below floor %.2f", m.HistReturnOrZero(), floor)
	}

	switch p.DividendPriority {
	case contracts.DividendHigh:
		if m.DividendYield < dividendFloorHigh {
			return false, fmt.Sprintf("dividend yield %.2f below %.1f", m.DividendYield, dividendFloorHigh)
		}
	case contracts.DividendSome:
		if m.DividendYield < dividendFloorSome {
			return false, fmt.Sprintf("dividend yield %.2f below %.1f", m.DividendYield, dividendFloorSome)
		}
	}

	return true, ""
}

// Apply filters a resolved slice, logging each rejection at debug.
func (f *Filter) Apply(candidates []contracts.InstrumentMetrics, p *contracts.InvestmentProfile) []contracts.InstrumentMetrics {
	passed := make([]contracts.InstrumentMetrics, 0, len(candidates))
	for i := range candidates {
		ok, reason := f.Passes(&candidates[i], p)
		if !ok {
			f.logger.WithFields(map[string]interface{}{
				"symbol": candidates[i].Symbol,
				"reason": reason,
			}).Debug("Candidate filtered out")
			continue
		}
		passed = append(passed, candidates[i])
	}

	f.logger.WithFields(map[string]interface{}{
		"candidates": len(candidates),
		"passed":     len(passed),
	}).Info("Applied criteria filter")

	return passed
}

// sectorMatches compares standardized sector tags, honoring the
// per-symbol overrides for chronically mislabeled names.
func (f *Filter) sectorMatches(m *contracts.InstrumentMetrics, p *contracts.InvestmentProfile) bool {
	effective := f.taxonomy.EffectiveSector(m.Symbol, m.Sector)
	for _, s := range p.Sectors {
		if f.taxonomy.Standardize(s) == effective {
			return true
		}
	}
	return false
}

func riskBandAllows(level contracts.RiskLevel, beta float64) (bool, string) {
	switch level {
	case contracts.RiskLow:
		if beta > lowRiskMaxBeta {
			return false, fmt.Sprintf("beta %.2f above low-risk ceiling %.1f", beta, lowRiskMaxBeta)
		}
	case contracts.RiskMedium:
		if beta < mediumRiskMinBeta || beta > mediumRiskMaxBeta {
			return false, fmt.Sprintf("beta %.2f outside medium-risk band [%.1f, %.1f]", beta, mediumRiskMinBeta, mediumRiskMaxBeta)
		}
	case contracts.RiskHigh:
		if beta < highRiskMinBeta {
			return false, fmt.Sprintf("beta %.2f below high-risk floor %.1f", beta, highRiskMinBeta)
		}
	}
	return true, ""
}
