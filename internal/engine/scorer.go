package engine

import (
	"fmt"
	"math"

	"github.com/danielhan/advisor/internal/contracts"
	"github.com/danielhan/advisor/internal/taxonomy"
)

// Weights are the per-criterion weights of the match score. They must
// sum to exactly 1.0 so the weighted sum stays inside [0,1].
type Weights struct {
	Risk     float64
	Return   float64
	Sector   float64
	Dividend float64
	Ethical  float64
	Budget   float64
}

// DefaultWeights returns the production weighting.
func DefaultWeights() Weights {
	return Weights{
		Risk:     0.25,
		Return:   0.30,
		Sector:   0.20,
		Dividend: 0.15,
		Ethical:  0.05,
		Budget:   0.05,
	}
}

// Validate checks the unit-sum invariant with a small float tolerance.
func (w Weights) Validate() error {
	sum := w.Risk + w.Return + w.Sector + w.Dividend + w.Ethical + w.Budget
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("weights must sum to 1.0 (got %.6f)", sum)
	}
	return nil
}

// Scorer computes the normalized match score for candidates that
// survived the filter.
type Scorer struct {
	taxonomy *taxonomy.Taxonomy
	weights  Weights
}

// NewScorer creates a scorer. Weights are validated up front so a bad
// configuration fails at construction, not per request.
func NewScorer(tax *taxonomy.Taxonomy, weights Weights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{taxonomy: tax, weights: weights}, nil
}

// Score computes the weighted sum of the six sub-scores. Every
// sub-score is clamped to [0,1] before weighting, so the result is
// always in [0,1].
func (s *Scorer) Score(m *contracts.InstrumentMetrics, p *contracts.InvestmentProfile) contracts.ScoredCandidate {
	breakdown := contracts.ScoreBreakdown{
		Risk:     clamp01(riskScore(p.RiskLevel, m.Beta)),
		Return:   clamp01(returnScore(m.HistReturn, p.DesiredReturn)),
		Sector:   s.sectorScore(m, p),
		Dividend: clamp01(dividendScore(p.DividendPriority, m.DividendYield)),
		Ethical:  clamp01(ethicalScore(p.Ethical, m.ESG)),
		// Fractional-share purchasing means any budget is feasible
		Budget: 1.0,
	}

	score := s.weights.Risk*breakdown.Risk +
		s.weights.Return*breakdown.Return +
		s.weights.Sector*breakdown.Sector +
		s.weights.Dividend*breakdown.Dividend +
		s.weights.Ethical*breakdown.Ethical +
		s.weights.Budget*breakdown.Budget

	return contracts.ScoredCandidate{
		Metrics:   *m,
		Score:     score,
		Breakdown: breakdown,
	}
}

// ScoreAll scores every candidate in place order.
func (s *Scorer) ScoreAll(candidates []contracts.InstrumentMetrics, p *contracts.InvestmentProfile) []contracts.ScoredCandidate {
	scored := make([]contracts.ScoredCandidate, 0, len(candidates))
	for i := range candidates {
		scored = append(scored, s.Score(&candidates[i], p))
	}
	return scored
}

// riskScore rewards beta matching the requested risk appetite. The raw
// formulas can exceed [0,1] for extreme beta; the caller clamps.
func riskScore(level contracts.RiskLevel, beta float64) float64 {
	switch level {
	case contracts.RiskHigh:
		return math.Min(beta/2, 1)
	case contracts.RiskMedium:
		return 1 - math.Abs(beta-1)
	default: // low
		return math.Max(0, 1-beta/2)
	}
}

// returnScore is 1.0 at or above target, floored at 0.5 below it so a
// candidate that already passed the return filter is never buried.
func returnScore(histReturn, desiredReturn float64) float64 {
	if math.IsNaN(histReturn) {
		return 0.5
	}
	if desiredReturn <= 0 || histReturn >= desiredReturn {
		return 1.0
	}
	return math.Max(0.5, histReturn/desiredReturn)
}

func (s *Scorer) sectorScore(m *contracts.InstrumentMetrics, p *contracts.InvestmentProfile) float64 {
	effective := s.taxonomy.EffectiveSector(m.Symbol, m.Sector)
	for _, sector := range p.Sectors {
		if s.taxonomy.Standardize(sector) == effective {
			return 1.0
		}
	}
	return 0.0
}

func dividendScore(priority contracts.DividendPriority, yield float64) float64 {
	switch priority {
	case contracts.DividendHigh:
		return math.Min(yield/2, 1)
	case contracts.DividendSome:
		return math.Min(yield, 1)
	default:
		return 1.0
	}
}

// ethicalScore averages the ESG sub-scores matching the requested
// tags, scaled from the provider's 0-100 range. No tags means no
// ethical constraint, scored as a full match.
func ethicalScore(tags []contracts.EthicalTag, esg contracts.ESGScores) float64 {
	if len(tags) == 0 {
		return 1.0
	}

	var sum float64
	for _, tag := range tags {
		switch tag {
		case contracts.EthicalESG:
			sum += esg.Total / 100
		case contracts.EthicalGreen:
			sum += esg.Environment / 100
		case contracts.EthicalSocial:
			sum += esg.Social / 100
		case contracts.EthicalGovernance:
			sum += esg.Governance / 100
		}
	}
	return sum / float64(len(tags))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
