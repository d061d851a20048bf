package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielhan/advisor/internal/contracts"
)

func scoredCandidate(symbol string, score float64) contracts.ScoredCandidate {
	return contracts.ScoredCandidate{
		Metrics: contracts.InstrumentMetrics{Symbol: symbol},
		Score:   score,
	}
}

func symbols(ranked []contracts.RankedInstrument) []string {
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Metrics.Symbol)
	}
	return out
}

func TestRankOrdersByScoreDescending(t *testing.T) {
	ranked := Rank([]contracts.ScoredCandidate{
		scoredCandidate("MSFT", 0.70),
		scoredCandidate("AAPL", 0.90),
		scoredCandidate("NVDA", 0.80),
	}, 5)

	assert.Equal(t, []string{"AAPL", "NVDA", "MSFT"}, symbols(ranked))
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 3, ranked[2].Rank)
}

func TestRankBreaksTiesBySymbol(t *testing.T) {
	ranked := Rank([]contracts.ScoredCandidate{
		scoredCandidate("MSFT", 0.81),
		scoredCandidate("AAPL", 0.81),
		scoredCandidate("GOOG", 0.81),
	}, 5)

	assert.Equal(t, []string{"AAPL", "GOOG", "MSFT"}, symbols(ranked))
}

func TestRankKeepsTopN(t *testing.T) {
	ranked := Rank([]contracts.ScoredCandidate{
		scoredCandidate("A", 0.5),
		scoredCandidate("B", 0.9),
		scoredCandidate("C", 0.7),
		scoredCandidate("D", 0.3),
	}, 2)

	assert.Equal(t, []string{"B", "C"}, symbols(ranked))
	assert.True(t, ranked[0].IsTopRanked(2))
}

func TestRankDefaultsN(t *testing.T) {
	candidates := make([]contracts.ScoredCandidate, 0, 8)
	for _, s := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		candidates = append(candidates, scoredCandidate(s, 0.5))
	}

	assert.Len(t, Rank(candidates, 0), DefaultTopN)
	assert.Len(t, Rank(candidates, -1), DefaultTopN)
}

func TestRankIsDeterministic(t *testing.T) {
	input := []contracts.ScoredCandidate{
		scoredCandidate("MSFT", 0.81),
		scoredCandidate("AAPL", 0.81),
		scoredCandidate("NVDA", 0.95),
	}

	first := Rank(input, 5)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, Rank(input, 5))
	}
	// Input order is untouched
	assert.Equal(t, "MSFT", input[0].Metrics.Symbol)
}

func TestRankEmptyInput(t *testing.T) {
	assert.Empty(t, Rank(nil, 5))
}
