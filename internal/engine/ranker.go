package engine

import (
	"sort"

	"github.com/danielhan/advisor/internal/contracts"
)

// DefaultTopN is how many ranked instruments a request gets unless it
// asks for a different count.
const DefaultTopN = 5

// Rank orders scored candidates by score descending, ties broken by
// symbol ascending, and keeps the first n. A non-positive n falls back
// to the default. The input slice is not modified.
func Rank(candidates []contracts.ScoredCandidate, n int) []contracts.RankedInstrument {
	if n <= 0 {
		n = DefaultTopN
	}

	ordered := make([]contracts.ScoredCandidate, len(candidates))
	copy(ordered, candidates)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score > ordered[j].Score
		}
		return ordered[i].Metrics.Symbol < ordered[j].Metrics.Symbol
	})

	if len(ordered) > n {
		ordered = ordered[:n]
	}

	ranked := make([]contracts.RankedInstrument, 0, len(ordered))
	for i, c := range ordered {
		ranked = append(ranked, contracts.RankedInstrument{
			Metrics:   c.Metrics,
			Rank:      i + 1,
			Score:     c.Score,
			Breakdown: c.Breakdown,
		})
	}
	return ranked
}
