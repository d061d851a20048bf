package contracts

// ScoreBreakdown contains the per-criterion sub-scores behind a match
// score. Each value is already clamped to [0,1].
type ScoreBreakdown struct {
	Risk     float64 `json:"risk"`
	Return   float64 `json:"return"`
	Sector   float64 `json:"sector"`
	Dividend float64 `json:"dividend"`
	Ethical  float64 `json:"ethical"`
	Budget   float64 `json:"budget"`
}

// ScoredCandidate is a filtered snapshot with its weighted match score.
// Request-scoped; produced by the scorer, consumed once by the ranker.
type ScoredCandidate struct {
	Metrics   InstrumentMetrics `json:"metrics"`
	Score     float64           `json:"score"` // [0,1]
	Breakdown ScoreBreakdown    `json:"breakdown"`
}

// RankedInstrument is a scored candidate with its final position.
type RankedInstrument struct {
	Metrics   InstrumentMetrics `json:"metrics"`
	Rank      int               `json:"rank"` // 1-based
	Score     float64           `json:"score"`
	Breakdown ScoreBreakdown    `json:"breakdown"`
}

// IsTopRanked checks if the instrument is in the top N ranks.
func (r *RankedInstrument) IsTopRanked(n int) bool {
	return r.Rank <= n && r.Rank > 0
}
