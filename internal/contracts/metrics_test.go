package contracts

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvestmentTypes(t *testing.T) {
	tests := []struct {
		name    string
		metrics InstrumentMetrics
		want    []InvestmentType
	}{
		{
			name:    "plain small-cap equity",
			metrics: InstrumentMetrics{QuoteType: "EQUITY", MarketCap: 1e9},
			want:    []InvestmentType{TypeStocks},
		},
		{
			name:    "empty quote type defaults to stocks",
			metrics: InstrumentMetrics{MarketCap: 1e9},
			want:    []InvestmentType{TypeStocks},
		},
		{
			name:    "large cap implies etf and fund membership",
			metrics: InstrumentMetrics{QuoteType: "equity", MarketCap: 50e9},
			want:    []InvestmentType{TypeStocks, TypeETF, TypeMutualFunds},
		},
		{
			name:    "dividend payer implies fund membership",
			metrics: InstrumentMetrics{QuoteType: "stock", MarketCap: 1e9, DividendYield: 2.1},
			want:    []InvestmentType{TypeStocks, TypeMutualFunds},
		},
		{
			name:    "etf quote type",
			metrics: InstrumentMetrics{QuoteType: "ETF"},
			want:    []InvestmentType{TypeETF},
		},
		{
			name:    "mutual fund quote type",
			metrics: InstrumentMetrics{QuoteType: "MUTUALFUND"},
			want:    []InvestmentType{TypeMutualFunds},
		},
		{
			name:    "bond quote type",
			metrics: InstrumentMetrics{QuoteType: "bond"},
			want:    []InvestmentType{TypeBonds},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, tt.metrics.InvestmentTypes())
		})
	}
}

func TestMatchesAnyType(t *testing.T) {
	m := InstrumentMetrics{QuoteType: "equity", MarketCap: 50e9}

	assert.True(t, m.MatchesAnyType([]InvestmentType{TypeETF}))
	assert.True(t, m.MatchesAnyType([]InvestmentType{TypeStocks}))
	assert.False(t, m.MatchesAnyType([]InvestmentType{TypeBonds}))
}

func TestHistReturnOrZero(t *testing.T) {
	m := InstrumentMetrics{HistReturn: 6.5}
	assert.Equal(t, 6.5, m.HistReturnOrZero())

	m.HistReturn = math.NaN()
	assert.Equal(t, 0.0, m.HistReturnOrZero())
}

func TestMetricsJSONUndefinedReturn(t *testing.T) {
	m := InstrumentMetrics{
		Symbol:     "AAPL",
		HistReturn: math.NaN(),
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"historical_return":null`)

	var back InstrumentMetrics
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, math.IsNaN(back.HistReturn))
	assert.Equal(t, "AAPL", back.Symbol)
}

func TestMetricsJSONRoundTrip(t *testing.T) {
	m := InstrumentMetrics{
		Symbol:        "MSFT",
		Name:          "Microsoft Corporation",
		Sector:        "Technology",
		QuoteType:     "EQUITY",
		Beta:          0.9,
		MarketCap:     3.1e12,
		CurrentPrice:  420.5,
		DividendYield: 0.7,
		HistReturn:    12.4,
		Volatility:    0.21,
		ESG:           ESGScores{Total: 72, Environment: 68, Social: 70, Governance: 80},
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var back InstrumentMetrics
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m, back)
}
