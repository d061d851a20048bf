package contracts

import (
	"encoding/json"
	"math"
	"strings"
)

// ESGScores holds 0-100 third-party ESG ratings. Absent scores are 0.
type ESGScores struct {
	Total       float64 `json:"total"`
	Environment float64 `json:"environment"`
	Social      float64 `json:"social"`
	Governance  float64 `json:"governance"`
}

// InstrumentMetrics is one fundamental/market snapshot per symbol.
// beta, dividend_yield, market_cap and volatility are always
// non-negative; historical_return is NaN when the provider supplied
// insufficient history.
type InstrumentMetrics struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Sector        string    `json:"sector"` // raw provider label, standardize before comparing
	Industry      string    `json:"industry"`
	QuoteType     string    `json:"quote_type"`
	Beta          float64   `json:"beta"` // provider default 1.0 when absent
	MarketCap     float64   `json:"market_cap"`
	CurrentPrice  float64   `json:"current_price"`
	DividendYield float64   `json:"dividend_yield"` // percent
	HistReturn    float64   `json:"historical_return"` // percent over trailing window, NaN if unknown
	Volatility    float64   `json:"volatility"` // annualized stddev of daily returns
	ESG           ESGScores `json:"esg"`
}

// largeCapThreshold is the market cap above which a stock is treated as
// a likely constituent of major ETFs and mutual funds.
const largeCapThreshold = 10e9

// InvestmentTypes derives the instrument-type tags implied by the
// snapshot. The base tag comes from the quote type; large caps
// additionally imply etf and mutual_funds membership, dividend payers
// imply mutual_funds.
func (m *InstrumentMetrics) InvestmentTypes() []InvestmentType {
	set := make(map[InvestmentType]struct{})

	switch strings.ToLower(m.QuoteType) {
	case "equity", "stock", "":
		set[TypeStocks] = struct{}{}
	case "etf":
		set[TypeETF] = struct{}{}
	case "mutualfund":
		set[TypeMutualFunds] = struct{}{}
	case "bond":
		set[TypeBonds] = struct{}{}
	}

	if m.MarketCap > largeCapThreshold {
		set[TypeETF] = struct{}{}
		set[TypeMutualFunds] = struct{}{}
	}

	if m.DividendYield > 0 {
		set[TypeMutualFunds] = struct{}{}
	}

	types := make([]InvestmentType, 0, len(set))
	for t := range set {
		types = append(types, t)
	}
	return types
}

// MatchesAnyType reports whether the derived type set intersects want.
func (m *InstrumentMetrics) MatchesAnyType(want []InvestmentType) bool {
	derived := m.InvestmentTypes()
	for _, w := range want {
		for _, d := range derived {
			if w == d {
				return true
			}
		}
	}
	return false
}

// HistReturnOrZero returns the historical return with the documented
// undefined-means-zero treatment used by the filter.
func (m *InstrumentMetrics) HistReturnOrZero() float64 {
	if math.IsNaN(m.HistReturn) {
		return 0
	}
	return m.HistReturn
}

// instrumentMetricsJSON mirrors InstrumentMetrics with a nullable
// historical return, since NaN is not representable in JSON.
type instrumentMetricsJSON struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Sector        string    `json:"sector"`
	Industry      string    `json:"industry"`
	QuoteType     string    `json:"quote_type"`
	Beta          float64   `json:"beta"`
	MarketCap     float64   `json:"market_cap"`
	CurrentPrice  float64   `json:"current_price"`
	DividendYield float64   `json:"dividend_yield"`
	HistReturn    *float64  `json:"historical_return"`
	Volatility    float64   `json:"volatility"`
	ESG           ESGScores `json:"esg"`
}

// MarshalJSON encodes an undefined historical return as null.
func (m InstrumentMetrics) MarshalJSON() ([]byte, error) {
	out := instrumentMetricsJSON{
		Symbol:        m.Symbol,
		Name:          m.Name,
		Sector:        m.Sector,
		Industry:      m.Industry,
		QuoteType:     m.QuoteType,
		Beta:          m.Beta,
		MarketCap:     m.MarketCap,
		CurrentPrice:  m.CurrentPrice,
		DividendYield: m.DividendYield,
		Volatility:    m.Volatility,
		ESG:           m.ESG,
	}
	if !math.IsNaN(m.HistReturn) {
		hr := m.HistReturn
		out.HistReturn = &hr
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a null historical return back to NaN.
func (m *InstrumentMetrics) UnmarshalJSON(data []byte) error {
	var in instrumentMetricsJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	m.Symbol = in.Symbol
	m.Name = in.Name
	m.Sector = in.Sector
	m.Industry = in.Industry
	m.QuoteType = in.QuoteType
	m.Beta = in.Beta
	m.MarketCap = in.MarketCap
	m.CurrentPrice = in.CurrentPrice
	m.DividendYield = in.DividendYield
	m.Volatility = in.Volatility
	m.ESG = in.ESG

	if in.HistReturn != nil {
		m.HistReturn = *in.HistReturn
	} else {
		m.HistReturn = math.NaN()
	}
	return nil
}
