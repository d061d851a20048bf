package yahoo

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhan/advisor/internal/provider"
	"github.com/danielhan/advisor/pkg/config"
	"github.com/danielhan/advisor/pkg/httputil"
	"github.com/danielhan/advisor/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := logger.NewNop()
	httpClient := httputil.New(&config.Config{}, log).DisableRetry()

	return NewClient(httpClient, server.URL, log).WithWebURL(server.URL)
}

func chartJSON(closes ...string) string {
	joined := ""
	for i, c := range closes {
		if i > 0 {
			joined += ","
		}
		joined += c
	}
	return fmt.Sprintf(`{"chart":{"result":[{"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`, joined)
}

func TestFetchMetricsHappyPath(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v8/finance/chart/AAPL", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		fmt.Fprint(w, chartJSON("100", "110", "118"))
	})
	mux.HandleFunc("/v10/finance/quoteSummary/AAPL", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quoteSummary":{"result":[{
			"price":{"longName":"Apple Inc.","quoteType":"EQUITY","marketCap":{"raw":3000000000000}},
			"summaryDetail":{"beta":{"raw":1.2},"dividendYield":{"raw":0.005}},
			"summaryProfile":{"sector":"Technology","industry":"Consumer Electronics"},
			"esgScores":{"environmentScore":{"raw":2.5},"socialScore":{"raw":6.8},"governanceScore":{"raw":9.2}}
		}],"error":null}}`)
	})

	client := newTestClient(t, mux)

	metrics, err := client.FetchMetrics(context.Background(), "aapl", 365*24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", metrics.Symbol)
	assert.Equal(t, "Apple Inc.", metrics.Name)
	assert.Equal(t, "Technology", metrics.Sector)
	assert.Equal(t, "Consumer Electronics", metrics.Industry)
	assert.Equal(t, 1.2, metrics.Beta)
	assert.InDelta(t, 0.5, metrics.DividendYield, 1e-9) // fraction to percent
	assert.Equal(t, 118.0, metrics.CurrentPrice)
	assert.InDelta(t, 18.0, metrics.HistReturn, 1e-9)
	assert.Greater(t, metrics.Volatility, 0.0)
	assert.Equal(t, 6.8, metrics.ESG.Social)
}

func TestFetchMetricsNoHistory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{"indicators":{"quote":[{"close":[]}]}}],"error":null}}`)
	})

	client := newTestClient(t, mux)

	_, err := client.FetchMetrics(context.Background(), "GHOST", 365*24*time.Hour)
	assert.ErrorIs(t, err, provider.ErrNoData)
}

func TestFetchMetricsUnknownSymbol(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client := newTestClient(t, mux)

	_, err := client.FetchMetrics(context.Background(), "NOPE", 365*24*time.Hour)
	assert.ErrorIs(t, err, provider.ErrNoData)
}

func TestFetchMetricsSummaryFailureFallsBackToDefaults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartJSON("50", "55"))
	})
	mux.HandleFunc("/v10/finance/quoteSummary/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/quote/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client := newTestClient(t, mux)

	metrics, err := client.FetchMetrics(context.Background(), "MYST", 365*24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "MYST", metrics.Name)
	assert.Equal(t, 1.0, metrics.Beta)
	assert.Equal(t, "EQUITY", metrics.QuoteType)
	assert.Zero(t, metrics.DividendYield)
	assert.Empty(t, metrics.Sector)
}

func TestFetchMetricsProfileScrapeFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartJSON("20", "22"))
	})
	mux.HandleFunc("/v10/finance/quoteSummary/", func(w http.ResponseWriter, r *http.Request) {
		// price module only, no summaryProfile
		fmt.Fprint(w, `{"quoteSummary":{"result":[{"price":{"longName":"Vanguard Thing","quoteType":"ETF"}}],"error":null}}`)
	})
	mux.HandleFunc("/quote/VTHU/profile", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<span>Sector(s)</span>: <span>Financial Services</span>
			<span>Industry</span>: <span>Asset Management</span>
		</body></html>`)
	})

	client := newTestClient(t, mux)

	metrics, err := client.FetchMetrics(context.Background(), "VTHU", 365*24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "Financial Services", metrics.Sector)
	assert.Equal(t, "Asset Management", metrics.Industry)
	assert.Equal(t, "ETF", metrics.QuoteType)
}

func TestPiotroskiScore(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v10/finance/quoteSummary/STRONG", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "financialData", r.URL.Query().Get("modules"))
		fmt.Fprint(w, `{"quoteSummary":{"result":[{"financialData":{
			"returnOnAssets":{"raw":0.15},
			"operatingCashflow":{"raw":1000000},
			"netIncomeToCommon":{"raw":800000},
			"currentRatio":{"raw":2.1},
			"quickRatio":{"raw":1.5},
			"debtToEquity":{"raw":40},
			"grossMargins":{"raw":0.45},
			"revenueGrowth":{"raw":0.12}
		}}],"error":null}}`)
	})
	mux.HandleFunc("/v10/finance/quoteSummary/FUND", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quoteSummary":{"result":[{}],"error":null}}`)
	})

	client := newTestClient(t, mux)

	score, err := client.PiotroskiScore(context.Background(), "STRONG")
	require.NoError(t, err)
	assert.Equal(t, 9, score)

	score, err = client.PiotroskiScore(context.Background(), "FUND")
	require.NoError(t, err)
	assert.Equal(t, defaultPiotroski, score)
}

func TestTrailingReturn(t *testing.T) {
	assert.InDelta(t, 50.0, trailingReturn([]float64{100, 120, 150}), 1e-9)
	assert.InDelta(t, -25.0, trailingReturn([]float64{200, 150}), 1e-9)
	assert.True(t, math.IsNaN(trailingReturn([]float64{100})))
	assert.True(t, math.IsNaN(trailingReturn(nil)))
}

func TestAnnualizedVolatility(t *testing.T) {
	// Constant series has zero variance
	assert.Zero(t, annualizedVolatility([]float64{10, 10, 10, 10}))
	assert.Zero(t, annualizedVolatility([]float64{10, 11}))
	assert.Greater(t, annualizedVolatility([]float64{100, 105, 98, 110, 99}), 0.0)
}

func TestRangeParam(t *testing.T) {
	assert.Equal(t, "1mo", rangeParam(30*24*time.Hour))
	assert.Equal(t, "6mo", rangeParam(180*24*time.Hour))
	assert.Equal(t, "1y", rangeParam(365*24*time.Hour))
	assert.Equal(t, "2y", rangeParam(600*24*time.Hour))
	assert.Equal(t, "1y", rangeParam(0))
}
