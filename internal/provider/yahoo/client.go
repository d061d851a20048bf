// Package yahoo implements the market data provider against the Yahoo
// Finance public endpoints: the chart API for trailing price history
// and the quoteSummary API for fundamentals and ESG ratings, with a
// profile-page scrape as sector fallback.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhan/advisor/internal/contracts"
	"github.com/danielhan/advisor/internal/provider"
	"github.com/danielhan/advisor/pkg/httputil"
	"github.com/danielhan/advisor/pkg/logger"
)

// Client talks to Yahoo Finance. All Yahoo calls live in this package.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string // query API, e.g. https://query1.finance.yahoo.com
	webURL     string // quote pages, e.g. https://finance.yahoo.com
}

// NewClient creates a new Yahoo Finance client.
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
		webURL:     "https://finance.yahoo.com",
	}
}

// WithWebURL overrides the quote-page host used by the profile scrape.
func (c *Client) WithWebURL(webURL string) *Client {
	c.webURL = strings.TrimRight(webURL, "/")
	return c
}

// FetchMetrics builds one snapshot for a symbol: price history first
// (no history means no instrument worth scoring), then fundamentals.
// The returned metrics always carry the documented defaults for absent
// fields: beta 1.0, dividend yield 0, ESG sub-scores 0.
func (c *Client) FetchMetrics(ctx context.Context, symbol string, window time.Duration) (contracts.InstrumentMetrics, error) {
	var zero contracts.InstrumentMetrics

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return zero, fmt.Errorf("%w: empty symbol", provider.ErrNoData)
	}

	closes, err := c.fetchCloses(ctx, symbol, window)
	if err != nil {
		return zero, err
	}
	if len(closes) == 0 {
		return zero, fmt.Errorf("%w: %s has no price history", provider.ErrNoData, symbol)
	}

	metrics := contracts.InstrumentMetrics{
		Symbol:       symbol,
		Name:         symbol,
		QuoteType:    "EQUITY",
		Beta:         1.0,
		CurrentPrice: closes[len(closes)-1],
		HistReturn:   trailingReturn(closes),
		Volatility:   annualizedVolatility(closes),
	}

	summary, err := c.fetchQuoteSummary(ctx, symbol)
	if err != nil {
		// History alone is enough to score; fundamentals degrade to
		// defaults when the summary endpoint fails
		c.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"error":  err.Error(),
		}).Warn("Quote summary unavailable, using defaults")
	} else {
		summary.apply(&metrics)
	}

	if metrics.Sector == "" {
		if sector, industry, err := c.scrapeProfile(ctx, symbol); err == nil {
			metrics.Sector = sector
			if metrics.Industry == "" {
				metrics.Industry = industry
			}
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":     symbol,
		"sector":     metrics.Sector,
		"beta":       metrics.Beta,
		"hist_ret":   metrics.HistReturn,
		"volatility": metrics.Volatility,
	}).Debug("Fetched instrument metrics")

	return metrics, nil
}

// classify wraps transport-level failures as ErrUnavailable unless the
// error already belongs to the provider taxonomy.
func classify(err error) error {
	if errors.Is(err, provider.ErrNoData) || errors.Is(err, provider.ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", provider.ErrUnavailable, err)
}
