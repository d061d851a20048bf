package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/danielhan/advisor/internal/provider"
)

// chartResponse is the subset of the chart API payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// fetchCloses returns the trailing close series for a symbol, with
// null bars (halts, partial sessions) dropped.
func (c *Client) fetchCloses(ctx context.Context, symbol string, window time.Duration) ([]float64, error) {
	fullURL := fmt.Sprintf(
		"%s/v8/finance/chart/%s?range=%s&interval=1d",
		c.baseURL, symbol, rangeParam(window),
	)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s unknown to chart API", provider.ErrNoData, symbol)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: chart API status %d", provider.ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(err)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed chart response: %v", provider.ErrUnavailable, err)
	}

	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("%w: chart API: %s", provider.ErrNoData, parsed.Chart.Error.Description)
	}

	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s chart result empty", provider.ErrNoData, symbol)
	}

	raw := parsed.Chart.Result[0].Indicators.Quote[0].Close
	closes := make([]float64, 0, len(raw))
	for _, v := range raw {
		if v != nil {
			closes = append(closes, *v)
		}
	}

	return closes, nil
}

// rangeParam maps a duration onto the nearest chart API range string.
func rangeParam(window time.Duration) string {
	days := int(window.Hours() / 24)
	switch {
	case days <= 0 || days > 2*365:
		return "1y"
	case days <= 31:
		return "1mo"
	case days <= 93:
		return "3mo"
	case days <= 186:
		return "6mo"
	case days <= 366:
		return "1y"
	default:
		return "2y"
	}
}

// trailingReturn is the percent change across the series, NaN when the
// series is too short to define one.
func trailingReturn(closes []float64) float64 {
	if len(closes) < 2 || closes[0] == 0 {
		return math.NaN()
	}
	return (closes[len(closes)-1]/closes[0] - 1) * 100
}

// annualizedVolatility is the standard deviation of daily returns
// scaled by sqrt(252 trading days).
func annualizedVolatility(closes []float64) float64 {
	if len(closes) < 3 {
		return 0
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	if len(returns) < 2 {
		return 0
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	return math.Sqrt(variance) * math.Sqrt(252)
}
