package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/danielhan/advisor/internal/provider"
)

// defaultPiotroski is returned when the fundamentals needed for the
// checklist are missing; a neutral midpoint rather than a penalty.
const defaultPiotroski = 5

type financialDataResponse struct {
	QuoteSummary struct {
		Result []struct {
			FinancialData *struct {
				ReturnOnAssets    rawValue `json:"returnOnAssets"`
				OperatingCashflow rawValue `json:"operatingCashflow"`
				NetIncome         rawValue `json:"netIncomeToCommon"`
				CurrentRatio      rawValue `json:"currentRatio"`
				QuickRatio        rawValue `json:"quickRatio"`
				DebtToEquity      rawValue `json:"debtToEquity"`
				GrossMargins      rawValue `json:"grossMargins"`
				RevenueGrowth     rawValue `json:"revenueGrowth"`
				ProfitMargins     rawValue `json:"profitMargins"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// PiotroskiScore approximates the nine-point checklist from the
// fundamentals Yahoo exposes in a single snapshot. It is surfaced on
// the instrument detail endpoint for context and plays no part in
// filtering or scoring. Symbols without usable fundamentals (funds,
// ETFs) get the neutral default.
func (c *Client) PiotroskiScore(ctx context.Context, symbol string) (int, error) {
	fullURL := fmt.Sprintf(
		"%s/v10/finance/quoteSummary/%s?modules=financialData",
		c.baseURL, symbol,
	)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return defaultPiotroski, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return defaultPiotroski, fmt.Errorf("%w: financialData status %d", provider.ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return defaultPiotroski, classify(err)
	}

	var parsed financialDataResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return defaultPiotroski, fmt.Errorf("%w: malformed financialData response: %v", provider.ErrUnavailable, err)
	}
	if parsed.QuoteSummary.Error != nil || len(parsed.QuoteSummary.Result) == 0 {
		return defaultPiotroski, nil
	}

	fd := parsed.QuoteSummary.Result[0].FinancialData
	if fd == nil {
		return defaultPiotroski, nil
	}

	score := 0
	if fd.ReturnOnAssets.or(0) > 0 {
		score++
	}
	if fd.OperatingCashflow.or(0) > 0 {
		score++
	}
	if fd.NetIncome.or(0) > 0 {
		score++
	}
	// Accrual proxy: cash generation ahead of reported income
	if fd.OperatingCashflow.or(0) > fd.NetIncome.or(0) {
		score++
	}
	if fd.CurrentRatio.or(0) > 1 {
		score++
	}
	if fd.QuickRatio.or(0) > 1 {
		score++
	}
	// Yahoo reports debtToEquity in percent
	if fd.DebtToEquity.Raw != nil && *fd.DebtToEquity.Raw < 100 {
		score++
	}
	if fd.GrossMargins.or(0) > 0.30 {
		score++
	}
	if fd.RevenueGrowth.or(0) > 0 {
		score++
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"score":  score,
	}).Debug("Computed Piotroski score")

	return score, nil
}
