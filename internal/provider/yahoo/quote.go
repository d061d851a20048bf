package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/danielhan/advisor/internal/contracts"
	"github.com/danielhan/advisor/internal/provider"
)

// rawValue is Yahoo's numeric envelope; Raw is nil when the field is
// present without a value.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

func (v rawValue) or(fallback float64) float64 {
	if v.Raw == nil {
		return fallback
	}
	return *v.Raw
}

// quoteSummary collects the quoteSummary modules we care about.
type quoteSummary struct {
	Price struct {
		LongName  string   `json:"longName"`
		ShortName string   `json:"shortName"`
		QuoteType string   `json:"quoteType"`
		MarketCap rawValue `json:"marketCap"`
	}
	SummaryDetail struct {
		Beta          rawValue `json:"beta"`
		DividendYield rawValue `json:"dividendYield"`
	}
	SummaryProfile struct {
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
	}
	ESGScores struct {
		TotalESG         rawValue `json:"totalEsg"`
		EnvironmentScore rawValue `json:"environmentScore"`
		SocialScore      rawValue `json:"socialScore"`
		GovernanceScore  rawValue `json:"governanceScore"`
	}
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				LongName  string   `json:"longName"`
				ShortName string   `json:"shortName"`
				QuoteType string   `json:"quoteType"`
				MarketCap rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail *struct {
				Beta          rawValue `json:"beta"`
				DividendYield rawValue `json:"dividendYield"`
			} `json:"summaryDetail"`
			SummaryProfile *struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"summaryProfile"`
			ESGScores *struct {
				TotalESG         rawValue `json:"totalEsg"`
				EnvironmentScore rawValue `json:"environmentScore"`
				SocialScore      rawValue `json:"socialScore"`
				GovernanceScore  rawValue `json:"governanceScore"`
			} `json:"esgScores"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// fetchQuoteSummary pulls fundamentals in one round trip. Any missing
// module is tolerated; apply falls back to defaults per field.
func (c *Client) fetchQuoteSummary(ctx context.Context, symbol string) (*quoteSummary, error) {
	fullURL := fmt.Sprintf(
		"%s/v10/finance/quoteSummary/%s?modules=price,summaryDetail,summaryProfile,esgScores",
		c.baseURL, symbol,
	)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: quoteSummary status %d", provider.ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(err)
	}

	var parsed quoteSummaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed quoteSummary response: %v", provider.ErrUnavailable, err)
	}
	if parsed.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("%w: quoteSummary: %s", provider.ErrUnavailable, parsed.QuoteSummary.Error.Description)
	}
	if len(parsed.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: quoteSummary result empty", provider.ErrUnavailable)
	}

	result := parsed.QuoteSummary.Result[0]
	summary := &quoteSummary{}
	if result.Price != nil {
		summary.Price = *result.Price
	}
	if result.SummaryDetail != nil {
		summary.SummaryDetail = *result.SummaryDetail
	}
	if result.SummaryProfile != nil {
		summary.SummaryProfile = *result.SummaryProfile
	}
	if result.ESGScores != nil {
		summary.ESGScores = *result.ESGScores
	}

	return summary, nil
}

// apply overlays the summary onto metrics that already carry history
// derived values and defaults.
func (s *quoteSummary) apply(m *contracts.InstrumentMetrics) {
	if s.Price.LongName != "" {
		m.Name = s.Price.LongName
	} else if s.Price.ShortName != "" {
		m.Name = s.Price.ShortName
	}
	if s.Price.QuoteType != "" {
		m.QuoteType = s.Price.QuoteType
	}
	m.MarketCap = s.Price.MarketCap.or(0)

	m.Beta = s.SummaryDetail.Beta.or(1.0)
	// Yahoo reports yield as a fraction; callers expect percent
	m.DividendYield = s.SummaryDetail.DividendYield.or(0) * 100

	m.Sector = s.SummaryProfile.Sector
	m.Industry = s.SummaryProfile.Industry

	m.ESG = contracts.ESGScores{
		Total:       s.ESGScores.TotalESG.or(0),
		Environment: s.ESGScores.EnvironmentScore.or(0),
		Social:      s.ESGScores.SocialScore.or(0),
		Governance:  s.ESGScores.GovernanceScore.or(0),
	}
}
