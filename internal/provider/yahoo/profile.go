package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/danielhan/advisor/internal/provider"
)

// scrapeProfile pulls sector and industry off the public profile page.
// Used only when the quoteSummary API omits the summaryProfile module,
// which happens for some ETFs and recently listed symbols.
func (c *Client) scrapeProfile(ctx context.Context, symbol string) (sector, industry string, err error) {
	fullURL := fmt.Sprintf("%s/quote/%s/profile", c.webURL, symbol)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return "", "", classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("%w: profile page status %d", provider.ErrUnavailable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("%w: profile page parse: %v", provider.ErrUnavailable, err)
	}

	// The profile block labels each value with a preceding span, e.g.
	// <span>Sector(s)</span>: <span>Technology</span>
	doc.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label := strings.TrimSpace(s.Text())
		switch {
		case strings.HasPrefix(label, "Sector"):
			sector = strings.TrimSpace(s.NextFiltered("span").Text())
		case strings.HasPrefix(label, "Industry"):
			industry = strings.TrimSpace(s.NextFiltered("span").Text())
		}
		return sector == "" || industry == ""
	})

	if sector == "" {
		return "", "", fmt.Errorf("%w: no sector on profile page for %s", provider.ErrNoData, symbol)
	}

	c.logger.WithField("symbol", symbol).Debug("Resolved sector from profile page")
	return sector, industry, nil
}
