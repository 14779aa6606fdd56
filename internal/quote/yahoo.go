package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// YahooSource fetches the most recent one-day bar from the Yahoo Finance
// chart API. Quote data carries a delay of roughly fifteen minutes.
type YahooSource struct {
	baseURL string
	client  *http.Client
}

// NewYahooSource creates the secondary quote source
func NewYahooSource(timeout time.Duration) *YahooSource {
	return &YahooSource{
		baseURL: "https://query1.finance.yahoo.com",
		client:  &http.Client{Timeout: timeout},
	}
}

// Name implements Source
func (s *YahooSource) Name() string {
	return "yahoo"
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

// Quote implements Source. The symbol is tried as given first, then with
// internal whitespace stripped and the NSE suffix appended; each candidate
// failure moves on to the next candidate.
func (s *YahooSource) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	candidates := []string{symbol}
	if bare := strings.ReplaceAll(symbol, " ", ""); !strings.HasSuffix(bare, SuffixNSE) {
		candidates = append(candidates, bare+SuffixNSE)
	}

	var lastErr error = ErrNoQuote
	for _, candidate := range candidates {
		price, err := s.fetch(ctx, candidate)
		if err != nil {
			lastErr = err
			continue
		}
		return price, nil
	}

	return decimal.Zero, fmt.Errorf("yahoo: no candidate succeeded for %q: %w", symbol, lastErr)
}

func (s *YahooSource) fetch(ctx context.Context, symbol string) (decimal.Decimal, error) {
	chartURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1d", s.baseURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, chartURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("yahoo: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("yahoo: chart request for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("yahoo: status %d for %s: %w", resp.StatusCode, symbol, ErrNoQuote)
	}

	var data yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return decimal.Zero, fmt.Errorf("yahoo: decode response for %s: %w", symbol, ErrNoQuote)
	}

	if len(data.Chart.Result) == 0 {
		return decimal.Zero, fmt.Errorf("yahoo: empty result for %s: %w", symbol, ErrNoQuote)
	}
	result := data.Chart.Result[0]

	// Prefer the last close of the daily bar; fall back to the meta price.
	for _, q := range result.Indicators.Quote {
		for i := len(q.Close) - 1; i >= 0; i-- {
			if q.Close[i] != nil {
				return decimal.NewFromFloat(*q.Close[i]), nil
			}
		}
	}
	if result.Meta.RegularMarketPrice != nil {
		return decimal.NewFromFloat(*result.Meta.RegularMarketPrice), nil
	}

	return decimal.Zero, fmt.Errorf("yahoo: no close price for %s: %w", symbol, ErrNoQuote)
}
