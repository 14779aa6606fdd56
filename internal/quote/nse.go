package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// NSESource fetches live quotes from the NSE India equity API. The API
// rejects requests without session cookies, so every lookup performs a
// cookie-bootstrap request against the homepage first.
type NSESource struct {
	baseURL string
	timeout time.Duration
}

// NewNSESource creates the primary quote source
func NewNSESource(timeout time.Duration) *NSESource {
	return &NSESource{
		baseURL: "https://www.nseindia.com",
		timeout: timeout,
	}
}

// Name implements Source
func (s *NSESource) Name() string {
	return "nse"
}

type nseQuoteResponse struct {
	PriceInfo struct {
		LastPrice *float64 `json:"lastPrice"`
	} `json:"priceInfo"`
}

// Quote implements Source. The symbol is the bare NSE ticker, no suffix.
func (s *NSESource) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	// Fresh jar per lookup: the session cookies are short-lived and a stale
	// jar gets the data call blocked.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("nse: %w", err)
	}
	client := &http.Client{Timeout: s.timeout, Jar: jar}

	if err := s.bootstrap(ctx, client); err != nil {
		return decimal.Zero, err
	}

	quoteURL := fmt.Sprintf("%s/api/quote-equity?symbol=%s", s.baseURL, url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, quoteURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("nse: %w", err)
	}
	s.setHeaders(req)

	resp, err := client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("nse: quote request for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("nse: status %d for %s: %w", resp.StatusCode, symbol, ErrNoQuote)
	}

	var data nseQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return decimal.Zero, fmt.Errorf("nse: decode response for %s: %w", symbol, ErrNoQuote)
	}

	if data.PriceInfo.LastPrice == nil {
		return decimal.Zero, fmt.Errorf("nse: missing lastPrice for %s: %w", symbol, ErrNoQuote)
	}

	return decimal.NewFromFloat(*data.PriceInfo.LastPrice), nil
}

// bootstrap hits the homepage so the jar picks up the anti-bot session cookies
func (s *NSESource) bootstrap(ctx context.Context, client *http.Client) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("nse: %w", err)
	}
	s.setHeaders(req)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("nse: cookie bootstrap: %w", err)
	}
	resp.Body.Close()
	return nil
}

func (s *NSESource) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", s.baseURL+"/")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
}
