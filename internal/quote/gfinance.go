package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// googlePriceClass is the CSS class pair Google Finance currently renders
// the quote price with. This is a known-fragile integration point: when the
// page structure changes the selector stops matching and the source fails
// fast with ErrNoQuote.
const googlePriceClass = "div.YMlKec.fxKbKc"

// GoogleSource scrapes the rendered Google Finance quote page
type GoogleSource struct {
	baseURL string
	client  *http.Client
}

// NewGoogleSource creates the scraped quote source
func NewGoogleSource(timeout time.Duration) *GoogleSource {
	return &GoogleSource{
		baseURL: "https://www.google.com",
		client:  &http.Client{Timeout: timeout},
	}
}

// Name implements Source
func (s *GoogleSource) Name() string {
	return "google-finance"
}

// Quote implements Source. The symbol is the bare NSE ticker, no suffix.
func (s *GoogleSource) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	pageURL := fmt.Sprintf("%s/finance/quote/%s:NSE", s.baseURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("google: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("google: page request for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("google: status %d for %s: %w", resp.StatusCode, symbol, ErrNoQuote)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("google: parse page for %s: %w", symbol, ErrNoQuote)
	}

	text := strings.TrimSpace(doc.Find(googlePriceClass).First().Text())
	if text == "" {
		return decimal.Zero, fmt.Errorf("google: price element not found for %s: %w", symbol, ErrNoQuote)
	}

	price, err := ParsePrice(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("google: unparsable price %q for %s: %w", text, symbol, ErrNoQuote)
	}

	return price, nil
}

// ParsePrice strips the currency symbol and thousands separators from a
// scraped price string and parses it as a decimal number.
func ParsePrice(text string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(text, "₹", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	return decimal.NewFromString(cleaned)
}
