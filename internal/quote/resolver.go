package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// SymbolResolver maps a free-text company name or malformed symbol to a
// canonical exchange ticker
type SymbolResolver interface {
	Search(ctx context.Context, query string) (string, error)
}

// YahooResolver resolves symbols through the Yahoo Finance auto-complete
// search endpoint, preferring NSE listings over BSE over anything else.
type YahooResolver struct {
	baseURL string
	client  *http.Client
}

// NewYahooResolver creates a symbol resolver
func NewYahooResolver(timeout time.Duration) *YahooResolver {
	return &YahooResolver{
		baseURL: "https://query1.finance.yahoo.com",
		client:  &http.Client{Timeout: timeout},
	}
}

type yahooSearchResponse struct {
	Quotes []struct {
		Symbol string `json:"symbol"`
	} `json:"quotes"`
}

// Search returns the best matching ticker for a query, or an error wrapping
// ErrNoQuote when nothing matches
func (r *YahooResolver) Search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", "5")
	params.Set("newsCount", "0")
	params.Set("enableFuzzyQuery", "false")
	params.Set("quotesQueryId", "tss_match_phrase_query")

	searchURL := fmt.Sprintf("%s/v1/finance/search?%s", r.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", fmt.Errorf("resolver: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolver: search request for %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("resolver: status %d for %q: %w", resp.StatusCode, query, ErrNoQuote)
	}

	var data yahooSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("resolver: decode response for %q: %w", query, ErrNoQuote)
	}

	if len(data.Quotes) == 0 {
		return "", fmt.Errorf("resolver: no matches for %q: %w", query, ErrNoQuote)
	}

	for _, q := range data.Quotes {
		if strings.HasSuffix(q.Symbol, SuffixNSE) {
			log.Infof("Resolved %q to NSE symbol %s", query, q.Symbol)
			return q.Symbol, nil
		}
	}
	for _, q := range data.Quotes {
		if strings.HasSuffix(q.Symbol, SuffixBSE) {
			log.Infof("Resolved %q to BSE symbol %s", query, q.Symbol)
			return q.Symbol, nil
		}
	}

	log.Infof("Resolved %q to generic symbol %s", query, data.Quotes[0].Symbol)
	return data.Quotes[0].Symbol, nil
}
