package quote

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Chain sequences the price sources and the symbol resolver into one
// fallback lookup. Sources are tried strictly in order and the chain
// short-circuits on the first success.
type Chain struct {
	primary   Source
	secondary Source
	scraped   Source
	resolver  SymbolResolver
}

// NewChain assembles the fallback chain from its sources
func NewChain(primary, secondary, scraped Source, resolver SymbolResolver) *Chain {
	return &Chain{
		primary:   primary,
		secondary: secondary,
		scraped:   scraped,
		resolver:  resolver,
	}
}

// Resolve looks up a price for a raw symbol string. It returns the price and,
// when the symbol resolver had to step in, the corrected canonical ticker.
// The corrected ticker is non-empty only when a source succeeded on it.
// When every source and the resolver fail, the returned error wraps ErrNoQuote.
func (c *Chain) Resolve(ctx context.Context, rawSymbol string) (decimal.Decimal, string, error) {
	// Symbols with whitespace are free-text company names; the NSE API only
	// understands bare tickers.
	if !strings.ContainsAny(rawSymbol, " \t") {
		price, err := c.primary.Quote(ctx, rawSymbol)
		if err == nil {
			return price, "", nil
		}
		log.Debugf("%s miss for %q: %v", c.primary.Name(), rawSymbol, err)
	}

	price, err := c.secondary.Quote(ctx, rawSymbol)
	if err == nil {
		return price, "", nil
	}
	log.Debugf("%s miss for %q: %v", c.secondary.Name(), rawSymbol, err)

	stripped := strings.Join(strings.Fields(rawSymbol), "")
	price, err = c.scraped.Quote(ctx, stripped)
	if err == nil {
		return price, "", nil
	}
	log.Debugf("%s miss for %q: %v", c.scraped.Name(), stripped, err)

	corrected, err := c.resolver.Search(ctx, rawSymbol)
	if err != nil {
		log.Debugf("resolver miss for %q: %v", rawSymbol, err)
		return decimal.Zero, "", fmt.Errorf("all sources exhausted for %q: %w", rawSymbol, ErrNoQuote)
	}

	price, err = c.secondary.Quote(ctx, corrected)
	if err == nil {
		return price, corrected, nil
	}
	log.Debugf("%s miss for corrected %q: %v", c.secondary.Name(), corrected, err)

	if strings.HasSuffix(corrected, SuffixNSE) {
		bare := strings.TrimSuffix(corrected, SuffixNSE)
		price, err = c.primary.Quote(ctx, bare)
		if err == nil {
			return price, corrected, nil
		}
		log.Debugf("%s miss for bare %q: %v", c.primary.Name(), bare, err)
	}

	return decimal.Zero, "", fmt.Errorf("all sources exhausted for %q: %w", rawSymbol, ErrNoQuote)
}
