package quote

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Exchange suffix constants for NSE (primary) and BSE (secondary) listings
const (
	SuffixNSE = ".NS"
	SuffixBSE = ".BO"
)

// ErrNoQuote is returned when a source has no usable price for a symbol.
// Every per-source failure (network, parse, missing field) degrades to this;
// sources never escalate past their own boundary.
var ErrNoQuote = errors.New("no quote available")

// Source maps a ticker symbol to a price from one upstream data provider
type Source interface {
	Name() string
	Quote(ctx context.Context, symbol string) (decimal.Decimal, error)
}

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
