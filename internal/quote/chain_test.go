package quote

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource answers with a fixed price for known symbols and records
// every symbol it was asked about.
type fakeSource struct {
	name   string
	prices map[string]decimal.Decimal
	err    error
	asked  []string
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Quote(_ context.Context, symbol string) (decimal.Decimal, error) {
	f.asked = append(f.asked, symbol)
	if f.err != nil {
		return decimal.Zero, f.err
	}
	if p, ok := f.prices[symbol]; ok {
		return p, nil
	}
	return decimal.Zero, ErrNoQuote
}

type fakeResolver struct {
	results map[string]string
	asked   []string
}

func (f *fakeResolver) Search(_ context.Context, query string) (string, error) {
	f.asked = append(f.asked, query)
	if s, ok := f.results[query]; ok {
		return s, nil
	}
	return "", ErrNoQuote
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestChainResolve(t *testing.T) {
	t.Run("short-circuits on a primary hit", func(t *testing.T) {
		primary := &fakeSource{name: "nse", prices: map[string]decimal.Decimal{"TCS": price("3300")}}
		secondary := &fakeSource{name: "yahoo"}
		scraped := &fakeSource{name: "google"}
		resolver := &fakeResolver{}
		chain := NewChain(primary, secondary, scraped, resolver)

		got, corrected, err := chain.Resolve(context.Background(), "TCS")
		require.NoError(t, err)
		assert.Equal(t, "3300", got.String())
		assert.Empty(t, corrected)
		assert.Empty(t, secondary.asked)
		assert.Empty(t, scraped.asked)
		assert.Empty(t, resolver.asked)
	})

	t.Run("skips the primary source for symbols with whitespace", func(t *testing.T) {
		primary := &fakeSource{name: "nse"}
		secondary := &fakeSource{name: "yahoo", prices: map[string]decimal.Decimal{"TATA STEEL": price("150")}}
		chain := NewChain(primary, secondary, &fakeSource{name: "google"}, &fakeResolver{})

		got, corrected, err := chain.Resolve(context.Background(), "TATA STEEL")
		require.NoError(t, err)
		assert.Equal(t, "150", got.String())
		assert.Empty(t, corrected)
		assert.Empty(t, primary.asked)
	})

	t.Run("hands the scraped source a whitespace-stripped symbol", func(t *testing.T) {
		scraped := &fakeSource{name: "google", prices: map[string]decimal.Decimal{"TATASTEEL": price("151.5")}}
		chain := NewChain(&fakeSource{name: "nse"}, &fakeSource{name: "yahoo"}, scraped, &fakeResolver{})

		got, corrected, err := chain.Resolve(context.Background(), "TATA STEEL")
		require.NoError(t, err)
		assert.Equal(t, "151.5", got.String())
		assert.Empty(t, corrected)
		assert.Equal(t, []string{"TATASTEEL"}, scraped.asked)
	})

	t.Run("resolves a company name to a corrected ticker", func(t *testing.T) {
		primary := &fakeSource{name: "nse"}
		secondary := &fakeSource{name: "yahoo", prices: map[string]decimal.Decimal{"RELIANCE.NS": price("2500")}}
		resolver := &fakeResolver{results: map[string]string{"Reliance Industries": "RELIANCE.NS"}}
		chain := NewChain(primary, secondary, &fakeSource{name: "google"}, resolver)

		got, corrected, err := chain.Resolve(context.Background(), "Reliance Industries")
		require.NoError(t, err)
		assert.Equal(t, "2500", got.String())
		assert.Equal(t, "RELIANCE.NS", corrected)
	})

	t.Run("retries the primary source with the bare corrected ticker", func(t *testing.T) {
		primary := &fakeSource{name: "nse", prices: map[string]decimal.Decimal{"RELIANCE": price("2501")}}
		secondary := &fakeSource{name: "yahoo"}
		resolver := &fakeResolver{results: map[string]string{"Reliance Industries": "RELIANCE.NS"}}
		chain := NewChain(primary, secondary, &fakeSource{name: "google"}, resolver)

		got, corrected, err := chain.Resolve(context.Background(), "Reliance Industries")
		require.NoError(t, err)
		assert.Equal(t, "2501", got.String())
		assert.Equal(t, "RELIANCE.NS", corrected)
		assert.Equal(t, []string{"RELIANCE"}, primary.asked)
	})

	t.Run("does not retry the primary source for a BSE ticker", func(t *testing.T) {
		primary := &fakeSource{name: "nse"}
		resolver := &fakeResolver{results: map[string]string{"Some Company": "SOMECO.BO"}}
		chain := NewChain(primary, &fakeSource{name: "yahoo"}, &fakeSource{name: "google"}, resolver)

		_, _, err := chain.Resolve(context.Background(), "Some Company")
		assert.ErrorIs(t, err, ErrNoQuote)
		assert.Empty(t, primary.asked)
	})

	t.Run("reports ErrNoQuote when everything fails", func(t *testing.T) {
		primary := &fakeSource{name: "nse"}
		secondary := &fakeSource{name: "yahoo"}
		scraped := &fakeSource{name: "google"}
		resolver := &fakeResolver{}
		chain := NewChain(primary, secondary, scraped, resolver)

		got, corrected, err := chain.Resolve(context.Background(), "NOSUCHCO")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoQuote)
		assert.True(t, got.IsZero())
		assert.Empty(t, corrected)
		assert.Equal(t, []string{"NOSUCHCO"}, primary.asked)
		assert.Equal(t, []string{"NOSUCHCO"}, secondary.asked)
		assert.Equal(t, []string{"NOSUCHCO"}, scraped.asked)
		assert.Equal(t, []string{"NOSUCHCO"}, resolver.asked)
	})

	t.Run("transport errors fall through like misses", func(t *testing.T) {
		primary := &fakeSource{name: "nse", err: errors.New("connection refused")}
		secondary := &fakeSource{name: "yahoo", prices: map[string]decimal.Decimal{"INFY": price("1500")}}
		chain := NewChain(primary, secondary, &fakeSource{name: "google"}, &fakeResolver{})

		got, _, err := chain.Resolve(context.Background(), "INFY")
		require.NoError(t, err)
		assert.Equal(t, "1500", got.String())
	})
}
