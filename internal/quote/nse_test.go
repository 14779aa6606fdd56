package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNSESource(serverURL string) *NSESource {
	s := NewNSESource(2 * time.Second)
	s.baseURL = serverURL
	return s
}

func TestNSESource(t *testing.T) {
	t.Run("bootstraps cookies before the data call", func(t *testing.T) {
		var bootstrapped bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/":
				bootstrapped = true
				http.SetCookie(w, &http.Cookie{Name: "nseappid", Value: "abc"})
			case "/api/quote-equity":
				require.True(t, bootstrapped, "data call arrived before cookie bootstrap")
				cookie, err := r.Cookie("nseappid")
				require.NoError(t, err, "data call carried no session cookie")
				assert.Equal(t, "abc", cookie.Value)
				w.Write([]byte(`{"priceInfo":{"lastPrice":3300.0}}`))
			}
		}))
		defer server.Close()

		price, err := newTestNSESource(server.URL).Quote(context.Background(), "TCS")
		require.NoError(t, err)
		assert.Equal(t, "3300", price.String())
	})

	t.Run("passes the symbol as a query parameter", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/quote-equity" {
				assert.Equal(t, "RELIANCE", r.URL.Query().Get("symbol"))
				w.Write([]byte(`{"priceInfo":{"lastPrice":2500.5}}`))
			}
		}))
		defer server.Close()

		price, err := newTestNSESource(server.URL).Quote(context.Background(), "RELIANCE")
		require.NoError(t, err)
		assert.Equal(t, "2500.5", price.String())
	})

	t.Run("fails closed on non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/quote-equity" {
				w.WriteHeader(http.StatusUnauthorized)
			}
		}))
		defer server.Close()

		_, err := newTestNSESource(server.URL).Quote(context.Background(), "TCS")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoQuote)
	})

	t.Run("fails closed on missing price field", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/quote-equity" {
				w.Write([]byte(`{"priceInfo":{}}`))
			}
		}))
		defer server.Close()

		_, err := newTestNSESource(server.URL).Quote(context.Background(), "TCS")
		assert.ErrorIs(t, err, ErrNoQuote)
	})

	t.Run("fails closed on malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/quote-equity" {
				w.Write([]byte(`<html>blocked</html>`))
			}
		}))
		defer server.Close()

		_, err := newTestNSESource(server.URL).Quote(context.Background(), "TCS")
		assert.ErrorIs(t, err, ErrNoQuote)
	})
}
