package job

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/Raghucharan16/Market-Alerts/internal/models"
)

// StockStore is the slice of the database the job driver needs
type StockStore interface {
	GetActiveStocks() ([]*models.StockWatch, error)
	UpdateStockSymbol(id int, symbol string) error
	InsertErrorLog(userID *int, symbol, message string) error
}

// PriceResolver is the multi-source fallback lookup
type PriceResolver interface {
	Resolve(ctx context.Context, rawSymbol string) (decimal.Decimal, string, error)
}

// Processor evaluates one stock against its thresholds
type Processor interface {
	Process(ctx context.Context, stock *models.StockWatch, price decimal.Decimal) (*models.Alert, error)
}

// Runner iterates the active watchlist once per invocation. Stocks are
// processed sequentially with a fixed delay in between to stay under
// upstream rate limits; one stock's failure never aborts the batch.
type Runner struct {
	store    StockStore
	resolver PriceResolver
	engine   Processor
	delay    time.Duration
}

// NewRunner creates a batch job runner
func NewRunner(store StockStore, resolver PriceResolver, engine Processor, delay time.Duration) *Runner {
	return &Runner{
		store:    store,
		resolver: resolver,
		engine:   engine,
		delay:    delay,
	}
}

// Run executes one complete batch pass over all active stocks
func (r *Runner) Run(ctx context.Context) error {
	stocks, err := r.store.GetActiveStocks()
	if err != nil {
		return fmt.Errorf("failed to fetch active stocks: %w", err)
	}

	log.Infof("Processing %d active stocks", len(stocks))

	for i, stock := range stocks {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.delay):
			}
		}
		r.processStock(ctx, stock)
	}

	log.Info("Batch pass completed")
	return nil
}

// processStock handles a single stock inside a failure boundary
func (r *Runner) processStock(ctx context.Context, stock *models.StockWatch) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Errorf("%s: panic while processing stock %d: %v", stock.Symbol, stock.ID, rec)
		}
	}()

	log.Infof("Processing %s (stock %d)", stock.Symbol, stock.ID)

	price, corrected, err := r.resolver.Resolve(ctx, stock.Symbol)
	if err != nil {
		log.Warnf("%s: no price from any source: %v", stock.Symbol, err)
		r.logError(stock, fmt.Sprintf("price lookup failed: %v", err))
		return
	}

	// Self-healing for mistyped or renamed tickers: a corrected symbol that
	// actually produced a price replaces the stored one.
	if corrected != "" && corrected != stock.Symbol {
		if err := r.store.UpdateStockSymbol(stock.ID, corrected); err != nil {
			log.Warnf("%s: failed to persist corrected symbol %s: %v", stock.Symbol, corrected, err)
		} else {
			log.Infof("%s: symbol corrected to %s", stock.Symbol, corrected)
			stock.Symbol = corrected
		}
	}

	if _, err := r.engine.Process(ctx, stock, price); err != nil {
		log.Errorf("%s: alert processing failed: %v", stock.Symbol, err)
	}
}

func (r *Runner) logError(stock *models.StockWatch, message string) {
	userID := stock.UserID
	if err := r.store.InsertErrorLog(&userID, stock.Symbol, message); err != nil {
		log.Errorf("%s: failed to write error log: %v", stock.Symbol, err)
	}
}
