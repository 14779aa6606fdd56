package alert

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/Raghucharan16/Market-Alerts/internal/models"
)

// Store is the slice of the database the engine writes through
type Store interface {
	CreateAlert(a *models.Alert) error
	TouchLastAlertSent(id int) error
	InsertErrorLog(userID *int, symbol, message string) error
}

// WebhookNotifier posts a formatted alert to a per-user channel URL
type WebhookNotifier interface {
	Send(ctx context.Context, webhookURL string, alert *models.Alert) error
}

// EmailNotifier delivers an alert over the legacy SMTP path
type EmailNotifier interface {
	Send(to string, alert *models.Alert) error
}

// EventPublisher streams triggered alerts to downstream consumers
type EventPublisher interface {
	PublishAlertTriggered(ctx context.Context, alert *models.Alert) error
}

// Engine evaluates one stock against its thresholds and, when a threshold is
// crossed and the cooldown gate permits, records and dispatches the alert.
// Each call is independent; no state is carried across runs.
type Engine struct {
	store          Store
	gate           Gate
	webhook        WebhookNotifier
	mailer         EmailNotifier
	publisher      EventPublisher
	defaultWebhook string
}

// NewEngine creates an alert engine. mailer and publisher may be nil;
// defaultWebhook is used for users without their own channel URL.
func NewEngine(store Store, gate Gate, webhook WebhookNotifier, mailer EmailNotifier, publisher EventPublisher, defaultWebhook string) *Engine {
	return &Engine{
		store:          store,
		gate:           gate,
		webhook:        webhook,
		mailer:         mailer,
		publisher:      publisher,
		defaultWebhook: defaultWebhook,
	}
}

// Classify maps a current price to an alert type. Both boundaries are
// inclusive and the profit check wins when degenerate thresholds overlap.
// Returns "" when no threshold is crossed.
func Classify(stock *models.StockWatch, price decimal.Decimal) string {
	if price.GreaterThanOrEqual(stock.ProfitTarget()) {
		return models.AlertTypeProfit
	}
	if price.LessThanOrEqual(stock.LossTarget()) {
		return models.AlertTypeLoss
	}
	return ""
}

// Process runs the full per-stock alert pass for an already-resolved price.
// The returned alert is nil when nothing triggered or the gate suppressed it.
func (e *Engine) Process(ctx context.Context, stock *models.StockWatch, price decimal.Decimal) (*models.Alert, error) {
	alertType := Classify(stock, price)
	if alertType == "" {
		log.Debugf("%s: current=%s ATP=%s, no threshold crossed",
			stock.Symbol, price.StringFixed(2), stock.BuyPrice.StringFixed(2))
		return nil, nil
	}

	permitted, err := e.gate.Allow(ctx, stock.ID, alertType)
	if err != nil {
		return nil, fmt.Errorf("cooldown check for %s: %w", stock.Symbol, err)
	}
	if !permitted {
		log.Infof("%s: %s alert suppressed by cooldown", stock.Symbol, alertType)
		return nil, nil
	}

	threshold := stock.ProfitTarget()
	if alertType == models.AlertTypeLoss {
		threshold = stock.LossTarget()
	}
	pctChange := price.Sub(stock.BuyPrice).Div(stock.BuyPrice).Mul(decimal.NewFromInt(100))

	a := &models.Alert{
		StockID:          stock.ID,
		UserID:           stock.UserID,
		Symbol:           stock.Symbol,
		AlertType:        alertType,
		CurrentPrice:     price,
		ThresholdPrice:   threshold,
		BuyPrice:         stock.BuyPrice,
		PercentageChange: pctChange,
	}

	if err := e.store.CreateAlert(a); err != nil {
		return nil, fmt.Errorf("record alert for %s: %w", stock.Symbol, err)
	}
	log.Infof("%s: %s alert recorded (current=%s threshold=%s change=%s%%)",
		stock.Symbol, alertType, price.StringFixed(2), threshold.StringFixed(2), pctChange.StringFixed(2))

	if e.publisher != nil {
		if err := e.publisher.PublishAlertTriggered(ctx, a); err != nil {
			log.Warnf("%s: failed to publish alert event: %v", stock.Symbol, err)
		}
	}

	e.dispatch(ctx, stock, a)

	if err := e.store.TouchLastAlertSent(stock.ID); err != nil {
		log.Warnf("%s: failed to update last_alert_sent: %v", stock.Symbol, err)
	}

	return a, nil
}

// dispatch sends the alert over the user's channel. Failures are logged to
// the audit trail but never roll back the alert record and are never retried.
func (e *Engine) dispatch(ctx context.Context, stock *models.StockWatch, a *models.Alert) {
	webhookURL := stock.WebhookURL
	if webhookURL == "" {
		webhookURL = e.defaultWebhook
	}

	switch {
	case webhookURL != "":
		if err := e.webhook.Send(ctx, webhookURL, a); err != nil {
			log.Errorf("%s: webhook dispatch failed: %v", stock.Symbol, err)
			e.logError(stock, fmt.Sprintf("webhook dispatch failed: %v", err))
			return
		}
		log.Infof("%s: webhook notification sent", stock.Symbol)

	case e.mailer != nil && stock.Email != "":
		if err := e.mailer.Send(stock.Email, a); err != nil {
			log.Errorf("%s: email dispatch failed: %v", stock.Symbol, err)
			e.logError(stock, fmt.Sprintf("email dispatch failed: %v", err))
			return
		}
		log.Infof("%s: email notification sent", stock.Symbol)

	default:
		log.Warnf("%s: no notification channel configured for user %d, alert recorded without dispatch",
			stock.Symbol, stock.UserID)
	}
}

func (e *Engine) logError(stock *models.StockWatch, message string) {
	userID := stock.UserID
	if err := e.store.InsertErrorLog(&userID, stock.Symbol, message); err != nil {
		log.Errorf("%s: failed to write error log: %v", stock.Symbol, err)
	}
}
