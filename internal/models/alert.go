package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Alert type constants
const (
	AlertTypeProfit = "profit"
	AlertTypeLoss   = "loss"
)

// Alert represents a triggered threshold crossing recorded for the dashboard
type Alert struct {
	ID               int             `json:"id"`
	AckToken         string          `json:"ack_token"`
	StockID          int             `json:"stock_id"`
	UserID           int             `json:"user_id"`
	Symbol           string          `json:"symbol,omitempty"`
	AlertType        string          `json:"alert_type"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	ThresholdPrice   decimal.Decimal `json:"threshold_price"`
	BuyPrice         decimal.Decimal `json:"atp_price"`
	PercentageChange decimal.Decimal `json:"percentage_change"`
	IsAcknowledged   bool            `json:"is_acknowledged"`
	AcknowledgedAt   *time.Time      `json:"acknowledged_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// AlertEvent represents a Kafka event for a triggered alert
type AlertEvent struct {
	EventType string    `json:"event_type"`
	Alert     *Alert    `json:"alert,omitempty"`
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorLog represents an append-only audit entry for lookup or dispatch failures
type ErrorLog struct {
	ID           int       `json:"id"`
	UserID       *int      `json:"user_id,omitempty"`
	StockSymbol  string    `json:"stock_symbol"`
	ErrorMessage string    `json:"error_message"`
	CreatedAt    time.Time `json:"created_at"`
}

// User holds the per-user notification channel configuration
type User struct {
	ID         int       `json:"id"`
	Email      string    `json:"email"`
	WebhookURL string    `json:"webhook_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
