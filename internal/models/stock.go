package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockWatch represents a user's watched holding with alert thresholds.
// BuyPrice is the average traded price (ATP) the thresholds are computed from.
type StockWatch struct {
	ID              int              `json:"id"`
	UserID          int              `json:"user_id"`
	Symbol          string           `json:"symbol"`
	BuyPrice        decimal.Decimal  `json:"atp_price"`
	ProfitThreshold decimal.Decimal  `json:"profit_threshold"`
	LossThreshold   decimal.Decimal  `json:"loss_threshold"`
	IsActive        bool             `json:"is_active"`
	LastAlertSent   *time.Time       `json:"last_alert_sent,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`

	// Joined per-user channel configuration, populated by GetActiveStocks.
	WebhookURL string `json:"webhook_url,omitempty"`
	Email      string `json:"email,omitempty"`
}

// ProfitTarget returns buy_price * (1 + profit_threshold/100)
func (s *StockWatch) ProfitTarget() decimal.Decimal {
	pct := s.ProfitThreshold.Div(decimal.NewFromInt(100))
	return s.BuyPrice.Mul(decimal.NewFromInt(1).Add(pct))
}

// LossTarget returns buy_price * (1 - loss_threshold/100)
func (s *StockWatch) LossTarget() decimal.Decimal {
	pct := s.LossThreshold.Div(decimal.NewFromInt(100))
	return s.BuyPrice.Mul(decimal.NewFromInt(1).Sub(pct))
}
