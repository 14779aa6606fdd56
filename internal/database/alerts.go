package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Raghucharan16/Market-Alerts/internal/models"
)

// CreateAlert inserts a triggered alert record and assigns its ack token
func (db *DB) CreateAlert(a *models.Alert) error {
	if a.AckToken == "" {
		a.AckToken = uuid.NewString()
	}

	query := `
		INSERT INTO alerts (
			ack_token, stock_id, user_id, alert_type, current_price,
			threshold_price, atp_price, percentage_change, is_acknowledged, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, $9)
		RETURNING id
	`
	now := time.Now()
	err := db.conn.QueryRow(query,
		a.AckToken, a.StockID, a.UserID, a.AlertType, a.CurrentPrice,
		a.ThresholdPrice, a.BuyPrice, a.PercentageChange, now,
	).Scan(&a.ID)

	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	a.CreatedAt = now
	return nil
}

// ShouldSendAlert reports whether a new alert of the given type is permitted
// for a stock. An alert is blocked while an unacknowledged alert of the same
// (stock, type) pair exists that is newer than the cooldown window; an old
// unacknowledged alert does not block forever.
func (db *DB) ShouldSendAlert(stockID int, alertType string, cooldown time.Duration) (bool, error) {
	query := `
		SELECT NOT EXISTS (
			SELECT 1 FROM alerts
			WHERE stock_id = $1
			  AND alert_type = $2
			  AND is_acknowledged = false
			  AND created_at > $3
		)
	`
	var permitted bool
	cutoff := time.Now().Add(-cooldown)
	if err := db.conn.QueryRow(query, stockID, alertType, cutoff).Scan(&permitted); err != nil {
		return false, fmt.Errorf("failed to check alert cooldown: %w", err)
	}
	return permitted, nil
}

// GetAlertByToken retrieves an alert by its acknowledgement token
func (db *DB) GetAlertByToken(token string) (*models.Alert, error) {
	query := `
		SELECT a.id, a.ack_token, a.stock_id, a.user_id, s.symbol, a.alert_type,
		       a.current_price, a.threshold_price, a.atp_price, a.percentage_change,
		       a.is_acknowledged, a.acknowledged_at, a.created_at
		FROM alerts a
		JOIN stocks s ON s.id = a.stock_id
		WHERE a.ack_token = $1
	`
	var a models.Alert
	var acknowledgedAt sql.NullTime

	err := db.conn.QueryRow(query, token).Scan(
		&a.ID, &a.AckToken, &a.StockID, &a.UserID, &a.Symbol, &a.AlertType,
		&a.CurrentPrice, &a.ThresholdPrice, &a.BuyPrice, &a.PercentageChange,
		&a.IsAcknowledged, &acknowledgedAt, &a.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("alert not found: %s", token)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}

	if acknowledgedAt.Valid {
		a.AcknowledgedAt = &acknowledgedAt.Time
	}

	return &a, nil
}

// GetRecentAlerts retrieves the most recent alerts across all stocks
func (db *DB) GetRecentAlerts(limit int) ([]*models.Alert, error) {
	query := `
		SELECT a.id, a.ack_token, a.stock_id, a.user_id, s.symbol, a.alert_type,
		       a.current_price, a.threshold_price, a.atp_price, a.percentage_change,
		       a.is_acknowledged, a.acknowledged_at, a.created_at
		FROM alerts a
		JOIN stocks s ON s.id = a.stock_id
		ORDER BY a.created_at DESC
		LIMIT $1
	`
	rows, err := db.conn.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*models.Alert
	for rows.Next() {
		var a models.Alert
		var acknowledgedAt sql.NullTime

		err := rows.Scan(
			&a.ID, &a.AckToken, &a.StockID, &a.UserID, &a.Symbol, &a.AlertType,
			&a.CurrentPrice, &a.ThresholdPrice, &a.BuyPrice, &a.PercentageChange,
			&a.IsAcknowledged, &acknowledgedAt, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}

		if acknowledgedAt.Valid {
			a.AcknowledgedAt = &acknowledgedAt.Time
		}

		alerts = append(alerts, &a)
	}

	return alerts, nil
}

// AcknowledgeAlert marks an alert as acknowledged by its ack token
func (db *DB) AcknowledgeAlert(token string) error {
	query := `
		UPDATE alerts SET is_acknowledged = true, acknowledged_at = $2
		WHERE ack_token = $1 AND is_acknowledged = false
	`
	result, err := db.conn.Exec(query, token, time.Now())
	if err != nil {
		return fmt.Errorf("failed to acknowledge alert: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("alert not found or already acknowledged: %s", token)
	}
	return nil
}
