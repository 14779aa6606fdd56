package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Raghucharan16/Market-Alerts/internal/models"
)

// CreateStock inserts a new stock watch
func (db *DB) CreateStock(s *models.StockWatch) error {
	query := `
		INSERT INTO stocks (
			user_id, symbol, atp_price, profit_threshold, loss_threshold,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	now := time.Now()
	err := db.conn.QueryRow(query,
		s.UserID, s.Symbol, s.BuyPrice, s.ProfitThreshold, s.LossThreshold,
		s.IsActive, now, now,
	).Scan(&s.ID)

	if err != nil {
		return fmt.Errorf("failed to create stock: %w", err)
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	return nil
}

// GetStockByID retrieves a stock watch by ID
func (db *DB) GetStockByID(id int) (*models.StockWatch, error) {
	query := `
		SELECT s.id, s.user_id, s.symbol, s.atp_price, s.profit_threshold,
		       s.loss_threshold, s.is_active, s.last_alert_sent,
		       s.created_at, s.updated_at,
		       COALESCE(u.webhook_url, ''), u.email
		FROM stocks s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1
	`
	var s models.StockWatch
	var lastAlertSent sql.NullTime

	err := db.conn.QueryRow(query, id).Scan(
		&s.ID, &s.UserID, &s.Symbol, &s.BuyPrice, &s.ProfitThreshold,
		&s.LossThreshold, &s.IsActive, &lastAlertSent,
		&s.CreatedAt, &s.UpdatedAt,
		&s.WebhookURL, &s.Email,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("stock not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}

	if lastAlertSent.Valid {
		s.LastAlertSent = &lastAlertSent.Time
	}

	return &s, nil
}

// GetActiveStocks retrieves all active stock watches joined with the owning
// user's notification channel configuration
func (db *DB) GetActiveStocks() ([]*models.StockWatch, error) {
	query := `
		SELECT s.id, s.user_id, s.symbol, s.atp_price, s.profit_threshold,
		       s.loss_threshold, s.is_active, s.last_alert_sent,
		       s.created_at, s.updated_at,
		       COALESCE(u.webhook_url, ''), u.email
		FROM stocks s
		JOIN users u ON u.id = s.user_id
		WHERE s.is_active = true
		ORDER BY s.id ASC
	`
	return db.scanStocks(db.conn.Query(query))
}

// GetStocksByUser retrieves all stock watches for a user
func (db *DB) GetStocksByUser(userID int) ([]*models.StockWatch, error) {
	query := `
		SELECT s.id, s.user_id, s.symbol, s.atp_price, s.profit_threshold,
		       s.loss_threshold, s.is_active, s.last_alert_sent,
		       s.created_at, s.updated_at,
		       COALESCE(u.webhook_url, ''), u.email
		FROM stocks s
		JOIN users u ON u.id = s.user_id
		WHERE s.user_id = $1
		ORDER BY s.id ASC
	`
	return db.scanStocks(db.conn.Query(query, userID))
}

func (db *DB) scanStocks(rows *sql.Rows, err error) ([]*models.StockWatch, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to query stocks: %w", err)
	}
	defer rows.Close()

	var stocks []*models.StockWatch
	for rows.Next() {
		var s models.StockWatch
		var lastAlertSent sql.NullTime

		err := rows.Scan(
			&s.ID, &s.UserID, &s.Symbol, &s.BuyPrice, &s.ProfitThreshold,
			&s.LossThreshold, &s.IsActive, &lastAlertSent,
			&s.CreatedAt, &s.UpdatedAt,
			&s.WebhookURL, &s.Email,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}

		if lastAlertSent.Valid {
			s.LastAlertSent = &lastAlertSent.Time
		}

		stocks = append(stocks, &s)
	}

	return stocks, nil
}

// UpdateStockSymbol persists a corrected symbol onto a stock watch.
// Used by the price resolution chain when the resolver fixes a mistyped
// or renamed ticker.
func (db *DB) UpdateStockSymbol(id int, symbol string) error {
	query := `UPDATE stocks SET symbol = $2, updated_at = $3 WHERE id = $1`
	result, err := db.conn.Exec(query, id, symbol, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update stock symbol: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("stock not found: %d", id)
	}
	return nil
}

// TouchLastAlertSent records that an alert was just sent for a stock
func (db *DB) TouchLastAlertSent(id int) error {
	now := time.Now()
	query := `UPDATE stocks SET last_alert_sent = $2, updated_at = $2 WHERE id = $1`
	_, err := db.conn.Exec(query, id, now)
	if err != nil {
		return fmt.Errorf("failed to touch last_alert_sent: %w", err)
	}
	return nil
}

// SetStockActive enables or disables a stock watch
func (db *DB) SetStockActive(id int, active bool) error {
	query := `UPDATE stocks SET is_active = $2, updated_at = $3 WHERE id = $1`
	result, err := db.conn.Exec(query, id, active, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set stock active: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("stock not found: %d", id)
	}
	return nil
}

// DeleteStock removes a stock watch
func (db *DB) DeleteStock(id int) error {
	query := `DELETE FROM stocks WHERE id = $1`
	result, err := db.conn.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete stock: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("stock not found: %d", id)
	}
	return nil
}
