package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Raghucharan16/Market-Alerts/internal/models"
)

// CreateUser inserts a new user with their notification channel configuration
func (db *DB) CreateUser(u *models.User) error {
	query := `
		INSERT INTO users (email, webhook_url, created_at)
		VALUES ($1, NULLIF($2, ''), $3)
		RETURNING id
	`
	now := time.Now()
	err := db.conn.QueryRow(query, u.Email, u.WebhookURL, now).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	u.CreatedAt = now
	return nil
}

// GetUserByID retrieves a user by ID
func (db *DB) GetUserByID(id int) (*models.User, error) {
	query := `SELECT id, email, COALESCE(webhook_url, ''), created_at FROM users WHERE id = $1`

	var u models.User
	err := db.conn.QueryRow(query, id).Scan(&u.ID, &u.Email, &u.WebhookURL, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// InsertErrorLog appends an entry to the error audit trail
func (db *DB) InsertErrorLog(userID *int, symbol, message string) error {
	query := `
		INSERT INTO error_logs (user_id, stock_symbol, error_message, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := db.conn.Exec(query, userID, symbol, message, time.Now()); err != nil {
		return fmt.Errorf("failed to insert error log: %w", err)
	}
	return nil
}

// GetRecentErrorLogs retrieves the most recent error log entries
func (db *DB) GetRecentErrorLogs(limit int) ([]*models.ErrorLog, error) {
	query := `
		SELECT id, user_id, stock_symbol, error_message, created_at
		FROM error_logs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := db.conn.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query error logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.ErrorLog
	for rows.Next() {
		var e models.ErrorLog
		var userID sql.NullInt64

		if err := rows.Scan(&e.ID, &userID, &e.StockSymbol, &e.ErrorMessage, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan error log: %w", err)
		}

		if userID.Valid {
			id := int(userID.Int64)
			e.UserID = &id
		}

		logs = append(logs, &e)
	}

	return logs, nil
}
