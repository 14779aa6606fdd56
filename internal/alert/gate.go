package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Raghucharan16/Market-Alerts/internal/database"
)

// Gate decides whether an alert of a given type may be sent for a stock.
// It owns the cooldown/deduplication invariant: at most one live alert per
// (stock, type) pair within the cooldown window.
type Gate interface {
	Allow(ctx context.Context, stockID int, alertType string) (bool, error)
}

// DBGate checks the cooldown against the alerts table
type DBGate struct {
	db       *database.DB
	cooldown time.Duration
}

// NewDBGate creates the default database-backed gate
func NewDBGate(db *database.DB, cooldown time.Duration) *DBGate {
	return &DBGate{db: db, cooldown: cooldown}
}

// Allow implements Gate
func (g *DBGate) Allow(ctx context.Context, stockID int, alertType string) (bool, error) {
	return g.db.ShouldSendAlert(stockID, alertType, g.cooldown)
}

// RedisGate checks the cooldown with an atomic SET NX. Unlike DBGate it does
// not consider acknowledgement state, only elapsed time since the last grant.
type RedisGate struct {
	client   *redis.Client
	cooldown time.Duration
}

// NewRedisGate creates a Redis-backed gate
func NewRedisGate(client *redis.Client, cooldown time.Duration) *RedisGate {
	return &RedisGate{client: client, cooldown: cooldown}
}

// Allow implements Gate. The grant and the window start are one atomic
// operation, so two checks for the same pair cannot both pass.
func (g *RedisGate) Allow(ctx context.Context, stockID int, alertType string) (bool, error) {
	key := fmt.Sprintf("alert-cooldown:%d:%s", stockID, alertType)
	ok, err := g.client.SetNX(ctx, key, time.Now().Unix(), g.cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check redis cooldown: %w", err)
	}
	return ok, nil
}
