// Package cache holds the service's ephemeral collaborators: a Redis-backed
// move historian and the injected profile cache. Neither is owned by the
// engine; game state never lives here.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// MoveRecord captures one accepted move for the historian.
type MoveRecord struct {
	GameID    uuid.UUID `json:"gameId"`
	PlayerID  string    `json:"playerId,omitempty"`
	MoveCount int       `json:"moveCount"`
	Intent    string    `json:"intent"`
	Status    string    `json:"status"`
	Winner    string    `json:"winner,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// historyTTL bounds how long a finished game's move log is retained.
const historyTTL = 24 * time.Hour

// History publishes move records to Redis, one list per game.
type History struct {
	rdb *redis.Client
}

// NewHistory connects a history publisher from a Redis URL.
func NewHistory(url string) (*History, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &History{rdb: redis.NewClient(opts)}, nil
}

// Ping verifies the connection.
func (h *History) Ping(ctx context.Context) error {
	return h.rdb.Ping(ctx).Err()
}

// Close releases the client.
func (h *History) Close() error {
	return h.rdb.Close()
}

// Publish appends a move record to the game's history list and refreshes its
// TTL. Best-effort from the caller's perspective; the game itself never
// depends on the historian.
func (h *History) Publish(ctx context.Context, rec MoveRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal move record: %w", err)
	}
	key := fmt.Sprintf("war:history:%s", rec.GameID)
	pipe := h.rdb.TxPipeline()
	pipe.RPush(ctx, key, raw)
	pipe.Expire(ctx, key, historyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish move record: %w", err)
	}
	return nil
}
