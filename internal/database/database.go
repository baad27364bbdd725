// Package database persists durable win/loss counters. It is the stats
// collaborator from the engine's point of view: it receives each terminal
// outcome exactly once and aggregates; game state itself is never stored
// here, that lives entirely in the caller-held token.
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against the given DSN and pings it.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the stats table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS war_records (
			player_id  TEXT PRIMARY KEY,
			wins       INTEGER NOT NULL DEFAULT 0,
			losses     INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// RecordResult increments the player's win or loss counter.
func (s *Store) RecordResult(ctx context.Context, playerID string, won bool) error {
	win, loss := 0, 1
	if won {
		win, loss = 1, 0
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO war_records (player_id, wins, losses, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (player_id) DO UPDATE
		SET wins = war_records.wins + $2,
		    losses = war_records.losses + $3,
		    updated_at = now()`,
		playerID, win, loss)
	if err != nil {
		return fmt.Errorf("record result for %s: %w", playerID, err)
	}
	return nil
}

// Record returns the player's aggregate win/loss counts. Unknown players
// read as 0/0.
func (s *Store) Record(ctx context.Context, playerID string) (wins, losses int, err error) {
	err = s.pool.QueryRow(ctx,
		`SELECT wins, losses FROM war_records WHERE player_id = $1`,
		playerID).Scan(&wins, &losses)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("read record for %s: %w", playerID, err)
	}
	return wins, losses, nil
}
