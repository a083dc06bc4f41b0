// Package store persists computed index points to Postgres. The sink is
// optional; the engine never depends on it.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contactkeval/vol-index/internal/config"
	"github.com/contactkeval/vol-index/internal/index"
)

const schema = `
CREATE TABLE IF NOT EXISTS vol_index_points (
    run_id       UUID        NOT NULL,
    trade_date   DATE        NOT NULL,
    horizon_days INT         NOT NULL,
    value        DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (run_id, trade_date, horizon_days)
)`

// Store wraps a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect creates the connection pool and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(BuildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Init creates the points table if it does not exist.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveResult inserts every point of a batch run in one round trip.
func (s *Store) SaveResult(ctx context.Context, res *index.Result) error {
	batch := &pgx.Batch{}
	for _, pt := range res.Points {
		batch.Queue(
			`INSERT INTO vol_index_points (run_id, trade_date, horizon_days, value)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT DO NOTHING`,
			res.RunID, pt.TradeDate, pt.HorizonDays, pt.Value,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range res.Points {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert index point: %w", err)
		}
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
