// Package db owns the postgres connection pool for the service.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// New opens a pgx pool against addr and verifies it with a ping before
// returning. maxIdleTime is a duration string such as "15m".
func New(addr string, maxConns int32, maxIdleTime string) (*pgxpool.Pool, error) {
	idle, err := time.ParseDuration(maxIdleTime)
	if err != nil {
		return nil, fmt.Errorf("parse max idle time: %w", err)
	}

	cfg, err := pgxpool.ParseConfig(addr)
	if err != nil {
		return nil, fmt.Errorf("parse database addr: %w", err)
	}
	cfg.MaxConns = maxConns
	cfg.MaxConnIdleTime = idle

	// Pool construction and the ping share one startup deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return pool, nil
}
