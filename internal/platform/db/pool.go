package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig holds the settings NewPool needs.
type PoolConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
	// Schema is placed first on every connection's search_path. It must already
	// satisfy ValidSchemaName.
	Schema string
}

func NewPool(ctx context.Context, pc PoolConfig) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(pc.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns = pc.MaxConns
	cfg.MinConns = pc.MinConns
	if pc.Schema != "" {
		if !ValidSchemaName(pc.Schema) {
			return nil, fmt.Errorf("invalid schema name: %q", pc.Schema)
		}
		cfg.ConnConfig.RuntimeParams["search_path"] = searchPath(pc.Schema)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
