// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres opens the pgx pool shared by the blog, comment, subscriber
// and account repositories.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectTimeout  = 5 * time.Second
	pingTimeout     = 2 * time.Second
	maxConnLifetime = time.Hour
	maxConnIdleTime = 10 * time.Minute
)

// PoolOptions sizes the pool. Zero fields keep the pgxpool defaults.
type PoolOptions struct {
	MaxConns int32
	MinConns int32

	// StatementTimeout is sent as the statement_timeout startup parameter.
	StatementTimeout time.Duration
}

// ParseConfig turns dsn and options into a pool config without connecting.
func ParseConfig(dsn string, options PoolOptions) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	if options.MaxConns > 0 {
		poolConfig.MaxConns = options.MaxConns
	}
	if options.MinConns > 0 {
		poolConfig.MinConns = min(options.MinConns, poolConfig.MaxConns)
	}
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	if options.StatementTimeout > 0 {
		poolConfig.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(options.StatementTimeout.Milliseconds(), 10)
	}

	return poolConfig, nil
}

// NewPool connects and pings before returning, so a bad DATABASE_URL fails startup.
func NewPool(ctx context.Context, dsn string, options PoolOptions, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := ParseConfig(dsn, options)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.String("host", poolConfig.ConnConfig.Host),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
	)

	return pool, nil
}

// Ping backs the readiness probe.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}
