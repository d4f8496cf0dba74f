// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies data/migrations at startup with golang-migrate.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunUp migrates the schema to the newest version under migrationsPath.
// A dirty schema is refused rather than forced.
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	migrator, err := migrate.New("file://"+migrationsPath, driverURL(dsn))
	if err != nil {
		return fmt.Errorf("migration: init: %w", err)
	}
	defer func() {
		sourceErr, databaseErr := migrator.Close()
		if err := errors.Join(sourceErr, databaseErr); err != nil {
			logger.Error("migration_close_failed", slog.Any("error", err))
		}
	}()
	migrator.Log = slogAdapter{logger: logger}

	from, dirty, err := migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		from = 0
	case err != nil:
		return fmt.Errorf("migration: read version: %w", err)
	case dirty:
		return fmt.Errorf("migration: schema is dirty at version %d", from)
	}

	err = migrator.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration: up: %w", err)
	}

	to, _, _ := migrator.Version()
	logger.Info("migration_applied",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return nil
}

// driverURL rewrites a postgres:// DSN to the pgx5:// scheme the migrate driver registers.
func driverURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// slogAdapter satisfies migrate.Logger.
type slogAdapter struct {
	logger *slog.Logger
}

func (adapter slogAdapter) Printf(format string, args ...any) {
	adapter.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (adapter slogAdapter) Verbose() bool { return false }
