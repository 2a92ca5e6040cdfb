package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sandeepkv93/product-inventory-admin/internal/config"
	"github.com/sandeepkv93/product-inventory-admin/internal/observability"
)

// Open connects using cfg.DatabaseDriver. SQLite is meant for local runs
// and tests; config validation keeps it out of other environments.
func Open(cfg *config.Config) (*gorm.DB, error) {
	ctx := context.Background()
	start := time.Now()
	defer func() { observability.RecordDatabaseStartupDuration(ctx, "open", time.Since(start)) }()

	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case config.DatabaseDriverPostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	case config.DatabaseDriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseURL)
	default:
		observability.RecordDatabaseStartupEvent(ctx, "open", "error")
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		observability.RecordDatabaseStartupEvent(ctx, "open", "error")
		return nil, fmt.Errorf("open %s database: %w", cfg.DatabaseDriver, err)
	}
	if cfg.DatabaseDriver == config.DatabaseDriverSQLite {
		// One connection keeps in-memory databases shared and serializes writers.
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	observability.RecordDatabaseStartupEvent(ctx, "open", "success")
	return db, nil
}
