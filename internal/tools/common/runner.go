package common

import (
	"context"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/sandeepkv93/product-inventory-admin/internal/config"
	"github.com/sandeepkv93/product-inventory-admin/internal/database"
	"github.com/sandeepkv93/product-inventory-admin/internal/observability"
	"github.com/sandeepkv93/product-inventory-admin/internal/tools/ui"
)

// ExitCodeFailure is returned by every tool when its action fails.
const ExitCodeFailure = 3

type Action func(ctx context.Context) ([]string, error)

// Run executes fn either headless (ci) or under the status UI, and records
// the run in the tool metrics.
func Run(tool, command string, ci bool, timeout time.Duration, fn Action) ([]string, error) {
	start := time.Now()
	var (
		details []string
		err     error
	)
	if ci {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		details, err = fn(ctx)
		cancel()
	} else {
		details, err = ui.Run(tool+" "+command, timeout, fn)
	}

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	observability.RecordToolCommandRun(context.Background(), tool, command, outcome)
	observability.RecordToolCommandDuration(context.Background(), tool, command, outcome, time.Since(start))
	return details, err
}

// Finish prints the machine-readable result in ci mode and exits non-zero on
// failure.
func Finish(ci bool, title string, details []string, err error) {
	if ci {
		PrintCIResult(title, details, err)
	}
	if err != nil {
		os.Exit(ExitCodeFailure)
	}
}

// OpenConfiguredDB loads envFile, then config, then opens the database.
// The returned close func is never nil.
func OpenConfiguredDB(envFile string) (*config.Config, *gorm.DB, func(), error) {
	noop := func() {}
	if err := LoadEnvFile(envFile); err != nil {
		return nil, nil, noop, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, noop, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, noop, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return cfg, db, closeFn, nil
}
