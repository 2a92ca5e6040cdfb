package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/product-inventory-admin/internal/database"
	"github.com/sandeepkv93/product-inventory-admin/internal/tools/common"
)

type options struct {
	envFile string
	timeout time.Duration
	ci      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Product schema migration tooling",
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")

	cmd.AddCommand(
		newUpCommand(opts),
		newStatusCommand(opts),
		newPlanCommand(opts),
	)
	return cmd
}

func newUpCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := common.Run("migrate", "up", opts.ci, opts.timeout, func(ctx context.Context) ([]string, error) {
				cfg, db, closeDB, err := common.OpenConfiguredDB(opts.envFile)
				defer closeDB()
				if err != nil {
					return nil, err
				}
				steps, err := database.PlanMigration(db)
				if err != nil {
					return nil, err
				}
				if err := database.Migrate(db); err != nil {
					return nil, err
				}
				details := []string{"database: " + cfg.DatabaseDriver, fmt.Sprintf("applied %d schema change(s)", len(steps))}
				return append(details, steps...), nil
			})
			common.Finish(opts.ci, "migrate up", details, err)
			return nil
		},
	}
}

func newStatusCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the schema is current",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := common.Run("migrate", "status", opts.ci, opts.timeout, func(ctx context.Context) ([]string, error) {
				cfg, db, closeDB, err := common.OpenConfiguredDB(opts.envFile)
				defer closeDB()
				if err != nil {
					return nil, err
				}
				sqlDB, err := db.DB()
				if err != nil {
					return nil, err
				}
				if err := sqlDB.PingContext(ctx); err != nil {
					return nil, fmt.Errorf("db ping: %w", err)
				}
				steps, err := database.PlanMigration(db)
				if err != nil {
					return nil, err
				}
				state := "migrations: up to date"
				if len(steps) > 0 {
					state = fmt.Sprintf("migrations: %d pending", len(steps))
				}
				return []string{"database reachable (" + cfg.DatabaseDriver + ")", state}, nil
			})
			common.Finish(opts.ci, "migrate status", details, err)
			return nil
		},
	}
}

func newPlanCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show migration plan (dry-run)",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := common.Run("migrate", "plan", opts.ci, opts.timeout, func(ctx context.Context) ([]string, error) {
				_, db, closeDB, err := common.OpenConfiguredDB(opts.envFile)
				defer closeDB()
				if err != nil {
					return nil, err
				}
				steps, err := database.PlanMigration(db)
				if err != nil {
					return nil, err
				}
				if len(steps) == 0 {
					return []string{"schema is current", "no mutation executed in plan mode"}, nil
				}
				return append(steps, "no mutation executed in plan mode"), nil
			})
			common.Finish(opts.ci, "migrate plan", details, err)
			return nil
		},
	}
}
