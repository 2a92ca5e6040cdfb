package seed

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
	migrate bool
	ci      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "seed", Short: "Sample product seed tooling"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")
	cmd.PersistentFlags().BoolVar(&opts.migrate, "migrate", true, "apply schema migrations before seeding")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newApplyCommand(opts), newDryRunCommand(opts))
	return cmd
}

func newApplyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Insert sample products that are missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := common.Run("seed", "apply", opts.ci, opts.timeout, func(ctx context.Context) ([]string, error) {
				_, db, closeDB, err := common.OpenConfiguredDB(opts.envFile)
				defer closeDB()
				if err != nil {
					return nil, err
				}
				if opts.migrate {
					if err := database.Migrate(db); err != nil {
						return nil, err
					}
				}
				report, err := database.Seed(db)
				if err != nil {
					return nil, err
				}
				return reportDetails("created", report), nil
			})
			common.Finish(opts.ci, "seed apply", details, err)
			return nil
		},
	}
}

func newDryRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dry-run",
		Short: "Show which sample products seeding would insert",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := common.Run("seed", "dry-run", opts.ci, opts.timeout, func(ctx context.Context) ([]string, error) {
				_, db, closeDB, err := common.OpenConfiguredDB(opts.envFile)
				defer closeDB()
				if err != nil {
					return nil, err
				}
				report, err := database.PlanSeed(db)
				if err != nil {
					return nil, err
				}
				return reportDetails("would create", report), nil
			})
			common.Finish(opts.ci, "seed dry-run", details, err)
			return nil
		},
	}
}

func reportDetails(verb string, report *database.SeedReport) []string {
	if report.Noop {
		return []string{fmt.Sprintf("all %d sample products already present", report.SkippedProducts)}
	}
	details := []string{fmt.Sprintf("%s %d product(s), skipped %d", verb, report.CreatedProducts, report.SkippedProducts)}
	for _, name := range report.Created {
		details = append(details, verb+": "+name)
	}
	return details
}
