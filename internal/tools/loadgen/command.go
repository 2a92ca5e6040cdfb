package loadgen

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/product-inventory-admin/internal/tools/common"
)

type options struct {
	cfg       Config
	failOn5xx bool
	ci        bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "loadgen", Short: "Generate product API traffic"}
	f := cmd.PersistentFlags()
	f.StringVar(&opts.cfg.BaseURL, "base-url", "http://localhost:8080", "API base URL")
	f.StringVar(&opts.cfg.Profile, "profile", "mixed", "traffic profile: read|mixed|error-heavy")
	f.DurationVar(&opts.cfg.Duration, "duration", 15*time.Second, "traffic duration")
	f.IntVar(&opts.cfg.RPS, "rps", 20, "requests per second")
	f.IntVar(&opts.cfg.Concurrency, "concurrency", 6, "concurrent workers")
	f.Int64Var(&opts.cfg.Seed, "seed", 42, "random seed")
	f.BoolVar(&opts.failOn5xx, "fail-on-5xx", false, "exit non-zero if any request got a 5xx")
	f.BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newRunCommand(opts))
	return cmd
}

func newRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run load generation",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := common.Run("loadgen", "run", opts.ci, opts.cfg.Duration+15*time.Second, func(ctx context.Context) ([]string, error) {
				res, err := Run(ctx, opts.cfg)
				if err != nil {
					return nil, err
				}
				if opts.failOn5xx && res.Status5xx > 0 {
					return res.Details(), fmt.Errorf("%d requests failed with 5xx", res.Status5xx)
				}
				return res.Details(), nil
			})
			common.Finish(opts.ci, "loadgen run", details, err)
			return nil
		},
	}
}
