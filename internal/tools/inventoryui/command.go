package inventoryui

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sandeepkv93/product-inventory-admin/internal/inventory"
	"github.com/sandeepkv93/product-inventory-admin/internal/inventory/tui"
	"github.com/sandeepkv93/product-inventory-admin/internal/observability"
	"github.com/sandeepkv93/product-inventory-admin/internal/tools/common"
)

type options struct {
	envFile  string
	baseURL  string
	logFile  string
	logLevel string
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Terminal product inventory admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "API base URL (default $INVENTORY_API_URL or http://localhost:8080)")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "inventory-ui.log", "rotating log file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug|info|warn|error")
	return cmd
}

func (o *options) resolveBaseURL() string {
	if o.baseURL != "" {
		return o.baseURL
	}
	if v := os.Getenv("INVENTORY_API_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func run(ctx context.Context, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := common.LoadEnvFile(opts.envFile); err != nil {
		return err
	}
	logOut := &lumberjack.Logger{Filename: opts.logFile, MaxSize: 10, MaxBackups: 3, MaxAge: 14}
	defer logOut.Close()
	logger := observability.NewWriterLogger(logOut, opts.logLevel)

	baseURL := opts.resolveBaseURL()
	logger.Info("inventory ui starting", "base_url", baseURL)

	start := time.Now()
	model := tui.New(ctx, inventory.NewClient(baseURL, nil), logger)
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()

	outcome := "success"
	if err != nil {
		outcome = "error"
		logger.Error("inventory ui exited", "error", err)
	}
	observability.RecordToolCommandRun(ctx, "inventory", "run", outcome)
	observability.RecordToolCommandDuration(ctx, "inventory", "run", outcome, time.Since(start))
	if err != nil {
		return fmt.Errorf("run inventory ui: %w", err)
	}
	return nil
}
