// Package cli implements the masksync command-line interface.
package cli

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"masksync/internal/app"
	"masksync/internal/config"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "masksync",
		Short:         "Column masking policy reconciler for Redshift",
		Long:          "masksync keeps warehouse masking policy attachments in sync with the declarative masking configuration and the external identity directory.",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newRunCmd(), newPlanCmd(), newServeCmd())
	return rootCmd
}

// setup loads env config, opens the warehouse connection, and wires the
// engine. The returned cleanup closes the connection.
func setup() (*app.App, *config.Config, *slog.Logger, func(), error) {
	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	conn, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("open warehouse connection: %w", err)
	}

	a, err := app.New(app.Deps{Cfg: cfg, DB: conn, Logger: logger})
	if err != nil {
		_ = conn.Close()
		return nil, nil, nil, nil, err
	}

	cleanup := func() { _ = conn.Close() }
	return a, cfg, logger, cleanup, nil
}
