package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okofalt/cellsync-server/internal/app"
	"github.com/okofalt/cellsync-server/internal/auth"
	"github.com/okofalt/cellsync-server/internal/config"
	"github.com/okofalt/cellsync-server/internal/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	root := &cobra.Command{
		Use:   "cellsync-server",
		Short: "Authoritative state-sync server for the cellblock game",
		RunE: func(cmd *cobra.Command, args []string) error {
			bootstrapLogger := log.New(logLevel, "")

			cfg, path, err := config.Load(bootstrapLogger, configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			logger := log.New(cfg.LogLevel, cfg.LogFile)
			logger.Info().Str("config", path).Str("addr", cfg.Addr).Msg("starting cellsync server")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(&cfg, logger)
			if err != nil {
				return err
			}

			if err := application.Run(ctx); err != nil {
				return fmt.Errorf("server exited: %w", err)
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(newHashPasswordCmd())
	return root
}

// newHashPasswordCmd generates the bcrypt hash to put under admin.password_hash.
func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Generate a bcrypt hash for the admin password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
