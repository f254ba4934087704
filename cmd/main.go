package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/storefront-backend/internal/app"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
	"github.com/yungbote/storefront-backend/internal/platform/shutdown"
)

var (
	configPath string

	log *logger.Logger
	cfg app.Config
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront API: catalog, carts, orders and sales analytics",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			if err := os.Setenv("CONFIG_PATH", configPath); err != nil {
				return err
			}
		}
		var err error
		cfg, err = app.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log, err = logger.New(cfg.LogMode)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the order event relay",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations and seed built-in roles, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := app.Open(log, cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		log.Info("Migrations applied", "driver", database.Driver())
		return nil
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	a, err := app.New(ctx, log, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	log.Info("Starting storefront", "addr", cfg.HTTPAddr, "relay", a.Relay != nil)
	return a.Run(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (overrides CONFIG_PATH)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
