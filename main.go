package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bizadmin/internal/app"
	"bizadmin/internal/config"
	"bizadmin/internal/logger"

	"github.com/spf13/cobra"
	_ "time/tzdata"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "bizadmin",
		Short:         "Business administration backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (env CONFIG_PATH)")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logger.Init(logger.Config{Env: cfg.Log.Env, Level: cfg.Log.Level, ServiceName: cfg.App.Name})
		return cfg, nil
	}

	root.AddCommand(
		serveCmd(load),
		migrateCmd(load),
		seedCmd(load),
		tokensCmd(load),
		versionCmd(),
	)
	return root
}

type loader func() (*config.Config, error)

// withApp loads config, builds the app, runs fn and releases everything.
func withApp(cmd *cobra.Command, load loader, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := load()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a)
}
