package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"bizadmin/internal/app"
	"bizadmin/internal/db"
	"bizadmin/internal/logger"
	"bizadmin/internal/services"

	"github.com/spf13/cobra"
)

func serveCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the scheduler when jobs.enabled)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, load, func(ctx context.Context, a *app.App) error {
				if err := a.Serve(ctx); err != nil {
					return err
				}
				logger.L().Info("server stopped")
				return nil
			})
		},
	}
}

func migrateCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the embedded schema migrations",
	}
	run := func(fn func(*db.Migrator) error) func(*cobra.Command, []string) error {
		return func(*cobra.Command, []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return app.Migrate(cfg.Database, fn)
		}
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last N migrations",
		RunE: run(func(m *db.Migrator) error {
			if err := m.Down(steps); err != nil {
				return err
			}
			fmt.Printf("rolled back %d step(s)\n", max(steps, 1))
			return nil
		}),
	}
	down.Flags().IntVarP(&steps, "steps", "n", 1, "number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			RunE: run(func(m *db.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				fmt.Println("schema up to date")
				return nil
			}),
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: run(func(m *db.Migrator) error {
				st, err := m.Status()
				if err != nil {
					return err
				}
				switch {
				case st.None:
					fmt.Println("no migrations applied")
				case st.Dirty:
					fmt.Printf("version %d (dirty)\n", st.Version)
				default:
					fmt.Printf("version %d\n", st.Version)
				}
				return nil
			}),
		},
	)
	return cmd
}

func seedCmd(load loader) *cobra.Command {
	opts := services.SeedOptions{AdminUsername: "admin"}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the permission catalog, system roles, the admin user and reference data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.AdminPassword == "" {
				opts.AdminPassword = os.Getenv("ADMIN_PASSWORD")
			}
			return withApp(cmd, load, func(ctx context.Context, a *app.App) error {
				report, err := a.Seed(ctx, opts)
				if err != nil {
					return err
				}
				out, _ := json.MarshalIndent(report, "", "  ")
				fmt.Println(string(out))
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.AdminUsername, "admin-username", opts.AdminUsername, "administrator username; empty skips the admin user")
	f.StringVar(&opts.AdminEmail, "admin-email", "", "administrator e-mail (default <username>@localhost)")
	f.StringVar(&opts.AdminPassword, "admin-password", "", "administrator password (env ADMIN_PASSWORD), required until the admin exists")
	return cmd
}

func tokensCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Refresh token housekeeping",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete refresh tokens expired or revoked before the retention window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, load, func(ctx context.Context, a *app.App) error {
				n, err := a.PurgeTokens(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("purged %d refresh token(s)\n", n)
				return nil
			})
		},
	})
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(*cobra.Command, []string) {
			fmt.Println("bizadmin", app.Version)
		},
	}
}
