// migrate aplica o revierte las migraciones goose embebidas en el binario.
//
// Uso: go run ./cmd/migrate [up|down|status]
// La conexión se toma de la misma configuración que la API (DATABASE_URL o DB_*).
package main

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/timereg-api/internal/infrastructure/postgres"
	"github.com/jhoicas/timereg-api/pkg/config"
	"github.com/jhoicas/timereg-api/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var timeout time.Duration

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Migraciones de esquema de timereg",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "tiempo máximo de la operación")

	run := func(name string, fn func(context.Context, *pgxpool.Pool) error) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: name + " de las migraciones",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

				ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
				defer cancel()

				pool, err := postgres.NewPool(ctx, cfg.DB)
				if err != nil {
					return err
				}
				defer pool.Close()

				if err := fn(ctx, pool); err != nil {
					log.Error().Err(err).Str("command", name).Msg("migración fallida")
					return err
				}
				log.Info().Str("command", name).Msg("migración completada")
				return nil
			},
		}
	}

	root.AddCommand(
		run("up", postgres.RunMigrations),
		run("down", postgres.RollbackMigration),
		run("status", postgres.MigrationStatus),
	)
	return root
}
