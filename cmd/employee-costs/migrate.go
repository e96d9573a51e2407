package main

import (
	"fmt"

	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/erp-platform/employee-service/internal/infrastructure/config"
	pgstore "github.com/erp-platform/employee-service/internal/infrastructure/db/postgres"
	"github.com/erp-platform/employee-service/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or revert the PostgreSQL schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(pgstore.Up), string(pgstore.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := pgstore.Up
			if len(args) == 1 {
				dir = pgstore.Direction(args[0])
			}

			ctx := cmd.Context()
			log := logger.Init(logger.Options{Level: "info", Pretty: true, Service: serviceName})

			cfg, err := config.LoadPostgres(ctx, envconfig.OsLookuper())
			if err != nil {
				return err
			}
			pool, err := pgstore.Connect(ctx, pgstore.Config{DSN: cfg.DSN, MaxConns: cfg.MaxConns})
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := pgstore.Migrate(ctx, pool, dir, steps, log); err != nil {
				return fmt.Errorf("migrate %s: %w", dir, err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 0, "number of migrations to run (0 = all)")
	return cmd
}
