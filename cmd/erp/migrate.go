package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/meridianhq/meridian-erp/modules"
	"github.com/meridianhq/meridian-erp/pkg/application"
	"github.com/meridianhq/meridian-erp/pkg/configuration"
	"github.com/meridianhq/meridian-erp/pkg/eventbus"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrate(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrate(ctx context.Context) error {
	conf := configuration.Use()
	logger := conf.Logger()

	connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(connCtx, conf.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer pool.Close()

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app); err != nil {
		return err
	}
	if err := app.Migrations().Apply(ctx); err != nil {
		return err
	}
	logger.Info("schema applied")
	return nil
}
