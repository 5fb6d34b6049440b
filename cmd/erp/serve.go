package main

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/meridianhq/meridian-erp/modules"
	"github.com/meridianhq/meridian-erp/pkg/application"
	"github.com/meridianhq/meridian-erp/pkg/configuration"
	"github.com/meridianhq/meridian-erp/pkg/eventbus"
	"github.com/meridianhq/meridian-erp/pkg/httpapi"
	"github.com/meridianhq/meridian-erp/pkg/metrics"
	"github.com/meridianhq/meridian-erp/pkg/middleware"
	"github.com/meridianhq/meridian-erp/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
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

	app.RegisterMiddleware(
		middleware.ProvidePool(pool),
		middleware.RequestLogger(logger),
		middleware.WithTransaction(),
	)
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	srv := server.NewHTTPServer(
		app,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = httpapi.WriteError(w, http.StatusNotFound, "not_found", "resource not found", nil)
		}),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", nil)
		}),
	)
	logger.WithField("address", conf.SocketAddress).Info("listening")
	return srv.Start(conf.SocketAddress)
}
