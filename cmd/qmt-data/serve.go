package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"qmt-data/internal/api"
	"qmt-data/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

var serveCMD = &cobra.Command{
	Use:   "serve",
	Short: "Start the bar query API server",
	Long:  `Serve stored bars over HTTP. Requires DB_DSN.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()
		if a.Store == nil {
			return fmt.Errorf("serve requires DB_DSN")
		}

		srv := &http.Server{
			Addr:              a.Config.HTTPAddr,
			Handler:           api.SetupRoutes(a.Store, metrics.Handler(a.Registry)),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("starting server", "addr", srv.Addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-cmd.Context().Done():
			slog.Info("shutting down server")
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}
