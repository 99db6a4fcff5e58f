package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"waypoint/internal/http"
	"waypoint/internal/logging"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(opts *globalOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the router inspector",
		Long: `Start an HTTP server exposing the router.

Endpoints:
  /_router/routes      ranked routes
  /_router/location    current location and match
  /_router/navigate    POST {"route", "params", "replace"}
  /_router/subscribe   websocket stream of locations
  /metrics             Prometheus metrics

Any other path is matched against the routes without navigating.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				config.Port = port
			}

			level, err := logrus.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			logger := logging.NewGlobalLogger()
			logger.SetLevel(level)

			server, err := http.NewServer(config)
			if err != nil {
				return err
			}

			logger.WithFields(map[string]interface{}{
				"name": config.Name,
				"port": config.Port,
			}).Info("Starting router inspector")
			logger.Infof("Inspector endpoints: http://localhost:%d/_router", config.Port)

			return run(cmd.Context(), server, logger)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3001, "Port to listen on (default from config)")

	return cmd
}

// run serves until the process is interrupted.
func run(ctx context.Context, server *http.Server, logger *logging.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Interrupted, shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Stop(shutdownCtx)
}
