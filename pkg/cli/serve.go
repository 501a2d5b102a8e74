package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	httpctrl "github.com/secmon-lab/dualscope/pkg/controller/http"
	"github.com/secmon-lab/dualscope/pkg/usecase"
	"github.com/secmon-lab/dualscope/pkg/utils/async"
	"github.com/secmon-lab/dualscope/pkg/utils/logging"
	"github.com/secmon-lab/dualscope/pkg/utils/metrics"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var requestTimeout time.Duration
	var pipeline pipelineConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("DUALSCOPE_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "request-timeout",
			Usage:       "Timeout for API requests (0 = no timeout)",
			Value:       2 * time.Minute,
			Sources:     cli.EnvVars("DUALSCOPE_REQUEST_TIMEOUT"),
			Destination: &requestTimeout,
		},
	}
	flags = append(flags, pipeline.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP API server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			m := metrics.New()
			var background async.Group
			uc, cleanup, err := pipeline.build(ctx, m, usecase.WithBackgroundNotification(&background))
			if err != nil {
				return err
			}
			defer cleanup()
			// pending escalations are sent before the repository closes
			defer background.Wait()

			httpHandler := httpctrl.New(uc,
				httpctrl.WithMetricsHandler(m.Handler()),
				httpctrl.WithRequestTimeout(requestTimeout),
			)
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "request_timeout", requestTimeout)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server", goerr.V("addr", addr))
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
