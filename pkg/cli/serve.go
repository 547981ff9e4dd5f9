package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/cli/config"
	httpctrl "github.com/secmon-lab/riskregister/pkg/controller/http"
	"github.com/secmon-lab/riskregister/pkg/usecase"
	"github.com/secmon-lab/riskregister/pkg/utils/errutil"
	"github.com/secmon-lab/riskregister/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var corsOrigins []string
	var strictReferences bool
	var seedPath string
	var repoCfg config.Repository
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address. PORT overrides the port.",
			Value:       ":5000",
			Sources:     cli.EnvVars("RISKREG_ADDR"),
			Destination: &addr,
		},
		&cli.StringSliceFlag{
			Name:        "cors-origin",
			Usage:       "Origin allowed to call the API from a browser (repeatable)",
			Value:       []string{"*"},
			Sources:     cli.EnvVars("RISKREG_CORS_ORIGIN"),
			Destination: &corsOrigins,
		},
		&cli.BoolFlag{
			Name:        "strict-references",
			Usage:       "Reject risks whose group or PIC name is unknown instead of storing a null reference",
			Sources:     cli.EnvVars("RISKREG_STRICT_REFERENCES"),
			Destination: &strictReferences,
		},
		&cli.StringFlag{
			Name:        "seed",
			Usage:       "Seed TOML file loaded before serving",
			Sources:     cli.EnvVars("RISKREG_SEED"),
			Destination: &seedPath,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return goerr.Wrap(err, "failed to configure sentry")
			}
			defer flush()

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo, usecase.WithStrictReferences(strictReferences))

			if seedPath != "" {
				if err := runSeed(ctx, uc, seedPath); err != nil {
					return err
				}
			}

			if port := os.Getenv("PORT"); port != "" {
				host, _, err := net.SplitHostPort(addr)
				if err != nil {
					return goerr.Wrap(err, "invalid server address", goerr.V("addr", addr))
				}
				addr = net.JoinHostPort(host, port)
			}

			return serveHTTP(ctx, addr, httpctrl.New(uc, httpctrl.WithCORSOrigins(corsOrigins)))
		},
	}
}

func serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 30 * time.Second,
	}

	// Setup signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		logging.Default().Info("Starting HTTP server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- goerr.Wrap(err, "failed to start server")
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logging.Default().Info("Context cancelled, shutting down")
	case sig := <-sigCh:
		logging.Default().Info("Received shutdown signal", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		errutil.Handle(ctx, err, "failed to shutdown server gracefully")
		return goerr.Wrap(err, "failed to shutdown server gracefully")
	}

	logging.Default().Info("Server shutdown completed")
	return nil
}
