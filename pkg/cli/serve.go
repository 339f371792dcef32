package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crmdesk/agenda/pkg/cli/config"
	httpctrl "github.com/crmdesk/agenda/pkg/controller/http"
	"github.com/crmdesk/agenda/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var tokenSecret string
	var timezone string
	var repoCfg config.Repository
	var seedCfg config.Seed

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("AGENDA_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "token-secret",
			Usage:       "HS256 secret; when set, /activities requires a signed bearer token",
			Category:    "Authentication",
			Sources:     cli.EnvVars("AGENDA_TOKEN_SECRET"),
			Destination: &tokenSecret,
		},
		&cli.StringFlag{
			Name:        "timezone",
			Aliases:     []string{"tz"},
			Usage:       "IANA timezone zone-less dates are read in (defaults to local)",
			Sources:     cli.EnvVars("AGENDA_TIMEZONE"),
			Destination: &timezone,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, seedCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start a development activity API",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			loc := time.Local
			if timezone != "" {
				l, err := time.LoadLocation(timezone)
				if err != nil {
					return goerr.Wrap(err, "invalid --timezone", goerr.V("timezone", timezone))
				}
				loc = l
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			if _, err := seedCfg.Configure(ctx, repo.Activity(), time.Now(), loc); err != nil {
				return goerr.Wrap(err, "failed to seed repository")
			}

			httpOpts := []httpctrl.Options{
				httpctrl.WithLocation(loc),
			}
			if tokenSecret != "" {
				httpOpts = append(httpOpts, httpctrl.WithTokenSecret([]byte(tokenSecret)))
				logging.Default().Info("Bearer token verification enabled")
			} else {
				logging.Default().Warn("Running without authentication (development only)")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(repo, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "repository", repoCfg.Backend())
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
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
