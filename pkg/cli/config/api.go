package config

import (
	"log/slog"
	"time"

	"github.com/crmdesk/agenda/pkg/service/activity"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// API holds CLI flags for the activity API collaborator
type API struct {
	url     string
	token   string
	timeout time.Duration
}

func (x *API) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "api-url",
			Usage:       "Base URL of the CRM activity API",
			Category:    "API",
			Value:       "http://localhost:8080",
			Sources:     cli.EnvVars("AGENDA_API_URL"),
			Destination: &x.url,
		},
		&cli.StringFlag{
			Name:        "api-token",
			Usage:       "Bearer token sent to the activity API",
			Category:    "API",
			Sources:     cli.EnvVars("AGENDA_API_TOKEN"),
			Destination: &x.token,
		},
		&cli.DurationFlag{
			Name:        "api-timeout",
			Usage:       "Timeout of a single activity API request",
			Category:    "API",
			Value:       activity.DefaultTimeout,
			Sources:     cli.EnvVars("AGENDA_API_TIMEOUT"),
			Destination: &x.timeout,
		},
	}
}

func (x API) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", x.url),
		slog.Int("token.len", len(x.token)),
		slog.Duration("timeout", x.timeout),
	)
}

// Token returns the configured bearer token
func (x *API) Token() string {
	return x.token
}

// Configure creates the activity client. Zone-less dates are written in loc.
func (x *API) Configure(loc *time.Location) (activity.Service, error) {
	opts := []activity.Option{
		activity.WithLocation(loc),
	}
	if x.token != "" {
		opts = append(opts, activity.WithToken(x.token))
	}
	if x.timeout > 0 {
		opts = append(opts, activity.WithTimeout(x.timeout))
	}

	svc, err := activity.New(x.url, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create activity client")
	}
	return svc, nil
}
