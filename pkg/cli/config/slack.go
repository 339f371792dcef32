package config

import (
	"log/slog"

	slacksvc "github.com/crmdesk/agenda/pkg/service/slack"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

type Slack struct {
	botToken  string
	channelID string
	apiURL    string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token for posting digests",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("AGENDA_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID digests are posted to",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("AGENDA_SLACK_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "slack-api-url",
			Usage:       "Override the Slack API endpoint",
			Category:    "Slack",
			Destination: &x.apiURL,
			Sources:     cli.EnvVars("AGENDA_SLACK_API_URL"),
			Hidden:      true,
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel", x.channelID),
	)
}

// IsConfigured checks if both the token and the channel are set
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channelID != ""
}

// ChannelID returns the digest channel
func (x *Slack) ChannelID() string {
	return x.channelID
}

// Configure creates the Slack service
func (x *Slack) Configure() (slacksvc.Service, error) {
	if !x.IsConfigured() {
		return nil, goerr.New("--slack-bot-token and --slack-channel are required")
	}

	var opts []slacksvc.Option
	if x.apiURL != "" {
		opts = append(opts, slacksvc.WithAPIURL(x.apiURL))
	}

	svc, err := slacksvc.New(x.botToken, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack service")
	}
	return svc, nil
}
