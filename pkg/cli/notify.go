package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/crmdesk/agenda/pkg/cli/config"
	"github.com/crmdesk/agenda/pkg/usecase"
	"github.com/crmdesk/agenda/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdNotify() *cli.Command {
	var cfg agendaConfig
	var slackCfg config.Slack
	var dryRun bool

	flags := append(cfg.Flags(), slackCfg.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "dry-run",
		Usage:       "Print the digest instead of posting it",
		Destination: &dryRun,
	})

	return &cli.Command{
		Name:  "notify",
		Usage: "Post today's pending reminders to Slack",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			var opts []usecase.Option
			if !dryRun {
				svc, err := slackCfg.Configure()
				if err != nil {
					return goerr.Wrap(err, "failed to configure slack")
				}
				opts = append(opts, usecase.WithSlack(svc, slackCfg.ChannelID()))
			}

			uc, _, err := cfg.Configure(opts...)
			if err != nil {
				return err
			}
			defer uc.Close()

			if dryRun {
				due, err := uc.Notify.DueReminders(ctx)
				if err != nil {
					return err
				}
				_, text := usecase.BuildDigestBlocks(due, uc.Now())
				fmt.Fprintln(os.Stdout, text)
				return nil
			}

			n, err := uc.Notify.SendDueDigest(ctx)
			if err != nil {
				return err
			}
			logging.Default().Info("notify finished", "reminders", n, "slack", slackCfg)
			return nil
		},
	}
}
