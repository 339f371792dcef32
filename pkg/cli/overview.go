package cli

import (
	"context"
	"os"

	"github.com/crmdesk/agenda/pkg/usecase"
	"github.com/crmdesk/agenda/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdOverview() *cli.Command {
	var cfg agendaConfig
	var viewCfg viewFlags

	flags := append(cfg.Flags(), viewCfg.Flags()...)

	return &cli.Command{
		Name:    "overview",
		Aliases: []string{"o"},
		Usage:   "Print the reminder and meeting panel once",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, settings, err := cfg.Configure()
			if err != nil {
				return err
			}
			defer uc.Close()

			view, err := viewCfg.view(settings)
			if err != nil {
				return err
			}

			snap, outcome, err := uc.Panel.Load(ctx, view)
			if outcome == usecase.OutcomeSkipped && err == nil {
				filter := usecase.BuildFilter(uc.Panel.Viewer(), view.Mode, view.SelectedUserID)
				logging.Default().Warn("nothing to show", "reason", filter.SkipReason())
				return nil
			}

			renderPanel(os.Stdout, panelTitle(view), snap, uc.Now(), settings.Location)
			return err
		},
	}
}
