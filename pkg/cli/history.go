package cli

import (
	"context"
	"os"

	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/crmdesk/agenda/pkg/usecase"
	"github.com/crmdesk/agenda/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdHistory() *cli.Command {
	var cfg agendaConfig
	var viewCfg viewFlags
	var days int
	var page int
	var pageSize int
	var statuses []string

	flags := append(cfg.Flags(), viewCfg.Flags()...)
	flags = append(flags,
		&cli.IntFlag{
			Name:        "days",
			Aliases:     []string{"d"},
			Usage:       "History window in days [7|14|30|90] (defaults to the panel setting)",
			Destination: &days,
		},
		&cli.IntFlag{
			Name:        "page",
			Aliases:     []string{"p"},
			Usage:       "Page number, starting at 1",
			Value:       1,
			Destination: &page,
		},
		&cli.IntFlag{
			Name:        "page-size",
			Usage:       "Items per page (defaults to the panel setting)",
			Destination: &pageSize,
		},
		&cli.StringSliceFlag{
			Name:        "status",
			Usage:       "Only show these statuses, repeatable",
			Destination: &statuses,
		},
	)

	return &cli.Command{
		Name:  "history",
		Usage: "List past reminders of a rolling window",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, settings, err := cfg.Configure()
			if err != nil {
				return err
			}
			defer uc.Close()

			mode, err := types.ParseViewMode(viewCfg.mode)
			if err != nil {
				return goerr.Wrap(err, "invalid --mode")
			}

			window := days
			if window == 0 {
				window = settings.HistoryDays
			}

			view := model.HistoryView{
				Kinds:    settings.Kinds,
				Page:     page,
				PageSize: pageSize,
			}
			for _, s := range statuses {
				status, err := types.ParseActivityStatus(s)
				if err != nil {
					return goerr.Wrap(err, "invalid --status")
				}
				view.Statuses = append(view.Statuses, status)
			}

			outcome, err := uc.History.Load(ctx, window, mode, types.UserID(viewCfg.selected))
			if outcome == usecase.OutcomeSkipped && err == nil {
				filter := usecase.BuildFilter(uc.Panel.Viewer(), mode, types.UserID(viewCfg.selected))
				logging.Default().Warn("nothing to show", "reason", filter.SkipReason())
				return nil
			}

			renderHistory(os.Stdout, window, uc.History.Page(view), uc.History.Snapshot(), uc.Now(), settings.Location)
			return err
		},
	}
}
