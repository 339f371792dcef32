package cli

import (
	"time"

	"github.com/crmdesk/agenda/pkg/cli/config"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/crmdesk/agenda/pkg/usecase"
	"github.com/crmdesk/agenda/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// agendaConfig bundles the flags every panel command needs
type agendaConfig struct {
	api      config.API
	identity config.Identity
	panel    config.Panel
}

func (x *agendaConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.api.Flags()...)
	flags = append(flags, x.identity.Flags()...)
	flags = append(flags, x.panel.Flags()...)
	return flags
}

// Configure builds the use cases for the configured viewer. The clock runs
// in the panel timezone so scopes resolve there.
func (x *agendaConfig) Configure(opts ...usecase.Option) (*usecase.UseCases, config.PanelSettings, error) {
	settings, err := x.panel.Configure()
	if err != nil {
		return nil, settings, goerr.Wrap(err, "failed to configure panel")
	}

	client, err := x.api.Configure(settings.Location)
	if err != nil {
		return nil, settings, err
	}

	viewer, err := x.identity.Configure(x.api.Token())
	if err != nil {
		return nil, settings, goerr.Wrap(err, "failed to resolve viewer")
	}

	loc := settings.Location
	base := []usecase.Option{
		usecase.WithClock(func() time.Time { return time.Now().In(loc) }),
		usecase.WithDebounceDelay(settings.Debounce),
		usecase.WithPageSize(settings.PageSize),
	}

	logging.Default().Debug("agenda configured",
		"api", x.api,
		"viewer", viewer.UserID,
		"role", viewer.Role,
		"panel", x.panel,
	)

	return usecase.New(client, viewer, append(base, opts...)...), settings, nil
}

// viewFlags selects which panel a command shows
type viewFlags struct {
	mode     string
	selected string
}

func (x *viewFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "mode",
			Aliases:     []string{"m"},
			Usage:       "Panel mode [overview|employee|assigned-to]",
			Value:       types.ViewModeOverview.String(),
			Destination: &x.mode,
		},
		&cli.StringFlag{
			Name:        "selected-user",
			Aliases:     []string{"s"},
			Usage:       "User shown in employee and assigned-to modes",
			Destination: &x.selected,
		},
	}
}

func (x *viewFlags) view(settings config.PanelSettings) (usecase.ViewState, error) {
	mode, err := types.ParseViewMode(x.mode)
	if err != nil {
		return usecase.ViewState{}, goerr.Wrap(err, "invalid --mode")
	}
	return usecase.ViewState{
		Mode:           mode,
		SelectedUserID: types.UserID(x.selected),
		Scopes:         settings.Scopes,
		Kinds:          settings.Kinds,
	}, nil
}

func panelTitle(view usecase.ViewState) string {
	title := view.Mode.String()
	if view.SelectedUserID != "" {
		title += " " + view.SelectedUserID.String()
	}
	for _, s := range view.Scopes {
		title += " · " + s.String()
	}
	return title
}
