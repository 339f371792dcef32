package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/crmdesk/agenda/pkg/service/worker"
	"github.com/crmdesk/agenda/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// PanelFile is the TOML shape of the panel settings file
type PanelFile struct {
	Scopes       []string `toml:"scopes"`
	Kinds        []string `toml:"kinds"`
	HistoryDays  int      `toml:"history_days"`
	PageSize     int      `toml:"page_size"`
	Debounce     string   `toml:"debounce"`
	TickInterval string   `toml:"tick_interval"`
	Timezone     string   `toml:"timezone"`
}

// PanelSettings are the resolved panel defaults
type PanelSettings struct {
	Scopes       []types.ScopeName
	Kinds        []types.ActivityKind
	HistoryDays  int
	PageSize     int
	Debounce     time.Duration
	TickInterval time.Duration
	Location     *time.Location
}

// DefaultPanelSettings returns the settings used when nothing is configured
func DefaultPanelSettings() PanelSettings {
	return PanelSettings{
		Scopes:       []types.ScopeName{types.ScopeToday, types.ScopeTomorrow},
		Kinds:        types.AllActivityKinds(),
		HistoryDays:  types.HistoryDays[0],
		PageSize:     model.DefaultHistoryPageSize,
		Debounce:     usecase.DefaultDebounce,
		TickInterval: worker.DefaultTickInterval,
		Location:     time.Local,
	}
}

// Validate checks every setting
func (s PanelSettings) Validate() error {
	if len(s.Scopes) == 0 {
		return goerr.Wrap(ErrInvalidConfig, "at least one scope is required", goerr.V(FieldKey, "scopes"))
	}
	for _, scope := range s.Scopes {
		if !scope.IsValid() {
			return goerr.Wrap(ErrInvalidConfig, "unknown scope", goerr.V(FieldKey, "scopes"), goerr.V(ValueKey, scope))
		}
	}
	if len(s.Kinds) == 0 {
		return goerr.Wrap(ErrInvalidConfig, "at least one kind is required", goerr.V(FieldKey, "kinds"))
	}
	for _, kind := range s.Kinds {
		if !kind.IsValid() {
			return goerr.Wrap(ErrInvalidConfig, "unknown kind", goerr.V(FieldKey, "kinds"), goerr.V(ValueKey, kind))
		}
	}
	if !types.IsValidHistoryDays(s.HistoryDays) {
		return goerr.Wrap(ErrInvalidConfig, "history days must be one of 7, 14, 30, 90",
			goerr.V(FieldKey, "history_days"), goerr.V(ValueKey, s.HistoryDays))
	}
	if s.PageSize <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "page size must be positive",
			goerr.V(FieldKey, "page_size"), goerr.V(ValueKey, s.PageSize))
	}
	if s.Debounce < usecase.MinDebounce || s.Debounce > usecase.MaxDebounce {
		return goerr.Wrap(ErrInvalidConfig, "debounce must be between 200ms and 300ms",
			goerr.V(FieldKey, "debounce"), goerr.V(ValueKey, s.Debounce.String()))
	}
	if s.TickInterval < time.Second {
		return goerr.Wrap(ErrInvalidConfig, "tick interval must be at least 1s",
			goerr.V(FieldKey, "tick_interval"), goerr.V(ValueKey, s.TickInterval.String()))
	}
	if s.Location == nil {
		return goerr.Wrap(ErrInvalidConfig, "timezone is required", goerr.V(FieldKey, "timezone"))
	}
	return nil
}

// apply overlays the non-empty values of f onto s
func (f *PanelFile) apply(s *PanelSettings) error {
	if len(f.Scopes) > 0 {
		scopes, err := parseScopes(f.Scopes)
		if err != nil {
			return err
		}
		s.Scopes = scopes
	}
	if len(f.Kinds) > 0 {
		kinds, err := parseKinds(f.Kinds)
		if err != nil {
			return err
		}
		s.Kinds = kinds
	}
	if f.HistoryDays != 0 {
		s.HistoryDays = f.HistoryDays
	}
	if f.PageSize != 0 {
		s.PageSize = f.PageSize
	}
	if f.Debounce != "" {
		d, err := time.ParseDuration(f.Debounce)
		if err != nil {
			return goerr.Wrap(ErrInvalidConfig, "invalid debounce", goerr.V(ValueKey, f.Debounce))
		}
		s.Debounce = d
	}
	if f.TickInterval != "" {
		d, err := time.ParseDuration(f.TickInterval)
		if err != nil {
			return goerr.Wrap(ErrInvalidConfig, "invalid tick interval", goerr.V(ValueKey, f.TickInterval))
		}
		s.TickInterval = d
	}
	if f.Timezone != "" {
		loc, err := time.LoadLocation(f.Timezone)
		if err != nil {
			return goerr.Wrap(ErrInvalidConfig, "unknown timezone", goerr.V(ValueKey, f.Timezone))
		}
		s.Location = loc
	}
	return nil
}

func parseScopes(values []string) ([]types.ScopeName, error) {
	scopes := make([]types.ScopeName, 0, len(values))
	for _, v := range values {
		scope, err := types.ParseScopeName(v)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidConfig, "unknown scope", goerr.V(ValueKey, v))
		}
		scopes = append(scopes, scope)
	}
	return scopes, nil
}

func parseKinds(values []string) ([]types.ActivityKind, error) {
	kinds := make([]types.ActivityKind, 0, len(values))
	for _, v := range values {
		kind, err := types.ParseActivityKind(v)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidConfig, "unknown kind", goerr.V(ValueKey, v))
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// LoadPanelSettings reads a TOML settings file over the defaults
func LoadPanelSettings(path string) (PanelSettings, error) {
	settings := DefaultPanelSettings()

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, goerr.Wrap(ErrConfigNotFound, "panel config not found", goerr.V(ConfigPathKey, path))
		}
		return settings, goerr.Wrap(err, "failed to read panel config", goerr.V(ConfigPathKey, path))
	}

	var file PanelFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return settings, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML panel config",
			goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
	}
	if err := file.apply(&settings); err != nil {
		return settings, goerr.Wrap(err, "invalid panel config", goerr.V(ConfigPathKey, path))
	}
	if err := settings.Validate(); err != nil {
		return settings, goerr.Wrap(err, "panel config validation failed", goerr.V(ConfigPathKey, path))
	}
	return settings, nil
}

// Panel holds CLI flags for panel settings. Flags override the file.
type Panel struct {
	path     string
	scopes   []string
	kinds    []string
	timezone string
}

func (x *Panel) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "panel-config",
			Usage:       "Path to the panel settings TOML file",
			Category:    "Panel",
			Sources:     cli.EnvVars("AGENDA_PANEL_CONFIG"),
			Destination: &x.path,
		},
		&cli.StringSliceFlag{
			Name:        "scope",
			Usage:       "Scopes to show [today|tomorrow|week|month], repeatable",
			Category:    "Panel",
			Sources:     cli.EnvVars("AGENDA_SCOPES"),
			Destination: &x.scopes,
		},
		&cli.StringSliceFlag{
			Name:        "kind",
			Usage:       "Activity kinds to show [CALL|EMAIL|MEETING], repeatable",
			Category:    "Panel",
			Sources:     cli.EnvVars("AGENDA_KINDS"),
			Destination: &x.kinds,
		},
		&cli.StringFlag{
			Name:        "timezone",
			Aliases:     []string{"tz"},
			Usage:       "IANA timezone scopes are resolved in (defaults to local)",
			Category:    "Panel",
			Sources:     cli.EnvVars("AGENDA_TIMEZONE"),
			Destination: &x.timezone,
		},
	}
}

func (x Panel) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", x.path),
		slog.Any("scopes", x.scopes),
		slog.Any("kinds", x.kinds),
		slog.String("timezone", x.timezone),
	)
}

// Configure resolves the panel settings from defaults, file and flags
func (x *Panel) Configure() (PanelSettings, error) {
	settings := DefaultPanelSettings()
	if x.path != "" {
		loaded, err := LoadPanelSettings(x.path)
		if err != nil {
			return settings, err
		}
		settings = loaded
	}

	overlay := PanelFile{
		Scopes:   x.scopes,
		Kinds:    x.kinds,
		Timezone: x.timezone,
	}
	if err := overlay.apply(&settings); err != nil {
		return settings, err
	}
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}
