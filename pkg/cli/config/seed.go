package config

import (
	"context"
	"os"
	"time"

	"github.com/crmdesk/agenda/pkg/domain/interfaces"
	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/crmdesk/agenda/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// SeedFile is the TOML shape of a seed file:
//
//	[[activity]]
//	kind = "CALL"
//	offset = "2h"          # or when = "2024-05-15 10:00:00"
//	status = "PENDING"
//	assigned_to = "u1"
type SeedFile struct {
	Activities []SeedActivity `toml:"activity"`
}

// SeedActivity is one seeded activity. Offset is relative to load time and
// takes precedence over When.
type SeedActivity struct {
	ID            string `toml:"id"`
	Kind          string `toml:"kind"`
	When          string `toml:"when"`
	Offset        string `toml:"offset"`
	Status        string `toml:"status"`
	AssignedTo    string `toml:"assigned_to"`
	Assignee      string `toml:"assignee"`
	CreatedBy     string `toml:"created_by"`
	CreatedByName string `toml:"created_by_name"`
	OpportunityID string `toml:"opportunity_id"`
	ClientName    string `toml:"client_name"`
	Title         string `toml:"title"`
	Notes         string `toml:"notes"`
}

func (s *SeedActivity) build(now time.Time, loc *time.Location) (*model.Activity, error) {
	kind, err := types.ParseActivityKind(s.Kind)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidSeed, "unknown kind", goerr.V(ValueKey, s.Kind))
	}

	var when model.Timestamp
	switch {
	case s.Offset != "":
		d, err := time.ParseDuration(s.Offset)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidSeed, "invalid offset", goerr.V(ValueKey, s.Offset))
		}
		when = model.Local(now.In(loc).Add(d).Truncate(time.Second))
	case s.When != "":
		ts, err := model.ParseTimestamp(s.When, loc)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidSeed, "invalid when", goerr.V(ValueKey, s.When))
		}
		when = ts
	default:
		return nil, goerr.Wrap(ErrInvalidSeed, "either when or offset is required")
	}

	// first status of the kind is its initial one
	status := types.StatusesFor(kind)[0]
	if s.Status != "" {
		if status, err = types.ParseActivityStatus(s.Status); err != nil {
			return nil, goerr.Wrap(ErrInvalidSeed, "unknown status", goerr.V(ValueKey, s.Status))
		}
	}

	return &model.Activity{
		ID:               types.ActivityID(s.ID),
		Kind:             kind,
		When:             when,
		Status:           status,
		AssignedToUserID: types.UserID(s.AssignedTo),
		Assignee:         s.Assignee,
		CreatedByUserID:  types.UserID(s.CreatedBy),
		CreatedBy:        s.CreatedByName,
		OpportunityID:    s.OpportunityID,
		ClientName:       s.ClientName,
		Title:            s.Title,
		Notes:            s.Notes,
	}, nil
}

// Build converts the file into activities relative to now
func (f *SeedFile) Build(now time.Time, loc *time.Location) ([]*model.Activity, error) {
	items := make([]*model.Activity, 0, len(f.Activities))
	for i := range f.Activities {
		a, err := f.Activities[i].build(now, loc)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid seed entry", goerr.V(IndexKey, i))
		}
		items = append(items, a)
	}
	return items, nil
}

// LoadSeedFile parses a TOML seed file
func LoadSeedFile(path string) (*SeedFile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read seed file", goerr.V(ConfigPathKey, path))
	}

	var file SeedFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidSeed, "failed to parse TOML seed file",
			goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
	}
	return &file, nil
}

// Seed holds the CLI flag for the development seed file
type Seed struct {
	path string
}

func (x *Seed) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "seed",
			Usage:       "TOML file of activities loaded into the repository at startup",
			Category:    "Repository",
			Sources:     cli.EnvVars("AGENDA_SEED"),
			Destination: &x.path,
		},
	}
}

// Configure loads the seed file into repo and returns the number of
// activities stored. No seed file is a no-op.
func (x *Seed) Configure(ctx context.Context, repo interfaces.ActivityRepository, now time.Time, loc *time.Location) (int, error) {
	if x.path == "" {
		return 0, nil
	}

	file, err := LoadSeedFile(x.path)
	if err != nil {
		return 0, err
	}
	items, err := file.Build(now, loc)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to build seed", goerr.V(ConfigPathKey, x.path))
	}

	for _, a := range items {
		if _, err := repo.Put(ctx, a); err != nil {
			return 0, goerr.Wrap(err, "failed to store seed activity", goerr.V("title", a.Title))
		}
	}

	logging.From(ctx).Info("seeded activities", "path", x.path, "count", len(items))
	return len(items), nil
}
