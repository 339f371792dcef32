package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/crmdesk/agenda/pkg/repository/firestore"
	"github.com/crmdesk/agenda/pkg/utils/logging"
	"github.com/crmdesk/agenda/pkg/utils/safe"
	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

type migration struct {
	projectID        string
	databaseID       string
	collectionPrefix string
	dryRun           bool
}

func (m *migration) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore project ID backing the dev API (required)",
			Required:    true,
			Sources:     cli.EnvVars("AGENDA_FIRESTORE_PROJECT_ID"),
			Destination: &m.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore database ID",
			Sources:     cli.EnvVars("AGENDA_FIRESTORE_DATABASE_ID"),
			Destination: &m.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix of Firestore collection names",
			Sources:     cli.EnvVars("AGENDA_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &m.collectionPrefix,
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Print the index plan without applying it",
			Destination: &m.dryRun,
		},
	}
}

func (m *migration) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project_id", m.projectID),
		slog.String("database_id", m.databaseID),
		slog.String("collection_prefix", m.collectionPrefix),
		slog.Bool("dry_run", m.dryRun),
	)
}

func cmdMigrate() *cli.Command {
	var m migration

	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the Firestore indexes the dev API activity queries need",
		Flags: m.flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("migrating firestore indexes", "config", &m)
			return m.run(ctx, os.Stdout)
		},
	}
}

func (m *migration) run(ctx context.Context, w io.Writer) error {
	client, err := fireconf.NewClient(ctx, m.projectID, m.databaseID)
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client", goerr.V("project_id", m.projectID))
	}
	defer safe.Close(ctx, client)

	indexes := activityIndexes(m.collectionPrefix)

	if !m.dryRun {
		if err := client.Migrate(ctx, indexes); err != nil {
			return goerr.Wrap(err, "failed to apply index migration")
		}
		logging.Default().Info("firestore indexes are up to date")
		return nil
	}

	plan, err := client.GetMigrationPlan(ctx, indexes)
	if err != nil {
		return goerr.Wrap(err, "failed to build index migration plan")
	}
	if len(plan.Steps) == 0 {
		fmt.Fprintln(w, "no index changes")
		return nil
	}
	for _, step := range plan.Steps {
		marker := " "
		if step.Destructive {
			marker = "!"
		}
		fmt.Fprintf(w, "%s %s %v: %s\n", marker, step.Collection, step.Operation, step.Description)
	}
	return nil
}

// activityIndexes is the composite index set for activity queries filtered by
// kind and ranged on the activity time
func activityIndexes(collectionPrefix string) *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: firestore.ActivityCollection(collectionPrefix),
				Indexes: []fireconf.Index{
					{
						Fields: []fireconf.IndexField{
							{Path: "kind", Order: fireconf.OrderAscending},
							{Path: "when", Order: fireconf.OrderAscending},
						},
					},
				},
			},
		},
	}
}
