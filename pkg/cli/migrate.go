package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/repository/firestore"
	"github.com/secmon-lab/dualscope/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var projectID string
	var databaseID string
	var collectionPrefix string
	var dryRun bool

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate Firestore indexes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "firestore-project-id",
				Usage:       "Firestore Project ID (required)",
				Required:    true,
				Sources:     cli.EnvVars("DUALSCOPE_FIRESTORE_PROJECT_ID"),
				Destination: &projectID,
			},
			&cli.StringFlag{
				Name:        "firestore-database-id",
				Usage:       "Firestore Database ID",
				Value:       defaultDatabaseID,
				Sources:     cli.EnvVars("DUALSCOPE_FIRESTORE_DATABASE_ID"),
				Destination: &databaseID,
			},
			&cli.StringFlag{
				Name:        "firestore-collection-prefix",
				Usage:       "Collection name prefix used by the serve command",
				Sources:     cli.EnvVars("DUALSCOPE_FIRESTORE_COLLECTION_PREFIX"),
				Destination: &collectionPrefix,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Preview changes without applying",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			logger.Info("Migrate configuration",
				"projectID", projectID,
				"databaseID", databaseID,
				"collectionPrefix", collectionPrefix,
				"dryRun", dryRun)

			return migrate(ctx, projectID, databaseID, getIndexConfig(collectionPrefix), dryRun)
		},
	}
}

const defaultDatabaseID = "(default)"

func migrate(ctx context.Context, projectID, databaseID string, indexConfig *fireconf.Config, dryRun bool) error {
	logger := logging.Default()

	client, err := fireconf.New(ctx, projectID, databaseID, indexConfig,
		fireconf.WithDryRun(dryRun),
		fireconf.WithLogger(logger),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID))
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close fireconf client", "error", err.Error())
		}
	}()

	if dryRun {
		logger.Info("Dry run mode - previewing changes")
	} else {
		logger.Info("Applying migrations")
	}

	if err := client.Migrate(ctx); err != nil {
		return goerr.Wrap(err, "failed to apply migrations")
	}

	if !dryRun {
		logger.Info("Migrations applied successfully")
	}
	return nil
}

// filterFields are the equality filters the dashboard pushes down to Firestore.
// Each needs a composite index with the timestamp ordering.
var filterFields = []string{"tier", "category", "dissemination", "audience"}

func getIndexConfig(prefix string) *fireconf.Config {
	name := firestore.AssessmentsCollection
	if prefix != "" {
		name = prefix + "_" + name
	}

	var indexes []fireconf.Index
	for _, field := range filterFields {
		indexes = append(indexes, fireconf.Index{
			Fields: []fireconf.IndexField{
				{Path: field, Order: fireconf.OrderAscending},
				{Path: "timestamp", Order: fireconf.OrderDescending},
			},
		})
	}

	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{Name: name, Indexes: indexes},
		},
	}
}
