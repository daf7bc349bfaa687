package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/exhibithub/internal/app/store/audit"
	exhibitionstore "github.com/dalemusser/exhibithub/internal/app/store/exhibitions"
	"github.com/dalemusser/exhibithub/internal/app/system/auditlog"
	"github.com/dalemusser/exhibithub/internal/app/system/listcache"
	"github.com/dalemusser/exhibithub/internal/app/system/timeouts"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	DryRun bool
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import scraped exhibitions from a YAML file",
		Long: `Import a YAML list of scraped exhibitions.

Each entry (museum_id, title, start_date, end_date, official_url,
image_url) goes through the same creation guard as the web panel, with
origin "scrape". Existing exhibitions are never overwritten; they are
counted as already_exists.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print derived ids without touching the database")

	return cmd
}

func runImport(cmd *cobra.Command, rootOpts *RootOptions, opts *ImportOptions, file string) error {
	entries, err := ReadEntriesFile(file)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if opts.DryRun {
		rep := DryRun(out, entries)
		fmt.Fprintf(out, "%d entries, %d invalid\n", len(entries), rep.Invalid)
		return nil
	}

	logger, err := rootOpts.newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Batch(), logger, "import "+file)
	defer cancel()

	db, closeDB, err := connectMongo(ctx, rootOpts)
	if err != nil {
		return err
	}
	defer closeDB()

	batchID := uuid.NewString()
	im := &Importer{
		Store:   exhibitionstore.New(db, logger),
		Audit:   auditlog.New(audit.New(db), logger, auditlog.Config{Admin: auditlog.DestOff, Ingest: auditlog.DestAll}),
		Log:     logger,
		BatchID: batchID,
		Out:     out,
	}

	rep, runErr := im.Run(ctx, file, entries)
	if rep.Created > 0 {
		invalidateListCache(ctx, rootOpts, logger)
	}

	fmt.Fprintf(out, "batch %s: %d created, %d already exists, %d museum not found, %d invalid\n",
		batchID, rep.Created, rep.AlreadyExists, rep.MuseumNotFound, rep.Invalid)
	return runErr
}

func connectMongo(ctx context.Context, o *RootOptions) (*mongo.Database, func(), error) {
	if err := wafflemongo.ValidateURI(o.MongoURI); err != nil {
		return nil, nil, err
	}
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(o.MongoURI).
		SetServerSelectionTimeout(10*time.Second))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
	return client.Database(o.MongoDatabase), closeFn, nil
}

// invalidateListCache bumps the generation of the server's listing cache
// so imported exhibitions show up in cached totals.
func invalidateListCache(ctx context.Context, o *RootOptions, logger *zap.Logger) {
	rdb := listcache.Connect(ctx, o.RedisAddr, envOr("REDIS_PASSWORD", ""), o.RedisDB, logger)
	if rdb == nil {
		return
	}
	defer rdb.Close()
	listcache.New(rdb, listcache.DefaultPrefix, 0, logger).Invalidate(ctx)
}
