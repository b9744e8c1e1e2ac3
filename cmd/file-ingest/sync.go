package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turbot/tailpipe-file-ingest/collection"
	"github.com/turbot/tailpipe-file-ingest/collection_state"
	"github.com/turbot/tailpipe-file-ingest/config"
	"github.com/turbot/tailpipe-file-ingest/context_values"
	"github.com/turbot/tailpipe-file-ingest/events"
	"github.com/turbot/tailpipe-file-ingest/object_source"
	"github.com/turbot/tailpipe-file-ingest/observable"
	"github.com/turbot/tailpipe-file-ingest/schema"
	"github.com/turbot/tailpipe-file-ingest/sink"
)

const defaultConfigPath = "file_ingest.hcl"

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sync [flags]",
		Short:   "Sync new and modified objects of the configured tables",
		PreRunE: bindFlags,
		RunE:    runSyncCmd,
	}

	cmd.Flags().String("config", defaultConfigPath, "Path of the sync configuration file")
	cmd.Flags().String("catalog", "", "Path of the catalog, overrides the catalog set in the configuration")
	cmd.Flags().StringSlice("table", nil, "Table to sync, may be repeated (default: all tables)")
	cmd.Flags().String("schedule", "", "Cron expression; when set the sync runs on the schedule until interrupted")

	return cmd
}

func runSyncCmd(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return err
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	tables := viper.GetStringSlice("table")

	schedule := viper.GetString("schedule")
	if schedule == "" {
		return syncOnce(ctx, cfg, catalog, tables)
	}
	return syncOnSchedule(ctx, schedule, cfg, catalog, tables)
}

func loadCatalog(cfg *config.Config) (*schema.Catalog, error) {
	path := viper.GetString("catalog")
	if path == "" && cfg.Catalog != nil {
		path = *cfg.Catalog
	}
	if path == "" {
		return nil, errors.New("no catalog configured, set --catalog or the catalog attribute")
	}
	return schema.LoadCatalog(path)
}

func syncOnSchedule(ctx context.Context, schedule string, cfg *config.Config, catalog *schema.Catalog, tables []string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(schedule, func() {
		if err := syncOnce(ctx, cfg, catalog, tables); err != nil {
			slog.Error("Scheduled sync failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	slog.Info("Sync scheduled", "schedule", schedule)
	c.Start()
	<-ctx.Done()

	// wait for a running sync to finish
	<-c.Stop().Done()
	slog.Info("Scheduler stopped")
	return nil
}

func syncOnce(ctx context.Context, cfg *config.Config, catalog *schema.Catalog, tables []string) (err error) {
	executionId := context_values.NewExecutionId()
	ctx = context_values.WithExecutionId(ctx, executionId)

	src, err := object_source.New(ctx, cfg.Source)
	if err != nil {
		return err
	}
	defer src.Close()

	store, err := collection_state.New(ctx, cfg.State)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	dest, err := sink.New(cfg.Sink)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := dest.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	status := events.NewStatusEvent(executionId)
	syncer := &collection.Syncer{
		Config:  cfg,
		Catalog: catalog,
		Source:  src,
		Store:   store,
		Sink:    dest,
	}
	err = syncer.AddObserver(observable.ObserverFunc(func(_ context.Context, e events.Event) error {
		status.Update(e)
		return nil
	}))
	if err != nil {
		return err
	}

	_, err = syncer.Sync(ctx, tables...)
	slog.Info("Sync complete",
		"execution_id", executionId,
		"tables", status.TablesCompleted,
		"objects_discovered", status.ObjectsDiscovered,
		"objects_synced", status.ObjectsSynced,
		"objects_skipped", status.ObjectsSkipped,
		"records", status.RecordsEmitted,
		"errors", status.Errors)
	return err
}
