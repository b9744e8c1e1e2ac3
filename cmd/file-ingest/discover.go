package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/iancoleman/strcase"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turbot/tailpipe-file-ingest/config"
	"github.com/turbot/tailpipe-file-ingest/constants"
	"github.com/turbot/tailpipe-file-ingest/discovery"
	"github.com/turbot/tailpipe-file-ingest/object_source"
)

func discoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "discover [flags]",
		Short:   "Sample the files of each table and write a catalog",
		PreRunE: bindFlags,
		RunE:    runDiscoverCmd,
	}

	cmd.Flags().String("config", defaultConfigPath, "Path of the sync configuration file")
	cmd.Flags().StringSlice("table", nil, "Table to discover, may be repeated (default: all tables)")
	cmd.Flags().String("output", strcase.ToSnake(constants.ToolName)+"_catalog.yml", "Path the catalog is written to, - for stdout")

	return cmd
}

func runDiscoverCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return err
	}
	tables, err := cfg.SelectTables(viper.GetStringSlice("table"))
	if err != nil {
		return err
	}

	src, err := object_source.New(ctx, cfg.Source)
	if err != nil {
		return err
	}
	defer src.Close()

	catalog, err := discovery.NewDiscoverer(src).DiscoverCatalog(ctx, tables)
	if err != nil {
		return err
	}
	data, err := catalog.Marshal()
	if err != nil {
		return err
	}

	output := viper.GetString("output")
	if output == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	slog.Info("Catalog written", "path", output, "streams", len(catalog.Streams))
	return nil
}
