package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/turbot/tailpipe-file-ingest/constants"
)

var exitCode int

// Build the cobra command that handles our command line tool.
func rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          constants.ToolName + " COMMAND [args]",
		Short:        "Incrementally ingest delimited and JSON lines files from an object store",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// every flag can also be set as FILE_INGEST_<FLAG>
	viper.SetEnvPrefix(strings.ReplaceAll(constants.ToolName, "-", "_"))
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(
		syncCmd(),
		discoverCmd(),
	)

	return rootCmd
}

func Execute() int {
	if err := rootCommand().Execute(); err != nil {
		exitCode = 1
	}
	return exitCode
}

// bindFlags binds the flags of the command being run, commands share flag names so
// binding happens when the command runs rather than when it is built
func bindFlags(cmd *cobra.Command, _ []string) error {
	return viper.BindPFlags(cmd.Flags())
}
