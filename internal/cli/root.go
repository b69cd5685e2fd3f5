// Package cli implements the pricelens command tree.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/pricelens/internal/config"
	"github.com/rshade/pricelens/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the pricelens CLI.
// It wires up configuration, logging and tracing, and the chart, serve and
// config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithArgs(ver, os.LookupEnv)
}

// NewRootCmdWithArgs creates the root command with an explicit env lookup for
// testability.
func NewRootCmdWithArgs(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	var logResult *logging.Result

	cmd := &cobra.Command{
		Use:     "pricelens",
		Short:   "Compare AI model pricing",
		Long:    "pricelens: chart input and output token costs of AI models from a pricing CSV",
		Version: ver,
		Example: rootCmdExample,
		// Errors are printed once by main.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd, lookupEnv); err != nil {
				return err
			}
			logResult = setupLogging(cmd)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging to stderr")
	cmd.PersistentFlags().String("config", "", "config file (default ~/.pricelens/config.yaml)")
	cmd.AddCommand(NewChartCmd(), NewServeCmd(), NewConfigCmd())

	return cmd
}

// loadConfig reads the config named by --config, PRICELENS_CONFIG or the
// default location and installs it as the global config.
func loadConfig(cmd *cobra.Command, lookupEnv func(string) (string, bool)) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		if v, ok := lookupEnv(config.EnvConfigPath); ok {
			path = v
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	config.SetGlobalConfig(cfg)
	return nil
}

const rootCmdExample = `  # Open the interactive pricing dashboard
  pricelens chart

  # Show only the high tier, output costs, as a table
  pricelens chart --tier high --mode output --output table

  # Compare two models as JSON
  pricelens chart --select gpt-4o --select claude-3-opus --output json

  # Fetch the CSV from a running server
  pricelens chart --url http://localhost:8080

  # Publish the CSV and the chart dataset over HTTP
  pricelens serve --addr :8080

  # Initialize configuration
  pricelens config init`
