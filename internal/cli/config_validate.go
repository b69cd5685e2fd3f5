package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/pricelens/internal/config"
	"github.com/rshade/pricelens/internal/pricing"
)

// NewConfigValidateCmd creates the config validate command. Beyond the checks
// Load already makes, it confirms the configured CSV can be loaded and parsed.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and the pricing data it points at",
		Example: `  # Validate current configuration
  pricelens config validate

  # Validate and show detailed information
  pricelens config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	src := newLoader(cfg, chartFlags{})
	text, err := src.Load(cmd.Context(), cfg.Data.Path)
	if err != nil {
		return fmt.Errorf("pricing data: %w", err)
	}
	records, err := pricing.ParseCSV(text)
	if err != nil {
		return fmt.Errorf("pricing data: %w", err)
	}

	if verbose {
		cmd.Printf("Data: %s (%d models)\n", cfg.Data.Path, len(records))
		for _, tier := range pricing.Tiers()[1:] {
			cmd.Printf("  %-5s %d\n", tier, len(pricing.NamesInTier(records, tier)))
		}
	}
	cmd.Println("Configuration is valid")
	return nil
}
