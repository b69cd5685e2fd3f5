package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/pricelens/internal/chart"
	"github.com/rshade/pricelens/internal/config"
	"github.com/rshade/pricelens/internal/loader"
	"github.com/rshade/pricelens/internal/pricing"
	"github.com/rshade/pricelens/internal/tui"
)

// Output formats accepted by --output.
const (
	outputTable  = "table"
	outputJSON   = "json"
	outputNDJSON = "ndjson"
	outputChart  = "chart"
)

// chartFlags holds the flags of the chart command.
type chartFlags struct {
	tier     string
	mode     string
	selected []string
	dropped  []string
	output   string
	plain    bool
	path     string
	url      string
	root     string
}

// NewChartCmd creates the chart command, which loads the pricing CSV and shows
// it as an interactive dashboard, a styled bar chart, a table, or JSON.
func NewChartCmd() *cobra.Command {
	var flags chartFlags

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Chart input and output costs of AI models",
		Long: `Loads the pricing CSV and charts the selected models.

In an interactive terminal the dashboard opens and the flags set its initial
state. Otherwise, or when --output json/ndjson/table is given, the chart is
printed once.`,
		Example: `  # Interactive dashboard
  pricelens chart

  # Models under $1 as JSON
  pricelens chart --tier low --output json

  # Everything except one model, input costs only
  pricelens chart --deselect gpt-4 --mode input --plain`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChart(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.tier, "tier", "all", "price tier: all, low (<$1), mid ($1-$10), high (>=$10)")
	cmd.Flags().StringVar(&flags.mode, "mode", "both", "costs to show: both, input, output")
	cmd.Flags().StringSliceVar(&flags.selected, "select", nil, "show exactly these models (repeatable)")
	cmd.Flags().StringSliceVar(&flags.dropped, "deselect", nil, "hide these models (repeatable)")
	cmd.Flags().StringVar(&flags.output, "output", "", "output format: table, json, ndjson, chart (default from config)")
	cmd.Flags().BoolVar(&flags.plain, "plain", false, "force plain, non-interactive output")
	cmd.Flags().StringVar(&flags.path, "path", "", "resource path of the pricing CSV (default from config)")
	cmd.Flags().StringVar(&flags.url, "url", "", "fetch the CSV over HTTP from this base URL")
	cmd.Flags().StringVar(&flags.root, "root", "", "local directory the CSV path is resolved against")

	return cmd
}

func runChart(cmd *cobra.Command, flags chartFlags) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	actions, err := chartActions(flags)
	if err != nil {
		return err
	}

	format := config.GetOutputFormat(flags.output)
	if !isValidOutputFormat(format) {
		return fmt.Errorf("unsupported output format: %s", format)
	}
	explicit := cmd.Flags().Changed("output")

	src := newLoader(cfg, flags)
	path := cfg.Data.Path
	if flags.path != "" {
		path = flags.path
	}
	precision := config.GetOutputPrecision()

	// An explicit --output bypasses the TUI completely.
	if !explicit {
		switch tui.DetectOutputMode(flags.plain, false, false) {
		case tui.OutputModeInteractive:
			return runInteractiveTUI(ctx, src, path, precision, actions)
		case tui.OutputModeStyled:
			format = outputChart
		case tui.OutputModePlain:
			// Keep the configured format.
		}
	}

	state, err := loadState(ctx, src, path, actions)
	if err != nil {
		return err
	}
	return renderDataset(cmd.OutOrStdout(), format, chart.FromState(state), precision)
}

// chartActions turns the flags into the actions applied after loading.
// --select replaces the tier's selection; --deselect removes from it.
func chartActions(flags chartFlags) ([]pricing.Action, error) {
	tier, err := pricing.ParseTier(flags.tier)
	if err != nil {
		return nil, err
	}
	mode, err := pricing.ParseDisplayMode(flags.mode)
	if err != nil {
		return nil, err
	}

	var actions []pricing.Action
	if tier != pricing.TierAll {
		actions = append(actions, pricing.SetTier{Tier: tier})
	}
	if len(flags.selected) > 0 {
		actions = append(actions, pricing.DeselectAll{})
		for _, name := range dedupe(flags.selected) {
			actions = append(actions, pricing.Toggle{Name: name})
		}
	}
	for _, name := range dedupe(flags.dropped) {
		actions = append(actions, pricing.Deselect{Name: name})
	}
	if mode != pricing.DisplayBoth {
		actions = append(actions, pricing.SetDisplayMode{Mode: mode})
	}
	return actions, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok || n == "" {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func newLoader(cfg *config.Config, flags chartFlags) *loader.Loader {
	baseURL := cfg.Data.BaseURL
	if flags.url != "" {
		baseURL = flags.url
	}
	root := cfg.Data.Root
	if flags.root != "" {
		root = flags.root
	}
	return loader.New(loader.WithBaseURL(baseURL), loader.WithRoot(root))
}

// loadState loads and parses the CSV and applies actions.
func loadState(
	ctx context.Context,
	src tui.PriceSource,
	path string,
	actions []pricing.Action,
) (pricing.State, error) {
	text, err := src.Load(ctx, path)
	if err != nil {
		return pricing.State{}, err
	}
	records, err := pricing.ParseCSV(text)
	if err != nil {
		logger.Error().Ctx(ctx).Err(err).Msg("error parsing CSV data")
		return pricing.State{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	state := pricing.Reduce(pricing.NewState(), pricing.Loaded{Records: records})
	for _, a := range actions {
		state = pricing.Reduce(state, a)
	}
	return state, nil
}

func runInteractiveTUI(
	ctx context.Context,
	src tui.PriceSource,
	path string,
	precision int,
	actions []pricing.Action,
) error {
	m := tui.NewPricingModel(ctx, src, path,
		tui.WithPrecision(precision),
		tui.WithInitialActions(actions...),
	)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}

// renderDataset writes d in the given format.
func renderDataset(w io.Writer, format string, d chart.Dataset, precision int) error {
	switch format {
	case outputJSON:
		return chart.RenderJSON(w, d)
	case outputNDJSON:
		return chart.RenderNDJSON(w, d)
	case outputChart:
		_, err := fmt.Fprintln(w, chart.RenderBars(d, tui.TerminalWidth(), precision))
		return err
	case outputTable:
		return chart.RenderTable(w, d, precision)
	default:
		return errors.New("unsupported output format: " + format)
	}
}

// isValidOutputFormat checks if the provided format is one of the supported output formats.
func isValidOutputFormat(format string) bool {
	switch format {
	case outputTable, outputJSON, outputNDJSON, outputChart:
		return true
	default:
		return false
	}
}
