package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pricelens/internal/cli"
	"github.com/rshade/pricelens/internal/config"
	"github.com/rshade/pricelens/internal/loader"
	"github.com/rshade/pricelens/internal/pricing"
)

const sampleCSV = `Model,Input Cost,Output Cost
gpt-4,$30.00,$60.00
gpt-4o-mini,$0.15,$0.60
claude-sonnet,$3.00,$15.00
`

// setupCLITest isolates config and log files and writes the sample CSV under
// a temporary data root, which it returns.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvConfigPath, filepath.Join(home, "config.yaml"))
	t.Setenv(config.EnvLogFile, filepath.Join(home, "pricelens.log"))
	t.Setenv(config.EnvDataURL, "")
	t.Setenv("NO_COLOR", "1")
	t.Cleanup(config.ResetGlobalConfigForTest)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "model_prices.csv"), []byte(sampleCSV), 0o600))
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

type jsonPoint struct {
	Name   string   `json:"name"`
	Input  *float64 `json:"Input"`
	Output *float64 `json:"Output"`
}

func decodeDataset(t *testing.T, out string) []jsonPoint {
	t.Helper()
	var body struct {
		Points []jsonPoint `json:"points"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body), out)
	return body.Points
}

func names(points []jsonPoint) []string {
	out := make([]string, 0, len(points))
	for _, p := range points {
		out = append(out, p.Name)
	}
	return out
}

func TestRootCmd(t *testing.T) {
	root := cli.NewRootCmd("1.2.3")
	assert.Equal(t, "pricelens", root.Use)
	assert.Equal(t, "1.2.3", root.Version)

	var sub []string
	for _, c := range root.Commands() {
		sub = append(sub, c.Name())
	}
	assert.Subset(t, sub, []string{"chart", "serve", "config"})
}

func TestChart_JSONAllModels(t *testing.T) {
	root := setupCLITest(t)
	out, err := execute(t, "chart", "--root", root, "--output", "json")
	require.NoError(t, err)

	points := decodeDataset(t, out)
	assert.Equal(t, []string{"gpt-4", "gpt-4o-mini", "claude-sonnet"}, names(points))
	require.NotNil(t, points[0].Input)
	assert.InDelta(t, 30.0, *points[0].Input, 1e-9)
}

func TestChart_TierFlag(t *testing.T) {
	root := setupCLITest(t)

	tests := []struct {
		tier string
		want []string
	}{
		{"low", []string{"gpt-4o-mini"}},
		{"mid", []string{"claude-sonnet"}},
		{"high", []string{"gpt-4"}},
		{"all", []string{"gpt-4", "gpt-4o-mini", "claude-sonnet"}},
	}
	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			out, err := execute(t, "chart", "--root", root, "--output", "json", "--tier", tt.tier)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(decodeDataset(t, out)))
		})
	}
}

func TestChart_SelectAndDeselect(t *testing.T) {
	root := setupCLITest(t)

	out, err := execute(t, "chart", "--root", root, "--output", "json",
		"--select", "claude-sonnet", "--select", "gpt-4")
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4", "claude-sonnet"}, names(decodeDataset(t, out)))

	out, err = execute(t, "chart", "--root", root, "--output", "json", "--deselect", "gpt-4,not-a-model")
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4o-mini", "claude-sonnet"}, names(decodeDataset(t, out)))
}

func TestChart_ModeOutputOmitsInput(t *testing.T) {
	root := setupCLITest(t)
	out, err := execute(t, "chart", "--root", root, "--output", "json", "--mode", "output")
	require.NoError(t, err)

	for _, p := range decodeDataset(t, out) {
		assert.Nil(t, p.Input)
		assert.NotNil(t, p.Output)
	}
}

func TestChart_NDJSON(t *testing.T) {
	root := setupCLITest(t)
	out, err := execute(t, "chart", "--root", root, "--output", "ndjson", "--tier", "high")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"gpt-4","Input":30,"Output":60}`, out)
}

func TestChart_Table(t *testing.T) {
	root := setupCLITest(t)
	out, err := execute(t, "chart", "--root", root, "--output", "table", "--mode", "input")
	require.NoError(t, err)

	assert.Contains(t, out, "MODEL")
	assert.Contains(t, out, "INPUT")
	assert.NotContains(t, out, "OUTPUT")
	assert.Contains(t, out, "$30.00")
	assert.Contains(t, out, "$0.15")
}

func TestChart_PlainUsesConfiguredFormat(t *testing.T) {
	root := setupCLITest(t)
	out, err := execute(t, "chart", "--root", root, "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "MODEL")
	assert.Contains(t, out, "claude-sonnet")
}

func TestChart_Errors(t *testing.T) {
	root := setupCLITest(t)

	_, err := execute(t, "chart", "--root", root, "--output", "json", "--tier", "cheap")
	require.ErrorIs(t, err, pricing.ErrUnknownTier)

	_, err = execute(t, "chart", "--root", root, "--output", "json", "--mode", "sideways")
	require.ErrorIs(t, err, pricing.ErrUnknownDisplayMode)

	_, err = execute(t, "chart", "--root", root, "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")

	_, err = execute(t, "chart", "--root", root, "--output", "json", "--path", "/data/missing.csv")
	var fetchErr *loader.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 404, fetchErr.Status)
}

func TestChart_QuotedCSVFails(t *testing.T) {
	root := setupCLITest(t)
	path := filepath.Join(root, "data", "quoted.csv")
	require.NoError(t, os.WriteFile(path, []byte("Model,In,Out\n\"a,b\",$1,$2\n"), 0o600))

	_, err := execute(t, "chart", "--root", root, "--output", "json", "--path", "/data/quoted.csv")
	require.ErrorIs(t, err, pricing.ErrQuotedField)
}

func TestConfigInitAndShow(t *testing.T) {
	setupCLITest(t)
	path := os.Getenv(config.EnvConfigPath)

	out, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized at "+path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = execute(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)

	out, err = execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# loaded from "+path)
	assert.Contains(t, out, "path: /data/model_prices.csv")
	assert.Contains(t, out, "default_format: table")
}

func TestConfigFlagOverridesEnv(t *testing.T) {
	setupCLITest(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  default_format: json\n  precision: 3\n"), 0o600))

	out, err := execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "default_format: json")
	assert.Contains(t, out, "precision: 3")
}

func TestConfigValidate(t *testing.T) {
	root := setupCLITest(t)
	t.Setenv(config.EnvDataRoot, root)

	out, err := execute(t, "config", "validate", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "(3 models)")
	assert.Contains(t, out, "Configuration is valid")

	t.Setenv(config.EnvDataPath, "/data/missing.csv")
	_, err = execute(t, "config", "validate")
	require.Error(t, err)
}
