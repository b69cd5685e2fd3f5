package chart

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pricelens/internal/pricing"
)

func samplePoints() []pricing.ChartPoint {
	return []pricing.ChartPoint{
		{Name: "gpt-4", Input: 30, Output: 60},
		{Name: "gpt-4o-mini", Input: 0.15, Output: 0.6},
		{Name: "broken", Input: math.NaN(), Output: 1},
	}
}

func TestBars_SeriesByMode(t *testing.T) {
	tests := []struct {
		mode pricing.DisplayMode
		want []string
	}{
		{pricing.DisplayBoth, []string{KeyInput, KeyOutput}},
		{pricing.DisplayInput, []string{KeyInput}},
		{pricing.DisplayOutput, []string{KeyOutput}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			d := Bars(samplePoints(), tt.mode)
			keys := []string{}
			for _, s := range d.Series {
				keys = append(keys, s.Key)
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestBars_NilPoints(t *testing.T) {
	d := Bars(nil, pricing.DisplayBoth)
	assert.NotNil(t, d.Points)
	assert.Empty(t, d.Points)
}

func TestFromState(t *testing.T) {
	s := pricing.Reduce(pricing.NewState(), pricing.Loaded{Records: []pricing.PriceRecord{
		{Name: "a", InputCost: "$1", OutputCost: "$2"},
		{Name: "b", InputCost: "$3", OutputCost: "$4"},
	}})
	s = pricing.Reduce(s, pricing.Toggle{Name: "a"})
	s = pricing.Reduce(s, pricing.SetDisplayMode{Mode: pricing.DisplayInput})

	d := FromState(s)
	require.Len(t, d.Points, 1)
	assert.Equal(t, "b", d.Points[0].Name)
	assert.Equal(t, pricing.DisplayInput, d.Mode)
}

func TestMax_IgnoresNaNAndHiddenSeries(t *testing.T) {
	assert.InDelta(t, 60.0, Bars(samplePoints(), pricing.DisplayBoth).Max(), 1e-9)
	assert.InDelta(t, 30.0, Bars(samplePoints(), pricing.DisplayInput).Max(), 1e-9)
	assert.Zero(t, Bars(nil, pricing.DisplayBoth).Max())
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$30.00", FormatCost(30, 2))
	assert.Equal(t, "$0.150", FormatCost(0.15, 3))
	assert.Equal(t, "-$1.50", FormatCost(-1.5, 2))
	assert.Equal(t, "n/a", FormatCost(math.NaN(), 2))
	assert.Equal(t, "n/a", FormatCost(math.Inf(1), 2))
}

func TestBarLength(t *testing.T) {
	assert.Equal(t, 40, barLength(60, 60, 40))
	assert.Equal(t, 20, barLength(30, 60, 40))
	assert.Equal(t, 1, barLength(0.01, 60, 40))
	assert.Equal(t, 0, barLength(0, 60, 40))
	assert.Equal(t, 0, barLength(-5, 60, 40))
	assert.Equal(t, 0, barLength(math.NaN(), 60, 40))
	assert.Equal(t, 0, barLength(5, 0, 40))
}

func TestRenderBars(t *testing.T) {
	out := RenderBars(Bars(samplePoints(), pricing.DisplayBoth), 80, 2)
	assert.Contains(t, out, "gpt-4")
	assert.Contains(t, out, "$60.00")
	assert.Contains(t, out, "n/a")
	assert.Contains(t, out, "Input Cost")
	assert.Contains(t, out, "Output Cost")

	out = RenderBars(Bars(samplePoints(), pricing.DisplayOutput), 80, 2)
	assert.NotContains(t, out, "Input Cost")
	assert.NotContains(t, out, "$30.00")
}

func TestRenderBars_Empty(t *testing.T) {
	assert.Contains(t, RenderBars(Bars(nil, pricing.DisplayBoth), 80, 2), "No models selected")
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, Bars(samplePoints(), pricing.DisplayInput), 2))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"MODEL", "INPUT"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"gpt-4", "$30.00"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"broken", "n/a"}, strings.Fields(lines[3]))
}

func TestRenderJSON_ModeExcludesSeries(t *testing.T) {
	tests := []struct {
		mode       pricing.DisplayMode
		wantInput  bool
		wantOutput bool
	}{
		{pricing.DisplayBoth, true, true},
		{pricing.DisplayInput, true, false},
		{pricing.DisplayOutput, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderJSON(&buf, Bars(samplePoints(), tt.mode)))

			var doc struct {
				Mode   string           `json:"mode"`
				Points []map[string]any `json:"points"`
			}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
			assert.Equal(t, tt.mode.String(), doc.Mode)
			require.Len(t, doc.Points, 3)
			for _, p := range doc.Points {
				_, hasInput := p[KeyInput]
				_, hasOutput := p[KeyOutput]
				assert.Equal(t, tt.wantInput, hasInput)
				assert.Equal(t, tt.wantOutput, hasOutput)
			}
		})
	}
}

func TestRenderJSON_NaNIsNull(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, Bars(samplePoints(), pricing.DisplayBoth)))
	assert.Contains(t, buf.String(), `"Input": null`)
	assert.Contains(t, buf.String(), `"Output": 60`)
}

func TestRenderNDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderNDJSON(&buf, Bars(samplePoints()[:2], pricing.DisplayBoth)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"name":"gpt-4","Input":30,"Output":60}`, lines[0])
	assert.JSONEq(t, `{"name":"gpt-4o-mini","Input":0.15,"Output":0.6}`, lines[1])
}
