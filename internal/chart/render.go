package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// tabwriterPadding is the minimum padding between table columns.
const tabwriterPadding = 2

// RenderTable writes d as an aligned text table with one column per enabled
// series.
func RenderTable(w io.Writer, d Dataset, precision int) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)

	header := []string{"MODEL"}
	for _, s := range d.Series {
		header = append(header, strings.ToUpper(s.Key))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, p := range d.Points {
		cols := []string{p.Name}
		for _, s := range d.Series {
			cols = append(cols, FormatCost(Value(p, s.Key), precision))
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}

// jsonNumber encodes NaN and infinities as null instead of failing.
type jsonNumber float64

func (n jsonNumber) MarshalJSON() ([]byte, error) {
	if !isFinite(float64(n)) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(n), 'f', -1, 64)), nil
}

// JSONPoint is the wire form of one chart category. Series hidden by the
// display mode are omitted.
type JSONPoint struct {
	Name   string      `json:"name"`
	Input  *jsonNumber `json:"Input,omitempty"`
	Output *jsonNumber `json:"Output,omitempty"`
}

// JSONDataset is the wire form of a dataset.
type JSONDataset struct {
	Mode   string      `json:"mode"`
	Series []string    `json:"series"`
	Points []JSONPoint `json:"points"`
}

// ToJSON converts d to its wire form.
func ToJSON(d Dataset) JSONDataset {
	out := JSONDataset{
		Mode:   d.Mode.String(),
		Series: make([]string, 0, len(d.Series)),
		Points: make([]JSONPoint, 0, len(d.Points)),
	}
	for _, s := range d.Series {
		out.Series = append(out.Series, s.Key)
	}
	for _, p := range d.Points {
		out.Points = append(out.Points, toJSONPoint(d, p.Name, p.Input, p.Output))
	}
	return out
}

func toJSONPoint(d Dataset, name string, input, output float64) JSONPoint {
	jp := JSONPoint{Name: name}
	if d.Mode.ShowsInput() {
		v := jsonNumber(input)
		jp.Input = &v
	}
	if d.Mode.ShowsOutput() {
		v := jsonNumber(output)
		jp.Output = &v
	}
	return jp
}

// RenderJSON writes d as one indented JSON document.
func RenderJSON(w io.Writer, d Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToJSON(d)); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// RenderNDJSON writes one JSON object per point.
func RenderNDJSON(w io.Writer, d Dataset) error {
	enc := json.NewEncoder(w)
	for _, p := range ToJSON(d).Points {
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encoding NDJSON: %w", err)
		}
	}
	return nil
}
