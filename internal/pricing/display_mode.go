package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// DisplayMode selects which cost series the chart plots.
type DisplayMode int

// Display modes, in the order the buttons are shown.
const (
	DisplayBoth DisplayMode = iota
	DisplayInput
	DisplayOutput
	numDisplayModes
)

// ErrUnknownDisplayMode is returned by ParseDisplayMode for unrecognised names.
var ErrUnknownDisplayMode = errors.New("unknown display mode")

// DisplayModes returns every mode in display order.
func DisplayModes() []DisplayMode {
	return []DisplayMode{DisplayBoth, DisplayInput, DisplayOutput}
}

func (m DisplayMode) String() string {
	switch m {
	case DisplayBoth:
		return "both"
	case DisplayInput:
		return "input"
	case DisplayOutput:
		return "output"
	default:
		return "unknown"
	}
}

// Next returns the following mode, wrapping after output.
func (m DisplayMode) Next() DisplayMode {
	return (m + 1) % numDisplayModes
}

// ShowsInput reports whether the input series is plotted.
func (m DisplayMode) ShowsInput() bool {
	return m == DisplayBoth || m == DisplayInput
}

// ShowsOutput reports whether the output series is plotted.
func (m DisplayMode) ShowsOutput() bool {
	return m == DisplayBoth || m == DisplayOutput
}

// ParseDisplayMode converts a mode name (case-insensitive) to a DisplayMode.
// An empty string is treated as "both".
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both":
		return DisplayBoth, nil
	case "input":
		return DisplayInput, nil
	case "output":
		return DisplayOutput, nil
	default:
		return DisplayBoth, fmt.Errorf("%w: %q (want both, input or output)", ErrUnknownDisplayMode, s)
	}
}
