package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is how results are presented on the current terminal.
type OutputMode int

const (
	// OutputModePlain is uncoloured text, for pipes and dumb terminals.
	OutputModePlain OutputMode = iota
	// OutputModeStyled is coloured, non-interactive output.
	OutputModeStyled
	// OutputModeInteractive runs the full-screen dashboard.
	OutputModeInteractive
)

// defaultWidth is used when the terminal width cannot be determined.
const defaultWidth = 100

// defaultHeight is used when the terminal height cannot be determined.
const defaultHeight = 30

func (m OutputMode) String() string {
	switch m {
	case OutputModePlain:
		return "plain"
	case OutputModeStyled:
		return "styled"
	case OutputModeInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// DetectOutputMode picks an output mode from flags, environment and the
// terminal attached to stdout.
func DetectOutputMode(forcePlain, forceNoColor, forceStyled bool) OutputMode {
	return detectOutputMode(forcePlain, forceNoColor, forceStyled, os.LookupEnv, isTerminal(os.Stdout) && isTerminal(os.Stdin))
}

func detectOutputMode(
	forcePlain, forceNoColor, forceStyled bool,
	lookupEnv func(string) (string, bool),
	tty bool,
) OutputMode {
	if forcePlain || forceNoColor {
		return OutputModePlain
	}
	if _, ok := lookupEnv("NO_COLOR"); ok {
		return OutputModePlain
	}
	if v, _ := lookupEnv("TERM"); v == "dumb" {
		return OutputModePlain
	}
	if !tty {
		return OutputModePlain
	}
	if forceStyled {
		return OutputModeStyled
	}
	if _, ok := lookupEnv("CI"); ok {
		return OutputModeStyled
	}
	return OutputModeInteractive
}

// TerminalWidth returns the width of stdout, or defaultWidth.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
