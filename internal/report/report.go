// Package report renders check results as colored text, JSON and SARIF.
package report

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// palette holds the escape sequences used for one writer; all fields are
// empty when the writer is not a color terminal.
type palette struct {
	reset, red, yellow, green, bold, cyan, gray string
}

var colored = palette{
	reset:  colorReset,
	red:    colorRed,
	yellow: colorYellow,
	green:  colorGreen,
	bold:   colorBold,
	cyan:   colorCyan,
	gray:   colorGray,
}

// ForceColor overrides terminal detection when non-nil.
var ForceColor *bool

func paletteFor(w io.Writer) palette {
	if ForceColor != nil {
		if *ForceColor {
			return colored
		}
		return palette{}
	}
	// NO_COLOR convention: https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return palette{}
	}
	f, ok := w.(*os.File)
	if !ok {
		return palette{}
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return palette{}
	}
	if os.Getenv("TERM") == "dumb" {
		return palette{}
	}
	return colored
}
