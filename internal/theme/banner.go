package theme

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	cyan    = "\033[36m"
	magenta = "\033[35m"
	yellow  = "\033[33m"
	reset   = "\033[0m"
)

// Banner returns the CLI banner, colored when color is true.
func Banner(color bool) string {
	paint := func(c, s string) string {
		if !color {
			return s
		}
		return c + s + reset
	}
	return "" +
		paint(cyan, "   ▁▂▃▅▆▇ ") + paint(magenta, "CHATPULSE") + paint(cyan, " ▇▆▅▃▂▁\n") +
		paint(yellow, "   ─────────────────────────────\n") +
		"   who talks, when, and how much\n"
}

// PrintBanner writes the banner to w, colored only for terminals.
func PrintBanner(w io.Writer) {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd())
	}
	fmt.Fprint(w, Banner(color))
}
