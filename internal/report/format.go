package report

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"

	"chatpulse/internal/util"
)

const previewRunes = 120

var strict = bluemonday.StrictPolicy()

// Duration renders minutes as "45m", "2h 5m" or "1d 3h".
func Duration(mins int) string {
	if mins < 60 {
		return strconv.Itoa(mins) + "m"
	}
	h, m := mins/60, mins%60
	if h < 24 {
		if m > 0 {
			return fmt.Sprintf("%dh %dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
	d, rh := h/24, h%24
	if rh > 0 {
		return fmt.Sprintf("%dd %dh", d, rh)
	}
	return fmt.Sprintf("%dd", d)
}

// Preview strips markup from message content for display. Messages without
// text (attachments, embeds) get a placeholder.
func Preview(content string) string {
	// sanitize escapes entities; undo that for terminal output
	s := util.NormalizeWhitespace(html.UnescapeString(strict.Sanitize(content)))
	if s == "" {
		return "[attachment/embed]"
	}
	return util.Ellipsize(s, previewRunes)
}

func num(n int) string { return humanize.Comma(int64(n)) }

// bar draws a proportional bar of at most width cells.
func bar(n, peak, width int) string {
	if peak <= 0 || n <= 0 {
		return ""
	}
	cells := n * width / peak
	if cells == 0 {
		cells = 1
	}
	return strings.Repeat("█", cells)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
