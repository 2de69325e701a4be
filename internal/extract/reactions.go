package extract

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reaction is one "name (count)" group from a reaction annotation.
type Reaction struct {
	Name  string
	Count int
}

// Reactions scans a raw annotation such as "😀 (3), 👍 (1)".
//
// Grammar, applied repeatedly left to right:
//
//	group = name ws* "(" digit+ ")"
//	name  = one or more characters other than ","
//
// The shortest name that completes a group wins. Text that never completes a
// group is skipped up to the next comma. Names are trimmed; groups whose name
// is blank are dropped.
func Reactions(raw string) []Reaction {
	var out []Reaction
	pos := 0
	for pos < len(raw) {
		if raw[pos] == ',' {
			pos++
			continue
		}
		segEnd := strings.IndexByte(raw[pos:], ',')
		if segEnd < 0 {
			segEnd = len(raw)
		} else {
			segEnd += pos
		}
		matched := false
		for j := pos + 1; j < segEnd; j++ {
			count, end, ok := countGroup(raw, j)
			if !ok {
				continue
			}
			if name := strings.TrimSpace(raw[pos:j]); name != "" {
				out = append(out, Reaction{Name: name, Count: count})
			}
			pos = end
			matched = true
			break
		}
		if !matched {
			pos = segEnd
		}
	}
	return out
}

// countGroup matches ws* "(" digit+ ")" at i and returns the count and the
// index just past the closing parenthesis.
func countGroup(s string, i int) (count, end int, ok bool) {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	if i >= len(s) || s[i] != '(' {
		return 0, 0, false
	}
	i++
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start || i >= len(s) || s[i] != ')' {
		return 0, 0, false
	}
	n, err := strconv.Atoi(s[start:i])
	if err != nil {
		return 0, 0, false
	}
	return n, i + 1, true
}
