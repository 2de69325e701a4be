package rank

import (
	"fmt"
	"strings"
)

// Metric selects the column authors are ordered by.
type Metric int

const (
	Name Metric = iota
	Messages
	Share
	AvgWords
	AvgResponse
	Starters
	Media
	Emojis
	Calls
	CallMinutes

	metricCount
)

var metricKeys = [metricCount]string{
	Name:        "name",
	Messages:    "msgs",
	Share:       "share",
	AvgWords:    "words",
	AvgResponse: "resp",
	Starters:    "starts",
	Media:       "media",
	Emojis:      "emojis",
	Calls:       "calls",
	CallMinutes: "calltime",
}

// Metrics lists every metric in table column order.
func Metrics() []Metric {
	out := make([]Metric, 0, metricCount)
	for m := Metric(0); m < metricCount; m++ {
		out = append(out, m)
	}
	return out
}

func (m Metric) String() string {
	if m < 0 || m >= metricCount {
		return fmt.Sprintf("Metric(%d)", int(m))
	}
	return metricKeys[m]
}

// ParseMetric maps a column key ("msgs", "resp", ...) to a Metric.
func ParseMetric(s string) (Metric, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, k := range metricKeys {
		if k == s {
			return Metric(m), nil
		}
	}
	return 0, fmt.Errorf("unknown sort metric %q", s)
}

// DefaultDirection is the order a column starts in when first selected:
// names and response times read best ascending, counts descending.
func (m Metric) DefaultDirection() Direction {
	if m == Name || m == AvgResponse {
		return Ascending
	}
	return Descending
}

// Direction is the sort order requested by the caller.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

func (d Direction) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

// ParseDirection accepts "asc" or "desc".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return 0, fmt.Errorf("unknown sort order %q", s)
}
