package rank

import (
	"cmp"
	"sort"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"

	"chatpulse/internal/model"
)

// Entry bundles an author with the derived values used for ordering.
type Entry struct {
	Stats    *model.AuthorStats `json:"stats"`
	Share    float64            `json:"share"`
	AvgWords float64            `json:"avgWords"`
	// AvgResponse is nil when the author never responded to anyone.
	AvgResponse *float64 `json:"avgResponse"`

	folded string
}

// NewEntry derives the ranking values for one author.
func NewEntry(s *model.AuthorStats, total int) Entry {
	e := Entry{Stats: s, Share: s.Share(total), AvgWords: s.AvgWords()}
	if v, ok := s.AvgResponse(); ok {
		e.AvgResponse = &v
	}
	return e
}

// comparators hold one ascending comparison per metric.
var comparators = [metricCount]func(a, b Entry) int{
	Name: func(a, b Entry) int {
		return cmp.Compare(a.folded, b.folded)
	},
	Messages: func(a, b Entry) int { return cmp.Compare(a.Stats.Messages, b.Stats.Messages) },
	// share is a monotonic transform of the message count
	Share:    func(a, b Entry) int { return cmp.Compare(a.Stats.Messages, b.Stats.Messages) },
	AvgWords: func(a, b Entry) int { return cmp.Compare(a.AvgWords, b.AvgWords) },
	AvgResponse: func(a, b Entry) int {
		return cmp.Compare(*a.AvgResponse, *b.AvgResponse)
	},
	Starters:    func(a, b Entry) int { return cmp.Compare(a.Stats.Starters, b.Stats.Starters) },
	Media:       func(a, b Entry) int { return cmp.Compare(a.Stats.Media, b.Stats.Media) },
	Emojis:      func(a, b Entry) int { return cmp.Compare(a.Stats.Emojis, b.Stats.Emojis) },
	Calls:       func(a, b Entry) int { return cmp.Compare(a.Stats.Calls, b.Stats.Calls) },
	CallMinutes: func(a, b Entry) int { return cmp.Compare(a.Stats.CallMinutes, b.Stats.CallMinutes) },
}

// Sort ranks authors by metric. Authors without a response time always come
// last when ranking by AvgResponse, whatever the direction. Ties keep input
// order.
func Sort(stats []*model.AuthorStats, metric Metric, dir Direction, total int) []Entry {
	// a Caser keeps state, so each call gets its own
	fold := cases.Fold()
	entries := make([]Entry, 0, len(stats))
	for _, s := range stats {
		e := NewEntry(s, total)
		e.folded = fold.String(s.Name)
		entries = append(entries, e)
	}
	if metric < 0 || metric >= metricCount {
		return entries
	}
	compare := comparators[metric]
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if metric == AvgResponse {
			if (a.AvgResponse == nil) != (b.AvgResponse == nil) {
				return a.AvgResponse != nil
			}
			if a.AvgResponse == nil {
				return false
			}
		}
		c := compare(a, b)
		if dir == Descending {
			c = -c
		}
		return c < 0
	})
	return entries
}

// Find fuzzy-matches query against author names, best match first.
func Find(names []string, query string) []string {
	matches := fuzzy.Find(query, names)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}
	return out
}
