package analytics

import (
	"sort"
	"time"

	"chatpulse/internal/model"
)

const dayKeyLayout = "2006-01-02"

// DayKey buckets t by its calendar day in t's own location.
func DayKey(t time.Time) string { return t.Format(dayKeyLayout) }

func (p *TimePeriods) add(hour int) {
	switch {
	case hour >= 6 && hour < 12:
		p.Morning++
	case hour >= 12 && hour < 18:
		p.Afternoon++
	case hour >= 18:
		p.Evening++
	default:
		p.Night++
	}
}

// sortedKeys returns map keys in ascending order.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// topN returns the n largest entries, count descending then name ascending.
// n <= 0 returns everything.
func topN(m map[string]int, n int) []model.NameCount {
	items := make([]model.NameCount, 0, len(m))
	for k, v := range m {
		items = append(items, model.NameCount{Name: k, Count: v})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Name < items[j].Name
		}
		return items[i].Count > items[j].Count
	})
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	return items
}

// sortStableByMessages orders names by message count, most active first.
func sortStableByMessages(names []string, authors map[string]*model.AuthorStats) {
	sort.SliceStable(names, func(i, j int) bool {
		return authors[names[i]].Messages > authors[names[j]].Messages
	})
}
