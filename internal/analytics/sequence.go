package analytics

import (
	"math"
	"time"

	"chatpulse/internal/model"
)

const (
	// conversationGap starts a new conversation and marks a starter.
	conversationGap = time.Hour
	// responseWindow bounds how late a reply still counts as a response.
	responseWindow = 2 * time.Hour
)

// sequence holds the adjacency state shared by the streak, conversation and
// starter/response analyzers. It only ever looks at the previous record.
type sequence struct {
	started    bool
	lastTime   time.Time
	lastAuthor string
	run        int

	conversations int
}

// observe classifies rec against the previous record and updates its author.
func (s *sequence) observe(rec model.Record, authors map[string]*model.AuthorStats) {
	st := authors[rec.Author]

	if s.started && rec.Author == s.lastAuthor {
		s.run++
	} else {
		if s.started {
			authors[s.lastAuthor].Streaks = append(authors[s.lastAuthor].Streaks, s.run)
		}
		s.run = 1
	}

	if !s.started {
		st.Starters++
		s.conversations = 1
	} else {
		gap := rec.Time.Sub(s.lastTime)
		switch {
		case gap > conversationGap:
			st.Starters++
			s.conversations++
		case s.lastAuthor != rec.Author && gap < responseWindow && gap > 0:
			st.ResponseTimes = append(st.ResponseTimes, gap.Minutes())
		}
	}

	s.started = true
	s.lastTime = rec.Time
	s.lastAuthor = rec.Author
}

// finish flushes the final streak.
func (s *sequence) finish(authors map[string]*model.AuthorStats) {
	if s.started {
		authors[s.lastAuthor].Streaks = append(authors[s.lastAuthor].Streaks, s.run)
	}
}

// dayScan walks active days in order to find the busiest day and the
// longest run of consecutive active days.
func dayScan(dates []string, counts map[string]int) (busiest DayCount, longest int) {
	var prev time.Time
	current := 0
	for i, d := range dates {
		if counts[d] > busiest.Count {
			busiest = DayCount{Date: d, Count: counts[d]}
		}
		day, err := time.Parse(dayKeyLayout, d)
		if err != nil {
			continue
		}
		if i == 0 || prev.IsZero() {
			current = 1
		} else if math.Round(day.Sub(prev).Hours()/24) == 1 {
			current++
		} else {
			if current > longest {
				longest = current
			}
			current = 1
		}
		prev = day
	}
	if current > longest {
		longest = current
	}
	return busiest, longest
}
