package model

import "sort"

// AuthorStats holds everything accumulated for one author during a pass.
type AuthorStats struct {
	Name          string    `json:"name"`
	Messages      int       `json:"messages"`
	WordCounts    []int     `json:"wordCounts"`
	TotalWords    int       `json:"totalWords"`
	ResponseTimes []float64 `json:"responseTimes"` // minutes
	Starters      int       `json:"starters"`
	Media         int       `json:"media"`
	Streaks       []int     `json:"streaks"`
	Emojis        int       `json:"emojis"`
	Stickers      int       `json:"stickers"`
	VoiceMessages int       `json:"voiceMessages"`
	Calls         int       `json:"calls"`
	CallMinutes   int       `json:"callMinutes"`
	CallDurations []int     `json:"callDurations"`
	Reactions     int       `json:"reactions"`
}

// NewAuthorStats returns an empty record for name.
func NewAuthorStats(name string) *AuthorStats {
	return &AuthorStats{Name: name}
}

// AvgWords is the mean words per message, 0 without messages.
func (s *AuthorStats) AvgWords() float64 {
	if len(s.WordCounts) == 0 {
		return 0
	}
	return float64(s.TotalWords) / float64(len(s.WordCounts))
}

// MedianWords is the median words per message, 0 without messages.
func (s *AuthorStats) MedianWords() float64 {
	n := len(s.WordCounts)
	if n == 0 {
		return 0
	}
	sorted := append([]int(nil), s.WordCounts...)
	sort.Ints(sorted)
	m := n / 2
	if n%2 == 0 {
		return float64(sorted[m-1]+sorted[m]) / 2
	}
	return float64(sorted[m])
}

// AvgResponse returns the mean response time in minutes.
// ok is false when the author never responded to anyone.
func (s *AuthorStats) AvgResponse() (minutes float64, ok bool) {
	if len(s.ResponseTimes) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range s.ResponseTimes {
		sum += v
	}
	return sum / float64(len(s.ResponseTimes)), true
}

// AvgStreak is the mean run length of consecutive messages.
func (s *AuthorStats) AvgStreak() float64 {
	if len(s.Streaks) == 0 {
		return 0
	}
	sum := 0
	for _, v := range s.Streaks {
		sum += v
	}
	return float64(sum) / float64(len(s.Streaks))
}

// Share is this author's fraction of total messages, in percent.
func (s *AuthorStats) Share(total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(s.Messages) / float64(total) * 100
}
