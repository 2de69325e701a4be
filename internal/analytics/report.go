package analytics

import (
	"fmt"

	"chatpulse/internal/model"
	"chatpulse/internal/rank"
)

// DefaultTopAuthors is how many authors the charts focus on.
const DefaultTopAuthors = 6

// Report is the result bundle of one aggregation pass.
type Report struct {
	TotalMessages int             `json:"totalMessages"`
	TotalWords    int             `json:"totalWords"`
	ActiveDays    int             `json:"activeDays"`
	DailyAverage  int             `json:"dailyAverage"`
	Conversations int             `json:"conversations"`
	LongestStreak int             `json:"longestStreak"`
	TopSender     model.NameCount `json:"topSender"`
	TopStarter    model.NameCount `json:"topStarter"`
	BusiestDay    DayCount        `json:"busiestDay"`
	Media         int             `json:"media"`
	VoiceMessages int             `json:"voiceMessages"`
	Stickers      int             `json:"stickers"`
	Emojis        int             `json:"emojis"`
	FirstDate     string          `json:"firstDate"`
	LastDate      string          `json:"lastDate"`

	Authors     map[string]*model.AuthorStats `json:"authors"`
	AuthorOrder []string                      `json:"authorOrder"`
	TopAuthors  []string                      `json:"topAuthors"`

	HourCounts      [24]int        `json:"hourCounts"`
	DayOfWeekCounts [7]int         `json:"dayOfWeekCounts"`
	Heatmap         [7][24]int     `json:"heatmap"`
	DateCounts      map[string]int `json:"dateCounts"`
	TimePeriods     TimePeriods    `json:"timePeriods"`
	WordCounts      map[string]int `json:"wordCounts"`
	EmojiCounts     map[string]int `json:"emojiCounts"`

	// Reactions and Calls are nil when the log holds none.
	Reactions *ReactionStats `json:"reactions,omitempty"`
	Calls     *CallStats     `json:"calls,omitempty"`

	Filter FilterSummary `json:"filter"`
}

// DayCount is a message count for one calendar day.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TimePeriods splits messages by time of day.
type TimePeriods struct {
	Morning   int `json:"morning"`   // 06-11
	Afternoon int `json:"afternoon"` // 12-17
	Evening   int `json:"evening"`   // 18-23
	Night     int `json:"night"`     // 00-05
}

// FilterSummary describes how many rows reached the pass.
type FilterSummary struct {
	Raw       int  `json:"raw"`
	Valid     int  `json:"valid"`
	Processed int  `json:"processed"`
	Bounded   bool `json:"bounded"`
}

// Summary reads like "120 of 450 messages".
func (f FilterSummary) Summary() string {
	return fmt.Sprintf("%d of %d messages", f.Processed, f.Valid)
}

// ReactionStats is the reaction analytics bundle.
type ReactionStats struct {
	Total           int                `json:"total"`
	ReactedMessages int                `json:"reactedMessages"`
	Counts          map[string]int     `json:"counts"`
	Received        map[string]int     `json:"received"`
	TopReceiver     model.NameCount    `json:"topReceiver"`
	MostReacted     *MostReactedRecord `json:"mostReacted,omitempty"`
}

// Unique is the number of distinct reactions seen.
func (r *ReactionStats) Unique() int { return len(r.Counts) }

// MostReactedRecord is the message with the highest reaction total.
type MostReactedRecord struct {
	Author    string `json:"author"`
	Content   string `json:"content"`
	Reactions string `json:"reactions"`
	Count     int    `json:"count"`
}

// CallStats is the call analytics bundle.
type CallStats struct {
	Total        int               `json:"total"`
	TotalMinutes int               `json:"totalMinutes"`
	Average      float64           `json:"average"`
	Longest      int               `json:"longest"`
	Shortest     int               `json:"shortest"`
	TopCaller    model.NameCount   `json:"topCaller"`
	Entries      []model.CallEntry `json:"entries"`
	ByWeekday    [7]int            `json:"byWeekday"`
	Distribution []BucketCount     `json:"distribution"`
}

// BucketCount is one bar of the call duration distribution.
type BucketCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Rank orders every author by metric.
func (r *Report) Rank(metric rank.Metric, dir rank.Direction) []rank.Entry {
	stats := make([]*model.AuthorStats, 0, len(r.AuthorOrder))
	for _, name := range r.AuthorOrder {
		stats = append(stats, r.Authors[name])
	}
	return rank.Sort(stats, metric, dir, r.TotalMessages)
}

// SortedDates returns active days in ascending order.
func (r *Report) SortedDates() []string { return sortedKeys(r.DateCounts) }

// Cumulative returns the running message total per active day.
func (r *Report) Cumulative() []DayCount {
	days := r.SortedDates()
	out := make([]DayCount, 0, len(days))
	total := 0
	for _, d := range days {
		total += r.DateCounts[d]
		out = append(out, DayCount{Date: d, Count: total})
	}
	return out
}

// TopWords returns the n most frequent words.
func (r *Report) TopWords(n int) []model.NameCount { return topN(r.WordCounts, n) }

// TopEmojis returns the n most used custom emojis.
func (r *Report) TopEmojis(n int) []model.NameCount { return topN(r.EmojiCounts, n) }
