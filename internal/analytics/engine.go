package analytics

import (
	"math"

	"chatpulse/internal/extract"
	"chatpulse/internal/filter"
	"chatpulse/internal/model"
	"chatpulse/internal/util"
)

const previewLength = 200

// Run filters rows and aggregates the survivors. An empty selection returns
// filter.ErrNoData or filter.ErrNoDataInRange.
func Run(rows []model.Row, opts filter.Options) (*Report, error) {
	res, err := filter.Apply(rows, opts)
	if err != nil {
		return nil, err
	}
	rep := Aggregate(res.Records)
	rep.Filter = FilterSummary{Raw: res.Raw, Valid: res.Valid, Processed: len(res.Records), Bounded: opts.Bounded()}
	return rep, nil
}

// pass is the mutable state of one aggregation. It is created per call and
// never shared.
type pass struct {
	rep *Report
	seq sequence

	reactions      *ReactionStats
	receivedOrder  []string
	calls          []model.CallEntry
	callsByWeekday [7]int
	callMinutes    int
}

// Aggregate computes the full report for records already sorted by time.
func Aggregate(records []model.Record) *Report {
	p := &pass{rep: &Report{
		Authors:     make(map[string]*model.AuthorStats),
		DateCounts:  make(map[string]int),
		WordCounts:  make(map[string]int),
		EmojiCounts: make(map[string]int),
	}}
	for _, rec := range records {
		if _, ok := p.rep.Authors[rec.Author]; !ok {
			p.rep.Authors[rec.Author] = model.NewAuthorStats(rec.Author)
			p.rep.AuthorOrder = append(p.rep.AuthorOrder, rec.Author)
		}
	}
	for _, rec := range records {
		p.add(rec)
	}
	p.seq.finish(p.rep.Authors)
	p.summarize()
	return p.rep
}

func (p *pass) add(rec model.Record) {
	rep := p.rep
	st := rep.Authors[rec.Author]

	if mins, ok := extract.Call(rec.Content); ok {
		st.Calls++
		st.CallMinutes += mins
		st.CallDurations = append(st.CallDurations, mins)
		p.calls = append(p.calls, model.CallEntry{Time: rec.Time, Minutes: mins, Author: rec.Author})
		p.callsByWeekday[rec.Time.Weekday()]++
		p.callMinutes += mins
	}

	if extract.HasVoice(rec.Attachments) {
		st.VoiceMessages++
		rep.VoiceMessages++
	}

	if _, ok := extract.Sticker(rec.Content); ok {
		st.Stickers++
		rep.Stickers++
	}

	for _, e := range extract.Emojis(rec.Content) {
		st.Emojis++
		rep.Emojis++
		rep.EmojiCounts[e.Name]++
	}

	p.seq.observe(rec, rep.Authors)

	if extract.HasMedia(rec.Content, rec.Attachments) {
		st.Media++
		rep.Media++
	}

	p.addReactions(rec, st)

	st.Messages++
	hour := rec.Time.Hour()
	day := rec.Time.Weekday()
	rep.HourCounts[hour]++
	rep.DayOfWeekCounts[day]++
	rep.Heatmap[day][hour]++
	rep.TimePeriods.add(hour)
	rep.DateCounts[DayKey(rec.Time)]++

	wc := extract.WordCount(rec.Content)
	st.WordCounts = append(st.WordCounts, wc)
	st.TotalWords += wc
	rep.TotalWords += wc
	for _, w := range extract.Tokens(rec.Content) {
		rep.WordCounts[w]++
	}
}

func (p *pass) addReactions(rec model.Record, st *model.AuthorStats) {
	found := extract.Reactions(rec.Reactions)
	if len(found) == 0 {
		return
	}
	if p.reactions == nil {
		p.reactions = &ReactionStats{Counts: make(map[string]int), Received: make(map[string]int)}
	}
	rs := p.reactions
	total := 0
	for _, r := range found {
		rs.Counts[r.Name] += r.Count
		total += r.Count
	}
	rs.Total += total
	if total <= 0 {
		return
	}
	rs.ReactedMessages++
	if _, seen := rs.Received[rec.Author]; !seen {
		p.receivedOrder = append(p.receivedOrder, rec.Author)
	}
	rs.Received[rec.Author] += total
	st.Reactions += total
	if rs.MostReacted == nil || total > rs.MostReacted.Count {
		rs.MostReacted = &MostReactedRecord{
			Author:    rec.Author,
			Content:   util.Truncate(rec.Content, previewLength),
			Reactions: rec.Reactions,
			Count:     total,
		}
	}
}

func (p *pass) summarize() {
	rep := p.rep
	rep.Conversations = p.seq.conversations

	for _, name := range rep.AuthorOrder {
		st := rep.Authors[name]
		rep.TotalMessages += st.Messages
		if st.Messages > rep.TopSender.Count {
			rep.TopSender = model.NameCount{Name: name, Count: st.Messages}
		}
		if st.Starters > rep.TopStarter.Count {
			rep.TopStarter = model.NameCount{Name: name, Count: st.Starters}
		}
	}
	rep.TopAuthors = topAuthors(rep, DefaultTopAuthors)

	dates := rep.SortedDates()
	rep.ActiveDays = len(dates)
	if len(dates) > 0 {
		rep.FirstDate = dates[0]
		rep.LastDate = dates[len(dates)-1]
	}
	days := len(dates)
	if days == 0 {
		days = 1
	}
	rep.DailyAverage = int(math.Round(float64(rep.TotalMessages) / float64(days)))
	rep.BusiestDay, rep.LongestStreak = dayScan(dates, rep.DateCounts)

	if p.reactions != nil && p.reactions.Total > 0 {
		rs := p.reactions
		for _, name := range p.receivedOrder {
			if rs.Received[name] > rs.TopReceiver.Count {
				rs.TopReceiver = model.NameCount{Name: name, Count: rs.Received[name]}
			}
		}
		rep.Reactions = rs
	}

	if len(p.calls) > 0 {
		rep.Calls = p.callStats()
	}
}

func (p *pass) callStats() *CallStats {
	cs := &CallStats{
		Total:        len(p.calls),
		TotalMinutes: p.callMinutes,
		Entries:      p.calls,
		ByWeekday:    p.callsByWeekday,
		Longest:      p.calls[0].Minutes,
		Shortest:     p.calls[0].Minutes,
	}
	cs.Average = float64(cs.TotalMinutes) / float64(cs.Total)
	buckets := make(map[string]int, len(extract.CallBuckets))
	for _, c := range p.calls {
		cs.Longest = max(cs.Longest, c.Minutes)
		cs.Shortest = min(cs.Shortest, c.Minutes)
		buckets[extract.CallBucket(c.Minutes)]++
	}
	for _, label := range extract.CallBuckets {
		cs.Distribution = append(cs.Distribution, BucketCount{Label: label, Count: buckets[label]})
	}
	for _, name := range p.rep.AuthorOrder {
		if n := p.rep.Authors[name].Calls; n > cs.TopCaller.Count {
			cs.TopCaller = model.NameCount{Name: name, Count: n}
		}
	}
	return cs
}

// topAuthors picks the n most active authors; ties keep first appearance.
func topAuthors(rep *Report, n int) []string {
	out := append([]string(nil), rep.AuthorOrder...)
	sortStableByMessages(out, rep.Authors)
	if len(out) > n {
		out = out[:n]
	}
	return out
}
