package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"chatpulse/internal/analytics"
	"chatpulse/internal/model"
	"chatpulse/internal/rank"
)

// Options control what Write renders.
type Options struct {
	Metric    rank.Metric
	Dir       rank.Direction
	TopWords  int
	TopEmojis int
	// AllAuthors lists every author in the table instead of the top authors.
	AllAuthors bool
}

// DefaultOptions sorts the table by message count, most active first.
func DefaultOptions() Options {
	return Options{Metric: rank.Messages, Dir: rank.Descending, TopWords: 20, TopEmojis: 10}
}

type card struct{ label, value, sub string }

// Write renders rep as terminal text.
func Write(w io.Writer, rep *analytics.Report, opts Options) error {
	var b strings.Builder
	fmt.Fprintf(&b, "chat summary (%s)\n\n", rep.Filter.Summary())
	writeCards(&b, overview(rep))
	writeAuthors(&b, rep, opts)
	writeActivity(&b, rep)
	writeCounts(&b, "Top words", rep.TopWords(opts.TopWords))
	writeCounts(&b, "Top custom emojis", rep.TopEmojis(opts.TopEmojis))
	if rep.Reactions != nil {
		writeReactions(&b, rep.Reactions)
	}
	if rep.Calls != nil {
		writeCalls(&b, rep.Calls)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func overview(rep *analytics.Report) []card {
	return []card{
		{"Total Messages", num(rep.TotalMessages), ""},
		{"Total Words", num(rep.TotalWords), ""},
		{"Active Days", num(rep.ActiveDays), ""},
		{"Daily Average", num(rep.DailyAverage) + " msgs", ""},
		{"Conversations", num(rep.Conversations), ""},
		{"Longest Streak", fmt.Sprintf("%d days", rep.LongestStreak), ""},
		{"Top Sender", orDash(rep.TopSender.Name), num(rep.TopSender.Count) + " msgs"},
		{"Starts Most Chats", orDash(rep.TopStarter.Name), num(rep.TopStarter.Count) + " times"},
		{"Busiest Day", orDash(rep.BusiestDay.Date), num(rep.BusiestDay.Count) + " msgs"},
		{"Media & Links", num(rep.Media), ""},
		{"Voice Messages", num(rep.VoiceMessages), ""},
		{"Stickers Sent", num(rep.Stickers), ""},
		{"Custom Emojis", num(rep.Emojis), ""},
		{"Date Range", rep.FirstDate, "to " + rep.LastDate},
	}
}

func writeCards(b *strings.Builder, cards []card) {
	tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	for _, c := range cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.label, c.value, c.sub)
	}
	tw.Flush()
	b.WriteString("\n")
}

func writeAuthors(b *strings.Builder, rep *analytics.Report, opts Options) {
	entries := rep.Rank(opts.Metric, opts.Dir)
	if !opts.AllAuthors {
		keep := make(map[string]bool, len(rep.TopAuthors))
		for _, n := range rep.TopAuthors {
			keep[n] = true
		}
		kept := entries[:0]
		for _, e := range entries {
			if keep[e.Stats.Name] {
				kept = append(kept, e)
			}
		}
		entries = kept
	}
	fmt.Fprintf(b, "Authors (by %s, %s)\n", opts.Metric, opts.Dir)
	tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "name\tmsgs\tshare\twords\tresp\tstarts\tmedia\temojis\tcalls\tcalltime\t")
	for _, e := range entries {
		s := e.Stats
		resp := "—"
		if e.AvgResponse != nil {
			resp = fmt.Sprintf("%.1f min", *e.AvgResponse)
		}
		calltime := "—"
		if s.CallMinutes > 0 {
			calltime = Duration(s.CallMinutes)
		}
		fmt.Fprintf(tw, "%s\t%s\t%.1f%%\t%.1f\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			s.Name, num(s.Messages), e.Share, e.AvgWords, resp,
			num(s.Starters), num(s.Media), num(s.Emojis), num(s.Calls), calltime)
	}
	tw.Flush()
	b.WriteString("\n")
}

func writeActivity(b *strings.Builder, rep *analytics.Report) {
	p := rep.TimePeriods
	fmt.Fprintf(b, "Time of day: morning %s, afternoon %s, evening %s, night %s\n\n",
		num(p.Morning), num(p.Afternoon), num(p.Evening), num(p.Night))

	peak := 0
	for _, n := range rep.DayOfWeekCounts {
		peak = max(peak, n)
	}
	b.WriteString("By weekday\n")
	tw := tabwriter.NewWriter(b, 0, 0, 1, ' ', 0)
	for d, n := range rep.DayOfWeekCounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", time.Weekday(d).String()[:3], num(n), bar(n, peak, 30))
	}
	tw.Flush()

	peak = 0
	for _, n := range rep.HourCounts {
		peak = max(peak, n)
	}
	b.WriteString("\nBy hour\n")
	tw = tabwriter.NewWriter(b, 0, 0, 1, ' ', 0)
	for h, n := range rep.HourCounts {
		fmt.Fprintf(tw, "%02d\t%s\t%s\n", h, num(n), bar(n, peak, 30))
	}
	tw.Flush()
	b.WriteString("\n")
}

func writeCounts(b *strings.Builder, title string, items []model.NameCount) {
	if len(items) == 0 {
		return
	}
	b.WriteString(title + "\n")
	tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	for i, it := range items {
		fmt.Fprintf(tw, "%2d.\t%s\t%s\n", i+1, it.Name, num(it.Count))
	}
	tw.Flush()
	b.WriteString("\n")
}

func writeReactions(b *strings.Builder, rs *analytics.ReactionStats) {
	b.WriteString("Reactions\n")
	writeCards(b, []card{
		{"Total Reactions", num(rs.Total), ""},
		{"Reacted Messages", num(rs.ReactedMessages), ""},
		{"Unique Reactions", num(rs.Unique()), ""},
		{"Most Reacted User", orDash(rs.TopReceiver.Name), num(rs.TopReceiver.Count) + " reactions"},
	})
	if m := rs.MostReacted; m != nil {
		fmt.Fprintf(b, "Most reacted message (%d reactions)\n  %s: %s\n  %s\n\n",
			m.Count, m.Author, Preview(m.Content), m.Reactions)
	}
}

func writeCalls(b *strings.Builder, cs *analytics.CallStats) {
	b.WriteString("Calls\n")
	writeCards(b, []card{
		{"Total Calls", num(cs.Total), ""},
		{"Total Call Time", Duration(cs.TotalMinutes), ""},
		{"Average Call", Duration(int(cs.Average + 0.5)), ""},
		{"Longest Call", Duration(cs.Longest), ""},
		{"Shortest Call", Duration(cs.Shortest), ""},
		{"Most Active Caller", orDash(cs.TopCaller.Name), num(cs.TopCaller.Count) + " calls"},
	})
	peak := 0
	for _, bc := range cs.Distribution {
		peak = max(peak, bc.Count)
	}
	tw := tabwriter.NewWriter(b, 0, 0, 1, ' ', 0)
	for _, bc := range cs.Distribution {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", bc.Label, num(bc.Count), bar(bc.Count, peak, 30))
	}
	tw.Flush()
	b.WriteString("\n")
}
