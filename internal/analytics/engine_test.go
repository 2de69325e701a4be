package analytics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"chatpulse/internal/filter"
	"chatpulse/internal/model"
	"chatpulse/internal/rank"
)

func run(t *testing.T, rows []model.Row) *Report {
	t.Helper()
	rep, err := Run(rows, filter.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return rep
}

func TestConversationStarterAndResponseScenario(t *testing.T) {
	rep := run(t, []model.Row{
		{Author: "A", Date: "2024-01-01T10:00", Content: "hi"},
		{Author: "B", Date: "2024-01-01T10:05", Content: "hello"},
		{Author: "B", Date: "2024-01-01T13:00", Content: "yo"},
	})
	if rep.Conversations != 2 {
		t.Fatalf("conversations %d", rep.Conversations)
	}
	a, b := rep.Authors["A"], rep.Authors["B"]
	if a.Starters != 1 {
		t.Fatalf("A starters %d", a.Starters)
	}
	if b.Starters != 1 {
		t.Fatalf("B starters %d", b.Starters)
	}
	if len(b.ResponseTimes) != 1 || b.ResponseTimes[0] != 5 {
		t.Fatalf("B response times %v", b.ResponseTimes)
	}
	if len(a.ResponseTimes) != 0 {
		t.Fatalf("A should have no response times")
	}
	if fmt.Sprint(a.Streaks) != "[1]" || fmt.Sprint(b.Streaks) != "[2]" {
		t.Fatalf("streaks A=%v B=%v", a.Streaks, b.Streaks)
	}
	if rep.TopStarter.Name != "A" || rep.TopSender.Name != "B" {
		t.Fatalf("top starter %+v sender %+v", rep.TopStarter, rep.TopSender)
	}
}

func TestStarterAndResponseBoundaries(t *testing.T) {
	rep := run(t, []model.Row{
		{Author: "A", Date: "2024-01-01T10:00"},
		{Author: "B", Date: "2024-01-01T11:00"}, // exactly 1h: response
		{Author: "A", Date: "2024-01-01T12:30"}, // 1h30m: starter
		{Author: "A", Date: "2024-01-01T12:40"}, // same author: continuation
		{Author: "B", Date: "2024-01-01T12:40"}, // zero gap: nothing
	})
	a, b := rep.Authors["A"], rep.Authors["B"]
	if a.Starters != 2 || b.Starters != 0 {
		t.Fatalf("starters A=%d B=%d", a.Starters, b.Starters)
	}
	if fmt.Sprint(b.ResponseTimes) != "[60]" {
		t.Fatalf("B responses %v", b.ResponseTimes)
	}
	if len(a.ResponseTimes) != 0 {
		t.Fatalf("A responses %v", a.ResponseTimes)
	}
	if rep.Conversations != 2 {
		t.Fatalf("conversations %d", rep.Conversations)
	}
}

func TestSingleMessage(t *testing.T) {
	rep := run(t, []model.Row{{Author: "solo", Date: "2024-03-03T03:03", Content: "one two"}})
	s := rep.Authors["solo"]
	if s.Starters != 1 || fmt.Sprint(s.Streaks) != "[1]" || rep.Conversations != 1 {
		t.Fatalf("got %+v conv=%d", s, rep.Conversations)
	}
	if rep.LongestStreak != 1 || rep.BusiestDay != (DayCount{Date: "2024-03-03", Count: 1}) {
		t.Fatalf("streak %d busiest %+v", rep.LongestStreak, rep.BusiestDay)
	}
	if rep.TimePeriods.Night != 1 || rep.TotalWords != 2 {
		t.Fatalf("periods %+v words %d", rep.TimePeriods, rep.TotalWords)
	}
	if rep.Reactions != nil || rep.Calls != nil {
		t.Fatalf("optional bundles must be absent")
	}
}

func TestReactionScenario(t *testing.T) {
	rep := run(t, []model.Row{
		{Author: "A", Date: "2024-01-01T10:00", Content: "meh", Reactions: "👍 (4)"},
		{Author: "B", Date: "2024-01-01T10:01", Content: "funny", Reactions: "😀 (3), 👍 (1)"},
		{Author: "C", Date: "2024-01-01T10:02", Content: "wow", Reactions: "🔥 (5)"},
		{Author: "C", Date: "2024-01-01T10:03", Content: "none", Reactions: "not a reaction"},
	})
	rs := rep.Reactions
	if rs == nil {
		t.Fatal("expected reaction bundle")
	}
	if rs.Counts["😀"] != 3 || rs.Counts["👍"] != 5 || rs.Counts["🔥"] != 5 {
		t.Fatalf("counts %v", rs.Counts)
	}
	if rs.Total != 13 || rs.ReactedMessages != 3 || rs.Unique() != 3 {
		t.Fatalf("total=%d reacted=%d unique=%d", rs.Total, rs.ReactedMessages, rs.Unique())
	}
	if rs.MostReacted == nil || rs.MostReacted.Author != "C" || rs.MostReacted.Count != 5 {
		t.Fatalf("most reacted %+v", rs.MostReacted)
	}
	if rs.Received["B"] != 4 || rep.Authors["B"].Reactions != 4 {
		t.Fatalf("B received %d", rs.Received["B"])
	}
	if rs.TopReceiver.Name != "C" {
		t.Fatalf("top receiver %+v", rs.TopReceiver)
	}
}

func TestMostReactedTieKeepsFirst(t *testing.T) {
	rep := run(t, []model.Row{
		{Author: "A", Date: "2024-01-01T10:00", Content: "first", Reactions: "😀 (3), 👍 (1)"},
		{Author: "B", Date: "2024-01-01T10:01", Content: "second", Reactions: "x (4)"},
	})
	if got := rep.Reactions.MostReacted; got.Author != "A" || got.Count != 4 || got.Reactions != "😀 (3), 👍 (1)" {
		t.Fatalf("got %+v", got)
	}
	if rep.Reactions.TopReceiver.Name != "A" {
		t.Fatalf("tie should keep first receiver, got %+v", rep.Reactions.TopReceiver)
	}
}

func TestCallScenario(t *testing.T) {
	rep := run(t, []model.Row{
		{Author: "A", Date: "2024-01-01T10:00", Content: "Started a call that lasted 125 minutes."},
		{Author: "B", Date: "2024-01-02T10:00", Content: "Started a call that lasted 3 minutes."},
		{Author: "B", Date: "2024-01-02T11:30", Content: "Started a call that lasted many minutes."},
	})
	cs := rep.Calls
	if cs == nil {
		t.Fatal("expected call bundle")
	}
	a := rep.Authors["A"]
	if a.Calls != 1 || a.CallMinutes != 125 || fmt.Sprint(a.CallDurations) != "[125]" {
		t.Fatalf("A calls %+v", a)
	}
	if cs.Total != 2 || cs.TotalMinutes != 128 || cs.Longest != 125 || cs.Shortest != 3 || cs.Average != 64 {
		t.Fatalf("calls %+v", cs)
	}
	buckets := map[string]int{}
	for _, b := range cs.Distribution {
		buckets[b.Label] = b.Count
	}
	if buckets["2–4h"] != 1 || buckets["1–2h"] != 0 || buckets["< 5m"] != 1 {
		t.Fatalf("distribution %v", cs.Distribution)
	}
	if cs.ByWeekday[time.Monday] != 1 || cs.ByWeekday[time.Tuesday] != 1 {
		t.Fatalf("weekday %v", cs.ByWeekday)
	}
	if cs.TopCaller.Name != "A" {
		t.Fatalf("top caller %+v", cs.TopCaller)
	}
	if len(cs.Entries) != 2 || cs.Entries[0].Author != "A" {
		t.Fatalf("entries %+v", cs.Entries)
	}
}

func TestContentCounters(t *testing.T) {
	rep := run(t, []model.Row{
		{Author: "A", Date: "2024-01-01T10:00", Content: "look <:pog:1> <:pog:1> <:kek:2>"},
		{Author: "A", Date: "2024-01-01T10:01", Content: "[Hi](https://media.discordapp.net/stickers/9.png)"},
		{Author: "B", Date: "2024-01-01T10:02", Attachments: "https://cdn/1/voice-message.ogg"},
		{Author: "B", Date: "2024-01-01T10:03", Attachments: "https://cdn/1/cat.png"},
	})
	a, b := rep.Authors["A"], rep.Authors["B"]
	if a.Emojis != 3 || rep.Emojis != 3 || rep.EmojiCounts["pog"] != 2 || rep.EmojiCounts["kek"] != 1 {
		t.Fatalf("emojis %d %v", a.Emojis, rep.EmojiCounts)
	}
	if a.Stickers != 1 || rep.Stickers != 1 {
		t.Fatalf("stickers %d", a.Stickers)
	}
	// the sticker message links a URL and so counts as media too
	if a.Media != 1 || b.Media != 1 || rep.Media != 2 {
		t.Fatalf("media A=%d B=%d total=%d", a.Media, b.Media, rep.Media)
	}
	if b.VoiceMessages != 1 || rep.VoiceMessages != 1 {
		t.Fatalf("voice %d", b.VoiceMessages)
	}
	if top := rep.TopEmojis(1); len(top) != 1 || top[0].Name != "pog" {
		t.Fatalf("top emojis %v", top)
	}
	if rep.WordCounts["look"] != 1 || rep.WordCounts["pog"] != 0 {
		t.Fatalf("words %v", rep.WordCounts)
	}
}

func TestDayScan(t *testing.T) {
	counts := map[string]int{
		"2024-01-01": 2, "2024-01-02": 5, "2024-01-03": 1,
		"2024-01-05": 5, "2024-01-06": 1, "2024-01-07": 1, "2024-01-08": 1,
	}
	busiest, longest := dayScan(sortedKeys(counts), counts)
	if busiest != (DayCount{Date: "2024-01-02", Count: 5}) {
		t.Fatalf("busiest %+v", busiest)
	}
	if longest != 4 {
		t.Fatalf("longest %d", longest)
	}
	if b, l := dayScan(nil, nil); b.Count != 0 || l != 0 {
		t.Fatalf("empty scan %+v %d", b, l)
	}
}

func TestInvariants(t *testing.T) {
	var rows []model.Row
	authors := []string{"ann", "ben", "ann", "ann", "cat", "ben", "cat", "cat", "ann"}
	start := time.Date(2024, 2, 1, 5, 0, 0, 0, time.UTC)
	gaps := []time.Duration{0, 3 * time.Minute, 2 * time.Hour, 10 * time.Minute, 30 * time.Hour, 5 * time.Minute, 0, 90 * time.Minute, time.Minute}
	ts := start
	for i, a := range authors {
		ts = ts.Add(gaps[i])
		rows = append(rows, model.Row{Author: a, Date: ts.Format(time.RFC3339), Content: "some words here"})
	}
	rep := run(t, rows)

	sum, streakTotal := 0, 0
	for _, s := range rep.Authors {
		sum += s.Messages
		ss := 0
		for _, v := range s.Streaks {
			if v <= 0 {
				t.Fatalf("non-positive streak for %s", s.Name)
			}
			ss += v
		}
		if ss != s.Messages {
			t.Fatalf("%s streak sum %d != messages %d", s.Name, ss, s.Messages)
		}
		streakTotal += ss
		for _, r := range s.ResponseTimes {
			if r <= 0 {
				t.Fatalf("non-positive response time for %s", s.Name)
			}
		}
	}
	if sum != len(rows) || streakTotal != len(rows) || rep.TotalMessages != len(rows) {
		t.Fatalf("sum=%d streaks=%d total=%d", sum, streakTotal, rep.TotalMessages)
	}
	if rep.Authors["ann"].Starters < 1 {
		t.Fatalf("first message must be a starter")
	}

	var hours [24]int
	var days [7]int
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			hours[h] += rep.Heatmap[d][h]
			days[d] += rep.Heatmap[d][h]
		}
	}
	if hours != rep.HourCounts || days != rep.DayOfWeekCounts {
		t.Fatalf("heatmap does not add up")
	}
	p := rep.TimePeriods
	if p.Morning+p.Afternoon+p.Evening+p.Night != len(rows) {
		t.Fatalf("periods %+v", p)
	}
	cum := rep.Cumulative()
	if cum[len(cum)-1].Count != len(rows) {
		t.Fatalf("cumulative %+v", cum)
	}
}

func TestUnfilteredRoundTrip(t *testing.T) {
	rows := []model.Row{
		{Author: "x", Date: "2024-01-01T10:00", Content: "alpha"},
		{Author: "y", Date: "2024-01-01T10:10", Content: "beta gamma"},
		{Author: "", Date: "2024-01-01T10:10", Content: "dropped"},
	}
	rep := run(t, rows)
	res, err := filter.Apply(rows, filter.Options{})
	if err != nil {
		t.Fatal(err)
	}
	direct := Aggregate(res.Records)
	if rep.Filter.Valid != 2 || rep.Filter.Processed != 2 || rep.Filter.Raw != 3 {
		t.Fatalf("filter summary %+v", rep.Filter)
	}
	if direct.TotalMessages != rep.TotalMessages || direct.TotalWords != rep.TotalWords || direct.Conversations != rep.Conversations {
		t.Fatalf("aggregates differ")
	}
}

func TestRunReportsEmptyConditions(t *testing.T) {
	rows := []model.Row{{Author: "x", Date: "2024-01-01T10:00"}}
	if _, err := Run(rows, filter.Options{Before: "2023-01-01"}); !errors.Is(err, filter.ErrNoDataInRange) {
		t.Fatalf("got %v", err)
	}
	if _, err := Run(nil, filter.Options{}); !errors.Is(err, filter.ErrNoData) {
		t.Fatalf("got %v", err)
	}
}

func TestReportRank(t *testing.T) {
	rep := run(t, []model.Row{
		{Author: "zed", Date: "2024-01-01T10:00", Content: "a"},
		{Author: "amy", Date: "2024-01-01T10:01", Content: "b"},
		{Author: "amy", Date: "2024-01-01T10:02", Content: "c"},
	})
	got := rep.Rank(rank.Messages, rank.Descending)
	if got[0].Stats.Name != "amy" {
		t.Fatalf("got %s", got[0].Stats.Name)
	}
	got = rep.Rank(rank.AvgResponse, rank.Descending)
	if got[0].Stats.Name != "amy" || got[1].AvgResponse != nil {
		t.Fatalf("zed never responded and must sort last")
	}
	if len(rep.TopAuthors) != 2 || rep.TopAuthors[0] != "amy" {
		t.Fatalf("top authors %v", rep.TopAuthors)
	}
}
