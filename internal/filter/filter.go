package filter

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"chatpulse/internal/extract"
	"chatpulse/internal/model"
)

var (
	// ErrNoData means no row survived validation and no date bounds were set.
	ErrNoData = errors.New("no valid messages found")
	// ErrNoDataInRange means date bounds were set and removed every message.
	ErrNoDataInRange = errors.New("no messages found in the selected date range")
	// ErrBadDate is returned for a date bound that is not YYYY-MM-DD.
	ErrBadDate = errors.New("bad date")
)

const dayLayout = "2006-01-02"

// layouts are tried in order; zone-less layouts are read in Options.Location.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04",
	"1/2/2006 3:04 PM",
	"01/02/2006 3:04 PM",
	dayLayout,
}

// Options controls which rows make it into the aggregation.
type Options struct {
	ExcludeBots bool
	// After and Before are inclusive calendar days (YYYY-MM-DD); empty disables the bound.
	After    string
	Before   string
	Location *time.Location
}

// Bounded reports whether a date bound is active.
func (o Options) Bounded() bool { return o.After != "" || o.Before != "" }

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// Result is the normalized, chronologically sorted record set.
type Result struct {
	Records []model.Record
	// Valid counts rows with an author and a parseable timestamp, before
	// bot and date filtering.
	Valid int
	Raw   int
}

// Summary renders "N of M messages" feedback for bounded runs.
func (r Result) Summary() string {
	return fmt.Sprintf("%d of %d messages", len(r.Records), r.Valid)
}

// ParseTime parses an exported timestamp.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}
	for _, l := range layouts {
		if t, err := time.ParseInLocation(l, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ParseDay parses a YYYY-MM-DD bound in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(dayLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrBadDate, s, err)
	}
	return d, nil
}

// Apply validates rows, drops bots and out-of-range messages, and sorts the
// survivors by time. Rows sharing a timestamp keep their input order.
func Apply(rows []model.Row, opts Options) (Result, error) {
	loc := opts.location()
	var after, before time.Time
	if opts.After != "" {
		d, err := ParseDay(opts.After, loc)
		if err != nil {
			return Result{}, err
		}
		after = d
	}
	if opts.Before != "" {
		d, err := ParseDay(opts.Before, loc)
		if err != nil {
			return Result{}, err
		}
		// exclusive end: start of the following day
		before = d.AddDate(0, 0, 1)
	}

	res := Result{Raw: len(rows)}
	for _, r := range rows {
		if r.Author == "" || r.Date == "" {
			continue
		}
		ts, err := ParseTime(r.Date, loc)
		if err != nil {
			continue
		}
		res.Valid++
		if opts.ExcludeBots && model.IsBotAuthor(r.Author) {
			continue
		}
		if !after.IsZero() && ts.Before(after) {
			continue
		}
		if !before.IsZero() && !ts.Before(before) {
			continue
		}
		res.Records = append(res.Records, model.Record{
			Author:      r.Author,
			Time:        ts.In(loc),
			Content:     r.Content,
			Attachments: extract.SplitAttachments(r.Attachments),
			Reactions:   r.Reactions,
		})
	}
	sort.SliceStable(res.Records, func(i, j int) bool { return res.Records[i].Time.Before(res.Records[j].Time) })

	if len(res.Records) == 0 {
		if opts.Bounded() {
			return res, ErrNoDataInRange
		}
		return res, ErrNoData
	}
	return res, nil
}
