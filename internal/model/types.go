package model

import "time"

// Row is one decoded line of an exported conversation log.
// Fields are kept as raw text; nothing is validated at this stage.
type Row struct {
	Author      string `json:"author"`
	Date        string `json:"date"`
	Content     string `json:"content"`
	Attachments string `json:"attachments"`
	Reactions   string `json:"reactions"`
}

// Key identifies a row for deduplication across merged exports.
func (r Row) Key() string {
	return r.Date + "|" + r.Author + "|" + r.Content
}

// Record is a validated message ready for aggregation.
type Record struct {
	Author      string
	Time        time.Time
	Content     string
	Attachments []string
	Reactions   string
}

// CallEntry is a single call announcement found in the log.
type CallEntry struct {
	Time    time.Time `json:"time"`
	Minutes int       `json:"minutes"`
	Author  string    `json:"author"`
}

// NameCount pairs a label with a count, used for "top" style results.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
