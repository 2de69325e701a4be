package ingest

import "chatpulse/internal/model"

// Merge concatenates batches in order, dropping rows without an author or
// date and any row whose (Date, Author, Content) was already seen.
func Merge(batches ...[]model.Row) []model.Row {
	seen := make(map[string]struct{})
	var out []model.Row
	for _, b := range batches {
		for _, r := range b {
			if r.Author == "" || r.Date == "" {
				continue
			}
			k := r.Key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}
