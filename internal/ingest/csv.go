package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"chatpulse/internal/logging"
	"chatpulse/internal/metrics"
	"chatpulse/internal/model"
)

var bom = []byte("\ufeff")

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("missing column")

var required = []string{"author", "date"}

// columns maps lower-cased header names to their index.
type columns map[string]int

func (c columns) get(rec []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// Decode reads a CSV export whose first row is a header. Column order is free
// and unknown columns are ignored; Author and Date must be present.
func Decode(r io.Reader, source string) ([]model.Row, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(bom)); err == nil && bytes.Equal(head, bom) {
		_, _ = br.Discard(len(bom))
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: header: %w", source, err)
	}
	cols := columns{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%s: %w %q", source, ErrMissingColumn, name)
		}
	}

	progress := rate.Sometimes{Interval: 2 * time.Second}
	var out []model.Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, fmt.Errorf("%s: %w", source, err)
		}
		out = append(out, model.Row{
			Author:      cols.get(rec, "author"),
			Date:        cols.get(rec, "date"),
			Content:     cols.get(rec, "content"),
			Attachments: cols.get(rec, "attachments"),
			Reactions:   cols.get(rec, "reactions"),
		})
		progress.Do(func() {
			logging.Debug("decode_progress", map[string]any{"source": source, "rows": len(out)})
		})
	}
	metrics.RowsDecoded.Add(float64(len(out)))
	return out, nil
}

// DecodeFile opens path and decodes it.
func DecodeFile(path string) ([]model.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, path)
}

// LoadFiles decodes every path in order and merges the results.
func LoadFiles(paths []string) ([]model.Row, error) {
	batches := make([][]model.Row, 0, len(paths))
	for _, p := range paths {
		rows, err := DecodeFile(p)
		if err != nil {
			return nil, err
		}
		logging.Info("decoded", map[string]any{"source": p, "rows": len(rows)})
		batches = append(batches, rows)
	}
	return Merge(batches...), nil
}
