package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chatpulse/internal/model"
)

const export = "\ufeff\"AuthorID\",\"Author\",\"Date\",\"Content\",\"Attachments\",\"Reactions\"\n" +
	"\"1\",\"ann\",\"2024-01-01T10:00:00Z\",\"hello, \"\"world\"\"\",\"\",\"👍 (2)\"\n" +
	"\"2\",\"ben\",\"2024-01-01T10:05:00Z\",\"line one\nline two\",\"https://cdn/x.png\",\"\"\n"

func TestDecodeExport(t *testing.T) {
	rows, err := Decode(strings.NewReader(export), "test")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows %d", len(rows))
	}
	if rows[0].Author != "ann" || rows[0].Content != `hello, "world"` || rows[0].Reactions != "👍 (2)" {
		t.Fatalf("row0 %+v", rows[0])
	}
	if rows[1].Content != "line one\nline two" || rows[1].Attachments != "https://cdn/x.png" {
		t.Fatalf("row1 %+v", rows[1])
	}
}

func TestDecodeColumnOrderAndShortRows(t *testing.T) {
	in := "Date,Content,Author\n2024-01-01,hi,ann\n2024-01-02,,bob\n2024-01-03\n"
	rows, err := Decode(strings.NewReader(in), "test")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0].Author != "ann" || rows[1].Author != "bob" || rows[1].Content != "" {
		t.Fatalf("rows %+v", rows)
	}
	if rows[2].Author != "" || rows[2].Date != "2024-01-03" {
		t.Fatalf("short row %+v", rows[2])
	}
}

func TestDecodeMissingColumn(t *testing.T) {
	_, err := Decode(strings.NewReader("Author,Content\nann,hi\n"), "test")
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("got %v", err)
	}
	rows, err := Decode(strings.NewReader(""), "empty")
	if err != nil || rows != nil {
		t.Fatalf("empty input: %v %v", rows, err)
	}
}

func TestMergeDedupsAcrossFiles(t *testing.T) {
	a := []model.Row{
		{Author: "ann", Date: "d1", Content: "hi"},
		{Author: "ann", Date: "d1", Content: "hi", Reactions: "x (1)"},
		{Author: "", Date: "d2", Content: "orphan"},
	}
	b := []model.Row{
		{Author: "ann", Date: "d1", Content: "hi"},
		{Author: "ben", Date: "d1", Content: "hi"},
		{Author: "ben", Date: "", Content: "no date"},
	}
	got := Merge(a, b)
	if len(got) != 2 || got[0].Author != "ann" || got[0].Reactions != "" || got[1].Author != "ben" {
		t.Fatalf("merged %+v", got)
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.csv")
	p2 := filepath.Join(dir, "b.csv")
	if err := os.WriteFile(p1, []byte(export), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p2, []byte(export), 0o644); err != nil {
		t.Fatal(err)
	}
	rows, err := LoadFiles([]string{p1, p2})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected overlap removed, got %d", len(rows))
	}
	if _, err := LoadFiles([]string{filepath.Join(dir, "missing.csv")}); err == nil {
		t.Fatalf("expected error")
	}
}
