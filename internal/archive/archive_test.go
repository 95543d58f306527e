package archive

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/trbck/tagged-logger/internal/taglog"
)

func TestArchiveAppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.jsonl")
	w, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	exp := ts.Add(time.Hour)
	recs := []*taglog.Record{
		{ID: 1, TS: ts, Message: "first", Tags: []string{"a"}},
		{ID: 2, TS: ts, Message: "second", Attrs: map[string]any{"user": "foo"}, Expire: &exp},
	}
	for _, rec := range recs {
		if err := w.Archive(context.Background(), rec); err != nil {
			t.Fatalf("archive: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()

	var lines []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var doc map[string]any
		if err := json.Unmarshal(sc.Bytes(), &doc); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", len(lines)+1, err)
		}
		lines = append(lines, doc)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d", len(lines))
	}
	if lines[0]["message"] != "first" || lines[1]["message"] != "second" {
		t.Fatalf("messages: %v / %v", lines[0]["message"], lines[1]["message"])
	}
	if _, ok := lines[0]["expire"]; ok {
		t.Fatal("expire should be omitted when unset")
	}
	if _, ok := lines[1]["expire"]; !ok {
		t.Fatal("expire missing on the second record")
	}
}

func TestOpenAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.jsonl")
	for i := 0; i < 2; i++ {
		w, err := Open(path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if err := w.Archive(context.Background(), &taglog.Record{ID: int64(i + 1), TS: time.Now(), Message: "m"}); err != nil {
			t.Fatalf("archive: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	count := 0
	for _, b := range data {
		if b == '\n' {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("want 2 lines after reopen, got %d", count)
	}
}
