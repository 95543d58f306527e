// Package archive provides a file-based archival sink for expiration
// sweeps: each expired record is appended as one JSON line.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/trbck/tagged-logger/internal/taglog"
)

// Writer appends archived records to a file, one JSON document per line.
// Safe for concurrent use.
type Writer struct {
	mu sync.Mutex
	f  *os.File
}

// Open creates or appends to the archive file at path.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", path, err)
	}
	return &Writer{f: f}, nil
}

type archivedRecord struct {
	ID      int64          `json:"id"`
	TS      time.Time      `json:"ts"`
	Message any            `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Tags    []string       `json:"tags,omitempty"`
	Expire  *time.Time     `json:"expire,omitempty"`
}

// Archive writes one record. It satisfies taglog.ArchiveFunc.
func (w *Writer) Archive(_ context.Context, rec *taglog.Record) error {
	line, err := json.Marshal(archivedRecord{
		ID:      rec.ID,
		TS:      rec.TS,
		Message: rec.Message,
		Attrs:   rec.Attrs,
		Tags:    rec.Tags,
		Expire:  rec.Expire,
	})
	if err != nil {
		return fmt.Errorf("archive: encode record %d: %w", rec.ID, err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.f.Write(line); err != nil {
		return fmt.Errorf("archive: write record %d: %w", rec.ID, err)
	}
	return nil
}

// Close syncs and closes the archive file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.f.Sync(); err != nil {
		_ = w.f.Close()
		return err
	}
	return w.f.Close()
}
