package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mcgogo64-cell/beautydrop-bot/internal/extract"
)

// JSONSink writes each scrape cycle to a timestamped JSON file and
// refreshes a latest.json pointer alongside it.
type JSONSink struct {
	dir string
	now func() time.Time
}

// NewJSONSink creates a sink writing into the given directory.
func NewJSONSink(dir string) *JSONSink {
	return &JSONSink{
		dir: dir,
		now: time.Now,
	}
}

// WriteSnapshot persists the records as a JSON array, once under a
// run-timestamped name and once as latest.json. Files land via a temp
// file and rename so readers never see a partial array.
func (s *JSONSink) WriteSnapshot(records []extract.ProductRecord) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	// An empty cycle still writes "[]" so consumers can tell "ran and
	// found nothing" from "never ran".
	if records == nil {
		records = []extract.ProductRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	runFile := fmt.Sprintf("deals_%s.json", s.now().Format("20060102_150405"))
	if err := s.writeAtomic(runFile, data); err != nil {
		return err
	}
	return s.writeAtomic("latest.json", data)
}

func (s *JSONSink) writeAtomic(name string, data []byte) error {
	target := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to move snapshot into place: %w", err)
	}
	return nil
}
