// Package index persists the filename -> gaze coordinate mapping as CSV.
package index

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hyperifyio/gazegrid/internal/naming"
)

// DefaultName is the index file written next to the generated images.
const DefaultName = "index.csv"

var header = []string{"filename", "pupil_x", "pupil_y"}

// Row ties one generated artifact back to its source coordinates.
type Row struct {
	Filename string
	PupilX   float64
	PupilY   float64
}

// Write replaces any existing file at path with a header line and one
// comma-separated line per row. Parent directories are created as needed.
func Write(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("write index header: %w", err)
	}
	for _, r := range rows {
		record := []string{r.Filename, naming.FormatValue(r.PupilX), naming.FormatValue(r.PupilY)}
		if err := w.Write(record); err != nil {
			_ = f.Close()
			return fmt.Errorf("write index row %q: %w", r.Filename, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush index: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	return nil
}

// Read parses an index file written by Write.
func Read(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("index %s is empty", path)
	}
	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != 3 {
			return nil, fmt.Errorf("index line %d: expected 3 fields, got %d", i+2, len(rec))
		}
		px, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("index line %d: pupil_x: %w", i+2, err)
		}
		py, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("index line %d: pupil_y: %w", i+2, err)
		}
		rows = append(rows, Row{Filename: rec[0], PupilX: px, PupilY: py})
	}
	return rows, nil
}
