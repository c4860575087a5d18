package run

import (
	"github.com/hyperifyio/gazegrid/internal/grid"
	"github.com/hyperifyio/gazegrid/internal/index"
)

// Status classifies the outcome of one grid point.
type Status int

const (
	// StatusGenerated means the image was produced and written.
	StatusGenerated Status = iota
	// StatusSkippedExisting means the target file already existed and
	// skip-existing was enabled; it still gets an index row.
	StatusSkippedExisting
	// StatusFailed means the point was abandoned; Err carries the reason.
	StatusFailed
)

// Result is the outcome of one grid point.
type Result struct {
	Point    grid.Point
	Filename string
	Status   Status
	Err      error
}

// Report aggregates the results of a full-generation run.
type Report struct {
	Results []Result
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
}

// Rows returns the index rows for every expected artifact: generated files
// and skipped-but-present files. Failed points get no row.
func (r Report) Rows() []index.Row {
	rows := make([]index.Row, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			continue
		}
		rows = append(rows, index.Row{Filename: res.Filename, PupilX: res.Point.PX, PupilY: res.Point.PY})
	}
	return rows
}

// Generated counts freshly produced images.
func (r Report) Generated() int { return r.count(StatusGenerated) }

// Skipped counts points satisfied by pre-existing files.
func (r Report) Skipped() int { return r.count(StatusSkippedExisting) }

// Failed counts abandoned points.
func (r Report) Failed() int { return r.count(StatusFailed) }

func (r Report) count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}
