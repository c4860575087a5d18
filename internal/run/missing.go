package run

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/hyperifyio/gazegrid/internal/grid"
	"github.com/hyperifyio/gazegrid/internal/naming"
)

// MissingReport aggregates a fill run: how many files the grid expects, which
// were absent, and what happened to each absent one.
type MissingReport struct {
	Expected int
	Missing  int
	Results  []Result
}

// Generated counts missing points that were successfully produced.
func (m MissingReport) Generated() int {
	n := 0
	for _, res := range m.Results {
		if res.Status == StatusGenerated {
			n++
		}
	}
	return n
}

// Success reports whether every missing file was generated. A run with
// nothing missing is a success that made no external calls.
func (m MissingReport) Success() bool {
	return m.Generated() == m.Missing
}

// FillMissing diffs the expected grid against the portfolio directory and
// regenerates only the absent files. Present files are untouched and no
// index is rewritten; this mode repairs a portfolio in place.
func (r *Runner) FillMissing(ctx context.Context, image string, points []grid.Point) (MissingReport, error) {
	if _, err := os.Stat(r.outDir); err != nil {
		return MissingReport{}, fmt.Errorf("portfolio directory %s: %w", r.outDir, err)
	}

	report := MissingReport{Expected: len(points)}
	type pending struct {
		point  grid.Point
		fname  string
		target string
	}
	var missing []pending
	for _, p := range points {
		fname := naming.Filename(p.PX, p.PY, r.size)
		target := filepath.Join(r.outDir, fname)
		if fileExists(target) {
			continue
		}
		missing = append(missing, pending{point: p, fname: fname, target: target})
	}
	report.Missing = len(missing)

	if len(missing) == 0 {
		r.log.WithFields(logrus.Fields{"expected": report.Expected}).Info("all files present, nothing to do")
		return report, nil
	}
	r.log.WithFields(logrus.Fields{
		"expected": report.Expected,
		"missing":  report.Missing,
	}).Info("regenerating missing files")

	for i, m := range missing {
		r.log.WithFields(logrus.Fields{
			"progress": fmt.Sprintf("%d/%d", i+1, len(missing)),
			"file":     m.fname,
		}).Info("generating")
		report.Results = append(report.Results, r.generateOne(ctx, image, m.point, m.fname, m.target))
	}

	r.log.WithFields(logrus.Fields{
		"generated": report.Generated(),
		"missing":   report.Missing,
		"success":   report.Success(),
	}).Info("fill complete")
	return report, nil
}
