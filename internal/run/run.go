// Package run orchestrates grid generation: it walks gaze points, drives the
// inference client, finishes images and records a typed outcome per point.
package run

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/hyperifyio/gazegrid/internal/finish"
	"github.com/hyperifyio/gazegrid/internal/grid"
	"github.com/hyperifyio/gazegrid/internal/index"
	"github.com/hyperifyio/gazegrid/internal/naming"
	"github.com/hyperifyio/gazegrid/internal/replicate"
)

// ErrEmptyOutput marks a prediction that succeeded but produced no images.
var ErrEmptyOutput = errors.New("inference returned no outputs")

// Artifact is one generated image the service can hand back.
type Artifact interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Generator invokes the external inference service for one gaze point.
type Generator interface {
	Generate(ctx context.Context, image string, pupilX, pupilY float64) ([]Artifact, error)
}

// Finisher persists one artifact's bytes as a finished portfolio image.
type Finisher interface {
	Save(r io.Reader, outPath string, size, quality int) error
}

// NewReplicateGenerator adapts the replicate client to the Generator
// interface used by the runner and its tests.
func NewReplicateGenerator(c *replicate.Client) Generator {
	return replicateGenerator{c: c}
}

type replicateGenerator struct {
	c *replicate.Client
}

func (g replicateGenerator) Generate(ctx context.Context, image string, pupilX, pupilY float64) ([]Artifact, error) {
	outputs, err := g.c.Generate(ctx, image, pupilX, pupilY)
	if err != nil {
		return nil, err
	}
	artifacts := make([]Artifact, len(outputs))
	for i, o := range outputs {
		artifacts[i] = o
	}
	return artifacts, nil
}

// webpFinisher is the default Finisher backed by the finish package.
type webpFinisher struct{}

func (webpFinisher) Save(r io.Reader, outPath string, size, quality int) error {
	return finish.SaveResizedWebP(r, outPath, size, quality)
}

// Options carries everything a run needs. The credential lives inside the
// Generator's client; nothing here reads ambient process state.
type Options struct {
	OutDir       string
	Size         int
	Quality      int
	SkipExisting bool
	Log          *logrus.Logger
	Finisher     Finisher
}

// Runner executes generation runs sequentially, one point at a time.
type Runner struct {
	gen          Generator
	fin          Finisher
	log          *logrus.Logger
	outDir       string
	size         int
	quality      int
	skipExisting bool
}

// New builds a Runner. A nil Finisher defaults to the WEBP finisher; a nil
// logger defaults to a fresh logrus logger.
func New(gen Generator, opts Options) *Runner {
	fin := opts.Finisher
	if fin == nil {
		fin = webpFinisher{}
	}
	log := opts.Log
	if log == nil {
		log = logrus.New()
	}
	return &Runner{
		gen:          gen,
		fin:          fin,
		log:          log,
		outDir:       opts.OutDir,
		size:         opts.Size,
		quality:      opts.Quality,
		skipExisting: opts.SkipExisting,
	}
}

// GenerateAll walks the full grid. A point's failure never aborts the run:
// it is logged, recorded in the report and the loop advances. The index is
// written once after the loop; its write error propagates.
func (r *Runner) GenerateAll(ctx context.Context, image string, points []grid.Point) (Report, error) {
	var report Report
	for _, p := range points {
		fname := naming.Filename(p.PX, p.PY, r.size)
		target := filepath.Join(r.outDir, fname)

		if r.skipExisting && fileExists(target) {
			r.log.WithFields(logrus.Fields{"file": fname}).Info("exists, skipping")
			report.add(Result{Point: p, Filename: fname, Status: StatusSkippedExisting})
			continue
		}
		report.add(r.generateOne(ctx, image, p, fname, target))
	}

	indexPath := filepath.Join(r.outDir, index.DefaultName)
	if err := index.Write(indexPath, report.Rows()); err != nil {
		return report, err
	}
	r.log.WithFields(logrus.Fields{
		"generated": report.Generated(),
		"skipped":   report.Skipped(),
		"failed":    report.Failed(),
		"index":     indexPath,
	}).Info("run complete")
	return report, nil
}

// generateOne performs the inference call and image finishing for a single
// point, mapping every failure mode to a Result instead of aborting.
func (r *Runner) generateOne(ctx context.Context, image string, p grid.Point, fname, target string) Result {
	fields := logrus.Fields{"pupil_x": p.PX, "pupil_y": p.PY, "file": fname}

	artifacts, err := r.gen.Generate(ctx, image, p.PX, p.PY)
	if err != nil {
		r.log.WithFields(fields).WithError(err).Error("generation failed")
		return Result{Point: p, Filename: fname, Status: StatusFailed, Err: err}
	}
	if len(artifacts) == 0 {
		r.log.WithFields(fields).Warn("no output, skipping")
		return Result{Point: p, Filename: fname, Status: StatusFailed, Err: ErrEmptyOutput}
	}

	rc, err := artifacts[0].Open(ctx)
	if err != nil {
		r.log.WithFields(fields).WithError(err).Error("fetching output failed")
		return Result{Point: p, Filename: fname, Status: StatusFailed, Err: err}
	}
	saveErr := r.fin.Save(rc, target, r.size, r.quality)
	_ = rc.Close()
	if saveErr != nil {
		r.log.WithFields(fields).WithError(saveErr).Error("finishing failed")
		return Result{Point: p, Filename: fname, Status: StatusFailed, Err: saveErr}
	}
	r.log.WithFields(fields).Info("generated")
	return Result{Point: p, Filename: fname, Status: StatusGenerated}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
