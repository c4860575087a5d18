// Package grid enumerates the 2D gaze lattice over pupil offsets.
package grid

import (
	"errors"
	"math"
)

// ErrZeroStep is returned when an axis is requested with step == 0,
// which would never terminate.
var ErrZeroStep = errors.New("step must be non-zero")

// boundaryEpsilon admits axis values that land exactly on the boundary
// despite accumulated floating-point drift.
const boundaryEpsilon = 1e-9

// Point is one gaze sample: horizontal and vertical pupil offsets.
// Identity is structural; Points are never mutated after construction.
type Point struct {
	PX float64
	PY float64
}

// Axis enumerates min, min+step, ... while the value stays within
// [min, max] inclusive (comparison flipped for negative step). Each value is
// rounded to 6 decimals so representational noise never reaches filenames.
// An inverted range for the step's sign yields an empty axis, not an error.
func Axis(min, max, step float64) ([]float64, error) {
	if step == 0 {
		return nil, ErrZeroStep
	}
	var values []float64
	if step > 0 {
		for x := min; x <= max+boundaryEpsilon; x += step {
			values = append(values, round6(x))
		}
	} else {
		for x := min; x >= max-boundaryEpsilon; x += step {
			values = append(values, round6(x))
		}
	}
	return values, nil
}

// Build returns the full cross product of the X and Y axes built from the
// same min/max/step, row-major with X varying fastest.
func Build(min, max, step float64) ([]Point, error) {
	xs, err := Axis(min, max, step)
	if err != nil {
		return nil, err
	}
	ys, err := Axis(min, max, step)
	if err != nil {
		return nil, err
	}
	points := make([]Point, 0, len(xs)*len(ys))
	for _, y := range ys {
		for _, x := range xs {
			points = append(points, Point{PX: x, PY: y})
		}
	}
	return points, nil
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
