// Package naming maps grid coordinates to deterministic portfolio filenames.
package naming

import (
	"fmt"
	"strconv"
	"strings"
)

// Extension is the container format suffix for every generated image.
const Extension = ".webp"

// FormatValue renders a float in its canonical decimal form: shortest
// round-trip representation, plain notation, trailing zeros trimmed.
// It is the single float-to-string routine shared by the filename codec and
// the index writer so the two can never disagree.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SanitizeValue produces a filesystem-safe token for a float by replacing
// the sign with 'm' and the decimal point with 'p'. Neither letter can occur
// in a decimal numeral, so distinct values yield distinct tokens.
// Examples: -12.5 -> "m12p5", 3 -> "3", 0 -> "0".
func SanitizeValue(v float64) string {
	s := FormatValue(v)
	s = strings.ReplaceAll(s, "-", "m")
	s = strings.ReplaceAll(s, ".", "p")
	return s
}

// Filename embeds both encoded coordinates and the output size.
// The px/py prefixes keep the axis tokens unambiguous, so the mapping is
// injective over distinct (px, py, size) triples.
func Filename(px, py float64, size int) string {
	return fmt.Sprintf("gaze_px%s_py%s_%d%s", SanitizeValue(px), SanitizeValue(py), size, Extension)
}
