// Package cliflag holds small flag.Value helpers shared by the gazegrid
// commands: env-backed defaults and flexible duration parsing.
package cliflag

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnv returns the environment value for key, or def when unset or empty.
func GetEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// Duration wires a duration destination and records whether the flag was
// provided. It accepts Go duration strings and plain integer seconds.
type Duration struct {
	Dst  *time.Duration
	Seen *bool
}

func (f Duration) String() string {
	if f.Dst == nil {
		return ""
	}
	return f.Dst.String()
}

// Set implements flag.Value.
func (f Duration) Set(s string) error {
	d, err := ParseDurationFlexible(s)
	if err != nil {
		return err
	}
	*f.Dst = d
	if f.Seen != nil {
		*f.Seen = true
	}
	return nil
}

// ParseDurationFlexible parses a duration allowing either Go duration syntax
// or a plain integer representing seconds.
func ParseDurationFlexible(raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	allDigits := true
	for _, r := range s {
		if r < '0' || r > '9' {
			allDigits = false
			break
		}
	}
	if allDigits {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, err
		}
		if n <= 0 {
			return 0, fmt.Errorf("duration seconds must be > 0")
		}
		return time.Duration(n) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid duration: %q", raw)
}
