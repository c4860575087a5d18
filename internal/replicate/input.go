package replicate

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// IsURL reports whether the image argument is already a remote or inline
// reference the service can consume directly.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "data:")
}

// ResolveImageInput turns the user-supplied image argument into the opaque
// string handed to every Generate call. URLs and data URIs pass through
// untouched; a local path is read fully once and embedded as a data URI, so
// repeated calls reuse the same immutable bytes instead of sharing a stream
// that would be exhausted after the first read.
func ResolveImageInput(arg string) (string, error) {
	if IsURL(arg) {
		return arg, nil
	}
	raw, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("image path %s: %w", arg, err)
	}
	mime := http.DetectContentType(raw)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
