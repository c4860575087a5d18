// Package finish turns raw inference output bytes into resized portfolio
// images on disk.
package finish

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// ErrDecode marks input bytes no decoder understands.
var ErrDecode = errors.New("input is not a decodable image")

// SaveResizedWebP reads all bytes from r, decodes them, normalizes to NRGBA,
// resizes to size x size with Lanczos resampling and writes a WEBP file at
// outPath with the given quality. Missing parent directories are created.
func SaveResizedWebP(r io.Reader, outPath string, size, quality int) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read image bytes: %w", err)
	}
	img, err := decode(raw)
	if err != nil {
		return err
	}
	// Clone normalizes any source model to NRGBA before resampling.
	resized := imaging.Resize(imaging.Clone(img), size, size, imaging.Lanczos)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	opts := &webp.Options{Quality: float32(quality)}
	if err := webp.Encode(f, resized, opts); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode webp %s: %w", outPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", outPath, err)
	}
	return nil
}

// decode tries the WEBP container first (the service's native output) and
// falls back to the registered stdlib/imaging formats for anything else.
func decode(raw []byte) (image.Image, error) {
	if img, err := webp.Decode(bytes.NewReader(raw)); err == nil {
		return img, nil
	}
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}
