package sheet

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chai2010/webp"

	"github.com/hyperifyio/gazegrid/internal/index"
	"github.com/hyperifyio/gazegrid/internal/naming"
)

func writeWebP(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: true}); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func TestBuildWritesPDF(t *testing.T) {
	dir := t.TempDir()
	rows := []index.Row{
		{Filename: naming.Filename(-15, -15, 256), PupilX: -15, PupilY: -15},
		{Filename: naming.Filename(0, 0, 256), PupilX: 0, PupilY: 0},
		{Filename: naming.Filename(15, 15, 256), PupilX: 15, PupilY: 15},
	}
	for i, r := range rows {
		writeWebP(t, filepath.Join(dir, r.Filename), color.NRGBA{R: uint8(60 * i), G: 80, B: 120, A: 255})
	}
	indexPath := filepath.Join(dir, index.DefaultName)
	if err := index.Write(indexPath, rows); err != nil {
		t.Fatalf("index fixture: %v", err)
	}

	out := filepath.Join(dir, "contact_sheet.pdf")
	if err := Build(indexPath, dir, out, 3, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Fatalf("output does not look like a PDF")
	}
}

func TestBuildSkipsMissingImages(t *testing.T) {
	dir := t.TempDir()
	present := index.Row{Filename: naming.Filename(0, 0, 256), PupilX: 0, PupilY: 0}
	absent := index.Row{Filename: naming.Filename(5, 5, 256), PupilX: 5, PupilY: 5}
	writeWebP(t, filepath.Join(dir, present.Filename), color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	indexPath := filepath.Join(dir, index.DefaultName)
	if err := index.Write(indexPath, []index.Row{present, absent}); err != nil {
		t.Fatalf("index fixture: %v", err)
	}
	out := filepath.Join(dir, "sheet.pdf")
	if err := Build(indexPath, dir, out, 3, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output not written: %v", err)
	}
}

func TestBuildFailsWhenNothingToPlace(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, index.DefaultName)
	rows := []index.Row{{Filename: naming.Filename(1, 1, 256), PupilX: 1, PupilY: 1}}
	if err := index.Write(indexPath, rows); err != nil {
		t.Fatalf("index fixture: %v", err)
	}
	if err := Build(indexPath, dir, filepath.Join(dir, "sheet.pdf"), 3, 0); err == nil {
		t.Fatalf("expected error when no image can be placed")
	}
}
