package main

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

func TestCLIHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cliMain([]string{"--help"}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), "-columns") {
		t.Fatalf("usage missing flags:\n%s", stdout.String())
	}
}

func TestCLIRequiresDir(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cliMain(nil, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
}

func TestCLIMissingIndexFails(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cliMain([]string{"-dir", t.TempDir()}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
}

func TestCLIBuildsSheet(t *testing.T) {
	dir := t.TempDir()
	row := index.Row{Filename: naming.Filename(0, 0, 256), PupilX: 0, PupilY: 0}

	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: true}); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, row.Filename), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	if err := index.Write(filepath.Join(dir, index.DefaultName), []index.Row{row}); err != nil {
		t.Fatalf("fixture: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if code := cliMain([]string{"-dir", dir}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d; stderr:\n%s", code, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "contact_sheet.pdf")); err != nil {
		t.Fatalf("sheet not written: %v", err)
	}
}
