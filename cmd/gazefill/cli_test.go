package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/gazegrid/internal/grid"
	"github.com/hyperifyio/gazegrid/internal/naming"
)

func TestCLIHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cliMain([]string{"-h"}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), "-portfolio") {
		t.Fatalf("usage missing flags:\n%s", stdout.String())
	}
}

func TestCLIRequiresImageAndPortfolio(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cliMain([]string{"-image", "x.jpg"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
}

func TestCLIRequiresToken(t *testing.T) {
	t.Setenv("REPLICATE_API_TOKEN", "")
	var stdout, stderr bytes.Buffer
	code := cliMain([]string{"-image", "x.jpg", "-portfolio", t.TempDir()}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "REPLICATE_API_TOKEN") {
		t.Fatalf("unexpected stderr:\n%s", stderr.String())
	}
}

func TestCLIMissingPortfolioDirFails(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := cliMain([]string{
		"-image", "https://example.com/face.jpg",
		"-portfolio", filepath.Join(t.TempDir(), "absent"),
		"-token", "tok",
	}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
}

func TestCLINothingMissingMakesNoCalls(t *testing.T) {
	// A fully populated portfolio exits 0 before any network use.
	dir := t.TempDir()
	points, err := grid.Build(-15, 15, 15)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	for _, p := range points {
		name := naming.Filename(p.PX, p.PY, 256)
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("fixture: %v", err)
		}
	}

	var stdout, stderr bytes.Buffer
	code := cliMain([]string{
		"-image", "https://example.com/face.jpg",
		"-portfolio", dir,
		"-token", "tok",
		"-min", "-15", "-max", "15", "-step", "15",
	}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d; stderr:\n%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "nothing to do") {
		t.Fatalf("unexpected stdout:\n%s", stdout.String())
	}
}
