package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestCLIHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cliMain([]string{"--help"}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), "-skip-existing") {
		t.Fatalf("usage missing flags:\n%s", stdout.String())
	}
}

func TestCLIRequiresImage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cliMain(nil, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), "-image is required") {
		t.Fatalf("unexpected stderr:\n%s", stderr.String())
	}
}

func TestCLIRequiresToken(t *testing.T) {
	t.Setenv("REPLICATE_API_TOKEN", "")
	var stdout, stderr bytes.Buffer
	code := cliMain([]string{"-image", "./face.jpg"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "REPLICATE_API_TOKEN") {
		t.Fatalf("unexpected stderr:\n%s", stderr.String())
	}
}

func TestCLIRejectsMissingImagePath(t *testing.T) {
	var stdout, stderr bytes.Buffer
	missing := filepath.Join(t.TempDir(), "nope.jpg")
	code := cliMain([]string{"-image", missing, "-token", "tok"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "image path") {
		t.Fatalf("unexpected stderr:\n%s", stderr.String())
	}
}

func TestCLIRejectsZeroStep(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := cliMain([]string{"-image", "https://example.com/face.jpg", "-token", "tok", "-step", "0"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "step must be non-zero") {
		t.Fatalf("unexpected stderr:\n%s", stderr.String())
	}
}

func TestCLIRejectsUnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cliMain([]string{"-bogus"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
}
