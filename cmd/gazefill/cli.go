// Command gazefill repairs a gaze-grid portfolio in place: it diffs the
// expected grid against the portfolio directory and regenerates only the
// files that are absent.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hyperifyio/gazegrid/internal/cliflag"
	"github.com/hyperifyio/gazegrid/internal/grid"
	"github.com/hyperifyio/gazegrid/internal/logging"
	"github.com/hyperifyio/gazegrid/internal/replicate"
	"github.com/hyperifyio/gazegrid/internal/run"
)

type cliConfig struct {
	image       string
	portfolio   string
	min         float64
	max         float64
	step        float64
	size        int
	quality     int
	token       string
	baseURL     string
	httpTimeout time.Duration
}

func parseFlags(args []string) (cliConfig, error) {
	var cfg cliConfig
	fs := flag.NewFlagSet("gazefill", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	defaultBase := cliflag.GetEnv("REPLICATE_BASE_URL", replicate.DefaultBaseURL)
	defaultToken := cliflag.GetEnv("REPLICATE_API_TOKEN", "")

	fs.StringVar(&cfg.image, "image", "", "Local source image path or URL (required)")
	fs.StringVar(&cfg.portfolio, "portfolio", "", "Portfolio directory to repair (required)")
	fs.Float64Var(&cfg.min, "min", -15, "Minimum pupil_x/y value")
	fs.Float64Var(&cfg.max, "max", 15, "Maximum pupil_x/y value")
	// The reference portfolio was generated at step 2.5; the diff defaults
	// to the same lattice.
	fs.Float64Var(&cfg.step, "step", 2.5, "Grid step size")
	fs.IntVar(&cfg.size, "size", 256, "Square output size in pixels")
	fs.IntVar(&cfg.quality, "quality", 95, "WEBP encode quality")
	fs.StringVar(&cfg.token, "token", defaultToken, "Replicate API token (env REPLICATE_API_TOKEN)")
	fs.StringVar(&cfg.baseURL, "base-url", defaultBase, "Replicate API base URL (env REPLICATE_BASE_URL)")
	cfg.httpTimeout = 90 * time.Second
	fs.Var(cliflag.Duration{Dst: &cfg.httpTimeout}, "http-timeout", "Per-request HTTP timeout (seconds or Go duration)")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// cliMain is a testable entrypoint returning the process exit code.
func cliMain(args []string, stdout io.Writer, stderr io.Writer) int {
	if helpRequested(args) {
		printUsage(stdout)
		return 0
	}
	_ = godotenv.Load()

	cfg, err := parseFlags(args)
	if err != nil {
		safeFprintf(stderr, "error: %v\n", err)
		printUsage(stderr)
		return 2
	}
	if strings.TrimSpace(cfg.image) == "" || strings.TrimSpace(cfg.portfolio) == "" {
		safeFprintln(stderr, "error: -image and -portfolio are required")
		printUsage(stderr)
		return 2
	}
	return runFill(cfg, stdout, stderr)
}

func runFill(cfg cliConfig, stdout io.Writer, stderr io.Writer) int {
	if strings.TrimSpace(cfg.token) == "" {
		safeFprintln(stderr, "error: REPLICATE_API_TOKEN not set (or pass -token)")
		return 1
	}

	imageInput, err := replicate.ResolveImageInput(cfg.image)
	if err != nil {
		safeFprintf(stderr, "error: %v\n", err)
		return 1
	}
	points, err := grid.Build(cfg.min, cfg.max, cfg.step)
	if err != nil {
		safeFprintf(stderr, "error: %v\n", err)
		return 1
	}

	log := logging.New()
	client := replicate.NewClient(cfg.baseURL, cfg.token, cfg.httpTimeout)
	runner := run.New(run.NewReplicateGenerator(client), run.Options{
		OutDir:  cfg.portfolio,
		Size:    cfg.size,
		Quality: cfg.quality,
		Log:     log,
	})

	report, err := runner.FillMissing(context.Background(), imageInput, points)
	if err != nil {
		safeFprintf(stderr, "error: %v\n", err)
		return 1
	}
	if report.Missing == 0 {
		safeFprintf(stdout, "All %d expected files present; nothing to do.\n", report.Expected)
		return 0
	}
	safeFprintf(stdout, "Generated %d of %d missing files (expected %d total).\n",
		report.Generated(), report.Missing, report.Expected)
	if !report.Success() {
		safeFprintln(stderr, "error: some missing files could not be generated")
		return 1
	}
	return 0
}

func helpRequested(args []string) bool {
	for _, a := range args {
		if a == "--help" || a == "-h" || a == "help" {
			return true
		}
	}
	return false
}

func printUsage(w io.Writer) {
	var b strings.Builder
	b.WriteString("gazefill — regenerate only the missing files of a gaze-grid portfolio\n\n")
	b.WriteString("Usage:\n  gazefill [flags]\n\n")
	b.WriteString("Flags (precedence: flag > env > default):\n")
	b.WriteString("  -image string\n    Local source image path or URL (required)\n")
	b.WriteString("  -portfolio string\n    Portfolio directory to repair (required)\n")
	b.WriteString("  -min float\n    Minimum pupil_x/y value (default -15)\n")
	b.WriteString("  -max float\n    Maximum pupil_x/y value (default 15)\n")
	b.WriteString("  -step float\n    Grid step size (default 2.5)\n")
	b.WriteString("  -size int\n    Square output size in pixels (default 256)\n")
	b.WriteString("  -quality int\n    WEBP encode quality (default 95)\n")
	b.WriteString("  -token string\n    Replicate API token (env REPLICATE_API_TOKEN)\n")
	b.WriteString("  -base-url string\n    Replicate API base URL (env REPLICATE_BASE_URL)\n")
	b.WriteString("  -http-timeout duration\n    Per-request HTTP timeout, seconds or Go duration (default 90s)\n")
	b.WriteString("\nExit status is 0 when nothing was missing or every missing file was\n")
	b.WriteString("generated, 1 otherwise.\n")
	safeFprintln(w, strings.TrimRight(b.String(), "\n"))
}

func safeFprintln(w io.Writer, a ...any) {
	if _, err := fmt.Fprintln(w, a...); err != nil {
		return
	}
}

func safeFprintf(w io.Writer, format string, a ...any) {
	if _, err := fmt.Fprintf(w, format, a...); err != nil {
		return
	}
}
