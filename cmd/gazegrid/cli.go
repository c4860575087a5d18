// Command gazegrid generates a full gaze-grid portfolio: it drives the
// expression-editor model across every (pupil_x, pupil_y) sample, resizes
// the results to square WEBP files and writes a CSV index next to them.
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
	"github.com/hyperifyio/gazegrid/internal/index"
	"github.com/hyperifyio/gazegrid/internal/logging"
	"github.com/hyperifyio/gazegrid/internal/replicate"
	"github.com/hyperifyio/gazegrid/internal/run"
)

// cliConfig holds user-supplied configuration resolved from flags and env.
type cliConfig struct {
	image        string
	outDir       string
	min          float64
	max          float64
	step         float64
	size         int
	quality      int
	skipExisting bool
	token        string
	baseURL      string
	httpTimeout  time.Duration
}

func parseFlags(args []string) (cliConfig, error) {
	var cfg cliConfig
	fs := flag.NewFlagSet("gazegrid", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	defaultBase := cliflag.GetEnv("REPLICATE_BASE_URL", replicate.DefaultBaseURL)
	defaultToken := cliflag.GetEnv("REPLICATE_API_TOKEN", "")

	fs.StringVar(&cfg.image, "image", "", "Local source image path or URL (required)")
	fs.StringVar(&cfg.outDir, "out", "./out", "Output directory")
	fs.Float64Var(&cfg.min, "min", -15, "Minimum pupil_x/y value")
	fs.Float64Var(&cfg.max, "max", 15, "Maximum pupil_x/y value")
	fs.Float64Var(&cfg.step, "step", 3, "Grid step size")
	fs.IntVar(&cfg.size, "size", 256, "Square output size in pixels")
	fs.IntVar(&cfg.quality, "quality", 95, "WEBP encode quality")
	fs.BoolVar(&cfg.skipExisting, "skip-existing", false, "Skip points whose target file already exists")
	fs.StringVar(&cfg.token, "token", defaultToken, "Replicate API token (env REPLICATE_API_TOKEN)")
	fs.StringVar(&cfg.baseURL, "base-url", defaultBase, "Replicate API base URL (env REPLICATE_BASE_URL)")
	cfg.httpTimeout = 90 * time.Second
	fs.Var(cliflag.Duration{Dst: &cfg.httpTimeout}, "http-timeout", "Per-request HTTP timeout (seconds or Go duration)")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// cliMain is a testable entrypoint: it accepts argv (excluding the program
// name) and writers for stdout/stderr and returns the process exit code.
func cliMain(args []string, stdout io.Writer, stderr io.Writer) int {
	if helpRequested(args) {
		printUsage(stdout)
		return 0
	}
	// Best-effort .env load so REPLICATE_API_TOKEN can live beside the repo.
	_ = godotenv.Load()

	cfg, err := parseFlags(args)
	if err != nil {
		safeFprintf(stderr, "error: %v\n", err)
		printUsage(stderr)
		return 2
	}
	if strings.TrimSpace(cfg.image) == "" {
		safeFprintln(stderr, "error: -image is required")
		printUsage(stderr)
		return 2
	}
	return runGeneration(cfg, stdout, stderr)
}

func runGeneration(cfg cliConfig, stdout io.Writer, stderr io.Writer) int {
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
		OutDir:       cfg.outDir,
		Size:         cfg.size,
		Quality:      cfg.quality,
		SkipExisting: cfg.skipExisting,
		Log:          log,
	})

	report, err := runner.GenerateAll(context.Background(), imageInput, points)
	if err != nil {
		safeFprintf(stderr, "error: %v\n", err)
		return 1
	}
	safeFprintf(stdout, "Done. %d generated, %d skipped, %d failed; %d rows in %s.\n",
		report.Generated(), report.Skipped(), report.Failed(), len(report.Rows()), index.DefaultName)
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
	b.WriteString("gazegrid — generate a gaze-grid image portfolio via the expression-editor model\n\n")
	b.WriteString("Usage:\n  gazegrid [flags]\n\n")
	b.WriteString("Flags (precedence: flag > env > default):\n")
	b.WriteString("  -image string\n    Local source image path or URL (required)\n")
	b.WriteString("  -out string\n    Output directory (default ./out)\n")
	b.WriteString("  -min float\n    Minimum pupil_x/y value (default -15)\n")
	b.WriteString("  -max float\n    Maximum pupil_x/y value (default 15)\n")
	b.WriteString("  -step float\n    Grid step size (default 3)\n")
	b.WriteString("  -size int\n    Square output size in pixels (default 256)\n")
	b.WriteString("  -quality int\n    WEBP encode quality (default 95)\n")
	b.WriteString("  -skip-existing\n    Skip points whose target file already exists\n")
	b.WriteString("  -token string\n    Replicate API token (env REPLICATE_API_TOKEN)\n")
	b.WriteString("  -base-url string\n    Replicate API base URL (env REPLICATE_BASE_URL)\n")
	b.WriteString("  -http-timeout duration\n    Per-request HTTP timeout, seconds or Go duration (default 90s)\n")
	b.WriteString("\nExamples:\n")
	b.WriteString("  export REPLICATE_API_TOKEN=...\n")
	b.WriteString("  gazegrid -image ./me_512.jpg -out ./out -min -15 -max 15 -step 3\n")
	safeFprintln(w, strings.TrimRight(b.String(), "\n"))
}

// safeFprintln writes a line to w and intentionally ignores write errors.
func safeFprintln(w io.Writer, a ...any) {
	if _, err := fmt.Fprintln(w, a...); err != nil {
		return
	}
}

// safeFprintf writes formatted text to w and intentionally ignores write errors.
func safeFprintf(w io.Writer, format string, a ...any) {
	if _, err := fmt.Fprintf(w, format, a...); err != nil {
		return
	}
}
