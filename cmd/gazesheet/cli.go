// Command gazesheet renders a generated portfolio and its index into a PDF
// contact sheet for quick visual review of the gaze grid.
package main

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hyperifyio/gazegrid/internal/index"
	"github.com/hyperifyio/gazegrid/internal/sheet"
)

type cliConfig struct {
	dir       string
	indexPath string
	outPath   string
	columns   int
	cell      float64
}

func parseFlags(args []string) (cliConfig, error) {
	var cfg cliConfig
	fs := flag.NewFlagSet("gazesheet", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.dir, "dir", "", "Portfolio directory (required)")
	fs.StringVar(&cfg.indexPath, "index", "", "Index file (default <dir>/index.csv)")
	fs.StringVar(&cfg.outPath, "out", "", "Output PDF path (default <dir>/contact_sheet.pdf)")
	fs.IntVar(&cfg.columns, "columns", 7, "Images per row")
	fs.Float64Var(&cfg.cell, "cell", 0, "Cell size in mm (0 derives from columns)")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.indexPath == "" {
		cfg.indexPath = filepath.Join(cfg.dir, index.DefaultName)
	}
	if cfg.outPath == "" {
		cfg.outPath = filepath.Join(cfg.dir, "contact_sheet.pdf")
	}
	return cfg, nil
}

// cliMain is a testable entrypoint returning the process exit code.
func cliMain(args []string, stdout io.Writer, stderr io.Writer) int {
	if helpRequested(args) {
		printUsage(stdout)
		return 0
	}
	cfg, err := parseFlags(args)
	if err != nil {
		safeFprintf(stderr, "error: %v\n", err)
		printUsage(stderr)
		return 2
	}
	if strings.TrimSpace(cfg.dir) == "" {
		safeFprintln(stderr, "error: -dir is required")
		printUsage(stderr)
		return 2
	}
	if err := sheet.Build(cfg.indexPath, cfg.dir, cfg.outPath, cfg.columns, cfg.cell); err != nil {
		safeFprintf(stderr, "error: %v\n", err)
		return 1
	}
	safeFprintf(stdout, "Wrote %s\n", cfg.outPath)
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
	b.WriteString("gazesheet — render a gaze-grid portfolio into a PDF contact sheet\n\n")
	b.WriteString("Usage:\n  gazesheet [flags]\n\n")
	b.WriteString("Flags:\n")
	b.WriteString("  -dir string\n    Portfolio directory (required)\n")
	b.WriteString("  -index string\n    Index file (default <dir>/index.csv)\n")
	b.WriteString("  -out string\n    Output PDF path (default <dir>/contact_sheet.pdf)\n")
	b.WriteString("  -columns int\n    Images per row (default 7)\n")
	b.WriteString("  -cell float\n    Cell size in mm, 0 derives from columns\n")
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
