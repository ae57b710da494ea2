package batch

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/1homsi/jarcheck/internal/archive"
	"github.com/1homsi/jarcheck/internal/checker"
	"github.com/1homsi/jarcheck/internal/config"
	"github.com/1homsi/jarcheck/internal/logging"
	"github.com/1homsi/jarcheck/internal/report"
)

// Version is reported in SARIF output.
var Version = "dev"

func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "JSON output")
	sarifOut := fs.Bool("sarif", false, "SARIF 2.1.0 output")
	entries := fs.String("entries", "", "comma-separated entry classes (default: entries from the config file)")
	jobs := fs.Int("jobs", 0, "concurrent checks (default: config jobs, then one per CPU)")
	configFile := fs.String("config", "", "config file (default "+config.DefaultFile+" if present)")
	verbose := fs.Bool("verbose", false, "enable verbose debug logging")
	fs.Parse(args)

	if *verbose {
		logging.SetVerbose(true)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(stderr, "load config:", err)
		return 2
	}
	opts, err := cfg.CheckerOptions(*jobs)
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 2
	}

	names := splitEntries(*entries)
	if len(names) == 0 {
		names = cfg.Entries
	}
	if len(names) == 0 {
		fmt.Fprintln(stderr, "usage: jarcheck batch --entries A,B,... <jar>...")
		return 2
	}

	store, err := archive.Open(fs.Args()...)
	if err != nil {
		fmt.Fprintln(stderr, "open classpath:", err)
		return 2
	}
	defer store.Close()

	results, err := checker.CheckAll(context.Background(), names, store, opts)
	if err != nil {
		fmt.Fprintln(stderr, "check:", err)
		return 2
	}

	var writeErr error
	switch {
	case *sarifOut:
		writeErr = report.WriteCheckSARIF(stdout, results, Version)
	case *jsonOut:
		writeErr = report.WriteBatchJSON(stdout, results)
	default:
		report.WriteBatch(stdout, results)
	}
	if writeErr != nil {
		fmt.Fprintln(stderr, "write output:", writeErr)
		return 2
	}

	for _, r := range results {
		if !r.Satisfiable {
			return 1
		}
	}
	return 0
}

func splitEntries(s string) []string {
	var out []string
	for _, e := range strings.Split(s, ",") {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}
