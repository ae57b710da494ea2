package check

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

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
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "JSON output")
	sarifOut := fs.Bool("sarif", false, "SARIF 2.1.0 output")
	brief := fs.Bool("brief", false, "print only the number of available classes")
	configFile := fs.String("config", "", "config file (default "+config.DefaultFile+" if present)")
	verbose := fs.Bool("verbose", false, "enable verbose debug logging")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "usage: jarcheck check [flags] <MainClass> <jar>...")
		return 2
	}
	if *verbose {
		logging.SetVerbose(true)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(stderr, "load config:", err)
		return 2
	}
	opts, err := cfg.CheckerOptions(0)
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 2
	}

	store, err := archive.Open(fs.Args()[1:]...)
	if err != nil {
		fmt.Fprintln(stderr, "open classpath:", err)
		return 2
	}
	defer store.Close()

	res, err := checker.Check(context.Background(), fs.Arg(0), store, opts)
	if err != nil {
		fmt.Fprintln(stderr, "check:", err)
		return 2
	}

	var writeErr error
	switch {
	case *sarifOut:
		writeErr = report.WriteCheckSARIF(stdout, []*checker.Result{res}, Version)
	case *jsonOut:
		writeErr = report.WriteCheckJSON(stdout, res)
	default:
		report.WriteCheck(stdout, res, report.TextOptions{Brief: *brief})
	}
	if writeErr != nil {
		fmt.Fprintln(stderr, "write output:", writeErr)
		return 2
	}

	if !res.Satisfiable {
		return 1
	}
	return 0
}
