package deps

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1homsi/jarcheck/internal/archive"
	"github.com/1homsi/jarcheck/internal/closure"
	"github.com/1homsi/jarcheck/internal/config"
	"github.com/1homsi/jarcheck/internal/logging"
	"github.com/1homsi/jarcheck/internal/report"
)

func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("deps", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "JSON output")
	configFile := fs.String("config", "", "config file (default "+config.DefaultFile+" if present)")
	verbose := fs.Bool("verbose", false, "enable verbose debug logging")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "usage: jarcheck deps [flags] <MainClass> <jar>...")
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
	classifier, err := cfg.Classifier()
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

	c, err := closure.New(store, classifier).Resolve(context.Background(), fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, "resolve:", err)
		return 2
	}
	r := report.NewClosureReport(c)

	if *jsonOut {
		if err := report.WriteClosureJSON(stdout, r); err != nil {
			fmt.Fprintln(stderr, "write output:", err)
			return 2
		}
	} else {
		report.WriteClosure(stdout, r)
	}

	if err, bad := c.Undecodable()[fs.Arg(0)]; bad {
		fmt.Fprintf(stderr, "%s cannot be decoded: %v\n", fs.Arg(0), err)
		return 1
	}
	if r.EntrySource == "" {
		fmt.Fprintf(stderr, "%s not found in the provided containers\n", fs.Arg(0))
		return 1
	}
	return 0
}
