package diff

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/1homsi/jarcheck/internal/archive"
	"github.com/1homsi/jarcheck/internal/checker"
	"github.com/1homsi/jarcheck/internal/config"
	"github.com/1homsi/jarcheck/internal/logging"
	"github.com/1homsi/jarcheck/internal/report"
)

func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "JSON output")
	oldCP := fs.String("old", "", "old classpath, entries separated by "+string(os.PathListSeparator))
	newCP := fs.String("new", "", "new classpath, entries separated by "+string(os.PathListSeparator))
	configFile := fs.String("config", "", "config file (default "+config.DefaultFile+" if present)")
	verbose := fs.Bool("verbose", false, "enable verbose debug logging")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: jarcheck diff --old <classpath> --new <classpath> <MainClass>")
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

	entry := fs.Arg(0)
	oldPaths, newPaths := filepath.SplitList(*oldCP), filepath.SplitList(*newCP)
	oldRes, err := checkClasspath(entry, oldPaths, opts)
	if err != nil {
		fmt.Fprintln(stderr, "old classpath:", err)
		return 2
	}
	newRes, err := checkClasspath(entry, newPaths, opts)
	if err != nil {
		fmt.Fprintln(stderr, "new classpath:", err)
		return 2
	}

	d := report.NewClasspathDiff(oldRes, newRes, oldPaths, newPaths)
	if *jsonOut {
		if err := report.WriteClasspathDiffJSON(stdout, d); err != nil {
			fmt.Fprintln(stderr, "write output:", err)
			return 2
		}
	} else {
		report.WriteClasspathDiff(stdout, d)
	}

	if d.OldSatisfiable && !d.NewSatisfiable {
		return 1
	}
	return 0
}

func checkClasspath(entry string, paths []string, opts checker.Options) (*checker.Result, error) {
	store, err := archive.Open(paths...)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return checker.Check(context.Background(), entry, store, opts)
}
