package sbom

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1homsi/jarcheck/internal/archive"
	"github.com/1homsi/jarcheck/internal/closure"
	"github.com/1homsi/jarcheck/internal/config"
	"github.com/1homsi/jarcheck/internal/logging"
	"github.com/1homsi/jarcheck/internal/sbom"
)

// Version is recorded as the generating tool version.
var Version = "dev"

func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sbom", flag.ExitOnError)
	configFile := fs.String("config", "", "config file (default "+config.DefaultFile+" if present)")
	verbose := fs.Bool("verbose", false, "enable verbose debug logging")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "usage: jarcheck sbom [flags] <MainClass> <jar>...")
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
	bom, err := sbom.Generate(c, store, Version)
	if err != nil {
		fmt.Fprintln(stderr, "sbom:", err)
		return 2
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bom); err != nil {
		fmt.Fprintln(stderr, "write output:", err)
		return 2
	}
	return 0
}
