package main

import (
	"fmt"
	"os"

	"github.com/1homsi/jarcheck/cmd/jarcheck/batch"
	"github.com/1homsi/jarcheck/cmd/jarcheck/check"
	"github.com/1homsi/jarcheck/cmd/jarcheck/deps"
	"github.com/1homsi/jarcheck/cmd/jarcheck/diff"
	"github.com/1homsi/jarcheck/cmd/jarcheck/sbom"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	check.Version = version
	batch.Version = version
	sbom.Version = version

	switch os.Args[1] {
	case "check":
		os.Exit(check.Run(os.Args[2:]))
	case "deps":
		os.Exit(deps.Run(os.Args[2:]))
	case "batch":
		os.Exit(batch.Run(os.Args[2:]))
	case "diff":
		os.Exit(diff.Run(os.Args[2:]))
	case "sbom":
		os.Exit(sbom.Run(os.Args[2:]))
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `jarcheck — JVM classpath dependency checker

Usage:
  jarcheck check   [--json] [--sarif] [--brief] [--config file] [--verbose] <MainClass> <jar|dir>...
  jarcheck deps    [--json] [--config file] [--verbose] <MainClass> <jar|dir>...
  jarcheck batch   [--json] [--sarif] [--jobs N] [--config file] --entries A,B,... <jar|dir>...
  jarcheck diff    [--json] [--config file] --old <classpath> --new <classpath> <MainClass>
  jarcheck sbom    [--config file] [--verbose] <MainClass> <jar|dir>...
  jarcheck version

Exit codes: 0 satisfiable, 1 not satisfiable, 2 usage or I/O error.`)
}
