package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/1homsi/jarcheck/internal/checker"
)

// TextOptions controls WriteCheck. Brief prints only the number of
// available classes instead of listing them.
type TextOptions struct {
	Brief bool
}

// Headline is the one-line verdict for r.
func Headline(r *checker.Result) string {
	switch {
	case r.Satisfiable:
		return "true: All dependencies available"
	case r.Reason == checker.ReasonEntryNotFound:
		return "false: Main class not found in provided JARs"
	case r.Reason == checker.ReasonUndecodable:
		return "false: Undecodable classes"
	default:
		return "false: Missing dependencies"
	}
}

func WriteCheck(w io.Writer, r *checker.Result, opts TextOptions) {
	p := paletteFor(w)
	verdict := p.green
	if !r.Satisfiable {
		verdict = p.red
	}
	fmt.Fprintf(w, "%s%s=== Classpath Check ===%s\n\n", p.bold, p.cyan, p.reset)
	fmt.Fprintf(w, "Entry:  %s\n", r.Entry)
	fmt.Fprintf(w, "Result: %s%s%s%s\n", p.bold, verdict, Headline(r), p.reset)

	if opts.Brief {
		fmt.Fprintf(w, "\n%sAvailable classes:%s %d\n", p.bold, p.reset, len(r.Available))
	} else {
		writeList(w, p, fmt.Sprintf("Available classes (%d)", len(r.Available)), r.Available)
	}
	if r.Reason == checker.ReasonEntryNotFound {
		return
	}
	writeList(w, p, fmt.Sprintf("Required classes for %s (%d)", r.Entry, len(r.Required)), r.Required)

	if len(r.Missing) > 0 {
		fmt.Fprintf(w, "\n%sMissing dependencies (%d):%s\n", p.bold, len(r.Missing), p.reset)
		for _, m := range r.Missing {
			fmt.Fprintf(w, "  %s%s%s\n", p.red, m, p.reset)
			if path := r.MissingPaths[m]; len(path) > 1 {
				fmt.Fprintf(w, "    %svia %s%s\n", p.gray, strings.Join(path, " → "), p.reset)
			}
		}
	}

	if len(r.Undecodable) > 0 {
		names := make([]string, 0, len(r.Undecodable))
		for n := range r.Undecodable {
			names = append(names, n)
		}
		sort.Strings(names)
		fmt.Fprintf(w, "\n%sUndecodable classes (%d):%s\n", p.bold, len(names), p.reset)
		for _, n := range names {
			fmt.Fprintf(w, "  %s%s%s: %s\n", p.yellow, n, p.reset, r.Undecodable[n])
		}
	}
}

func writeList(w io.Writer, p palette, title string, names []string) {
	fmt.Fprintf(w, "\n%s%s:%s\n", p.bold, title, p.reset)
	if len(names) == 0 {
		fmt.Fprintf(w, "  %s(none)%s\n", p.gray, p.reset)
		return
	}
	for _, n := range names {
		fmt.Fprintf(w, "  %s\n", n)
	}
}

// WriteBatch prints one line per result followed by the missing classes of
// each failing entry.
func WriteBatch(w io.Writer, results []*checker.Result) {
	p := paletteFor(w)
	fmt.Fprintf(w, "%s%s=== Batch Check ===%s\n\n", p.bold, p.cyan, p.reset)
	failed := 0
	for _, r := range results {
		label := p.green + "PASS" + p.reset
		if !r.Satisfiable {
			label = p.red + "FAIL" + p.reset
			failed++
		}
		fmt.Fprintf(w, "%s%-60s%s %s  %s\n", p.bold, r.Entry, p.reset, label, r.Reason)
		for _, m := range r.Missing {
			fmt.Fprintf(w, "    %s- %s%s\n", p.red, m, p.reset)
		}
	}
	fmt.Fprintln(w)
	if failed == 0 {
		fmt.Fprintf(w, "%s%s✓ %d entry points satisfiable%s\n", p.bold, p.green, len(results), p.reset)
	} else {
		fmt.Fprintf(w, "%s%s✗ %d of %d entry points not satisfiable%s\n", p.bold, p.red, failed, len(results), p.reset)
	}
}
