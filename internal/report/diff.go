package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/1homsi/jarcheck/internal/checker"
)

// ClasspathDiff compares the checks of one entry class against two
// classpaths.
type ClasspathDiff struct {
	Entry          string   `json:"entry"`
	OldClasspath   []string `json:"old_classpath"`
	NewClasspath   []string `json:"new_classpath"`
	OldSatisfiable bool     `json:"old_satisfiable"`
	NewSatisfiable bool     `json:"new_satisfiable"`
	OldReason      string   `json:"old_reason"`
	NewReason      string   `json:"new_reason"`
	// Broken lists classes missing only on the new classpath.
	Broken []string `json:"broken"`
	// Fixed lists classes missing only on the old classpath.
	Fixed []string `json:"fixed"`
}

func NewClasspathDiff(old, cur *checker.Result, oldCP, newCP []string) ClasspathDiff {
	d := ClasspathDiff{
		Entry:          cur.Entry,
		OldClasspath:   oldCP,
		NewClasspath:   newCP,
		OldSatisfiable: old.Satisfiable,
		NewSatisfiable: cur.Satisfiable,
		OldReason:      old.Reason,
		NewReason:      cur.Reason,
		Broken:         []string{},
		Fixed:          []string{},
	}
	wasMissing := make(map[string]bool, len(old.Missing))
	for _, m := range old.Missing {
		wasMissing[m] = true
	}
	isMissing := make(map[string]bool, len(cur.Missing))
	for _, m := range cur.Missing {
		isMissing[m] = true
		if !wasMissing[m] {
			d.Broken = append(d.Broken, m)
		}
	}
	for _, m := range old.Missing {
		if !isMissing[m] {
			d.Fixed = append(d.Fixed, m)
		}
	}
	return d
}

func WriteClasspathDiff(w io.Writer, d ClasspathDiff) {
	p := paletteFor(w)
	fmt.Fprintf(w, "%s%s=== Classpath Diff ===%s\n", p.bold, p.cyan, p.reset)
	fmt.Fprintf(w, "%s\n", d.Entry)
	fmt.Fprintf(w, "  old: %s  %s\n", strings.Join(d.OldClasspath, ":"), verdict(p, d.OldSatisfiable, d.OldReason))
	fmt.Fprintf(w, "  new: %s  %s\n\n", strings.Join(d.NewClasspath, ":"), verdict(p, d.NewSatisfiable, d.NewReason))

	if len(d.Broken) == 0 && len(d.Fixed) == 0 {
		fmt.Fprintf(w, "%sNo dependency changes.%s\n", p.green, p.reset)
		return
	}
	for _, b := range d.Broken {
		fmt.Fprintf(w, "    %s+ %s%s\n", p.red, b, p.reset)
	}
	for _, f := range d.Fixed {
		fmt.Fprintf(w, "    %s- %s%s\n", p.green, f, p.reset)
	}
	if d.OldSatisfiable && !d.NewSatisfiable {
		fmt.Fprintf(w, "\n%s%s⚠ NEW CLASSPATH BREAKS %s%s\n", p.bold, p.red, d.Entry, p.reset)
	}
}

func verdict(p palette, ok bool, reason string) string {
	if ok {
		return p.green + reason + p.reset
	}
	return p.red + reason + p.reset
}

func WriteClasspathDiffJSON(w io.Writer, d ClasspathDiff) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
