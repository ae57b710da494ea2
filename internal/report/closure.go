package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/1homsi/jarcheck/internal/closure"
)

// ClassReport describes one member of a dependency closure.
type ClassReport struct {
	Name       string   `json:"name"`
	Source     string   `json:"source,omitempty"`
	Unresolved bool     `json:"unresolved,omitempty"`
	Error      string   `json:"error,omitempty"`
	References []string `json:"references,omitempty"`
	Path       []string `json:"path"`
}

type ClosureReport struct {
	Entry       string        `json:"entry"`
	EntrySource string        `json:"entry_source,omitempty"`
	Classes     []ClassReport `json:"classes"`
}

func NewClosureReport(c *closure.Closure) ClosureReport {
	unresolved := make(map[string]bool)
	for _, n := range c.Unresolved() {
		unresolved[n] = true
	}
	bad := c.Undecodable()

	r := ClosureReport{
		Entry:       c.Entry,
		EntrySource: c.Source(c.Entry),
		Classes:     []ClassReport{},
	}
	for _, name := range c.Required() {
		cr := ClassReport{
			Name:       name,
			Source:     c.Source(name),
			Unresolved: unresolved[name],
			References: c.References(name),
			Path:       c.Path(name),
		}
		if err, ok := bad[name]; ok {
			cr.Error = err.Error()
		}
		r.Classes = append(r.Classes, cr)
	}
	return r
}

func WriteClosure(w io.Writer, r ClosureReport) {
	p := paletteFor(w)
	fmt.Fprintf(w, "%s%s=== Dependency Closure ===%s\n\n", p.bold, p.cyan, p.reset)
	fmt.Fprintf(w, "Entry: %s", r.Entry)
	if r.EntrySource != "" {
		fmt.Fprintf(w, "  %s[%s]%s", p.gray, r.EntrySource, p.reset)
	}
	fmt.Fprintf(w, "\nRequired: %d\n\n", len(r.Classes))

	for _, c := range r.Classes {
		switch {
		case c.Error != "":
			fmt.Fprintf(w, "%s%s%s  %s[undecodable: %s]%s\n", p.bold, c.Name, p.reset, p.yellow, c.Error, p.reset)
		case c.Unresolved:
			fmt.Fprintf(w, "%s%s%s  %s[unresolved]%s\n", p.bold, c.Name, p.reset, p.red, p.reset)
		default:
			fmt.Fprintf(w, "%s%s%s  %s[%s]%s\n", p.bold, c.Name, p.reset, p.gray, c.Source, p.reset)
		}
		if len(c.References) > 0 {
			fmt.Fprintf(w, "    -> %s\n", strings.Join(c.References, ", "))
		}
		if len(c.Path) > 1 {
			fmt.Fprintf(w, "    %svia %s%s\n", p.gray, strings.Join(c.Path, " → "), p.reset)
		}
	}
}

func WriteClosureJSON(w io.Writer, r ClosureReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
