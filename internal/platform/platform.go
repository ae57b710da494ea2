// Package platform classifies class names that every Java runtime provides.
// Such names are left out of dependency closures and availability checks.
package platform

import (
	"sort"
	"strings"

	"github.com/1homsi/jarcheck/internal/typename"
)

var primitives = []string{
	"boolean", "char", "byte", "short", "int", "long", "float", "double", "void",
}

// Classifier is an immutable set of runtime package prefixes and exact class
// names. The zero value classifies only primitive keywords as platform.
type Classifier struct {
	prefixes []string
	names    map[string]bool
}

var jdk = MustLoadProfile(DefaultProfile)

// Default returns the classifier for the standard Java runtime.
func Default() Classifier {
	return jdk
}

// New returns a classifier for the given dotted package prefixes (for
// example "java.") and exact names. Primitive keywords are always included.
func New(prefixes, names []string) Classifier {
	c := Classifier{names: make(map[string]bool, len(names)+len(primitives))}
	for _, p := range prefixes {
		p = strings.ReplaceAll(strings.TrimSpace(p), "/", ".")
		if p != "" {
			c.prefixes = append(c.prefixes, p)
		}
	}
	sort.Strings(c.prefixes)
	for _, n := range primitives {
		c.names[n] = true
	}
	for _, n := range names {
		c.names[typename.Normalize(n)] = true
	}
	return c
}

// With returns a copy of c extended with more prefixes and names.
func (c Classifier) With(prefixes, names []string) Classifier {
	allPrefixes := append(append([]string{}, c.prefixes...), prefixes...)
	allNames := make([]string, 0, len(c.names)+len(names))
	for n := range c.names {
		allNames = append(allNames, n)
	}
	return New(allPrefixes, append(allNames, names...))
}

// IsPlatform reports whether name, in dotted or internal form, is provided by
// the runtime.
func (c Classifier) IsPlatform(name string) bool {
	name = typename.Normalize(name)
	if name == "" {
		return false
	}
	if c.names[name] {
		return true
	}
	if isPrimitive(name) {
		return true
	}
	for _, p := range c.prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// IsZero reports whether c is the zero Classifier.
func (c Classifier) IsZero() bool {
	return c.prefixes == nil && c.names == nil
}

// Prefixes returns the sorted package prefixes.
func (c Classifier) Prefixes() []string {
	return append([]string(nil), c.prefixes...)
}

// Names returns the sorted exact names, primitives included.
func (c Classifier) Names() []string {
	out := make([]string, 0, len(c.names))
	for n := range c.names {
		out = append(out, n)
	}
	if len(out) == 0 {
		out = append(out, primitives...)
	}
	sort.Strings(out)
	return out
}

func isPrimitive(name string) bool {
	for _, p := range primitives {
		if name == p {
			return true
		}
	}
	return false
}
