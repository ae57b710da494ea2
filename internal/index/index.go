// Package index builds the set of class names present across a classpath.
package index

import (
	"errors"
	"fmt"
	"sort"

	"github.com/1homsi/jarcheck/internal/archive"
	"github.com/1homsi/jarcheck/internal/logging"
	"github.com/1homsi/jarcheck/internal/typename"
)

var logger = logging.Component("index")

// Location is the container and exact entry path a class is read from.
type Location struct {
	Container string
	Entry     string
}

// Index is the set of class names available in a store, with the location
// each one is read from. It is derived from entry names only and is never
// modified after Build returns, so it may be shared between goroutines.
type Index struct {
	names map[string]bool
	locs  map[string]Location
}

// Build lists every container of s. A container that cannot be listed fails
// the build.
//
// When several entries map to one class, the first container in classpath
// order wins. Within a container the base entry is preferred over
// META-INF/versions/N/ entries, and a lower N over a higher one.
func Build(s archive.Store) (*Index, error) {
	idx := &Index{names: make(map[string]bool), locs: make(map[string]Location)}
	for _, c := range s.Containers() {
		entries, err := s.List(c)
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", c, err)
		}
		best := make(map[string]int)
		for _, e := range entries {
			name, release, ok := typename.ParseEntry(e)
			if !ok {
				continue
			}
			if idx.names[name] {
				if _, mine := best[name]; !mine {
					continue
				}
			}
			if prev, seen := best[name]; seen && prev <= release {
				continue
			}
			best[name] = release
			idx.names[name] = true
			idx.locs[name] = Location{Container: c, Entry: e}
		}
		logger.Debugf("%s: %d classes", c, len(best))
	}
	return idx, nil
}

// FromNames returns an index holding exactly names. It has no locations.
func FromNames(names ...string) *Index {
	idx := &Index{names: make(map[string]bool, len(names)), locs: make(map[string]Location)}
	for _, n := range names {
		idx.names[n] = true
	}
	return idx
}

// Locate returns where name is read from.
func (idx *Index) Locate(name string) (Location, bool) {
	loc, ok := idx.locs[name]
	return loc, ok
}

// Read returns the bytes of name from the entry Build chose for it, and the
// container they came from. archive.ErrNotFound is returned for a class
// with no location.
func (idx *Index) Read(s archive.Store, name string) ([]byte, string, error) {
	loc, ok := idx.locs[name]
	if !ok {
		return nil, "", fmt.Errorf("%s: %w", name, archive.ErrNotFound)
	}
	data, err := s.Read(loc.Container, loc.Entry)
	if errors.Is(err, archive.ErrNotFound) {
		return nil, loc.Container, fmt.Errorf("%s: listed in %s but not readable: %w", name, loc.Container, archive.ErrUnreadable)
	}
	if err != nil {
		return nil, loc.Container, err
	}
	return data, loc.Container, nil
}

func (idx *Index) Contains(name string) bool {
	return idx.names[name]
}

func (idx *Index) Len() int {
	return len(idx.names)
}

// Names returns the indexed names, sorted.
func (idx *Index) Names() []string {
	out := make([]string, 0, len(idx.names))
	for n := range idx.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Missing returns the sorted subset of names not in the index.
func (idx *Index) Missing(names []string) []string {
	var out []string
	for _, n := range names {
		if !idx.names[n] {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
