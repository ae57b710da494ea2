// Package closure computes the transitive set of classes a class needs in
// order to load, by decoding class files reachable through a store.
package closure

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/1homsi/jarcheck/internal/archive"
	"github.com/1homsi/jarcheck/internal/classfile"
	"github.com/1homsi/jarcheck/internal/index"
	"github.com/1homsi/jarcheck/internal/logging"
	"github.com/1homsi/jarcheck/internal/platform"
)

var logger = logging.Component("closure")

// Closure is the dependency closure of one entry class. Platform classes
// are never part of it.
type Closure struct {
	Entry string

	required    map[string]bool
	unresolved  map[string]bool
	undecodable map[string]error
	edges       map[string][]string
	sources     map[string]string
}

func newClosure(entry string) *Closure {
	return &Closure{
		Entry:       entry,
		required:    make(map[string]bool),
		unresolved:  make(map[string]bool),
		undecodable: make(map[string]error),
		edges:       make(map[string][]string),
		sources:     make(map[string]string),
	}
}

// Required returns every class the entry needs, found or not, sorted.
func (c *Closure) Required() []string { return sortedKeys(c.required) }

// Unresolved returns the classes that were looked up but could not be
// expanded, because no container has them or their bytes did not decode.
func (c *Closure) Unresolved() []string { return sortedKeys(c.unresolved) }

func (c *Closure) Contains(name string) bool { return c.required[name] }

func (c *Closure) Len() int { return len(c.required) }

// Undecodable maps each class whose bytes failed to decode to the decode
// error.
func (c *Closure) Undecodable() map[string]error {
	out := make(map[string]error, len(c.undecodable))
	for k, v := range c.undecodable {
		out[k] = v
	}
	return out
}

// References returns the classes name refers to directly, sorted.
func (c *Closure) References(name string) []string {
	return append([]string(nil), c.edges[name]...)
}

// Source returns the container name was decoded from, or "".
func (c *Closure) Source(name string) string { return c.sources[name] }

// Path returns a shortest reference chain from the entry to name, both
// ends included, or nil when name is not reachable.
func (c *Closure) Path(name string) []string {
	if name == c.Entry {
		return []string{name}
	}
	parent := map[string]string{c.Entry: ""}
	queue := []string{c.Entry}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range c.edges[cur] {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = cur
			if next == name {
				var path []string
				for n := name; n != ""; n = parent[n] {
					path = append(path, n)
				}
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return path
			}
			queue = append(queue, next)
		}
	}
	return nil
}

// Resolver expands closures against a store. It holds no per-run state and
// may be shared between goroutines when its Store is safe for concurrent
// reads.
//
// Class bytes are read from the entry Index locates, so a class present only
// under META-INF/versions/N/ or spelled with a leading "/" is expanded like
// any other. A nil Index is built from Store on each Resolve.
type Resolver struct {
	Store      archive.Store
	Classifier platform.Classifier
	Index      *index.Index
}

func New(store archive.Store, classifier platform.Classifier) *Resolver {
	return &Resolver{Store: store, Classifier: classifier}
}

// Resolve computes the closure of entry. Classes missing from the store or
// failing to decode are recorded as unresolved and not expanded. A container
// read failure aborts the run.
func (r *Resolver) Resolve(ctx context.Context, entry string) (*Closure, error) {
	idx := r.Index
	if idx == nil {
		var err error
		if idx, err = index.Build(r.Store); err != nil {
			return nil, err
		}
	}

	c := newClosure(entry)
	visited := map[string]bool{entry: true}
	stack := []string{entry}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		data, from, err := idx.Read(r.Store, name)
		if errors.Is(err, archive.ErrNotFound) {
			logger.Debugf("%s not found", name)
			c.unresolved[name] = true
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", name, err)
		}

		refs, err := classfile.Decode(data)
		if err != nil {
			if !classfile.IsFormatError(err) {
				return nil, fmt.Errorf("decode %s: %w", name, err)
			}
			logger.Warnf("%s from %s cannot be decoded: %v", name, from, err)
			c.unresolved[name] = true
			c.undecodable[name] = err
			continue
		}
		c.sources[name] = from

		var deps []string
		for _, ref := range refs {
			if r.Classifier.IsPlatform(ref) {
				continue
			}
			deps = append(deps, ref)
			c.required[ref] = true
		}
		c.edges[name] = deps
		logger.Debugf("%s: %d references, %d outside the platform", name, len(refs), len(deps))

		for i := len(deps) - 1; i >= 0; i-- {
			if !visited[deps[i]] {
				visited[deps[i]] = true
				stack = append(stack, deps[i])
			}
		}
	}
	return c, nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
