// Package checker decides whether an entry class can be loaded from a
// classpath: every class its bytecode needs, directly or transitively, must
// be present in some container or belong to the platform runtime.
package checker

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/1homsi/jarcheck/internal/archive"
	"github.com/1homsi/jarcheck/internal/closure"
	"github.com/1homsi/jarcheck/internal/index"
	"github.com/1homsi/jarcheck/internal/logging"
	"github.com/1homsi/jarcheck/internal/platform"
)

var logger = logging.Component("checker")

const (
	ReasonOK            = "ok"
	ReasonEntryNotFound = "entry point not found"
	ReasonMissing       = "missing dependencies"
	ReasonUndecodable   = "undecodable classes"
)

// Options tunes a check. The zero value uses the default Java runtime
// classifier and one worker per CPU for CheckAll.
type Options struct {
	Classifier  platform.Classifier
	Concurrency int
}

func (o Options) classifier() platform.Classifier {
	if o.Classifier.IsZero() {
		return platform.Default()
	}
	return o.Classifier
}

// Result is the outcome of one check. All name lists are sorted.
type Result struct {
	Entry       string `json:"entry"`
	Satisfiable bool   `json:"satisfiable"`
	Reason      string `json:"reason"`

	Available []string `json:"available"`
	Required  []string `json:"required"`
	Missing   []string `json:"missing"`

	// Undecodable maps classes present on the classpath whose bytes are not
	// a valid class file to the decode error.
	Undecodable map[string]string `json:"undecodable,omitempty"`
	// MissingPaths holds, for each missing class, a reference chain from
	// the entry class.
	MissingPaths map[string][]string `json:"missing_paths,omitempty"`
}

// Check indexes every container of store and checks entry against it. A
// container that cannot be read fails the check with an error wrapping
// archive.ErrUnreadable; all other outcomes are reported in the Result.
func Check(ctx context.Context, entry string, store archive.Store, opts Options) (*Result, error) {
	idx, err := index.Build(store)
	if err != nil {
		return nil, err
	}
	return CheckWithIndex(ctx, entry, store, idx, opts)
}

// CheckWithIndex checks entry against a prebuilt index of store.
func CheckWithIndex(ctx context.Context, entry string, store archive.Store, idx *index.Index, opts Options) (*Result, error) {
	res := &Result{
		Entry:     entry,
		Available: idx.Names(),
		Required:  []string{},
		Missing:   []string{},
	}
	if !idx.Contains(entry) {
		logger.Infof("%s: entry point not found in %d classes", entry, idx.Len())
		res.Reason = ReasonEntryNotFound
		return res, nil
	}

	r := &closure.Resolver{Store: store, Classifier: opts.classifier(), Index: idx}
	c, err := r.Resolve(ctx, entry)
	if err != nil {
		return nil, err
	}
	res.Required = c.Required()
	if missing := idx.Missing(res.Required); missing != nil {
		res.Missing = missing
		res.MissingPaths = make(map[string][]string, len(missing))
		for _, name := range missing {
			res.MissingPaths[name] = c.Path(name)
		}
	}
	if bad := c.Undecodable(); len(bad) > 0 {
		res.Undecodable = make(map[string]string, len(bad))
		for name, err := range bad {
			res.Undecodable[name] = err.Error()
		}
	}

	switch {
	case len(res.Missing) > 0:
		res.Reason = ReasonMissing
	case len(res.Undecodable) > 0:
		res.Reason = ReasonUndecodable
	default:
		res.Satisfiable = true
		res.Reason = ReasonOK
	}
	logger.Infof("%s: %s (%d required, %d missing)", entry, res.Reason, len(res.Required), len(res.Missing))
	return res, nil
}

// CheckAll checks several entry classes against one shared index of store.
// Results are returned in the order of entries. The first fatal error
// cancels the remaining checks.
func CheckAll(ctx context.Context, entries []string, store archive.Store, opts Options) ([]*Result, error) {
	idx, err := index.Build(store)
	if err != nil {
		return nil, err
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	results := make([]*Result, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			res, err := CheckWithIndex(gctx, entry, store, idx, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
