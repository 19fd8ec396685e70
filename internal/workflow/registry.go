package workflow

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// maxParallelRefresh bounds concurrent re-queries in RefreshAll.
const maxParallelRefresh = 4

// Registry tracks the queries that are on screen so a bulk write can
// refresh all of them.
type Registry struct {
	mu      sync.Mutex
	queries map[*Query]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{queries: make(map[*Query]struct{})}
}

// Register adds q and returns a function that removes it.
func (r *Registry) Register(q *Query) (unregister func()) {
	r.mu.Lock()
	r.queries[q] = struct{}{}
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.queries, q)
		r.mu.Unlock()
	}
}

// Len returns the number of registered queries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queries)
}

// RefreshAll re-issues every registered query that has fetched before.
// All queries run even if some fail; the failures are joined.
func (r *Registry) RefreshAll(ctx context.Context) error {
	r.mu.Lock()
	queries := make([]*Query, 0, len(r.queries))
	for q := range r.queries {
		queries = append(queries, q)
	}
	r.mu.Unlock()

	var g errgroup.Group
	g.SetLimit(maxParallelRefresh)
	errs := make([]error, len(queries))
	for i, q := range queries {
		if !q.hasFetched() {
			continue
		}
		g.Go(func() error {
			errs[i] = q.Refresh(ctx)
			return nil
		})
	}
	// The group only bounds parallelism. Wait would report the first
	// failure alone, so each query keeps its own slot and all are joined.
	_ = g.Wait()
	return errors.Join(errs...)
}
