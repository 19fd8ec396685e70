package workflow

import (
	"context"
	"log/slog"
	"sync"

	"github.com/heartmarshall/backoffice/internal/cache"
	"github.com/heartmarshall/backoffice/internal/domain"
)

// Status is the lifecycle of a list query.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
	StatusSuccess
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	default:
		return "idle"
	}
}

// State is a snapshot of a query for rendering.
type State struct {
	Status  Status
	Records []domain.Record
	Err     error
}

// Searcher issues list queries.
type Searcher interface {
	Search(ctx context.Context, cond domain.Cond, limit int) ([]domain.Record, error)
}

// Query fetches one list into the ListCache and reports its state. A
// result is applied only if no newer fetch started meanwhile.
type Query struct {
	searcher  Searcher
	store     cache.Store
	operation string
	limit     int
	log       *slog.Logger

	mu      sync.Mutex
	cond    domain.Cond
	fetched bool
	gen     uint64
	status  Status
	err     error
	last    []domain.Record
}

// NewQuery creates a query for operation. Nothing is fetched until
// SetFilter or Refresh.
func NewQuery(searcher Searcher, store cache.Store, operation string, limit int, log *slog.Logger) *Query {
	return &Query{
		searcher:  searcher,
		store:     store,
		operation: operation,
		limit:     limit,
		log:       log.With("component", "query", "operation", operation),
	}
}

// Key returns the cache key of the current filter.
func (q *Query) Key() cache.Key {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.keyLocked()
}

func (q *Query) keyLocked() cache.Key {
	return cache.Key{Operation: q.operation, Cond: q.cond.String(), Limit: q.limit}
}

// Filter returns the current filter.
func (q *Query) Filter() domain.Cond {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cond
}

// Store returns the cache the query writes to.
func (q *Query) Store() cache.Store { return q.store }

// SetFilter switches to cond and fetches, unless cond is already the
// fetched filter.
func (q *Query) SetFilter(ctx context.Context, cond domain.Cond) error {
	q.mu.Lock()
	if q.fetched && cond == q.cond {
		q.mu.Unlock()
		return nil
	}
	q.cond = cond
	q.mu.Unlock()

	return q.Refresh(ctx)
}

// Refresh re-issues the current filter. Failures are not retried.
func (q *Query) Refresh(ctx context.Context) error {
	q.mu.Lock()
	q.gen++
	gen := q.gen
	cond := q.cond
	key := q.keyLocked()
	q.fetched = true
	q.status = StatusLoading
	q.err = nil
	q.mu.Unlock()

	records, err := q.searcher.Search(ctx, cond, q.limit)

	q.mu.Lock()
	defer q.mu.Unlock()

	if gen != q.gen {
		q.log.DebugContext(ctx, "discard stale result", slog.Uint64("gen", gen))
		return nil
	}
	if err != nil {
		qErr := domain.NewQueryFailed(q.operation, err)
		q.status = StatusError
		q.err = qErr
		q.log.WarnContext(ctx, "query failed", slog.String("cond", cond.String()), slog.String("error", err.Error()))
		return qErr
	}

	if records == nil {
		records = []domain.Record{}
	}
	q.store.Set(key, records)
	q.last = records
	q.status = StatusSuccess
	return nil
}

// State returns the current state. On success the records come from the
// store, so reconciled mutations show without a re-query.
func (q *Query) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()

	st := State{Status: q.status, Err: q.err}
	if q.status != StatusSuccess {
		return st
	}
	if records, ok := q.store.Get(q.keyLocked()); ok {
		st.Records = records
	} else {
		st.Records = q.last
	}
	return st
}

func (q *Query) hasFetched() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.fetched
}
