package lookup

import (
	"context"
	"errors"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/backoffice/internal/domain"
	"github.com/heartmarshall/backoffice/internal/workflow"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

// Names resolves member ids to display names. Concurrent loads within the
// wait window become one search; results are cached until Forget.
type Names struct {
	loader *dataloader.Loader[string, string]
}

// NewNames creates a resolver backed by searcher.
func NewNames(searcher workflow.Searcher) *Names {
	return &Names{
		loader: dataloader.NewBatchedLoader(
			newNamesBatchFn(searcher),
			dataloader.WithWait[string, string](wait),
			dataloader.WithBatchCapacity[string, string](maxBatch),
		),
	}
}

// Name returns the display name of id. Unknown ids resolve to "".
func (n *Names) Name(ctx context.Context, id string) (string, error) {
	return n.loader.Load(ctx, id)()
}

// Resolve returns the names of ids keyed by id.
func (n *Names) Resolve(ctx context.Context, ids []string) (map[string]string, error) {
	names, errs := n.loader.LoadMany(ctx, ids)()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(ids))
	for i, id := range ids {
		out[id] = names[i]
	}
	return out, nil
}

// Forget drops the cached name of id, e.g. after the member was renamed.
func (n *Names) Forget(ctx context.Context, id string) {
	n.loader.Clear(ctx, id)
}

func newNamesBatchFn(searcher workflow.Searcher) dataloader.BatchFunc[string, string] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[string] {
		recs, err := searcher.Search(ctx, domain.In("$id", keys), len(keys))
		if err != nil {
			return errorResults(len(keys), err)
		}

		byID := make(map[string]string, len(recs))
		for _, r := range recs {
			byID[r.ID()] = r.Text("name")
		}

		results := make([]*dataloader.Result[string], len(keys))
		for i, key := range keys {
			results[i] = &dataloader.Result[string]{Data: byID[key]}
		}
		return results
	}
}

func errorResults(n int, err error) []*dataloader.Result[string] {
	results := make([]*dataloader.Result[string], n)
	for i := range results {
		results[i] = &dataloader.Result[string]{Error: err}
	}
	return results
}
