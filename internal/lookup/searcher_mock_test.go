package lookup

import (
	"context"
	"sync"

	"github.com/heartmarshall/backoffice/internal/domain"
)

// SearcherMock is a mock implementation of workflow.Searcher.
type SearcherMock struct {
	SearchFunc func(ctx context.Context, cond domain.Cond, limit int) ([]domain.Record, error)

	mu    sync.Mutex
	calls struct {
		Search []struct {
			Cond  domain.Cond
			Limit int
		}
	}
}

func (m *SearcherMock) Search(ctx context.Context, cond domain.Cond, limit int) ([]domain.Record, error) {
	if m.SearchFunc == nil {
		panic("SearcherMock.SearchFunc: method is nil but Searcher.Search was just called")
	}
	m.mu.Lock()
	m.calls.Search = append(m.calls.Search, struct {
		Cond  domain.Cond
		Limit int
	}{Cond: cond, Limit: limit})
	m.mu.Unlock()
	return m.SearchFunc(ctx, cond, limit)
}

// SearchCalls gets all the calls that were made to Search.
func (m *SearcherMock) SearchCalls() []struct {
	Cond  domain.Cond
	Limit int
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Search
}
