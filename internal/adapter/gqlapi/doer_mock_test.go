package gqlapi

import (
	"context"
	"sync"

	"github.com/vektah/gqlparser/v2/ast"
)

// doerMock is a mock implementation of doer.
type doerMock struct {
	DoFunc func(ctx context.Context, doc *ast.QueryDocument, vars map[string]any, out any) error

	mu    sync.Mutex
	calls struct {
		Do []struct {
			Doc  *ast.QueryDocument
			Vars map[string]any
		}
	}
}

func (m *doerMock) Do(ctx context.Context, doc *ast.QueryDocument, vars map[string]any, out any) error {
	if m.DoFunc == nil {
		panic("doerMock.DoFunc: method is nil but doer.Do was just called")
	}
	m.mu.Lock()
	m.calls.Do = append(m.calls.Do, struct {
		Doc  *ast.QueryDocument
		Vars map[string]any
	}{Doc: doc, Vars: vars})
	m.mu.Unlock()
	return m.DoFunc(ctx, doc, vars, out)
}

// DoCalls gets all the calls that were made to Do.
func (m *doerMock) DoCalls() []struct {
	Doc  *ast.QueryDocument
	Vars map[string]any
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Do
}
