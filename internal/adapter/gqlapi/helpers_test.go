package gqlapi

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/heartmarshall/backoffice/internal/transport/graphql"
)

// replying returns a doer that decodes data into out, like the real
// client does with the response's data object.
func replying(data string) *doerMock {
	return &doerMock{
		DoFunc: func(_ context.Context, _ *ast.QueryDocument, _ map[string]any, out any) error {
			if out == nil {
				return nil
			}
			return json.Unmarshal([]byte(data), out)
		},
	}
}

// rendered formats doc and parses it back, failing when the result is not
// valid GraphQL.
func rendered(t *testing.T, doc *ast.QueryDocument) *ast.OperationDefinition {
	t.Helper()
	src, err := graphql.Format(doc)
	require.NoError(t, err)
	parsed, perr := parser.ParseQuery(&ast.Source{Input: src})
	if perr != nil {
		t.Fatalf("document does not parse: %v\n%s", perr, src)
	}
	require.Len(t, parsed.Operations, 1)
	return parsed.Operations[0]
}

func field(set ast.SelectionSet, name string) *ast.Field {
	for _, s := range set {
		if f, ok := s.(*ast.Field); ok && (f.Alias == name || f.Name == name) {
			return f
		}
	}
	return nil
}

func childValue(v *ast.Value, name string) *ast.Value {
	for _, c := range v.Children {
		if c.Name == name {
			return c.Value
		}
	}
	return nil
}
