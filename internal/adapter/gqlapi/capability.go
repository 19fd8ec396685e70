package gqlapi

import (
	"context"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/heartmarshall/backoffice/internal/domain"
	"github.com/heartmarshall/backoffice/internal/transport/graphql"
	"github.com/heartmarshall/backoffice/internal/workflow"
)

type doer interface {
	Do(ctx context.Context, doc *ast.QueryDocument, vars map[string]any, out any) error
}

type searchResult struct {
	Elems []domain.Record `json:"elems"`
}

type upsertResult struct {
	Returning domain.Record `json:"returning"`
	Created   bool          `json:"created"`
}

// Capability performs search, create, update and delete for one entity.
type Capability struct {
	client doer
	entity Entity
}

var _ workflow.Capability = (*Capability)(nil)

// New creates a capability for entity.
func New(client doer, entity Entity) *Capability {
	return &Capability{client: client, entity: entity}
}

// Search runs search<Name>(cond, limit). An empty cond or a zero limit is
// sent as null.
func (c *Capability) Search(ctx context.Context, cond domain.Cond, limit int) ([]domain.Record, error) {
	op := c.entity.SearchOperation()
	doc := graphql.Query(op,
		[]graphql.Var{{Name: "cond", Type: "String"}, {Name: "limit", Type: "Int"}},
		graphql.Field(op,
			ast.ArgumentList{graphql.VarArg("cond", "cond"), graphql.VarArg("limit", "limit")},
			prefixed("elems", c.entity.Selection),
		),
	)

	vars := map[string]any{}
	if cond != "" {
		vars["cond"] = cond.String()
	}
	if limit > 0 {
		vars["limit"] = limit
	}

	var out map[string]searchResult
	if err := c.client.Do(ctx, doc, vars, &out); err != nil {
		return nil, err
	}
	return out[op].Elems, nil
}

// Create runs create<Name>, or updateOrCreate<Name> for upsert entities.
func (c *Capability) Create(ctx context.Context, input domain.Record) (workflow.Saved, error) {
	if c.entity.Upsert {
		return c.upsert(ctx, input)
	}

	name := "create" + c.entity.Name
	rec, err := c.write(ctx, name, "_Create"+c.entity.Name+"Input!", input)
	if err != nil {
		return workflow.Saved{}, err
	}
	return workflow.Saved{Record: rec, Created: true}, nil
}

// Update runs update<Name> with the full input, or updateOrCreate<Name>
// for upsert entities.
func (c *Capability) Update(ctx context.Context, input domain.Record) (domain.Record, error) {
	if c.entity.Upsert {
		saved, err := c.upsert(ctx, input)
		return saved.Record, err
	}
	return c.write(ctx, "update"+c.entity.Name, "_Update"+c.entity.Name+"Input!", input)
}

// Delete runs delete<Name>(id).
func (c *Capability) Delete(ctx context.Context, id string) error {
	name := "delete" + c.entity.Name
	doc := graphql.Mutation(name,
		[]graphql.Var{{Name: "id", Type: "ID!"}},
		graphql.Field(name, ast.ArgumentList{graphql.VarArg("id", "id")}, nil),
	)
	return c.client.Do(ctx, doc, map[string]any{"id": id}, nil)
}

func (c *Capability) write(ctx context.Context, name, inputType string, input domain.Record) (domain.Record, error) {
	doc := graphql.Mutation(name,
		[]graphql.Var{{Name: "input", Type: inputType}},
		graphql.Field(name, ast.ArgumentList{graphql.VarArg("input", "input")}, c.entity.Selection),
	)

	var out struct {
		Packet map[string]domain.Record `json:"packet"`
	}
	if err := c.client.Do(ctx, doc, map[string]any{"input": map[string]any(input)}, &out); err != nil {
		return nil, err
	}
	rec, ok := out.Packet[name]
	if !ok || rec == nil {
		return nil, fmt.Errorf("%s: empty result", name)
	}
	return rec, nil
}

func (c *Capability) upsert(ctx context.Context, input domain.Record) (workflow.Saved, error) {
	name := "updateOrCreate" + c.entity.Name
	doc := graphql.Mutation(name,
		[]graphql.Var{{Name: "input", Type: "_Create" + c.entity.Name + "Input!"}},
		graphql.Field(name,
			ast.ArgumentList{graphql.VarArg("input", "input")},
			append(prefixed("returning", c.entity.Selection), "created"),
		),
	)

	var out struct {
		Packet map[string]upsertResult `json:"packet"`
	}
	if err := c.client.Do(ctx, doc, map[string]any{"input": map[string]any(input)}, &out); err != nil {
		return workflow.Saved{}, err
	}
	res, ok := out.Packet[name]
	if !ok || res.Returning == nil {
		return workflow.Saved{}, fmt.Errorf("%s: empty result", name)
	}
	return workflow.Saved{Record: res.Returning, Created: res.Created}, nil
}

func prefixed(prefix string, sel graphql.Selection) graphql.Selection {
	out := make(graphql.Selection, len(sel))
	for i, s := range sel {
		out[i] = prefix + "." + s
	}
	return out
}
