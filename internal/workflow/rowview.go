package workflow

import (
	"context"

	"github.com/heartmarshall/backoffice/internal/domain"
)

// Built-in action names.
const (
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// Action is a row action. It does nothing until Invoke.
type Action struct {
	Name   string
	Label  string
	invoke func(ctx context.Context) error
}

// Invoke runs the action.
func (a Action) Invoke(ctx context.Context) error {
	if a.invoke == nil {
		return nil
	}
	return a.invoke(ctx)
}

// RowView is a display-ready table row.
type RowView struct {
	Key     string
	Cells   []string
	Actions []Action
}

// Action returns the action named name.
func (r RowView) Action(name string) (Action, bool) {
	for _, a := range r.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

// Projector turns records into rows. Projection is deterministic: the same
// record always yields the same keys, cells and action names.
type Projector struct {
	desc     *Descriptor
	onEdit   func(rec domain.Record) error
	onDelete func(ctx context.Context, id string) error
}

// NewProjector creates a projector whose edit and delete actions call
// onEdit and onDelete.
func NewProjector(desc *Descriptor, onEdit func(domain.Record) error, onDelete func(context.Context, string) error) Projector {
	return Projector{desc: desc, onEdit: onEdit, onDelete: onDelete}
}

// Headers returns the column titles.
func (p Projector) Headers() []string {
	out := make([]string, len(p.desc.Columns))
	for i, c := range p.desc.Columns {
		out[i] = c.Title
	}
	return out
}

// Project builds the row for rec.
func (p Projector) Project(rec domain.Record) RowView {
	row := RowView{
		Key:   rec.ID(),
		Cells: make([]string, len(p.desc.Columns)),
	}
	for i, c := range p.desc.Columns {
		if c.Format != nil {
			row.Cells[i] = c.Format(rec)
			continue
		}
		row.Cells[i] = rec.Text(c.Path)
	}

	if !p.desc.ReadOnly {
		id := rec.ID()
		row.Actions = append(row.Actions,
			Action{Name: ActionEdit, Label: "Edit", invoke: func(context.Context) error {
				return p.onEdit(rec)
			}},
			Action{Name: ActionDelete, Label: "Delete", invoke: func(ctx context.Context) error {
				return p.onDelete(ctx, id)
			}},
		)
	}

	for _, spec := range p.desc.Actions {
		if spec.Visible != nil && !spec.Visible(rec) {
			continue
		}
		if spec.Each == "" {
			run := spec.Run
			row.Actions = append(row.Actions, Action{Name: spec.Name, Label: spec.Label, invoke: func(ctx context.Context) error {
				return run(ctx, rec)
			}})
			continue
		}
		row.Actions = append(row.Actions, p.eachActions(spec, rec)...)
	}
	return row
}

func (p Projector) eachActions(spec ActionSpec, parent domain.Record) []Action {
	raw, ok := parent.Get(spec.Each)
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	out := make([]Action, 0, len(items))
	run := spec.RunEach
	for _, item := range items {
		child, ok := domain.AsRecord(item)
		if !ok || child.ID() == "" {
			continue
		}
		out = append(out, Action{
			Name:  spec.Name + ":" + child.ID(),
			Label: spec.Label,
			invoke: func(ctx context.Context) error {
				return run(ctx, parent, child)
			},
		})
	}
	return out
}

// ProjectAll builds rows for records in order.
func (p Projector) ProjectAll(records []domain.Record) []RowView {
	out := make([]RowView, len(records))
	for i, r := range records {
		out[i] = p.Project(r)
	}
	return out
}
