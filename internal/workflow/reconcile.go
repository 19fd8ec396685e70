package workflow

import (
	"strings"

	"github.com/heartmarshall/backoffice/internal/domain"
)

// Event is a successful mutation outcome to fold into a cached list.
type Event interface {
	isEvent()
}

// Created appends Record.
type Created struct{ Record domain.Record }

// Updated patches the record with the same id in place.
type Updated struct{ Record domain.Record }

// Deleted removes the record with ID.
type Deleted struct{ ID string }

// Promoted replaces the record with the same id and moves it to the front,
// inserting it when absent.
type Promoted struct{ Record domain.Record }

// ChildRemoved removes the element ChildID from the collection at Path
// inside the record ParentID.
type ChildRemoved struct {
	ParentID string
	Path     string
	ChildID  string
}

func (Created) isEvent()      {}
func (Updated) isEvent()      {}
func (Deleted) isEvent()      {}
func (Promoted) isEvent()     {}
func (ChildRemoved) isEvent() {}

// Reconcile returns the list that results from applying ev to list. The
// input slice and its records are never modified.
func Reconcile(list []domain.Record, ev Event) []domain.Record {
	switch e := ev.(type) {
	case Created:
		out := make([]domain.Record, 0, len(list)+1)
		out = append(out, list...)
		return append(out, e.Record)

	case Updated:
		id := e.Record.ID()
		out := make([]domain.Record, len(list))
		for i, r := range list {
			if r.ID() == id {
				out[i] = r.Merge(e.Record)
				continue
			}
			out[i] = r
		}
		return out

	case Deleted:
		out := make([]domain.Record, 0, len(list))
		for _, r := range list {
			if r.ID() != e.ID {
				out = append(out, r)
			}
		}
		return out

	case Promoted:
		id := e.Record.ID()
		out := make([]domain.Record, 0, len(list)+1)
		out = append(out, e.Record)
		for _, r := range list {
			if r.ID() != id {
				out = append(out, r)
			}
		}
		return out

	case ChildRemoved:
		out := make([]domain.Record, len(list))
		for i, r := range list {
			if r.ID() == e.ParentID {
				out[i] = withoutChild(r, strings.Split(e.Path, "."), e.ChildID)
				continue
			}
			out[i] = r
		}
		return out

	default:
		out := make([]domain.Record, len(list))
		copy(out, list)
		return out
	}
}

// withoutChild copies the maps along path and filters the collection at
// its end.
func withoutChild(r domain.Record, path []string, childID string) domain.Record {
	out := r.Clone()
	head := path[0]

	if len(path) == 1 {
		items, ok := out[head].([]any)
		if !ok {
			return out
		}
		kept := make([]any, 0, len(items))
		for _, item := range items {
			if child, ok := domain.AsRecord(item); ok && child.ID() == childID {
				continue
			}
			kept = append(kept, item)
		}
		out[head] = kept
		return out
	}

	next, ok := domain.AsRecord(out[head])
	if !ok {
		return out
	}
	out[head] = map[string]any(withoutChild(next, path[1:], childID))
	return out
}
