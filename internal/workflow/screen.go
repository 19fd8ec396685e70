package workflow

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/backoffice/internal/cache"
	"github.com/heartmarshall/backoffice/internal/domain"
)

// Screen wires the engine for one descriptor: query, mutator, form and
// projector over a shared store.
type Screen struct {
	Desc      *Descriptor
	Query     *Query
	Mutator   *Mutator
	Form      *Form
	Projector Projector
}

// NewScreen builds a screen. Nothing is fetched until Load.
func NewScreen(desc *Descriptor, store cache.Store, log *slog.Logger) *Screen {
	log = log.With("screen", desc.Name)

	s := &Screen{Desc: desc}
	s.Query = NewQuery(desc.Capability, store, desc.Operation, desc.Limit, log)
	s.Mutator = NewMutator(desc.Capability, s.Query, log)
	s.Form = NewForm(desc, s.Mutator, log)
	s.Projector = NewProjector(desc, s.Form.Edit, s.Mutator.Delete)
	return s
}

// Load fetches the descriptor's base list.
func (s *Screen) Load(ctx context.Context) error {
	return s.Query.SetFilter(ctx, s.Desc.Cond(""))
}

// Search narrows the list by text. Screens without a search filter keep
// their base list.
func (s *Screen) Search(ctx context.Context, text string) error {
	return s.Query.SetFilter(ctx, s.Desc.Cond(text))
}

// Rows projects the current list. Rows is empty unless the query
// succeeded.
func (s *Screen) Rows() ([]RowView, State) {
	st := s.Query.State()
	if st.Status != StatusSuccess {
		return nil, st
	}
	return s.Projector.ProjectAll(st.Records), st
}

// Record returns the cached record with id.
func (s *Screen) Record(id string) (domain.Record, bool) {
	for _, r := range s.Query.State().Records {
		if r.ID() == id {
			return r, true
		}
	}
	return nil, false
}

// Invoke runs the named action of the row with key.
func (s *Screen) Invoke(ctx context.Context, key, action string) error {
	rec, ok := s.Record(key)
	if !ok {
		return domain.ErrNotFound
	}
	act, ok := s.Projector.Project(rec).Action(action)
	if !ok {
		return domain.NewValidationError("action", "unknown action "+action)
	}
	return act.Invoke(ctx)
}
