package workflow

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/backoffice/internal/cache"
	"github.com/heartmarshall/backoffice/internal/domain"
)

// Mutator runs mutations and folds their results into the cached list of
// one query. Reconciliation happens only after the server confirms, into
// the list that was current when the mutation was sent.
type Mutator struct {
	capability Capability
	query      *Query
	log        *slog.Logger
}

// NewMutator creates a mutator reconciling into query's current list.
func NewMutator(capability Capability, query *Query, log *slog.Logger) *Mutator {
	return &Mutator{
		capability: capability,
		query:      query,
		log:        log.With("component", "mutator"),
	}
}

// Create creates input and appends the result. An upsert that hit an
// existing record is reconciled as an update.
func (m *Mutator) Create(ctx context.Context, input domain.Record) (domain.Record, error) {
	key := m.query.Key()
	saved, err := m.capability.Create(ctx, input)
	if err != nil {
		return nil, m.failed(ctx, "create", err)
	}

	var ev Event = Created{Record: saved.Record}
	if !saved.Created {
		ev = Updated{Record: saved.Record}
	}
	m.reconcile(key, ev)
	return saved.Record, nil
}

// Update sends the full input and patches the cached record in place.
func (m *Mutator) Update(ctx context.Context, input domain.Record) (domain.Record, error) {
	key := m.query.Key()
	rec, err := m.capability.Update(ctx, input)
	if err != nil {
		return nil, m.failed(ctx, "update", err)
	}
	if rec.ID() == "" {
		rec = rec.Merge(domain.Record{domain.FieldID: input.ID()})
	}
	m.reconcile(key, Updated{Record: rec})
	return rec, nil
}

// Delete deletes id and removes it from the list. Removing an id that is
// no longer cached is a no-op.
func (m *Mutator) Delete(ctx context.Context, id string) error {
	key := m.query.Key()
	if err := m.capability.Delete(ctx, id); err != nil {
		return m.failed(ctx, "delete", err)
	}
	m.reconcile(key, Deleted{ID: id})
	return nil
}

// Apply runs a composite mutation named op and reconciles the event it
// returns.
func (m *Mutator) Apply(ctx context.Context, op string, call func(ctx context.Context) (Event, error)) error {
	key := m.query.Key()
	ev, err := call(ctx)
	if err != nil {
		return m.failed(ctx, op, err)
	}
	if ev != nil {
		m.reconcile(key, ev)
	}
	return nil
}

func (m *Mutator) reconcile(key cache.Key, ev Event) {
	if _, ok := m.query.Store().Update(key, func(list []domain.Record) []domain.Record {
		return Reconcile(list, ev)
	}); !ok {
		m.log.Debug("list not cached, skip reconcile", slog.String("key", key.String()))
	}
}

func (m *Mutator) failed(ctx context.Context, op string, err error) error {
	m.log.WarnContext(ctx, "mutation failed", slog.String("op", op), slog.String("error", err.Error()))
	return domain.NewMutationFailed(op, err)
}
