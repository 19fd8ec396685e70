package workflow

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/backoffice/internal/cache"
	"github.com/heartmarshall/backoffice/internal/domain"
)

func ids(list []domain.Record) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.ID()
	}
	return out
}

func recs(idList ...string) []domain.Record {
	out := make([]domain.Record, len(idList))
	for i, id := range idList {
		out[i] = domain.Record{"id": id, "name": "name-" + id}
	}
	return out
}

func newTestStore(t *testing.T) *cache.MemoryStore {
	t.Helper()
	s, err := cache.NewMemoryStore(16)
	require.NoError(t, err)
	return s
}

// staticCapability answers searches with list and echoes mutations.
func staticCapability(list []domain.Record) *CapabilityMock {
	return &CapabilityMock{
		SearchFunc: func(context.Context, domain.Cond, int) ([]domain.Record, error) {
			return list, nil
		},
		CreateFunc: func(_ context.Context, input domain.Record) (Saved, error) {
			return Saved{Record: input.Merge(domain.Record{"id": "new"}), Created: true}, nil
		},
		UpdateFunc: func(_ context.Context, input domain.Record) (domain.Record, error) {
			return input, nil
		},
		DeleteFunc: func(context.Context, string) error { return nil },
	}
}

func taskDescriptor(cap Capability) *Descriptor {
	return &Descriptor{
		Name:       "task",
		Title:      "Tasks",
		Operation:  "searchTask",
		Capability: cap,
		Filter:     domain.Eq("project.$id", "p1"),
		Columns: []Column{
			{Title: "Name", Path: "name"},
			{Title: "Owner", Path: "owner.name"},
		},
		Fields: []FieldSpec{
			{Name: "name", Label: "Name", Kind: FieldText, Required: true},
			{Name: "owner", Label: "Owner", Kind: FieldLookup, Display: "owner.name"},
		},
		Scope: domain.Record{"project": "p1"},
		ToDraft: func(r domain.Record) domain.Record {
			out := r.Without("owner")
			if id := r.Text("owner.id"); id != "" {
				out["owner"] = id
			}
			return out
		},
	}
}

func loadedScreen(t *testing.T, cap *CapabilityMock) *Screen {
	t.Helper()
	s := NewScreen(taskDescriptor(cap), newTestStore(t), slog.Default())
	require.NoError(t, s.Load(context.Background()))
	return s
}

func defaultLogger() *slog.Logger { return slog.Default() }
