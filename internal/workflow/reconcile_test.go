package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/backoffice/internal/domain"
)

func TestReconcile_CreatedAppendsWithoutHole(t *testing.T) {
	list := recs("a", "b")

	got := Reconcile(list, Created{Record: domain.Record{"id": "c"}})

	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
	for i, r := range got {
		assert.NotNil(t, r, "element %d is a hole", i)
	}
	assert.Len(t, list, 2, "input must not change")
}

func TestReconcile_CreatedOnEmptyList(t *testing.T) {
	got := Reconcile(nil, Created{Record: domain.Record{"id": "c"}})
	assert.Equal(t, []string{"c"}, ids(got))
}

func TestReconcile_DeletedRemovesAndKeepsOrder(t *testing.T) {
	list := recs("a", "b", "c", "d")

	got := Reconcile(list, Deleted{ID: "b"})

	assert.Equal(t, []string{"a", "c", "d"}, ids(got))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(list))
}

func TestReconcile_DeletedIsIdempotent(t *testing.T) {
	list := recs("a", "b")

	once := Reconcile(list, Deleted{ID: "a"})
	twice := Reconcile(once, Deleted{ID: "a"})

	assert.Equal(t, ids(once), ids(twice))
	assert.Equal(t, []string{"b"}, ids(twice))
}

func TestReconcile_DeletedMissingIsNoop(t *testing.T) {
	got := Reconcile(recs("a", "b"), Deleted{ID: "zzz"})
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestReconcile_UpdatedPatchesInPlace(t *testing.T) {
	list := []domain.Record{
		{"id": "a", "name": "A", "extra": 1},
		{"id": "b", "name": "B"},
	}

	got := Reconcile(list, Updated{Record: domain.Record{"id": "a", "name": "A2"}})

	require.Equal(t, []string{"a", "b"}, ids(got))
	assert.Equal(t, "A2", got[0]["name"])
	assert.Equal(t, 1, got[0]["extra"], "fields not returned are kept")
	assert.Equal(t, "A", list[0]["name"], "input record must not change")
}

func TestReconcile_UpdatedAbsentIsNoop(t *testing.T) {
	got := Reconcile(recs("a"), Updated{Record: domain.Record{"id": "x", "name": "X"}})
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestReconcile_PromotedMovesToFront(t *testing.T) {
	list := recs("o1", "o2", "o3")

	got := Reconcile(list, Promoted{Record: domain.Record{"id": "o2", "name": "fresh"}})

	assert.Equal(t, []string{"o2", "o1", "o3"}, ids(got))
	assert.Equal(t, "fresh", got[0]["name"])
}

func TestReconcile_PromotedInsertsWhenAbsent(t *testing.T) {
	got := Reconcile(recs("o1"), Promoted{Record: domain.Record{"id": "o9"}})
	assert.Equal(t, []string{"o9", "o1"}, ids(got))
}

func TestReconcile_ChildRemoved(t *testing.T) {
	order := domain.Record{
		"id": "o1",
		"details": map[string]any{
			"elems": []any{
				map[string]any{"id": "d1"},
				map[string]any{"id": "d2"},
			},
		},
	}
	list := []domain.Record{order, {"id": "o2"}}

	got := Reconcile(list, ChildRemoved{ParentID: "o1", Path: "details.elems", ChildID: "d1"})

	elems, ok := got[0].Get("details.elems")
	require.True(t, ok)
	require.Len(t, elems, 1)
	assert.Equal(t, "d2", elems.([]any)[0].(map[string]any)["id"])

	original, _ := order.Get("details.elems")
	assert.Len(t, original, 2, "input record must not change")
	assert.Equal(t, []string{"o1", "o2"}, ids(got))
}

func TestReconcile_ChildRemovedBadPathIsNoop(t *testing.T) {
	list := []domain.Record{{"id": "o1", "details": "not-an-object"}}

	got := Reconcile(list, ChildRemoved{ParentID: "o1", Path: "details.elems", ChildID: "d1"})

	assert.Equal(t, "not-an-object", got[0]["details"])
}

// Scenario: list [a, b], delete "a" then create "c".
func TestReconcile_DeleteThenCreateScenario(t *testing.T) {
	list := recs("a", "b")

	list = Reconcile(list, Deleted{ID: "a"})
	list = Reconcile(list, Created{Record: domain.Record{"id": "c"}})

	assert.Equal(t, []string{"b", "c"}, ids(list))
}
