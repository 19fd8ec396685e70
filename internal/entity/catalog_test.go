package entity

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/heartmarshall/backoffice/internal/cache"
	"github.com/heartmarshall/backoffice/internal/domain"
	"github.com/heartmarshall/backoffice/internal/workflow"
)

// fakeAPI answers each operation with a canned data object.
type fakeAPI struct {
	mu      sync.Mutex
	replies map[string]string
	vars    map[string][]map[string]any
}

func newFakeAPI(replies map[string]string) *fakeAPI {
	return &fakeAPI{replies: replies, vars: map[string][]map[string]any{}}
}

func (f *fakeAPI) Do(_ context.Context, doc *ast.QueryDocument, vars map[string]any, out any) error {
	op := doc.Operations[0].Name
	f.mu.Lock()
	f.vars[op] = append(f.vars[op], vars)
	data, ok := f.replies[op]
	f.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(data), out)
}

func (f *fakeAPI) calls(op string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.vars[op]
}

const ordersReply = `{"searchOrder":{"elems":[
	{"id":"o1","orderDate":"2024-03-01T10:00:00Z","statusForCUSTOMER":{"code":"FIXED"},"details":{"elems":[]}},
	{"id":"o2","orderDate":"2024-03-05T09:30:00Z","statusForCUSTOMER":{"code":"DRAFT"},"details":{"elems":[
		{"id":"d1","goodType":{"entity":{"id":"g1","name":"Tea","price":3}}}
	]}}
]}}`

func newTestCatalog(t *testing.T, api *fakeAPI, identity domain.Identity) *Catalog {
	t.Helper()
	store, err := cache.NewMemoryStore(32)
	require.NoError(t, err)
	return NewCatalog(api, store, workflow.NewRegistry(), identity, 50, slog.Default())
}

var ann = domain.Identity{UserID: "u1", Username: "ann"}

func TestCatalog_Screen_Unknown(t *testing.T) {
	c := newTestCatalog(t, newFakeAPI(nil), ann)

	_, err := c.Screen("invoices", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCatalog_Screen_ScopedNeedsParent(t *testing.T) {
	c := newTestCatalog(t, newFakeAPI(nil), ann)

	for _, name := range []string{NameWords, NameChildEntities, NameTasks, NameMembers} {
		_, err := c.Screen(name, "")
		assert.ErrorIs(t, err, domain.ErrValidation, name)

		parent, ok := NeedsScope(name)
		assert.True(t, ok)
		assert.NotEmpty(t, parent)
	}
	_, ok := NeedsScope(NameProjects)
	assert.False(t, ok)
}

func TestCatalog_Screen_OncePerScope(t *testing.T) {
	c := newTestCatalog(t, newFakeAPI(nil), ann)

	a, err := c.Screen(NameTasks, "p1")
	require.NoError(t, err)
	b, err := c.Screen(NameTasks, "p1")
	require.NoError(t, err)
	other, err := c.Screen(NameTasks, "p2")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, other)
	assert.Equal(t, 2, c.Registry().Len())
	assert.Equal(t, 50, a.Desc.Limit)
}

func TestCatalog_Screen_EveryName(t *testing.T) {
	c := newTestCatalog(t, newFakeAPI(nil), ann)

	for _, name := range Names() {
		s, err := c.Screen(name, "x1")
		require.NoError(t, err, name)
		assert.Equal(t, name, s.Desc.Name)
		assert.NotEmpty(t, s.Projector.Headers(), name)
	}
}

func TestCatalog_Orders_RequireIdentity(t *testing.T) {
	c := newTestCatalog(t, newFakeAPI(nil), domain.Identity{})

	_, err := c.Orders()
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCatalog_Orders_ScopedToCustomer(t *testing.T) {
	api := newFakeAPI(map[string]string{"searchOrder": ordersReply})
	c := newTestCatalog(t, api, ann)

	s, err := c.Orders()
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))

	calls := api.calls("searchOrder")
	require.Len(t, calls, 1)
	assert.Equal(t, "it.customer.entityId == 'ann'", calls[0]["cond"])

	rows, st := s.Rows()
	require.Equal(t, workflow.StatusSuccess, st.Status)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"o2", "DRAFT", "2024-03-05", "Tea (3)"}, rows[1].Cells)
}

func TestCatalog_Orders_ApproveOnlyOnDraft(t *testing.T) {
	api := newFakeAPI(map[string]string{
		"searchOrder": ordersReply,
		"fixOrder":    `{"fixOrder":{"id":"o2","statusForCUSTOMER":{"code":"FIXED"}}}`,
	})
	c := newTestCatalog(t, api, ann)
	s, err := c.Orders()
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))

	rows, _ := s.Rows()
	_, ok := rows[0].Action(ActionApprove)
	assert.False(t, ok, "fixed order must not be approvable")
	_, ok = rows[1].Action(ActionApprove)
	require.True(t, ok)

	require.NoError(t, s.Invoke(context.Background(), "o2", ActionApprove))

	rec, ok := s.Record("o2")
	require.True(t, ok)
	assert.Equal(t, "FIXED", rec.Text("statusForCUSTOMER.code"))
	details, _ := rec.Get("details.elems")
	assert.Len(t, details, 1, "approve keeps the order lines")
	assert.Equal(t, []string{"o1", "o2"}, recordIDs(s))
}

func TestCatalog_Orders_RemoveDetail(t *testing.T) {
	api := newFakeAPI(map[string]string{
		"searchOrder":  ordersReply,
		"deleteDetail": `{"deleteDetail":true}`,
	})
	c := newTestCatalog(t, api, ann)
	s, err := c.Orders()
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.Invoke(context.Background(), "o2", ActionRemoveDetail+":d1"))

	assert.Equal(t, "d1", api.calls("deleteDetail")[0]["detailId"])
	rec, _ := s.Record("o2")
	details, _ := rec.Get("details.elems")
	assert.Empty(t, details)
}

func TestCatalog_AddToCart_PromotesOrder(t *testing.T) {
	api := newFakeAPI(map[string]string{
		"searchOrder":    ordersReply,
		"searchGoodType": `{"searchGoodType":{"elems":[{"id":"g2","name":"Cake","price":5,"vendor":{"entity":{"name":"Bakery"}}}]}}`,
		"addOrderDetail": `{"packet":{
			"updateOrCreateOrder":{"returning":{"id":"o2","statusForCUSTOMER":{"code":"DRAFT"},"details":{"elems":[
				{"id":"d1","goodType":{"entity":{"id":"g1","name":"Tea","price":3}}}]}},"created":false},
			"createDetail":{"id":"d2","goodType":{"entity":{"id":"g2","name":"Cake","price":5}}}}}`,
	})
	c := newTestCatalog(t, api, ann)
	ctx := context.Background()

	orders, err := c.Orders()
	require.NoError(t, err)
	require.NoError(t, orders.Load(ctx))

	goods, err := c.Screen(NameGoods, "")
	require.NoError(t, err)
	require.NoError(t, goods.Load(ctx))

	rows, _ := goods.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Cake", "", "5", "Bakery"}, rows[0].Cells)
	_, editable := rows[0].Action(workflow.ActionEdit)
	assert.False(t, editable)

	require.NoError(t, goods.Invoke(ctx, "g2", ActionAddToCart))

	call := api.calls("addOrderDetail")[0]
	assert.Equal(t, "ann", call["customerId"])
	assert.Equal(t, "g2", call["goodTypeId"])

	assert.Equal(t, []string{"o2", "o1"}, recordIDs(orders))
	rec, _ := orders.Record("o2")
	assert.Equal(t, "Tea (3), Cake (5)", detailSummary(rec))
}

func TestCatalog_AddToCart_FailureLeavesOrders(t *testing.T) {
	api := newFakeAPI(map[string]string{"searchOrder": ordersReply})
	c := newTestCatalog(t, api, ann)
	ctx := context.Background()

	orders, err := c.Orders()
	require.NoError(t, err)
	require.NoError(t, orders.Load(ctx))

	err = c.AddToCart(ctx, domain.Record{"id": "g9"})
	var mf *domain.MutationFailedError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, []string{"o1", "o2"}, recordIDs(orders))
}

func recordIDs(s *workflow.Screen) []string {
	st := s.Query.State()
	out := make([]string, len(st.Records))
	for i, r := range st.Records {
		out[i] = r.ID()
	}
	return out
}
