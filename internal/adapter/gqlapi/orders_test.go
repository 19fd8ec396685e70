package gqlapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/heartmarshall/backoffice/internal/workflow"
)

func TestOrders_AddDetail_AppendsLineAndPromotes(t *testing.T) {
	client := replying(`{"packet":{
		"updateOrCreateOrder":{"returning":{"id":"o1","statusForCUSTOMER":{"code":"DRAFT"},
			"details":{"elems":[{"id":"d1","goodType":{"entity":{"id":"g1","name":"Tea"}}}]}},"created":false},
		"createDetail":{"id":"d2","goodType":{"entity":{"id":"g2","name":"Cake"}}}}}`)

	ev, err := NewOrders(client).AddDetail(context.Background(), "ann", "g2")
	require.NoError(t, err)

	promoted, ok := ev.(workflow.Promoted)
	require.True(t, ok, "got %T", ev)
	assert.Equal(t, "o1", promoted.Record.ID())
	v, _ := promoted.Record.Get(DetailsPath)
	require.Len(t, v, 2)
	last := v.([]any)[1].(map[string]any)
	assert.Equal(t, "d2", last["id"])

	call := client.DoCalls()[0]
	assert.Equal(t, "ann", call.Vars["customerId"])
	assert.Equal(t, "g2", call.Vars["goodTypeId"])

	op := rendered(t, call.Doc)
	packet := field(op.SelectionSet, "packet")
	require.NotNil(t, packet)
	upsert := field(packet.SelectionSet, "updateOrCreateOrder")
	require.NotNil(t, upsert)
	customer := childValue(upsert.Arguments.ForName("input").Value, "customer")
	require.NotNil(t, customer)
	assert.Equal(t, ast.Variable, customer.Kind)

	detail := field(packet.SelectionSet, "createDetail")
	require.NotNil(t, detail)
	order := childValue(detail.Arguments.ForName("input").Value, "order")
	require.NotNil(t, order)
	assert.Equal(t, orderRef, order.Raw)
}

func TestOrders_AddDetail_FirstLineOfNewOrder(t *testing.T) {
	client := replying(`{"packet":{
		"updateOrCreateOrder":{"returning":{"id":"o2","details":{"elems":[]}},"created":true},
		"createDetail":{"id":"d1"}}}`)

	ev, err := NewOrders(client).AddDetail(context.Background(), "ann", "g1")
	require.NoError(t, err)

	rec := ev.(workflow.Promoted).Record
	v, _ := rec.Get(DetailsPath)
	require.Len(t, v, 1)
}

func TestOrders_AddDetail_EmptyOrder(t *testing.T) {
	client := replying(`{"packet":{}}`)

	_, err := NewOrders(client).AddDetail(context.Background(), "ann", "g1")
	assert.Error(t, err)
}

func TestOrders_AddDetail_DoesNotMutateReturnedOrder(t *testing.T) {
	order := map[string]any{"id": "o1", "details": map[string]any{"elems": []any{}}}

	out := appendDetail(order, map[string]any{"id": "d1"})

	v, _ := out.Get(DetailsPath)
	assert.Len(t, v, 1)
	assert.Empty(t, order["details"].(map[string]any)["elems"])
}

func TestOrders_Fix(t *testing.T) {
	client := replying(`{"fixOrder":{"id":"o1","statusForCUSTOMER":{"code":"FIXED"}}}`)

	ev, err := NewOrders(client).Fix(context.Background(), "o1")
	require.NoError(t, err)

	updated, ok := ev.(workflow.Updated)
	require.True(t, ok, "got %T", ev)
	assert.Equal(t, "FIXED", updated.Record.Text("statusForCUSTOMER.code"))

	op := rendered(t, client.DoCalls()[0].Doc)
	assert.Nil(t, field(op.SelectionSet, "packet"))
	assert.NotNil(t, field(op.SelectionSet, "fixOrder"))
}

func TestOrders_DeleteDetail(t *testing.T) {
	client := replying(`{"deleteDetail":true}`)

	ev, err := NewOrders(client).DeleteDetail(context.Background(), "o1", "d2")
	require.NoError(t, err)

	assert.Equal(t, workflow.ChildRemoved{ParentID: "o1", Path: DetailsPath, ChildID: "d2"}, ev)
	assert.Equal(t, "d2", client.DoCalls()[0].Vars["detailId"])
}
