package gqlapi

import (
	"context"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/heartmarshall/backoffice/internal/domain"
	"github.com/heartmarshall/backoffice/internal/transport/graphql"
	"github.com/heartmarshall/backoffice/internal/workflow"
)

// DetailsPath is the nested collection of order lines inside an order.
const DetailsPath = "details.elems"

// orderRef lets createDetail point at the order upserted earlier in the
// same packet.
const orderRef = "ref:updateOrCreateOrder"

var detailSelection = graphql.Selection{
	"id",
	"goodType.entity.id",
	"goodType.entity.name",
	"goodType.entity.descr",
	"goodType.entity.price",
}

// Orders runs the storefront composites that do not fit plain CRUD.
type Orders struct {
	client doer
}

// NewOrders creates the order composites.
func NewOrders(client doer) *Orders {
	return &Orders{client: client}
}

// AddDetail puts one good into the customer's draft order, creating the
// order when there is none. The returned event carries the order with the
// new line appended and moves it to the front of the list.
func (o *Orders) AddDetail(ctx context.Context, customerID, goodTypeID string) (workflow.Event, error) {
	doc := graphql.Mutation("addOrderDetail",
		[]graphql.Var{{Name: "customerId", Type: "String!"}, {Name: "goodTypeId", Type: "ID!"}},
		graphql.Field("updateOrCreateOrder",
			ast.ArgumentList{graphql.ObjectArg("input",
				graphql.ObjectField{Name: "customer", Value: graphql.Variable("customerId")},
			)},
			append(prefixed("returning", Order.Selection), "created"),
		),
		graphql.Field("createDetail",
			ast.ArgumentList{graphql.ObjectArg("input",
				graphql.ObjectField{Name: "order", Value: orderRef},
				graphql.ObjectField{Name: "goodType", Value: graphql.Variable("goodTypeId")},
			)},
			detailSelection,
		),
	)

	var out struct {
		Packet struct {
			UpdateOrCreateOrder upsertResult  `json:"updateOrCreateOrder"`
			CreateDetail        domain.Record `json:"createDetail"`
		} `json:"packet"`
	}
	vars := map[string]any{"customerId": customerID, "goodTypeId": goodTypeID}
	if err := o.client.Do(ctx, doc, vars, &out); err != nil {
		return nil, err
	}

	order := out.Packet.UpdateOrCreateOrder.Returning
	if order == nil {
		return nil, fmt.Errorf("addOrderDetail: empty order")
	}
	if out.Packet.CreateDetail != nil {
		order = appendDetail(order, out.Packet.CreateDetail)
	}
	return workflow.Promoted{Record: order}, nil
}

// Fix approves a draft order.
func (o *Orders) Fix(ctx context.Context, orderID string) (workflow.Event, error) {
	doc := graphql.RootMutation("fixOrder",
		[]graphql.Var{{Name: "orderId", Type: "ID!"}},
		graphql.Field("fixOrder", ast.ArgumentList{graphql.VarArg("orderId", "orderId")}, Order.Selection),
	)

	var out struct {
		FixOrder domain.Record `json:"fixOrder"`
	}
	if err := o.client.Do(ctx, doc, map[string]any{"orderId": orderID}, &out); err != nil {
		return nil, err
	}
	if out.FixOrder == nil {
		return nil, fmt.Errorf("fixOrder: empty order")
	}
	return workflow.Updated{Record: out.FixOrder}, nil
}

// DeleteDetail removes one line from an order.
func (o *Orders) DeleteDetail(ctx context.Context, orderID, detailID string) (workflow.Event, error) {
	doc := graphql.RootMutation("deleteDetail",
		[]graphql.Var{{Name: "detailId", Type: "ID!"}},
		graphql.Field("deleteDetail", ast.ArgumentList{graphql.VarArg("detailId", "detailId")}, nil),
	)
	if err := o.client.Do(ctx, doc, map[string]any{"detailId": detailID}, nil); err != nil {
		return nil, err
	}
	return workflow.ChildRemoved{ParentID: orderID, Path: DetailsPath, ChildID: detailID}, nil
}

func appendDetail(order, detail domain.Record) domain.Record {
	var elems []any
	if v, ok := order.Get(DetailsPath); ok {
		if list, ok := v.([]any); ok {
			elems = append(elems, list...)
		}
	}
	elems = append(elems, map[string]any(detail))

	details := map[string]any{}
	if v, ok := order["details"].(map[string]any); ok {
		for k, x := range v {
			details[k] = x
		}
	}
	details["elems"] = elems
	return order.Merge(domain.Record{"details": details})
}
