// Package gqlapi implements workflow.Capability and the composite writes
// of the storefront against the backoffice GraphQL API.
package gqlapi

import "github.com/heartmarshall/backoffice/internal/transport/graphql"

// Entity describes how one entity type is exposed by the API.
type Entity struct {
	// Name is the type name used in operation names: search<Name>,
	// create<Name>, _Create<Name>Input.
	Name      string
	Selection graphql.Selection
	// Upsert creates through updateOrCreate<Name>.
	Upsert bool
}

var (
	GoodType = Entity{
		Name:      "GoodType",
		Selection: graphql.Selection{"id", "name", "descr", "price", "vendor.entity.name"},
	}
	Order = Entity{
		Name: "Order",
		Selection: graphql.Selection{
			"id", "orderDate", "statusForCUSTOMER.code",
			"details.elems.id",
			"details.elems.goodType.entity.id",
			"details.elems.goodType.entity.name",
			"details.elems.goodType.entity.descr",
			"details.elems.goodType.entity.price",
		},
	}
	Dictionary = Entity{
		Name:      "Dictionary",
		Selection: graphql.Selection{"id", "name", "descr", "words.count"},
		Upsert:    true,
	}
	Word = Entity{
		Name:      "Word",
		Selection: graphql.Selection{"id", "lettersCnt"},
		Upsert:    true,
	}
	RootEntity = Entity{
		Name:      "RootEntity",
		Selection: graphql.Selection{"id", "name", "rootEntityDate"},
	}
	ChildEntity = Entity{
		Name:      "ChildEntity",
		Selection: graphql.Selection{"id", "name"},
	}
	Project = Entity{
		Name:      "Project",
		Selection: graphql.Selection{"id", "name", "createDate"},
	}
	Task = Entity{
		Name:      "Task",
		Selection: graphql.Selection{"id", "name", "owner.id", "owner.name"},
	}
	Member = Entity{
		Name:      "Member",
		Selection: graphql.Selection{"id", "name", "roles.elems"},
	}
)

// SearchOperation is the query name, also used as the cache key operation.
func (e Entity) SearchOperation() string { return "search" + e.Name }
