// Package entity defines the concrete lists of the console: which query
// feeds them, which columns they show and which fields their forms edit.
package entity

import (
	"context"
	"strings"

	"github.com/heartmarshall/backoffice/internal/adapter/gqlapi"
	"github.com/heartmarshall/backoffice/internal/domain"
	"github.com/heartmarshall/backoffice/internal/workflow"
)

// Screen names accepted by Catalog.Screen.
const (
	NameGoods         = "goods"
	NameOrders        = "orders"
	NameDictionaries  = "dictionaries"
	NameWords         = "words"
	NameRootEntities  = "root-entities"
	NameChildEntities = "child-entities"
	NameProjects      = "projects"
	NameTasks         = "tasks"
	NameMembers       = "members"
)

// Action names beyond edit and delete.
const (
	ActionAddToCart    = "add-to-cart"
	ActionApprove      = "approve"
	ActionRemoveDetail = "remove-detail"
)

// WordLimit caps the word list; the dictionary is searched by prefix.
const WordLimit = 100

// keep returns a ToDraft that seeds the form with id and the named fields.
func keep(fields ...string) func(domain.Record) domain.Record {
	return func(r domain.Record) domain.Record {
		out := domain.Record{domain.FieldID: r.ID()}
		for _, f := range fields {
			if v, ok := r[f]; ok {
				out[f] = v
			}
		}
		return out
	}
}

func dateOnly(path string) func(domain.Record) string {
	return func(r domain.Record) string {
		s := r.Text(path)
		if len(s) > 10 {
			return s[:10]
		}
		return s
	}
}

func goodTypes(c workflow.Capability, addToCart func(ctx context.Context, rec domain.Record) error) *workflow.Descriptor {
	return &workflow.Descriptor{
		Name:       NameGoods,
		Title:      "Goods",
		Operation:  gqlapi.GoodType.SearchOperation(),
		Capability: c,
		Columns: []workflow.Column{
			{Title: "Name", Path: "name"},
			{Title: "Description", Path: "descr"},
			{Title: "Price", Path: "price"},
			{Title: "Vendor", Path: "vendor.entity.name"},
		},
		Actions: []workflow.ActionSpec{
			{Name: ActionAddToCart, Label: "Add to cart", Run: addToCart},
		},
		ReadOnly: true,
	}
}

// CustomerCond matches the orders of username.
func CustomerCond(username string) domain.Cond {
	return domain.Eq("customer.entityId", username)
}

func orderStatus(r domain.Record) domain.OrderStatus {
	return domain.OrderStatus(r.Text("statusForCUSTOMER.code"))
}

func orders(c workflow.Capability, username string, approve func(context.Context, domain.Record) error, removeDetail func(ctx context.Context, order, detail domain.Record) error) *workflow.Descriptor {
	return &workflow.Descriptor{
		Name:       NameOrders,
		Title:      "Orders",
		Operation:  gqlapi.Order.SearchOperation(),
		Capability: c,
		Filter:     CustomerCond(username),
		Columns: []workflow.Column{
			{Title: "Number", Path: "id"},
			{Title: "Status", Path: "statusForCUSTOMER.code"},
			{Title: "Date", Path: "orderDate", Format: dateOnly("orderDate")},
			{Title: "Goods", Path: gqlapi.DetailsPath, Format: detailSummary},
		},
		Actions: []workflow.ActionSpec{
			{
				Name:    ActionApprove,
				Label:   "Approve order",
				Visible: func(r domain.Record) bool { return orderStatus(r).Approvable() },
				Run:     approve,
			},
			{
				Name:    ActionRemoveDetail,
				Label:   "Remove",
				Each:    gqlapi.DetailsPath,
				RunEach: removeDetail,
			},
		},
		ReadOnly: true,
	}
}

// detailSummary lists the goods of an order with their prices.
func detailSummary(r domain.Record) string {
	raw, _ := r.Get(gqlapi.DetailsPath)
	items, _ := raw.([]any)
	parts := make([]string, 0, len(items))
	for _, item := range items {
		d, ok := domain.AsRecord(item)
		if !ok {
			continue
		}
		part := d.Text("goodType.entity.name")
		if price := d.Text("goodType.entity.price"); price != "" {
			part += " (" + price + ")"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

func dictionaries(c workflow.Capability) *workflow.Descriptor {
	return &workflow.Descriptor{
		Name:       NameDictionaries,
		Title:      "Dictionaries",
		Operation:  gqlapi.Dictionary.SearchOperation(),
		Capability: c,
		Columns: []workflow.Column{
			{Title: "Code", Path: "id"},
			{Title: "Name", Path: "name"},
			{Title: "Description", Path: "descr"},
			{Title: "Words", Path: "words.count"},
		},
		Fields: []workflow.FieldSpec{
			{Name: "id", Label: "Code", Kind: workflow.FieldText, Required: true},
			{Name: "name", Label: "Name", Kind: workflow.FieldText, Required: true},
			{Name: "descr", Label: "Description", Kind: workflow.FieldText},
		},
		ToDraft: keep("name", "descr"),
	}
}

// WordCond matches the words of dictionaryID starting with prefix.
func WordCond(dictionaryID, prefix string) domain.Cond {
	return domain.And(domain.Eq("dictionary.$id", dictionaryID), domain.Like("$id", domain.NormalizeSearch(prefix)))
}

func words(c workflow.Capability, dictionaryID string) *workflow.Descriptor {
	return &workflow.Descriptor{
		Name:       NameWords,
		Title:      "Words",
		Operation:  gqlapi.Word.SearchOperation(),
		Capability: c,
		Filter:     WordCond(dictionaryID, ""),
		SearchFilter: func(text string) domain.Cond {
			return WordCond(dictionaryID, text)
		},
		Limit: WordLimit,
		Columns: []workflow.Column{
			{Title: "Word", Path: "id"},
			{Title: "Letters", Path: "lettersCnt"},
		},
		Fields: []workflow.FieldSpec{
			{Name: "id", Label: "Word", Kind: workflow.FieldText, Required: true},
			{Name: "lettersCnt", Label: "Letters", Kind: workflow.FieldNumber},
		},
		Scope:   domain.Record{"dictionary": dictionaryID},
		ToDraft: keep("lettersCnt"),
	}
}

func rootEntities(c workflow.Capability) *workflow.Descriptor {
	return &workflow.Descriptor{
		Name:       NameRootEntities,
		Title:      "Root entities",
		Operation:  gqlapi.RootEntity.SearchOperation(),
		Capability: c,
		Columns: []workflow.Column{
			{Title: "Name", Path: "name"},
			{Title: "Date", Path: "rootEntityDate", Format: dateOnly("rootEntityDate")},
		},
		Fields: []workflow.FieldSpec{
			{Name: "name", Label: "Name", Kind: workflow.FieldText, Required: true},
			{Name: "rootEntityDate", Label: "Date (YYYY-MM-DD)", Kind: workflow.FieldText},
		},
		ToDraft: keep("name", "rootEntityDate"),
	}
}

func childEntities(c workflow.Capability, rootEntityID string) *workflow.Descriptor {
	return &workflow.Descriptor{
		Name:       NameChildEntities,
		Title:      "Child entities",
		Operation:  gqlapi.ChildEntity.SearchOperation(),
		Capability: c,
		Filter:     domain.Eq("rootEntity.$id", rootEntityID),
		Columns: []workflow.Column{
			{Title: "Name", Path: "name"},
		},
		Fields: []workflow.FieldSpec{
			{Name: "name", Label: "Name", Kind: workflow.FieldText, Required: true},
		},
		Scope:   domain.Record{"rootEntity": rootEntityID},
		ToDraft: keep("name"),
	}
}

func projects(c workflow.Capability) *workflow.Descriptor {
	return &workflow.Descriptor{
		Name:       NameProjects,
		Title:      "Projects",
		Operation:  gqlapi.Project.SearchOperation(),
		Capability: c,
		Columns: []workflow.Column{
			{Title: "Name", Path: "name"},
			{Title: "Created", Path: "createDate", Format: dateOnly("createDate")},
		},
		Fields: []workflow.FieldSpec{
			{Name: "name", Label: "Name", Kind: workflow.FieldText, Required: true},
			{Name: "createDate", Label: "Created (YYYY-MM-DD)", Kind: workflow.FieldText},
		},
		ToDraft: keep("name", "createDate"),
	}
}

// ProjectCond matches the records of projectID.
func ProjectCond(projectID string) domain.Cond {
	return domain.Eq("project.$id", projectID)
}

func tasks(c workflow.Capability, projectID string) *workflow.Descriptor {
	return &workflow.Descriptor{
		Name:       NameTasks,
		Title:      "Tasks",
		Operation:  gqlapi.Task.SearchOperation(),
		Capability: c,
		Filter:     ProjectCond(projectID),
		Columns: []workflow.Column{
			{Title: "Name", Path: "name"},
			{Title: "Owner", Path: "owner.name"},
		},
		Fields: []workflow.FieldSpec{
			{Name: "name", Label: "Name", Kind: workflow.FieldText, Required: true},
			{Name: "owner", Label: "Owner", Kind: workflow.FieldLookup, Display: "owner.name"},
		},
		Scope: domain.Record{"project": projectID},
		ToDraft: func(r domain.Record) domain.Record {
			out := keep("name")(r)
			if id := r.Text("owner.id"); id != "" {
				out["owner"] = id
			}
			return out
		},
	}
}

func roleOptions() []string {
	roles := domain.MemberRoles()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = r.String()
	}
	return out
}

func members(c workflow.Capability, projectID string) *workflow.Descriptor {
	return &workflow.Descriptor{
		Name:       NameMembers,
		Title:      "Members",
		Operation:  gqlapi.Member.SearchOperation(),
		Capability: c,
		Filter:     ProjectCond(projectID),
		Columns: []workflow.Column{
			{Title: "Name", Path: "name"},
			{Title: "Roles", Path: "roles.elems"},
		},
		Fields: []workflow.FieldSpec{
			{Name: "name", Label: "Name", Kind: workflow.FieldText, Required: true},
			{Name: "roles", Label: "Member roles", Kind: workflow.FieldEnum, Options: roleOptions()},
		},
		Scope: domain.Record{"project": projectID},
		ToDraft: func(r domain.Record) domain.Record {
			out := keep("name")(r)
			if raw, ok := r.Get("roles.elems"); ok {
				if items, ok := raw.([]any); ok {
					roles := make([]string, 0, len(items))
					for _, it := range items {
						roles = append(roles, domain.FormatValue(it))
					}
					out["roles"] = roles
				}
			}
			return out
		},
	}
}
