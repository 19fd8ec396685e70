package workflow

import (
	"context"

	"github.com/heartmarshall/backoffice/internal/domain"
)

// Saved is the result of a create. Created is false when an upsert hit an
// existing record.
type Saved struct {
	Record  domain.Record
	Created bool
}

// Capability is the API surface of one entity.
type Capability interface {
	Search(ctx context.Context, cond domain.Cond, limit int) ([]domain.Record, error)
	Create(ctx context.Context, input domain.Record) (Saved, error)
	Update(ctx context.Context, input domain.Record) (domain.Record, error)
	Delete(ctx context.Context, id string) error
}

// Column is one table column. Path is a dotted record path; Format, when
// set, replaces the default rendering.
type Column struct {
	Title  string
	Path   string
	Format func(domain.Record) string
}

// FieldKind selects how a form field accepts input.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldNumber
	// FieldEnum is a multi-select over Options.
	FieldEnum
	// FieldLookup holds the id of a record picked through a search.
	FieldLookup
)

// FieldSpec is one form field.
type FieldSpec struct {
	Name     string
	Label    string
	Kind     FieldKind
	Options  []string
	Required bool
	// Display is the record path shown for a FieldLookup value, e.g.
	// "owner.name".
	Display string
}

// ActionSpec is a descriptor-specific row action such as approve or
// add-to-cart. With Each set, one action is produced per element of the
// nested collection at that path, named "<Name>:<element id>", and
// RunEach receives the element.
type ActionSpec struct {
	Name    string
	Label   string
	Visible func(domain.Record) bool
	Run     func(ctx context.Context, rec domain.Record) error
	Each    string
	RunEach func(ctx context.Context, parent, child domain.Record) error
}

// Descriptor parameterizes the engine for one entity list.
type Descriptor struct {
	Name       string
	Title      string
	Operation  string
	Capability Capability

	// Filter scopes the list, e.g. to one project.
	Filter domain.Cond
	// SearchFilter narrows Filter by user text; nil means not searchable.
	SearchFilter func(text string) domain.Cond
	Limit        int

	Columns []Column
	Fields  []FieldSpec
	// Scope is merged into every create input.
	Scope domain.Record
	// ToDraft seeds an update draft; nil means the record as is.
	ToDraft func(domain.Record) domain.Record
	Actions []ActionSpec

	// ReadOnly disables add, edit and delete.
	ReadOnly bool
}

// Field returns the field named name.
func (d *Descriptor) Field(name string) (FieldSpec, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Cond returns the filter for a search text. Empty text, or a descriptor
// without SearchFilter, yields the base Filter.
func (d *Descriptor) Cond(text string) domain.Cond {
	if d.SearchFilter == nil {
		return d.Filter
	}
	return d.SearchFilter(text)
}
