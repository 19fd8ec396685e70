package graphql

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// PacketField is the mutation root field every write goes through.
const PacketField = "packet"

// Selection lists fields as dotted paths: "owner.name" selects
// { owner { name } }. Order is kept.
type Selection []string

// Var declares an operation variable. Type is a named type with an
// optional trailing "!".
type Var struct {
	Name string
	Type string
}

// ObjectField is one entry of an inline input object literal.
type ObjectField struct {
	Name  string
	Value any
}

// Variable references an operation variable inside an object literal.
type Variable string

// Query builds a query operation.
func Query(name string, vars []Var, fields ...*ast.Field) *ast.QueryDocument {
	return document(ast.Query, name, vars, fields)
}

// Mutation builds a mutation operation whose fields are wrapped in packet.
func Mutation(name string, vars []Var, fields ...*ast.Field) *ast.QueryDocument {
	packet := &ast.Field{Name: PacketField, SelectionSet: toSelectionSet(fields)}
	return document(ast.Mutation, name, vars, []*ast.Field{packet})
}

// RootMutation builds a mutation whose fields sit at the root, for
// server-side composite operations that are not part of a packet.
func RootMutation(name string, vars []Var, fields ...*ast.Field) *ast.QueryDocument {
	return document(ast.Mutation, name, vars, fields)
}

func document(op ast.Operation, name string, vars []Var, fields []*ast.Field) *ast.QueryDocument {
	defs := make(ast.VariableDefinitionList, 0, len(vars))
	for _, v := range vars {
		defs = append(defs, &ast.VariableDefinition{Variable: v.Name, Type: parseType(v.Type)})
	}
	return &ast.QueryDocument{
		Operations: ast.OperationList{{
			Operation:           op,
			Name:                name,
			VariableDefinitions: defs,
			SelectionSet:        toSelectionSet(fields),
		}},
	}
}

// Field builds a field with arguments and a sub-selection. A nil sel
// yields a scalar field.
func Field(name string, args ast.ArgumentList, sel Selection) *ast.Field {
	return &ast.Field{Name: name, Arguments: args, SelectionSet: sel.selectionSet()}
}

// Aliased is Field with an alias, used to repeat one mutation in a packet.
func Aliased(alias, name string, args ast.ArgumentList, sel Selection) *ast.Field {
	f := Field(name, args, sel)
	f.Alias = alias
	return f
}

// Nest wraps sub-fields into an object field: Nest("returning", f...).
func Nest(name string, fields ...*ast.Field) *ast.Field {
	return &ast.Field{Name: name, SelectionSet: toSelectionSet(fields)}
}

// VarArg passes an operation variable: name: $variable.
func VarArg(name, variable string) *ast.Argument {
	return &ast.Argument{Name: name, Value: &ast.Value{Kind: ast.Variable, Raw: variable}}
}

// ObjectArg passes an inline input object literal.
func ObjectArg(name string, fields ...ObjectField) *ast.Argument {
	return &ast.Argument{Name: name, Value: objectValue(fields)}
}

// Format renders doc as GraphQL source.
func Format(doc *ast.QueryDocument) (string, error) {
	if doc == nil || len(doc.Operations) == 0 {
		return "", errors.New("graphql: empty document")
	}
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(doc)
	return buf.String(), nil
}

func (s Selection) selectionSet() ast.SelectionSet {
	if len(s) == 0 {
		return nil
	}
	root := &selNode{}
	for _, path := range s {
		cur := root
		for _, part := range strings.Split(path, ".") {
			cur = cur.child(part)
		}
	}
	return root.selectionSet()
}

type selNode struct {
	name     string
	children []*selNode
}

func (n *selNode) child(name string) *selNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	c := &selNode{name: name}
	n.children = append(n.children, c)
	return c
}

func (n *selNode) selectionSet() ast.SelectionSet {
	if len(n.children) == 0 {
		return nil
	}
	set := make(ast.SelectionSet, 0, len(n.children))
	for _, c := range n.children {
		set = append(set, &ast.Field{Name: c.name, SelectionSet: c.selectionSet()})
	}
	return set
}

func toSelectionSet(fields []*ast.Field) ast.SelectionSet {
	set := make(ast.SelectionSet, 0, len(fields))
	for _, f := range fields {
		set = append(set, f)
	}
	return set
}

func parseType(t string) *ast.Type {
	if name, ok := strings.CutSuffix(t, "!"); ok {
		return ast.NonNullNamedType(name, nil)
	}
	return ast.NamedType(t, nil)
}

func objectValue(fields []ObjectField) *ast.Value {
	children := make(ast.ChildValueList, 0, len(fields))
	for _, f := range fields {
		children = append(children, &ast.ChildValue{Name: f.Name, Value: literal(f.Value)})
	}
	return &ast.Value{Kind: ast.ObjectValue, Children: children}
}

func literal(v any) *ast.Value {
	switch x := v.(type) {
	case nil:
		return &ast.Value{Kind: ast.NullValue, Raw: "null"}
	case Variable:
		return &ast.Value{Kind: ast.Variable, Raw: string(x)}
	case string:
		return &ast.Value{Kind: ast.StringValue, Raw: x}
	case int:
		return &ast.Value{Kind: ast.IntValue, Raw: strconv.Itoa(x)}
	case bool:
		return &ast.Value{Kind: ast.BooleanValue, Raw: strconv.FormatBool(x)}
	case float64:
		return &ast.Value{Kind: ast.FloatValue, Raw: strconv.FormatFloat(x, 'f', -1, 64)}
	case []string:
		children := make(ast.ChildValueList, 0, len(x))
		for _, s := range x {
			children = append(children, &ast.ChildValue{Value: literal(s)})
		}
		return &ast.Value{Kind: ast.ListValue, Children: children}
	case []ObjectField:
		return objectValue(x)
	default:
		return &ast.Value{Kind: ast.StringValue, Raw: ""}
	}
}
