package titan

import (
	"fmt"
	"strings"
)

// TypeNilNode etc. are the syntax forms of the scalar Type terms;
// each resolves directly to its same-named Type in ast_type.go.
type (
	TypeNilNode     struct{ typeSynBase }
	TypeBooleanNode struct{ typeSynBase }
	TypeIntegerNode struct{ typeSynBase }
	TypeFloatNode   struct{ typeSynBase }
	TypeStringNode  struct{ typeSynBase }
	TypeValueNode   struct{ typeSynBase }
)

func NewTypeNilNode(span Span) *TypeNilNode         { return &TypeNilNode{typeSynBase{span}} }
func NewTypeBooleanNode(span Span) *TypeBooleanNode { return &TypeBooleanNode{typeSynBase{span}} }
func NewTypeIntegerNode(span Span) *TypeIntegerNode { return &TypeIntegerNode{typeSynBase{span}} }
func NewTypeFloatNode(span Span) *TypeFloatNode     { return &TypeFloatNode{typeSynBase{span}} }
func NewTypeStringNode(span Span) *TypeStringNode   { return &TypeStringNode{typeSynBase{span}} }
func NewTypeValueNode(span Span) *TypeValueNode     { return &TypeValueNode{typeSynBase{span}} }

func (n *TypeNilNode) String() string     { return "nil" }
func (n *TypeBooleanNode) String() string { return "boolean" }
func (n *TypeIntegerNode) String() string { return "integer" }
func (n *TypeFloatNode) String() string   { return "float" }
func (n *TypeStringNode) String() string  { return "string" }
func (n *TypeValueNode) String() string   { return "value" }

func (n *TypeNilNode) Accept(v AstNodeVisitor) error     { return v.VisitTypeNilNode(n) }
func (n *TypeBooleanNode) Accept(v AstNodeVisitor) error { return v.VisitTypeBooleanNode(n) }
func (n *TypeIntegerNode) Accept(v AstNodeVisitor) error { return v.VisitTypeIntegerNode(n) }
func (n *TypeFloatNode) Accept(v AstNodeVisitor) error   { return v.VisitTypeFloatNode(n) }
func (n *TypeStringNode) Accept(v AstNodeVisitor) error  { return v.VisitTypeStringNode(n) }
func (n *TypeValueNode) Accept(v AstNodeVisitor) error   { return v.VisitTypeValueNode(n) }

// TypeNameNode is an unqualified record reference within the current
// module, e.g. `Point` inside the module that declares `record Point`.
type TypeNameNode struct {
	typeSynBase
	Name string
}

func NewTypeNameNode(name string, span Span) *TypeNameNode {
	return &TypeNameNode{typeSynBase{span}, name}
}
func (n *TypeNameNode) String() string           { return n.Name }
func (n *TypeNameNode) Accept(v AstNodeVisitor) error { return v.VisitTypeNameNode(n) }

// TypeQualNameNode is `Module.Name`, a record reference qualified by
// the imported module that declares it.
type TypeQualNameNode struct {
	typeSynBase
	Module string
	Name   string
}

func NewTypeQualNameNode(module, name string, span Span) *TypeQualNameNode {
	return &TypeQualNameNode{typeSynBase{span}, module, name}
}
func (n *TypeQualNameNode) String() string           { return n.Module + "." + n.Name }
func (n *TypeQualNameNode) Accept(v AstNodeVisitor) error { return v.VisitTypeQualNameNode(n) }

// TypeArrayNode is `{T}`.
type TypeArrayNode struct {
	typeSynBase
	Elem TypeNode
}

func NewTypeArrayNode(elem TypeNode, span Span) *TypeArrayNode {
	return &TypeArrayNode{typeSynBase{span}, elem}
}
func (n *TypeArrayNode) String() string           { return fmt.Sprintf("{%s}", n.Elem) }
func (n *TypeArrayNode) Accept(v AstNodeVisitor) error { return v.VisitTypeArrayNode(n) }

// TypeFunctionNode is `(Params) -> (Rets)`.
type TypeFunctionNode struct {
	typeSynBase
	Params []TypeNode
	Rets   []TypeNode
}

func NewTypeFunctionNode(params, rets []TypeNode, span Span) *TypeFunctionNode {
	return &TypeFunctionNode{typeSynBase{span}, params, rets}
}
func (n *TypeFunctionNode) String() string {
	params := make([]string, len(n.Params))
	for i, p := range n.Params {
		params[i] = p.String()
	}
	rets := make([]string, len(n.Rets))
	for i, r := range n.Rets {
		rets[i] = r.String()
	}
	return fmt.Sprintf("(%s) -> (%s)", strings.Join(params, ", "), strings.Join(rets, ", "))
}
func (n *TypeFunctionNode) Accept(v AstNodeVisitor) error { return v.VisitTypeFunctionNode(n) }

// TypeMapNode is the syntax form named alongside Array/Function/Option
// in the type-syntax list but never given a concrete grammar; the
// parser never produces one (see DESIGN.md Open Questions). Kept so
// the node family stays literally complete against the type-syntax
// list, and so a future grammar extension has a node to target.
type TypeMapNode struct {
	typeSynBase
	Key   TypeNode
	Value TypeNode
}

func NewTypeMapNode(key, value TypeNode, span Span) *TypeMapNode {
	return &TypeMapNode{typeSynBase{span}, key, value}
}
func (n *TypeMapNode) String() string           { return fmt.Sprintf("{%s: %s}", n.Key, n.Value) }
func (n *TypeMapNode) Accept(v AstNodeVisitor) error { return v.VisitTypeMapNode(n) }

// TypeOptionNode is `T?`.
type TypeOptionNode struct {
	typeSynBase
	Base TypeNode
}

func NewTypeOptionNode(base TypeNode, span Span) *TypeOptionNode {
	return &TypeOptionNode{typeSynBase{span}, base}
}
func (n *TypeOptionNode) String() string           { return n.Base.String() + "?" }
func (n *TypeOptionNode) Accept(v AstNodeVisitor) error { return v.VisitTypeOptionNode(n) }
