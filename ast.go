package titan

import "fmt"

// AstNode is implemented by every node produced by the parser: every
// top-level item, statement, expression, variable, and type-syntax
// node. Accept dispatches to an AstNodeVisitor, which the AST printer
// implements; the checker, upvalues pass and coder use type switches
// instead. Adding a node kind without updating every visitor is a
// compile error.
type AstNode interface {
	Span() Span
	String() string
	Accept(AstNodeVisitor) error
}

// TopLevelNode is one of {ImportNode, ForeignImportNode,
// TopLevelVarNode, TopLevelFuncNode, RecordDeclNode} - the Program
// item family from §3.
type TopLevelNode interface {
	AstNode
	topLevelNode()
}

// Stmt is one of {BlockStmt, WhileStmt, RepeatStmt, IfStmt, ForStmt,
// DeclStmt, AssignStmt, CallStmt, ReturnStmt}.
type Stmt interface {
	AstNode
	stmtNode()
}

// Expr is one of {NilExpr, BoolExpr, IntegerExpr, FloatExpr,
// StringExpr, InitListExpr, VarExpr, UnopExpr, BinopExpr, ConcatExpr,
// CallExpr, CastExpr, AdjustExpr, ExtraExpr}. Every Expr carries a
// resolved_type annotation, set by the checker and read by the coder;
// it is InvalidType{} until checked.
type Expr interface {
	AstNode
	exprNode()
	Type() Type
	SetType(Type)
}

// VarNode is one of {NameVar, DotVar, BracketVar} - the assignable
// and addressable places in §3's Variable family.
type VarNode interface {
	AstNode
	varNode()
}

// TypeNode is the syntax-level mirror of the Type term variants in
// ast_type.go, plus TypeName/TypeQualName/TypeArray/TypeFunction/
// TypeMap/TypeOption. The checker resolves a TypeNode to a Type.
type TypeNode interface {
	AstNode
	typeNode()
}

// ---- shared embeddable bases ----

type exprBase struct {
	span         Span
	resolvedType Type
}

func (e *exprBase) Span() Span { return e.span }
func (e *exprBase) Type() Type {
	if e.resolvedType == nil {
		return InvalidType{}
	}
	return e.resolvedType
}
func (e *exprBase) SetType(t Type) { e.resolvedType = t }
func (*exprBase) exprNode()        {}

type stmtBase struct{ span Span }

func (s *stmtBase) Span() Span { return s.span }
func (*stmtBase) stmtNode()     {}

type typeSynBase struct{ span Span }

func (t *typeSynBase) Span() Span { return t.span }
func (*typeSynBase) typeNode()    {}

type varBase struct{ span Span }

func (v *varBase) Span() Span { return v.span }
func (*varBase) varNode()      {}

// ---- Program ----

type Program struct {
	Items []TopLevelNode
	span  Span
}

func NewProgram(items []TopLevelNode, span Span) *Program { return &Program{Items: items, span: span} }
func (p *Program) Span() Span                              { return p.span }
func (p *Program) String() string                           { return fmt.Sprintf("Program<%d>", len(p.Items)) }
func (p *Program) Accept(v AstNodeVisitor) error             { return v.VisitProgram(p) }

// ImportNode is `local Name = import "Path"`.
type ImportNode struct {
	Name         string
	Path         string
	ResolvedType Type // the imported module's ModuleType, set by the checker's first pass
	span         Span
}

func NewImportNode(name, path string, span Span) *ImportNode { return &ImportNode{Name: name, Path: path, span: span} }
func (n *ImportNode) Span() Span                               { return n.span }
func (n *ImportNode) String() string                           { return fmt.Sprintf("import %s = %q", n.Name, n.Path) }
func (n *ImportNode) Accept(v AstNodeVisitor) error             { return v.VisitImportNode(n) }
func (*ImportNode) topLevelNode()                              {}

// ForeignImportNode is `local Name = foreign import "header.h"`.
// Member types aren't known from parsing the header (out of scope,
// §1). The checker records none on the ForeignModuleType: every
// member access through the import has type value.
type ForeignImportNode struct {
	Name   string
	Header string
	span   Span
}

func NewForeignImportNode(name, header string, span Span) *ForeignImportNode {
	return &ForeignImportNode{Name: name, Header: header, span: span}
}
func (n *ForeignImportNode) Span() Span               { return n.span }
func (n *ForeignImportNode) String() string            { return fmt.Sprintf("foreign import %s = %q", n.Name, n.Header) }
func (n *ForeignImportNode) Accept(v AstNodeVisitor) error { return v.VisitForeignImportNode(n) }
func (*ForeignImportNode) topLevelNode()               {}

// TopLevelVarNode is `local Name [: T] = Init` at module scope. Init
// must be constant-foldable (§6.3). GlobalIndex and MangledName are
// filled in by the upvalues pass.
type TopLevelVarNode struct {
	Name         string
	Annotation   TypeNode // may be nil
	Init         Expr
	ResolvedType Type
	GlobalIndex  int
	MangledName  string
	span         Span
}

func NewTopLevelVarNode(name string, ann TypeNode, init Expr, span Span) *TopLevelVarNode {
	return &TopLevelVarNode{Name: name, Annotation: ann, Init: init, span: span}
}
func (n *TopLevelVarNode) Span() Span                   { return n.span }
func (n *TopLevelVarNode) String() string                { return fmt.Sprintf("local %s", n.Name) }
func (n *TopLevelVarNode) Accept(v AstNodeVisitor) error  { return v.VisitTopLevelVarNode(n) }
func (*TopLevelVarNode) topLevelNode()                  {}

// Param is one `name: Type` function parameter.
type Param struct {
	Name string
	Type TypeNode
}

// TopLevelFuncNode is `[local] function Name(params): Rets Body end`.
// UpvalueIndex/ReferencedUpvalues are filled in by the upvalues pass;
// a function is addressed by other functions via UpvalueIndex and by
// the globals table via GlobalIndex.
type TopLevelFuncNode struct {
	Name               string
	Params             []Param
	Rets               []TypeNode
	Body               *BlockStmt
	ResolvedType        FunctionType
	GlobalIndex         int
	UpvalueIndex        int
	ReferencedUpvalues  []int
	MangledName         string
	AlwaysReturns        bool
	span                 Span
}

func NewTopLevelFuncNode(name string, params []Param, rets []TypeNode, body *BlockStmt, span Span) *TopLevelFuncNode {
	return &TopLevelFuncNode{Name: name, Params: params, Rets: rets, Body: body, span: span}
}
func (n *TopLevelFuncNode) Span() Span                  { return n.span }
func (n *TopLevelFuncNode) String() string               { return fmt.Sprintf("function %s", n.Name) }
func (n *TopLevelFuncNode) Accept(v AstNodeVisitor) error { return v.VisitTopLevelFuncNode(n) }
func (*TopLevelFuncNode) topLevelNode()                 {}

// RecordFieldDecl is one `name: Type` field of a record declaration.
type RecordFieldDecl struct {
	Name string
	Type TypeNode
}

// RecordDeclNode is `record Name Fields* end`. The parser additionally
// synthesizes a companion TopLevelFuncNode for `Name.new` in the same
// Program.Items slot range (§4.2).
type RecordDeclNode struct {
	Name   string
	Fields []RecordFieldDecl
	span   Span
}

func NewRecordDeclNode(name string, fields []RecordFieldDecl, span Span) *RecordDeclNode {
	return &RecordDeclNode{Name: name, Fields: fields, span: span}
}
func (n *RecordDeclNode) Span() Span                  { return n.span }
func (n *RecordDeclNode) String() string               { return fmt.Sprintf("record %s", n.Name) }
func (n *RecordDeclNode) Accept(v AstNodeVisitor) error { return v.VisitRecordDeclNode(n) }
func (*RecordDeclNode) topLevelNode()                  {}
