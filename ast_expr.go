package titan

import (
	"fmt"
	"strings"
)

// UnaryOp is the set of prefix operators: `not`, `-`, `#`, `~`.
type UnaryOp int

const (
	UnopNot UnaryOp = iota
	UnopNeg
	UnopLen
	UnopBNot
)

func (o UnaryOp) String() string {
	switch o {
	case UnopNot:
		return "not"
	case UnopNeg:
		return "-"
	case UnopLen:
		return "#"
	case UnopBNot:
		return "~"
	default:
		return "?"
	}
}

// BinaryOp is every infix operator except `..` (ConcatExpr flattens
// concatenation chains separately) per the precedence chain in §4.2:
// or, and, comparisons, |, ~, &, shifts, +/-, */ // %, ^.
type BinaryOp int

const (
	BinopOr BinaryOp = iota
	BinopAnd
	BinopEq
	BinopNe
	BinopLt
	BinopLe
	BinopGt
	BinopGe
	BinopBOr
	BinopBXor
	BinopBAnd
	BinopShl
	BinopShr
	BinopAdd
	BinopSub
	BinopMul
	BinopDiv
	BinopIDiv
	BinopMod
	BinopPow
)

var binopNames = map[BinaryOp]string{
	BinopOr: "or", BinopAnd: "and", BinopEq: "==", BinopNe: "~=",
	BinopLt: "<", BinopLe: "<=", BinopGt: ">", BinopGe: ">=",
	BinopBOr: "|", BinopBXor: "~", BinopBAnd: "&", BinopShl: "<<", BinopShr: ">>",
	BinopAdd: "+", BinopSub: "-", BinopMul: "*", BinopDiv: "/", BinopIDiv: "//",
	BinopMod: "%", BinopPow: "^",
}

func (o BinaryOp) String() string { return binopNames[o] }

// NilExpr is the literal `nil`.
type NilExpr struct{ exprBase }

func NewNilExpr(span Span) *NilExpr          { return &NilExpr{exprBase{span: span}} }
func (n *NilExpr) String() string            { return "nil" }
func (n *NilExpr) Accept(v AstNodeVisitor) error { return v.VisitNilExpr(n) }

// BoolExpr is `true` or `false`.
type BoolExpr struct {
	exprBase
	Value bool
}

func NewBoolExpr(value bool, span Span) *BoolExpr { return &BoolExpr{exprBase{span: span}, value} }
func (n *BoolExpr) String() string                { return fmt.Sprintf("%t", n.Value) }
func (n *BoolExpr) Accept(v AstNodeVisitor) error  { return v.VisitBoolExpr(n) }

// IntegerExpr is an integer literal.
type IntegerExpr struct {
	exprBase
	Value int64
}

func NewIntegerExpr(value int64, span Span) *IntegerExpr {
	return &IntegerExpr{exprBase{span: span}, value}
}
func (n *IntegerExpr) String() string           { return fmt.Sprintf("%d", n.Value) }
func (n *IntegerExpr) Accept(v AstNodeVisitor) error { return v.VisitIntegerExpr(n) }

// FloatExpr is a float literal.
type FloatExpr struct {
	exprBase
	Value float64
}

func NewFloatExpr(value float64, span Span) *FloatExpr { return &FloatExpr{exprBase{span: span}, value} }
func (n *FloatExpr) String() string                    { return fmt.Sprintf("%g", n.Value) }
func (n *FloatExpr) Accept(v AstNodeVisitor) error      { return v.VisitFloatExpr(n) }

// StringExpr is a short- or long-bracket string literal, already
// escape-decoded by the lexer.
type StringExpr struct {
	exprBase
	Value string
}

func NewStringExpr(value string, span Span) *StringExpr {
	return &StringExpr{exprBase{span: span}, value}
}
func (n *StringExpr) String() string           { return fmt.Sprintf("%q", n.Value) }
func (n *StringExpr) Accept(v AstNodeVisitor) error { return v.VisitStringExpr(n) }

// InitField is one `name = Value` entry of an initializer list; Name
// is empty for a positional (array-part) entry.
type InitField struct {
	Name  string
	Value Expr
}

// InitListExpr is `{ ... }`: a positional (array) part and/or a named
// (record) part. The checker reconciles this against a type hint into
// either an ArrayType or a RecordType (§3, §4.4); a list mixing both
// parts is rejected by the checker, not the parser.
type InitListExpr struct {
	exprBase
	Fields []InitField
}

func NewInitListExpr(fields []InitField, span Span) *InitListExpr {
	return &InitListExpr{exprBase: exprBase{span: span}, Fields: fields}
}
func (n *InitListExpr) String() string           { return fmt.Sprintf("{...}<%d>", len(n.Fields)) }
func (n *InitListExpr) Accept(v AstNodeVisitor) error { return v.VisitInitListExpr(n) }

// VarExpr wraps a VarNode so a variable reference can appear wherever
// an Expr is expected.
type VarExpr struct {
	exprBase
	Var VarNode
}

func NewVarExpr(variable VarNode, span Span) *VarExpr {
	return &VarExpr{exprBase: exprBase{span: span}, Var: variable}
}
func (n *VarExpr) String() string           { return n.Var.String() }
func (n *VarExpr) Accept(v AstNodeVisitor) error { return v.VisitVarExpr(n) }

// UnopExpr is a prefix-operator application.
type UnopExpr struct {
	exprBase
	Op      UnaryOp
	Operand Expr
}

func NewUnopExpr(op UnaryOp, operand Expr, span Span) *UnopExpr {
	return &UnopExpr{exprBase: exprBase{span: span}, Op: op, Operand: operand}
}
func (n *UnopExpr) String() string           { return fmt.Sprintf("(%s %s)", n.Op, n.Operand) }
func (n *UnopExpr) Accept(v AstNodeVisitor) error { return v.VisitUnopExpr(n) }

// BinopExpr is an infix-operator application, excluding `..`.
type BinopExpr struct {
	exprBase
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func NewBinopExpr(op BinaryOp, left, right Expr, span Span) *BinopExpr {
	return &BinopExpr{exprBase: exprBase{span: span}, Op: op, Left: left, Right: right}
}
func (n *BinopExpr) String() string           { return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right) }
func (n *BinopExpr) Accept(v AstNodeVisitor) error { return v.VisitBinopExpr(n) }

// ConcatExpr is a flattened chain of `..` operands: `a .. b .. c`
// parses as one ConcatExpr with three Operands, not nested BinopExprs,
// so the coder can emit a single multi-argument concatenation instead
// of a chain of pairwise temporaries (§4.2, `..` is right-associative
// in surface syntax but associative in meaning). Adjacent string
// literals are constant-folded into a single StringExpr operand by
// the parser.
type ConcatExpr struct {
	exprBase
	Operands []Expr
}

func NewConcatExpr(operands []Expr, span Span) *ConcatExpr {
	return &ConcatExpr{exprBase: exprBase{span: span}, Operands: operands}
}
func (n *ConcatExpr) String() string {
	parts := make([]string, len(n.Operands))
	for i, o := range n.Operands {
		parts[i] = o.String()
	}
	return "(" + strings.Join(parts, " .. ") + ")"
}
func (n *ConcatExpr) Accept(v AstNodeVisitor) error { return v.VisitConcatExpr(n) }

// CallExpr is `Callee(Args...)`. A method call `a:m(args)` is
// desugared by the parser into `a.m(a, args)`: Callee becomes a DotVar
// read of `m` off `a`, and `a` is reevaluated as Args[0] - matching
// how Lua itself defines `:` as sugar. ResultTypes holds the callee's
// return type list once checked, since a call is the one expression
// form that can produce more than one value.
type CallExpr struct {
	exprBase
	Callee      Expr
	Args        []Expr
	ResultTypes []Type
}

func NewCallExpr(callee Expr, args []Expr, span Span) *CallExpr {
	return &CallExpr{exprBase: exprBase{span: span}, Callee: callee, Args: args}
}
func (n *CallExpr) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Callee, strings.Join(parts, ", "))
}
func (n *CallExpr) Accept(v AstNodeVisitor) error { return v.VisitCallExpr(n) }

// CastExpr is `Operand as Target`, the only place a Value is narrowed
// back to a concrete type, checked at runtime by the coder (§4.4).
type CastExpr struct {
	exprBase
	Operand Expr
	Target  TypeNode
}

func NewCastExpr(operand Expr, target TypeNode, span Span) *CastExpr {
	return &CastExpr{exprBase: exprBase{span: span}, Operand: operand, Target: target}
}
func (n *CastExpr) String() string           { return fmt.Sprintf("(%s as %s)", n.Operand, n.Target) }
func (n *CastExpr) Accept(v AstNodeVisitor) error { return v.VisitCastExpr(n) }

// AdjustExpr wraps a potentially multi-valued producer (a CallExpr,
// or the `...` form once vararg functions exist) truncated to exactly
// one value, per the adjustment rule applied to every expression but
// the last in an expression list (§3 Open Question resolution, see
// DESIGN.md).
type AdjustExpr struct {
	exprBase
	Inner Expr
}

func NewAdjustExpr(inner Expr, span Span) *AdjustExpr {
	return &AdjustExpr{exprBase: exprBase{span: span}, Inner: inner}
}
func (n *AdjustExpr) String() string           { return fmt.Sprintf("adjust(%s)", n.Inner) }
func (n *AdjustExpr) Accept(v AstNodeVisitor) error { return v.VisitAdjustExpr(n) }

// ExtraExpr extracts the Index'th result of a multi-valued Inner
// expression (the last position of an expression list, where all of a
// call's results are kept and spliced in, e.g. the final argument of
// a call or the last entry of a return list).
type ExtraExpr struct {
	exprBase
	Inner Expr
	Index int
}

func NewExtraExpr(inner Expr, index int, span Span) *ExtraExpr {
	return &ExtraExpr{exprBase: exprBase{span: span}, Inner: inner, Index: index}
}
func (n *ExtraExpr) String() string           { return fmt.Sprintf("extra(%s, %d)", n.Inner, n.Index) }
func (n *ExtraExpr) Accept(v AstNodeVisitor) error { return v.VisitExtraExpr(n) }

// ---- Variable family ----

// NameVar is a bare identifier reference. Decl is filled in by the
// checker's symbol-table lookup: it points back at the declaration
// that introduced Name, so later passes never need to re-resolve scope.
type NameVar struct {
	varBase
	Name string
	Decl interface{} // *TopLevelVarNode, *TopLevelFuncNode, *DeclStmt, *resolvedParam, *ForStmt, *ImportNode, or *ForeignImportNode, set by the checker
}

func NewNameVar(name string, span Span) *NameVar { return &NameVar{varBase: varBase{span}, Name: name} }
func (n *NameVar) String() string                { return n.Name }
func (n *NameVar) Accept(v AstNodeVisitor) error  { return v.VisitNameVar(n) }

// DotVar is `Base.Field`: record field access, module member access,
// or (pre-desugaring) the receiver side of a method call.
type DotVar struct {
	varBase
	Base  Expr
	Field string
}

func NewDotVar(base Expr, field string, span Span) *DotVar {
	return &DotVar{varBase: varBase{span}, Base: base, Field: field}
}
func (n *DotVar) String() string           { return fmt.Sprintf("%s.%s", n.Base, n.Field) }
func (n *DotVar) Accept(v AstNodeVisitor) error { return v.VisitDotVar(n) }

// BracketVar is `Base[Index]`: array indexing.
type BracketVar struct {
	varBase
	Base  Expr
	Index Expr
}

func NewBracketVar(base, index Expr, span Span) *BracketVar {
	return &BracketVar{varBase: varBase{span}, Base: base, Index: index}
}
func (n *BracketVar) String() string           { return fmt.Sprintf("%s[%s]", n.Base, n.Index) }
func (n *BracketVar) Accept(v AstNodeVisitor) error { return v.VisitBracketVar(n) }
