package titan

import (
	"fmt"
	"strings"
)

// FormatFunc renders one piece of printer output tagged with its
// AstFormatToken category; PlainFormat emits it unchanged,
// AnsiFormat wraps it in the matching terminal color.
type FormatFunc func(input string, token AstFormatToken) string

// treePrinter accumulates pretty-printed output with a stack of
// indentation prefixes, one pushed per nesting level, so the
// box-drawing connectors (`├──`/`└──`) line up regardless of depth.
type treePrinter struct {
	padStr []string
	output strings.Builder
	format FormatFunc
}

func newTreePrinter(format FormatFunc) *treePrinter {
	return &treePrinter{format: format}
}

func (tp *treePrinter) indent(s string)   { tp.padStr = append(tp.padStr, s) }
func (tp *treePrinter) unindent()         { tp.padStr = tp.padStr[:len(tp.padStr)-1] }
func (tp *treePrinter) padding()          { for _, s := range tp.padStr { tp.write(s) } }
func (tp *treePrinter) write(s string)    { tp.output.WriteString(s) }
func (tp *treePrinter) writel(s string)   { tp.write(s); tp.output.WriteRune('\n') }
func (tp *treePrinter) pwrite(s string)   { tp.padding(); tp.write(s) }
func (tp *treePrinter) pwritel(s string)  { tp.pwrite(s); tp.output.WriteRune('\n') }

var literalSanitizer = strings.NewReplacer(
	`"`, `\"`,
	`\`, `\\`,
	string('\n'), `\n`,
	string('\r'), `\r`,
	string('\t'), `\t`,
)

func escapeLiteral(s string) string { return literalSanitizer.Replace(s) }

// AstFormatToken is the category tag a FormatFunc uses to decide how
// a piece of printer output should be rendered.
type AstFormatToken int

const (
	AstFormatNone AstFormatToken = iota
	AstFormatSpan
	AstFormatLiteral
	AstFormatOperator
	AstFormatOperand
)

var astPrinterTheme = map[AstFormatToken]string{
	AstFormatNone:     "\033[0m",
	AstFormatSpan:     "\033[1;31;5;228m",
	AstFormatLiteral:  "\033[1;38;5;245m",
	AstFormatOperator: "\033[1;38;5;99m",
	AstFormatOperand:  "\033[1;38;5;127m",
}

func plainFormat(input string, _ AstFormatToken) string { return input }

func ansiFormat(input string, token AstFormatToken) string {
	return astPrinterTheme[token] + input + astPrinterTheme[AstFormatNone]
}

// PrettyPrint renders node as an indented tree with no color codes,
// suitable for test assertions and piping to a file.
func PrettyPrint(node AstNode) string {
	p := &astPrinter{treePrinter: newTreePrinter(plainFormat)}
	node.Accept(p)
	return p.output.String()
}

// HighlightPrint renders node the same way but with ANSI color codes,
// for interactive terminal use.
func HighlightPrint(node AstNode) string {
	p := &astPrinter{treePrinter: newTreePrinter(ansiFormat)}
	node.Accept(p)
	return p.output.String()
}

// astPrinter is the single AstNodeVisitor implementation backing both
// PrettyPrint and HighlightPrint; only the embedded treePrinter's
// format function differs between the two entry points.
type astPrinter struct {
	*treePrinter
}

func (p *astPrinter) writeOperator(op string) { p.write(p.format(op, AstFormatOperator)) }
func (p *astPrinter) writeOperand(s string)   { p.write(p.format(s, AstFormatOperand)) }
func (p *astPrinter) writeLiteral(s string) {
	p.write(p.format(fmt.Sprintf("%q", escapeLiteral(s)), AstFormatLiteral))
}

func (p *astPrinter) writeNamed(op, name string) {
	p.writeOperator(op)
	p.write(p.format("[", AstFormatOperator))
	p.writeOperand(name)
	p.write(p.format("]", AstFormatOperator))
}

func (p *astPrinter) writeSpan(n AstNode) {
	p.write(p.format(fmt.Sprintf(" (%s)", n.Span()), AstFormatSpan))
}

func (p *astPrinter) writeSpanl(n AstNode) {
	p.writeSpan(n)
	p.write("\n")
}

// children renders each of nodes as a labeled subtree, connecting the
// last one with `└──` and every other with `├──`, matching the
// teacher's box-drawing layout.
func (p *astPrinter) children(nodes ...AstNode) {
	for i, n := range nodes {
		if n == nil {
			continue
		}
		if i == len(nodes)-1 {
			p.pwrite("└── ")
			p.indent("    ")
			n.Accept(p)
			p.unindent()
		} else {
			p.pwrite("├── ")
			p.indent("│   ")
			n.Accept(p)
			p.unindent()
			p.write("\n")
		}
	}
}

// ---- Program / top level ----

func (p *astPrinter) VisitProgram(n *Program) error {
	p.writeOperator("Program")
	p.writeSpanl(n)
	items := make([]AstNode, len(n.Items))
	for i, item := range n.Items {
		items[i] = item
	}
	p.children(items...)
	return nil
}

func (p *astPrinter) VisitImportNode(n *ImportNode) error {
	p.writeNamed("Import", n.Name)
	p.write(" ")
	p.writeLiteral(n.Path)
	p.writeSpan(n)
	return nil
}

func (p *astPrinter) VisitForeignImportNode(n *ForeignImportNode) error {
	p.writeNamed("ForeignImport", n.Name)
	p.write(" ")
	p.writeLiteral(n.Header)
	p.writeSpan(n)
	return nil
}

func (p *astPrinter) VisitTopLevelVarNode(n *TopLevelVarNode) error {
	p.writeNamed("TopLevelVar", n.Name)
	p.writeSpanl(n)
	p.children(n.Init)
	return nil
}

func (p *astPrinter) VisitTopLevelFuncNode(n *TopLevelFuncNode) error {
	p.writeNamed("TopLevelFunc", n.Name)
	p.writeSpanl(n)
	p.children(n.Body)
	return nil
}

func (p *astPrinter) VisitRecordDeclNode(n *RecordDeclNode) error {
	p.writeNamed("Record", n.Name)
	p.writeSpan(n)
	return nil
}

// ---- Statements ----

func (p *astPrinter) VisitBlockStmt(n *BlockStmt) error {
	p.writeOperator("Block")
	p.writeSpanl(n)
	stmts := make([]AstNode, len(n.Stmts))
	for i, s := range n.Stmts {
		stmts[i] = s
	}
	p.children(stmts...)
	return nil
}

func (p *astPrinter) VisitWhileStmt(n *WhileStmt) error {
	p.writeOperator("While")
	p.writeSpanl(n)
	p.children(n.Cond, n.Body)
	return nil
}

func (p *astPrinter) VisitRepeatStmt(n *RepeatStmt) error {
	p.writeOperator("Repeat")
	p.writeSpanl(n)
	p.children(n.Body, n.Cond)
	return nil
}

func (p *astPrinter) VisitIfStmt(n *IfStmt) error {
	p.writeOperator("If")
	p.writeSpanl(n)
	p.children(n.Cond, n.Then, n.Else)
	return nil
}

func (p *astPrinter) VisitForStmt(n *ForStmt) error {
	p.writeNamed("For", n.Var)
	p.writeSpanl(n)
	p.children(n.Start, n.Stop, n.Step, n.Body)
	return nil
}

func (p *astPrinter) VisitDeclStmt(n *DeclStmt) error {
	p.writeNamed("Decl", n.Name)
	p.writeSpanl(n)
	p.children(n.Init)
	return nil
}

func (p *astPrinter) VisitAssignStmt(n *AssignStmt) error {
	p.writeOperator("Assign")
	p.writeSpanl(n)
	nodes := make([]AstNode, 0, len(n.Targets)+len(n.Values))
	for _, t := range n.Targets {
		nodes = append(nodes, t)
	}
	for _, val := range n.Values {
		nodes = append(nodes, val)
	}
	p.children(nodes...)
	return nil
}

func (p *astPrinter) VisitCallStmt(n *CallStmt) error {
	p.writeOperator("CallStmt")
	p.writeSpanl(n)
	p.children(n.Call)
	return nil
}

func (p *astPrinter) VisitReturnStmt(n *ReturnStmt) error {
	p.writeOperator("Return")
	p.writeSpanl(n)
	values := make([]AstNode, len(n.Values))
	for i, val := range n.Values {
		values[i] = val
	}
	p.children(values...)
	return nil
}

// ---- Expressions ----

func (p *astPrinter) VisitNilExpr(n *NilExpr) error {
	p.writeOperator("Nil")
	p.writeSpan(n)
	return nil
}

func (p *astPrinter) VisitBoolExpr(n *BoolExpr) error {
	p.writeNamed("Bool", fmt.Sprintf("%t", n.Value))
	p.writeSpan(n)
	return nil
}

func (p *astPrinter) VisitIntegerExpr(n *IntegerExpr) error {
	p.writeNamed("Integer", fmt.Sprintf("%d", n.Value))
	p.writeSpan(n)
	return nil
}

func (p *astPrinter) VisitFloatExpr(n *FloatExpr) error {
	p.writeNamed("Float", fmt.Sprintf("%g", n.Value))
	p.writeSpan(n)
	return nil
}

func (p *astPrinter) VisitStringExpr(n *StringExpr) error {
	p.writeOperator("String")
	p.write("[")
	p.writeLiteral(n.Value)
	p.write(p.format("]", AstFormatOperator))
	p.writeSpan(n)
	return nil
}

func (p *astPrinter) VisitInitListExpr(n *InitListExpr) error {
	p.writeOperator("InitList")
	p.writeSpanl(n)
	values := make([]AstNode, len(n.Fields))
	for i, f := range n.Fields {
		values[i] = f.Value
	}
	p.children(values...)
	return nil
}

func (p *astPrinter) VisitVarExpr(n *VarExpr) error {
	return n.Var.Accept(p)
}

func (p *astPrinter) VisitUnopExpr(n *UnopExpr) error {
	p.writeNamed("Unop", n.Op.String())
	p.writeSpanl(n)
	p.children(n.Operand)
	return nil
}

func (p *astPrinter) VisitBinopExpr(n *BinopExpr) error {
	p.writeNamed("Binop", n.Op.String())
	p.writeSpanl(n)
	p.children(n.Left, n.Right)
	return nil
}

func (p *astPrinter) VisitConcatExpr(n *ConcatExpr) error {
	p.writeOperator("Concat")
	p.writeSpanl(n)
	operands := make([]AstNode, len(n.Operands))
	for i, o := range n.Operands {
		operands[i] = o
	}
	p.children(operands...)
	return nil
}

func (p *astPrinter) VisitCallExpr(n *CallExpr) error {
	p.writeOperator("Call")
	p.writeSpanl(n)
	nodes := append([]AstNode{n.Callee}, exprsToNodes(n.Args)...)
	p.children(nodes...)
	return nil
}

func (p *astPrinter) VisitCastExpr(n *CastExpr) error {
	p.writeOperator("Cast")
	p.writeSpanl(n)
	p.children(n.Operand, n.Target)
	return nil
}

func (p *astPrinter) VisitAdjustExpr(n *AdjustExpr) error {
	p.writeOperator("Adjust")
	p.writeSpanl(n)
	p.children(n.Inner)
	return nil
}

func (p *astPrinter) VisitExtraExpr(n *ExtraExpr) error {
	p.writeNamed("Extra", fmt.Sprintf("%d", n.Index))
	p.writeSpanl(n)
	p.children(n.Inner)
	return nil
}

func exprsToNodes(exprs []Expr) []AstNode {
	nodes := make([]AstNode, len(exprs))
	for i, e := range exprs {
		nodes[i] = e
	}
	return nodes
}

// ---- Variables ----

func (p *astPrinter) VisitNameVar(n *NameVar) error {
	p.writeNamed("Name", n.Name)
	p.writeSpan(n)
	return nil
}

func (p *astPrinter) VisitDotVar(n *DotVar) error {
	p.writeNamed("Dot", n.Field)
	p.writeSpanl(n)
	p.children(n.Base)
	return nil
}

func (p *astPrinter) VisitBracketVar(n *BracketVar) error {
	p.writeOperator("Bracket")
	p.writeSpanl(n)
	p.children(n.Base, n.Index)
	return nil
}

// ---- Type syntax ----

func (p *astPrinter) VisitTypeNilNode(n *TypeNilNode) error         { p.writeOperator("nil"); p.writeSpan(n); return nil }
func (p *astPrinter) VisitTypeBooleanNode(n *TypeBooleanNode) error { p.writeOperator("boolean"); p.writeSpan(n); return nil }
func (p *astPrinter) VisitTypeIntegerNode(n *TypeIntegerNode) error { p.writeOperator("integer"); p.writeSpan(n); return nil }
func (p *astPrinter) VisitTypeFloatNode(n *TypeFloatNode) error     { p.writeOperator("float"); p.writeSpan(n); return nil }
func (p *astPrinter) VisitTypeStringNode(n *TypeStringNode) error   { p.writeOperator("string"); p.writeSpan(n); return nil }
func (p *astPrinter) VisitTypeValueNode(n *TypeValueNode) error     { p.writeOperator("value"); p.writeSpan(n); return nil }

func (p *astPrinter) VisitTypeNameNode(n *TypeNameNode) error {
	p.writeNamed("TypeName", n.Name)
	p.writeSpan(n)
	return nil
}

func (p *astPrinter) VisitTypeQualNameNode(n *TypeQualNameNode) error {
	p.writeNamed("TypeQualName", n.Module+"."+n.Name)
	p.writeSpan(n)
	return nil
}

func (p *astPrinter) VisitTypeArrayNode(n *TypeArrayNode) error {
	p.writeOperator("TypeArray")
	p.writeSpanl(n)
	p.children(n.Elem)
	return nil
}

func (p *astPrinter) VisitTypeFunctionNode(n *TypeFunctionNode) error {
	p.writeOperator("TypeFunction")
	p.writeSpanl(n)
	nodes := make([]AstNode, 0, len(n.Params)+len(n.Rets))
	for _, param := range n.Params {
		nodes = append(nodes, param)
	}
	for _, ret := range n.Rets {
		nodes = append(nodes, ret)
	}
	p.children(nodes...)
	return nil
}

func (p *astPrinter) VisitTypeMapNode(n *TypeMapNode) error {
	p.writeOperator("TypeMap")
	p.writeSpanl(n)
	p.children(n.Key, n.Value)
	return nil
}

func (p *astPrinter) VisitTypeOptionNode(n *TypeOptionNode) error {
	p.writeOperator("TypeOption")
	p.writeSpanl(n)
	p.children(n.Base)
	return nil
}
