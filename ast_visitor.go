package titan

// AstNodeVisitor has one Visit method per concrete node type in the
// program/statement/expression/variable/type-syntax families. Adding
// a node kind without updating every implementation (in this package,
// the AST printer) fails to compile, which is the point: Go has no
// exhaustive type switch, so the visitor interface is what stands in
// for it here. The checker, upvalues pass and coder use type switches.
type AstNodeVisitor interface {
	VisitProgram(*Program) error
	VisitImportNode(*ImportNode) error
	VisitForeignImportNode(*ForeignImportNode) error
	VisitTopLevelVarNode(*TopLevelVarNode) error
	VisitTopLevelFuncNode(*TopLevelFuncNode) error
	VisitRecordDeclNode(*RecordDeclNode) error

	VisitBlockStmt(*BlockStmt) error
	VisitWhileStmt(*WhileStmt) error
	VisitRepeatStmt(*RepeatStmt) error
	VisitIfStmt(*IfStmt) error
	VisitForStmt(*ForStmt) error
	VisitDeclStmt(*DeclStmt) error
	VisitAssignStmt(*AssignStmt) error
	VisitCallStmt(*CallStmt) error
	VisitReturnStmt(*ReturnStmt) error

	VisitNilExpr(*NilExpr) error
	VisitBoolExpr(*BoolExpr) error
	VisitIntegerExpr(*IntegerExpr) error
	VisitFloatExpr(*FloatExpr) error
	VisitStringExpr(*StringExpr) error
	VisitInitListExpr(*InitListExpr) error
	VisitVarExpr(*VarExpr) error
	VisitUnopExpr(*UnopExpr) error
	VisitBinopExpr(*BinopExpr) error
	VisitConcatExpr(*ConcatExpr) error
	VisitCallExpr(*CallExpr) error
	VisitCastExpr(*CastExpr) error
	VisitAdjustExpr(*AdjustExpr) error
	VisitExtraExpr(*ExtraExpr) error

	VisitNameVar(*NameVar) error
	VisitDotVar(*DotVar) error
	VisitBracketVar(*BracketVar) error

	VisitTypeNilNode(*TypeNilNode) error
	VisitTypeBooleanNode(*TypeBooleanNode) error
	VisitTypeIntegerNode(*TypeIntegerNode) error
	VisitTypeFloatNode(*TypeFloatNode) error
	VisitTypeStringNode(*TypeStringNode) error
	VisitTypeValueNode(*TypeValueNode) error
	VisitTypeNameNode(*TypeNameNode) error
	VisitTypeQualNameNode(*TypeQualNameNode) error
	VisitTypeArrayNode(*TypeArrayNode) error
	VisitTypeFunctionNode(*TypeFunctionNode) error
	VisitTypeMapNode(*TypeMapNode) error
	VisitTypeOptionNode(*TypeOptionNode) error
}

// WalkBlock calls f for every direct statement of b.
func WalkBlock(b *BlockStmt, f func(Stmt) error) error {
	if b == nil {
		return nil
	}
	for _, s := range b.Stmts {
		if err := f(s); err != nil {
			return err
		}
	}
	return nil
}

// WalkProgram calls f for every top-level item of p.
func WalkProgram(p *Program, f func(TopLevelNode) error) error {
	for _, item := range p.Items {
		if err := f(item); err != nil {
			return err
		}
	}
	return nil
}

// Inspect does a depth-first traversal of node and every child
// reachable through Stmt/Expr/VarNode/TypeNode fields, calling f at
// each one. f returns false to stop descending into that node's
// children. This is the non-exhaustive counterpart to
// AstNodeVisitor: convenient for callers (the printer's highlighter,
// ad-hoc diagnostics search) that only care about a handful of node
// kinds and would rather not implement all 44 Visit methods to get
// them.
func Inspect(node AstNode, f func(AstNode) bool) {
	if node == nil || !f(node) {
		return
	}
	switch n := node.(type) {
	case *Program:
		for _, item := range n.Items {
			Inspect(item, f)
		}
	case *TopLevelVarNode:
		Inspect(n.Init, f)
	case *TopLevelFuncNode:
		Inspect(n.Body, f)
	case *RecordDeclNode:
		// fields carry TypeNode, not further AstNode children worth entering
	case *BlockStmt:
		for _, s := range n.Stmts {
			Inspect(s, f)
		}
	case *WhileStmt:
		Inspect(n.Cond, f)
		Inspect(n.Body, f)
	case *RepeatStmt:
		Inspect(n.Body, f)
		Inspect(n.Cond, f)
	case *IfStmt:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		if n.Else != nil {
			Inspect(n.Else, f)
		}
	case *ForStmt:
		Inspect(n.Start, f)
		Inspect(n.Stop, f)
		Inspect(n.Step, f)
		Inspect(n.Body, f)
	case *DeclStmt:
		Inspect(n.Init, f)
	case *AssignStmt:
		for _, t := range n.Targets {
			Inspect(t, f)
		}
		for _, val := range n.Values {
			Inspect(val, f)
		}
	case *CallStmt:
		Inspect(n.Call, f)
	case *ReturnStmt:
		for _, val := range n.Values {
			Inspect(val, f)
		}
	case *VarExpr:
		Inspect(n.Var, f)
	case *UnopExpr:
		Inspect(n.Operand, f)
	case *BinopExpr:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *ConcatExpr:
		for _, o := range n.Operands {
			Inspect(o, f)
		}
	case *CallExpr:
		Inspect(n.Callee, f)
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *CastExpr:
		Inspect(n.Operand, f)
	case *AdjustExpr:
		Inspect(n.Inner, f)
	case *ExtraExpr:
		Inspect(n.Inner, f)
	case *InitListExpr:
		for _, field := range n.Fields {
			Inspect(field.Value, f)
		}
	case *DotVar:
		Inspect(n.Base, f)
	case *BracketVar:
		Inspect(n.Base, f)
		Inspect(n.Index, f)
	}
}
