package titan

import "fmt"

func (fc *funcCoder) block(b *BlockStmt) {
	for _, s := range b.Stmts {
		fc.stmt(s)
	}
}

func (fc *funcCoder) stmt(s Stmt) {
	switch n := s.(type) {
	case *BlockStmt:
		fc.out.writeil("{")
		fc.out.indent()
		fc.block(n)
		fc.out.unindent()
		fc.out.writeil("}")

	case *WhileStmt:
		fc.out.writeilf("while (titan_truthy(L, %s)) {", fc.expr(n.Cond))
		fc.out.indent()
		fc.block(n.Body)
		fc.out.unindent()
		fc.out.writeil("}")

	case *RepeatStmt:
		fc.out.writeil("do {")
		fc.out.indent()
		fc.block(n.Body)
		cond := fc.expr(n.Cond)
		fc.out.unindent()
		fc.out.writeilf("} while (!titan_truthy(L, %s));", cond)

	case *IfStmt:
		fc.ifStmt(n, false)

	case *ForStmt:
		fc.forStmt(n)

	case *DeclStmt:
		fc.declStmt(n)

	case *AssignStmt:
		fc.assignStmt(n)

	case *CallStmt:
		fc.call(n.Call)

	case *ReturnStmt:
		fc.returnStmt(n)
	}
}

func (fc *funcCoder) ifStmt(n *IfStmt, isElseIf bool) {
	kw := "if"
	if isElseIf {
		kw = "else if"
	}
	fc.out.writeilf("%s (titan_truthy(L, %s)) {", kw, fc.expr(n.Cond))
	fc.out.indent()
	fc.block(n.Then)
	fc.out.unindent()
	switch e := n.Else.(type) {
	case nil:
		fc.out.writeil("}")
	case *IfStmt:
		fc.out.writei("} ")
		fc.ifStmt(e, true)
	case *BlockStmt:
		fc.out.writeil("} else {")
		fc.out.indent()
		fc.block(e)
		fc.out.unindent()
		fc.out.writeil("}")
	}
}

// forStmt lowers the numeric for loop to a plain C for, choosing `<=`
// versus `>=` at codegen time from the Step operand when it's a
// literal, and falling back to a runtime-computed direction flag
// otherwise (§4.6: a negative Step reverses iteration order).
func (fc *funcCoder) forStmt(n *ForStmt) {
	start := fc.expr(n.Start)
	stop := fc.expr(n.Stop)
	step := fc.expr(n.Step)
	v := fc.newTemp("for")
	fc.names[n] = v

	if stepSign, ok := literalStepSign(n.Step); ok {
		cmp := "<="
		if stepSign < 0 {
			cmp = ">="
		}
		fc.out.writeilf("for (lua_Integer %s = %s; %s %s %s; %s += %s) {", v, start, v, cmp, stop, v, step)
	} else {
		dir := fc.newTemp("dir")
		fc.out.writeilf("lua_Integer %s = %s;", dir, step)
		fc.out.writeilf("for (lua_Integer %s = %s; (%s >= 0) ? (%s <= %s) : (%s >= %s); %s += %s) {",
			v, start, dir, v, stop, v, stop, v, dir)
	}
	fc.out.indent()
	fc.block(n.Body)
	fc.out.unindent()
	fc.out.writeil("}")
}

// literalStepSign reports the sign of a for-loop Step when it is known
// at codegen time: a bare integer literal, or its unary negation (the
// form `-1` actually takes, since the lexer has no negative-literal
// token and the parser always produces UnopExpr(Neg, IntegerExpr)).
func literalStepSign(step Expr) (int64, bool) {
	switch n := step.(type) {
	case *IntegerExpr:
		return n.Value, true
	case *UnopExpr:
		if n.Op == UnopNeg {
			if lit, ok := n.Operand.(*IntegerExpr); ok {
				return -lit.Value, true
			}
		}
	}
	return 0, false
}

func (fc *funcCoder) declStmt(n *DeclStmt) {
	ct := cType(n.ResolvedType)
	name := fc.newTemp("l")
	fc.names[n] = name
	if n.Init == nil {
		fc.out.writeilf("%s %s = %s;", ct, name, zeroValue(n.ResolvedType))
		return
	}
	init := fc.expr(n.Init)
	init = fc.coerce(init, n.Init.Type(), n.ResolvedType)
	fc.out.writeilf("%s %s = %s;", ct, name, init)
}

func zeroValue(t Type) string {
	switch t.(type) {
	case IntegerType:
		return "0"
	case FloatType:
		return "0.0"
	case BooleanType:
		return "0"
	case StringType:
		return "NULL"
	default:
		return "LUA_NOREF"
	}
}

// coerce wraps expr with a runtime conversion when from and to
// disagree per the checker's coercion graph (checker_coerce.go):
// Integer<->Float widening/narrowing, T->Value boxing, and T?
// wrapping. The checker has already rejected anything not on that
// graph, so every case here is guaranteed sound at emit time.
func (fc *funcCoder) coerce(expr string, from, to Type) string {
	if from.Equal(to) {
		return expr
	}
	switch to.(type) {
	case FloatType:
		if isInteger(from) {
			return fmt.Sprintf("((lua_Number)(%s))", expr)
		}
	case IntegerType:
		if _, ok := from.(FloatType); ok {
			return fmt.Sprintf("((lua_Integer)(%s))", expr)
		}
	case ValueType:
		return boxAccessorFor(from, expr)
	case OptionType:
		if _, ok := from.(NilType); ok {
			return "LUA_NOREF"
		}
		return expr
	}
	if _, ok := to.(ValueType); !ok {
		if _, ok := from.(ValueType); ok {
			return checkAccessorFor(to, expr)
		}
	}
	return expr
}

func (fc *funcCoder) assignStmt(n *AssignStmt) {
	values := make([]string, len(n.Values))
	for i, v := range n.Values {
		target := n.Targets[i]
		values[i] = fc.coerce(fc.expr(v), v.Type(), fc.varType(target))
	}
	for i, target := range n.Targets {
		var v string
		if i < len(values) {
			v = values[i]
		} else {
			v = "NULL"
		}
		fc.assignVar(target, v)
	}
}

// varType recovers the static type of an assignment target from its
// Decl/Base type annotations, so assignStmt can apply the same
// coercion rules used for declarations and call arguments.
func (fc *funcCoder) varType(target VarNode) Type {
	switch n := target.(type) {
	case *NameVar:
		switch d := n.Decl.(type) {
		case *TopLevelVarNode:
			return d.ResolvedType
		case *DeclStmt:
			return d.ResolvedType
		}
	case *DotVar:
		return fc.c.fieldType(n.Base.Type(), n.Field)
	case *BracketVar:
		return elemTypeOf(n.Base.Type())
	}
	return ValueType{}
}

func (fc *funcCoder) assignVar(target VarNode, value string) {
	switch n := target.(type) {
	case *NameVar:
		switch d := n.Decl.(type) {
		case *TopLevelVarNode:
			fc.out.writeilf("%s_set(L, %s);", d.MangledName, value)
		default:
			fc.out.writeilf("%s = %s;", fc.nameOf(n.Decl), value)
		}
	case *DotVar:
		base := fc.expr(n.Base)
		ft := fc.c.fieldType(n.Base.Type(), n.Field)
		fc.out.writeilf("titan_record_set_%s(L, %s, %q, %s);", runtimeSuffix(ft), base, n.Field, value)
	case *BracketVar:
		base := fc.expr(n.Base)
		index := fc.expr(n.Index)
		elem := elemTypeOf(n.Base.Type())
		// Assigning nil to an array slot deletes that entry rather
		// than storing a nil placeholder (§4.5 edge case).
		fc.out.writeilf("titan_array_set_%s(L, %s, %s, %s);", runtimeSuffix(elem), base, index, value)
	}
}

func (fc *funcCoder) returnStmt(n *ReturnStmt) {
	if len(n.Values) == 0 {
		fc.out.writeil("return;")
		return
	}
	rets := fc.fn.ResolvedType.Rets
	values := make([]string, len(n.Values))
	for i, v := range n.Values {
		val := fc.expr(v)
		if i < len(rets) {
			val = fc.coerce(val, v.Type(), rets[i])
		}
		values[i] = val
	}
	for i := 1; i < len(values); i++ {
		fc.out.writeilf("*_out%d = %s;", i, values[i])
	}
	fc.out.writeilf("return %s;", values[0])
}
