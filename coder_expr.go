package titan

import "fmt"

// funcCoder holds the per-function state needed while lowering one
// TopLevelFuncNode's body: a local name table mapping each Param/
// DeclStmt/ForStmt variable to the C identifier holding it, and a
// temporary counter used whenever a fresh C name is needed (declared
// locals, for-loop counters, and values hoisted out of line: call
// results, concatenations, initializer lists).
type funcCoder struct {
	c      *coder
	fn     *TopLevelFuncNode
	out    *outputWriter
	names  map[interface{}]string
	tmp    int
}

func newFuncCoder(c *coder, fn *TopLevelFuncNode) *funcCoder {
	return &funcCoder{c: c, fn: fn, out: c.out, names: map[interface{}]string{}}
}

func (fc *funcCoder) newTemp(prefix string) string {
	fc.tmp++
	return fmt.Sprintf("_%s%d", prefix, fc.tmp)
}

func (fc *funcCoder) nameOf(decl interface{}) string {
	if n, ok := fc.names[decl]; ok {
		return n
	}
	// A declaration encountered before its binding site (forward
	// reference to a sibling top-level function, or a bug) falls
	// through to a best-effort name rather than panicking, so the
	// rest of the function body still emits.
	switch d := decl.(type) {
	case *TopLevelFuncNode:
		return d.MangledName
	case *TopLevelVarNode:
		return d.MangledName
	}
	return "_unresolved"
}

// expr lowers e to a single C expression string. Pure subtrees
// (literals, names, arithmetic, casts) compile straight to a C
// expression; CallExpr is hoisted into a preceding statement that
// stores its first result into a fresh temporary, since a call's
// side effects can't be reordered into the middle of an outer
// expression the way arithmetic can.
func (fc *funcCoder) expr(e Expr) string {
	switch n := e.(type) {
	case *NilExpr:
		return "NULL"
	case *BoolExpr:
		if n.Value {
			return "1"
		}
		return "0"
	case *IntegerExpr:
		return fmt.Sprintf("%dLL", n.Value)
	case *FloatExpr:
		return fmt.Sprintf("%g", n.Value)
	case *StringExpr:
		return fmt.Sprintf("LIT(%d)", fc.c.lits.intern(n.Value))

	case *VarExpr:
		return fc.varExpr(n.Var)

	case *UnopExpr:
		operand := fc.expr(n.Operand)
		switch n.Op {
		case UnopNot:
			return fmt.Sprintf("(!(%s))", operand)
		case UnopNeg:
			return fmt.Sprintf("(-(%s))", operand)
		case UnopBNot:
			return fmt.Sprintf("(~(lua_Integer)(%s))", operand)
		case UnopLen:
			if _, ok := n.Operand.Type().(ArrayType); ok {
				return fmt.Sprintf("titan_array_len(L, %s)", operand)
			}
			return fmt.Sprintf("(lua_Integer)strlen(%s)", operand)
		}
		return operand

	case *BinopExpr:
		return fc.binop(n)

	case *ConcatExpr:
		return fc.concat(n)

	case *CallExpr:
		results := fc.call(n)
		if len(results) == 0 {
			return "0"
		}
		return results[0]

	case *CastExpr:
		return fc.cast(n)

	case *AdjustExpr:
		return fc.expr(n.Inner)

	case *ExtraExpr:
		// Only a CallExpr ever carries more than one live result in
		// this implementation; fc.call already materializes every
		// result into its own temporary, so Index simply selects one.
		if call, ok := n.Inner.(*CallExpr); ok {
			results := fc.call(call)
			if n.Index < len(results) {
				return results[n.Index]
			}
		}
		return "0"

	case *InitListExpr:
		return fc.initList(n)
	}
	return "0 /* unsupported expression */"
}

func (fc *funcCoder) varExpr(v VarNode) string {
	switch n := v.(type) {
	case *NameVar:
		return fc.nameVar(n)
	case *DotVar:
		return fc.dotVar(n)
	case *BracketVar:
		base := fc.expr(n.Base)
		index := fc.expr(n.Index)
		elem := elemTypeOf(n.Base.Type())
		return fmt.Sprintf("titan_array_get_%s(L, %s, %s)", runtimeSuffix(elem), base, index)
	}
	return "0"
}

func (fc *funcCoder) nameVar(n *NameVar) string {
	switch d := n.Decl.(type) {
	case *TopLevelVarNode:
		return d.MangledName + "_get(L)"
	case *TopLevelFuncNode:
		// A bare reference to a function name (not a call) denotes the
		// closure value itself; represented here as its upvalue index,
		// pushed onto the stack by the caller when it's actually used
		// as a value rather than invoked directly.
		return fmt.Sprintf("%d /* upvalue %s */", d.UpvalueIndex, d.MangledName)
	default:
		if name, ok := fc.names[n.Decl]; ok {
			return name
		}
		return sanitizeCIdent(n.Name)
	}
}

func (fc *funcCoder) dotVar(n *DotVar) string {
	baseType := n.Base.Type()
	base := fc.expr(n.Base)
	ft := fc.c.fieldType(baseType, n.Field)
	return fmt.Sprintf("titan_record_get_%s(L, %s, %q)", runtimeSuffix(ft), base, n.Field)
}

func binopCOp(op BinaryOp) (string, bool) {
	switch op {
	case BinopBOr:
		return "|", true
	case BinopBXor:
		return "^", true
	case BinopBAnd:
		return "&", true
	case BinopShl:
		return "<<", true
	case BinopShr:
		return ">>", true
	case BinopAdd:
		return "+", true
	case BinopSub:
		return "-", true
	case BinopMul:
		return "*", true
	case BinopMod:
		return "%", true
	case BinopLt:
		return "<", true
	case BinopLe:
		return "<=", true
	case BinopGt:
		return ">", true
	case BinopGe:
		return ">=", true
	case BinopEq:
		return "==", true
	case BinopNe:
		return "!=", true
	}
	return "", false
}

func (fc *funcCoder) binop(n *BinopExpr) string {
	switch n.Op {
	case BinopAnd:
		return fmt.Sprintf("((%s) ? (%s) : (%s))", fc.expr(n.Left), fc.expr(n.Right), fc.expr(n.Left))
	case BinopOr:
		return fmt.Sprintf("((%s) ? (%s) : (%s))", fc.expr(n.Left), fc.expr(n.Left), fc.expr(n.Right))
	case BinopDiv:
		return fmt.Sprintf("((lua_Number)(%s) / (lua_Number)(%s))", fc.expr(n.Left), fc.expr(n.Right))
	case BinopIDiv:
		return fmt.Sprintf("titan_ifloordiv(%s, %s)", fc.expr(n.Left), fc.expr(n.Right))
	case BinopPow:
		return fmt.Sprintf("pow((lua_Number)(%s), (lua_Number)(%s))", fc.expr(n.Left), fc.expr(n.Right))
	}
	if cop, ok := binopCOp(n.Op); ok {
		return fmt.Sprintf("((%s) %s (%s))", fc.expr(n.Left), cop, fc.expr(n.Right))
	}
	return "0"
}

// concat lowers a flattened `..` chain to one titan_concat call taking
// the operand count and a parallel array of already-lowered operand
// expressions, so the runtime helper does one allocation instead of a
// chain of pairwise concatenations.
func (fc *funcCoder) concat(n *ConcatExpr) string {
	tmp := fc.newTemp("cat")
	fc.out.writeilf("const char *%s[%d];", tmp, len(n.Operands))
	for i, o := range n.Operands {
		var piece string
		if isString(o.Type()) {
			piece = fc.expr(o)
		} else {
			piece = fmt.Sprintf("titan_tostring(L, %s)", fc.expr(o))
		}
		fc.out.writeilf("%s[%d] = %s;", tmp, i, piece)
	}
	result := fc.newTemp("cats")
	fc.out.writeilf("const char *%s = titan_concat(L, %s, %d);", result, tmp, len(n.Operands))
	return result
}

func (fc *funcCoder) cast(n *CastExpr) string {
	target := fc.c.resolveCastType(n.Target)
	operand := fc.expr(n.Operand)
	return checkAccessorFor(target, operand)
}

// checkAccessorFor emits the titan_check_* call that narrows an
// arbitrary registry-ref value down to target, shared by an explicit
// `as T` cast and by coerce's implicit Value -> T narrowing.
func checkAccessorFor(target Type, operand string) string {
	switch target.(type) {
	case IntegerType:
		return fmt.Sprintf("titan_check_integer(L, %s)", operand)
	case FloatType:
		return fmt.Sprintf("titan_check_float(L, %s)", operand)
	case BooleanType:
		return fmt.Sprintf("titan_check_boolean(L, %s)", operand)
	case StringType:
		return fmt.Sprintf("titan_check_string(L, %s)", operand)
	default:
		return fmt.Sprintf("titan_check_ref(L, %s)", operand)
	}
}

// boxAccessorFor emits the call that widens a concrete scalar up to
// Value. A source that's already registry-ref based (Array, Record,
// Option, Value, Module, Nominal) needs no wrapping: Value's own
// representation is that same ref.
func boxAccessorFor(from Type, operand string) string {
	switch from.(type) {
	case IntegerType:
		return fmt.Sprintf("titan_box_integer(L, %s)", operand)
	case FloatType:
		return fmt.Sprintf("titan_box_float(L, %s)", operand)
	case BooleanType:
		return fmt.Sprintf("titan_box_boolean(L, %s)", operand)
	case StringType:
		return fmt.Sprintf("titan_box_string(L, %s)", operand)
	default:
		return operand
	}
}

// call lowers a CallExpr to a preceding sequence of statements
// (argument temporaries, the actual native-ABI call, one temporary
// per declared return value) and returns the list of C expressions
// holding each result, in order.
func (fc *funcCoder) call(n *CallExpr) []string {
	fn, isDirect := calleeFunc(n.Callee)
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		v := fc.expr(a)
		if isDirect && i < len(fn.ResolvedType.Params) {
			v = fc.coerce(v, a.Type(), fn.ResolvedType.Params[i])
		}
		args[i] = v
	}
	if !isDirect {
		// An indirect call (through a value-typed callee, e.g. a
		// function stored in a field) goes through the generic
		// lua_call host path rather than a direct C call.
		callee := fc.expr(n.Callee)
		result := fc.newTemp("call")
		fc.out.writeilf("int %s = titan_call_value(L, %s, %d);", result, callee, len(args))
		return []string{result}
	}
	rets := fn.ResolvedType.Rets
	callArgs := args
	resultVars := make([]string, len(rets))
	for i := range rets {
		resultVars[i] = fc.newTemp("ret")
	}
	call := fmt.Sprintf("%s(L%s)", fn.MangledName, argPrefix(callArgs))
	switch len(rets) {
	case 0:
		fc.out.writeilf("%s;", call)
	case 1:
		fc.out.writeilf("%s %s = %s;", cType(rets[0]), resultVars[0], call)
	default:
		// Multiple return values travel back through an out-parameter
		// pack: the native entry takes pointers for every result past
		// the first.
		decls := make([]string, len(rets))
		for i, r := range rets {
			decls[i] = fmt.Sprintf("%s %s;", cType(r), resultVars[i])
		}
		for _, d := range decls {
			fc.out.writeil(d)
		}
		outArgs := ""
		for i := 1; i < len(rets); i++ {
			outArgs += fmt.Sprintf(", &%s", resultVars[i])
		}
		fc.out.writeilf("%s %s = %s(L%s%s);", cType(rets[0]), resultVars[0], fn.MangledName, argPrefix(callArgs), outArgs)
	}
	return resultVars
}

func argPrefix(args []string) string {
	s := ""
	for _, a := range args {
		s += ", " + a
	}
	return s
}

func calleeFunc(e Expr) (*TopLevelFuncNode, bool) {
	ve, ok := e.(*VarExpr)
	if !ok {
		return nil, false
	}
	nv, ok := ve.Var.(*NameVar)
	if !ok {
		return nil, false
	}
	fn, ok := nv.Decl.(*TopLevelFuncNode)
	return fn, ok
}

func (fc *funcCoder) initList(n *InitListExpr) string {
	tmp := fc.newTemp("init")
	fc.out.writeilf("int %s = titan_new_table(L);", tmp)
	for i, f := range n.Fields {
		v := fc.expr(f.Value)
		suffix := runtimeSuffix(f.Value.Type())
		if f.Name != "" {
			fc.out.writeilf("titan_record_set_%s(L, %s, %q, %s);", suffix, tmp, f.Name, v)
		} else {
			fc.out.writeilf("titan_array_set_%s(L, %s, %d, %s);", suffix, tmp, i, v)
		}
	}
	return tmp
}
