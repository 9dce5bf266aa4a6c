package titan

// checkExpr type-checks e, annotates it with its resolved type via
// Expr.SetType, and returns that type. On failure it records a
// Diagnostic and annotates/returns InvalidType so callers keep
// checking the rest of the expression tree instead of aborting (§7).
func (c *Checker) checkExpr(e Expr) Type {
	t := c.checkExprInner(e)
	e.SetType(t)
	return t
}

func (c *Checker) checkExprInner(e Expr) Type {
	switch n := e.(type) {
	case *NilExpr:
		return NilType{}
	case *BoolExpr:
		return BooleanType{}
	case *IntegerExpr:
		return IntegerType{}
	case *FloatExpr:
		return FloatType{}
	case *StringExpr:
		return StringType{}

	case *VarExpr:
		return c.checkVar(n.Var)

	case *UnopExpr:
		return c.checkUnop(n)

	case *BinopExpr:
		return c.checkBinop(n)

	case *ConcatExpr:
		for _, o := range n.Operands {
			ot := c.checkExpr(o)
			if !isString(ot) && !isNumeric(ot) && !isValue(ot) {
				c.addDiag("BadConcatOperand", "concatenation operands must be string, number, or value", "Concat", o.Span())
			}
		}
		return StringType{}

	case *CallExpr:
		return c.checkCall(n)

	case *CastExpr:
		c.checkExpr(n.Operand)
		return c.resolveTypeNode(n.Target)

	case *AdjustExpr:
		c.checkExpr(n.Inner)
		return n.Inner.Type() // truncated to the single first value

	case *ExtraExpr:
		c.checkExpr(n.Inner)
		return ValueType{}

	case *InitListExpr:
		return c.checkInitList(n)
	}
	return InvalidType{}
}

func (c *Checker) checkUnop(n *UnopExpr) Type {
	t := c.checkExpr(n.Operand)
	switch n.Op {
	case UnopNot:
		return BooleanType{}
	case UnopNeg:
		if !isNumeric(t) && !isValue(t) {
			c.addDiag("BadUnaryOperand", "unary - requires a numeric operand", "Unop", n.Span())
			return InvalidType{}
		}
		if isValue(t) {
			n.Operand = c.coerceValueOperand(n.Operand, IntegerType{})
			return IntegerType{}
		}
		return t
	case UnopLen:
		if _, ok := t.(ArrayType); !ok {
			if !isString(t) && !isValue(t) {
				c.addDiag("BadUnaryOperand", "# requires an array or string operand", "Unop", n.Span())
				return InvalidType{}
			}
			if isValue(t) {
				n.Operand = c.coerceValueOperand(n.Operand, StringType{})
			}
		}
		return IntegerType{}
	case UnopBNot:
		if !isInteger(t) && !isValue(t) {
			c.addDiag("BadUnaryOperand", "~ requires an integer operand", "Unop", n.Span())
			return InvalidType{}
		}
		if isValue(t) {
			n.Operand = c.coerceValueOperand(n.Operand, IntegerType{})
		}
		return IntegerType{}
	}
	return InvalidType{}
}

func (c *Checker) checkBinop(n *BinopExpr) Type {
	lt := c.checkExpr(n.Left)
	rt := c.checkExpr(n.Right)

	switch n.Op {
	case BinopAnd, BinopOr:
		return joinTruthy(lt, rt)

	case BinopEq, BinopNe:
		return BooleanType{}

	case BinopLt, BinopLe, BinopGt, BinopGe:
		if isNumeric(lt) && isNumeric(rt) {
			return BooleanType{}
		}
		if isString(lt) && isString(rt) {
			return BooleanType{}
		}
		if isValue(lt) || isValue(rt) {
			target := valueOperandTarget(lt, rt)
			n.Left = c.coerceValueOperand(n.Left, target)
			n.Right = c.coerceValueOperand(n.Right, target)
			return BooleanType{}
		}
		c.addDiag("BadComparison", "comparison operands must both be numbers or both be strings", "Binop", n.Span())
		return InvalidType{}

	case BinopBOr, BinopBXor, BinopBAnd, BinopShl, BinopShr:
		if (isInteger(lt) || isValue(lt)) && (isInteger(rt) || isValue(rt)) {
			n.Left = c.coerceValueOperand(n.Left, IntegerType{})
			n.Right = c.coerceValueOperand(n.Right, IntegerType{})
			return IntegerType{}
		}
		c.addDiag("BadBitwiseOperand", "bitwise operators require integer operands", "Binop", n.Span())
		return InvalidType{}

	case BinopAdd, BinopSub, BinopMul, BinopDiv, BinopIDiv, BinopMod, BinopPow:
		if isValue(lt) || isValue(rt) {
			if n.Op == BinopDiv || n.Op == BinopPow {
				n.Left = c.coerceValueOperand(n.Left, FloatType{})
				n.Right = c.coerceValueOperand(n.Right, FloatType{})
				return FloatType{}
			}
			target := valueOperandTarget(lt, rt)
			n.Left = c.coerceValueOperand(n.Left, target)
			n.Right = c.coerceValueOperand(n.Right, target)
			return target
		}
		result, ok := commonNumeric(lt, rt)
		if !ok {
			c.addDiag("BadArithmeticOperand", "arithmetic operators require numeric operands", "Binop", n.Span())
			return InvalidType{}
		}
		if n.Op == BinopDiv || n.Op == BinopPow {
			return FloatType{}
		}
		return result
	}
	return InvalidType{}
}

// valueOperandTarget picks the native type a mixed Value/concrete
// operand pair should share once both sides carry an explicit Cast:
// whichever side already has a concrete numeric type wins, so `v + 1`
// and `v + 1.5` unbox v as integer/float respectively; if both sides
// are Value, integer is the default (matching the bitwise operators'
// own default above).
func valueOperandTarget(lt, rt Type) Type {
	if isNumeric(lt) {
		return lt
	}
	if isNumeric(rt) {
		return rt
	}
	if isString(lt) {
		return lt
	}
	if isString(rt) {
		return rt
	}
	return IntegerType{}
}

// coerceValueOperand wraps e in a synthetic Cast down to target when
// e's checked type is Value, so every operator case above only ever
// sees a homogeneous native operand by codegen time instead of a
// boxed registry ref combined raw with +, &, < and friends (§4.4: the
// checker is responsible for inserting this Cast, the same one an
// explicit `as T` produces).
func (c *Checker) coerceValueOperand(e Expr, target Type) Expr {
	if !isValue(e.Type()) {
		return e
	}
	cast := NewCastExpr(e, typeNodeFor(target, e.Span()), e.Span())
	cast.SetType(target)
	return cast
}

func typeNodeFor(t Type, span Span) TypeNode {
	switch t.(type) {
	case FloatType:
		return NewTypeFloatNode(span)
	case BooleanType:
		return NewTypeBooleanNode(span)
	case StringType:
		return NewTypeStringNode(span)
	default:
		return NewTypeIntegerNode(span)
	}
}

// joinTruthy computes the result type of `and`/`or`: both operators
// use truthiness rather than requiring Boolean operands, and the
// result is whichever operand type the coder actually keeps (not
// necessarily Boolean), so a mismatch here widens to Value rather
// than failing.
func joinTruthy(a, b Type) Type {
	if a.Equal(b) {
		return a
	}
	return ValueType{}
}

func (c *Checker) checkCall(n *CallExpr) Type {
	calleeT := c.checkExpr(n.Callee)
	for _, a := range n.Args {
		c.checkExpr(a)
	}
	fn, ok := calleeT.(FunctionType)
	if !ok {
		if tot, ok := calleeT.(TypeOfType); ok {
			if rec, ok := tot.Wrapped.(RecordType); ok {
				n.ResultTypes = []Type{rec}
				return rec
			}
		}
		if _, ok := calleeT.(InvalidType); !ok {
			c.addDiag("NotCallable", "value is not callable", "Call", n.Span())
		}
		return InvalidType{}
	}
	if len(n.Args) != len(fn.Params) && !fn.Vararg {
		c.addDiag("ArityMismatch", "call has the wrong number of arguments", "Call", n.Span())
	} else {
		for i, a := range n.Args {
			if i >= len(fn.Params) {
				break
			}
			if !coercible(a.Type(), fn.Params[i]) {
				c.addDiag("BadArgumentType", "argument type does not match parameter type", "Call", a.Span())
			}
		}
	}
	n.ResultTypes = fn.Rets
	if len(fn.Rets) == 0 {
		return NilType{}
	}
	return fn.Rets[0]
}

func (c *Checker) checkInitList(n *InitListExpr) Type {
	elems := make([]Type, len(n.Fields))
	named := false
	for i, f := range n.Fields {
		elems[i] = c.checkExpr(f.Value)
		if f.Name != "" {
			named = true
		}
	}
	if named {
		// record-shaped: left as InitListType; DeclStmt/TopLevelVar with
		// an explicit record annotation reconciles field names against
		// the record's shape at the assignment site.
		return InitListType{Elems: elems}
	}
	return InitListType{Elems: elems}
}

// resolveTypeNode resolves a TypeNode produced by the parser to its
// semantic Type, interning nominal references by fully-qualified
// name rather than following a pointer, so cyclic record references
// between fields resolve correctly (§9).
func (c *Checker) resolveTypeNode(tn TypeNode) Type {
	switch n := tn.(type) {
	case *TypeNilNode:
		return NilType{}
	case *TypeBooleanNode:
		return BooleanType{}
	case *TypeIntegerNode:
		return IntegerType{}
	case *TypeFloatNode:
		return FloatType{}
	case *TypeStringNode:
		return StringType{}
	case *TypeValueNode:
		return ValueType{}
	case *TypeNameNode:
		return NominalType{FQTN: c.fqtn(n.Name)}
	case *TypeQualNameNode:
		return NominalType{FQTN: n.Module + "." + n.Name}
	case *TypeArrayNode:
		return ArrayType{Elem: c.resolveTypeNode(n.Elem)}
	case *TypeFunctionNode:
		params := make([]Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = c.resolveTypeNode(p)
		}
		rets := make([]Type, len(n.Rets))
		for i, r := range n.Rets {
			rets[i] = c.resolveTypeNode(r)
		}
		return FunctionType{Params: params, Rets: rets}
	case *TypeOptionNode:
		return OptionType{Base: c.resolveTypeNode(n.Base)}
	case *TypeMapNode:
		c.addDiag("UnsupportedType", "map types are not supported", "Type", n.Span())
		return InvalidType{}
	}
	return InvalidType{}
}
