package titan

import (
	"path/filepath"
	"strings"
)

// Checker performs the two-pass semantic analysis described in §4.4:
// the first pass registers every top-level name (and interns every
// record's shape) so forward references and mutual recursion between
// top-level functions resolve; the second pass checks every function
// body and every top-level initializer against those signatures.
// Diagnostics are collected rather than raised as Go errors, so a
// single bad function doesn't prevent the rest of the module from
// being checked - every node that fails to check is annotated
// InvalidType instead (§7).
type Checker struct {
	sess       *Session
	loader     Loader
	modulePath string
	moduleName string
	scope      *symtab
	diags      []Diagnostic
	currentRets []Type
}

func moduleNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// CheckModule runs both passes over prog and returns the module's
// public type (for use at its import sites), the diagnostics
// collected while checking it, and a non-nil error only for failures
// that make continuing meaningless (e.g. a syntax error in an imported
// module; unresolvable imports are reported as diagnostics instead).
func CheckModule(sess *Session, loader Loader, path string, prog *Program) (Type, []Diagnostic, error) {
	c := &Checker{
		sess:       sess,
		loader:     loader,
		modulePath: path,
		moduleName: moduleNameFromPath(path),
		scope:      newSymtab(moduleNameFromPath(path)),
	}
	c.scope.open()
	defer c.scope.close()

	if err := c.firstPass(prog); err != nil {
		return nil, c.diags, err
	}
	c.secondPass(prog)

	members := map[string]Type{}
	for _, item := range prog.Items {
		switch n := item.(type) {
		case *TopLevelVarNode:
			members[n.Name] = n.ResolvedType
		case *TopLevelFuncNode:
			members[n.Name] = n.ResolvedType
		case *RecordDeclNode:
			if rec, ok := sess.Types.Lookup(c.fqtn(n.Name)); ok {
				members[n.Name] = TypeOfType{Wrapped: rec}
			}
		}
	}
	return ModuleType{Name: c.moduleName, Members: members}, c.diags, nil
}

func (c *Checker) fqtn(name string) string { return c.moduleName + "." + name }

func (c *Checker) addDiag(label, message, production string, span Span) {
	c.diags = append(c.diags, Diagnostic{Phase: PhaseCheck, Label: label, Message: message, Production: production, Span: span})
}

// firstPass interns record shapes and registers every top-level
// name's signature, without descending into function bodies or
// validating initializer expressions. Records are declared twice:
// once with an empty field list so self- and mutually-recursive
// field types resolve by name (§9), and again once every field's
// TypeNode has been resolved.
func (c *Checker) firstPass(prog *Program) error {
	for _, item := range prog.Items {
		if rec, ok := item.(*RecordDeclNode); ok {
			c.sess.Types.Declare(RecordType{FQTN: c.fqtn(rec.Name)})
		}
	}
	for _, item := range prog.Items {
		switch n := item.(type) {
		case *ImportNode:
			modType, diags, err := LoadModule(c.sess, c.loader, n.Path, c.modulePath, n.Span())
			if err != nil {
				if le, ok := err.(LoaderError); ok {
					c.diags = append(c.diags, le.Diagnostic)
					n.ResolvedType = InvalidType{}
					c.scope.add(n.Name, n)
					continue
				}
				return err
			}
			c.diags = append(c.diags, diags...)
			n.ResolvedType = modType
			c.scope.add(n.Name, n)

		case *ForeignImportNode:
			c.scope.addForeign(n.Name, n)

		case *RecordDeclNode:
			fields := make([]RecordField, len(n.Fields))
			for i, f := range n.Fields {
				fields[i] = RecordField{Name: f.Name, Type: c.resolveTypeNode(f.Type)}
			}
			c.sess.Types.Declare(RecordType{FQTN: c.fqtn(n.Name), Fields: fields})

		case *TopLevelVarNode:
			c.scope.add(n.Name, n)

		case *TopLevelFuncNode:
			params := make([]Type, len(n.Params))
			for i, p := range n.Params {
				params[i] = c.resolveTypeNode(p.Type)
			}
			rets := make([]Type, len(n.Rets))
			for i, r := range n.Rets {
				rets[i] = c.resolveTypeNode(r)
			}
			n.ResolvedType = FunctionType{Params: params, Rets: rets}
			c.scope.add(n.Name, n)
		}
	}
	return nil
}

func (c *Checker) secondPass(prog *Program) {
	// The parser places each record's synthesized `Name.new`
	// constructor right after its RecordDeclNode; it has no body to check.
	ctors := map[*TopLevelFuncNode]bool{}
	for i, item := range prog.Items {
		if rec, ok := item.(*RecordDeclNode); ok && i+1 < len(prog.Items) {
			if fn, ok := prog.Items[i+1].(*TopLevelFuncNode); ok && fn.Name == rec.Name+".new" {
				ctors[fn] = true
			}
		}
	}
	for _, item := range prog.Items {
		switch n := item.(type) {
		case *TopLevelVarNode:
			t := c.checkExpr(n.Init)
			if n.Annotation != nil {
				ann := c.resolveTypeNode(n.Annotation)
				if !coercible(t, ann) {
					c.addDiag("BadInitializer", "initializer type does not match declared type", "TopLevelVar", n.Init.Span())
				}
				n.ResolvedType = ann
			} else {
				n.ResolvedType = t
			}

		case *TopLevelFuncNode:
			if !ctors[n] {
				c.checkFuncBody(n)
			}
		}
	}
}

func (c *Checker) checkFuncBody(n *TopLevelFuncNode) {
	c.scope.open()
	defer c.scope.close()
	for _, param := range n.Params {
		c.scope.add(param.Name, &resolvedParam{Name: param.Name, Type: c.resolveTypeNode(param.Type)})
	}
	prevRets := c.currentRets
	c.currentRets = n.ResolvedType.Rets
	n.AlwaysReturns = c.checkBlock(n.Body)
	c.currentRets = prevRets

	if len(n.ResolvedType.Rets) > 0 && !n.AlwaysReturns {
		c.addDiag("MissingReturn", "function must return a value on every path", "FuncDecl", n.Span())
	}
}

// checkBlock checks every statement of b and reports whether the
// block always returns (every control path ends in a ReturnStmt),
// the inductive property the checker needs to validate return
// coverage (§4.4, §8).
func (c *Checker) checkBlock(b *BlockStmt) bool {
	c.scope.open()
	defer c.scope.close()
	always := false
	for _, s := range b.Stmts {
		if c.checkStmt(s) {
			always = true
		}
	}
	return always
}

func (c *Checker) checkStmt(s Stmt) bool {
	switch n := s.(type) {
	case *BlockStmt:
		return c.checkBlock(n)

	case *WhileStmt:
		c.checkCondition(n.Cond)
		c.checkBlock(n.Body)
		return false

	case *RepeatStmt:
		c.scope.open()
		for _, inner := range n.Body.Stmts {
			c.checkStmt(inner)
		}
		c.checkCondition(n.Cond) // checked inside Body's scope, per Lua's repeat semantics
		c.scope.close()
		return false

	case *IfStmt:
		c.checkCondition(n.Cond)
		thenReturns := c.checkBlock(n.Then)
		if n.Else == nil {
			return false
		}
		elseReturns := c.checkStmt(n.Else)
		return thenReturns && elseReturns

	case *ForStmt:
		startT := c.checkExpr(n.Start)
		stopT := c.checkExpr(n.Stop)
		stepT := c.checkExpr(n.Step)
		for _, t := range []Type{startT, stopT, stepT} {
			if !isNumeric(t) {
				c.addDiag("BadForRange", "for-loop bounds must be numeric", "For", n.Span())
			}
		}
		c.scope.open()
		c.scope.add(n.Var, n)
		c.checkBlock(n.Body)
		c.scope.close()
		return false

	case *DeclStmt:
		t := c.checkExpr(n.Init)
		if n.Annotation != nil {
			ann := c.resolveTypeNode(n.Annotation)
			if !coercible(t, ann) {
				c.addDiag("BadInitializer", "initializer type does not match declared type", "Decl", n.Init.Span())
			}
			n.ResolvedType = ann
		} else {
			if _, isInitList := n.Init.(*InitListExpr); isInitList {
				c.addDiag("UntypedArrayDecl", "cannot infer a type for an untyped {} initializer; add a type annotation", "Decl", n.Span())
				n.ResolvedType = InvalidType{}
			} else {
				n.ResolvedType = t
			}
		}
		c.scope.add(n.Name, n)
		return false

	case *AssignStmt:
		c.checkAssign(n)
		return false

	case *CallStmt:
		c.checkExpr(n.Call)
		return false

	case *ReturnStmt:
		for i, val := range n.Values {
			t := c.checkExpr(val)
			if i < len(c.currentRets) && !coercible(t, c.currentRets[i]) {
				c.addDiag("BadReturnType", "returned value does not match declared return type", "Return", val.Span())
			}
		}
		if len(n.Values) != len(c.currentRets) {
			c.addDiag("ArityMismatch", "return value count does not match declared return types", "Return", n.Span())
		}
		return true
	}
	return false
}

// checkCondition checks cond in a context where every type is
// accepted, since conditions use truthiness (any value but nil/false
// is true) rather than requiring a Boolean (§4.4).
func (c *Checker) checkCondition(cond Expr) { c.checkExpr(cond) }

func (c *Checker) checkAssign(n *AssignStmt) {
	targetTypes := make([]Type, len(n.Targets))
	for i, t := range n.Targets {
		targetTypes[i] = c.checkVar(t)
		if name, ok := t.(*NameVar); ok {
			if decl, found := c.scope.find(name.Name); found {
				if _, isTopVar := decl.(*TopLevelVarNode); isTopVar {
					// allowed: assigning through the declared variable name itself, not redeclaring it
				} else if fn, isFunc := decl.(*TopLevelFuncNode); isFunc && fn.Name == name.Name {
					c.addDiag("AssignToFunction", "cannot assign to a function name", "Assign", name.Span())
					targetTypes[i] = nil // already diagnosed; no type check against it
				}
			}
		}
	}
	for i, val := range n.Values {
		t := c.checkExpr(val)
		if i < len(targetTypes) && targetTypes[i] != nil && !coercible(t, targetTypes[i]) {
			c.addDiag("BadAssignType", "assigned value does not match the target's type", "Assign", val.Span())
		}
	}
	if len(n.Values) != len(n.Targets) {
		c.addDiag("ArityMismatch", "assignment target count does not match value count", "Assign", n.Span())
	}
}

func (c *Checker) checkVar(v VarNode) Type {
	switch n := v.(type) {
	case *NameVar:
		decl, ok := c.scope.find(n.Name)
		if !ok {
			c.addDiag("UndefinedName", "undefined name: "+n.Name, "Variable", n.Span())
			return InvalidType{}
		}
		n.Decl = decl
		return declType(decl)

	case *DotVar:
		baseT := c.checkExpr(n.Base)
		switch bt := baseT.(type) {
		case RecordType:
			if ft, ok := bt.FieldType(n.Field); ok {
				return ft
			}
			c.addDiag("UnknownField", "record "+bt.FQTN+" has no field "+n.Field, "Dot", n.Span())
		case NominalType:
			if rec, ok := c.sess.Types.Resolve(bt); ok {
				if ft, ok := rec.FieldType(n.Field); ok {
					return ft
				}
			}
			c.addDiag("UnknownField", "unknown field "+n.Field, "Dot", n.Span())
		case ModuleType:
			if mt, ok := bt.Members[n.Field]; ok {
				return mt
			}
			c.addDiag("UnknownModuleMember", "module "+bt.Name+" has no member "+n.Field, "Dot", n.Span())
		case ForeignModuleType:
			if mt, ok := bt.Members[n.Field]; ok {
				return mt
			}
			// first access: foreign members are typed at their `as T` cast
			// site (see ForeignImportNode); until cast, treat as value.
			return ValueType{}
		case InvalidType:
			// already diagnosed
		default:
			c.addDiag("BadDotBase", "value is not a record or module", "Dot", n.Span())
		}
		return InvalidType{}

	case *BracketVar:
		baseT := c.checkExpr(n.Base)
		idxT := c.checkExpr(n.Index)
		if !isInteger(idxT) {
			c.addDiag("BadIndex", "array index must be an integer", "Bracket", n.Index.Span())
		}
		if arr, ok := baseT.(ArrayType); ok {
			return arr.Elem
		}
		if _, ok := baseT.(InvalidType); !ok {
			c.addDiag("BadBracketBase", "value is not an array", "Bracket", n.Span())
		}
		return InvalidType{}
	}
	return InvalidType{}
}

// resolvedParam is the symtab entry for a function parameter: Type is
// already resolved (by checkFuncBody, before the body is checked), so
// declType never needs a Checker to answer a NameVar lookup.
type resolvedParam struct {
	Name string
	Type Type
}

func declType(decl interface{}) Type {
	switch d := decl.(type) {
	case *TopLevelVarNode:
		return d.ResolvedType
	case *TopLevelFuncNode:
		return d.ResolvedType
	case *DeclStmt:
		return d.ResolvedType
	case *resolvedParam:
		return d.Type
	case *ForStmt:
		return IntegerType{}
	case *ImportNode:
		return d.ResolvedType
	case *ForeignImportNode:
		return ForeignModuleType{Name: d.Name, Members: map[string]Type{}}
	}
	return InvalidType{}
}
