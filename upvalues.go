package titan

import "sort"

// Literals is the program-wide string-literal pool: every distinct
// string literal appearing anywhere in the module is interned once
// and referenced by index, so the coder emits one `const char *`
// entry per distinct literal instead of re-creating it at every use
// site.
type Literals struct {
	strings []string
	index   map[string]int
}

func newLiterals() *Literals { return &Literals{index: map[string]int{}} }

func (l *Literals) intern(s string) int {
	if i, ok := l.index[s]; ok {
		return i
	}
	i := len(l.strings)
	l.strings = append(l.strings, s)
	l.index[s] = i
	return i
}

func (l *Literals) All() []string { return l.strings }

// AssignUpvalues is the pass between checking and code generation
// (§4.5): it assigns every top-level declaration a monotonic
// GlobalIndex (its row in the module's globals table), assigns every
// top-level function a separate monotonic UpvalueIndex (how other
// functions address it as a closure value rather than through the
// globals table), mangles every top-level name to a C identifier, and
// computes each function's ReferencedUpvalues set by walking its
// body for NameVar references whose Decl resolved (during checking)
// to another top-level function.
//
// This mirrors the forward-reference bookkeeping in a PEG compiler's
// instruction-label backpatching pass: both assign addressable slots
// to forward-declared things in one linear pass over the same
// top-level list the parser produced, then resolve every use site
// against the now-complete slot table in a second pass.
func AssignUpvalues(prog *Program, moduleName string) *Literals {
	lits := newLiterals()
	funcIndex := map[*TopLevelFuncNode]int{}
	globalIndex := 0
	upvalueIndex := 0

	for _, item := range prog.Items {
		switch n := item.(type) {
		case *TopLevelVarNode:
			n.GlobalIndex = globalIndex
			globalIndex++
			n.MangledName = sanitizeCIdent(moduleName + "_" + n.Name)
		case *TopLevelFuncNode:
			n.GlobalIndex = globalIndex
			globalIndex++
			n.UpvalueIndex = upvalueIndex
			funcIndex[n] = upvalueIndex
			upvalueIndex++
			n.MangledName = sanitizeCIdent(moduleName + "_" + sanitizeCIdent(n.Name))
		}
	}

	for _, item := range prog.Items {
		fn, ok := item.(*TopLevelFuncNode)
		if !ok {
			continue
		}
		internLiterals(fn.Body, lits)
		refs := map[int]bool{}
		Inspect(fn.Body, func(node AstNode) bool {
			if nv, ok := node.(*NameVar); ok {
				if callee, ok := nv.Decl.(*TopLevelFuncNode); ok && callee != fn {
					if idx, ok := funcIndex[callee]; ok {
						refs[idx] = true
					}
				}
			}
			return true
		})
		fn.ReferencedUpvalues = sortedKeys(refs)
	}

	return lits
}

func internLiterals(node AstNode, lits *Literals) {
	Inspect(node, func(n AstNode) bool {
		if s, ok := n.(*StringExpr); ok {
			lits.intern(s.Value)
		}
		return true
	})
}

func sortedKeys(m map[int]bool) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
