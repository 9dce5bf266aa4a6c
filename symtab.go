package titan

// symbol is one entry in a scope frame: a name bound to the AST node
// that introduced it (a DeclStmt, resolvedParam, ForStmt, ImportNode,
// TopLevelVarNode, or TopLevelFuncNode), so NameVar.Decl can point
// straight at it once resolved.
type symbol struct {
	name string
	decl interface{}
}

// scopeFrame is one lexical block's bindings, innermost scope last in
// symtab.frames.
type scopeFrame struct {
	symbols []symbol
}

// symtab is a stack of lexical scope frames plus a separate namespace
// for foreign-module bindings, which live for the whole file rather
// than any one block (§4.3: a foreign import is visible from its
// import statement to the end of the module, independent of block
// nesting).
type symtab struct {
	frames     []*scopeFrame
	foreign    map[string]interface{}
	moduleName string
}

func newSymtab(moduleName string) *symtab {
	return &symtab{foreign: map[string]interface{}{}, moduleName: moduleName}
}

// open pushes a new lexical scope, entered on every Block/While/
// Repeat/If branch/For body/function body.
func (s *symtab) open() { s.frames = append(s.frames, &scopeFrame{}) }

// close pops the innermost scope.
func (s *symtab) close() { s.frames = s.frames[:len(s.frames)-1] }

// add binds name to decl in the innermost open scope.
func (s *symtab) add(name string, decl interface{}) {
	top := s.frames[len(s.frames)-1]
	top.symbols = append(top.symbols, symbol{name: name, decl: decl})
}

// find looks up name from the innermost scope outward, returning the
// first (most local) binding.
func (s *symtab) find(name string) (interface{}, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		frame := s.frames[i]
		for j := len(frame.symbols) - 1; j >= 0; j-- {
			if frame.symbols[j].name == name {
				return frame.symbols[j].decl, true
			}
		}
	}
	if decl, ok := s.foreign[name]; ok {
		return decl, true
	}
	return nil, false
}

// findDup reports whether name is already bound in the innermost
// scope specifically, as opposed to an outer binding that a new
// declaration would shadow. The checker does not call it, so a
// redeclaration within the same block is not diagnosed.
func (s *symtab) findDup(name string) bool {
	top := s.frames[len(s.frames)-1]
	for _, sym := range top.symbols {
		if sym.name == name {
			return true
		}
	}
	return false
}

func (s *symtab) addForeign(name string, decl interface{}) { s.foreign[name] = decl }
