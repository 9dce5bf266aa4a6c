package titan

import (
	"fmt"
	"strings"
	"unicode"
)

// CoderOptions configures one module's C emission.
type CoderOptions struct {
	// ModuleName is both the Lua module name registered at runtime
	// (`luaopen_<ModuleName>`) and the prefix used to mangle every
	// top-level C identifier, so two Titan modules can be linked into
	// the same binary without symbol collisions.
	ModuleName string
	// Types is the Session's interned record registry, needed to
	// resolve a NominalType field access back to its RecordType so the
	// coder can pick a type-aware record accessor instead of always
	// boxing through the registry. May be nil (field accesses on an
	// unresolved nominal type then fall back to the registry-ref
	// accessor).
	Types *TypeRegistry
}

// GenerateC emits the C translation unit for prog: a #include
// prelude pulling in the host Lua 5.3 C API headers, one pair of
// functions per top-level Titan function (a native-ABI entry with
// real C parameter/return types, and a host-ABI lua_CFunction
// adapter wrapping it), a getter/setter pair per top-level variable,
// and a `luaopen_<module>` that assembles all of it into a table
// with `__index`/`__newindex` proxies so importing Lua code sees an
// ordinary module table (§4.6).
func GenerateC(prog *Program, lits *Literals, opt CoderOptions) string {
	c := &coder{
		opt:   opt,
		out:   newOutputWriter("    "),
		lits:  lits,
		types: opt.Types,
	}
	c.writePrelude()
	c.writeLiteralPool()
	for _, item := range prog.Items {
		switch n := item.(type) {
		case *TopLevelVarNode:
			c.writeTopLevelVar(n)
		case *TopLevelFuncNode:
			c.writeFunction(n)
		}
	}
	c.writeModuleOpen(prog)
	return c.out.String()
}

type coder struct {
	opt   CoderOptions
	out   *outputWriter
	lits  *Literals
	types *TypeRegistry
}

func (c *coder) prefix() string { return sanitizeCIdent(c.opt.ModuleName) }

func (c *coder) writePrelude() {
	c.out.writel("/* Generated by titanc. Do not edit by hand. */")
	c.out.writel("#include <lua.h>")
	c.out.writel("#include <lauxlib.h>")
	c.out.writel("#include <lualib.h>")
	c.out.writel("#include <string.h>")
	c.out.writel("#include <stdlib.h>")
	c.out.writel("#include <math.h>")
	c.out.writel("#include \"titan_runtime.h\"")
	c.out.writel("")
}

// writeLiteralPool emits one `static const char *` per interned
// string literal, indexed by the slot the upvalues pass assigned it,
// so every use site references `LIT(n)` instead of re-embedding the
// same C string repeatedly.
func (c *coder) writeLiteralPool() {
	if c.lits == nil || len(c.lits.All()) == 0 {
		return
	}
	c.out.writel("/* interned string literals */")
	c.out.writeilf("static const char *%s_lits[] = {", c.prefix())
	c.out.indent()
	for _, s := range c.lits.All() {
		c.out.writeilf("%q,", s)
	}
	c.out.unindent()
	c.out.writel("};")
	c.out.writeilf("#define LIT(n) (%s_lits[(n)])", c.prefix())
	c.out.writel("")
}

// cType maps a Titan Type to the C type used to hold it in a native
// (non-Lua-stack) context: function parameters/locals/return values.
// Record, array, option, and value-typed data all live behind a
// registry reference (an `int` returned by luaL_ref) rather than a
// raw pointer, so the Lua collector - not the C call stack - owns
// their lifetime; the coder pins/unpins them with lua_rawgeti/
// luaL_unref at the right points instead of a C destructor.
func cType(t Type) string {
	switch t.(type) {
	case IntegerType:
		return "lua_Integer"
	case FloatType:
		return "lua_Number"
	case BooleanType:
		return "int"
	case StringType:
		return "const char *"
	case NilType:
		return "void *"
	default:
		return "int" // registry reference: Value, Array, Record, Option, Module
	}
}

func isRegistryType(t Type) bool {
	switch t.(type) {
	case IntegerType, FloatType, BooleanType, StringType, NilType:
		return false
	default:
		return true
	}
}

// runtimeSuffix picks the titan_array_*/titan_record_* variant that
// matches t's native representation: Integer/Float/Boolean/String
// elements and fields travel as their own C type, never through a
// registry ref, since cType already gives them a non-`int`
// representation (§4.6). Everything else (Array, Record, Option,
// Value, Module, Nominal) already lives behind a registry ref, so it
// takes the `ref` accessor.
func runtimeSuffix(t Type) string {
	switch t.(type) {
	case IntegerType:
		return "integer"
	case FloatType:
		return "float"
	case BooleanType:
		return "boolean"
	case StringType:
		return "string"
	default:
		return "ref"
	}
}

// elemTypeOf recovers an array expression's element type for
// dispatching titan_array_get_*/titan_array_set_*. baseType is always
// an ArrayType by the time the checker accepts a BracketVar; the
// ValueType fallback only guards a prior diagnostic.
func elemTypeOf(baseType Type) Type {
	if at, ok := baseType.(ArrayType); ok {
		return at.Elem
	}
	return ValueType{}
}

// fieldType recovers the static type of a record/module field access
// from the base expression's checked type, resolving a NominalType
// reference through the session's TypeRegistry the way the checker
// itself does in checkVar's DotVar case. Used to pick the type-aware
// titan_record_get_*/titan_record_set_* variant instead of always
// boxing the field through the registry.
func (c *coder) fieldType(baseType Type, field string) Type {
	switch bt := baseType.(type) {
	case RecordType:
		if ft, ok := bt.FieldType(field); ok {
			return ft
		}
	case NominalType:
		if c.types != nil {
			if rec, ok := c.types.Resolve(bt); ok {
				if ft, ok := rec.FieldType(field); ok {
					return ft
				}
			}
		}
	case ModuleType:
		if ft, ok := bt.Members[field]; ok {
			return ft
		}
	case ForeignModuleType:
		if ft, ok := bt.Members[field]; ok {
			return ft
		}
	}
	return ValueType{}
}

func (c *coder) writeTopLevelVar(n *TopLevelVarNode) {
	ct := cType(n.ResolvedType)
	init := c.constExpr(n.Init)
	c.out.writeilf("static %s %s = %s;", ct, n.MangledName, init)
	c.out.writeilf("static %s %s_get(lua_State *L) { (void)L; return %s; }", ct, n.MangledName, n.MangledName)
	c.out.writeilf("static void %s_set(lua_State *L, %s v) { (void)L; %s = v; }", n.MangledName, ct, n.MangledName)
	c.out.writel("")
}

// constExpr renders a constant (top-level-initializer) expression
// directly as a C literal; top-level initializers are restricted to
// constant-foldable expressions (§6.3), so this never needs the full
// statement-sequencing expression codegen used inside function
// bodies.
func (c *coder) constExpr(e Expr) string {
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
		return fmt.Sprintf("LIT(%d)", c.lits.intern(n.Value))
	case *UnopExpr:
		return fmt.Sprintf("(%s%s)", n.Op, c.constExpr(n.Operand))
	case *BinopExpr:
		return fmt.Sprintf("(%s %s %s)", c.constExpr(n.Left), n.Op, c.constExpr(n.Right))
	default:
		return "0"
	}
}

// resolveCastType mirrors Checker.resolveTypeNode for the narrow set
// of target types a CastExpr's `as T` can name; the coder only needs
// this to pick which titan_check_* runtime helper to emit, so it
// doesn't need the checker's diagnostics or registry access.
func (c *coder) resolveCastType(tn TypeNode) Type {
	switch tn.(type) {
	case *TypeIntegerNode:
		return IntegerType{}
	case *TypeFloatNode:
		return FloatType{}
	case *TypeBooleanNode:
		return BooleanType{}
	case *TypeStringNode:
		return StringType{}
	default:
		return ValueType{}
	}
}

// sanitizeCIdent rewrites an arbitrary Titan identifier (which may
// contain `.` from a qualified function name like `Point.new`) into
// a valid C identifier.
func sanitizeCIdent(s string) string {
	if s == "" {
		return "X"
	}
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
