package titan

import "fmt"

// writeFunction emits a TopLevelFuncNode as a pair of C functions:
// the native entry point (real C parameter and return types, callable
// directly by other generated functions without going through the
// Lua stack) and a host-ABI `lua_CFunction` adapter that unpacks
// arguments off the Lua stack, calls the native entry, and pushes the
// results back - the same split `genc.go` draws between a parser's
// internal recursive-descent entry points and its public C API
// wrappers (§4.6, §6.4).
func (c *coder) writeFunction(n *TopLevelFuncNode) {
	c.writeNativeEntry(n)
	c.writeHostAdapter(n)
	c.out.writel("")
}

func (c *coder) writeNativeEntry(n *TopLevelFuncNode) {
	rets := n.ResolvedType.Rets
	retType := "void"
	if len(rets) > 0 {
		retType = cType(rets[0])
	}
	params := "lua_State *L"
	for _, p := range n.Params {
		params += fmt.Sprintf(", %s %s", cType(resolveParamType(p.Type)), sanitizeCIdent(p.Name))
	}
	for i := 1; i < len(rets); i++ {
		params += fmt.Sprintf(", %s *_out%d", cType(rets[i]), i)
	}
	c.out.writeilf("static %s %s(%s) {", retType, n.MangledName, params)
	c.out.indent()

	fc := newFuncCoder(c, n)
	fc.bindParams(n)
	fc.block(n.Body)
	if len(rets) == 0 {
		// a void function needs no trailing return whatever
		// AlwaysReturns says; the block's own explicit `return;`
		// statements (if any) already exited early.
	} else if !n.AlwaysReturns {
		c.out.writeilf("return (%s)0;", retType)
	}
	c.out.unindent()
	c.out.writeil("}")
}

// bindParams gives each parameter a stable C name. The checker
// resolves a parameter reference's NameVar.Decl to a *resolvedParam
// it allocated while checking this very function body (checker.go's
// checkFuncBody), so that pointer never appears anywhere else in the
// tree; the coder recovers it the same way the printer recovers
// anything it didn't compute itself - by walking the body once and
// reading the annotation back off the first NameVar that carries it.
func (fc *funcCoder) bindParams(n *TopLevelFuncNode) {
	byName := map[string]string{}
	for _, p := range n.Params {
		byName[p.Name] = sanitizeCIdent(p.Name)
	}
	Inspect(n.Body, func(node AstNode) bool {
		nv, ok := node.(*NameVar)
		if !ok {
			return true
		}
		if cname, known := byName[nv.Name]; known {
			if _, already := fc.names[nv.Decl]; !already {
				fc.names[nv.Decl] = cname
			}
		}
		return true
	})
}

// writeHostAdapter emits the lua_CFunction wrapper registered into
// the module table: it pulls each argument off the Lua stack with
// the appropriate luaL_check*/lua_to* accessor, invokes the native
// entry, and pushes the (possibly multiple) results back with
// lua_push*, returning the Lua-visible result count.
func (c *coder) writeHostAdapter(n *TopLevelFuncNode) {
	c.out.writeilf("static int %s_lua(lua_State *L) {", n.MangledName)
	c.out.indent()
	args := make([]string, len(n.Params))
	for i, p := range n.Params {
		pt := resolveParamType(p.Type)
		args[i] = fmt.Sprintf("%s(L, %d)", checkAccessor(pt), i+1)
	}
	rets := n.ResolvedType.Rets
	outDecls := make([]string, 0, len(rets)-1)
	outArgs := ""
	for i := 1; i < len(rets); i++ {
		v := fmt.Sprintf("_out%d", i)
		outDecls = append(outDecls, fmt.Sprintf("%s %s;", cType(rets[i]), v))
		outArgs += fmt.Sprintf(", &%s", v)
	}
	for _, d := range outDecls {
		c.out.writeil(d)
	}
	callArgs := "L"
	for _, a := range args {
		callArgs += ", " + a
	}
	if len(rets) == 0 {
		c.out.writeilf("%s(%s%s);", n.MangledName, callArgs, outArgs)
		c.out.writeil("return 0;")
	} else {
		c.out.writeilf("%s _r0 = %s(%s%s);", cType(rets[0]), n.MangledName, callArgs, outArgs)
		c.out.writeilf("%s(L, _r0);", pushAccessor(rets[0]))
		for i := 1; i < len(rets); i++ {
			c.out.writeilf("%s(L, _out%d);", pushAccessor(rets[i]), i)
		}
		c.out.writeilf("return %d;", len(rets))
	}
	c.out.unindent()
	c.out.writeil("}")
}

func resolveParamType(tn TypeNode) Type {
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

func checkAccessor(t Type) string {
	switch t.(type) {
	case IntegerType:
		return "luaL_checkinteger"
	case FloatType:
		return "luaL_checknumber"
	case BooleanType:
		return "lua_toboolean"
	case StringType:
		return "luaL_checkstring"
	default:
		return "titan_check_ref_arg"
	}
}

func pushAccessor(t Type) string {
	switch t.(type) {
	case IntegerType:
		return "lua_pushinteger"
	case FloatType:
		return "lua_pushnumber"
	case BooleanType:
		return "lua_pushboolean"
	case StringType:
		return "lua_pushstring"
	case NilType:
		return "titan_push_nil"
	default:
		return "titan_push_ref"
	}
}

// writeModuleOpen assembles every top-level function and variable
// into the table returned by luaopen_<module>: functions are
// registered by name with lua_pushcfunction/lua_setfield, and
// variables get a __index/__newindex proxy pair (via a metatable) so
// `mod.counter` reads through to the C global instead of a stale
// table snapshot taken at import time (§4.6).
func (c *coder) writeModuleOpen(prog *Program) {
	c.out.writeilf("static int %s_index(lua_State *L);", c.prefix())
	c.out.writeilf("static int %s_newindex(lua_State *L);", c.prefix())
	c.out.writel("")

	var vars []*TopLevelVarNode
	var funcs []*TopLevelFuncNode
	for _, item := range prog.Items {
		switch n := item.(type) {
		case *TopLevelVarNode:
			vars = append(vars, n)
		case *TopLevelFuncNode:
			funcs = append(funcs, n)
		}
	}

	c.out.writeilf("static int %s_index(lua_State *L) {", c.prefix())
	c.out.indent()
	c.out.writeil("const char *k = luaL_checkstring(L, 2);")
	for _, v := range vars {
		c.out.writeilf("if (strcmp(k, %q) == 0) { %s(L, %s_get(L)); return 1; }", v.Name, pushAccessor(v.ResolvedType), v.MangledName)
	}
	c.out.writeil("lua_rawget(L, 1);")
	c.out.writeil("return 1;")
	c.out.unindent()
	c.out.writeil("}")
	c.out.writel("")

	c.out.writeilf("static int %s_newindex(lua_State *L) {", c.prefix())
	c.out.indent()
	c.out.writeil("const char *k = luaL_checkstring(L, 2);")
	for _, v := range vars {
		c.out.writeilf("if (strcmp(k, %q) == 0) { %s_set(L, %s(L, 3)); return 0; }", v.Name, v.MangledName, checkAccessor(v.ResolvedType))
	}
	c.out.writei("return luaL_error(L, \"attempt to assign to undeclared field '%s'\", k);")
	c.out.write("\n")
	c.out.unindent()
	c.out.writeil("}")
	c.out.writel("")

	c.out.writeilf("int luaopen_%s(lua_State *L) {", c.prefix())
	c.out.indent()
	c.out.writeil("lua_newtable(L);")
	for _, fn := range funcs {
		c.out.writeilf("lua_pushcfunction(L, %s_lua);", fn.MangledName)
		c.out.writeilf("lua_setfield(L, -2, %q);", fn.Name)
	}
	c.out.writeil("lua_newtable(L);")
	c.out.writeilf("lua_pushcfunction(L, %s_index);", c.prefix())
	c.out.writeil("lua_setfield(L, -2, \"__index\");")
	c.out.writeilf("lua_pushcfunction(L, %s_newindex);", c.prefix())
	c.out.writeil("lua_setfield(L, -2, \"__newindex\");")
	c.out.writeil("lua_setmetatable(L, -2);")
	c.out.writeil("return 1;")
	c.out.unindent()
	c.out.writeil("}")
}
