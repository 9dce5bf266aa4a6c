package titan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, src, moduleName string) string {
	t.Helper()
	prog, err := ParseProgram(moduleName+".titan", []byte(src))
	require.NoError(t, err)
	sess := NewSession()
	_, diags, err := CheckModule(sess, NewInMemoryLoader(), moduleName+".titan", prog)
	require.NoError(t, err)
	require.Empty(t, diags)
	lits := AssignUpvalues(prog, moduleName)
	return GenerateC(prog, lits, CoderOptions{ModuleName: moduleName, Types: sess.Types})
}

func TestGenerateCIncludesRuntimeHeader(t *testing.T) {
	out := generate(t, `local x = 1`, "m")
	assert.Contains(t, out, `#include "titan_runtime.h"`)
	assert.Contains(t, out, "#include <lua.h>")
}

func TestGenerateCFunctionEmitsNativeAndHostPair(t *testing.T) {
	out := generate(t, `
function add(a: integer, b: integer): integer
  return a + b
end
`, "m")
	assert.Contains(t, out, "static lua_Integer m_add(lua_State *L, lua_Integer a, lua_Integer b) {")
	assert.Contains(t, out, "static int m_add_lua(lua_State *L) {")
	assert.Contains(t, out, "luaL_checkinteger(L, 1)")
	assert.Contains(t, out, "luaL_checkinteger(L, 2)")
	assert.Contains(t, out, "lua_pushinteger(L, _r0);")
}

func TestGenerateCMultiReturnUsesOutParams(t *testing.T) {
	out := generate(t, `
function divmod(a: integer, b: integer): integer, integer
  return a // b, a % b
end
`, "m")
	assert.Contains(t, out, "lua_Integer *_out1")
	assert.Contains(t, out, "*_out1 =")
	assert.Contains(t, out, "return 2;")
}

func TestGenerateCTopLevelVarGetterSetterPair(t *testing.T) {
	out := generate(t, `local counter = 0`, "m")
	assert.Contains(t, out, "static lua_Integer m_counter = 0LL;")
	assert.Contains(t, out, "static lua_Integer m_counter_get(lua_State *L)")
	assert.Contains(t, out, "static void m_counter_set(lua_State *L, lua_Integer v)")
}

func TestGenerateCModuleOpenRegistersFunctionsAndMetatable(t *testing.T) {
	out := generate(t, `
local counter = 0

function bump(): integer
  return counter
end
`, "mymod")
	assert.Contains(t, out, "int luaopen_mymod(lua_State *L) {")
	assert.Contains(t, out, `lua_setfield(L, -2, "bump");`)
	assert.Contains(t, out, `lua_setfield(L, -2, "__index");`)
	assert.Contains(t, out, `lua_setfield(L, -2, "__newindex");`)
	assert.Contains(t, out, `if (strcmp(k, "counter") == 0)`)
}

func TestGenerateCConcatEmitsArrayAndRuntimeCall(t *testing.T) {
	out := generate(t, `
function greet(name: string): string
  return "hello " .. name .. "!"
end
`, "m")
	assert.Contains(t, out, "titan_concat(L,")
}

func TestGenerateCForLoopLiteralNegativeStepUsesGe(t *testing.T) {
	out := generate(t, `
function f(): integer
  local sum: integer = 0
  for i = 10, 1, -1 do
    sum = sum + i
  end
  return sum
end
`, "m")
	assert.True(t, strings.Contains(out, ">=") )
}

func TestGenerateCArrayAssignmentUsesArraySet(t *testing.T) {
	out := generate(t, `
function f(xs: {integer})
  xs[0] = 1
end
`, "m")
	assert.Contains(t, out, "titan_array_set_integer(")
}

func TestGenerateCRecordFieldAssignmentUsesRecordSet(t *testing.T) {
	out := generate(t, `
record Point
  x: integer
  y: integer
end

function move(p: Point)
  p.x = p.x + 1
end
`, "m")
	assert.Contains(t, out, "titan_record_set_integer(")
	assert.Contains(t, out, "titan_record_get_integer(")
}

func TestGenerateCLiteralPoolDeduplicatesStrings(t *testing.T) {
	out := generate(t, `
function f(): string
  local a = "same"
  local b = "same"
  return a
end
`, "m")
	assert.Equal(t, 1, strings.Count(out, `"same",`))
}
