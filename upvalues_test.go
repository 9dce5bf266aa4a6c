package titan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkedProgram(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := ParseProgram("m.titan", []byte(src))
	require.NoError(t, err)
	_, diags, err := CheckModule(NewSession(), NewInMemoryLoader(), "m.titan", prog)
	require.NoError(t, err)
	require.Empty(t, diags)
	return prog
}

func TestAssignUpvaluesGlobalIndicesAreMonotonic(t *testing.T) {
	prog := checkedProgram(t, `
local a = 1
local b = 2
function f() end
`)
	AssignUpvalues(prog, "m")

	va := prog.Items[0].(*TopLevelVarNode)
	vb := prog.Items[1].(*TopLevelVarNode)
	fn := prog.Items[2].(*TopLevelFuncNode)

	assert.Equal(t, 0, va.GlobalIndex)
	assert.Equal(t, 1, vb.GlobalIndex)
	assert.Equal(t, 2, fn.GlobalIndex)
	assert.Equal(t, 0, fn.UpvalueIndex)
}

func TestAssignUpvaluesMangledNamesArePrefixed(t *testing.T) {
	prog := checkedProgram(t, `local x = 1`)
	AssignUpvalues(prog, "mymod")
	v := prog.Items[0].(*TopLevelVarNode)
	assert.Equal(t, "mymod_x", v.MangledName)
}

func TestAssignUpvaluesReferencedUpvaluesForMutualRecursion(t *testing.T) {
	prog := checkedProgram(t, `
function isEven(n: integer): boolean
  if n == 0 then
    return true
  end
  return isOdd(n - 1)
end

function isOdd(n: integer): boolean
  if n == 0 then
    return false
  end
  return isEven(n - 1)
end
`)
	AssignUpvalues(prog, "m")

	isEven := prog.Items[0].(*TopLevelFuncNode)
	isOdd := prog.Items[1].(*TopLevelFuncNode)

	require.Len(t, isEven.ReferencedUpvalues, 1)
	assert.Equal(t, isOdd.UpvalueIndex, isEven.ReferencedUpvalues[0])

	require.Len(t, isOdd.ReferencedUpvalues, 1)
	assert.Equal(t, isEven.UpvalueIndex, isOdd.ReferencedUpvalues[0])
}

func TestAssignUpvaluesInternsStringLiteralsOnce(t *testing.T) {
	prog := checkedProgram(t, `
function f(): string
  local a = "hello"
  local b = "hello"
  local c = "world"
  return a
end
`)
	lits := AssignUpvalues(prog, "m")
	all := lits.All()
	assert.Len(t, all, 2)
	assert.Contains(t, all, "hello")
	assert.Contains(t, all, "world")
}

func TestLiteralsInternIsIdempotent(t *testing.T) {
	lits := newLiterals()
	i1 := lits.intern("a")
	i2 := lits.intern("b")
	i3 := lits.intern("a")
	assert.Equal(t, i1, i3)
	assert.NotEqual(t, i1, i2)
	assert.Equal(t, []string{"a", "b"}, lits.All())
}
