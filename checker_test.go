package titan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkSource(t *testing.T, src string) (*Program, []Diagnostic) {
	t.Helper()
	prog, err := ParseProgram("test.titan", []byte(src))
	require.NoError(t, err)
	_, diags, err := CheckModule(NewSession(), NewInMemoryLoader(), "test.titan", prog)
	require.NoError(t, err)
	return prog, diags
}

func TestCheckSimpleFunctionIsClean(t *testing.T) {
	_, diags := checkSource(t, `
function add(a: integer, b: integer): integer
  return a + b
end
`)
	assert.Empty(t, diags)
}

func TestCheckMissingReturnIsDiagnosed(t *testing.T) {
	_, diags := checkSource(t, `
function add(a: integer, b: integer): integer
  local x = a + b
end
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "MissingReturn", diags[0].Label)
}

func TestCheckIfWithElseCoveringAllPathsReturns(t *testing.T) {
	_, diags := checkSource(t, `
function classify(x: integer): integer
  if x > 0 then
    return 1
  else
    return 0
  end
end
`)
	assert.Empty(t, diags)
}

func TestCheckIfWithoutElseDoesNotAlwaysReturn(t *testing.T) {
	_, diags := checkSource(t, `
function classify(x: integer): integer
  if x > 0 then
    return 1
  end
end
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "MissingReturn", diags[0].Label)
}

func TestCheckUntypedEmptyInitListIsDiagnosed(t *testing.T) {
	_, diags := checkSource(t, `
function f()
  local xs = {}
end
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "UntypedArrayDecl", diags[0].Label)
}

func TestCheckAssignToFunctionNameIsDiagnosed(t *testing.T) {
	_, diags := checkSource(t, `
function foo()
  foo = 2
end
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "AssignToFunction", diags[0].Label)
}

func TestCheckAssignmentArityMismatch(t *testing.T) {
	_, diags := checkSource(t, `
function f()
  local x: integer = 1
  local y: integer = 2
  x, y = 1
end
`)
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if d.Label == "ArityMismatch" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckReturnArityMismatch(t *testing.T) {
	_, diags := checkSource(t, `
function pair(): integer, integer
  return 1
end
`)
	require.NotEmpty(t, diags)
	assert.Equal(t, "ArityMismatch", diags[0].Label)
}

func TestCheckUndefinedNameIsDiagnosed(t *testing.T) {
	_, diags := checkSource(t, `
function f(): integer
  return y
end
`)
	require.NotEmpty(t, diags)
	assert.Equal(t, "UndefinedName", diags[0].Label)
}

func TestCheckForLoopBoundsMustBeNumeric(t *testing.T) {
	_, diags := checkSource(t, `
function f()
  for i = "a", 10 do
  end
end
`)
	require.NotEmpty(t, diags)
	assert.Equal(t, "BadForRange", diags[0].Label)
}

func TestCheckRecordFieldAccessAndConstructor(t *testing.T) {
	_, diags := checkSource(t, `
record Point
  x: integer
  y: integer
end

function sum(p: Point): integer
  return p.x + p.y
end
`)
	assert.Empty(t, diags)
}

func TestCheckUnknownRecordFieldIsDiagnosed(t *testing.T) {
	_, diags := checkSource(t, `
record Point
  x: integer
  y: integer
end

function sum(p: Point): integer
  return p.z
end
`)
	require.NotEmpty(t, diags)
	assert.Equal(t, "UnknownField", diags[0].Label)
}

func TestCheckTopLevelVarGetsInferredType(t *testing.T) {
	prog, diags := checkSource(t, `local x = 10`)
	assert.Empty(t, diags)
	v := prog.Items[0].(*TopLevelVarNode)
	assert.Equal(t, IntegerType{}, v.ResolvedType)
}

func TestCheckBadTopLevelInitializerType(t *testing.T) {
	_, diags := checkSource(t, `local x: integer = "not a number"`)
	require.Len(t, diags, 1)
	assert.Equal(t, "BadInitializer", diags[0].Label)
}

func TestCheckCircularImportIsDetected(t *testing.T) {
	loader := NewInMemoryLoader()
	loader.Add("a.titan", []byte(`local b = import "./b.titan"`))
	loader.Add("b.titan", []byte(`local a = import "./a.titan"`))

	prog, err := ParseProgram("a.titan", []byte(`local b = import "./b.titan"`))
	require.NoError(t, err)

	_, diags, err := CheckModule(NewSession(), loader, "a.titan", prog)
	require.NoError(t, err)
	require.NotEmpty(t, diags)
	assert.Contains(t, diags[0].Message, "circular reference to module")
}
