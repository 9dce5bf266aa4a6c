package titan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := ParseProgram("test.titan", []byte(src))
	require.NoError(t, err)
	return prog
}

func TestParseTopLevelVarWithAnnotation(t *testing.T) {
	prog := parse(t, "local x: integer = 10")
	require.Len(t, prog.Items, 1)
	v, ok := prog.Items[0].(*TopLevelVarNode)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name)
	assert.NotNil(t, v.Annotation)
	assert.IsType(t, &IntegerExpr{}, v.Init)
}

func TestParseImportAndForeignImport(t *testing.T) {
	prog := parse(t, `
local m = import "other"
local h = foreign import "header.h"
`)
	require.Len(t, prog.Items, 2)
	imp, ok := prog.Items[0].(*ImportNode)
	require.True(t, ok)
	assert.Equal(t, "m", imp.Name)
	assert.Equal(t, "other", imp.Path)

	fimp, ok := prog.Items[1].(*ForeignImportNode)
	require.True(t, ok)
	assert.Equal(t, "h", fimp.Name)
}

func TestParseFunctionWithReturns(t *testing.T) {
	prog := parse(t, `
function add(a: integer, b: integer): integer
  return a + b
end
`)
	require.Len(t, prog.Items, 1)
	fn, ok := prog.Items[0].(*TopLevelFuncNode)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	require.Len(t, fn.Rets, 1)
	require.Len(t, fn.Body.Stmts, 1)
	assert.IsType(t, &ReturnStmt{}, fn.Body.Stmts[0])
}

func TestParseRecordDeclSynthesizesConstructor(t *testing.T) {
	prog := parse(t, `
record Point
  x: integer
  y: integer
end
`)
	require.Len(t, prog.Items, 2)
	decl, ok := prog.Items[0].(*RecordDeclNode)
	require.True(t, ok)
	assert.Equal(t, "Point", decl.Name)
	require.Len(t, decl.Fields, 2)

	ctor, ok := prog.Items[1].(*TopLevelFuncNode)
	require.True(t, ok)
	assert.Equal(t, "Point.new", ctor.Name)
	require.Len(t, ctor.Params, 2)
	assert.Equal(t, "x", ctor.Params[0].Name)
}

func TestParseForLoopDefaultStepIsLiteralOne(t *testing.T) {
	prog := parse(t, `
function f()
  for i = 1, 10 do
  end
end
`)
	fn := prog.Items[0].(*TopLevelFuncNode)
	forStmt := fn.Body.Stmts[0].(*ForStmt)
	step, ok := forStmt.Step.(*IntegerExpr)
	require.True(t, ok)
	assert.EqualValues(t, 1, step.Value)
}

func TestParseForLoopNegativeStep(t *testing.T) {
	prog := parse(t, `
function f()
  for i = 10, 1, -1 do
  end
end
`)
	fn := prog.Items[0].(*TopLevelFuncNode)
	forStmt := fn.Body.Stmts[0].(*ForStmt)
	unop, ok := forStmt.Step.(*UnopExpr)
	require.True(t, ok)
	assert.Equal(t, UnopNeg, unop.Op)
}

func TestParseAssignVsCallStatement(t *testing.T) {
	prog := parse(t, `
function f()
  x = 1
  g()
end
`)
	fn := prog.Items[0].(*TopLevelFuncNode)
	require.Len(t, fn.Body.Stmts, 2)
	assert.IsType(t, &AssignStmt{}, fn.Body.Stmts[0])
	assert.IsType(t, &CallStmt{}, fn.Body.Stmts[1])
}

func TestParseMultiAssign(t *testing.T) {
	prog := parse(t, `
function f()
  x, y = 1, 2
end
`)
	fn := prog.Items[0].(*TopLevelFuncNode)
	assign := fn.Body.Stmts[0].(*AssignStmt)
	require.Len(t, assign.Targets, 2)
	require.Len(t, assign.Values, 2)
}

func TestParseConcatFoldsAdjacentStringLiterals(t *testing.T) {
	prog := parse(t, `local x = "a" .. "b" .. y`)
	v := prog.Items[0].(*TopLevelVarNode)
	concat, ok := v.Init.(*ConcatExpr)
	require.True(t, ok)
	require.Len(t, concat.Operands, 2)
	str, ok := concat.Operands[0].(*StringExpr)
	require.True(t, ok)
	assert.Equal(t, "ab", str.Value)
}

func TestParseArrayIndexAndFieldAccess(t *testing.T) {
	prog := parse(t, `
function f()
  x = xs[0]
  y = p.field
end
`)
	fn := prog.Items[0].(*TopLevelFuncNode)
	assign := fn.Body.Stmts[0].(*AssignStmt)
	ve := assign.Values[0].(*VarExpr)
	assert.IsType(t, &BracketVar{}, ve.Var)

	assign2 := fn.Body.Stmts[1].(*AssignStmt)
	ve2 := assign2.Values[0].(*VarExpr)
	assert.IsType(t, &DotVar{}, ve2.Var)
}

func TestParseMethodCallDesugarsReceiverAsFirstArg(t *testing.T) {
	prog := parse(t, `
function f()
  obj:method(1)
end
`)
	fn := prog.Items[0].(*TopLevelFuncNode)
	callStmt := fn.Body.Stmts[0].(*CallStmt)
	require.Len(t, callStmt.Call.Args, 2)
}

func TestParseCastExpression(t *testing.T) {
	prog := parse(t, `local x = y as integer`)
	v := prog.Items[0].(*TopLevelVarNode)
	assert.IsType(t, &CastExpr{}, v.Init)
}

func TestParsePowerIsRightAssociative(t *testing.T) {
	prog := parse(t, `local x = 2 ^ 3 ^ 2`)
	v := prog.Items[0].(*TopLevelVarNode)
	top, ok := v.Init.(*BinopExpr)
	require.True(t, ok)
	assert.Equal(t, BinopPow, top.Op)
	_, rightIsBinop := top.Right.(*BinopExpr)
	assert.True(t, rightIsBinop, "2^3^2 should associate as 2^(3^2)")
}

func TestParseTrailingSyntaxErrorIsReported(t *testing.T) {
	_, err := ParseProgram("test.titan", []byte("local x = 1 )"))
	assert.Error(t, err)
}

func TestParseUntypedEmptyInitListHasNoAnnotation(t *testing.T) {
	prog := parse(t, "local xs = {}")
	v := prog.Items[0].(*TopLevelVarNode)
	assert.Nil(t, v.Annotation)
	assert.IsType(t, &InitListExpr{}, v.Init)
}
