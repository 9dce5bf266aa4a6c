package titan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeModule(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name+".titan")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestDriverCompileFileProducesCSource(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "greet", `
function greet(name: string): string
  return "hi " .. name
end
`)
	driver := NewDriver(nil)
	result, err := driver.CompileFile(path)
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
	assert.Contains(t, result.CSource, "luaopen_greet")
}

func TestDriverCompileFileStopsAtDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "bad", `
function f(): integer
  local x = "not an integer"
  return x
end
`)
	driver := NewDriver(nil)
	result, err := driver.CompileFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Diagnostics)
	assert.Empty(t, result.CSource)
}

func TestDriverCompileSourceDeterministicModuloNothing(t *testing.T) {
	src := []byte(`local x = 1`)
	driver := NewDriver(nil)
	r1, err := driver.CompileSource("a.titan", src)
	require.NoError(t, err)
	r2, err := driver.CompileSource("a.titan", src)
	require.NoError(t, err)
	assert.Equal(t, r1.CSource, r2.CSource)
}

func TestDriverBuildFileWritesCSourceBeforeInvokingToolchain(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "m", `local x = 1`)

	opts := NewCompilerOptions()
	opts.SetString("output.dir", dir)
	opts.SetString("cc.path", "/nonexistent-compiler-binary")
	driver := NewDriver(opts)

	_, err := driver.BuildFile(path)
	require.Error(t, err)

	cPath := filepath.Join(dir, "m.c")
	_, statErr := os.Stat(cPath)
	assert.NoError(t, statErr, "the .c file should be written even when the toolchain invocation itself fails")
}

func TestDriverBuildFileToolchainFailureIsToolchainError(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "m", `local x = 1`)

	opts := NewCompilerOptions()
	opts.SetString("output.dir", dir)
	opts.SetString("cc.path", "/nonexistent-compiler-binary")
	driver := NewDriver(opts)

	_, err := driver.BuildFile(path)
	require.Error(t, err)
	_, ok := err.(ToolchainError)
	assert.True(t, ok)
}

func TestNewCompilerOptionsDefaults(t *testing.T) {
	opts := NewCompilerOptions()
	assert.Equal(t, ".", opts.GetString("output.dir"))
	assert.Equal(t, "c99", opts.GetString("cc.std"))
	assert.Equal(t, 2, opts.GetInt("cc.optimize"))
	assert.True(t, opts.GetBool("cc.pic"))
}

func TestCompilerOptionsTypeMismatchPanics(t *testing.T) {
	opts := NewCompilerOptions()
	assert.Panics(t, func() {
		opts.GetInt("output.dir")
	})
}
