package titan

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Driver runs the full pipeline for one entry module: parse, check,
// assign upvalues, emit C, and (unless the caller only wants the
// generated source) invoke the host C toolchain to produce a linkable
// object, mirroring the layered GrammarFromFile/GrammarTransformations
// split in a langlang-style frontend - one entry point per input
// shape, both funneling into one shared transformation pipeline.
type Driver struct {
	Session *Session
	Loader  Loader
	Options *CompilerOptions
}

func NewDriver(opts *CompilerOptions) *Driver {
	if opts == nil {
		opts = NewCompilerOptions()
	}
	return &Driver{
		Session: NewSession(),
		Loader:  NewRelativeLoader(),
		Options: opts,
	}
}

// CompileResult is everything one CompileFile/CompileSource call
// produces: the checked AST, the diagnostics collected while checking
// it (empty does not imply a successful compile unless CSource is
// also non-empty), and the generated C translation unit.
type CompileResult struct {
	Program     *Program
	Diagnostics []Diagnostic
	CSource     string
	ModuleType  Type
}

// CompileFile reads, parses, checks, and code-generates the module at
// path. It stops after checking (returning whatever diagnostics were
// collected) if any Diagnostic was raised, since code generation over
// an Invalid-typed tree would just manufacture nonsense C.
func (d *Driver) CompileFile(path string) (*CompileResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return d.CompileSource(path, src)
}

func (d *Driver) CompileSource(path string, src []byte) (*CompileResult, error) {
	prog, err := ParseProgram(path, src)
	if err != nil {
		return nil, err
	}

	moduleType, diags, err := CheckModule(d.Session, d.Loader, path, prog)
	if err != nil {
		return nil, err
	}
	result := &CompileResult{Program: prog, Diagnostics: diags, ModuleType: moduleType}
	if len(diags) > 0 {
		return result, nil
	}

	moduleName := moduleNameFromPath(path)
	lits := AssignUpvalues(prog, moduleName)
	result.CSource = GenerateC(prog, lits, CoderOptions{ModuleName: moduleName, Types: d.Session.Types})
	return result, nil
}

// BuildFile runs CompileFile and, if it produced C source cleanly,
// writes it to <output.dir>/<module>.c and invokes the configured C
// compiler on that one file to produce a shared object for a host
// Lua 5.3 process (§6.4). The toolchain invocation is `cc
// --std=<cc.std> -O<n> [-fPIC] -Wall -shared -o <out> <module>.c`.
// The runtime sources under runtime/ are not written, compiled or
// linked, and no -I include directories are passed.
func (d *Driver) BuildFile(path string) (*CompileResult, error) {
	result, err := d.CompileFile(path)
	if err != nil {
		return nil, err
	}
	if len(result.Diagnostics) > 0 || result.CSource == "" {
		return result, nil
	}

	outDir := d.Options.GetString("output.dir")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	moduleName := moduleNameFromPath(path)
	cPath := filepath.Join(outDir, moduleName+".c")
	if err := os.WriteFile(cPath, []byte(result.CSource), 0o644); err != nil {
		return nil, err
	}

	soPath := filepath.Join(outDir, moduleName+".so")
	args := []string{
		"--std=" + d.Options.GetString("cc.std"),
		fmt.Sprintf("-O%d", d.Options.GetInt("cc.optimize")),
	}
	if d.Options.GetBool("cc.pic") {
		args = append(args, "-fPIC")
	}
	args = append(args, "-Wall", "-shared", "-o", soPath, cPath)

	cmd := exec.Command(d.Options.GetString("cc.path"), args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return result, ToolchainError{
			Command:  append([]string{d.Options.GetString("cc.path")}, args...),
			ExitCode: exitCode,
			Stderr:   string(out),
		}
	}
	return result, nil
}
