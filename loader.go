package titan

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader resolves an import path written at a given parent module's
// path into a concrete path and its source bytes. Two
// implementations are provided: RelativeLoader reads from disk and
// InMemoryLoader reads from an in-process map, for tests that build
// multi-module programs without touching the filesystem.
type Loader interface {
	GetPath(importPath, parentPath string) (string, error)
	GetContent(path string) ([]byte, error)
}

// RelativeLoader resolves `./`-prefixed import paths relative to the
// directory of the importing file and reads them off disk.
type RelativeLoader struct{}

func NewRelativeLoader() *RelativeLoader { return &RelativeLoader{} }

func (l *RelativeLoader) GetPath(importPath, parentPath string) (string, error) {
	return relativeModulePath(importPath, parentPath)
}

func (l *RelativeLoader) GetContent(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// InMemoryLoader serves a fixed map of path to source bytes; used by
// tests to exercise multi-module compilation and circular-import
// detection without a filesystem.
type InMemoryLoader struct{ files map[string][]byte }

func NewInMemoryLoader() *InMemoryLoader { return &InMemoryLoader{files: map[string][]byte{}} }

func (l *InMemoryLoader) Add(path string, content []byte) { l.files[path] = content }

func (l *InMemoryLoader) GetPath(importPath, parentPath string) (string, error) {
	return relativeModulePath(importPath, parentPath)
}

func (l *InMemoryLoader) GetContent(path string) ([]byte, error) {
	b, ok := l.files[path]
	if !ok {
		return nil, fmt.Errorf("import not found: %s", path)
	}
	return b, nil
}

func relativeModulePath(importPath, parentPath string) (string, error) {
	if importPath == parentPath {
		return importPath, nil
	}
	if len(importPath) < 3 || importPath[:2] != "./" {
		return "", fmt.Errorf("import path must be relative to the importing file (start with ./): %s", importPath)
	}
	return filepath.Join(filepath.Dir(parentPath), importPath[2:]), nil
}

// moduleState tags an entry in loadMemo: a module is either still
// being loaded (stateLoading, the circular-import sentinel), or
// finished with a resolved type and diagnostics.
type moduleState int

const (
	stateLoading moduleState = iota
	stateLoaded
)

type moduleEntry struct {
	state       moduleState
	moduleType  Type
	diagnostics []Diagnostic
}

// loadMemo is the Session's per-path cache of loaded modules, and the
// circular-import detector: a path found in stateLoading means we're
// already in the middle of loading it higher up the call stack.
type loadMemo struct {
	entries map[string]*moduleEntry
}

func newLoadMemo() *loadMemo { return &loadMemo{entries: map[string]*moduleEntry{}} }

// LoadModule resolves path (relative to parentPath) via loader,
// lexes, parses, and checks it, and returns its ModuleType. Circular
// imports are reported as a LoaderError attached to the import site
// that closed the cycle, per §7.
func LoadModule(sess *Session, loader Loader, importPath, parentPath string, importSpan Span) (Type, []Diagnostic, error) {
	path, err := loader.GetPath(importPath, parentPath)
	if err != nil {
		return nil, nil, LoaderError{
			Diagnostic: Diagnostic{Phase: PhaseLoader, Label: "BadImportPath", Message: err.Error(), Span: importSpan},
			ModuleName: importPath,
		}
	}

	if entry, ok := sess.Modules.entries[path]; ok {
		if entry.state == stateLoading {
			return nil, nil, LoaderError{
				Diagnostic: Diagnostic{
					Phase: PhaseLoader, Label: "CircularImport",
					Message: fmt.Sprintf("circular reference to module %q", path),
					Span:    importSpan,
				},
				ModuleName: path,
			}
		}
		return entry.moduleType, entry.diagnostics, nil
	}

	sess.Modules.entries[path] = &moduleEntry{state: stateLoading}

	content, err := loader.GetContent(path)
	if err != nil {
		delete(sess.Modules.entries, path)
		return nil, nil, LoaderError{
			Diagnostic: Diagnostic{Phase: PhaseLoader, Label: "ImportNotFound", Message: err.Error(), Span: importSpan},
			ModuleName: path,
		}
	}

	prog, err := ParseProgram(path, content)
	if err != nil {
		delete(sess.Modules.entries, path)
		return nil, nil, err
	}

	modType, diags, err := CheckModule(sess, loader, path, prog)
	if err != nil {
		delete(sess.Modules.entries, path)
		return nil, nil, err
	}

	sess.Modules.entries[path] = &moduleEntry{state: stateLoaded, moduleType: modType, diagnostics: diags}
	return modType, diags, nil
}
