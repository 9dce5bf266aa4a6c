package titan

// Session is the explicit, caller-owned piece of state threaded
// through a compilation run: the interned record-type registry and
// the module-loader memoization table. Kept as a value the driver
// constructs and passes around (rather than package-level globals)
// so two compilations - e.g. concurrent `titanc` invocations in the
// same process, or a test that compiles several independent programs
// - never share state (§9 design note).
type Session struct {
	Types   *TypeRegistry
	Modules *loadMemo
}

func NewSession() *Session {
	return &Session{Types: NewTypeRegistry(), Modules: newLoadMemo()}
}
