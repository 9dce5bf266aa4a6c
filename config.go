package titan

import "fmt"

// CompilerOptions is the typed-path configuration bag threaded
// through a Driver run: CLI flags and (eventually) a project file
// both populate the same map, so either source can set any setting by
// its dotted path without the Driver needing a field for each one.
type CompilerOptions map[string]*optVal

// NewCompilerOptions primes the defaults every pipeline stage expects
// to find set, whether or not the caller overrides them.
func NewCompilerOptions() *CompilerOptions {
	m := make(CompilerOptions)
	m.SetString("output.dir", ".")
	m.SetBool("checker.warnings_as_errors", false)
	m.SetString("cc.path", "cc")
	m.SetString("cc.std", "c99")
	m.SetInt("cc.optimize", 2)
	m.SetBool("cc.pic", true)
	return &m
}

type optValType int

const (
	optValType_Undefined optValType = iota
	optValType_Bool
	optValType_Int
	optValType_String
)

func (vt optValType) String() string {
	return map[optValType]string{
		optValType_Undefined: "undefined",
		optValType_Bool:      "bool",
		optValType_Int:       "int",
		optValType_String:    "string",
	}[vt]
}

type optVal struct {
	typ      optValType
	asBool   bool
	asInt    int
	asString string
}

func (v *optVal) assignType(vt optValType) {
	if v.typ != vt && v.typ != optValType_Undefined {
		panic(fmt.Sprintf("can't assign `%s` to type `%s`", vt, v.typ))
	}
	v.typ = vt
}

func (v *optVal) checkType(vt optValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("can't retrieve `%s` from `%s` setting", vt, v.typ))
	}
}

func (c *CompilerOptions) SetBool(path string, v bool) {
	(*c)[path] = &optVal{}
	(*c)[path].assignType(optValType_Bool)
	(*c)[path].asBool = v
}

func (c *CompilerOptions) SetInt(path string, v int) {
	(*c)[path] = &optVal{}
	(*c)[path].assignType(optValType_Int)
	(*c)[path].asInt = v
}

func (c *CompilerOptions) SetString(path string, v string) {
	(*c)[path] = &optVal{}
	(*c)[path].assignType(optValType_String)
	(*c)[path].asString = v
}

func (c *CompilerOptions) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(optValType_Bool)
		return val.asBool
	}
	panic(fmt.Sprintf("bool setting `%s` does not exist", path))
}

func (c *CompilerOptions) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(optValType_Int)
		return val.asInt
	}
	panic(fmt.Sprintf("int setting `%s` does not exist", path))
}

func (c *CompilerOptions) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(optValType_String)
		return val.asString
	}
	panic(fmt.Sprintf("string setting `%s` does not exist", path))
}
