package titan

// coercible reports whether a value of type from may appear where a
// value of type to is expected, applying the coercion graph from §3:
//
//	Integer <-> Float        (implicit numeric widening/narrowing)
//	T       -> Value         (any concrete type widens to value)
//	Value   -> T             (narrowed, checked at runtime by the coder)
//	T       -> Option(T)     (a concrete value is always a valid option)
//	Nil     -> Option(T)     (nil is a valid option of anything)
//
// Truthiness (T -> Boolean) is deliberately not part of this graph:
// it only applies in condition position (if/while/repeat-until/and/
// or), which the checker handles at those specific call sites rather
// than through general assignment compatibility.
func coercible(from, to Type) bool {
	if from.Equal(to) {
		return true
	}
	switch to.(type) {
	case ValueType:
		return true
	}
	switch from.(type) {
	case InvalidType:
		return true // already diagnosed; don't cascade more errors from it
	}
	switch t := to.(type) {
	case FloatType:
		_, ok := from.(IntegerType)
		return ok
	case IntegerType:
		_, ok := from.(FloatType)
		return ok
	case OptionType:
		if _, ok := from.(NilType); ok {
			return true
		}
		return coercible(from, t.Base)
	}
	if _, ok := from.(ValueType); ok {
		return true // narrowing Value -> T, checked at runtime by the coder
	}
	return false
}

// commonNumeric returns the result type of a binary arithmetic
// operation over a and b: integer only if both operands are integer,
// float if either is float, per §4.4.
func commonNumeric(a, b Type) (Type, bool) {
	_, aInt := a.(IntegerType)
	_, bInt := b.(IntegerType)
	_, aFloat := a.(FloatType)
	_, bFloat := b.(FloatType)
	switch {
	case aInt && bInt:
		return IntegerType{}, true
	case (aInt || aFloat) && (bInt || bFloat):
		return FloatType{}, true
	default:
		return InvalidType{}, false
	}
}

func isInteger(t Type) bool { _, ok := t.(IntegerType); return ok }
func isNumeric(t Type) bool {
	switch t.(type) {
	case IntegerType, FloatType:
		return true
	}
	return false
}
func isValue(t Type) bool { _, ok := t.(ValueType); return ok }
func isString(t Type) bool { _, ok := t.(StringType); return ok }
