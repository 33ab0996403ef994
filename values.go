package mindscript

// Kind tags the runtime value universe described in spec §3.3.
type Kind int

const (
	KNull Kind = iota
	KBool
	KInt
	KNum
	KStr
	KArray
	KObject
	KFunction
	KOracle
	KType
)

func (k Kind) String() string {
	switch k {
	case KNull:
		return "Null"
	case KBool:
		return "Bool"
	case KInt:
		return "Int"
	case KNum:
		return "Num"
	case KStr:
		return "Str"
	case KArray:
		return "Array"
	case KObject:
		return "Object"
	case KFunction:
		return "Function"
	case KOracle:
		return "Oracle"
	case KType:
		return "Type"
	}
	return "?"
}

// arrayVal backs an array value. It is always referenced through a pointer
// so that arrays are mutable in place and so that two array values can be
// compared by identity independently of ValueEquals' deep comparison.
type arrayVal struct {
	items []Value
}

// objectVal backs an object value: an ordered mapping from string keys to
// values, insertion order preserved (spec §3.3) and observable via iter.
type objectVal struct {
	keys []string
	vals map[string]Value
}

// Param describes a function or oracle's single runtime parameter. Every
// Function and Oracle value is unary: the parser lowers multi-parameter
// declarations into nested unary closures (spec §4.2), so the interpreter
// never has to model arity beyond one.
type Param struct {
	Name string
	Type *Type // nil means untyped (Any)
}

// functionVal backs a function (closure) value: a captured environment plus
// a parameter, optional declared return type, optional informal
// annotation, and a body. Native functions (the builtins) set Native
// instead of Body/Env.
type functionVal struct {
	Name       string
	Param      Param
	ParamType  *Type // convenience alias of Param.Type
	ReturnType *Type
	Body       Node
	Env        *Env
	Native     NativeFunc
}

// NativeFunc implements a builtin function: given the interpreter, the
// argument value, and the call-site position, it produces a result or an
// error. Builtins participate in currying and type-checking exactly like
// user-defined functions when they declare a Param/ReturnType.
type NativeFunc func(ip *Interpreter, arg Value, pos Position) (Value, error)

// Example is one declared example for an oracle literal (spec §3.2).
type Example struct {
	Input  Value
	Output Value
}

// oracleVal backs an oracle value: a parameter, optional declared return
// type, optional informal annotation, and optional examples. Calling an
// oracle delegates the computation of its result to the oracle adapter
// (spec §4.7) rather than evaluating a body.
type oracleVal struct {
	Param      Param
	ParamType  *Type
	ReturnType *Type
	Examples   []Example
}

// Value is the tagged runtime value. Only the fields relevant to Kind are
// meaningful. Annotation, when non-nil, is the informal type attached by
// the `#` operator (spec §3.3/§4.3); it is not significant to ValueEquals
// and survives rebinding.
type Value struct {
	Kind Kind

	b bool
	i int64
	n float64
	s string

	arr *arrayVal
	obj *objectVal
	fn  *functionVal
	orc *oracleVal
	typ *Type

	Annotation *string
}

var Null = Value{Kind: KNull}

func Bool(b bool) Value { return Value{Kind: KBool, b: b} }
func Int(i int64) Value  { return Value{Kind: KInt, i: i} }
func Num(n float64) Value { return Value{Kind: KNum, n: n} }
func Str(s string) Value { return Value{Kind: KStr, s: s} }

func NewArray(items []Value) Value {
	return Value{Kind: KArray, arr: &arrayVal{items: items}}
}

func NewObject(keys []string, vals map[string]Value) Value {
	if vals == nil {
		vals = map[string]Value{}
	}
	return Value{Kind: KObject, obj: &objectVal{keys: keys, vals: vals}}
}

func NewEmptyObject() Value { return NewObject(nil, nil) }

func NewFunction(fn *functionVal) Value { return Value{Kind: KFunction, fn: fn} }
func NewOracle(orc *oracleVal) Value    { return Value{Kind: KOracle, orc: orc} }
func TypeVal(t *Type) Value             { return Value{Kind: KType, typ: t} }

// BoolOf returns the Go bool for a KBool value; callers must check Kind.
func (v Value) BoolOf() bool { return v.b }

// IntOf returns the Go int64 for a KInt value; callers must check Kind.
func (v Value) IntOf() int64 { return v.i }

// NumOf returns the float64 for a KNum value; for KInt it widens.
func (v Value) NumOf() float64 {
	if v.Kind == KInt {
		return float64(v.i)
	}
	return v.n
}

// StrOf returns the Go string for a KStr value; callers must check Kind.
func (v Value) StrOf() string { return v.s }

// Items returns the backing slice for a KArray value. Mutating the returned
// slice's elements (not its length) mutates the array in place; to grow or
// shrink, use SetItems.
func (v Value) Items() []Value { return v.arr.items }

// SetItems replaces a KArray value's contents in place.
func (v Value) SetItems(items []Value) { v.arr.items = items }

// Keys returns an object's keys in insertion order.
func (v Value) Keys() []string { return v.obj.keys }

// Get returns an object's value for key and whether it was present.
func (v Value) Get(key string) (Value, bool) {
	val, ok := v.obj.vals[key]
	return val, ok
}

// Set adds or updates a key on an object in place, appending to Keys if the
// key is new.
func (v Value) Set(key string, val Value) {
	if _, ok := v.obj.vals[key]; !ok {
		v.obj.keys = append(v.obj.keys, key)
	}
	v.obj.vals[key] = val
}

// Delete removes a key from an object in place, preserving the insertion
// order of what remains. It is a no-op if the key is absent.
func (v Value) Delete(key string) {
	if _, ok := v.obj.vals[key]; !ok {
		return
	}
	delete(v.obj.vals, key)
	for i, k := range v.obj.keys {
		if k == key {
			v.obj.keys = append(v.obj.keys[:i], v.obj.keys[i+1:]...)
			break
		}
	}
}

// Func returns the backing *functionVal for a KFunction value.
func (v Value) Func() *functionVal { return v.fn }

// OracleData returns the backing *oracleVal for a KOracle value.
func (v Value) OracleData() *oracleVal { return v.orc }

// TypeData returns the backing *Type for a KType value.
func (v Value) TypeData() *Type { return v.typ }

// WithAnnotation returns a copy of v carrying annotation text, per the `#`
// operator (spec §4.3). It does not mutate v; annotations attach to the
// value produced by an expression, and rebinding preserves whatever
// annotation the stored value already has.
func (v Value) WithAnnotation(text string) Value {
	v.Annotation = &text
	return v
}

// AnnotationText returns the value's annotation, or "" if none.
func (v Value) AnnotationText() string {
	if v.Annotation == nil {
		return ""
	}
	return *v.Annotation
}

// Truthy implements spec §4.5's falsy set: exactly {false, null}.
func Truthy(v Value) bool {
	if v.Kind == KNull {
		return false
	}
	if v.Kind == KBool {
		return v.b
	}
	return true
}

// identity returns a pointer suitable for cycle detection and for
// reference-identity comparisons (arrays, objects, functions, oracles).
func (v Value) identity() interface{} {
	switch v.Kind {
	case KArray:
		return v.arr
	case KObject:
		return v.obj
	case KFunction:
		return v.fn
	case KOracle:
		return v.orc
	}
	return nil
}
