package mindscript

import (
	"context"
	"fmt"
)

// native wraps a unary NativeFunc as a callable Value.
func native(f NativeFunc) Value {
	return NewFunction(&functionVal{Native: f})
}

// nativeN curries an n-ary native builtin into n nested unary closures, the
// same shape user-defined multi-parameter functions take after the parser
// desugars them (spec §4.2). Builtins that take more than one argument are
// built this way rather than by hand-writing each curry layer.
func nativeN(n int, f func(ip *Interpreter, args []Value, pos Position) (Value, error)) Value {
	var build func(acc []Value) Value
	build = func(acc []Value) Value {
		return native(func(ip *Interpreter, arg Value, pos Position) (Value, error) {
			next := make([]Value, len(acc), len(acc)+1)
			copy(next, acc)
			next = append(next, arg)
			if len(next) == n {
				return f(ip, next, pos)
			}
			return build(next), nil
		})
	}
	return build(nil)
}

// installBuiltins seeds env with the root bindings spec §4.6 requires every
// conforming implementation to expose, plus the arithmetic/string/
// collection/serialization/time helpers a realistic standard library is
// built atop.
func installBuiltins(env *Env, ip *Interpreter) {
	env.Define("print", native(biPrint))
	env.Define("println", native(biPrintln))
	env.Define("str", native(biStr))
	env.Define("assert", native(biAssert))
	env.Define("iter", native(biIter))
	env.Define("typeOf", native(biTypeOf))
	env.Define("isSubtype", nativeN(2, biIsSubtype))
	env.Define("getEnv", native(func(ip *Interpreter, _ Value, pos Position) (Value, error) {
		return env.Snapshot(), nil
	}))
	env.Define("import", native(biImport))
	env.Define("netImport", native(biNetImport))

	installStringBuiltins(env)
	installCollectionBuiltins(env)
	installMathBuiltins(env)
	installJSONBuiltins(env)
	installTimeBuiltins(env)
	installSysBuiltins(env)
}

func biPrint(ip *Interpreter, arg Value, pos Position) (Value, error) {
	fmt.Print(Stringify(arg))
	return Null, nil
}

func biPrintln(ip *Interpreter, arg Value, pos Position) (Value, error) {
	fmt.Println(Stringify(arg))
	return Null, nil
}

func biStr(ip *Interpreter, arg Value, pos Position) (Value, error) {
	return Str(Stringify(arg)), nil
}

func biAssert(ip *Interpreter, arg Value, pos Position) (Value, error) {
	if !Truthy(arg) {
		return Value{}, valueError(pos, "assertion failed")
	}
	return Null, nil
}

// biIter implements the iterator protocol (spec §3.6/§4.6): from an array,
// an iterator yielding elements in order; from an object, an iterator
// yielding [key, value] pairs in insertion order; from a function, itself
// unchanged (it is already an iterator).
func biIter(ip *Interpreter, arg Value, pos Position) (Value, error) {
	switch arg.Kind {
	case KArray:
		items := arg.Items()
		i := 0
		return native(func(ip *Interpreter, _ Value, pos Position) (Value, error) {
			if i >= len(items) {
				return Null, nil
			}
			v := items[i]
			i++
			return v, nil
		}), nil
	case KObject:
		keys := arg.Keys()
		i := 0
		return native(func(ip *Interpreter, _ Value, pos Position) (Value, error) {
			if i >= len(keys) {
				return Null, nil
			}
			k := keys[i]
			i++
			v, _ := arg.Get(k)
			return NewArray([]Value{Str(k), v}), nil
		}), nil
	case KFunction:
		return arg, nil
	}
	return Value{}, typeError(pos, "iter requires an array, object, or function, got %s", arg.Kind)
}

func biTypeOf(ip *Interpreter, arg Value, pos Position) (Value, error) {
	return TypeVal(TypeOf(arg)), nil
}

func biIsSubtype(ip *Interpreter, args []Value, pos Position) (Value, error) {
	a, b := args[0], args[1]
	if a.Kind != KType || b.Kind != KType {
		return Value{}, typeError(pos, "isSubtype requires two Type values")
	}
	return Bool(IsSubtype(a.TypeData(), b.TypeData())), nil
}

func biImport(ip *Interpreter, arg Value, pos Position) (Value, error) {
	if arg.Kind != KStr {
		return Value{}, typeError(pos, "import requires a Str path, got %s", arg.Kind)
	}
	src, err := ip.loader.Load(arg.StrOf())
	if err != nil {
		return Value{}, valueError(pos, "import %q: %v", arg.StrOf(), err)
	}
	return ip.runModule(src, arg.StrOf())
}

func biNetImport(ip *Interpreter, arg Value, pos Position) (Value, error) {
	if arg.Kind != KStr {
		return Value{}, typeError(pos, "netImport requires a Str url, got %s", arg.Kind)
	}
	src, err := ip.fetcher.Fetch(context.Background(), arg.StrOf())
	if err != nil {
		return Value{}, valueError(pos, "netImport %q: %v", arg.StrOf(), err)
	}
	return ip.runModule(src, arg.StrOf())
}
