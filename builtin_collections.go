package mindscript

// installCollectionBuiltins seeds the array/object helpers the standard
// library built on top of the core (spec §4.6's "plus arithmetic/string
// helpers referenced by the library") needs: map/filter/reduce over the
// iterator protocol, plus direct array/object accessors.
func installCollectionBuiltins(env *Env) {
	env.Define("len", native(biLen))
	env.Define("push", nativeN(2, biPush))
	env.Define("pop", native(biPop))
	env.Define("shift", native(biShift))
	env.Define("unshift", nativeN(2, biUnshift))
	env.Define("slice", nativeN(3, biSlice))
	env.Define("keys", native(biKeys))
	env.Define("values", native(biValues))
	env.Define("exists", nativeN(2, biExists))
	env.Define("delete", nativeN(2, biDelete))
	env.Define("map", nativeN(2, biMap))
	env.Define("filter", nativeN(2, biFilter))
	env.Define("reduce", nativeN(3, biReduce))
}

func biLen(ip *Interpreter, arg Value, pos Position) (Value, error) {
	switch arg.Kind {
	case KArray:
		return Int(int64(len(arg.Items()))), nil
	case KObject:
		return Int(int64(len(arg.Keys()))), nil
	case KStr:
		return Int(int64(len([]rune(arg.StrOf())))), nil
	}
	return Value{}, typeError(pos, "len requires an array, object, or string, got %s", arg.Kind)
}

// biPush appends v to arr in place and returns the same array value, so
// that `arr = push(arr, v)` and `push(arr, v)` are both idiomatic depending
// on whether the caller wants to rely on the mutation or the result.
func biPush(ip *Interpreter, args []Value, pos Position) (Value, error) {
	arr, v := args[0], args[1]
	if arr.Kind != KArray {
		return Value{}, typeError(pos, "push requires an array, got %s", arr.Kind)
	}
	arr.SetItems(append(arr.Items(), v))
	return arr, nil
}

// biPop removes and returns the last element of an array, mutating it in
// place.
func biPop(ip *Interpreter, arg Value, pos Position) (Value, error) {
	if arg.Kind != KArray {
		return Value{}, typeError(pos, "pop requires an array, got %s", arg.Kind)
	}
	items := arg.Items()
	if len(items) == 0 {
		return Value{}, valueError(pos, "pop on an empty array")
	}
	last := items[len(items)-1]
	arg.SetItems(items[:len(items)-1])
	return last, nil
}

// biShift removes and returns the first element of an array, mutating it in
// place.
func biShift(ip *Interpreter, arg Value, pos Position) (Value, error) {
	if arg.Kind != KArray {
		return Value{}, typeError(pos, "shift requires an array, got %s", arg.Kind)
	}
	items := arg.Items()
	if len(items) == 0 {
		return Value{}, valueError(pos, "shift on an empty array")
	}
	first := items[0]
	arg.SetItems(items[1:])
	return first, nil
}

// biUnshift inserts v at the front of arr in place and returns the same
// array value, mirroring push's return-the-array-back convention.
func biUnshift(ip *Interpreter, args []Value, pos Position) (Value, error) {
	arr, v := args[0], args[1]
	if arr.Kind != KArray {
		return Value{}, typeError(pos, "unshift requires an array, got %s", arr.Kind)
	}
	arr.SetItems(append([]Value{v}, arr.Items()...))
	return arr, nil
}

// biSlice returns the elements of arr between s and e (exclusive),
// supporting negative indices as offsets from the end.
func biSlice(ip *Interpreter, args []Value, pos Position) (Value, error) {
	arr, sv, ev := args[0], args[1], args[2]
	if arr.Kind != KArray {
		return Value{}, typeError(pos, "slice requires an array, got %s", arr.Kind)
	}
	if sv.Kind != KInt || ev.Kind != KInt {
		return Value{}, typeError(pos, "slice requires (Array, Int, Int) arguments")
	}
	items := arr.Items()
	s, e := int(sv.IntOf()), int(ev.IntOf())
	if s < 0 {
		s += len(items)
	}
	if e < 0 {
		e += len(items)
	}
	if s < 0 || e > len(items) || s > e {
		return Value{}, valueError(pos, "slice index out of range")
	}
	out := make([]Value, e-s)
	copy(out, items[s:e])
	return NewArray(out), nil
}

func biKeys(ip *Interpreter, arg Value, pos Position) (Value, error) {
	if arg.Kind != KObject {
		return Value{}, typeError(pos, "keys requires an object, got %s", arg.Kind)
	}
	keys := arg.Keys()
	out := make([]Value, len(keys))
	for i, k := range keys {
		out[i] = Str(k)
	}
	return NewArray(out), nil
}

func biValues(ip *Interpreter, arg Value, pos Position) (Value, error) {
	if arg.Kind != KObject {
		return Value{}, typeError(pos, "values requires an object, got %s", arg.Kind)
	}
	keys := arg.Keys()
	out := make([]Value, len(keys))
	for i, k := range keys {
		out[i], _ = arg.Get(k)
	}
	return NewArray(out), nil
}

// biExists reports whether key is present on an object, the teacher's
// Map hasKey reshaped for MindScript objects.
func biExists(ip *Interpreter, args []Value, pos Position) (Value, error) {
	obj, key := args[0], args[1]
	if obj.Kind != KObject {
		return Value{}, typeError(pos, "exists requires an object, got %s", obj.Kind)
	}
	if key.Kind != KStr {
		return Value{}, typeError(pos, "exists requires a Str key, got %s", key.Kind)
	}
	_, ok := obj.Get(key.StrOf())
	return Bool(ok), nil
}

// biDelete removes key from an object in place and returns the same object
// value, the teacher's Map removeAt reshaped for MindScript objects. It is
// a no-op, not an error, when the key is absent.
func biDelete(ip *Interpreter, args []Value, pos Position) (Value, error) {
	obj, key := args[0], args[1]
	if obj.Kind != KObject {
		return Value{}, typeError(pos, "delete requires an object, got %s", obj.Kind)
	}
	if key.Kind != KStr {
		return Value{}, typeError(pos, "delete requires a Str key, got %s", key.Kind)
	}
	obj.Delete(key.StrOf())
	return obj, nil
}

func biMap(ip *Interpreter, args []Value, pos Position) (Value, error) {
	fn, arr := args[0], args[1]
	if arr.Kind != KArray {
		return Value{}, typeError(pos, "map requires an array, got %s", arr.Kind)
	}
	items := arr.Items()
	out := make([]Value, len(items))
	for i, it := range items {
		v, err := ip.applyFunction(fn, it, pos, Null)
		if err != nil {
			return Value{}, err
		}
		out[i] = v
	}
	return NewArray(out), nil
}

func biFilter(ip *Interpreter, args []Value, pos Position) (Value, error) {
	fn, arr := args[0], args[1]
	if arr.Kind != KArray {
		return Value{}, typeError(pos, "filter requires an array, got %s", arr.Kind)
	}
	var out []Value
	for _, it := range arr.Items() {
		v, err := ip.applyFunction(fn, it, pos, Null)
		if err != nil {
			return Value{}, err
		}
		if Truthy(v) {
			out = append(out, it)
		}
	}
	return NewArray(out), nil
}

func biReduce(ip *Interpreter, args []Value, pos Position) (Value, error) {
	fn, init, arr := args[0], args[1], args[2]
	if arr.Kind != KArray {
		return Value{}, typeError(pos, "reduce requires an array, got %s", arr.Kind)
	}
	acc := init
	for _, it := range arr.Items() {
		step, err := ip.applyFunction(fn, acc, pos, Null)
		if err != nil {
			return Value{}, err
		}
		next, err := ip.applyFunction(step, it, pos, Null)
		if err != nil {
			return Value{}, err
		}
		acc = next
	}
	return acc, nil
}
