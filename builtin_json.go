package mindscript

import (
	"encoding/json"
	"sort"

	"gopkg.in/yaml.v2"
)

// installJSONBuiltins seeds the two serialization formats a hosted script
// needs to talk to the world outside its own values: JSON via the standard
// library, YAML via the teacher's pack's yaml.v2, both routed through the
// same Value<->interface{} conversion.
func installJSONBuiltins(env *Env) {
	env.Define("toJson", native(biToJSON))
	env.Define("fromJson", native(biFromJSON))
	env.Define("toYaml", native(biToYAML))
	env.Define("fromYaml", native(biFromYAML))
}

func biToJSON(ip *Interpreter, arg Value, pos Position) (Value, error) {
	b, err := json.Marshal(valueToGo(arg))
	if err != nil {
		return Value{}, valueError(pos, "toJson: %v", err)
	}
	return Str(string(b)), nil
}

func biFromJSON(ip *Interpreter, arg Value, pos Position) (Value, error) {
	if arg.Kind != KStr {
		return Value{}, typeError(pos, "fromJson requires a Str argument, got %s", arg.Kind)
	}
	var x interface{}
	if err := json.Unmarshal([]byte(arg.StrOf()), &x); err != nil {
		return Value{}, valueError(pos, "fromJson: %v", err)
	}
	return goToValue(x), nil
}

func biToYAML(ip *Interpreter, arg Value, pos Position) (Value, error) {
	b, err := yaml.Marshal(valueToGo(arg))
	if err != nil {
		return Value{}, valueError(pos, "toYaml: %v", err)
	}
	return Str(string(b)), nil
}

func biFromYAML(ip *Interpreter, arg Value, pos Position) (Value, error) {
	if arg.Kind != KStr {
		return Value{}, typeError(pos, "fromYaml requires a Str argument, got %s", arg.Kind)
	}
	var x interface{}
	if err := yaml.Unmarshal([]byte(arg.StrOf()), &x); err != nil {
		return Value{}, valueError(pos, "fromYaml: %v", err)
	}
	return goToValue(normalizeYAML(x)), nil
}

// valueToGo converts a Value to the plain Go types encoding/json and yaml.v2
// marshal natively. Functions, oracles, and types have no serialized form
// and become nil.
func valueToGo(v Value) interface{} {
	switch v.Kind {
	case KNull:
		return nil
	case KBool:
		return v.BoolOf()
	case KInt:
		return v.IntOf()
	case KNum:
		return v.NumOf()
	case KStr:
		return v.StrOf()
	case KArray:
		items := v.Items()
		out := make([]interface{}, len(items))
		for i, it := range items {
			out[i] = valueToGo(it)
		}
		return out
	case KObject:
		out := make(map[string]interface{})
		for _, k := range v.Keys() {
			val, _ := v.Get(k)
			out[k] = valueToGo(val)
		}
		return out
	}
	return nil
}

// goToValue converts a decoded JSON/YAML tree (maps, slices, strings,
// float64/bool/nil) back into a Value.
func goToValue(x interface{}) Value {
	switch t := x.(type) {
	case nil:
		return Null
	case bool:
		return Bool(t)
	case int64:
		return Int(t)
	case int:
		// yaml.v2 decodes integer scalars that fit a native int as plain
		// int, promoting to int64 only on overflow.
		return Int(int64(t))
	case float64:
		if t == float64(int64(t)) {
			return Int(int64(t))
		}
		return Num(t)
	case string:
		return Str(t)
	case []interface{}:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = goToValue(e)
		}
		return NewArray(items)
	case map[string]interface{}:
		// Go's map iteration order is randomized; sort so a decoded object's
		// field order is deterministic across calls, per an object value's
		// insertion order being observable (keys/values/iter).
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		vals := make(map[string]Value, len(t))
		for _, k := range keys {
			vals[k] = goToValue(t[k])
		}
		return NewObject(keys, vals)
	}
	return Null
}

// normalizeYAML recursively converts yaml.v2's map[interface{}]interface{}
// nodes into map[string]interface{} so goToValue can handle both decoders
// uniformly.
func normalizeYAML(x interface{}) interface{} {
	switch t := x.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, v := range t {
			ks, _ := k.(string)
			out[ks] = normalizeYAML(v)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, v := range t {
			out[i] = normalizeYAML(v)
		}
		return out
	}
	return x
}
