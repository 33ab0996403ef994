package mindscript

import (
	"fmt"
	"strings"
)

// TypeKind classifies a type term (spec §3.4).
type TypeKind int

const (
	TNull TypeKind = iota
	TBool
	TInt
	TNum
	TStr
	TTypeType // the type of type values themselves ("Type")
	TAny
	TArray
	TObject
	TArrow
	TOptional
	TEnum
)

func (k TypeKind) String() string {
	switch k {
	case TNull:
		return "Null"
	case TBool:
		return "Bool"
	case TInt:
		return "Int"
	case TNum:
		return "Num"
	case TStr:
		return "Str"
	case TTypeType:
		return "Type"
	case TAny:
		return "Any"
	case TArray:
		return "Array"
	case TObject:
		return "Object"
	case TArrow:
		return "Arrow"
	case TOptional:
		return "Optional"
	case TEnum:
		return "Enum"
	}
	return "?"
}

// Field is one member of an object-shape type term.
type Field struct {
	Name     string
	Type     *Type
	Required bool
}

// Type is a reified type term: a value-of-kind-"type" subset of the runtime
// value universe, per spec §3.4. Exactly the fields relevant to Kind are
// meaningful; the rest are zero.
type Type struct {
	Kind TypeKind

	Elem *Type // TArray, TOptional element type

	Fields []Field // TObject, in declaration order

	Param  *Type // TArrow domain
	Result *Type // TArrow codomain

	Base   *Type   // TEnum base type
	Values []Value // TEnum permitted values
}

// Primitive type singletons. These are safe to share because Type values
// are never mutated after construction.
var (
	NullType = &Type{Kind: TNull}
	BoolType = &Type{Kind: TBool}
	IntType  = &Type{Kind: TInt}
	NumType  = &Type{Kind: TNum}
	StrType  = &Type{Kind: TStr}
	TypeType = &Type{Kind: TTypeType}
	AnyType  = &Type{Kind: TAny}
	// ArrayAnyType is "Array", the supertype of every array shape: [Any].
	ArrayAnyType = &Type{Kind: TArray, Elem: AnyType}
	// ObjectAnyType is "Object", the empty object shape and supertype of
	// every object shape.
	ObjectAnyType = &Type{Kind: TObject}
	// FunType is "Fun", the supertype of every arrow: Any -> Any.
	FunType = &Type{Kind: TArrow, Param: AnyType, Result: AnyType}
)

func arrayOf(t *Type) *Type       { return &Type{Kind: TArray, Elem: t} }
func optionalOf(t *Type) *Type    { return &Type{Kind: TOptional, Elem: t} }
func arrowOf(a, b *Type) *Type    { return &Type{Kind: TArrow, Param: a, Result: b} }
func objectOf(f []Field) *Type    { return &Type{Kind: TObject, Fields: f} }
func enumOf(b *Type, vs []Value) *Type { return &Type{Kind: TEnum, Base: b, Values: vs} }

// String renders t in the surface syntax described in spec §3.4/§4.2, such
// that parsing it back with ParseTypeExprString yields an equal term (spec
// §8's round-trip property).
func (t *Type) String() string {
	if t == nil {
		return "Any"
	}
	switch t.Kind {
	case TNull, TBool, TInt, TNum, TStr, TTypeType, TAny:
		return t.Kind.String()
	case TArray:
		return "[" + t.Elem.String() + "]"
	case TObject:
		if len(t.Fields) == 0 {
			return "{}"
		}
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			mark := ""
			if f.Required {
				mark = "!"
			}
			parts[i] = fmt.Sprintf("%s%s: %s", f.Name, mark, f.Type.String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case TArrow:
		if t.Param != nil && t.Param.Kind == TArrow {
			return "(" + t.Param.String() + ") -> " + t.Result.String()
		}
		return t.Param.String() + " -> " + t.Result.String()
	case TOptional:
		if t.Elem != nil && t.Elem.Kind == TArrow {
			return "(" + t.Elem.String() + ")?"
		}
		return t.Elem.String() + "?"
	case TEnum:
		// Stringify of the array quotes string members, so they reparse as
		// string literals rather than identifiers.
		return fmt.Sprintf("Enum(%s, %s)", t.Base.String(), Stringify(NewArray(t.Values)))
	}
	return "?"
}

// equalTypes reports term equality after normalization, used by ValueEquals
// for Type values (spec §4.5's equality rule for type values).
func equalTypes(a, b *Type) bool {
	a, b = normalizeType(a), normalizeType(b)
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TArray, TOptional:
		return equalTypes(a.Elem, b.Elem)
	case TObject:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name || a.Fields[i].Required != b.Fields[i].Required {
				return false
			}
			if !equalTypes(a.Fields[i].Type, b.Fields[i].Type) {
				return false
			}
		}
		return true
	case TArrow:
		return equalTypes(a.Param, b.Param) && equalTypes(a.Result, b.Result)
	case TEnum:
		if !equalTypes(a.Base, b.Base) || len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !ValueEquals(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	}
	return true
}

func normalizeType(t *Type) *Type {
	if t == nil {
		return AnyType
	}
	return t
}

// IsSubtype decides the structural subtype relation a <= b described in
// spec §3.4/§4.4. It is reflexive and transitive by construction.
func IsSubtype(a, b *Type) bool {
	a, b = normalizeType(a), normalizeType(b)
	if b.Kind == TAny {
		return true
	}
	if a.Kind == TOptional {
		// A? <= B iff Null <= B and A <= B (B may or may not be optional).
		return IsSubtype(NullType, b) && IsSubtype(a.Elem, b)
	}
	if a.Kind == TEnum && b.Kind != TEnum {
		// Enum(T, S) <= T: an enum is a subtype of its own base type.
		return IsSubtype(a.Base, b)
	}
	switch b.Kind {
	case TOptional:
		if a.Kind == TNull {
			return true
		}
		return IsSubtype(a, b.Elem)
	case TNull, TBool, TStr, TTypeType:
		return a.Kind == b.Kind
	case TInt:
		return a.Kind == TInt
	case TNum:
		return a.Kind == TInt || a.Kind == TNum
	case TArray:
		if a.Kind != TArray {
			return false
		}
		return IsSubtype(a.Elem, b.Elem)
	case TObject:
		if a.Kind != TObject {
			return false
		}
		return objectIsSubtype(a, b)
	case TArrow:
		if a.Kind != TArrow {
			return false
		}
		// Contravariant in the parameter, covariant in the result.
		return IsSubtype(b.Param, a.Param) && IsSubtype(a.Result, b.Result)
	case TEnum:
		if a.Kind != TEnum || !equalTypes(a.Base, b.Base) {
			return false
		}
		return valueSetSubset(a.Values, b.Values)
	}
	return false
}

func objectIsSubtype(a, b *Type) bool {
	for _, bf := range b.Fields {
		af, ok := findField(a.Fields, bf.Name)
		if !ok {
			if bf.Required {
				return false
			}
			continue
		}
		if !IsSubtype(af.Type, bf.Type) {
			return false
		}
		if bf.Required && !af.Required {
			return false
		}
	}
	return true
}

func findField(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func valueSetSubset(a, b []Value) bool {
	for _, av := range a {
		found := false
		for _, bv := range b {
			if ValueEquals(av, bv) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// TypeOf returns the type term that most precisely describes v, per spec
// §4.4.
func TypeOf(v Value) *Type {
	switch v.Kind {
	case KNull:
		return NullType
	case KBool:
		return BoolType
	case KInt:
		return IntType
	case KNum:
		return NumType
	case KStr:
		return StrType
	case KType:
		return TypeType
	case KArray:
		elems := v.arr.items
		if len(elems) == 0 {
			return arrayOf(AnyType)
		}
		elemT := TypeOf(elems[0])
		for _, e := range elems[1:] {
			elemT = leastUpperBound(elemT, TypeOf(e))
		}
		return arrayOf(elemT)
	case KObject:
		fields := make([]Field, 0, len(v.obj.keys))
		for _, k := range v.obj.keys {
			fields = append(fields, Field{Name: k, Type: TypeOf(v.obj.vals[k]), Required: true})
		}
		return objectOf(fields)
	case KFunction:
		pt := AnyType
		if v.fn.ParamType != nil {
			pt = v.fn.ParamType
		}
		rt := AnyType
		if v.fn.ReturnType != nil {
			rt = v.fn.ReturnType
		}
		return arrowOf(pt, rt)
	case KOracle:
		pt := AnyType
		if v.orc.ParamType != nil {
			pt = v.orc.ParamType
		}
		rt := AnyType
		if v.orc.ReturnType != nil {
			rt = v.orc.ReturnType
		}
		return arrowOf(pt, rt)
	}
	return AnyType
}

// leastUpperBound finds a type both a and b are subtypes of, used to infer
// an array literal's element type (spec §4.4). It is conservative: when
// nothing more specific applies, it returns Any rather than attempting a
// general join of object shapes.
func leastUpperBound(a, b *Type) *Type {
	if equalTypes(a, b) {
		return a
	}
	if IsSubtype(a, b) {
		return b
	}
	if IsSubtype(b, a) {
		return a
	}
	if a.Kind == TArray && b.Kind == TArray {
		return arrayOf(leastUpperBound(a.Elem, b.Elem))
	}
	return AnyType
}

// Conforms reports whether v conforms to t: TypeOf(v) <= t, except that
// concrete values are checked against enum types by set membership rather
// than by subtyping their inferred type (spec §4.4's final clause).
func Conforms(v Value, t *Type) bool {
	t = normalizeType(t)
	if t.Kind == TEnum {
		if !Conforms(v, t.Base) {
			return false
		}
		for _, ev := range t.Values {
			if ValueEquals(v, ev) {
				return true
			}
		}
		return false
	}
	if t.Kind == TOptional {
		if v.Kind == KNull {
			return true
		}
		return Conforms(v, t.Elem)
	}
	return IsSubtype(TypeOf(v), t)
}
