package mindscript

import "testing"

func TestIsSubtypeReflexiveTransitive(t *testing.T) {
	types := []*Type{
		NullType, BoolType, IntType, NumType, StrType, AnyType,
		arrayOf(IntType), objectOf([]Field{{Name: "x", Type: IntType, Required: true}}),
		arrowOf(IntType, IntType), optionalOf(IntType),
	}
	for _, ty := range types {
		if !IsSubtype(ty, ty) {
			t.Errorf("IsSubtype(%v, %v) should be reflexive", ty, ty)
		}
	}
	if !IsSubtype(IntType, NumType) || !IsSubtype(NumType, AnyType) || !IsSubtype(IntType, AnyType) {
		t.Error("subtyping should be transitive across Int <= Num <= Any")
	}
}

func TestIsSubtypeArray(t *testing.T) {
	if !IsSubtype(arrayOf(IntType), arrayOf(NumType)) {
		t.Error("[Int] should be a subtype of [Num]")
	}
	if IsSubtype(arrayOf(NumType), arrayOf(IntType)) {
		t.Error("[Num] should not be a subtype of [Int]")
	}
}

func TestIsSubtypeArrowContravariant(t *testing.T) {
	// (Num -> Int) <= (Int -> Num): contravariant in the param, covariant in
	// the result.
	narrow := arrowOf(NumType, IntType)
	wide := arrowOf(IntType, NumType)
	if !IsSubtype(narrow, wide) {
		t.Error("Num -> Int should be a subtype of Int -> Num")
	}
	if IsSubtype(wide, narrow) {
		t.Error("Int -> Num should not be a subtype of Num -> Int")
	}
}

func TestIsSubtypeObjectWidthAndDepth(t *testing.T) {
	wide := objectOf([]Field{{Name: "x", Type: IntType, Required: true}})
	narrow := objectOf([]Field{
		{Name: "x", Type: IntType, Required: true},
		{Name: "y", Type: StrType, Required: true},
	})
	if !IsSubtype(narrow, wide) {
		t.Error("an object with extra fields should be a subtype of one naming fewer")
	}
	if IsSubtype(wide, narrow) {
		t.Error("an object missing a required field should not be a subtype")
	}
}

func TestIsSubtypeOptional(t *testing.T) {
	if !IsSubtype(NullType, optionalOf(IntType)) {
		t.Error("Null should be a subtype of Int?")
	}
	if !IsSubtype(IntType, optionalOf(IntType)) {
		t.Error("Int should be a subtype of Int?")
	}
	if IsSubtype(optionalOf(IntType), IntType) {
		t.Error("Int? should not be a subtype of Int")
	}
}

func TestTypeStringRoundTrip(t *testing.T) {
	cases := []*Type{
		IntType,
		arrayOf(StrType),
		objectOf([]Field{{Name: "x", Type: IntType, Required: true}, {Name: "y", Type: StrType, Required: false}}),
		arrowOf(IntType, BoolType),
		optionalOf(NumType),
	}
	for _, ty := range cases {
		s := ty.String()
		parsed, err := ParseTypeExprString(s)
		if err != nil {
			t.Fatalf("%q: failed to reparse: %v", s, err)
		}
		if !equalTypes(parsed, ty) {
			t.Errorf("%q did not round-trip: got %v", s, parsed)
		}
	}
}

func TestIsSubtypeEnumBase(t *testing.T) {
	enum := enumOf(IntType, []Value{Int(1), Int(2), Int(3)})
	if !IsSubtype(enum, IntType) {
		t.Error("Enum(Int, [1,2,3]) should be a subtype of Int")
	}
	if !IsSubtype(enum, NumType) {
		t.Error("Enum(Int, [1,2,3]) should be a subtype of Num via Int <= Num")
	}
	if IsSubtype(IntType, enum) {
		t.Error("Int should not be a subtype of Enum(Int, [1,2,3])")
	}
}

func TestConformsEnum(t *testing.T) {
	enum := enumOf(StrType, []Value{Str("a"), Str("b")})
	if !Conforms(Str("a"), enum) {
		t.Error("a declared enum value should conform")
	}
	if Conforms(Str("c"), enum) {
		t.Error("an undeclared value should not conform to an enum type")
	}
}
