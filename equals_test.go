package mindscript

import "testing"

func TestValueEqualsScalars(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"null-null", Null, Null, true},
		{"true-true", Bool(true), Bool(true), true},
		{"true-false", Bool(true), Bool(false), false},
		{"int-int", Int(3), Int(3), true},
		{"int-num", Int(3), Num(3.0), true},
		{"num-num-diff", Num(3.1), Num(3.2), false},
		{"str-str", Str("a"), Str("a"), true},
		{"str-str-diff", Str("a"), Str("b"), false},
		{"null-false", Null, Bool(false), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ValueEquals(c.a, c.b); got != c.want {
				t.Errorf("ValueEquals(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestValueEqualsArraysAndObjects(t *testing.T) {
	a := NewArray([]Value{Int(1), Int(2), Int(3)})
	b := NewArray([]Value{Int(1), Int(2), Int(3)})
	if !ValueEquals(a, b) {
		t.Error("equal arrays compared unequal")
	}
	c := NewArray([]Value{Int(1), Int(2)})
	if ValueEquals(a, c) {
		t.Error("different-length arrays compared equal")
	}

	o1 := NewObject([]string{"x", "y"}, map[string]Value{"x": Int(1), "y": Int(2)})
	o2 := NewObject([]string{"y", "x"}, map[string]Value{"y": Int(2), "x": Int(1)})
	if !ValueEquals(o1, o2) {
		t.Error("objects with same keys in different order compared unequal")
	}
}

func TestValueEqualsCycle(t *testing.T) {
	a := NewArray(nil)
	a.SetItems([]Value{a})
	b := NewArray(nil)
	b.SetItems([]Value{b})
	if !ValueEquals(a, b) {
		t.Error("self-referencing arrays of the same shape should compare equal, not hang")
	}
}

func TestValueEqualsReflexiveSymmetricTransitive(t *testing.T) {
	x := NewArray([]Value{Str("a"), Int(1)})
	y := NewArray([]Value{Str("a"), Int(1)})
	z := NewArray([]Value{Str("a"), Int(1)})
	if !ValueEquals(x, x) {
		t.Error("equality is not reflexive")
	}
	if ValueEquals(x, y) != ValueEquals(y, x) {
		t.Error("equality is not symmetric")
	}
	if ValueEquals(x, y) && ValueEquals(y, z) && !ValueEquals(x, z) {
		t.Error("equality is not transitive")
	}
}

func TestValueEqualsFunctionsByIdentity(t *testing.T) {
	f1 := NewFunction(&functionVal{Name: "f"})
	f2 := NewFunction(&functionVal{Name: "f"})
	if ValueEquals(f1, f2) {
		t.Error("distinct function values with the same shape should not be equal")
	}
	if !ValueEquals(f1, f1) {
		t.Error("a function value should equal itself")
	}
}
