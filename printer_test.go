package mindscript

import "testing"

func TestStringifyScalars(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null, "null"},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
		{"int", Int(42), "42"},
		{"num", Num(3.5), "3.5"},
		{"str-top-level-unquoted", Str("hi"), "hi"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Stringify(c.v); got != c.want {
				t.Errorf("Stringify(%v) = %q, want %q", c.v, got, c.want)
			}
		})
	}
}

func TestStringifyArrayQuotesNestedStrings(t *testing.T) {
	v := NewArray([]Value{Str("a"), Int(1)})
	got := Stringify(v)
	want := `["a", 1]`
	if got != want {
		t.Errorf("Stringify(%v) = %q, want %q", v, got, want)
	}
}

func TestStringifyObject(t *testing.T) {
	v := NewObject([]string{"x", "y"}, map[string]Value{"x": Int(1), "y": Str("a")})
	got := Stringify(v)
	want := `{x: 1, y: "a"}`
	if got != want {
		t.Errorf("Stringify(%v) = %q, want %q", v, got, want)
	}
}

func TestStringifyCycle(t *testing.T) {
	a := NewArray(nil)
	a.SetItems([]Value{a})
	got := Stringify(a)
	want := "[<cycle>]"
	if got != want {
		t.Errorf("Stringify of a self-referencing array = %q, want %q", got, want)
	}
}

func TestStringifyAnnotation(t *testing.T) {
	v := Int(5).WithAnnotation("a note")
	got := Stringify(v)
	want := "# a note\n5"
	if got != want {
		t.Errorf("Stringify(annotated 5) = %q, want %q", got, want)
	}
}
