package mindscript

import "testing"

func TestCollectionBuiltins(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want Value
	}{
		{"len-array", `len([1, 2, 3])`, Int(3)},
		{"len-str", `len("hello")`, Int(5)},
		{"push", `let a = [1]; push(a, 2); a`, NewArray([]Value{Int(1), Int(2)})},
		{"pop", `let a = [1, 2, 3]; let v = pop(a); [v, a]`, NewArray([]Value{Int(3), NewArray([]Value{Int(1), Int(2)})})},
		{"shift", `let a = [1, 2, 3]; let v = shift(a); [v, a]`, NewArray([]Value{Int(1), NewArray([]Value{Int(2), Int(3)})})},
		{"unshift", `let a = [2, 3]; unshift(a, 1); a`, NewArray([]Value{Int(1), Int(2), Int(3)})},
		{"slice", `slice([1, 2, 3, 4, 5], 1, 3)`, NewArray([]Value{Int(2), Int(3)})},
		{"slice-negative", `slice([1, 2, 3, 4, 5], -2, 5)`, NewArray([]Value{Int(4), Int(5)})},
		{"keys", `keys({a: 1, b: 2})`, NewArray([]Value{Str("a"), Str("b")})},
		{"exists-true", `exists({a: 1}, "a")`, Bool(true)},
		{"exists-false", `exists({a: 1}, "b")`, Bool(false)},
		{"delete", `let o = {a: 1, b: 2}; delete(o, "a"); o`, NewObject([]string{"b"}, map[string]Value{"b": Int(2)})},
		{"map", `map(fun(x) do x * 2 end, [1, 2, 3])`, NewArray([]Value{Int(2), Int(4), Int(6)})},
		{"filter", `filter(fun(x) do x > 1 end, [1, 2, 3])`, NewArray([]Value{Int(2), Int(3)})},
		{"reduce", `reduce(fun(acc) do fun(x) do acc + x end end, 0, [1, 2, 3])`, Int(6)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := runOK(t, c.src)
			if !ValueEquals(got, c.want) {
				t.Errorf("%q = %v, want %v", c.src, Stringify(got), Stringify(c.want))
			}
		})
	}
}

func TestMathBuiltins(t *testing.T) {
	cases := []struct {
		src  string
		want Value
	}{
		{`abs(-3)`, Int(3)},
		{`floor(3.7)`, Int(3)},
		{`ceil(3.2)`, Int(4)},
		{`round(3.5)`, Int(4)},
		{`sqrt(9.)`, Num(3)},
		{`pow(2, 3)`, Int(8)},
		{`min(2, 5)`, Int(2)},
		{`max(2, 5)`, Int(5)},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			got := runOK(t, c.src)
			if !ValueEquals(got, c.want) {
				t.Errorf("%q = %v, want %v", c.src, Stringify(got), Stringify(c.want))
			}
		})
	}
}

func TestStringBuiltins(t *testing.T) {
	cases := []struct {
		src  string
		want Value
	}{
		{`strUpper("abc")`, Str("ABC")},
		{`strLower("ABC")`, Str("abc")},
		{`strTrim("  abc  ")`, Str("abc")},
		{`strContains("abcdef", "cd")`, Bool(true)},
		{`strReplace("abcabc", "a", "x")`, Str("xbcxbc")},
		{`strJoin(["a", "b", "c"], "-")`, Str("a-b-c")},
		{`strSplit("a-b-c", "-")`, NewArray([]Value{Str("a"), Str("b"), Str("c")})},
		{`strSlice("abcdef", 1, 3)`, Str("bc")},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			got := runOK(t, c.src)
			if !ValueEquals(got, c.want) {
				t.Errorf("%q = %v, want %v", c.src, Stringify(got), Stringify(c.want))
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	got := runOK(t, `fromJson(toJson({a: 1, b: [1, 2, 3]}))`)
	want := NewObject([]string{"a", "b"}, map[string]Value{
		"a": Int(1),
		"b": NewArray([]Value{Int(1), Int(2), Int(3)}),
	})
	if !ValueEquals(got, want) {
		t.Errorf("toJson/fromJson round trip = %v, want %v", Stringify(got), Stringify(want))
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	got := runOK(t, `fromYaml(toYaml({a: 1, b: [1, 2, 3]}))`)
	want := NewObject([]string{"a", "b"}, map[string]Value{
		"a": Int(1),
		"b": NewArray([]Value{Int(1), Int(2), Int(3)}),
	})
	if !ValueEquals(got, want) {
		t.Errorf("toYaml/fromYaml round trip = %v, want %v", Stringify(got), Stringify(want))
	}
}

func TestFromJSONObjectKeyOrderIsDeterministic(t *testing.T) {
	got := runOK(t, `keys(fromJson("{\"z\": 1, \"a\": 2, \"m\": 3}"))`)
	want := NewArray([]Value{Str("a"), Str("m"), Str("z")})
	if !ValueEquals(got, want) {
		t.Errorf("fromJson object key order = %v, want %v", Stringify(got), Stringify(want))
	}
}

func TestYAMLDecodesPlainIntScalar(t *testing.T) {
	got := runOK(t, `fromYaml("x: 5")`)
	want := NewObject([]string{"x"}, map[string]Value{"x": Int(5)})
	if !ValueEquals(got, want) {
		t.Errorf("fromYaml(%q) = %v, want %v", "x: 5", Stringify(got), Stringify(want))
	}
}

func TestIterBuiltinOverArray(t *testing.T) {
	got := runOK(t, `
let it = iter([10, 20])
let out = []
for let v in it do out = out + [v] end
out
`)
	want := NewArray([]Value{Int(10), Int(20)})
	if !ValueEquals(got, want) {
		t.Errorf("iter over an array = %v, want %v", Stringify(got), Stringify(want))
	}
}

func TestAssertRaisesOnFalsy(t *testing.T) {
	ip := NewInterpreter()
	if _, err := ip.RunSource(`assert(false)`, "test"); err == nil {
		t.Error("assert(false) should raise an error")
	}
	if _, err := ip.RunSource(`assert(true)`, "test"); err != nil {
		t.Errorf("assert(true) should not raise, got %v", err)
	}
}
