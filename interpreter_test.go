package mindscript

import (
	"errors"
	"testing"
)

func runOK(t *testing.T, src string) Value {
	t.Helper()
	ip := NewInterpreter()
	v, err := ip.RunSource(src, "test")
	if err != nil {
		t.Fatalf("%q: unexpected error: %v", src, err)
	}
	return v
}

func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want Value
	}{
		{
			"factorial",
			`let factorial = fun(n: Int) -> Int do if n==0 or n==1 do 1 else n*factorial(n-1) end end; factorial(5)`,
			Int(120),
		},
		{
			"curried-adder",
			`let mk = fun(n: Int) -> Int -> Int do fun(m: Int) -> Int do n + m end end; mk(5)(3)`,
			Int(8),
		},
		{
			"array-destructure",
			`[let x, let y] = [0, 1]; x + y`,
			Int(1),
		},
		{
			"object-field-arithmetic",
			`let p = {x: 1., y: -1.}; let q = {x: -1., y: 1.}; {x: p.x + q.x, y: p.y + q.y}`,
			NewObject([]string{"x", "y"}, map[string]Value{"x": Num(0), "y": Num(0)}),
		},
		{
			"iterator-closure-for-loop",
			`let r = fun(s: Int, e: Int) do fun() do if s < e do let v = s; s = s + 1; v else null end end end; let out = []; for let v in r(1,4) do out = out + [v] end; out`,
			NewArray([]Value{Int(1), Int(2), Int(3)}),
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := runOK(t, c.src)
			if !ValueEquals(got, c.want) {
				t.Errorf("got %v, want %v", Stringify(got), Stringify(c.want))
			}
		})
	}
}

func TestIsSubtypeScenarios(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{`isSubtype(type [Int], type [Any])`, true},
		{`isSubtype(type {name: Str}, type {})`, true},
		{`isSubtype(type {}, type {name!: Str})`, false},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			got := runOK(t, c.src)
			if got.Kind != KBool || got.BoolOf() != c.want {
				t.Errorf("%q = %v, want %v", c.src, Stringify(got), c.want)
			}
		})
	}
}

func TestCurryingEquivalence(t *testing.T) {
	a := runOK(t, `let f = fun(a: Int, b: Int) do a + b end; f(3, 4)`)
	b := runOK(t, `let f = fun(a: Int, b: Int) do a + b end; f(3)(4)`)
	if !ValueEquals(a, b) {
		t.Errorf("f(a, b) should equal f(a)(b): got %v and %v", Stringify(a), Stringify(b))
	}
}

func TestShortCircuitAnd(t *testing.T) {
	got := runOK(t, `let calls = []; let sideEffect = fun() do calls = calls + [1]; true end; let r = false and sideEffect(); len(calls)`)
	if !ValueEquals(got, Int(0)) {
		t.Errorf("false and e should never evaluate e, but calls has length %v", Stringify(got))
	}
}

func TestShortCircuitOr(t *testing.T) {
	got := runOK(t, `let calls = []; let sideEffect = fun() do calls = calls + [1]; true end; let r = true or sideEffect(); len(calls)`)
	if !ValueEquals(got, Int(0)) {
		t.Errorf("true or e should never evaluate e, but calls has length %v", Stringify(got))
	}
}

func TestClosureCapturesFrameAtCreation(t *testing.T) {
	got := runOK(t, `
let make = fun() do
	let x = 1
	let get = fun() do x end
	x = 2
	get()
end
make()
`)
	if !ValueEquals(got, Int(2)) {
		t.Errorf("closure should see the mutation to its captured frame: got %v", Stringify(got))
	}
}

func TestThisDefaultsNullOutsideMemberCall(t *testing.T) {
	got := runOK(t, `let f = fun() do this end; f()`)
	if got.Kind != KNull {
		t.Errorf("this outside a member call should be null, got %v", Stringify(got))
	}
}

func TestThisBoundToMemberReceiver(t *testing.T) {
	got := runOK(t, `
let obj = {greet: fun() do this end}
obj.greet()
`)
	if got.Kind != KObject {
		t.Errorf("this inside a member call should bind to the receiver object, got %v", Stringify(got))
	}
}

func TestBreakStopsLoopWithValue(t *testing.T) {
	got := runOK(t, `
let it = fun() do
	let i = 0
	fun() do
		i = i + 1
		if i > 10 do null else i end
	end
end
for let v in it() do
	if v == 3 do break v end
end
`)
	if !ValueEquals(got, Int(3)) {
		t.Errorf("break value should propagate as the loop's value: got %v", Stringify(got))
	}
}

func TestRuntimeErrorKinds(t *testing.T) {
	cases := map[string]ErrorKind{
		"undefinedName":            KindNameError,
		`1 + "a"`:                  KindTypeError,
		"1 / 0":                    KindValueError,
	}
	for src, kind := range cases {
		t.Run(src, func(t *testing.T) {
			ip := NewInterpreter()
			_, err := ip.RunSource(src, "test")
			if err == nil {
				t.Fatalf("%q: expected an error", src)
			}
			var rerr *RuntimeError
			if !errors.As(err, &rerr) {
				t.Fatalf("%q: error %v does not wrap a *RuntimeError", src, err)
			}
			if rerr.Kind != kind {
				t.Errorf("%q: kind = %v, want %v", src, rerr.Kind, kind)
			}
		})
	}
}
