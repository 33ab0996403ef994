package mindscript

import "testing"

func TestParseLiterals(t *testing.T) {
	cases := map[string]Value{
		"1":       Int(1),
		"1.5":     Num(1.5),
		`"a"`:     Str("a"),
		"true":    Bool(true),
		"false":   Bool(false),
		"null":    Null,
	}
	for src, want := range cases {
		t.Run(src, func(t *testing.T) {
			node, err := ParseProgram(src, "test")
			if err != nil {
				t.Fatalf("%q: unexpected parse error: %v", src, err)
			}
			block, ok := node.(*BlockNode)
			if !ok || len(block.Exprs) != 1 {
				t.Fatalf("%q: expected a single-expression program, got %#v", src, node)
			}
			lit, ok := block.Exprs[0].(*LiteralNode)
			if !ok {
				t.Fatalf("%q: expected a LiteralNode, got %#v", src, block.Exprs[0])
			}
			if !ValueEquals(lit.Value, want) {
				t.Errorf("%q: got %v, want %v", src, lit.Value, want)
			}
		})
	}
}

func TestParseCurriesMultiParamFunction(t *testing.T) {
	node, err := ParseProgram("fun(a, b) do a + b end", "test")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	block := node.(*BlockNode)
	outer, ok := block.Exprs[0].(*FuncLitNode)
	if !ok {
		t.Fatalf("expected outer FuncLitNode, got %#v", block.Exprs[0])
	}
	if outer.Param.Name != "a" {
		t.Errorf("outer param name = %q, want %q", outer.Param.Name, "a")
	}
	inner, ok := outer.Body.(*FuncLitNode)
	if !ok {
		t.Fatalf("expected curried inner FuncLitNode, got %#v", outer.Body)
	}
	if inner.Param.Name != "b" {
		t.Errorf("inner param name = %q, want %q", inner.Param.Name, "b")
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3), not (1 + 2) * 3.
	node, err := ParseProgram("1 + 2 * 3", "test")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	block := node.(*BlockNode)
	top, ok := block.Exprs[0].(*BinOpNode)
	if !ok || top.Op != "+" {
		t.Fatalf("expected top-level +, got %#v", block.Exprs[0])
	}
	right, ok := top.Right.(*BinOpNode)
	if !ok || right.Op != "*" {
		t.Fatalf("expected + to nest * on its right, got %#v", top.Right)
	}
}

func TestParseArrayDestructuringAssignment(t *testing.T) {
	node, err := ParseProgram("[let x, let y] = [1, 2]", "test")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	block := node.(*BlockNode)
	assign, ok := block.Exprs[0].(*AssignNode)
	if !ok {
		t.Fatalf("expected AssignNode, got %#v", block.Exprs[0])
	}
	patNode, ok := assign.Target.(*PatternNode)
	if !ok {
		t.Fatalf("expected PatternNode target, got %#v", assign.Target)
	}
	arrPat, ok := patNode.Pattern.(*PatArray)
	if !ok || len(arrPat.Elems) != 2 {
		t.Fatalf("expected a 2-element array pattern, got %#v", patNode.Pattern)
	}
	for i, name := range []string{"x", "y"} {
		leaf, ok := arrPat.Elems[i].(*PatIdent)
		if !ok || !leaf.Let || leaf.Name != name {
			t.Errorf("element %d: got %#v, want let %s", i, arrPat.Elems[i], name)
		}
	}
}

func TestParseIfAcceptsDoAndThen(t *testing.T) {
	for _, src := range []string{
		"if true do 1 else 2 end",
		"if true then 1 else 2 end",
	} {
		t.Run(src, func(t *testing.T) {
			if _, err := ParseProgram(src, "test"); err != nil {
				t.Errorf("%q: unexpected parse error: %v", src, err)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"UnclosedParen":    "(1 + 2",
		"BareOperator":     "+",
		"UnterminatedStr":  `"abc`,
		"MissingEnd":       "if true do 1",
		"BadLet":           "let = 1",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseProgram(src, "test"); err == nil {
				t.Errorf("%q: expected a parse error, got none", src)
			}
		})
	}
}

func TestParseTypeExprRoundTripSurface(t *testing.T) {
	for _, src := range []string{"Int", "[Int]", "Int -> Bool", "Int?"} {
		t.Run(src, func(t *testing.T) {
			ty, err := ParseTypeExprString(src)
			if err != nil {
				t.Fatalf("%q: %v", src, err)
			}
			if ty.String() != src {
				t.Errorf("%q round-tripped as %q", src, ty.String())
			}
		})
	}
}
