package mindscript

import "testing"

func TestLexSingles(t *testing.T) {
	cases := map[string]struct {
		text string
		kind TokKind
		text2 string
	}{
		"Int":             {"1234", TokInt, "1234"},
		"Int-zero":        {"0", TokInt, "0"},
		"Num-dot":         {"12.5", TokNum, "12.5"},
		"Num-exp":         {"1e9", TokNum, "1e9"},
		"Num-exp-signed":  {"1e-9", TokNum, "1e-9"},
		"Num-trailing-dot": {"1.", TokNum, "1."},
		"Ident":           {"abcd", TokIdent, "abcd"},
		"Ident-underscore": {"_x1", TokIdent, "_x1"},
		"Keyword-let":     {"let", TokLet, "let"},
		"Keyword-fun":     {"fun", TokFun, "fun"},
		"Keyword-oracle":  {"oracle", TokOracle, "oracle"},
		"Str-double":      {`"hi"`, TokStr, "hi"},
		"Str-single":      {"'hi'", TokStr, "hi"},
		"Str-escape":      {`"a\nb"`, TokStr, "a\nb"},
		"Arrow":           {"->", TokArrow, "->"},
		"EqEq":            {"==", TokEqEq, "=="},
		"NotEq":           {"!=", TokNotEq, "!="},
		"Le":              {"<=", TokLe, "<="},
		"Hash":            {"#", TokHash, "#"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			l := NewLexer(c.text, "test")
			tok, err := l.Next()
			if err != nil {
				t.Fatalf("%q: unexpected lex error: %v", c.text, err)
			}
			if tok.Kind != c.kind {
				t.Errorf("%q lexed as wrong kind: wanted %v, got %v", c.text, c.kind, tok.Kind)
			}
			if tok.Text != c.text2 {
				t.Errorf("%q lexed with wrong text: wanted %q, got %q", c.text, c.text2, tok.Text)
			}
		})
	}
}

func TestLexMulti(t *testing.T) {
	l := NewLexer("let x = 1 + 2", "test")
	var kinds []TokKind
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		if tok.Kind == TokEOF {
			break
		}
		kinds = append(kinds, tok.Kind)
	}
	want := []TokKind{TokLet, TokIdent, TokEq, TokInt, TokPlus, TokInt}
	if len(kinds) != len(want) {
		t.Fatalf("wrong token count: wanted %v, got %v", want, kinds)
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("token %d: wanted %v, got %v", i, k, kinds[i])
		}
	}
}

func TestLexUnterminatedString(t *testing.T) {
	l := NewLexer(`"abcd`, "test")
	_, err := l.Next()
	if err == nil {
		t.Fatal("expected a lex error for an unterminated string")
	}
}

func TestLexBareAnnotation(t *testing.T) {
	l := NewLexer("# a free-form note\n", "test")
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if tok.Kind != TokHash {
		t.Fatalf("wanted TokHash, got %v", tok.Kind)
	}
	if l.AtQuote() {
		t.Fatal("bare annotation should not be at a quote")
	}
	rest := l.RestOfLine()
	if rest != "a free-form note" {
		t.Errorf("wanted %q, got %q", "a free-form note", rest)
	}
}
