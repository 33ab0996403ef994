package mindscript

import (
	"fmt"
	"strconv"
)

// Parser is a recursive-descent, operator-precedence parser over a Lexer's
// token stream. It looks one token ahead; RestOfLine-style lexer mode
// switches (for the bare `# text` annotation form) are the only place it
// reaches past that lookahead.
type Parser struct {
	lex  *Lexer
	name string

	tok     Token
	lookErr error
}

// NewParser creates a Parser over src. name is used only for error
// positions.
func NewParser(src, name string) *Parser {
	p := &Parser{lex: NewLexer(src, name), name: name}
	p.advance()
	return p
}

func (p *Parser) advance() {
	if p.lookErr != nil {
		return
	}
	tok, err := p.lex.Next()
	if err != nil {
		p.lookErr = err
		return
	}
	p.tok = tok
}

func (p *Parser) err() error {
	return p.lookErr
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Pos: p.tok.Pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) skipNewlines() {
	for p.lookErr == nil && (p.tok.Kind == TokNewline || p.tok.Kind == TokSemi) {
		p.advance()
	}
}

func (p *Parser) expect(k TokKind) (Token, error) {
	if p.lookErr != nil {
		return Token{}, p.lookErr
	}
	if p.tok.Kind != k {
		return Token{}, &ParseError{
			Pos:      p.tok.Pos,
			Msg:      fmt.Sprintf("expected %s, got %s", k, p.tok.Kind),
			Expected: k.String(),
			Actual:   p.tok.Kind.String(),
		}
	}
	t := p.tok
	p.advance()
	return t, nil
}

func (p *Parser) expectIdent() (string, Position, error) {
	if p.lookErr != nil {
		return "", Position{}, p.lookErr
	}
	if p.tok.Kind != TokIdent {
		return "", Position{}, p.errorf("expected identifier, got %s", p.tok.Kind)
	}
	name, pos := p.tok.Text, p.tok.Pos
	p.advance()
	return name, pos, nil
}

// ParseProgram parses a full source into a top-level program node: a
// sequence of expressions separated by newlines or semicolons, whose value
// is the last subexpression's value (spec §4.2). Unlike a `do...end` block,
// the top-level sequence does not introduce a fresh frame: bindings made at
// top level persist in the caller's environment.
func ParseProgram(src, name string) (Node, error) {
	p := NewParser(src, name)
	return p.parseProgram()
}

func (p *Parser) parseProgram() (*BlockNode, error) {
	pos := p.tok.Pos
	var exprs []Node
	p.skipNewlines()
	for p.lookErr == nil && p.tok.Kind != TokEOF {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := checkNoLetLeaf(e); err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if p.lookErr != nil {
			return nil, p.lookErr
		}
		if p.tok.Kind != TokNewline && p.tok.Kind != TokSemi && p.tok.Kind != TokEOF {
			return nil, p.errorf("expected end of expression, got %s", p.tok.Kind)
		}
		p.skipNewlines()
	}
	if p.lookErr != nil {
		return nil, p.lookErr
	}
	return &BlockNode{base: base{pos}, Exprs: exprs}, nil
}

// parseBlockBody parses the expression sequence between a block-introducing
// keyword (`do`, function/oracle bodies) and its closing `end`, without
// consuming `end`.
func (p *Parser) parseBlockBody() (*BlockNode, error) {
	pos := p.tok.Pos
	var exprs []Node
	p.skipNewlines()
	for p.lookErr == nil && p.tok.Kind != TokEnd && p.tok.Kind != TokElse && p.tok.Kind != TokElif && p.tok.Kind != TokEOF {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := checkNoLetLeaf(e); err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if p.lookErr != nil {
			return nil, p.lookErr
		}
		if p.tok.Kind != TokNewline && p.tok.Kind != TokSemi && p.tok.Kind != TokEnd && p.tok.Kind != TokElse && p.tok.Kind != TokElif && p.tok.Kind != TokEOF {
			return nil, p.errorf("expected end of expression, got %s", p.tok.Kind)
		}
		p.skipNewlines()
	}
	if p.lookErr != nil {
		return nil, p.lookErr
	}
	return &BlockNode{base: base{pos}, Exprs: exprs}, nil
}

func checkNoLetLeaf(n Node) error {
	if leaf, ok := n.(*LetLeafNode); ok {
		return &ParseError{Pos: leaf.Pos(), Msg: "'let' without '=' is only valid inside a destructuring pattern"}
	}
	return nil
}

// Operator precedence, low to high (spec §4.2). Each level's parse
// function calls the next-higher level for its operands.
func (p *Parser) parseExpr() (Node, error) { return p.parseAssignOrExpr() }

// parseAssignOrExpr parses an expression and, if it is immediately followed
// by `=`, reinterprets the left side as an assignment target (spec §4.5):
// an identifier, a member/index expression, or a destructuring pattern
// written using array/object literal syntax.
func (p *Parser) parseAssignOrExpr() (Node, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.lookErr == nil && p.tok.Kind == TokEq {
		pos := p.tok.Pos
		p.advance()
		right, err := p.parseAssignOrExpr()
		if err != nil {
			return nil, err
		}
		target, err := assignTarget(left)
		if err != nil {
			return nil, err
		}
		return &AssignNode{base: base{pos}, Target: target, Value: right}, nil
	}
	return left, nil
}

func assignTarget(n Node) (Node, error) {
	switch t := n.(type) {
	case *IdentNode, *MemberNode, *IndexNode:
		return t.(Node), nil
	case *ArrayLitNode, *ObjectLitNode:
		pat, err := exprToPattern(n)
		if err != nil {
			return nil, err
		}
		return &PatternNode{base: base{n.Pos()}, Pattern: pat}, nil
	default:
		return nil, &ParseError{Pos: n.Pos(), Msg: "invalid assignment target"}
	}
}

// exprToPattern reinterprets an already-parsed array/object literal (whose
// elements may include bare identifiers or `let name` leaves) as a
// destructuring Pattern.
func exprToPattern(n Node) (Pattern, error) {
	switch t := n.(type) {
	case *IdentNode:
		return &PatIdent{base: base{t.pos}, Name: t.Name, Let: false}, nil
	case *LetLeafNode:
		return &PatIdent{base: base{t.pos}, Name: t.Name, Let: true}, nil
	case *ArrayLitNode:
		elems := make([]Pattern, len(t.Elems))
		for i, e := range t.Elems {
			pat, err := exprToPattern(e)
			if err != nil {
				return nil, err
			}
			elems[i] = pat
		}
		return &PatArray{base: base{t.pos}, Elems: elems}, nil
	case *ObjectLitNode:
		fields := make([]PatObjectField, len(t.Fields))
		for i, f := range t.Fields {
			pat, err := exprToPattern(f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = PatObjectField{Key: f.Key, Pattern: pat}
		}
		return &PatObject{base: base{t.pos}, Fields: fields}, nil
	default:
		return nil, &ParseError{Pos: n.Pos(), Msg: "invalid destructuring pattern"}
	}
}

// parsePattern parses a pattern directly, in contexts with no ambiguity
// with a plain expression (after `let` or `for`). introduceDefault controls
// what a bare NAME leaf means: true makes it an introduction (used by
// parseLet), false requires an explicit `let NAME` to introduce and makes
// bare NAME a reassignment (used by parseFor).
func (p *Parser) parsePattern(introduceDefault bool) (Pattern, error) {
	switch p.tok.Kind {
	case TokLet:
		pos := p.tok.Pos
		p.advance()
		name, _, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		return &PatIdent{base: base{pos}, Name: name, Let: true}, nil
	case TokIdent:
		pos := p.tok.Pos
		name := p.tok.Text
		p.advance()
		return &PatIdent{base: base{pos}, Name: name, Let: introduceDefault}, nil
	case TokLBracket:
		pos := p.tok.Pos
		p.advance()
		var elems []Pattern
		for p.lookErr == nil && p.tok.Kind != TokRBracket {
			e, err := p.parsePattern(introduceDefault)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.tok.Kind == TokComma {
				p.advance()
			} else {
				break
			}
		}
		if _, err := p.expect(TokRBracket); err != nil {
			return nil, err
		}
		return &PatArray{base: base{pos}, Elems: elems}, nil
	case TokLBrace:
		pos := p.tok.Pos
		p.advance()
		var fields []PatObjectField
		for p.lookErr == nil && p.tok.Kind != TokRBrace {
			key, _, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			var pat Pattern
			if p.tok.Kind == TokColon {
				p.advance()
				pat, err = p.parsePattern(introduceDefault)
				if err != nil {
					return nil, err
				}
			} else {
				pat = &PatIdent{base: base{p.tok.Pos}, Name: key, Let: introduceDefault}
			}
			fields = append(fields, PatObjectField{Key: key, Pattern: pat})
			if p.tok.Kind == TokComma {
				p.advance()
			} else {
				break
			}
		}
		if _, err := p.expect(TokRBrace); err != nil {
			return nil, err
		}
		return &PatObject{base: base{pos}, Fields: fields}, nil
	}
	return nil, p.errorf("expected pattern, got %s", p.tok.Kind)
}

func (p *Parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.lookErr == nil && p.tok.Kind == TokOr {
		pos := p.tok.Pos
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinOpNode{base: base{pos}, Op: "or", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Node, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.lookErr == nil && p.tok.Kind == TokAnd {
		pos := p.tok.Pos
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &BinOpNode{base: base{pos}, Op: "and", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (Node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.lookErr == nil && (p.tok.Kind == TokEqEq || p.tok.Kind == TokNotEq) {
		op := p.tok.Kind
		pos := p.tok.Pos
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		sym := "=="
		if op == TokNotEq {
			sym = "!="
		}
		left = &BinOpNode{base: base{pos}, Op: sym, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseComparison() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.lookErr == nil {
		var sym string
		switch p.tok.Kind {
		case TokLt:
			sym = "<"
		case TokLe:
			sym = "<="
		case TokGt:
			sym = ">"
		case TokGe:
			sym = ">="
		default:
			return left, nil
		}
		pos := p.tok.Pos
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &BinOpNode{base: base{pos}, Op: sym, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.lookErr == nil && (p.tok.Kind == TokPlus || p.tok.Kind == TokMinus) {
		sym := "+"
		if p.tok.Kind == TokMinus {
			sym = "-"
		}
		pos := p.tok.Pos
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinOpNode{base: base{pos}, Op: sym, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.lookErr == nil && (p.tok.Kind == TokStar || p.tok.Kind == TokSlash || p.tok.Kind == TokPercent) {
		var sym string
		switch p.tok.Kind {
		case TokStar:
			sym = "*"
		case TokSlash:
			sym = "/"
		case TokPercent:
			sym = "%"
		}
		pos := p.tok.Pos
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinOpNode{base: base{pos}, Op: sym, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Node, error) {
	switch p.tok.Kind {
	case TokMinus:
		pos := p.tok.Pos
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryOpNode{base: base{pos}, Op: "-", Operand: operand}, nil
	case TokNot:
		pos := p.tok.Pos
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryOpNode{base: base{pos}, Op: "not", Operand: operand}, nil
	case TokHash:
		return p.parseAnnotation()
	}
	return p.parsePostfix()
}

// parseAnnotation parses the `#` operator (spec §4.1/§4.3): either
// `# "text" expr` or the bare `# text-to-end-of-line` form followed (on the
// next line) by the annotated expression. p.tok is still TokHash on entry,
// and the underlying Lexer's raw cursor sits exactly one character past the
// '#' — checking AtQuote there, before the parser's one-token lookahead
// tokenizes anything further, is what lets the bare form capture raw text
// instead of having it chewed up as code tokens.
func (p *Parser) parseAnnotation() (Node, error) {
	pos := p.tok.Pos
	var text string
	p.lex.skipSpace()
	if p.lex.AtQuote() {
		p.advance() // consume '#'; lexer now tokenizes the string literal
		if p.tok.Kind != TokStr {
			return nil, p.errorf("expected string after '#'")
		}
		text = p.tok.Text
		p.advance()
	} else {
		text = p.lex.RestOfLine()
		p.advance() // refill lookahead; lands on the newline just consumed to
		p.skipNewlines()
	}
	expr, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &AnnotateNode{base: base{pos}, Text: text, Expr: expr}, nil
}

func (p *Parser) parsePostfix() (Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.lookErr == nil {
		switch p.tok.Kind {
		case TokDot:
			pos := p.tok.Pos
			p.advance()
			name, _, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			expr = &MemberNode{base: base{pos}, Object: expr, Name: name}
		case TokLBracket:
			pos := p.tok.Pos
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokRBracket); err != nil {
				return nil, err
			}
			expr = &IndexNode{base: base{pos}, Object: expr, Index: idx}
		case TokLParen:
			pos := p.tok.Pos
			p.advance()
			var args []Node
			for p.lookErr == nil && p.tok.Kind != TokRParen {
				a, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if p.tok.Kind == TokComma {
					p.advance()
				} else {
					break
				}
			}
			if _, err := p.expect(TokRParen); err != nil {
				return nil, err
			}
			if len(args) == 0 {
				expr = &CallNode{base: base{pos}, Callee: expr, Arg: &LiteralNode{base: base{pos}, Value: Null}}
			} else {
				for _, a := range args {
					expr = &CallNode{base: base{pos}, Callee: expr, Arg: a}
				}
			}
		default:
			return expr, nil
		}
	}
	return expr, nil
}

func (p *Parser) parsePrimary() (Node, error) {
	if p.lookErr != nil {
		return nil, p.lookErr
	}
	pos := p.tok.Pos
	switch p.tok.Kind {
	case TokInt:
		text := p.tok.Text
		p.advance()
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, &ParseError{Pos: pos, Msg: "invalid integer literal " + text}
		}
		return &LiteralNode{base: base{pos}, Value: Int(i)}, nil
	case TokNum:
		text := p.tok.Text
		p.advance()
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, &ParseError{Pos: pos, Msg: "invalid numeric literal " + text}
		}
		return &LiteralNode{base: base{pos}, Value: Num(f)}, nil
	case TokStr:
		text := p.tok.Text
		p.advance()
		return &LiteralNode{base: base{pos}, Value: Str(text)}, nil
	case TokTrue:
		p.advance()
		return &LiteralNode{base: base{pos}, Value: Bool(true)}, nil
	case TokFalse:
		p.advance()
		return &LiteralNode{base: base{pos}, Value: Bool(false)}, nil
	case TokNull:
		p.advance()
		return &LiteralNode{base: base{pos}, Value: Null}, nil
	case TokThis:
		p.advance()
		return &ThisNode{base: base{pos}}, nil
	case TokIdent:
		name := p.tok.Text
		p.advance()
		return &IdentNode{base: base{pos}, Name: name}, nil
	case TokLet:
		return p.parseLet()
	case TokLParen:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return expr, nil
	case TokLBracket:
		return p.parseArrayLit()
	case TokLBrace:
		return p.parseObjectLit()
	case TokFun:
		return p.parseFuncLit()
	case TokOracle:
		return p.parseOracleLit()
	case TokType:
		p.advance()
		return p.parseTypeExpr()
	case TokIf:
		return p.parseIf()
	case TokFor:
		return p.parseFor()
	case TokDo:
		return p.parseDo()
	case TokReturn:
		return p.parseControlWithValue(TokReturn, func(b base, v Node) Node { return &ReturnNode{base: b, Value: v} })
	case TokBreak:
		return p.parseControlWithValue(TokBreak, func(b base, v Node) Node { return &BreakNode{base: b, Value: v} })
	case TokContinue:
		return p.parseControlWithValue(TokContinue, func(b base, v Node) Node { return &ContinueNode{base: b, Value: v} })
	}
	return nil, p.errorf("unexpected token %s", p.tok.Kind)
}

func (p *Parser) parseLet() (Node, error) {
	pos := p.tok.Pos
	p.advance() // consume 'let'
	pattern, err := p.parsePattern(true)
	if err != nil {
		return nil, err
	}
	if p.lookErr == nil && p.tok.Kind == TokEq {
		p.advance()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &LetNode{base: base{pos}, Pattern: pattern, Value: value}, nil
	}
	// Bare `let NAME` leaf, valid only inside a destructuring pattern built
	// from array/object literal syntax; see exprToPattern.
	if id, ok := pattern.(*PatIdent); ok {
		return &LetLeafNode{base: base{pos}, Name: id.Name}, nil
	}
	return nil, p.errorf("expected '=' after let pattern")
}

// isTerminator reports whether tok ends a return/break/continue's optional
// expression (end of statement or a block/control keyword).
func isTerminator(k TokKind) bool {
	switch k {
	case TokNewline, TokSemi, TokEOF, TokEnd, TokElse, TokElif, TokRParen, TokRBracket, TokRBrace, TokComma:
		return true
	}
	return false
}

func (p *Parser) parseControlWithValue(want TokKind, build func(base, Node) Node) (Node, error) {
	pos := p.tok.Pos
	p.advance()
	if p.lookErr != nil {
		return nil, p.lookErr
	}
	if isTerminator(p.tok.Kind) {
		return build(base{pos}, nil), nil
	}
	v, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return build(base{pos}, v), nil
}

func (p *Parser) parseArrayLit() (Node, error) {
	pos := p.tok.Pos
	p.advance() // consume '['
	var elems []Node
	for p.lookErr == nil && p.tok.Kind != TokRBracket {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.tok.Kind == TokComma {
			p.advance()
		} else {
			break
		}
	}
	if _, err := p.expect(TokRBracket); err != nil {
		return nil, err
	}
	return &ArrayLitNode{base: base{pos}, Elems: elems}, nil
}

func (p *Parser) parseObjectLit() (Node, error) {
	pos := p.tok.Pos
	p.advance() // consume '{'
	var fields []ObjectField
	for p.lookErr == nil && p.tok.Kind != TokRBrace {
		key, _, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokColon); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ObjectField{Key: key, Value: val})
		if p.tok.Kind == TokComma {
			p.advance()
		} else {
			break
		}
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return nil, err
	}
	return &ObjectLitNode{base: base{pos}, Fields: fields}, nil
}

func (p *Parser) parseIf() (Node, error) {
	pos := p.tok.Pos
	p.advance() // consume 'if'
	var branches []CondBranch
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseThenBody()
	if err != nil {
		return nil, err
	}
	branches = append(branches, CondBranch{Cond: cond, Body: body})
	for p.lookErr == nil && p.tok.Kind == TokElif {
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseThenBody()
		if err != nil {
			return nil, err
		}
		branches = append(branches, CondBranch{Cond: cond, Body: body})
	}
	var elseBody Node
	if p.lookErr == nil && p.tok.Kind == TokElse {
		p.advance()
		elseBody, err = p.parseBlockBody()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokEnd); err != nil {
		return nil, err
	}
	return &CondNode{base: base{pos}, Branches: branches, Else: elseBody}, nil
}

// parseThenBody parses the body of an if/elif arm, which is introduced by
// `do` (the canonical form) or, for backward compatibility, `then` written
// as the identifier "then" (spec §9's open question resolves to accepting
// `do`; `then` is tolerated as a synonym since several corpora examples
// use it interchangeably).
func (p *Parser) parseThenBody() (Node, error) {
	if p.tok.Kind == TokDo {
		p.advance()
		return p.parseBlockBody()
	}
	if p.tok.Kind == TokIdent && p.tok.Text == "then" {
		p.advance()
		return p.parseBlockBody()
	}
	return nil, p.errorf("expected 'do', got %s", p.tok.Kind)
}

func (p *Parser) parseFor() (Node, error) {
	pos := p.tok.Pos
	p.advance() // consume 'for'
	pattern, err := p.parsePattern(false)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokIn); err != nil {
		return nil, err
	}
	iter, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokDo); err != nil {
		return nil, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokEnd); err != nil {
		return nil, err
	}
	return &ForNode{base: base{pos}, Pattern: pattern, Iter: iter, Body: body}, nil
}

func (p *Parser) parseDo() (Node, error) {
	p.advance() // consume 'do'
	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokEnd); err != nil {
		return nil, err
	}
	return body, nil
}

// rawParam is one declared parameter of a fun/oracle literal before
// currying is applied.
type rawParam struct {
	Name string
	Type Node // type expression, or nil
}

func (p *Parser) parseParamList() ([]rawParam, error) {
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	var params []rawParam
	for p.lookErr == nil && p.tok.Kind != TokRParen {
		name, _, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		var typ Node
		if p.tok.Kind == TokColon {
			p.advance()
			typ, err = p.parseTypeExpr()
			if err != nil {
				return nil, err
			}
		}
		params = append(params, rawParam{Name: name, Type: typ})
		if p.tok.Kind == TokComma {
			p.advance()
		} else {
			break
		}
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	return params, nil
}

func typeNodeOrAny(n Node, pos Position) Node {
	if n == nil {
		return &TypePrimitiveNode{base: base{pos}, Kind: TAny}
	}
	return n
}

func (p *Parser) parseFuncLit() (Node, error) {
	pos := p.tok.Pos
	p.advance() // consume 'fun'
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	var retType Node
	if p.tok.Kind == TokArrow {
		p.advance()
		retType, err = p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokDo); err != nil {
		return nil, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokEnd); err != nil {
		return nil, err
	}
	if len(params) == 0 {
		params = []rawParam{{Name: "_", Type: &TypePrimitiveNode{base: base{pos}, Kind: TNull}}}
	}
	return curryFunc(pos, params, retType, body), nil
}

// curryFunc lowers an n-ary function declaration into nested unary closures
// (spec §4.2's currying desugaring), the parser being the canonical site
// for this transformation so the interpreter need only apply one argument
// at a time.
func curryFunc(pos Position, params []rawParam, retType Node, body Node) Node {
	var build func(i int) Node
	build = func(i int) Node {
		if i == len(params)-1 {
			return &FuncLitNode{base: base{pos}, Param: ParamDecl{Name: params[i].Name, Type: nil}, ReturnType: retType, Body: body}
		}
		inner := build(i + 1)
		wrapRet := arrowChain(params[i+1:], retType, pos)
		return &FuncLitNode{base: base{pos}, Param: ParamDecl{Name: params[i].Name, Type: nil}, ReturnType: wrapRet, Body: inner}
	}
	node := build(0)
	// Attach the declared per-parameter type expressions, resolved at eval
	// time the same as ReturnType, by setting each layer's Param.Type.
	return attachParamTypes(node, params)
}

// arrowChain builds the type expression `T_i -> T_i+1 -> ... -> R` for the
// parameters not yet applied at a given curry layer, so that a partially
// applied curried function's declared return type precisely describes the
// remaining arrow, not just Any.
func arrowChain(rest []rawParam, retType Node, pos Position) Node {
	if len(rest) == 0 {
		return typeNodeOrAny(retType, pos)
	}
	return &TypeArrowNode{
		base:   base{pos},
		Param:  typeNodeOrAny(rest[0].Type, pos),
		Result: arrowChain(rest[1:], retType, pos),
	}
}

// attachParamTypes walks the nested FuncLitNode chain produced by curryFunc
// and sets each layer's Param.Type from the original declaration.
func attachParamTypes(node Node, params []rawParam) Node {
	cur := node
	for i := 0; i < len(params); i++ {
		fn, ok := cur.(*FuncLitNode)
		if !ok {
			break
		}
		fn.Param.Type = paramTypeNode(params[i].Type)
		cur = fn.Body
	}
	return node
}

func paramTypeNode(n Node) Node {
	return n // nil means untyped; resolved lazily at call time.
}

func (p *Parser) parseOracleLit() (Node, error) {
	pos := p.tok.Pos
	p.advance() // consume 'oracle'
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	var retType Node
	if p.tok.Kind == TokArrow {
		p.advance()
		retType, err = p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
	}
	var examples []ExampleNode
	if p.tok.Kind == TokFrom {
		p.advance()
		examples, err = p.parseExampleList()
		if err != nil {
			return nil, err
		}
	}
	if len(params) == 0 {
		params = []rawParam{{Name: "_", Type: &TypePrimitiveNode{base: base{pos}, Kind: TNull}}}
	}
	return curryOracle(pos, params, retType, examples), nil
}

func curryOracle(pos Position, params []rawParam, retType Node, examples []ExampleNode) Node {
	var build func(i int) Node
	build = func(i int) Node {
		if i == len(params)-1 {
			return &OracleLitNode{base: base{pos}, Param: ParamDecl{Name: params[i].Name, Type: paramTypeNode(params[i].Type)}, ReturnType: retType, Examples: examples}
		}
		inner := build(i + 1)
		wrapRet := arrowChain(params[i+1:], retType, pos)
		return &FuncLitNode{base: base{pos}, Param: ParamDecl{Name: params[i].Name, Type: paramTypeNode(params[i].Type)}, ReturnType: wrapRet, Body: inner}
	}
	return build(0)
}

// parseExampleList parses `[ [input, output], ... ]` following `from`.
func (p *Parser) parseExampleList() ([]ExampleNode, error) {
	if _, err := p.expect(TokLBracket); err != nil {
		return nil, err
	}
	var examples []ExampleNode
	for p.lookErr == nil && p.tok.Kind != TokRBracket {
		if _, err := p.expect(TokLBracket); err != nil {
			return nil, err
		}
		in, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokComma); err != nil {
			return nil, err
		}
		out, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRBracket); err != nil {
			return nil, err
		}
		examples = append(examples, ExampleNode{Input: in, Output: out})
		if p.tok.Kind == TokComma {
			p.advance()
		} else {
			break
		}
	}
	if _, err := p.expect(TokRBracket); err != nil {
		return nil, err
	}
	return examples, nil
}

// parseTypeExpr parses a type expression (spec §3.2/§3.4/§4.2): primitive
// atoms, `[T]`, `{k!: T, k: T}`, `T1 -> T2`, `T?`, `Enum(T, [v, ...])`, Any.
// Type expressions are ordinary AST nodes evaluated to KType values, not a
// separate grammar evaluated out-of-band.
func (p *Parser) parseTypeExpr() (Node, error) {
	t, err := p.parseTypeAtom()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokQuestion {
		pos := p.tok.Pos
		p.advance()
		t = &TypeOptionalNode{base: base{pos}, Elem: t}
	}
	if p.tok.Kind == TokArrow {
		pos := p.tok.Pos
		p.advance()
		result, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		return &TypeArrowNode{base: base{pos}, Param: t, Result: result}, nil
	}
	return t, nil
}

func (p *Parser) parseTypeAtom() (Node, error) {
	pos := p.tok.Pos
	switch p.tok.Kind {
	case TokLBracket:
		p.advance()
		elem, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRBracket); err != nil {
			return nil, err
		}
		return &TypeArrayNode{base: base{pos}, Elem: elem}, nil
	case TokLBrace:
		p.advance()
		var fields []TypeObjectField
		for p.lookErr == nil && p.tok.Kind != TokRBrace {
			name, _, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			required := false
			if p.tok.Kind == TokBang {
				required = true
				p.advance()
			}
			if _, err := p.expect(TokColon); err != nil {
				return nil, err
			}
			ft, err := p.parseTypeExpr()
			if err != nil {
				return nil, err
			}
			fields = append(fields, TypeObjectField{Name: name, Type: ft, Required: required})
			if p.tok.Kind == TokComma {
				p.advance()
			} else {
				break
			}
		}
		if _, err := p.expect(TokRBrace); err != nil {
			return nil, err
		}
		return &TypeObjectNode{base: base{pos}, Fields: fields}, nil
	case TokLParen:
		p.advance()
		t, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return t, nil
	case TokAny:
		p.advance()
		return &TypePrimitiveNode{base: base{pos}, Kind: TAny}, nil
	case TokNull:
		p.advance()
		return &TypePrimitiveNode{base: base{pos}, Kind: TNull}, nil
	case TokIdent:
		name := p.tok.Text
		switch name {
		case "Null":
			p.advance()
			return &TypePrimitiveNode{base: base{pos}, Kind: TNull}, nil
		case "Bool":
			p.advance()
			return &TypePrimitiveNode{base: base{pos}, Kind: TBool}, nil
		case "Int":
			p.advance()
			return &TypePrimitiveNode{base: base{pos}, Kind: TInt}, nil
		case "Num":
			p.advance()
			return &TypePrimitiveNode{base: base{pos}, Kind: TNum}, nil
		case "Str":
			p.advance()
			return &TypePrimitiveNode{base: base{pos}, Kind: TStr}, nil
		case "Type":
			p.advance()
			return &TypePrimitiveNode{base: base{pos}, Kind: TTypeType}, nil
		case "Array":
			p.advance()
			return &TypeArrayNode{base: base{pos}, Elem: &TypePrimitiveNode{base: base{pos}, Kind: TAny}}, nil
		case "Object":
			p.advance()
			return &TypeObjectNode{base: base{pos}}, nil
		case "Fun":
			p.advance()
			any := &TypePrimitiveNode{base: base{pos}, Kind: TAny}
			return &TypeArrowNode{base: base{pos}, Param: any, Result: any}, nil
		case "Enum":
			p.advance()
			if _, err := p.expect(TokLParen); err != nil {
				return nil, err
			}
			base_, err := p.parseTypeExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokComma); err != nil {
				return nil, err
			}
			arr, err := p.parseArrayLit()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokRParen); err != nil {
				return nil, err
			}
			return &TypeEnumNode{base: base{pos}, Base: base_, Values: arr.(*ArrayLitNode).Elems}, nil
		default:
			// A bound identifier holding a type value, e.g. `let T = type Int; fun(x: T) ...`.
			p.advance()
			return &IdentNode{base: base{pos}, Name: name}, nil
		}
	}
	return nil, p.errorf("expected type expression, got %s", p.tok.Kind)
}

// ParseTypeExprString parses and resolves a standalone type expression, the
// inverse of (*Type).String — used for round-tripping a type through its
// surface syntax independent of any enclosing program.
func ParseTypeExprString(s string) (*Type, error) {
	p := NewParser(s, "<type>")
	node, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	if err := p.err(); err != nil {
		return nil, err
	}
	ip := NewInterpreter()
	return ip.evalTypeExpr(node, ip.root)
}
