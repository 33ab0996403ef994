package mindscript

import (
	"fmt"
	"strings"
)

// LexError reports a malformed token.
type LexError struct {
	Pos Position
	Msg string
}

func (e *LexError) Error() string { return fmt.Sprintf("lex error at %s: %s", e.Pos, e.Msg) }

// ParseError reports a grammar violation.
type ParseError struct {
	Pos      Position
	Msg      string
	Expected string
	Actual   string
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse error at %s: %s", e.Pos, e.Msg) }

// ErrorKind classifies a RuntimeError per spec §7. It is a closed set of
// failure modes, not a type hierarchy: every runtime error in MindScript is
// a *RuntimeError carrying one of these kinds.
type ErrorKind int

const (
	KindNameError ErrorKind = iota
	KindTypeError
	KindValueError
	KindOracleError
	KindInternalError
)

func (k ErrorKind) String() string {
	switch k {
	case KindNameError:
		return "NameError"
	case KindTypeError:
		return "TypeError"
	case KindValueError:
		return "ValueError"
	case KindOracleError:
		return "OracleError"
	case KindInternalError:
		return "InternalError"
	}
	return "Error"
}

// RuntimeError is a runtime error raised during evaluation: a NameError,
// TypeError, ValueError, OracleError, or InternalError (spec §7). Parsing
// and lexing produce *ParseError / *LexError instead, which are never
// wrapped in a RuntimeError.
type RuntimeError struct {
	Kind ErrorKind
	Pos  Position
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Msg)
}

func newError(kind ErrorKind, pos Position, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func nameError(pos Position, format string, args ...interface{}) *RuntimeError {
	return newError(KindNameError, pos, format, args...)
}

func typeError(pos Position, format string, args ...interface{}) *RuntimeError {
	return newError(KindTypeError, pos, format, args...)
}

func valueError(pos Position, format string, args ...interface{}) *RuntimeError {
	return newError(KindValueError, pos, format, args...)
}

func oracleError(pos Position, format string, args ...interface{}) *RuntimeError {
	return newError(KindOracleError, pos, format, args...)
}

func internalError(pos Position, format string, args ...interface{}) *RuntimeError {
	return newError(KindInternalError, pos, format, args...)
}

// WrapWithSource augments err, if it is a *LexError, *ParseError, or
// *RuntimeError, with a caret-annotated snippet of src. Other error values
// are returned unchanged. This is the one place source text and error
// position come together; the lexer, parser, and interpreter themselves
// never see the source string behind the position they report.
func WrapWithSource(err error, name, src string) error {
	if err == nil {
		return nil
	}
	var header string
	var pos Position
	switch e := err.(type) {
	case *LexError:
		header, pos = "LEXICAL ERROR", e.Pos
	case *ParseError:
		header, pos = "PARSE ERROR", e.Pos
	case *RuntimeError:
		header, pos = e.Kind.String(), e.Pos
	default:
		return err
	}
	return &sourceError{msg: snippet(src, name, header, pos, err.Error()), cause: err}
}

// sourceError pairs a caret-annotated rendering of an error with the
// original *LexError/*ParseError/*RuntimeError, so callers that need the
// structured error (e.g. to inspect an ErrorKind) can recover it with
// errors.As/errors.Unwrap instead of re-parsing the rendered text.
type sourceError struct {
	msg   string
	cause error
}

func (e *sourceError) Error() string { return e.msg }
func (e *sourceError) Unwrap() error { return e.cause }

func snippet(src, name, header string, pos Position, msg string) string {
	lines := strings.Split(src, "\n")
	line := pos.Line
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	col := pos.Col
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %s: %s\n\n", header, name, pos, msg)
	} else {
		fmt.Fprintf(&b, "%s at %s: %s\n\n", header, pos, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	pad := col - 1
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", pad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
