/*
Package mindscript implements the MindScript language runtime: a lexer,
recursive-descent parser, structural type system, and tree-walking
interpreter for a small dynamically-typed, expression-oriented language.

MindScript's distinguishing feature is that deterministic ("formal")
evaluation and informal evaluation — delegating a computation to an opaque
inductive oracle, typically backed by a language model — are first-class and
syntactically interchangeable. A function and an oracle are called the same
way; only their declaration differs.

Core pipeline

The package is organized the way the language is processed, leaf components
first:

	Lexer       byte stream -> token stream (token.go, lexer.go)
	Parser      token stream -> AST (ast.go, parser.go)
	Values      tagged runtime value universe (values.go)
	Types       structural type terms and subtyping (types.go)
	Environment lexically nested, mutable variable frames (env.go)
	Interpreter tree-walking evaluator (interpreter.go, interpreter_ops.go)
	Builtins    the root environment's seed bindings (builtin_*.go)
	Oracle      the abstract capability interpreter calls out to (oracle.go)

Getting started

	ip := mindscript.NewInterpreter()
	v, err := ip.RunSource(`let x = 1 + 2; x * x`, "<input>")

A conforming host — a REPL, a batch file runner, a language server — is a
thin collaborator built on top of Interpreter; none of that lives in this
package. See cmd/msg for a minimal example.
*/
package mindscript
