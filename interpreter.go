package mindscript

import "context"

// Option configures an Interpreter at construction time. Following the
// functional-options idiom keeps NewInterpreter's signature stable as more
// knobs (call depth, step budget, adapter, module resolution) are added.
type Option func(*Interpreter)

// WithOracleAdapter installs the capability an oracle call delegates to
// (spec §4.7). Without one, oracle calls fall back to a minimal adapter
// that can only satisfy a call by exact match against its declared
// examples.
func WithOracleAdapter(a OracleAdapter) Option {
	return func(ip *Interpreter) { ip.adapter = a }
}

// WithMaxCallDepth bounds recursion; exceeding it raises an InternalError
// rather than exhausting the Go stack.
func WithMaxCallDepth(n int) Option {
	return func(ip *Interpreter) { ip.maxDepth = n }
}

// WithSourceLoader installs the collaborator `import` reads files through.
func WithSourceLoader(l SourceLoader) Option {
	return func(ip *Interpreter) { ip.loader = l }
}

// WithURLFetcher installs the collaborator `netImport` fetches source
// through.
func WithURLFetcher(f URLFetcher) Option {
	return func(ip *Interpreter) { ip.fetcher = f }
}

// Interpreter is a tree-walking evaluator over a root environment seeded
// with the builtins (spec §4.6). It is not safe for concurrent use: spec
// §5 fixes evaluation as single-threaded cooperative.
type Interpreter struct {
	root    *Env
	adapter OracleAdapter
	loader  SourceLoader
	fetcher URLFetcher

	maxDepth int
	depth    int
}

// NewInterpreter creates an Interpreter with the root environment seeded by
// installBuiltins, applying opts afterward so callers can override any
// builtin.
func NewInterpreter(opts ...Option) *Interpreter {
	ip := &Interpreter{
		root:     NewEnv(nil),
		maxDepth: 10000,
		loader:   FileLoader{},
		fetcher:  HTTPFetcher{},
	}
	installBuiltins(ip.root, ip)
	for _, opt := range opts {
		opt(ip)
	}
	if ip.adapter == nil {
		ip.adapter = ExampleMatchAdapter{}
	}
	return ip
}

// RootEnv returns the interpreter's root frame, letting a host inspect or
// extend the environment programs run in.
func (ip *Interpreter) RootEnv() *Env { return ip.root }

// RunSource parses and evaluates src as a top-level program in the root
// environment, returning the last expression's value. A parse, lex, or
// runtime error is rendered with a caret-annotated source snippet (spec
// §7's error contract).
func (ip *Interpreter) RunSource(src, name string) (Value, error) {
	return ip.RunInEnv(src, name, ip.root)
}

// RunInEnv evaluates src as a top-level program directly in env: RunSource
// passes the root, import/netImport pass a module's own fresh frame (spec
// §4.6). The top-level expressions do not get a frame of their own, so their
// bindings remain in env afterward.
func (ip *Interpreter) RunInEnv(src, name string, env *Env) (Value, error) {
	node, err := ParseProgram(src, name)
	if err != nil {
		return Value{}, WrapWithSource(err, name, src)
	}
	v := Null
	for _, e := range node.(*BlockNode).Exprs {
		ev, sig, err := ip.eval(e, env)
		if err != nil {
			return Value{}, WrapWithSource(err, name, src)
		}
		if sig != nil {
			return Value{}, WrapWithSource(internalError(e.Pos(), "%s outside of a function or loop", signalName(sig.kind)), name, src)
		}
		v = ev
	}
	return v, nil
}

func signalName(k SignalKind) string {
	switch k {
	case sigReturn:
		return "return"
	case sigBreak:
		return "break"
	case sigContinue:
		return "continue"
	}
	return "signal"
}

// eval is the evaluator's single dispatch point. It returns a *signal
// instead of a value whenever node was (or contains, without an
// intervening catch) a return/break/continue; callers that do not catch
// the relevant kind must propagate it unchanged (spec §4.5).
func (ip *Interpreter) eval(node Node, env *Env) (Value, *signal, error) {
	switch n := node.(type) {
	case *LiteralNode:
		return n.Value, nil, nil

	case *IdentNode:
		v, ok := env.Get(n.Name)
		if !ok {
			return Value{}, nil, nameError(n.pos, "undefined name %q", n.Name)
		}
		return v, nil, nil

	case *ThisNode:
		v, ok := env.Get("this")
		if !ok {
			return Null, nil, nil
		}
		return v, nil, nil

	case *LetNode:
		v, sig, err := ip.eval(n.Value, env)
		if err != nil || sig != nil {
			return Value{}, sig, err
		}
		if err := ip.bindPattern(env, n.Pattern, v, n.pos); err != nil {
			return Value{}, nil, err
		}
		return v, nil, nil

	case *AssignNode:
		v, sig, err := ip.eval(n.Value, env)
		if err != nil || sig != nil {
			return Value{}, sig, err
		}
		if err := ip.assign(env, n.Target, v); err != nil {
			return Value{}, nil, err
		}
		return v, nil, nil

	case *ArrayLitNode:
		items := make([]Value, len(n.Elems))
		for i, e := range n.Elems {
			v, sig, err := ip.eval(e, env)
			if err != nil || sig != nil {
				return Value{}, sig, err
			}
			items[i] = v
		}
		return NewArray(items), nil, nil

	case *ObjectLitNode:
		keys := make([]string, 0, len(n.Fields))
		vals := make(map[string]Value, len(n.Fields))
		for _, f := range n.Fields {
			v, sig, err := ip.eval(f.Value, env)
			if err != nil || sig != nil {
				return Value{}, sig, err
			}
			if _, exists := vals[f.Key]; !exists {
				keys = append(keys, f.Key)
			}
			vals[f.Key] = v
		}
		return NewObject(keys, vals), nil, nil

	case *MemberNode:
		obj, sig, err := ip.eval(n.Object, env)
		if err != nil || sig != nil {
			return Value{}, sig, err
		}
		if obj.Kind != KObject {
			return Value{}, nil, typeError(n.pos, "cannot access field %q of a %s", n.Name, obj.Kind)
		}
		v, ok := obj.Get(n.Name)
		if !ok {
			return Value{}, nil, nameError(n.pos, "object has no field %q", n.Name)
		}
		return v, nil, nil

	case *IndexNode:
		return ip.evalIndex(n, env)

	case *CallNode:
		return ip.evalCall(n, env)

	case *FuncLitNode:
		return ip.evalFuncLit(n, env)

	case *OracleLitNode:
		return ip.evalOracleLit(n, env)

	case *CondNode:
		for _, br := range n.Branches {
			cv, sig, err := ip.eval(br.Cond, env)
			if err != nil || sig != nil {
				return Value{}, sig, err
			}
			if Truthy(cv) {
				return ip.eval(br.Body, env)
			}
		}
		if n.Else != nil {
			return ip.eval(n.Else, env)
		}
		return Null, nil, nil

	case *BlockNode:
		return ip.evalBlock(n, env)

	case *ForNode:
		return ip.evalFor(n, env)

	case *ReturnNode:
		v, sig, err := ip.evalOptional(n.Value, env)
		if err != nil || sig != nil {
			return Value{}, sig, err
		}
		return Null, &signal{kind: sigReturn, val: v}, nil

	case *BreakNode:
		v, sig, err := ip.evalOptional(n.Value, env)
		if err != nil || sig != nil {
			return Value{}, sig, err
		}
		return Null, &signal{kind: sigBreak, val: v}, nil

	case *ContinueNode:
		v, sig, err := ip.evalOptional(n.Value, env)
		if err != nil || sig != nil {
			return Value{}, sig, err
		}
		return Null, &signal{kind: sigContinue, val: v}, nil

	case *AnnotateNode:
		v, sig, err := ip.eval(n.Expr, env)
		if err != nil || sig != nil {
			return Value{}, sig, err
		}
		return v.WithAnnotation(n.Text), nil, nil

	case *BinOpNode:
		return ip.evalBinOp(n, env)

	case *UnaryOpNode:
		return ip.evalUnaryOp(n, env)

	case *PatternNode:
		return Value{}, nil, internalError(n.pos, "destructuring pattern used outside an assignment target")

	case *LetLeafNode:
		return Value{}, nil, internalError(n.pos, "'let' leaf used outside a destructuring pattern")

	case *TypePrimitiveNode, *TypeArrayNode, *TypeObjectNode, *TypeArrowNode, *TypeOptionalNode, *TypeEnumNode:
		t, err := ip.evalTypeExpr(node, env)
		if err != nil {
			return Value{}, nil, err
		}
		return TypeVal(t), nil, nil
	}
	return Value{}, nil, internalError(node.Pos(), "unhandled node type %T", node)
}

// evalOptional evaluates node, treating a nil node (an omitted
// return/break/continue expression) as null.
func (ip *Interpreter) evalOptional(node Node, env *Env) (Value, *signal, error) {
	if node == nil {
		return Null, nil, nil
	}
	return ip.eval(node, env)
}

func (ip *Interpreter) evalBlock(n *BlockNode, env *Env) (Value, *signal, error) {
	inner := NewEnv(env)
	var last Value
	for _, e := range n.Exprs {
		v, sig, err := ip.eval(e, inner)
		if err != nil || sig != nil {
			return v, sig, err
		}
		last = v
	}
	return last, nil, nil
}

func (ip *Interpreter) evalFor(n *ForNode, env *Env) (Value, *signal, error) {
	iterVal, sig, err := ip.eval(n.Iter, env)
	if err != nil || sig != nil {
		return Value{}, sig, err
	}
	if iterVal.Kind != KFunction {
		return Value{}, nil, typeError(n.pos, "for-loop source must be a function (iterator), got %s", iterVal.Kind)
	}
	var result Value = Null
	for {
		yielded, err := ip.applyFunction(iterVal, Null, n.pos, Null)
		if err != nil {
			return Value{}, nil, err
		}
		if yielded.Kind == KNull {
			return result, nil, nil
		}
		iterEnv := NewEnv(env)
		if err := ip.bindPattern(iterEnv, n.Pattern, yielded, n.pos); err != nil {
			return Value{}, nil, err
		}
		v, sig, err := ip.eval(n.Body, iterEnv)
		if err != nil {
			return Value{}, nil, err
		}
		if sig != nil {
			switch sig.kind {
			case sigBreak:
				return sig.val, nil, nil
			case sigContinue:
				result = sig.val
				continue
			default: // sigReturn: propagate out of the loop entirely
				return v, sig, nil
			}
		}
		result = v
	}
}

func (ip *Interpreter) evalIndex(n *IndexNode, env *Env) (Value, *signal, error) {
	obj, sig, err := ip.eval(n.Object, env)
	if err != nil || sig != nil {
		return Value{}, sig, err
	}
	idx, sig, err := ip.eval(n.Index, env)
	if err != nil || sig != nil {
		return Value{}, sig, err
	}
	switch obj.Kind {
	case KArray:
		i, err := arrayIndex(obj, idx, n.pos)
		if err != nil {
			return Value{}, nil, err
		}
		return obj.Items()[i], nil, nil
	case KObject:
		if idx.Kind != KStr {
			return Value{}, nil, typeError(n.pos, "object index must be a string, got %s", idx.Kind)
		}
		v, ok := obj.Get(idx.StrOf())
		if !ok {
			return Value{}, nil, nameError(n.pos, "object has no field %q", idx.StrOf())
		}
		return v, nil, nil
	}
	return Value{}, nil, typeError(n.pos, "cannot index a %s", obj.Kind)
}

func arrayIndex(arr, idx Value, pos Position) (int, error) {
	if idx.Kind != KInt {
		return 0, typeError(pos, "array index must be an Int, got %s", idx.Kind)
	}
	items := arr.Items()
	i := idx.IntOf()
	if i < 0 {
		i += int64(len(items))
	}
	if i < 0 || i >= int64(len(items)) {
		return 0, valueError(pos, "array index %d out of range (length %d)", idx.IntOf(), len(items))
	}
	return int(i), nil
}

// assign implements the right side of spec §4.5's assignment rule for every
// lvalue shape the parser can produce.
func (ip *Interpreter) assign(env *Env, target Node, v Value) error {
	switch t := target.(type) {
	case *IdentNode:
		if !env.Assign(t.Name, v) {
			return nameError(t.pos, "cannot assign to undefined name %q", t.Name)
		}
		return nil
	case *PatternNode:
		return ip.bindPattern(env, t.Pattern, v, t.pos)
	case *MemberNode:
		obj, sig, err := ip.eval(t.Object, env)
		if err != nil {
			return err
		}
		if sig != nil {
			return internalError(t.pos, "control-flow expression used as an assignment target's object")
		}
		if obj.Kind != KObject {
			return typeError(t.pos, "cannot assign field %q of a %s", t.Name, obj.Kind)
		}
		obj.Set(t.Name, v)
		return nil
	case *IndexNode:
		obj, sig, err := ip.eval(t.Object, env)
		if err != nil {
			return err
		}
		if sig != nil {
			return internalError(t.pos, "control-flow expression used as an assignment target's object")
		}
		idx, sig, err := ip.eval(t.Index, env)
		if err != nil {
			return err
		}
		if sig != nil {
			return internalError(t.pos, "control-flow expression used as an assignment target's index")
		}
		switch obj.Kind {
		case KArray:
			i, err := arrayIndex(obj, idx, t.pos)
			if err != nil {
				return err
			}
			obj.Items()[i] = v
			return nil
		case KObject:
			if idx.Kind != KStr {
				return typeError(t.pos, "object index must be a string, got %s", idx.Kind)
			}
			obj.Set(idx.StrOf(), v)
			return nil
		}
		return typeError(t.pos, "cannot index-assign a %s", obj.Kind)
	}
	return internalError(target.Pos(), "unsupported assignment target %T", target)
}

// bindPattern destructures v against pat in env, per spec §4.2/§4.5: a
// `let`-marked leaf introduces a new cell, a bare-name leaf rebinds an
// existing one.
func (ip *Interpreter) bindPattern(env *Env, pat Pattern, v Value, pos Position) error {
	switch p := pat.(type) {
	case *PatIdent:
		if p.Let {
			env.Define(p.Name, v)
			return nil
		}
		if !env.Assign(p.Name, v) {
			return nameError(p.pos, "cannot assign to undefined name %q", p.Name)
		}
		return nil
	case *PatArray:
		if v.Kind != KArray {
			return typeError(pos, "cannot destructure a %s as an array pattern", v.Kind)
		}
		items := v.Items()
		if len(items) < len(p.Elems) {
			return valueError(pos, "array has %d elements, pattern expects %d", len(items), len(p.Elems))
		}
		for i, elemPat := range p.Elems {
			if err := ip.bindPattern(env, elemPat, items[i], pos); err != nil {
				return err
			}
		}
		return nil
	case *PatObject:
		if v.Kind != KObject {
			return typeError(pos, "cannot destructure a %s as an object pattern", v.Kind)
		}
		for _, f := range p.Fields {
			fv, ok := v.Get(f.Key)
			if !ok {
				return nameError(pos, "object has no field %q", f.Key)
			}
			if err := ip.bindPattern(env, f.Pattern, fv, pos); err != nil {
				return err
			}
		}
		return nil
	}
	return internalError(pos, "unsupported pattern %T", pat)
}

func (ip *Interpreter) evalFuncLit(n *FuncLitNode, env *Env) (Value, *signal, error) {
	pt, err := ip.resolveOptionalType(n.Param.Type, env)
	if err != nil {
		return Value{}, nil, err
	}
	rt, err := ip.resolveOptionalType(n.ReturnType, env)
	if err != nil {
		return Value{}, nil, err
	}
	fn := &functionVal{
		Param:      Param{Name: n.Param.Name, Type: pt},
		ParamType:  pt,
		ReturnType: rt,
		Body:       n.Body,
		Env:        env,
	}
	return NewFunction(fn), nil, nil
}

func (ip *Interpreter) evalOracleLit(n *OracleLitNode, env *Env) (Value, *signal, error) {
	pt, err := ip.resolveOptionalType(n.Param.Type, env)
	if err != nil {
		return Value{}, nil, err
	}
	rt, err := ip.resolveOptionalType(n.ReturnType, env)
	if err != nil {
		return Value{}, nil, err
	}
	examples := make([]Example, len(n.Examples))
	for i, ex := range n.Examples {
		in, sig, err := ip.eval(ex.Input, env)
		if err != nil || sig != nil {
			return Value{}, sig, err
		}
		out, sig, err := ip.eval(ex.Output, env)
		if err != nil || sig != nil {
			return Value{}, sig, err
		}
		examples[i] = Example{Input: in, Output: out}
	}
	orc := &oracleVal{
		Param:      Param{Name: n.Param.Name, Type: pt},
		ParamType:  pt,
		ReturnType: rt,
		Examples:   examples,
	}
	return NewOracle(orc), nil, nil
}

func (ip *Interpreter) resolveOptionalType(n Node, env *Env) (*Type, error) {
	if n == nil {
		return nil, nil
	}
	return ip.evalTypeExpr(n, env)
}

func (ip *Interpreter) evalCall(n *CallNode, env *Env) (Value, *signal, error) {
	var recv Value = Null
	var calleeVal Value
	if mn, ok := n.Callee.(*MemberNode); ok {
		obj, sig, err := ip.eval(mn.Object, env)
		if err != nil || sig != nil {
			return Value{}, sig, err
		}
		if obj.Kind != KObject {
			return Value{}, nil, typeError(mn.pos, "cannot call method %q on a %s", mn.Name, obj.Kind)
		}
		fv, ok := obj.Get(mn.Name)
		if !ok {
			return Value{}, nil, nameError(mn.pos, "object has no field %q", mn.Name)
		}
		calleeVal, recv = fv, obj
	} else {
		v, sig, err := ip.eval(n.Callee, env)
		if err != nil || sig != nil {
			return Value{}, sig, err
		}
		calleeVal = v
	}
	argVal, sig, err := ip.eval(n.Arg, env)
	if err != nil || sig != nil {
		return Value{}, sig, err
	}
	switch calleeVal.Kind {
	case KFunction:
		v, err := ip.applyFunction(calleeVal, argVal, n.pos, recv)
		return v, nil, err
	case KOracle:
		v, err := ip.applyOracle(calleeVal, argVal, n.pos)
		return v, nil, err
	}
	return Value{}, nil, typeError(n.pos, "cannot call a %s", calleeVal.Kind)
}

// applyFunction performs one unary application, enforcing the declared
// parameter and return types (spec §4.2/§4.5). this is the receiver bound
// for the call (Null for a non-member call).
func (ip *Interpreter) applyFunction(fnVal Value, arg Value, pos Position, this Value) (Value, error) {
	if ip.depth >= ip.maxDepth {
		return Value{}, internalError(pos, "maximum call depth %d exceeded", ip.maxDepth)
	}
	fn := fnVal.Func()
	if fn.ParamType != nil && !Conforms(arg, fn.ParamType) {
		return Value{}, typeError(pos, "argument does not conform to declared parameter type %s", fn.ParamType)
	}
	if fn.Native != nil {
		ip.depth++
		v, err := fn.Native(ip, arg, pos)
		ip.depth--
		if err != nil {
			return Value{}, err
		}
		if fn.ReturnType != nil && !Conforms(v, fn.ReturnType) {
			return Value{}, typeError(pos, "return value does not conform to declared return type %s", fn.ReturnType)
		}
		return v, nil
	}
	callEnv := NewEnv(fn.Env)
	callEnv.Define(fn.Param.Name, arg)
	callEnv.Define("this", this)
	ip.depth++
	v, sig, err := ip.eval(fn.Body, callEnv)
	ip.depth--
	if err != nil {
		return Value{}, err
	}
	if sig != nil {
		if sig.kind != sigReturn {
			return Value{}, internalError(pos, "%s used outside a loop", signalName(sig.kind))
		}
		v = sig.val
	}
	if fn.ReturnType != nil && !Conforms(v, fn.ReturnType) {
		return Value{}, typeError(pos, "return value does not conform to declared return type %s", fn.ReturnType)
	}
	return v, nil
}

// applyOracle performs one unary application of an oracle, delegating the
// computation of the result to ip.adapter (spec §4.7).
func (ip *Interpreter) applyOracle(orcVal Value, arg Value, pos Position) (Value, error) {
	orc := orcVal.OracleData()
	if orc.ParamType != nil && !Conforms(arg, orc.ParamType) {
		return Value{}, typeError(pos, "argument does not conform to declared parameter type %s", orc.ParamType)
	}
	req := OracleRequest{
		Annotation: orcVal.AnnotationText(),
		ParamType:  orc.ParamType,
		ReturnType: orc.ReturnType,
		Examples:   orc.Examples,
		Arg:        arg,
	}
	result, err := ip.adapter.Invoke(context.Background(), req)
	if err != nil {
		return Value{}, oracleError(pos, "%v", err)
	}
	if orc.ReturnType != nil && !Conforms(result, orc.ReturnType) {
		return Value{}, oracleError(pos, "adapter returned a value that does not conform to declared return type %s", orc.ReturnType)
	}
	return result, nil
}
