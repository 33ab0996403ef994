package mindscript

import "math"

func (ip *Interpreter) evalBinOp(n *BinOpNode, env *Env) (Value, *signal, error) {
	if n.Op == "and" || n.Op == "or" {
		left, sig, err := ip.eval(n.Left, env)
		if err != nil || sig != nil {
			return Value{}, sig, err
		}
		if n.Op == "and" {
			if !Truthy(left) {
				return left, nil, nil
			}
			return ip.eval(n.Right, env)
		}
		if Truthy(left) {
			return left, nil, nil
		}
		return ip.eval(n.Right, env)
	}

	left, sig, err := ip.eval(n.Left, env)
	if err != nil || sig != nil {
		return Value{}, sig, err
	}
	right, sig, err := ip.eval(n.Right, env)
	if err != nil || sig != nil {
		return Value{}, sig, err
	}

	switch n.Op {
	case "==":
		return Bool(ValueEquals(left, right)), nil, nil
	case "!=":
		return Bool(!ValueEquals(left, right)), nil, nil
	case "<", "<=", ">", ">=":
		return evalCompare(n.Op, left, right, n.pos)
	case "+":
		return evalAdd(left, right, n.pos)
	case "-", "*", "/", "%":
		return evalArith(n.Op, left, right, n.pos)
	}
	return Value{}, nil, internalError(n.pos, "unknown operator %q", n.Op)
}

func isNum(v Value) bool { return v.Kind == KInt || v.Kind == KNum }

func evalCompare(op string, a, b Value, pos Position) (Value, *signal, error) {
	var cmp int
	switch {
	case isNum(a) && isNum(b):
		af, bf := a.NumOf(), b.NumOf()
		switch {
		case af < bf:
			cmp = -1
		case af > bf:
			cmp = 1
		default:
			cmp = 0
		}
	case a.Kind == KStr && b.Kind == KStr:
		switch {
		case a.StrOf() < b.StrOf():
			cmp = -1
		case a.StrOf() > b.StrOf():
			cmp = 1
		default:
			cmp = 0
		}
	default:
		return Value{}, nil, typeError(pos, "cannot compare %s and %s", a.Kind, b.Kind)
	}
	var result bool
	switch op {
	case "<":
		result = cmp < 0
	case "<=":
		result = cmp <= 0
	case ">":
		result = cmp > 0
	case ">=":
		result = cmp >= 0
	}
	return Bool(result), nil, nil
}

// evalAdd implements `+`: numeric addition, string concatenation, or array
// concatenation (spec §4.5's test scenarios exercise the array case via
// `out = out + [v]`).
func evalAdd(a, b Value, pos Position) (Value, *signal, error) {
	switch {
	case a.Kind == KStr && b.Kind == KStr:
		return Str(a.StrOf() + b.StrOf()), nil, nil
	case a.Kind == KArray && b.Kind == KArray:
		combined := make([]Value, 0, len(a.Items())+len(b.Items()))
		combined = append(combined, a.Items()...)
		combined = append(combined, b.Items()...)
		return NewArray(combined), nil, nil
	case a.Kind == KInt && b.Kind == KInt:
		return Int(a.IntOf() + b.IntOf()), nil, nil
	case isNum(a) && isNum(b):
		return Num(a.NumOf() + b.NumOf()), nil, nil
	}
	return Value{}, nil, typeError(pos, "cannot add %s and %s", a.Kind, b.Kind)
}

func evalArith(op string, a, b Value, pos Position) (Value, *signal, error) {
	if !isNum(a) || !isNum(b) {
		return Value{}, nil, typeError(pos, "%s requires numeric operands, got %s and %s", op, a.Kind, b.Kind)
	}
	bothInt := a.Kind == KInt && b.Kind == KInt
	switch op {
	case "-":
		if bothInt {
			return Int(a.IntOf() - b.IntOf()), nil, nil
		}
		return Num(a.NumOf() - b.NumOf()), nil, nil
	case "*":
		if bothInt {
			return Int(a.IntOf() * b.IntOf()), nil, nil
		}
		return Num(a.NumOf() * b.NumOf()), nil, nil
	case "/":
		if b.NumOf() == 0 {
			return Value{}, nil, valueError(pos, "division by zero")
		}
		return Num(a.NumOf() / b.NumOf()), nil, nil
	case "%":
		if bothInt {
			if b.IntOf() == 0 {
				return Value{}, nil, valueError(pos, "division by zero")
			}
			return Int(a.IntOf() % b.IntOf()), nil, nil
		}
		if b.NumOf() == 0 {
			return Value{}, nil, valueError(pos, "division by zero")
		}
		return Num(math.Mod(a.NumOf(), b.NumOf())), nil, nil
	}
	return Value{}, nil, internalError(pos, "unknown arithmetic operator %q", op)
}

func (ip *Interpreter) evalUnaryOp(n *UnaryOpNode, env *Env) (Value, *signal, error) {
	v, sig, err := ip.eval(n.Operand, env)
	if err != nil || sig != nil {
		return Value{}, sig, err
	}
	switch n.Op {
	case "not":
		return Bool(!Truthy(v)), nil, nil
	case "-":
		switch v.Kind {
		case KInt:
			return Int(-v.IntOf()), nil, nil
		case KNum:
			return Num(-v.NumOf()), nil, nil
		}
		return Value{}, nil, typeError(n.pos, "unary - requires a numeric operand, got %s", v.Kind)
	}
	return Value{}, nil, internalError(n.pos, "unknown unary operator %q", n.Op)
}

// evalTypeExpr evaluates a type-expression Node (spec §3.4/§4.2) to a
// resolved *Type. An IdentNode names a variable bound to a Type value —
// this is what lets `fun(x: T) ...` work when T was itself produced by
// `let T = type Int` rather than written out literally.
func (ip *Interpreter) evalTypeExpr(node Node, env *Env) (*Type, error) {
	switch n := node.(type) {
	case *TypePrimitiveNode:
		switch n.Kind {
		case TNull:
			return NullType, nil
		case TBool:
			return BoolType, nil
		case TInt:
			return IntType, nil
		case TNum:
			return NumType, nil
		case TStr:
			return StrType, nil
		case TTypeType:
			return TypeType, nil
		case TAny:
			return AnyType, nil
		}
		return nil, internalError(n.pos, "unknown primitive type kind %v", n.Kind)
	case *TypeArrayNode:
		elem, err := ip.evalTypeExpr(n.Elem, env)
		if err != nil {
			return nil, err
		}
		return arrayOf(elem), nil
	case *TypeObjectNode:
		fields := make([]Field, len(n.Fields))
		for i, f := range n.Fields {
			ft, err := ip.evalTypeExpr(f.Type, env)
			if err != nil {
				return nil, err
			}
			fields[i] = Field{Name: f.Name, Type: ft, Required: f.Required}
		}
		return objectOf(fields), nil
	case *TypeArrowNode:
		p, err := ip.evalTypeExpr(n.Param, env)
		if err != nil {
			return nil, err
		}
		r, err := ip.evalTypeExpr(n.Result, env)
		if err != nil {
			return nil, err
		}
		return arrowOf(p, r), nil
	case *TypeOptionalNode:
		elem, err := ip.evalTypeExpr(n.Elem, env)
		if err != nil {
			return nil, err
		}
		return optionalOf(elem), nil
	case *TypeEnumNode:
		base, err := ip.evalTypeExpr(n.Base, env)
		if err != nil {
			return nil, err
		}
		values := make([]Value, len(n.Values))
		for i, vn := range n.Values {
			v, sig, err := ip.eval(vn, env)
			if err != nil {
				return nil, err
			}
			if sig != nil {
				return nil, internalError(vn.Pos(), "control-flow expression used as an enum value")
			}
			values[i] = v
		}
		return enumOf(base, values), nil
	case *IdentNode:
		v, ok := env.Get(n.Name)
		if !ok {
			return nil, nameError(n.pos, "undefined name %q", n.Name)
		}
		if v.Kind != KType {
			return nil, typeError(n.pos, "%q is not a type", n.Name)
		}
		return v.TypeData(), nil
	}
	return nil, typeError(node.Pos(), "invalid type expression")
}
