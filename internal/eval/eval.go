// Package eval implements a safe arithmetic expression evaluator.
//
// Expressions are lexed, parsed into a small AST, and interpreted directly
// against a numeric scope. The grammar is closed over numeric literals,
// identifiers, the operators + - * / ^, parentheses, and a fixed whitelist of
// math functions and constants; there is no mechanism for template content to
// reach anything executable.
package eval

import (
	"fmt"
	"math"
)

// builtin is a whitelisted function with a fixed arity.
type builtin struct {
	arity int
	fn    func(args []float64) float64
}

var functions = map[string]builtin{
	"sqrt":  {1, func(a []float64) float64 { return math.Sqrt(a[0]) }},
	"sin":   {1, func(a []float64) float64 { return math.Sin(a[0]) }},
	"cos":   {1, func(a []float64) float64 { return math.Cos(a[0]) }},
	"tan":   {1, func(a []float64) float64 { return math.Tan(a[0]) }},
	"asin":  {1, func(a []float64) float64 { return math.Asin(a[0]) }},
	"acos":  {1, func(a []float64) float64 { return math.Acos(a[0]) }},
	"atan":  {1, func(a []float64) float64 { return math.Atan(a[0]) }},
	"abs":   {1, func(a []float64) float64 { return math.Abs(a[0]) }},
	"pow":   {2, func(a []float64) float64 { return math.Pow(a[0], a[1]) }},
	"log":   {1, func(a []float64) float64 { return math.Log10(a[0]) }},
	"ln":    {1, func(a []float64) float64 { return math.Log(a[0]) }},
	"exp":   {1, func(a []float64) float64 { return math.Exp(a[0]) }},
	"min":   {2, func(a []float64) float64 { return math.Min(a[0], a[1]) }},
	"max":   {2, func(a []float64) float64 { return math.Max(a[0], a[1]) }},
	"round": {1, func(a []float64) float64 { return math.Round(a[0]) }},
	"floor": {1, func(a []float64) float64 { return math.Floor(a[0]) }},
	"ceil":  {1, func(a []float64) float64 { return math.Ceil(a[0]) }},
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// Evaluate parses and evaluates expr against scope. Scope entries shadow the
// builtin constants of the same name. Any failure — malformed syntax, an
// identifier absent from both scope and the whitelist, division by zero, or a
// non-finite result — returns a typed *Error and a zero value.
func Evaluate(expr string, scope map[string]float64) (float64, error) {
	root, perr := parse(expr)
	if perr != nil {
		return 0, perr
	}
	v, eerr := evalNode(expr, root, scope)
	if eerr != nil {
		return 0, eerr
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &Error{Expr: expr, Reason: "result is not finite", Kind: KindNotFinite}
	}
	return v, nil
}

func evalNode(expr string, n node, scope map[string]float64) (float64, *Error) {
	switch t := n.(type) {
	case numberNode:
		return t.val, nil

	case identNode:
		if v, ok := scope[t.name]; ok {
			return v, nil
		}
		if v, ok := constants[t.name]; ok {
			return v, nil
		}
		return 0, &Error{
			Expr:   expr,
			Token:  t.name,
			Reason: "unknown identifier",
			Kind:   KindUndefinedReference,
		}

	case unaryNode:
		v, err := evalNode(expr, t.expr, scope)
		if err != nil {
			return 0, err
		}
		return -v, nil

	case binaryNode:
		l, err := evalNode(expr, t.left, scope)
		if err != nil {
			return 0, err
		}
		r, err := evalNode(expr, t.right, scope)
		if err != nil {
			return 0, err
		}
		switch t.op {
		case tokPlus:
			return l + r, nil
		case tokMinus:
			return l - r, nil
		case tokStar:
			return l * r, nil
		case tokSlash:
			if r == 0 {
				return 0, &Error{Expr: expr, Reason: "division by zero", Kind: KindDivisionByZero}
			}
			return l / r, nil
		case tokCaret:
			return math.Pow(l, r), nil
		}
		return 0, syntaxErr(expr, "", "unknown binary operator")

	case callNode:
		b, ok := functions[t.name]
		if !ok {
			return 0, &Error{
				Expr:   expr,
				Token:  t.name,
				Reason: "unknown function",
				Kind:   KindUndefinedReference,
			}
		}
		if len(t.args) != b.arity {
			return 0, syntaxErr(expr, t.name,
				fmt.Sprintf("%s expects %d argument(s), got %d", t.name, b.arity, len(t.args)))
		}
		args := make([]float64, len(t.args))
		for i, a := range t.args {
			v, err := evalNode(expr, a, scope)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		v := b.fn(args)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, &Error{
				Expr:   expr,
				Token:  t.name,
				Reason: "function result is not finite",
				Kind:   KindNotFinite,
			}
		}
		return v, nil
	}
	return 0, syntaxErr(expr, "", "unknown node type")
}
