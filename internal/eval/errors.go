package eval

import "fmt"

// Kind classifies why an expression failed to evaluate.
type Kind int

const (
	// KindSyntax means the expression text could not be tokenized or parsed.
	KindSyntax Kind = iota

	// KindUndefinedReference means the expression names a variable that is
	// not present in the scope and is not a builtin constant.
	KindUndefinedReference

	// KindDivisionByZero means a division had a zero divisor.
	KindDivisionByZero

	// KindNotFinite means the result (or a function application) produced
	// NaN or an infinity.
	KindNotFinite
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindUndefinedReference:
		return "undefined-reference"
	case KindDivisionByZero:
		return "division-by-zero"
	case KindNotFinite:
		return "not-finite"
	default:
		return "unknown"
	}
}

// Error describes an evaluation failure. Callers decide fallback behavior;
// the evaluator never panics and never partially applies an expression.
type Error struct {
	Expr   string // the full expression text
	Token  string // the offending token or identifier, if known
	Reason string // human-readable description
	Kind   Kind
}

func (e *Error) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("evaluate %q: %s (%s %q)", e.Expr, e.Reason, e.Kind, e.Token)
	}
	return fmt.Sprintf("evaluate %q: %s (%s)", e.Expr, e.Reason, e.Kind)
}

func syntaxErr(expr, token, reason string) *Error {
	return &Error{Expr: expr, Token: token, Reason: reason, Kind: KindSyntax}
}
