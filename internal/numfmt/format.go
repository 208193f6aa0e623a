// Package numfmt converts numeric results into textbook-style display
// strings: integers, exact reduced fractions, simplified radicals, and only
// then decimal fallback. Arithmetic answers in this domain are overwhelmingly
// exact fractions or exact radicals, so the cascade tries the clean forms
// first.
package numfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/abhisek/quizsmith/internal/eval"
)

const (
	rationalMaxTerms = 20
	rationalMaxDen   = 1000
	rationalTol      = 1e-12

	// exactDivTol is the relative tolerance for accepting a source-expression
	// fraction as a rendering of the value it was derived from.
	exactDivTol = 1e-9

	// decimalDigits is the fixed-point fallback precision before trailing
	// zeros are trimmed.
	decimalDigits = 8

	// maxExactInt bounds integer detection to the range where float64 still
	// represents integers exactly.
	maxExactInt = 1 << 53
)

// Formatter renders numeric values for display. The zero value is not
// usable; construct with New.
type Formatter struct {
	digits int
}

// New returns a Formatter with the standard 8-digit decimal fallback.
func New() *Formatter {
	return &Formatter{digits: decimalDigits}
}

// NewWithDigits returns a Formatter with a custom decimal fallback width.
func NewWithDigits(digits int) *Formatter {
	if digits <= 0 {
		digits = decimalDigits
	}
	return &Formatter{digits: digits}
}

// Format converts v into display form with no source-expression context.
func (f *Formatter) Format(v float64) string {
	return f.FormatExpr(v, "", nil)
}

// FormatExpr converts v into display form. When sourceExpr is the expression
// v came from and it is a top-level division whose halves are both
// integer-valued over scope, the result is rendered as that exact reduced
// fraction instead of a decimal.
//
// Decision order, first match wins: non-finite pass-through, integer, exact
// fraction from sourceExpr, simplified radical, continued-fraction rational,
// trimmed fixed-point decimal.
func (f *Formatter) FormatExpr(v float64, sourceExpr string, scope map[string]float64) string {
	// Non-finite values pass through as text so broken templates stay
	// visible in output.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}

	if isInt(v) {
		return strconv.FormatInt(int64(v), 10)
	}

	if sourceExpr != "" {
		if s, ok := exactDivision(sourceExpr, v, scope); ok {
			return s
		}
	}

	if s, ok := asRadical(v); ok {
		return s
	}

	if num, den, ok := rationalize(v, rationalMaxTerms, rationalMaxDen, rationalTol); ok && den > 1 {
		return fmt.Sprintf("%d/%d", num, den)
	}

	return trimDecimal(strconv.FormatFloat(v, 'f', f.digits, 64))
}

// ForceFraction renders v as \frac markup regardless of integrality: the
// author asked for a fraction, so integers become n/1. Values with no small
// rational form fall back to the normal cascade.
func (f *Formatter) ForceFraction(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	if isInt(v) {
		return FractionMarkup(int64(v), 1)
	}
	if num, den, ok := rationalize(v, rationalMaxTerms, rationalMaxDen, rationalTol); ok {
		return FractionMarkup(num, den)
	}
	return f.FormatExpr(v, "", nil)
}

// exactDivision checks whether expr is a simple division of two
// sub-expressions that both evaluate to integers over scope. Division by
// zero or non-integer halves report no match, as does a quotient that does
// not reproduce v: the slash in "5/2*3" or "1+1/2" is not the expression's
// top-level operator, and the fraction it suggests is not the value.
func exactDivision(expr string, v float64, scope map[string]float64) (string, bool) {
	numExpr, denExpr, ok := splitTopLevelDivision(expr)
	if !ok {
		return "", false
	}
	numV, err := eval.Evaluate(numExpr, scope)
	if err != nil || !isInt(numV) {
		return "", false
	}
	denV, err := eval.Evaluate(denExpr, scope)
	if err != nil || !isInt(denV) || denV == 0 {
		return "", false
	}
	if math.Abs(numV/denV-v) > exactDivTol*math.Max(1, math.Abs(v)) {
		return "", false
	}
	return fractionString(int64(numV), int64(denV)), true
}

// splitTopLevelDivision splits expr at its single slash outside parentheses.
// More than one top-level slash means the expression is not a simple
// division.
func splitTopLevelDivision(expr string) (string, string, bool) {
	depth := 0
	idx := -1
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '/':
			if depth == 0 {
				if idx != -1 {
					return "", "", false
				}
				idx = i
			}
		}
	}
	if idx <= 0 || idx >= len(expr)-1 {
		return "", "", false
	}
	num := strings.TrimSpace(expr[:idx])
	den := strings.TrimSpace(expr[idx+1:])
	if num == "" || den == "" {
		return "", "", false
	}
	return num, den, true
}

func isInt(v float64) bool {
	return v == math.Trunc(v) && math.Abs(v) < maxExactInt
}

// trimDecimal drops trailing zeros (and a bare trailing point) from a
// fixed-point decimal string.
func trimDecimal(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
