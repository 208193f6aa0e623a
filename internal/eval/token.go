package eval

import (
	"strings"
	"unicode"
)

type tokenType int

const (
	tokNumber tokenType = iota
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
	tokComma
	tokEOF
)

type token struct {
	typ tokenType
	val string
	pos int
}

// lex splits an expression into tokens. The token alphabet is deliberately
// closed: numbers, identifiers, the five operators, parentheses, and commas.
// Anything else is a syntax failure, which is what keeps the grammar free of
// executable content.
func lex(expr string) ([]token, *Error) {
	var toks []token
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c >= '0' && c <= '9' || c == '.':
			start := i
			seenDot := false
			for i < len(expr) && (expr[i] >= '0' && expr[i] <= '9' || expr[i] == '.') {
				if expr[i] == '.' {
					if seenDot {
						return nil, syntaxErr(expr, expr[start:i+1], "malformed number")
					}
					seenDot = true
				}
				i++
			}
			lit := expr[start:i]
			if lit == "." {
				return nil, syntaxErr(expr, lit, "malformed number")
			}
			toks = append(toks, token{tokNumber, lit, start})
		case isIdentStart(rune(c)):
			start := i
			for i < len(expr) && isIdentPart(rune(expr[i])) {
				i++
			}
			toks = append(toks, token{tokIdent, expr[start:i], start})
		case c == '+':
			toks = append(toks, token{tokPlus, "+", i})
			i++
		case c == '-':
			toks = append(toks, token{tokMinus, "-", i})
			i++
		case c == '*':
			toks = append(toks, token{tokStar, "*", i})
			i++
		case c == '/':
			toks = append(toks, token{tokSlash, "/", i})
			i++
		case c == '^':
			toks = append(toks, token{tokCaret, "^", i})
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "(", i})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")", i})
			i++
		case c == ',':
			toks = append(toks, token{tokComma, ",", i})
			i++
		default:
			return nil, syntaxErr(expr, string(c), "unexpected character")
		}
	}
	toks = append(toks, token{tokEOF, "", len(expr)})
	return toks, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsIdent reports whether s is a well-formed identifier (one lexer token).
func IsIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if i > 0 && !isIdentPart(r) {
			return false
		}
	}
	return true
}

// Identifiers returns the distinct identifier tokens appearing in expr,
// excluding builtin function and constant names. It is used by callers that
// need the dependency set of a formula without evaluating it.
func Identifiers(expr string) []string {
	toks, err := lex(expr)
	if err != nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for idx, t := range toks {
		if t.typ != tokIdent {
			continue
		}
		if _, ok := functions[t.val]; ok && idx+1 < len(toks) && toks[idx+1].typ == tokLParen {
			continue
		}
		if _, ok := constants[t.val]; ok {
			continue
		}
		if !seen[t.val] {
			seen[t.val] = true
			out = append(out, t.val)
		}
	}
	return out
}

// ContainsMarkup reports whether s carries markup-escape markers (a backslash
// or a brace-delimited exponent) and should therefore be passed through
// unevaluated by single-brace expression handling.
func ContainsMarkup(s string) bool {
	return strings.ContainsRune(s, '\\') || strings.Contains(s, "^{")
}
