package eval

import (
	"fmt"
	"strconv"
)

// node is an expression-tree node. The tree is interpreted directly; no
// source text is ever synthesized or executed.
type node interface{}

type numberNode struct {
	val float64
}

type identNode struct {
	name string
}

type unaryNode struct {
	op   tokenType // tokMinus
	expr node
}

type binaryNode struct {
	op    tokenType
	left  node
	right node
}

type callNode struct {
	name string
	args []node
}

type parser struct {
	expr string
	toks []token
	pos  int
}

func parse(expr string) (node, *Error) {
	toks, err := lex(expr)
	if err != nil {
		return nil, err
	}
	p := &parser{expr: expr, toks: toks}
	n, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.peek().typ != tokEOF {
		return nil, syntaxErr(expr, p.peek().val, "unexpected trailing input")
	}
	return n, nil
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.typ != tokEOF {
		p.pos++
	}
	return t
}

// parseSum handles binary + and -.
func (p *parser) parseSum() (node, *Error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokPlus || p.peek().typ == tokMinus {
		op := p.next().typ
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

// parseProduct handles binary * and /.
func (p *parser) parseProduct() (node, *Error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokStar || p.peek().typ == tokSlash {
		op := p.next().typ
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

// parseUnary handles prefix minus. It recurses through parsePower, so unary
// minus binds looser than exponentiation: -2^2 parses as -(2^2).
func (p *parser) parseUnary() (node, *Error) {
	if p.peek().typ == tokMinus {
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: tokMinus, expr: inner}, nil
	}
	return p.parsePower()
}

// parsePower handles ^ as right-associative: 2^3^2 parses as 2^(3^2). The
// exponent is parsed as a unary expression so 2^-3 is accepted.
func (p *parser) parsePower() (node, *Error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.peek().typ == tokCaret {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return binaryNode{op: tokCaret, left: base, right: exp}, nil
	}
	return base, nil
}

func (p *parser) parseAtom() (node, *Error) {
	t := p.next()
	switch t.typ {
	case tokNumber:
		v, err := strconv.ParseFloat(t.val, 64)
		if err != nil {
			return nil, syntaxErr(p.expr, t.val, "malformed number")
		}
		return numberNode{val: v}, nil

	case tokIdent:
		if p.peek().typ == tokLParen {
			p.next()
			args, perr := p.parseArgs()
			if perr != nil {
				return nil, perr
			}
			return callNode{name: t.val, args: args}, nil
		}
		return identNode{name: t.val}, nil

	case tokLParen:
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.peek().typ != tokRParen {
			return nil, syntaxErr(p.expr, p.peek().val, "expected closing parenthesis")
		}
		p.next()
		return inner, nil

	case tokEOF:
		return nil, syntaxErr(p.expr, "", "unexpected end of expression")

	default:
		return nil, syntaxErr(p.expr, t.val, fmt.Sprintf("unexpected token at offset %d", t.pos))
	}
}

// parseArgs parses a comma-separated argument list; the opening parenthesis
// has already been consumed.
func (p *parser) parseArgs() ([]node, *Error) {
	var args []node
	if p.peek().typ == tokRParen {
		p.next()
		return args, nil
	}
	for {
		arg, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		switch p.peek().typ {
		case tokComma:
			p.next()
		case tokRParen:
			p.next()
			return args, nil
		default:
			return nil, syntaxErr(p.expr, p.peek().val, "expected , or ) in argument list")
		}
	}
}
