// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package expand

import (
	"fmt"
	"strconv"
	"strings"

	"shfront/ast"
)

// DefaultArithm is the evaluator NewRuntime wires in by default. A full
// `(( ))` arithmetic engine lives outside this module, but word
// evaluation still needs *some* way to settle `${a[i]}`/`${s:off:len}`
// indices, so this re-tokenizes the ArithmWord's raw token text (kept opaque by
// ast.ArithmWord, since a full arithmetic evaluator lives outside this
// module) and walks a small precedence-climbing evaluator over it,
// grounded on the shape of mvdan.cc/sh/v3's expand/arith.go
// Arithm/ExpandArithm (variable lookups through Env, same operator
// set, same left-to-right associativity) but self-contained since this
// module does not carry that package's own arithmetic-expression
// parser.
type DefaultArithm struct{}

func (DefaultArithm) Eval(rt *Runtime, expr ast.ArithmExpr) (int, error) {
	aw, ok := expr.(*ast.ArithmWord)
	if !ok {
		return 0, fmt.Errorf("expand: unsupported arithmetic expression node %T", expr)
	}
	var b strings.Builder
	for _, t := range aw.Tokens {
		b.WriteString(t.Val)
	}
	p := &arithmParser{rt: rt, s: b.String()}
	p.skipSpace()
	v, err := p.expr(0)
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.i != len(p.s) {
		return 0, fmt.Errorf("expand: unexpected %q in arithmetic expression", p.s[p.i:])
	}
	return v, nil
}

// arithmParser is a precedence-climbing evaluator over bash arithmetic
// syntax; variable names resolve through rt.Env, unset/non-numeric
// variables evaluate to 0 as bash does outside `set -u`.
type arithmParser struct {
	rt *Runtime
	s  string
	i  int
}

func (p *arithmParser) skipSpace() {
	for p.i < len(p.s) && (p.s[p.i] == ' ' || p.s[p.i] == '\t') {
		p.i++
	}
}

func (p *arithmParser) peek() byte {
	if p.i >= len(p.s) {
		return 0
	}
	return p.s[p.i]
}

// binOp is one binary-operator spelling and its precedence; longer
// spellings are tried first so "<=" wins over "<".
type binOp struct {
	op   string
	prec int
}

var binOps = []binOp{
	{"**", 7},
	{"*", 6}, {"/", 6}, {"%", 6},
	{"+", 5}, {"-", 5},
	{"<<", 4}, {">>", 4},
	{"<=", 3}, {">=", 3}, {"<", 3}, {">", 3},
	{"==", 2}, {"!=", 2},
	{"&&", 1}, {"||", 1},
	{"&", 3}, {"^", 3}, {"|", 3},
}

func (p *arithmParser) matchOp() (binOp, bool) {
	for _, bo := range binOps {
		if strings.HasPrefix(p.s[p.i:], bo.op) {
			return bo, true
		}
	}
	return binOp{}, false
}

func (p *arithmParser) expr(minPrec int) (int, error) {
	lhs, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		bo, ok := p.matchOp()
		if !ok || bo.prec < minPrec {
			break
		}
		p.i += len(bo.op)
		p.skipSpace()
		rhs, err := p.expr(bo.prec + 1)
		if err != nil {
			return 0, err
		}
		lhs, err = applyBinOp(bo.op, lhs, rhs)
		if err != nil {
			return 0, err
		}
	}
	return lhs, nil
}

func applyBinOp(op string, l, r int) (int, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return 0, fmt.Errorf("expand: division by zero")
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return 0, fmt.Errorf("expand: division by zero")
		}
		return l % r, nil
	case "**":
		res := 1
		for i := 0; i < r; i++ {
			res *= l
		}
		return res, nil
	case "<<":
		return l << uint(r), nil
	case ">>":
		return l >> uint(r), nil
	case "<":
		return boolInt(l < r), nil
	case "<=":
		return boolInt(l <= r), nil
	case ">":
		return boolInt(l > r), nil
	case ">=":
		return boolInt(l >= r), nil
	case "==":
		return boolInt(l == r), nil
	case "!=":
		return boolInt(l != r), nil
	case "&&":
		return boolInt(l != 0 && r != 0), nil
	case "||":
		return boolInt(l != 0 || r != 0), nil
	case "&":
		return l & r, nil
	case "|":
		return l | r, nil
	case "^":
		return l ^ r, nil
	}
	return 0, fmt.Errorf("expand: unknown arithmetic operator %q", op)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (p *arithmParser) unary() (int, error) {
	p.skipSpace()
	switch p.peek() {
	case '-':
		p.i++
		v, err := p.unary()
		return -v, err
	case '+':
		p.i++
		return p.unary()
	case '!':
		p.i++
		v, err := p.unary()
		return boolInt(v == 0), err
	case '~':
		p.i++
		v, err := p.unary()
		return ^v, err
	case '(':
		p.i++
		v, err := p.expr(0)
		if err != nil {
			return 0, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return 0, fmt.Errorf("expand: unmatched '(' in arithmetic expression")
		}
		p.i++
		return v, nil
	}
	return p.primary()
}

func (p *arithmParser) primary() (int, error) {
	p.skipSpace()
	start := p.i
	switch {
	case isDigit(p.peek()):
		for p.i < len(p.s) && (isDigit(p.s[p.i]) || p.s[p.i] == 'x' || p.s[p.i] == 'X' ||
			(p.s[p.i] >= 'a' && p.s[p.i] <= 'f') || (p.s[p.i] >= 'A' && p.s[p.i] <= 'F')) {
			p.i++
		}
		lit := p.s[start:p.i]
		n, err := strconv.ParseInt(lit, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("expand: invalid arithmetic literal %q", lit)
		}
		return int(n), nil
	case isNameStart(p.peek()):
		for p.i < len(p.s) && isNameCont(p.s[p.i]) {
			p.i++
		}
		name := p.s[start:p.i]
		return p.rt.varAsInt(name), nil
	default:
		return 0, fmt.Errorf("expand: unexpected character %q in arithmetic expression", p.peek())
	}
}

func isDigit(b byte) bool      { return b >= '0' && b <= '9' }
func isNameStart(b byte) bool  { return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isNameCont(b byte) bool   { return isNameStart(b) || isDigit(b) }

// varAsInt resolves a bare name to its integer value for arithmetic
// context, treating unset or non-numeric variables as 0 (bash's
// default behavior outside `set -u`, which the caller must enforce
// separately since ArithmEvaluator has no notion of "unset").
func (rt *Runtime) varAsInt(name string) int {
	vr := rt.Env.Get(name)
	if !vr.IsSet() {
		return 0
	}
	n, _ := strconv.Atoi(strings.TrimSpace(vr.String()))
	return n
}
