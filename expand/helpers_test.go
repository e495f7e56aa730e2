// Copyright (c) 2018, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package expand

import "shfront/ast"

// litWord builds a single-literal compound word, the shape most plain
// strings take once parsed.
func litWord(s string) *ast.Word {
	return &ast.Word{Kind: ast.Compound, Parts: []ast.WordPart{&ast.Literal{Value: s}}}
}

func word(parts ...ast.WordPart) *ast.Word {
	return &ast.Word{Kind: ast.Compound, Parts: parts}
}

func dq(parts ...ast.WordPart) *ast.DoubleQuoted {
	return &ast.DoubleQuoted{Parts: parts}
}

func lit(s string) *ast.Literal { return &ast.Literal{Value: s} }

func sq(s string) *ast.SingleQuoted { return &ast.SingleQuoted{Tokens: s} }

func simpleVar(name string) *ast.SimpleVarSub { return &ast.SimpleVarSub{Name: name} }

// arithInt builds an ArithmWord whose raw token text is just an
// integer literal, for index/slice-offset test fixtures that don't
// need the arithmetic evaluator's full expression grammar.
func arithInt(n int) *ast.ArithmWord {
	return &ast.ArithmWord{Tokens: []ast.Token{{Val: itoa(n)}}}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func newTestRuntime(pairs ...string) *Runtime {
	rt := NewRuntime(ListEnviron(pairs...))
	rt.PWD = "."
	return rt
}
