// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package wordparser

import (
	"testing"

	"shfront/arena"
	"shfront/ast"
	"shfront/lexer"
	"shfront/lexmodes"
)

func newParser(src string) *Parser {
	a := arena.New("t.sh")
	lx := lexer.New(a, arena.NewStringReader(src))
	return New(lx, a)
}

func TestReadWordPlainLiteral(t *testing.T) {
	p := newParser("hello world")
	w, err := p.ReadWord(lexmodes.ShCommand)
	if err != nil {
		t.Fatal(err)
	}
	if w.Kind != ast.Compound || len(w.Parts) != 1 {
		t.Fatalf("ReadWord() = %+v, want a single-part Compound", w)
	}
	lit, ok := w.Parts[0].(*ast.Literal)
	if !ok || lit.Value != "hello" {
		t.Fatalf("part = %+v, want Literal \"hello\"", w.Parts[0])
	}
}

func TestReadWordEmptyAtOperator(t *testing.T) {
	p := newParser("| foo")
	w, err := p.ReadWord(lexmodes.ShCommand)
	if err != nil {
		t.Fatal(err)
	}
	if w.Kind != ast.TokenWord {
		t.Fatalf("ReadWord() at leading operator = %+v, want TokenWord", w)
	}
}

func TestReadWordSingleQuoted(t *testing.T) {
	p := newParser(`'a b $c'`)
	w, err := p.ReadWord(lexmodes.ShCommand)
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Parts) != 1 {
		t.Fatalf("ReadWord() = %+v, want one part", w)
	}
	sq, ok := w.Parts[0].(*ast.SingleQuoted)
	if !ok || sq.Tokens != "a b $c" || sq.Style != ast.PlainQuote {
		t.Fatalf("part = %+v, want SingleQuoted(\"a b $c\", PlainQuote)", w.Parts[0])
	}
}

func TestReadWordDollarSingleQuoted(t *testing.T) {
	p := newParser(`$'a\nb'`)
	w, err := p.ReadWord(lexmodes.ShCommand)
	if err != nil {
		t.Fatal(err)
	}
	sq, ok := w.Parts[0].(*ast.SingleQuoted)
	if !ok || sq.Style != ast.DollarQuote {
		t.Fatalf("part = %+v, want a DollarQuote SingleQuoted", w.Parts[0])
	}
}

func TestReadWordDoubleQuotedWithVarSub(t *testing.T) {
	p := newParser(`"hi $name!"`)
	w, err := p.ReadWord(lexmodes.ShCommand)
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Parts) != 1 {
		t.Fatalf("ReadWord() = %+v, want one DoubleQuoted part", w)
	}
	dq, ok := w.Parts[0].(*ast.DoubleQuoted)
	if !ok {
		t.Fatalf("part = %+v, want DoubleQuoted", w.Parts[0])
	}
	if len(dq.Parts) != 3 {
		t.Fatalf("DoubleQuoted.Parts = %+v, want 3 parts (lit, varsub, lit)", dq.Parts)
	}
	if _, ok := dq.Parts[1].(*ast.SimpleVarSub); !ok {
		t.Fatalf("middle part = %+v, want SimpleVarSub", dq.Parts[1])
	}
}

func TestReadWordDoubleQuotedRetainsEmptyForm(t *testing.T) {
	p := newParser(`""`)
	w, err := p.ReadWord(lexmodes.ShCommand)
	if err != nil {
		t.Fatal(err)
	}
	dq, ok := w.Parts[0].(*ast.DoubleQuoted)
	if !ok {
		t.Fatalf("part = %+v, want DoubleQuoted", w.Parts[0])
	}
	if dq.Parts != nil {
		t.Fatalf("empty \"\" should keep a nil/zero-length Parts, got %v", dq.Parts)
	}
}

func TestReadWordSimpleVarSub(t *testing.T) {
	p := newParser("$x rest")
	w, err := p.ReadWord(lexmodes.ShCommand)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := w.Parts[0].(*ast.SimpleVarSub)
	if !ok || v.Name != "x" {
		t.Fatalf("part = %+v, want SimpleVarSub(\"x\")", w.Parts[0])
	}
}

func TestReadWordBracedVarSubDefault(t *testing.T) {
	p := newParser("${name:-def}")
	w, err := p.ReadWord(lexmodes.ShCommand)
	if err != nil {
		t.Fatal(err)
	}
	b, ok := w.Parts[0].(*ast.BracedVarSub)
	if !ok {
		t.Fatalf("part = %+v, want BracedVarSub", w.Parts[0])
	}
	if b.Param != "name" {
		t.Fatalf("Param = %q, want \"name\"", b.Param)
	}
	if b.Suffix == nil || b.Suffix.Kind != ast.SuffixUnary || b.Suffix.Unary != ast.OpUnsetOrNull {
		t.Fatalf("Suffix = %+v, want Unary OpUnsetOrNull", b.Suffix)
	}
}

func TestReadWordBracedVarSubLengthPrefix(t *testing.T) {
	p := newParser("${#name}")
	w, err := p.ReadWord(lexmodes.ShCommand)
	if err != nil {
		t.Fatal(err)
	}
	b := w.Parts[0].(*ast.BracedVarSub)
	if b.Prefix != ast.PrefixLength || b.Param != "name" {
		t.Fatalf("BracedVarSub = %+v, want Prefix=PrefixLength Param=\"name\"", b)
	}
}

func TestReadWordBracedVarSubArrayAt(t *testing.T) {
	p := newParser("${arr[@]}")
	w, err := p.ReadWord(lexmodes.ShCommand)
	if err != nil {
		t.Fatal(err)
	}
	b := w.Parts[0].(*ast.BracedVarSub)
	if b.Bracket == nil || b.Bracket.Kind != ast.BracketAt {
		t.Fatalf("Bracket = %+v, want BracketAt", b.Bracket)
	}
}

func TestReadWordBracedVarSubPatSub(t *testing.T) {
	p := newParser("${name//foo/bar}")
	w, err := p.ReadWord(lexmodes.ShCommand)
	if err != nil {
		t.Fatal(err)
	}
	b := w.Parts[0].(*ast.BracedVarSub)
	if b.Suffix == nil || b.Suffix.Kind != ast.SuffixPatSub || !b.Suffix.PatSubAll {
		t.Fatalf("Suffix = %+v, want all-match PatSub", b.Suffix)
	}
	if b.Suffix.PatSubOrig != "foo" {
		t.Fatalf("PatSubOrig = %q, want \"foo\"", b.Suffix.PatSubOrig)
	}
}

func TestReadWordTildeExpansionFirstPartOnly(t *testing.T) {
	p := newParser("~user/bin")
	w, err := p.ReadWord(lexmodes.ShCommand)
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Parts) != 2 {
		t.Fatalf("Parts = %+v, want [TildeSub, Literal]", w.Parts)
	}
	ts, ok := w.Parts[0].(*ast.TildeSub)
	if !ok || ts.Name != "user" {
		t.Fatalf("Parts[0] = %+v, want TildeSub(\"user\")", w.Parts[0])
	}
	lit, ok := w.Parts[1].(*ast.Literal)
	if !ok || lit.Value != "/bin" {
		t.Fatalf("Parts[1] = %+v, want Literal(\"/bin\")", w.Parts[1])
	}
}

func TestReadWordArithBracketDeprecatedForm(t *testing.T) {
	p := newParser("$[1+2]")
	w, err := p.ReadWord(lexmodes.ShCommand)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := w.Parts[0].(*ast.ArithSub); !ok {
		t.Fatalf("part = %+v, want ArithSub", w.Parts[0])
	}
}

func TestReadWordDollarDoubleParen(t *testing.T) {
	p := newParser("$((1+2))")
	w, err := p.ReadWord(lexmodes.ShCommand)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := w.Parts[0].(*ast.ArithSub); !ok {
		t.Fatalf("part = %+v, want ArithSub", w.Parts[0])
	}
}

func TestReadWordUnterminatedSingleQuoteErrors(t *testing.T) {
	p := newParser(`'unterminated`)
	if _, err := p.ReadWord(lexmodes.ShCommand); err == nil {
		t.Fatal("expected an error for an unterminated single quote")
	}
}

func TestReadHereDocBodyQuotedDelimiterIsLiteralOnly(t *testing.T) {
	a := arena.New("t.sh")
	lx := lexer.New(a, arena.NewStringReader(""))
	p := New(lx, a)
	parts, err := p.ReadHereDocBody([]arena.VirtualLine{
		{Text: "hello $x"},
		{Text: "world"},
	}, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 1 {
		t.Fatalf("parts = %+v, want a single literal part", parts)
	}
	lit, ok := parts[0].(*ast.Literal)
	if !ok || lit.Value != "hello $x\nworld" {
		t.Fatalf("part = %+v, want literal \"hello $x\\nworld\"", parts[0])
	}
}

func TestReadHereDocBodyUnquotedExpandsVarSub(t *testing.T) {
	a := arena.New("t.sh")
	lx := lexer.New(a, arena.NewStringReader(""))
	p := New(lx, a)
	parts, err := p.ReadHereDocBody([]arena.VirtualLine{
		{Text: "hello $x"},
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	foundVarSub := false
	for _, part := range parts {
		if _, ok := part.(*ast.SimpleVarSub); ok {
			foundVarSub = true
		}
	}
	if !foundVarSub {
		t.Fatalf("parts = %+v, want a SimpleVarSub for $x", parts)
	}
}
