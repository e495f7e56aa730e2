// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package lexer

import (
	"testing"

	"shfront/arena"
	"shfront/lexmodes"
	"shfront/token"
)

func readTokens(t *testing.T, src string, mode lexmodes.Mode) []Token {
	t.Helper()
	a := arena.New("t.sh")
	lx := New(a, arena.NewStringReader(src))
	var toks []Token
	for {
		tok := lx.Read(mode)
		toks = append(toks, tok)
		if tok.ID == token.EOFReal {
			return toks
		}
		if len(toks) > 1000 {
			t.Fatal("runaway token stream")
		}
	}
}

func TestReadSimpleCommandOperators(t *testing.T) {
	toks := readTokens(t, "echo hi | cat", lexmodes.ShCommand)
	var ids []token.ID
	for _, tok := range toks {
		if tok.ID == token.IgnoredSpace {
			continue
		}
		ids = append(ids, tok.ID)
	}
	want := []token.ID{token.LitWord, token.LitWord, token.Pipe, token.LitWord, token.Newline, token.EOFReal}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}

func TestReadLongestOperatorWins(t *testing.T) {
	toks := readTokens(t, "a&&b", lexmodes.ShCommand)
	if toks[0].ID != token.LitWord || toks[0].Val != "a" {
		t.Fatalf("toks[0] = %+v, want LitWord \"a\"", toks[0])
	}
	if toks[1].ID != token.AndAnd {
		t.Fatalf("toks[1] = %+v, want AndAnd (not two Amp)", toks[1])
	}
}

func TestReadEOFSynthesizesEOFReal(t *testing.T) {
	a := arena.New("t.sh")
	lx := New(a, arena.NewStringReader(""))
	tok := lx.Read(lexmodes.ShCommand)
	if tok.ID != token.EOFReal {
		t.Fatalf("Read() on empty input = %+v, want EOFReal", tok)
	}
	if !lx.AtInputEnd() {
		t.Fatal("AtInputEnd() = false after EOFReal")
	}
}

func TestReadCompDummyOnlyOnceWhenEnabled(t *testing.T) {
	a := arena.New("t.sh")
	lx := New(a, arena.NewStringReader(""))
	lx.SetEmitCompDummy(true)
	first := lx.Read(lexmodes.ShCommand)
	if first.ID != token.CompDummy {
		t.Fatalf("first Read() = %+v, want CompDummy", first)
	}
	second := lx.Read(lexmodes.ShCommand)
	if second.ID != token.EOFReal {
		t.Fatalf("second Read() = %+v, want EOFReal", second)
	}
}

func TestReadBridgesLineContinuationSilently(t *testing.T) {
	toks := readTokens(t, "echo a\\\nb", lexmodes.ShCommand)
	// "a\" elides the backslash-newline: the lexer hands back LitCont("a")
	// then bridges straight into "b" on the next line as LitWord, without
	// ever surfacing a Newline token in between (that concatenation is
	// the word parser's job, one layer up).
	var seq []token.ID
	for _, tok := range toks {
		if tok.ID == token.IgnoredSpace {
			continue
		}
		seq = append(seq, tok.ID)
		if tok.ID == token.EOFReal {
			break
		}
	}
	foundLitCont, sawNewlineBetween := false, false
	for i, id := range seq {
		if id == token.LitCont {
			foundLitCont = true
			if i+1 < len(seq) && seq[i+1] == token.Newline {
				sawNewlineBetween = true
			}
		}
	}
	if !foundLitCont {
		t.Fatalf("expected a LitCont token for the elided line continuation, got %v", seq)
	}
	if sawNewlineBetween {
		t.Fatalf("line continuation must bridge silently, no Newline token: %v", seq)
	}
}

func TestReadNewlineSignificantInShCommand(t *testing.T) {
	toks := readTokens(t, "echo a\necho b", lexmodes.ShCommand)
	found := false
	for _, tok := range toks {
		if tok.ID == token.Newline {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a Newline token between two statement lines")
	}
}

func TestPushHintRewritesMatchingID(t *testing.T) {
	a := arena.New("t.sh")
	lx := New(a, arena.NewStringReader(")"))
	lx.PushHint(token.Rparen, token.DRparen)
	tok := lx.Read(lexmodes.ShCommand)
	if tok.ID != token.DRparen {
		t.Fatalf("Read() after PushHint = %+v, want DRparen", tok)
	}
}

func TestPushHintOnlyAppliesOnce(t *testing.T) {
	a := arena.New("t.sh")
	lx := New(a, arena.NewStringReader("))"))
	lx.PushHint(token.Rparen, token.DRparen)
	first := lx.Read(lexmodes.ShCommand)
	second := lx.Read(lexmodes.ShCommand)
	if first.ID != token.DRparen {
		t.Fatalf("first = %+v, want DRparen", first)
	}
	if second.ID != token.Rparen {
		t.Fatalf("second = %+v, want plain Rparen (hint consumed already)", second)
	}
}

func TestReadSimpleVarNameSpecialParam(t *testing.T) {
	a := arena.New("t.sh")
	lx := New(a, arena.NewStringReader("$@ rest"))
	tok := lx.Read(lexmodes.ShCommand)
	if tok.ID != token.Dollar {
		t.Fatalf("Read() = %+v, want Dollar", tok)
	}
	name, _ := lx.ReadSimpleVarName()
	if name != "@" {
		t.Fatalf("ReadSimpleVarName() = %q, want \"@\"", name)
	}
}

func TestReadSimpleVarNameIdentifier(t *testing.T) {
	a := arena.New("t.sh")
	lx := New(a, arena.NewStringReader("$foo_bar2 rest"))
	lx.Read(lexmodes.ShCommand) // consumes Dollar
	name, _ := lx.ReadSimpleVarName()
	if name != "foo_bar2" {
		t.Fatalf("ReadSimpleVarName() = %q, want \"foo_bar2\"", name)
	}
}
