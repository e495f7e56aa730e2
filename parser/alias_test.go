// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package parser

import (
	"testing"

	"shfront/ast"
)

func TestAliasSimpleExpansion(t *testing.T) {
	cfg := Config{Aliases: MapAliases{"ll": "ls -l"}}
	f := parseFile(t, "ll /tmp\n", cfg)
	st := soleStmt(t, f)
	ea, ok := st.Cmd.(*ast.ExpandedAlias)
	if !ok {
		t.Fatalf("Cmd = %T, want ExpandedAlias", st.Cmd)
	}
	sc, ok := ea.Child.(*ast.SimpleCommand)
	if !ok {
		t.Fatalf("Child = %T, want SimpleCommand", ea.Child)
	}
	if len(sc.Words) != 3 || litWord(sc.Words[0]) != "ls" || litWord(sc.Words[1]) != "-l" || litWord(sc.Words[2]) != "/tmp" {
		t.Fatalf("Words = %+v, want [ls -l /tmp]", sc.Words)
	}
}

// TestAliasTrailingSpaceChecksNextWord reproduces bash's
// alias-continuation rule: when an alias body ends in a blank, the next
// word is itself checked for alias eligibility before being treated as
// a plain argument.
func TestAliasTrailingSpaceChecksNextWord(t *testing.T) {
	cfg := Config{Aliases: MapAliases{"e": "echo "}}
	f := parseFile(t, "e e hi\n", cfg)
	st := soleStmt(t, f)
	ea, ok := st.Cmd.(*ast.ExpandedAlias)
	if !ok {
		t.Fatalf("Cmd = %T, want ExpandedAlias", st.Cmd)
	}
	sc, ok := ea.Child.(*ast.SimpleCommand)
	if !ok {
		t.Fatalf("Child = %T, want SimpleCommand", ea.Child)
	}
	var words []string
	for _, w := range sc.Words {
		words = append(words, litWord(w))
	}
	// "e e hi" -> alias body "echo " ends in a blank, so the next word
	// "e" is itself alias-checked and expands too, giving the command
	// line "echo echo hi" -- which at runtime prints "echo hi".
	if len(words) != 3 || words[0] != "echo" || words[1] != "echo" || words[2] != "hi" {
		t.Fatalf("Words = %v, want [echo echo hi]", words)
	}
}

func TestAliasWithoutTrailingSpaceDoesNotChain(t *testing.T) {
	cfg := Config{Aliases: MapAliases{"e": "echo", "x": "should-not-expand"}}
	f := parseFile(t, "e x hi\n", cfg)
	st := soleStmt(t, f)
	ea, ok := st.Cmd.(*ast.ExpandedAlias)
	if !ok {
		t.Fatalf("Cmd = %T, want ExpandedAlias", st.Cmd)
	}
	sc, ok := ea.Child.(*ast.SimpleCommand)
	if !ok {
		t.Fatalf("Child = %T, want SimpleCommand", ea.Child)
	}
	if len(sc.Words) != 3 || litWord(sc.Words[0]) != "echo" || litWord(sc.Words[1]) != "x" || litWord(sc.Words[2]) != "hi" {
		t.Fatalf("Words = %+v, want [echo x hi] (no trailing space, so x is not re-checked)", sc.Words)
	}
}

func TestAliasSelfReferenceDoesNotRecurse(t *testing.T) {
	cfg := Config{Aliases: MapAliases{"ls": "ls -F"}}
	f := parseFile(t, "ls /tmp\n", cfg)
	st := soleStmt(t, f)
	ea, ok := st.Cmd.(*ast.ExpandedAlias)
	if !ok {
		t.Fatalf("Cmd = %T, want ExpandedAlias", st.Cmd)
	}
	sc, ok := ea.Child.(*ast.SimpleCommand)
	if !ok {
		t.Fatalf("Child = %T, want SimpleCommand", ea.Child)
	}
	if len(sc.Words) != 3 || litWord(sc.Words[0]) != "ls" || litWord(sc.Words[1]) != "-F" {
		t.Fatalf("Words = %+v, want [ls -F /tmp], with the inner ls left unexpanded", sc.Words)
	}
}

func TestNoAliasesConfiguredLeavesCommandPlain(t *testing.T) {
	f := parseFile(t, "ll /tmp\n", Config{})
	st := soleStmt(t, f)
	if _, ok := st.Cmd.(*ast.ExpandedAlias); ok {
		t.Fatalf("Cmd = %+v, want a plain SimpleCommand with no alias table configured", st.Cmd)
	}
}
