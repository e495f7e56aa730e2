// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package parser

import (
	"testing"

	"shfront/ast"
)

func TestHereDocBody(t *testing.T) {
	src := "cat <<EOF\nhello\nworld\nEOF\n"
	f := parseFile(t, src, Config{})
	st := soleStmt(t, f)
	sc, ok := st.Cmd.(*ast.SimpleCommand)
	if !ok {
		t.Fatalf("Cmd = %T, want SimpleCommand", st.Cmd)
	}
	if len(sc.Redirs) != 1 {
		t.Fatalf("Redirs = %+v, want one here-doc redirect", sc.Redirs)
	}
	hd, ok := sc.Redirs[0].(*ast.HereDoc)
	if !ok {
		t.Fatalf("Redirs[0] = %T, want HereDoc", sc.Redirs[0])
	}
	if hd.Op != ast.RedirHereDoc {
		t.Fatalf("Op = %v, want RedirHereDoc", hd.Op)
	}
	var got []byte
	for _, part := range hd.StdinParts {
		if lit, ok := part.(*ast.Literal); ok {
			got = append(got, lit.Value...)
		}
	}
	if string(got) != "hello\nworld\n" {
		t.Fatalf("StdinParts text = %q, want %q", got, "hello\nworld\n")
	}
}

func TestHereDocDashStripsLeadingTabs(t *testing.T) {
	src := "cat <<-EOF\n\t\thello\n\tEOF\n"
	f := parseFile(t, src, Config{})
	st := soleStmt(t, f)
	sc := st.Cmd.(*ast.SimpleCommand)
	hd := sc.Redirs[0].(*ast.HereDoc)
	if hd.Op != ast.RedirHereDocDash {
		t.Fatalf("Op = %v, want RedirHereDocDash", hd.Op)
	}
	var got []byte
	for _, part := range hd.StdinParts {
		if lit, ok := part.(*ast.Literal); ok {
			got = append(got, lit.Value...)
		}
	}
	if string(got) != "hello\n" {
		t.Fatalf("StdinParts text = %q, want %q (leading tabs stripped)", got, "hello\n")
	}
}

// TestHereDocScheduledBeforeNextStatement checks that a here-doc's body
// is consumed off the lines immediately following its operator's line,
// before the next statement on a subsequent line is parsed -- even when
// another statement's words sit on the same line as the operator.
func TestHereDocScheduledBeforeNextStatement(t *testing.T) {
	src := "cat <<EOF; echo after\nbody\nEOF\n"
	f := parseFile(t, src, Config{})
	if len(f.Stmts) != 2 {
		t.Fatalf("got %d stmts, want 2", len(f.Stmts))
	}
	sc, ok := f.Stmts[0].Cmd.(*ast.SimpleCommand)
	if !ok || len(sc.Redirs) != 1 {
		t.Fatalf("first Cmd = %+v, want SimpleCommand with one redirect", f.Stmts[0].Cmd)
	}
	hd := sc.Redirs[0].(*ast.HereDoc)
	var got []byte
	for _, part := range hd.StdinParts {
		if lit, ok := part.(*ast.Literal); ok {
			got = append(got, lit.Value...)
		}
	}
	if string(got) != "body\n" {
		t.Fatalf("StdinParts text = %q, want %q", got, "body\n")
	}
	sc2, ok := f.Stmts[1].Cmd.(*ast.SimpleCommand)
	if !ok || litWord(sc2.Words[0]) != "echo" {
		t.Fatalf("second Cmd = %+v, want SimpleCommand{echo, after}", f.Stmts[1].Cmd)
	}
}

func TestHereDocUnterminatedIsError(t *testing.T) {
	err := parseErr(t, "cat <<EOF\nhello\n", Config{})
	if err == nil {
		t.Fatal("want an error for an unterminated here-doc")
	}
}
