// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package parser

import (
	"testing"

	"shfront/arena"
	"shfront/ast"
)

// parseFile parses src with the given config and fails the test on error.
func parseFile(t *testing.T, src string, cfg Config) *ast.File {
	t.Helper()
	a := arena.New("t.sh")
	p, err := New(a, arena.NewStringReader(src), cfg)
	if err != nil {
		t.Fatalf("New(%q) error: %v", src, err)
	}
	f, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return f
}

// parseErr parses src and returns the error, failing the test if parsing
// unexpectedly succeeds.
func parseErr(t *testing.T, src string, cfg Config) error {
	t.Helper()
	a := arena.New("t.sh")
	p, err := New(a, arena.NewStringReader(src), cfg)
	if err != nil {
		return err
	}
	f, err := p.Parse()
	if err == nil {
		t.Fatalf("Parse(%q) = %+v, want an error", src, f)
	}
	return err
}

// soleStmt returns the single top-level statement of f, failing the
// test if there isn't exactly one.
func soleStmt(t *testing.T, f *ast.File) *ast.Stmt {
	t.Helper()
	if len(f.Stmts) != 1 {
		t.Fatalf("got %d top-level stmts, want 1: %+v", len(f.Stmts), f.Stmts)
	}
	return f.Stmts[0]
}

// litWord renders a word built of plain Literal parts back to text, the
// same shape bareLiteral checks for, but tolerant of multi-part words.
func litWord(w *ast.Word) string {
	if w == nil {
		return ""
	}
	var sb []byte
	for _, part := range w.Parts {
		if lit, ok := part.(*ast.Literal); ok {
			sb = append(sb, lit.Value...)
		}
	}
	return string(sb)
}
