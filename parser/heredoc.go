// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package parser

import (
	"shfront/arena"
	"shfront/ast"
)

// delimText renders a here-doc delimiter word's literal spelling back to
// plain text, treating an escaped or quoted character the same as its
// plain one.
func delimText(w *ast.Word) string {
	if w.Kind != ast.Compound {
		return ""
	}
	var sb []byte
	for _, part := range w.Parts {
		switch p := part.(type) {
		case *ast.Literal:
			sb = append(sb, p.Value...)
		case *ast.EscapedLiteral:
			sb = append(sb, p.Value...)
		case *ast.SingleQuoted:
			sb = append(sb, p.Tokens...)
		case *ast.DoubleQuoted:
			for _, inner := range p.Parts {
				if lit, ok := inner.(*ast.Literal); ok {
					sb = append(sb, lit.Value...)
				}
			}
		}
	}
	return string(sb)
}

// delimIsQuoted reports whether any part of a here-doc delimiter word
// came from quoting or escaping, which suppresses expansions in the
// body.
func delimIsQuoted(w *ast.Word) bool {
	if w.Kind != ast.Compound {
		return false
	}
	for _, part := range w.Parts {
		switch part.(type) {
		case *ast.EscapedLiteral, *ast.SingleQuoted, *ast.DoubleQuoted:
			return true
		}
	}
	return false
}

// doHeredocs fills in the body of every here-doc operator scheduled
// since the last call, reading raw lines directly off the lexer (never
// through the token stream) until one matches the delimiter's spelling
// exactly, grounded on syntax/parser.go's p.hdocStop/doHeredocs
// pattern: the body is read immediately after the newline ending the
// line that scheduled it.
func (p *Parser) doHeredocs() error {
	docs := p.pendingHeredocs
	p.pendingHeredocs = nil
	for _, hd := range docs {
		delim := delimText(hd.HereBegin)
		quoted := delimIsQuoted(hd.HereBegin)
		stripTabs := hd.Op == ast.RedirHereDocDash
		var lines []arena.VirtualLine
		closed := false
		for {
			ln, ok := p.lx.ReadRawLine()
			if !ok {
				break
			}
			text := ln.Text
			if stripTabs {
				i := 0
				for i < len(text) && text[i] == '\t' {
					i++
				}
				text = text[i:]
			}
			if text == delim {
				hd.HereEndSpan = p.a.AddSpan(ln.ID, 0, len(ln.Text))
				closed = true
				break
			}
			lines = append(lines, arena.VirtualLine{Text: text, Offset: ln.Offset})
		}
		if !closed {
			return p.errorf(hd.Sp, "here-doc %q never terminated before EOF", delim)
		}
		parts, err := p.wp.ReadHereDocBody(lines, quoted)
		if err != nil {
			return p.wrap(err)
		}
		hd.StdinParts = parts
	}
	return nil
}
