// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package lexer implements the within-line lexer and the lexer driver
// that stitches lines together, manages the translation hint stack,
// and emits the completion-dummy token. The scanning rules themselves
// are grounded in mvdan.cc/sh/v3's syntax/lexer.go
// (regToken/paramToken/arithmToken/advanceLit*), restructured to pull
// one line at a time through arena.LineReader instead of operating on
// one large in-memory buffer.
package lexer

import (
	"shfront/arena"
	"shfront/token"
)

// Token is one lexed unit: an id, its literal value (empty for pure
// operators), and the span id identifying its source range.
type Token struct {
	ID   token.ID
	Val  string
	Span arena.SpanID
}

func (t Token) Kind() token.Kind { return token.KindOf(t.ID) }
