// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package lexer

import (
	"shfront/arena"
	"shfront/lexmodes"
	"shfront/token"
)

// hint is one entry of the translation-hint stack: when the
// next token's id matches old, it is rewritten to new and the entry is
// popped, so a caller can give the next matching token (for example a
// bare ')') a different id.
type hint struct {
	old, new token.ID
}

// Lexer orchestrates the line reader and line lexer: it pulls
// a new line on EOL, synthesizes Eof_Real (or a one-shot completion
// dummy) at end of input, and owns the translation-hint stack.
type Lexer struct {
	a      *arena.Arena
	reader arena.LineReader

	ll       *LineLexer
	atInputEnd bool

	lastWasLitCont bool

	hints []hint

	emitCompDummy   bool
	compDummyIssued bool
}

// New creates a lexer pulling lines from reader, interning them into a.
func New(a *arena.Arena, reader arena.LineReader) *Lexer {
	lx := &Lexer{a: a, reader: reader}
	lx.advanceLine()
	return lx
}

// SetEmitCompDummy enables the one-shot Lit_CompDummy token at true EOF,
// used by the external completion collaborator.
func (lx *Lexer) SetEmitCompDummy(v bool) { lx.emitCompDummy = v }

func (lx *Lexer) advanceLine() {
	ln, ok := lx.reader.ReadLine(lx.a)
	if !ok {
		lx.ll = nil
		lx.atInputEnd = true
		return
	}
	lx.ll = NewLineLexer(lx.a, ln)
}

// PushHint registers a deferred id rewrite; it must pop deterministically
// on the first token whose id matches old.
func (lx *Lexer) PushHint(old, new_ token.ID) {
	lx.hints = append(lx.hints, hint{old: old, new: new_})
}

func (lx *Lexer) applyHint(id token.ID) token.ID {
	if len(lx.hints) == 0 {
		return id
	}
	top := lx.hints[len(lx.hints)-1]
	if top.old == id {
		lx.hints = lx.hints[:len(lx.hints)-1]
		return top.new
	}
	return id
}

// Read pulls the next significant token in mode, pulling a new line on
// EOL and synthesizing Eof_Real/Lit_CompDummy at end of input.
// Ignored_LineCont is silently skipped; every other Ignored_* token is
// returned so the word parser can attach it for faithful re-printing.
func (lx *Lexer) Read(mode lexmodes.Mode) Token {
	for {
		if lx.ll == nil {
			if lx.emitCompDummy && !lx.compDummyIssued {
				lx.compDummyIssued = true
				return Token{ID: token.CompDummy, Span: arena.SentinelSpan}
			}
			return Token{ID: token.EOFReal, Span: arena.SentinelSpan}
		}
		tok := lx.ll.Read(mode)
		if tok.ID == token.EOLSentinel {
			// A LitCont just handed back means the previous token is a
			// backslash-elided line continuation (command-level modes) or
			// an unterminated quote/substitution body (every other mode);
			// either way the caller is mid-construct and expects Read to
			// bridge straight into the next line's content, never handing
			// back a synthetic Newline.
			bridgeSilently := lx.lastWasLitCont || !lineEndIsSignificant(mode)
			lx.advanceLine()
			if !bridgeSilently {
				lx.lastWasLitCont = false
				return Token{ID: token.Newline, Val: "\n", Span: arena.SentinelSpan}
			}
			continue
		}
		lx.lastWasLitCont = tok.ID == token.LitCont
		if tok.ID == token.IgnoredLineCont {
			continue
		}
		tok.ID = lx.applyHint(tok.ID)
		return tok
	}
}

// lineEndIsSignificant reports whether reaching end-of-line in mode must
// surface as a real Newline token rather than being silently bridged to
// the next line. Command-level modes have no other mechanism for saying
// "a statement just ended" and rely on Read to hand back Op_Newline so
// the command parser can terminate statements and trigger here-doc
// scheduling; every other mode already reconstructs the
// newline itself from a LitCont return, so bridging
// those silently avoids emitting it twice.
func lineEndIsSignificant(mode lexmodes.Mode) bool {
	switch mode {
	case lexmodes.ShCommand, lexmodes.CaseSwitch, lexmodes.TestExpr, lexmodes.HereDocWord:
		return true
	default:
		return false
	}
}

// LineLexer exposes the current line's lexer for one-character
// lookahead/unread (MaybeUnreadOne) and same-line LookAhead, both of
// which must not cross a line boundary.
func (lx *Lexer) LineLexer() *LineLexer { return lx.ll }

// AtInputEnd reports whether the underlying reader is exhausted.
func (lx *Lexer) AtInputEnd() bool { return lx.atInputEnd && lx.ll == nil }

// Arena returns the arena this lexer interns lines/spans into.
func (lx *Lexer) Arena() *arena.Arena { return lx.a }

// ReadSimpleVarName scans the name following a bare '$' token the word
// parser just consumed; it never crosses a line boundary, since a
// simple var sub's name cannot.
func (lx *Lexer) ReadSimpleVarName() (string, arena.SpanID) {
	if lx.ll == nil {
		return "", arena.SentinelSpan
	}
	return lx.ll.ReadSimpleVarName()
}

// ReadRawLine hands back the line lx currently sits on (not yet run
// through any tokenizer) and advances straight past it, exactly the way
// advanceLine does, but without going through Read/regToken at all.
// The command parser uses this right after consuming the Newline
// that follows a "<<"/"<<-" operator: a here-doc body is sourced from
// the raw subsequent lines, never from the token stream.
func (lx *Lexer) ReadRawLine() (arena.Line, bool) {
	if lx.ll == nil {
		return arena.Line{}, false
	}
	ln := lx.ll.line
	lx.advanceLine()
	return ln, true
}
