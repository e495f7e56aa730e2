// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package parser implements the recursive-descent command parser and
// the parse-context factory that wires the lexer and word parser
// together. It is grounded on mvdan.cc/sh/v3's syntax/parser.go -- the
// shape of its stmts/stmt/gotStmtPipe driver loop, its simple-command
// word/redirect scanning, and its here-doc scheduling (p.hdocStop /
// p.doHeredocs) -- generalized to the closed ast package instead of
// syntax's own node set, and extended with alias expansion mid-parse,
// grounded on Oil's osh/cmd_parse.py _MaybeExpandAliases/
// ParseAndAppendAlias.
package parser

import (
	"shfront/arena"
	"shfront/ast"
	"shfront/lexer"
	"shfront/lexmodes"
	"shfront/token"
	"shfront/wordparser"
)

// LangVariant selects which reserved-word/extension surface the parser
// accepts, mirroring mvdan.cc/sh/v3's syntax.LangVariant.
type LangVariant int

const (
	LangBash LangVariant = iota
	LangPOSIX
	LangMirBSDKorn
	LangBats
	LangOil
)

func (v LangVariant) isBash() bool { return v == LangBash || v == LangOil }

// ParseMode is a bitmask of optional parse-time behaviors, mirroring
// mvdan.cc/sh/v3's syntax.ParseMode.
type ParseMode uint

const (
	// KeepComments retains IgnoredComment tokens by attaching them to the
	// following statement's leading trivia instead of discarding them.
	// Left unimplemented pending a trivia field on ast.Stmt; reserved so
	// callers can already set it without a compile break later.
	KeepComments ParseMode = 1 << iota
	// StopAtBacktick makes the top-level statement list stop at a bare
	// backtick instead of requiring EOF, the shape nested `` `...` ``
	// command substitutions need (also used internally; see stmtListReader).
	StopAtBacktick
)

// Aliases is the read-only alias map the caller supplies.
type Aliases interface {
	Lookup(name string) (body string, ok bool)
}

// MapAliases is the trivial Aliases implementation over a plain map.
type MapAliases map[string]string

func (m MapAliases) Lookup(name string) (string, bool) { v, ok := m[name]; return v, ok }

// Config configures one parse session.
type Config struct {
	Variant LangVariant
	Mode    ParseMode
	Aliases Aliases
	// Trace, when non-nil, is called at notable parse events (statement
	// boundaries, alias expansions, here-doc scheduling) for diagnostics
	// and the completion trail.
	Trace func(event string, kv ...any)
}

// aliasKey is the in-flight cycle-prevention key: a word's
// text paired with its position among the words being expanded, not its
// byte offset, since the same spelling recurring at a different word
// index must still be allowed to expand once.
type aliasKey struct {
	word string
	pos  int
}

// Parser drives the word parser and lexer to build a command AST.
// Exactly one exists per parse session plus one per alias re-entry
// (each alias re-parse gets its own Parser sharing the same arena).
type Parser struct {
	a       *arena.Arena
	lx      *lexer.Lexer
	wp      *wordparser.Parser
	cfg     Config

	cur     *ast.Word // one-token lookahead
	curMode lexmodes.Mode

	pendingHeredocs []*ast.HereDoc
	aliasInFlight   map[aliasKey]bool

	stopAtBacktick bool
}

// New builds a parse session over src. It wires the
// lexer, word parser, and this command parser into one another,
// including the StmtListReader hook the word parser needs for command
// substitution.
func New(a *arena.Arena, reader arena.LineReader, cfg Config) (*Parser, error) {
	lx := lexer.New(a, reader)
	wp := wordparser.New(lx, a)
	p := &Parser{
		a:             a,
		lx:            lx,
		wp:            wp,
		cfg:           cfg,
		aliasInFlight: map[aliasKey]bool{},
	}
	wp.SetStmtListReader(p.stmtListReader)
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	return p, nil
}

// newChild builds a nested Parser sharing the same arena, lexer
// construction, and alias in-flight set -- used by command substitution
// recursion (stmtListReader) and alias re-entry (alias.go). The
// in-flight set is shared so a cycle spanning an alias body that itself
// contains a command substitution is still caught.
func (p *Parser) newChild(lx *lexer.Lexer, stopAtBacktick bool) (*Parser, error) {
	wp := wordparser.New(lx, p.a)
	c := &Parser{
		a:              p.a,
		lx:             lx,
		wp:             wp,
		cfg:            p.cfg,
		aliasInFlight:  p.aliasInFlight,
		stopAtBacktick: stopAtBacktick,
	}
	wp.SetStmtListReader(c.stmtListReader)
	if err := c.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	return c, nil
}

// stmtListReader is the wordparser.StmtListReader implementation: it
// lets $(...) / `...` recurse back into full statement parsing without
// wordparser importing this package.
func (p *Parser) stmtListReader(lx *lexer.Lexer, a *arena.Arena, stopAtBacktick bool) ([]*ast.Stmt, error) {
	c, err := p.newChild(lx, stopAtBacktick)
	if err != nil {
		return nil, err
	}
	return c.stmtList(nil)
}

func (p *Parser) trace(event string, kv ...any) {
	if p.cfg.Trace != nil {
		p.cfg.Trace(event, kv...)
	}
}

// Parse parses a whole program.
func (p *Parser) Parse() (*ast.File, error) {
	stmts, err := p.stmtList(nil)
	if err != nil {
		return nil, err
	}
	if len(p.pendingHeredocs) != 0 {
		return nil, p.errorf(p.pendingHeredocs[0].Sp, "here-doc body never supplied before EOF")
	}
	return &ast.File{Stmts: stmts}, nil
}

// ---- cursor management ----

// advance refreshes p.cur in mode, silently skipping Ignored tokens.
func (p *Parser) advance(mode lexmodes.Mode) error {
	if p.stopAtBacktick && mode == lexmodes.ShCommand && p.wp.LookAhead() == token.BQuoteOpen {
		// The closing backtick of the enclosing `...` command substitution
		// sits right here: readCommandSub expects to read it itself, so we
		// must not consume it (or, worse, recurse into readLeftPart and
		// open a phantom nested substitution). Synthesize an EOF-shaped
		// cursor instead; curIsEOF() then stops the statement list exactly
		// as it would at a real end of input.
		p.cur = &ast.Word{Kind: ast.Empty}
		p.curMode = mode
		return nil
	}
	for {
		w, err := p.wp.ReadWord(mode)
		if err != nil {
			return p.wrap(err)
		}
		if w.Kind == ast.TokenWord && token.KindOf(token.ID(w.Tok.ID)) == token.Ignored {
			continue
		}
		p.cur = w
		p.curMode = mode
		return nil
	}
}

// curTok reports the token id of the cursor, if it is a bare
// operator/keyword token rather than a word with content.
func (p *Parser) curTok() (token.ID, bool) {
	if p.cur.Kind == ast.TokenWord {
		return token.ID(p.cur.Tok.ID), true
	}
	return token.Illegal, false
}

func (p *Parser) curIs(id token.ID) bool {
	got, ok := p.curTok()
	return ok && got == id
}

func (p *Parser) curIsEOF() bool {
	// ReadWord hands back Kind==Empty, not a TokenWord wrapping EOFReal,
	// when the underlying lexer is truly exhausted (it goes straight to
	// its doneWord label on token.Eof without the len(parts)==0 TokenWord
	// branch below it ever running). Treat that the same as a real EOF
	// token so the statement-list loop actually terminates.
	if p.cur.Kind == ast.Empty {
		return true
	}
	id, ok := p.curTok()
	return ok && token.KindOf(id) == token.Eof
}

// bareLiteral reports the plain text of the cursor if it is a word made
// of exactly one unquoted Literal part -- the shape every reserved word
// and keyword must take.
func bareLiteral(w *ast.Word) (string, bool) {
	if w.Kind != ast.Compound || len(w.Parts) != 1 {
		return "", false
	}
	lit, ok := w.Parts[0].(*ast.Literal)
	if !ok {
		return "", false
	}
	return lit.Value, true
}

// curKeyword reports the reserved-word id the cursor spells, if any
//. Valid only where the grammar expects a keyword may
// appear (command-start position, case pattern terminators, etc.); the
// caller is responsible for only consulting it there, exactly as bash
// only reserves these spellings positionally.
func (p *Parser) curKeyword() (token.ID, bool) {
	s, ok := bareLiteral(p.cur)
	if !ok {
		return token.Illegal, false
	}
	id, ok := token.Keywords[s]
	if !ok {
		return token.Illegal, false
	}
	if !p.cfg.Variant.isBash() {
		switch id {
		case token.Function, token.Select, token.Time, token.Coproc:
			return token.Illegal, false
		}
	}
	if (id == token.Var || id == token.SetVar) && p.cfg.Variant != LangOil {
		return token.Illegal, false
	}
	return id, true
}

func (p *Parser) curKeywordIs(id token.ID) bool {
	got, ok := p.curKeyword()
	return ok && got == id
}

func (p *Parser) curSpan() arena.SpanID { return p.cur.Span() }
