// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package wordparser assembles ast.Word values out of the token stream
// the lexer produces, cooperating with it via LookAhead and PushHint.
// The part-by-part assembly (literal runs, quoting, substitutions) is
// grounded in mvdan.cc/sh/v3's syntax/parser.go word()/wordPart()/
// dblQuoted()/paramExp() family.
package wordparser

import (
	"fmt"
	"strings"

	"shfront/arena"
	"shfront/ast"
	"shfront/lexer"
	"shfront/lexmodes"
	"shfront/token"
)

// StmtListReader lets the command parser supply itself back into
// the word parser so that $(...) and `...` command substitutions can
// recurse into full statement parsing, without wordparser importing the
// command parser package (which imports wordparser). stopAtBacktick
// tells the statement list to treat a bare backtick, not just ')' or
// EOF, as its terminator.
type StmtListReader func(lx *lexer.Lexer, a *arena.Arena, stopAtBacktick bool) ([]*ast.Stmt, error)

// ParseError is raised for any malformed word; the command parser 
// wraps it into its own ParseError kind.
type ParseError struct {
	Span arena.SpanID
	Msg  string
}

func (e *ParseError) Error() string { return e.Msg }

// Parser reads words, here-doc bodies, and arithmetic/test bodies from
// a shared lexer.
type Parser struct {
	lx    *lexer.Lexer
	a     *arena.Arena
	src   lexmodes.Mode // the "outer" mode new words are read in by default
	stmts StmtListReader
}

// New creates a word parser over an already-constructed lexer.
func New(lx *lexer.Lexer, a *arena.Arena) *Parser {
	return &Parser{lx: lx, a: a, src: lexmodes.ShCommand}
}

// SetStmtListReader wires the command parser's statement-list entry
// point into this word parser, enabling command substitution. It must
// be called once, right after construction, by whatever builds the
// pair.
func (p *Parser) SetStmtListReader(f StmtListReader) { p.stmts = f }

// Lexer exposes the underlying lexer so the command parser can
// drive it directly for operator/keyword tokens between words.
func (p *Parser) Lexer() *lexer.Lexer { return p.lx }

// LookAhead returns the id of the next significant token in the
// current line without consuming it.
func (p *Parser) LookAhead() token.ID {
	ll := p.lx.LineLexer()
	if ll == nil {
		return token.EOFReal
	}
	return ll.LookAhead(lexmodes.ShCommand)
}

// PushHint forwards to the lexer's translation-hint stack.
func (p *Parser) PushHint(old, new_ token.ID) { p.lx.PushHint(old, new_) }

// ReadWord reads exactly one command-level word in mode: a Compound
// (sequence of parts), a TokenWord (operator/keyword terminating the
// current word), or Empty.
func (p *Parser) ReadWord(mode lexmodes.Mode) (*ast.Word, error) {
	var parts []ast.WordPart
	first := true
	for {
		tok := p.lx.Read(mode)
		switch tok.Kind() {
		case token.Ignored:
			if first && len(parts) == 0 {
				return &ast.Word{Kind: ast.TokenWord, Tok: ast.TokenValue{ID: int(tok.ID), Val: tok.Val}, Sp: tok.Span}, nil
			}
			goto doneWord
		case token.Eof:
			goto doneWord
		case token.Word:
			switch tok.ID {
			case token.LitWord:
				parts = append(parts, lit(tok))
				goto doneWord
			case token.LitCont:
				parts = append(parts, lit(tok))
				first = false
				continue
			}
		case token.Left:
			if tok.ID == token.Lparen || tok.ID == token.DLparen {
				// a bare '(' or '((' never opens word content: it is the
				// command parser's subshell or arithmetic-command opener
				//, or the '(' of a `name()` function signature.
				// readLeftPart has no case for either, so they fall through
				// to the same end-of-word handling as any other operator.
				break
			}
			part, err := p.readLeftPart(tok)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
			first = false
			continue
		}
		if tok.ID == token.Illegal && len(parts) == 0 {
			return nil, &ParseError{Span: tok.Span, Msg: "illegal token in word"}
		}
		// A non-word, non-ignored token with no parts collected yet means
		// this "word" is really an operator/keyword.
		if len(parts) == 0 {
			return &ast.Word{Kind: ast.TokenWord, Tok: ast.TokenValue{ID: int(tok.ID), Val: tok.Val}, Sp: tok.Span}, nil
		}
		// Otherwise the operator ends the word; unread it for the caller
		// (the command parser re-reads it as the next token).
		if ll := p.lx.LineLexer(); ll != nil {
			ll.MaybeUnreadOne()
		}
		goto doneWord
	}
doneWord:
	if len(parts) == 0 {
		return &ast.Word{Kind: ast.Empty}, nil
	}
	parts = splitLeadingTilde(parts)
	return &ast.Word{Kind: ast.Compound, Parts: parts, Sp: parts[0].Span()}, nil
}

func lit(tok lexer.Token) ast.WordPart {
	return &ast.Literal{Value: tok.Val, Sp: tok.Span}
}

// splitLeadingTilde peels a leading "~name" prefix off an unquoted
// literal that opens a word into its own TildeSub part. Grounded on
// syntax/parser.go's Lit "~" handling in word part assembly, but
// performed as a post-pass here since our lexer never special-cases
// '~' at the token level.
func splitLeadingTilde(parts []ast.WordPart) []ast.WordPart {
	lit, ok := parts[0].(*ast.Literal)
	if !ok || !strings.HasPrefix(lit.Value, "~") {
		return parts
	}
	name := lit.Value[1:]
	rest := ""
	if i := strings.IndexByte(name, '/'); i >= 0 {
		rest = name[i:]
		name = name[:i]
	}
	tilde := &ast.TildeSub{Name: name, Sp: lit.Sp}
	if rest == "" {
		return append([]ast.WordPart{tilde}, parts[1:]...)
	}
	return append([]ast.WordPart{tilde, &ast.Literal{Value: rest, Sp: lit.Sp}}, parts[1:]...)
}

// readLeftPart dispatches on the Kind==Left token that just opened a new
// word part, grounded on syntax/parser.go's wordPart() switch.
func (p *Parser) readLeftPart(tok lexer.Token) (ast.WordPart, error) {
	switch tok.ID {
	case token.SQuoteOpen:
		s, err := p.readQuotedLoop(lexmodes.SQ)
		if err != nil {
			return nil, err
		}
		return &ast.SingleQuoted{Tokens: s, Style: ast.PlainQuote, Sp: tok.Span}, nil
	case token.DollSQ:
		s, err := p.readQuotedLoop(lexmodes.DollarSQ)
		if err != nil {
			return nil, err
		}
		return &ast.SingleQuoted{Tokens: s, Style: ast.DollarQuote, Sp: tok.Span}, nil
	case token.DQuoteOpen, token.DollDQ:
		return p.readDoubleQuotedPart(tok)
	case token.BQuoteOpen:
		return p.readCommandSub(tok, true)
	case token.DollParen:
		return p.readCommandSub(tok, false)
	case token.DollDParen:
		expr, err := p.ReadDParen()
		if err != nil {
			return nil, err
		}
		return &ast.ArithSub{Expr: expr, Sp: tok.Span}, nil
	case token.DollBrack:
		expr, err := p.readArithBracket()
		if err != nil {
			return nil, err
		}
		return &ast.ArithSub{Expr: expr, Sp: tok.Span}, nil
	case token.LeftBrace:
		return p.readBracedVarSub(tok)
	case token.Dollar:
		name, sp := p.lx.ReadSimpleVarName()
		return &ast.SimpleVarSub{Name: name, Sp: sp}, nil
	}
	return nil, &ParseError{Span: tok.Span, Msg: fmt.Sprintf("unhandled word-opening token %v", tok.ID)}
}

// readQuotedLoop accumulates a single- or dollar-single-quoted body: the
// line lexer returns LitWord once it reaches the closing quote (which it
// also consumes), or LitCont at each unclosed end-of-line, which the
// driver bridges by pulling the next line.
func (p *Parser) readQuotedLoop(mode lexmodes.Mode) (string, error) {
	var sb strings.Builder
	for {
		t := p.lx.Read(mode)
		switch t.ID {
		case token.LitWord:
			sb.WriteString(t.Val)
			return sb.String(), nil
		case token.LitCont:
			sb.WriteString(t.Val)
			sb.WriteByte('\n')
		case token.EOFReal:
			return "", &ParseError{Span: t.Span, Msg: "reached EOF without closing quote"}
		default:
			sb.WriteString(t.Val)
		}
	}
}

// readDoubleQuotedPart assembles a "..." or $"..." part, grounded on
// syntax/parser.go's dblQuote/dollDblQuote case: LitWord closes the
// quote; LitCont at end-of-line means the string continues onto the
// next source line; any other LitCont means a nested '$'/'`' opener
// follows, dispatched back through readLeftPart via the ShCommand-mode
// opener scan.
func (p *Parser) readDoubleQuotedPart(open lexer.Token) (ast.WordPart, error) {
	var parts []ast.WordPart
	for {
		t := p.lx.Read(lexmodes.DQ)
		switch t.ID {
		case token.LitWord:
			if t.Val != "" {
				parts = append(parts, &ast.Literal{Value: t.Val, Sp: t.Span})
			}
			return &ast.DoubleQuoted{Parts: parts, Sp: open.Span}, nil
		case token.LitCont:
			if t.Val != "" {
				parts = append(parts, &ast.Literal{Value: t.Val, Sp: t.Span})
			}
			if ll := p.lx.LineLexer(); ll != nil && ll.AtEOL() {
				parts = append(parts, &ast.Literal{Value: "\n", Sp: t.Span})
				continue
			}
			opener := p.lx.Read(lexmodes.ShCommand)
			part, err := p.readLeftPart(opener)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		case token.EOFReal:
			return nil, &ParseError{Span: t.Span, Msg: "reached EOF without closing quote"}
		default:
			if t.Val != "" {
				parts = append(parts, &ast.Literal{Value: t.Val, Sp: t.Span})
			}
		}
	}
}

// readCommandSub parses a $(...) or `...` substitution by recursing
// into the command parser's statement list via the injected
// StmtListReader.
func (p *Parser) readCommandSub(open lexer.Token, backtick bool) (ast.WordPart, error) {
	if p.stmts == nil {
		return nil, &ParseError{Span: open.Span, Msg: "command substitution requires a command parser"}
	}
	stmts, err := p.stmts(p.lx, p.a, backtick)
	if err != nil {
		return nil, err
	}
	want := token.Rparen
	if backtick {
		want = token.BQuoteOpen
	}
	close_ := p.lx.Read(lexmodes.ShCommand)
	if close_.ID != want {
		return nil, &ParseError{Span: close_.Span, Msg: "unterminated command substitution"}
	}
	return &ast.CommandSub{Backticks: backtick, Stmts: stmts, Sp: open.Span}, nil
}

// readArithBracket parses the deprecated `$[ ... ]` arithmetic form,
// grounded on syntax/parser.go's dollBrack branch of wordPart().
func (p *Parser) readArithBracket() (ast.ArithmExpr, error) {
	var toks []ast.Token
	depth := 0
	for {
		tok := p.lx.Read(lexmodes.Arith)
		switch tok.ID {
		case token.ARbrack:
			if depth == 0 {
				return &ast.ArithmWord{Tokens: toks}, nil
			}
			depth--
		case token.ALbrack:
			depth++
		case token.EOFReal:
			return nil, &ParseError{Msg: "unexpected EOF in $[ ]"}
		}
		toks = append(toks, ast.Token{ID: int(tok.ID), Val: tok.Val, Sp: tok.Span})
	}
}

// readBracedVarSub parses the body of a "${...}" part: an optional
// prefix op ('#' length or '!' indirection), the parameter name or
// index, an optional "[...]" bracket op, and at most one suffix op,
// grounded on syntax/parser.go's paramExp().
func (p *Parser) readBracedVarSub(open lexer.Token) (ast.WordPart, error) {
	b := &ast.BracedVarSub{Sp: open.Span}
	first := p.lx.Read(lexmodes.VSub_1)
	if first.ID == token.VHashOp {
		// '#' immediately after '${' with more content ahead is the
		// length prefix, not the suffix "remove smallest prefix" op;
		// ${#} alone (param literally named "#") is handled by falling
		// through when the next token is Rbrace.
		if la := p.lookAheadVSub1(); la != token.Rbrace {
			b.Prefix = ast.PrefixLength
			first = p.lx.Read(lexmodes.VSub_1)
		}
	} else if first.ID == token.VBang {
		b.Prefix = ast.PrefixIndirect
		first = p.lx.Read(lexmodes.VSub_1)
	}
	name, err := p.paramLitVal(first)
	if err != nil {
		return nil, err
	}
	b.Param = name
	tok := p.lx.Read(lexmodes.VSub_2)
	if tok.ID == token.ALbrack {
		bop, next, err := p.readBracketOp()
		if err != nil {
			return nil, err
		}
		b.Bracket = bop
		tok = next
	}
	if tok.ID == token.Rbrace {
		return b, nil
	}
	suffix, closeTok, err := p.readSuffixOp(tok)
	if err != nil {
		return nil, err
	}
	b.Suffix = suffix
	if closeTok.ID != token.Rbrace {
		return nil, &ParseError{Span: closeTok.Span, Msg: "expected } to close ${ }"}
	}
	return b, nil
}

func (p *Parser) lookAheadVSub1() token.ID {
	if ll := p.lx.LineLexer(); ll != nil {
		return ll.LookAhead(lexmodes.VSub_1)
	}
	return token.EOFReal
}

// paramLitVal reads the literal parameter name/index token, accepting
// the single-character special parameters the lexer returns as plain
// literals in VSub_1 mode. '#' and
// '!' reach here as VHashOp/VBang (ParamOpTable has no separate
// "literal name" rule for them) when a parameter is literally named
// "#" or used right after the length/indirection prefix was already
// peeled off by the caller.
func (p *Parser) paramLitVal(tok lexer.Token) (string, error) {
	switch {
	case tok.Kind() == token.Word:
		return tok.Val, nil
	case tok.ID == token.VHashOp:
		return "#", nil
	case tok.ID == token.VBang:
		return "!", nil
	}
	return "", &ParseError{Span: tok.Span, Msg: "${ } requires a parameter name"}
}

// readBracketOp parses "[@]", "[*]" or "[arith]" following a parameter
// name; the caller has already consumed the opening '['. The "@]"/"*]"
// shorthand is checked directly on the line lexer, sidestepping
// ParamOpTable (which has no rules for bare '@'/'*').
func (p *Parser) readBracketOp() (*ast.BracketOp, lexer.Token, error) {
	if ll := p.lx.LineLexer(); ll != nil {
		if b, ok := ll.PeekBracketShorthand(); ok {
			ll.ConsumeBracketShorthand()
			kind := ast.BracketAt
			if b == '*' {
				kind = ast.BracketStar
			}
			return &ast.BracketOp{Kind: kind}, p.lx.Read(lexmodes.VSub_2), nil
		}
	}
	var toks []ast.Token
	for {
		tok := p.lx.Read(lexmodes.Arith)
		if tok.ID == token.ARbrack {
			break
		}
		if tok.ID == token.EOFReal {
			return nil, lexer.Token{}, &ParseError{Msg: "unexpected EOF in array index"}
		}
		toks = append(toks, ast.Token{ID: int(tok.ID), Val: tok.Val, Sp: tok.Span})
	}
	idx := &ast.ArithmWord{Tokens: toks}
	return &ast.BracketOp{Kind: ast.BracketIndex, Index: idx}, p.lx.Read(lexmodes.VSub_2), nil
}

// readSuffixOp parses the one suffix-operator family a braced var-sub
// may carry, grounded on syntax/parser.go's paramExp() operator switch
//. tok is the already-read operator
// token; it returns the closing token (expected to be Rbrace).
func (p *Parser) readSuffixOp(tok lexer.Token) (*ast.SuffixOp, lexer.Token, error) {
	unary := func(op ast.UnarySuffixOp) (*ast.SuffixOp, lexer.Token, error) {
		w, err := p.ReadWord(lexmodes.VSub_ArgDQ)
		if err != nil {
			return nil, lexer.Token{}, err
		}
		return &ast.SuffixOp{Kind: ast.SuffixUnary, Unary: op, Arg: w}, p.lx.Read(lexmodes.VSub_2), nil
	}
	switch tok.ID {
	case token.VHashOp:
		return unary(ast.OpRemSmallPrefix)
	case token.VDHash:
		return unary(ast.OpRemLargePrefix)
	case token.VPercent:
		return unary(ast.OpRemSmallSuffix)
	case token.VDPercent:
		return unary(ast.OpRemLargeSuffix)
	case token.VCaret:
		return unary(ast.OpUpperFirst)
	case token.VDCaret:
		return unary(ast.OpUpperAll)
	case token.VComma:
		return unary(ast.OpLowerFirst)
	case token.VDComma:
		return unary(ast.OpLowerAll)
	case token.VColonMinus:
		return unary(ast.OpUnsetOrNull)
	case token.VColonEq:
		return unary(ast.OpUnsetOrNullAssign)
	case token.VColonQuest:
		return unary(ast.OpUnsetOrNullError)
	case token.VColonPlus:
		return unary(ast.OpUnsetOrNullAlt)
	case token.VMinus:
		return unary(ast.OpUnset)
	case token.VEq:
		return unary(ast.OpUnsetAssign)
	case token.VQuest:
		return unary(ast.OpUnsetError)
	case token.VPlus:
		return unary(ast.OpUnsetAlt)
	case token.VSlash:
		return p.readPatSub()
	}
	return nil, lexer.Token{}, &ParseError{Span: tok.Span, Msg: fmt.Sprintf("unexpected ${ } operator %v", tok.ID)}
}

// readPatSub parses the "//orig/repl" family, grounded on paramExp()'s
// Quo/dblQuo case. The caller has already consumed a single VSlash; a
// second immediate VSlash (checked via look-ahead) makes it the
// match-all "//" form rather than first-match "/".
func (p *Parser) readPatSub() (*ast.SuffixOp, lexer.Token, error) {
	all := false
	if p.lookAheadVSub1() == token.VSlash {
		p.lx.Read(lexmodes.VSub_1)
		all = true
	}
	orig, err := p.ReadWord(lexmodes.VSub_ArgDQ)
	if err != nil {
		return nil, lexer.Token{}, err
	}
	origStr := wordLitString(orig)
	// VSub_ArgDQ does not stop at '/', so the replacement may still be
	// attached to the pattern text; split it off at the first '/'.
	var repl *ast.Word
	if i := strings.IndexByte(origStr, '/'); i >= 0 {
		repl = &ast.Word{Kind: ast.Compound, Parts: []ast.WordPart{&ast.Literal{Value: origStr[i+1:], Sp: orig.Sp}}, Sp: orig.Sp}
		origStr = origStr[:i]
	}
	op := &ast.SuffixOp{Kind: ast.SuffixPatSub, PatSubAll: all, PatSubOrig: origStr}
	if repl != nil {
		op.Arg = repl
	}
	next := p.lx.Read(lexmodes.VSub_2)
	if next.ID == token.VSlash {
		repl, err := p.ReadWord(lexmodes.VSub_ArgDQ)
		if err != nil {
			return nil, lexer.Token{}, err
		}
		op.Arg = repl
		next = p.lx.Read(lexmodes.VSub_2)
	}
	return op, next, nil
}

// wordLitString renders a word's literal parts back to a plain string,
// used for the pattern half of a PatSub, which is matched structurally
// rather than evaluated.
func wordLitString(w *ast.Word) string {
	if w.Kind != ast.Compound {
		return ""
	}
	var sb strings.Builder
	for _, part := range w.Parts {
		if lit, ok := part.(*ast.Literal); ok {
			sb.WriteString(lit.Value)
		}
	}
	return sb.String()
}

// ReadHereDocBody parses a virtual-reader stream of here-doc lines into
// a list of parts, honoring variable/command substitution only when
// the delimiter was unquoted.
// The caller supplies the already-collected raw lines and whether the
// delimiter was quoted.
func (p *Parser) ReadHereDocBody(lines []arena.VirtualLine, delimQuoted bool) ([]ast.WordPart, error) {
	if delimQuoted {
		// Quoted delimiter: the whole body is one literal, no substitutions.
		var sp arena.SpanID = arena.SentinelSpan
		var text string
		for i, l := range lines {
			if i > 0 {
				text += "\n"
			}
			id := p.a.AddLine(l.Text)
			if i == 0 {
				sp = p.a.AddSpan(id, 0, len(l.Text))
			}
			text += l.Text
		}
		if len(lines) == 0 {
			return nil, nil
		}
		return []ast.WordPart{&ast.Literal{Value: text, Sp: sp}}, nil
	}
	reader := arena.NewVirtualReader(lines)
	tok := p.a.PushSource(arena.OriginHereDoc, "here-doc")
	defer p.a.PopSource(tok)
	sub := New(lexer.New(p.a, reader), p.a)
	var parts []ast.WordPart
	for ll := sub.lx.LineLexer(); ll != nil; ll = sub.lx.LineLexer() {
		if ll.AtEOL() {
			parts = append(parts, &ast.Literal{Value: "\n", Sp: arena.SentinelSpan})
			sub.lx.ReadRawLine()
			continue
		}
		t := sub.lx.Read(lexmodes.DQ)
		if t.Val != "" {
			parts = append(parts, &ast.Literal{Value: t.Val, Sp: t.Span})
		}
		if t.ID == token.LitCont && !ll.AtEOL() {
			part, err := sub.readLeftPart(sub.lx.Read(lexmodes.ShCommand))
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
	}
	return parts, nil
}

// ReadDParen reads the body of `(( ... ))` / `$(( ... ))`, grounded on
// syntax/parser_arithm.go's flat arithmetic token list. The arithmetic
// evaluator itself is an external collaborator; this keeps
// only the token list the AST needs.
func (p *Parser) ReadDParen() (ast.ArithmExpr, error) {
	var toks []ast.Token
	depth := 0
	for {
		tok := p.lx.Read(lexmodes.Arith)
		switch tok.ID {
		case token.Rparen:
			if depth == 0 {
				ll := p.lx.LineLexer()
				if ll == nil {
					return nil, &ParseError{Msg: "unexpected EOF in arithmetic expression"}
				}
				next := ll.LookAhead(lexmodes.Arith)
				if next == token.Rparen {
					p.lx.Read(lexmodes.Arith)
					return &ast.ArithmWord{Tokens: toks}, nil
				}
				toks = append(toks, ast.Token{ID: int(tok.ID), Val: tok.Val, Sp: tok.Span})
				continue
			}
			depth--
		case token.Lparen:
			depth++
		case token.EOFReal:
			return nil, &ParseError{Msg: "unexpected EOF in arithmetic expression"}
		}
		toks = append(toks, ast.Token{ID: int(tok.ID), Val: tok.Val, Sp: tok.Span})
	}
}

// ReadForExpression reads the `(( init; cond; post ))` triple of a
// C-style for loop.
func (p *Parser) ReadForExpression() (init, cond, post ast.ArithmExpr, err error) {
	init, err = p.readArithUntilSemi()
	if err != nil {
		return
	}
	cond, err = p.readArithUntilSemi()
	if err != nil {
		return
	}
	post, err = p.readArithUntilDRparen()
	return
}

func (p *Parser) readArithUntilSemi() (ast.ArithmExpr, error) {
	var toks []ast.Token
	for {
		tok := p.lx.Read(lexmodes.Arith)
		if tok.ID == token.Semi {
			break
		}
		if tok.ID == token.EOFReal {
			return nil, &ParseError{Msg: "unexpected EOF in for (( ))"}
		}
		toks = append(toks, ast.Token{ID: int(tok.ID), Val: tok.Val, Sp: tok.Span})
	}
	if len(toks) == 0 {
		return nil, nil
	}
	return &ast.ArithmWord{Tokens: toks}, nil
}

func (p *Parser) readArithUntilDRparen() (ast.ArithmExpr, error) {
	var toks []ast.Token
	for {
		tok := p.lx.Read(lexmodes.Arith)
		if tok.ID == token.Rparen {
			ll := p.lx.LineLexer()
			if ll != nil && ll.LookAhead(lexmodes.Arith) == token.Rparen {
				p.lx.Read(lexmodes.Arith)
				break
			}
		}
		if tok.ID == token.EOFReal {
			return nil, &ParseError{Msg: "unexpected EOF in for (( ))"}
		}
		toks = append(toks, ast.Token{ID: int(tok.ID), Val: tok.Val, Sp: tok.Span})
	}
	if len(toks) == 0 {
		return nil, nil
	}
	return &ast.ArithmWord{Tokens: toks}, nil
}

// ParseVar reads the raw token stream making up the right-hand side of
// an Oil-variant `var NAME = expr` statement, stopping right before the
// statement-ending ';'/newline/EOF without consuming it. Expr is kept
// opaque, the same way ReadDParen keeps arithmetic opaque and DBracket
// keeps `[[ ]]` opaque, for the external Oil expression sub-parser to
// consume.
func (p *Parser) ParseVar() ([]ast.Token, error) {
	return p.readOpaqueStmtTail()
}

// ParseSetVar reads the raw token stream of a `setvar NAME = expr`
// statement the same way ParseVar does.
func (p *Parser) ParseSetVar() ([]ast.Token, error) {
	return p.readOpaqueStmtTail()
}

// readOpaqueStmtTail collects tokens off the lexer up to but not
// including the next statement terminator, checked via same-line
// look-ahead so the terminator itself (';', end of line, or true EOF)
// is left untouched for the command parser's own advance() to pick up
// as the next cursor.
func (p *Parser) readOpaqueStmtTail() ([]ast.Token, error) {
	var toks []ast.Token
	for {
		ll := p.lx.LineLexer()
		if ll == nil {
			return toks, nil
		}
		switch ll.LookAhead(lexmodes.ShCommand) {
		case token.Semi, token.EOLSentinel:
			return toks, nil
		}
		tok := p.lx.Read(lexmodes.ShCommand)
		toks = append(toks, ast.Token{ID: int(tok.ID), Val: tok.Val, Sp: tok.Span})
	}
}

// MakeWordParserForPlugin returns a fresh Parser sharing this one's
// lexer and arena, for the completion/Oil-expression external
// collaborators. It carries no additional behavior; those
// subsystems are out of scope.
func (p *Parser) MakeWordParserForPlugin() *Parser {
	return &Parser{lx: p.lx, a: p.a, src: p.src}
}

// ReadForPlugin reads one word using the same entry point completion
// builtins would call.
func (p *Parser) ReadForPlugin() (*ast.Word, error) {
	return p.ReadWord(lexmodes.ShCommand)
}

func unexpected(tok lexer.Token) error {
	return &ParseError{Span: tok.Span, Msg: fmt.Sprintf("unexpected token %v", tok.ID)}
}
