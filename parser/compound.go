// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package parser

import (
	"shfront/arena"
	"shfront/ast"
	"shfront/lexmodes"
	"shfront/token"
)

// atCompoundStart reports whether the cursor opens a compound command,
// grounded on syntax/parser.go's gotStmtPipe dispatch switch. '{', '}',
// '[[' and ']]' carry no ShCommandTable rule, so they can only be recognized through
// curKeywordIs, never curTok.
func (p *Parser) atCompoundStart() bool {
	if p.curIs(token.Lparen) || p.curIs(token.DLparen) {
		return true
	}
	switch {
	case p.curKeywordIs(token.Lbrace),
		p.curKeywordIs(token.If),
		p.curKeywordIs(token.While),
		p.curKeywordIs(token.Until),
		p.curKeywordIs(token.For),
		p.curKeywordIs(token.Case),
		p.curKeywordIs(token.DLbrack),
		p.curKeywordIs(token.Function),
		p.curKeywordIs(token.Time),
		p.curKeywordIs(token.Coproc),
		p.curKeywordIs(token.Var),
		p.curKeywordIs(token.SetVar):
		return true
	}
	return false
}

// compoundStmt dispatches to the parser for whichever compound command
// the cursor sits on.
func (p *Parser) compoundStmt() (*ast.Stmt, error) {
	sp := p.curSpan()
	switch {
	case p.curIs(token.Lparen):
		return p.subshellStmt(sp)
	case p.curIs(token.DLparen):
		return p.dparenStmt(sp)
	case p.curKeywordIs(token.Lbrace):
		return p.braceGroupStmt(sp)
	case p.curKeywordIs(token.If):
		return p.ifStmt(sp)
	case p.curKeywordIs(token.While):
		return p.whileUntilStmt(sp, false)
	case p.curKeywordIs(token.Until):
		return p.whileUntilStmt(sp, true)
	case p.curKeywordIs(token.For):
		return p.forStmt(sp)
	case p.curKeywordIs(token.Case):
		return p.caseStmt(sp)
	case p.curKeywordIs(token.DLbrack):
		return p.dbracketStmt(sp)
	case p.curKeywordIs(token.Function):
		return p.bashFuncDefStmt(sp)
	case p.curKeywordIs(token.Time):
		return p.timeStmt(sp)
	case p.curKeywordIs(token.Coproc):
		return p.coprocStmt(sp)
	case p.curKeywordIs(token.Var):
		return p.oilAssignStmt(sp, "var")
	case p.curKeywordIs(token.SetVar):
		return p.oilAssignStmt(sp, "setvar")
	}
	return nil, p.errorf(sp, "not a compound command")
}

// subshellStmt parses `( list )`, grounded on syntax/parser.go's subshell.
func (p *Parser) subshellStmt(sp arena.SpanID) (*ast.Stmt, error) {
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	stmts, err := p.bodyStmtList(sp, map[token.ID]bool{token.Rparen: true}, ")")
	if err != nil {
		return nil, err
	}
	if !p.curIs(token.Rparen) {
		return nil, p.errorf(sp, "reached EOF without matching )")
	}
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	return &ast.Stmt{Cmd: &ast.Subshell{Stmts: stmts, Sp: sp}, Sp: sp}, nil
}

// braceGroupStmt parses `{ list; }`, grounded on syntax/parser.go's block.
func (p *Parser) braceGroupStmt(sp arena.SpanID) (*ast.Stmt, error) {
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	stmts, err := p.bodyStmtList(sp, map[token.ID]bool{token.Rbrace: true}, "}")
	if err != nil {
		return nil, err
	}
	if !p.curKeywordIs(token.Rbrace) {
		return nil, p.errorf(sp, "reached EOF without matching }")
	}
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	return &ast.Stmt{Cmd: &ast.BraceGroup{Stmts: stmts, Sp: sp}, Sp: sp}, nil
}

// dparenStmt parses `(( expr ))` as a command, grounded on
// syntax/parser.go's arithmExpCmd. ReadDParen reads straight off the
// lexer starting at the line position right after the "((" that already
// produced the cursor's DLparen token, so it must run before any
// further advance.
func (p *Parser) dparenStmt(sp arena.SpanID) (*ast.Stmt, error) {
	expr, err := p.wp.ReadDParen()
	if err != nil {
		return nil, p.wrap(err)
	}
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	return &ast.Stmt{Cmd: &ast.DParen{Expr: expr, Sp: sp}, Sp: sp}, nil
}

// dbracketStmt parses `[[ ... ]]`, keeping the body as a flat token list
// for the external boolean-expression parser to consume. Grounded on syntax/parser.go's testClause, simplified
// since operator precedence inside [[ ]] is out of this package's scope.
func (p *Parser) dbracketStmt(sp arena.SpanID) (*ast.Stmt, error) {
	if err := p.advance(lexmodes.TestExpr); err != nil {
		return nil, err
	}
	var toks []ast.Token
	for {
		if p.curIsEOF() {
			return nil, p.errorf(sp, "reached EOF without matching ]]")
		}
		if p.curKeywordIs(token.DRbrack) {
			break
		}
		if id, ok := p.curTok(); ok {
			toks = append(toks, ast.Token{ID: int(id), Sp: p.curSpan()})
		} else {
			toks = append(toks, ast.Token{ID: int(token.LitWord), Val: wordText(p.cur), Sp: p.curSpan()})
		}
		if err := p.advance(lexmodes.TestExpr); err != nil {
			return nil, err
		}
	}
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	return &ast.Stmt{Cmd: &ast.DBracket{Expr: toks, Sp: sp}, Sp: sp}, nil
}

// oilAssignStmt parses the Oil-variant `var NAME = expr` / `setvar NAME
// = expr` binding forms, keeping expr opaque for the external Oil
// expression sub-parser the same way dbracketStmt keeps `[[ ]]`'s body
// opaque for the external boolean-expression parser. The cursor sits on
// the "var"/"setvar" keyword itself on entry.
func (p *Parser) oilAssignStmt(sp arena.SpanID, keyword string) (*ast.Stmt, error) {
	var toks []ast.Token
	var err error
	if keyword == "var" {
		toks, err = p.wp.ParseVar()
	} else {
		toks, err = p.wp.ParseSetVar()
	}
	if err != nil {
		return nil, p.wrap(err)
	}
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	return &ast.Stmt{Cmd: &ast.OilAssign{Keyword: keyword, Expr: toks, Sp: sp}, Sp: sp}, nil
}

// ifStmt parses `if cond; then body (elif cond; then body)* (else
// body)? fi`, grounded on syntax/parser.go's ifClause.
func (p *Parser) ifStmt(sp arena.SpanID) (*ast.Stmt, error) {
	var arms []ast.IfArm
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	for {
		cond, err := p.bodyStmtList(sp, map[token.ID]bool{token.Then: true}, "then")
		if err != nil {
			return nil, err
		}
		if !p.curKeywordIs(token.Then) {
			return nil, p.errorf(sp, "expected then")
		}
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
		body, err := p.bodyStmtList(sp, map[token.ID]bool{token.Elif: true, token.Else: true, token.Fi: true}, "fi")
		if err != nil {
			return nil, err
		}
		arms = append(arms, ast.IfArm{Cond: cond, Body: body})
		if !p.curKeywordIs(token.Elif) {
			break
		}
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
	}
	var elseAction []*ast.Stmt
	if p.curKeywordIs(token.Else) {
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
		var err error
		elseAction, err = p.bodyStmtList(sp, map[token.ID]bool{token.Fi: true}, "fi")
		if err != nil {
			return nil, err
		}
	}
	if !p.curKeywordIs(token.Fi) {
		return nil, p.errorf(sp, "reached EOF without matching fi")
	}
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	return &ast.Stmt{Cmd: &ast.If{Arms: arms, ElseAction: elseAction, Sp: sp}, Sp: sp}, nil
}

// whileUntilStmt parses `while`/`until cond; do body; done`, grounded on
// syntax/parser.go's whileClause/untilClause.
func (p *Parser) whileUntilStmt(sp arena.SpanID, until bool) (*ast.Stmt, error) {
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	cond, err := p.bodyStmtList(sp, map[token.ID]bool{token.Do: true}, "do")
	if err != nil {
		return nil, err
	}
	if !p.curKeywordIs(token.Do) {
		return nil, p.errorf(sp, "expected do")
	}
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	body, err := p.bodyStmtList(sp, map[token.ID]bool{token.Done: true}, "done")
	if err != nil {
		return nil, err
	}
	if !p.curKeywordIs(token.Done) {
		return nil, p.errorf(sp, "reached EOF without matching done")
	}
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	return &ast.Stmt{Cmd: &ast.WhileUntil{Until: until, Cond: cond, Body: body, Sp: sp}, Sp: sp}, nil
}

// skipSepsBeforeDo consumes the ';'/newline run that may separate a
// for/while/until header from its "do", grounded on syntax/parser.go's
// gotSemiOrNewline helper used throughout loop headers.
func (p *Parser) skipSepsBeforeDo() error {
	for p.curIs(token.Semi) {
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return err
		}
	}
	return p.skipNewlines()
}

// forStmt parses both for-loop shapes: POSIX `for NAME [in words]; do
// body; done` and bash's C-style `for (( init; cond; post )); do body;
// done`, grounded on syntax/parser.go's forClause/loop.
func (p *Parser) forStmt(sp arena.SpanID) (*ast.Stmt, error) {
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	if p.curIs(token.DLparen) {
		init, cond, post, err := p.wp.ReadForExpression()
		if err != nil {
			return nil, p.wrap(err)
		}
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
		if err := p.skipSepsBeforeDo(); err != nil {
			return nil, err
		}
		if !p.curKeywordIs(token.Do) {
			return nil, p.errorf(sp, "expected do")
		}
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
		body, err := p.bodyStmtList(sp, map[token.ID]bool{token.Done: true}, "done")
		if err != nil {
			return nil, err
		}
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
		return &ast.Stmt{Cmd: &ast.ForExpr{Init: init, Cond: cond, Post: post, Body: body, Sp: sp}, Sp: sp}, nil
	}
	name, ok := bareLiteral(p.cur)
	if !ok || !isValidIdent(name) {
		return nil, p.errorf(sp, "expected a name after for")
	}
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	if err := p.skipSepsBeforeDo(); err != nil {
		return nil, err
	}
	var words []*ast.Word
	doArgIter := true
	if p.curKeywordIs(token.In) {
		doArgIter = false
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
		for !p.curIs(token.Semi) && !p.curIs(token.Newline) && !p.curIsEOF() {
			w := p.cur
			if err := p.advance(lexmodes.ShCommand); err != nil {
				return nil, err
			}
			words = append(words, w)
		}
	}
	if err := p.skipSepsBeforeDo(); err != nil {
		return nil, err
	}
	if !p.curKeywordIs(token.Do) {
		return nil, p.errorf(sp, "expected do")
	}
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	body, err := p.bodyStmtList(sp, map[token.ID]bool{token.Done: true}, "done")
	if err != nil {
		return nil, err
	}
	if !p.curKeywordIs(token.Done) {
		return nil, p.errorf(sp, "reached EOF without matching done")
	}
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	return &ast.Stmt{Cmd: &ast.ForEach{Var: name, Words: words, DoArgIter: doArgIter, Body: body, Sp: sp}, Sp: sp}, nil
}

// caseTermFromToken maps a case-arm terminator operator to its
// ast.CaseTerminator.
func caseTermFromToken(id token.ID) (ast.CaseTerminator, bool) {
	switch id {
	case token.DSemi:
		return ast.CaseBreak, true
	case token.SemiFall:
		return ast.CaseFallthru, true
	case token.DSemiFall:
		return ast.CaseContinue, true
	}
	return ast.CaseBreak, false
}

// caseStmt parses `case word in (pattern|pattern...) body ;;|;&|;;&
// ... esac`, grounded on syntax/parser.go's caseClause/patLists.
func (p *Parser) caseStmt(sp arena.SpanID) (*ast.Stmt, error) {
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	word := p.cur
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	if !p.curKeywordIs(token.In) {
		return nil, p.errorf(sp, "expected in after case word")
	}
	if err := p.advance(lexmodes.CaseSwitch); err != nil {
		return nil, err
	}
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	var arms []ast.CaseArm
	for !p.curKeywordIs(token.Esac) {
		if p.curIsEOF() {
			return nil, p.errorf(sp, "reached EOF without matching esac")
		}
		if p.curIs(token.Lparen) {
			if err := p.advance(lexmodes.CaseSwitch); err != nil {
				return nil, err
			}
		}
		var patterns []*ast.Word
		for {
			patterns = append(patterns, p.cur)
			if err := p.advance(lexmodes.CaseSwitch); err != nil {
				return nil, err
			}
			if p.curIs(token.Pipe) {
				if err := p.advance(lexmodes.CaseSwitch); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
		if !p.curIs(token.Rparen) {
			return nil, p.errorf(sp, "expected ) after case pattern list")
		}
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
		body, err := p.stmtList(map[token.ID]bool{token.DSemi: true, token.SemiFall: true, token.DSemiFall: true, token.Esac: true})
		if err != nil {
			return nil, err
		}
		term := ast.CaseBreak
		if id, ok := p.curTok(); ok {
			if t, ok := caseTermFromToken(id); ok {
				term = t
				if err := p.advance(lexmodes.CaseSwitch); err != nil {
					return nil, err
				}
			}
		}
		arms = append(arms, ast.CaseArm{Patterns: patterns, Body: body, Terminator: term})
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
	}
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	return &ast.Stmt{Cmd: &ast.Case{Word: word, Arms: arms, Sp: sp}, Sp: sp}, nil
}

// timeStmt parses bash's `time [-p] pipeline`, grounded on
// syntax/parser.go's declClause-adjacent time handling. A bare `time`
// with nothing pipeline-shaped following it (end of statement) has a
// nil Stmt, timing the empty command.
func (p *Parser) timeStmt(sp arena.SpanID) (*ast.Stmt, error) {
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	posix := false
	if lit, ok := bareLiteral(p.cur); ok && lit == "-p" {
		posix = true
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
	}
	if p.curIsEOF() || p.atCommandBoundary() {
		return &ast.Stmt{Cmd: &ast.TimeBlock{Posix: posix, Sp: sp}, Sp: sp}, nil
	}
	inner, err := p.pipelineStmt()
	if err != nil {
		return nil, err
	}
	return &ast.Stmt{Cmd: &ast.TimeBlock{Posix: posix, Stmt: inner, Sp: sp}, Sp: sp}, nil
}

// coprocStmt parses bash's `coproc [NAME] command`, grounded on
// syntax/parser.go's coprocClause. NAME is only consumed as such when
// it stands alone before something that itself starts a command (a
// bare identifier followed immediately by a compound-start); otherwise the word already read is the command name itself,
// so it is seeded back in as the first word of a plain simple command.
func (p *Parser) coprocStmt(sp arena.SpanID) (*ast.Stmt, error) {
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	var name string
	if lit, ok := bareLiteral(p.cur); ok && isValidIdent(lit) {
		candidate := p.cur
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
		if p.atCompoundStart() {
			name = lit
		} else {
			inner, err := p.finishSimpleCommand(sp, nil, []*ast.Word{candidate})
			if err != nil {
				return nil, err
			}
			return &ast.Stmt{Cmd: &ast.CoprocClause{Stmt: inner, Sp: sp}, Sp: sp}, nil
		}
	}
	inner, err := p.commandStmt()
	if err != nil {
		return nil, err
	}
	return &ast.Stmt{Cmd: &ast.CoprocClause{Name: name, Stmt: inner, Sp: sp}, Sp: sp}, nil
}

// bashFuncDefStmt parses `function NAME [()] body`, grounded on
// syntax/parser.go's bashFuncDecl.
func (p *Parser) bashFuncDefStmt(sp arena.SpanID) (*ast.Stmt, error) {
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	name, ok := bareLiteral(p.cur)
	if !ok || !isValidIdent(name) {
		return nil, p.errorf(sp, "expected a name after function")
	}
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	if p.curIs(token.Lparen) {
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
		if !p.curIs(token.Rparen) {
			return nil, p.errorf(sp, "expected ) to close function signature")
		}
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
	}
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	body, err := p.functionBody()
	if err != nil {
		return nil, err
	}
	return &ast.Stmt{Cmd: &ast.FuncDef{Name: name, BashStyle: true, Body: body, Sp: sp}, Sp: sp}, nil
}
