// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package parser

import (
	"shfront/arena"
	"shfront/ast"
	"shfront/lexmodes"
	"shfront/token"
)

// atStop reports whether the cursor sits on one of the tokens/keywords
// that ends the statement list currently being parsed (grounded on
// syntax/parser.go's stmts' stop-word check, generalized since our
// cursor surfaces keywords and operators through two different paths).
func (p *Parser) atStop(stop map[token.ID]bool) bool {
	if stop == nil {
		return false
	}
	if id, ok := p.curTok(); ok && stop[id] {
		return true
	}
	if id, ok := p.curKeyword(); ok && stop[id] {
		return true
	}
	return false
}

// consumeNewlineAndHeredocs advances past the Newline token ending a
// statement and, if any here-doc operators were scheduled on this line,
// reads their bodies off the raw lines that follow.
func (p *Parser) consumeNewlineAndHeredocs() error {
	if err := p.doHeredocs(); err != nil {
		return err
	}
	return p.advance(lexmodes.ShCommand)
}

// skipEmptyStatements consumes stray separators between statements: a
// blank line, or a bare ';' with nothing before it, mirroring
// syntax/parser.go's gotStmtPipe loop over Op_Newline/Op_Semi.
func (p *Parser) skipEmptyStatements() error {
	for {
		switch {
		case p.curIs(token.Newline):
			if err := p.consumeNewlineAndHeredocs(); err != nil {
				return err
			}
		case p.curIs(token.Semi):
			if err := p.advance(lexmodes.ShCommand); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// skipNewlines consumes any run of blank newlines, used inside compound
// bodies and after '|'/'&&'/'||' where the grammar allows the next
// operand to start on a following line.
func (p *Parser) skipNewlines() error {
	for p.curIs(token.Newline) {
		if err := p.consumeNewlineAndHeredocs(); err != nil {
			return err
		}
	}
	return nil
}

// stmtList parses statements until EOF or a token/keyword in stop is
// reached (stop == nil means only EOF stops it), grounded on
// syntax/parser.go's stmts().
func (p *Parser) stmtList(stop map[token.ID]bool) ([]*ast.Stmt, error) {
	var stmts []*ast.Stmt
	for {
		if err := p.skipEmptyStatements(); err != nil {
			return nil, err
		}
		if p.curIsEOF() || p.atStop(stop) {
			return stmts, nil
		}
		st, err := p.andOrStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
		p.trace("stmt", "span", st.Sp)
	}
}

// pipelineStmt parses one `! cmd1 | cmd2 |& cmd3` unit: a
// leading bang negates, and each stage is separated by '|' or '|&'. Only
// when the unit is negated or has more than one stage does it wrap in
// an ast.Pipeline; a lone, unnegated stage is returned as-is so its own
// Stmt fields (Assigns, Redirs, ...) stay directly reachable instead of
// hiding a level down inside a trivial one-stage Pipeline.
func (p *Parser) pipelineStmt() (*ast.Stmt, error) {
	sp := p.curSpan()
	negated := false
	if p.curKeywordIs(token.Bang_KW) {
		negated = true
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
	}
	var stages []*ast.Stmt
	var stderrIdx []int
	for {
		st, err := p.commandStmt()
		if err != nil {
			return nil, err
		}
		stages = append(stages, st)
		if p.curIs(token.Pipe) || p.curIs(token.PipeAmp) {
			if p.curIs(token.PipeAmp) {
				stderrIdx = append(stderrIdx, len(stages)-1)
			}
			if err := p.advance(lexmodes.ShCommand); err != nil {
				return nil, err
			}
			if err := p.skipNewlines(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if negated || len(stages) > 1 {
		return &ast.Stmt{Cmd: &ast.Pipeline{Negated: negated, Stmts: stages, StderrIndices: stderrIdx, Sp: sp}, Sp: sp}, nil
	}
	return stages[0], nil
}

// andOrStmt parses one full top-level statement: a chain of pipelines
// joined by '&&'/'||', followed by its terminator (';', '&', newline, or
// none at EOF/a stop keyword), grounded on syntax/parser.go's gotStmtPipe
// "binary command" loop.
func (p *Parser) andOrStmt() (*ast.Stmt, error) {
	sp := p.curSpan()
	first, err := p.pipelineStmt()
	if err != nil {
		return nil, err
	}
	children := []*ast.Stmt{first}
	var ops []ast.AndOrOp
	for {
		var op ast.AndOrOp
		if p.curIs(token.AndAnd) {
			op = ast.AndOp
		} else if p.curIs(token.OrOr) {
			op = ast.OrOp
		} else {
			break
		}
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
		next, err := p.pipelineStmt()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		children = append(children, next)
	}
	stmt := first
	if len(children) > 1 {
		stmt = &ast.Stmt{Cmd: &ast.AndOr{Ops: ops, Children: children, Sp: sp}, Sp: sp}
	}
	switch {
	case p.curIs(token.Semi):
		stmt.Terminator = ast.TermSemi
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
	case p.curIs(token.Amp):
		stmt.Terminator = ast.TermBackground
		stmt.Background = true
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
	case p.curIs(token.Newline):
		stmt.Terminator = ast.TermNewline
		if err := p.consumeNewlineAndHeredocs(); err != nil {
			return nil, err
		}
	default:
		stmt.Terminator = ast.TermNone
	}
	return stmt, nil
}

// bodyStmtList parses a compound command's body: a statement list ended
// by one of the keywords/operators in stop, which is left unconsumed for
// the caller to recognize and advance past.
func (p *Parser) bodyStmtList(sp arena.SpanID, stop map[token.ID]bool, what string) ([]*ast.Stmt, error) {
	stmts, err := p.stmtList(stop)
	if err != nil {
		return nil, err
	}
	if p.curIsEOF() {
		return nil, p.errorf(sp, "reached EOF without matching %s", what)
	}
	return stmts, nil
}
