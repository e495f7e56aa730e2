// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package parser

import (
	"strings"

	"shfront/arena"
	"shfront/ast"
	"shfront/lexmodes"
	"shfront/token"
)

// commandStmt parses one "command" unit within a pipeline stage: a
// compound command, a POSIX `name() body` function signature, or an
// interleaved redirect/word run; a simple command, assign-statement,
// control-flow command, or alias invocation all start out looking
// alike here.
func (p *Parser) commandStmt() (*ast.Stmt, error) {
	sp := p.curSpan()
	if p.atCompoundStart() {
		return p.compoundStmt()
	}
	var words []*ast.Word
	if name, ok := bareLiteral(p.cur); ok && isValidIdent(name) {
		w := p.cur
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
		if p.curIs(token.Lparen) {
			return p.finishFuncDefSignature(sp, name)
		}
		words = append(words, w)
	}
	return p.finishSimpleCommand(sp, nil, words)
}

// finishFuncDefSignature consumes the "()" of a POSIX-style function
// signature (the opening NAME word and '(' have already been consumed)
// and parses the compound command that must follow as its body,
// grounded on syntax/parser.go's callExpr's funcDecl branch.
func (p *Parser) finishFuncDefSignature(sp arena.SpanID, name string) (*ast.Stmt, error) {
	lparenSp := p.curSpan()
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	if !p.curIs(token.Rparen) {
		return nil, p.errorf(lparenSp, "expected ) to close function signature")
	}
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	body, err := p.functionBody()
	if err != nil {
		return nil, err
	}
	return &ast.Stmt{Cmd: &ast.FuncDef{Name: name, BashStyle: false, Body: body, Sp: sp}, Sp: sp}, nil
}

// functionBody parses the compound command that must follow a function
// signature.
func (p *Parser) functionBody() (*ast.Stmt, error) {
	sp := p.curSpan()
	if !p.atCompoundStart() {
		return nil, p.errorf(sp, "expected a compound command as the function body")
	}
	return p.compoundStmt()
}

// atRedirectStart reports whether the cursor opens a redirection: a bare
// redirect operator, or a digit-only word immediately (byte-adjacent,
// no space) followed by '<' or '>'.
func (p *Parser) atRedirectStart() bool {
	if id, ok := p.curTok(); ok && token.KindOf(id) == token.Redir {
		return true
	}
	if lit, ok := bareLiteral(p.cur); ok && isAllDigits(lit) {
		if ll := p.lx.LineLexer(); ll != nil {
			rt := ll.RemainingText()
			if len(rt) > 0 && (rt[0] == '<' || rt[0] == '>') {
				return true
			}
		}
	}
	return false
}

// atCommandBoundary reports whether the cursor ends the current simple
// command's word/redirect scan: a pipe, and/or, terminator, the closing
// token of an enclosing construct, or EOF (checked by the caller).
func (p *Parser) atCommandBoundary() bool {
	if id, ok := p.curTok(); ok {
		switch id {
		case token.Semi, token.Newline, token.Pipe, token.PipeAmp, token.AndAnd,
			token.OrOr, token.Amp, token.Rparen, token.DSemi, token.SemiFall, token.DSemiFall:
			return true
		}
	}
	if id, ok := p.curKeyword(); ok {
		switch id {
		case token.Then, token.Fi, token.Elif, token.Else, token.Done, token.Esac,
			token.Do, token.Rbrace, token.DRbrack:
			return true
		}
	}
	return false
}

// redirOpFromToken maps a Kind==Redir token id to its ast.RedirOp,
// reporting whether it opens a scheduled here-doc body.
func redirOpFromToken(id token.ID) (ast.RedirOp, bool) {
	switch id {
	case token.Less:
		return ast.RedirLess, false
	case token.Great:
		return ast.RedirGreat, false
	case token.DGreat:
		return ast.RedirDGreat, false
	case token.LessGreat:
		return ast.RedirLessGreat, false
	case token.Clobber:
		return ast.RedirClobber, false
	case token.LessAnd:
		return ast.RedirLessAnd, false
	case token.GreatAnd:
		return ast.RedirGreatAnd, false
	case token.RdrAll:
		return ast.RedirRdrAll, false
	case token.AppAll:
		return ast.RedirAppAll, false
	case token.CmdIn:
		return ast.RedirCmdIn, false
	case token.CmdOut:
		return ast.RedirCmdOut, false
	case token.DLess:
		return ast.RedirHereDoc, true
	case token.DLessDash:
		return ast.RedirHereDocDash, true
	case token.TLess:
		return ast.RedirHereStr, false
	}
	return ast.RedirLess, false
}

// parseRedirect parses one redirection, including its optional fd-prefix
// word, and schedules here-doc operators into p.pendingHeredocs instead
// of reading their body immediately.
func (p *Parser) parseRedirect() (ast.Redirect, error) {
	sp := p.curSpan()
	var fd *ast.Word
	if lit, ok := bareLiteral(p.cur); ok && isAllDigits(lit) {
		fd = p.cur
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
	}
	opID, ok := p.curTok()
	if !ok || token.KindOf(opID) != token.Redir {
		return nil, p.errorf(sp, "expected a redirection operator")
	}
	op, isHeredoc := redirOpFromToken(opID)
	opSp := p.curSpan()
	wordMode := lexmodes.ShCommand
	if isHeredoc {
		wordMode = lexmodes.HereDocWord
	}
	if err := p.advance(wordMode); err != nil {
		return nil, err
	}
	word := p.cur
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	if isHeredoc {
		hd := &ast.HereDoc{Op: op, Fd: fd, HereBegin: word, Sp: opSp}
		p.pendingHeredocs = append(p.pendingHeredocs, hd)
		return hd, nil
	}
	return &ast.Redir{Op: op, Fd: fd, Arg: word, Sp: opSp}, nil
}

// finishSimpleCommand scans the interleaved redirect/word run that
// starts a simple command, assign-statement, control-flow command, or
// alias invocation, then classifies the result.
// words may already carry one entry seeded by commandStmt's funcdef
// lookahead.
func (p *Parser) finishSimpleCommand(sp arena.SpanID, redirs []ast.Redirect, words []*ast.Word) (*ast.Stmt, error) {
	for {
		if p.curIsEOF() || p.atCommandBoundary() {
			break
		}
		if p.atRedirectStart() {
			r, err := p.parseRedirect()
			if err != nil {
				return nil, err
			}
			redirs = append(redirs, r)
			continue
		}
		w := p.cur
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
		merged, err := p.maybeReadArrayAssign(w)
		if err != nil {
			return nil, err
		}
		words = append(words, merged)
	}
	return p.classify(sp, redirs, words)
}

// classify splits off any leading run of assignment words, then
// dispatches on the first remaining word's spelling.
func (p *Parser) classify(sp arena.SpanID, redirs []ast.Redirect, words []*ast.Word) (*ast.Stmt, error) {
	prefix, suffix := splitAssignPrefix(words)
	if len(suffix) == 0 {
		if len(prefix) > 0 && len(redirs) > 0 {
			return nil, p.errorf(sp, "a pure assignment statement cannot have redirections")
		}
		return &ast.Stmt{Cmd: &ast.NoOp{Sp: sp}, Assigns: prefix, Redirs: redirs, Sp: sp}, nil
	}
	if name, ok := bareLiteral(suffix[0]); ok {
		switch name {
		case "declare", "typeset", "local", "export", "readonly":
			if !isListingFlag(suffix) {
				if len(prefix) > 0 {
					return nil, p.errorf(sp, "%s: environment bindings are not valid before an assignment word", name)
				}
				if len(redirs) > 0 {
					return nil, p.errorf(sp, "%s: redirections are not valid on an assignment word", name)
				}
				as, err := p.buildAssignStmt(name, suffix[1:])
				if err != nil {
					return nil, err
				}
				as.Sp = sp
				return &ast.Stmt{Cmd: as, Redirs: redirs, Sp: sp}, nil
			}
		case "break", "continue", "return", "exit":
			if len(prefix) > 0 || len(redirs) > 0 {
				return nil, p.errorf(sp, "%s: assignments and redirections are not valid here", name)
			}
			cf, err := buildControlFlow(name, suffix[1:], sp)
			if err != nil {
				return nil, err
			}
			return &ast.Stmt{Cmd: cf, Sp: sp}, nil
		}
	}
	for _, a := range prefix {
		if assignHasArrayLiteral(a) {
			return nil, p.errorf(sp, "environment bindings cannot contain array literals")
		}
	}
	for _, w := range suffix {
		if wordHasArrayLiteral(w) {
			return nil, p.errorf(sp, "commands cannot contain array literals")
		}
	}
	ea, matched, err := p.tryExpandAlias(suffix)
	if err != nil {
		return nil, err
	}
	if matched {
		ea.Redirs = redirs
		ea.MoreEnv = prefix
		return &ast.Stmt{Cmd: ea, Sp: sp}, nil
	}
	return &ast.Stmt{Cmd: &ast.SimpleCommand{Words: suffix, Redirs: redirs, MoreEnv: prefix, Sp: sp}, Sp: sp}, nil
}

// assignHasArrayLiteral reports whether a's right-hand side is an
// ArrayLiteral, the shape only a true assignment statement (not an
// environment-binding prefix or a plain command word) may carry.
func assignHasArrayLiteral(a *ast.Assign) bool {
	if a.Value == nil {
		return false
	}
	return wordHasArrayLiteral(a.Value)
}

// wordHasArrayLiteral reports whether w carries an ArrayLiteral part,
// which maybeReadArrayAssign attaches to any bare "NAME=" literal
// immediately followed by '('.
func wordHasArrayLiteral(w *ast.Word) bool {
	for _, part := range w.Parts {
		if _, ok := part.(*ast.ArrayLiteral); ok {
			return true
		}
	}
	return false
}

// isListingFlag reports whether suffix[1] is one of the flags that turn
// declare/typeset/local/export/readonly into a listing command instead
// of an assignment statement.
func isListingFlag(suffix []*ast.Word) bool {
	if len(suffix) < 2 {
		return false
	}
	flag, ok := bareLiteral(suffix[1])
	return ok && (flag == "-f" || flag == "-F" || flag == "-p")
}

// buildAssignStmt parses the flags and NAME[=value] operands of a
// declare/typeset/local/export/readonly invocation.
func (p *Parser) buildAssignStmt(keyword string, rest []*ast.Word) (*ast.AssignStmt, error) {
	var flags []string
	i := 0
	for i < len(rest) {
		s, ok := bareLiteral(rest[i])
		if !ok || !strings.HasPrefix(s, "-") {
			break
		}
		flags = append(flags, s)
		i++
	}
	var pairs []*ast.Assign
	for ; i < len(rest); i++ {
		if a, ok := tryAssign(rest[i]); ok {
			pairs = append(pairs, a)
			continue
		}
		name, ok := bareLiteral(rest[i])
		if !ok || !isValidIdent(name) {
			return nil, p.errorf(rest[i].Span(), "%s: invalid operand %q", keyword, wordText(rest[i]))
		}
		pairs = append(pairs, &ast.Assign{Name: name, Naked: true, Sp: rest[i].Span()})
	}
	return &ast.AssignStmt{Keyword: keyword, Flags: flags, Pairs: pairs}, nil
}

// buildControlFlow parses break/continue/return/exit's single optional
// numeric argument.
func buildControlFlow(keyword string, rest []*ast.Word, sp arena.SpanID) (*ast.ControlFlow, error) {
	cf := &ast.ControlFlow{Keyword: keyword, Sp: sp}
	if len(rest) > 0 {
		cf.Arg = rest[0]
	}
	return cf, nil
}

// splitAssignPrefix splits the leading contiguous run of assignment-
// shaped words off the front of words.
func splitAssignPrefix(words []*ast.Word) ([]*ast.Assign, []*ast.Word) {
	var assigns []*ast.Assign
	i := 0
	for i < len(words) {
		a, ok := tryAssign(words[i])
		if !ok {
			break
		}
		assigns = append(assigns, a)
		i++
	}
	return assigns, words[i:]
}

// tryAssign reports whether w has the NAME=value / NAME+=value /
// NAME[idx]=value shape, building the *ast.Assign if so. Grounded on
// syntax/parser.go's getAssign, generalized to our Word/WordPart shape.
func tryAssign(w *ast.Word) (*ast.Assign, bool) {
	if w.Kind != ast.Compound || len(w.Parts) == 0 {
		return nil, false
	}
	lit, ok := w.Parts[0].(*ast.Literal)
	if !ok {
		return nil, false
	}
	name, index, appnd, rest, ok := splitAssignLiteral(lit.Value)
	if !ok {
		return nil, false
	}
	var valueParts []ast.WordPart
	if rest != "" {
		valueParts = append(valueParts, &ast.Literal{Value: rest, Sp: lit.Sp})
	}
	valueParts = append(valueParts, w.Parts[1:]...)
	var value *ast.Word
	if len(valueParts) == 0 {
		value = &ast.Word{Kind: ast.Empty}
	} else {
		value = &ast.Word{Kind: ast.Compound, Parts: valueParts, Sp: valueParts[0].Span()}
	}
	var idxExpr ast.ArithmExpr
	if index != "" {
		idxExpr = &ast.ArithmWord{Tokens: []ast.Token{{Val: index, Sp: lit.Sp}}, Sp: lit.Sp}
	}
	return &ast.Assign{Append: appnd, Name: name, Index: idxExpr, Value: value, Sp: w.Sp}, true
}

// splitAssignLiteral scans name[[index]](+)=rest out of s, grounded on
// syntax/parser.go's validIdent/getAssign byte walk.
func splitAssignLiteral(s string) (name, index string, appnd bool, rest string, ok bool) {
	i := 0
	for i < len(s) && isIdentByte(s[i], i == 0) {
		i++
	}
	if i == 0 {
		return "", "", false, "", false
	}
	name = s[:i]
	if i < len(s) && s[i] == '[' {
		j := strings.IndexByte(s[i:], ']')
		if j < 0 {
			return "", "", false, "", false
		}
		index = s[i+1 : i+j]
		i += j + 1
	}
	if i+1 < len(s) && s[i] == '+' && s[i+1] == '=' {
		return name, index, true, s[i+2:], true
	}
	if i < len(s) && s[i] == '=' {
		return name, index, false, s[i+1:], true
	}
	return "", "", false, "", false
}

func isIdentByte(b byte, first bool) bool {
	if b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') {
		return true
	}
	if first {
		return false
	}
	return b >= '0' && b <= '9'
}

func isValidIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i], i == 0) {
			return false
		}
	}
	return true
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// wordText renders a word's literal parts back to plain text, used only
// for error messages (never for semantic decisions).
func wordText(w *ast.Word) string {
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

// spansAdjacent reports whether b starts exactly where a ends on the
// same source line" array-literal detection:
// the '(' must immediately follow the bare "NAME=" literal, no space).
func (p *Parser) spansAdjacent(a, b arena.SpanID) bool {
	pa, pb := p.a.GetSpan(a), p.a.GetSpan(b)
	return pa.Line == pb.Line && pa.Col+pa.Length == pb.Col
}

// maybeReadArrayAssign recognizes the `NAME=(...)` array-literal
// right-hand side: the word parser's ReadWord stops word assembly right
// before a bare '(', so a bare "NAME=" literal
// word immediately followed by Lparen is the command parser's job to
// splice back together.
func (p *Parser) maybeReadArrayAssign(w *ast.Word) (*ast.Word, error) {
	if w.Kind != ast.Compound || len(w.Parts) != 1 {
		return w, nil
	}
	lit, ok := w.Parts[0].(*ast.Literal)
	if !ok || lit.Value == "" || lit.Value[len(lit.Value)-1] != '=' {
		return w, nil
	}
	if _, _, _, rest, ok := splitAssignLiteral(lit.Value); !ok || rest != "" {
		return w, nil
	}
	if !p.curIs(token.Lparen) || !p.spansAdjacent(lit.Sp, p.curSpan()) {
		return w, nil
	}
	arr, err := p.parseArrayLiteral()
	if err != nil {
		return nil, err
	}
	return &ast.Word{Kind: ast.Compound, Parts: []ast.WordPart{lit, arr}, Sp: lit.Sp}, nil
}

// parseArrayLiteral parses the body of a `(elem elem [i]=elem ...)`
// array literal; the cursor starts on the opening Lparen.
func (p *Parser) parseArrayLiteral() (*ast.ArrayLiteral, error) {
	sp := p.curSpan()
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	var elems []ast.ArrayElem
	for {
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
		if p.curIs(token.Rparen) {
			break
		}
		if p.curIsEOF() {
			return nil, p.errorf(sp, "reached EOF without matching ) for array literal")
		}
		w := p.cur
		if err := p.advance(lexmodes.ShCommand); err != nil {
			return nil, err
		}
		elems = append(elems, arrayElemFromWord(w))
	}
	if err := p.advance(lexmodes.ShCommand); err != nil {
		return nil, err
	}
	return &ast.ArrayLiteral{Elems: elems, Sp: sp}, nil
}

// arrayElemFromWord recognizes the bash `[idx]=value` per-element shape,
// keeping idx opaque and falling
// back to a plain positional element otherwise.
func arrayElemFromWord(w *ast.Word) ast.ArrayElem {
	if w.Kind == ast.Compound && len(w.Parts) > 0 {
		if lit, ok := w.Parts[0].(*ast.Literal); ok && strings.HasPrefix(lit.Value, "[") {
			if j := strings.IndexByte(lit.Value, ']'); j > 0 && j+1 < len(lit.Value) && lit.Value[j+1] == '=' {
				idx := lit.Value[1:j]
				valParts := []ast.WordPart{&ast.Literal{Value: lit.Value[j+2:], Sp: lit.Sp}}
				valParts = append(valParts, w.Parts[1:]...)
				return ast.ArrayElem{
					Index: &ast.ArithmWord{Tokens: []ast.Token{{Val: idx, Sp: lit.Sp}}, Sp: lit.Sp},
					Value: &ast.Word{Kind: ast.Compound, Parts: valParts, Sp: lit.Sp},
				}
			}
		}
	}
	return ast.ArrayElem{Value: w}
}
