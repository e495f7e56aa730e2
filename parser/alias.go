// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package parser

import (
	"strings"

	"shfront/arena"
	"shfront/ast"
	"shfront/lexer"
)

// wordRawText reconstructs a word's raw source bytes from its first and
// last part's spans. It fails (ok == false) for words
// whose parts span more than one source line, which alias splicing
// cannot reconstruct faithfully.
func (p *Parser) wordRawText(w *ast.Word) (string, bool) {
	if w.Kind != ast.Compound || len(w.Parts) == 0 {
		return "", false
	}
	last := w.Parts[len(w.Parts)-1].Span()
	return p.a.SliceRange(w.Sp, last)
}

// tryExpandAlias implements the alias-rewrite step of simple-command
// classification: if suffix's first word
// names a defined alias and isn't already being expanded at this
// position, its body is spliced in front of the untouched remainder and
// re-parsed as a single pipeline, grounded on Oil's osh/cmd_parse.py
// _MaybeExpandAliases/ParseAndAppendAlias.
//
// When an alias body ends in a blank, bash also checks the next word
// for alias eligibility, and the one after that, and so on; buildAliasBuf
// walks that chain. Each step consumes one word off suffix, so the walk
// is bounded by len(suffix) regardless of how many times the same alias
// name recurs across distinct positions.
func (p *Parser) tryExpandAlias(suffix []*ast.Word) (*ast.ExpandedAlias, bool, error) {
	if p.cfg.Aliases == nil || len(suffix) == 0 {
		return nil, false, nil
	}
	name, ok := bareLiteral(suffix[0])
	if !ok {
		return nil, false, nil
	}
	body, ok := p.cfg.Aliases.Lookup(name)
	if !ok {
		return nil, false, nil
	}
	key := aliasKey{word: name, pos: 0}
	if p.aliasInFlight[key] {
		return nil, false, nil
	}

	buf, consumed := p.buildAliasBuf(body, suffix, 1)

	var rest []string
	for _, w := range suffix[consumed:] {
		text, ok := p.wordRawText(w)
		if !ok {
			// Can't reconstruct this word byte-for-byte; leave the whole
			// command unexpanded rather than risk silently dropping text.
			return nil, false, nil
		}
		rest = append(rest, text)
	}
	if len(rest) > 0 {
		if !strings.HasSuffix(buf, " ") && !strings.HasSuffix(buf, "\t") {
			buf += " "
		}
		buf += strings.Join(rest, " ")
	}

	p.aliasInFlight[key] = true
	defer delete(p.aliasInFlight, key)

	frame := p.a.PushSource(arena.OriginAlias, name)
	defer p.a.PopSource(frame)

	lx2 := lexer.New(p.a, arena.NewStringReader(buf))
	child, err := p.newChild(lx2, false)
	if err != nil {
		return nil, false, p.wrap(err)
	}
	if child.curIsEOF() {
		return &ast.ExpandedAlias{Child: &ast.NoOp{Sp: suffix[0].Span()}, Sp: suffix[0].Span()}, true, nil
	}
	inner, err := child.pipelineStmt()
	if err != nil {
		return nil, false, err
	}
	return &ast.ExpandedAlias{Child: inner.Cmd, Sp: suffix[0].Span()}, true, nil
}

// buildAliasBuf appends body with the alias-continuation chain bash
// applies when an expansion ends in a blank: as long as the buffer so
// far ends in a space or tab, the next unconsumed word in suffix is
// itself checked against the alias table, and its body (not its raw
// text) is appended in turn. It returns the accumulated buffer and how
// many words of suffix (starting at from) were consumed this way; the
// caller splices the remaining words in verbatim.
func (p *Parser) buildAliasBuf(body string, suffix []*ast.Word, from int) (string, int) {
	buf := body
	i := from
	for strings.HasSuffix(buf, " ") || strings.HasSuffix(buf, "\t") {
		if i >= len(suffix) {
			break
		}
		name, ok := bareLiteral(suffix[i])
		if !ok {
			break
		}
		next, ok := p.cfg.Aliases.Lookup(name)
		if !ok {
			break
		}
		buf += next
		i++
	}
	return buf, i
}
