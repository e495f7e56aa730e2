// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package parser

import (
	"fmt"

	"shfront/arena"
	"shfront/wordparser"
)

// ParseError is the single error kind every parse-time failure raises
//: a message plus the span it occurred at. The command parser
// wraps wordparser.ParseError into this kind at the boundary so callers
// only ever see one error type out of Parse.
type ParseError struct {
	Pos arena.Position
	Msg string
}

func (e *ParseError) Error() string {
	if e.Pos.Name == "" && e.Pos.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Name, e.Pos.Line, e.Pos.Col, e.Msg)
}

func (p *Parser) errorf(sp arena.SpanID, format string, args ...any) error {
	return &ParseError{Pos: p.a.GetSpan(sp), Msg: fmt.Sprintf(format, args...)}
}

// wrap turns any error the word parser raises into our ParseError kind,
// resolving its span against the arena. Errors already of our kind (or
// nil) pass through unchanged.
func (p *Parser) wrap(err error) error {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*ParseError); ok {
		return pe
	}
	if we, ok := err.(*wordparser.ParseError); ok {
		return &ParseError{Pos: p.a.GetSpan(we.Span), Msg: we.Msg}
	}
	return &ParseError{Msg: err.Error()}
}
