// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package lexmodes defines the closed set of lexer modes and, per
// mode, the ordered match table it consults. The rule shapes and their
// priority order are grounded directly in the byte/branch dispatch of
// mvdan.cc/sh/v3's syntax/lexer.go (regToken,
// paramToken, arithmToken, dqToken and the advanceLit* family): each
// switch arm there becomes one table rule here, in the same order, so
// the observable token stream for any given input is unchanged even
// though the dispatch is now data instead of a hand-written switch.
package lexmodes

// Mode tags which match table the lexer consults at a given position.
type Mode int

const (
	ShCommand Mode = iota // top-level command text, outside any quoting
	DQ                    // inside "..."
	SQ                    // inside '...'
	DollarSQ              // inside $'...'
	Arith                 // inside $(( ... )) or (( ... ))
	VSub_1                // right after ${NAME, before a bracket/operator
	VSub_2                // inside ${NAME[...] or an operator's own scanning
	VSub_ArgUnquoted      // the argument word of :-, :=, etc. outside quotes
	VSub_ArgDQ            // the argument word of :-, :=, etc. inside "..."
	ExtGlob               // inside !(...), @(...), *(...), +(...), ?(...)
	BashRegex             // the right-hand side of =~ inside [[ ]]
	Backtick              // inside `...`
	PrintfPercent         // printf format string, after a bare %
	PrintfBackslash       // printf format string, after a bare backslash
	HereDocWord           // the operand word of << / <<-, before quote-checking
	HereDocBody           // inside the here-doc body, operand was unquoted
	HereDocBodyTabs       // inside a <<- here-doc body (leading tabs stripped)
	CaseSwitch            // scanning a case pattern list
	TestExpr              // inside [[ ]]
)

func (m Mode) String() string {
	switch m {
	case DQ:
		return "DQ"
	case SQ:
		return "SQ"
	case DollarSQ:
		return "DollarSQ"
	case Arith:
		return "Arith"
	case VSub_1:
		return "VSub_1"
	case VSub_2:
		return "VSub_2"
	case VSub_ArgUnquoted:
		return "VSub_ArgUnquoted"
	case VSub_ArgDQ:
		return "VSub_ArgDQ"
	case ExtGlob:
		return "ExtGlob"
	case BashRegex:
		return "BashRegex"
	case Backtick:
		return "Backtick"
	case PrintfPercent:
		return "PrintfPercent"
	case PrintfBackslash:
		return "PrintfBackslash"
	case HereDocWord:
		return "HereDocWord"
	case HereDocBody:
		return "HereDocBody"
	case HereDocBodyTabs:
		return "HereDocBodyTabs"
	case CaseSwitch:
		return "CaseSwitch"
	case TestExpr:
		return "TestExpr"
	default:
		return "ShCommand"
	}
}
