// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package expand

import "shfront/ast"

// Local aliases so the rest of this package can spell ast's word/part
// types bare, the way mvdan.cc/sh/v3's expand package spells its own
// syntax.Word/syntax.WordPart bare (they live in the same module
// there; here ast is a sibling package, so these are aliases rather
// than the same type, kept to the handful of names every file below
// touches).
type (
	Word      = ast.Word
	WordPart  = ast.WordPart
	Literal   = ast.Literal
)

const (
	Compound = ast.Compound
	Empty    = ast.Empty
)
