// Copyright (c) 2018, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package expand

import "strconv"

// ExpandBraces performs bash brace expansion on a word, splicing
// literal text such as "foo{bar,baz}" into the two words "foobar" and
// "foobaz", and "{1..3}" into "1" "2" "3". Malformed brace groups are
// left untouched, e.g. "a{b{c,d}" expands to "a{bc" and "a{bd".
// EvalWordSequence runs every word through this before evaluating it,
// and EvalRhs does the same for array-literal elements, matching bash's order:
// brace-expand first, then split/glob during evaluation.
//
// Grounded on mvdan.cc/sh/v3's syntax/braces.go splitBraces plus
// syntax/expand.go ExpandBraces, collapsed into one pass over ast.Word
// since this module has no printer that needs the intermediate
// brace-tree representation kept as its own exported node.
func ExpandBraces(w *Word) []*Word {
	top := splitBraces(w)
	return expandBraceRec(top)
}

// braceGroup is a {a,b,c} or {a..b[..incr]} group detected inside a
// word's literal text.
type braceGroup struct {
	seq   bool // {x..y[..incr]} rather than {x,y,...}
	chars bool // sequence endpoints are single letters, not numbers
	elems []*braceTempWord
}

// braceTempWord mirrors Word during the brace-splitting pass, except
// that a part may be a nested braceGroup as well as an ordinary
// WordPart.
type braceTempWord struct {
	parts []any // WordPart | *braceGroup
}

func (bw *braceTempWord) lit() string {
	if len(bw.parts) != 1 {
		return ""
	}
	if l, ok := bw.parts[0].(*Literal); ok {
		return l.Value
	}
	return ""
}

func splitBraces(w *Word) *braceTempWord {
	top := &braceTempWord{}
	acc := top
	var cur *braceGroup
	var open []*braceGroup

	pop := func() *braceGroup {
		old := cur
		open = open[:len(open)-1]
		if len(open) == 0 {
			cur = nil
			acc = top
		} else {
			cur = open[len(open)-1]
			acc = cur.elems[len(cur.elems)-1]
		}
		return old
	}
	addPart := func(p any) { acc.parts = append(acc.parts, p) }

	if w.Kind != Compound {
		return top
	}
	for _, wp := range w.Parts {
		lit, ok := wp.(*Literal)
		if !ok {
			addPart(wp)
			continue
		}
		last := 0
		for j := 0; j < len(lit.Value); j++ {
			flushLitRange := func() {
				if last == j {
					return
				}
				addPart(&Literal{Value: lit.Value[last:j], Sp: lit.Sp})
			}
			switch lit.Value[j] {
			case '{':
				flushLitRange()
				acc = &braceTempWord{}
				cur = &braceGroup{elems: []*braceTempWord{acc}}
				open = append(open, cur)
			case ',':
				if cur == nil {
					continue
				}
				flushLitRange()
				acc = &braceTempWord{}
				cur.elems = append(cur.elems, acc)
			case '.':
				if cur == nil || j+1 >= len(lit.Value) || lit.Value[j+1] != '.' {
					continue
				}
				flushLitRange()
				cur.seq = true
				acc = &braceTempWord{}
				cur.elems = append(cur.elems, acc)
				j++
			case '}':
				if cur == nil {
					continue
				}
				flushLitRange()
				br := pop()
				if len(br.elems) == 1 {
					// {x} with no comma/.. is not a brace group.
					addPart(&Literal{Value: "{", Sp: lit.Sp})
					acc.parts = append(acc.parts, br.elems[0].parts...)
					addPart(&Literal{Value: "}", Sp: lit.Sp})
					last = j + 1
					continue
				}
				if !br.seq {
					addPart(br)
					last = j + 1
					continue
				}
				var isChar [2]bool
				broken := false
				for i, elem := range br.elems[:2] {
					v := elem.lit()
					if _, err := strconv.Atoi(v); err == nil {
					} else if len(v) == 1 && v[0] >= 'a' && v[0] <= 'z' {
						isChar[i] = true
					} else {
						broken = true
					}
				}
				if len(br.elems) == 3 {
					if _, err := strconv.Atoi(br.elems[2].lit()); err != nil {
						broken = true
					}
				}
				if isChar[0] != isChar[1] {
					broken = true
				}
				if !broken {
					br.chars = isChar[0]
					addPart(br)
				} else {
					addPart(&Literal{Value: "{", Sp: lit.Sp})
					for i, elem := range br.elems {
						if i > 0 {
							addPart(&Literal{Value: "..", Sp: lit.Sp})
						}
						acc.parts = append(acc.parts, elem.parts...)
					}
					addPart(&Literal{Value: "}", Sp: lit.Sp})
				}
			default:
				continue
			}
			last = j + 1
		}
		if last == 0 {
			addPart(lit)
		} else if last < len(lit.Value) {
			addPart(&Literal{Value: lit.Value[last:], Sp: lit.Sp})
		}
	}
	// Unterminated "{...": fall back every still-open group to its
	// literal spelling instead of silently dropping it.
	for acc != top {
		br := pop()
		sep := ","
		if br.seq {
			sep = ".."
		}
		addPart(&Literal{Value: "{"})
		for i, elem := range br.elems {
			if i > 0 {
				addPart(&Literal{Value: sep})
			}
			acc.parts = append(acc.parts, elem.parts...)
		}
	}
	return top
}

func expandBraceRec(bw *braceTempWord) []*Word {
	var left []WordPart
	for i, p := range bw.parts {
		br, ok := p.(*braceGroup)
		if !ok {
			left = append(left, p.(WordPart))
			continue
		}
		rest := bw.parts[i+1:]
		var all []*Word
		emit := func(prefix []WordPart) {
			parts := make([]any, 0, len(prefix)+len(rest))
			for _, pp := range prefix {
				parts = append(parts, pp)
			}
			parts = append(parts, rest...)
			next := &braceTempWord{parts: parts}
			for _, w := range expandBraceRec(next) {
				w.Parts = append(append([]WordPart{}, left...), w.Parts...)
				all = append(all, w)
			}
		}
		if br.seq {
			from, to, incr := seqBounds(br)
			for n := from; (incr > 0 && n <= to) || (incr < 0 && n >= to); n += incr {
				var lit string
				if br.chars {
					lit = string(rune(n))
				} else {
					lit = strconv.Itoa(n)
				}
				emit([]WordPart{&Literal{Value: lit}})
			}
		} else {
			for _, elem := range br.elems {
				emitParts := make([]WordPart, 0, len(elem.parts))
				for _, ep := range elem.parts {
					if wp, ok := ep.(WordPart); ok {
						emitParts = append(emitParts, wp)
					}
				}
				emit(emitParts)
			}
		}
		return all
	}
	if len(left) == 0 {
		return []*Word{{Kind: Empty}}
	}
	return []*Word{{Kind: Compound, Parts: left}}
}

func seqBounds(br *braceGroup) (from, to, incr int) {
	if br.chars {
		from = int(br.elems[0].lit()[0])
		to = int(br.elems[1].lit()[0])
	} else {
		from, _ = strconv.Atoi(br.elems[0].lit())
		to, _ = strconv.Atoi(br.elems[1].lit())
	}
	incr = 1
	if from > to {
		incr = -1
	}
	if len(br.elems) > 2 {
		if n, err := strconv.Atoi(br.elems[2].lit()); err == nil && n != 0 && (n > 0) == (incr > 0) {
			incr = n
		}
	}
	return from, to, incr
}
