// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package expand

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"shfront/ast"
	"shfront/pattern"
)

// evalBracedVarSub implements the braced var-sub operator pipeline:
// bracket op -> prefix op -> suffix ops -> array decay. It returns a
// slice rather than a single partValue because the test-op suffixes
// (":-", ":=", ...) splice their argument word's own parts into the
// surrounding sequence rather than collapsing to one scalar, so
// `"${x:-'a b' c}"` splices two part-values into the outer word.
//
// Grounded on mvdan.cc/sh/v3's expand/param.go paramExp/varInd/
// elemValuePatterns, restructured around ast.BracedVarSub's explicit
// three-operator-slot shape instead of its single overloaded ParamExp
// struct.
func (rt *Runtime) evalBracedVarSub(b *ast.BracedVarSub, quoted bool) ([]partValue, error) {
	name := b.Param
	if b.Prefix == ast.PrefixIndirect {
		target := rt.lookupVar(name).String()
		if target == "" {
			return []partValue{{quoted: quoted}}, nil
		}
		name = target
	}
	vr := rt.lookupVar(name)

	isArray, elems, scalar := rt.applyBracket(vr, b.Bracket, quoted)

	if b.Prefix == ast.PrefixLength {
		n, err := rt.stringLength(isArray, elems, scalar)
		if err != nil {
			return nil, err
		}
		return []partValue{{str: strconv.Itoa(n), quoted: quoted}}, nil
	}

	if b.Suffix != nil {
		return rt.applySuffix(name, vr, b, isArray, elems, scalar, quoted)
	}

	if !vr.IsSet() && rt.Opts.NoUnset && name != "@" && name != "*" {
		return nil, &FatalRuntimeError{Kind: "unset-variable", Msg: name + ": unbound variable"}
	}
	if isArray {
		return []partValue{{array: true, elems: elems, quoted: quoted}}, nil
	}
	return []partValue{{str: scalar, quoted: quoted}}, nil
}

func (rt *Runtime) applyBracket(vr Variable, b *ast.BracketOp, quoted bool) (isArray bool, elems []string, scalar string) {
	if b == nil {
		return false, nil, vr.String()
	}
	switch b.Kind {
	case ast.BracketAt:
		return true, variableElems(vr), ""
	case ast.BracketStar:
		all := variableElems(vr)
		if quoted {
			return false, nil, strings.Join(all, rt.decaySep())
		}
		return true, all, ""
	case ast.BracketIndex:
		if vr.Kind == Associative {
			return false, nil, vr.Map[rawIndexText(b.Index)]
		}
		idx, _ := rt.Arithm.Eval(rt, b.Index)
		if vr.Kind == Indexed {
			if idx >= 0 && idx < len(vr.List) {
				return false, nil, vr.List[idx]
			}
			return false, nil, ""
		}
		if idx == 0 {
			return false, nil, vr.String()
		}
		return false, nil, ""
	}
	return false, nil, vr.String()
}

func variableElems(vr Variable) []string {
	switch vr.Kind {
	case Indexed:
		return vr.List
	case Associative:
		keys := make([]string, 0, len(vr.Map))
		for k := range vr.Map {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		vals := make([]string, len(keys))
		for i, k := range keys {
			vals[i] = vr.Map[k]
		}
		return vals
	case String:
		if vr.Str == "" {
			return nil
		}
		return []string{vr.Str}
	default:
		return nil
	}
}

func rawIndexText(expr ast.ArithmExpr) string {
	aw, ok := expr.(*ast.ArithmWord)
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, t := range aw.Tokens {
		b.WriteString(t.Val)
	}
	return b.String()
}

// stringLength implements the "#" prefix op: UTF-8 code points, not
// bytes, surfacing invalid UTF-8 as a fatal error
// under StrictWordEval or else a downgraded warning plus -1.
func (rt *Runtime) stringLength(isArray bool, elems []string, scalar string) (int, error) {
	if isArray {
		return len(elems), nil
	}
	if !utf8ValidKeepGoing(scalar) {
		if rt.Opts.StrictWordEval {
			return 0, &FatalRuntimeError{Kind: "invalid-utf8", Msg: "invalid UTF-8 in string length operand"}
		}
		rt.warn(&FatalRuntimeError{Kind: "invalid-utf8", Msg: "invalid UTF-8 in string length operand"})
		return -1, nil
	}
	return runeCount(scalar), nil
}

func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

func utf8ValidKeepGoing(s string) bool {
	for i := 0; i < len(s); {
		r, size := decodeRune(s[i:])
		if r == 0xFFFD && size == 1 {
			return false
		}
		i += size
	}
	return true
}

func decodeRune(s string) (rune, int) {
	return utf8.DecodeRuneInString(s)
}

// applySuffix dispatches to the four suffix-operator families:
// string-test, string-unary, pattern-substitution, and slice.
func (rt *Runtime) applySuffix(name string, vr Variable, b *ast.BracedVarSub, isArray bool, elems []string, scalar string, quoted bool) ([]partValue, error) {
	suf := b.Suffix
	switch suf.Kind {
	case ast.SuffixNullary:
		return rt.applyNullary(isArray, elems, scalar, quoted, suf.Nullary)
	case ast.SuffixUnary:
		return rt.applyUnary(name, vr, suf, isArray, elems, scalar, quoted)
	case ast.SuffixPatSub:
		return rt.applyPatSub(suf, isArray, elems, scalar, quoted)
	case ast.SuffixSlice:
		return rt.applySlice(suf, isArray, elems, scalar, quoted)
	}
	if isArray {
		return []partValue{{array: true, elems: elems, quoted: quoted}}, nil
	}
	return []partValue{{str: scalar, quoted: quoted}}, nil
}

func (rt *Runtime) applyNullary(isArray bool, elems []string, scalar string, quoted bool, op string) ([]partValue, error) {
	f := func(s string) string {
		switch op {
		case "Q":
			return shellQuote(s)
		case "U":
			return strings.ToUpper(s)
		case "L", "E", "K", "k", "P":
			return s
		case "u":
			return upperFirstRune(s)
		case "A":
			return s
		case "a":
			return ""
		default:
			return s
		}
	}
	if isArray {
		out := make([]string, len(elems))
		for i, e := range elems {
			out[i] = f(e)
		}
		return []partValue{{array: true, elems: out, quoted: quoted}}, nil
	}
	return []partValue{{str: f(scalar), quoted: quoted}}, nil
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func upperFirstRune(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func lowerFirstRune(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToLower(string(r[0])) + string(r[1:])
}

// applyUnary handles #/##/%/%%/^/^^/,/,,/:-/:=/:?/:+ and their
// unqualified (non-colon) forms.
func (rt *Runtime) applyUnary(name string, vr Variable, suf *ast.SuffixOp, isArray bool, elems []string, scalar string, quoted bool) ([]partValue, error) {
	switch suf.Unary {
	case ast.OpRemSmallPrefix, ast.OpRemLargePrefix, ast.OpRemSmallSuffix, ast.OpRemLargeSuffix:
		pat, err := rt.EvalWordToString(suf.Arg)
		if err != nil {
			return nil, err
		}
		f := func(s string) string { return trimByPattern(s, pat, suf.Unary) }
		return rt.mapShape(isArray, elems, scalar, quoted, f), nil
	case ast.OpUpperFirst:
		return rt.mapShape(isArray, elems, scalar, quoted, upperFirstRune), nil
	case ast.OpUpperAll:
		return rt.mapShape(isArray, elems, scalar, quoted, strings.ToUpper), nil
	case ast.OpLowerFirst:
		return rt.mapShape(isArray, elems, scalar, quoted, lowerFirstRune), nil
	case ast.OpLowerAll:
		return rt.mapShape(isArray, elems, scalar, quoted, strings.ToLower), nil
	case ast.OpUnsetOrNull, ast.OpUnset:
		empty := !vr.IsSet()
		if suf.Unary == ast.OpUnsetOrNull {
			empty = empty || (isArray && len(elems) == 0) || (!isArray && scalar == "")
		}
		if empty {
			return rt.evalSplice(suf.Arg, quoted)
		}
		return rt.shapeAsIs(isArray, elems, scalar, quoted), nil
	case ast.OpUnsetOrNullAssign, ast.OpUnsetAssign:
		empty := !vr.IsSet()
		if suf.Unary == ast.OpUnsetOrNullAssign {
			empty = empty || (isArray && len(elems) == 0) || (!isArray && scalar == "")
		}
		if empty {
			val, err := rt.EvalWordToString(suf.Arg)
			if err != nil {
				return nil, err
			}
			if we, ok := rt.Env.(WriteEnviron); ok {
				we.Set(name, Variable{Kind: String, Str: val})
			}
			return []partValue{{str: val, quoted: quoted}}, nil
		}
		return rt.shapeAsIs(isArray, elems, scalar, quoted), nil
	case ast.OpUnsetOrNullError, ast.OpUnsetError:
		empty := !vr.IsSet()
		if suf.Unary == ast.OpUnsetOrNullError {
			empty = empty || (isArray && len(elems) == 0) || (!isArray && scalar == "")
		}
		if empty {
			msg := name + ": parameter null or not set"
			if suf.Arg != nil {
				if m, err := rt.EvalWordToString(suf.Arg); err == nil && m != "" {
					msg = name + ": " + m
				}
			}
			return nil, &FatalRuntimeError{Kind: "param-required", Msg: msg}
		}
		return rt.shapeAsIs(isArray, elems, scalar, quoted), nil
	case ast.OpUnsetOrNullAlt, ast.OpUnsetAlt:
		empty := !vr.IsSet()
		if suf.Unary == ast.OpUnsetOrNullAlt {
			empty = empty || (isArray && len(elems) == 0) || (!isArray && scalar == "")
		}
		if !empty {
			return rt.evalSplice(suf.Arg, quoted)
		}
		return []partValue{{quoted: quoted}}, nil
	}
	return rt.shapeAsIs(isArray, elems, scalar, quoted), nil
}

func (rt *Runtime) mapShape(isArray bool, elems []string, scalar string, quoted bool, f func(string) string) []partValue {
	if isArray {
		out := make([]string, len(elems))
		for i, e := range elems {
			out[i] = f(e)
		}
		return []partValue{{array: true, elems: out, quoted: quoted}}
	}
	return []partValue{{str: f(scalar), quoted: quoted}}
}

func (rt *Runtime) shapeAsIs(isArray bool, elems []string, scalar string, quoted bool) []partValue {
	if isArray {
		return []partValue{{array: true, elems: elems, quoted: quoted}}
	}
	return []partValue{{str: scalar, quoted: quoted}}
}

// evalSplice evaluates w's own parts and returns them unreduced so the
// caller splices them into the surrounding sequence (spec: "arg-word
// inside the op is evaluated under the same quoted as the enclosing
// braced sub").
func (rt *Runtime) evalSplice(w *Word, quoted bool) ([]partValue, error) {
	if w == nil || w.Kind == Empty {
		return []partValue{{quoted: quoted}}, nil
	}
	return rt.evalPartsFlat(w.Parts, quoted)
}

// trimByPattern implements #/##/%/%% by searching over the anchored
// regex translation of pat for the shortest (#, %) or longest (##, %%)
// matching prefix/suffix.
func trimByPattern(s, pat string, op ast.UnarySuffixOp) string {
	mode := pattern.Mode(0)
	shortest := op == ast.OpRemSmallPrefix || op == ast.OpRemSmallSuffix
	if shortest {
		mode |= pattern.Shortest
	}
	expr, err := pattern.Regexp(pat, mode)
	if err != nil {
		return s
	}
	switch op {
	case ast.OpRemSmallPrefix, ast.OpRemLargePrefix:
		rx, err := regexp.Compile("^(?:" + expr + ")")
		if err != nil {
			return s
		}
		if loc := rx.FindStringIndex(s); loc != nil {
			return s[loc[1]:]
		}
		return s
	default: // suffix removal: search start offsets for a full match to the end
		full, err := regexp.Compile("^(?:" + expr + ")$")
		if err != nil {
			return s
		}
		if shortest {
			for i := len(s); i >= 0; i-- {
				if full.MatchString(s[i:]) {
					return s[:i]
				}
			}
		} else {
			for i := 0; i <= len(s); i++ {
				if full.MatchString(s[i:]) {
					return s[:i]
				}
			}
		}
		return s
	}
}

// applyPatSub implements the "//" family, vectorizing over arrays
// while preserving element identity.
func (rt *Runtime) applyPatSub(suf *ast.SuffixOp, isArray bool, elems []string, scalar string, quoted bool) ([]partValue, error) {
	repl := ""
	if suf.Arg != nil {
		r, err := rt.EvalWordToString(suf.Arg)
		if err != nil {
			return nil, err
		}
		repl = r
	}
	expr, err := pattern.Regexp(suf.PatSubOrig, 0)
	if err != nil {
		return rt.shapeAsIs(isArray, elems, scalar, quoted), nil
	}
	rx, err := regexp.Compile(expr)
	if err != nil {
		return rt.shapeAsIs(isArray, elems, scalar, quoted), nil
	}
	replOnce := func(s string) string {
		if suf.PatSubAll {
			return rx.ReplaceAllStringFunc(s, func(m string) string { return applyAmpersand(repl, m) })
		}
		loc := rx.FindStringIndex(s)
		if loc == nil {
			return s
		}
		return s[:loc[0]] + applyAmpersand(repl, s[loc[0]:loc[1]]) + s[loc[1]:]
	}
	return rt.mapShape(isArray, elems, scalar, quoted, replOnce), nil
}

func applyAmpersand(repl, matched string) string {
	var b strings.Builder
	for i := 0; i < len(repl); i++ {
		switch repl[i] {
		case '&':
			b.WriteString(matched)
		case '\\':
			if i+1 < len(repl) && repl[i+1] == '&' {
				b.WriteByte('&')
				i++
				continue
			}
			b.WriteByte('\\')
		default:
			b.WriteByte(repl[i])
		}
	}
	return b.String()
}

// applySlice implements ":a:b": UTF-8 char indices on strings,
// element indices on arrays.
func (rt *Runtime) applySlice(suf *ast.SuffixOp, isArray bool, elems []string, scalar string, quoted bool) ([]partValue, error) {
	off, err := rt.Arithm.Eval(rt, suf.SliceOff)
	if err != nil {
		return nil, err
	}
	length := -1
	if suf.SliceLen != nil {
		length, err = rt.Arithm.Eval(rt, suf.SliceLen)
		if err != nil {
			return nil, err
		}
	}
	if isArray {
		n := len(elems)
		start := off
		if start < 0 {
			start += n
		}
		if start < 0 {
			start = 0
		}
		if start > n {
			start = n
		}
		end := n
		if length >= 0 {
			end = start + length
			if end > n {
				end = n
			}
		}
		if end < start {
			end = start
		}
		return []partValue{{array: true, elems: append([]string{}, elems[start:end]...), quoted: quoted}}, nil
	}
	runes := []rune(scalar)
	n := len(runes)
	start := off
	if start < 0 {
		if rt.Opts.StrictWordEval {
			return nil, &FatalRuntimeError{Kind: "invalid-slice", Msg: "negative string slice offset"}
		}
		rt.warn(&FatalRuntimeError{Kind: "invalid-slice", Msg: "negative string slice offset"})
		start += n
	}
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	end := n
	if length >= 0 {
		end = start + length
		if end > n {
			end = n
		}
	}
	if end < start {
		end = start
	}
	return []partValue{{str: string(runes[start:end]), quoted: quoted}}, nil
}

// lookupVar resolves a braced-var-sub parameter name, including the
// special names ($@, $*, $#, $$, positional params), which get their
// own special-variable evaluation.
func (rt *Runtime) lookupVar(name string) Variable {
	switch name {
	case "#":
		return Variable{Kind: String, Str: strconv.Itoa(len(rt.PosParams))}
	case "@", "*":
		return Variable{Kind: Indexed, List: rt.PosParams}
	case "$":
		return Variable{Kind: String, Str: strconv.Itoa(os.Getpid())}
	case "?", "!", "-":
		return Variable{Kind: String, Str: "0"}
	case "0":
		return Variable{Kind: String, Str: "shfront"}
	}
	if n, err := strconv.Atoi(name); err == nil && n >= 1 {
		if n <= len(rt.PosParams) {
			return Variable{Kind: String, Str: rt.PosParams[n-1]}
		}
		return Variable{}
	}
	return rt.Env.Get(name)
}

// FatalRuntimeError covers every word-evaluation-time failure: unset
// variable under nounset ("unset-variable"), invalid slice
// ("invalid-slice"), invalid UTF-8 under StrictWordEval ("invalid-utf8"),
// a failed ${x?} test ("param-required") and an array used where a scalar
// is required ("array-as-scalar"). An indirect expansion whose target
// name is empty expands to nothing and raises no error. Kind names the
// sub-kind so a caller can match on it without string-parsing Msg.
type FatalRuntimeError struct {
	Kind string
	Msg  string
}

func (e *FatalRuntimeError) Error() string { return fmt.Sprintf("expand: %s", e.Msg) }
