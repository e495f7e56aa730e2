// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package expand

import (
	"fmt"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"shfront/arena"
	"shfront/ast"
	"shfront/pattern"
)

// partValue is one evaluated word-part value:
// either a scalar String or an Array. quoted threads whether this
// value came from inside quotes, which step 4 reads back as
// do_split_glob = !quoted.
type partValue struct {
	array  bool
	str    string
	elems  []string
	quoted bool
}

// evalPartsFlat turns word parts into part-values: it recursively
// evaluates a part sequence, flattening DoubleQuoted's own children
// into the surrounding sequence (rather than collapsing them to one
// value) since frame assembly (step 3) needs to see the individual
// array/string boundaries a double-quoted array expansion splices in.
// Grounded on mvdan.cc/sh/v3's expand/expand.go wordField/wordFields,
// restructured around this package's explicit partValue/frame pipeline
// instead of that package's single fieldPart accumulator.
func (rt *Runtime) evalPartsFlat(parts []ast.WordPart, quoted bool) ([]partValue, error) {
	var out []partValue
	for _, p := range parts {
		pvs, err := rt.evalPart(p, quoted)
		if err != nil {
			return nil, err
		}
		out = append(out, pvs...)
	}
	return out, nil
}

func (rt *Runtime) evalPart(p ast.WordPart, quoted bool) ([]partValue, error) {
	switch x := p.(type) {
	case *ast.Literal:
		return []partValue{{str: x.Value, quoted: quoted}}, nil
	case *ast.EscapedLiteral:
		return []partValue{{str: x.Value, quoted: true}}, nil
	case *ast.SingleQuoted:
		v := x.Tokens
		if x.Style == ast.DollarQuote {
			v = decodeDollarEscapes(v)
		}
		return []partValue{{str: v, quoted: true}}, nil
	case *ast.DoubleQuoted:
		return rt.evalPartsFlat(x.Parts, true)
	case *ast.SimpleVarSub:
		return rt.evalSimpleVarSub(x, quoted)
	case *ast.BracedVarSub:
		return rt.evalBracedVarSub(x, quoted)
	case *ast.CommandSub:
		s, err := rt.runCommandSub(x)
		if err != nil {
			return nil, err
		}
		return []partValue{{str: s, quoted: quoted}}, nil
	case *ast.ArithSub:
		n, err := rt.Arithm.Eval(rt, x.Expr)
		if err != nil {
			return nil, err
		}
		return []partValue{{str: strconv.Itoa(n), quoted: quoted}}, nil
	case *ast.TildeSub:
		return []partValue{{str: rt.expandTilde(x.Name), quoted: false}}, nil
	case *ast.ExtGlob:
		s, err := rt.evalExtGlobLiteral(x)
		if err != nil {
			return nil, err
		}
		return []partValue{{str: s, quoted: quoted}}, nil
	case *ast.ArrayLiteral:
		elems, err := rt.evalArrayLiteralElems(x)
		if err != nil {
			return nil, err
		}
		return []partValue{{array: true, elems: elems, quoted: quoted}}, nil
	default:
		return nil, fmt.Errorf("expand: unhandled word part %T", p)
	}
}

func (rt *Runtime) evalSimpleVarSub(v *ast.SimpleVarSub, quoted bool) ([]partValue, error) {
	switch v.Name {
	case "@":
		return []partValue{{array: true, elems: rt.PosParams, quoted: quoted}}, nil
	case "*":
		if quoted {
			return []partValue{{str: strings.Join(rt.PosParams, rt.decaySep()), quoted: true}}, nil
		}
		return []partValue{{array: true, elems: rt.PosParams, quoted: false}}, nil
	}
	vr := rt.lookupVar(v.Name)
	if !vr.IsSet() && rt.Opts.NoUnset {
		return nil, &FatalRuntimeError{Kind: "unset-variable", Msg: v.Name + ": unbound variable"}
	}
	return []partValue{{str: vr.String(), quoted: quoted}}, nil
}

func (rt *Runtime) runCommandSub(cs *ast.CommandSub) (string, error) {
	if rt.CmdSub == nil {
		return "", fmt.Errorf("expand: command substitution requires a CommandSubExecutor")
	}
	out, err := rt.CmdSub.Run(rt, cs.Stmts)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

func (rt *Runtime) expandTilde(name string) string {
	if name == "" {
		return rt.Env.Get("HOME").String()
	}
	u, err := user.Lookup(name)
	if err != nil {
		return "~" + name
	}
	return u.HomeDir
}

// evalExtGlobLiteral reconstructs an extglob word part's surface
// syntax, e.g. "@(foo|bar)". Extglob operators are not glob
// metacharacters this module's pattern package recognizes (it has no
// ExtendedOperators mode; the "[[ ]]"/extglob matcher is an external
// collaborator), so contributing the literal
// spelling here is correct both for EvalWordToString callers (case
// patterns, which pass it on to that external matcher) and as a
// graceful fallback for pathname expansion (an extglob appearing in a
// filename pattern is matched literally, same as bash with extglob
// off).
func (rt *Runtime) evalExtGlobLiteral(e *ast.ExtGlob) (string, error) {
	var arms []string
	for _, w := range e.Arms {
		lit, err := rt.EvalWordToString(w)
		if err != nil {
			return "", err
		}
		arms = append(arms, lit)
	}
	op := byte('@')
	switch e.Op {
	case ast.GlobZeroOrOne:
		op = '?'
	case ast.GlobAny:
		op = '*'
	case ast.GlobOneOrMore:
		op = '+'
	case ast.GlobOneOf:
		op = '@'
	case ast.GlobNone:
		op = '!'
	}
	return string(op) + "(" + strings.Join(arms, "|") + ")", nil
}

func (rt *Runtime) evalArrayLiteralElems(a *ast.ArrayLiteral) ([]string, error) {
	var out []string
	next := 0
	for _, el := range a.Elems {
		idx := next
		if el.Index != nil {
			n, err := rt.Arithm.Eval(rt, el.Index)
			if err != nil {
				return nil, err
			}
			idx = n
		}
		strs, err := rt.expandRhsElemWord(el.Value)
		if err != nil {
			return nil, err
		}
		for _, s := range strs {
			for len(out) <= idx {
				out = append(out, "")
			}
			out[idx] = s
			idx++
		}
		next = idx
	}
	return out, nil
}

func (rt *Runtime) expandRhsElemWord(w *ast.Word) ([]string, error) {
	var all []string
	for _, bw := range ExpandBraces(w) {
		av, err := rt.EvalWordSequence([]*ast.Word{bw})
		if err != nil {
			return nil, err
		}
		all = append(all, av.Strs...)
	}
	return all, nil
}

// decodeDollarEscapes implements the backslash escapes $'...' supports
// (ANSI-C quoting), e.g. \n, \t, \xHH, \0NNN.
func decodeDollarEscapes(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte(7)
		case 'b':
			b.WriteByte(8)
		case 'f':
			b.WriteByte(12)
		case 'v':
			b.WriteByte(11)
		case 'e', 'E':
			b.WriteByte(27)
		case '\\':
			b.WriteByte('\\')
		case '\'':
			b.WriteByte('\'')
		case '"':
			b.WriteByte('"')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j, n := i, 0
			for k := 0; k < 3 && j < len(s) && s[j] >= '0' && s[j] <= '7'; k++ {
				n = n*8 + int(s[j]-'0')
				j++
			}
			b.WriteByte(byte(n))
			i = j - 1
		case 'x':
			j, n := i+1, 0
			for k := 0; k < 2 && j < len(s) && isHexDigit(s[j]); k++ {
				n = n*16 + hexDigitVal(s[j])
				j++
			}
			b.WriteByte(byte(n))
			i = j - 1
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexDigitVal(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	default:
		return int(b-'A') + 10
	}
}

// fragment is one piece of a frame after array decay: plain text plus
// whether it came from inside quotes.
type fragment struct {
	val    string
	quoted bool
}

// assembleFrames implements the frame rule: every element of an Array starts
// a new frame except the first, which extends whatever frame is
// already open (spec's worked example: `$x"${a[@]}"$y` -> 3 frames).
func assembleFrames(pvs []partValue) [][]fragment {
	var frames [][]fragment
	var cur []fragment
	flush := func() {
		frames = append(frames, cur)
		cur = nil
	}
	for _, pv := range pvs {
		if pv.array {
			if len(pv.elems) == 0 {
				continue
			}
			cur = append(cur, fragment{val: pv.elems[0], quoted: pv.quoted})
			for _, e := range pv.elems[1:] {
				flush()
				cur = append(cur, fragment{val: e, quoted: pv.quoted})
			}
			continue
		}
		cur = append(cur, fragment{val: pv.str, quoted: pv.quoted})
	}
	frames = append(frames, cur)
	return frames
}

// frameToFields is the IFS-splitting half of argv production: quoted
// fragments never split and keep the frame alive even when empty
// (spec: "a frame with at least one quoted empty fragment contributes
// exactly one empty arg"); unquoted fragments split on IFS, with each
// split piece after the first starting a new field.
func (rt *Runtime) frameToFields(fr []fragment) [][]fragment {
	var fields [][]fragment
	var cur []fragment
	allowEmpty := false
	flush := func() {
		if len(cur) == 0 {
			return
		}
		fields = append(fields, cur)
		cur = nil
	}
	for _, f := range fr {
		if f.quoted {
			allowEmpty = true
			cur = append(cur, f)
			continue
		}
		pieces := strings.FieldsFunc(f.val, rt.ifsRune)
		for i, p := range pieces {
			if i > 0 {
				flush()
			}
			cur = append(cur, fragment{val: p})
		}
	}
	flush()
	if allowEmpty && len(fields) == 0 {
		fields = append(fields, cur)
	}
	return fields
}

func joinRaw(f []fragment) string {
	if len(f) == 1 {
		return f[0].val
	}
	var b strings.Builder
	for _, frag := range f {
		b.WriteString(frag.val)
	}
	return b.String()
}

// buildGlobPattern concatenates a field's fragments into glob-pattern
// syntax, escaping metacharacters contributed by quoted fragments so
// that e.g. a variable holding literal "*" doesn't start matching
// files.
func (rt *Runtime) buildGlobPattern(f []fragment) (pat string, hasMeta bool) {
	var b strings.Builder
	for _, frag := range f {
		if frag.quoted {
			b.WriteString(pattern.QuoteMeta(frag.val, 0))
			continue
		}
		b.WriteString(frag.val)
		if pattern.HasMeta(frag.val, 0) {
			hasMeta = true
		}
	}
	return b.String(), hasMeta
}

// fieldToArgs is the glob half of argv production, grounded on
// mvdan.cc/sh/v3's expand/expand.go ExpandFields/escapedGlobField/glob.
func (rt *Runtime) fieldToArgs(f []fragment) []string {
	raw := joinRaw(f)
	if rt.Opts.NoGlob {
		return []string{raw}
	}
	pat, hasMeta := rt.buildGlobPattern(f)
	if !hasMeta {
		return []string{raw}
	}
	dir := rt.PWD
	if dir == "" {
		dir = "."
	}
	abs := filepath.IsAbs(pat)
	full := pat
	if !abs {
		full = filepath.Join(pattern.QuoteMeta(dir, 0), pat)
	}
	g := rt.Glob
	if g == nil {
		g = DefaultGlobber{}
	}
	matches, err := g.Glob(full, rt.Opts.GlobStar)
	if err != nil || len(matches) == 0 {
		return []string{raw}
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if !abs {
			if rel, err := filepath.Rel(dir, m); err == nil {
				m = rel
			}
		}
		out = append(out, m)
	}
	return out
}

// EvalWordSequence is the word evaluator's main entry point: it
// brace-expands each word, then runs the part-value -> frame -> argv
// pipeline, threading the left-most span id of each source word to
// every string it produced.
func (rt *Runtime) EvalWordSequence(words []*ast.Word) (ArgVector, error) {
	rt.invalidateIFS()
	var av ArgVector
	for _, w := range words {
		for _, bw := range ExpandBraces(w) {
			strs, spid, err := rt.evalWordToArgs(bw)
			if err != nil {
				return ArgVector{}, err
			}
			for _, s := range strs {
				av.Strs = append(av.Strs, s)
				av.Spids = append(av.Spids, spid)
			}
		}
	}
	return av, nil
}

func (rt *Runtime) evalWordToArgs(w *ast.Word) ([]string, arena.SpanID, error) {
	spid := w.Span()
	if w.Kind == ast.Empty {
		return nil, spid, nil
	}
	pvs, err := rt.evalPartsFlat(w.Parts, false)
	if err != nil {
		return nil, spid, err
	}
	var out []string
	for _, fr := range assembleFrames(pvs) {
		for _, field := range rt.frameToFields(fr) {
			out = append(out, rt.fieldToArgs(field)...)
		}
	}
	return out, spid, nil
}

// EvalWordToString performs the part-value and operator-pipeline steps only and concatenates,
// used for here-doc delimiters, case patterns, and redirect targets.
// An array part-value is IFS-joined unless Opts.StrictArray is set, in
// which case it is an error.
func (rt *Runtime) EvalWordToString(w *ast.Word) (string, error) {
	if w == nil || w.Kind == ast.Empty {
		return "", nil
	}
	pvs, err := rt.evalPartsFlat(w.Parts, true)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, pv := range pvs {
		if pv.array {
			if rt.Opts.StrictArray {
				return "", &FatalRuntimeError{Kind: "array-as-scalar", Msg: "array used where a string was expected"}
			}
			b.WriteString(strings.Join(pv.elems, rt.decaySep()))
			continue
		}
		b.WriteString(pv.str)
	}
	return b.String(), nil
}

// EvalRhsWord detects the special single-ArrayLiteral shape and
// evaluates it to an Indexed Variable via brace-expand +
// EvalWordSequence per element; any other word evaluates to a scalar
// String variable.
func (rt *Runtime) EvalRhsWord(w *ast.Word) (Variable, error) {
	if w != nil && w.Kind == ast.Compound && len(w.Parts) == 1 {
		if al, ok := w.Parts[0].(*ast.ArrayLiteral); ok {
			elems, err := rt.evalArrayLiteralElems(al)
			if err != nil {
				return Variable{}, err
			}
			return Variable{Kind: Indexed, List: elems}, nil
		}
	}
	s, err := rt.EvalWordToString(w)
	if err != nil {
		return Variable{}, err
	}
	return Variable{Kind: String, Str: s}, nil
}
