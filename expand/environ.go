// Copyright (c) 2018, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package expand implements the word evaluator. It turns a parsed
// ast.Word into the (strs, spids) arg-vector contract that is the
// evaluator's single output, threading a part-value -> frame -> argv
// pipeline. It is grounded on mvdan.cc/sh/v3's expand package
// (Environ/Variable, Context.wordField/wordFields, ExpandFields),
// rebuilt against a closed runtime-value set {Undef, Str, StrArray,
// AssocArray} and against ast's own word/part sum types instead of
// syntax's.
package expand

import (
	"cmp"
	"slices"

	"shfront/arena"
)

// ValueKind is the closed set of runtime value shapes:
// {Undef, Str, StrArray, AssocArray}. KeepValue is not a value shape on
// its own; it is a sentinel WriteEnviron.Set uses to change a
// variable's attributes (export, readonly, ...) without touching its
// value, mirroring mvdan.cc/sh/v3's overloaded Set contract.
type ValueKind int

const (
	Unset ValueKind = iota
	KeepValue
	String
	Indexed
	Associative
)

// Variable is the runtime shape of one shell variable. Only one of
// Str/List/Map is meaningful, selected by Kind.
type Variable struct {
	Local    bool
	Exported bool
	ReadOnly bool
	NameRef  bool
	Kind     ValueKind

	Str string
	List []string
	Map  map[string]string
}

// IsSet reports whether the variable has ever been assigned.
func (v Variable) IsSet() bool { return v.Kind != Unset }

// String renders v as the scalar a bare $name or "$name" sees it:
// Indexed decays to element 0, Associative
// decays to its "0" key, matching bash.
func (v Variable) String() string {
	switch v.Kind {
	case String:
		return v.Str
	case Indexed:
		if len(v.List) == 0 {
			return ""
		}
		return v.List[0]
	case Associative:
		return v.Map["0"]
	default:
		return ""
	}
}

// Environ is the read-only variable-lookup collaborator the evaluator consumes.
type Environ interface {
	// Get retrieves a variable by name. An unset variable has
	// Kind == Unset, not a nil/zero Variable comparison.
	Get(name string) Variable
	// Each iterates every currently-set variable; iteration stops
	// early if f returns false. Exported variables must be included.
	Each(f func(name string, vr Variable) bool)
}

// WriteEnviron extends Environ with mutation, used by Assignment
// execution (outside this package's scope, but the interface is owned
// here since it is the dual of Environ.Get).
type WriteEnviron interface {
	Environ
	Set(name string, vr Variable) error
}

// mapEnviron is a simple in-memory Environ/WriteEnviron, used by tests
// and by callers that don't need a live process environment.
type mapEnviron struct {
	names map[string]Variable
}

// ListEnviron builds a WriteEnviron from NAME=value pairs, such as
// those returned by os.Environ(). Later duplicates win.
func ListEnviron(pairs ...string) WriteEnviron {
	m := &mapEnviron{names: make(map[string]Variable, len(pairs))}
	for _, pair := range pairs {
		name, value, ok := cutEquals(pair)
		if !ok {
			continue
		}
		m.names[name] = Variable{Kind: String, Str: value, Exported: true}
	}
	return m
}

func cutEquals(s string) (name, value string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

func (m *mapEnviron) Get(name string) Variable {
	if vr, ok := m.names[name]; ok {
		return vr
	}
	return Variable{}
}

func (m *mapEnviron) Each(f func(name string, vr Variable) bool) {
	names := make([]string, 0, len(m.names))
	for name := range m.names {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int { return cmp.Compare(a, b) })
	for _, name := range names {
		if !f(name, m.names[name]) {
			return
		}
	}
}

func (m *mapEnviron) Set(name string, vr Variable) error {
	if vr.Kind == KeepValue {
		old := m.names[name]
		old.Exported, old.ReadOnly, old.Local = vr.Exported, vr.ReadOnly, vr.Local
		m.names[name] = old
		return nil
	}
	if vr.Kind == Unset {
		delete(m.names, name)
		return nil
	}
	m.names[name] = vr
	return nil
}

// ArgVector is the single output contract from the word evaluator to
// the executor: |Strs| == |Spids| always.
type ArgVector struct {
	Strs  []string
	Spids []arena.SpanID
}
