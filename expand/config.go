// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package expand

import (
	"strings"

	"shfront/ast"
)

// ArithmEvaluator resolves an arithmetic expression to an int, used to
// settle `${a[i]}` indices and `${s:off:len}` slice bounds. A full
// `(( ))`/`[[ ]]` arithmetic engine lives outside this module, but word
// evaluation needs *some* implementation to make progress on these;
// DefaultArithm (arith.go) is a minimal one, wrapped behind this interface
// so a caller may substitute a fuller evaluator (the real `(( ))`/
// `[[ ]]` arithmetic engine, also out of scope) without touching this
// package.
type ArithmEvaluator interface {
	Eval(rt *Runtime, expr ast.ArithmExpr) (int, error)
}

// CommandSubExecutor runs the statement list inside a $(...) or `...`
// substitution and returns its captured, trailing-newline-trimmed
// stdout. The real execution engine lives outside this module; this is
// the seam word evaluation calls through.
type CommandSubExecutor interface {
	Run(rt *Runtime, stmts []*ast.Stmt) (string, error)
}

// Globber expands one already-pattern-escaped path against the
// filesystem, honoring bash's "**" globstar extension when starEnabled.
// DefaultGlobber (glob.go) walks the real filesystem, grounded on
// mvdan.cc/sh/v3's expand/expand.go glob()/globDir(); a caller may
// substitute its own Globber.
type Globber interface {
	Glob(pat string, starEnabled bool) ([]string, error)
}

// Options mirrors the handful of shell options the evaluator's
// behavior actually branches on.
type Options struct {
	NoGlob         bool // set -f
	GlobStar       bool // shopt -s globstar
	NoUnset        bool // set -u: unset variable under expansion is fatal
	StrictWordEval bool // invalid UTF-8 under the length operator is fatal, not a warning
	StrictArray    bool // EvalWordToString errors instead of IFS-joining an array
}

// Runtime is the runtime context word evaluation needs: variable
// memory, exec options, and the external collaborators (arithmetic,
// command substitution, globbing) evaluation calls through. It is
// *not* goroutine-safe; the pipeline is single-threaded throughout.
type Runtime struct {
	Env  Environ
	Opts Options

	Arithm ArithmEvaluator
	CmdSub CommandSubExecutor
	Glob   Globber

	// PWD is consulted to make glob matches relative, as bash does.
	PWD string
	// PosParams backs $1, $2, ... and "$@"/"$*".
	PosParams []string
	// OnWarning receives downgraded warnings. A nil func drops
	// them silently.
	OnWarning func(error)

	ifsCache    string
	ifsComputed bool
}

// NewRuntime builds a Runtime with reasonable defaults
// (DefaultArithm, DefaultGlobber) wired in; callers that need the real
// arithmetic/exec engines overwrite Arithm/CmdSub after construction.
func NewRuntime(env Environ) *Runtime {
	return &Runtime{
		Env:    env,
		Arithm: DefaultArithm{},
		Glob:   DefaultGlobber{},
	}
}

func (rt *Runtime) warn(err error) {
	if rt.OnWarning != nil {
		rt.OnWarning(err)
	}
}

// ifs returns the active field separator, defaulting to " \t\n" when
// IFS is unset.
func (rt *Runtime) ifs() string {
	if rt.ifsComputed {
		return rt.ifsCache
	}
	rt.ifsComputed = true
	vr := rt.Env.Get("IFS")
	if !vr.IsSet() {
		rt.ifsCache = " \t\n"
	} else {
		rt.ifsCache = vr.String()
	}
	return rt.ifsCache
}

// invalidateIFS must be called whenever IFS may have changed underfoot
// (e.g. between two top-level EvalWordSequence calls sharing a Runtime).
func (rt *Runtime) invalidateIFS() { rt.ifsComputed = false }

func (rt *Runtime) ifsRune(r rune) bool {
	return strings.ContainsRune(rt.ifs(), r)
}

// decaySep is the separator an array decays to a scalar with: the
// first character of IFS (a space, by default, since unset IFS reads
// as " \t\n"), or "" when IFS is explicitly set to the empty string
// (spec glossary "Decay").
func (rt *Runtime) decaySep() string {
	ifs := rt.ifs()
	if ifs == "" {
		return ""
	}
	return ifs[:1]
}
