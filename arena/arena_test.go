// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package arena

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestLineAndSpanRoundTrip(t *testing.T) {
	t.Parallel()
	a := New("input.sh")
	l0 := a.AddLine("echo hello")
	l1 := a.AddLine("echo world")

	qt.Assert(t, a.GetLine(l0), qt.Equals, "echo hello")
	qt.Assert(t, a.GetLine(l1), qt.Equals, "echo world")

	sp := a.AddSpan(l1, 5, 5)
	qt.Assert(t, a.Slice(sp), qt.Equals, "world")

	pos := a.GetSpan(sp)
	qt.Assert(t, pos, qt.DeepEquals, Position{
		Line: 2, Col: 6, Length: 5, Origin: OriginMain, Name: "input.sh",
	})
}

func TestSentinelSpanIsZeroPosition(t *testing.T) {
	t.Parallel()
	a := New("input.sh")
	a.AddLine("x")

	qt.Assert(t, a.Slice(SentinelSpan), qt.Equals, "")
	qt.Assert(t, a.GetSpan(SentinelSpan), qt.DeepEquals, Position{})
	qt.Assert(t, a.SameLine(SentinelSpan, SentinelSpan), qt.IsFalse)
}

func TestSameLine(t *testing.T) {
	t.Parallel()
	a := New("input.sh")
	l0 := a.AddLine("foo bar")
	l1 := a.AddLine("baz")

	spFoo := a.AddSpan(l0, 0, 3)
	spBar := a.AddSpan(l0, 4, 3)
	spBaz := a.AddSpan(l1, 0, 3)

	qt.Assert(t, a.SameLine(spFoo, spBar), qt.IsTrue)
	qt.Assert(t, a.SameLine(spFoo, spBaz), qt.IsFalse)
}

func TestPushPopSourceNesting(t *testing.T) {
	t.Parallel()
	a := New("input.sh")
	qt.Assert(t, a.Depth(), qt.Equals, 1)

	l0 := a.AddLine("main line")
	tok := a.PushSource(OriginAlias, "ll")
	qt.Assert(t, a.Depth(), qt.Equals, 2)

	l1 := a.AddLine("ls -la")
	sp := a.AddSpan(l1, 0, 2)
	pos := a.GetSpan(sp)
	qt.Assert(t, pos.Origin, qt.Equals, OriginAlias)
	qt.Assert(t, pos.Name, qt.Equals, "ll")

	a.PopSource(tok)
	qt.Assert(t, a.Depth(), qt.Equals, 1)

	// The main-frame line interned before the nested push still reports
	// OriginMain, unaffected by the alias frame that came and went.
	mainSp := a.AddSpan(l0, 0, 4)
	qt.Assert(t, a.GetSpan(mainSp).Origin, qt.Equals, OriginMain)
}

func TestPopSourceMismatchPanics(t *testing.T) {
	t.Parallel()
	a := New("input.sh")
	a.PushSource(OriginHereDoc, "")
	qt.Assert(t, func() { a.PopSource(0) }, qt.PanicMatches, `arena: PopSource\(0\) does not match current depth 1`)
}

func TestOriginString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		o    Origin
		want string
	}{
		{OriginMain, "main"},
		{OriginAlias, "alias"},
		{OriginHereDoc, "here-doc"},
		{OriginLValueRelex, "lvalue-relex"},
	}
	for _, tc := range tests {
		qt.Assert(t, tc.o.String(), qt.Equals, tc.want)
	}
}
