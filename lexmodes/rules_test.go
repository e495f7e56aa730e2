// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package lexmodes

import (
	"testing"

	"shfront/token"
)

func TestTableMatchPicksLongest(t *testing.T) {
	id, end, ok := ShCommandTable.Match("&>>foo", 0)
	if !ok {
		t.Fatal("expected a match")
	}
	if id != token.AppAll {
		t.Errorf("id = %v, want AppAll", id)
	}
	if end != 3 {
		t.Errorf("end = %d, want 3", end)
	}
}

func TestTableMatchShorterPrefixLosesToLonger(t *testing.T) {
	// "&" is a valid rule on its own but "&&" must win when present.
	id, end, ok := ShCommandTable.Match("&& foo", 0)
	if !ok || id != token.AndAnd || end != 2 {
		t.Fatalf("Match(\"&& foo\", 0) = (%v, %d, %v), want (AndAnd, 2, true)", id, end, ok)
	}
}

func TestTableMatchNoRuleMatches(t *testing.T) {
	_, _, ok := ShCommandTable.Match("foo", 0)
	if ok {
		t.Fatal("expected no match for a plain word")
	}
}

func TestTableMatchAtOffset(t *testing.T) {
	id, end, ok := ShCommandTable.Match("echo;;", 4)
	if !ok {
		t.Fatal("expected a match at offset 4")
	}
	if id != token.DSemi {
		t.Errorf("id = %v, want DSemi (;;)", id)
	}
	if end != 6 {
		t.Errorf("end = %d, want 6", end)
	}
}

func TestParamOpTableDisambiguatesSlash(t *testing.T) {
	id, end, ok := ParamOpTable.Match("//old/new}", 0)
	if !ok || id != token.VSlash || end != 1 {
		t.Fatalf("Match(\"//...\") = (%v, %d, %v), want (VSlash, 1, true)", id, end, ok)
	}
}

func TestArithTableShiftVsCompare(t *testing.T) {
	id, end, ok := ArithTable.Match("<<=1", 0)
	if !ok || id != token.AShlAssign || end != 3 {
		t.Fatalf("Match(\"<<=1\") = (%v, %d, %v), want (AShlAssign, 3, true)", id, end, ok)
	}
	id, end, ok = ArithTable.Match("<=1", 0)
	if !ok || id != token.ALeq || end != 2 {
		t.Fatalf("Match(\"<=1\") = (%v, %d, %v), want (ALeq, 2, true)", id, end, ok)
	}
}

func TestTestUnaryAndBinaryWordTables(t *testing.T) {
	if got, ok := TestUnaryWords["-f"]; !ok || got != token.TRegFile {
		t.Errorf("TestUnaryWords[-f] = (%v, %v), want (TRegFile, true)", got, ok)
	}
	if got, ok := TestBinaryWords["-eq"]; !ok || got != token.TEq {
		t.Errorf("TestBinaryWords[-eq] = (%v, %v), want (TEq, true)", got, ok)
	}
}

func TestExtGlobPrefixes(t *testing.T) {
	for prefix, want := range map[string]token.ID{
		"?(": token.GlobQuest, "*(": token.GlobStar, "+(": token.GlobPlus,
		"@(": token.GlobAt, "!(": token.GlobNot,
	} {
		if got, ok := ExtGlobPrefixes[prefix]; !ok || got != want {
			t.Errorf("ExtGlobPrefixes[%q] = (%v, %v), want (%v, true)", prefix, got, ok, want)
		}
	}
}
