// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package arena

import (
	"strings"
	"testing"
)

func readAll(t *testing.T, a *Arena, r LineReader) []Line {
	t.Helper()
	var lines []Line
	for {
		ln, ok := r.ReadLine(a)
		if !ok {
			return lines
		}
		lines = append(lines, ln)
	}
}

func TestStringReaderSplitsOnNewline(t *testing.T) {
	a := New("t.sh")
	r := NewStringReader("foo\nbar\nbaz")
	lines := readAll(t, a, r)
	want := []string{"foo", "bar", "baz"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i, w := range want {
		if lines[i].Text != w {
			t.Errorf("line %d = %q, want %q", i, lines[i].Text, w)
		}
		if a.GetLine(lines[i].ID) != w {
			t.Errorf("interned line %d = %q, want %q", i, a.GetLine(lines[i].ID), w)
		}
	}
	if lines[1].Offset != 4 {
		t.Errorf("line 1 offset = %d, want 4", lines[1].Offset)
	}
}

func TestStringReaderEmptyInput(t *testing.T) {
	a := New("t.sh")
	r := NewStringReader("")
	if lines := readAll(t, a, r); len(lines) != 0 {
		t.Fatalf("got %d lines from empty input, want 0", len(lines))
	}
}

func TestStringReaderTrailingNewlineNoEmptyExtraLine(t *testing.T) {
	a := New("t.sh")
	r := NewStringReader("foo\n")
	lines := readAll(t, a, r)
	if len(lines) != 1 || lines[0].Text != "foo" {
		t.Fatalf("got %v, want a single line \"foo\"", lines)
	}
}

func TestFileReaderMatchesStringReader(t *testing.T) {
	a := New("t.sh")
	r := NewFileReader(strings.NewReader("foo\nbar\n"))
	lines := readAll(t, a, r)
	want := []string{"foo", "bar"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i, w := range want {
		if lines[i].Text != w {
			t.Errorf("line %d = %q, want %q", i, lines[i].Text, w)
		}
	}
}

func TestFileReaderNoTrailingNewline(t *testing.T) {
	a := New("t.sh")
	r := NewFileReader(strings.NewReader("onlyline"))
	lines := readAll(t, a, r)
	if len(lines) != 1 || lines[0].Text != "onlyline" {
		t.Fatalf("got %v, want a single line \"onlyline\"", lines)
	}
}

func TestVirtualReaderReplaysGivenLines(t *testing.T) {
	a := New("heredoc")
	r := NewVirtualReader([]VirtualLine{
		{Text: "hello", Offset: 10},
		{Text: "world", Offset: 16},
	})
	lines := readAll(t, a, r)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Text != "hello" || lines[0].Offset != 10 {
		t.Errorf("line 0 = %+v", lines[0])
	}
	if lines[1].Text != "world" || lines[1].Offset != 16 {
		t.Errorf("line 1 = %+v", lines[1])
	}
}

func TestInteractiveReaderStopsWhenPromptReturnsFalse(t *testing.T) {
	a := New("-i")
	calls := 0
	prompts := []bool{}
	r := NewInteractiveReader(func(cont bool) (string, bool) {
		prompts = append(prompts, cont)
		calls++
		switch calls {
		case 1:
			return "echo a \\", true
		case 2:
			return "hello", true
		default:
			return "", false
		}
	})
	lines := readAll(t, a, r)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Text != `echo a \` || lines[1].Text != "hello" {
		t.Fatalf("got %v", lines)
	}
	if prompts[0] != false {
		t.Errorf("first prompt should report cont=false (PS1), got true")
	}
	if prompts[1] != true {
		t.Errorf("second prompt should report cont=true (PS2), got false")
	}
}
