// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package arena

import (
	"bufio"
	"io"
)

// Line is one (line_id, text, offset) triple a LineReader yields.
// Offset is the byte offset of this line's first byte
// within whatever the reader considers its origin document; virtual
// readers (here-docs, alias bodies) set it relative to the replayed
// list rather than the outer file.
type Line struct {
	ID     LineID
	Text   string
	Offset int
}

// LineReader yields successive lines of shell source. Exactly one
// concrete type backs each of four sources: interactive, file,
// string, and virtual (a pre-collected replay list
// used for here-doc bodies and alias expansion bodies).
type LineReader interface {
	// ReadLine returns the next line, or ok == false at end of input.
	// It interns the line into the given arena as it reads it.
	ReadLine(a *Arena) (Line, bool)
}

// stringReader serves lines split out of an in-memory string, splitting
// eagerly is avoided: it scans for '\n' on demand so that a later
// PushSource during alias expansion doesn't need to re-tokenize
// anything already read.
type stringReader struct {
	src    string
	pos    int
	offset int
}

// NewStringReader returns a LineReader over src, used for parsing a
// whole script or command string in one shot.
func NewStringReader(src string) LineReader {
	return &stringReader{src: src}
}

func (r *stringReader) ReadLine(a *Arena) (Line, bool) {
	if r.pos >= len(r.src) {
		return Line{}, false
	}
	start := r.pos
	i := indexByte(r.src[start:], '\n')
	var text string
	if i < 0 {
		text = r.src[start:]
		r.pos = len(r.src)
	} else {
		text = r.src[start : start+i]
		r.pos = start + i + 1
	}
	id := a.AddLine(text)
	ln := Line{ID: id, Text: text, Offset: r.offset}
	r.offset += len(text) + 1
	return ln, true
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// fileReader serves lines out of a buffered io.Reader (a file, stdin
// piped non-interactively, etc).
type fileReader struct {
	br     *bufio.Reader
	offset int
}

// NewFileReader returns a LineReader over r, used for parsing a script
// file without reading it fully into memory first.
func NewFileReader(r io.Reader) LineReader {
	return &fileReader{br: bufio.NewReader(r)}
}

func (r *fileReader) ReadLine(a *Arena) (Line, bool) {
	raw, err := r.br.ReadString('\n')
	if raw == "" && err != nil {
		return Line{}, false
	}
	text := raw
	if n := len(text); n > 0 && text[n-1] == '\n' {
		text = text[:n-1]
	}
	id := a.AddLine(text)
	ln := Line{ID: id, Text: text, Offset: r.offset}
	r.offset += len(raw)
	return ln, true
}

// VirtualLine is one pre-collected line handed to a VirtualReader; used
// to replay here-doc bodies (already consumed by the outer reader while
// scheduling) and alias expansion buffers that must be re-lexed from
// scratch with a fresh parser instance sharing the same arena.
type VirtualLine struct {
	Text   string
	Offset int
}

// virtualReader replays a fixed list of lines, interning each as it is
// first visited. It never blocks and never asks an outer source for
// more input once the list is exhausted.
type virtualReader struct {
	lines []VirtualLine
	pos   int
}

// NewVirtualReader returns a LineReader that replays lines, used for
// here-doc bodies and re-lexed alias expansion buffers.
func NewVirtualReader(lines []VirtualLine) LineReader {
	return &virtualReader{lines: lines}
}

func (r *virtualReader) ReadLine(a *Arena) (Line, bool) {
	if r.pos >= len(r.lines) {
		return Line{}, false
	}
	vl := r.lines[r.pos]
	r.pos++
	id := a.AddLine(vl.Text)
	return Line{ID: id, Text: vl.Text, Offset: vl.Offset}, true
}

// interactiveReader serves lines from a callback that prompts and reads
// one line at a time; the caller decides whether that blocks.
type interactiveReader struct {
	prompt func(cont bool) (string, bool)
	first  bool
	offset int
}

// NewInteractiveReader returns a LineReader that calls prompt for every
// line; prompt receives whether this is a continuation line (so the
// caller can print PS1 vs PS2) and returns (text, ok).
func NewInteractiveReader(prompt func(cont bool) (string, bool)) LineReader {
	return &interactiveReader{prompt: prompt, first: true}
}

func (r *interactiveReader) ReadLine(a *Arena) (Line, bool) {
	text, ok := r.prompt(!r.first)
	r.first = false
	if !ok {
		return Line{}, false
	}
	id := a.AddLine(text)
	ln := Line{ID: id, Text: text, Offset: r.offset}
	r.offset += len(text) + 1
	return ln, true
}
