// Copyright © 2024 The vuehelper authors

// Package document defines the read-only view of a source buffer that the
// completion engine scans, along with an in-memory implementation.
//
// Positions follow the Language Server Protocol convention: lines are
// zero-based and characters count UTF-16 code units.
package document

import (
	"strings"
	"unicode/utf8"
)

// Position is a zero-based location in a document.
type Position struct {
	Line      int
	Character int
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position
	End   Position
}

// Document is the accessor contract the scanner and resolver depend on.
type Document interface {
	// LineText returns the text of a line without its terminator. Lines
	// outside the document are empty.
	LineText(line int) string
	// TextInRange returns the text between two positions, clamped to the
	// document.
	TextInRange(r Range) string
	// OffsetAt returns the absolute offset of pos in UTF-16 code units.
	OffsetAt(pos Position) int
	// LanguageID identifies the markup dialect, e.g. "vue" or "html".
	LanguageID() string
	// LineCount is the number of lines in the document.
	LineCount() int
}

// Buffer is an immutable in-memory Document.
type Buffer struct {
	languageID string
	content    string
	lineStarts []int
}

var _ Document = (*Buffer)(nil)

// New returns a Buffer holding content.
func New(languageID, content string) *Buffer {
	b := &Buffer{
		languageID: languageID,
		content:    content,
		lineStarts: []int{0},
	}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			b.lineStarts = append(b.lineStarts, i+1)
		}
	}
	return b
}

// Content returns the full text of the buffer.
func (b *Buffer) Content() string { return b.content }

func (b *Buffer) LanguageID() string { return b.languageID }

func (b *Buffer) LineCount() int { return len(b.lineStarts) }

func (b *Buffer) LineText(line int) string {
	if line < 0 || line >= len(b.lineStarts) {
		return ""
	}
	start := b.lineStarts[line]
	end := len(b.content)
	if line+1 < len(b.lineStarts) {
		end = b.lineStarts[line+1] - 1
	}
	return strings.TrimSuffix(b.content[start:end], "\r")
}

func (b *Buffer) TextInRange(r Range) string {
	start := b.byteOffset(r.Start)
	end := b.byteOffset(r.End)
	if end < start {
		return ""
	}
	return b.content[start:end]
}

func (b *Buffer) OffsetAt(pos Position) int {
	pos = b.clamp(pos)
	start := b.lineStarts[pos.Line]
	return UTF16Len(b.content[:start]) + pos.Character
}

// clamp limits pos to an existing line and to that line's length.
func (b *Buffer) clamp(pos Position) Position {
	if pos.Line < 0 {
		return Position{}
	}
	if pos.Line >= len(b.lineStarts) {
		last := len(b.lineStarts) - 1
		return Position{Line: last, Character: UTF16Len(b.LineText(last))}
	}
	if pos.Character < 0 {
		pos.Character = 0
	}
	if n := UTF16Len(b.LineText(pos.Line)); pos.Character > n {
		pos.Character = n
	}
	return pos
}

func (b *Buffer) byteOffset(pos Position) int {
	pos = b.clamp(pos)
	line := b.LineText(pos.Line)
	return b.lineStarts[pos.Line] + ByteIndex(line, pos.Character)
}

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

// runeUnits is the number of UTF-16 code units needed to encode r.
func runeUnits(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

// ByteIndex converts a UTF-16 column within s to a byte index, clamping to
// len(s).
func ByteIndex(s string, col int) int {
	units := 0
	for i, r := range s {
		if units >= col {
			return i
		}
		units += runeUnits(r)
	}
	return len(s)
}

// Column converts a byte index within s to a UTF-16 column.
func Column(s string, byteIdx int) int {
	if byteIdx > len(s) {
		byteIdx = len(s)
	}
	for byteIdx > 0 && byteIdx < len(s) && !utf8.RuneStart(s[byteIdx]) {
		byteIdx--
	}
	return UTF16Len(s[:byteIdx])
}

// TextBefore returns the text of the cursor line up to pos.
func TextBefore(doc Document, pos Position) string {
	return doc.TextInRange(Range{Start: Position{Line: pos.Line}, End: pos})
}
