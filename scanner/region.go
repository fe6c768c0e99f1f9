// Copyright © 2024 The vuehelper authors

package scanner

import (
	"regexp"

	"github.com/luthersystems/vuehelper/document"
)

var (
	templateOpenRe = regexp.MustCompile(`^\s*<template.*>\s*$`)
	blockOpenRe    = regexp.MustCompile(`^\s*<(script|style).*>\s*$`)
	closeScriptRe  = regexp.MustCompile(`^\s*</script>`)
)

// InTemplateRegion reports whether pos lies in the template part of a
// single-file component. Walking up from the cursor line, the first
// <template> opener means inside and the first <script> or <style> opener
// means outside. A document with neither is treated as all template.
func InTemplateRegion(doc document.Document, pos document.Position) bool {
	for line := pos.Line; line >= 0; line-- {
		text := doc.LineText(line)
		if templateOpenRe.MatchString(text) {
			return true
		}
		if blockOpenRe.MatchString(text) {
			return false
		}
	}
	return true
}

// ScriptRegion returns the line span [start, end) of the first <script>
// block, or ok=false. An unterminated block runs to the end of the
// document.
func ScriptRegion(doc document.Document) (start, end int, ok bool) {
	n := doc.LineCount()
	for line := 0; line < n; line++ {
		if !ok {
			if m := blockOpenRe.FindStringSubmatch(doc.LineText(line)); m != nil && m[1] == "script" {
				start, ok = line+1, true
			}
			continue
		}
		if closeScriptRe.MatchString(doc.LineText(line)) {
			return start, line, true
		}
	}
	return start, n, ok
}

// WordAt returns the run of name characters around pos and its range on the
// cursor line. The cursor may sit inside or just after the word.
func WordAt(doc document.Document, pos document.Position) (string, document.Range, bool) {
	text := doc.LineText(pos.Line)
	at := document.ByteIndex(text, pos.Character)
	start := at
	for start > 0 && isWordByte(text[start-1]) {
		start--
	}
	end := at
	for end < len(text) && isWordByte(text[end]) {
		end++
	}
	if start == end {
		return "", document.Range{}, false
	}
	r := document.Range{
		Start: document.Position{Line: pos.Line, Character: document.Column(text, start)},
		End:   document.Position{Line: pos.Line, Character: document.Column(text, end)},
	}
	return text[start:end], r, true
}

func isWordByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '$':
		return true
	}
	return false
}
