// Copyright © 2024 The vuehelper authors

// Package diagnostic renders annotated error reports for the vuehelper CLI:
// knowledge-base files that fail to load and cursor positions that fall
// outside a document. It does not depend on the completion packages.
package diagnostic

import (
	"regexp"
	"strconv"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of a file to highlight.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = auto-detect from source)
	Label  string // text shown under the underline
}

// Diagnostic is a single error, warning, or note with optional source
// annotations and trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string
}

var lineRe = regexp.MustCompile(`\bline (\d+)`)

// FromError builds an error diagnostic for a failure while reading file.
// When the message names a line, as YAML decoding errors do, the
// diagnostic points at it.
func FromError(err error, file string) Diagnostic {
	d := Diagnostic{Severity: SeverityError, Message: err.Error()}
	span := Span{File: file}
	if m := lineRe.FindStringSubmatch(d.Message); m != nil {
		span.Line, _ = strconv.Atoi(m[1])
		span.Col = 1
	}
	if file != "" {
		d.Spans = append(d.Spans, span)
	}
	return d
}
