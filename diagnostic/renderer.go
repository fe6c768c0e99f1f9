// Copyright © 2024 The vuehelper authors

package diagnostic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// Renderer formats diagnostics as annotated source snippets:
//
//	error: unknown tag "el-buton"
//	  --> App.vue:3:5
//	   |
//	 3 |  <el-buton>
//	   |   ^^^^^^^^ not in the knowledge base
//	   |
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// Fs reads source files. If nil, the OS filesystem is used.
	Fs afero.Fs
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	ew.printf("%s%s%s%s: %s%s%s\n",
		p.severity(d.Severity), p.bold, d.Severity, p.reset,
		p.bold, d.Message, p.reset)
	for _, span := range d.Spans {
		r.writeSpan(ew, span, p)
	}
	for _, note := range d.Notes {
		ew.printf("   %s=%s note: %s\n", p.boldCyan, p.reset, note)
	}

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// errWriter keeps the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (r *Renderer) writeSpan(ew *errWriter, span Span, p palette) {
	loc := span.File
	if span.Line > 0 {
		loc = fmt.Sprintf("%s:%d", span.File, span.Line)
		if span.Col > 0 {
			loc = fmt.Sprintf("%s:%d:%d", span.File, span.Line, span.Col)
		}
	}
	ew.printf("  %s-->%s %s\n", p.boldBlue, p.reset, loc)

	source, ok := r.sourceLine(span.File, span.Line)
	if !ok {
		ew.printf("   %s|%s\n", p.boldBlue, p.reset)
		return
	}

	num := fmt.Sprintf("%d", span.Line)
	pad := strings.Repeat(" ", len(num))
	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
	ew.printf(" %s%s |%s  %s\n", p.boldBlue, num, p.reset, strings.ReplaceAll(source, "\t", "    "))

	col := span.Col
	if col <= 0 {
		col = 1
	}
	endCol := span.EndCol
	if endCol <= 0 {
		endCol = detectEndCol(source, col)
	}
	if endCol < col {
		endCol = col
	}
	prefix := ""
	if col-1 <= len(source) {
		prefix = source[:col-1]
	}
	ew.printf(" %s%s |%s  %s%s%s%s", p.boldBlue, pad, p.reset,
		strings.Repeat(" ", displayWidth(prefix)),
		p.boldRed, strings.Repeat("^", endCol-col+1), p.reset)
	if span.Label != "" {
		ew.printf(" %s%s%s", p.boldRed, span.Label, p.reset)
	}
	ew.printf("\n %s%s |%s\n", p.boldBlue, pad, p.reset)
}

// sourceLine returns the 1-based line of file. A blank line counts as
// missing.
func (r *Renderer) sourceLine(file string, line int) (string, bool) {
	if line <= 0 || file == "" {
		return "", false
	}
	fs := r.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fs, file)
	if err != nil {
		return "", false
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for i := 1; sc.Scan(); i++ {
		if i == line {
			text := sc.Text()
			return text, strings.TrimSpace(text) != ""
		}
	}
	return "", false
}

// detectEndCol returns the last column of the markup token starting at col.
func detectEndCol(source string, col int) int {
	if col > len(source) {
		return col
	}
	end := col - 1
	for end < len(source) {
		ch, size := utf8.DecodeRuneInString(source[end:])
		if strings.ContainsRune(" \t<>=\"'/", ch) {
			break
		}
		end += size
	}
	if end == col-1 {
		return col
	}
	return end
}

// displayWidth returns the display width of s with tabs expanded to 4.
func displayWidth(s string) int {
	w := 0
	for _, ch := range s {
		if ch == '\t' {
			w += 4
		} else {
			w++
		}
	}
	return w
}

func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
