// Copyright © 2024 The vuehelper authors

// Package hover renders knowledge-base documentation for the tag or
// attribute name under the cursor.
package hover

import (
	"fmt"
	"strings"

	"github.com/luthersystems/vuehelper/document"
	"github.com/luthersystems/vuehelper/kb"
	"github.com/luthersystems/vuehelper/scanner"
	"github.com/luthersystems/vuehelper/suggest"
	"github.com/muesli/reflow/wordwrap"
)

// WrapWidth is the column descriptions are wrapped at.
const WrapWidth = 80

// Result is the documentation for one hovered name.
type Result struct {
	Markdown string
	Range    document.Range
}

// At returns documentation for the name at pos, or false when the cursor is
// not on a known tag or attribute name.
func At(base *kb.KnowledgeBase, doc document.Document, pos document.Position) (Result, bool) {
	word, rng, ok := scanner.WordAt(doc, pos)
	if !ok {
		return Result{}, false
	}
	line := doc.LineText(rng.Start.Line)
	start := document.ByteIndex(line, rng.Start.Character)
	before := strings.TrimSuffix(line[:start], "/")
	if strings.HasSuffix(before, "<") {
		md, ok := TagDoc(base, word)
		return Result{Markdown: md, Range: rng}, ok
	}

	tag := scanner.PreTag(doc, rng.End)
	if tag == nil || scanner.PreAttr(doc, rng.End) != "" {
		return Result{}, false
	}
	// drop modifiers such as .sync or .native
	name, _, _ := strings.Cut(word, ".")
	md, ok := AttributeDoc(base, tag.Text, name)
	return Result{Markdown: md, Range: rng}, ok
}

// TagDoc renders documentation for a tag.
func TagDoc(base *kb.KnowledgeBase, name string) (string, bool) {
	t, ok := base.Tag(name)
	if !ok {
		return "", false
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**", t.Name)
	if meta := join(" ", t.Framework, t.Version); meta != "" {
		fmt.Fprintf(&sb, " *%s*", meta)
	}
	if t.Description != "" {
		fmt.Fprintf(&sb, "\n\n%s", wordwrap.String(t.Description, WrapWidth))
	}
	if len(t.Subtags) > 0 {
		fmt.Fprintf(&sb, "\n\nContains: `%s`", strings.Join(t.Subtags, "`, `"))
	}
	if len(t.Attributes) > 0 {
		sb.WriteString("\n\n| Attribute | Type | Values |\n|---|---|---|")
		for _, name := range t.Attributes {
			typ := "-"
			if def, ok := base.Attribute(t.Name, name); ok {
				typ = string(def.Type)
			}
			values := suggest.AttrValues(base, t.Name, name)
			fmt.Fprintf(&sb, "\n| %s | %s | %s |", name, typ, summarize(values))
		}
	}
	return sb.String(), true
}

// AttributeDoc renders documentation for attr as used on tag.
func AttributeDoc(base *kb.KnowledgeBase, tag, attr string) (string, bool) {
	def, ok := base.Attribute(tag, attr)
	if !ok {
		return "", false
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**", def.Name)
	if def.Scoped() {
		fmt.Fprintf(&sb, " on `%s`", def.Tag)
	}
	fmt.Fprintf(&sb, " (%s", def.Type)
	if def.Global {
		sb.WriteString(", global")
		if def.Framework != "" {
			fmt.Fprintf(&sb, " %s", def.Framework)
		}
	}
	sb.WriteString(")")
	if def.Description != "" {
		fmt.Fprintf(&sb, "\n\n%s", wordwrap.String(def.Description, WrapWidth))
	}
	if values := suggest.AttrValues(base, tag, attr); len(values) > 0 {
		fmt.Fprintf(&sb, "\n\nValues: %s", wordwrap.String(quoteAll(values), WrapWidth))
	}
	return sb.String(), true
}

// summarize lists up to four values for a table cell.
func summarize(values []string) string {
	const max = 4
	switch {
	case len(values) == 0:
		return ""
	case len(values) > max:
		return strings.Join(values[:max], ", ") + ", ..."
	default:
		return strings.Join(values, ", ")
	}
}

func quoteAll(values []string) string {
	return "`" + strings.Join(values, "`, `") + "`"
}

func join(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
