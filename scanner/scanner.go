// Copyright © 2024 The vuehelper authors

// Package scanner classifies the cursor position in markup by scanning the
// text before it. It never parses the document; every decision comes from a
// handful of regular expressions applied to at most LookbackLines lines.
package scanner

import (
	"regexp"
	"strings"

	"github.com/luthersystems/vuehelper/document"
)

// LookbackLines bounds how many lines, the cursor line included, are
// examined when looking for the enclosing tag opener.
const LookbackLines = 10

// Kind is the syntactic context at the cursor.
type Kind int

const (
	None Kind = iota
	Tag
	Attribute
	AttributeValue
)

func (k Kind) String() string {
	switch k {
	case Tag:
		return "tag"
	case Attribute:
		return "attribute"
	case AttributeValue:
		return "attribute-value"
	default:
		return "none"
	}
}

// TagMatch is an enclosing tag opener found by PreTag.
type TagMatch struct {
	Text   string
	Offset int // absolute offset of the '<', in UTF-16 code units
}

// Context is the classification of one cursor position.
type Context struct {
	Kind       Kind
	Tag        *TagMatch // Attribute and AttributeValue
	Attribute  string    // AttributeValue
	Prefix     string    // Tag: the partial name typed after '<'
	TextBefore string    // the cursor line up to the cursor
}

var (
	tagOpenRe = regexp.MustCompile(`<([\w-]+)\s+`)
	// closedTagRe matches a line that ends past a complete tag, leaving the
	// cursor in text content or at the start of a new tag.
	closedTagRe = regexp.MustCompile(`</?[-\w]+[^<>]*>[\s\w]*<?\s*[\w-]*$`)
	// continuationCloseRe matches the tail of a multi-line opener that was
	// closed on the cursor line.
	continuationCloseRe = regexp.MustCompile(`^\s*[^<]+\s*>[^</>]*$`)
	tagStartRe          = regexp.MustCompile(`<([\w-]*)$`)
	openValueRe         = regexp.MustCompile(`"[^'"]*\s*[^'"]*$`)
	attrRe              = regexp.MustCompile(`(?:\(|\s*)((\w-?)*)=['"][^'"]*`)
	closedValueRe       = regexp.MustCompile(`"[^"]*"`)
)

// Classify determines the context at pos. Priority is attribute value,
// then attribute, then tag name.
func Classify(doc document.Document, pos document.Position) Context {
	ctx := Context{TextBefore: document.TextBefore(doc, pos)}
	tag := PreTag(doc, pos)
	attr := PreAttr(doc, pos)
	switch {
	case tag != nil && attr != "":
		ctx.Kind = AttributeValue
		ctx.Tag = tag
		ctx.Attribute = attr
	case tag != nil:
		ctx.Kind = Attribute
		ctx.Tag = tag
	default:
		if prefix, ok := TagStart(ctx.TextBefore); ok {
			ctx.Kind = Tag
			ctx.Prefix = prefix
		}
	}
	return ctx
}

// PreTag finds the tag opener enclosing the cursor, or nil. It stops early
// when a line shows the cursor has left any tag.
func PreTag(doc document.Document, pos document.Position) *TagMatch {
	for line := pos.Line; pos.Line-line < LookbackLines && line >= 0; line-- {
		cursorLine := line == pos.Line
		var text string
		if cursorLine {
			text = document.TextBefore(doc, pos)
		} else {
			text = doc.LineText(line)
		}
		match, stop := matchTag(text, cursorLine)
		if stop {
			return nil
		}
		if match != nil {
			match.Offset = doc.OffsetAt(document.Position{Line: line, Character: document.Column(text, match.Offset)})
			return match
		}
	}
	return nil
}

// matchTag inspects one line. Offset in the result is a byte index within
// text.
func matchTag(text string, cursorLine bool) (*TagMatch, bool) {
	if closedTagRe.MatchString(text) {
		return nil, true
	}
	if cursorLine && (continuationCloseRe.MatchString(text) || endsWithOpenBracket(text)) {
		return nil, true
	}
	all := tagOpenRe.FindAllStringSubmatchIndex(text, -1)
	if len(all) == 0 {
		return nil, false
	}
	last := all[len(all)-1]
	return &TagMatch{Text: text[last[2]:last[3]], Offset: last[0]}, false
}

func endsWithOpenBracket(text string) bool {
	return len(text) > 0 && text[len(text)-1] == '<'
}

// PreAttr returns the name of the attribute whose value the cursor is in,
// or "".
func PreAttr(doc document.Document, pos document.Position) string {
	before := document.TextBefore(doc, pos)
	stripped := openValueRe.ReplaceAllString(before, "")
	start := strings.LastIndexByte(stripped, ' ') + 1
	return matchAttr(before[start:])
}

func matchAttr(window string) string {
	if closedValueRe.MatchString(window) {
		return ""
	}
	m := attrRe.FindStringSubmatch(window)
	if m == nil {
		return ""
	}
	return m[1]
}

// TagStart reports whether textBefore ends in a tag name being typed and
// returns the partial name.
func TagStart(textBefore string) (string, bool) {
	m := tagStartRe.FindStringSubmatch(textBefore)
	if m == nil {
		return "", false
	}
	return m[1], true
}
