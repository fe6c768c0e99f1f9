// Copyright © 2024 The vuehelper authors

// Package snippet expands a component tag into an insertable snippet
// template. The root tag receives a tab stop for each of its default
// attributes and every subtag is nested below it, depth first, in declared
// order.
package snippet

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/vuehelper/config"
	"github.com/luthersystems/vuehelper/formatter"
	"github.com/luthersystems/vuehelper/kb"
)

// TagSource resolves tag definitions by name. *kb.KnowledgeBase implements
// it.
type TagSource interface {
	Tag(name string) (*kb.TagDefinition, bool)
}

var _ TagSource = (*kb.KnowledgeBase)(nil)

// Build returns the snippet template for the tag name, pretty-printed with
// req.IndentSize and quoted with req.Quote.
func Build(name string, tags TagSource, req config.Request) (string, error) {
	flat, err := Flat(name, tags, req)
	if err != nil {
		return "", err
	}
	out, err := formatter.FormatString(flat, formatter.WithIndent(req.IndentSize))
	if err != nil {
		return "", errors.Wrapf(err, "formatting snippet for %q", name)
	}
	return out, nil
}

// Flat returns the template before pretty-printing, all on one line.
func Flat(name string, tags TagSource, req config.Request) (string, error) {
	root, ok := tags.Tag(name)
	if !ok {
		return "", errors.Newf("unknown tag %q", name)
	}
	b := &builder{tags: tags, quote: req.Quote, active: make(map[string]bool)}
	if b.quote == "" {
		b.quote = config.QuoteFor("")
	}
	if err := b.expand(root, true); err != nil {
		return "", err
	}
	return b.sb.String(), nil
}

type builder struct {
	sb     strings.Builder
	tags   TagSource
	quote  string
	stop   int // last tab stop handed out
	active map[string]bool
}

func (b *builder) nextStop() string {
	b.stop++
	return "$" + strconv.Itoa(b.stop)
}

func (b *builder) expand(t *kb.TagDefinition, root bool) error {
	if b.active[t.Name] {
		return errors.Newf("subtag cycle at %q", t.Name)
	}
	b.active[t.Name] = true
	defer delete(b.active, t.Name)

	b.sb.WriteString("<")
	b.sb.WriteString(t.Name)
	if root {
		for _, attr := range t.Defaults {
			b.sb.WriteString(" ")
			b.sb.WriteString(attr)
			b.sb.WriteString("=")
			b.sb.WriteString(b.quote)
			b.sb.WriteString(b.nextStop())
			b.sb.WriteString(b.quote)
		}
	}
	b.sb.WriteString(">")
	for _, name := range t.Subtags {
		sub, ok := b.tags.Tag(name)
		if !ok {
			sub = &kb.TagDefinition{Name: name}
		}
		if err := b.expand(sub, false); err != nil {
			return err
		}
	}
	b.sb.WriteString("</")
	b.sb.WriteString(t.Name)
	b.sb.WriteString(">")
	return nil
}
