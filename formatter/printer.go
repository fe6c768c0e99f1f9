// Copyright © 2024 The vuehelper authors

package formatter

import (
	"bytes"
	"strings"
)

type printer struct {
	buf bytes.Buffer
	cfg *Config
}

func newPrinter(cfg *Config) *printer {
	return &printer{cfg: cfg}
}

// writeChildren writes every child of n at the given depth.
func (p *printer) writeChildren(n *node, depth int) {
	for _, c := range n.children {
		p.writeNode(c, depth)
	}
}

// writeNode dispatches on the node kind.
func (p *printer) writeNode(n *node, depth int) {
	switch n.kind {
	case elementNode:
		p.writeElement(n, depth)
	case textNode:
		p.writeText(n.open, depth)
	default:
		p.writeIndent(depth)
		p.writeString(strings.TrimSpace(n.open))
		p.newline()
	}
}

// writeElement keeps an element without children on one line and otherwise
// puts its children on their own lines one level deeper.
func (p *printer) writeElement(n *node, depth int) {
	p.writeIndent(depth)
	p.writeString(n.open)
	if len(n.children) == 0 {
		p.writeString(n.close)
		p.newline()
		return
	}
	p.newline()
	p.writeChildren(n, depth+1)
	if n.close != "" {
		p.writeIndent(depth)
		p.writeString(n.close)
		p.newline()
	}
}

// writeText writes each non-blank line of text trimmed and indented.
func (p *printer) writeText(text string, depth int) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		p.writeIndent(depth)
		p.writeString(line)
		p.newline()
	}
}

func (p *printer) writeIndent(depth int) {
	p.buf.WriteString(strings.Repeat(" ", depth*p.cfg.IndentSize))
}

func (p *printer) writeString(s string) {
	p.buf.WriteString(s)
}

func (p *printer) newline() {
	p.buf.WriteByte('\n')
}
