// Copyright © 2024 The vuehelper authors

// Package formatter pretty-prints markup fragments. It tokenizes the source
// with golang.org/x/net/html, rebuilds the element tree, and prints one
// element per line indented by nesting depth. Tag text is written exactly as
// it appeared, so snippet placeholders and quote style pass through
// untouched.
package formatter

import (
	"bytes"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/html"
)

// Format formats a markup fragment. If cfg is nil, DefaultConfig() is used.
// The result ends with exactly one newline when non-empty.
func Format(source []byte, cfg *Config) ([]byte, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	root, err := parse(source, cfg)
	if err != nil {
		return nil, err
	}

	pr := newPrinter(cfg)
	pr.writeChildren(root, 0)

	result := pr.buf.String()
	if len(result) > 0 {
		result = strings.TrimRight(result, "\n") + "\n"
	}
	return []byte(result), nil
}

// FormatString formats src and returns it without the trailing newline.
func FormatString(src string, cfg *Config) (string, error) {
	out, err := Format([]byte(src), cfg)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\n"), nil
}

type nodeKind int

const (
	elementNode nodeKind = iota
	textNode
	rawNode // comments, doctypes, stray end tags
)

type node struct {
	kind     nodeKind
	name     string
	open     string // raw start tag, or the text for text and raw nodes
	close    string // raw end tag; empty for void or unterminated elements
	children []*node
}

// parse builds the element tree. Unbalanced end tags close the nearest
// matching open element; end tags with no match are kept as raw nodes.
func parse(source []byte, cfg *Config) (*node, error) {
	root := &node{kind: elementNode}
	stack := []*node{root}
	top := func() *node { return stack[len(stack)-1] }

	z := html.NewTokenizer(bytes.NewReader(source))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return nil, errors.Wrap(err, "tokenizing markup")
			}
			return root, nil
		}
		raw := string(z.Raw())
		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			n := &node{kind: elementNode, name: string(name), open: raw}
			top().children = append(top().children, n)
			if !cfg.Void[n.name] {
				stack = append(stack, n)
			}
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			top().children = append(top().children, &node{kind: elementNode, name: string(name), open: raw})
		case html.EndTagToken:
			name, _ := z.TagName()
			i := len(stack) - 1
			for i > 0 && stack[i].name != string(name) {
				i--
			}
			if i == 0 {
				top().children = append(top().children, &node{kind: rawNode, open: raw})
				continue
			}
			stack[i].close = raw
			stack = stack[:i]
		case html.TextToken:
			if strings.TrimSpace(raw) != "" {
				top().children = append(top().children, &node{kind: textNode, open: raw})
			}
		default:
			top().children = append(top().children, &node{kind: rawNode, open: raw})
		}
	}
}
