// Copyright © 2024 The vuehelper authors

// Package suggest turns a classified cursor context into completion
// candidates drawn from the knowledge base.
package suggest

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/luthersystems/vuehelper/config"
	"github.com/luthersystems/vuehelper/kb"
	"github.com/luthersystems/vuehelper/scanner"
	"github.com/luthersystems/vuehelper/snippet"
	"go.uber.org/zap"
)

// Kind is the completion kind of a candidate.
type Kind int

const (
	KindSnippet Kind = iota
	KindProperty
	KindMethod
	KindValue
)

func (k Kind) String() string {
	switch k {
	case KindSnippet:
		return "snippet"
	case KindProperty:
		return "property"
	case KindMethod:
		return "method"
	case KindValue:
		return "value"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Candidate is one completion suggestion.
type Candidate struct {
	Label         string `json:"label"`
	InsertText    string `json:"insertText"`
	Snippet       bool   `json:"snippet,omitempty"` // InsertText contains tab stops
	Kind          Kind   `json:"kind"`
	Detail        string `json:"detail,omitempty"`
	Documentation string `json:"documentation,omitempty"`
	SortKey       string `json:"sortKey,omitempty"`
}

// Resolver resolves contexts against one knowledge base.
type Resolver struct {
	kb     *kb.KnowledgeBase
	logger *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger reports snippets that could not be built.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New returns a resolver over base.
func New(base *kb.KnowledgeBase, opts ...Option) *Resolver {
	r := &Resolver{kb: base, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// KnowledgeBase returns the knowledge base the resolver reads.
func (r *Resolver) KnowledgeBase() *kb.KnowledgeBase { return r.kb }

// Resolve returns the candidates for ctx. It never fails; contexts that
// resolve to nothing return an empty list.
func (r *Resolver) Resolve(ctx scanner.Context, req config.Request) []Candidate {
	switch ctx.Kind {
	case scanner.AttributeValue:
		return r.AttributeValues(ctx.Tag.Text, ctx.Attribute)
	case scanner.Attribute:
		return r.Attributes(ctx.Tag.Text, ctx.TextBefore, req)
	case scanner.Tag:
		return r.Tags(req)
	}
	return nil
}

// Tags returns one snippet candidate per tag, in stored order.
func (r *Resolver) Tags(req config.Request) []Candidate {
	tags := r.kb.Tags()
	out := make([]Candidate, 0, len(tags))
	for i, t := range tags {
		text, err := snippet.Build(t.Name, r.kb, req)
		if err != nil {
			r.logger.Warn("skipping tag snippet", zap.String("tag", t.Name), zap.Error(err))
			continue
		}
		detail := "vue component"
		if t.Version != "" {
			detail += " (version: " + t.Version + ")"
		}
		out = append(out, Candidate{
			Label:         t.Name,
			InsertText:    strings.TrimPrefix(text, "<"),
			Snippet:       true,
			Kind:          KindSnippet,
			Detail:        detail,
			Documentation: t.Description,
			SortKey:       "0" + strconv.Itoa(100+i) + t.Name,
		})
	}
	return out
}

var (
	trailingValueRe = regexp.MustCompile(`['"]([^'"]*)['"]$`)
	prefixSplitRe   = regexp.MustCompile(`\s|\(+`)
)

// AttributePrefix extracts the attribute token being typed from the text
// before the cursor, and whether it carries a method (@) or bind (:)
// prefix. The binding character is removed from the returned prefix.
func AttributePrefix(textBefore string) (prefix string, method, bind bool) {
	fields := prefixSplitRe.Split(trailingValueRe.ReplaceAllString(textBefore, ""), -1)
	prefix = fields[len(fields)-1]
	if prefix != "" {
		method = prefix[0] == '@'
		bind = prefix[0] == ':'
	}
	if i := strings.IndexAny(prefix, ":@"); i >= 0 {
		prefix = prefix[:i] + prefix[i+1:]
	}
	return prefix, method, bind
}

// Attributes returns the attributes of tag that match the token being typed
// at the end of textBefore, followed by the matching global attributes.
func (r *Resolver) Attributes(tag, textBefore string, req config.Request) []Candidate {
	prefix, method, bind := AttributePrefix(textBefore)
	if !validPrefix(prefix) {
		return nil
	}
	quote := req.Quote
	if quote == "" {
		quote = config.QuoteFor("")
	}

	var out []Candidate
	offered := make(map[string]bool)
	for _, name := range r.kb.TagAttributes(tag) {
		def, ok := r.kb.Attribute(tag, name)
		if !ok || !prefixMatches(name, prefix) || offered[name] {
			continue
		}
		if c, ok := r.attribute(name, tag, def, method, bind, quote); ok {
			offered[name] = true
			out = append(out, c)
		}
	}
	for _, shared := range r.kb.Shared() {
		name := shared.Name
		if offered[name] || !prefixMatches(name, prefix) {
			continue
		}
		def, ok := r.kb.Attribute(tag, name)
		if !ok || !def.Global {
			continue
		}
		if c, ok := r.attribute(name, "", def, method, bind, quote); ok {
			offered[name] = true
			out = append(out, c)
		}
	}
	return out
}

// attribute builds the candidate for def, or reports false when the
// binding mode excludes it. tag is empty for the global pass.
func (r *Resolver) attribute(name, tag string, def *kb.AttributeDefinition, method, bind bool, quote string) (Candidate, bool) {
	isMethod := def.Type == kb.TypeMethod
	if !((method && isMethod) || (bind && !isMethod) || (!method && !bind)) {
		return Candidate{}, false
	}
	var detail string
	if t, ok := r.kb.Tag(tag); ok && t.Framework != "" {
		detail += t.Framework
	}
	if def.Global {
		detail += def.Framework + "(global)"
	}
	c := Candidate{
		Label:         name,
		Kind:          KindProperty,
		Detail:        detail,
		Documentation: def.Description,
	}
	if isMethod {
		c.Kind = KindMethod
	}
	if def.Type == kb.TypeFlag {
		c.InsertText = name + " "
	} else {
		c.InsertText = name + "=" + quote + "$1" + quote + "$0"
		c.Snippet = true
	}
	return c, true
}

func validPrefix(prefix string) bool {
	if prefix == "" {
		return true
	}
	c := rune(prefix[0])
	return unicode.IsLetter(c) || c == '@' || c == ':' || unicode.IsSpace(c)
}

// prefixMatches compares first characters case-insensitively. A blank
// prefix matches everything.
func prefixMatches(name, prefix string) bool {
	if strings.TrimSpace(prefix) == "" {
		return true
	}
	if name == "" {
		return false
	}
	return unicode.ToLower(rune(name[0])) == unicode.ToLower(rune(prefix[0]))
}

// AttributeValues returns one value candidate per allowed value of attr on
// tag.
func (r *Resolver) AttributeValues(tag, attr string) []Candidate {
	values := AttrValues(r.kb, tag, attr)
	out := make([]Candidate, 0, len(values))
	for _, v := range values {
		out = append(out, Candidate{Label: v, InsertText: v, Kind: KindValue})
	}
	return out
}

// AttrValues lists the allowed values of attr on tag: explicit options
// first, otherwise values implied by the attribute type.
func AttrValues(base *kb.KnowledgeBase, tag, attr string) []string {
	def, ok := base.Attribute(tag, attr)
	if !ok {
		return nil
	}
	if len(def.Options) > 0 {
		return def.Options
	}
	switch def.Type {
	case kb.TypeBoolean:
		return []string{"true", "false"}
	case kb.TypeIcon:
		return base.Icons()
	case kb.TypeShortcutIcon:
		return base.ShortIcons()
	}
	return nil
}
