// Copyright © 2024 The vuehelper authors

// Package kb holds the static knowledge base of component tags and
// attributes that completion, hover and snippet expansion are resolved
// against. A KnowledgeBase is immutable once built and safe for concurrent
// use.
package kb

import (
	_ "embed"
	"strings"
	"sync"
)

// AttrType classifies an attribute and decides how its value is completed.
type AttrType string

const (
	TypeFlag         AttrType = "flag"
	TypeMethod       AttrType = "method"
	TypeBoolean      AttrType = "boolean"
	TypeIcon         AttrType = "icon"
	TypeShortcutIcon AttrType = "shortcut-icon"
	TypeString       AttrType = "string"
	TypeOther        AttrType = "other"
)

func (t AttrType) valid() bool {
	switch t {
	case TypeFlag, TypeMethod, TypeBoolean, TypeIcon, TypeShortcutIcon, TypeString, TypeOther:
		return true
	}
	return false
}

// TagDefinition describes one component tag.
type TagDefinition struct {
	Name        string
	Attributes  []string
	Subtags     []string
	Defaults    []string
	Version     string
	Framework   string
	Description string
}

// AttributeDefinition describes an attribute, either scoped to one tag
// (Key "tag/attr") or shared by every tag (Key "attr").
type AttributeDefinition struct {
	Key         string
	Name        string
	Tag         string // empty for shared definitions
	Type        AttrType
	Options     []string
	Global      bool
	Framework   string
	Description string
}

// Scoped reports whether the definition belongs to a single tag.
func (a *AttributeDefinition) Scoped() bool { return a.Tag != "" }

// KnowledgeBase is the queryable set of tag and attribute definitions.
type KnowledgeBase struct {
	tags       []*TagDefinition
	tagIndex   map[string]int
	attrs      []*AttributeDefinition
	attrIndex  map[string]int
	icons      []string
	iconPrefix string
}

// DefaultIconPrefix is stripped from icon names for shortcut-icon values
// when a library does not declare its own prefix.
const DefaultIconPrefix = "el-icon-"

//go:embed data/element-ui.yaml
var elementUI []byte

var (
	defaultOnce sync.Once
	defaultKB   *KnowledgeBase
	defaultErr  error
)

// Default returns the knowledge base built from the embedded Element UI
// library. It is loaded once per process.
func Default() (*KnowledgeBase, error) {
	defaultOnce.Do(func() {
		var lib *Library
		lib, defaultErr = Parse(elementUI)
		if defaultErr != nil {
			return
		}
		defaultKB, defaultErr = New(lib)
	})
	return defaultKB, defaultErr
}

// MustDefault is like Default but panics if the embedded data is invalid.
func MustDefault() *KnowledgeBase {
	base, err := Default()
	if err != nil {
		panic(err)
	}
	return base
}

// Tags returns every tag definition in stored order. The slice is shared;
// callers must not modify it.
func (kb *KnowledgeBase) Tags() []*TagDefinition { return kb.tags }

// Tag looks up a tag definition by name.
func (kb *KnowledgeBase) Tag(name string) (*TagDefinition, bool) {
	i, ok := kb.tagIndex[name]
	if !ok {
		return nil, false
	}
	return kb.tags[i], true
}

// TagAttributes returns the attribute names declared on tag, or nil for an
// unknown tag.
func (kb *KnowledgeBase) TagAttributes(tag string) []string {
	if t, ok := kb.Tag(tag); ok {
		return t.Attributes
	}
	return nil
}

// Attribute resolves attr in the context of tag: the tag-scoped definition
// "tag/attr" wins over the shared definition "attr".
func (kb *KnowledgeBase) Attribute(tag, attr string) (*AttributeDefinition, bool) {
	if attr == "" {
		return nil, false
	}
	if tag != "" {
		if i, ok := kb.attrIndex[tag+"/"+attr]; ok {
			return kb.attrs[i], true
		}
	}
	if i, ok := kb.attrIndex[attr]; ok {
		return kb.attrs[i], true
	}
	return nil, false
}

// Shared returns the definitions that are not scoped to a tag, in stored
// order. Only those with Global set are offered on every tag.
func (kb *KnowledgeBase) Shared() []*AttributeDefinition {
	var out []*AttributeDefinition
	for _, a := range kb.attrs {
		if !a.Scoped() {
			out = append(out, a)
		}
	}
	return out
}

// Icons returns the full icon list in stored order.
func (kb *KnowledgeBase) Icons() []string { return kb.icons }

// IconPrefix is the prefix removed from icons for shortcut-icon values.
func (kb *KnowledgeBase) IconPrefix() string { return kb.iconPrefix }

// ShortIcons returns the icon list with IconPrefix removed from each name.
func (kb *KnowledgeBase) ShortIcons() []string {
	out := make([]string, len(kb.icons))
	for i, icon := range kb.icons {
		out[i] = strings.TrimPrefix(icon, kb.iconPrefix)
	}
	return out
}

// splitKey splits an attribute key into its tag and attribute name.
func splitKey(key string) (tag, name string) {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[:i], key[i+1:]
	}
	return "", key
}
