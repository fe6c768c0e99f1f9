// Copyright © 2024 The vuehelper authors

package kb

import (
	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Library is one parsed knowledge-base document. Definitions keep the order
// they were written in.
type Library struct {
	IconPrefix string
	Icons      []string
	Tags       []*TagDefinition
	Attributes []*AttributeDefinition
}

type libraryFile struct {
	IconPrefix string    `yaml:"icon-prefix"`
	Icons      []string  `yaml:"icons"`
	Tags       yaml.Node `yaml:"tags"`
	Attributes yaml.Node `yaml:"attributes"`
}

type tagEntry struct {
	Attributes  []string `yaml:"attributes"`
	Subtags     []string `yaml:"subtags"`
	Defaults    []string `yaml:"defaults"`
	Version     string   `yaml:"version"`
	Framework   string   `yaml:"framework"`
	Description string   `yaml:"description"`
}

type attrEntry struct {
	Type        string   `yaml:"type"`
	Options     []string `yaml:"options"`
	Global      bool     `yaml:"global"`
	Framework   string   `yaml:"framework"`
	Description string   `yaml:"description"`
}

// Parse decodes a library document. Mapping order is preserved so that
// completion lists follow the order of the source file.
func Parse(data []byte) (*Library, error) {
	var f libraryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "decoding knowledge base")
	}
	lib := &Library{IconPrefix: f.IconPrefix, Icons: f.Icons}

	err := eachPair(&f.Tags, "tags", func(name string, value *yaml.Node) error {
		var e tagEntry
		if err := value.Decode(&e); err != nil {
			return errors.Wrapf(err, "tag %q", name)
		}
		lib.Tags = append(lib.Tags, &TagDefinition{
			Name:        name,
			Attributes:  e.Attributes,
			Subtags:     e.Subtags,
			Defaults:    e.Defaults,
			Version:     e.Version,
			Framework:   e.Framework,
			Description: e.Description,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachPair(&f.Attributes, "attributes", func(key string, value *yaml.Node) error {
		var e attrEntry
		if err := value.Decode(&e); err != nil {
			return errors.Wrapf(err, "attribute %q", key)
		}
		tag, name := splitKey(key)
		typ := AttrType(e.Type)
		if typ == "" {
			typ = TypeString
		}
		lib.Attributes = append(lib.Attributes, &AttributeDefinition{
			Key:         key,
			Name:        name,
			Tag:         tag,
			Type:        typ,
			Options:     e.Options,
			Global:      e.Global,
			Framework:   e.Framework,
			Description: e.Description,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// eachPair walks a mapping node in document order. An absent section is
// empty.
func eachPair(n *yaml.Node, section string, fn func(key string, value *yaml.Node) error) error {
	if n.Kind == 0 {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return errors.Newf("%s: line %d: expected a mapping", section, n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i].Value, n.Content[i+1]); err != nil {
			return errors.Wrap(err, section)
		}
	}
	return nil
}

// LoadFile parses a library file from fs.
func LoadFile(fs afero.Fs, path string) (*Library, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "reading knowledge base")
	}
	lib, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return lib, nil
}

// New merges libraries in order and validates the result. A later
// definition with the same tag name or attribute key replaces the earlier
// one in place; new names are appended.
func New(libs ...*Library) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{
		tagIndex:   make(map[string]int),
		attrIndex:  make(map[string]int),
		iconPrefix: DefaultIconPrefix,
	}
	seenIcon := make(map[string]bool)
	for _, lib := range libs {
		if lib.IconPrefix != "" {
			kb.iconPrefix = lib.IconPrefix
		}
		for _, icon := range lib.Icons {
			if !seenIcon[icon] {
				seenIcon[icon] = true
				kb.icons = append(kb.icons, icon)
			}
		}
		for _, t := range lib.Tags {
			if i, ok := kb.tagIndex[t.Name]; ok {
				kb.tags[i] = t
				continue
			}
			kb.tagIndex[t.Name] = len(kb.tags)
			kb.tags = append(kb.tags, t)
		}
		for _, a := range lib.Attributes {
			if i, ok := kb.attrIndex[a.Key]; ok {
				kb.attrs[i] = a
				continue
			}
			kb.attrIndex[a.Key] = len(kb.attrs)
			kb.attrs = append(kb.attrs, a)
		}
	}
	if err := kb.validate(); err != nil {
		return nil, err
	}
	return kb, nil
}

// Extend returns a new knowledge base with lib merged over kb. kb itself is
// left untouched.
func (kb *KnowledgeBase) Extend(lib *Library) (*KnowledgeBase, error) {
	return New(kb.library(), lib)
}

// library flattens kb back into a Library.
func (kb *KnowledgeBase) library() *Library {
	return &Library{
		IconPrefix: kb.iconPrefix,
		Icons:      kb.icons,
		Tags:       kb.tags,
		Attributes: kb.attrs,
	}
}

// validate reports every broken entry at once.
func (kb *KnowledgeBase) validate() error {
	var result *multierror.Error
	for _, t := range kb.tags {
		if t.Name == "" {
			result = multierror.Append(result, errors.New("tag with empty name"))
		}
		for _, sub := range t.Subtags {
			if _, ok := kb.tagIndex[sub]; !ok {
				result = multierror.Append(result, errors.Newf("tag %q: unknown subtag %q", t.Name, sub))
			}
		}
	}
	for _, a := range kb.attrs {
		if a.Name == "" {
			result = multierror.Append(result, errors.Newf("attribute %q: empty name", a.Key))
		}
		if !a.Type.valid() {
			result = multierror.Append(result, errors.Newf("attribute %q: unknown type %q", a.Key, a.Type))
		}
		if a.Scoped() {
			if _, ok := kb.tagIndex[a.Tag]; !ok {
				result = multierror.Append(result, errors.Newf("attribute %q: unknown tag %q", a.Key, a.Tag))
			}
		}
	}
	if cycle := kb.subtagCycle(); cycle != nil {
		result = multierror.Append(result, errors.Newf("subtag cycle: %v", cycle))
	}
	return errors.Wrap(result.ErrorOrNil(), "invalid knowledge base")
}

// subtagCycle returns the first cycle found in the subtag relation, or nil.
func (kb *KnowledgeBase) subtagCycle() []string {
	const (
		_ = iota
		active
		done
	)
	state := make(map[string]int, len(kb.tags))
	var stack []string
	var visit func(name string) []string
	visit = func(name string) []string {
		switch state[name] {
		case active:
			for i := range stack {
				if stack[i] == name {
					return append(append([]string(nil), stack[i:]...), name)
				}
			}
		case done:
			return nil
		}
		t, ok := kb.Tag(name)
		if !ok {
			return nil
		}
		state[name] = active
		stack = append(stack, name)
		for _, sub := range t.Subtags {
			if c := visit(sub); c != nil {
				return c
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		return nil
	}
	for _, t := range kb.tags {
		if c := visit(t.Name); c != nil {
			return c
		}
	}
	return nil
}
