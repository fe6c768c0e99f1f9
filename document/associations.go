// Copyright © 2024 The vuehelper authors

package document

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Association maps a path glob to a language identifier.
type Association struct {
	Pattern  string
	Language string
}

// Associations resolves the language of a file from its path. The first
// matching pattern wins.
type Associations []Association

// DefaultAssociations covers single-file components and plain HTML.
func DefaultAssociations() Associations {
	return Associations{
		{Pattern: "**/*.vue", Language: "vue"},
		{Pattern: "**/*.html", Language: "html"},
		{Pattern: "**/*.htm", Language: "html"},
	}
}

// AssociationsFromMap builds Associations from a pattern -> language map.
// Patterns are ordered longest first so more specific globs win.
func AssociationsFromMap(m map[string]string) Associations {
	out := make(Associations, 0, len(m))
	for pattern, lang := range m {
		out = append(out, Association{Pattern: pattern, Language: lang})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Pattern) != len(out[j].Pattern) {
			return len(out[i].Pattern) > len(out[j].Pattern)
		}
		return out[i].Pattern < out[j].Pattern
	})
	return out
}

// LanguageFor returns the language associated with path, or "" when no
// pattern matches. Invalid patterns never match.
func (a Associations) LanguageFor(path string) string {
	path = strings.TrimPrefix(filepath.ToSlash(path), "/")
	for _, assoc := range a {
		ok, err := doublestar.Match(assoc.Pattern, path)
		if err == nil && ok {
			return assoc.Language
		}
		// Relative patterns such as "*.vue" also match on the base name.
		ok, err = doublestar.Match(assoc.Pattern, filepath.Base(path))
		if err == nil && ok {
			return assoc.Language
		}
	}
	return ""
}

// Resolve picks the language for a document. A client-supplied identifier
// listed in known is used as is; otherwise the path decides, and the
// client identifier is the last resort.
func (a Associations) Resolve(path, clientLanguage string, known []string) string {
	for _, k := range known {
		if k == clientLanguage {
			return clientLanguage
		}
	}
	if lang := a.LanguageFor(path); lang != "" {
		return lang
	}
	return clientLanguage
}
