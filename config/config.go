// Copyright © 2024 The vuehelper authors

// Package config turns viper settings into the small read-only records the
// completion engine consumes.
package config

import (
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/editorconfig/editorconfig-core-go/v2"
	"github.com/luthersystems/vuehelper/document"
	"github.com/spf13/viper"
)

// Setting keys.
const (
	KeyIndentSize        = "indent-size"
	KeyQuotes            = "quotes"
	KeyLanguages         = "languages"
	KeyTemplateLanguages = "template-languages"
	KeyAssociations      = "associations"
	KeyKnowledgeBase     = "knowledge-base"
	KeyRequestTimeout    = "request-timeout"
)

// Section is the name clients nest settings under.
const Section = "vuehelper"

// DefaultIndentSize applies when neither settings nor .editorconfig give one.
const DefaultIndentSize = 2

// Request is the configuration captured once per completion request.
type Request struct {
	IndentSize int
	Quote      string
}

// DefaultRequest uses two-space indentation and single quotes.
func DefaultRequest() Request {
	return Request{IndentSize: DefaultIndentSize, Quote: QuoteFor("")}
}

// QuoteFor maps a quote style name to its character. Anything other than
// "double" selects a single quote.
func QuoteFor(style string) string {
	if style == "double" {
		return `"`
	}
	return "'"
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyIndentSize, DefaultIndentSize)
	v.SetDefault(KeyQuotes, "single")
	v.SetDefault(KeyLanguages, []string{"vue", "html"})
	v.SetDefault(KeyTemplateLanguages, []string{"vue"})
	v.SetDefault(KeyAssociations, map[string]string{
		"**/*.vue":  "vue",
		"**/*.html": "html",
		"**/*.htm":  "html",
	})
	v.SetDefault(KeyKnowledgeBase, "")
	v.SetDefault(KeyRequestTimeout, 2*time.Second)
}

// Settings is a decoded snapshot of the configuration.
type Settings struct {
	IndentSize        int
	Quotes            string
	Languages         []string
	TemplateLanguages []string
	Associations      document.Associations
	KnowledgeBase     string
	RequestTimeout    time.Duration
}

// FromViper decodes Settings from v.
func FromViper(v *viper.Viper) Settings {
	s := Settings{
		IndentSize:        v.GetInt(KeyIndentSize),
		Quotes:            v.GetString(KeyQuotes),
		Languages:         v.GetStringSlice(KeyLanguages),
		TemplateLanguages: v.GetStringSlice(KeyTemplateLanguages),
		KnowledgeBase:     v.GetString(KeyKnowledgeBase),
		RequestTimeout:    v.GetDuration(KeyRequestTimeout),
	}
	if m := v.GetStringMapString(KeyAssociations); len(m) > 0 {
		s.Associations = document.AssociationsFromMap(m)
	} else {
		s.Associations = document.DefaultAssociations()
	}
	return s
}

// Default returns the settings produced by SetDefaults alone.
func Default() Settings {
	v := viper.New()
	SetDefaults(v)
	return FromViper(v)
}

// Request builds the per-request snapshot for the document at path. An
// indent size of zero or less is looked up in .editorconfig.
func (s Settings) Request(path string) Request {
	r := Request{IndentSize: s.IndentSize, Quote: QuoteFor(s.Quotes)}
	if r.IndentSize <= 0 {
		r.IndentSize = EditorConfigIndent(path)
	}
	return r
}

// Supports reports whether completion is enabled for languageID.
func (s Settings) Supports(languageID string) bool {
	return contains(s.Languages, languageID)
}

// TemplateGated reports whether languageID only completes inside its
// template region.
func (s Settings) TemplateGated(languageID string) bool {
	return contains(s.TemplateLanguages, languageID)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// EditorConfigIndent returns the indent size .editorconfig declares for
// path, or DefaultIndentSize.
func EditorConfigIndent(path string) int {
	if path == "" {
		return DefaultIndentSize
	}
	def, err := editorconfig.GetDefinitionForFilename(path)
	if err != nil || def == nil {
		return DefaultIndentSize
	}
	if def.IndentSize == "tab" {
		if def.TabWidth > 0 {
			return def.TabWidth
		}
		return DefaultIndentSize
	}
	if n, err := strconv.Atoi(def.IndentSize); err == nil && n > 0 {
		return n
	}
	if def.TabWidth > 0 && def.IndentStyle == "tab" {
		return def.TabWidth
	}
	return DefaultIndentSize
}

// Store holds settings that may be replaced while a server runs. Readers get
// a consistent snapshot.
type Store struct {
	mu       sync.RWMutex
	v        *viper.Viper
	settings Settings
}

// NewStore wraps v, whose defaults must already be registered.
func NewStore(v *viper.Viper) *Store {
	return &Store{v: v, settings: FromViper(v)}
}

// Settings returns the current snapshot.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// clientKeys are the settings an editor may override.
var clientKeys = []string{KeyIndentSize, KeyQuotes, KeyLanguages}

// Merge applies client-supplied settings. raw is the decoded JSON value of
// initializationOptions or didChangeConfiguration settings; values nested
// under Section are preferred over top-level ones. Unknown keys are ignored.
func (s *Store) Merge(raw any) error {
	if raw == nil {
		return nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return errors.Newf("settings: expected an object, got %T", raw)
	}
	if nested, ok := m[Section].(map[string]any); ok {
		m = nested
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range clientKeys {
		if val, ok := m[key]; ok && val != nil {
			s.v.Set(key, val)
		}
	}
	s.settings = FromViper(s.v)
	return nil
}
