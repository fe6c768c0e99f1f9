// Copyright © 2024 The vuehelper authors

package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/luthersystems/vuehelper/config"
	"github.com/luthersystems/vuehelper/kb"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Option configures an exported command factory (LSPCommand,
// CompleteCommand, DocCommand, ...).
type Option func(*cmdConfig)

type cmdConfig struct {
	base *kb.KnowledgeBase
	fs   afero.Fs
}

func newCmdConfig(opts ...Option) *cmdConfig {
	cfg := &cmdConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// WithKnowledgeBase replaces the embedded Element UI knowledge base. An
// extension file named by the knowledge-base setting is still merged over
// it.
func WithKnowledgeBase(base *kb.KnowledgeBase) Option {
	return func(c *cmdConfig) { c.base = base }
}

// WithFs sets the filesystem documents and knowledge-base files are read
// from.
func WithFs(fs afero.Fs) Option {
	return func(c *cmdConfig) { c.fs = fs }
}

func (c *cmdConfig) filesystem() afero.Fs {
	if c.fs == nil {
		return afero.NewOsFs()
	}
	return c.fs
}

// knowledgeBase returns the base knowledge base with the extension file
// from settings merged over it.
func (c *cmdConfig) knowledgeBase(s config.Settings) (*kb.KnowledgeBase, error) {
	base := c.base
	if base == nil {
		var err error
		if base, err = kb.Default(); err != nil {
			return nil, err
		}
	}
	if s.KnowledgeBase == "" {
		return base, nil
	}
	lib, err := kb.LoadFile(c.filesystem(), s.KnowledgeBase)
	if err != nil {
		return nil, errors.WithHint(err, "check the knowledge-base setting")
	}
	return base.Extend(lib)
}

// currentSettings decodes the global viper configuration.
func currentSettings() config.Settings {
	v := viper.GetViper()
	config.SetDefaults(v)
	return config.FromViper(v)
}
