// Copyright © 2024 The vuehelper authors

package formatter

// Config holds formatting configuration.
type Config struct {
	IndentSize int             // spaces per nesting level (default: 2)
	Void       map[string]bool // elements that never have an end tag
}

// DefaultConfig returns the default formatting configuration.
func DefaultConfig() *Config {
	return &Config{
		IndentSize: 2,
		Void:       DefaultVoidElements(),
	}
}

// WithIndent returns the default configuration with a different indent
// size. Sizes below zero are treated as zero.
func WithIndent(size int) *Config {
	cfg := DefaultConfig()
	if size < 0 {
		size = 0
	}
	cfg.IndentSize = size
	return cfg
}

// DefaultVoidElements returns the HTML void elements.
func DefaultVoidElements() map[string]bool {
	return map[string]bool{
		"area":   true,
		"base":   true,
		"br":     true,
		"col":    true,
		"embed":  true,
		"hr":     true,
		"img":    true,
		"input":  true,
		"link":   true,
		"meta":   true,
		"param":  true,
		"source": true,
		"track":  true,
		"wbr":    true,
	}
}
