// Copyright © 2024 The vuehelper authors

package diagnostic

import (
	"os"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // detect based on terminal and NO_COLOR
	ColorAlways                  // always use colors
	ColorNever                   // never use colors
)

// ParseColorMode maps the --color flag values "always" and "never" to their
// modes. Anything else is ColorAuto.
func ParseColorMode(s string) ColorMode {
	switch s {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}

type palette struct {
	bold     string
	yellow   string
	boldRed  string
	boldBlue string
	boldCyan string
	reset    string
}

var ansiPalette = palette{
	bold:     "\033[1m",
	yellow:   "\033[33m",
	boldRed:  "\033[1;31m",
	boldBlue: "\033[1;34m",
	boldCyan: "\033[1;36m",
	reset:    "\033[0m",
}

// severity returns the color for a severity label.
func (p palette) severity(s Severity) string {
	switch s {
	case SeverityError:
		return p.boldRed
	case SeverityWarning:
		return p.yellow
	default:
		return p.boldCyan
	}
}

func choosePalette(mode ColorMode, w *os.File) palette {
	switch mode {
	case ColorAlways:
		return ansiPalette
	case ColorNever:
		return palette{}
	}
	if os.Getenv("NO_COLOR") != "" || !isTerminal(w) {
		return palette{}
	}
	return ansiPalette
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
