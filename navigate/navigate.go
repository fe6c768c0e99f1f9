// Copyright © 2024 The vuehelper authors

// Package navigate resolves go-to-definition targets in single-file
// components: handler and data names bound in the template jump to their
// declaration in the script block, and imported component tags jump to the
// imported file.
package navigate

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/luthersystems/vuehelper/document"
	"github.com/luthersystems/vuehelper/scanner"
	"github.com/spf13/afero"
)

// Location is a definition target. An empty Range points at the start of
// the file.
type Location struct {
	Path  string
	Range document.Range
}

// Resolver finds definitions. Imported files are checked for existence on
// its file system.
type Resolver struct {
	fs afero.Fs
}

// New returns a resolver over fs. A nil fs uses the operating system.
func New(fs afero.Fs) *Resolver {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Resolver{fs: fs}
}

var (
	identRe  = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
	importRe = regexp.MustCompile(`^\s*import\s+([A-Za-z_$][\w$]*)\s+from\s+['"]([^'"]+)['"]`)
)

// Definition returns the definition of the name at pos in doc, which was
// read from path.
func (r *Resolver) Definition(doc document.Document, path string, pos document.Position) (Location, bool) {
	word, rng, ok := scanner.WordAt(doc, pos)
	if !ok {
		return Location{}, false
	}
	line := doc.LineText(rng.Start.Line)
	before := strings.TrimSuffix(line[:document.ByteIndex(line, rng.Start.Character)], "/")
	if strings.HasSuffix(before, "<") {
		return r.component(doc, path, word)
	}

	attr := scanner.PreAttr(doc, rng.End)
	if attr == "" || !bound(document.TextBefore(doc, rng.End), attr) {
		return Location{}, false
	}
	name, _, _ := strings.Cut(word, ".")
	return declaration(doc, path, name)
}

// bound reports whether the attribute whose value ends textBefore is a
// binding (:attr, @event or a v- directive) rather than a literal.
func bound(textBefore, attr string) bool {
	if strings.HasPrefix(attr, "v-") {
		return true
	}
	i := strings.LastIndex(textBefore, attr+"=")
	if i <= 0 {
		return false
	}
	switch textBefore[i-1] {
	case ':', '@':
		return true
	}
	return false
}

// declaration searches the script block for a method, property or variable
// named name.
func declaration(doc document.Document, path, name string) (Location, bool) {
	if !identRe.MatchString(name) {
		return Location{}, false
	}
	start, end, ok := scanner.ScriptRegion(doc)
	if !ok {
		return Location{}, false
	}
	q := regexp.QuoteMeta(name)
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`^\s*(?:async\s+)?(` + q + `)\s*\(`),
		regexp.MustCompile(`^\s*['"]?(` + q + `)['"]?\s*:`),
		regexp.MustCompile(`\b(?:const|let|var|function)\s+(` + q + `)\b`),
	}
	for _, re := range patterns {
		for line := start; line < end; line++ {
			text := doc.LineText(line)
			m := re.FindStringSubmatchIndex(text)
			if m == nil {
				continue
			}
			return Location{
				Path: path,
				Range: document.Range{
					Start: document.Position{Line: line, Character: document.Column(text, m[2])},
					End:   document.Position{Line: line, Character: document.Column(text, m[3])},
				},
			}, true
		}
	}
	return Location{}, false
}

// component finds the import of tag in the script block and returns the
// imported file when it exists.
func (r *Resolver) component(doc document.Document, path, tag string) (Location, bool) {
	want := PascalCase(tag)
	start, end, ok := scanner.ScriptRegion(doc)
	if !ok {
		return Location{}, false
	}
	for line := start; line < end; line++ {
		m := importRe.FindStringSubmatch(doc.LineText(line))
		if m == nil || m[1] != want {
			continue
		}
		if target, ok := r.resolveImport(path, m[2]); ok {
			return Location{Path: target}, true
		}
		return Location{}, false
	}
	return Location{}, false
}

// resolveImport maps an import specifier to an existing file. Only
// relative specifiers are followed.
func (r *Resolver) resolveImport(from, source string) (string, bool) {
	if !strings.HasPrefix(source, "./") && !strings.HasPrefix(source, "../") {
		return "", false
	}
	base := filepath.Join(filepath.Dir(from), filepath.FromSlash(source))
	for _, candidate := range []string{base, base + ".vue", base + ".js", filepath.Join(base, "index.vue")} {
		info, err := r.fs.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// PascalCase converts a kebab-case tag name to the identifier it is usually
// imported as. Names without hyphens are returned with the first letter
// upper-cased.
func PascalCase(tag string) string {
	var sb strings.Builder
	for _, part := range strings.Split(tag, "-") {
		if part == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(part[:1]))
		sb.WriteString(part[1:])
	}
	return sb.String()
}
