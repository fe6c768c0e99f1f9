// Copyright © 2024 The vuehelper authors

package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
)

// libraryPattern matches knowledge-base file names.
const libraryPattern = "*.{yaml,yml}"

// expandArgs expands arguments, resolving patterns ending with "/..." to all
// knowledge-base files found recursively under the given directory, then
// drops paths matching any exclude pattern. Other arguments pass through
// unchanged.
func expandArgs(fs afero.Fs, args, excludes []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if dir, ok := strings.CutSuffix(arg, "/..."); ok {
			if dir == "" {
				dir = "."
			}
			files, err := findLibraryFiles(fs, dir)
			if err != nil {
				return nil, errors.Wrapf(err, "expanding %s", arg)
			}
			out = append(out, files...)
		} else {
			out = append(out, arg)
		}
	}
	return filterExcludes(out, excludes), nil
}

func findLibraryFiles(fs afero.Fs, root string) ([]string, error) {
	var files []string
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if ok, _ := doublestar.Match(libraryPattern, filepath.Base(path)); ok {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// filterExcludes removes paths matching any of the exclude patterns.
func filterExcludes(paths, excludes []string) []string {
	if len(excludes) == 0 {
		return paths
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !matchesAny(p, excludes) {
			out = append(out, p)
		}
	}
	return out
}

// matchesAny reports whether path matches a pattern as a whole, by base
// name, or by any single path component.
func matchesAny(path string, patterns []string) bool {
	path = filepath.ToSlash(path)
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, path); ok {
			return true
		}
		for _, c := range splitPath(path) {
			if ok, _ := doublestar.Match(pat, c); ok {
				return true
			}
		}
	}
	return false
}

// splitPath returns the components of a slash separated path.
func splitPath(path string) []string {
	var out []string
	for _, c := range strings.Split(filepath.ToSlash(path), "/") {
		if c != "" && c != "." {
			out = append(out, c)
		}
	}
	return out
}
