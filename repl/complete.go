// Copyright © 2024 The vuehelper authors

package repl

import (
	"context"
	"sort"
	"strings"
)

// markupCompleter implements readline.AutoCompleter by asking the
// completion provider for candidates at the cursor.
type markupCompleter struct {
	p *playground
}

// Do returns, for every candidate extending the word before pos, the text
// still to be typed, along with the length of that word.
func (c *markupCompleter) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && !isDelimiter(line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])

	labels := c.labels(string(line[:pos]))
	result := make([][]rune, 0, len(labels))
	for _, label := range labels {
		if len(label) > len(prefix) && strings.HasPrefix(label, prefix) {
			result = append(result, []rune(label[len(prefix):]))
		}
	}
	if len(result) == 0 {
		return nil, 0
	}
	return result, len([]rune(prefix))
}

// labels returns the distinct candidate labels for text, sorted.
func (c *markupCompleter) labels(text string) []string {
	doc, pos := fragment(text)
	cands, err := c.p.provider.Complete(context.Background(), doc, pos, c.p.request)
	if err != nil {
		return nil
	}
	seen := make(map[string]bool, len(cands))
	var out []string
	for _, cand := range cands {
		if !seen[cand.Label] {
			seen[cand.Label] = true
			out = append(out, cand.Label)
		}
	}
	sort.Strings(out)
	return out
}

func isDelimiter(r rune) bool {
	return strings.ContainsRune(" \t\n<>=\"':@", r)
}
