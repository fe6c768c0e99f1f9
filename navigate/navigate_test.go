// Copyright © 2024 The vuehelper authors

package navigate

import (
	"strings"
	"testing"

	"github.com/luthersystems/vuehelper/document"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const app = `<template>
  <div>
    <my-widget :items="rows" @save="onSave" v-if="form.ok"></my-widget>
    <el-button type="primary" @click="reset">Go</el-button>
    <missing-thing></missing-thing>
    <nested-panel></nested-panel>
  </div>
</template>

<script>
import MyWidget from './MyWidget'
import MissingThing from './MissingThing.vue'
import NestedPanel from '../panels/nested'
import Vue from 'vue'
export default {
  components: { MyWidget, MissingThing, NestedPanel },
  data() {
    return {
      rows: [],
      form: { ok: true }
    }
  },
  methods: {
    async onSave() {},
    reset () {}
  }
}
</script>
`

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/src/MyWidget.vue", []byte("<template></template>"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/proj/panels/nested/index.vue", []byte("<template></template>"), 0o644))
	require.NoError(t, fs.MkdirAll("/proj/src/MissingThing.vue", 0o755))
	return New(fs)
}

// at positions the cursor one character into the n-th occurrence of sub.
func at(t *testing.T, sub string, n int) document.Position {
	t.Helper()
	for i, line := range strings.Split(app, "\n") {
		idx := -1
		rest := line
		offset := 0
		for k := 0; k <= n; k++ {
			idx = strings.Index(rest, sub)
			if idx < 0 {
				break
			}
			if k < n {
				offset += idx + len(sub)
				rest = rest[idx+len(sub):]
			}
		}
		if idx >= 0 {
			return document.Position{Line: i, Character: offset + idx + 1}
		}
	}
	t.Fatalf("%q not found", sub)
	return document.Position{}
}

func TestDefinitionScript(t *testing.T) {
	r := newResolver(t)
	doc := document.New("vue", app)

	tests := []struct {
		name string
		sub  string
		line int
		col  int
	}{
		{"bound data", `"rows"`, 18, 6},
		{"event handler", `"onSave"`, 23, 10},
		{"directive member", `"form.ok"`, 19, 6},
		{"method with space", `"reset"`, 24, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := at(t, tt.sub, 0)
			pos.Character++ // skip the quote
			loc, ok := r.Definition(doc, "/proj/src/App.vue", pos)
			require.True(t, ok)
			assert.Equal(t, "/proj/src/App.vue", loc.Path)
			assert.Equal(t, tt.line, loc.Range.Start.Line)
			assert.Equal(t, tt.col, loc.Range.Start.Character)
			name := strings.Trim(tt.sub, `"`)
			name, _, _ = strings.Cut(name, ".")
			assert.Equal(t, tt.col+len(name), loc.Range.End.Character)
		})
	}
}

func TestDefinitionComponent(t *testing.T) {
	r := newResolver(t)
	doc := document.New("vue", app)

	loc, ok := r.Definition(doc, "/proj/src/App.vue", at(t, "my-widget", 0))
	require.True(t, ok)
	assert.Equal(t, "/proj/src/MyWidget.vue", loc.Path)
	assert.Equal(t, document.Range{}, loc.Range)

	loc, ok = r.Definition(doc, "/proj/src/App.vue", at(t, "my-widget", 1))
	require.True(t, ok, "closing tag")
	assert.Equal(t, "/proj/src/MyWidget.vue", loc.Path)

	loc, ok = r.Definition(doc, "/proj/src/App.vue", at(t, "nested-panel", 0))
	require.True(t, ok, "directory index")
	assert.Equal(t, "/proj/panels/nested/index.vue", loc.Path)

	_, ok = r.Definition(doc, "/proj/src/App.vue", at(t, "missing-thing", 0))
	assert.False(t, ok, "import target is a directory")
}

func TestDefinitionNone(t *testing.T) {
	r := newResolver(t)
	doc := document.New("vue", app)
	for _, sub := range []string{`"primary"`, "el-button", "Go<", "div"} {
		t.Run(sub, func(t *testing.T) {
			pos := at(t, sub, 0)
			if strings.HasPrefix(sub, `"`) {
				pos.Character++
			}
			_, ok := r.Definition(doc, "/proj/src/App.vue", pos)
			assert.False(t, ok)
		})
	}

	_, ok := r.Definition(document.New("html", `<a :href="link"></a>`), "/x.html", document.Position{Character: 12})
	assert.False(t, ok, "no script block")
}

func TestPascalCase(t *testing.T) {
	assert.Equal(t, "MyWidget", PascalCase("my-widget"))
	assert.Equal(t, "ElTableColumn", PascalCase("el-table-column"))
	assert.Equal(t, "Widget", PascalCase("widget"))
	assert.Equal(t, "MyWidget", PascalCase("MyWidget"))
}

func TestBound(t *testing.T) {
	assert.True(t, bound(`<a :href="x`, "href"))
	assert.True(t, bound(`<a @click="x`, "click"))
	assert.True(t, bound(`<a v-model="x`, "v-model"))
	assert.False(t, bound(`<a href="x`, "href"))
}
