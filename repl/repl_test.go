// Copyright © 2024 The vuehelper authors

package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/luthersystems/vuehelper/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runReplWithString(t *testing.T, input string, opts ...Option) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	go func() {
		RunRepl("vue> ", append([]Option{WithStdin(inR), WithStderr(outW)}, opts...)...)
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup

	return output.String()
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".vuehelper_history")

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "new history file should have mode 0600")
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".vuehelper_history")

	err := os.WriteFile(histFile, []byte("<el-button "), 0644)
	require.NoError(t, err)

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing history file should be restricted to 0600")

	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "<el-button ", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	ensureHistoryFilePermissions("")
}

func TestRunRepl(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "tag",
			input:    "<el-butt\n",
			expected: []string{"context: tag prefix=el-butt", "el-button-group", "vue component (version: 2.15)"},
		},
		{
			name:     "attribute",
			input:    "<el-button \n",
			expected: []string{"context: attribute tag=el-button", "native-type"},
		},
		{
			name:     "attribute value",
			input:    "<el-button size=\"\n",
			expected: []string{"context: attribute-value tag=el-button attribute=size", "medium", "mini"},
		},
		{
			name:     "no context",
			input:    "plain text\n",
			expected: []string{"context: none", "(no candidates)"},
		},
		{
			name:     "snippet",
			input:    ":snippet el-button-group\n",
			expected: []string{"<el-button-group>", "  <el-button></el-button>", "</el-button-group>"},
		},
		{
			name:     "doc",
			input:    ":doc el-button size\n",
			expected: []string{"**size** on `el-button`", "`medium`"},
		},
		{
			name:     "unknown tag",
			input:    ":snippet el-nope\n",
			expected: []string{"error:", "el-nope", "= note: use :help to list commands"},
		},
		{
			name:     "unknown command",
			input:    ":frob\n",
			expected: []string{`error: unknown command "frob"`},
		},
		{
			name:     "help",
			input:    ":help\n",
			expected: []string{":snippet TAG"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := runReplWithString(t, tc.input)
			for _, want := range tc.expected {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestRunReplRequest(t *testing.T) {
	got := runReplWithString(t, ":snippet el-button-group\n",
		WithRequest(config.Request{IndentSize: 4, Quote: `"`}))
	assert.Contains(t, got, "    <el-button></el-button>")
}
