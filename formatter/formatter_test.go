// Copyright © 2024 The vuehelper authors

package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formatTest struct {
	name     string
	input    string
	expected string
	config   *Config
}

func runFormatTests(t *testing.T, tests []formatTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			got, err := Format([]byte(tt.input), cfg)
			require.NoError(t, err, "Format failed")
			assert.Equal(t, tt.expected, string(got), "formatted output mismatch")

			// Idempotency: formatting the output again should produce identical output
			got2, err := Format(got, cfg)
			require.NoError(t, err, "Format (idempotency) failed")
			assert.Equal(t, string(got), string(got2), "not idempotent")
		})
	}
}

func TestFormatNesting(t *testing.T) {
	runFormatTests(t, []formatTest{
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
		{
			name:     "element without children stays on one line",
			input:    "<el-button type='$1'></el-button>",
			expected: "<el-button type='$1'></el-button>\n",
		},
		{
			name:  "one child",
			input: "<el-select v-model='$1'><el-option></el-option></el-select>",
			expected: "<el-select v-model='$1'>\n" +
				"  <el-option></el-option>\n" +
				"</el-select>\n",
		},
		{
			name:  "siblings and depth",
			input: "<el-container><el-header></el-header><el-main><el-row><el-col></el-col></el-row></el-main></el-container>",
			expected: "<el-container>\n" +
				"  <el-header></el-header>\n" +
				"  <el-main>\n" +
				"    <el-row>\n" +
				"      <el-col></el-col>\n" +
				"    </el-row>\n" +
				"  </el-main>\n" +
				"</el-container>\n",
		},
		{
			name:   "indent size four",
			input:  "<el-table :data=\"$1\"><el-table-column></el-table-column></el-table>",
			config: WithIndent(4),
			expected: "<el-table :data=\"$1\">\n" +
				"    <el-table-column></el-table-column>\n" +
				"</el-table>\n",
		},
		{
			name:   "indent size zero",
			input:  "<el-row><el-col></el-col></el-row>",
			config: WithIndent(0),
			expected: "<el-row>\n" +
				"<el-col></el-col>\n" +
				"</el-row>\n",
		},
	})
}

func TestFormatContent(t *testing.T) {
	runFormatTests(t, []formatTest{
		{
			name:  "reindents existing layout",
			input: "<div>\n        <span>hi</span>\n\n\n   </div>",
			expected: "<div>\n" +
				"  <span>\n" +
				"    hi\n" +
				"  </span>\n" +
				"</div>\n",
		},
		{
			name:  "void elements",
			input: "<p><input type='text'><br></p>",
			expected: "<p>\n" +
				"  <input type='text'>\n" +
				"  <br>\n" +
				"</p>\n",
		},
		{
			name:     "self closing",
			input:    "<my-widget/>",
			expected: "<my-widget/>\n",
		},
		{
			name:  "comments are kept",
			input: "<div><!-- note --></div>",
			expected: "<div>\n" +
				"  <!-- note -->\n" +
				"</div>\n",
		},
		{
			name:     "stray end tag",
			input:    "</el-row>",
			expected: "</el-row>\n",
		},
		{
			name:  "unterminated element",
			input: "<el-form><el-form-item></el-form-item>",
			expected: "<el-form>\n" +
				"  <el-form-item></el-form-item>\n",
		},
	})
}

func TestFormatPreservesTagText(t *testing.T) {
	src := `<el-dialog title="$1" :visible.sync='$2' @close="onClose"></el-dialog>`
	got, err := FormatString(src, nil)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}
