// Copyright © 2024 The vuehelper authors

package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/vuehelper/snippet"
	"github.com/spf13/cobra"
)

// SnippetCommand creates the "snippet" command, which prints the text a
// tag candidate inserts.
func SnippetCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var path string

	cmd := &cobra.Command{
		Use:   "snippet [flags] TAG",
		Short: "Print the snippet inserted for a tag",
		Long: `Print the snippet a tag completion inserts: the tag with its required
attributes as numbered placeholders ($1, $2, ...) and its child tags
expanded and indented.

Indentation and quotes follow the indent-size and quotes settings. With an
indent-size of 0, --path selects the .editorconfig section to read.

Examples:
  vuehelper snippet el-form
  VUEHELPER_QUOTES=double vuehelper snippet el-table
  vuehelper snippet --path src/App.vue el-container`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := currentSettings()
			base, err := cfg.knowledgeBase(settings)
			if err != nil {
				renderLoadError(cmd.ErrOrStderr(), cfg.filesystem(), err, settings.KnowledgeBase)
				return errReported
			}
			text, err := snippet.Build(args[0], base, settings.Request(path))
			if err != nil {
				return errors.WithHint(err, `run "vuehelper doc" to list the known tags`)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().StringVar(&path, "path", "",
		"Document path used to look up .editorconfig indentation.")
	return cmd
}

func init() {
	rootCmd.AddCommand(SnippetCommand())
}
