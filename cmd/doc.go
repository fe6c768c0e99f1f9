// Copyright © 2024 The vuehelper authors

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/vuehelper/docs"
	"github.com/luthersystems/vuehelper/hover"
	"github.com/luthersystems/vuehelper/kb"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

// DocCommand creates the "doc" command.
func DocCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var guide bool

	cmd := &cobra.Command{
		Use:   "doc [flags] [TAG [ATTR]]",
		Short: "Show documentation for component tags and attributes",
		Long: `Show knowledge-base documentation for component tags and attributes.

With no argument, lists every known tag. With a tag, shows its description,
the children its snippet inserts, and a table of its attributes. With a tag
and an attribute, shows the attribute type and its allowed values.

Examples:
  vuehelper doc                    List all tags
  vuehelper doc el-table           Show docs for el-table
  vuehelper doc el-button size     Show docs for the size attribute
  vuehelper doc --guide            Print the user guide`,
		Args:         cobra.MaximumNArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush() //nolint:errcheck // best-effort flush on exit
			if guide {
				_, err := io.WriteString(out, docs.UserGuide)
				return err
			}
			settings := currentSettings()
			base, err := cfg.knowledgeBase(settings)
			if err != nil {
				renderLoadError(cmd.ErrOrStderr(), cfg.filesystem(), err, settings.KnowledgeBase)
				return errReported
			}
			return docExec(out, base, args)
		},
	}
	cmd.Flags().BoolVar(&guide, "guide", false,
		"Print the user guide (configuration, editor setup, knowledge-base format).")
	return cmd
}

func docExec(w io.Writer, base *kb.KnowledgeBase, args []string) error {
	var (
		doc string
		ok  bool
	)
	switch len(args) {
	case 0:
		return renderTagList(w, base)
	case 1:
		doc, ok = hover.TagDoc(base, args[0])
	default:
		doc, ok = hover.AttributeDoc(base, args[0], args[1])
	}
	if !ok {
		return errors.WithHint(
			errors.Newf("no documentation for %s", strings.Join(args, " ")),
			`run "vuehelper doc" to list the known tags`)
	}
	_, err := fmt.Fprintln(w, doc)
	return err
}

// renderTagList writes each tag name followed by its indented description.
func renderTagList(w io.Writer, base *kb.KnowledgeBase) error {
	for _, t := range base.Tags() {
		header := t.Name
		if meta := strings.TrimSpace(t.Framework + " " + t.Version); meta != "" {
			header += " (" + meta + ")"
		}
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
		if t.Description == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, indent.String(wordwrap.String(t.Description, 72), 2)); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(DocCommand())
}
