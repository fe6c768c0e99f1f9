// Copyright © 2024 The vuehelper authors

package cmd

import (
	"fmt"

	"github.com/luthersystems/vuehelper/diagnostic"
	"github.com/luthersystems/vuehelper/kb"
	"github.com/spf13/cobra"
)

// CheckCommand creates the "check" command, which validates knowledge-base
// extension files.
func CheckCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var excludes []string

	cmd := &cobra.Command{
		Use:   "check [flags] FILE...",
		Short: "Validate knowledge-base extension files",
		Long: `Load knowledge-base extension files and merge each over the built-in
Element UI data, reporting every problem found: YAML syntax errors, unknown
attribute types, subtags or scoped attributes naming undefined tags, and
subtag cycles.

An argument ending in "/..." expands to every .yaml and .yml file below
that directory. The exit status is 1 when any file fails.

Examples:
  vuehelper check components.yaml
  vuehelper check kb/...
  vuehelper check --exclude 'draft-*' kb/...`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cfg.filesystem()
			files, err := expandArgs(fs, args, excludes)
			if err != nil {
				return err
			}
			base := cfg.base
			if base == nil {
				base = kb.MustDefault()
			}

			var diags []diagnostic.Diagnostic
			for _, file := range files {
				lib, err := kb.LoadFile(fs, file)
				if err == nil {
					_, err = base.Extend(lib)
				}
				if err != nil {
					diags = append(diags, loadDiagnostic(err, file))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d tags, %d attributes)\n", //nolint:errcheck // best-effort report
					file, len(lib.Tags), len(lib.Attributes))
			}
			if len(diags) == 0 {
				return nil
			}
			_ = newRenderer(fs).RenderAll(cmd.ErrOrStderr(), diags)
			return errReported
		},
	}
	cmd.Flags().StringSliceVar(&excludes, "exclude", nil,
		"Skip files matching a glob (by path, base name, or directory name).")
	return cmd
}

func init() {
	rootCmd.AddCommand(CheckCommand())
}
