// Copyright © 2024 The vuehelper authors

package cmd

import (
	"github.com/luthersystems/vuehelper/complete"
	"github.com/luthersystems/vuehelper/repl"
	"github.com/spf13/cobra"
)

// ReplCommand creates the "repl" command.
func ReplCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	return &cobra.Command{
		Use:   "repl",
		Short: "Try completions interactively",
		Long: `Start an interactive completion playground.

Each line is read as a markup fragment with the cursor at its end. Enter
prints the context found there and every candidate; Tab completes the tag,
attribute or value being typed. Line editing and history are supported via
readline. Use Ctrl-D to exit.

Example session:
  vue> <el-bu
  context: tag prefix=el-bu
    el-button        vue component (version: 2.15)
    ...
  vue> <el-button size="
  context: attribute-value tag=el-button attribute=size
    medium
    small
    mini
  vue> :snippet el-form
  <el-form ref='$1' model='$2' label-width='$3'>
    <el-form-item></el-form-item>
  </el-form>`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := currentSettings()
			base, err := cfg.knowledgeBase(settings)
			if err != nil {
				renderLoadError(cmd.ErrOrStderr(), cfg.filesystem(), err, settings.KnowledgeBase)
				return errReported
			}
			provider := complete.NewProvider(base,
				complete.WithLogger(logger),
				complete.WithStaticSettings(settings))
			repl.RunRepl("vue> ",
				repl.WithProvider(provider),
				repl.WithRequest(settings.Request("")))
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(ReplCommand())
}
