// Copyright © 2024 The vuehelper authors

package cmd

import (
	"fmt"
	"os"

	"github.com/luthersystems/vuehelper/config"
	"github.com/luthersystems/vuehelper/lsp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// LSPCommand creates the "lsp" cobra command with optional embedder
// configuration. Embedders can pass WithKnowledgeBase to serve their own
// component library.
func LSPCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)

	var (
		stdio bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the vuehelper Language Server Protocol server",
		Long: `Start an LSP server for Vue single-file components and HTML.

The language server completes Element UI tags, attributes and attribute
values, shows hover documentation for tags and attributes, and jumps from
bound handler names and imported components to their definitions.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  vuehelper lsp                      Start with stdio transport
  vuehelper lsp --stdio              Same as above (explicit)
  vuehelper lsp --port 7998          Start with TCP on port 7998

Editor configuration (VS Code):
  Install a generic LSP client extension and configure it to run
  "vuehelper lsp --stdio" for .vue and .html files. Settings under the
  "vuehelper" section (indent-size, quotes, languages) are picked up from
  initializationOptions and workspace/didChangeConfiguration.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fs := cfg.filesystem()
			base, err := cfg.knowledgeBase(currentSettings())
			if err != nil {
				renderLoadError(cmd.ErrOrStderr(), fs, err, viper.GetString(config.KeyKnowledgeBase))
				os.Exit(1)
			}

			srv := lsp.New(
				lsp.WithLogger(logger),
				lsp.WithKnowledgeBase(base),
				lsp.WithSettings(config.NewStore(viper.GetViper())),
				lsp.WithFs(fs),
			)

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				logger.Info("vuehelper LSP server listening", zap.String("addr", addr))
				if err := srv.RunTCP(addr); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(1)
				}
			} else {
				if err := srv.RunStdio(); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(1)
				}
			}
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")

	return cmd
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
