// Copyright © 2024 The vuehelper authors

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/vuehelper/config"
	"github.com/luthersystems/vuehelper/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile   string
	colorFlag string
	debugFlag bool

	logger            = zap.NewNop()
	shutdownTelemetry = func(context.Context) error { return nil }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vuehelper",
	Short: "Completion engine for Vue and Element UI markup",
	Long: `vuehelper completes Element UI component markup in Vue single-file
components and HTML. It offers tag snippets with their required children,
the attributes a tag accepts, and the values an attribute allows.

Getting started:
  vuehelper lsp                        Run the language server over stdio
  vuehelper complete App.vue 3 14      Print the candidates at line 3, column 14
  vuehelper doc el-table               Show documentation for a tag
  vuehelper snippet el-form            Print the snippet inserted for a tag
  vuehelper check ext.yaml             Validate a knowledge-base extension
  vuehelper repl                       Try completions interactively

Configuration is read from $HOME/.vuehelper.yaml (or --config) and from
VUEHELPER_* environment variables, e.g. VUEHELPER_INDENT_SIZE=4.
Run "vuehelper doc --guide" for the full guide.`,
	SilenceErrors: true,
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		return shutdownTelemetry(cmd.Context())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
			for _, hint := range errors.GetAllHints(err) {
				fmt.Fprintln(os.Stderr, "hint:", hint)
			}
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vuehelper.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"Log debug messages and completion spans to stderr.")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.SetDefaults(viper.GetViper())
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".vuehelper")
	}

	viper.SetEnvPrefix("VUEHELPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	logger = newLogger(debugFlag)
	if err := viper.ReadInConfig(); err == nil {
		logger.Info("using config file", zap.String("path", viper.ConfigFileUsed()))
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "reading config %s: %v\n", cfgFile, err)
		os.Exit(1)
	}

	if debugFlag {
		shutdown, err := telemetry.Setup(logger)
		if err != nil {
			logger.Warn("tracing disabled", zap.Error(err))
			return
		}
		shutdownTelemetry = shutdown
	}
}

// newLogger logs to stderr, which stays free of LSP traffic.
func newLogger(debug bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
