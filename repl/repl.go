// Copyright © 2024 The vuehelper authors

// Package repl is an interactive playground for the completion engine. Each
// line entered is a markup fragment with the cursor at its end; the
// playground prints the context found there and the candidates offered.
package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/vuehelper/complete"
	"github.com/luthersystems/vuehelper/config"
	"github.com/luthersystems/vuehelper/diagnostic"
	"github.com/luthersystems/vuehelper/document"
	"github.com/luthersystems/vuehelper/kb"
)

// Language is the document language fragments are classified as. It is
// not template gated, so no <template> wrapper is needed.
const Language = "html"

const helpText = `Type a markup fragment; the cursor is at the end of the line.
  <el-bu             tag candidates
  <el-button         attribute candidates (note the trailing space)
  <el-button size="  value candidates
Tab completes the word being typed.

Commands:
  :snippet TAG       print the snippet inserted for TAG
  :doc TAG [ATTR]    show documentation for a tag or attribute
  :help              show this message
`

type options struct {
	stdin    io.ReadCloser
	stderr   io.WriteCloser
	provider *complete.Provider
	request  config.Request
}

func newOptions(opts ...Option) *options {
	cfg := &options{request: config.DefaultRequest()}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.provider == nil {
		cfg.provider = complete.NewProvider(kb.MustDefault())
	}
	return cfg
}

// Option configures the playground.
type Option func(*options)

// WithStdin overrides the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *options) {
		c.stdin = stdin
	}
}

// WithStderr overrides the output of the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *options) {
		c.stderr = stderr
	}
}

// WithProvider sets the completion provider. The default serves the
// built-in knowledge base.
func WithProvider(p *complete.Provider) Option {
	return func(c *options) {
		c.provider = p
	}
}

// WithRequest sets the indentation and quote style used for snippets.
func WithRequest(req config.Request) Option {
	return func(c *options) {
		c.request = req
	}
}

// RunRepl reads fragments until EOF and reports completions for each.
func RunRepl(prompt string, opts ...Option) {
	cfg := newOptions(opts...)
	var out io.Writer = os.Stderr
	if cfg.stderr != nil {
		out = cfg.stderr
	}

	hist := historyPath()
	ensureHistoryFilePermissions(hist)

	p := &playground{
		provider: cfg.provider,
		request:  cfg.request,
		out:      out,
	}
	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       hist,
		HistorySearchFold: true,
		AutoComplete:      &markupCompleter{p: p},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		errlnf("Terminal initialization failure: %v", err)
		os.Exit(1)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		p.eval(line)
	}
}

// playground evaluates one line at a time.
type playground struct {
	provider *complete.Provider
	request  config.Request
	out      io.Writer
}

// fragment wraps line as a single-line document with the cursor at its end.
func fragment(line string) (*document.Buffer, document.Position) {
	return document.New(Language, line), document.Position{Line: 0, Character: document.UTF16Len(line)}
}

func (p *playground) eval(line string) {
	if cmd, ok := strings.CutPrefix(strings.TrimSpace(line), ":"); ok {
		p.command(strings.Fields(cmd))
		return
	}
	doc, pos := fragment(line)
	sctx, _ := p.provider.Context(doc, pos)
	cands, err := p.provider.Complete(context.Background(), doc, pos, p.request)
	if err != nil {
		renderError(p.out, diagnostic.Diagnostic{Severity: diagnostic.SeverityError, Message: err.Error()})
		return
	}
	header := "context: " + sctx.Kind.String()
	if sctx.Tag != nil {
		header += " tag=" + sctx.Tag.Text
	}
	if sctx.Prefix != "" {
		header += " prefix=" + sctx.Prefix
	}
	if sctx.Attribute != "" {
		header += " attribute=" + sctx.Attribute
	}
	fmt.Fprintln(p.out, header) //nolint:errcheck // best-effort REPL output
	if len(cands) == 0 {
		fmt.Fprintln(p.out, "  (no candidates)") //nolint:errcheck // best-effort REPL output
		return
	}
	width := 0
	for _, c := range cands {
		width = max(width, len(c.Label))
	}
	for _, c := range cands {
		fmt.Fprintf(p.out, "  %-*s  %s\n", width, c.Label, c.Detail) //nolint:errcheck // best-effort REPL output
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vuehelper_history")
}

// ensureHistoryFilePermissions creates path with mode 0600, or restricts an
// existing file to it. An empty path is ignored.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o600) //nolint:gosec // path is the user's own history file
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0o600)
}

func errlnf(format string, v ...interface{}) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Fprintf(os.Stderr, format, v...) //nolint:errcheck // best-effort error display
}
