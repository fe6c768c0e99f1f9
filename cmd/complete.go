// Copyright © 2024 The vuehelper authors

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/vuehelper/complete"
	"github.com/luthersystems/vuehelper/config"
	"github.com/luthersystems/vuehelper/diagnostic"
	"github.com/luthersystems/vuehelper/document"
	"github.com/luthersystems/vuehelper/scanner"
	"github.com/luthersystems/vuehelper/suggest"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// completionResult is the JSON document printed by the complete command.
type completionResult struct {
	File      string              `json:"file"`
	Language  string              `json:"language"`
	Line      int                 `json:"line"`
	Character int                 `json:"character"`
	Context   string              `json:"context"`
	Tag       string              `json:"tag,omitempty"`
	Attribute string              `json:"attribute,omitempty"`
	Items     []suggest.Candidate `json:"items"`
}

// CompleteCommand creates the "complete" command, which prints the
// candidates at one position of a file as JSON.
func CompleteCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var language string

	cmd := &cobra.Command{
		Use:   "complete [flags] FILE LINE CHARACTER",
		Short: "Print the completion candidates at a position as JSON",
		Long: `Print the completion candidates at a position of a file as JSON.

LINE and CHARACTER are 1-based, as editors display them. CHARACTER counts
UTF-16 code units. The language is taken from the file name through the
associations setting unless --language is given.

Examples:
  vuehelper complete App.vue 3 14
  vuehelper complete --language html page.tpl 10 8`,
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Wrap(err, "invalid line number")
			}
			char, err := strconv.Atoi(args[2])
			if err != nil {
				return errors.Wrap(err, "invalid character number")
			}
			return runComplete(cmd, cfg, args[0], language, line, char)
		},
	}
	cmd.Flags().StringVar(&language, "language", "",
		"Language of the file (vue, html); overrides the associations setting.")
	return cmd
}

func runComplete(cmd *cobra.Command, cfg *cmdConfig, path, language string, line, char int) error {
	fs := cfg.filesystem()
	settings := currentSettings()
	stderr := cmd.ErrOrStderr()

	base, err := cfg.knowledgeBase(settings)
	if err != nil {
		renderLoadError(stderr, fs, err, settings.KnowledgeBase)
		return errReported
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return errors.Wrap(err, "reading document")
	}
	if language == "" {
		language = settings.Associations.Resolve(path, "", settings.Languages)
	}
	doc := document.New(language, string(data))

	if line < 1 || line > doc.LineCount() || char < 1 {
		_ = newRenderer(fs).Render(stderr, positionDiagnostic(doc, path, line, char))
		return errReported
	}
	pos := document.Position{Line: line - 1, Character: char - 1}

	provider := complete.NewProvider(base,
		complete.WithLogger(logger),
		complete.WithStaticSettings(settings))
	sctx, ok := provider.Context(doc, pos)
	if !ok {
		_ = newRenderer(fs).Render(stderr, gatedDiagnostic(settings, doc, path, line, char))
	}
	items, err := provider.Complete(cmd.Context(), doc, pos, settings.Request(path))
	if err != nil {
		return errors.Wrap(err, "completing")
	}

	res := completionResult{
		File:      path,
		Language:  language,
		Line:      line,
		Character: char,
		Context:   sctx.Kind.String(),
		Attribute: sctx.Attribute,
		Items:     items,
	}
	if sctx.Tag != nil {
		res.Tag = sctx.Tag.Text
	}
	if res.Items == nil {
		res.Items = []suggest.Candidate{}
	}
	return writeJSON(cmd.OutOrStdout(), res)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encoding result")
}

func positionDiagnostic(doc *document.Buffer, path string, line, char int) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  fmt.Sprintf("position %d:%d is outside the document", line, char),
		Spans:    []diagnostic.Span{{File: path}},
		Notes:    []string{fmt.Sprintf("the document has %d lines; positions are 1-based", doc.LineCount())},
	}
}

// gatedDiagnostic explains why no completion is offered at a position.
func gatedDiagnostic(s config.Settings, doc *document.Buffer, path string, line, char int) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityNote,
		Message:  "completion is disabled at this position",
		Spans:    []diagnostic.Span{{File: path, Line: line, Col: char}},
	}
	lang := doc.LanguageID()
	switch {
	case !s.Supports(lang):
		d.Notes = append(d.Notes, fmt.Sprintf("language %q is not in the languages setting", lang))
	case !scanner.InTemplateRegion(doc, document.Position{Line: line - 1, Character: char - 1}):
		d.Notes = append(d.Notes, "the position is outside the <template> block")
	}
	return d
}
