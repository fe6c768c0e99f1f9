// Copyright © 2024 The vuehelper authors

package cmd

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/luthersystems/vuehelper/diagnostic"
	"github.com/spf13/afero"
)

// errReported is returned by commands that already rendered their failures.
var errReported = errors.New("errors reported")

func newRenderer(fs afero.Fs) *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: diagnostic.ParseColorMode(colorFlag), Fs: fs}
}

// loadDiagnostic converts a knowledge-base load failure for file. Each
// validation problem becomes a note; hints are appended after them.
func loadDiagnostic(err error, file string) diagnostic.Diagnostic {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		d := diagnostic.Diagnostic{
			Severity: diagnostic.SeverityError,
			Message:  "invalid knowledge base",
			Spans:    []diagnostic.Span{{File: file}},
		}
		for _, e := range merr.Errors {
			d.Notes = append(d.Notes, e.Error())
		}
		return d
	}
	d := diagnostic.FromError(err, file)
	d.Notes = append(d.Notes, errors.GetAllHints(err)...)
	return d
}

// renderLoadError writes a knowledge-base failure to w.
func renderLoadError(w io.Writer, fs afero.Fs, err error, file string) {
	_ = newRenderer(fs).Render(w, loadDiagnostic(err, file))
}
