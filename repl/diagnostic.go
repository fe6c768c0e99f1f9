// Copyright © 2024 The vuehelper authors

package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/vuehelper/diagnostic"
	"github.com/luthersystems/vuehelper/hover"
	"github.com/luthersystems/vuehelper/snippet"
)

// renderError writes d with a pointer to :help. REPL input has no file, so
// spans are never attached.
func renderError(w io.Writer, d diagnostic.Diagnostic) {
	d.Notes = append(d.Notes, "use :help to list commands")
	r := &diagnostic.Renderer{Color: diagnostic.ColorAuto}
	_ = r.Render(w, d)
}

func usage(format string, args ...any) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  fmt.Sprintf(format, args...),
	}
}

// command runs a colon command. args[0] is the command name.
func (p *playground) command(args []string) {
	if len(args) == 0 {
		renderError(p.out, usage("missing command"))
		return
	}
	base := p.provider.KnowledgeBase()
	switch args[0] {
	case "help":
		fmt.Fprint(p.out, helpText) //nolint:errcheck // best-effort REPL output
	case "snippet":
		if len(args) != 2 {
			renderError(p.out, usage("usage: :snippet TAG"))
			return
		}
		text, err := snippet.Build(args[1], base, p.request)
		if err != nil {
			renderError(p.out, usage("%v", err))
			return
		}
		fmt.Fprintln(p.out, text) //nolint:errcheck // best-effort REPL output
	case "doc":
		var (
			doc string
			ok  bool
		)
		switch len(args) {
		case 2:
			doc, ok = hover.TagDoc(base, args[1])
		case 3:
			doc, ok = hover.AttributeDoc(base, args[1], args[2])
		default:
			renderError(p.out, usage("usage: :doc TAG [ATTR]"))
			return
		}
		if !ok {
			renderError(p.out, usage("no documentation for %q", strings.Join(args[1:], " ")))
			return
		}
		fmt.Fprintln(p.out, doc) //nolint:errcheck // best-effort REPL output
	default:
		renderError(p.out, usage("unknown command %q", args[0]))
	}
}
