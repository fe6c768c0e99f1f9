// Copyright © 2024 The vuehelper authors

package lsp

import (
	"github.com/luthersystems/vuehelper/hover"
	"github.com/luthersystems/vuehelper/scanner"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentHover handles the textDocument/hover request.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	buf := doc.Snapshot()
	st := s.settings.Settings()
	pos := toPosition(params.Position)
	if !st.Supports(buf.LanguageID()) {
		return nil, nil
	}
	if st.TemplateGated(buf.LanguageID()) && !scanner.InTemplateRegion(buf, pos) {
		return nil, nil
	}

	res, ok := hover.At(s.base, buf, pos)
	if !ok {
		return nil, nil
	}
	rng := toLSPRange(res.Range)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: res.Markdown,
		},
		Range: &rng,
	}, nil
}
