// Copyright © 2024 The vuehelper authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDefinition handles the textDocument/definition request.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	buf := doc.Snapshot()
	if !s.settings.Settings().Supports(buf.LanguageID()) {
		return nil, nil
	}

	loc, ok := s.navigate.Definition(buf, doc.Path(), toPosition(params.Position))
	if !ok {
		return nil, nil
	}
	defURI := params.TextDocument.URI
	if loc.Path != doc.Path() {
		defURI = pathToURI(loc.Path)
	}
	return protocol.Location{
		URI:   defURI,
		Range: toLSPRange(loc.Range),
	}, nil
}
