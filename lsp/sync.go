// Copyright © 2024 The vuehelper authors

package lsp

import (
	"github.com/tliron/glsp"
	"go.uber.org/zap"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDidOpen handles the textDocument/didOpen notification. The
// document language is the client's identifier when it is one we support,
// otherwise the one the configured associations give its path.
func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	st := s.settings.Settings()
	uri := params.TextDocument.URI
	lang := st.Associations.Resolve(uriToPath(uri), params.TextDocument.LanguageID, st.Languages)
	s.docs.Open(uri, lang, int32(params.TextDocument.Version), params.TextDocument.Text)
	s.logger.Debug("opened",
		zap.String("uri", uri),
		zap.String("language", lang),
		zap.Bool("supported", st.Supports(lang)))
	return nil
}

// textDocumentDidChange handles the textDocument/didChange notification.
func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	var changed bool
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content, changed = c.Text, true
		case protocol.TextDocumentContentChangeEvent:
			content, changed = c.Text, true
		}
	}
	if !changed {
		return nil
	}
	s.docs.Change(params.TextDocument.URI, int32(params.TextDocument.Version), content)
	return nil
}

// textDocumentDidClose handles the textDocument/didClose notification.
func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.Close(params.TextDocument.URI)
	return nil
}
