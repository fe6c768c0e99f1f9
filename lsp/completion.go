// Copyright © 2024 The vuehelper authors

package lsp

import (
	"context"

	"github.com/luthersystems/vuehelper/suggest"
	"github.com/tliron/glsp"
	"go.uber.org/zap"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCompletion handles the textDocument/completion request. Each
// request works on its own document snapshot and settings copy and runs
// under the configured request timeout. A request that times out returns
// no result rather than a partial list.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	buf := doc.Snapshot()
	st := s.settings.Settings()
	req := st.Request(doc.Path())

	ctx := context.Background()
	if st.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, st.RequestTimeout)
		defer cancel()
	}

	candidates, err := s.provider.Complete(ctx, buf, toPosition(params.Position), req)
	if err != nil {
		s.logger.Warn("completion abandoned", zap.String("uri", doc.URI), zap.Error(err))
		return nil, nil
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return completionItems(candidates), nil
}

// completionItems converts candidates to LSP completion items.
func completionItems(candidates []suggest.Candidate) []protocol.CompletionItem {
	items := make([]protocol.CompletionItem, 0, len(candidates))
	for _, c := range candidates {
		kind := mapCompletionItemKind(c.Kind)
		format := protocol.InsertTextFormatPlainText
		if c.Snippet {
			format = protocol.InsertTextFormatSnippet
		}
		item := protocol.CompletionItem{
			Label:            c.Label,
			Kind:             &kind,
			InsertText:       strPtr(c.InsertText),
			InsertTextFormat: &format,
		}
		if c.Detail != "" {
			item.Detail = strPtr(c.Detail)
		}
		if c.SortKey != "" {
			item.SortText = strPtr(c.SortKey)
		}
		if c.Documentation != "" {
			item.Documentation = &protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: c.Documentation,
			}
		}
		items = append(items, item)
	}
	return items
}
