// Copyright © 2024 The vuehelper authors

package lsp

import (
	"net/url"
	"strings"

	"github.com/luthersystems/vuehelper/document"
	"github.com/luthersystems/vuehelper/suggest"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// toPosition converts an LSP position. Both count UTF-16 code units.
func toPosition(p protocol.Position) document.Position {
	return document.Position{Line: int(p.Line), Character: int(p.Character)}
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

func toLSPPosition(p document.Position) protocol.Position {
	return protocol.Position{Line: safeUint(p.Line), Character: safeUint(p.Character)}
}

func toLSPRange(r document.Range) protocol.Range {
	return protocol.Range{Start: toLSPPosition(r.Start), End: toLSPPosition(r.End)}
}

// mapCompletionItemKind converts a candidate kind.
func mapCompletionItemKind(kind suggest.Kind) protocol.CompletionItemKind {
	switch kind {
	case suggest.KindSnippet:
		return protocol.CompletionItemKindSnippet
	case suggest.KindMethod:
		return protocol.CompletionItemKindMethod
	case suggest.KindValue:
		return protocol.CompletionItemKindValue
	default:
		return protocol.CompletionItemKindProperty
	}
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	path, ok := strings.CutPrefix(uri, "file://")
	if !ok {
		return uri
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		return unescaped
	}
	return path
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + (&url.URL{Path: path}).EscapedPath()
	}
	return path
}
