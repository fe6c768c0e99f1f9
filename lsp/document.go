// Copyright © 2024 The vuehelper authors

package lsp

import (
	"sync"

	"github.com/luthersystems/vuehelper/document"
)

// Document represents an open text document tracked by the LSP server.
// Content is held in an immutable buffer; a change swaps in a new one, so a
// request working on a snapshot never sees a later edit.
type Document struct {
	mu         sync.Mutex
	URI        string
	Version    int32
	LanguageID string
	buf        *document.Buffer
}

// Snapshot returns the current content.
func (d *Document) Snapshot() *document.Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf
}

// Path returns the file system path of the document.
func (d *Document) Path() string {
	return uriToPath(d.URI)
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store.
func (s *DocumentStore) Open(uri, languageID string, version int32, content string) *Document {
	doc := &Document{
		URI:        uri,
		Version:    version,
		LanguageID: languageID,
		buf:        document.New(languageID, content),
	}
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change replaces a document's content (full sync). A change for a
// document that was never opened opens it with an empty language.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.buf = document.New(doc.LanguageID, content)
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// Len returns the number of open documents.
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
