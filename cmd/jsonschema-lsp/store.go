package main

import (
	"slices"
	"sync"

	"go.lsp.dev/protocol"

	"github.com/PermanChronicles/json-lsp-og/schemadoc"
)

type document struct {
	uri     protocol.DocumentURI
	version int32
	text    []byte

	// built is the latest model whose version matched the text when it
	// was installed; it may trail text while a rebuild is running.
	built *schemadoc.Document
}

// documentStore holds the open documents. Entries are replaced, never
// modified, so a snapshot returned by get stays valid.
type documentStore struct {
	mu   sync.RWMutex
	docs map[protocol.DocumentURI]*document
}

func newDocumentStore() *documentStore {
	return &documentStore{docs: map[protocol.DocumentURI]*document{}}
}

func (s *documentStore) get(uri protocol.DocumentURI) *document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// set records new text for uri. Older versions are ignored.
func (s *documentStore) set(uri protocol.DocumentURI, version int32, text []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.docs[uri]
	if old != nil && old.version > version {
		return false
	}
	d := &document{uri: uri, version: version, text: text}
	if old != nil {
		d.built = old.built
	}
	s.docs[uri] = d
	return true
}

// install stores a build of version. It fails when the document changed
// or was closed since the build started.
func (s *documentStore) install(uri protocol.DocumentURI, version int32, built *schemadoc.Document) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.docs[uri]
	if old == nil || old.version != version {
		return false
	}
	d := *old
	d.built = built
	s.docs[uri] = &d
	return true
}

func (s *documentStore) current(uri protocol.DocumentURI, version int32) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d := s.docs[uri]
	return d != nil && d.version == version
}

func (s *documentStore) remove(uri protocol.DocumentURI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// uris lists the open documents in a stable order.
func (s *documentStore) uris() []protocol.DocumentURI {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]protocol.DocumentURI, 0, len(s.docs))
	for u := range s.docs {
		res = append(res, u)
	}
	slices.Sort(res)
	return res
}
