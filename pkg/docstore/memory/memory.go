// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/docuchat/docuchat/pkg/docstore"
)

func init() {
	docstore.Providers.Register("memory", func(_ context.Context, _ map[string]string) (docstore.Store, error) {
		return New(), nil
	})
}

// compile-time check
var _ docstore.Store = (*Store)(nil)

// Store is an in-memory document store. State is lost on restart.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*docstore.Document
}

// New creates a new in-memory document store.
func New() *Store {
	return &Store{
		docs: make(map[string]*docstore.Document),
	}
}

// CreateDocument stores a new document record.
func (s *Store) CreateDocument(_ context.Context, doc *docstore.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[doc.ID]; exists {
		return fmt.Errorf("document %s already exists", doc.ID)
	}

	s.docs[doc.ID] = doc
	return nil
}

// GetDocument returns a document by ID.
func (s *Store) GetDocument(_ context.Context, id string) (*docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.docs[id]
	if !exists {
		return nil, fmt.Errorf("document %s: %w", id, docstore.ErrDocumentNotFound)
	}

	cp := *doc
	return &cp, nil
}

// DeleteDocument removes a document record.
func (s *Store) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[id]; !exists {
		return fmt.Errorf("document %s: %w", id, docstore.ErrDocumentNotFound)
	}

	delete(s.docs, id)
	return nil
}

// ListDocumentsPaginated returns documents with cursor-based pagination
// sorted by UploadedAt.
func (s *Store) ListDocumentsPaginated(_ context.Context, after, before string, limit int, order string) ([]*docstore.Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	all := make([]*docstore.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		all = append(all, doc)
	}

	// Sort by UploadedAt for deterministic ordering
	sort.Slice(all, func(i, j int) bool {
		if order == "desc" {
			return all[i].UploadedAt.After(all[j].UploadedAt)
		}
		return all[i].UploadedAt.Before(all[j].UploadedAt)
	})

	var filtered []*docstore.Document
	foundAfter := after == ""

	for _, doc := range all {
		if after != "" && !foundAfter {
			if doc.ID == after {
				foundAfter = true
			}
			continue
		}

		if before != "" && doc.ID == before {
			break
		}

		filtered = append(filtered, doc)

		if len(filtered) >= limit {
			break
		}
	}

	hasMore := len(all) > len(filtered) && len(filtered) == limit

	return filtered, hasMore, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close(_ context.Context) error {
	return nil
}
