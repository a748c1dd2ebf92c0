// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/docuchat/docuchat/pkg/filestore"
)

func init() {
	filestore.Providers.Register("memory", func(_ context.Context, _ map[string]string) (filestore.FileStore, error) {
		return New(), nil
	})
}

// compile-time check
var _ filestore.FileStore = (*Store)(nil)

// Store is an in-memory file store.
type Store struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// New creates a new in-memory file store.
func New() *Store {
	return &Store{
		files: make(map[string][]byte),
	}
}

// Put stores content at path, overwriting any previous content.
func (s *Store) Put(_ context.Context, path string, content []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(content))
	copy(cp, content)
	s.files[path] = cp
	return nil
}

// Get returns the content at path.
func (s *Store) Get(_ context.Context, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, exists := s.files[path]
	if !exists {
		return nil, fmt.Errorf("file %s: %w", path, filestore.ErrFileNotFound)
	}
	return content, nil
}

// Delete removes the content at path.
func (s *Store) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.files[path]; !exists {
		return fmt.Errorf("file %s: %w", path, filestore.ErrFileNotFound)
	}
	delete(s.files, path)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close(_ context.Context) error {
	return nil
}
