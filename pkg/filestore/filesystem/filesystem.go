// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docuchat/docuchat/pkg/filestore"
)

func init() {
	filestore.Providers.Register("filesystem", func(_ context.Context, params map[string]string) (filestore.FileStore, error) {
		return New(params["base_dir"])
	})
}

// compile-time check
var _ filestore.FileStore = (*Store)(nil)

// Store implements filestore.FileStore backed by a local directory.
// Content lives at <baseDir>/<path>; paths are store keys, not
// user-controlled names.
type Store struct {
	baseDir string
}

// New creates a filesystem-backed Store, creating baseDir if it does not
// exist.
func New(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create base dir %s: %w", baseDir, err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Put writes content atomically (temp file + rename).
func (s *Store) Put(_ context.Context, path string, content []byte, _ string) error {
	dst := filepath.Join(s.baseDir, path)
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("write content: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("rename content: %w", err)
	}
	return nil
}

// Get returns the content at path.
func (s *Store) Get(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file %s: %w", path, filestore.ErrFileNotFound)
		}
		return nil, fmt.Errorf("read content: %w", err)
	}
	return data, nil
}

// Delete removes the content at path.
func (s *Store) Delete(_ context.Context, path string) error {
	dst := filepath.Join(s.baseDir, path)
	if _, err := os.Stat(dst); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file %s: %w", path, filestore.ErrFileNotFound)
		}
		return fmt.Errorf("stat content: %w", err)
	}
	return os.Remove(dst)
}

// Close is a no-op for the filesystem store.
func (s *Store) Close(_ context.Context) error {
	return nil
}
