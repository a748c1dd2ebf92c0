// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

// Package filestore defines pluggable storage for raw uploaded PDF bytes.
// Document metadata lives in the docstore; backends here only move content
// keyed by a storage path.
package filestore

import (
	"context"
	"errors"

	"github.com/docuchat/docuchat/pkg/provider"
)

// ErrFileNotFound is returned when no content exists at a path.
var ErrFileNotFound = errors.New("file not found")

// Providers is the registry of file store backend implementations.
// Import implementation packages with blank imports to register them:
//
//	import _ "github.com/docuchat/docuchat/pkg/filestore/memory"
//	import _ "github.com/docuchat/docuchat/pkg/filestore/filesystem"
//	import _ "github.com/docuchat/docuchat/pkg/filestore/s3"
var Providers = provider.NewRegistry[FileStore]("file_store")

// FileStore defines the interface for pluggable content storage backends.
// Delete exists for the store contract (conformance-tested); the HTTP
// surface never deletes uploaded content.
type FileStore interface {
	Put(ctx context.Context, path string, content []byte, mimeType string) error
	Get(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
	Close(ctx context.Context) error
}
