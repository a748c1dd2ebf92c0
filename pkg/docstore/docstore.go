// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

// Package docstore defines the document record and the pluggable store
// interface behind which records live. The memory backend keeps records for
// the process lifetime; the sqlite and postgres backends persist them across
// restarts behind the same interface.
package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/docuchat/docuchat/pkg/provider"
)

// ErrDocumentNotFound is returned when a document does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// ExtractionFailedText is the fixed sentinel stored in place of extracted
// text when the PDF parser fails. Records carrying it are still valid
// documents; the chat engine detects it and answers with a fixed apology
// instead of document content.
const ExtractionFailedText = "[Text extraction failed: this PDF may be scanned, encrypted, or corrupted]"

// Providers is the registry of document store backend implementations.
// Import implementation packages with blank imports to register them:
//
//	import _ "github.com/docuchat/docuchat/pkg/docstore/memory"
//	import _ "github.com/docuchat/docuchat/pkg/docstore/sqlite"
//	import _ "github.com/docuchat/docuchat/pkg/docstore/postgres"
var Providers = provider.NewRegistry[Store]("document_store")

// Document is the stored record for one uploaded PDF.
type Document struct {
	ID          string    // "pdf_" + UUID
	Filename    string    // original upload filename
	StoragePath string    // key of the raw bytes in the file store
	Text        string    // extracted text, or ExtractionFailedText
	Pages       int       // declared page count, 1 when extraction failed
	Bytes       int64     // size of the uploaded file
	Vectors     []float32 // placeholder, always empty (no embedding pipeline)
	UploadedAt  time.Time
}

// ExtractionFailed reports whether the record carries the failure sentinel
// instead of real extracted text.
func (d *Document) ExtractionFailed() bool {
	return d.Text == ExtractionFailedText
}

// Store defines the interface for pluggable document record backends.
// Records are immutable once created: there is no update operation, and the
// HTTP surface exposes no delete (DeleteDocument exists for the store
// contract and is exercised by the conformance suite only).
type Store interface {
	CreateDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, id string) (*Document, error)
	DeleteDocument(ctx context.Context, id string) error
	ListDocumentsPaginated(ctx context.Context, after, before string, limit int, order string) ([]*Document, bool, error)
	Close(ctx context.Context) error
}
