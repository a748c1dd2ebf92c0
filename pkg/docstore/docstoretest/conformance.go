// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

// Package docstoretest provides a shared conformance test suite for
// docstore.Store implementations. Each backend should call
// RunConformanceTests from its own _test.go file.
package docstoretest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/docuchat/docuchat/pkg/docstore"
)

// RunConformanceTests exercises a Store implementation against the shared
// contract. The newStore function is called once per sub-test to provide an
// isolated store instance.
func RunConformanceTests(t *testing.T, newStore func(t *testing.T) docstore.Store) {
	t.Helper()

	t.Run("CreateAndGet", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		doc := &docstore.Document{
			ID:          "pdf_abc123",
			Filename:    "report.pdf",
			StoragePath: "pdf_abc123.pdf",
			Text:        "line one\nline two",
			Pages:       2,
			Bytes:       1024,
			Vectors:     []float32{},
			UploadedAt:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		}

		if err := store.CreateDocument(ctx, doc); err != nil {
			t.Fatalf("CreateDocument: %v", err)
		}

		got, err := store.GetDocument(ctx, doc.ID)
		if err != nil {
			t.Fatalf("GetDocument: %v", err)
		}

		if got.ID != doc.ID || got.Filename != doc.Filename ||
			got.StoragePath != doc.StoragePath || got.Text != doc.Text ||
			got.Pages != doc.Pages || got.Bytes != doc.Bytes {
			t.Errorf("GetDocument returned unexpected record: %+v", got)
		}
		if len(got.Vectors) != 0 {
			t.Errorf("expected empty vectors placeholder, got %v", got.Vectors)
		}
		if !got.UploadedAt.Equal(doc.UploadedAt) {
			t.Errorf("UploadedAt = %v, want %v", got.UploadedAt, doc.UploadedAt)
		}
	})

	t.Run("SentinelRoundTrip", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		doc := &docstore.Document{
			ID:         "pdf_failed1",
			Filename:   "scan.pdf",
			Text:       docstore.ExtractionFailedText,
			Pages:      1,
			Vectors:    []float32{},
			UploadedAt: time.Now().UTC().Truncate(time.Millisecond),
		}

		if err := store.CreateDocument(ctx, doc); err != nil {
			t.Fatalf("CreateDocument: %v", err)
		}

		got, err := store.GetDocument(ctx, doc.ID)
		if err != nil {
			t.Fatalf("GetDocument: %v", err)
		}
		if !got.ExtractionFailed() {
			t.Errorf("expected ExtractionFailed() true, text = %q", got.Text)
		}
		if got.Pages != 1 {
			t.Errorf("Pages = %d, want 1 for failed extraction", got.Pages)
		}
	})

	t.Run("DuplicateCreate", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		doc := &docstore.Document{
			ID:         "pdf_dup1",
			Filename:   "a.pdf",
			Pages:      1,
			UploadedAt: time.Now().UTC(),
		}
		if err := store.CreateDocument(ctx, doc); err != nil {
			t.Fatalf("CreateDocument: %v", err)
		}
		if err := store.CreateDocument(ctx, doc); err == nil {
			t.Error("expected error on duplicate CreateDocument")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		doc := &docstore.Document{
			ID:         "pdf_del1",
			Filename:   "del.pdf",
			Pages:      1,
			UploadedAt: time.Now().UTC(),
		}
		if err := store.CreateDocument(ctx, doc); err != nil {
			t.Fatalf("CreateDocument: %v", err)
		}
		if err := store.DeleteDocument(ctx, doc.ID); err != nil {
			t.Fatalf("DeleteDocument: %v", err)
		}
		_, err := store.GetDocument(ctx, doc.ID)
		if !errors.Is(err, docstore.ErrDocumentNotFound) {
			t.Errorf("expected ErrDocumentNotFound after delete, got: %v", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		_, err := store.GetDocument(ctx, "pdf_nonexistent")
		if !errors.Is(err, docstore.ErrDocumentNotFound) {
			t.Errorf("GetDocument expected ErrDocumentNotFound, got: %v", err)
		}

		err = store.DeleteDocument(ctx, "pdf_nonexistent")
		if !errors.Is(err, docstore.ErrDocumentNotFound) {
			t.Errorf("DeleteDocument expected ErrDocumentNotFound, got: %v", err)
		}
	})

	t.Run("ListPaginated", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		baseTime := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 5; i++ {
			doc := &docstore.Document{
				ID:         fmt.Sprintf("pdf_list%d", i),
				Filename:   fmt.Sprintf("doc%d.pdf", i),
				Pages:      1,
				UploadedAt: baseTime.Add(time.Duration(i) * time.Minute),
			}
			if err := store.CreateDocument(ctx, doc); err != nil {
				t.Fatalf("CreateDocument %d: %v", i, err)
			}
		}

		// Ascending, first page of 2
		docs, hasMore, err := store.ListDocumentsPaginated(ctx, "", "", 2, "asc")
		if err != nil {
			t.Fatalf("ListDocumentsPaginated: %v", err)
		}
		if len(docs) != 2 {
			t.Fatalf("expected 2 documents, got %d", len(docs))
		}
		if docs[0].ID != "pdf_list0" || docs[1].ID != "pdf_list1" {
			t.Errorf("unexpected page order: %s, %s", docs[0].ID, docs[1].ID)
		}
		if !hasMore {
			t.Error("expected hasMore=true for first page")
		}

		// Cursor continues after the last seen ID
		docs, _, err = store.ListDocumentsPaginated(ctx, "pdf_list1", "", 2, "asc")
		if err != nil {
			t.Fatalf("ListDocumentsPaginated after cursor: %v", err)
		}
		if len(docs) != 2 || docs[0].ID != "pdf_list2" {
			t.Errorf("cursor page mismatch: %+v", ids(docs))
		}

		// Descending order reverses
		docs, _, err = store.ListDocumentsPaginated(ctx, "", "", 1, "desc")
		if err != nil {
			t.Fatalf("ListDocumentsPaginated desc: %v", err)
		}
		if len(docs) != 1 || docs[0].ID != "pdf_list4" {
			t.Errorf("desc order mismatch: %+v", ids(docs))
		}
	})
}

func ids(docs []*docstore.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}
