// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

// Package filestoretest provides a shared conformance test suite for
// filestore.FileStore implementations. Each backend should call
// RunConformanceTests from its own _test.go file.
package filestoretest

import (
	"context"
	"errors"
	"testing"

	"github.com/docuchat/docuchat/pkg/filestore"
)

// RunConformanceTests exercises a FileStore implementation against the
// shared contract. The newStore function is called once per sub-test to
// provide an isolated store instance.
func RunConformanceTests(t *testing.T, newStore func(t *testing.T) filestore.FileStore) {
	t.Helper()

	t.Run("PutAndGet", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		content := []byte("%PDF-1.4 fake content")
		if err := store.Put(ctx, "pdf_abc.pdf", content, "application/pdf"); err != nil {
			t.Fatalf("Put: %v", err)
		}

		got, err := store.Get(ctx, "pdf_abc.pdf")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(got) != string(content) {
			t.Errorf("content mismatch: got %q, want %q", got, content)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		if err := store.Put(ctx, "pdf_ow.pdf", []byte("v1"), "application/pdf"); err != nil {
			t.Fatalf("Put v1: %v", err)
		}
		if err := store.Put(ctx, "pdf_ow.pdf", []byte("v2"), "application/pdf"); err != nil {
			t.Fatalf("Put v2: %v", err)
		}

		got, err := store.Get(ctx, "pdf_ow.pdf")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(got) != "v2" {
			t.Errorf("content = %q, want v2", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		if err := store.Put(ctx, "pdf_del.pdf", []byte("bye"), "application/pdf"); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if err := store.Delete(ctx, "pdf_del.pdf"); err != nil {
			t.Fatalf("Delete: %v", err)
		}

		_, err := store.Get(ctx, "pdf_del.pdf")
		if !errors.Is(err, filestore.ErrFileNotFound) {
			t.Errorf("expected ErrFileNotFound after delete, got: %v", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		_, err := store.Get(ctx, "pdf_nonexistent.pdf")
		if !errors.Is(err, filestore.ErrFileNotFound) {
			t.Errorf("Get expected ErrFileNotFound, got: %v", err)
		}

		err = store.Delete(ctx, "pdf_nonexistent.pdf")
		if !errors.Is(err, filestore.ErrFileNotFound) {
			t.Errorf("Delete expected ErrFileNotFound, got: %v", err)
		}
	})
}
