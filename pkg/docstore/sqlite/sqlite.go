// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/docuchat/docuchat/pkg/docstore"

	_ "modernc.org/sqlite"
)

func init() {
	docstore.Providers.Register("sqlite", func(_ context.Context, params map[string]string) (docstore.Store, error) {
		return New(params["path"])
	})
}

// compile-time check
var _ docstore.Store = (*Store)(nil)

// Store is a SQLite-backed document store. It keeps records across restarts
// behind the same interface as the memory backend.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at path.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite docstore: path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createTables() error {
	stmt := `CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL DEFAULT '',
		storage_path TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL DEFAULT '',
		pages INTEGER NOT NULL DEFAULT 1,
		bytes INTEGER NOT NULL DEFAULT 0,
		vectors TEXT NOT NULL DEFAULT '[]',
		uploaded_at TEXT NOT NULL
	)`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("sqlite create tables: %w", err)
	}
	return nil
}

// CreateDocument inserts a new record. Duplicate IDs are an error.
func (s *Store) CreateDocument(ctx context.Context, doc *docstore.Document) error {
	vectors, err := marshalVectors(doc.Vectors)
	if err != nil {
		return fmt.Errorf("marshal vectors: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (id, filename, storage_path, text, pages, bytes, vectors, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Filename, doc.StoragePath, doc.Text, doc.Pages, doc.Bytes,
		vectors, doc.UploadedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sqlite insert document %s: %w", doc.ID, err)
	}
	return nil
}

// GetDocument returns a record by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (*docstore.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, storage_path, text, pages, bytes, vectors, uploaded_at
		 FROM documents WHERE id = ?`, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", id, docstore.ErrDocumentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite get document %s: %w", id, err)
	}
	return doc, nil
}

// DeleteDocument removes a record by ID.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite delete document %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("document %s: %w", id, docstore.ErrDocumentNotFound)
	}
	return nil
}

// ListDocumentsPaginated returns records sorted by uploaded_at with
// cursor-based pagination.
func (s *Store) ListDocumentsPaginated(ctx context.Context, after, before string, limit int, order string) ([]*docstore.Document, bool, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	dir := "ASC"
	if order == "desc" {
		dir = "DESC"
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, storage_path, text, pages, bytes, vectors, uploaded_at
		 FROM documents ORDER BY uploaded_at `+dir)
	if err != nil {
		return nil, false, fmt.Errorf("sqlite list documents: %w", err)
	}
	defer rows.Close()

	var all []*docstore.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, false, fmt.Errorf("sqlite scan document: %w", err)
		}
		all = append(all, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("sqlite list documents: %w", err)
	}

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

// Close closes the underlying database.
func (s *Store) Close(_ context.Context) error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*docstore.Document, error) {
	var doc docstore.Document
	var vectors, uploadedAt string

	if err := row.Scan(&doc.ID, &doc.Filename, &doc.StoragePath, &doc.Text,
		&doc.Pages, &doc.Bytes, &vectors, &uploadedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(vectors), &doc.Vectors); err != nil {
		return nil, fmt.Errorf("unmarshal vectors: %w", err)
	}
	if doc.Vectors == nil {
		doc.Vectors = []float32{}
	}

	ts, err := time.Parse(time.RFC3339Nano, uploadedAt)
	if err != nil {
		return nil, fmt.Errorf("parse uploaded_at: %w", err)
	}
	doc.UploadedAt = ts

	return &doc, nil
}

func marshalVectors(v []float32) (string, error) {
	if v == nil {
		v = []float32{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
