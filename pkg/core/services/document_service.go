// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docuchat/docuchat/pkg/core/schema"
	"github.com/docuchat/docuchat/pkg/docstore"
	"github.com/docuchat/docuchat/pkg/extractor"
	"github.com/docuchat/docuchat/pkg/filestore"
	"github.com/docuchat/docuchat/pkg/observability/logging"
)

const (
	// MaxUploadBytes caps uploads at 50MB.
	MaxUploadBytes = 50 << 20

	// PDFMimeType is the only accepted upload content type.
	PDFMimeType = "application/pdf"

	// LinesPerPage is the heuristic mapping a 0-based line index to a page
	// number for search results and citations: page = index/LinesPerPage + 1.
	LinesPerPage = 50

	// MaxSearchResults caps the matches returned by a text search.
	MaxSearchResults = 10
)

// UploadErrorKind tags an upload failure at the failure site, so the HTTP
// layer can map it to a status and message without inspecting error text.
type UploadErrorKind string

const (
	UploadErrEmptyFile UploadErrorKind = "empty_file"
	UploadErrNotPDF    UploadErrorKind = "not_pdf"
	UploadErrTooLarge  UploadErrorKind = "too_large"
	UploadErrStore     UploadErrorKind = "store_failed"
)

// UploadError is a tagged upload failure.
type UploadError struct {
	Kind UploadErrorKind
	Err  error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("upload failed (%s)", e.Kind)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// AsUploadError extracts an UploadError from an error chain.
func AsUploadError(err error) (*UploadError, bool) {
	var ue *UploadError
	ok := errors.As(err, &ue)
	return ue, ok
}

// ExtractFunc turns raw file content into text plus a page count.
type ExtractFunc func(content []byte, filename string) (string, int, error)

// DocumentService owns the upload pipeline: validate, persist raw bytes,
// extract text with failure tolerance, persist the record.
type DocumentService struct {
	docs    docstore.Store
	files   filestore.FileStore
	logger  *logging.Logger
	extract ExtractFunc
}

// NewDocumentService creates a DocumentService using the default extractor.
func NewDocumentService(docs docstore.Store, files filestore.FileStore, logger *logging.Logger) *DocumentService {
	return NewDocumentServiceWithExtractor(docs, files, logger, extractor.ExtractText)
}

// NewDocumentServiceWithExtractor creates a DocumentService with a custom
// extraction function. Used by tests to exercise both extraction outcomes.
func NewDocumentServiceWithExtractor(docs docstore.Store, files filestore.FileStore, logger *logging.Logger, extract ExtractFunc) *DocumentService {
	return &DocumentService{
		docs:    docs,
		files:   files,
		logger:  logger,
		extract: extract,
	}
}

// Upload validates and stores an uploaded PDF. Validation failures reject
// the upload before anything is stored. Extraction failure does NOT fail the
// upload: the record is stored with the sentinel text and a page count of 1.
func (s *DocumentService) Upload(ctx context.Context, filename, mimeType string, content []byte) (*docstore.Document, error) {
	if len(content) == 0 {
		return nil, &UploadError{Kind: UploadErrEmptyFile}
	}
	if mimeType != PDFMimeType {
		return nil, &UploadError{Kind: UploadErrNotPDF}
	}
	if len(content) > MaxUploadBytes {
		return nil, &UploadError{Kind: UploadErrTooLarge}
	}

	id := "pdf_" + uuid.NewString()
	storagePath := id + ".pdf"

	if err := s.files.Put(ctx, storagePath, content, mimeType); err != nil {
		return nil, &UploadError{Kind: UploadErrStore, Err: err}
	}

	text, pages, err := s.extract(content, filename)
	if err != nil {
		s.logger.Warn("Text extraction failed, storing sentinel",
			"filename", filename, "error", err)
		text = docstore.ExtractionFailedText
		pages = 1
	}
	if pages < 1 {
		pages = 1
	}

	doc := &docstore.Document{
		ID:          id,
		Filename:    filename,
		StoragePath: storagePath,
		Text:        text,
		Pages:       pages,
		Bytes:       int64(len(content)),
		Vectors:     []float32{},
		UploadedAt:  time.Now().UTC(),
	}

	if err := s.docs.CreateDocument(ctx, doc); err != nil {
		return nil, &UploadError{Kind: UploadErrStore, Err: err}
	}

	s.logger.Info("Document uploaded",
		"document_id", doc.ID,
		"filename", doc.Filename,
		"pages", doc.Pages,
		"bytes", doc.Bytes,
		"extraction_failed", doc.ExtractionFailed())

	return doc, nil
}

// SearchLines scans text line by line for a case-insensitive substring match
// and returns at most limit results with 1-based line numbers and heuristic
// page numbers.
func SearchLines(text, query string, limit int) []schema.SearchResult {
	if limit <= 0 {
		limit = MaxSearchResults
	}
	needle := strings.ToLower(query)

	results := []schema.SearchResult{}
	for i, line := range strings.Split(text, "\n") {
		if !strings.Contains(strings.ToLower(line), needle) {
			continue
		}
		results = append(results, schema.SearchResult{
			Line:       line,
			LineNumber: i + 1,
			Page:       PageForLine(i),
		})
		if len(results) >= limit {
			break
		}
	}
	return results
}

// PageForLine maps a 0-based line index to a heuristic page number.
func PageForLine(index int) int {
	return index/LinesPerPage + 1
}

// PageText returns the line slice for the given 1-based page number. Each
// page holds ceil(totalLines/pages) lines. Out-of-range pages yield the
// empty string, not an error.
func PageText(text string, pages, pageNumber int) string {
	if pages < 1 || pageNumber < 1 {
		return ""
	}

	lines := strings.Split(text, "\n")
	perPage := int(math.Ceil(float64(len(lines)) / float64(pages)))
	if perPage < 1 {
		perPage = 1
	}

	start := (pageNumber - 1) * perPage
	if start >= len(lines) {
		return ""
	}
	end := start + perPage
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[start:end], "\n")
}
