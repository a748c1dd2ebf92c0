// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema holds the JSON request/response types of the HTTP surface.
// Field names are camelCase to match the public API contract.
package schema

import "time"

// UploadPDFResponse is returned by POST /api/upload-pdf.
type UploadPDFResponse struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Pages      int       `json:"pages"`
	Text       string    `json:"text"`
	Vectors    []float32 `json:"vectors"` // always [], reserved for future embedding support
	UploadDate time.Time `json:"uploadDate"`
}

// SearchRequest is the body of POST /api/pdf/{id}/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResult is one line match.
type SearchResult struct {
	Line       string `json:"line"`
	LineNumber int    `json:"lineNumber"` // 1-based
	Page       int    `json:"page"`
}

// SearchResponse wraps the matches of a search.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// DocumentSummary is the list-view projection of a stored document.
type DocumentSummary struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Pages      int       `json:"pages"`
	Bytes      int64     `json:"bytes"`
	UploadDate time.Time `json:"uploadDate"`
}

// ListDocumentsResponse is returned by GET /api/pdfs.
type ListDocumentsResponse struct {
	Object  string            `json:"object"` // "list"
	Data    []DocumentSummary `json:"data"`
	FirstID string            `json:"firstId,omitempty"`
	LastID  string            `json:"lastId,omitempty"`
	HasMore bool              `json:"hasMore"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
