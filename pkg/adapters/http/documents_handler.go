// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/docuchat/docuchat/pkg/core/schema"
	"github.com/docuchat/docuchat/pkg/core/services"
)

// handleUploadPDF handles POST /api/upload-pdf
func (h *Handler) handleUploadPDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(services.MaxUploadBytes); err != nil {
		h.logger.Error("Failed to parse multipart form", "error", err)
		h.writeError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("pdf")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "No PDF file uploaded")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", "error", err, "filename", header.Filename)
		h.writeError(w, http.StatusInternalServerError, "Failed to read uploaded PDF")
		return
	}

	doc, err := h.service.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), content)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, schema.UploadPDFResponse{
		ID:         doc.ID,
		Filename:   doc.Filename,
		Pages:      doc.Pages,
		Text:       doc.Text,
		Vectors:    doc.Vectors,
		UploadDate: doc.UploadedAt,
	})
}

// writeUploadError maps tagged upload error kinds to HTTP responses.
func (h *Handler) writeUploadError(w http.ResponseWriter, err error) {
	ue, ok := services.AsUploadError(err)
	if !ok {
		h.logger.Error("Upload failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to process upload")
		return
	}

	switch ue.Kind {
	case services.UploadErrEmptyFile:
		h.writeError(w, http.StatusBadRequest, "Uploaded file is empty")
	case services.UploadErrNotPDF:
		h.writeError(w, http.StatusBadRequest, "Only PDF files are allowed")
	case services.UploadErrTooLarge:
		h.writeError(w, http.StatusBadRequest, "PDF exceeds the 50MB upload limit")
	case services.UploadErrStore:
		h.logger.Error("Upload storage failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to store PDF")
	default:
		h.logger.Error("Upload failed", "error", err, "kind", ue.Kind)
		h.writeError(w, http.StatusInternalServerError, "Failed to process upload")
	}
}

// handleGetFile handles GET /api/pdf/{id}/file
func (h *Handler) handleGetFile(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.lookupDocument(w, r)
	if !ok {
		return
	}

	content, err := h.files.Get(r.Context(), doc.StoragePath)
	if err != nil {
		h.logger.Error("Stored content missing", "document_id", doc.ID, "error", err)
		h.writeError(w, http.StatusNotFound, errPDFNotFound)
		return
	}

	w.Header().Set("Content-Type", services.PDFMimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		h.logger.Error("Failed to stream PDF", "document_id", doc.ID, "error", err)
	}
}

// handleGetText handles GET /api/pdf/{id}/text
func (h *Handler) handleGetText(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.lookupDocument(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, doc.Text)
}

// handleSearch handles POST /api/pdf/{id}/search
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.lookupDocument(w, r)
	if !ok {
		return
	}

	var req schema.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}
	if req.Query == "" {
		h.writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	results := services.SearchLines(doc.Text, req.Query, services.MaxSearchResults)

	h.logger.Info("Search completed",
		"document_id", doc.ID, "query", req.Query, "matches", len(results))

	h.writeJSON(w, http.StatusOK, schema.SearchResponse{Results: results})
}

// handleGetPage handles GET /api/pdf/{id}/page/{pageNumber}
func (h *Handler) handleGetPage(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.lookupDocument(w, r)
	if !ok {
		return
	}

	pageNumber, err := strconv.Atoi(r.PathValue("pageNumber"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid page number")
		return
	}

	h.writeJSON(w, http.StatusOK, services.PageText(doc.Text, doc.Pages, pageNumber))
}

// handleListDocuments handles GET /api/pdfs
func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	after := query.Get("after")
	before := query.Get("before")
	order := query.Get("order")
	if order == "" {
		order = "desc"
	}

	limit := 50
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	docs, hasMore, err := h.docs.ListDocumentsPaginated(r.Context(), after, before, limit, order)
	if err != nil {
		h.logger.Error("Failed to list documents", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	summaries := make([]schema.DocumentSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, schema.DocumentSummary{
			ID:         doc.ID,
			Filename:   doc.Filename,
			Pages:      doc.Pages,
			Bytes:      doc.Bytes,
			UploadDate: doc.UploadedAt,
		})
	}

	resp := schema.ListDocumentsResponse{
		Object:  "list",
		Data:    summaries,
		HasMore: hasMore,
	}
	if len(summaries) > 0 {
		resp.FirstID = summaries[0].ID
		resp.LastID = summaries[len(summaries)-1].ID
	}

	h.writeJSON(w, http.StatusOK, resp)
}
