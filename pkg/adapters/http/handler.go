// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/docuchat/docuchat/pkg/core/engine"
	"github.com/docuchat/docuchat/pkg/core/schema"
	"github.com/docuchat/docuchat/pkg/core/services"
	"github.com/docuchat/docuchat/pkg/docstore"
	"github.com/docuchat/docuchat/pkg/filestore"
	"github.com/docuchat/docuchat/pkg/observability/logging"
)

// errPDFNotFound is the uniform payload message for unknown document IDs.
const errPDFNotFound = "PDF not found"

// Handler implements the HTTP adapter
type Handler struct {
	service *services.DocumentService
	engine  *engine.Engine
	docs    docstore.Store
	files   filestore.FileStore
	logger  *logging.Logger
	mux     *http.ServeMux
}

// New creates a new HTTP handler
func New(service *services.DocumentService, eng *engine.Engine, docs docstore.Store, files filestore.FileStore, logger *logging.Logger) *Handler {
	h := &Handler{
		service: service,
		engine:  eng,
		docs:    docs,
		files:   files,
		logger:  logger,
		mux:     http.NewServeMux(),
	}

	// Register routes
	h.mux.HandleFunc("GET /api/health", h.handleHealth)

	// Documents API
	h.mux.HandleFunc("POST /api/upload-pdf", h.handleUploadPDF)
	h.mux.HandleFunc("GET /api/pdfs", h.handleListDocuments)
	h.mux.HandleFunc("GET /api/pdf/{id}/file", h.handleGetFile)
	h.mux.HandleFunc("GET /api/pdf/{id}/text", h.handleGetText)
	h.mux.HandleFunc("POST /api/pdf/{id}/search", h.handleSearch)
	h.mux.HandleFunc("GET /api/pdf/{id}/page/{pageNumber}", h.handleGetPage)

	// Chat API
	h.mux.HandleFunc("POST /api/chat", h.handleChat)

	return h
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Request",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	h.mux.ServeHTTP(w, r)
}

// handleHealth handles health check requests
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, schema.HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// writeJSON writes a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

// writeError writes the uniform error payload.
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, schema.ErrorResponse{Error: message})
}

// lookupDocument resolves {id} or writes a 404. The bool reports success.
func (h *Handler) lookupDocument(w http.ResponseWriter, r *http.Request) (*docstore.Document, bool) {
	id := r.PathValue("id")
	doc, err := h.docs.GetDocument(r.Context(), id)
	if err != nil {
		h.logger.Warn("Document lookup failed", "document_id", id, "error", err)
		h.writeError(w, http.StatusNotFound, errPDFNotFound)
		return nil, false
	}
	return doc, true
}
