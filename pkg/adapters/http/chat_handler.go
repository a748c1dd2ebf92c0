// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/docuchat/docuchat/pkg/core/schema"
	"github.com/docuchat/docuchat/pkg/docstore"
)

// handleChat handles POST /api/chat
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req schema.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}
	if req.Message == "" {
		h.writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	h.logger.Info("Processing chat request",
		"pdf_id", req.PDFID, "message_len", len(req.Message))

	result, err := h.engine.Chat(r.Context(), req.Message, req.PDFID)
	if err != nil {
		if errors.Is(err, docstore.ErrDocumentNotFound) {
			h.writeError(w, http.StatusNotFound, errPDFNotFound)
			return
		}
		h.logger.Error("Chat failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to generate chat response")
		return
	}

	h.writeJSON(w, http.StatusOK, schema.ChatResponse{
		Message:   result.Message,
		Citations: result.Citations,
		TokenUsage: schema.TokenUsage{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			TotalTokens:      result.Usage.TotalTokens,
		},
	})
}
