// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

package schema

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
	PDFID   string `json:"pdfId,omitempty"`
}

// Citation points a chat answer back at a document line.
type Citation struct {
	Page       int     `json:"page"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// TokenUsage reports completion token accounting.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// ChatResponse is returned by POST /api/chat.
type ChatResponse struct {
	Message    string     `json:"message"`
	Citations  []Citation `json:"citations"`
	TokenUsage TokenUsage `json:"tokenUsage"`
}
