// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/docuchat/docuchat/pkg/core/api"
	"github.com/docuchat/docuchat/pkg/core/config"
	"github.com/docuchat/docuchat/pkg/core/schema"
	"github.com/docuchat/docuchat/pkg/core/services"
	"github.com/docuchat/docuchat/pkg/docstore"
)

const (
	// MaxContextLines caps the document lines included in a prompt.
	MaxContextLines = 5

	// CitationConfidence is the fixed confidence assigned to fabricated
	// citations. Substring matching gives no real relevance signal.
	CitationConfidence = 0.8
)

// ApologyContext replaces document context when the referenced PDF's text
// extraction failed.
const ApologyContext = "I apologize, but I was unable to extract any text from this PDF. It may be a scanned, encrypted, or corrupted document."

const systemPrompt = "You are a helpful assistant that answers questions about uploaded PDF documents. " +
	"Base your answer on the provided document excerpts. If the excerpts do not contain the answer, say so."

// ChatResult is the outcome of a single chat turn.
type ChatResult struct {
	Message   string
	Citations []schema.Citation
	Usage     api.Usage
}

// Engine runs single-turn document chat: it selects context lines from the
// referenced document, fabricates citations for them, and forwards a
// constructed prompt to the chat-completion backend.
type Engine struct {
	cfg  *config.EngineConfig
	docs docstore.Store
	llm  api.ChatCompletionClient
}

// New creates an Engine. Without a configured model endpoint or API key it
// falls back to the mock completion client, which keeps local development
// working without an inference backend.
func New(cfg *config.EngineConfig, docs docstore.Store) (*Engine, error) {
	var llm api.ChatCompletionClient
	if cfg != nil && (cfg.ModelEndpoint != "" || cfg.APIKey != "") {
		llm = api.NewOpenAIClient(cfg.ModelEndpoint, cfg.APIKey)
	} else {
		llm = api.NewMockChatCompletionClient()
	}
	return NewWithClient(cfg, docs, llm)
}

// NewWithClient creates an Engine with an explicit completion client.
func NewWithClient(cfg *config.EngineConfig, docs docstore.Store, llm api.ChatCompletionClient) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if docs == nil {
		return nil, fmt.Errorf("document store is required")
	}
	if llm == nil {
		return nil, fmt.Errorf("completion client is required")
	}
	return &Engine{cfg: cfg, docs: docs, llm: llm}, nil
}

// LLMClient returns the chat completion client
func (e *Engine) LLMClient() api.ChatCompletionClient {
	return e.llm
}

// Chat answers message, optionally grounded in the document pdfID. An
// unknown pdfID surfaces docstore.ErrDocumentNotFound.
func (e *Engine) Chat(ctx context.Context, message, pdfID string) (*ChatResult, error) {
	var contextBlock string
	citations := []schema.Citation{}

	if pdfID != "" {
		doc, err := e.docs.GetDocument(ctx, pdfID)
		if err != nil {
			return nil, err
		}

		if doc.ExtractionFailed() {
			contextBlock = ApologyContext
		} else {
			lines := selectContext(doc.Text, message, MaxContextLines)
			parts := make([]string, 0, len(lines))
			for _, ln := range lines {
				parts = append(parts, ln.text)
				citations = append(citations, schema.Citation{
					Page:       services.PageForLine(ln.index),
					Text:       ln.text,
					Confidence: CitationConfidence,
				})
			}
			contextBlock = strings.Join(parts, "\n")
		}
	}

	userContent := message
	if contextBlock != "" {
		userContent = fmt.Sprintf("Document excerpts:\n%s\n\nQuestion: %s", contextBlock, message)
	}

	temperature := e.cfg.Temperature
	maxTokens := e.cfg.MaxTokens
	req := &api.ChatCompletionRequest{
		Model: e.cfg.Model,
		Messages: []api.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	}

	resp, err := e.llm.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return &ChatResult{
		Message:   resp.Choices[0].Message.Content,
		Citations: citations,
		Usage:     resp.Usage,
	}, nil
}

type contextLine struct {
	text  string
	index int // 0-based line index in the document
}

// selectContext returns the first max lines containing query
// (case-insensitive substring).
func selectContext(text, query string, max int) []contextLine {
	needle := strings.ToLower(query)

	var selected []contextLine
	for i, line := range strings.Split(text, "\n") {
		if !strings.Contains(strings.ToLower(line), needle) {
			continue
		}
		selected = append(selected, contextLine{text: line, index: i})
		if len(selected) >= max {
			break
		}
	}
	return selected
}
