// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

package api

import "context"

// ChatCompletionClient interface for calling chat completion backends
type ChatCompletionClient interface {
	// CreateChatCompletion calls the backend with a chat completion request
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// ChatCompletionRequest represents a chat completion request. Only the
// parameters this service sends are modeled; the chat surface is
// non-streaming and tool-free.
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

// Message represents a chat message
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatCompletionResponse represents a chat completion response
type ChatCompletionResponse struct {
	ID      string   `json:"id"`      // Unique completion ID
	Object  string   `json:"object"`  // "chat.completion"
	Created int64    `json:"created"` // Unix timestamp
	Model   string   `json:"model"`   // Model used
	Choices []Choice `json:"choices"` // Generated completions
	Usage   Usage    `json:"usage"`   // Token usage statistics
}

// Choice represents a completion choice
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"` // "stop", "length", "content_filter", etc.
}

// Usage represents token usage statistics
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
