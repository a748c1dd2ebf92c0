// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"time"
)

// MockChatCompletionClient is a mock implementation for local development
// and testing. It generates predictable responses based on the input.
type MockChatCompletionClient struct{}

// NewMockChatCompletionClient creates a new mock client
func NewMockChatCompletionClient() *MockChatCompletionClient {
	return &MockChatCompletionClient{}
}

// CreateChatCompletion implements ChatCompletionClient.CreateChatCompletion
func (m *MockChatCompletionClient) CreateChatCompletion(_ context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	// Extract user message
	userMessage := ""
	for _, msg := range req.Messages {
		if msg.Role == "user" {
			userMessage = msg.Content
			break
		}
	}

	mockContent := fmt.Sprintf("Mock response to: %s", userMessage)

	return &ChatCompletionResponse{
		ID:      fmt.Sprintf("chatcmpl-mock-%d", time.Now().Unix()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []Choice{
			{
				Index: 0,
				Message: Message{
					Role:    "assistant",
					Content: mockContent,
				},
				FinishReason: "stop",
			},
		},
		Usage: Usage{
			PromptTokens:     estimateTokens(userMessage),
			CompletionTokens: estimateTokens(mockContent),
			TotalTokens:      estimateTokens(userMessage) + estimateTokens(mockContent),
		},
	}, nil
}

// estimateTokens provides a rough token count estimate
// Using ~4 characters per token as a simple heuristic
func estimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(text) / 4
}
