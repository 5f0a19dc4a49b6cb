package ai

import (
	"context"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/oilnova/chat-ai/backend/internal/config"
	"github.com/oilnova/chat-ai/backend/internal/model/chat"
)

// OpenAICompleter talks to any OpenAI-compatible chat completions endpoint.
// The default base URL points at Groq.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter creates a completer for apiKey at baseURL.
func NewOpenAICompleter(apiKey, baseURL, model string) *OpenAICompleter {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAICompleter{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// Complete implements Completer.
func (c *OpenAICompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	for _, turn := range req.History {
		switch turn.Role {
		case chat.RoleUser:
			messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: turn.Content})
		case chat.RoleAssistant:
			messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: turn.Content})
		}
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Query})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:               c.model,
		Messages:            messages,
		Temperature:         req.Sampling.Temperature,
		TopP:                req.Sampling.TopP,
		MaxCompletionTokens: req.Sampling.MaxTokens,
	})
	if err != nil {
		return "", upstreamError(ctx, config.ProviderOpenAI, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", upstreamError(ctx, config.ProviderOpenAI, ErrEmptyCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}
