package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/oilnova/chat-ai/backend/internal/config"
	"github.com/oilnova/chat-ai/backend/internal/model/chat"
)

// NewArkChatModel 使用配置创建一个 Ark 模型实例。
func NewArkChatModel(ctx context.Context, cfg config.AIConfig) (model.BaseChatModel, error) {
	if !cfg.ArkEnabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + ARK_MODEL 或 AK/SK 组合")
	}

	return ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:   cfg.ArkBaseURL,
		Region:    cfg.ArkRegion,
		APIKey:    cfg.ArkAPIKey,
		AccessKey: cfg.ArkAccessKey,
		SecretKey: cfg.ArkSecretKey,
		Model:     cfg.ArkModel,
	})
}

// ArkCompleter runs completions through an eino chain:
// system template, history placeholder, user template, chat model.
type ArkCompleter struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewArkCompleter compiles the chat chain around chatModel.
func NewArkCompleter(ctx context.Context, chatModel model.BaseChatModel) (*ArkCompleter, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ArkCompleter{chain: runnable}, nil
}

// Complete implements Completer.
func (c *ArkCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	input := map[string]any{
		"system":  req.System,
		"history": buildHistoryMessages(req.History),
		"query":   req.Query,
	}

	response, err := c.chain.Invoke(ctx, input, compose.WithChatModelOption(
		model.WithTemperature(req.Sampling.Temperature),
		model.WithTopP(req.Sampling.TopP),
		model.WithMaxTokens(req.Sampling.MaxTokens),
	))
	if err != nil {
		return "", upstreamError(ctx, config.ProviderArk, err)
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", upstreamError(ctx, config.ProviderArk, ErrEmptyCompletion)
	}
	return response.Content, nil
}

func buildHistoryMessages(turns []chat.Turn) []*schema.Message {
	history := make([]*schema.Message, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(turn.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(turn.Content, nil))
		}
	}
	return history
}
