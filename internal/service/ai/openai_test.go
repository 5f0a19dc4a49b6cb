package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilnova/chat-ai/backend/internal/config"
	"github.com/oilnova/chat-ai/backend/internal/model/chat"
)

type capturedRequest struct {
	Model               string  `json:"model"`
	Temperature         float32 `json:"temperature"`
	TopP                float32 `json:"top_p"`
	MaxCompletionTokens int     `json:"max_completion_tokens"`
	Messages            []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newCompletionServer(t *testing.T, status int, body string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAICompleterSendsOrderedMessages(t *testing.T) {
	var captured capturedRequest
	srv := newCompletionServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "llama-3.3-70b-versatile",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "ESP stands for electric submersible pump."}, "finish_reason": "stop"}]
	}`, &captured)

	c := NewOpenAICompleter("gsk-test", srv.URL+"/", "llama-3.3-70b-versatile")
	text, err := c.Complete(context.Background(), CompletionRequest{
		System: "system prompt",
		History: []chat.Turn{
			{Role: chat.RoleUser, Content: "hello"},
			{Role: chat.RoleAssistant, Content: "hi, how can I help?"},
		},
		Query:    "what is ESP?",
		Sampling: config.Sampling{Temperature: 0.7, TopP: 0.9, MaxTokens: 1024},
	})
	require.NoError(t, err)
	assert.Equal(t, "ESP stands for electric submersible pump.", text)

	assert.Equal(t, "llama-3.3-70b-versatile", captured.Model)
	assert.InDelta(t, 0.7, captured.Temperature, 1e-6)
	assert.InDelta(t, 0.9, captured.TopP, 1e-6)
	assert.Equal(t, 1024, captured.MaxCompletionTokens)

	require.Len(t, captured.Messages, 4)
	roles := make([]string, 0, len(captured.Messages))
	for _, m := range captured.Messages {
		roles = append(roles, m.Role)
	}
	assert.Equal(t, []string{"system", "user", "assistant", "user"}, roles)
	assert.Equal(t, "system prompt", captured.Messages[0].Content)
	assert.Equal(t, "what is ESP?", captured.Messages[3].Content)
}

func TestOpenAICompleterWrapsFailures(t *testing.T) {
	t.Run("auth error", func(t *testing.T) {
		srv := newCompletionServer(t, http.StatusUnauthorized,
			`{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`, nil)

		c := NewOpenAICompleter("bad", srv.URL, "llama-3.3-70b-versatile")
		_, err := c.Complete(context.Background(), CompletionRequest{Query: "hi"})
		require.Error(t, err)

		var upstream *UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, config.ProviderOpenAI, upstream.Provider)
		assert.False(t, upstream.Timeout())
	})

	t.Run("empty choices", func(t *testing.T) {
		srv := newCompletionServer(t, http.StatusOK, `{"id": "x", "object": "chat.completion", "choices": []}`, nil)

		c := NewOpenAICompleter("gsk-test", srv.URL, "llama-3.3-70b-versatile")
		_, err := c.Complete(context.Background(), CompletionRequest{Query: "hi"})
		assert.ErrorIs(t, err, ErrEmptyCompletion)
	})
}
