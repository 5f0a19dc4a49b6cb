package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilnova/chat-ai/backend/internal/analysis/intent"
	"github.com/oilnova/chat-ai/backend/internal/config"
	"github.com/oilnova/chat-ai/backend/internal/model/team"
	"github.com/oilnova/chat-ai/backend/internal/observability"
	"github.com/oilnova/chat-ai/backend/internal/service/ai"
	"github.com/oilnova/chat-ai/backend/internal/service/assistant"
	"github.com/oilnova/chat-ai/backend/internal/service/audit"
	"github.com/oilnova/chat-ai/backend/internal/service/bio"
	chatService "github.com/oilnova/chat-ai/backend/internal/service/chat"
)

type downCompleter struct{}

func (downCompleter) Complete(context.Context, ai.CompletionRequest) (string, error) {
	return "", &ai.UpstreamError{Provider: config.ProviderNone, Err: errors.New("down")}
}

func newTestRouter(t *testing.T) (http.Handler, *audit.MemorySink) {
	t.Helper()
	sessions := chatService.NewService(12)
	prompts := ai.NewPromptManager()
	store := team.NewMemoryStore(team.Seed())
	metrics := observability.NewMetrics("oilnova", prometheus.NewRegistry())
	sink := audit.NewMemorySink()

	bios := bio.NewService(store, downCompleter{}, prompts, config.Sampling{Temperature: 0.2, MaxTokens: 400}, nil, metrics)
	svc := assistant.NewService(sessions, intent.FromMembers(store.List()), bios, downCompleter{}, prompts, sink,
		assistant.Options{DefaultSessionID: "default", SessionTTL: time.Hour}, nil, metrics)

	return NewRouter(Dependencies{
		Assistant:      svc,
		Sessions:       sessions,
		Metrics:        metrics,
		AllowedOrigins: []string{"*"},
	}), sink
}

func TestRouterServesEndpoints(t *testing.T) {
	router, sink := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"Who is Arzu Mateen?","user_id":"u1"}`))
	req.Header.Set("Origin", "https://oilnova.app")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Body.String(), "Arzu Mateen")
	require.Len(t, sink.Records(), 1)
	assert.Equal(t, "bio:"+team.KeyArzuMateen, sink.Records()[0].Route)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `oilnova_chat_requests_total{locale="english",route="bio:arzu_mateen"} 1`)
	assert.Contains(t, string(body), `oilnova_upstream_errors_total{op="bio",provider="none"} 1`)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "OILNOVA Chat AI Backend is running.", resp.Body.String())
}

func TestRouterRejectsWrongMethod(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/chat", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte(`{"message":""}`))))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
