package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilnova/chat-ai/backend/internal/analysis/intent"
	"github.com/oilnova/chat-ai/backend/internal/config"
	chathandler "github.com/oilnova/chat-ai/backend/internal/handler/chat"
	"github.com/oilnova/chat-ai/backend/internal/model/team"
	"github.com/oilnova/chat-ai/backend/internal/service/ai"
	"github.com/oilnova/chat-ai/backend/internal/service/assistant"
	"github.com/oilnova/chat-ai/backend/internal/service/bio"
	chatservice "github.com/oilnova/chat-ai/backend/internal/service/chat"
)

type echoCompleter struct {
	mu       sync.Mutex
	requests []ai.CompletionRequest
}

func (c *echoCompleter) Complete(_ context.Context, req ai.CompletionRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	return "answer: " + req.Query, nil
}

func newServer(t *testing.T) (*httptest.Server, *chatservice.Service, *echoCompleter) {
	t.Helper()
	sessions := chatservice.NewService(12)
	completer := &echoCompleter{}
	prompts := ai.NewPromptManager()
	store := team.NewMemoryStore(team.Seed())
	bios := bio.NewService(store, completer, prompts, config.Sampling{Temperature: 0.2, MaxTokens: 400}, nil, nil)
	svc := assistant.NewService(sessions, intent.FromMembers(store.List()), bios, completer, prompts, nil,
		assistant.Options{DefaultSessionID: "default", SessionTTL: time.Hour}, nil, nil)

	r := chi.NewRouter()
	New(svc, nil).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, sessions, completer
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketRoundTrip(t *testing.T) {
	srv, sessions, completer := newServer(t)
	conn := dial(t, srv, "?session_id=ws-1")

	require.NoError(t, conn.WriteJSON(chathandler.ChatRequest{Message: "What is EOR?"}))
	var first chathandler.ChatResponse
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "answer: What is EOR?", first.Reply)
	assert.Equal(t, "ws-1", first.SessionID)
	assert.Equal(t, "english", first.DetectedLanguage)

	require.NoError(t, conn.WriteJSON(chathandler.ChatRequest{Message: "Give an example"}))
	var second chathandler.ChatResponse
	require.NoError(t, conn.ReadJSON(&second))

	completer.mu.Lock()
	defer completer.mu.Unlock()
	require.Len(t, completer.requests, 2)
	assert.Len(t, completer.requests[1].History, 2)
	assert.Equal(t, []string{"ws-1"}, sessions.List())
}

func TestWebSocketFrameSessionOverridesQuery(t *testing.T) {
	srv, _, _ := newServer(t)
	conn := dial(t, srv, "?session_id=ws-1")

	require.NoError(t, conn.WriteJSON(chathandler.ChatRequest{Message: "hello", SessionID: "frame"}))
	var resp chathandler.ChatResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "frame", resp.SessionID)
}

func TestWebSocketErrors(t *testing.T) {
	srv, sessions, _ := newServer(t)
	conn := dial(t, srv, "")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{broken")))
	var bad map[string]string
	require.NoError(t, conn.ReadJSON(&bad))
	assert.Equal(t, "invalid request body", bad["error"])

	require.NoError(t, conn.WriteJSON(chathandler.ChatRequest{Message: "  "}))
	var empty map[string]string
	require.NoError(t, conn.ReadJSON(&empty))
	assert.NotEmpty(t, empty["error"])

	assert.Empty(t, sessions.List())

	require.NoError(t, conn.WriteJSON(chathandler.ChatRequest{Message: "still open?"}))
	var ok chathandler.ChatResponse
	require.NoError(t, conn.ReadJSON(&ok))
	assert.Equal(t, "default", ok.SessionID)
}
