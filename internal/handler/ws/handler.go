package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	chathandler "github.com/oilnova/chat-ai/backend/internal/handler/chat"
	"github.com/oilnova/chat-ai/backend/internal/service/assistant"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler WebSocket聊天处理器，每条入站消息对应一条回复
type Handler struct {
	assistant *assistant.Service
	logger    *zap.Logger
	upgrader  websocket.Upgrader
}

// New 创建WebSocket处理器
func New(assistantSvc *assistant.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		assistant: assistantSvc,
		logger:    logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/chat", h.handleWebSocket)
}

// handleWebSocket 处理WebSocket连接。查询参数 session_id 作为帧内未指定会话时的默认值。
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	connSessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go h.pingLoop(ctx, conn)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Info("websocket read error", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		if msgType != websocket.TextMessage {
			h.send(conn, errorFrame("text frames only"))
			continue
		}

		h.send(conn, h.answer(ctx, data, connSessionID))
	}
}

func (h *Handler) answer(ctx context.Context, data []byte, connSessionID string) any {
	var req chathandler.ChatRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errorFrame("invalid request body")
	}
	if req.SessionID == "" {
		req.SessionID = connSessionID
	}

	reply, err := h.assistant.Reply(ctx, assistant.Request{
		Message:   req.Message,
		SessionID: req.SessionID,
		UserID:    req.UserID,
	})
	if err != nil {
		status, message := chathandler.ReplyStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("websocket chat failed", zap.String("session_id", req.SessionID), zap.Error(err))
		}
		return errorFrame(message)
	}
	return chathandler.NewChatResponse(reply)
}

func errorFrame(message string) map[string]string {
	return map[string]string{"error": message}
}

func (h *Handler) send(conn *websocket.Conn, payload any) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(payload); err != nil {
		h.logger.Info("websocket write failed", zap.Error(err))
	}
}

// pingLoop 定期发送ping消息，WriteControl 可与 WriteJSON 并发调用
func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
