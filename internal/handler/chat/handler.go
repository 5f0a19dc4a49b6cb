package chat

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oilnova/chat-ai/backend/internal/service/assistant"
	chatService "github.com/oilnova/chat-ai/backend/internal/service/chat"
	"github.com/oilnova/chat-ai/backend/pkg/utils"
)

// Banner is the body of the liveness endpoint.
const Banner = "OILNOVA Chat AI Backend is running."

// Handler 聊天服务的HTTP处理器
type Handler struct {
	assistant *assistant.Service
	sessions  *chatService.Service
	logger    *zap.Logger
}

// New 创建聊天处理器
func New(assistantSvc *assistant.Service, sessions *chatService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		assistant: assistantSvc,
		sessions:  sessions,
		logger:    logger,
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Post("/chat", h.handleChat)
	r.Get("/start_session", h.handleStartSession)
	r.Post("/clear_history", h.handleClearHistory)
	r.Get("/get_session_info", h.handleSessionInfo)
}

// ChatRequest is the body of POST /chat and of each WebSocket frame.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

// ChatResponse is the answer to a ChatRequest.
type ChatResponse struct {
	Reply            string `json:"reply"`
	SessionID        string `json:"session_id"`
	DetectedLanguage string `json:"detected_language"`
}

// NewChatResponse converts an assistant reply to its wire shape.
func NewChatResponse(reply assistant.Reply) ChatResponse {
	return ChatResponse{
		Reply:            reply.Text,
		SessionID:        reply.SessionID,
		DetectedLanguage: string(reply.Locale),
	}
}

// ReplyStatus maps an assistant error to an HTTP status and a client message.
func ReplyStatus(err error) (int, string) {
	var validation *assistant.ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest, validation.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

func (h *Handler) handleIndex(w http.ResponseWriter, _ *http.Request) {
	utils.RespondText(w, http.StatusOK, Banner)
}

// handleChat 处理一条用户消息
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.assistant.Reply(r.Context(), assistant.Request{
		Message:   payload.Message,
		SessionID: payload.SessionID,
		UserID:    payload.UserID,
	})
	if err != nil {
		status, message := ReplyStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("chat failed", zap.String("session_id", payload.SessionID), zap.Error(err))
		}
		utils.RespondError(w, status, message)
		return
	}

	utils.RespondJSON(w, http.StatusOK, NewChatResponse(reply))
}

// handleStartSession 创建新会话
func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	sessionID := uuid.NewString()
	if _, err := h.sessions.GetOrCreate(r.Context(), sessionID); err != nil {
		h.logger.Error("start session failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"session_id": sessionID})
}

// handleClearHistory 清空会话历史，请求体可以为空
func (h *Handler) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := strings.TrimSpace(payload.SessionID)
	if sessionID == "" {
		sessionID = h.assistant.DefaultSessionID()
	}

	if _, err := h.sessions.Clear(r.Context(), sessionID); err != nil {
		h.logger.Error("clear history failed", zap.String("session_id", sessionID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message":    "Conversation history cleared.",
		"session_id": sessionID,
	})
}

// handleSessionInfo 返回当前会话概况，仅用于诊断
func (h *Handler) handleSessionInfo(w http.ResponseWriter, _ *http.Request) {
	sessions := h.sessions.List()
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"active_sessions": len(sessions),
		"sessions":        sessions,
	})
}
