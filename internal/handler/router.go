package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/oilnova/chat-ai/backend/internal/handler/chat"
	"github.com/oilnova/chat-ai/backend/internal/handler/ws"
	middlewarePkg "github.com/oilnova/chat-ai/backend/internal/middleware"
	"github.com/oilnova/chat-ai/backend/internal/observability"
	"github.com/oilnova/chat-ai/backend/internal/service/assistant"
	chatService "github.com/oilnova/chat-ai/backend/internal/service/chat"
)

// Dependencies are the services the HTTP layer needs.
type Dependencies struct {
	Assistant      *assistant.Service
	Sessions       *chatService.Service
	Metrics        *observability.Metrics
	Logger         *zap.Logger
	AllowedOrigins []string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.AllowedOrigins))

	chat.New(deps.Assistant, deps.Sessions, logger).RegisterRoutes(r)
	ws.New(deps.Assistant, logger).RegisterRoutes(r)

	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	return r
}
