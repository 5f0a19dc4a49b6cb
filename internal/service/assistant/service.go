package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/oilnova/chat-ai/backend/internal/analysis/format"
	"github.com/oilnova/chat-ai/backend/internal/analysis/intent"
	"github.com/oilnova/chat-ai/backend/internal/analysis/language"
	"github.com/oilnova/chat-ai/backend/internal/config"
	chatmodel "github.com/oilnova/chat-ai/backend/internal/model/chat"
	"github.com/oilnova/chat-ai/backend/internal/observability"
	"github.com/oilnova/chat-ai/backend/internal/service/ai"
	"github.com/oilnova/chat-ai/backend/internal/service/audit"
	"github.com/oilnova/chat-ai/backend/internal/service/bio"
	chatservice "github.com/oilnova/chat-ai/backend/internal/service/chat"
)

// Route labels reported on replies, metrics and audit records.
const (
	RouteGeneral   = "general"
	RouteApology   = "apology"
	routeBioPrefix = "bio:"
)

// ErrEmptyMessage is returned for a missing or blank message.
var ErrEmptyMessage = errors.New("message is required")

// ValidationError marks a request rejected before any state was touched.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Request is one inbound chat message.
type Request struct {
	Message   string
	SessionID string
	UserID    string
}

// Reply is the formatted answer.
type Reply struct {
	Text      string
	SessionID string
	Locale    language.Locale
	Route     string
}

// Options configures a Service.
type Options struct {
	DefaultSessionID string
	SessionTTL       time.Duration
	ChatSampling     config.Sampling
	AuditTimeout     time.Duration
}

// Service answers chat messages: it detects the language, routes to a bio or
// the general model path, formats the answer and records the turn pair.
type Service struct {
	sessions  *chatservice.Service
	router    *intent.Router
	bios      *bio.Service
	completer ai.Completer
	prompts   *ai.PromptManager
	sink      audit.Sink
	opts      Options
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// NewService wires the orchestrator. sink, logger and metrics may be nil.
func NewService(
	sessions *chatservice.Service,
	router *intent.Router,
	bios *bio.Service,
	completer ai.Completer,
	prompts *ai.PromptManager,
	sink audit.Sink,
	opts Options,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultSessionID == "" {
		opts.DefaultSessionID = "default"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = time.Hour
	}
	return &Service{
		sessions:  sessions,
		router:    router,
		bios:      bios,
		completer: completer,
		prompts:   prompts,
		sink:      sink,
		opts:      opts,
		logger:    logger,
		metrics:   metrics,
	}
}

// DefaultSessionID is the id used when a request names none.
func (s *Service) DefaultSessionID() string {
	return s.opts.DefaultSessionID
}

// Sweep evicts idle sessions and refreshes the session metrics.
func (s *Service) Sweep() []string {
	evicted := s.sessions.EvictExpired(s.opts.SessionTTL)
	s.metrics.ObserveSessions(s.sessions.Count(), len(evicted))
	if len(evicted) > 0 {
		s.logger.Info("evicted idle sessions", zap.Strings("session_ids", evicted))
	}
	return evicted
}

// Reply answers one message. Only validation failures and internal errors are
// returned; upstream failures are recovered into the reply.
func (s *Service) Reply(ctx context.Context, req Request) (Reply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return Reply{}, &ValidationError{Err: ErrEmptyMessage}
	}

	s.Sweep()

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = s.opts.DefaultSessionID
	}

	locale := language.Detect(message)

	session, err := s.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return Reply{}, fmt.Errorf("load session: %w", err)
	}

	var (
		text   string
		route  string
		record = true
	)
	if key, ok := s.router.Match(message); ok {
		res, err := s.bios.Generate(ctx, key, locale)
		if err != nil {
			return Reply{}, fmt.Errorf("generate bio: %w", err)
		}
		text, route = res.Text, routeBioPrefix+key
	} else {
		answer, err := s.general(ctx, session.History, message, locale)
		if err != nil {
			s.logger.Warn("general completion failed, replying with apology",
				zap.String("session_id", sessionID),
				zap.String("locale", string(locale)),
				zap.Error(err))
			text, route, record = s.prompts.Apology(locale), RouteApology, false
		} else {
			text, route = answer, RouteGeneral
		}
	}

	text = format.Format(text, locale)
	if text == "" {
		// Nothing printable survived formatting.
		text, route, record = format.Format(s.prompts.Apology(locale), locale), RouteApology, false
	}

	if record {
		if err := s.sessions.Append(ctx, sessionID, chatmodel.RoleUser, message); err != nil {
			return Reply{}, fmt.Errorf("append user turn: %w", err)
		}
		if err := s.sessions.Append(ctx, sessionID, chatmodel.RoleAssistant, text); err != nil {
			return Reply{}, fmt.Errorf("append assistant turn: %w", err)
		}
	}

	s.metrics.ObserveChat(route, string(locale))
	s.metrics.ObserveSessions(s.sessions.Count(), 0)
	s.audit(ctx, audit.Record{
		SessionID: sessionID,
		UserID:    req.UserID,
		Locale:    string(locale),
		Route:     route,
		Question:  message,
		Answer:    text,
	})

	return Reply{Text: text, SessionID: sessionID, Locale: locale, Route: route}, nil
}

func (s *Service) audit(ctx context.Context, rec audit.Record) {
	if s.sink == nil {
		return
	}
	if s.opts.AuditTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.AuditTimeout)
		defer cancel()
	}
	if err := s.sink.Record(ctx, rec); err != nil {
		s.metrics.ObserveAuditFailure()
		s.logger.Error("audit record failed",
			zap.String("session_id", rec.SessionID),
			zap.String("route", rec.Route),
			zap.Error(err))
	}
}
