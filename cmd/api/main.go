package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/oilnova/chat-ai/backend/internal/analysis/intent"
	"github.com/oilnova/chat-ai/backend/internal/config"
	"github.com/oilnova/chat-ai/backend/internal/handler"
	"github.com/oilnova/chat-ai/backend/internal/logging"
	"github.com/oilnova/chat-ai/backend/internal/model/team"
	"github.com/oilnova/chat-ai/backend/internal/observability"
	"github.com/oilnova/chat-ai/backend/internal/service/ai"
	"github.com/oilnova/chat-ai/backend/internal/service/assistant"
	"github.com/oilnova/chat-ai/backend/internal/service/audit"
	"github.com/oilnova/chat-ai/backend/internal/service/bio"
	"github.com/oilnova/chat-ai/backend/internal/service/chat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Info("no .env file loaded, using system environment variables only", zap.Error(envErr))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(cfg.Metrics.Namespace, registry)

	completer, err := ai.NewCompleter(ctx, cfg.AI)
	if err != nil {
		logger.Warn("failed to initialize completion provider, answering with fallbacks only",
			zap.String("provider", cfg.AI.Provider), zap.Error(err))
		completer = ai.DisabledCompleter{}
	} else if cfg.AI.Provider == config.ProviderNone {
		logger.Warn("no completion provider configured; set GROQ_API_KEY or Ark credentials")
	} else {
		logger.Info("completion provider ready", zap.String("provider", cfg.AI.Provider))
	}

	auditCtx, cancelAudit := context.WithTimeout(ctx, 10*time.Second)
	sink, err := audit.NewSink(auditCtx, cfg.Audit.DatabaseURL, logger)
	cancelAudit()
	if err != nil {
		logger.Warn("failed to open audit database, logging audit records instead", zap.Error(err))
		sink = audit.NewLogSink(logger)
	}
	defer sink.Close()

	members := team.NewMemoryStore(team.Seed())
	prompts := ai.NewPromptManager()
	sessions := chat.NewService(cfg.Session.HistoryLimit)

	bios := bio.NewService(members, completer, prompts, cfg.AI.BioSampling(), logger, metrics)
	assistantSvc := assistant.NewService(
		sessions,
		intent.FromMembers(members.List()),
		bios,
		completer,
		prompts,
		sink,
		assistant.Options{
			DefaultSessionID: cfg.Session.DefaultID,
			SessionTTL:       cfg.Session.TTL,
			ChatSampling:     cfg.AI.Chat,
			AuditTimeout:     cfg.Audit.Timeout,
		},
		logger,
		metrics,
	)

	if cfg.Session.SweepInterval > 0 {
		sessions.StartJanitor(ctx, cfg.Session.SweepInterval, cfg.Session.TTL, func(evicted []string) {
			metrics.ObserveSessions(sessions.Count(), len(evicted))
			logger.Info("janitor evicted idle sessions", zap.Strings("session_ids", evicted))
		})
	}

	router := handler.NewRouter(handler.Dependencies{
		Assistant:      assistantSvc,
		Sessions:       sessions,
		Metrics:        metrics,
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	startServer(ctx, logger, cfg.Server, router)
}

func startServer(ctx context.Context, logger *zap.Logger, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("OILNOVA chat backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
