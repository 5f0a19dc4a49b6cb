package bio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/oilnova/chat-ai/backend/internal/analysis/language"
	"github.com/oilnova/chat-ai/backend/internal/config"
	"github.com/oilnova/chat-ai/backend/internal/model/team"
	"github.com/oilnova/chat-ai/backend/internal/observability"
	"github.com/oilnova/chat-ai/backend/internal/service/ai"
)

// ErrUnknownMember is returned for a key that is not in the team store.
var ErrUnknownMember = errors.New("unknown team member")

// Result is a generated biography.
type Result struct {
	Text string
	// Fallback is true when Text is the raw fact rendering because the
	// completion failed.
	Fallback bool
}

// Service 根据静态资料生成成员简介，模型失败时回退到确定性渲染。
type Service struct {
	store     team.Store
	completer ai.Completer
	prompts   *ai.PromptManager
	sampling  config.Sampling
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// NewService wires the bio generator. logger and metrics may be nil.
func NewService(store team.Store, completer ai.Completer, prompts *ai.PromptManager, sampling config.Sampling, logger *zap.Logger, metrics *observability.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		completer: completer,
		prompts:   prompts,
		sampling:  sampling,
		logger:    logger,
		metrics:   metrics,
	}
}

// Generate rewrites the member's facts as one paragraph in locale. It makes a
// single completion call and never retries.
func (s *Service) Generate(ctx context.Context, key string, locale language.Locale) (Result, error) {
	member, ok := s.store.FindByKey(key)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownMember, key)
	}

	facts := RenderFacts(member.Profile(locale), locale)

	start := time.Now()
	text, err := s.completer.Complete(ctx, ai.CompletionRequest{
		System:   s.prompts.BioRewrite(locale),
		Query:    facts,
		Sampling: s.sampling,
	})
	s.metrics.ObserveCompletionLatency("bio", time.Since(start))
	if err != nil {
		provider := "unknown"
		var upstream *ai.UpstreamError
		if errors.As(err, &upstream) {
			provider = upstream.Provider
		}
		s.metrics.ObserveUpstreamError(provider, "bio")
		s.logger.Warn("bio rewrite failed, using fact rendering",
			zap.String("member", key),
			zap.String("locale", string(locale)),
			zap.Error(err))
		return Result{Text: facts, Fallback: true}, nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Text: facts, Fallback: true}, nil
	}
	return Result{Text: text}, nil
}

type field struct {
	english string
	arabic  string
	value   func(team.Profile) string
}

var fields = []field{
	{"Name", "الاسم", func(p team.Profile) string { return p.Name }},
	{"Role", "الدور", func(p team.Profile) string { return p.Role }},
	{"Background", "الخلفية", func(p team.Profile) string { return p.Background }},
	{"Education", "التعليم", func(p team.Profile) string { return p.Education }},
	{"Hometown", "المدينة", func(p team.Profile) string { return p.Hometown }},
	{"Contact", "التواصل", func(p team.Profile) string { return p.Contact }},
}

// RenderFacts renders the non-empty profile fields as labelled "- " lines.
func RenderFacts(p team.Profile, locale language.Locale) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		value := strings.TrimSpace(f.value(p))
		if value == "" {
			continue
		}
		label := f.english
		if locale == language.Arabic {
			label = f.arabic
		}
		lines = append(lines, "- "+label+": "+value)
	}
	return strings.Join(lines, "\n")
}
