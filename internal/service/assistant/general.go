package assistant

import (
	"context"
	"errors"
	"time"

	"github.com/oilnova/chat-ai/backend/internal/analysis/language"
	chatmodel "github.com/oilnova/chat-ai/backend/internal/model/chat"
	"github.com/oilnova/chat-ai/backend/internal/service/ai"
)

// general asks the model with the persona prompt, the prior turns and the new
// message. Errors are *ai.UpstreamError.
func (s *Service) general(ctx context.Context, history []chatmodel.Turn, message string, locale language.Locale) (string, error) {
	start := time.Now()
	answer, err := s.completer.Complete(ctx, ai.CompletionRequest{
		System:   s.prompts.SystemPrompt(locale),
		History:  history,
		Query:    message,
		Sampling: s.opts.ChatSampling,
	})
	s.metrics.ObserveCompletionLatency("general", time.Since(start))
	if err != nil {
		provider := "unknown"
		var upstream *ai.UpstreamError
		if errors.As(err, &upstream) {
			provider = upstream.Provider
		}
		s.metrics.ObserveUpstreamError(provider, "general")
		return "", err
	}
	return answer, nil
}
