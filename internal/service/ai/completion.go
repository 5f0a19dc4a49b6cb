package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oilnova/chat-ai/backend/internal/config"
	"github.com/oilnova/chat-ai/backend/internal/model/chat"
)

var (
	ErrProviderDisabled = errors.New("no completion provider configured")
	ErrEmptyCompletion  = errors.New("completion returned no content")
)

// CompletionRequest is one call to the model: system prompt, prior turns and the
// new user message, in that order.
type CompletionRequest struct {
	System   string
	History  []chat.Turn
	Query    string
	Sampling config.Sampling
}

// Completer sends a message list to a hosted model and returns the assistant text.
// Every failure is reported as *UpstreamError.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// UpstreamError wraps auth, network, rate-limit and timeout failures of a provider.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s completion failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the call hit its deadline.
func (e *UpstreamError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// NewCompleter builds the completer selected by cfg.Provider, bounded by
// cfg.RequestTimeout.
func NewCompleter(ctx context.Context, cfg config.AIConfig) (Completer, error) {
	var c Completer
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if !cfg.OpenAIEnabled() {
			return nil, fmt.Errorf("openai provider selected but GROQ_API_KEY/OPENAI_API_KEY is empty")
		}
		c = NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	case config.ProviderArk:
		chatModel, err := NewArkChatModel(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		ark, err := NewArkCompleter(ctx, chatModel)
		if err != nil {
			return nil, err
		}
		c = ark
	default:
		c = DisabledCompleter{}
	}
	return WithTimeout(c, cfg.RequestTimeout), nil
}

// DisabledCompleter fails every call. It keeps the service answering (fallback
// bios and apologies) when no provider is configured.
type DisabledCompleter struct{}

func (DisabledCompleter) Complete(context.Context, CompletionRequest) (string, error) {
	return "", &UpstreamError{Provider: config.ProviderNone, Err: ErrProviderDisabled}
}

type timeoutCompleter struct {
	next    Completer
	timeout time.Duration
}

// WithTimeout bounds every call of next by timeout. A non-positive timeout
// returns next unchanged.
func WithTimeout(next Completer, timeout time.Duration) Completer {
	if timeout <= 0 {
		return next
	}
	return &timeoutCompleter{next: next, timeout: timeout}
}

func (c *timeoutCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.next.Complete(ctx, req)
}

// upstreamError wraps err for provider, making a context deadline visible to
// Timeout even when the client library drops it from its error chain.
func upstreamError(ctx context.Context, provider string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = fmt.Errorf("%w: %v", ctxErr, err)
	}
	return &UpstreamError{Provider: provider, Err: err}
}
