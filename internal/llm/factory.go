package llm

import (
	"context"
	"fmt"

	"github.com/sproutcare/sprout/internal/logging"
	"github.com/sproutcare/sprout/internal/store"
)

// NewProvider creates a Provider from configuration. The result is wrapped
// so that each call is bounded by cfg.Timeout, retried on transient errors
// and recorded to events. Provider "none" returns (nil, nil): callers run
// on the fallback engine alone.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, log *logging.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewMockProvider()
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → timeout → retry → logging → base
	logged := WithLogging(base, cfg.Provider, events, log)
	retried := WithRetry(logged, cfg.Retry)
	return WithTimeout(retried, cfg.Timeout), nil
}
