// Package ai wraps the external text generation providers behind one
// interface. Every provider receives already anonymized text.
package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/zhouzirui/z-counsel/backend/internal/config"
)

// ErrEmptyReply is returned when a provider answers without any text.
var ErrEmptyReply = errors.New("provider returned an empty reply")

// Exchange is one earlier user message and the reply given to it.
type Exchange struct {
	User      string
	Assistant string
}

// Prompt is everything a provider needs for one completion.
type Prompt struct {
	System  string
	User    string
	History []Exchange
	// MaxTokens and Temperature override the configured defaults when set.
	MaxTokens   int
	Temperature *float32
}

// Generator produces a single reply for a prompt.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
	Name() string
}

// Params are the sampling defaults shared by every provider.
type Params struct {
	MaxTokens   int
	Temperature float32
}

func (p Params) resolve(prompt Prompt) (int, float32) {
	maxTokens := p.MaxTokens
	if prompt.MaxTokens > 0 {
		maxTokens = prompt.MaxTokens
	}
	temperature := p.Temperature
	if prompt.Temperature != nil {
		temperature = *prompt.Temperature
	}
	return maxTokens, temperature
}

// NewGenerator builds the generator selected by cfg.Provider. It returns
// (nil, nil) for the local provider.
func NewGenerator(ctx context.Context, cfg config.AIConfig) (Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	params := Params{MaxTokens: cfg.MaxTokens, Temperature: float32(cfg.Temperature)}

	switch cfg.Provider {
	case "", config.ProviderLocal:
		return nil, nil
	case config.ProviderOpenAI:
		return NewOpenAIGenerator(cfg.APIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, params), nil
	case config.ProviderGoogle:
		return NewGeminiGenerator(ctx, cfg.APIKey, "", cfg.GeminiModel, params)
	case config.ProviderArk:
		chatModel, err := cfg.Ark.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		return NewChainGenerator(ctx, config.ProviderArk, chatModel, params)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, cfg.Provider)
	}
}

// Probe sends a minimal prompt to check that credentials and connectivity
// work.
func Probe(ctx context.Context, g Generator) error {
	_, err := g.Generate(ctx, Prompt{User: "테스트", MaxTokens: 50})
	return err
}
