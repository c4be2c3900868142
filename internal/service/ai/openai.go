package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	openAITopP            = 0.9
	openAIRepeatPenalty   = 0.3
	openAIPresencePenalty = 0.3
)

// OpenAIGenerator calls the chat completions endpoint.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	params Params
}

// NewOpenAIGenerator returns a generator for model. An empty baseURL uses the
// public endpoint.
func NewOpenAIGenerator(apiKey, baseURL, model string, params Params) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		params: params,
	}
}

// Name implements Generator.
func (g *OpenAIGenerator) Name() string {
	return "openai"
}

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	maxTokens, temperature := g.params.resolve(p)

	messages := make([]openai.ChatCompletionMessage, 0, len(p.History)*2+2)
	if p.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: p.System})
	}
	for _, ex := range p.History {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: ex.User})
		if ex.Assistant != "" {
			messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: ex.Assistant})
		}
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: p.User})

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:            g.model,
		Messages:         messages,
		MaxTokens:        maxTokens,
		Temperature:      temperature,
		TopP:             openAITopP,
		FrequencyPenalty: openAIRepeatPenalty,
		PresencePenalty:  openAIPresencePenalty,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyReply
	}

	log.Printf("[ai] openai generated reply, model=%s, length=%d", g.model, len(content))
	return content, nil
}
