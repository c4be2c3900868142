package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// ChainGenerator runs prompts through an eino chat template + model chain.
type ChainGenerator struct {
	name   string
	params Params
	chain  compose.Runnable[map[string]any, *schema.Message]
}

// NewChainGenerator compiles the template chain around chatModel.
func NewChainGenerator(ctx context.Context, name string, chatModel model.BaseChatModel, params Params) (*ChainGenerator, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ChainGenerator{name: name, params: params, chain: runnable}, nil
}

// Name implements Generator.
func (g *ChainGenerator) Name() string {
	return g.name
}

// Generate implements Generator.
func (g *ChainGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	maxTokens, temperature := g.params.resolve(p)

	response, err := g.chain.Invoke(ctx, buildChainInput(p),
		compose.WithChatModelOption(
			model.WithMaxTokens(maxTokens),
			model.WithTemperature(temperature),
		),
	)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}

	content := strings.TrimSpace(response.Content)
	if content == "" {
		return "", ErrEmptyReply
	}

	log.Printf("[ai] %s generated reply, length=%d", g.name, len(content))
	return content, nil
}

// buildChainInput 将 Prompt 映射为模板变量。
func buildChainInput(p Prompt) map[string]any {
	return map[string]any{
		"system":  p.System,
		"history": buildHistoryMessages(p.History),
		"query":   p.User,
	}
}

func buildHistoryMessages(history []Exchange) []*schema.Message {
	if len(history) == 0 {
		return nil
	}

	messages := make([]*schema.Message, 0, len(history)*2)
	for _, ex := range history {
		messages = append(messages, schema.UserMessage(ex.User))
		if ex.Assistant != "" {
			messages = append(messages, schema.AssistantMessage(ex.Assistant, nil))
		}
	}
	return messages
}
