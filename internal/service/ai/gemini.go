package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

const (
	geminiTopP = float32(0.9)
	geminiTopK = float32(40)
)

// GeminiGenerator calls the Gemini API. The system prompt and the user
// prompt are sent as a single text part.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	params Params
}

// NewGeminiGenerator creates the underlying client. An empty baseURL uses the
// public endpoint.
func NewGeminiGenerator(ctx context.Context, apiKey, baseURL, model string, params Params) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model, params: params}, nil
}

// Name implements Generator.
func (g *GeminiGenerator) Name() string {
	return "google"
}

// Generate implements Generator. History is ignored; the user prompt already
// carries the recent turns.
func (g *GeminiGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	maxTokens, temperature := g.params.resolve(p)
	topP := geminiTopP
	topK := geminiTopK

	text := p.User
	if p.System != "" {
		text = p.System + "\n\n---\n\n" + p.User
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		TopP:            &topP,
		TopK:            &topK,
		MaxOutputTokens: int32(maxTokens),
		SafetySettings:  safetySettings(),
	}

	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	res, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	content := strings.TrimSpace(res.Text())
	if content == "" {
		return "", ErrEmptyReply
	}

	log.Printf("[ai] gemini generated reply, model=%s, length=%d", g.model, len(content))
	return content, nil
}

// safetySettings disables blocking so crisis conversations are not cut off.
func safetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		settings = append(settings, &genai.SafetySetting{Category: c, Threshold: genai.HarmBlockThresholdBlockNone})
	}
	return settings
}
