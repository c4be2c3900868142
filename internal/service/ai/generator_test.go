package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/zhouzirui/z-counsel/backend/internal/config"
)

type recordingModel struct {
	reply   string
	err     error
	input   []*schema.Message
	options *model.Options
}

func (m *recordingModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.input = input
	m.options = model.GetCommonOptions(&model.Options{}, opts...)
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *recordingModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func TestChainGeneratorBuildsMessages(t *testing.T) {
	ctx := context.Background()
	fake := &recordingModel{reply: "  괜찮으세요?  "}
	gen, err := NewChainGenerator(ctx, "fake", fake, Params{MaxTokens: 800, Temperature: 0.7})
	if err != nil {
		t.Fatalf("NewChainGenerator err: %v", err)
	}

	reply, err := gen.Generate(ctx, Prompt{
		System:  "system",
		User:    "지금 메시지",
		History: []Exchange{{User: "이전", Assistant: "답변"}, {User: "대답 없음"}},
	})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if reply != "괜찮으세요?" {
		t.Fatalf("expected trimmed reply, got %q", reply)
	}

	roles := []schema.RoleType{schema.System, schema.User, schema.Assistant, schema.User, schema.User}
	if len(fake.input) != len(roles) {
		t.Fatalf("expected %d messages, got %d", len(roles), len(fake.input))
	}
	for i, role := range roles {
		if fake.input[i].Role != role {
			t.Fatalf("message %d: expected role %s, got %s", i, role, fake.input[i].Role)
		}
	}
	if fake.input[4].Content != "지금 메시지" {
		t.Fatalf("unexpected final message %q", fake.input[4].Content)
	}
	if fake.options.MaxTokens == nil || *fake.options.MaxTokens != 800 {
		t.Fatalf("expected default max tokens, got %v", fake.options.MaxTokens)
	}
}

func TestChainGeneratorOverridesAndErrors(t *testing.T) {
	ctx := context.Background()
	fake := &recordingModel{reply: " "}
	gen, err := NewChainGenerator(ctx, "fake", fake, Params{MaxTokens: 800, Temperature: 0.7})
	if err != nil {
		t.Fatalf("NewChainGenerator err: %v", err)
	}

	temp := float32(0.5)
	_, err = gen.Generate(ctx, Prompt{System: "s", User: "u", MaxTokens: 1000, Temperature: &temp})
	if !errors.Is(err, ErrEmptyReply) {
		t.Fatalf("expected ErrEmptyReply, got %v", err)
	}
	if *fake.options.MaxTokens != 1000 || *fake.options.Temperature != 0.5 {
		t.Fatalf("expected overrides, got %d %v", *fake.options.MaxTokens, *fake.options.Temperature)
	}

	fake.err = errors.New("boom")
	if _, err := gen.Generate(ctx, Prompt{System: "s", User: "u"}); err == nil {
		t.Fatal("expected model error to surface")
	}
}

func TestOpenAIGenerator(t *testing.T) {
	var got struct {
		Model            string  `json:"model"`
		MaxTokens        int     `json:"max_tokens"`
		FrequencyPenalty float32 `json:"frequency_penalty"`
		Messages         []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"마음이 무거우시군요."},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator("key", srv.URL+"/v1", "gpt-4o-mini", Params{MaxTokens: 800, Temperature: 0.7})
	reply, err := gen.Generate(context.Background(), Prompt{
		System:  "system",
		User:    "user",
		History: []Exchange{{User: "prev", Assistant: "answer"}},
	})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if reply != "마음이 무거우시군요." {
		t.Fatalf("unexpected reply %q", reply)
	}
	if got.Model != "gpt-4o-mini" || got.MaxTokens != 800 {
		t.Fatalf("unexpected request %+v", got)
	}
	if got.FrequencyPenalty != openAIRepeatPenalty {
		t.Fatalf("expected frequency penalty %v, got %v", openAIRepeatPenalty, got.FrequencyPenalty)
	}
	if len(got.Messages) != 4 || got.Messages[0].Role != "system" || got.Messages[3].Content != "user" {
		t.Fatalf("unexpected messages %+v", got.Messages)
	}
}

func TestOpenAIGeneratorFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator("key", srv.URL+"/v1", "gpt-4o-mini", Params{MaxTokens: 800})
	if err := Probe(context.Background(), gen); err == nil {
		t.Fatal("expected probe to fail on 401")
	}
}

func TestGeminiGenerator(t *testing.T) {
	var got struct {
		Contents []struct {
			Role  string `json:"role"`
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
		SafetySettings []struct {
			Category  string `json:"category"`
			Threshold string `json:"threshold"`
		} `json:"safetySettings"`
	}
	reply := "천천히 이야기해 주세요."

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent") {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": reply}}},
				"finishReason": "STOP",
			}},
		})
	}))
	defer srv.Close()

	ctx := context.Background()
	gen, err := NewGeminiGenerator(ctx, "key", srv.URL, "gemini-test", Params{MaxTokens: 800, Temperature: 0.7})
	if err != nil {
		t.Fatalf("NewGeminiGenerator err: %v", err)
	}

	text, err := gen.Generate(ctx, Prompt{
		System:  "system",
		User:    "user",
		History: []Exchange{{User: "prev", Assistant: "answer"}},
	})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if text != reply {
		t.Fatalf("unexpected reply %q", text)
	}
	if len(got.Contents) != 1 || got.Contents[0].Role != "user" || len(got.Contents[0].Parts) != 1 {
		t.Fatalf("expected a single user part, got %+v", got.Contents)
	}
	if part := got.Contents[0].Parts[0].Text; !strings.HasPrefix(part, "system") || !strings.HasSuffix(part, "user") {
		t.Fatalf("expected system and user text merged, got %q", part)
	}
	if len(got.SafetySettings) != 4 {
		t.Fatalf("expected 4 safety settings, got %+v", got.SafetySettings)
	}
	for _, s := range got.SafetySettings {
		if s.Threshold != "BLOCK_NONE" {
			t.Fatalf("expected BLOCK_NONE, got %+v", s)
		}
	}

	reply = "  "
	if _, err := gen.Generate(ctx, Prompt{System: "s", User: "u"}); !errors.Is(err, ErrEmptyReply) {
		t.Fatalf("expected ErrEmptyReply, got %v", err)
	}
}

func TestNewGeneratorLocalAndInvalid(t *testing.T) {
	ctx := context.Background()

	gen, err := NewGenerator(ctx, config.AIConfig{Provider: config.ProviderLocal})
	if err != nil || gen != nil {
		t.Fatalf("expected nil generator for local, got %v %v", gen, err)
	}

	if _, err := NewGenerator(ctx, config.AIConfig{Provider: config.ProviderOpenAI}); !errors.Is(err, config.ErrMissingCredential) {
		t.Fatalf("expected missing credential, got %v", err)
	}

	gen, err = NewGenerator(ctx, config.AIConfig{Provider: config.ProviderOpenAI, APIKey: "k", OpenAIModel: "m"})
	if err != nil || gen.Name() != "openai" {
		t.Fatalf("expected openai generator, got %v %v", gen, err)
	}
}
