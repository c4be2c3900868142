package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Provider names accepted in AI_PROVIDER.
const (
	ProviderLocal  = "local"
	ProviderOpenAI = "openai"
	ProviderGoogle = "google"
	ProviderArk    = "ark"
)

var (
	ErrMissingCredential = errors.New("provider credential is missing")
	ErrUnknownProvider   = errors.New("unknown ai provider")
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Session SessionConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Session: session}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// SessionConfig 控制内存会话的生命周期。
type SessionConfig struct {
	IdleTimeout time.Duration
}

func loadSessionConfig() (SessionConfig, error) {
	minutes, err := parseOptionalIntEnv("SESSION_IDLE_MINUTES")
	if err != nil {
		return SessionConfig{}, err
	}
	idle := 60
	if minutes != nil && *minutes > 0 {
		idle = *minutes
	}
	return SessionConfig{IdleTimeout: time.Duration(idle) * time.Minute}, nil
}

// AIConfig 描述外部生成服务的选择与凭证。
type AIConfig struct {
	Provider        string
	APIKey          string
	OpenAIModel     string
	OpenAIBaseURL   string
	GeminiModel     string
	Ark             ArkConfig
	Timeout         time.Duration
	MaxTokens       int
	Temperature     float64
	AnalysisEnabled bool
}

// Local reports whether replies come only from the local selector.
func (c AIConfig) Local() bool {
	return c.Provider == "" || c.Provider == ProviderLocal
}

// Validate checks that the selected provider has what it needs.
func (c AIConfig) Validate() error {
	switch c.Provider {
	case "", ProviderLocal:
		return nil
	case ProviderOpenAI, ProviderGoogle:
		if c.APIKey == "" {
			return fmt.Errorf("%s: %w (set AI_API_KEY)", c.Provider, ErrMissingCredential)
		}
		return nil
	case ProviderArk:
		if !c.Ark.Enabled() {
			return fmt.Errorf("ark: %w (set ARK_MODEL with ARK_API_KEY or AK/SK)", ErrMissingCredential)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
}

// ArkConfig 描述火山方舟大模型相关配置。
type ArkConfig struct {
	APIKey    string
	AccessKey string
	SecretKey string
	Model     string
	BaseURL   string
	Region    string
}

// arkTopP matches the nucleus setting of the other providers. Token limit and
// temperature are passed per call.
const arkTopP = float32(0.9)

// Enabled 表示是否提供了必需的密钥。
func (c ArkConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c ArkConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark: %w", ErrMissingCredential)
	}

	topP := arkTopP
	return ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:   c.BaseURL,
		Region:    c.Region,
		APIKey:    c.APIKey,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		Model:     c.Model,
		TopP:      &topP,
	})
}

func loadAIConfig() (AIConfig, error) {
	timeout, err := parseOptionalIntEnv("AI_TIMEOUT_SECONDS")
	if err != nil {
		return AIConfig{}, err
	}
	timeoutSeconds := 20
	if timeout != nil && *timeout > 0 {
		timeoutSeconds = *timeout
	}

	maxTokens, err := parseOptionalIntEnv("AI_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}
	tokens := 800
	if maxTokens != nil && *maxTokens > 0 {
		tokens = *maxTokens
	}

	temperature, err := parseOptionalFloatEnv("AI_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}
	temp := 0.7
	if temperature != nil {
		temp = *temperature
	}

	analysis, err := parseBoolEnv("ANALYSIS_AI_ENABLED", true)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		Provider:        strings.ToLower(getEnvOrDefault("AI_PROVIDER", ProviderLocal)),
		APIKey:          strings.TrimSpace(os.Getenv("AI_API_KEY")),
		OpenAIModel:     getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:   getEnvOrDefault("OPENAI_BASE_URL", ""),
		GeminiModel:     getEnvOrDefault("GEMINI_MODEL", "gemini-pro"),
		Ark:             loadArkConfig(),
		Timeout:         time.Duration(timeoutSeconds) * time.Second,
		MaxTokens:       tokens,
		Temperature:     temp,
		AnalysisEnabled: analysis,
	}, nil
}

func loadArkConfig() ArkConfig {
	return ArkConfig{
		APIKey:    strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey: strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:     strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:   getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:    getEnvOrDefault("ARK_REGION", "cn-beijing"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
