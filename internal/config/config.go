package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider names accepted by AI_PROVIDER.
const (
	ProviderArk    = "ark"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Session SessionConfig
	Audit   AuditConfig
	Log     LogConfig
	Metrics MetricsConfig
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

	audit, err := loadAuditConfig()
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		AI:      ai,
		Session: session,
		Audit:   audit,
		Log:     logCfg,
		Metrics: MetricsConfig{Namespace: getEnvOrDefault("METRICS_NAMESPACE", "oilnova")},
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "5000"
	}

	origins := splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"))

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":5000" 或 "127.0.0.1:5000"。
		return ServerConfig{Addr: port, AllowedOrigins: origins}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, AllowedOrigins: origins}, nil
}

// Sampling 描述一次补全调用的采样参数。
type Sampling struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider string

	// Volcengine Ark, driven through an eino chain.
	ArkAPIKey    string
	ArkAccessKey string
	ArkSecretKey string
	ArkModel     string
	ArkBaseURL   string
	ArkRegion    string

	// Any OpenAI-compatible endpoint; Groq by default.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	Chat           Sampling
	BioTemperature float32
	BioMaxTokens   int
	RequestTimeout time.Duration
}

// ArkEnabled 表示是否提供了 Ark 所需的密钥。
func (c AIConfig) ArkEnabled() bool {
	return c.ArkModel != "" && (c.ArkAPIKey != "" || (c.ArkAccessKey != "" && c.ArkSecretKey != ""))
}

// OpenAIEnabled 表示是否提供了 OpenAI 兼容接口的密钥。
func (c AIConfig) OpenAIEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// BioSampling returns the sampling used for biography rewrites.
func (c AIConfig) BioSampling() Sampling {
	return Sampling{Temperature: c.BioTemperature, TopP: c.Chat.TopP, MaxTokens: c.BioMaxTokens}
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseFloat32Env("LLM_TEMPERATURE", 0.7)
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseFloat32Env("LLM_TOP_P", 0.9)
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseIntEnv("LLM_MAX_TOKENS", 1024)
	if err != nil {
		return AIConfig{}, err
	}

	bioTemperature, err := parseFloat32Env("BIO_TEMPERATURE", 0.2)
	if err != nil {
		return AIConfig{}, err
	}

	bioMaxTokens, err := parseIntEnv("BIO_MAX_TOKENS", 400)
	if err != nil {
		return AIConfig{}, err
	}

	timeout, err := parseDurationEnv("LLM_REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return AIConfig{}, err
	}

	openAIKey := strings.TrimSpace(os.Getenv("GROQ_API_KEY"))
	if openAIKey == "" {
		openAIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}

	cfg := AIConfig{
		Provider:      strings.ToLower(strings.TrimSpace(os.Getenv("AI_PROVIDER"))),
		ArkAPIKey:     strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		ArkAccessKey:  strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		ArkSecretKey:  strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		ArkModel:      strings.TrimSpace(os.Getenv("ARK_MODEL")),
		ArkBaseURL:    getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		ArkRegion:     getEnvOrDefault("ARK_REGION", "cn-beijing"),
		OpenAIAPIKey:  openAIKey,
		OpenAIBaseURL: getEnvOrDefault("OPENAI_BASE_URL", "https://api.groq.com/openai/v1"),
		OpenAIModel:   getEnvOrDefault("OPENAI_MODEL", "llama-3.3-70b-versatile"),
		Chat: Sampling{
			Temperature: temperature,
			TopP:        topP,
			MaxTokens:   maxTokens,
		},
		BioTemperature: bioTemperature,
		BioMaxTokens:   bioMaxTokens,
		RequestTimeout: timeout,
	}

	switch cfg.Provider {
	case "":
		// 未显式指定时按已配置的凭证推断。
		switch {
		case cfg.OpenAIEnabled():
			cfg.Provider = ProviderOpenAI
		case cfg.ArkEnabled():
			cfg.Provider = ProviderArk
		default:
			cfg.Provider = ProviderNone
		}
	case ProviderArk, ProviderOpenAI, ProviderNone:
	default:
		return AIConfig{}, fmt.Errorf("invalid AI_PROVIDER value %q", cfg.Provider)
	}

	if maxTokens <= 0 || bioMaxTokens <= 0 {
		return AIConfig{}, fmt.Errorf("LLM_MAX_TOKENS and BIO_MAX_TOKENS must be positive")
	}
	if timeout <= 0 {
		return AIConfig{}, fmt.Errorf("LLM_REQUEST_TIMEOUT must be positive")
	}

	return cfg, nil
}

// SessionConfig 描述会话存储配置。
type SessionConfig struct {
	HistoryLimit  int
	TTL           time.Duration
	SweepInterval time.Duration
	DefaultID     string
}

func loadSessionConfig() (SessionConfig, error) {
	limit, err := parseIntEnv("SESSION_HISTORY_LIMIT", 12)
	if err != nil {
		return SessionConfig{}, err
	}
	if limit < 2 {
		return SessionConfig{}, fmt.Errorf("SESSION_HISTORY_LIMIT must be at least 2, got %d", limit)
	}

	ttl, err := parseDurationEnv("SESSION_TTL", time.Hour)
	if err != nil {
		return SessionConfig{}, err
	}

	// 0 表示只在请求到来时清理过期会话。
	sweep, err := parseDurationEnv("SESSION_SWEEP_INTERVAL", 0)
	if err != nil {
		return SessionConfig{}, err
	}

	return SessionConfig{
		HistoryLimit:  limit,
		TTL:           ttl,
		SweepInterval: sweep,
		DefaultID:     getEnvOrDefault("DEFAULT_SESSION_ID", "default"),
	}, nil
}

// AuditConfig 描述问答审计记录配置。
type AuditConfig struct {
	DatabaseURL string
	Timeout     time.Duration
}

func loadAuditConfig() (AuditConfig, error) {
	timeout, err := parseDurationEnv("AUDIT_TIMEOUT", 3*time.Second)
	if err != nil {
		return AuditConfig{}, err
	}
	return AuditConfig{
		DatabaseURL: strings.TrimSpace(os.Getenv("AUDIT_DATABASE_URL")),
		Timeout:     timeout,
	}, nil
}

// LogConfig 描述日志配置。
type LogConfig struct {
	Level       string
	Development bool
}

func loadLogConfig() (LogConfig, error) {
	dev, err := parseBoolEnv("LOG_DEVELOPMENT", false)
	if err != nil {
		return LogConfig{}, err
	}
	return LogConfig{
		Level:       strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		Development: dev,
	}, nil
}

// MetricsConfig 描述 Prometheus 指标配置。
type MetricsConfig struct {
	Namespace string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
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

func parseIntEnv(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseFloat32Env(key string, defaultValue float32) (float32, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return float32(val), nil
}

// parseDurationEnv accepts Go durations ("90s") or plain seconds ("90").
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}
