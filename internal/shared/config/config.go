package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"legalsim-backend/internal/shared/telemetry"
)

const (
	FailurePolicyKeep       = "keep"
	FailurePolicyMarkFailed = "mark_failed"

	defaultConfigFile = "configs/legalsim.toml"
)

// Config holds application configuration.
type Config struct {
	Port                   string   `toml:"port"`
	Env                    string   `toml:"env"`
	CORSAllowOrigin        []string `toml:"cors_allow_origins"`
	DatabaseURL            string   `toml:"database_url"`
	OpenAIAPIKey           string   `toml:"openai_api_key"`
	OpenAIBaseURL          string   `toml:"openai_base_url"`
	LLMModel               string   `toml:"llm_model"`
	LLMMaxCompletionTokens int      `toml:"llm_max_completion_tokens"`
	LLMTimeoutSeconds      int      `toml:"llm_timeout_seconds"`
	RedisURL               string   `toml:"redis_url"`
	AnalysisCacheTTLSecs   int      `toml:"analysis_cache_ttl_seconds"`
	RabbitMQURL            string   `toml:"rabbitmq_url"`
	RabbitMQAnalysisQueue  string   `toml:"rabbitmq_analysis_queue"`
	AnalyzeRatePerMinute   float64  `toml:"analyze_rate_per_minute"`
	AnalyzeBurst           int      `toml:"analyze_burst"`
	MaxBodyBytes           int64    `toml:"max_body_bytes"`
	FailurePolicy          string   `toml:"failure_policy"`
	LogLevel               string   `toml:"log_level"`
	DBPool                 DBPool   `toml:"database_pool"`
}

// DBPool overrides the role-based pool defaults. Zero values keep the default.
type DBPool struct {
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `toml:"conn_max_idle_time"`
	PingTimeout     time.Duration `toml:"ping_timeout"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:                   "8080",
		Env:                    "dev",
		CORSAllowOrigin:        []string{"*"},
		OpenAIBaseURL:          "https://api.openai.com/v1",
		LLMModel:               "gpt-5-2025-08-07",
		LLMMaxCompletionTokens: 2000,
		LLMTimeoutSeconds:      120,
		AnalysisCacheTTLSecs:   3600,
		RabbitMQAnalysisQueue:  "legalsim.analysis.completed",
		AnalyzeRatePerMinute:   20,
		AnalyzeBurst:           5,
		MaxBodyBytes:           10 << 20,
		FailurePolicy:          FailurePolicyKeep,
		LogLevel:               "INFO",
	}
}

// Load reads configuration from an optional TOML file, .env files and the environment.
func Load() Config {
	cfg, err := LoadFrom(getEnv("CONFIG_FILE", defaultConfigFile))
	if err != nil {
		telemetry.Error("config.load_failed", map[string]any{"error": err.Error()})
		cfg = Default()
		overrideByEnv(&cfg)
	}
	return cfg
}

// LoadFrom applies the file at path (if present) and then environment overrides.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("decode config file %s: %w", path, err)
			}
		}
	}

	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	overrideByEnv(&cfg)

	if cfg.Env == "production" && cfg.DatabaseURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": cfg.Env})
	}
	telemetry.SetLevel(cfg.LogLevel)
	return cfg, nil
}

func overrideByEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = normalizeEnv(getEnv("ENV", cfg.Env))
	if raw := os.Getenv("CORS_ALLOW_ORIGINS"); raw != "" {
		cfg.CORSAllowOrigin = splitAndTrim(raw)
	}
	cfg.DatabaseURL = getEnv("DATABASE_URL", getEnv("SUPABASE_DB_URL", cfg.DatabaseURL))
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.LLMModel = getEnv("LLM_MODEL", cfg.LLMModel)
	cfg.LLMMaxCompletionTokens = getEnvAsInt("LLM_MAX_COMPLETION_TOKENS", cfg.LLMMaxCompletionTokens)
	cfg.LLMTimeoutSeconds = getEnvAsInt("OPENAI_TIMEOUT_SECONDS", cfg.LLMTimeoutSeconds)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.AnalysisCacheTTLSecs = getEnvAsInt("ANALYSIS_CACHE_TTL_SECONDS", cfg.AnalysisCacheTTLSecs)
	cfg.RabbitMQURL = getEnv("RABBITMQ_URL", cfg.RabbitMQURL)
	cfg.RabbitMQAnalysisQueue = getEnv("RABBITMQ_ANALYSIS_QUEUE", cfg.RabbitMQAnalysisQueue)
	cfg.AnalyzeRatePerMinute = getEnvAsFloat("ANALYZE_RATE_PER_MINUTE", cfg.AnalyzeRatePerMinute)
	cfg.AnalyzeBurst = getEnvAsInt("ANALYZE_BURST", cfg.AnalyzeBurst)
	cfg.MaxBodyBytes = int64(getEnvAsInt("MAX_BODY_BYTES", int(cfg.MaxBodyBytes)))
	cfg.FailurePolicy = normalizeFailurePolicy(getEnv("FAILURE_POLICY", cfg.FailurePolicy))
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.DBPool.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", cfg.DBPool.MaxOpenConns)
	cfg.DBPool.MaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", cfg.DBPool.MaxIdleConns)
	cfg.DBPool.ConnMaxLifetime = getEnvAsDuration("DB_CONN_MAX_LIFETIME", cfg.DBPool.ConnMaxLifetime)
	cfg.DBPool.ConnMaxIdleTime = getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", cfg.DBPool.ConnMaxIdleTime)
	cfg.DBPool.PingTimeout = getEnvAsDuration("DB_PING_TIMEOUT", cfg.DBPool.PingTimeout)
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		telemetry.Warn("config.invalid_int", map[string]any{"key": key, "value": raw})
		return def
	}
	return parsed
}

func getEnvAsFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		telemetry.Warn("config.invalid_float", map[string]any{"key": key, "value": raw})
		return def
	}
	return parsed
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		telemetry.Warn("config.invalid_duration", map[string]any{"key": key, "value": raw})
		return def
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

func normalizeFailurePolicy(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case FailurePolicyMarkFailed, "failed", "mark-failed":
		return FailurePolicyMarkFailed
	default:
		return FailurePolicyKeep
	}
}

// IsDevLike reports whether env tolerates in-memory fallbacks.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local", "test", "":
		return true
	default:
		return false
	}
}
