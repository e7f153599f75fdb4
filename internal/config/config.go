package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/uiguide/internal/llm"
)

type Config struct {
	Port   string `yaml:"port"`
	WebDir string `yaml:"web_dir"`

	// Optional static key guarding the API routes. Empty disables the check.
	GatewayAPIKey string `yaml:"gateway_api_key"`

	// Figma
	FigmaAPIBase   string        `yaml:"figma_api_base"`
	FigmaAPIToken  string        `yaml:"figma_api_token"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	FigmaMaxBytes  int64         `yaml:"figma_max_bytes"`

	// Completion provider
	LLMProvider     string        `yaml:"llm_provider"`
	LLMAPIBase      string        `yaml:"llm_api_base"`
	LLMAPIKey       string        `yaml:"llm_api_key"`
	LLMModelName    string        `yaml:"llm_model_name"`
	LLMModelSuffix  string        `yaml:"llm_model_suffix"`
	HFToken         string        `yaml:"huggingface_api_token"`
	LLMTemperature  float64       `yaml:"llm_temperature"`
	LLMMaxNewTokens int           `yaml:"llm_max_new_tokens"`
	LLMTimeout      time.Duration `yaml:"llm_timeout"`
	LLMStatsWindow  time.Duration `yaml:"llm_stats_window"`

	// Prompt
	PromptElementLimit int `yaml:"prompt_element_limit"`

	LogLevel string `yaml:"log_level"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:   "8000",
		WebDir: "web",

		FigmaAPIBase:   "https://api.figma.com/v1",
		RequestTimeout: 15 * time.Second,
		FigmaMaxBytes:  64 << 20,

		LLMProvider:     llm.ProviderHFRouter,
		LLMAPIBase:      "https://router.huggingface.co/v1/",
		LLMModelName:    "HuggingFaceTB/SmolLM3-3B",
		LLMModelSuffix:  "hf-inference",
		LLMTemperature:  0.2,
		LLMMaxNewTokens: 1024,
		LLMTimeout:      60 * time.Second,
		LLMStatsWindow:  time.Hour,

		PromptElementLimit: 20,

		LogLevel: "info",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.WebDir = envOr("WEB_DIR", cfg.WebDir)
	cfg.GatewayAPIKey = envOr("GATEWAY_API_KEY", cfg.GatewayAPIKey)

	cfg.FigmaAPIBase = envOr("FIGMA_API_BASE", cfg.FigmaAPIBase)
	cfg.FigmaAPIToken = envOr("FIGMA_API_TOKEN", cfg.FigmaAPIToken)
	cfg.RequestTimeout = envSeconds("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.FigmaMaxBytes = envInt64("FIGMA_MAX_BYTES", cfg.FigmaMaxBytes)

	cfg.LLMProvider = strings.ToLower(envOr("LLM_PROVIDER", cfg.LLMProvider))
	cfg.LLMAPIBase = envOr("LLM_API_BASE", cfg.LLMAPIBase)
	cfg.LLMAPIKey = envOr("LLM_API_KEY", cfg.LLMAPIKey)
	cfg.LLMModelName = envOr("LLM_MODEL_NAME", cfg.LLMModelName)
	cfg.LLMModelSuffix = envOr("LLM_MODEL_SUFFIX", cfg.LLMModelSuffix)
	cfg.HFToken = envOr("HUGGINGFACE_API_TOKEN", cfg.HFToken)
	cfg.LLMTemperature = envFloat("LLM_TEMPERATURE", cfg.LLMTemperature)
	cfg.LLMMaxNewTokens = envInt("LLM_MAX_NEW_TOKENS", cfg.LLMMaxNewTokens)
	cfg.LLMTimeout = envSeconds("LLM_TIMEOUT", cfg.LLMTimeout)
	cfg.LLMStatsWindow = envDuration("LLM_STATS_WINDOW", cfg.LLMStatsWindow)

	cfg.PromptElementLimit = envInt("PROMPT_ELEMENT_LIMIT", cfg.PromptElementLimit)
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)

	def := Defaults()
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.FigmaMaxBytes <= 0 {
		cfg.FigmaMaxBytes = def.FigmaMaxBytes
	}
	if cfg.LLMMaxNewTokens <= 0 {
		cfg.LLMMaxNewTokens = def.LLMMaxNewTokens
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = def.LLMTimeout
	}
	if cfg.LLMStatsWindow <= 0 {
		cfg.LLMStatsWindow = def.LLMStatsWindow
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if !slices.Contains(llm.Providers, c.LLMProvider) {
		return fmt.Errorf("LLM_PROVIDER must be one of %s, got %q", strings.Join(llm.Providers, ", "), c.LLMProvider)
	}
	if c.LLMModelName == "" {
		return fmt.Errorf("LLM_MODEL_NAME is required")
	}
	if c.LLMProvider == llm.ProviderHF && c.LLMAPIBase == "" {
		return fmt.Errorf("LLM_API_BASE is required for the hf provider")
	}
	if c.PromptElementLimit < 0 {
		return fmt.Errorf("PROMPT_ELEMENT_LIMIT must not be negative")
	}
	return nil
}

// LLMOptions maps the configuration onto provider options. Hugging Face
// providers authenticate with the HF token.
func (c Config) LLMOptions() llm.Options {
	key := c.LLMAPIKey
	if (c.LLMProvider == llm.ProviderHF || c.LLMProvider == llm.ProviderHFRouter) && c.HFToken != "" {
		key = c.HFToken
	}
	return llm.Options{
		Provider:    c.LLMProvider,
		BaseURL:     c.LLMAPIBase,
		APIKey:      key,
		Model:       c.LLMModelName,
		ModelSuffix: c.LLMModelSuffix,
		Temperature: c.LLMTemperature,
		MaxTokens:   c.LLMMaxNewTokens,
		Timeout:     c.LLMTimeout,
	}
}

// SlogLevel converts LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envSeconds accepts either a Go duration ("15s") or a bare number of seconds.
func envSeconds(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(f * float64(time.Second))
	}
	return envDuration(key, fallback)
}
