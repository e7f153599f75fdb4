package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/uiguide/internal/llm"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FigmaAPIBase != "https://api.figma.com/v1" {
		t.Errorf("unexpected figma base %q", cfg.FigmaAPIBase)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("expected 15s request timeout, got %v", cfg.RequestTimeout)
	}
	if cfg.PromptElementLimit != 20 {
		t.Errorf("expected element limit 20, got %d", cfg.PromptElementLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("REQUEST_TIMEOUT", "2.5")
	t.Setenv("LLM_TIMEOUT", "90s")
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("LLM_TEMPERATURE", "0.7")
	t.Setenv("PROMPT_ELEMENT_LIMIT", "0")
	t.Setenv("LLM_MAX_NEW_TOKENS", "-5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RequestTimeout != 2500*time.Millisecond {
		t.Errorf("expected 2.5s, got %v", cfg.RequestTimeout)
	}
	if cfg.LLMTimeout != 90*time.Second {
		t.Errorf("expected 90s, got %v", cfg.LLMTimeout)
	}
	if cfg.LLMProvider != llm.ProviderOpenAI {
		t.Errorf("expected lowercased provider, got %q", cfg.LLMProvider)
	}
	if cfg.LLMTemperature != 0.7 {
		t.Errorf("expected temperature 0.7, got %v", cfg.LLMTemperature)
	}
	if cfg.PromptElementLimit != 0 {
		t.Errorf("expected limit 0 to disable the cap, got %d", cfg.PromptElementLimit)
	}
	if cfg.LLMMaxNewTokens != 1024 {
		t.Errorf("expected invalid max tokens to fall back to default, got %d", cfg.LLMMaxNewTokens)
	}
}

func TestLoad_YAMLFileUnderEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uiguide.yaml")
	content := "port: \"9000\"\nllm_provider: anthropic\nllm_model_name: claude-test\nllm_timeout: 30s\nprompt_element_limit: 5\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9100" {
		t.Errorf("expected env to win over file, got port %q", cfg.Port)
	}
	if cfg.LLMProvider != llm.ProviderAnthropic || cfg.LLMModelName != "claude-test" {
		t.Errorf("expected provider/model from file, got %q/%q", cfg.LLMProvider, cfg.LLMModelName)
	}
	if cfg.LLMTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout from file, got %v", cfg.LLMTimeout)
	}
	if cfg.PromptElementLimit != 5 {
		t.Errorf("expected limit 5 from file, got %d", cfg.PromptElementLimit)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown provider", func(c *Config) { c.LLMProvider = "bard" }, true},
		{"missing model", func(c *Config) { c.LLMModelName = "" }, true},
		{"hf without base", func(c *Config) { c.LLMProvider = llm.ProviderHF; c.LLMAPIBase = "" }, true},
		{"negative limit", func(c *Config) { c.PromptElementLimit = -1 }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("expected error=%v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLLMOptions_HFTokenPreferred(t *testing.T) {
	cfg := Defaults()
	cfg.LLMAPIKey = "openai-key"
	cfg.HFToken = "hf-key"
	if got := cfg.LLMOptions().APIKey; got != "hf-key" {
		t.Errorf("expected hf token for hf_router, got %q", got)
	}
	cfg.LLMProvider = llm.ProviderOpenAI
	if got := cfg.LLMOptions().APIKey; got != "openai-key" {
		t.Errorf("expected api key for openai, got %q", got)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := Config{LogLevel: in}
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
