package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Service.Name != "review-risk" {
		t.Errorf("Service.Name = %q", cfg.Service.Name)
	}
	if cfg.Service.Port != 8085 {
		t.Errorf("Service.Port = %d, want 8085", cfg.Service.Port)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 {
		t.Errorf("database defaults = %s:%d", cfg.Database.Host, cfg.Database.Port)
	}
	if cfg.LLM.Temperature != 0.1 {
		t.Errorf("LLM.Temperature = %f, want 0.1", cfg.LLM.Temperature)
	}
	if cfg.LLM.BatchSize != 5 || cfg.LLM.BatchDelay != 500*time.Millisecond {
		t.Errorf("batch defaults = %d / %s", cfg.LLM.BatchSize, cfg.LLM.BatchDelay)
	}
	if cfg.LLM.MaxAttempts != 2 || cfg.LLM.RetryDelay != 300*time.Millisecond {
		t.Errorf("retry defaults = %d / %s", cfg.LLM.MaxAttempts, cfg.LLM.RetryDelay)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, path, `
service:
  name: review-risk-staging
  port: 9090
llm:
  model: openai/gpt-4o
  batch_size: 3
  batch_delay: 250ms
logging:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Service.Name != "review-risk-staging" || cfg.Service.Port != 9090 {
		t.Errorf("service = %q:%d", cfg.Service.Name, cfg.Service.Port)
	}
	if cfg.LLM.Model != "openai/gpt-4o" {
		t.Errorf("LLM.Model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.BatchSize != 3 || cfg.LLM.BatchDelay != 250*time.Millisecond {
		t.Errorf("batch = %d / %s", cfg.LLM.BatchSize, cfg.LLM.BatchDelay)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	// Untouched sections still get defaults.
	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want default", cfg.Database.Host)
	}
}

func TestLoadEnvOverridesWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, path, `
service:
  port: 9090
database:
  host: db.internal
`)

	t.Setenv("REVIEWRISK_PORT", "7070")
	t.Setenv("POSTGRES_HOST", "10.0.0.5")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("APP_DEBUG", "true")
	t.Setenv("LLM_RPS", "25")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Service.Port != 7070 {
		t.Errorf("Service.Port = %d, want env override 7070", cfg.Service.Port)
	}
	if cfg.Database.Host != "10.0.0.5" {
		t.Errorf("Database.Host = %q, want env override", cfg.Database.Host)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("LLM.APIKey = %q", cfg.LLM.APIKey)
	}
	if !cfg.Service.Debug {
		t.Error("Service.Debug not set from APP_DEBUG")
	}
	if cfg.LLM.RequestsPerSecond != 25 {
		t.Errorf("LLM.RequestsPerSecond = %d, want 25", cfg.LLM.RequestsPerSecond)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "service.env")
	writeFile(t, envPath, "LLM_MODEL=anthropic/claude-3-haiku\n")

	t.Setenv("ENV_FILE", envPath)
	t.Cleanup(func() { os.Unsetenv("LLM_MODEL") })

	cfg, err := Load(filepath.Join(dir, "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LLM.Model != "anthropic/claude-3-haiku" {
		t.Errorf("LLM.Model = %q, want value from env file", cfg.LLM.Model)
	}
}

func TestParseBool(t *testing.T) {
	trues := []string{"1", "t", "TRUE", "yes", "On", " true "}
	for _, v := range trues {
		if !parseBool(v) {
			t.Errorf("parseBool(%q) = false, want true", v)
		}
	}
	falses := []string{"", "0", "false", "no", "off", "maybe"}
	for _, v := range falses {
		if parseBool(v) {
			t.Errorf("parseBool(%q) = true, want false", v)
		}
	}
}
