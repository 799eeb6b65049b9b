// Package config loads service configuration from a YAML file with
// environment variable overrides (including .env files).
package config

import (
	"time"

	"github.com/vitasana/review-risk/internal/logger"
)

// Default configuration values.
const (
	defaultServiceName     = "review-risk"
	defaultServicePort     = 8085
	defaultDBHost          = "localhost"
	defaultDBPort          = 5432
	defaultDBUser          = "postgres"
	defaultDBName          = "vitasana"
	defaultDBSSLMode       = "disable"
	defaultLLMEndpoint     = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel        = "openai/gpt-4o-mini"
	defaultLLMTemperature  = 0.1
	defaultLLMTimeoutSec   = 30
	defaultBatchSize       = 5
	defaultBatchDelayMs    = 500
	defaultMaxAttempts     = 2
	defaultRetryDelayMs    = 300
	defaultLLMRPS          = 10
	defaultLogLevel        = "info"
	defaultShutdownTimeout = 10 * time.Second
)

// Config holds all configuration for the review-risk service.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Logging  logger.Config  `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name            string        `yaml:"name"`
	Port            int           `env:"REVIEWRISK_PORT" yaml:"port"`
	Debug           bool          `env:"APP_DEBUG"       yaml:"debug"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds Postgres connection configuration.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_HOST"     yaml:"host"`
	Port     int    `env:"POSTGRES_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_USER"     yaml:"user"`
	Password string `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
}

// LLMConfig holds the chat-completion endpoint and pipeline tuning.
type LLMConfig struct {
	Endpoint          string        `env:"LLM_ENDPOINT" yaml:"endpoint"`
	APIKey            string        `env:"LLM_API_KEY"  yaml:"api_key"`
	Model             string        `env:"LLM_MODEL"    yaml:"model"`
	Temperature       float64       `yaml:"temperature"`
	Timeout           time.Duration `yaml:"timeout"`
	BatchSize         int           `yaml:"batch_size"`
	BatchDelay        time.Duration `yaml:"batch_delay"`
	MaxAttempts       int           `yaml:"max_attempts"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	RequestsPerSecond int           `env:"LLM_RPS" yaml:"requests_per_second"`
}

// SetDefaults applies defaults to unset fields.
func (c *Config) SetDefaults() {
	if c.Service.Name == "" {
		c.Service.Name = defaultServiceName
	}
	if c.Service.Port == 0 {
		c.Service.Port = defaultServicePort
	}
	if c.Service.ShutdownTimeout <= 0 {
		c.Service.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.Database.Host == "" {
		c.Database.Host = defaultDBHost
	}
	if c.Database.Port == 0 {
		c.Database.Port = defaultDBPort
	}
	if c.Database.User == "" {
		c.Database.User = defaultDBUser
	}
	if c.Database.Database == "" {
		c.Database.Database = defaultDBName
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = defaultDBSSLMode
	}
	if c.LLM.Endpoint == "" {
		c.LLM.Endpoint = defaultLLMEndpoint
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = defaultLLMTemperature
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = defaultLLMTimeoutSec * time.Second
	}
	if c.LLM.BatchSize <= 0 {
		c.LLM.BatchSize = defaultBatchSize
	}
	if c.LLM.BatchDelay <= 0 {
		c.LLM.BatchDelay = defaultBatchDelayMs * time.Millisecond
	}
	if c.LLM.MaxAttempts <= 0 {
		c.LLM.MaxAttempts = defaultMaxAttempts
	}
	if c.LLM.RetryDelay <= 0 {
		c.LLM.RetryDelay = defaultRetryDelayMs * time.Millisecond
	}
	if c.LLM.RequestsPerSecond <= 0 {
		c.LLM.RequestsPerSecond = defaultLLMRPS
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
