// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig
	Cache      CacheConfig
	DocDB      DocDBConfig
	Vault      VaultConfig
	Session    SessionConfig
	Generation GenerationConfig
	OpenAI     OpenAIConfig
	Delivery   DeliveryConfig
	Recipients RecipientsConfig
	Receipts   ReceiptsConfig
	Audit      AuditConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host            string
	Port            int
	GinMode         string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds cache-related configuration.
type CacheConfig struct {
	Enabled   bool
	Type      string
	Host      string
	Port      string
	Password  string
	DB        int
	TTL       time.Duration
	KeyPrefix string
}

// DocDBConfig holds document database configuration.
type DocDBConfig struct {
	Enabled  bool
	Type     string
	URI      string
	Database string
}

// VaultConfig holds vault configuration.
type VaultConfig struct {
	Type        string
	SecretsFile string
}

// SessionConfig holds session store configuration.
type SessionConfig struct {
	TTL              time.Duration
	MaxRegenerations int
	CleanupInterval  time.Duration
}

// GenerationConfig holds orchestrator configuration.
type GenerationConfig struct {
	VariantCount    int
	DefaultGreeting string
}

// OpenAIConfig holds generation backend configuration.
// APIKey may be a literal or a vault URI such as dotenv://OPENAI_API_KEY.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ChatModel   string
	ImageModel  string
	ImageSize   string
	Temperature float64
	MaxRetries  int
	RetryDelay  time.Duration
	RetryAfter  time.Duration
	Timeout     time.Duration
}

// DeliveryConfig holds messaging channel configuration.
type DeliveryConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// RecipientsConfig holds recipient directory configuration.
type RecipientsConfig struct {
	FilePath string
}

// ReceiptsConfig holds delivery receipt configuration.
type ReceiptsConfig struct {
	TTL           time.Duration
	EncryptionKey string
}

// AuditConfig holds audit queue configuration.
type AuditConfig struct {
	BufferSize   int
	Workers      int
	WriteTimeout time.Duration
}

// RateLimitConfig holds per-client rate limit configuration for generation routes.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			GinMode:         getEnv("GIN_MODE", "debug"),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Cache: CacheConfig{
			Enabled:   getEnvAsBool("CACHE_ENABLED", true),
			Type:      getEnv("CACHE_TYPE", "redis"),
			Host:      getEnv("REDIS_HOST", "localhost"),
			Port:      getEnv("REDIS_PORT", "6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
			TTL:       time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 180)) * time.Second,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "card-service:"),
		},
		DocDB: DocDBConfig{
			Enabled:  getEnvAsBool("DOCDB_ENABLED", true),
			Type:     getEnv("DOCDB_TYPE", "mongodb"),
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "cards"),
		},
		Vault: VaultConfig{
			Type:        getEnv("VAULT_TYPE", "dotenv"),
			SecretsFile: getEnv("VAULT_SECRETS_FILE", ""),
		},
		Session: SessionConfig{
			TTL:              getEnvAsDuration("SESSION_TTL", 30*time.Minute),
			MaxRegenerations: getEnvAsInt("SESSION_MAX_REGENERATIONS", 3),
			CleanupInterval:  getEnvAsDuration("SESSION_CLEANUP_INTERVAL", time.Minute),
		},
		Generation: GenerationConfig{
			VariantCount:    getEnvAsInt("GENERATION_VARIANT_COUNT", 3),
			DefaultGreeting: getEnv("GENERATION_DEFAULT_GREETING", "Congratulations!"),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", "dotenv://OPENAI_API_KEY"),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			ChatModel:   getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			ImageModel:  getEnv("OPENAI_IMAGE_MODEL", "dall-e-3"),
			ImageSize:   getEnv("OPENAI_IMAGE_SIZE", "1024x1024"),
			Temperature: getEnvAsFloat("OPENAI_TEMPERATURE", 0.9),
			MaxRetries:  getEnvAsInt("OPENAI_MAX_RETRIES", 3),
			RetryDelay:  getEnvAsDuration("OPENAI_RETRY_DELAY", time.Second),
			RetryAfter:  getEnvAsDuration("OPENAI_RETRY_AFTER", 20*time.Second),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 60*time.Second),
		},
		Delivery: DeliveryConfig{
			URL:     getEnv("DELIVERY_WEBHOOK_URL", "http://localhost:8082/cards"),
			Token:   getEnv("DELIVERY_WEBHOOK_TOKEN", ""),
			Timeout: getEnvAsDuration("DELIVERY_TIMEOUT", 30*time.Second),
		},
		Recipients: RecipientsConfig{
			FilePath: getEnv("RECIPIENTS_FILE", "data/recipients.json"),
		},
		Receipts: ReceiptsConfig{
			TTL:           getEnvAsDuration("RECEIPTS_TTL", 24*time.Hour),
			EncryptionKey: getEnv("RECEIPTS_ENCRYPTION_KEY", ""),
		},
		Audit: AuditConfig{
			BufferSize:   getEnvAsInt("AUDIT_BUFFER_SIZE", 256),
			Workers:      getEnvAsInt("AUDIT_WORKERS", 2),
			WriteTimeout: getEnvAsDuration("AUDIT_WRITE_TIMEOUT", 5*time.Second),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 1),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 5),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would make the service misbehave.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT: %d", c.Server.Port)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Session.MaxRegenerations < 0 {
		return fmt.Errorf("SESSION_MAX_REGENERATIONS must not be negative")
	}
	if c.Generation.VariantCount <= 0 {
		return fmt.Errorf("GENERATION_VARIANT_COUNT must be positive")
	}
	if c.Delivery.URL == "" {
		return fmt.Errorf("DELIVERY_WEBHOOK_URL is required")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat gets an environment variable as a float with a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as a bool with a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
