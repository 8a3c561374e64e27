// Package config loads service configuration from an optional YAML file
// overlaid with environment variables.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Defaults applied by Normalize when a value is left empty.
const (
	DefaultPort            = 80
	DefaultShutdownTimeout = 5 * time.Second
	DefaultVoice           = "alice"
	DefaultGatherTimeout   = 5
	DefaultSessionTTL      = 2 * time.Hour
	DefaultPruneInterval   = time.Minute
	DefaultRedisPrefix     = "callagent:call:"
)

const (
	// BackendMemory keeps call records in process.
	BackendMemory = "memory"
	// BackendRedis shares call records across replicas through Redis.
	BackendRedis = "redis"
)

// HTTPConfig holds the webhook listener settings.
type HTTPConfig struct {
	Port int `yaml:"port" envconfig:"PORT"`
	// PublicURL is the externally visible base URL Twilio calls, used for signature checks.
	PublicURL       string        `yaml:"public_url" envconfig:"PUBLIC_URL"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// TwilioConfig holds provider credentials and voice settings.
type TwilioConfig struct {
	AccountSID        string `yaml:"account_sid" envconfig:"TWILIO_ACCOUNT_SID"`
	AuthToken         string `yaml:"auth_token" envconfig:"TWILIO_AUTH_TOKEN"`
	ValidateSignature bool   `yaml:"validate_signature" envconfig:"TWILIO_VALIDATE_SIGNATURE"`
	Voice             string `yaml:"voice" envconfig:"TWILIO_VOICE"`
	// GatherTimeout is the number of seconds Twilio waits for speech.
	GatherTimeout int `yaml:"gather_timeout" envconfig:"TWILIO_GATHER_TIMEOUT"`
	// SpeechTimeout and Language tune speech recognition; empty keeps Twilio's defaults.
	SpeechTimeout string `yaml:"speech_timeout" envconfig:"TWILIO_SPEECH_TIMEOUT"`
	Language      string `yaml:"language" envconfig:"TWILIO_LANGUAGE"`
	APIBaseURL    string `yaml:"api_base_url" envconfig:"TWILIO_API_BASE_URL"`
}

// SessionConfig selects and tunes the call record store.
type SessionConfig struct {
	Backend       string        `yaml:"backend" envconfig:"SESSION_BACKEND"`
	TTL           time.Duration `yaml:"ttl" envconfig:"SESSION_TTL"`
	PruneInterval time.Duration `yaml:"prune_interval" envconfig:"SESSION_PRUNE_INTERVAL"`
	RedisAddr     string        `yaml:"redis_addr" envconfig:"REDIS_ADDR"`
	RedisPassword string        `yaml:"redis_password" envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" envconfig:"REDIS_DB"`
	RedisPrefix   string        `yaml:"redis_prefix" envconfig:"REDIS_PREFIX"`
	// EncryptionKey is a base64 AES-256 key. Empty disables encryption.
	EncryptionKey string `yaml:"encryption_key" envconfig:"SESSION_ENCRYPTION_KEY"`
	// FallbackKeys are previous keys still accepted for decryption.
	FallbackKeys []string `yaml:"fallback_keys" envconfig:"SESSION_FALLBACK_KEYS"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
}

// RateLimitConfig bounds webhook requests per call.
// A zero PerSecond disables limiting.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second" envconfig:"RATE_LIMIT_PER_SECOND"`
	Burst     int     `yaml:"burst" envconfig:"RATE_LIMIT_BURST"`
}

// Config aggregates the service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Twilio    TwilioConfig    `yaml:"twilio"`
	Session   SessionConfig   `yaml:"session"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load reads configuration from an optional YAML file and environment variables.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := Normalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithoutSecrets is Load for operator tools that never talk to Twilio.
func LoadWithoutSecrets(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := normalize(cfg, false); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}
	return &cfg, nil
}

// Normalize validates required fields and applies defaults.
func Normalize(cfg *Config) error {
	return normalize(cfg, true)
}

func normalize(cfg *Config, requireSecrets bool) error {
	if cfg == nil {
		return errors.New("nil config")
	}

	if requireSecrets {
		if strings.TrimSpace(cfg.Twilio.AccountSID) == "" {
			return errors.New("twilio account sid is required (TWILIO_ACCOUNT_SID)")
		}
		if strings.TrimSpace(cfg.Twilio.AuthToken) == "" {
			return errors.New("twilio auth token is required (TWILIO_AUTH_TOKEN)")
		}
	}

	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = DefaultPort
	}
	if cfg.HTTP.Port < 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", cfg.HTTP.Port)
	}
	if cfg.HTTP.ShutdownTimeout <= 0 {
		cfg.HTTP.ShutdownTimeout = DefaultShutdownTimeout
	}
	cfg.HTTP.PublicURL = strings.TrimRight(strings.TrimSpace(cfg.HTTP.PublicURL), "/")
	if cfg.Twilio.ValidateSignature && cfg.HTTP.PublicURL == "" {
		return errors.New("http.public_url is required when twilio.validate_signature is enabled")
	}

	if cfg.Twilio.Voice == "" {
		cfg.Twilio.Voice = DefaultVoice
	}
	if cfg.Twilio.GatherTimeout == 0 {
		cfg.Twilio.GatherTimeout = DefaultGatherTimeout
	}
	if cfg.Twilio.GatherTimeout < 0 {
		return errors.New("twilio.gather_timeout must be > 0")
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Session.Backend))
	if backend == "" {
		backend = BackendMemory
	}
	switch backend {
	case BackendMemory:
	case BackendRedis:
		if strings.TrimSpace(cfg.Session.RedisAddr) == "" {
			return errors.New("session.redis_addr is required when session.backend is 'redis'")
		}
		if cfg.Session.RedisPrefix == "" {
			cfg.Session.RedisPrefix = DefaultRedisPrefix
		}
	default:
		return fmt.Errorf("invalid session.backend %q; allowed: memory, redis", cfg.Session.Backend)
	}
	cfg.Session.Backend = backend

	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = DefaultSessionTTL
	}
	if cfg.Session.TTL < 0 {
		return errors.New("session.ttl must be >= 0")
	}
	if cfg.Session.PruneInterval <= 0 {
		cfg.Session.PruneInterval = DefaultPruneInterval
	}
	if _, _, err := cfg.Session.Keys(); err != nil {
		return err
	}

	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	if cfg.RateLimit.PerSecond < 0 {
		return errors.New("rate_limit.per_second must be >= 0")
	}
	if cfg.RateLimit.PerSecond > 0 && cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = 1
	}
	return nil
}

// Encrypted reports whether call records are encrypted at rest.
func (s SessionConfig) Encrypted() bool {
	return s.EncryptionKey != ""
}

// Keys decodes the active and fallback encryption keys.
func (s SessionConfig) Keys() (active []byte, fallback [][]byte, err error) {
	if s.EncryptionKey == "" {
		if len(s.FallbackKeys) > 0 {
			return nil, nil, errors.New("session.fallback_keys set without session.encryption_key")
		}
		return nil, nil, nil
	}
	active, err = decodeKey(s.EncryptionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("session.encryption_key: %w", err)
	}
	for i, k := range s.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("session.fallback_keys[%d]: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}
