// Package config loads learnpath's settings from a .env file and the
// environment.
package config

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	ai "github.com/spetersoncode/learnpath"
)

// Config holds the application configuration.
type Config struct {
	// Provider selection
	Provider ai.Provider
	Model    string

	// API Keys
	GoogleKey    string
	OpenAIKey    string
	AnthropicKey string

	// Integrations
	DriveURL string

	// Agent config
	MaxSteps   int
	RunTimeout time.Duration

	// Server
	Port     string
	LogLevel slog.Level

	// YouTube credentials, from files or base64 secrets for headless hosts.
	ClientSecretFile string
	TokenFile        string
	ClientSecretB64  string
	TokenB64         string

	// Sessions; memory when RedisAddr is empty.
	RedisAddr     string
	RedisPassword string
}

// Load reads a .env file if present, then the environment, and validates
// the result.
func Load() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	return LoadFrom(os.Getenv)
}

// LoadFrom builds a Config from getenv. Absent values take their defaults;
// malformed ones are a config error.
func LoadFrom(getenv func(string) string) (*Config, error) {
	env := envReader{getenv: getenv}
	cfg := &Config{
		Provider:         ai.Provider(env.str("LEARNPATH_PROVIDER", string(ai.ProviderGoogle))),
		Model:            env.str("LEARNPATH_MODEL", ""),
		GoogleKey:        env.str("GOOGLE_API_KEY", ""),
		OpenAIKey:        env.str("OPENAI_API_KEY", ""),
		AnthropicKey:     env.str("ANTHROPIC_API_KEY", ""),
		DriveURL:         env.str("DRIVE_PIPEDREAM_URL", ""),
		MaxSteps:         env.integer("LEARNPATH_MAX_STEPS", 100),
		RunTimeout:       env.duration("LEARNPATH_RUN_TIMEOUT", 10*time.Minute),
		Port:             env.str("LEARNPATH_PORT", "8501"),
		LogLevel:         env.level("LEARNPATH_LOG_LEVEL", slog.LevelInfo),
		ClientSecretFile: env.str("YOUTUBE_CLIENT_SECRET_FILE", "client_secret.json"),
		TokenFile:        env.str("YOUTUBE_TOKEN_FILE", "token.json"),
		ClientSecretB64:  env.str("CLIENT_SECRET_B64", ""),
		TokenB64:         env.str("TOKEN_B64", ""),
		RedisAddr:        env.str("REDIS_ADDR", ""),
		RedisPassword:    env.str("REDIS_PASSWORD", ""),
	}
	if env.err != nil {
		return nil, env.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present and well formed.
func (c *Config) Validate() error {
	p, err := ai.ParseProvider(string(c.Provider))
	if err != nil {
		return ai.NewConfigError("LEARNPATH_PROVIDER must be google, openai or anthropic", err)
	}
	if c.APIKey() == "" {
		return ai.NewConfigError(fmt.Sprintf("%s is required for %s provider", keyVar(p), p), nil)
	}
	if c.DriveURL != "" {
		u, err := url.Parse(c.DriveURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ai.NewConfigError("DRIVE_PIPEDREAM_URL must be an absolute http(s) URL", err)
		}
	}
	if c.MaxSteps <= 0 {
		return ai.NewConfigError(fmt.Sprintf("LEARNPATH_MAX_STEPS must be positive, got %d", c.MaxSteps), nil)
	}
	if c.RunTimeout <= 0 {
		return ai.NewConfigError(fmt.Sprintf("LEARNPATH_RUN_TIMEOUT must be positive, got %s", c.RunTimeout), nil)
	}
	if (c.ClientSecretB64 == "") != (c.TokenB64 == "") {
		return ai.NewConfigError("CLIENT_SECRET_B64 and TOKEN_B64 must be set together", nil)
	}
	for name, v := range map[string]string{"CLIENT_SECRET_B64": c.ClientSecretB64, "TOKEN_B64": c.TokenB64} {
		if v == "" {
			continue
		}
		if _, err := base64.StdEncoding.DecodeString(v); err != nil {
			return ai.NewConfigError(name+" is not valid base64", err)
		}
	}
	return nil
}

// APIKey returns the key for the selected provider.
func (c *Config) APIKey() string {
	switch c.Provider {
	case ai.ProviderOpenAI:
		return c.OpenAIKey
	case ai.ProviderAnthropic:
		return c.AnthropicKey
	default:
		return c.GoogleKey
	}
}

// Headless reports whether YouTube credentials come from base64 secrets.
// Headless deployments cannot run the interactive consent flow.
func (c *Config) Headless() bool {
	return c.ClientSecretB64 != ""
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// NewLogger returns a JSON slog logger at the configured level.
func (c *Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel}))
}

func keyVar(p ai.Provider) string {
	switch p {
	case ai.ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ai.ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "GOOGLE_API_KEY"
	}
}

// envReader records the first malformed value it sees.
type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) str(key, def string) string {
	if v := strings.TrimSpace(e.getenv(key)); v != "" {
		return v
	}
	return def
}

func (e *envReader) fail(key, value string, err error) {
	if e.err == nil {
		e.err = ai.NewConfigError(fmt.Sprintf("invalid %s %q", key, value), err)
	}
}

func (e *envReader) integer(key string, def int) int {
	v := e.str(key, "")
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return i
}

func (e *envReader) duration(key string, def time.Duration) time.Duration {
	v := e.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return d
}

func (e *envReader) level(key string, def slog.Level) slog.Level {
	v := e.str(key, "")
	if v == "" {
		return def
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(v)); err != nil {
		e.fail(key, v, err)
		return def
	}
	return l
}
