package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/learnpath"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(envFrom(map[string]string{"GOOGLE_API_KEY": "g-key"}))
	require.NoError(t, err)

	assert.Equal(t, ai.ProviderGoogle, cfg.Provider)
	assert.Equal(t, "g-key", cfg.APIKey())
	assert.Equal(t, 100, cfg.MaxSteps)
	assert.Equal(t, 10*time.Minute, cfg.RunTimeout)
	assert.Equal(t, ":8501", cfg.Addr())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "client_secret.json", cfg.ClientSecretFile)
	assert.Equal(t, "token.json", cfg.TokenFile)
	assert.Empty(t, cfg.DriveURL)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.Headless())
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom(envFrom(map[string]string{
		"LEARNPATH_PROVIDER":    "anthropic",
		"ANTHROPIC_API_KEY":     "a-key",
		"LEARNPATH_MODEL":       "claude-sonnet-4-5",
		"DRIVE_PIPEDREAM_URL":   "https://mcp.pipedream.net/abc/google_drive",
		"LEARNPATH_MAX_STEPS":   "20",
		"LEARNPATH_RUN_TIMEOUT": "90s",
		"LEARNPATH_PORT":        "9000",
		"LEARNPATH_LOG_LEVEL":   "debug",
		"CLIENT_SECRET_B64":     "e30=",
		"TOKEN_B64":             "e30=",
		"REDIS_ADDR":            "localhost:6379",
	}))
	require.NoError(t, err)

	assert.Equal(t, ai.ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "a-key", cfg.APIKey())
	assert.Equal(t, "claude-sonnet-4-5", cfg.Model)
	assert.Equal(t, 20, cfg.MaxSteps)
	assert.Equal(t, 90*time.Second, cfg.RunTimeout)
	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.Headless())
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoadFromInvalid(t *testing.T) {
	base := func(extra map[string]string) map[string]string {
		m := map[string]string{"GOOGLE_API_KEY": "g-key"}
		for k, v := range extra {
			m[k] = v
		}
		return m
	}

	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing key", map[string]string{}},
		{"missing key for chosen provider", base(map[string]string{"LEARNPATH_PROVIDER": "openai"})},
		{"unknown provider", base(map[string]string{"LEARNPATH_PROVIDER": "vertex"})},
		{"relative drive url", base(map[string]string{"DRIVE_PIPEDREAM_URL": "mcp/drive"})},
		{"non-numeric max steps", base(map[string]string{"LEARNPATH_MAX_STEPS": "many"})},
		{"zero max steps", base(map[string]string{"LEARNPATH_MAX_STEPS": "0"})},
		{"bad timeout", base(map[string]string{"LEARNPATH_RUN_TIMEOUT": "ten minutes"})},
		{"negative timeout", base(map[string]string{"LEARNPATH_RUN_TIMEOUT": "-1m"})},
		{"bad log level", base(map[string]string{"LEARNPATH_LOG_LEVEL": "loud"})},
		{"secret without token", base(map[string]string{"CLIENT_SECRET_B64": "e30="})},
		{"bad base64", base(map[string]string{"CLIENT_SECRET_B64": "***", "TOKEN_B64": "e30="})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(envFrom(tt.env))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, ai.IsConfig(err), "expected config error, got %v", err)
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("LEARNPATH_PROVIDER=openai\nOPENAI_API_KEY=o-key\nLEARNPATH_MAX_STEPS=7\n"), 0o600))
	t.Chdir(dir)
	for _, k := range []string{"LEARNPATH_PROVIDER", "OPENAI_API_KEY", "LEARNPATH_MAX_STEPS"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ai.ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "o-key", cfg.APIKey())
	assert.Equal(t, 7, cfg.MaxSteps)
}
