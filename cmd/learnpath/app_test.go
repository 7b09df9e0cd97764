package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/learnpath/config"
)

func TestNewCredentialSource(t *testing.T) {
	dir := t.TempDir()
	secret := filepath.Join(dir, "client_secret.json")
	require.NoError(t, os.WriteFile(secret, []byte(`{"installed":{"client_id":"id","client_secret":"secret",`+
		`"redirect_uris":["http://localhost"],"auth_uri":"https://accounts.example.com/auth",`+
		`"token_uri":"https://accounts.example.com/token"}}`), 0o600))
	cfg := &config.Config{ClientSecretFile: secret, TokenFile: filepath.Join(dir, "token.json")}

	src, err := newCredentialSource(cfg, nil, false)
	require.NoError(t, err)
	assert.True(t, src.Headless(), "non-interactive source never prompts")

	src, err = newCredentialSource(cfg, nil, true)
	require.NoError(t, err)
	assert.False(t, src.Headless())
}

func TestServeIsNonInteractiveByDefault(t *testing.T) {
	flag := serveCmd().Flags().Lookup("interactive-auth")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}
