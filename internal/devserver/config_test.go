package devserver

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"devserver"}, args...)
}

func TestLoadConfig_Defaults(t *testing.T) {
	withArgs(t)
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvSecretKey, "")

	cfg := LoadConfig()
	assert.Equal(t, "127.0.0.1:8000", cfg.Addr)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 15*time.Minute, cfg.ResetCodeTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Len(t, cfg.SecretKey, 64, "random key expected when none configured")
}

func TestLoadConfig_EnvThenFlags(t *testing.T) {
	withArgs(t, "-a", ":9000", "-ttl", "5m", "-c", "ignored.json")
	t.Setenv(EnvAddr, ":7000")
	t.Setenv(EnvSecretKey, "from-env")

	cfg := LoadConfig()
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "from-env", cfg.SecretKey)
	assert.Equal(t, 5*time.Minute, cfg.TokenTTL)
}

func TestLoadConfig_FlagKeyWins(t *testing.T) {
	withArgs(t, "-k", "from-flag")
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvSecretKey, "from-env")

	cfg := LoadConfig()
	assert.Equal(t, "from-flag", cfg.SecretKey)
}

func TestLoadConfig_BadFlagPanics(t *testing.T) {
	withArgs(t, "-ttl", "soon")
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvSecretKey, "")

	require.Panics(t, func() { LoadConfig() })
}
