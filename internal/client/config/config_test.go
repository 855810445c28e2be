package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8000/api", c.APIBaseURL)
	assert.True(t, c.EnableBackend)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, 1500*time.Millisecond, c.DemoDelay)
	assert.Equal(t, time.Second, c.AuthDemoDelay)
	assert.Equal(t, "text", c.LogFormat)
	assert.Equal(t, 10*time.Second, c.OnlineCheckInterval)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Setenv(EnvAPIURL, "http://env:1/api")
	t.Setenv(EnvLogLevel, "debug")
	path := writeTempJSON(t, "", "", map[string]any{
		"api_base_url": "http://json:2/api",
		"demo_delay":   "2s",
	})
	os.Args = []string{"cmd", "-c", path, "-d", "3s"}

	cfg := LoadConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "http://json:2/api", cfg.APIBaseURL, "json overrides env")
	assert.Equal(t, 3*time.Second, cfg.DemoDelay, "flag overrides json")
	assert.Equal(t, "debug", cfg.LogLevel, "env overrides defaults")
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}
