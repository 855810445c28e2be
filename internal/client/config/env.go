package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/dmitrijs2005/cbtcompanion/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvAPIURL        = "CBT_API_URL"
	EnvEnableBackend = "CBT_ENABLE_BACKEND"
	EnvDatabasePath  = "CBT_DB_PATH"
	EnvLogLevel      = "CBT_LOG_LEVEL"
	EnvLogFormat     = "CBT_LOG_FORMAT"
)

const defaultEnvFile = ".env"

// loadEnvFile seeds the process environment from the file given with -env,
// or from ./.env when present. Variables already set are not overridden.
// An explicit file that cannot be read panics.
func loadEnvFile() {
	if path := flagx.EnvFileFlag(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}
	if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

// parseEnv overlays Config with CBT_* environment variables. Unset or
// empty variables leave the field alone; a malformed boolean panics.
func parseEnv(cfg *Config) {
	loadEnvFile()

	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(EnvEnableBackend); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		cfg.EnableBackend = b
	}
	if v := os.Getenv(EnvDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
	}
}
