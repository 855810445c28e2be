package devserver

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/cbtcompanion/internal/common"
	"github.com/dmitrijs2005/cbtcompanion/internal/flagx"
	"github.com/joho/godotenv"
)

// Config of the reference backend.
type Config struct {
	Addr         string
	SecretKey    string
	TokenTTL     time.Duration
	ResetCodeTTL time.Duration
	LogLevel     string
}

const (
	EnvSecretKey = "CBT_DEV_SECRET"
	EnvAddr      = "CBT_DEV_ADDR"
)

func (c *Config) LoadDefaults() {
	c.Addr = "127.0.0.1:8000"
	c.TokenTTL = 30 * time.Minute
	c.ResetCodeTTL = 15 * time.Minute
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then CBT_DEV_* environment variables (after
// loading an optional .env file), then flags:
//
//	-a string     listen address
//	-k string     token signing key
//	-ttl duration access token validity
//
// Without a configured key a random one is generated, so tokens do not
// survive a restart. Bad flags panic.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.EnvFileFlag(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv(EnvSecretKey); v != "" {
		cfg.SecretKey = v
	}

	parseFlags(cfg)
	ensureSecret(cfg)
	return cfg
}

func ensureSecret(cfg *Config) {
	if cfg.SecretKey != "" {
		return
	}
	key, err := common.MakeRandHexString(32)
	if err != nil {
		panic(err)
	}
	cfg.SecretKey = key
}

func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-ttl", "-l"})

	fs := flag.NewFlagSet("devserver", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "listen address")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "token signing key")
	fs.DurationVar(&cfg.TokenTTL, "ttl", cfg.TokenTTL, "access token validity")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
