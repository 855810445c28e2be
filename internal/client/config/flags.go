package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/cbtcompanion/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string     backend API base URL
//	-b bool       enable the backend (use -b=false for demo mode)
//	-t duration   request timeout
//	-d duration   demo reply delay
//	-db string    credential database path
//	-l string     log level
//	-i int        online check interval in seconds
//
// os.Args is filtered with flagx.FilterArgs so flags owned by other loaders
// do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-b", "-t", "-d", "-db", "-l", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base URL")
	fs.BoolVar(&cfg.EnableBackend, "b", cfg.EnableBackend, "enable backend (false runs demo mode)")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.DurationVar(&cfg.DemoDelay, "d", cfg.DemoDelay, "demo reply delay")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "credential database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
