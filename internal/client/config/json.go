package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/cbtcompanion/internal/flagx"
	"github.com/dmitrijs2005/cbtcompanion/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// use timex.Duration so they may be strings like "1.5s" or integer
// nanoseconds. Pointer fields distinguish "absent" from the zero value.
type JsonConfig struct {
	APIBaseURL     string          `json:"api_base_url"`
	EnableBackend  *bool           `json:"enable_backend"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	DemoDelay      *timex.Duration `json:"demo_delay"`
	AuthDemoDelay  *timex.Duration `json:"auth_demo_delay"`
	DatabasePath   string          `json:"database_path"`
	LogLevel       string          `json:"log_level"`
	LogFormat      string          `json:"log_format"`

	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
}

// parseJson overlays Config with values from the JSON file named by -c or
// -config. Without either flag nothing is loaded. Read or unmarshal errors
// panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.EnableBackend != nil {
		cfg.EnableBackend = *jc.EnableBackend
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DemoDelay != nil {
		cfg.DemoDelay = jc.DemoDelay.Duration
	}
	if jc.AuthDemoDelay != nil {
		cfg.AuthDemoDelay = jc.AuthDemoDelay.Duration
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}
