// Package config loads runtime configuration for the companion CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables CBT_API_URL, CBT_ENABLE_BACKEND, CBT_DB_PATH,
//     CBT_LOG_LEVEL and CBT_LOG_FORMAT. A dotenv file given with -env, or
//     ./.env when present, is loaded first without overriding variables
//     already set.
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string     backend API base URL, e.g. http://127.0.0.1:8000/api
//	-b bool       enable the backend; -b=false runs demo mode
//	-t duration   request timeout
//	-d duration   demo reply delay
//	-db string    credential database path
//	-l string     log level
//	-i int        online check interval in seconds
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://127.0.0.1:8000/api",
//	  "enable_backend": true,
//	  "request_timeout": "30s",
//	  "demo_delay": "1.5s",
//	  "auth_demo_delay": "1s",
//	  "database_path": "cbtcompanion.db",
//	  "log_level": "info",
//	  "log_format": "json",
//	  "online_check_interval": "10s"
//	}
//
// Malformed sources panic; the CLI entrypoint recovers and reports them.
package config
