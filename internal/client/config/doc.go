// Package config loads runtime configuration for the EcoSync CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     API base URL
//	-host string  hostname used to pick the backend
//	-db string    session store path
//	-i int        online status check interval (seconds)
//	-t int        request timeout (seconds)
//	-log string   log level
//
// # File schema
//
// Intervals accept strings like "3s" or integer nanoseconds:
//
//	api_base_url: http://localhost:8000/api/v1
//	store_path: /home/me/.config/ecosync/session.db
//	online_check_interval: 5s
//	request_timeout: 10s
//	log_backend: zap
//	log_level: info
//
// Without api_base_url the base URL is chosen by host: localhost and
// 127.0.0.1 talk to http://localhost:8000/api/v1, anything else to the
// hosted deployment.
package config
