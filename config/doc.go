// Package config loads client configuration from YAML files and the
// environment, backed by viper and godotenv. Environment variables use
// the FETCHKIT_ prefix with underscores for nesting, e.g.
// FETCHKIT_TIMEOUT or FETCHKIT_RATE_LIMIT_RPS.
package config
