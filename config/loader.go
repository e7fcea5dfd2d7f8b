package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultEnvPrefix = "FETCHKIT"

// LoaderConfig holds optional overrides for Load.
type LoaderConfig struct {
	// ConfigFile is an explicit YAML config file path.
	ConfigFile string
	// EnvFile is an explicit .env file path.
	EnvFile string
	// EnvPrefix overrides the environment variable prefix.
	EnvPrefix string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// Load populates cfg from a YAML config file, a .env file, and the
// environment, in increasing precedence. Missing files are not an
// error; a file that exists but fails to parse is.
func Load(cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.EnvPrefix == "" {
		lc.EnvPrefix = defaultEnvPrefix
	}

	loadEnvFile(lc.EnvFile)

	v := viper.New()
	v.SetEnvPrefix(lc.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile := lc.ConfigFile
	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal: %w", err)
	}
	return nil
}

// loadEnvFile loads an explicit .env path, or ./.env when present.
func loadEnvFile(path string) {
	if path != "" {
		_ = godotenv.Load(path)
		return
	}
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
}

// findConfigFile searches standard locations for a config file.
func findConfigFile() string {
	for _, path := range []string{"./fetchkit.yml", "./config/fetchkit.yml", "./config.yml"} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
