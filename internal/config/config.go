package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server Server
	DB     DB
	Scan   Scan
	Log    Log
}

// Server holds HTTP server configuration.
type Server struct {
	Addr string
	// PublicBaseURL is the externally reachable URL guests open from the
	// share QR code, e.g. "https://cheq.example.com".
	PublicBaseURL string
}

// DB holds storage configuration.
type DB struct {
	Path string
}

// Scan holds receipt scanning configuration. Scanning is disabled when
// the API key is empty.
type Scan struct {
	AnthropicAPIKey string
	Model           string
}

// Log holds logging configuration.
type Log struct {
	Level string
}

// Load reads configuration from an optional YAML file and CHEQ_* env
// vars. Env vars win over the file; a missing file just leaves defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.publicbaseurl", "http://localhost:8080")
	v.SetDefault("db.path", "cheq.db")
	v.SetDefault("scan.model", "claude-3-5-haiku-latest")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("CHEQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Server.Addr == "" {
		return nil, fmt.Errorf("server address is required")
	}
	if cfg.DB.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	return &cfg, nil
}
