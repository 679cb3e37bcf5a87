package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Reader  ReaderConfig
	Compare CompareConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ReaderConfig holds reader-proxy configuration
type ReaderConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CompareConfig holds the tunable pipeline constants. The defaults are
// carried over unchanged from the reference behavior; none of them is
// derived, so they stay configurable rather than hard-coded.
type CompareConfig struct {
	MinScore      float64       `mapstructure:"min_score"`
	MinPrice      float64       `mapstructure:"min_price"`
	MaxPrice      float64       `mapstructure:"max_price"`
	DosageBonus   float64       `mapstructure:"dosage_bonus"`
	SourceTimeout time.Duration `mapstructure:"source_timeout"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/medcompare/")

	// Environment variable settings
	v.SetEnvPrefix("MEDCOMPARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Reader proxy defaults
	v.SetDefault("reader.base_url", "https://r.jina.ai/http://")
	v.SetDefault("reader.timeout", "20s")

	// Pipeline defaults
	v.SetDefault("compare.min_score", 0.25)
	v.SetDefault("compare.min_price", 1.0)
	v.SetDefault("compare.max_price", 50000.0)
	v.SetDefault("compare.dosage_bonus", 0.02)
	v.SetDefault("compare.source_timeout", "6s")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Reader.BaseURL == "" {
		return fmt.Errorf("reader base URL is required (set MEDCOMPARE_READER_BASE_URL)")
	}

	if config.Compare.MinScore < 0 || config.Compare.MinScore > 1 {
		return fmt.Errorf("compare.min_score must be in [0,1], got: %v", config.Compare.MinScore)
	}

	if config.Compare.MinPrice >= config.Compare.MaxPrice {
		return fmt.Errorf("compare.min_price (%v) must be below compare.max_price (%v)",
			config.Compare.MinPrice, config.Compare.MaxPrice)
	}

	if config.Compare.SourceTimeout <= 0 {
		return fmt.Errorf("compare.source_timeout must be positive, got: %v", config.Compare.SourceTimeout)
	}

	return nil
}
