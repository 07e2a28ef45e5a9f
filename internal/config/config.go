package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the top-level configuration, matching config/config.yaml.
type Config struct {
	Server   ServerConfig            `mapstructure:"server"`   // HTTP server settings
	Postgres PostgresConfig          `mapstructure:"postgres"` // database settings
	Sync     SyncConfig              `mapstructure:"sync"`     // catalog sync tuning
	Sources  map[string]SourceConfig `mapstructure:"sources"`  // per-source upstream settings
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int    `mapstructure:"port"` // listen port
	Mode string `mapstructure:"mode"` // gin mode: debug/release/test
}

// PostgresConfig holds database connection settings.
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`               // connection DSN (URL form)
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // max open connections
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // max idle connections
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // max connection lifetime
}

// SyncConfig holds catalog-wide sync tuning. Filter thresholds and the default
// run limit vary across deployments, so they live here rather than in code.
type SyncConfig struct {
	DefaultLimit     int      `mapstructure:"default_limit"`     // apps per run when the trigger omits a limit
	MinAppID         int64    `mapstructure:"min_app_id"`        // catalog entries at or below this ID are skipped
	MinNameLength    int      `mapstructure:"min_name_length"`   // names must be longer than this
	ExcludedKeywords []string `mapstructure:"excluded_keywords"` // names containing any of these are skipped
}

// SourceConfig holds settings for a single upstream source.
type SourceConfig struct {
	BaseURL      string        `mapstructure:"base_url"`       // API base address
	StoreBaseURL string        `mapstructure:"store_base_url"` // storefront base address (Steam only)
	Timeout      int           `mapstructure:"timeout"`        // request timeout (seconds)
	RetryCount   int           `mapstructure:"retry_count"`    // attempts per detail fetch (initial + retries)
	BackoffBase  time.Duration `mapstructure:"backoff_base"`   // retry wait is backoff_base * attempt number
	BatchSize    int           `mapstructure:"batch_size"`     // concurrent detail fetches per batch
	BatchDelay   time.Duration `mapstructure:"batch_delay"`    // pause between batches
	Proxy        string        `mapstructure:"proxy"`          // proxy address
}

// LoadConfig reads config/config.yaml; secrets are overridden from .env
// (not committed to git) when present.
func LoadConfig() (*Config, error) {
	// .env values take priority over config.yaml for sensitive fields.
	_ = godotenv.Load() // a missing .env is fine

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// overrideFromEnv applies environment overrides for sensitive settings.
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if s, ok := cfg.Sources["steam"]; ok {
		if v := os.Getenv("STEAM_PROXY"); v != "" {
			s.Proxy = v
		}
		cfg.Sources["steam"] = s
	}
	if s, ok := cfg.Sources["steamspy"]; ok {
		if v := os.Getenv("STEAMSPY_PROXY"); v != "" {
			s.Proxy = v
		}
		cfg.Sources["steamspy"] = s
	}
}
