package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv  = "BOSONNLP_CONFIG"
	apiTokenEnv    = "BOSONNLP_API_TOKEN"
	apiURLEnv      = "BOSONNLP_URL"
	databaseDSNEnv = "DATABASE_DSN"
	logLevelEnv    = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Task     TaskConfig     `yaml:"task"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// APIConfig describes how to reach the BosonNLP service.
type APIConfig struct {
	URL                string        `yaml:"url"`
	Token              string        `yaml:"token"`
	RequestTimeout     time.Duration `yaml:"requestTimeout"`
	DisableCompression bool          `yaml:"disableCompression"`
}

// TaskConfig holds defaults for clustering and opinion tasks.
type TaskConfig struct {
	Alpha   *float64      `yaml:"alpha"`
	Beta    *float64      `yaml:"beta"`
	Timeout time.Duration `yaml:"timeout"`
}

// DatabaseConfig describes Postgres connection details for result storage.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// LoggingConfig selects slog level and output format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads .env and YAML configuration (if present) and applies
// environment overrides.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(apiTokenEnv); v != "" {
		c.API.Token = v
	}

	if v := os.Getenv(apiURLEnv); v != "" {
		c.API.URL = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.API.URL != "" {
		base.API.URL = override.API.URL
	}
	if override.API.Token != "" {
		base.API.Token = override.API.Token
	}
	if override.API.RequestTimeout > 0 {
		base.API.RequestTimeout = override.API.RequestTimeout
	}
	if override.API.DisableCompression {
		base.API.DisableCompression = true
	}

	if override.Task.Alpha != nil {
		base.Task.Alpha = override.Task.Alpha
	}
	if override.Task.Beta != nil {
		base.Task.Beta = override.Task.Beta
	}
	if override.Task.Timeout != 0 {
		base.Task.Timeout = override.Task.Timeout
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	return base
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			URL:            "https://api.bosonnlp.com",
			RequestTimeout: 60 * time.Second,
		},
		Task:     TaskConfig{Timeout: 30 * time.Minute},
		Database: DatabaseConfig{DSN: ""},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}
