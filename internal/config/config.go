package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/tallyhq/scorekeep/internal/factory"
)

// Config holds all server settings, loaded from a config file with
// environment variables taking precedence
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`

	// Server
	Host            string        `mapstructure:"HOST"`
	Port            int           `mapstructure:"PORT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	// Storage backend selection: memory, local, redis or bucket
	StorageType string `mapstructure:"STORAGE_TYPE"`

	// Local file storage
	DataDir string `mapstructure:"DATA_DIR"`

	// Redis
	RedisURL string `mapstructure:"REDIS_URL"`

	// Bucket storage
	BucketName      string `mapstructure:"BUCKET_NAME"`
	ProjectID       string `mapstructure:"PROJECT_ID"`
	CredentialsFile string `mapstructure:"CREDENTIALS_FILE"`
}

// Addr returns the listen address in host:port form
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration from config.yaml (working directory or
// ./config) and the environment. A missing config file is fine; the
// defaults run an in-memory server on port 8080.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables take precedence
	v.AutomaticEnv()

	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("HOST", "")
	v.SetDefault("PORT", 8080)
	v.SetDefault("SHUTDOWN_TIMEOUT", time.Second*30)
	v.SetDefault("STORAGE_TYPE", factory.StorageTypeMemory)
	v.SetDefault("DATA_DIR", "data")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK if we're using env vars
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.StorageType {
	case factory.StorageTypeMemory:
	case factory.StorageTypeLocal:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required when STORAGE_TYPE=local")
		}
	case factory.StorageTypeRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when STORAGE_TYPE=redis")
		}
	case factory.StorageTypeBucket:
		if c.BucketName == "" {
			return fmt.Errorf("BUCKET_NAME is required when STORAGE_TYPE=bucket")
		}
		if c.ProjectID == "" {
			return fmt.Errorf("PROJECT_ID is required when STORAGE_TYPE=bucket")
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be memory, local, redis or bucket", c.StorageType)
	}
	return nil
}
