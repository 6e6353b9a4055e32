package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Oracle      OracleConfig
	NLU         NLUConfig
	Agent       AgentConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// OracleConfig points at the image-classification service.
type OracleConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NLUConfig points at the intent-classification service.
type NLUConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// AgentConfig holds the bcrypt hash of the human-agent dashboard API key.
type AgentConfig struct {
	APIKeyHash string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "7860")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("ORACLE_MODEL", "gemini-1.5-flash")
	viper.SetDefault("ORACLE_TIMEOUT_SECONDS", "30")
	viper.SetDefault("NLU_MODEL", "llama-3.1-8b-instant")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	oracleTimeout, err := strconv.Atoi(getEnvOrViper("ORACLE_TIMEOUT_SECONDS", "30"))
	if err != nil || oracleTimeout <= 0 {
		oracleTimeout = 30
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "7860"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "care_db"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Oracle: OracleConfig{
			BaseURL: getEnvOrViper("ORACLE_BASE_URL", ""),
			APIKey:  getEnvOrViper("ORACLE_API_KEY", ""),
			Model:   getEnvOrViper("ORACLE_MODEL", "gemini-1.5-flash"),
			Timeout: time.Duration(oracleTimeout) * time.Second,
		},
		NLU: NLUConfig{
			BaseURL: getEnvOrViper("NLU_BASE_URL", ""),
			APIKey:  getEnvOrViper("NLU_API_KEY", ""),
			Model:   getEnvOrViper("NLU_MODEL", "llama-3.1-8b-instant"),
		},
		Agent: AgentConfig{
			APIKeyHash: getEnvOrViper("AGENT_API_KEY_HASH", ""),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Oracle.BaseURL == "" {
		return nil, fmt.Errorf("ORACLE_BASE_URL is required")
	}
	if cfg.Oracle.APIKey == "" {
		return nil, fmt.Errorf("ORACLE_API_KEY is required")
	}
	if cfg.NLU.BaseURL == "" {
		return nil, fmt.Errorf("NLU_BASE_URL is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
