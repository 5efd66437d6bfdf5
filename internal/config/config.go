// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Data struct {
		Directory    string `mapstructure:"directory" yaml:"directory"`
		MappingsFile string `mapstructure:"mappings_file" yaml:"mappings_file"`
		ReceiptsFile string `mapstructure:"receipts_file" yaml:"receipts_file"`
	} `mapstructure:"data" yaml:"data"`

	AI struct {
		TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		MaxAttempts    int `mapstructure:"max_attempts" yaml:"max_attempts"`

		OpenAI struct {
			Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
			BaseURL string `mapstructure:"base_url" yaml:"base_url"`
			Model   string `mapstructure:"model" yaml:"model"`
			APIKey  string `mapstructure:"api_key" yaml:"-"` // Never serialize API keys
		} `mapstructure:"openai" yaml:"openai"`

		Ollama struct {
			Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
			BaseURL string `mapstructure:"base_url" yaml:"base_url"`
			Model   string `mapstructure:"model" yaml:"model"`
		} `mapstructure:"ollama" yaml:"ollama"`

		Gemini struct {
			Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
			Model   string `mapstructure:"model" yaml:"model"`
			APIKey  string `mapstructure:"api_key" yaml:"-"`
		} `mapstructure:"gemini" yaml:"gemini"`
	} `mapstructure:"ai" yaml:"ai"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then BONSCAN_* environment
// variables. API keys are bound from their conventional unprefixed variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.bonscan")
	v.AddConfigPath(".bonscan")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BONSCAN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Continue with defaults and env vars on an unreadable file
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// API keys come from the conventional env vars, not the BONSCAN prefix.
	if err := v.BindEnv("ai.openai.api_key", "OPENAI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind OPENAI_API_KEY environment variable: %v\n", err)
	}
	if err := v.BindEnv("ai.gemini.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("data.directory", "data")
	v.SetDefault("data.mappings_file", "mappings.yaml")
	v.SetDefault("data.receipts_file", "receipts.db")

	v.SetDefault("ai.timeout_seconds", 45)
	v.SetDefault("ai.max_attempts", 3)

	v.SetDefault("ai.openai.enabled", true)
	v.SetDefault("ai.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.openai.model", "gpt-4o-mini")

	v.SetDefault("ai.ollama.enabled", false)
	v.SetDefault("ai.ollama.base_url", "http://localhost:11434")
	v.SetDefault("ai.ollama.model", "llama3")

	v.SetDefault("ai.gemini.enabled", true)
	v.SetDefault("ai.gemini.model", "gemini-1.5-flash")
}

func validateConfig(config *Config) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(config.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s", config.Log.Format)
	}

	if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
		return fmt.Errorf("ai.timeout_seconds out of range: %d", config.AI.TimeoutSeconds)
	}

	if config.AI.MaxAttempts < 1 {
		return fmt.Errorf("ai.max_attempts must be at least 1: %d", config.AI.MaxAttempts)
	}

	return nil
}
