// Package config loads the TOML project configuration and resolves secrets
// from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/book-expert/logger"
	"github.com/pelletier/go-toml/v2"
)

const DefaultConfigFilename = "project.toml"

type Config struct {
	Service ServiceSettings `toml:"service"`
	Gemini  GeminiSettings  `toml:"gemini"`
	Media   MediaSettings   `toml:"media"`
	Bank    BankSettings    `toml:"bank"`
}

type ServiceSettings struct {
	LogDir    string `toml:"log_dir"`
	OutputDir string `toml:"output_dir"`
}

type GeminiSettings struct {
	APIKeyEnvironmentVariable string `toml:"api_key_variable"`
	BaseURL                   string `toml:"base_url"`
	TextModel                 string `toml:"text_model"`
	ImageModel                string `toml:"image_model"`
	AudioModel                string `toml:"audio_model"`
	MaxAttempts               int    `toml:"max_attempts"`
	InitialRetryDelayMs       int    `toml:"initial_retry_delay_ms"`
	TimeoutSeconds            int    `toml:"timeout_seconds"`
}

type MediaSettings struct {
	StyleProfile string `toml:"style_profile"`
	Voice        string `toml:"voice"`
}

type BankSettings struct {
	DatabasePath string `toml:"database_path"`
}

func Load(filePath string, loggerInstance *logger.Logger) (*Config, error) {
	if filePath == "" {
		filePath = DefaultConfigFilename
	}

	configFile, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file '%s': %w", filePath, err)
	}
	defer func() {
		closeErr := configFile.Close()
		if closeErr != nil && loggerInstance != nil {
			loggerInstance.Warnf("Failed to close config file: %v", closeErr)
		}
	}()

	var configuration Config

	decoder := toml.NewDecoder(configFile)

	err = decoder.Decode(&configuration)
	if err != nil {
		return nil, fmt.Errorf("failed to decode TOML configuration: %w", err)
	}

	return &configuration, nil
}

// GetAPIKey reads the Gemini API key from the environment variable named in
// the configuration. Keys never live in the TOML file itself.
func (c *Config) GetAPIKey() string {
	return os.Getenv(c.Gemini.APIKeyEnvironmentVariable)
}

func (c *Config) GetLogFilePath(filename string) string {
	return filepath.Join(c.Service.LogDir, filename)
}

func (c *Config) GetDatabasePath() string {
	if c.Bank.DatabasePath != "" {
		return c.Bank.DatabasePath
	}

	return filepath.Join(c.Service.OutputDir, "questions.db")
}
