package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rowbridge/rowbridge/pkg/translate"
)

// Config represents the RowBridge service configuration.
type Config struct {
	Port       int        `yaml:"port"`
	Bind       string     `yaml:"bind"`
	APIKey     string     `yaml:"api_key"`
	Translator Translator `yaml:"translator"`
	Audit      Audit      `yaml:"audit"`
	Logging    Logging    `yaml:"logging"`
}

// Translator holds the translation options. The keys match the option names
// the translator recognizes.
type Translator struct {
	FieldNames          []string `yaml:"field.names"`
	FieldTypes          []string `yaml:"field.types"`
	AppendRaw           bool     `yaml:"append.raw.enabled"`
	AppendRawKeyField   string   `yaml:"append.raw.key.field.name"`
	AppendRawValueField string   `yaml:"append.raw.value.field.name"`
}

// TranslateConfig maps the configuration section onto the translator's
// Config.
func (t Translator) TranslateConfig() translate.Config {
	return translate.Config{
		FieldNames:          t.FieldNames,
		FieldTypes:          t.FieldTypes,
		AppendRaw:           t.AppendRaw,
		AppendRawKeyField:   t.AppendRawKeyField,
		AppendRawValueField: t.AppendRawValueField,
	}
}

// Audit contains raw envelope retention configuration.
type Audit struct {
	Enabled bool   `yaml:"enabled"`
	DataDir string `yaml:"data_dir"`
	// RetainAll retains every envelope, not just failed decodes.
	RetainAll bool `yaml:"retain_all"`
}

// Logging contains logging configuration.
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:   8080,
		Bind:   "127.0.0.1",
		APIKey: "auto",
		Translator: Translator{
			AppendRawKeyField:   translate.DefaultKeyField,
			AppendRawValueField: translate.DefaultValueField,
		},
		Audit: Audit{
			Enabled: false,
			DataDir: "./audit",
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from the specified path.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves the configuration to the specified path with secure
// permissions.
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key.
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig creates a new configuration with a generated API key and
// writes it to configPath.
func BootstrapConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	apiKey, err := GenerateSecureKey(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}
	config.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the
// current platform.
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./rowbridge.yaml"
	}

	configDir := filepath.Join(homeDir, ".config", "rowbridge")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists.
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
