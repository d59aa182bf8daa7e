// Package config provides configuration management for AI Wrapper.
// It handles loading, saving, and managing application settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yllada/ai-wrapper/adblock"
	"github.com/yllada/ai-wrapper/common"
)

// Config represents the application configuration.
// All settings are persisted to a YAML file in the user's config directory.
type Config struct {
	// Theme sets the color theme: "light", "dark", or "auto".
	Theme string `yaml:"theme"`
	// ShowNotifications enables desktop notifications for integration results.
	ShowNotifications bool `yaml:"show_notifications"`
	// MinimizeToTray hides the window on close instead of quitting.
	MinimizeToTray bool `yaml:"minimize_to_tray"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	Window  WindowConfig  `yaml:"window"`
	Browser BrowserConfig `yaml:"browser"`
	Ollama  OllamaConfig  `yaml:"ollama"`

	// Blocklist holds match patterns for requests every session cancels.
	Blocklist []string `yaml:"blocklist"`
	// CatalogFile, when set, replaces the built-in modes and services.
	CatalogFile string `yaml:"catalog_file,omitempty"`
}

// WindowConfig sizes the shell window.
type WindowConfig struct {
	Width        int `yaml:"width"`
	Height       int `yaml:"height"`
	ChromeHeight int `yaml:"chrome_height"`
}

// BrowserConfig controls the Chrome process hosting the sessions.
type BrowserConfig struct {
	// Bin is the Chrome executable; empty lets the launcher locate one.
	Bin       string `yaml:"bin,omitempty"`
	Headless  bool   `yaml:"headless"`
	UserAgent string `yaml:"user_agent,omitempty"`
}

// OllamaConfig points the local AI panel at an Ollama daemon.
type OllamaConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Model    string        `yaml:"model"`
	Models   []string      `yaml:"models"`
	Timeout  time.Duration `yaml:"timeout"`
	// RequestsPerSecond caps outgoing generate calls.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Theme:             common.ThemeDark,
		ShowNotifications: true,
		MinimizeToTray:    false,
		LogLevel:          "info",
		Window: WindowConfig{
			Width:        common.DefaultWindowWidth,
			Height:       common.DefaultWindowHeight,
			ChromeHeight: common.ChromeHeight,
		},
		Ollama: OllamaConfig{
			Endpoint:          common.DefaultOllamaEndpoint,
			Model:             common.DefaultOllamaModel,
			Models:            []string{common.DefaultOllamaModel, "mistral", "codellama"},
			Timeout:           common.ChatTimeout,
			RequestsPerSecond: 2,
		},
		Blocklist: slices.Clone(adblock.DefaultPatterns),
	}
}

// Load loads the configuration from the default config file.
// If the file doesn't exist, it creates one with default values.
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration stored at configPath, writing defaults
// there first if the file is missing.
func LoadFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.SaveTo(configPath); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConfigLoad, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true) // Strict validation: reject unknown fields

	config := DefaultConfig()
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", common.ErrConfigLoad, configPath, err)
	}

	config.validate()
	return config, nil
}

// validate replaces out-of-range values with defaults.
func (c *Config) validate() {
	defaults := DefaultConfig()

	switch c.Theme {
	case common.ThemeAuto, common.ThemeLight, common.ThemeDark:
	default:
		c.Theme = defaults.Theme
	}

	if c.Window.Width <= 0 {
		c.Window.Width = defaults.Window.Width
	}
	if c.Window.Height <= 0 {
		c.Window.Height = defaults.Window.Height
	}
	c.Window.Width = max(c.Window.Width, common.MinWindowWidth)
	c.Window.Height = max(c.Window.Height, common.MinWindowHeight)
	c.Window.ChromeHeight = common.Clamp(c.Window.ChromeHeight, 0, c.Window.Height)

	if _, err := adblock.New(c.Blocklist); err != nil {
		common.LogWarn("Ignoring blocklist: %v", err)
		c.Blocklist = defaults.Blocklist
	}

	if c.Ollama.Endpoint == "" {
		c.Ollama.Endpoint = defaults.Ollama.Endpoint
	}
	if c.Ollama.Timeout <= 0 {
		c.Ollama.Timeout = defaults.Ollama.Timeout
	}
	if c.Ollama.RequestsPerSecond <= 0 {
		c.Ollama.RequestsPerSecond = defaults.Ollama.RequestsPerSecond
	}
	if len(c.Ollama.Models) == 0 {
		c.Ollama.Models = defaults.Ollama.Models
	}
	c.Ollama.Models = common.DedupeStrings(c.Ollama.Models)
	if c.Ollama.Model == "" || !slices.Contains(c.Ollama.Models, c.Ollama.Model) {
		c.Ollama.Model = c.Ollama.Models[0]
	}
}

// Save saves the configuration to the default config file.
func (c *Config) Save() error {
	configPath, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes the configuration to configPath.
func (c *Config) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("%w: creating config directory: %w", common.ErrConfigSave, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("%w: serializing: %w", common.ErrConfigSave, err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("%w: %w", common.ErrConfigSave, err)
	}

	return nil
}

// Path returns the default location of the config file.
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", common.ConfigDirName, common.ConfigFileName), nil
}
