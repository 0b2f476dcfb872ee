// Package config provides YAML-based application configuration, created with
// defaults on first run and adjustable through environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppConfig is the root configuration structure.
type AppConfig struct {
	Storage StorageConfig `yaml:"storage"`
	Library LibraryConfig `yaml:"library"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig locates the writable application data.
type StorageConfig struct {
	DataDirectory  string `yaml:"data_directory"`
	SettingsDBPath string `yaml:"settings_db_path"`
}

// LibraryConfig locates the read-only instrument catalog.
type LibraryConfig struct {
	CatalogPath string `yaml:"catalog_path"`
	UseCache    bool   `yaml:"use_cache"`
}

// UIConfig holds interface resources.
type UIConfig struct {
	LanguageDirectory string `yaml:"language_directory"`
}

// LoggingConfig controls the application log.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{
			DataDirectory:  "./data",
			SettingsDBPath: "./data/settings.db",
		},
		Library: LibraryConfig{
			CatalogPath: "./instruments_lib.json",
			UseCache:    true,
		},
		UI: UIConfig{
			LanguageDirectory: "./lang",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadConfig loads the configuration from a YAML file, creating it with
// defaults when missing.
func LoadConfig(configPath string) (*AppConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		cfg.applyEnvironmentOverrides()
		cfg.resolvePaths(filepath.Dir(configPath))
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.resolvePaths(filepath.Dir(configPath))

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *AppConfig) Save(configPath string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# Lab bench configuration\n# This file is auto-generated on first run\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values.
func (c *AppConfig) applyEnvironmentOverrides() {
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
	}
	if libPath := os.Getenv("LIBRARY_PATH"); libPath != "" {
		c.Library.CatalogPath = libPath
	}
	if dbPath := os.Getenv("SETTINGS_DB"); dbPath != "" {
		c.Storage.SettingsDBPath = dbPath
	}
}

// resolvePaths converts relative paths to absolute based on the config file location.
func (c *AppConfig) resolvePaths(configDir string) {
	resolve := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(configDir, *p)
		}
	}
	resolve(&c.Storage.DataDirectory)
	resolve(&c.Storage.SettingsDBPath)
	resolve(&c.Library.CatalogPath)
	resolve(&c.UI.LanguageDirectory)
	resolve(&c.Logging.File)
}

// EnsureDirectories creates the writable directories the application needs.
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDirectory,
		filepath.Dir(c.Storage.SettingsDBPath),
		c.UI.LanguageDirectory,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
