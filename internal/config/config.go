// Package config loads the docbridge YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"docbridge/internal/domain"
)

// Target is one configured vault-folder ↔ remote-doc correspondence.
type Target struct {
	DocID        string `yaml:"doc_id"`
	Folder       string `yaml:"folder"`
	ParentPageID string `yaml:"parent_page_id"`
}

// Config is the full on-disk configuration.
type Config struct {
	APIKey      string   `yaml:"api_key"`
	WorkspaceID string   `yaml:"workspace_id"`
	Vault       string   `yaml:"vault"`
	SyncOnSave  bool     `yaml:"sync_on_save"`
	LogLevel    string   `yaml:"log_level"`
	Targets     []Target `yaml:"targets"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "docbridge", "config.yaml")
}

// Load reads and parses the config file. The DOCBRIDGE_API_KEY
// environment variable overrides the file's api_key so the secret can be
// kept out of the file entirely.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if env := os.Getenv("DOCBRIDGE_API_KEY"); env != "" {
		cfg.APIKey = env
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return &cfg, nil
}

// Validate checks the fields every command needs. Credential presence is
// checked by the network commands themselves so offline commands keep
// working without a key.
func (c *Config) Validate() error {
	if c.Vault == "" {
		return fmt.Errorf("vault path is required")
	}
	return nil
}

// SyncTargets converts the configured targets into domain targets,
// preserving configuration order.
func (c *Config) SyncTargets() []domain.SyncTarget {
	targets := make([]domain.SyncTarget, 0, len(c.Targets))
	for _, t := range c.Targets {
		targets = append(targets, domain.SyncTarget{
			DocID:        t.DocID,
			Folder:       t.Folder,
			ParentPageID: t.ParentPageID,
		})
	}
	return targets
}
