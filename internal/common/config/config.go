// Package config loads and stores modup's settings file.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values applied when the settings file omits them.
const (
	DefaultGitUser      = "github-actions[bot]"
	DefaultGitEmail     = "41898282+github-actions[bot]@users.noreply.github.com"
	DefaultRemote       = "origin"
	DefaultRegistryURL  = "https://api.modrinth.com/v2"
	DefaultUserAgent    = "modfolk/modup (github.com/modfolk/modup)"
	DefaultBranchPrefix = "modrinth-deps"

	// DefaultTimeoutSeconds bounds each registry request
	DefaultTimeoutSeconds = 30
)

// Config represents the application configuration
type Config struct {
	Git      GitConfig      `yaml:"git"`
	Registry RegistryConfig `yaml:"registry"`
	Branch   BranchConfig   `yaml:"branch"`
}

// GitConfig holds the commit identity and remote used for update branches
type GitConfig struct {
	User   string `yaml:"user"`
	Email  string `yaml:"email"`
	Remote string `yaml:"remote"`
}

// RegistryConfig holds Modrinth API settings
type RegistryConfig struct {
	URL            string `yaml:"url"`
	UserAgent      string `yaml:"user_agent"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// BranchConfig holds update-branch naming settings
type BranchConfig struct {
	Prefix string `yaml:"prefix"`
}

// Defaults returns a configuration populated with default values
func Defaults() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills any empty field with its default value
func (c *Config) ApplyDefaults() {
	if c.Git.User == "" {
		c.Git.User = DefaultGitUser
	}
	if c.Git.Email == "" {
		c.Git.Email = DefaultGitEmail
	}
	if c.Git.Remote == "" {
		c.Git.Remote = DefaultRemote
	}
	if c.Registry.URL == "" {
		c.Registry.URL = DefaultRegistryURL
	}
	if c.Registry.UserAgent == "" {
		c.Registry.UserAgent = DefaultUserAgent
	}
	if c.Registry.TimeoutSeconds <= 0 {
		c.Registry.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.Branch.Prefix == "" {
		c.Branch.Prefix = DefaultBranchPrefix
	}
}

// ConfigPaths returns all possible config file paths in priority order
// 1. ~/.config/modup/config.yaml (XDG standard - priority)
// 2. ~/.modup/config.yaml (legacy fallback)
func ConfigPaths() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	return []string{
		filepath.Join(xdgConfig, "modup", "config.yaml"),
		filepath.Join(home, ".modup", "config.yaml"),
	}, nil
}

// FindConfigPath returns the first existing config file path.
// Returns the default (XDG) path if no config file exists yet.
func FindConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return paths[0], nil
}

// Load reads configuration from the first available config file.
// A missing file is not an error: defaults are returned.
func Load() (*Config, error) {
	configPath, err := FindConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from a specific file path
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()

	return &cfg, nil
}

// Save writes configuration to the default config file
func (c *Config) Save() error {
	paths, err := ConfigPaths()
	if err != nil {
		return err
	}
	return c.SaveTo(paths[0])
}

// SaveTo writes configuration to a specific file path
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
