package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultTrigger is the phrase that marks the text to improve
const DefaultTrigger = "improve:"

type Config struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Trigger  string `yaml:"trigger,omitempty"`
	DBPath   string `yaml:"db_path,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
	Stream   *bool  `yaml:"stream,omitempty"`
}

func DefaultConfig() *Config {
	stream := true
	return &Config{
		Provider: "openai",
		Trigger:  DefaultTrigger,
		LogLevel: "info",
		Stream:   &stream,
	}
}

// Streaming reports whether responses should be streamed (default true)
func (c *Config) Streaming() bool {
	return c.Stream == nil || *c.Stream
}

// DefaultModel is the registry default for the configured provider. The
// custom provider has none.
func (c *Config) DefaultModel() string {
	id := c.Provider
	if id == "" {
		id = DefaultConfig().Provider
	}
	if p := GetProvider(id); p != nil {
		return p.DefaultModel
	}
	return ""
}

// WithDefaults fills empty fields from DefaultConfig
func (c *Config) WithDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.Provider == "" {
		out.Provider = d.Provider
	}
	if out.Trigger == "" {
		out.Trigger = d.Trigger
	}
	if out.LogLevel == "" {
		out.LogLevel = d.LogLevel
	}
	if out.Stream == nil {
		out.Stream = d.Stream
	}
	return &out
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "promptpilot"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DatabasePath returns db_path or the default file under the config dir
func (c *Config) DatabasePath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "promptpilot.db"), nil
}

// LogPath is where the TUI writes its log
func LogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "promptpilot.log"), nil
}

func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads the config file. A missing file yields (nil, nil).
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
