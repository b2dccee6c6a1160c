// Package config loads pipeforge settings.
//
// Values come from built-in defaults, then an optional YAML file, then
// PIPEFORGE_* environment variables. Command-line flags are applied last by
// the CLI itself.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/Promptonauts/pipeforge/internal/logging"
	"github.com/Promptonauts/pipeforge/pkg/transpiler"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "pipeforge.yaml"

const envPrefix = "PIPEFORGE_"

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type HistoryConfig struct {
	// Enabled turns on recording for both convert and serve.
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config models pipeforge.yaml.
type Config struct {
	Source  string        `yaml:"source"`
	Target  string        `yaml:"target"`
	Server  ServerConfig  `yaml:"server"`
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Source:  transpiler.DefaultSource,
		Target:  transpiler.DefaultTarget,
		Server:  ServerConfig{Addr: ":8080"},
		History: HistoryConfig{Path: "pipeforge.db"},
		Log:     LogConfig{Level: "info", Format: logging.FormatText},
	}
}

// Load reads path over the defaults. An empty path falls back to
// DefaultFile, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from PIPEFORGE_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	strs := map[string]*string{
		"SOURCE":     &c.Source,
		"TARGET":     &c.Target,
		"ADDR":       &c.Server.Addr,
		"DB":         &c.History.Path,
		"LOG_LEVEL":  &c.Log.Level,
		"LOG_FORMAT": &c.Log.Format,
	}
	for key, field := range strs {
		if v, ok := lookup(envPrefix + key); ok && strings.TrimSpace(v) != "" {
			*field = strings.TrimSpace(v)
		}
	}
	if v, ok := lookup(envPrefix + "HISTORY"); ok && strings.TrimSpace(v) != "" {
		enabled, err := cast.ToBoolE(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %sHISTORY: %w", envPrefix, err)
		}
		c.History.Enabled = enabled
	}
	return nil
}

// Validate checks the fields every command relies on.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return fmt.Errorf("config: source is required")
	}
	if strings.TrimSpace(c.Target) == "" {
		return fmt.Errorf("config: target is required")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return fmt.Errorf("config: history.path is required when history is enabled")
	}
	return nil
}

// ValidateServer additionally requires a listen address.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("config: server.addr is required")
	}
	return nil
}
