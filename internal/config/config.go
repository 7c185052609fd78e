// Package config loads scoopick settings from YAML, environment and defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. SCOOPICK_LOG_LEVEL.
const EnvPrefix = "SCOOPICK"

// Config is the full application configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"     mapstructure:"log"`
	Points  PointsConfig  `yaml:"points"  mapstructure:"points"`
	Capture CaptureConfig `yaml:"capture" mapstructure:"capture"`
	Input   InputConfig   `yaml:"input"   mapstructure:"input"`
	GUI     GUIConfig     `yaml:"gui"     mapstructure:"gui"`
	Script  ScriptConfig  `yaml:"script"  mapstructure:"script"`
	Serve   ServeConfig   `yaml:"serve"   mapstructure:"serve"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"  mapstructure:"level"`  // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // console or json
	File   string `yaml:"file"   mapstructure:"file"`   // extra output path, empty for stderr only
}

// PointsConfig locates the default points file.
type PointsConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// CaptureConfig selects and tunes the screenshot backend.
type CaptureConfig struct {
	Strategy        string `yaml:"strategy"          mapstructure:"strategy"` // auto, direct, portal
	DelayMs         int    `yaml:"delay_ms"          mapstructure:"delay_ms"`
	PortalTimeoutMs int    `yaml:"portal_timeout_ms" mapstructure:"portal_timeout_ms"`
}

// InputConfig tunes synthetic input pacing.
type InputConfig struct {
	ActionDelayMs int `yaml:"action_delay_ms" mapstructure:"action_delay_ms"`
	TypeDelayMs   int `yaml:"type_delay_ms"   mapstructure:"type_delay_ms"`
}

// GUIConfig sizes the main window.
type GUIConfig struct {
	Width  int `yaml:"width"  mapstructure:"width"`
	Height int `yaml:"height" mapstructure:"height"`
}

// ScriptConfig names the script loaded at startup.
type ScriptConfig struct {
	Default string `yaml:"default" mapstructure:"default"`
}

// ServeConfig configures the MCP server.
type ServeConfig struct {
	Transport  string `yaml:"transport"    mapstructure:"transport"`
	Port       int    `yaml:"port"         mapstructure:"port"`
	CacheTTLMs int    `yaml:"cache_ttl_ms" mapstructure:"cache_ttl_ms"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Log:     LogConfig{Level: "info", Format: "console"},
		Points:  PointsConfig{File: "points.json"},
		Capture: CaptureConfig{Strategy: "auto", DelayMs: 500, PortalTimeoutMs: 30000},
		Input:   InputConfig{ActionDelayMs: 100, TypeDelayMs: 250},
		GUI:     GUIConfig{Width: 1280, Height: 800},
		Serve:   ServeConfig{Transport: "stdio", Port: 8080, CacheTTLMs: 500},
	}
}

// CaptureDelay is the pause between hiding the window and grabbing the screen.
func (c *Config) CaptureDelay() time.Duration {
	return time.Duration(c.Capture.DelayMs) * time.Millisecond
}

// PortalTimeout bounds the wait for a portal screenshot.
func (c *Config) PortalTimeout() time.Duration {
	return time.Duration(c.Capture.PortalTimeoutMs) * time.Millisecond
}

// ActionDelay is the pause after each synthetic input action.
func (c *Config) ActionDelay() time.Duration {
	return time.Duration(c.Input.ActionDelayMs) * time.Millisecond
}

// TypeDelay is the pause between typed characters.
func (c *Config) TypeDelay() time.Duration {
	return time.Duration(c.Input.TypeDelayMs) * time.Millisecond
}

// CacheTTL is how long the MCP server reuses a capture.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Serve.CacheTTLMs) * time.Millisecond
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format: unsupported %q (use console or json)", c.Log.Format)
	}
	if c.Capture.Strategy == "" {
		return errors.New("capture.strategy must not be empty")
	}
	if c.Capture.DelayMs < 0 || c.Input.ActionDelayMs < 0 || c.Input.TypeDelayMs < 0 {
		return errors.New("delays must not be negative")
	}
	switch c.Serve.Transport {
	case "stdio", "streamable-http":
	default:
		return fmt.Errorf("serve.transport: unsupported %q (use stdio or streamable-http)", c.Serve.Transport)
	}
	return nil
}

// DefaultDir is the directory holding config.yaml.
func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "scoopick")
	}
	return ".scoopick"
}

// DefaultPath is the config file used when none is given.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// NewViper returns a viper instance seeded with the defaults and wired to
// SCOOPICK_* environment overrides.
func NewViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	return v, nil
}

// Load reads path over the defaults. An empty path uses DefaultPath and
// tolerates it being absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	v, err := NewViper()
	if err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Write saves cfg as YAML at path, creating the parent directory.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
