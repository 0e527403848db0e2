// Package config loads reader settings: built-in defaults, then an
// optional yaml file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the full reader configuration.
type Config struct {
	// APIURL is the graded-reader backend address.
	APIURL string
	// Timeout bounds every backend request.
	Timeout time.Duration
	// SpeechCommand is the synthesizer argv template; {text} is replaced
	// by the utterance. Empty selects a platform default.
	SpeechCommand string
	// Theme is "dark" or "light".
	Theme string
	// LogFile enables debug logging to the given file. A TUI owns the
	// terminal, so there is no console logging.
	LogFile string
	// LongPress is how long a pointer must stay down to count as a
	// long press.
	LongPress time.Duration
}

// fileConfig is the yaml schema. Durations are strings in
// time.ParseDuration form ("10s", "450ms").
type fileConfig struct {
	APIURL        string `yaml:"api_url"`
	Timeout       string `yaml:"timeout"`
	SpeechCommand string `yaml:"speech_command"`
	Theme         string `yaml:"theme"`
	LogFile       string `yaml:"log_file"`
	LongPress     string `yaml:"long_press"`
}

func (c *Config) applyFile(f fileConfig) error {
	if f.APIURL != "" {
		c.APIURL = f.APIURL
	}
	if f.SpeechCommand != "" {
		c.SpeechCommand = f.SpeechCommand
	}
	if f.Theme != "" {
		c.Theme = f.Theme
	}
	if f.LogFile != "" {
		c.LogFile = f.LogFile
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		c.Timeout = d
	}
	if f.LongPress != "" {
		d, err := time.ParseDuration(f.LongPress)
		if err != nil {
			return fmt.Errorf("long_press: %w", err)
		}
		c.LongPress = d
	}
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:    "http://127.0.0.1:8000",
		Timeout:   30 * time.Second,
		Theme:     "dark",
		LongPress: 450 * time.Millisecond,
	}
}

// Load reads configuration from path, or from the default location
// when path is empty. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = defaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			var f fileConfig
			if err := yaml.Unmarshal(data, &f); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
			if err := cfg.applyFile(f); err != nil {
				return Config{}, fmt.Errorf("config %s: %w", path, err)
			}
		case os.IsNotExist(err) && !explicit:
			// defaults only
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// defaultPath returns XDG_CONFIG_HOME/zhread/config.yaml or
// ~/.config/zhread/config.yaml
func defaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "zhread", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "zhread", "config.yaml")
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ZHREAD_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("ZHREAD_SPEECH_CMD"); v != "" {
		c.SpeechCommand = v
	}
	if v := os.Getenv("ZHREAD_THEME"); v != "" {
		c.Theme = v
	}
	if v := os.Getenv("ZHREAD_LOG"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("ZHREAD_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ZHREAD_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	return nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url %q is not a valid http(s) URL", c.APIURL)
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.LongPress <= 0 {
		return errors.New("long_press must be positive")
	}
	if c.Theme != "dark" && c.Theme != "light" {
		return fmt.Errorf("theme %q must be dark or light", c.Theme)
	}
	return nil
}

// Logger builds the file logger, or a nop logger when no file is
// configured.
func (c Config) Logger() (*zap.Logger, error) {
	if c.LogFile == "" {
		return zap.NewNop(), nil
	}

	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", c.LogFile, err)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(f), zapcore.DebugLevel)
	return zap.New(core), nil
}
