// Package config assembles prepcoach settings from a .env file, an
// optional YAML file and PREPCOACH_* environment variables.
package config

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/prepcoach/internal/llm"
	"github.com/abhisek/prepcoach/internal/remote"
	"github.com/abhisek/prepcoach/internal/server"
)

// Question and feedback sources.
const (
	SourceRemote   = "remote"
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)

// Config is the full application configuration.
type Config struct {
	// Source selects where questions and feedback come from.
	Source string `yaml:"source"`

	Remote RemoteConfig `yaml:"remote"`
	LLM    llm.Config   `yaml:"llm"`
	Serve  ServeConfig  `yaml:"serve"`
	Log    LogConfig    `yaml:"log"`

	// DB is the journal database path. Empty means the default location.
	DB string `yaml:"db"`
}

type RemoteConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	Preflight bool          `yaml:"preflight"`
}

type ServeConfig struct {
	Addr            string        `yaml:"addr"`
	GenerateTimeout time.Duration `yaml:"generate_timeout"`
}

type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`

	// Format is json or console.
	Format string `yaml:"format"`

	// File receives log output instead of stderr when set.
	File string `yaml:"file"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	rc := remote.DefaultConfig()
	sc := server.DefaultConfig()
	return Config{
		Source: SourceRemote,
		Remote: RemoteConfig{
			BaseURL:   rc.BaseURL,
			Timeout:   rc.Timeout,
			Preflight: true,
		},
		LLM: llm.DefaultConfig(),
		Serve: ServeConfig{
			Addr:            sc.Addr,
			GenerateTimeout: sc.GenerateTimeout,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/prepcoach/config.yaml, defaulting
// XDG_CONFIG_HOME to ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "prepcoach", "config.yaml"), nil
}

// Load builds the configuration. It reads ./.env if present, then the YAML
// file at path, then environment overrides. An empty path means
// DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}
	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PREPCOACH_SOURCE"); v != "" {
		c.Source = v
	}
	if v := os.Getenv("PREPCOACH_BACKEND_URL"); v != "" {
		c.Remote.BaseURL = v
	}
	if v := os.Getenv("PREPCOACH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PREPCOACH_TIMEOUT: %w", err)
		}
		c.Remote.Timeout = d
	}
	if v := os.Getenv("PREPCOACH_PREFLIGHT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PREPCOACH_PREFLIGHT: %w", err)
		}
		c.Remote.Preflight = b
	}
	if v := os.Getenv("PREPCOACH_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PREPCOACH_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("PREPCOACH_DB"); v != "" {
		c.DB = v
	}
	llm.ApplyEnv(&c.LLM)
	c.discoverLLM()
	return nil
}

// discoverLLM falls back to the vendors' standard API key variables when
// the selected provider has no key.
func (c *Config) discoverLLM() {
	if c.LLM.Validate() == nil {
		return
	}
	d, ok := llm.DiscoverConfig()
	if !ok {
		return
	}
	c.LLM.Provider = d.Provider
	c.LLM.Anthropic.APIKey = cmp.Or(c.LLM.Anthropic.APIKey, d.Anthropic.APIKey)
	c.LLM.OpenAI.APIKey = cmp.Or(c.LLM.OpenAI.APIKey, d.OpenAI.APIKey)
	c.LLM.Gemini.APIKey = cmp.Or(c.LLM.Gemini.APIKey, d.Gemini.APIKey)
	c.LLM.OpenRouter.APIKey = cmp.Or(c.LLM.OpenRouter.APIKey, d.OpenRouter.APIKey)
}

// Validate reports the first invalid setting. The LLM section is only
// checked when the llm source is selected.
func (c Config) Validate() error {
	switch c.Source {
	case SourceRemote:
		if strings.TrimSpace(c.Remote.BaseURL) == "" {
			return errors.New("remote.base_url is required for the remote source")
		}
	case SourceLLM:
		if err := c.LLM.Validate(); err != nil {
			return fmt.Errorf("llm: %w", err)
		}
	case SourceFallback:
	default:
		return fmt.Errorf("unknown source %q (want %s, %s or %s)",
			c.Source, SourceRemote, SourceLLM, SourceFallback)
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Remote.Timeout)
	}
	return nil
}

// RemoteClientConfig converts the remote section for remote.New.
func (c Config) RemoteClientConfig() remote.Config {
	return remote.Config{
		BaseURL:   c.Remote.BaseURL,
		Timeout:   c.Remote.Timeout,
		Preflight: c.Remote.Preflight,
	}
}

// ServerConfig converts the serve section for server.New.
func (c Config) ServerConfig() server.Config {
	return server.Config{
		Addr:            c.Serve.Addr,
		GenerateTimeout: c.Serve.GenerateTimeout,
	}
}
