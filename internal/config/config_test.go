package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prepcoach/internal/llm"
)

// isolate points every lookup at a temp dir so the developer's own files
// and variables don't leak in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	for _, k := range []string{
		"PREPCOACH_SOURCE", "PREPCOACH_BACKEND_URL", "PREPCOACH_TIMEOUT", "PREPCOACH_PREFLIGHT",
		"PREPCOACH_LOG_LEVEL", "PREPCOACH_LOG_FILE", "PREPCOACH_DB", "PREPCOACH_LLM_PROVIDER",
		"PREPCOACH_ANTHROPIC_API_KEY", "PREPCOACH_LLM_TIMEOUT",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SourceRemote, cfg.Source)
	assert.Equal(t, "http://localhost:5000", cfg.Remote.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Remote.Timeout)
	assert.True(t, cfg.Remote.Preflight)
	assert.Equal(t, ":5000", cfg.Serve.Addr)
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
	require.NoError(t, cfg.Validate())
}

func TestLoad_DiscoversVendorKey(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "gpt-mini", cfg.LLM.OpenAI.Model)
}

func TestLoad_ConfiguredKeyWins(t *testing.T) {
	isolate(t)
	t.Setenv("PREPCOACH_ANTHROPIC_API_KEY", "ant-key")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
	assert.Empty(t, cfg.LLM.OpenAI.APIKey)
}

func TestLoad_DefaultFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config", "prepcoach", "config.yaml"), `
source: llm
remote:
  timeout: 10s
llm:
  provider: openrouter
  openrouter:
    api_key: or-key
    model: meta-llama/llama-3.3-70b-instruct
  timeout: 20s
log:
  level: debug
  format: console
`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SourceLLM, cfg.Source)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, "http://localhost:5000", cfg.Remote.BaseURL)
	assert.Equal(t, llm.ProviderOpenRouter, cfg.LLM.Provider)
	assert.Equal(t, "or-key", cfg.LLM.OpenRouter.APIKey)
	assert.Equal(t, 20*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "claude-haiku", cfg.LLM.Anthropic.Model)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, "debug", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "source: [remote\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "prepcoach.yaml")
	writeFile(t, path, "source: llm\nremote:\n  base_url: http://file:1\n")

	t.Setenv("PREPCOACH_SOURCE", "fallback")
	t.Setenv("PREPCOACH_BACKEND_URL", "http://env:2")
	t.Setenv("PREPCOACH_TIMEOUT", "5s")
	t.Setenv("PREPCOACH_PREFLIGHT", "false")
	t.Setenv("PREPCOACH_DB", "/tmp/x.db")
	t.Setenv("PREPCOACH_LLM_PROVIDER", "mock")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, cfg.Source)
	assert.Equal(t, "http://env:2", cfg.Remote.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Remote.Timeout)
	assert.False(t, cfg.Remote.Preflight)
	assert.Equal(t, "/tmp/x.db", cfg.DB)
	assert.Equal(t, llm.ProviderMock, cfg.LLM.Provider)

	rc := cfg.RemoteClientConfig()
	assert.Equal(t, "http://env:2", rc.BaseURL)
	assert.False(t, rc.Preflight)
}

func TestLoad_BadEnv(t *testing.T) {
	isolate(t)
	t.Setenv("PREPCOACH_TIMEOUT", "soon")
	_, err := Load("")
	assert.ErrorContains(t, err, "PREPCOACH_TIMEOUT")
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "PREPCOACH_BACKEND_URL=http://dotenv:3\n")
	t.Cleanup(func() { os.Unsetenv("PREPCOACH_BACKEND_URL") })
	// godotenv never overrides variables that are already set, even empty.
	os.Unsetenv("PREPCOACH_BACKEND_URL")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv:3", cfg.Remote.BaseURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default", func(*Config) {}, ""},
		{"fallback", func(c *Config) { c.Source = SourceFallback }, ""},
		{"unknown source", func(c *Config) { c.Source = "carrier-pigeon" }, "unknown source"},
		{"zero timeout", func(c *Config) { c.Remote.Timeout = 0 }, "timeout must be positive"},
		{"negative timeout", func(c *Config) { c.Remote.Timeout = -time.Second }, "timeout must be positive"},
		{"empty backend", func(c *Config) { c.Remote.BaseURL = " " }, "base_url"},
		{"llm without key", func(c *Config) { c.Source = SourceLLM }, "PREPCOACH_ANTHROPIC_API_KEY"},
		{"llm mock", func(c *Config) { c.Source = SourceLLM; c.LLM.Provider = llm.ProviderMock }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "logs", "prepcoach.log")

	logger, err := NewLogger(LogConfig{Level: "debug", Format: "json", File: file})
	require.NoError(t, err)
	logger.Debug("questions fell back")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"questions fell back"`)

	_, err = NewLogger(LogConfig{Level: "loud"})
	assert.Error(t, err)
	_, err = NewLogger(LogConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}
