package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PROMPTS_FILE", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("LLM_PROVIDER", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAIModel)
	assert.Equal(t, "tts-1", cfg.OpenAITTSModel)
	assert.Equal(t, 500*time.Millisecond, cfg.NavigationDelay)
	assert.Equal(t, "file", cfg.StorageDriver)
	assert.Equal(t, DefaultPrompts(), cfg.Prompts)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NAVIGATION_DELAY", "250ms")
	t.Setenv("UPSTREAM_TIMEOUT", "bogus")
	t.Setenv("JWT_TTL_MINUTES", "15")
	t.Setenv("STORAGE_DRIVER", "Memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.NavigationDelay)
	assert.Equal(t, 60*time.Second, cfg.UpstreamTimeout, "unparsable values fall back to defaults")
	assert.Equal(t, 15, cfg.JWTTTLMinutes)
	assert.Equal(t, "memory", cfg.StorageDriver)
}

func TestValidate(t *testing.T) {
	base := Config{LLMProvider: "openai", StorageDriver: "memory", UpstreamTimeout: time.Second}
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"unknown provider":     func(c *Config) { c.LLMProvider = "llama" },
		"gemini without key":   func(c *Config) { c.LLMProvider = "gemini" },
		"unknown storage":      func(c *Config) { c.StorageDriver = "floppy" },
		"postgres without dsn": func(c *Config) { c.StorageDriver = "postgres" },
		"redis without url":    func(c *Config) { c.StorageDriver = "redis" },
		"s3 without bucket":    func(c *Config) { c.StorageDriver = "s3" },
		"zero timeout":         func(c *Config) { c.UpstreamTimeout = 0 },
		"negative delay":       func(c *Config) { c.NavigationDelay = -time.Second },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadPromptsMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generation:\n  temperature: 0.3\nspeech:\n  voice: nova\n"), 0o644))

	p, err := LoadPrompts(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, p.Generation.Temperature, 1e-9)
	assert.Equal(t, 1000, p.Generation.MaxTokens)
	assert.Equal(t, defaultSystemPrompt, p.Generation.SystemPrompt)
	assert.Equal(t, "nova", p.Speech.Voice)
	assert.Equal(t, "mp3", p.Speech.Format)
}

func TestLoadPromptsRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("speech:\n  format: midi\n"), 0o644))
	_, err := LoadPrompts(bad)
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("generation: [unclosed"), 0o644))
	_, err = LoadPrompts(broken)
	assert.Error(t, err)

	_, err = LoadPrompts(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestShippedPromptsFile(t *testing.T) {
	p, err := LoadPrompts(filepath.Join("..", "..", "config", "interview.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPrompts(), p)
}
