package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	c := Default()
	c.OpenAI.Endpoint = "https://example.openai.azure.com"
	c.OpenAI.APIKey = "test-key"
	c.Store.Cosmos.ConnectionString = "AccountEndpoint=https://x.documents.azure.com:443/;AccountKey=a2V5;"
	return c
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{"valid configuration", func(*Config) {}, ""},
		{"unknown provider", func(c *Config) { c.OpenAI.Provider = "bard" }, "unknown provider"},
		{"azure without endpoint", func(c *Config) { c.OpenAI.Endpoint = "" }, "endpoint is required"},
		{"openai without endpoint", func(c *Config) { c.OpenAI.Provider = "openai"; c.OpenAI.Endpoint = "" }, ""},
		{"missing key", func(c *Config) { c.OpenAI.APIKey = "" }, "api_key"},
		{"zero token budget", func(c *Config) { c.OpenAI.MaxTokens = 0 }, "max_tokens"},
		{"cosmos without connection string", func(c *Config) { c.Store.Cosmos.ConnectionString = "" }, "connection_string"},
		{"mongo without uri", func(c *Config) { c.Store.Backend = "mongo" }, "mongo.uri"},
		{"s3 without bucket", func(c *Config) { c.Store.Backend = "s3" }, "s3.bucket"},
		{"stdout backend", func(c *Config) { c.Store.Backend = "stdout" }, ""},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, "unknown backend"},
		{"unsupported locale", func(c *Config) { c.Record.Locale = "xx" }, "unsupported locale"},
		{"bad timezone", func(c *Config) { c.Record.Timezone = "Mars/Olympus" }, "timezone"},
		{"bad id scheme", func(c *Config) { c.Record.IDScheme = "sequence" }, "id_scheme"},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := c.Validate()
			if tt.errorMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.errorMsg)
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.errorMsg)
			}
		})
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlData := `
openai:
  provider: azure
  endpoint: https://from-file.openai.azure.com
  api_key: from-file
  max_tokens: 300
  timeout: 45s
store:
  backend: mongo
  database: calls
  collection: acme
  mongo:
    uri: mongodb://localhost:27017
record:
  locale: es
  timezone: UTC
`
	if err := os.WriteFile(path, []byte(yamlData), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("AZURE_OPENAI_API_KEY", "from-env")
	t.Setenv("PORT", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OpenAI.APIKey != "from-env" {
		t.Errorf("APIKey = %q, env should win", cfg.OpenAI.APIKey)
	}
	if cfg.OpenAI.MaxTokens != 300 || cfg.OpenAI.Timeout != 45*time.Second {
		t.Errorf("openai = %+v", cfg.OpenAI)
	}
	if cfg.OpenAI.TranscriptionModel != "whi-td" {
		t.Errorf("default transcription model lost: %q", cfg.OpenAI.TranscriptionModel)
	}
	if cfg.Store.Backend != "mongo" || cfg.Store.Collection != "acme" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Record.Locale != "es" || cfg.Record.IDScheme != "timestamp" {
		t.Errorf("record = %+v", cfg.Record)
	}
	if cfg.Server.Address != ":9090" {
		t.Errorf("Address = %q", cfg.Server.Address)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadBadMaxTokensEnv(t *testing.T) {
	t.Setenv("MAX_TOKENS", "lots")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "MAX_TOKENS") {
		t.Fatalf("expected MAX_TOKENS error, got %v", err)
	}
}
