package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadConfigFile_YAML(t *testing.T) {
	p := writeFile(t, "pricetracker.yaml", `
url: https://shop.example/dp/B01
format: table
fetch:
  userAgent: test-agent
  language: en-GB
  timeout: 12s
  maxAttempts: 2
cache:
  dir: .cache
  maxAge: 48h
  strictPerms: true
verbose: true
`)
	fc, err := LoadConfigFile(p)
	require.NoError(t, err)

	var cfg Config
	require.NoError(t, ApplyFileConfig(&cfg, fc))
	require.Equal(t, "https://shop.example/dp/B01", cfg.URL)
	require.Equal(t, FormatTable, cfg.Format)
	require.Equal(t, "test-agent", cfg.UserAgent)
	require.Equal(t, "en-GB", cfg.Language)
	require.Equal(t, 12*time.Second, cfg.Timeout)
	require.Equal(t, 2, cfg.MaxAttempts)
	require.Equal(t, ".cache", cfg.CacheDir)
	require.Equal(t, 48*time.Hour, cfg.CacheMaxAge)
	require.True(t, cfg.CacheStrictPerms)
	require.True(t, cfg.Verbose)
}

func TestLoadConfigFile_JSON5(t *testing.T) {
	p := writeFile(t, "pricetracker.json5", `{
  // saved page instead of a live fetch
  input: "page.html",
  output: 'record.json',
  fetch: {timeout: "3s",},
}`)
	fc, err := LoadConfigFile(p)
	require.NoError(t, err)
	require.Equal(t, "page.html", fc.Input)
	require.Equal(t, "record.json", fc.Output)
	require.Equal(t, "3s", fc.Fetch.Timeout)
}

func TestLoadConfigFile_Invalid(t *testing.T) {
	p := writeFile(t, "broken.yaml", "fetch: [unclosed")
	_, err := LoadConfigFile(p)
	require.Error(t, err)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestApplyFileConfig_BadDuration(t *testing.T) {
	var fc FileConfig
	fc.Fetch.Timeout = "soon"
	var cfg Config
	require.Error(t, ApplyFileConfig(&cfg, fc))
}

func TestConfigPrecedence_FlagsEnvFileDefaults(t *testing.T) {
	t.Setenv("USER_AGENT", "env-agent")
	t.Setenv("FETCH_TIMEOUT", "")

	var fc FileConfig
	fc.URL = "https://file.example/dp/1"
	fc.Format = FormatTable
	fc.Fetch.UserAgent = "file-agent"
	fc.Fetch.Timeout = "9s"

	cfg := Config{Format: FormatJSON}
	ApplyEnvToConfig(&cfg)
	require.NoError(t, ApplyFileConfig(&cfg, fc))
	require.NoError(t, ApplyDefaults(&cfg))

	require.Equal(t, FormatJSON, cfg.Format, "flag wins")
	require.Equal(t, "env-agent", cfg.UserAgent, "env beats file")
	require.Equal(t, 9*time.Second, cfg.Timeout, "file beats default")
	require.Equal(t, "https://file.example/dp/1", cfg.URL)
	require.Equal(t, 1, cfg.MaxAttempts, "default")
	require.Equal(t, "en-US", cfg.Language, "default")
	require.NoError(t, ValidateConfig(cfg))
}

func TestApplyFileConfig_HigherSourceReplacesFileSource(t *testing.T) {
	var fc FileConfig
	fc.URL = "https://file.example"
	cfg := Config{InputPath: "saved.html"}
	require.NoError(t, ApplyFileConfig(&cfg, fc))
	require.Empty(t, cfg.URL)
	require.NoError(t, ApplyDefaults(&cfg))
	require.NoError(t, ValidateConfig(cfg))
}

func TestApplyDefaults_SampleURL(t *testing.T) {
	var cfg Config
	require.NoError(t, ApplyDefaults(&cfg))
	require.Equal(t, DefaultURL, cfg.URL)
	require.Equal(t, FormatJSON, cfg.Format)
	require.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestValidateConfig(t *testing.T) {
	base := func() Config {
		c := Config{URL: "https://shop.example"}
		require.NoError(t, ApplyDefaults(&c))
		return c
	}
	require.NoError(t, ValidateConfig(base()))

	c := base()
	c.InputPath = "page.html"
	require.Error(t, ValidateConfig(c), "url and input together")

	c = base()
	c.URL = ""
	require.Error(t, ValidateConfig(c), "no source")

	c = base()
	c.Format = "xml"
	require.Error(t, ValidateConfig(c))

	c = base()
	c.Language = "not a tag!"
	require.Error(t, ValidateConfig(c))

	c = base()
	c.MaxAttempts = -1
	require.Error(t, ValidateConfig(c))
}

func TestAcceptLanguage(t *testing.T) {
	cases := map[string]string{
		"en-US": "en-US,en;q=0.9",
		"en":    "en",
		"de-DE": "de-DE,de;q=0.9",
	}
	for tag, want := range cases {
		got, err := AcceptLanguage(tag)
		require.NoError(t, err, tag)
		require.Equal(t, want, got, tag)
	}
	_, err := AcceptLanguage("")
	require.Error(t, err)
}
