package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/titanous/json5"
	"golang.org/x/text/language"
	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the config file schema. Durations are Go duration strings
// ("30s", "24h") so YAML and JSON5 files read the same way.
type FileConfig struct {
	URL       string `yaml:"url" json:"url"`
	Input     string `yaml:"input" json:"input"`
	Output    string `yaml:"output" json:"output"`
	OutputPDF string `yaml:"outputPDF" json:"outputPDF"`
	Format    string `yaml:"format" json:"format"`

	Fetch struct {
		UserAgent       string `yaml:"userAgent" json:"userAgent"`
		Language        string `yaml:"language" json:"language"`
		Timeout         string `yaml:"timeout" json:"timeout"`
		MaxAttempts     int    `yaml:"maxAttempts" json:"maxAttempts"`
		RedirectMaxHops int    `yaml:"redirectMaxHops" json:"redirectMaxHops"`
	} `yaml:"fetch" json:"fetch"`

	Cache struct {
		Dir         string `yaml:"dir" json:"dir"`
		MaxAge      string `yaml:"maxAge" json:"maxAge"`
		Clear       bool   `yaml:"clear" json:"clear"`
		StrictPerms bool   `yaml:"strictPerms" json:"strictPerms"`
		Bypass      bool   `yaml:"bypass" json:"bypass"`
	} `yaml:"cache" json:"cache"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON/JSON5 into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json", ".json5":
		if err := json5.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json5: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json5.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json5)", err, jerr)
			}
		}
	}
	return fc, nil
}

// toConfig converts the file schema into a Config layer.
func (fc FileConfig) toConfig() (Config, error) {
	c := Config{
		URL:              fc.URL,
		InputPath:        fc.Input,
		OutputPath:       fc.Output,
		OutputPDFPath:    fc.OutputPDF,
		Format:           fc.Format,
		UserAgent:        fc.Fetch.UserAgent,
		Language:         fc.Fetch.Language,
		MaxAttempts:      fc.Fetch.MaxAttempts,
		RedirectMaxHops:  fc.Fetch.RedirectMaxHops,
		CacheDir:         fc.Cache.Dir,
		CacheClear:       fc.Cache.Clear,
		CacheStrictPerms: fc.Cache.StrictPerms,
		BypassCache:      fc.Cache.Bypass,
		Verbose:          fc.Verbose,
	}
	var err error
	if c.Timeout, err = parseOptionalDuration("fetch.timeout", fc.Fetch.Timeout); err != nil {
		return c, err
	}
	if c.CacheMaxAge, err = parseOptionalDuration("cache.maxAge", fc.Cache.MaxAge); err != nil {
		return c, err
	}
	return c, nil
}

func parseOptionalDuration(name, s string) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", name, err)
	}
	return d, nil
}

// ApplyFileConfig fills fields of cfg that are still unset from fc. Flags and
// environment have already been applied, so they keep precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
	if cfg == nil {
		return nil
	}
	layer, err := fc.toConfig()
	if err != nil {
		return err
	}
	// A page source chosen by a higher layer replaces the file's source.
	if cfg.URL != "" || cfg.InputPath != "" {
		layer.URL, layer.InputPath = "", ""
	}
	return mergo.Merge(cfg, layer)
}

// ApplyDefaults fills every remaining unset field from DefaultConfig. When no
// page source is configured the sample product page is used.
func ApplyDefaults(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	if cfg.URL == "" && cfg.InputPath == "" {
		cfg.URL = DefaultURL
	}
	return mergo.Merge(cfg, DefaultConfig())
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.URL) == "" && strings.TrimSpace(cfg.InputPath) == "" {
		return errors.New("config: a url or an input file is required")
	}
	if cfg.URL != "" && cfg.InputPath != "" {
		return errors.New("config: url and input are mutually exclusive")
	}
	switch cfg.Format {
	case FormatJSON, FormatTable:
	default:
		return fmt.Errorf("config: unknown format %q (want %s or %s)", cfg.Format, FormatJSON, FormatTable)
	}
	if cfg.Timeout < 0 || cfg.CacheMaxAge < 0 || cfg.MaxAttempts < 0 || cfg.RedirectMaxHops < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if _, err := AcceptLanguage(cfg.Language); err != nil {
		return err
	}
	return nil
}

// AcceptLanguage builds an Accept-Language header value from a BCP 47 tag,
// adding the base language as a lower-weight fallback: "en-US" becomes
// "en-US,en;q=0.9".
func AcceptLanguage(tag string) (string, error) {
	t, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return "", fmt.Errorf("config: invalid language %q: %w", tag, err)
	}
	base, conf := t.Base()
	if conf == language.No || base.String() == t.String() {
		return t.String(), nil
	}
	return fmt.Sprintf("%s,%s;q=0.9", t, base), nil
}
