package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	setString := func(dst *string, keys ...string) {
		if *dst != "" {
			return
		}
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	// An input file chosen by a flag replaces the page URL.
	if cfg.InputPath == "" {
		setString(&cfg.URL, "PRICETRACKER_URL")
	}
	setString(&cfg.OutputPath, "PRICETRACKER_OUTPUT")
	setString(&cfg.Format, "OUTPUT_FORMAT")
	setString(&cfg.UserAgent, "USER_AGENT")
	setString(&cfg.Language, "PRICETRACKER_LANG")
	setString(&cfg.CacheDir, "CACHE_DIR")

	setDuration := func(dst *time.Duration, key string) {
		if *dst != 0 {
			return
		}
		if s := os.Getenv(key); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				*dst = d
			}
		}
	}
	setDuration(&cfg.Timeout, "FETCH_TIMEOUT")
	setDuration(&cfg.CacheMaxAge, "CACHE_MAX_AGE")

	if cfg.MaxAttempts == 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("FETCH_ATTEMPTS"))); err == nil && n > 0 {
			cfg.MaxAttempts = n
		}
	}

	setBool := func(dst *bool, key string) {
		if *dst {
			return
		}
		switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
	setBool(&cfg.BypassCache, "CACHE_BYPASS")
}
