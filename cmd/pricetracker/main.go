package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/pricetracker/internal/app"
)

func main() {
	// Logging setup; stdout is reserved for the record.
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		cfg         app.Config
		configPath  string
		envFiles    string
		showVersion bool
	)

	flag.StringVar(&cfg.URL, "url", "", "Product page URL (default: sample product page)")
	flag.StringVar(&cfg.InputPath, "input", "", "Read page markup from a file instead of fetching")
	flag.StringVar(&cfg.OutputPath, "output", "", "Write the record to this path instead of stdout")
	flag.StringVar(&cfg.OutputPDFPath, "pdf", "", "Also write a PDF product sheet to this path")
	flag.StringVar(&cfg.Format, "format", "", "Output format: json or table (default json)")
	flag.StringVar(&cfg.UserAgent, "ua", "", "User-Agent header (default: desktop Chrome)")
	flag.StringVar(&cfg.Language, "lang", "", "Preferred page language as a BCP 47 tag (default en-US)")
	flag.DurationVar(&cfg.Timeout, "timeout", 0, "Per-request timeout (default 30s)")
	flag.IntVar(&cfg.MaxAttempts, "fetch.attempts", 0, "Fetch attempts; 5xx and timeouts are retried when >1 (default 1)")
	flag.IntVar(&cfg.RedirectMaxHops, "fetch.maxRedirects", 0, "Maximum redirects to follow (default 5)")
	flag.StringVar(&cfg.CacheDir, "cache.dir", "", "Cache directory; empty disables the page cache")
	flag.DurationVar(&cfg.CacheMaxAge, "cache.maxAge", 0, "Purge cache entries older than this before the run; 0 disables")
	flag.BoolVar(&cfg.CacheClear, "cache.clear", false, "Clear the cache directory before the run")
	flag.BoolVar(&cfg.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	flag.BoolVar(&cfg.BypassCache, "cache.bypass", false, "Skip cache revalidation but store the fresh page")
	flag.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	flag.StringVar(&configPath, "config", os.Getenv("PRICETRACKER_CONFIG"), "Path to a YAML or JSON5 config file")
	flag.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files to load")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(app.VersionString())
		return
	}
	if flag.NArg() > 0 && cfg.URL == "" {
		cfg.URL = flag.Arg(0)
	}

	if err := loadConfig(&cfg, configPath, envFiles); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(2)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(exitCode(err))
	}
}

// loadConfig layers environment, config file and defaults under the values
// already set by flags, then validates the result.
func loadConfig(cfg *app.Config, configPath, envFiles string) error {
	if err := app.LoadEnvFiles(splitList(envFiles)...); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	app.ApplyEnvToConfig(cfg)
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := app.ApplyFileConfig(cfg, fc); err != nil {
			return err
		}
	}
	if err := app.ApplyDefaults(cfg); err != nil {
		return err
	}
	return app.ValidateConfig(*cfg)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			list = append(list, v)
		}
	}
	return list
}

// exitCode maps fatal errors to the process exit status. Fetch and parse
// failures, and anything unexpected, exit 1.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}

func run(ctx context.Context, cfg app.Config) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
