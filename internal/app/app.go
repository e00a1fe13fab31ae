package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/pricetracker/internal/cache"
	"github.com/hyperifyio/pricetracker/internal/extract"
	"github.com/hyperifyio/pricetracker/internal/fetch"
)

var (
	// ErrFetch wraps failures to obtain the page: transport errors, non-2xx
	// statuses and unreadable input files.
	ErrFetch = errors.New("fetch page")
	// ErrParse wraps failures to parse the page into a document.
	ErrParse = errors.New("parse page")
)

type App struct {
	cfg       Config
	fetcher   *fetch.Client
	extractor *extract.Extractor
	httpCache *cache.HTTPCache
	stdout    io.Writer
}

// New wires the fetcher, cache and extractor for cfg. cfg should already be
// defaulted and validated.
func New(_ context.Context, cfg Config) (*App, error) {
	lang, err := AcceptLanguage(cfg.Language)
	if err != nil {
		return nil, err
	}
	a := &App{
		cfg:       cfg,
		extractor: extract.New(),
		stdout:    os.Stdout,
	}
	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			if n, err := cache.PurgeHTTPCacheByAge(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
				log.Warn().Err(err).Msg("cache purge failed")
			} else if n > 0 {
				log.Debug().Int("removed", n).Msg("purged expired cache entries")
			}
		}
		a.httpCache = &cache.HTTPCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}
	a.fetcher = &fetch.Client{
		HTTPClient:        newHTTPClient(),
		UserAgent:         cfg.UserAgent,
		AcceptLanguage:    lang,
		MaxAttempts:       cfg.MaxAttempts,
		PerRequestTimeout: cfg.Timeout,
		Cache:             a.httpCache,
		BypassCache:       cfg.BypassCache,
		RedirectMaxHops:   cfg.RedirectMaxHops,
	}
	return a, nil
}

// SetStdout redirects record output when no output path is configured.
func (a *App) SetStdout(w io.Writer) {
	a.stdout = w
}

// Close releases idle connections held by the page fetcher.
func (a *App) Close() {
	if a.fetcher != nil && a.fetcher.HTTPClient != nil {
		a.fetcher.HTTPClient.CloseIdleConnections()
	}
}

// Run extracts the configured page and writes the rendered record. Both
// outputs are rendered before anything is written, and the optional PDF is
// written first, so a failure leaves no record behind.
func (a *App) Run(ctx context.Context) error {
	rec, err := a.Scrape(ctx)
	if err != nil {
		return err
	}
	out, err := renderRecord(rec, a.cfg.Format)
	if err != nil {
		return err
	}
	if a.cfg.OutputPDFPath != "" {
		sheet, err := renderProductPDF(rec, a.source())
		if err != nil {
			return fmt.Errorf("render pdf: %w", err)
		}
		if err := os.WriteFile(a.cfg.OutputPDFPath, sheet, 0o644); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("pdf", a.cfg.OutputPDFPath).Msg("wrote product sheet")
	}
	if a.cfg.OutputPath == "" {
		if _, err := a.stdout.Write(out); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(a.cfg.OutputPath, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("out", a.cfg.OutputPath).Msg("wrote product record")
	return nil
}

// Scrape loads the page and resolves its product record.
func (a *App) Scrape(ctx context.Context) (extract.ProductRecord, error) {
	body, contentType, err := a.load(ctx)
	if err != nil {
		return extract.ProductRecord{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	page, err := extract.Parse(body, contentType)
	if err != nil {
		return extract.ProductRecord{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	rec, prov := a.extractor.Resolve(page)
	ev := log.Info().Int("resolved", rec.Resolved()).Int("fields", len(extract.Fields()))
	for f, strategy := range prov {
		ev = ev.Str(string(f), strategy)
	}
	ev.Msg("extracted product")
	return rec, nil
}

func (a *App) load(ctx context.Context) ([]byte, string, error) {
	if a.cfg.InputPath != "" {
		b, err := os.ReadFile(a.cfg.InputPath)
		if err != nil {
			return nil, "", err
		}
		log.Debug().Str("input", a.cfg.InputPath).Int("bytes", len(b)).Msg("read page from file")
		return b, "", nil
	}
	resp, err := a.fetcher.Get(ctx, a.cfg.URL)
	if err != nil {
		return nil, "", err
	}
	log.Info().Str("url", a.cfg.URL).Int("status", resp.StatusCode).Bool("cached", resp.FromCache).Int("bytes", len(resp.Body)).Msg("fetched page")
	return resp.Body, resp.ContentType, nil
}

func (a *App) source() string {
	if a.cfg.InputPath != "" {
		return a.cfg.InputPath
	}
	return a.cfg.URL
}
