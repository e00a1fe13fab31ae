package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/pricetracker/internal/cache"
)

// DefaultUserAgent is a desktop browser identification string. Product pages
// serve reduced or blocked content to unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/90.0.4430.93 Safari/537.36"

// DefaultAcceptLanguage asks for the US English rendering of the page.
const DefaultAcceptLanguage = "en-US,en;q=0.9"

// ErrStatus matches any *StatusError.
var ErrStatus = errors.New("unexpected status")

// StatusError reports a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Code, e.URL)
}

func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// Response is a retrieved page.
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	// FromCache is set when the body was served from the on-disk cache
	// after a 304 revalidation.
	FromCache bool

	etag         string
	lastModified string
}

// Client wraps http.Client with identification headers, timeouts, a redirect
// cap and optional conditional-GET caching.
type Client struct {
	HTTPClient     *http.Client
	UserAgent      string
	AcceptLanguage string
	// MaxAttempts includes the initial attempt. Values below 1 mean 1.
	// Only 5xx responses and timeouts are retried.
	MaxAttempts int
	// PerRequestTimeout bounds each attempt.
	PerRequestTimeout time.Duration
	// Optional on-disk cache for GET bodies and validators.
	Cache *cache.HTTPCache
	// If true, skip revalidation headers but still store the fresh response.
	BypassCache bool
	// RedirectMaxHops caps redirect following. Zero means 5.
	RedirectMaxHops int
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{Timeout: c.PerRequestTimeout, CheckRedirect: c.checkRedirectFunc()}
}

// Get retrieves rawURL. Any non-2xx status is returned as *StatusError.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	var etag, lastMod string
	if c.Cache != nil && !c.BypassCache {
		if meta, err := c.Cache.LoadMeta(ctx, rawURL); err == nil && meta != nil {
			etag = meta.ETag
			lastMod = meta.LastModified
		}
	}
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		resp, err := c.tryOnce(ctx, rawURL, etag, lastMod)
		if err == nil {
			return c.finish(ctx, resp)
		}
		lastErr = err
		if !isTransient(err) || i == attempts-1 {
			break
		}
		log.Debug().Err(err).Int("attempt", i+1).Str("url", rawURL).Msg("retrying fetch")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(i+1) * 200 * time.Millisecond):
		}
	}
	return nil, lastErr
}

// finish stores fresh bodies and swaps a 304 for the cached body.
func (c *Client) finish(ctx context.Context, resp *Response) (*Response, error) {
	if c.Cache == nil {
		return resp, nil
	}
	if resp.StatusCode == http.StatusNotModified {
		body, err := c.Cache.LoadBody(ctx, resp.URL)
		if err != nil {
			return nil, fmt.Errorf("load cached body: %w", err)
		}
		if meta, err := c.Cache.LoadMeta(ctx, resp.URL); err == nil && resp.ContentType == "" {
			resp.ContentType = meta.ContentType
		}
		resp.Body = body
		resp.FromCache = true
		return resp, nil
	}
	if err := c.Cache.Save(ctx, resp.URL, resp.ContentType, resp.etag, resp.lastModified, resp.Body); err != nil {
		log.Warn().Err(err).Str("url", resp.URL).Msg("cache save failed")
	}
	return resp, nil
}

func (c *Client) tryOnce(ctx context.Context, rawURL, etag, lastMod string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if !isHTTPScheme(req.URL) {
		return nil, fmt.Errorf("unsupported URL scheme: %q", req.URL.String())
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	lang := c.AcceptLanguage
	if lang == "" {
		lang = DefaultAcceptLanguage
	}
	req.Header.Set("Accept-Language", lang)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastMod != "" {
		req.Header.Set("If-Modified-Since", lastMod)
	}

	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(req.Context(), c.PerRequestTimeout)
		defer cancel()
		req = req.WithContext(ctx)
	}

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out := &Response{
		URL:          rawURL,
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		etag:         resp.Header.Get("ETag"),
		lastModified: resp.Header.Get("Last-Modified"),
	}
	if resp.StatusCode == http.StatusNotModified && etag+lastMod != "" {
		return out, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}
	if !isAllowedHTMLContentType(out.ContentType) {
		return nil, fmt.Errorf("unsupported content type: %s", out.ContentType)
	}
	out.Body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return out, nil
}

// isTransient treats 5xx responses and deadline expiry as retryable.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Code >= 500
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

// isAllowedHTMLContentType accepts text/html and XHTML. A missing header is
// accepted; the parser sniffs the markup.
func isAllowedHTMLContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return ct == "" || strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}
