package app

import "time"

// Output formats accepted by Config.Format.
const (
	FormatJSON  = "json"
	FormatTable = "table"
)

// DefaultURL is the product page fetched when neither a URL nor an input file
// is configured.
const DefaultURL = "https://www.amazon.com/dp/B0DGJ4RTVT?language=en_US"

// Config holds runtime configuration for the application. Zero values mean
// "unset" until ApplyDefaults runs.
type Config struct {
	// Page source: URL is fetched; InputPath reads saved markup instead.
	URL       string
	InputPath string

	// Output
	OutputPath    string
	OutputPDFPath string
	Format        string

	// Retrieval
	UserAgent       string
	Language        string
	Timeout         time.Duration
	MaxAttempts     int
	RedirectMaxHops int

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool
	BypassCache      bool

	Verbose bool
}

// DefaultConfig returns the values used for any setting left unset by flags,
// environment and config file.
func DefaultConfig() Config {
	return Config{
		Format:          FormatJSON,
		Language:        "en-US",
		Timeout:         30 * time.Second,
		MaxAttempts:     1,
		RedirectMaxHops: 5,
	}
}
