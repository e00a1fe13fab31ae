package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const metaSuffix = ".meta.json"

// ClearDir empties a page cache directory, leaving it in place.
func ClearDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("cache: empty dir")
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("cache: clear %s: %w", dir, err)
	}
	return os.MkdirAll(dir, 0o755)
}

// PurgeHTTPCacheByAge drops cached pages saved more than maxAge ago and
// reports how many were dropped. A page is its meta file plus its body.
// Entries whose metadata cannot be read are left alone.
func PurgeHTTPCacheByAge(dir string, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache: list %s: %w", dir, err)
	}
	cutoff := time.Now().UTC().Add(-maxAge)
	removed := 0
	for _, de := range entries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, metaSuffix) {
			continue
		}
		metaPath := filepath.Join(dir, name)
		savedAt, ok := entrySavedAt(metaPath)
		if !ok || !savedAt.Before(cutoff) {
			continue
		}
		_ = os.Remove(metaPath)
		_ = os.Remove(filepath.Join(dir, strings.TrimSuffix(name, metaSuffix)+".body"))
		removed++
	}
	return removed, nil
}

func entrySavedAt(metaPath string) (time.Time, bool) {
	b, err := os.ReadFile(metaPath)
	if err != nil {
		return time.Time{}, false
	}
	var e HTTPEntry
	if err := json.Unmarshal(b, &e); err != nil {
		return time.Time{}, false
	}
	return e.SavedAt, true
}
