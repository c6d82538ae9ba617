package suggest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/steadyhq/steady/internal/models"
)

// fileCache persists suggestion bundles to a single JSON file in the
// config directory. Keys carry the tracker id and the day so bundles
// never leak across days; Sweep drops everything that isn't today's.
type fileCache struct {
	mu   sync.Mutex
	path string
}

type cacheFile struct {
	Version int                                `json:"version"`
	Bundles map[string]models.SuggestionBundle `json:"bundles"`
}

func newFileCache(configDir string) *fileCache {
	return &fileCache{path: filepath.Join(configDir, "suggestions.json")}
}

func cacheKey(trackerID, day string) string {
	return fmt.Sprintf("suggestions:%s:%s", trackerID, day)
}

func (c *fileCache) load() cacheFile {
	data := cacheFile{Version: 1, Bundles: map[string]models.SuggestionBundle{}}
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return data
	}
	if err := json.Unmarshal(raw, &data); err != nil || data.Bundles == nil {
		// A corrupt cache is disposable; start over.
		return cacheFile{Version: 1, Bundles: map[string]models.SuggestionBundle{}}
	}
	return data
}

func (c *fileCache) save(data cacheFile) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding suggestion cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if err := os.WriteFile(c.path, raw, 0600); err != nil {
		return fmt.Errorf("writing suggestion cache: %w", err)
	}
	return nil
}

func (c *fileCache) Get(trackerID, day string) (models.SuggestionBundle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bundle, ok := c.load().Bundles[cacheKey(trackerID, day)]
	if !ok || bundle.Day != day {
		return models.SuggestionBundle{}, false
	}
	return bundle, true
}

func (c *fileCache) Put(bundle models.SuggestionBundle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data := c.load()
	data.Bundles[cacheKey(bundle.TrackerID, bundle.Day)] = bundle
	return c.save(data)
}

// Sweep deletes every bundle not generated for the given day and returns
// how many were removed.
func (c *fileCache) Sweep(day string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	data := c.load()
	removed := 0
	for key, bundle := range data.Bundles {
		if bundle.Day != day {
			delete(data.Bundles, key)
			removed++
		}
	}
	if removed > 0 {
		if err := c.save(data); err != nil {
			return 0
		}
	}
	return removed
}

// Purge empties the cache entirely.
func (c *fileCache) Purge() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := os.Remove(c.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("purging suggestion cache: %w", err)
	}
	return nil
}
