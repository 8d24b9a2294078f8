package release

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const checkCacheFileName = "update-checks.json"

// DefaultCheckInterval is how long a cached update-check result stays
// fresh. Adapters may override it per package.
const DefaultCheckInterval = 15 * time.Minute

// CheckResult is one cached update-check outcome for a package.
type CheckResult struct {
	PackageID       string    `json:"package_id"`
	UpdateAvailable bool      `json:"update_available"`
	LatestVersion   string    `json:"latest_version"`
	CheckedAt       time.Time `json:"checked_at"`
}

// CheckCache holds per-package update-check results, persisted as JSON in
// the config directory. It is safe for concurrent callers racing the same
// package's check.
type CheckCache struct {
	mu      sync.Mutex
	dir     string
	results map[string]CheckResult
}

// NewCheckCache loads the cache from dir, starting empty if the file does
// not exist or cannot be parsed (a corrupt cache only costs one re-check).
func NewCheckCache(dir string) *CheckCache {
	c := &CheckCache{dir: dir, results: make(map[string]CheckResult)}

	data, err := os.ReadFile(filepath.Join(dir, checkCacheFileName))
	if err != nil {
		return c
	}
	var results map[string]CheckResult
	if err := json.Unmarshal(data, &results); err != nil {
		return c
	}
	c.results = results
	return c
}

// Get returns the cached result for a package if it is younger than maxAge.
func (c *CheckCache) Get(packageID string, maxAge time.Duration) (CheckResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, ok := c.results[packageID]
	if !ok {
		return CheckResult{}, false
	}
	if time.Since(result.CheckedAt) > maxAge {
		return CheckResult{}, false
	}
	return result, true
}

// Put stores a result and persists the cache.
func (c *CheckCache) Put(result CheckResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results[result.PackageID] = result

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	data, err := json.MarshalIndent(c.results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling update-check cache: %w", err)
	}
	path := filepath.Join(c.dir, checkCacheFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing update-check cache: %w", err)
	}
	return nil
}

// Forget drops a package's cached result, forcing the next check to hit
// the network. Called after installs and updates.
func (c *CheckCache) Forget(packageID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.results, packageID)
}
