package internal

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/epistemic-frontier/metamath-logic/internal/artifact"
	tt "github.com/epistemic-frontier/metamath-logic/internal/types"
)

// CacheEntry holds one package's cached build result together with the
// inputs that produced it: the spec fingerprint and the content hashes
// of every upstream artifact it was built against.
type CacheEntry struct {
	Fingerprint    string
	UpstreamHashes map[string]string
	Artifact       artifact.Artifact
	Names          artifact.NameMapping
	Hash           string
	Issues         []tt.Issue
	CreatedAt      time.Time
	LastAccessed   time.Time
}

// Cache is the gob-backed package build cache.
type Cache struct {
	CacheDir string
	entries  map[string]CacheEntry
	mutex    sync.RWMutex
	maxAge   time.Duration
}

// NewCache opens (or creates) the cache under cacheDir.
func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		CacheDir: cacheDir,
		entries:  make(map[string]CacheEntry),
		maxAge:   24 * time.Hour,
	}

	if err := cache.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}

	return cache, nil
}

func (c *Cache) load() error {
	cacheFile := filepath.Join(c.CacheDir, "build_cache.gob")
	file, err := os.Open(cacheFile)
	if os.IsNotExist(err) {
		return nil // cache file doesn't exist yet. This is fine.
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&c.entries); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}

	return nil
}

func (c *Cache) save() error {
	cacheFile := filepath.Join(c.CacheDir, "build_cache.gob")
	file, err := os.Create(cacheFile)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(c.entries); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}

	return nil
}

// Set stores a package build result.
func (c *Cache) Set(pkg string, entry CacheEntry) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry.CreatedAt = time.Now()
	entry.LastAccessed = time.Now()
	c.entries[pkg] = entry

	return c.save()
}

// Get returns the cached result for pkg when its recorded inputs still
// match the given fingerprint and upstream hashes.
func (c *Cache) Get(pkg, fingerprint string, upstream map[string]string) (CacheEntry, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[pkg]
	if !exists {
		return CacheEntry{}, false
	}

	if c.isEntryInvalid(entry, fingerprint, upstream) {
		delete(c.entries, pkg)
		return CacheEntry{}, false
	}

	entry.LastAccessed = time.Now()
	c.entries[pkg] = entry

	return entry, true
}

func (c *Cache) isEntryInvalid(entry CacheEntry, fingerprint string, upstream map[string]string) bool {
	// too old
	if time.Since(entry.CreatedAt) > c.maxAge {
		return true
	}

	if entry.Fingerprint != fingerprint {
		return true
	}

	if len(entry.UpstreamHashes) != len(upstream) {
		return true
	}
	for name, hash := range upstream {
		if entry.UpstreamHashes[name] != hash {
			return true
		}
	}

	return false
}

// SetMaxAge bounds how long entries stay valid.
func (c *Cache) SetMaxAge(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = duration
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]CacheEntry)
	_ = c.save() // ignore error as this is a manual operation
}
