package datasource

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Cache provides simple file-based caching for provider responses. The TTL
// is supplied per lookup because datasets age differently: statements only
// change on new filings while quotes move intraday.
type Cache struct {
	cacheDir string
	mu       sync.RWMutex
}

// CacheEntry represents a cached item
type CacheEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// NewCache creates a new cache instance
func NewCache(cacheDir string) *Cache {
	if cacheDir == "" {
		cacheDir = "cache/statements"
	}

	// Create cache directory if it doesn't exist
	os.MkdirAll(cacheDir, 0755)

	return &Cache{cacheDir: cacheDir}
}

// Get retrieves an item from cache if it is younger than ttl
func (c *Cache) Get(key string, ttl time.Duration) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cacheFile := c.getCacheFilePath(key)

	info, err := os.Stat(cacheFile)
	if err != nil {
		return nil, false
	}

	// Check if cache is expired
	if time.Since(info.ModTime()) > ttl {
		os.Remove(cacheFile)
		return nil, false
	}

	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return nil, false
	}

	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}

	return entry.Data, true
}

// Set stores an item in cache
func (c *Cache) Set(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := CacheEntry{
		Key:       key,
		Data:      data,
		Timestamp: time.Now(),
	}

	entryData, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	cacheFile := c.getCacheFilePath(key)
	return os.WriteFile(cacheFile, entryData, 0644)
}

// Delete removes an item from cache
func (c *Cache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return os.Remove(c.getCacheFilePath(key))
}

// Clear removes all cache entries
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return os.RemoveAll(c.cacheDir)
}

// CleanupExpired removes cache entries older than maxAge
func (c *Cache) CleanupExpired(maxAge time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if time.Since(info.ModTime()) > maxAge {
			os.Remove(filepath.Join(c.cacheDir, entry.Name()))
		}
	}

	return nil
}

func (c *Cache) getCacheFilePath(key string) string {
	// Create MD5 hash of key for filename
	hash := md5.Sum([]byte(key))
	filename := fmt.Sprintf("%x.json", hash)
	return filepath.Join(c.cacheDir, filename)
}

// GetOrFetch retrieves from cache or fetches using the provided function
func (c *Cache) GetOrFetch(key string, ttl time.Duration, fetchFn func() ([]byte, error)) ([]byte, error) {
	if data, ok := c.Get(key, ttl); ok {
		return data, nil
	}

	data, err := fetchFn()
	if err != nil {
		return nil, err
	}

	// Store in cache (ignore errors)
	c.Set(key, data)

	return data, nil
}
