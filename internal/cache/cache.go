// Package cache memoizes ModelResults on disk, keyed by an explicit content
// hash of the evaluation inputs. Engines themselves stay pure and cache
// nothing; this is the only place recomputation is ever skipped, and the key
// covers every input that could change the output.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/clfeval/clfeval/internal/models"
)

// Cache is a file-backed ModelResult store.
type Cache struct {
	dir string
	mu  sync.Mutex
}

// New creates a cache rooted at the given directory.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Key hashes everything a ModelResult is a function of: the model name, the
// class count, the timing inputs and the full prediction content.
func Key(modelName string, ps models.PredictionSet, k int, inferenceTimeMs, throughput float64) (string, error) {
	h := sha256.New()

	if _, err := fmt.Fprintf(h, "%s\x00%d\x00%g\x00%g\x00", modelName, k, inferenceTimeMs, throughput); err != nil {
		return "", err
	}
	psJSON, err := json.Marshal(ps)
	if err != nil {
		return "", fmt.Errorf("cache: hashing prediction set: %w", err)
	}
	if _, err := h.Write(psJSON); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Get returns the cached result for the key, or (nil, false) on a miss or
// an unreadable entry.
func (c *Cache) Get(key string) (*models.ModelResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}
	var result models.ModelResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// Put stores the result under the key.
func (c *Cache) Put(key string, result *models.ModelResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("cache: create dir %s: %w", c.dir, err)
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: marshal result: %w", err)
	}
	if err := os.WriteFile(c.path(key), data, 0o644); err != nil {
		return fmt.Errorf("cache: write entry: %w", err)
	}
	return nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}
