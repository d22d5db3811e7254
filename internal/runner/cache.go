package runner

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/robert-at-pretension-io/paint-lint/internal/lint"
)

const cacheIndexVersion = 1

type cacheEntry struct {
	ContentHash   string `json:"content_hash"`
	FindingsPath  string `json:"findings_path"`
	EngineVersion string `json:"engine_version"`
	RulesVersion  string `json:"rules_version"`
}

type cacheIndex struct {
	Version int                   `json:"version"`
	Entries map[string]cacheEntry `json:"entries"`
}

// findingsCache stores the post-filter issues of each file, keyed by path and
// invalidated by content hash, engine version, or rule configuration.
type findingsCache struct {
	dir      string
	versions cacheVersions
	mu       sync.Mutex
	index    cacheIndex
}

func newFindingsCache(dir string, versions cacheVersions) *findingsCache {
	return &findingsCache{
		dir:      dir,
		versions: versions,
		index: cacheIndex{
			Version: cacheIndexVersion,
			Entries: make(map[string]cacheEntry),
		},
	}
}

func (c *findingsCache) indexPath() string {
	return filepath.Join(c.dir, "index.json")
}

func (c *findingsCache) findingsPathForFile(filePath string) string {
	h := sha256.Sum256([]byte(filePath))
	return filepath.Join(c.dir, "findings", hex.EncodeToString(h[:])+".json")
}

func (c *findingsCache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("cache mkdir: %w", err)
	}
	data, err := os.ReadFile(c.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read cache index: %w", err)
	}
	var idx cacheIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return fmt.Errorf("parse cache index: %w", err)
	}
	if idx.Version != cacheIndexVersion {
		// Reset on version mismatch
		c.index = cacheIndex{Version: cacheIndexVersion, Entries: make(map[string]cacheEntry)}
		return nil
	}
	if idx.Entries == nil {
		idx.Entries = make(map[string]cacheEntry)
	}
	c.index = idx
	return nil
}

func (c *findingsCache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return writeJSONAtomic(c.indexPath(), c.index)
}

func (c *findingsCache) Get(filePath, contentHash string) ([]lint.Issue, bool, error) {
	c.mu.Lock()
	entry, ok := c.index.Entries[filePath]
	c.mu.Unlock()
	if !ok || entry.ContentHash != contentHash {
		return nil, false, nil
	}
	if entry.EngineVersion != c.versions.engine || entry.RulesVersion != c.versions.rules {
		return nil, false, nil
	}

	data, err := os.ReadFile(entry.FindingsPath)
	if err != nil {
		return nil, false, fmt.Errorf("read cached findings: %w", err)
	}
	var issues []lint.Issue
	if err := json.Unmarshal(data, &issues); err != nil {
		return nil, false, fmt.Errorf("parse cached findings: %w", err)
	}
	return issues, true, nil
}

func (c *findingsCache) Put(filePath, contentHash string, issues []lint.Issue) error {
	if issues == nil {
		issues = []lint.Issue{}
	}
	findingsPath := c.findingsPathForFile(filePath)
	if err := writeJSONAtomic(findingsPath, issues); err != nil {
		return err
	}

	c.mu.Lock()
	c.index.Entries[filePath] = cacheEntry{
		ContentHash:   contentHash,
		FindingsPath:  findingsPath,
		EngineVersion: c.versions.engine,
		RulesVersion:  c.versions.rules,
	}
	c.mu.Unlock()
	return nil
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache json: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("temp cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename cache file: %w", err)
	}
	return nil
}

func hashContent(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}
