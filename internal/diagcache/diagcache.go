// Package diagcache is a per-file disk cache of fast-mode diagnostic
// results, keyed by the file's content hash (source.File.Hash). `movelint
// check` over a directory reruns internal/driver.LintSourceWithSettings
// once per file; most files are unchanged between runs, so caching their
// serialized diagnostics avoids redoing the same syntax parse and check
// pass for byte-identical content.
//
// Grounded on the teacher's internal/driver.DiskCache (same
// XDG_CACHE_HOME-rooted layout, same msgpack payload encoding), narrowed
// from a module-compilation cache to a lint-result cache: the key is a
// content hash rather than a dependency-aggregate module hash, since a
// single file's fast-mode diagnostics depend only on its own bytes and
// the active registry.Settings.
package diagcache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// schemaVersion guards against stale entries surviving a Payload format
// change; bump it whenever Payload's shape changes.
const schemaVersion uint16 = 1

// Cache stores Payloads on disk under $XDG_CACHE_HOME/movelint (or
// ~/.cache/movelint), one file per key. Safe for concurrent use, matching
// the teacher's DiskCache since `movelint check` lints files in parallel
// via golang.org/x/sync/errgroup.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Finding is one cached diagnostic, a flattened mirror of diag.Diagnostic
// narrow enough to round-trip through msgpack without depending on
// internal/diag's richer Fix/Note types (which carry closures that can't
// serialize).
type Finding struct {
	Severity uint8
	LintName string
	Message  string
	Start    uint32
	End      uint32
}

// Payload is what gets cached for one file content hash: the settings
// fingerprint it was computed under, and the findings it produced.
type Payload struct {
	Schema         uint16
	SettingsDigest string
	Findings       []Finding
}

// Open initializes a cache rooted at $XDG_CACHE_HOME/movelint (or
// ~/.cache/movelint), creating the directory if needed.
func Open() (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("diagcache: resolving home directory: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, "movelint")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("diagcache: creating cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key [32]byte) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// Get loads the cached Payload for key, returning ok=false on a miss
// (file absent, unreadable, or from a stale schema).
func (c *Cache) Get(key [32]byte) (Payload, bool) {
	if c == nil {
		return Payload{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		return Payload{}, false
	}
	var payload Payload
	if err := msgpack.Unmarshal(raw, &payload); err != nil {
		return Payload{}, false
	}
	if payload.Schema != schemaVersion {
		return Payload{}, false
	}
	return payload, true
}

// Put serializes and writes payload under key, stamping the current
// schema version.
func (c *Cache) Put(key [32]byte, payload Payload) error {
	if c == nil {
		return nil
	}
	payload.Schema = schemaVersion

	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := msgpack.Marshal(&payload)
	if err != nil {
		return fmt.Errorf("diagcache: encoding payload: %w", err)
	}

	path := c.pathFor(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("diagcache: writing cache entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Join(fmt.Errorf("diagcache: installing cache entry: %w", err), os.Remove(tmp))
	}
	return nil
}
