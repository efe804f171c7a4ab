package diagcache

import (
	"crypto/sha256"
	"path/filepath"
	"testing"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c, err := Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return c
}

func TestCache_PutGetRoundTrip(t *testing.T) {
	c := newTestCache(t)
	key := sha256.Sum256([]byte("module admin { }"))

	payload := Payload{
		SettingsDigest: "default",
		Findings: []Finding{
			{Severity: 1, LintName: "while_true_to_loop", Message: "use loop", Start: 10, End: 23},
		},
	}
	if err := c.Put(key, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if len(got.Findings) != 1 || got.Findings[0].LintName != "while_true_to_loop" {
		t.Errorf("unexpected findings: %+v", got.Findings)
	}
}

func TestCache_MissForUnknownKey(t *testing.T) {
	c := newTestCache(t)
	if _, ok := c.Get(sha256.Sum256([]byte("never written"))); ok {
		t.Error("expected a miss for a key never written")
	}
}

func TestCache_PathForIsRootedUnderCacheDir(t *testing.T) {
	c := newTestCache(t)
	key := sha256.Sum256([]byte("x"))
	if c.pathFor(key) != filepath.Join(c.dir, c.pathFor(key)[len(c.dir)+1:]) {
		t.Error("expected pathFor to be rooted under the cache directory")
	}
}
