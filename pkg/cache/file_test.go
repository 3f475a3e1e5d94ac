package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestFileCache(t *testing.T) *FileCache {
	t.Helper()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t)

	tests := []struct {
		key  string
		data []byte
		ttl  time.Duration
	}{
		{"layout:v1:abc", []byte(`{"roots":["A"]}`), time.Hour},
		{"artifact:v1:def", []byte{0, 1, 2, 0xff}, 0},
		{"empty", []byte{}, 0},
	}

	for _, tt := range tests {
		if err := c.Set(ctx, tt.key, tt.data, tt.ttl); err != nil {
			t.Fatalf("Set(%q) error: %v", tt.key, err)
		}
		got, hit, err := c.Get(ctx, tt.key)
		if err != nil || !hit {
			t.Fatalf("Get(%q) = hit %v, err %v, want hit", tt.key, hit, err)
		}
		if string(got) != string(tt.data) {
			t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.data)
		}
	}
}

func TestFileCacheMisses(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t)

	if _, hit, err := c.Get(ctx, "never-set"); err != nil || hit {
		t.Errorf("Get(never-set) = hit %v, err %v, want miss", hit, err)
	}

	if err := c.Set(ctx, "stale", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "stale"); hit {
		t.Error("Get(stale) hit after expiry")
	}
	if _, err := os.Stat(c.path("stale")); !os.IsNotExist(err) {
		t.Error("expired entry file still on disk")
	}

	// Anything shorter than the expiry header is corrupt.
	p := c.path("torn")
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "torn"); err != nil || hit {
		t.Errorf("Get(torn) = hit %v, err %v, want miss", hit, err)
	}
}

func TestFileCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t)

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	for range 2 {
		if err := c.Delete(ctx, "k"); err != nil {
			t.Errorf("Delete() error: %v", err)
		}
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get() hit after Delete")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %s, want %s", c.Dir(), dir)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	// A temp file from an interrupted write is removed but not counted.
	if err := os.WriteFile(filepath.Join(filepath.Dir(c.path("a")), "123.tmp"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("cache dir holds %d entries after Clear", len(entries))
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Errorf("Set() error: %v", err)
	}
	if data, hit, err := c.Get(ctx, "k"); hit || data != nil || err != nil {
		t.Errorf("Get() = %q, %v, %v, want nil, false, nil", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}
