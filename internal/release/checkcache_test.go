package release

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCheckCacheMissing(t *testing.T) {
	cache := NewCheckCache(t.TempDir())
	if _, ok := cache.Get("comfyui", DefaultCheckInterval); ok {
		t.Error("expected miss for empty cache")
	}
}

func TestCheckCachePutGet(t *testing.T) {
	tmp := t.TempDir()
	cache := NewCheckCache(tmp)

	result := CheckResult{
		PackageID:       "comfyui",
		UpdateAvailable: true,
		LatestVersion:   "v0.3.0",
		CheckedAt:       time.Now(),
	}
	if err := cache.Put(result); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := cache.Get("comfyui", DefaultCheckInterval)
	if !ok {
		t.Fatal("expected hit inside the window")
	}
	if !got.UpdateAvailable || got.LatestVersion != "v0.3.0" {
		t.Errorf("got %+v", got)
	}

	// The cache survives a reload from disk.
	reloaded := NewCheckCache(tmp)
	if _, ok := reloaded.Get("comfyui", DefaultCheckInterval); !ok {
		t.Error("expected hit after reload")
	}
}

func TestCheckCacheExpiry(t *testing.T) {
	cache := NewCheckCache(t.TempDir())

	if err := cache.Put(CheckResult{
		PackageID: "fooocus",
		CheckedAt: time.Now().Add(-16 * time.Minute),
	}); err != nil {
		t.Fatal(err)
	}

	if _, ok := cache.Get("fooocus", 15*time.Minute); ok {
		t.Error("expected miss outside the window")
	}
	if _, ok := cache.Get("fooocus", time.Hour); !ok {
		t.Error("expected hit with a longer window")
	}
}

func TestCheckCacheCorrupted(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, checkCacheFileName)
	os.WriteFile(path, []byte("not valid json{{{"), 0644)

	// A corrupt cache starts empty rather than failing.
	cache := NewCheckCache(tmp)
	if _, ok := cache.Get("comfyui", DefaultCheckInterval); ok {
		t.Error("expected miss for corrupted cache")
	}
}

func TestCheckCacheForget(t *testing.T) {
	cache := NewCheckCache(t.TempDir())

	if err := cache.Put(CheckResult{PackageID: "comfyui", CheckedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	cache.Forget("comfyui")

	if _, ok := cache.Get("comfyui", DefaultCheckInterval); ok {
		t.Error("expected miss after Forget")
	}
}
