package imaging

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempPNG(t *testing.T, width, height int) string {
	t.Helper()
	data, err := EncodePNG(uniformGray(width, height, 120))
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "fixture.png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestImageCacheLoad(t *testing.T) {
	path := writeTempPNG(t, 30, 20)
	cache := NewImageCache(0)

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 20 {
		t.Errorf("loaded dimensions = %dx%d, want 30x20", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestImageCacheServesSecondLoadFromMemory(t *testing.T) {
	path := writeTempPNG(t, 16, 16)
	cache := NewImageCache(0)

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("first Load() failed: %v", err)
	}

	// Removing the backing file proves the second load never touches disk.
	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove fixture: %v", err)
	}
	if _, err := cache.Load(path); err != nil {
		t.Fatalf("cached Load() failed after file removal: %v", err)
	}
}

func TestImageCacheEvict(t *testing.T) {
	path := writeTempPNG(t, 16, 16)
	cache := NewImageCache(0)

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	cache.Evict(path)
	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove fixture: %v", err)
	}

	if _, err := cache.Load(path); err == nil {
		t.Error("Load() after Evict should hit disk and fail on the removed file")
	}
}

func TestImageCacheClear(t *testing.T) {
	path := writeTempPNG(t, 16, 16)
	cache := NewImageCache(0)

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	cache.Clear()
	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove fixture: %v", err)
	}

	if _, err := cache.Load(path); err == nil {
		t.Error("Load() after Clear should hit disk and fail on the removed file")
	}
}

func TestImageCacheMissingFile(t *testing.T) {
	cache := NewImageCache(0)

	if _, err := cache.Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("Load() on missing file should fail")
	}
}

func TestLoadImageInfo(t *testing.T) {
	path := writeTempPNG(t, 40, 25)
	cache := NewImageCache(0)

	info, err := LoadImageInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadImageInfo() failed: %v", err)
	}
	if info.Width != 40 || info.Height != 25 {
		t.Errorf("info dimensions = %dx%d, want 40x25", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("info format = %q, want png", info.Format)
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("info file size = %d, want > 0", info.FileSizeBytes)
	}
}
