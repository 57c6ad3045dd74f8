package imaging

import (
	"fmt"
	"image"
	"os"
	"sync"
)

// ImageCache provides thread-safe, path-keyed caching of decoded photos for
// the tool surface, so repeated tool calls against the same file validate
// and decode once.
//
// Cached entries go through the same Decode gate as byte input: the size
// limit, format sniff and dimension checks all apply, and their sentinel
// errors surface unchanged from Load.
//
// Entries remain until Evict or Clear; long-running processes handling many
// photos should clear between batches to bound memory.
type ImageCache struct {
	mu       sync.RWMutex
	maxBytes int
	images   map[string]*cachedImage
}

type cachedImage struct {
	img    image.Image
	format string
	size   int64
}

// NewImageCache creates an empty cache enforcing the given per-file byte
// limit. A maxBytes of 0 applies the MaxInputBytes default.
func NewImageCache(maxBytes int) *ImageCache {
	return &ImageCache{
		maxBytes: maxBytes,
		images:   make(map[string]*cachedImage),
	}
}

// Load returns the decoded image for a path, reading and validating the
// file on first use. The cache key is the exact path string; different
// spellings of the same file cache separately.
func (c *ImageCache) Load(path string) (image.Image, error) {
	img, _, err := c.load(path)
	return img, err
}

func (c *ImageCache) load(path string) (image.Image, *cachedImage, error) {
	c.mu.RLock()
	if entry, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return entry.img, entry, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, format, err := Decode(data, c.maxBytes)
	if err != nil {
		return nil, nil, err
	}

	entry := &cachedImage{img: img, format: format, size: int64(len(data))}
	c.mu.Lock()
	c.images[path] = entry
	c.mu.Unlock()

	return img, entry, nil
}

// Clear removes all cached images.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*cachedImage)
	c.mu.Unlock()
}

// Evict removes a single path from the cache. Unknown paths are a no-op.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded photo.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the sniffed image format: "jpeg", "png", "webp" or "gif".
	// Detection is based on magic bytes, not file extension.
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads a photo through the cache and reports its metadata.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, entry, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        entry.format,
		FileSizeBytes: entry.size,
	}, nil
}
