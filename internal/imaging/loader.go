package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// ImageCache provides thread-safe caching of decoded source images keyed by
// file path.
//
// Uploaded sketches are often re-processed (extract, then preview), so the
// decoded image is kept until Evict or Clear is called.
//
// ImageCache is safe for concurrent use by multiple goroutines.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// Any format registered with disintegration/imaging is accepted (PNG, JPEG,
// GIF, TIFF, BMP). EXIF orientation is applied on decode.
//
// The image is cached using the exact path string provided. Different paths
// to the same file result in separate cache entries.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// DimensionsResult describes a source image and the size it will have after
// normalization.
type DimensionsResult struct {
	// Width is the source image width in pixels.
	Width int `json:"width"`

	// Height is the source image height in pixels.
	Height int `json:"height"`

	// Format is derived from the file extension: "png", "jpeg", "gif",
	// "tiff", "bmp" or "unknown".
	Format string `json:"format"`

	// CanvasWidth and CanvasHeight are the normalized dimensions that every
	// extracted element coordinate refers to.
	CanvasWidth  int `json:"canvas_width"`
	CanvasHeight int `json:"canvas_height"`
}

// GetDimensions loads path through the cache and reports its source and
// normalized dimensions for the given canonical width.
func GetDimensions(cache *ImageCache, path string, canonicalWidth int) (*DimensionsResult, error) {
	if canonicalWidth <= 0 {
		return nil, fmt.Errorf("invalid canonical width %d: must be positive", canonicalWidth)
	}

	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	return &DimensionsResult{
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		Format:       formatFromPath(path),
		CanvasWidth:  canonicalWidth,
		CanvasHeight: ScaledHeight(bounds.Dx(), bounds.Dy(), canonicalWidth),
	}, nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".tif", ".tiff":
		return "tiff"
	case ".bmp":
		return "bmp"
	}
	return "unknown"
}
