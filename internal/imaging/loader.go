package imaging

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"
)

// ImageCache provides thread-safe caching of decoded page rasters so repeated
// detection and crop calls against the same document avoid redundant decodes
// and PDF renders.
//
// Entries are keyed by an arbitrary string; the server uses a page-qualified
// path.
//
// Cached rasters are shared between callers and must be treated as read-only.
// The crop pipeline never writes to its source, so this holds as long as no
// other code mutates a cached image.
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

// Load returns the image cached under key. On a miss it calls load and caches
// the result. Errors are not cached. Concurrent misses on one key may each
// call load; the last result wins.
func (c *ImageCache) Load(key string, load func() (image.Image, error)) (image.Image, error) {
	if img, ok := c.Get(key); ok {
		return img, nil
	}

	img, err := load()
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("no image produced for %s", key)
	}

	c.Store(key, img)
	return img, nil
}

// Get returns a cached image without loading it.
func (c *ImageCache) Get(key string) (image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.images[key]
	return img, ok
}

// Store caches an already decoded or rendered image under key.
func (c *ImageCache) Store(key string, img image.Image) {
	c.mu.Lock()
	c.images[key] = img
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// DocumentInfo describes a loaded page raster.
type DocumentInfo struct {
	// Width and Height are the natural page dimensions in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is derived from the file extension: "png", "jpeg", "gif",
	// "tiff", "bmp", "pdf" or "unknown".
	Format string `json:"format"`

	// HasAlpha indicates whether the raster carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// PageCount is the number of pages in the document; 1 for image files.
	PageCount int `json:"page_count"`

	// Page is the 0-based page the dimensions refer to.
	Page int `json:"page"`
}

// DescribeImage builds DocumentInfo for a raster loaded from path.
func DescribeImage(img image.Image, path string, page, pageCount int) *DocumentInfo {
	hasAlpha := false
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
	}

	b := img.Bounds()
	return &DocumentInfo{
		Width:     b.Dx(),
		Height:    b.Dy(),
		Format:    FormatFromPath(path),
		HasAlpha:  hasAlpha,
		PageCount: pageCount,
		Page:      page,
	}
}

// FormatFromPath maps a file extension to a format name.
func FormatFromPath(path string) string {
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
	case ".pdf":
		return "pdf"
	}
	return "unknown"
}
