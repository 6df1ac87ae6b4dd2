package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"
	"sync/atomic"
	"testing"
)

// createTestImage creates a simple test image file and returns its path.
// The caller is responsible for removing the file.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	tmpFile, err := os.CreateTemp("", "test-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to encode image: %v", err)
	}

	return tmpFile.Name()
}

func TestNewImageCache(t *testing.T) {
	cache := NewImageCache()
	if cache == nil {
		t.Fatal("NewImageCache returned nil")
	}
	if cache.images == nil {
		t.Fatal("NewImageCache did not initialize images map")
	}
}

// countingLoader returns a loader that decodes path and counts its calls.
func countingLoader(path string, calls *atomic.Int32) func() (image.Image, error) {
	return func() (image.Image, error) {
		calls.Add(1)
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		return img, err
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 100, 100, color.RGBA{255, 0, 0, 255})
	defer os.Remove(imgPath)

	var calls atomic.Int32
	img1, err := cache.Load(imgPath, countingLoader(imgPath, &calls))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img1.Bounds().Dx() != 100 || img1.Bounds().Dy() != 100 {
		t.Errorf("dimensions: got %v, want 100x100", img1.Bounds())
	}

	img2, err := cache.Load(imgPath, countingLoader(imgPath, &calls))
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load should return the cached image")
	}
	if calls.Load() != 1 {
		t.Errorf("loader called %d times, want 1", calls.Load())
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestImageCache_Load_ErrorNotCached(t *testing.T) {
	cache := NewImageCache()

	var calls atomic.Int32
	for i := 0; i < 2; i++ {
		if _, err := cache.Load("missing", countingLoader("/nonexistent/path/to/image.png", &calls)); err == nil {
			t.Fatal("Load should fail for nonexistent file")
		}
	}
	if calls.Load() != 2 {
		t.Errorf("loader called %d times, want 2", calls.Load())
	}
	if cache.Len() != 0 {
		t.Errorf("failed load was cached: Len %d", cache.Len())
	}
}

func TestImageCache_Load_NilImage(t *testing.T) {
	cache := NewImageCache()
	_, err := cache.Load("empty", func() (image.Image, error) { return nil, nil })
	if err == nil {
		t.Error("Load should fail when the loader produces no image")
	}
	if cache.Len() != 0 {
		t.Error("nil image was cached")
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 50, 50, color.RGBA{128, 128, 128, 255})
	defer os.Remove(imgPath)

	var wg sync.WaitGroup
	var calls atomic.Int32
	errors := make(chan error, 100)

	// Concurrent loads
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Load(imgPath, countingLoader(imgPath, &calls))
			if err != nil {
				errors <- err
			}
		}()
	}

	wg.Wait()
	close(errors)

	for err := range errors {
		t.Errorf("concurrent Load error: %v", err)
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestImageCache_StoreGet(t *testing.T) {
	cache := NewImageCache()
	page := image.NewRGBA(image.Rect(0, 0, 20, 30))

	if _, ok := cache.Get("contract.pdf#1"); ok {
		t.Fatal("Get on empty cache should miss")
	}

	cache.Store("contract.pdf#1", page)
	got, ok := cache.Get("contract.pdf#1")
	if !ok || got != page {
		t.Error("Get did not return the stored page")
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestDescribeImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 200, 150))

	info := DescribeImage(img, "/scans/contract.pdf", 2, 5)
	if info.Width != 200 || info.Height != 150 {
		t.Errorf("dimensions: got %dx%d, want 200x150", info.Width, info.Height)
	}
	if info.Format != "pdf" {
		t.Errorf("Format: got %s, want pdf", info.Format)
	}
	if !info.HasAlpha {
		t.Error("NRGBA raster should report alpha")
	}
	if info.Page != 2 || info.PageCount != 5 {
		t.Errorf("page: got %d of %d, want 2 of 5", info.Page, info.PageCount)
	}

	gray := DescribeImage(image.NewGray(image.Rect(0, 0, 10, 10)), "scan.tif", 0, 1)
	if gray.HasAlpha {
		t.Error("Gray raster should not report alpha")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path   string
		format string
	}{
		{"a.png", "png"},
		{"a.jpg", "jpeg"},
		{"a.JPEG", "jpeg"},
		{"a.gif", "gif"},
		{"a.tif", "tiff"},
		{"a.tiff", "tiff"},
		{"a.bmp", "bmp"},
		{"a.pdf", "pdf"},
		{"a.xyz", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatFromPath(tt.path); got != tt.format {
				t.Errorf("FormatFromPath(%q): got %s, want %s", tt.path, got, tt.format)
			}
		})
	}
}
