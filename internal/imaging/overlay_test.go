package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"

	"github.com/ironsheep/signature-tools-mcp/internal/geometry"
)

func decodeOverlay(t *testing.T, result *OverlayResult) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	return img
}

func rgb8(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func TestDrawRegions(t *testing.T) {
	src := newPage(100, 80, white)
	regions := []geometry.NaturalRect{{X: 10, Y: 10, Width: 50, Height: 30}}

	result, err := DrawRegions(src, regions, OverlayOptions{ColorHex: "#FF0000"})
	if err != nil {
		t.Fatalf("DrawRegions failed: %v", err)
	}
	if result.Width != 100 || result.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", result.Width, result.Height)
	}
	if result.Regions != 1 || result.MimeType != "image/png" {
		t.Errorf("result: got %+v", result)
	}

	img := decodeOverlay(t, result)
	if r, g, b := rgb8(img, 30, 10); r != 255 || g != 0 || b != 0 {
		t.Errorf("outline pixel: got (%d,%d,%d), want red", r, g, b)
	}
	if r, g, b := rgb8(img, 40, 25); r != 255 || g != 255 || b != 255 {
		t.Errorf("interior pixel: got (%d,%d,%d), want white", r, g, b)
	}
	if r, g, b := rgb8(img, 80, 70); r != 255 || g != 255 || b != 255 {
		t.Errorf("outside pixel: got (%d,%d,%d), want white", r, g, b)
	}

	if got := src.NRGBAAt(30, 10); got != white {
		t.Error("DrawRegions modified its input")
	}
}

func TestDrawRegions_Grid(t *testing.T) {
	src := newPage(100, 80, white)

	result, err := DrawRegions(src, nil, OverlayOptions{GridSpacing: 20})
	if err != nil {
		t.Fatalf("DrawRegions failed: %v", err)
	}

	img := decodeOverlay(t, result)
	if r, g, b := rgb8(img, 20, 5); r == 255 && g == 255 && b == 255 {
		t.Error("grid line at x=20 not drawn")
	}
	if r, g, b := rgb8(img, 10, 5); r != 255 || g != 255 || b != 255 {
		t.Errorf("between grid lines: got (%d,%d,%d), want white", r, g, b)
	}
}

func TestDrawRegions_BadInput(t *testing.T) {
	src := newPage(50, 50, white)
	regions := []geometry.NaturalRect{
		{X: 500, Y: 500, Width: 10, Height: 10},
		{X: -20, Y: -20, Width: 200, Height: 200},
	}

	// An unparsable colour falls back to the default and off-page regions
	// are skipped.
	result, err := DrawRegions(src, regions, OverlayOptions{ColorHex: "not-a-color", LineWidth: -3})
	if err != nil {
		t.Fatalf("DrawRegions failed: %v", err)
	}
	if result.Regions != 2 {
		t.Errorf("Regions: got %d, want 2", result.Regions)
	}

	img := decodeOverlay(t, result)
	if r, g, b := rgb8(img, 25, 49); r == 255 && g == 255 && b == 255 {
		t.Error("clamped region outline not drawn")
	}
}
