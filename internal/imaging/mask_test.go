package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodeMask(t *testing.T, m image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		t.Fatalf("failed to encode mask: %v", err)
	}
	return buf.Bytes()
}

func TestApplyMask(t *testing.T) {
	img := newPage(10, 10, black)
	mask := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	mask.SetNRGBA(3, 3, color.NRGBA{255, 0, 0, 255})
	mask.SetNRGBA(4, 4, color.NRGBA{0, 0, 0, 1})

	if n := ApplyMask(img, mask); n != 2 {
		t.Errorf("erased: got %d, want 2", n)
	}
	for _, p := range []image.Point{{3, 3}, {4, 4}} {
		if got := img.NRGBAAt(p.X, p.Y); got != transparent {
			t.Errorf("masked pixel %v: got %v, want transparent", p, got)
		}
	}
	if got := img.NRGBAAt(5, 5); got != black {
		t.Errorf("unmasked pixel: got %v, want black", got)
	}
}

func TestApplyMask_SizeMismatch(t *testing.T) {
	tests := []struct {
		name       string
		maskW      int
		maskH      int
		wantErased int
	}{
		{"smaller mask", 5, 4, 20},
		{"larger mask", 30, 30, 100},
		{"wider mask", 20, 2, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := newPage(10, 10, black)
			mask := newPage(tt.maskW, tt.maskH, color.NRGBA{255, 255, 255, 255})
			if n := ApplyMask(img, mask); n != tt.wantErased {
				t.Errorf("erased: got %d, want %d", n, tt.wantErased)
			}
		})
	}
}

func TestDecodeMask(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	got, err := DecodeMask(encodeMask(t, m))
	if err != nil {
		t.Fatalf("DecodeMask failed: %v", err)
	}
	if got.Bounds().Dx() != 8 || got.Bounds().Dy() != 6 {
		t.Errorf("bounds: got %v, want 8x6", got.Bounds())
	}

	for _, data := range [][]byte{nil, {}, []byte("garbage")} {
		if _, err := DecodeMask(data); err == nil {
			t.Errorf("DecodeMask(%q) should fail", data)
		}
	}
}
