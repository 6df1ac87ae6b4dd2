package geometry

import (
	"image"
	"math"
	"testing"
)

func TestNaturalRect_Clamp(t *testing.T) {
	tests := []struct {
		name   string
		rect   NaturalRect
		want   image.Rectangle
		wantOK bool
	}{
		{"inside", NaturalRect{10, 20, 30, 40}, image.Rect(10, 20, 40, 60), true},
		{"full image", NaturalRect{0, 0, 100, 80}, image.Rect(0, 0, 100, 80), true},
		{"overflows right and bottom", NaturalRect{90, 70, 50, 50}, image.Rect(90, 70, 100, 80), true},
		{"negative origin", NaturalRect{-10, -5, 20, 20}, image.Rect(0, 0, 10, 15), true},
		{"mostly left of image", NaturalRect{-50, 0, 60, 10}, image.Rect(0, 0, 10, 10), true},
		{"wholly left of image", NaturalRect{-50, 0, 40, 10}, image.Rectangle{}, false},
		{"ends at left edge", NaturalRect{-10, 0, 10, 10}, image.Rectangle{}, false},
		{"larger than image", NaturalRect{-50, -50, 500, 500}, image.Rect(0, 0, 100, 80), true},
		{"rounds to nearest pixel", NaturalRect{9.6, 19.4, 10.2, 9.8}, image.Rect(10, 19, 20, 29), true},
		{"zero width", NaturalRect{10, 10, 0, 10}, image.Rectangle{}, false},
		{"negative height", NaturalRect{10, 10, 10, -5}, image.Rectangle{}, false},
		{"origin past right edge", NaturalRect{120, 10, 10, 10}, image.Rectangle{}, false},
		{"origin past bottom edge", NaturalRect{10, 80, 10, 10}, image.Rectangle{}, false},
		{"huge origin and width", NaturalRect{9e18, 0, 9e18, 10}, image.Rectangle{}, false},
		{"huge width", NaturalRect{0, 0, 1e19, 10}, image.Rect(0, 0, 100, 10), true},
		{"infinite width", NaturalRect{20, 0, math.Inf(1), 10}, image.Rect(20, 0, 100, 10), true},
		{"infinite height", NaturalRect{0, 30, 10, math.Inf(1)}, image.Rect(0, 30, 10, 80), true},
		{"huge negative origin", NaturalRect{-1e19, 0, 50, 10}, image.Rectangle{}, false},
		{"negative infinite origin", NaturalRect{math.Inf(-1), 0, math.Inf(1), 10}, image.Rectangle{}, false},
		{"NaN origin", NaturalRect{math.NaN(), 0, 10, 10}, image.Rectangle{}, false},
		{"NaN height", NaturalRect{0, 0, 10, math.NaN()}, image.Rectangle{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rect.Clamp(100, 80)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("rect: got %v, want %v", got, tt.want)
			}
			if ok && !got.In(image.Rect(0, 0, 100, 80)) {
				t.Errorf("clamped rect %v escapes image bounds", got)
			}
		})
	}
}

func TestNormalizedRect_ToNatural(t *testing.T) {
	r := NormalizedRect{X: 0.25, Y: 0.5, Width: 0.5, Height: 0.1}
	got := r.ToNatural(800, 600)
	want := NaturalRect{X: 200, Y: 300, Width: 400, Height: 60}
	if got != want {
		t.Errorf("ToNatural: got %v, want %v", got, want)
	}
}

func TestFromImageRect(t *testing.T) {
	got := FromImageRect(image.Rect(5, 6, 25, 16))
	want := NaturalRect{X: 5, Y: 6, Width: 20, Height: 10}
	if got != want {
		t.Errorf("FromImageRect: got %v, want %v", got, want)
	}
}
