// Package geometry defines the rectangle types shared by the extraction
// pipeline and the detection engine.
//
// Two coordinate spaces are in play and each has its own type so they can
// never be passed for one another:
//
//   - NaturalRect: absolute pixel units of the full-resolution source image.
//   - NormalizedRect: 0.0-1.0 fractions of a displayed image's extent, as
//     reported by external detectors.
//
// The only bridge between the two is NormalizedRect.ToNatural.
package geometry

import (
	"fmt"
	"image"
	"math"
)

// NaturalRect is a real-valued rectangle in source-image pixel space.
type NaturalRect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// NormalizedRect is a rectangle whose coordinates are fractions (0.0-1.0)
// of the displayed image's width and height.
type NormalizedRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// String implements fmt.Stringer.
func (r NaturalRect) String() string {
	return fmt.Sprintf("natural(%.1f,%.1f %.1fx%.1f)", r.X, r.Y, r.Width, r.Height)
}

// String implements fmt.Stringer.
func (r NormalizedRect) String() string {
	return fmt.Sprintf("normalized(%.4f,%.4f %.4fx%.4f)", r.X, r.Y, r.Width, r.Height)
}

// ToNatural scales a normalized rectangle to the pixel space of an image with
// the given natural dimensions.
func (r NormalizedRect) ToNatural(naturalWidth, naturalHeight int) NaturalRect {
	w := float64(naturalWidth)
	h := float64(naturalHeight)
	return NaturalRect{
		X:      r.X * w,
		Y:      r.Y * h,
		Width:  r.Width * w,
		Height: r.Height * h,
	}
}

// Clamp converts the rectangle to integer pixel bounds and intersects it with
// an image of the given size.
//
// Origin and extent are rounded to the nearest pixel, then each edge is
// clamped to the image in float space, so huge or infinite values are cut to
// the image instead of overflowing. Parts of the rectangle outside the image
// are dropped on every side. The second return value is false when nothing
// remains or any coordinate is NaN; the rectangle is empty then.
func (r NaturalRect) Clamp(imageWidth, imageHeight int) (image.Rectangle, bool) {
	x0, x1, ok := clampSpan(r.X, r.Width, imageWidth)
	if !ok {
		return image.Rectangle{}, false
	}
	y0, y1, ok := clampSpan(r.Y, r.Height, imageHeight)
	if !ok {
		return image.Rectangle{}, false
	}
	return image.Rect(x0, y0, x1, y1), true
}

// clampSpan intersects [origin, origin+extent) with [0, limit].
func clampSpan(origin, extent float64, limit int) (int, int, bool) {
	lo := math.Round(origin)
	hi := lo + math.Round(extent)
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return 0, 0, false
	}

	l := float64(limit)
	lo = math.Min(math.Max(lo, 0), l)
	hi = math.Min(math.Max(hi, 0), l)
	if hi <= lo {
		return 0, 0, false
	}
	return int(lo), int(hi), true
}

// FromImageRect converts integer pixel bounds into a NaturalRect.
func FromImageRect(r image.Rectangle) NaturalRect {
	return NaturalRect{
		X:      float64(r.Min.X),
		Y:      float64(r.Min.Y),
		Width:  float64(r.Dx()),
		Height: float64(r.Dy()),
	}
}
