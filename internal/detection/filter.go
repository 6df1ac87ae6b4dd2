package detection

import (
	"github.com/ironsheep/signature-tools-mcp/internal/geometry"
)

// Reason explains why a blob was not emitted.
type Reason string

const (
	// RejectNoise marks blobs narrower or shorter than the minimum fractions.
	RejectNoise Reason = "noise"
	// RejectPage marks blobs spanning nearly the whole page (its border).
	RejectPage Reason = "page"
	// RejectVertical marks tall thin blobs such as vertical dividers.
	RejectVertical Reason = "vertical_line"
)

// Classify returns the reason a blob should be rejected on a grid of the
// given size, or "" if it is a signature candidate. Checks run in order:
// noise, whole page, vertical line.
func Classify(b Blob, gridWidth, gridHeight int, opts Options) Reason {
	w := float64(b.Width())
	h := float64(b.Height())
	gw := float64(gridWidth)
	gh := float64(gridHeight)

	if w < opts.MinWidthFraction*gw || h < opts.MinHeightFraction*gh {
		return RejectNoise
	}
	if w > opts.MaxWidthFraction*gw && h > opts.MaxHeightFraction*gh {
		return RejectPage
	}
	if h > opts.MaxAspect*w {
		return RejectVertical
	}
	return ""
}

// FilterBlobs keeps the blobs that Classify accepts, in their original order,
// and counts the rejected ones by reason.
func FilterBlobs(blobs []Blob, gridWidth, gridHeight int, opts Options) ([]Blob, map[Reason]int) {
	kept := make([]Blob, 0, len(blobs))
	rejected := make(map[Reason]int)
	for _, b := range blobs {
		if reason := Classify(b, gridWidth, gridHeight, opts); reason != "" {
			rejected[reason]++
			continue
		}
		kept = append(kept, b)
	}
	return kept, rejected
}

// MapBlob converts a blob to a natural-space rectangle.
//
// One grid cell spans CellSize*scale natural pixels. The blob's extent grows
// by Padding cells on each side (2*Padding per axis) so ascenders and
// descenders are not clipped, anchored at the blob's first cell. The result is
// clamped so origin+extent never exceeds the natural image size.
func MapBlob(b Blob, opts Options, scale float64, naturalWidth, naturalHeight int) geometry.NaturalRect {
	k := float64(opts.CellSize) * scale
	pad := 2 * opts.Padding

	r := geometry.NaturalRect{
		X:      float64(b.MinX) * k,
		Y:      float64(b.MinY) * k,
		Width:  float64(b.Width()+pad) * k,
		Height: float64(b.Height()+pad) * k,
	}
	if r.X+r.Width > float64(naturalWidth) {
		r.Width = max(0, float64(naturalWidth)-r.X)
	}
	if r.Y+r.Height > float64(naturalHeight) {
		r.Height = max(0, float64(naturalHeight)-r.Y)
	}
	return r
}
