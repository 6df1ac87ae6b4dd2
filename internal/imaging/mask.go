package imaging

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// DecodeMask decodes an encoded edit mask (PNG, or any registered format).
//
// The mask marks erased areas with opaque strokes on a transparent
// background and is aligned 1:1 with the crop it belongs to.
func DecodeMask(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty mask data")
	}
	m, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode mask: %w", err)
	}
	return m, nil
}

// ApplyMask erases every pixel of img under a non-transparent mask pixel.
//
// The mask is anchored at the crop's top-left corner; where the two differ in
// size only the overlapping area is composited. It returns the number of
// pixels erased. ApplyMask runs last in the pipeline, so a masked pixel is
// transparent in the output no matter how earlier stages classified it.
func ApplyMask(img *image.NRGBA, mask image.Image) int {
	m := imaging.Clone(mask)
	ib := img.Bounds()
	mb := m.Bounds()
	width := min(ib.Dx(), mb.Dx())
	height := min(ib.Dy(), mb.Dy())

	erased := 0
	for y := 0; y < height; y++ {
		mi := m.PixOffset(mb.Min.X, mb.Min.Y+y)
		ii := img.PixOffset(ib.Min.X, ib.Min.Y+y)
		for x := 0; x < width; x++ {
			if m.Pix[mi+3] != 0 {
				clearPixel(img.Pix, ii)
				erased++
			}
			mi += 4
			ii += 4
		}
	}
	return erased
}
