package imaging

import "image"

// Binarize forces every pixel of a crop to pure ink or pure background.
//
// Pixels that are already fully transparent are left alone: transparency set
// by SuppressBorders is terminal. Every other pixel is classified with IsInk;
// ink becomes opaque black and background becomes fully transparent.
//
// The transform is lossy. With Invert unset, running it again on its own
// output changes nothing because black always classifies as ink. With Invert
// set it is not idempotent: inverted black reads as paper, so a second pass
// clears the ink the first pass produced.
func Binarize(img *image.NRGBA, s Settings) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			switch {
			case img.Pix[i+3] == 0:
			case isInkAt(img.Pix, i, s):
				img.Pix[i+0] = 0
				img.Pix[i+1] = 0
				img.Pix[i+2] = 0
				img.Pix[i+3] = 0xff
			default:
				clearPixel(img.Pix, i)
			}
			i += 4
		}
	}
}
