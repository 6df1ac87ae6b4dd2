package imaging

import "image"

// BorderDensity is the fraction of ink a full row or column must exceed
// before it is treated as a ruled line or box border.
const BorderDensity = 0.65

// SuppressBorders erases straight ruled lines from a crop.
//
// Every row whose ink fraction (see IsInk) across the full width exceeds
// BorderDensity is marked, then every column likewise over the full height.
// Marks are computed against the unmodified raster and applied in a single
// pass afterwards, so erasing a row never changes the density of a column.
// Marked pixels become fully transparent (all four channels zero) whatever
// their own classification. The number of erased rows and columns is returned.
//
// Handwriting never spans 65% of a row or column, so it survives; internal
// divider lines anywhere in the crop are removed along with the outer box.
func SuppressBorders(img *image.NRGBA, s Settings) (rows, cols int) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return 0, 0
	}

	rowInk := make([]int, height)
	colInk := make([]int, width)
	for y := 0; y < height; y++ {
		i := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < width; x++ {
			if isInkAt(img.Pix, i, s) {
				rowInk[y]++
				colInk[x]++
			}
			i += 4
		}
	}

	rowMarked := make([]bool, height)
	for y, n := range rowInk {
		if float64(n)/float64(width) > BorderDensity {
			rowMarked[y] = true
			rows++
		}
	}
	colMarked := make([]bool, width)
	for x, n := range colInk {
		if float64(n)/float64(height) > BorderDensity {
			colMarked[x] = true
			cols++
		}
	}
	if rows == 0 && cols == 0 {
		return 0, 0
	}

	for y := 0; y < height; y++ {
		i := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < width; x++ {
			if rowMarked[y] || colMarked[x] {
				clearPixel(img.Pix, i)
			}
			i += 4
		}
	}
	return rows, cols
}

// clearPixel makes the NRGBA pixel at byte offset i fully transparent.
func clearPixel(pix []uint8, i int) {
	pix[i+0] = 0
	pix[i+1] = 0
	pix[i+2] = 0
	pix[i+3] = 0
}
