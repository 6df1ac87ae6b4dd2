package detection

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"

	"github.com/ironsheep/signature-tools-mcp/internal/imaging"
)

// Grid is a coarse binary activity raster. Cell (x, y) is at index y*Width+x.
type Grid struct {
	Width  int
	Height int
	Cells  []bool
}

// NewGrid allocates an all-inactive grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]bool, width*height),
	}
}

// At reports whether cell (x, y) is active. Out-of-range cells are inactive.
func (g *Grid) At(x, y int) bool {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return false
	}
	return g.Cells[y*g.Width+x]
}

// Set activates cell (x, y). Out-of-range cells are ignored.
func (g *Grid) Set(x, y int) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return
	}
	g.Cells[y*g.Width+x] = true
}

// Active returns the number of active cells.
func (g *Grid) Active() int {
	n := 0
	for _, c := range g.Cells {
		if c {
			n++
		}
	}
	return n
}

// BuildGrid downsamples a page into a density grid.
//
// Pages wider than opts.AnalysisWidth are resampled down to it (height keeps
// the aspect ratio); narrower pages are analysed at their natural size and
// never upsampled. Every analysis pixel is classified with imaging.IsInk
// against opts.InkCutoff. A cell is active when any pixel inside it is ink.
// The grid is ceil(analysisWidth/CellSize) x ceil(analysisHeight/CellSize).
//
// The returned scale is max(1, naturalWidth/AnalysisWidth), the factor that
// maps analysis pixels back to natural pixels. A nil grid is returned for an
// empty page.
func BuildGrid(img image.Image, opts Options) (*Grid, float64) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, 0
	}

	scale := 1.0
	aw, ah := b.Dx(), b.Dy()
	if aw > opts.AnalysisWidth {
		scale = float64(aw) / float64(opts.AnalysisWidth)
		aw = opts.AnalysisWidth
		ah = max(1, int(math.Round(float64(b.Dy())/scale)))
	}

	var analysis *image.RGBA
	if scale == 1 {
		analysis = clone.AsShallowRGBA(img)
	} else {
		analysis = transform.Resize(img, aw, ah, transform.Linear)
	}

	g := NewGrid(ceilDiv(aw, opts.CellSize), ceilDiv(ah, opts.CellSize))
	ab := analysis.Bounds()
	for y := 0; y < ab.Dy(); y++ {
		i := analysis.PixOffset(ab.Min.X, ab.Min.Y+y)
		for x := 0; x < ab.Dx(); x++ {
			if inkOverWhite(analysis.Pix[i:i+4], opts.InkCutoff) {
				g.Set(x/opts.CellSize, y/opts.CellSize)
			}
			i += 4
		}
	}
	return g, scale
}

// inkOverWhite classifies a premultiplied RGBA pixel composited over a white
// page, so transparent areas of a scan count as paper.
func inkOverWhite(p []uint8, cutoff int) bool {
	bg := 0xff - p[3]
	return imaging.IsInk(p[0]+bg, p[1]+bg, p[2]+bg, cutoff, false)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
