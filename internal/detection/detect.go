package detection

import (
	"image"

	"github.com/ironsheep/signature-tools-mcp/internal/geometry"
)

// Result is the output of one detection run with its diagnostics.
type Result struct {
	// Regions are the candidate signature rectangles in natural pixel space,
	// in row-major order of each blob's first cell. Empty when none survive.
	Regions []geometry.NaturalRect `json:"regions"`

	// Count is len(Regions).
	Count int `json:"count"`

	// GridWidth and GridHeight are the density grid dimensions in cells.
	GridWidth  int `json:"grid_width"`
	GridHeight int `json:"grid_height"`

	// Scale is max(1, naturalWidth/AnalysisWidth).
	Scale float64 `json:"scale"`

	// CellPixels is the side of one grid cell in natural pixels.
	CellPixels float64 `json:"cell_pixels"`

	// Blobs is the number of connected components found before filtering.
	Blobs int `json:"blobs"`

	// Rejected counts filtered blobs by reason.
	Rejected map[Reason]int `json:"rejected,omitempty"`
}

// Detector locates signature-like ink regions on a page raster. It holds only
// its options, so one Detector may be used from several goroutines.
type Detector struct {
	opts Options
}

// NewDetector returns a Detector with the given options, or an error if they
// fail Validate.
func NewDetector(opts Options) (*Detector, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Detector{opts: opts}, nil
}

// Options returns the detector's options.
func (d *Detector) Options() Options {
	return d.opts
}

// Detect returns candidate regions in natural pixel space. A nil or empty page
// yields an empty list, never an error.
func (d *Detector) Detect(img image.Image) []geometry.NaturalRect {
	return d.Analyze(img).Regions
}

// Analyze runs the full engine and reports diagnostics alongside the regions:
//
//  1. BuildGrid: resample to the analysis width and mark ink cells
//  2. Dilate: bridge gaps between letters and words
//  3. Label: 4-connected components with bounding boxes
//  4. FilterBlobs: drop noise, page borders and vertical lines
//  5. MapBlob: pad and scale survivors back to natural pixels
func (d *Detector) Analyze(img image.Image) *Result {
	result := &Result{Regions: []geometry.NaturalRect{}}
	if img == nil {
		return result
	}

	grid, scale := BuildGrid(img, d.opts)
	if grid == nil {
		return result
	}
	result.GridWidth = grid.Width
	result.GridHeight = grid.Height
	result.Scale = scale
	result.CellPixels = float64(d.opts.CellSize) * scale

	dilated := Dilate(grid, d.opts.DilateX, d.opts.DilateY)
	blobs, _ := Label(dilated)
	result.Blobs = len(blobs)

	kept, rejected := FilterBlobs(blobs, grid.Width, grid.Height, d.opts)
	if len(rejected) > 0 {
		result.Rejected = rejected
	}

	b := img.Bounds()
	for _, blob := range kept {
		result.Regions = append(result.Regions, MapBlob(blob, d.opts, scale, b.Dx(), b.Dy()))
	}
	result.Count = len(result.Regions)
	return result
}

// Detect runs the engine with DefaultOptions.
func Detect(img image.Image) []geometry.NaturalRect {
	d := &Detector{opts: DefaultOptions()}
	return d.Detect(img)
}
