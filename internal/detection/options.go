package detection

import "fmt"

// Options holds the tunable constants of the detection engine. The zero value
// is not usable; start from DefaultOptions.
type Options struct {
	// AnalysisWidth is the width pages are resampled to before gridding.
	AnalysisWidth int `json:"analysis_width" yaml:"analysis_width"`

	// CellSize is the side of one grid cell in analysis pixels.
	CellSize int `json:"cell_size" yaml:"cell_size"`

	// InkCutoff is the fixed luminance threshold for analysis pixels. It is
	// independent of the crop pipeline's user threshold.
	InkCutoff int `json:"ink_cutoff" yaml:"ink_cutoff"`

	// DilateX and DilateY are the dilation radii in cells.
	DilateX int `json:"dilate_x" yaml:"dilate_x"`
	DilateY int `json:"dilate_y" yaml:"dilate_y"`

	// MinWidthFraction and MinHeightFraction reject blobs smaller than this
	// share of the grid as noise.
	MinWidthFraction  float64 `json:"min_width_fraction" yaml:"min_width_fraction"`
	MinHeightFraction float64 `json:"min_height_fraction" yaml:"min_height_fraction"`

	// A blob wider than MaxWidthFraction AND taller than MaxHeightFraction of
	// the grid is the page border, not a signature.
	MaxWidthFraction  float64 `json:"max_width_fraction" yaml:"max_width_fraction"`
	MaxHeightFraction float64 `json:"max_height_fraction" yaml:"max_height_fraction"`

	// MaxAspect rejects blobs taller than MaxAspect times their width.
	MaxAspect float64 `json:"max_aspect" yaml:"max_aspect"`

	// Padding is added around surviving blobs, in cells.
	Padding int `json:"padding" yaml:"padding"`
}

// DefaultOptions returns the empirically chosen defaults.
func DefaultOptions() Options {
	return Options{
		AnalysisWidth:     800,
		CellSize:          10,
		InkCutoff:         180,
		DilateX:           2,
		DilateY:           1,
		MinWidthFraction:  0.05,
		MinHeightFraction: 0.02,
		MaxWidthFraction:  0.9,
		MaxHeightFraction: 0.9,
		MaxAspect:         4,
		Padding:           1,
	}
}

// Validate reports the first out-of-range option.
func (o Options) Validate() error {
	switch {
	case o.AnalysisWidth <= 0:
		return fmt.Errorf("analysis_width must be positive, got %d", o.AnalysisWidth)
	case o.CellSize <= 0:
		return fmt.Errorf("cell_size must be positive, got %d", o.CellSize)
	case o.InkCutoff < 0 || o.InkCutoff > 255:
		return fmt.Errorf("ink_cutoff %d outside [0,255]", o.InkCutoff)
	case o.DilateX < 0 || o.DilateY < 0:
		return fmt.Errorf("dilation radii must not be negative, got %d,%d", o.DilateX, o.DilateY)
	case o.Padding < 0:
		return fmt.Errorf("padding must not be negative, got %d", o.Padding)
	case o.MaxAspect <= 0:
		return fmt.Errorf("max_aspect must be positive, got %g", o.MaxAspect)
	}
	return nil
}
