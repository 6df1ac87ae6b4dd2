package imaging

import (
	"errors"
	"fmt"
)

// ErrInvalidSettings is returned when processing settings violate their
// documented ranges.
var ErrInvalidSettings = errors.New("invalid processing settings")

// Settings controls one run of the crop pipeline.
//
// A Settings value is never mutated by the pipeline; re-running Crop with a
// different value starts again from the untouched source raster.
type Settings struct {
	// Enhance binarizes the crop into opaque black ink on a transparent background.
	Enhance bool `json:"enhance" yaml:"enhance"`

	// Threshold is the luminance cutoff (0-255). Pixels at or below it are ink.
	Threshold int `json:"threshold" yaml:"threshold"`

	// Invert classifies light-on-dark ink by comparing 255-L instead of L.
	Invert bool `json:"invert" yaml:"invert"`

	// RemoveBorders erases rows and columns dense enough to be ruled lines.
	RemoveBorders bool `json:"remove_borders" yaml:"remove_borders"`
}

// DefaultSettings returns the settings applied when a caller supplies none.
func DefaultSettings() Settings {
	return Settings{
		Enhance:       true,
		Threshold:     160,
		Invert:        false,
		RemoveBorders: true,
	}
}

// Validate reports whether the settings are within range.
func (s Settings) Validate() error {
	if s.Threshold < 0 || s.Threshold > 255 {
		return fmt.Errorf("%w: threshold %d outside [0,255]", ErrInvalidSettings, s.Threshold)
	}
	return nil
}

// Luminance returns the Rec. 709 perceptual luminance of an 8-bit RGB triple:
//
//	L = 0.2126*R + 0.7152*G + 0.0722*B
func Luminance(r, g, b uint8) float64 {
	return 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
}

// IsInk classifies a pixel as ink or background.
//
// When invert is set the comparison uses 255-L. The pixel is ink iff the
// (possibly inverted) luminance is <= threshold. Alpha is not consulted
// here: callers decide what a transparent pixel is. In the crop pipeline a
// fully transparent pixel is always paper (see isInkAt), and the density grid
// composites over white first, so a transparent background never reads as
// ink in either. Border suppression, binarization and the density grid all
// call this so they agree on what ink means for a given threshold.
func IsInk(r, g, b uint8, threshold int, invert bool) bool {
	l := Luminance(r, g, b)
	if invert {
		l = 255 - l
	}
	return l <= float64(threshold)
}

// isInkAt classifies the pixel at byte offset i of an NRGBA buffer. Fully
// transparent pixels are paper whatever their colour channels hold.
func isInkAt(pix []uint8, i int, s Settings) bool {
	if pix[i+3] == 0 {
		return false
	}
	return IsInk(pix[i], pix[i+1], pix[i+2], s.Threshold, s.Invert)
}
