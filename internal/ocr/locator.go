package ocr

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/signature-tools-mcp/internal/geometry"
)

// Word is one word box reported by Tesseract.
type Word struct {
	Text       string          `json:"text"`
	Confidence float64         `json:"confidence"` // 0.0 to 1.0
	Bounds     image.Rectangle `json:"bounds"`
}

// LocatorOptions controls LocateHandwriting.
type LocatorOptions struct {
	// Language is the Tesseract language code (default "eng").
	Language string

	// MaxConfidence is the word confidence (0.0-1.0) at or above which a
	// word is considered printed text and ignored (default 0.6).
	MaxConfidence float64

	// MinHeight drops word boxes shorter than this many pixels (default 8).
	MinHeight int

	// MergeGap joins candidate boxes whose horizontal distance is at most
	// this many pixels and that overlap vertically (default 40).
	MergeGap int
}

func (o LocatorOptions) withDefaults() LocatorOptions {
	if o.Language == "" {
		o.Language = "eng"
	}
	if o.MaxConfidence <= 0 {
		o.MaxConfidence = 0.6
	}
	if o.MinHeight <= 0 {
		o.MinHeight = 8
	}
	if o.MergeGap <= 0 {
		o.MergeGap = 40
	}
	return o
}

// LocateHandwriting runs Tesseract over a page and returns the regions that
// look handwritten, as fractions of the page size.
//
// # Algorithm
//
//  1. Recognise word boxes (RIL_WORD) with their confidence
//  2. Keep words below MaxConfidence and at least MinHeight tall
//  3. Merge kept boxes on the same line that are within MergeGap
//  4. Normalize by the page width and height
//
// An empty slice means nothing handwritten was found.
func LocateHandwriting(img image.Image, opts LocatorOptions) ([]geometry.NormalizedRect, error) {
	opts = opts.withDefaults()

	words, err := RecognizeWords(img, opts.Language)
	if err != nil {
		return nil, err
	}

	boxes := mergeBoxes(candidateBoxes(words, opts.MaxConfidence, opts.MinHeight), opts.MergeGap)
	b := img.Bounds()
	regions := make([]geometry.NormalizedRect, 0, len(boxes))
	for _, box := range boxes {
		regions = append(regions, normalize(box.Sub(b.Min), b.Dx(), b.Dy()))
	}
	return regions, nil
}

// RecognizeWords returns every word box Tesseract finds on the page.
func RecognizeWords(img image.Image, language string) ([]Word, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode page for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	b := img.Bounds()
	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		words = append(words, Word{
			Text:       box.Word,
			Confidence: box.Confidence / 100.0,
			Bounds:     box.Box.Add(b.Min),
		})
	}
	return words, nil
}

// candidateBoxes keeps the word boxes that look handwritten.
func candidateBoxes(words []Word, maxConfidence float64, minHeight int) []image.Rectangle {
	boxes := make([]image.Rectangle, 0)
	for _, w := range words {
		if w.Confidence >= maxConfidence || w.Bounds.Dy() < minHeight || w.Bounds.Empty() {
			continue
		}
		boxes = append(boxes, w.Bounds)
	}
	return boxes
}

// mergeBoxes repeatedly unions boxes that overlap vertically and are at most
// gap pixels apart horizontally, until no more merges happen.
func mergeBoxes(boxes []image.Rectangle, gap int) []image.Rectangle {
	merged := append([]image.Rectangle(nil), boxes...)
	for {
		changed := false
		out := make([]image.Rectangle, 0, len(merged))
		for _, r := range merged {
			foundMerge := false
			for i := range out {
				if near(r, out[i], gap) {
					out[i] = out[i].Union(r)
					foundMerge = true
					changed = true
					break
				}
			}
			if !foundMerge {
				out = append(out, r)
			}
		}
		merged = out
		if !changed {
			return merged
		}
	}
}

// near reports whether a and b share some rows and are within gap pixels of
// each other horizontally.
func near(a, b image.Rectangle, gap int) bool {
	if a.Min.Y >= b.Max.Y || b.Min.Y >= a.Max.Y {
		return false
	}
	return a.Min.X <= b.Max.X+gap && b.Min.X <= a.Max.X+gap
}

// normalize expresses r as fractions of a width x height page.
func normalize(r image.Rectangle, width, height int) geometry.NormalizedRect {
	if width <= 0 || height <= 0 {
		return geometry.NormalizedRect{}
	}
	w := float64(width)
	h := float64(height)
	return geometry.NormalizedRect{
		X:      float64(r.Min.X) / w,
		Y:      float64(r.Min.Y) / h,
		Width:  float64(r.Dx()) / w,
		Height: float64(r.Dy()) / h,
	}
}
