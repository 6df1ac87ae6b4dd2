package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/signature-tools-mcp/internal/geometry"
)

// Extraction is the result of one crop pipeline run.
//
// An Extraction is never edited in place. Changing its settings or mask
// produces a new value via Reprocess or WithMask, which rerun the pipeline
// against the untouched source raster.
type Extraction struct {
	// PNG is the encoded crop. It is nil when the clamped region was empty.
	PNG []byte `json:"-"`

	// ImageBase64 is PNG encoded as base64, empty for an empty extraction.
	ImageBase64 string `json:"image_base64,omitempty"`

	// MimeType is "image/png" for non-empty extractions.
	MimeType string `json:"mime_type,omitempty"`

	// Width and Height are the crop dimensions in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Source is the region that was cropped, in natural pixel space, after
	// clamping to the source bounds.
	Source geometry.NaturalRect `json:"source"`

	// Settings are the processing settings this extraction was produced with.
	Settings Settings `json:"settings"`

	// Mask is the encoded edit mask, carried forward across reprocessing.
	Mask []byte `json:"-"`

	// MaskApplied is false when there was no mask or it could not be decoded.
	MaskApplied bool `json:"mask_applied"`

	// RowsRemoved and ColumnsRemoved count the ruled lines erased by border
	// suppression.
	RowsRemoved    int `json:"rows_removed"`
	ColumnsRemoved int `json:"columns_removed"`
}

// Empty reports whether the extraction carries no image, which happens when
// the requested rectangle had no area inside the source.
func (e *Extraction) Empty() bool {
	return e == nil || len(e.PNG) == 0
}

// Reprocess reruns the pipeline over the same region with new settings. The
// edit mask is carried over so manual erasures survive the change.
func (e *Extraction) Reprocess(src image.Image, s Settings) (*Extraction, error) {
	return Crop(src, e.Source, s, e.Mask)
}

// WithMask reruns the pipeline over the same region and settings with a
// replacement edit mask. A nil mask removes the previous one.
func (e *Extraction) WithMask(src image.Image, mask []byte) (*Extraction, error) {
	return Crop(src, e.Source, e.Settings, mask)
}

// Crop runs the extraction pipeline over one rectangle of src.
//
// Steps, in fixed order:
//  1. Clamp rect to the source bounds. A non-positive clamped width or
//     height yields an empty Extraction and no error.
//  2. Copy the region 1:1 into a new NRGBA raster. src is only read.
//  3. SuppressBorders, if s.RemoveBorders.
//  4. Binarize, if s.Enhance.
//  5. ApplyMask, if mask is non-nil. A mask that fails to decode is skipped
//     and MaskApplied stays false.
//  6. Encode as PNG.
//
// Identical arguments always produce byte-identical PNG output.
//
// # Errors
//
//   - src is nil
//   - s fails Validate
//   - PNG encoding fails
func Crop(src image.Image, rect geometry.NaturalRect, s Settings, mask []byte) (*Extraction, error) {
	out, ext, err := Process(src, rect, s, mask)
	if err != nil || out == nil {
		return ext, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}
	ext.PNG = buf.Bytes()
	ext.ImageBase64 = base64.StdEncoding.EncodeToString(ext.PNG)
	ext.MimeType = "image/png"
	return ext, nil
}

// Process runs steps 1-5 of Crop and returns the raster before encoding.
// The raster is nil when the clamped region is empty.
func Process(src image.Image, rect geometry.NaturalRect, s Settings, mask []byte) (*image.NRGBA, *Extraction, error) {
	if src == nil {
		return nil, nil, fmt.Errorf("nil source image")
	}
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	ext := &Extraction{Source: rect, Settings: s, Mask: mask}

	bounds := src.Bounds()
	r, ok := rect.Clamp(bounds.Dx(), bounds.Dy())
	if !ok {
		return nil, ext, nil
	}
	ext.Source = geometry.FromImageRect(r)

	out := imaging.Crop(src, r.Add(bounds.Min))
	ext.Width = out.Bounds().Dx()
	ext.Height = out.Bounds().Dy()

	if s.RemoveBorders {
		ext.RowsRemoved, ext.ColumnsRemoved = SuppressBorders(out, s)
	}
	if s.Enhance {
		Binarize(out, s)
	}
	if mask != nil {
		if m, err := DecodeMask(mask); err == nil {
			ApplyMask(out, m)
			ext.MaskApplied = true
		}
	}
	return out, ext, nil
}

// CropAll extracts every rectangle from src concurrently, one worker per
// rectangle and at most workers at a time (unlimited when workers <= 0).
//
// Results are returned in the order of rects. Each worker owns its output
// raster and only reads src. The first error cancels workers that have not
// started yet and is returned.
func CropAll(ctx context.Context, src image.Image, rects []geometry.NaturalRect, s Settings, workers int) ([]*Extraction, error) {
	results := make([]*Extraction, len(rects))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, rect := range rects {
		i, rect := i, rect
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ext, err := Crop(src, rect, s, nil)
			if err != nil {
				return fmt.Errorf("rect %d %v: %w", i, rect, err)
			}
			results[i] = ext
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
