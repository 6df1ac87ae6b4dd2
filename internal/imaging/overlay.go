package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/signature-tools-mcp/internal/geometry"
)

// DefaultOverlayColor is used when no (or an unparsable) colour is given.
const DefaultOverlayColor = "#E53935"

// OverlayOptions controls DrawRegions.
type OverlayOptions struct {
	// ColorHex is the outline colour, "#RRGGBB".
	ColorHex string

	// LineWidth is the outline thickness in pixels (default 2).
	LineWidth int

	// GridSpacing, when positive, draws faint grid lines every GridSpacing
	// natural pixels. Passing the detection cell size times its scale shows
	// the density grid the regions were found on.
	GridSpacing float64
}

// OverlayResult contains the page with regions drawn on it.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Regions     int    `json:"regions"`
}

// DrawRegions renders numbered outlines of natural-space regions over a copy
// of img for visual review of detection output. img is not modified.
func DrawRegions(img image.Image, regions []geometry.NaturalRect, opts OverlayOptions) (*OverlayResult, error) {
	stroke, err := colorful.Hex(opts.ColorHex)
	if err != nil {
		stroke, _ = colorful.Hex(DefaultOverlayColor)
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = 2
	}

	result := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(result, result.Bounds(), imaging.Clone(img), image.Point{}, draw.Src)
	bounds := result.Bounds()

	if opts.GridSpacing > 0 {
		gridColor := toRGBA(stroke.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, 0.7), 160)
		for gx := opts.GridSpacing; gx < float64(bounds.Dx()); gx += opts.GridSpacing {
			fillRect(result, image.Rect(int(gx), 0, int(gx)+1, bounds.Dy()), gridColor)
		}
		for gy := opts.GridSpacing; gy < float64(bounds.Dy()); gy += opts.GridSpacing {
			fillRect(result, image.Rect(0, int(gy), bounds.Dx(), int(gy)+1), gridColor)
		}
	}

	lineColor := toRGBA(stroke, 255)
	labelBg := toRGBA(stroke.BlendRgb(colorful.Color{}, 0.4), 220)
	for i, r := range regions {
		rect, ok := r.Clamp(bounds.Dx(), bounds.Dy())
		if !ok {
			continue
		}
		lw := opts.LineWidth
		fillRect(result, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+lw), lineColor)
		fillRect(result, image.Rect(rect.Min.X, rect.Max.Y-lw, rect.Max.X, rect.Max.Y), lineColor)
		fillRect(result, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+lw, rect.Max.Y), lineColor)
		fillRect(result, image.Rect(rect.Max.X-lw, rect.Min.Y, rect.Max.X, rect.Max.Y), lineColor)
		drawLabel(result, rect.Min.X+lw+1, rect.Min.Y+lw+1, strconv.Itoa(i+1), color.RGBA{255, 255, 255, 255}, labelBg)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, result, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode overlay: %w", err)
	}

	return &OverlayResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Regions:     len(regions),
	}, nil
}

// toRGBA converts a colorful colour to an 8-bit colour with the given alpha.
func toRGBA(c colorful.Color, alpha uint8) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	a := float64(alpha) / 255
	// color.RGBA is alpha-premultiplied.
	return color.RGBA{
		R: uint8(math.Round(float64(r) * a)),
		G: uint8(math.Round(float64(g) * a)),
		B: uint8(math.Round(float64(b) * a)),
		A: alpha,
	}
}

// fillRect composites c over r, clipped to the image.
func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

// drawLabel draws text with a filled background box at (x, y), the top-left
// corner of the label.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()

	fillRect(img, image.Rect(x-1, y-1, x+width+1, y+height+1), bg)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y + face.Metrics().Ascent.Ceil())},
	}
	d.DrawString(text)
}
