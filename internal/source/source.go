// Package source rasterizes input documents into page images.
//
// PDF pages are rendered with MuPDF through go-fitz; image files are decoded
// directly. Either way the result is an image.Image in natural pixel space,
// ready for detection and cropping.
package source

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder (common for scans)
)

// DefaultDPI is the PDF rendering resolution used when none is configured.
const DefaultDPI = 150

// Source is a multi-page document that can be rasterized page by page.
type Source interface {
	PageCount() int
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

// Open returns a PDF source for ".pdf" paths and a single-page image source
// for anything else.
func Open(path string) (Source, error) {
	if IsPDF(path) {
		return NewFitzPDFSource(path)
	}
	return NewImageSource(path)
}

// IsPDF reports whether path names a PDF document.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// FitzPDFSource renders PDF pages with MuPDF.
type FitzPDFSource struct {
	doc  *fitz.Document
	path string
}

// NewFitzPDFSource opens a PDF document.
func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	return &FitzPDFSource{doc: doc, path: path}, nil
}

// PageCount returns the number of pages in the document.
func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

// RenderPage rasterizes one page at the given resolution.
//
// MuPDF documents are not safe for concurrent use, so each render opens its
// own handle on the file.
func (f *FitzPDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	if err := checkPage(index, f.PageCount()); err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer workerDoc.Close()

	img, err := workerDoc.ImageDPI(index, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", index, err)
	}
	return img, nil
}

// Close releases the document.
func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}

// ImageSource is a single image file treated as a one-page document.
type ImageSource struct {
	path string
	img  image.Image
}

// NewImageSource decodes an image file.
func NewImageSource(path string) (*ImageSource, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return &ImageSource{path: path, img: img}, nil
}

// PageCount always returns 1.
func (s *ImageSource) PageCount() int {
	return 1
}

// RenderPage returns the decoded image. dpi is ignored; images are already
// rasters at their natural resolution.
func (s *ImageSource) RenderPage(index int, dpi int) (image.Image, error) {
	if err := checkPage(index, 1); err != nil {
		return nil, err
	}
	return s.img, nil
}

// Close is a no-op.
func (s *ImageSource) Close() error {
	return nil
}

func checkPage(index, count int) error {
	if index < 0 || index >= count {
		return fmt.Errorf("page %d out of range (document has %d pages)", index, count)
	}
	return nil
}
