// Package ocr locates handwriting on a page with the Tesseract OCR engine
// (via gosseract/v2).
//
// It acts as an external region detector alongside the density-grid engine in
// package detection. Tesseract reads printed text with high word confidence
// and handwriting with low confidence, so the locator keeps the
// low-confidence word boxes, merges neighbours into regions, and reports them
// as geometry.NormalizedRect values. Callers convert them to natural pixel
// space with NormalizedRect.ToNatural before cropping.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Performance Considerations
//
// OCR is computationally expensive. Each call creates and closes its own
// Tesseract client, so calls may run concurrently at the cost of memory.
package ocr
