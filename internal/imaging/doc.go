// Package imaging implements the signature crop pipeline and page raster
// loading for the MCP server.
//
// # Pipeline
//
// Crop turns one rectangle of a page into a clean, transparent-background
// PNG. It runs these stages over an NRGBA raster the pipeline owns:
//
//  1. Crop: pixel-exact 1:1 copy of the clamped rectangle
//  2. SuppressBorders: erase rows/columns more than 65% ink (ruled lines)
//  3. Binarize: ink to opaque black, everything else fully transparent
//  4. ApplyMask: erase pixels under the caller's edit mask
//
// All stages share IsInk, so they agree on what ink is for a given Settings
// value. Transparency is terminal: once a stage clears a pixel no later stage
// makes it opaque again.
//
// # Coordinate System
//
// Rectangles are geometry.NaturalRect values in the source image's pixel
// space, with (0,0) at the top-left corner. They are clamped to the image
// before use and never cause out-of-bounds reads.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Crop only reads its source
// and allocates its own output, so several crops of one page can run in
// parallel; CropAll does exactly that.
//
// # Error Handling
//
// A rectangle with no area inside the image is not an error: Crop returns an
// empty Extraction. A mask that cannot be decoded is skipped. Errors are
// reserved for a nil source, out-of-range settings, and I/O or encoding
// failures.
package imaging
