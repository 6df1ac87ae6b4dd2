// Package detection finds signature-like ink regions on whole page rasters.
//
// The engine works on a coarse grid rather than on pixels:
//
//  1. Density grid: pages wider than the analysis width (800 px by default)
//     are downsampled to it; narrower pages are used as they are. The result
//     is split into square cells (10 px). A cell is active when it contains
//     any ink pixel under a fixed luminance cutoff (180).
//  2. Dilation: every active cell activates its neighbours, 2 cells left and
//     right and 1 cell up and down, bridging word gaps inside a signature.
//  3. Labeling: active cells are grouped into 4-connected blobs with an
//     explicit work-list, tracking each blob's bounding box and cell count.
//  4. Filtering: blobs that are too small, span the whole page, or are much
//     taller than wide are dropped.
//  5. Mapping: survivors are padded by one cell and scaled back to natural
//     pixel coordinates.
//
// # Coordinate Spaces
//
// Grid coordinates are non-negative cell indices bounded by the grid size.
// All rectangles leaving this package are geometry.NaturalRect values in the
// pixel space of the page that was analyzed.
//
// # Tuning
//
// Every constant above is a field of Options. DefaultOptions preserves the
// empirically chosen values.
//
// # Errors
//
// Detection never fails for lack of results. A page that cannot be
// rasterized, or on which no blob survives, produces an empty list.
package detection
