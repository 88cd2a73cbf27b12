// Package model provides the data types shared by the matching engine.
//
// This package defines the representation that every pipeline stage produces
// or consumes, making it the primary vocabulary of the engine.
//
// # Geometry
//
// [Rect] is an integer-pixel rectangle in the coordinate space of the source
// image of one page. All ratio functions (overlap, IoU) tolerate degenerate
// rectangles by returning 0 instead of dividing by zero, because clustering
// and suppression must survive noisy OCR boxes.
//
// # Pipeline types
//
// Raw OCR output arrives as [RawGlyph] values. The clusterer groups glyphs
// into [Block] values, which the host promotes to [Region] values — the unit
// that is matched across the two sides of a comparison. A resolved
// correspondence between a left and a right Region is a [SyncPair].
//
// # Capabilities
//
// Matching and clustering code depends on the small [RectText] capability
// rather than on a concrete struct, so scorers can be exercised with any
// value that has a bounding rectangle and text.
package model
