// Package cluster groups raw OCR glyphs into paragraph-shaped blocks.
//
// The clusterer runs a vertical-stack merge to a fixed point: glyph boxes
// that are horizontally aligned, vertically close, and of comparable font
// size are merged into one block. A reclamation pass then absorbs "orphan"
// blocks (too small or too short to stand alone) into the nearest larger
// block. Very tall pages whose OCR was produced in horizontal chunks are
// handled by re-applying each chunk's y-offset before clustering, so a
// chunked run and a whole-page run produce the same blocks.
package cluster
