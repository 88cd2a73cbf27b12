package cluster

import (
	"fmt"

	"github.com/isuzumi2025-cell/MEKIKI-sub002/model"
)

// Chunking limits for OCR capture. Pages taller than TallAspectRatio times
// their width, or taller than MaxWorkingHeight pixels after width
// normalization, should be OCR'd in independent horizontal chunks.
const (
	TallAspectRatio  = 5.0
	MaxWorkingHeight = 8192
)

// NeedsChunking reports whether a page of the given pixel dimensions should
// be captured and OCR'd in horizontal chunks.
func NeedsChunking(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	return float64(height)/float64(width) > TallAspectRatio || height > MaxWorkingHeight
}

// Chunk carries the OCR output of one horizontal slice of a tall page.
// Glyph coordinates are local to the slice; OffsetY is the slice's top edge
// in whole-page coordinates.
type Chunk struct {
	Glyphs  []model.RawGlyph
	OffsetY int
}

// ClusterChunked merges the glyphs of several horizontal page chunks back
// into whole-page coordinates and clusters them in a single pass, so the
// merge and orphan logic sees exactly what a whole-page run would see.
//
// Glyphs near a chunk seam may have been reported by both adjacent chunks;
// they are kept as-is rather than de-duplicated, trading an occasional
// duplicate for never losing seam text.
func (c *Clusterer) ClusterChunked(chunks []Chunk) ([]model.Block, error) {
	total := 0
	for _, ch := range chunks {
		total += len(ch.Glyphs)
	}
	merged := make([]model.RawGlyph, 0, total)
	for i, ch := range chunks {
		if ch.OffsetY < 0 {
			return nil, &model.InputError{
				Op:     "cluster",
				Reason: fmt.Sprintf("chunk %d has negative y-offset %d", i, ch.OffsetY),
			}
		}
		for _, g := range ch.Glyphs {
			g.Rect = g.Rect.Translate(0, ch.OffsetY)
			merged = append(merged, g)
		}
	}
	return c.Cluster(merged)
}
