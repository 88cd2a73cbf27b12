package model

import "strings"

// Block is a clustered group of raw glyphs that visually form one
// paragraph. Blocks are created by the clusterer, consumed once to build a
// Region, and not mutated afterward.
type Block struct {
	// Rect is the union of the member glyphs' boxes.
	Rect Rect

	// Glyphs are the member glyphs in cluster order.
	Glyphs []RawGlyph

	// FontSize is the average glyph height in pixels, used as a proxy for
	// the rendered font size.
	FontSize float64
}

// NewBlock builds a block from one or more glyphs.
func NewBlock(glyphs ...RawGlyph) Block {
	b := Block{Glyphs: glyphs}
	if len(glyphs) == 0 {
		return b
	}
	rect := glyphs[0].Rect
	heightSum := 0
	for _, g := range glyphs {
		rect = rect.Union(g.Rect)
		heightSum += g.Rect.Height()
	}
	b.Rect = rect
	b.FontSize = float64(heightSum) / float64(len(glyphs))
	return b
}

// Absorb merges another block into this one, returning the combined block.
func (b Block) Absorb(other Block) Block {
	merged := make([]RawGlyph, 0, len(b.Glyphs)+len(other.Glyphs))
	merged = append(merged, b.Glyphs...)
	merged = append(merged, other.Glyphs...)
	return NewBlock(merged...)
}

// Text returns the concatenated text of the member glyphs, space-joined.
func (b Block) Text() string {
	parts := make([]string, 0, len(b.Glyphs))
	for _, g := range b.Glyphs {
		if g.Text != "" {
			parts = append(parts, g.Text)
		}
	}
	return strings.Join(parts, " ")
}

// TextLen returns the total number of runes across the member glyphs,
// ignoring the joining whitespace.
func (b Block) TextLen() int {
	n := 0
	for _, g := range b.Glyphs {
		n += len([]rune(g.Text))
	}
	return n
}

// CenterX returns the horizontal center of the block.
func (b Block) CenterX() int { return b.Rect.Center().X }

// Width returns the block width in pixels.
func (b Block) Width() int { return b.Rect.Width() }

// Bounds returns the block's bounding box.
func (b Block) Bounds() Rect { return b.Rect }

// Content returns the block's concatenated text.
func (b Block) Content() string { return b.Text() }
