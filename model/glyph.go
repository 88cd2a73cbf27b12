package model

// RawGlyph is a single word or symbol detected by the OCR collaborator.
// Glyphs are immutable: pipeline stages read them but never modify them.
type RawGlyph struct {
	// Text is the recognized text of the glyph.
	Text string

	// Rect is the glyph's bounding box in source-image pixels.
	Rect Rect

	// Confidence is the OCR engine's confidence in [0,1], or 0 if the
	// provider did not report one.
	Confidence float64
}

// Bounds returns the glyph's bounding box.
func (g RawGlyph) Bounds() Rect { return g.Rect }

// Content returns the glyph's text.
func (g RawGlyph) Content() string { return g.Text }

// RectText is the capability that clustering and matching code depends on:
// anything with a bounding rectangle and text content. Region, Block and
// RawGlyph all satisfy it.
type RectText interface {
	Bounds() Rect
	Content() string
}
