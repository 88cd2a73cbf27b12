// Package signature extracts lightweight per-region features used as
// matching signals: size/position features (layout) and structural text
// pattern tags (syntax).
package signature

import (
	"math"

	"github.com/isuzumi2025-cell/MEKIKI-sub002/model"
)

// Layout is a derived view of a region's size and position features. It is
// recomputed on demand from the region's current rectangle and never cached.
type Layout struct {
	Width   int
	Height  int
	Aspect  float64
	CenterX int
}

// LayoutOf extracts the layout features of a rectangle.
func LayoutOf(r model.Rect) Layout {
	return Layout{
		Width:   r.Width(),
		Height:  r.Height(),
		Aspect:  r.AspectRatio(),
		CenterX: r.Center().X,
	}
}

// LayoutSimilarity scores how alike two layouts are, in [0,1]: 0.6 times
// the averaged width and height ratios plus 0.4 times the aspect-ratio
// ratio. Returns 0 when either layout has non-positive dimensions.
func LayoutSimilarity(a, b Layout) float64 {
	if a.Width <= 0 || a.Height <= 0 || b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	widthRatio := minMaxRatio(float64(a.Width), float64(b.Width))
	heightRatio := minMaxRatio(float64(a.Height), float64(b.Height))
	aspectRatio := minMaxRatio(a.Aspect, b.Aspect)
	return 0.6*(widthRatio+heightRatio)/2 + 0.4*aspectRatio
}

// minMaxRatio returns min/max of two positive values, or 0 if either is
// non-positive.
func minMaxRatio(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	return math.Min(a, b) / math.Max(a, b)
}
