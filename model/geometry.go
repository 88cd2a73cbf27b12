package model

// Point represents a 2D point in image-pixel coordinates.
type Point struct {
	X, Y int
}

// Rect represents a rectangle in image-pixel coordinates.
// X2 >= X1 and Y2 >= Y1 for a well-formed rectangle; (X1,Y1) is the
// top-left corner and (X2,Y2) the bottom-right corner.
type Rect struct {
	X1, Y1, X2, Y2 int
}

// NewRect creates a rectangle from two corner coordinates, normalizing
// the corner order so that X1 <= X2 and Y1 <= Y2.
func NewRect(x1, y1, x2, y2 int) Rect {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return Rect{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width returns the rectangle width in pixels.
func (r Rect) Width() int {
	return r.X2 - r.X1
}

// Height returns the rectangle height in pixels.
func (r Rect) Height() int {
	return r.Y2 - r.Y1
}

// Area returns the rectangle area in square pixels.
func (r Rect) Area() int {
	if r.Width() <= 0 || r.Height() <= 0 {
		return 0
	}
	return r.Width() * r.Height()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{
		X: (r.X1 + r.X2) / 2,
		Y: (r.Y1 + r.Y2) / 2,
	}
}

// AspectRatio returns width/height, or 0 for a degenerate rectangle.
func (r Rect) AspectRatio() float64 {
	if r.Height() <= 0 {
		return 0
	}
	return float64(r.Width()) / float64(r.Height())
}

// IsWellFormed reports whether the corners are ordered (X2 >= X1, Y2 >= Y1).
func (r Rect) IsWellFormed() bool {
	return r.X2 >= r.X1 && r.Y2 >= r.Y1
}

// IsEmpty reports whether the rectangle has zero area.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains reports whether a point lies inside the rectangle (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X1 && p.X <= r.X2 && p.Y >= r.Y1 && p.Y <= r.Y2
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return !(r.X2 < other.X1 || r.X1 > other.X2 ||
		r.Y2 < other.Y1 || r.Y1 > other.Y2)
}

// Intersection returns the intersection of two rectangles, or the zero
// Rect if they do not overlap.
func (r Rect) Intersection(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}
	return Rect{
		X1: max(r.X1, other.X1),
		Y1: max(r.Y1, other.Y1),
		X2: min(r.X2, other.X2),
		Y2: min(r.Y2, other.Y2),
	}
}

// IntersectionArea returns the area of the intersection of two rectangles.
func (r Rect) IntersectionArea(other Rect) int {
	return r.Intersection(other).Area()
}

// Union returns the smallest rectangle containing both rectangles.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		X1: min(r.X1, other.X1),
		Y1: min(r.Y1, other.Y1),
		X2: max(r.X2, other.X2),
		Y2: max(r.Y2, other.Y2),
	}
}

// OverlapRatio returns intersection area divided by the smaller of the two
// rectangle areas. Returns 0 when either rectangle is degenerate.
func (r Rect) OverlapRatio(other Rect) float64 {
	minArea := min(r.Area(), other.Area())
	if minArea == 0 {
		return 0
	}
	return float64(r.IntersectionArea(other)) / float64(minArea)
}

// IoU returns intersection area divided by union area of the two
// rectangles. Returns 0 when both rectangles are degenerate.
func (r Rect) IoU(other Rect) float64 {
	inter := r.IntersectionArea(other)
	union := r.Area() + other.Area() - inter
	if union <= 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// HorizontalGap returns the distance in pixels between the facing vertical
// edges of two rectangles, or 0 if they overlap horizontally.
func (r Rect) HorizontalGap(other Rect) int {
	if r.X2 < other.X1 {
		return other.X1 - r.X2
	}
	if other.X2 < r.X1 {
		return r.X1 - other.X2
	}
	return 0
}

// VerticalGap returns the distance in pixels between the facing horizontal
// edges of two rectangles, or 0 if they overlap vertically.
func (r Rect) VerticalGap(other Rect) int {
	if r.Y2 < other.Y1 {
		return other.Y1 - r.Y2
	}
	if other.Y2 < r.Y1 {
		return r.Y1 - other.Y2
	}
	return 0
}

// EdgeDistance returns the Manhattan distance between the facing edges of
// two rectangles: the sum of the horizontal and vertical gaps. Overlapping
// rectangles have distance 0.
func (r Rect) EdgeDistance(other Rect) int {
	return r.HorizontalGap(other) + r.VerticalGap(other)
}

// Expand grows the rectangle by margin pixels on all sides.
func (r Rect) Expand(margin int) Rect {
	return Rect{
		X1: r.X1 - margin,
		Y1: r.Y1 - margin,
		X2: r.X2 + margin,
		Y2: r.Y2 + margin,
	}
}

// Translate shifts the rectangle by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{
		X1: r.X1 + dx,
		Y1: r.Y1 + dy,
		X2: r.X2 + dx,
		Y2: r.Y2 + dy,
	}
}
