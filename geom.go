package figdraw

import "math"

// Point represents a 2D point.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the point translated by p2.
func (p Point) Add(p2 Point) Point {
	return Point{X: p.X + p2.X, Y: p.Y + p2.Y}
}

// Sub returns the point translated by the negation of p2.
func (p Point) Sub(p2 Point) Point {
	return Point{X: p.X - p2.X, Y: p.Y - p2.Y}
}

// Scale returns the point with both components multiplied by factor.
func (p Point) Scale(factor float64) Point {
	return Point{X: p.X * factor, Y: p.Y * factor}
}

// Size represents a width/height pair.
type Size struct {
	Width, Height float64
}

// Rect represents an axis-aligned rectangle by its top-left corner and size.
type Rect struct {
	X, Y, W, H float64
}

// NewRect creates a rectangle from position and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectFromCorners creates the smallest rectangle covering both corner points.
func RectFromCorners(a, b Point) Rect {
	x := math.Min(a.X, b.X)
	y := math.Min(a.Y, b.Y)
	return Rect{X: x, Y: y, W: math.Abs(b.X - a.X), H: math.Abs(b.Y - a.Y)}
}

// Contains reports whether the point lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W &&
		p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Intersects reports whether the two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.W && r.X+r.W > other.X &&
		r.Y < other.Y+other.H && r.Y+r.H > other.Y
}

// Union returns the smallest rectangle covering both r and other.
// An empty rectangle is treated as the identity.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	x0 := math.Min(r.X, other.X)
	y0 := math.Min(r.Y, other.Y)
	x1 := math.Max(r.X+r.W, other.X+other.W)
	y1 := math.Max(r.Y+r.H, other.Y+other.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Translate returns the rectangle shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Inset returns the rectangle shrunk by the given insets.
func (r Rect) Inset(in Insets) Rect {
	return Rect{
		X: r.X + in.Left,
		Y: r.Y + in.Top,
		W: r.W - in.Width(),
		H: r.H - in.Height(),
	}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// SizeOf returns the rectangle's size.
func (r Rect) SizeOf() Size {
	return Size{Width: r.W, Height: r.H}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Insets represents distances from the four edges of a rectangle,
// used for figure borders and viewport padding.
type Insets struct {
	Top, Left, Bottom, Right float64
}

// UniformInsets creates insets with the same value on all four sides.
func UniformInsets(v float64) Insets {
	return Insets{Top: v, Left: v, Bottom: v, Right: v}
}

// Width returns Left + Right.
func (in Insets) Width() float64 {
	return in.Left + in.Right
}

// Height returns Top + Bottom.
func (in Insets) Height() float64 {
	return in.Top + in.Bottom
}
