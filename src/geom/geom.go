// Package geom holds the small rectangle and point types shared by the
// viewport mapper, the interaction state machine and the platform layers.
package geom

import (
	"image"
	"math"
)

// Point is an integer position in global screen coordinates.
type Point struct {
	X int
	Y int
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// PointF is a fractional position, used for window-local pointer positions.
type PointF struct {
	X float64
	Y float64
}

// Rect is an integer rectangle (window geometry, screen bounds).
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Center returns the centre point, rounded towards the origin.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside r (right/bottom exclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Float converts r to a RectF.
func (r Rect) Float() RectF {
	return RectF{X: float64(r.X), Y: float64(r.Y), W: float64(r.Width), H: float64(r.Height)}
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

// FromImage converts an image.Rectangle to a Rect.
func FromImage(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// RectF is a fractional rectangle. Source and destination rectangles of a
// render plan are fractional because the zoom factor need not divide the
// window size.
type RectF struct {
	X float64
	Y float64
	W float64
	H float64
}

// Right returns the exclusive right edge.
func (r RectF) Right() float64 { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r RectF) Bottom() float64 { return r.Y + r.H }

// Empty reports whether r has no area.
func (r RectF) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Area returns W*H, or 0 for an empty rectangle.
func (r RectF) Area() float64 {
	if r.Empty() {
		return 0
	}
	return r.W * r.H
}

// Intersect returns the overlap of r and s. The result is the zero RectF
// when they do not overlap.
func (r RectF) Intersect(s RectF) RectF {
	x1 := math.Max(r.X, s.X)
	y1 := math.Max(r.Y, s.Y)
	x2 := math.Min(r.Right(), s.Right())
	y2 := math.Min(r.Bottom(), s.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return RectF{}
	}
	return RectF{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Subtract returns r minus s as at most four disjoint rectangles: full-width
// bands above and below s, then the left and right remainders beside it.
func (r RectF) Subtract(s RectF) []RectF {
	inter := r.Intersect(s)
	if inter.Empty() {
		if r.Empty() {
			return nil
		}
		return []RectF{r}
	}

	var out []RectF
	if inter.Y > r.Y {
		out = append(out, RectF{X: r.X, Y: r.Y, W: r.W, H: inter.Y - r.Y})
	}
	if inter.Bottom() < r.Bottom() {
		out = append(out, RectF{X: r.X, Y: inter.Bottom(), W: r.W, H: r.Bottom() - inter.Bottom()})
	}
	if inter.X > r.X {
		out = append(out, RectF{X: r.X, Y: inter.Y, W: inter.X - r.X, H: inter.H})
	}
	if inter.Right() < r.Right() {
		out = append(out, RectF{X: inter.Right(), Y: inter.Y, W: r.Right() - inter.Right(), H: inter.H})
	}
	return out
}

// Round converts r to an image.Rectangle by rounding each edge to the
// nearest pixel, so adjacent rectangles stay adjacent.
func (r RectF) Round() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.Right())), int(math.Round(r.Bottom())),
	)
}

// Outer converts r to the smallest image.Rectangle that covers it.
func (r RectF) Outer() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.Right())), int(math.Ceil(r.Bottom())),
	)
}
