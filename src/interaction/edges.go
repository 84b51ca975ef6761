package interaction

import (
	"strings"

	"screen-magnifier/src/geom"
)

// Edges is a set of window borders.
type Edges uint8

const (
	EdgeLeft Edges = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// Has reports whether every edge in e2 is in e.
func (e Edges) Has(e2 Edges) bool { return e&e2 == e2 && e2 != 0 }

func (e Edges) String() string {
	if e == 0 {
		return "none"
	}
	var parts []string
	for _, n := range []struct {
		edge Edges
		name string
	}{{EdgeLeft, "left"}, {EdgeRight, "right"}, {EdgeTop, "top"}, {EdgeBottom, "bottom"}} {
		if e&n.edge != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

// HitTest classifies a window-local position against the frame border of a
// window of the given size. Several edges match at once in the corners.
func HitTest(local geom.PointF, width, height int, frameWidth float64) Edges {
	var e Edges
	w := float64(width)
	h := float64(height)
	if local.X >= 0 && local.X < frameWidth {
		e |= EdgeLeft
	}
	if local.X <= w && local.X > w-frameWidth {
		e |= EdgeRight
	}
	if local.Y >= 0 && local.Y < frameWidth {
		e |= EdgeTop
	}
	if local.Y <= h && local.Y > h-frameWidth {
		e |= EdgeBottom
	}
	return e
}
