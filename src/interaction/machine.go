// Package interaction turns raw pointer events on the magnifier window into
// window moves and resizes, and picks the pointer shape to show.
//
// A Machine is not safe for concurrent use; the event loop owns it.
package interaction

import (
	"math"

	"screen-magnifier/src/geom"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonOther Button = iota
	ButtonPrimary
	ButtonSecondary
)

// EventKind distinguishes pointer events.
type EventKind int

const (
	EventMove EventKind = iota
	EventPress
	EventRelease
)

// Event is a pointer event delivered by the overlay window. Local is
// relative to the window's top-left corner, Global is in screen coordinates.
type Event struct {
	Kind   EventKind
	Button Button
	Local  geom.PointF
	Global geom.Point
}

// ScreenLocator finds the bounds of the screen containing a point.
type ScreenLocator interface {
	ScreenAt(p geom.Point) (geom.Rect, bool)
}

// Session is the transient state of a press-move-release gesture.
// Dragging and a non-empty Resizing set are never both true.
type Session struct {
	Last              geom.Point
	Dragging          bool
	Resizing          Edges
	ConstrainToScreen bool
}

// Machine is the pointer interaction state machine. It owns the window
// geometry between render ticks.
type Machine struct {
	geometry   geom.Rect
	frameWidth float64
	screens    ScreenLocator
	session    Session
	shape      Shape
}

// NewMachine creates an idle machine for a window with the given geometry.
func NewMachine(geometry geom.Rect, frameWidth float64, screens ScreenLocator) *Machine {
	m := &Machine{frameWidth: frameWidth, screens: screens, shape: ShapeOpenHand}
	m.SetGeometry(geometry)
	return m
}

// Geometry returns the current window geometry.
func (m *Machine) Geometry() geom.Rect { return m.geometry }

// SetGeometry replaces the window geometry, enforcing the minimum size.
func (m *Machine) SetGeometry(r geom.Rect) {
	minSize := m.MinSize()
	if r.Width < minSize {
		r.Width = minSize
	}
	if r.Height < minSize {
		r.Height = minSize
	}
	m.geometry = r
}

// Shape returns the pointer shape to display.
func (m *Machine) Shape() Shape { return m.shape }

// Session returns a copy of the current gesture state.
func (m *Machine) Session() Session { return m.session }

// MinSize is the smallest width or height the window may shrink to: the
// frame on both sides plus one pixel of viewport.
func (m *Machine) MinSize() int {
	minSize := int(math.Ceil(2*m.frameWidth)) + 1
	if minSize < 1 {
		minSize = 1
	}
	return minSize
}

// Handle dispatches ev and reports whether the window geometry changed.
func (m *Machine) Handle(ev Event) bool {
	before := m.geometry
	switch ev.Kind {
	case EventPress:
		m.Press(ev.Button, ev.Local, ev.Global)
	case EventRelease:
		m.Release(ev.Button)
	case EventMove:
		m.Move(ev.Local, ev.Global)
	}
	return m.geometry != before
}

// Press starts a gesture. A primary press inside the frame border resizes
// the touched edges; anywhere else it drags the window. A secondary press
// turns on the screen constraint for as long as it is held.
func (m *Machine) Press(b Button, local geom.PointF, global geom.Point) {
	switch b {
	case ButtonSecondary:
		m.session.ConstrainToScreen = true
	case ButtonPrimary:
		m.session.Last = global
		m.session.Dragging = true
		if m.shape == ShapeOpenHand {
			m.shape = ShapeClosedHand
		}
		// Resize overrides drag whenever the press lands on the border.
		if e := HitTest(local, m.geometry.Width, m.geometry.Height, m.frameWidth); e != 0 {
			m.session.Resizing = e
			m.session.Dragging = false
		}
	}
}

// Release ends a gesture.
func (m *Machine) Release(b Button) {
	switch b {
	case ButtonSecondary:
		m.session.ConstrainToScreen = false
	case ButtonPrimary:
		if m.shape == ShapeClosedHand {
			m.shape = ShapeOpenHand
		}
		m.session.Dragging = false
		m.session.Resizing = 0
	}
}

// Move applies pointer motion. The hover shape is computed from the live
// hit-test; an active drag or resize overrides it so the shape stays stable
// when the pointer outruns the border.
func (m *Machine) Move(local geom.PointF, global geom.Point) {
	delta := global.Sub(m.session.Last)
	m.session.Last = global

	// The constraining screen is the one under the window before it moves.
	var screen geom.Rect
	haveScreen := false
	if m.session.ConstrainToScreen && m.screens != nil {
		screen, haveScreen = m.screens.ScreenAt(m.geometry.Center())
	}

	shape := ShapeOpenHand
	if s, ok := hoverShape(HitTest(local, m.geometry.Width, m.geometry.Height, m.frameWidth)); ok {
		shape = s
	}

	if m.session.Dragging {
		shape = ShapeClosedHand
		m.geometry.X += delta.X
		m.geometry.Y += delta.Y
	}
	if m.session.Resizing != 0 {
		shape = resizeShape(m.session.Resizing)
		m.resize(m.session.Resizing, delta)
	}
	m.shape = shape

	if haveScreen {
		m.constrain(screen)
	}
}

// resize moves each active edge by its component of delta. Edge deltas are
// clipped at the minimum size so the opposite edge never moves.
func (m *Machine) resize(e Edges, delta geom.Point) {
	g := &m.geometry
	minSize := m.MinSize()

	if e&EdgeLeft != 0 {
		dx := delta.X
		if g.Width-dx < minSize {
			dx = g.Width - minSize
		}
		g.X += dx
		g.Width -= dx
	}
	if e&EdgeRight != 0 {
		g.Width += delta.X
		if g.Width < minSize {
			g.Width = minSize
		}
	}
	if e&EdgeTop != 0 {
		dy := delta.Y
		if g.Height-dy < minSize {
			dy = g.Height - minSize
		}
		g.Y += dy
		g.Height -= dy
	}
	if e&EdgeBottom != 0 {
		g.Height += delta.Y
		if g.Height < minSize {
			g.Height = minSize
		}
	}
}

// constrain keeps the window on screen. Past the right or bottom edge a
// drag shifts the window while a resize trims it.
func (m *Machine) constrain(screen geom.Rect) {
	g := &m.geometry

	if g.X < screen.X {
		g.X = screen.X
	}
	if g.Y < screen.Y {
		g.Y = screen.Y
	}

	resizing := m.session.Resizing != 0
	if g.Right() > screen.Right() {
		if m.session.Dragging {
			g.X = screen.Right() - g.Width
		} else if resizing {
			g.Width = screen.Right() - g.X
		}
	}
	if g.Bottom() > screen.Bottom() {
		if m.session.Dragging {
			g.Y = screen.Bottom() - g.Height
		} else if resizing {
			g.Height = screen.Bottom() - g.Y
		}
	}

	minSize := m.MinSize()
	if g.Width < minSize {
		g.Width = minSize
	}
	if g.Height < minSize {
		g.Height = minSize
	}
}
