package interaction

import (
	"testing"

	"screen-magnifier/src/geom"
)

type fakeScreens []geom.Rect

func (f fakeScreens) ScreenAt(p geom.Point) (geom.Rect, bool) {
	for _, r := range f {
		if r.Contains(p) {
			return r, true
		}
	}
	return geom.Rect{}, false
}

var oneScreen = fakeScreens{{X: 0, Y: 0, Width: 1920, Height: 1080}}

func newTestMachine(g geom.Rect) *Machine {
	return NewMachine(g, 5, oneScreen)
}

func TestHitTest(t *testing.T) {
	tests := []struct {
		name  string
		local geom.PointF
		want  Edges
	}{
		{"interior", geom.PointF{X: 300, Y: 100}, 0},
		{"left", geom.PointF{X: 2, Y: 100}, EdgeLeft},
		{"left boundary excluded", geom.PointF{X: 5, Y: 100}, 0},
		{"right", geom.PointF{X: 598, Y: 100}, EdgeRight},
		{"right outer edge", geom.PointF{X: 600, Y: 100}, EdgeRight},
		{"top", geom.PointF{X: 300, Y: 0}, EdgeTop},
		{"bottom", geom.PointF{X: 300, Y: 199}, EdgeBottom},
		{"top left corner", geom.PointF{X: 1, Y: 1}, EdgeLeft | EdgeTop},
		{"bottom right corner", geom.PointF{X: 599, Y: 199}, EdgeRight | EdgeBottom},
		{"outside", geom.PointF{X: -1, Y: 100}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HitTest(tt.local, 600, 200, 5); got != tt.want {
				t.Errorf("HitTest(%+v) = %v, expected %v", tt.local, got, tt.want)
			}
		})
	}
}

func TestDragTranslatesBySumOfDeltas(t *testing.T) {
	start := geom.Rect{X: 100, Y: 100, Width: 600, Height: 200}
	m := newTestMachine(start)

	pos := geom.Point{X: 400, Y: 200}
	m.Press(ButtonPrimary, geom.PointF{X: 300, Y: 100}, pos)
	if s := m.Session(); !s.Dragging || s.Resizing != 0 {
		t.Fatalf("expected a drag, got %+v", s)
	}

	deltas := []geom.Point{{X: 3, Y: 4}, {X: -10, Y: 2}, {X: 25, Y: -7}, {X: 0, Y: 0}, {X: 1, Y: 1}}
	var sum geom.Point
	for _, d := range deltas {
		pos = pos.Add(d)
		sum = sum.Add(d)
		m.Move(geom.PointF{X: 300, Y: 100}, pos)
		if m.Session().Resizing != 0 {
			t.Fatal("resize flags set during a drag")
		}
		if m.Shape() != ShapeClosedHand {
			t.Errorf("shape during drag = %v", m.Shape())
		}
	}

	want := geom.Rect{X: start.X + sum.X, Y: start.Y + sum.Y, Width: start.Width, Height: start.Height}
	if got := m.Geometry(); got != want {
		t.Errorf("geometry = %+v, expected %+v", got, want)
	}
}

func TestLeftEdgeResize(t *testing.T) {
	start := geom.Rect{X: 100, Y: 100, Width: 600, Height: 200}
	m := newTestMachine(start)

	m.Press(ButtonPrimary, geom.PointF{X: 2, Y: 100}, geom.Point{X: 102, Y: 200})
	s := m.Session()
	if s.Dragging {
		t.Fatal("press on the border must not start a drag")
	}
	if s.Resizing != EdgeLeft {
		t.Fatalf("Resizing = %v, expected left only", s.Resizing)
	}

	m.Move(geom.PointF{X: 2, Y: 100}, geom.Point{X: 105, Y: 200})
	want := geom.Rect{X: 103, Y: 100, Width: 597, Height: 200}
	if got := m.Geometry(); got != want {
		t.Errorf("geometry = %+v, expected %+v", got, want)
	}
	if m.Shape() != ShapeSizeHorizontal {
		t.Errorf("shape = %v, expected horizontal resize", m.Shape())
	}
}

func TestCornerResizeComposesEdges(t *testing.T) {
	m := newTestMachine(geom.Rect{X: 100, Y: 100, Width: 600, Height: 200})

	m.Press(ButtonPrimary, geom.PointF{X: 1, Y: 1}, geom.Point{X: 101, Y: 101})
	if got := m.Session().Resizing; got != EdgeLeft|EdgeTop {
		t.Fatalf("Resizing = %v", got)
	}
	m.Move(geom.PointF{X: 1, Y: 1}, geom.Point{X: 111, Y: 121})

	want := geom.Rect{X: 110, Y: 120, Width: 590, Height: 180}
	if got := m.Geometry(); got != want {
		t.Errorf("geometry = %+v, expected %+v", got, want)
	}
	if m.Shape() != ShapeSizeForwardDiagonal {
		t.Errorf("shape = %v, expected forward diagonal", m.Shape())
	}
}

func TestBottomRightResize(t *testing.T) {
	m := newTestMachine(geom.Rect{X: 100, Y: 100, Width: 600, Height: 200})

	m.Press(ButtonPrimary, geom.PointF{X: 599, Y: 199}, geom.Point{X: 699, Y: 299})
	m.Move(geom.PointF{X: 599, Y: 199}, geom.Point{X: 719, Y: 289})

	want := geom.Rect{X: 100, Y: 100, Width: 620, Height: 190}
	if got := m.Geometry(); got != want {
		t.Errorf("geometry = %+v, expected %+v", got, want)
	}
}

func TestResizeShapeStableOutsideBorder(t *testing.T) {
	m := newTestMachine(geom.Rect{X: 100, Y: 100, Width: 600, Height: 200})
	m.Press(ButtonPrimary, geom.PointF{X: 2, Y: 100}, geom.Point{X: 102, Y: 200})

	// Pointer has run ahead into the interior; the shape follows the active edge.
	m.Move(geom.PointF{X: 40, Y: 100}, geom.Point{X: 140, Y: 200})
	if m.Shape() != ShapeSizeHorizontal {
		t.Errorf("shape = %v, expected horizontal resize", m.Shape())
	}
}

func TestHoverShapes(t *testing.T) {
	tests := []struct {
		name  string
		local geom.PointF
		want  Shape
	}{
		{"interior", geom.PointF{X: 300, Y: 100}, ShapeOpenHand},
		{"left", geom.PointF{X: 2, Y: 100}, ShapeSizeHorizontal},
		{"right", geom.PointF{X: 598, Y: 100}, ShapeSizeHorizontal},
		{"top", geom.PointF{X: 300, Y: 2}, ShapeSizeVertical},
		{"bottom", geom.PointF{X: 300, Y: 198}, ShapeSizeVertical},
		{"top left", geom.PointF{X: 2, Y: 2}, ShapeSizeForwardDiagonal},
		{"bottom right", geom.PointF{X: 598, Y: 198}, ShapeSizeForwardDiagonal},
		{"top right", geom.PointF{X: 598, Y: 2}, ShapeSizeBackwardDiagonal},
		{"bottom left", geom.PointF{X: 2, Y: 198}, ShapeSizeBackwardDiagonal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := geom.Rect{X: 100, Y: 100, Width: 600, Height: 200}
			m := newTestMachine(start)
			m.Move(tt.local, geom.Point{X: 100 + int(tt.local.X), Y: 100 + int(tt.local.Y)})
			if m.Shape() != tt.want {
				t.Errorf("shape = %v, expected %v", m.Shape(), tt.want)
			}
			if m.Geometry() != start {
				t.Errorf("hovering moved the window to %+v", m.Geometry())
			}
		})
	}
}

func TestReleaseClearsGesture(t *testing.T) {
	presses := []struct {
		name  string
		local geom.PointF
	}{
		{"drag", geom.PointF{X: 300, Y: 100}},
		{"left", geom.PointF{X: 2, Y: 100}},
		{"corner", geom.PointF{X: 598, Y: 2}},
	}
	for _, p := range presses {
		t.Run(p.name, func(t *testing.T) {
			m := newTestMachine(geom.Rect{X: 100, Y: 100, Width: 600, Height: 200})
			m.Press(ButtonSecondary, p.local, geom.Point{})
			m.Press(ButtonPrimary, p.local, geom.Point{X: 400, Y: 200})
			m.Move(p.local, geom.Point{X: 410, Y: 205})
			m.Release(ButtonPrimary)

			s := m.Session()
			if s.Dragging || s.Resizing != 0 {
				t.Errorf("session after release = %+v", s)
			}
			if !s.ConstrainToScreen {
				t.Error("primary release must not clear the secondary constraint")
			}
			if m.Shape() == ShapeClosedHand {
				t.Error("closed hand should revert to open hand on release")
			}
		})
	}
}

func TestSecondaryButtonTogglesConstraint(t *testing.T) {
	m := newTestMachine(geom.Rect{X: 100, Y: 100, Width: 600, Height: 200})
	m.Press(ButtonSecondary, geom.PointF{}, geom.Point{})
	if !m.Session().ConstrainToScreen {
		t.Fatal("expected constraint after secondary press")
	}
	if m.Session().Dragging {
		t.Fatal("secondary press must not start a drag")
	}
	m.Release(ButtonSecondary)
	if m.Session().ConstrainToScreen {
		t.Fatal("expected no constraint after secondary release")
	}
}

func TestConstrainRightEdgeDragVsResize(t *testing.T) {
	start := geom.Rect{X: 1300, Y: 100, Width: 600, Height: 200}

	t.Run("drag shifts the window", func(t *testing.T) {
		m := newTestMachine(start)
		m.Press(ButtonSecondary, geom.PointF{}, geom.Point{})
		m.Press(ButtonPrimary, geom.PointF{X: 300, Y: 100}, geom.Point{X: 1600, Y: 200})
		m.Move(geom.PointF{X: 300, Y: 100}, geom.Point{X: 1650, Y: 200})

		want := geom.Rect{X: 1320, Y: 100, Width: 600, Height: 200}
		if got := m.Geometry(); got != want {
			t.Errorf("geometry = %+v, expected %+v", got, want)
		}
	})

	t.Run("resize trims the width", func(t *testing.T) {
		m := newTestMachine(start)
		m.Press(ButtonSecondary, geom.PointF{}, geom.Point{})
		m.Press(ButtonPrimary, geom.PointF{X: 598, Y: 100}, geom.Point{X: 1898, Y: 200})
		m.Move(geom.PointF{X: 598, Y: 100}, geom.Point{X: 1948, Y: 200})

		want := geom.Rect{X: 1300, Y: 100, Width: 620, Height: 200}
		if got := m.Geometry(); got != want {
			t.Errorf("geometry = %+v, expected %+v", got, want)
		}
	})

	t.Run("unconstrained drag leaves the screen", func(t *testing.T) {
		m := newTestMachine(start)
		m.Press(ButtonPrimary, geom.PointF{X: 300, Y: 100}, geom.Point{X: 1600, Y: 200})
		m.Move(geom.PointF{X: 300, Y: 100}, geom.Point{X: 1650, Y: 200})
		if got := m.Geometry().X; got != 1350 {
			t.Errorf("X = %d, expected 1350", got)
		}
	})
}

func TestConstrainHoldsWhenCentreLeavesEveryScreen(t *testing.T) {
	m := newTestMachine(geom.Rect{X: 1320, Y: 0, Width: 600, Height: 200})
	m.Press(ButtonSecondary, geom.PointF{}, geom.Point{})
	m.Press(ButtonPrimary, geom.PointF{X: 300, Y: 100}, geom.Point{X: 1620, Y: 100})
	// One large jump puts the moved centre at x=2020, off the screen.
	m.Move(geom.PointF{X: 300, Y: 100}, geom.Point{X: 2020, Y: 100})

	want := geom.Rect{X: 1320, Y: 0, Width: 600, Height: 200}
	if got := m.Geometry(); got != want {
		t.Errorf("geometry = %+v, expected %+v", got, want)
	}
}

func TestConstrainUsesScreenUnderWindowBeforeMove(t *testing.T) {
	screens := fakeScreens{
		{X: 0, Y: 0, Width: 1920, Height: 1080},
		{X: 1920, Y: 0, Width: 1280, Height: 1024},
	}
	m := NewMachine(geom.Rect{X: 1300, Y: 100, Width: 600, Height: 200}, 5, screens)
	m.Press(ButtonSecondary, geom.PointF{}, geom.Point{})
	m.Press(ButtonPrimary, geom.PointF{X: 300, Y: 100}, geom.Point{X: 1600, Y: 200})
	// The moved centre lands on the second screen; the first one still wins.
	m.Move(geom.PointF{X: 300, Y: 100}, geom.Point{X: 2000, Y: 200})

	if got := m.Geometry(); got.X != 1320 || got.Right() != 1920 {
		t.Errorf("geometry = %+v, expected right edge at 1920", got)
	}
}

func TestConstrainBottomEdgeDragVsResize(t *testing.T) {
	start := geom.Rect{X: 100, Y: 850, Width: 600, Height: 200}

	drag := newTestMachine(start)
	drag.Press(ButtonSecondary, geom.PointF{}, geom.Point{})
	drag.Press(ButtonPrimary, geom.PointF{X: 300, Y: 100}, geom.Point{X: 400, Y: 950})
	drag.Move(geom.PointF{X: 300, Y: 100}, geom.Point{X: 400, Y: 1000})
	if got := drag.Geometry(); got.Y != 880 || got.Height != 200 {
		t.Errorf("drag geometry = %+v, expected y=880 height=200", got)
	}

	resize := newTestMachine(start)
	resize.Press(ButtonSecondary, geom.PointF{}, geom.Point{})
	resize.Press(ButtonPrimary, geom.PointF{X: 300, Y: 199}, geom.Point{X: 400, Y: 1049})
	resize.Move(geom.PointF{X: 300, Y: 199}, geom.Point{X: 400, Y: 1099})
	if got := resize.Geometry(); got.Y != 850 || got.Height != 230 {
		t.Errorf("resize geometry = %+v, expected y=850 height=230", got)
	}
}

func TestConstrainLeftAndTopSnap(t *testing.T) {
	m := newTestMachine(geom.Rect{X: 10, Y: 10, Width: 600, Height: 200})
	m.Press(ButtonSecondary, geom.PointF{}, geom.Point{})
	m.Press(ButtonPrimary, geom.PointF{X: 300, Y: 100}, geom.Point{X: 310, Y: 110})
	m.Move(geom.PointF{X: 300, Y: 100}, geom.Point{X: 280, Y: 80})

	want := geom.Rect{X: 0, Y: 0, Width: 600, Height: 200}
	if got := m.Geometry(); got != want {
		t.Errorf("geometry = %+v, expected %+v", got, want)
	}
}

func TestConstrainWithoutScreenIsNoop(t *testing.T) {
	m := NewMachine(geom.Rect{X: 5000, Y: 5000, Width: 600, Height: 200}, 5, oneScreen)
	m.Press(ButtonSecondary, geom.PointF{}, geom.Point{})
	m.Press(ButtonPrimary, geom.PointF{X: 300, Y: 100}, geom.Point{X: 5300, Y: 5100})
	m.Move(geom.PointF{X: 300, Y: 100}, geom.Point{X: 5310, Y: 5100})
	if got := m.Geometry().X; got != 5010 {
		t.Errorf("X = %d, expected 5010", got)
	}
}

func TestResizeNeverInverts(t *testing.T) {
	tests := []struct {
		name  string
		local geom.PointF
		to    geom.Point
	}{
		{"left past right", geom.PointF{X: 2, Y: 100}, geom.Point{X: 2000, Y: 200}},
		{"right past left", geom.PointF{X: 598, Y: 100}, geom.Point{X: -2000, Y: 200}},
		{"top past bottom", geom.PointF{X: 300, Y: 2}, geom.Point{X: 400, Y: 2000}},
		{"bottom past top", geom.PointF{X: 300, Y: 198}, geom.Point{X: 400, Y: -2000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := geom.Rect{X: 100, Y: 100, Width: 600, Height: 200}
			m := newTestMachine(start)
			m.Press(ButtonPrimary, tt.local, geom.Point{X: 100 + int(tt.local.X), Y: 100 + int(tt.local.Y)})
			m.Move(tt.local, tt.to)

			g := m.Geometry()
			if g.Width < m.MinSize() || g.Height < m.MinSize() {
				t.Fatalf("geometry %+v below minimum %d", g, m.MinSize())
			}
			if g.Right() != start.Right() && m.Session().Resizing&EdgeLeft != 0 {
				t.Errorf("left resize moved the right edge: %+v", g)
			}
			if g.Bottom() != start.Bottom() && m.Session().Resizing&EdgeTop != 0 {
				t.Errorf("top resize moved the bottom edge: %+v", g)
			}
		})
	}
}

func TestHandleReportsGeometryChange(t *testing.T) {
	m := newTestMachine(geom.Rect{X: 100, Y: 100, Width: 600, Height: 200})
	if m.Handle(Event{Kind: EventMove, Local: geom.PointF{X: 300, Y: 100}, Global: geom.Point{X: 400, Y: 200}}) {
		t.Error("hover should not change geometry")
	}
	m.Handle(Event{Kind: EventPress, Button: ButtonPrimary, Local: geom.PointF{X: 300, Y: 100}, Global: geom.Point{X: 400, Y: 200}})
	if !m.Handle(Event{Kind: EventMove, Local: geom.PointF{X: 300, Y: 100}, Global: geom.Point{X: 401, Y: 200}}) {
		t.Error("drag should change geometry")
	}
	if m.Handle(Event{Kind: EventRelease, Button: ButtonPrimary}) {
		t.Error("release should not change geometry")
	}
}
