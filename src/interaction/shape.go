package interaction

// Shape is the pointer shape shown over the magnifier window.
type Shape int

const (
	ShapeOpenHand Shape = iota
	ShapeClosedHand
	ShapeSizeHorizontal
	ShapeSizeVertical
	// ShapeSizeForwardDiagonal points top-left to bottom-right.
	ShapeSizeForwardDiagonal
	// ShapeSizeBackwardDiagonal points top-right to bottom-left.
	ShapeSizeBackwardDiagonal
)

func (s Shape) String() string {
	switch s {
	case ShapeOpenHand:
		return "open-hand"
	case ShapeClosedHand:
		return "closed-hand"
	case ShapeSizeHorizontal:
		return "size-hor"
	case ShapeSizeVertical:
		return "size-ver"
	case ShapeSizeForwardDiagonal:
		return "size-fdiag"
	case ShapeSizeBackwardDiagonal:
		return "size-bdiag"
	default:
		return "unknown"
	}
}

// hoverShape is the feedback shape for an exact hit-test result. Opposite
// edges together (a window thinner than two frames) fall back to the hand.
func hoverShape(e Edges) (Shape, bool) {
	switch e {
	case EdgeLeft, EdgeRight:
		return ShapeSizeHorizontal, true
	case EdgeTop, EdgeBottom:
		return ShapeSizeVertical, true
	case EdgeLeft | EdgeTop, EdgeRight | EdgeBottom:
		return ShapeSizeForwardDiagonal, true
	case EdgeRight | EdgeTop, EdgeLeft | EdgeBottom:
		return ShapeSizeBackwardDiagonal, true
	}
	return 0, false
}

// resizeShape is the shape for the edges being dragged. Later rules override
// earlier ones, so diagonals win whenever two adjacent edges are active.
func resizeShape(e Edges) Shape {
	s := ShapeOpenHand
	if e&(EdgeLeft|EdgeRight) != 0 {
		s = ShapeSizeHorizontal
	}
	if e&(EdgeTop|EdgeBottom) != 0 {
		s = ShapeSizeVertical
	}
	if e.Has(EdgeLeft|EdgeTop) || e.Has(EdgeRight|EdgeBottom) {
		s = ShapeSizeForwardDiagonal
	}
	if e.Has(EdgeRight|EdgeTop) || e.Has(EdgeLeft|EdgeBottom) {
		s = ShapeSizeBackwardDiagonal
	}
	return s
}
