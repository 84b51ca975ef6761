package geom

import (
	"image"
	"testing"
)

func TestRectFIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b RectF
		want RectF
	}{
		{"overlap", RectF{0, 0, 10, 10}, RectF{5, 5, 10, 10}, RectF{5, 5, 5, 5}},
		{"contained", RectF{0, 0, 10, 10}, RectF{2, 3, 4, 5}, RectF{2, 3, 4, 5}},
		{"disjoint", RectF{0, 0, 10, 10}, RectF{20, 20, 5, 5}, RectF{}},
		{"touching", RectF{0, 0, 10, 10}, RectF{10, 0, 5, 5}, RectF{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("Intersect = %+v, expected %+v", got, tt.want)
			}
		})
	}
}

func TestRectFSubtractArea(t *testing.T) {
	tests := []struct {
		name string
		r, s RectF
	}{
		{"corner overflow", RectF{0, 0, 150, 150}, RectF{0, 0, 100, 100}},
		{"negative corner", RectF{-50, -50, 150, 150}, RectF{0, 0, 100, 100}},
		{"hole in the middle", RectF{0, 0, 100, 100}, RectF{25, 25, 50, 50}},
		{"fully covered", RectF{10, 10, 20, 20}, RectF{0, 0, 100, 100}},
		{"disjoint", RectF{200, 200, 10, 10}, RectF{0, 0, 100, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := tt.r.Subtract(tt.s)
			var sum float64
			for i, p := range parts {
				if p.Empty() {
					t.Errorf("part %d is empty: %+v", i, p)
				}
				if !p.Intersect(tt.s).Empty() {
					t.Errorf("part %d overlaps the subtracted rect: %+v", i, p)
				}
				for j := i + 1; j < len(parts); j++ {
					if !p.Intersect(parts[j]).Empty() {
						t.Errorf("parts %d and %d overlap", i, j)
					}
				}
				sum += p.Area()
			}
			want := tt.r.Area() - tt.r.Intersect(tt.s).Area()
			if sum != want {
				t.Errorf("remainder area = %v, expected %v", sum, want)
			}
		})
	}
}

func TestRectContainsAndCenter(t *testing.T) {
	r := Rect{X: 100, Y: 50, Width: 200, Height: 100}
	if !r.Contains(Point{100, 50}) {
		t.Error("expected top-left corner to be inside")
	}
	if r.Contains(Point{300, 60}) {
		t.Error("expected right edge to be exclusive")
	}
	if c := r.Center(); c != (Point{200, 100}) {
		t.Errorf("Center = %+v", c)
	}
	if got := FromImage(r.Image()); got != r {
		t.Errorf("FromImage(Image()) = %+v, expected %+v", got, r)
	}
}

func TestRectFRounding(t *testing.T) {
	r := RectF{X: 1.4, Y: 2.6, W: 3.2, H: 1.1}
	if got := r.Outer(); got != image.Rect(1, 2, 5, 4) {
		t.Errorf("Outer = %v", got)
	}
	if got := r.Round(); got != image.Rect(1, 3, 5, 4) {
		t.Errorf("Round = %v", got)
	}
}
