package render

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"screen-magnifier/src/geom"
	"screen-magnifier/src/viewport"
)

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	green = color.RGBA{G: 0xff, A: 0xff}
	blue  = color.RGBA{B: 0xff, A: 0xff}
)

// 30x22 window, frame 5, zoom 2: a 10x6 sample at (45,47) around (50,50).
func testParams() viewport.Params {
	return viewport.Params{
		Window:     geom.Rect{X: 500, Y: 500, Width: 30, Height: 22},
		FrameWidth: 5,
		Zoom:       2,
		UIScale:    1,
		Cursor:     geom.Point{X: 50, Y: 50},
		Screen:     geom.Rect{Width: 100, Height: 100},
	}
}

func solid(r image.Rectangle, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(r)
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestComposeFrameAndScaling(t *testing.T) {
	plan := viewport.ComputeRenderPlan(testParams())
	sample := solid(plan.Valid.Outer(), red)
	sample.SetRGBA(50, 50, green)

	frame := NewCompositor().Compose(plan, sample, nil)

	if got := frame.Bounds().Size(); got != image.Pt(30, 22) {
		t.Fatalf("frame size = %v", got)
	}
	checks := []struct {
		name string
		at   image.Point
		want color.RGBA
	}{
		{"border", image.Pt(0, 0), FrameColor},
		{"border inside edge", image.Pt(4, 10), FrameColor},
		{"interior corner", image.Pt(5, 5), red},
		{"magnified pixel", image.Pt(15, 11), green},
		{"magnified pixel far corner", image.Pt(16, 12), green},
		{"next to magnified pixel", image.Pt(14, 11), red},
		{"past magnified pixel", image.Pt(17, 13), red},
	}
	for _, c := range checks {
		if got := frame.RGBAAt(c.at.X, c.at.Y); got != c.want {
			t.Errorf("%s at %v = %v, expected %v", c.name, c.at, got, c.want)
		}
	}
}

func TestComposeWithoutSampleIsBlack(t *testing.T) {
	plan := viewport.ComputeRenderPlan(testParams())
	frame := NewCompositor().Compose(plan, nil, nil)
	if got := frame.RGBAAt(15, 11); got != MaskColor {
		t.Errorf("interior = %v, expected black", got)
	}
	if got := frame.RGBAAt(29, 21); got != FrameColor {
		t.Errorf("border = %v, expected frame colour", got)
	}
}

func TestComposePartialSample(t *testing.T) {
	plan := viewport.ComputeRenderPlan(testParams())
	// Only the left half of the sample came back.
	sample := solid(image.Rect(45, 47, 50, 53), red)

	frame := NewCompositor().Compose(plan, sample, nil)
	if got := frame.RGBAAt(6, 6); got != red {
		t.Errorf("captured half = %v, expected red", got)
	}
	if got := frame.RGBAAt(20, 6); got != MaskColor {
		t.Errorf("missing half = %v, expected black", got)
	}
}

func TestComposeMasksOffscreenSource(t *testing.T) {
	p := testParams()
	// An 8px wide screen is narrower than the 10px sample, so 2 source
	// columns fall off its left edge.
	p.Screen = geom.Rect{Width: 8, Height: 100}
	p.Cursor = geom.Point{X: 4, Y: 50}
	plan := viewport.ComputeRenderPlan(p)
	if len(plan.Masks) == 0 {
		t.Fatal("expected a mask")
	}

	// Even if the capturer hands back pixels for the whole source, the
	// off-screen part must stay black.
	sample := solid(plan.Source.Outer(), red)
	frame := NewCompositor().Compose(plan, sample, nil)

	if got := frame.RGBAAt(6, 11); got != MaskColor {
		t.Errorf("masked column = %v, expected black", got)
	}
	if got := frame.RGBAAt(12, 11); got != red {
		t.Errorf("on-screen column = %v, expected red", got)
	}
}

func TestComposeCursor(t *testing.T) {
	p := testParams()
	p.Glyph = &viewport.GlyphMetrics{Size: image.Pt(2, 2)}
	plan := viewport.ComputeRenderPlan(p)
	glyph := solid(image.Rect(0, 0, 2, 2), blue)

	frame := NewCompositor().Compose(plan, solid(plan.Valid.Outer(), red), glyph)

	// Hotspot (0,0) at (50,50) maps to (15,11); the glyph is 4x4 after zoom.
	for _, at := range []image.Point{{15, 11}, {18, 14}} {
		if got := frame.RGBAAt(at.X, at.Y); got.B < 0xf0 || got.R > 0x10 {
			t.Errorf("cursor pixel %v = %v, expected blue", at, got)
		}
	}
	if got := frame.RGBAAt(19, 15); got != red {
		t.Errorf("pixel past the cursor = %v, expected red", got)
	}
}

func TestComposeReusesBufferUntilResize(t *testing.T) {
	c := NewCompositor()
	plan := viewport.ComputeRenderPlan(testParams())
	first := c.Compose(plan, nil, nil)
	if second := c.Compose(plan, nil, nil); second != first {
		t.Error("expected the frame buffer to be reused")
	}

	p := testParams()
	p.Window.Width = 40
	if resized := c.Compose(viewport.ComputeRenderPlan(p), nil, nil); resized.Bounds().Dx() != 40 {
		t.Errorf("resized width = %d", resized.Bounds().Dx())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	frame := solid(image.Rect(0, 0, 2, 2), red)
	cp := Clone(frame)
	frame.SetRGBA(0, 0, blue)
	if got := cp.RGBAAt(0, 0); got != red {
		t.Errorf("clone changed with the original: %v", got)
	}
	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}
}
