// Package viewport maps the magnifier window onto the screen: which source
// rectangle to sample around the cursor, where the sample lands inside the
// frame, which parts must be blacked out, and where the cursor glyph goes.
//
// Everything here is a pure function of its inputs.
package viewport

import (
	"image"

	"screen-magnifier/src/geom"
)

// GlyphMetrics describes the cursor glyph without its pixels.
type GlyphMetrics struct {
	Size    image.Point
	Hotspot image.Point
}

// Params are the inputs of a single render pass.
type Params struct {
	Window     geom.Rect
	FrameWidth float64
	Zoom       float64
	UIScale    float64
	Cursor     geom.Point
	Screen     geom.Rect
	// Glyph is nil when no system cursor is available.
	Glyph *GlyphMetrics
}

// RenderPlan is the geometry of one frame. Source-space rectangles are in
// global screen coordinates; destination rectangles are window-local.
type RenderPlan struct {
	Source geom.RectF
	// Valid is Source clipped to the active screen: the only region worth
	// asking the capturer for.
	Valid geom.RectF
	Dest  geom.RectF
	// Masks cover the parts of Dest whose source lies off the active screen.
	Masks []geom.RectF
	// SelfMask covers the part of Dest that would show the magnifier's own
	// interior. HasSelfMask is false when the window is not in the sample.
	SelfMask    geom.RectF
	HasSelfMask bool
	Cursor      geom.RectF
	HasCursor   bool

	Zoom       float64
	FrameWidth float64
	WindowSize image.Point
}

// ComputeRenderPlan computes the render plan for one tick.
func ComputeRenderPlan(p Params) RenderPlan {
	fw := p.FrameWidth
	interiorW := float64(p.Window.Width) - 2*fw
	interiorH := float64(p.Window.Height) - 2*fw

	w := interiorW / p.Zoom
	h := interiorH / p.Zoom
	x := float64(p.Cursor.X) - w/2
	y := float64(p.Cursor.Y) - h/2

	localX := float64(p.Cursor.X - p.Screen.X)
	localY := float64(p.Cursor.Y - p.Screen.Y)
	screenW := float64(p.Screen.Width)
	screenH := float64(p.Screen.Height)

	if localX < w/2 {
		x = float64(p.Screen.X)
	}
	if localY < h/2 {
		y = float64(p.Screen.Y)
	}
	// Far edges are checked last so they win on screens smaller than the sample.
	if localX > screenW-w/2 {
		x = float64(p.Screen.X) + screenW - w
	}
	if localY > screenH-h/2 {
		y = float64(p.Screen.Y) + screenH - h
	}

	plan := RenderPlan{
		Source:     geom.RectF{X: x, Y: y, W: w, H: h},
		Dest:       geom.RectF{X: fw, Y: fw, W: interiorW, H: interiorH},
		Zoom:       p.Zoom,
		FrameWidth: fw,
		WindowSize: image.Pt(p.Window.Width, p.Window.Height),
	}

	screen := p.Screen.Float()
	plan.Valid = plan.Source.Intersect(screen)
	for _, off := range plan.Source.Subtract(screen) {
		plan.Masks = append(plan.Masks, plan.ToDest(off))
	}

	interior := geom.RectF{
		X: float64(p.Window.X) + fw,
		Y: float64(p.Window.Y) + fw,
		W: interiorW,
		H: interiorH,
	}
	if self := plan.Source.Intersect(interior); !self.Empty() {
		plan.SelfMask = plan.ToDest(self)
		plan.HasSelfMask = true
	}

	if g := p.Glyph; g != nil && g.Size.X > 0 && g.Size.Y > 0 {
		scale := p.UIScale
		if scale <= 0 {
			scale = 1
		}
		plan.Cursor = geom.RectF{
			X: (float64(p.Cursor.X-g.Hotspot.X)-x)*p.Zoom + fw,
			Y: (float64(p.Cursor.Y-g.Hotspot.Y)-y)*p.Zoom + fw,
			W: float64(g.Size.X) / scale * p.Zoom,
			H: float64(g.Size.Y) / scale * p.Zoom,
		}
		plan.HasCursor = true
	}

	return plan
}

// ToDest maps a source-space rectangle into window-local coordinates using
// the plan's scale and offset.
func (p RenderPlan) ToDest(r geom.RectF) geom.RectF {
	return geom.RectF{
		X: (r.X-p.Source.X)*p.Zoom + p.FrameWidth,
		Y: (r.Y-p.Source.Y)*p.Zoom + p.FrameWidth,
		W: r.W * p.Zoom,
		H: r.H * p.Zoom,
	}
}

// MaskArea returns the total source-space area that lies off screen.
func (p RenderPlan) MaskArea() float64 {
	var sum float64
	for _, m := range p.Masks {
		sum += m.Area()
	}
	return sum / (p.Zoom * p.Zoom)
}
