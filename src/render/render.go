// Package render composes a magnifier frame from a render plan, a screen
// sample and the cursor glyph.
package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"screen-magnifier/src/viewport"
)

// Sampler captures a rectangle of the screen. The returned image's bounds
// are in global screen coordinates and may cover less than r when part of
// it could not be read.
type Sampler interface {
	Capture(r image.Rectangle) (*image.RGBA, error)
}

// Sink shows a finished frame.
type Sink interface {
	Present(frame *image.RGBA) error
}

var (
	// FrameColor paints the border around the viewport.
	FrameColor = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	// MaskColor fills viewport areas with no source pixels.
	MaskColor = color.RGBA{A: 0xff}
)

// Compositor paints frames into a buffer it reuses between calls. It is not
// safe for concurrent use.
type Compositor struct {
	frame *image.RGBA
}

// NewCompositor returns an empty compositor.
func NewCompositor() *Compositor { return &Compositor{} }

// Frame returns the most recently composed frame, or nil.
func (c *Compositor) Frame() *image.RGBA { return c.frame }

// Compose paints one frame. sample may be nil or partial; pixels it does not
// cover stay black. glyph may be nil.
func (c *Compositor) Compose(plan viewport.RenderPlan, sample *image.RGBA, glyph image.Image) *image.RGBA {
	c.ensure(plan.WindowSize)
	frame := c.frame

	draw.Draw(frame, frame.Bounds(), image.NewUniform(FrameColor), image.Point{}, draw.Src)

	interior := plan.Dest.Round().Intersect(frame.Bounds())
	if interior.Empty() {
		return frame
	}
	view := frame.SubImage(interior).(*image.RGBA)
	fill(view, view.Bounds())

	if sample != nil {
		sr := sample.Bounds().Intersect(plan.Valid.Outer())
		if !sr.Empty() {
			xdraw.NearestNeighbor.Transform(view, sourceToDest(plan), sample, sr, xdraw.Src, nil)
		}
	}

	for _, m := range plan.Masks {
		fill(view, m.Round())
	}
	if plan.HasSelfMask {
		fill(view, plan.SelfMask.Round())
	}

	if plan.HasCursor && glyph != nil {
		xdraw.ApproxBiLinear.Scale(view, plan.Cursor.Round(), glyph, glyph.Bounds(), xdraw.Over, nil)
	}
	return frame
}

func (c *Compositor) ensure(size image.Point) {
	if size.X < 1 {
		size.X = 1
	}
	if size.Y < 1 {
		size.Y = 1
	}
	if c.frame == nil || c.frame.Bounds().Size() != size {
		c.frame = image.NewRGBA(image.Rectangle{Max: size})
	}
}

// sourceToDest is the affine map from global screen coordinates to
// window-local frame coordinates.
func sourceToDest(plan viewport.RenderPlan) f64.Aff3 {
	z := plan.Zoom
	return f64.Aff3{
		z, 0, plan.FrameWidth - plan.Source.X*z,
		0, z, plan.FrameWidth - plan.Source.Y*z,
	}
}

func fill(dst *image.RGBA, r image.Rectangle) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, image.NewUniform(MaskColor), image.Point{}, draw.Src)
}

// Clone returns a deep copy of frame, for handing to other goroutines.
func Clone(frame *image.RGBA) *image.RGBA {
	if frame == nil {
		return nil
	}
	out := image.NewRGBA(frame.Bounds())
	copy(out.Pix, frame.Pix)
	return out
}
