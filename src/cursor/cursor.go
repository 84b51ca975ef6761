// Package cursor reads the system pointer: where it is and what it looks
// like. Platform glyph readers live in the build-tagged files.
package cursor

import (
	"errors"
	"image"

	"github.com/go-vgo/robotgo"

	"screen-magnifier/src/geom"
	"screen-magnifier/src/viewport"
)

// ErrUnsupported is returned by NewGlyphSource where no glyph reader exists.
var ErrUnsupported = errors.New("cursor: glyph capture not supported on this platform")

// Glyph is the current pointer image. Image holds premultiplied pixels at
// the device resolution; Hotspot is relative to its top-left corner.
type Glyph struct {
	Image   *image.RGBA
	Hotspot image.Point
}

// GlyphSource yields the current pointer glyph. ok is false when the
// system cursor is hidden or cannot be read.
type GlyphSource interface {
	Current() (g Glyph, ok bool)
}

// Metrics returns the size and hotspot of g.
func (g Glyph) Metrics() viewport.GlyphMetrics {
	if g.Image == nil {
		return viewport.GlyphMetrics{}
	}
	return viewport.GlyphMetrics{Size: g.Image.Bounds().Size(), Hotspot: g.Hotspot}
}

// Pointer reports the global pointer position.
type Pointer struct{}

// Position returns the pointer position in global screen coordinates.
func (Pointer) Position() geom.Point {
	x, y := robotgo.Location()
	return geom.Point{X: x, Y: y}
}

// fromARGB converts packed premultiplied ARGB words, as sent by the XFixes
// extension, into an RGBA image.
func fromARGB(width, height int, pix []uint32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	n := width * height
	if len(pix) < n {
		n = len(pix)
	}
	for i := 0; i < n; i++ {
		p := pix[i]
		o := i * 4
		img.Pix[o+0] = uint8(p >> 16)
		img.Pix[o+1] = uint8(p >> 8)
		img.Pix[o+2] = uint8(p)
		img.Pix[o+3] = uint8(p >> 24)
	}
	return img
}

// fromBlackWhite recovers a premultiplied RGBA image from two BGRA renders
// of the same glyph, one over black and one over white. A pixel that is
// darker over white than over black (an inverting cursor) counts as opaque.
func fromBlackWhite(width, height int, onBlack, onWhite []byte) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	n := width * height * 4
	if len(onBlack) < n || len(onWhite) < n {
		return img
	}
	for o := 0; o < n; o += 4 {
		diff := int(onWhite[o+1]) - int(onBlack[o+1])
		if diff < 0 {
			diff = 0
		}
		a := uint8(255 - diff)
		img.Pix[o+0] = minByte(onBlack[o+2], a)
		img.Pix[o+1] = minByte(onBlack[o+1], a)
		img.Pix[o+2] = minByte(onBlack[o+0], a)
		img.Pix[o+3] = a
	}
	return img
}

func minByte(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}
