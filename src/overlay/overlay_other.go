//go:build !linux && !windows

package overlay

import (
	"image"

	"screen-magnifier/src/geom"
	"screen-magnifier/src/interaction"
)

// Window is unavailable on this platform.
type Window struct {
	pump
}

// New always fails with ErrUnsupported.
func New(opts Options) (*Window, error) { return nil, ErrUnsupported }

func (w *Window) CapturesSelf() bool { return false }
func (w *Window) Present(frame *image.RGBA) error { return ErrUnsupported }
func (w *Window) SetGeometry(r geom.Rect) error { return ErrUnsupported }
func (w *Window) SetShape(s interaction.Shape) error { return ErrUnsupported }
func (w *Window) Close() error { return nil }
