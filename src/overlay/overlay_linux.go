//go:build linux

package overlay

import (
	"fmt"
	"image"
	"log"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/BurntSushi/xgbutil/xwindow"

	"screen-magnifier/src/geom"
	"screen-magnifier/src/interaction"
)

// X cursor font glyphs (X11/cursorfont.h).
const (
	xcBottomLeftCorner  = 12
	xcBottomRightCorner = 14
	xcFleur             = 52
	xcHand1             = 58
	xcSbHDoubleArrow    = 108
	xcSbVDoubleArrow    = 116
	xcTopLeftCorner     = 134
	xcTopRightCorner    = 136
)

var cursorGlyphs = map[interaction.Shape]uint16{
	interaction.ShapeOpenHand:             xcHand1,
	interaction.ShapeClosedHand:           xcFleur,
	interaction.ShapeSizeHorizontal:       xcSbHDoubleArrow,
	interaction.ShapeSizeVertical:         xcSbVDoubleArrow,
	interaction.ShapeSizeForwardDiagonal:  xcTopLeftCorner,
	interaction.ShapeSizeBackwardDiagonal: xcTopRightCorner,
}

// Window is an undecorated, always-on-top X11 window.
type Window struct {
	pump

	xu  *xgbutil.XUtil
	win *xwindow.Window

	mu      sync.Mutex
	ximg    *xgraphics.Image
	cursors map[interaction.Shape]xproto.Cursor
	shape   interaction.Shape
	closed  bool
}

// New creates and maps the window and starts the X event pump.
func New(opts Options) (*Window, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("overlay: connect to X server: %w", err)
	}

	win, err := xwindow.Generate(xu)
	if err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("overlay: allocate window id: %w", err)
	}

	g := opts.Geometry
	// Value list order follows the mask bits: back pixel, then event mask.
	err = win.CreateChecked(xu.RootWin(), g.X, g.Y, g.Width, g.Height,
		xproto.CwBackPixel|xproto.CwEventMask,
		0x808080,
		xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease|
			xproto.EventMaskPointerMotion|xproto.EventMaskExposure)
	if err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("overlay: create window: %w", err)
	}

	w := &Window{
		xu:      xu,
		win:     win,
		cursors: make(map[interaction.Shape]xproto.Cursor),
		shape:   interaction.ShapeOpenHand,
	}
	w.pump.init()

	w.setHints(opts)
	w.connect()

	win.Map()
	w.applyCursor(w.shape)

	go func() {
		xevent.Main(xu)
		log.Printf("overlay: X event loop stopped")
	}()
	return w, nil
}

// setHints asks the window manager for a borderless utility window that
// stays above others and honours the requested position.
func (w *Window) setHints(opts Options) {
	id := w.win.Id
	g := opts.Geometry

	if err := ewmh.WmNameSet(w.xu, id, opts.Title); err != nil {
		log.Printf("overlay: set _NET_WM_NAME: %v", err)
	}
	if err := icccm.WmClassSet(w.xu, id, &icccm.WmClass{Instance: "magnifier", Class: "Magnifier"}); err != nil {
		log.Printf("overlay: set WM_CLASS: %v", err)
	}
	if err := icccm.WmNormalHintsSet(w.xu, id, &icccm.NormalHints{
		Flags:  icccm.SizeHintUSPosition | icccm.SizeHintUSSize,
		X:      g.X,
		Y:      g.Y,
		Width:  uint(g.Width),
		Height: uint(g.Height),
	}); err != nil {
		log.Printf("overlay: set WM_NORMAL_HINTS: %v", err)
	}
	if err := motif.WmHintsSet(w.xu, id, &motif.Hints{
		Flags:      motif.HintDecorations,
		Decoration: motif.DecorationNone,
	}); err != nil {
		log.Printf("overlay: set _MOTIF_WM_HINTS: %v", err)
	}
	if err := ewmh.WmWindowTypeSet(w.xu, id, []string{"_NET_WM_WINDOW_TYPE_UTILITY"}); err != nil {
		log.Printf("overlay: set _NET_WM_WINDOW_TYPE: %v", err)
	}
	if err := ewmh.WmStateSet(w.xu, id, []string{
		"_NET_WM_STATE_ABOVE",
		"_NET_WM_STATE_SKIP_TASKBAR",
		"_NET_WM_STATE_SKIP_PAGER",
	}); err != nil {
		log.Printf("overlay: set _NET_WM_STATE: %v", err)
	}
}

func (w *Window) connect() {
	id := w.win.Id

	xevent.ButtonPressFun(func(X *xgbutil.XUtil, e xevent.ButtonPressEvent) {
		w.forward(interaction.Event{
			Kind:   interaction.EventPress,
			Button: xButton(e.Detail),
			Local:  geom.PointF{X: float64(e.EventX), Y: float64(e.EventY)},
			Global: geom.Point{X: int(e.RootX), Y: int(e.RootY)},
		})
	}).Connect(w.xu, id)

	xevent.ButtonReleaseFun(func(X *xgbutil.XUtil, e xevent.ButtonReleaseEvent) {
		w.forward(interaction.Event{
			Kind:   interaction.EventRelease,
			Button: xButton(e.Detail),
			Local:  geom.PointF{X: float64(e.EventX), Y: float64(e.EventY)},
			Global: geom.Point{X: int(e.RootX), Y: int(e.RootY)},
		})
	}).Connect(w.xu, id)

	xevent.MotionNotifyFun(func(X *xgbutil.XUtil, e xevent.MotionNotifyEvent) {
		w.forward(interaction.Event{
			Kind:   interaction.EventMove,
			Local:  geom.PointF{X: float64(e.EventX), Y: float64(e.EventY)},
			Global: geom.Point{X: int(e.RootX), Y: int(e.RootY)},
		})
	}).Connect(w.xu, id)

	xevent.ExposeFun(func(X *xgbutil.XUtil, e xevent.ExposeEvent) {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.ximg != nil && !w.closed {
			w.ximg.XPaint(id)
		}
	}).Connect(w.xu, id)
}

func xButton(b xproto.Button) interaction.Button {
	switch b {
	case xproto.ButtonIndex1:
		return interaction.ButtonPrimary
	case xproto.ButtonIndex3:
		return interaction.ButtonSecondary
	default:
		return interaction.ButtonOther
	}
}

// CapturesSelf reports whether screen captures include this window. X11
// has no way to exclude a window from root window reads.
func (w *Window) CapturesSelf() bool { return true }

// Present uploads frame to the window's backing pixmap and paints it.
func (w *Window) Present(frame *image.RGBA) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}

	size := frame.Bounds().Size()
	if w.ximg == nil || w.ximg.Bounds().Size() != size {
		if w.ximg != nil {
			w.ximg.Destroy()
		}
		w.ximg = xgraphics.New(w.xu, image.Rectangle{Max: size})
		if err := w.ximg.XSurfaceSet(w.win.Id); err != nil {
			w.ximg.Destroy()
			w.ximg = nil
			return fmt.Errorf("overlay: create surface: %w", err)
		}
	}

	toBGRA(w.ximg.Pix, w.ximg.Stride, frame)
	w.ximg.XDraw()
	w.ximg.XPaint(w.win.Id)
	return nil
}

// SetGeometry moves and resizes the window.
func (w *Window) SetGeometry(r geom.Rect) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.win.MoveResize(r.X, r.Y, r.Width, r.Height)
	return nil
}

// SetShape changes the pointer shape shown over the window.
func (w *Window) SetShape(s interaction.Shape) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || s == w.shape {
		return nil
	}
	w.shape = s
	return w.applyCursor(s)
}

func (w *Window) applyCursor(s interaction.Shape) error {
	c, ok := w.cursors[s]
	if !ok {
		var err error
		c, err = xcursor.CreateCursor(w.xu, cursorGlyphs[s])
		if err != nil {
			return fmt.Errorf("overlay: create cursor %v: %w", s, err)
		}
		w.cursors[s] = c
	}
	w.win.Change(xproto.CwCursor, uint32(c))
	return nil
}

// Close destroys the window and stops the event pump.
func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	w.pump.stop()

	xevent.Quit(w.xu)
	if w.ximg != nil {
		w.ximg.Destroy()
		w.ximg = nil
	}
	for _, c := range w.cursors {
		xproto.FreeCursor(w.xu.Conn(), c)
	}
	w.win.Destroy()
	w.xu.Conn().Close()
	return nil
}

// toBGRA copies an RGBA frame into an xgraphics pixel buffer.
func toBGRA(dst []uint8, stride int, frame *image.RGBA) {
	b := frame.Bounds()
	for y := 0; y < b.Dy(); y++ {
		src := frame.Pix[y*frame.Stride : y*frame.Stride+b.Dx()*4]
		row := dst[y*stride : y*stride+b.Dx()*4]
		for x := 0; x < len(src); x += 4 {
			row[x+0] = src[x+2]
			row[x+1] = src[x+1]
			row[x+2] = src[x+0]
			row[x+3] = 0xff
		}
	}
}
