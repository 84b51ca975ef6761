//go:build windows

package overlay

import (
	"fmt"
	"image"
	"log"
	"runtime"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"screen-magnifier/src/geom"
	"screen-magnifier/src/interaction"
)

const (
	wmApplyGeometry = win.WM_APP + 1
	wmApplyShape    = win.WM_APP + 2

	wdaExcludeFromCapture = 0x00000011
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procSetWindowDisplayAffinity = user32.NewProc("SetWindowDisplayAffinity")
	procGetCapture               = user32.NewProc("GetCapture")
)

// The window procedure is a plain callback, so it finds its window here.
// Only one magnifier window exists per process.
var (
	activeMu sync.Mutex
	active   *Window
)

var cursorIDs = map[interaction.Shape]uintptr{
	interaction.ShapeOpenHand:             win.IDC_HAND,
	interaction.ShapeClosedHand:           win.IDC_SIZEALL,
	interaction.ShapeSizeHorizontal:       win.IDC_SIZEWE,
	interaction.ShapeSizeVertical:         win.IDC_SIZENS,
	interaction.ShapeSizeForwardDiagonal:  win.IDC_SIZENWSE,
	interaction.ShapeSizeBackwardDiagonal: win.IDC_SIZENESW,
}

// Window is a topmost popup window driven by its own message loop thread.
type Window struct {
	pump

	hwnd     win.HWND
	excluded bool
	exited   chan struct{}

	mu       sync.Mutex
	pixels   []byte
	size     image.Point
	geometry geom.Rect
	cursor   win.HCURSOR
	cursors  map[interaction.Shape]win.HCURSOR

	// Owned by the message loop thread.
	memDC   win.HDC
	bitmap  win.HBITMAP
	bits    unsafe.Pointer
	dibSize image.Point
}

// New creates the window on a dedicated OS thread and returns once it is
// visible.
func New(opts Options) (*Window, error) {
	activeMu.Lock()
	if active != nil {
		activeMu.Unlock()
		return nil, fmt.Errorf("overlay: window already open")
	}
	w := &Window{
		exited:   make(chan struct{}),
		geometry: opts.Geometry,
		cursors:  make(map[interaction.Shape]win.HCURSOR),
	}
	w.pump.init()
	for s, id := range cursorIDs {
		w.cursors[s] = win.LoadCursor(0, win.MAKEINTRESOURCE(id))
	}
	w.cursor = w.cursors[interaction.ShapeOpenHand]
	active = w
	activeMu.Unlock()

	ready := make(chan error, 1)
	go w.run(opts, ready)
	if err := <-ready; err != nil {
		activeMu.Lock()
		active = nil
		activeMu.Unlock()
		return nil, err
	}
	return w, nil
}

func (w *Window) run(opts Options, ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(w.exited)

	classNameStr := fmt.Sprintf("MagnifierOverlay_%d", time.Now().UnixNano())
	className := syscall.StringToUTF16Ptr(classNameStr)
	wndClass := win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		Style:         win.CS_HREDRAW | win.CS_VREDRAW,
		LpfnWndProc:   syscall.NewCallback(wndProc),
		HInstance:     win.GetModuleHandle(nil),
		HbrBackground: 0, // painted from the frame buffer
		LpszClassName: className,
	}
	if atom := win.RegisterClassEx(&wndClass); atom == 0 {
		ready <- fmt.Errorf("overlay: failed to register window class")
		return
	}
	defer win.UnregisterClass(className)

	g := opts.Geometry
	hwnd := win.CreateWindowEx(
		win.WS_EX_TOPMOST|win.WS_EX_TOOLWINDOW,
		className,
		syscall.StringToUTF16Ptr(opts.Title),
		win.WS_POPUP|win.WS_VISIBLE,
		int32(g.X), int32(g.Y), int32(g.Width), int32(g.Height),
		0, 0, win.GetModuleHandle(nil), nil,
	)
	if hwnd == 0 {
		ready <- fmt.Errorf("overlay: failed to create window")
		return
	}
	w.hwnd = hwnd
	log.Printf("overlay: window created, hwnd: %v, position: (%d,%d) size: (%d,%d)", hwnd, g.X, g.Y, g.Width, g.Height)

	if err := procSetWindowDisplayAffinity.Find(); err == nil {
		r, _, _ := procSetWindowDisplayAffinity.Call(uintptr(hwnd), wdaExcludeFromCapture)
		w.excluded = r != 0
	}
	log.Printf("overlay: excluded from capture: %v", w.excluded)

	win.ShowWindow(hwnd, win.SW_SHOWNOACTIVATE)
	win.UpdateWindow(hwnd)
	ready <- nil

	var msg win.MSG
	for {
		ret := win.GetMessage(&msg, 0, 0, 0)
		if ret == 0 { // WM_QUIT
			break
		}
		if ret == -1 {
			log.Printf("overlay: GetMessage error")
			break
		}
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}
	w.releaseDIB()
}

func wndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	activeMu.Lock()
	w := active
	activeMu.Unlock()
	if w == nil || w.hwnd != hwnd {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}

	switch msg {
	case win.WM_LBUTTONDOWN, win.WM_RBUTTONDOWN:
		win.SetCapture(hwnd)
		w.forward(w.pointerEvent(hwnd, interaction.EventPress, msgButton(msg), lParam))
		return 0

	case win.WM_LBUTTONUP, win.WM_RBUTTONUP:
		if wParam&(win.MK_LBUTTON|win.MK_RBUTTON) == 0 {
			win.ReleaseCapture()
		}
		w.forward(w.pointerEvent(hwnd, interaction.EventRelease, msgButton(msg), lParam))
		return 0

	case win.WM_MOUSEMOVE:
		w.forward(w.pointerEvent(hwnd, interaction.EventMove, interaction.ButtonOther, lParam))
		return 0

	case win.WM_SETCURSOR:
		if win.LOWORD(uint32(lParam)) == win.HTCLIENT {
			w.mu.Lock()
			c := w.cursor
			w.mu.Unlock()
			win.SetCursor(c)
			return 1
		}

	case win.WM_NCHITTEST:
		return uintptr(win.HTCLIENT)

	case win.WM_ERASEBKGND:
		return 1

	case win.WM_PAINT:
		var ps win.PAINTSTRUCT
		hdc := win.BeginPaint(hwnd, &ps)
		w.paint(hdc)
		win.EndPaint(hwnd, &ps)
		return 0

	case wmApplyGeometry:
		w.mu.Lock()
		g := w.geometry
		w.mu.Unlock()
		win.SetWindowPos(hwnd, win.HWND_TOPMOST, int32(g.X), int32(g.Y), int32(g.Width), int32(g.Height), win.SWP_NOACTIVATE)
		return 0

	case wmApplyShape:
		if capturing(hwnd) || pointerInside(hwnd) {
			w.mu.Lock()
			c := w.cursor
			w.mu.Unlock()
			win.SetCursor(c)
		}
		return 0

	case win.WM_CLOSE:
		win.DestroyWindow(hwnd)
		return 0

	case win.WM_DESTROY:
		win.PostQuitMessage(0)
		return 0
	}

	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

func msgButton(msg uint32) interaction.Button {
	switch msg {
	case win.WM_LBUTTONDOWN, win.WM_LBUTTONUP:
		return interaction.ButtonPrimary
	case win.WM_RBUTTONDOWN, win.WM_RBUTTONUP:
		return interaction.ButtonSecondary
	}
	return interaction.ButtonOther
}

// pointerEvent decodes client coordinates, which are signed while the
// mouse is captured outside the window.
func (w *Window) pointerEvent(hwnd win.HWND, kind interaction.EventKind, b interaction.Button, lParam uintptr) interaction.Event {
	x := int32(int16(win.LOWORD(uint32(lParam))))
	y := int32(int16(win.HIWORD(uint32(lParam))))
	pt := win.POINT{X: x, Y: y}
	win.ClientToScreen(hwnd, &pt)
	return interaction.Event{
		Kind:   kind,
		Button: b,
		Local:  geom.PointF{X: float64(x), Y: float64(y)},
		Global: geom.Point{X: int(pt.X), Y: int(pt.Y)},
	}
}

func capturing(hwnd win.HWND) bool {
	r, _, _ := procGetCapture.Call()
	return win.HWND(r) == hwnd
}

func pointerInside(hwnd win.HWND) bool {
	var pt win.POINT
	if !win.GetCursorPos(&pt) {
		return false
	}
	var r win.RECT
	if !win.GetWindowRect(hwnd, &r) {
		return false
	}
	return pt.X >= r.Left && pt.X < r.Right && pt.Y >= r.Top && pt.Y < r.Bottom
}

// paint copies the latest frame into a cached DIB section and blits it.
func (w *Window) paint(hdc win.HDC) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pixels == nil {
		return
	}
	if !w.ensureDIB(hdc, w.size) {
		return
	}
	n := w.size.X * w.size.Y * 4
	copy(unsafe.Slice((*byte)(w.bits), n), w.pixels)
	win.BitBlt(hdc, 0, 0, int32(w.size.X), int32(w.size.Y), w.memDC, 0, 0, win.SRCCOPY)
}

func (w *Window) ensureDIB(hdc win.HDC, size image.Point) bool {
	if w.bitmap != 0 && w.dibSize == size {
		return true
	}
	w.releaseDIB()

	w.memDC = win.CreateCompatibleDC(hdc)
	if w.memDC == 0 {
		return false
	}
	header := win.BITMAPINFOHEADER{
		BiSize:        uint32(unsafe.Sizeof(win.BITMAPINFOHEADER{})),
		BiWidth:       int32(size.X),
		BiHeight:      -int32(size.Y), // top-down
		BiPlanes:      1,
		BiBitCount:    32,
		BiCompression: win.BI_RGB,
	}
	w.bitmap = win.CreateDIBSection(w.memDC, &header, win.DIB_RGB_COLORS, &w.bits, 0, 0)
	if w.bitmap == 0 {
		w.releaseDIB()
		return false
	}
	win.SelectObject(w.memDC, win.HGDIOBJ(w.bitmap))
	w.dibSize = size
	return true
}

func (w *Window) releaseDIB() {
	if w.bitmap != 0 {
		win.DeleteObject(win.HGDIOBJ(w.bitmap))
		w.bitmap = 0
	}
	if w.memDC != 0 {
		win.DeleteDC(w.memDC)
		w.memDC = 0
	}
	w.bits = nil
	w.dibSize = image.Point{}
}

// CapturesSelf reports whether screen captures include this window.
func (w *Window) CapturesSelf() bool { return !w.excluded }

// Present stores frame as BGRA and asks the window to repaint.
func (w *Window) Present(frame *image.RGBA) error {
	b := frame.Bounds()
	w.mu.Lock()
	n := b.Dx() * b.Dy() * 4
	if cap(w.pixels) < n {
		w.pixels = make([]byte, n)
	}
	w.pixels = w.pixels[:n]
	w.size = b.Size()
	for y := 0; y < b.Dy(); y++ {
		src := frame.Pix[y*frame.Stride : y*frame.Stride+b.Dx()*4]
		dst := w.pixels[y*b.Dx()*4 : (y+1)*b.Dx()*4]
		for x := 0; x < len(src); x += 4 {
			dst[x+0] = src[x+2]
			dst[x+1] = src[x+1]
			dst[x+2] = src[x+0]
			dst[x+3] = 0xff
		}
	}
	w.mu.Unlock()

	win.InvalidateRect(w.hwnd, nil, false)
	return nil
}

// SetGeometry moves and resizes the window on its own thread.
func (w *Window) SetGeometry(r geom.Rect) error {
	w.mu.Lock()
	w.geometry = r
	w.mu.Unlock()
	win.PostMessage(w.hwnd, wmApplyGeometry, 0, 0)
	return nil
}

// SetShape changes the pointer shape shown over the window.
func (w *Window) SetShape(s interaction.Shape) error {
	w.mu.Lock()
	c, ok := w.cursors[s]
	if ok && c != 0 {
		w.cursor = c
	}
	w.mu.Unlock()
	win.PostMessage(w.hwnd, wmApplyShape, 0, 0)
	return nil
}

// Close destroys the window and waits for its thread to finish.
func (w *Window) Close() error {
	w.pump.stop()
	win.PostMessage(w.hwnd, win.WM_CLOSE, 0, 0)
	<-w.exited

	activeMu.Lock()
	if active == w {
		active = nil
	}
	activeMu.Unlock()
	return nil
}
