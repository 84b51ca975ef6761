//go:build windows

package cursor

import (
	"fmt"
	"image"
	"log"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

var (
	user32            = windows.NewLazySystemDLL("user32.dll")
	procGetCursorInfo = user32.NewProc("GetCursorInfo")
	procCopyIcon      = user32.NewProc("CopyIcon")
	procGetIconInfo   = user32.NewProc("GetIconInfo")
	procDrawIconEx    = user32.NewProc("DrawIconEx")
	procDestroyIcon   = user32.NewProc("DestroyIcon")
)

const (
	cursorShowing = 0x00000001
	diNormal      = 0x0003
)

type cursorInfo struct {
	CbSize      uint32
	Flags       uint32
	HCursor     win.HCURSOR
	PtScreenPos win.POINT
}

type iconInfo struct {
	FIcon    int32
	XHotspot uint32
	YHotspot uint32
	HbmMask  win.HBITMAP
	HbmColor win.HBITMAP
}

// Source reads the pointer glyph with GDI. Glyphs are cached per cursor
// handle, so rendering only happens when the shape changes.
type Source struct {
	last  win.HCURSOR
	glyph Glyph
	ok    bool
}

// NewGlyphSource checks that the required user32 entry points exist.
func NewGlyphSource() (*Source, error) {
	for _, p := range []*windows.LazyProc{procGetCursorInfo, procCopyIcon, procGetIconInfo, procDrawIconEx, procDestroyIcon} {
		if err := p.Find(); err != nil {
			return nil, fmt.Errorf("cursor: %s unavailable: %w", p.Name, err)
		}
	}
	return &Source{}, nil
}

// Current returns the glyph of the visible system cursor.
func (s *Source) Current() (Glyph, bool) {
	ci := cursorInfo{CbSize: uint32(unsafe.Sizeof(cursorInfo{}))}
	if r, _, _ := procGetCursorInfo.Call(uintptr(unsafe.Pointer(&ci))); r == 0 {
		return Glyph{}, false
	}
	if ci.Flags&cursorShowing == 0 || ci.HCursor == 0 {
		return Glyph{}, false
	}
	if ci.HCursor == s.last {
		return s.glyph, s.ok
	}

	g, err := readGlyph(ci.HCursor)
	if err != nil {
		log.Printf("cursor: %v", err)
	}
	s.last, s.glyph, s.ok = ci.HCursor, g, err == nil
	return s.glyph, s.ok
}

// Close is a no-op; every GDI object is released after each read.
func (s *Source) Close() error { return nil }

func readGlyph(h win.HCURSOR) (Glyph, error) {
	icon, _, _ := procCopyIcon.Call(uintptr(h))
	if icon == 0 {
		return Glyph{}, fmt.Errorf("CopyIcon failed")
	}
	defer procDestroyIcon.Call(icon)

	var ii iconInfo
	if r, _, _ := procGetIconInfo.Call(icon, uintptr(unsafe.Pointer(&ii))); r == 0 {
		return Glyph{}, fmt.Errorf("GetIconInfo failed")
	}
	defer func() {
		if ii.HbmMask != 0 {
			win.DeleteObject(win.HGDIOBJ(ii.HbmMask))
		}
		if ii.HbmColor != 0 {
			win.DeleteObject(win.HGDIOBJ(ii.HbmColor))
		}
	}()

	w := int(win.GetSystemMetrics(win.SM_CXCURSOR))
	h2 := int(win.GetSystemMetrics(win.SM_CYCURSOR))
	if w <= 0 || h2 <= 0 {
		return Glyph{}, fmt.Errorf("invalid cursor size %dx%d", w, h2)
	}

	onBlack, err := renderIcon(icon, w, h2, 0x00)
	if err != nil {
		return Glyph{}, err
	}
	onWhite, err := renderIcon(icon, w, h2, 0xff)
	if err != nil {
		return Glyph{}, err
	}

	return Glyph{
		Image:   fromBlackWhite(w, h2, onBlack, onWhite),
		Hotspot: image.Pt(int(ii.XHotspot), int(ii.YHotspot)),
	}, nil
}

// renderIcon draws icon into a top-down 32-bit DIB pre-filled with bg and
// returns a copy of its BGRA pixels.
func renderIcon(icon uintptr, width, height int, bg byte) ([]byte, error) {
	screenDC := win.GetDC(0)
	defer win.ReleaseDC(0, screenDC)

	memDC := win.CreateCompatibleDC(screenDC)
	if memDC == 0 {
		return nil, fmt.Errorf("CreateCompatibleDC failed")
	}
	defer win.DeleteDC(memDC)

	header := win.BITMAPINFOHEADER{
		BiSize:        uint32(unsafe.Sizeof(win.BITMAPINFOHEADER{})),
		BiWidth:       int32(width),
		BiHeight:      -int32(height),
		BiPlanes:      1,
		BiBitCount:    32,
		BiCompression: win.BI_RGB,
	}
	var bits unsafe.Pointer
	bmp := win.CreateDIBSection(memDC, &header, win.DIB_RGB_COLORS, &bits, 0, 0)
	if bmp == 0 || bits == nil {
		return nil, fmt.Errorf("CreateDIBSection failed")
	}
	defer win.DeleteObject(win.HGDIOBJ(bmp))

	old := win.SelectObject(memDC, win.HGDIOBJ(bmp))
	defer win.SelectObject(memDC, old)

	buf := unsafe.Slice((*byte)(bits), width*height*4)
	for i := range buf {
		buf[i] = bg
	}
	if r, _, _ := procDrawIconEx.Call(uintptr(memDC), 0, 0, icon, uintptr(width), uintptr(height), 0, 0, diNormal); r == 0 {
		return nil, fmt.Errorf("DrawIconEx failed")
	}

	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}
