//go:build linux

package cursor

import (
	"fmt"
	"image"
	"log"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xfixes"
)

// Source reads the pointer glyph through the XFixes extension.
type Source struct {
	conn   *xgb.Conn
	serial uint32
	glyph  Glyph
	ok     bool
}

// NewGlyphSource connects to the X server named by $DISPLAY.
func NewGlyphSource() (*Source, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("cursor: connect to X server: %w", err)
	}
	if err := xfixes.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("cursor: XFixes unavailable: %w", err)
	}
	// GetCursorImage needs XFixes 1.0 or later; the version handshake is
	// mandatory before any other request.
	if _, err := xfixes.QueryVersion(conn, 4, 0).Reply(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("cursor: XFixes version query: %w", err)
	}
	return &Source{conn: conn}, nil
}

// Current returns the glyph currently shown by the X server.
func (s *Source) Current() (Glyph, bool) {
	reply, err := xfixes.GetCursorImage(s.conn).Reply()
	if err != nil {
		log.Printf("cursor: GetCursorImage failed: %v", err)
		return Glyph{}, false
	}
	if reply.Width == 0 || reply.Height == 0 {
		return Glyph{}, false
	}
	if s.ok && reply.CursorSerial == s.serial {
		return s.glyph, true
	}

	s.glyph = Glyph{
		Image:   fromARGB(int(reply.Width), int(reply.Height), reply.CursorImage),
		Hotspot: image.Pt(int(reply.Xhot), int(reply.Yhot)),
	}
	s.serial = reply.CursorSerial
	s.ok = true
	return s.glyph, true
}

// Close releases the X connection.
func (s *Source) Close() error {
	s.conn.Close()
	return nil
}
