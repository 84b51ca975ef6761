package screenshot

import (
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/kbinani/screenshot"

	"screen-magnifier/src/geom"
)

// Capturer reads screen pixels. The zero value is ready to use.
type Capturer struct{}

// Capture captures r, given in global screen coordinates. The returned
// image's bounds equal r so callers can index it with screen coordinates.
func (Capturer) Capture(r image.Rectangle) (*image.RGBA, error) {
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return nil, fmt.Errorf("invalid capture dimensions: width=%d, height=%d", r.Dx(), r.Dy())
	}

	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return nil, fmt.Errorf("failed to capture region: %w", err)
	}
	img.Rect = img.Rect.Add(r.Min.Sub(img.Rect.Min))
	return img, nil
}

const displayCacheTTL = time.Second

// Displays locates screens by point. Display bounds are cached briefly so
// pointer events do not query the display server each time.
type Displays struct {
	mu      sync.Mutex
	query   func() []image.Rectangle
	now     func() time.Time
	bounds  []geom.Rect
	fetched time.Time
}

// NewDisplays returns a locator backed by the active displays.
func NewDisplays() *Displays {
	return newDisplays(activeDisplayBounds, time.Now)
}

func newDisplays(query func() []image.Rectangle, now func() time.Time) *Displays {
	return &Displays{query: query, now: now}
}

// ScreenAt returns the bounds of the display containing p.
func (d *Displays) ScreenAt(p geom.Point) (geom.Rect, bool) {
	for _, b := range d.All() {
		if b.Contains(p) {
			return b, true
		}
	}
	return geom.Rect{}, false
}

// Primary returns the bounds of the first display.
func (d *Displays) Primary() (geom.Rect, bool) {
	all := d.All()
	if len(all) == 0 {
		return geom.Rect{}, false
	}
	return all[0], true
}

// All returns the bounds of every active display.
func (d *Displays) All() []geom.Rect {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	if d.bounds == nil || now.Sub(d.fetched) >= displayCacheTTL {
		raw := d.query()
		bounds := make([]geom.Rect, 0, len(raw))
		for _, r := range raw {
			bounds = append(bounds, geom.FromImage(r))
		}
		if len(bounds) != len(d.bounds) {
			log.Printf("screenshot: %d active displays", len(bounds))
		}
		d.bounds = bounds
		d.fetched = now
	}
	return d.bounds
}

func activeDisplayBounds() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	out := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, screenshot.GetDisplayBounds(i))
	}
	return out
}
