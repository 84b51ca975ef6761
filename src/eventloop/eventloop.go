package eventloop

import (
	"context"
	"errors"
	"image"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"screen-magnifier/src/cursor"
	"screen-magnifier/src/geom"
	"screen-magnifier/src/interaction"
	"screen-magnifier/src/render"
	"screen-magnifier/src/settings"
	"screen-magnifier/src/viewport"
	"screen-magnifier/src/worker"
)

// PointerSource reports the global pointer position.
type PointerSource interface {
	Position() geom.Point
}

// Window is the overlay the loop renders into and takes pointer events from.
type Window interface {
	render.Sink
	Events() <-chan interaction.Event
	SetGeometry(r geom.Rect) error
	SetShape(s interaction.Shape) error
	// CapturesSelf reports whether screen captures include the window itself.
	CapturesSelf() bool
}

// Snapshotter accepts a frame copy for export. *worker.Pool satisfies it.
type Snapshotter interface {
	Submit(ctx context.Context, frame *image.RGBA, cb worker.ResultCallback) bool
}

// Deps are the loop's collaborators. Glyphs, Snapshots and Status may be nil.
type Deps struct {
	Pointer   PointerSource
	Screens   interaction.ScreenLocator
	Sampler   render.Sampler
	Glyphs    cursor.GlyphSource
	Window    Window
	Snapshots Snapshotter
	// Status receives short user-facing messages, e.g. for the tray tooltip.
	Status func(msg string)
}

// Loop is the single-threaded owner of the interaction machine, the
// compositor and the settings. Only Run's goroutine touches them.
type Loop struct {
	deps       Deps
	settings   settings.Settings
	machine    *interaction.Machine
	compositor *render.Compositor
	shape      interaction.Shape

	snapshotCh chan struct{}
	results    chan error
	quitCh     chan struct{}
	quitOnce   sync.Once
	exporting  atomic.Bool

	captureFailing bool
}

// New creates a loop for the given settings. s.Window is the initial
// window geometry.
func New(s settings.Settings, deps Deps) *Loop {
	m := interaction.NewMachine(s.Window, s.FrameWidth, deps.Screens)
	s.Window = m.Geometry()
	return &Loop{
		deps:       deps,
		settings:   s,
		machine:    m,
		compositor: render.NewCompositor(),
		shape:      m.Shape(),
		snapshotCh: make(chan struct{}, 1),
		results:    make(chan error, 1),
		quitCh:     make(chan struct{}),
	}
}

// RequestSnapshot asks the loop to export the current frame. Safe from any
// goroutine. It reports false when a request is already pending or an
// export is still running; the request then coalesces with that one.
func (l *Loop) RequestSnapshot() bool {
	if l.exporting.Load() {
		return false
	}
	select {
	case l.snapshotCh <- struct{}{}:
		return true
	default:
		return false
	}
}

// Quit stops Run. Safe from any goroutine and idempotent.
func (l *Loop) Quit() {
	l.quitOnce.Do(func() { close(l.quitCh) })
}

// Settings returns the settings with the current window geometry. Call it
// after Run has returned.
func (l *Loop) Settings() settings.Settings {
	s := l.settings
	s.Window = l.machine.Geometry()
	return s
}

// Run renders on every tick and handles window events until ctx is
// cancelled, Quit is called or the window's event stream ends.
func (l *Loop) Run(ctx context.Context) error {
	if l.deps.Window == nil || l.deps.Pointer == nil || l.deps.Screens == nil || l.deps.Sampler == nil {
		return errors.New("eventloop: missing dependency")
	}
	interval := l.settings.RefreshInterval
	if interval <= 0 {
		interval = settings.Defaults().RefreshInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	// Unblocks snapshot callbacks that finish after the loop has gone.
	defer l.Quit()

	l.applyGeometry()
	l.applyShape()

	events := l.deps.Window.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.quitCh:
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			l.handleEvent(ev)
		case <-ticker.C:
			if err := l.tick(); err != nil {
				log.Printf("eventloop: present failed: %v", err)
			}
		case <-l.snapshotCh:
			l.snapshot(ctx)
		case err := <-l.results:
			l.snapshotDone(err)
		}
	}
}

func (l *Loop) handleEvent(ev interaction.Event) {
	if l.machine.Handle(ev) {
		l.applyGeometry()
	}
	if s := l.machine.Shape(); s != l.shape {
		l.shape = s
		l.applyShape()
	}
}

func (l *Loop) applyGeometry() {
	if err := l.deps.Window.SetGeometry(l.machine.Geometry()); err != nil {
		log.Printf("eventloop: set geometry: %v", err)
	}
}

func (l *Loop) applyShape() {
	if err := l.deps.Window.SetShape(l.shape); err != nil {
		log.Printf("eventloop: set shape %s: %v", l.shape, err)
	}
}

// tick renders one frame. A pointer that is on no screen skips the frame.
func (l *Loop) tick() error {
	pos := l.deps.Pointer.Position()
	screen, ok := l.deps.Screens.ScreenAt(pos)
	if !ok {
		return nil
	}

	var glyph image.Image
	var metrics *viewport.GlyphMetrics
	if l.deps.Glyphs != nil {
		if g, ok := l.deps.Glyphs.Current(); ok && g.Image != nil {
			m := g.Metrics()
			metrics = &m
			glyph = g.Image
		}
	}

	plan := viewport.ComputeRenderPlan(viewport.Params{
		Window:     l.machine.Geometry(),
		FrameWidth: l.settings.FrameWidth,
		Zoom:       l.settings.ZoomFactor,
		UIScale:    l.settings.UIScale,
		Cursor:     pos,
		Screen:     screen,
		Glyph:      metrics,
	})
	if !l.deps.Window.CapturesSelf() {
		plan.HasSelfMask = false
	}

	var sample *image.RGBA
	if region := plan.Valid.Outer().Intersect(screen.Image()); !region.Empty() {
		img, err := l.deps.Sampler.Capture(region)
		switch {
		case err != nil:
			if !l.captureFailing {
				log.Printf("eventloop: capture %v: %v", region, err)
			}
			l.captureFailing = true
		default:
			if l.captureFailing {
				log.Printf("eventloop: capture recovered")
			}
			l.captureFailing = false
			sample = img
		}
	}

	frame := l.compositor.Compose(plan, sample, glyph)
	return l.deps.Window.Present(frame)
}

func (l *Loop) snapshot(ctx context.Context) {
	if l.deps.Snapshots == nil {
		return
	}
	frame := l.compositor.Frame()
	if frame == nil {
		l.status("Nothing to copy yet")
		return
	}
	ok := l.deps.Snapshots.Submit(ctx, render.Clone(frame), func(err error) {
		select {
		case l.results <- err:
		case <-l.quitCh:
		}
	})
	if !ok {
		l.status("Busy, please retry")
		return
	}
	l.exporting.Store(true)
}

func (l *Loop) snapshotDone(err error) {
	l.exporting.Store(false)
	if err != nil {
		log.Printf("eventloop: snapshot failed: %v", err)
		l.status("Copy failed")
		return
	}
	l.status("View copied")
}

func (l *Loop) status(msg string) {
	if l.deps.Status != nil {
		l.deps.Status(msg)
	}
}
