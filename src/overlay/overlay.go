// Package overlay owns the magnifier's native window: frameless, always on
// top, showing composed frames and forwarding pointer events to the event
// loop. The native event pump runs on its own goroutine; the loop only ever
// sees interaction.Events on a channel.
package overlay

import (
	"errors"
	"sync"

	"screen-magnifier/src/geom"
	"screen-magnifier/src/interaction"
)

// ErrUnsupported is returned by New on platforms without a native window.
var ErrUnsupported = errors.New("overlay: no native window on this platform")

// Options configure a new window.
type Options struct {
	Title    string
	Geometry geom.Rect
}

const eventBuffer = 64

// pump is the channel side shared by every platform window.
type pump struct {
	events chan interaction.Event
	done   chan struct{}
	once   sync.Once
}

func (p *pump) init() {
	p.events = make(chan interaction.Event, eventBuffer)
	p.done = make(chan struct{})
}

// Events delivers pointer events in the order the window received them.
func (p *pump) Events() <-chan interaction.Event { return p.events }

// forward hands ev to the loop. Moves are dropped when the loop is behind;
// the state machine works from absolute positions, so a dropped move only
// merges into the next one. Presses and releases always get through unless
// the window is closing.
func (p *pump) forward(ev interaction.Event) {
	if ev.Kind == interaction.EventMove {
		select {
		case p.events <- ev:
		case <-p.done:
		default:
		}
		return
	}
	select {
	case p.events <- ev:
	case <-p.done:
	}
}

func (p *pump) stop() {
	p.once.Do(func() { close(p.done) })
}
