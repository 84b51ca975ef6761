package hotkey

import (
	"fmt"
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

// Listener runs one gohook event loop and fires a callback for each
// registered key combination.
type Listener struct {
	mu      sync.Mutex
	matcher matcher
	started bool
	done    chan struct{}
}

// NewListener returns a listener with no bindings.
func NewListener() *Listener {
	return &Listener{done: make(chan struct{})}
}

// Register adds a binding for a combo such as "Ctrl+Alt+Q". It must be
// called before Start.
func (l *Listener) Register(combo string, callback func()) error {
	b, err := newBinding(combo, callback)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return fmt.Errorf("hotkey: register %q after start", combo)
	}
	l.matcher.bindings = append(l.matcher.bindings, b)
	log.Printf("Hotkey registered: %s -> %v", combo, b.keys)
	return nil
}

// Start begins listening in the background. It is a no-op without bindings.
func (l *Listener) Start() {
	l.mu.Lock()
	if l.started || len(l.matcher.bindings) == 0 {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	go func() {
		defer close(l.done)
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in hotkey goroutine: %v", r)
			}
		}()

		log.Printf("Starting gohook event loop...")
		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("ERROR: gohook.Start() returned nil channel")
			return
		}

		for ev := range evChan {
			var fired []func()
			switch ev.Kind {
			case gohook.KeyDown:
				l.mu.Lock()
				fired = l.matcher.keyDown(ev.Rawcode)
				l.mu.Unlock()
			case gohook.KeyUp:
				l.mu.Lock()
				l.matcher.keyUp(ev.Rawcode)
				l.mu.Unlock()
			}
			// Callbacks run outside the lock so they may block briefly.
			for _, cb := range fired {
				cb()
			}
		}
		log.Printf("Event channel closed")
	}()
}

// Stop ends the gohook event loop and waits for the listener goroutine.
func (l *Listener) Stop() {
	l.mu.Lock()
	started := l.started
	l.mu.Unlock()
	if !started {
		return
	}
	gohook.End()
	<-l.done
}

type keyState struct {
	name     string
	rawcodes []uint16
	pressed  bool
}

type binding struct {
	combo    string
	keys     []string
	states   []keyState
	callback func()
}

func newBinding(combo string, callback func()) (binding, error) {
	keys := parseHotkey(combo)
	b := binding{combo: combo, keys: keys, callback: callback}
	for _, keyName := range keys {
		if keyName == "" {
			continue
		}
		rawcodes := keyNameToRawcodes(keyName)
		if len(rawcodes) == 0 {
			return binding{}, fmt.Errorf("hotkey %q: cannot map key %q", combo, keyName)
		}
		b.states = append(b.states, keyState{name: keyName, rawcodes: rawcodes})
	}
	if len(b.states) == 0 {
		return binding{}, fmt.Errorf("hotkey %q: no keys", combo)
	}
	return b, nil
}

// matcher tracks which keys of each binding are held down.
type matcher struct {
	bindings []binding
}

// keyDown marks rawcode pressed and returns the callbacks of every binding
// that became complete. A fired binding resets so holding the keys does
// not repeat it.
func (m *matcher) keyDown(rawcode uint16) []func() {
	var fired []func()
	for bi := range m.bindings {
		b := &m.bindings[bi]
		for i := range b.states {
			if contains(b.states[i].rawcodes, rawcode) {
				b.states[i].pressed = true
			}
		}
		allPressed := true
		for i := range b.states {
			if !b.states[i].pressed {
				allPressed = false
				break
			}
		}
		if !allPressed {
			continue
		}
		log.Printf("HOTKEY COMBINATION DETECTED! %s", b.combo)
		for i := range b.states {
			b.states[i].pressed = false
		}
		if b.callback != nil {
			fired = append(fired, b.callback)
		}
	}
	return fired
}

func (m *matcher) keyUp(rawcode uint16) {
	for bi := range m.bindings {
		b := &m.bindings[bi]
		for i := range b.states {
			if contains(b.states[i].rawcodes, rawcode) {
				b.states[i].pressed = false
			}
		}
	}
}

func contains(codes []uint16, c uint16) bool {
	for _, v := range codes {
		if v == c {
			return true
		}
	}
	return false
}

// parseHotkey converts a hotkey string like "Ctrl+Alt+q" to normalized key names
func parseHotkey(hotkeyConfig string) []string {
	// Convert to lowercase and split by +
	parts := strings.Split(strings.ToLower(hotkeyConfig), "+")
	var keys []string

	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "ctrl", "control":
			keys = append(keys, "ctrl")
		case "alt":
			keys = append(keys, "alt")
		case "shift":
			keys = append(keys, "shift")
		case "win", "cmd", "super":
			keys = append(keys, "cmd")
		default:
			// Regular key
			keys = append(keys, part)
		}
	}

	return keys
}

// keyNameToRawcodes maps a key name to the rawcodes gohook reports for it.
// Letters, digits and F1-F24 follow the platform's contiguous code ranges;
// everything else comes from namedKeys.
func keyNameToRawcodes(keyName string) []uint16 {
	keyName = strings.ToLower(strings.TrimSpace(keyName))

	if len(keyName) == 1 {
		c := keyName[0]
		switch {
		case c >= 'a' && c <= 'z':
			return letterRawcodes(c)
		case c >= '0' && c <= '9':
			return []uint16{uint16(c)}
		}
	}
	if n, ok := functionKeyNumber(keyName); ok {
		return []uint16{functionKeyBase + uint16(n-1)}
	}
	if codes, ok := namedKeys[keyName]; ok {
		return codes
	}

	log.Printf("WARNING: Unknown key name '%s', cannot map to rawcode", keyName)
	return nil
}

// functionKeyNumber parses "f1" through "f24".
func functionKeyNumber(name string) (int, bool) {
	if len(name) < 2 || len(name) > 3 || name[0] != 'f' {
		return 0, false
	}
	n := 0
	for _, c := range name[1:] {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, n >= 1 && n <= 24
}
