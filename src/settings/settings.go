// Package settings holds the magnifier's persisted state: zoom, frame,
// UI scale, window geometry and refresh rate.
package settings

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"screen-magnifier/src/geom"
)

const (
	KeyUIScale         = "ui_scale"
	KeyZoomFactor      = "zoom_factor"
	KeyFrameWidth      = "frame_width"
	KeyWindowX         = "window_x"
	KeyWindowY         = "window_y"
	KeyWindowWidth     = "window_width"
	KeyWindowHeight    = "window_height"
	KeyRefreshInterval = "refresh_interval_ms"
)

// Settings is the magnifier state restored at startup and saved at exit.
type Settings struct {
	UIScale         float64
	ZoomFactor      float64
	FrameWidth      float64
	Window          geom.Rect
	RefreshInterval time.Duration
}

// Defaults returns the settings used when nothing has been saved yet.
func Defaults() Settings {
	return Settings{
		UIScale:         1.0,
		ZoomFactor:      2.0,
		FrameWidth:      5.0,
		Window:          geom.Rect{X: 0, Y: 0, Width: 600, Height: 200},
		RefreshInterval: 17 * time.Millisecond,
	}
}

// Load reads settings from store. Each missing or invalid key falls back to
// its default on its own; only an unreadable store is an error.
func Load(store Store) (Settings, error) {
	values, err := store.Read()
	if err != nil {
		return Defaults(), err
	}
	return FromValues(values), nil
}

// Save writes s to store.
func Save(store Store, s Settings) error {
	return store.Write(s.Values())
}

// FromValues parses a flat map, logging and replacing bad entries.
func FromValues(values map[string]string) Settings {
	s := Defaults()
	p := parser{values: values}

	s.UIScale = p.float(KeyUIScale, s.UIScale, positive)
	s.ZoomFactor = p.float(KeyZoomFactor, s.ZoomFactor, positive)
	s.FrameWidth = p.float(KeyFrameWidth, s.FrameWidth, nonNegative)
	s.Window.X = p.int(KeyWindowX, s.Window.X, nil)
	s.Window.Y = p.int(KeyWindowY, s.Window.Y, nil)
	s.Window.Width = p.int(KeyWindowWidth, s.Window.Width, atLeastOne)
	s.Window.Height = p.int(KeyWindowHeight, s.Window.Height, atLeastOne)
	ms := p.int(KeyRefreshInterval, int(s.RefreshInterval/time.Millisecond), atLeastOne)
	s.RefreshInterval = time.Duration(ms) * time.Millisecond
	return s
}

// Values flattens s for a Store.
func (s Settings) Values() map[string]string {
	return map[string]string{
		KeyUIScale:         formatFloat(s.UIScale),
		KeyZoomFactor:      formatFloat(s.ZoomFactor),
		KeyFrameWidth:      formatFloat(s.FrameWidth),
		KeyWindowX:         strconv.Itoa(s.Window.X),
		KeyWindowY:         strconv.Itoa(s.Window.Y),
		KeyWindowWidth:     strconv.Itoa(s.Window.Width),
		KeyWindowHeight:    strconv.Itoa(s.Window.Height),
		KeyRefreshInterval: strconv.FormatInt(int64(s.RefreshInterval/time.Millisecond), 10),
	}
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

type parser struct{ values map[string]string }

func (p parser) float(key string, def float64, valid func(float64) error) float64 {
	raw, ok := p.values[key]
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err == nil && valid != nil {
		err = valid(v)
	}
	if err != nil {
		log.Printf("settings: ignoring %s=%q: %v", key, raw, err)
		return def
	}
	return v
}

func (p parser) int(key string, def int, valid func(float64) error) int {
	raw, ok := p.values[key]
	if !ok {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err == nil && valid != nil {
		err = valid(float64(v))
	}
	if err != nil {
		log.Printf("settings: ignoring %s=%q: %v", key, raw, err)
		return def
	}
	return v
}

func positive(v float64) error {
	if v <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func nonNegative(v float64) error {
	if v < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func atLeastOne(v float64) error {
	if v < 1 {
		return fmt.Errorf("must be at least 1")
	}
	return nil
}
