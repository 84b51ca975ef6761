package tray

import (
	"fmt"
	"log"
	"sync"

	"github.com/getlantern/systray"
)

// Menu wires the tray items to the application. Nil callbacks hide the item.
type Menu struct {
	Title      string
	Tooltip    string
	OnSnapshot func()
	OnQuit     func()
	// OnReady runs once the icon is shown.
	OnReady func()
}

var (
	mu          sync.Mutex
	ready       bool
	baseTooltip string
)

// Run shows the tray icon and blocks until Quit is called. It must run on
// the thread that owns the platform's UI loop.
func Run(m Menu) {
	systray.Run(func() { onReady(m) }, onExit)
}

func onReady(m Menu) {
	systray.SetIcon(Icon())
	systray.SetTitle(m.Title)
	systray.SetTooltip(m.Tooltip)

	mu.Lock()
	ready = true
	baseTooltip = m.Tooltip
	mu.Unlock()

	var snapshotCh, quitCh <-chan struct{}
	if m.OnSnapshot != nil {
		snapshotCh = systray.AddMenuItem("Copy view", "Copy the magnified view to the clipboard").ClickedCh
	}
	systray.AddSeparator()
	if m.OnQuit != nil {
		quitCh = systray.AddMenuItem("Quit", "Quit the magnifier").ClickedCh
	}

	go func() {
		for {
			select {
			case <-snapshotCh:
				m.OnSnapshot()
			case <-quitCh:
				m.OnQuit()
				return
			}
		}
	}()

	if m.OnReady != nil {
		m.OnReady()
	}
	log.Printf("Tray ready")
}

func onExit() {
	mu.Lock()
	ready = false
	mu.Unlock()
}

// Quit removes the icon and makes Run return.
func Quit() {
	systray.Quit()
}

// UpdateTooltip replaces the tooltip. Ignored until the tray is ready.
func UpdateTooltip(text string) {
	mu.Lock()
	defer mu.Unlock()
	if !ready {
		return
	}
	systray.SetTooltip(text)
}

// Status shows msg after the base tooltip, e.g. "Magnifier 2x - View copied".
func Status(msg string) {
	mu.Lock()
	base := baseTooltip
	mu.Unlock()
	if msg == "" {
		UpdateTooltip(base)
		return
	}
	UpdateTooltip(fmt.Sprintf("%s - %s", base, msg))
}

// ZoomTooltip is the tooltip text for a zoom factor.
func ZoomTooltip(zoom float64) string {
	return fmt.Sprintf("Magnifier %gx", zoom)
}
